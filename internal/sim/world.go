package sim

// Phase enumerates the eight coarse run states spec.md §4.7 drives the
// run loop with.
type Phase int32

const (
	PhaseExplore Phase = iota
	PhaseFight
	PhaseChoose
	PhasePowerUp
	PhaseRisk
	PhaseEscalate
	PhaseCashOut
	PhaseReset
)

// AttackState is the player's attack-window state machine (spec §3, §4.4).
type AttackState int32

const (
	AttackIdle AttackState = iota
	AttackWindup
	AttackActive
	AttackRecovery
)

const fixedStep = FixedOne / 60 // 1/60 s in Q16.16, per spec §3/§4.2
const maxAccumulator = FixedOne / 10 // dt is clamped to 0.1s, spec §4.2

// inputState is the buffered per-tick control surface (spec §6.1).
type inputState struct {
	AxisX, AxisY                                          Fixed
	Rolling, Jumping, LightAttack, HeavyAttack, Blocking, Special int32
}

// Player holds the single player instance's kinematics, resources and
// combat/ability state, per spec.md §3. Field layout loosely mirrors
// the teacher's internal/game/player.go Player struct, re-expressed in
// Q16.16 and restructured around the spec's explicit state machines
// instead of always-on bot AI.
type Player struct {
	X, Y   Fixed
	VX, VY Fixed
	FX, FY Fixed // facing unit vector, defaults (1,0)

	HP, Stamina Fixed // both normalized to [0,1]
	Gold        int32
	Essence     int32

	Grounded      bool
	JumpCount     int32
	WallSliding   bool
	Rolling       bool
	Invulnerable  bool
	RollTimer     Fixed
	RollCooldown  Fixed

	AttackState  AttackState
	AttackTimer  Fixed
	AttackKind   AttackKind
	ComboCount   int32
	ComboWindow  Fixed
	ParryWindow  Fixed
	CounterWindow Fixed
	Hyperarmor   bool
	ArmorValue   Fixed
	BlockActive  bool
	BlockFacing  Fixed // angle at block start
	BlockStart   Fixed // sim time block began

	Ability AbilityState

	Weapon WeaponID
	Class   ClassID

	input       inputState
	nextInput   inputState
	lastHitTime Fixed
	lastAttackerStunned bool
}

// World owns every piece of mutable simulation state, per spec.md §2/§5:
// a single exclusive resource, no locking, no wall-clock reads.
type World struct {
	Seed       uint64
	rng        rngBank
	accumulator Fixed
	TimeSeconds Fixed
	TickCount   uint64

	Player Player

	Enemies  [maxEnemies]Enemy
	EnemyAlive [maxEnemies]bool
	nextEnemyID uint32

	Packs [maxPacks]Pack

	Bodies physicsWorld

	PhaseState phaseState

	Choices choiceState

	Risk     riskState
	Escalate escalateState
	CashOut  cashOutState

	Upgrades upgradeState
}

// NewWorld constructs and initializes a World, equivalent to calling
// init_run(seed, start_weapon) per spec.md §4.2.
func NewWorld(seed uint64, startWeapon WeaponID) *World {
	w := &World{}
	w.Init(seed, startWeapon)
	return w
}

// Init zeroes the world and re-seeds it, per spec.md §4.2. Calling
// Init back-to-back with identical arguments is idempotent (spec §8).
func (w *World) Init(seed uint64, startWeapon WeaponID) {
	*w = World{}
	w.Seed = seed
	w.rng = newRNGBank(seed)

	w.Player = Player{
		X: FixedHalf, Y: FixedHalf,
		FX: FixedOne, FY: 0,
		HP: FixedOne, Stamina: FixedOne,
		ArmorValue: 0,
		Weapon: startWeapon,
		Class:  classForWeapon(startWeapon),
	}

	w.PhaseState = phaseState{Current: PhaseExplore}
	w.Upgrades = newUpgradeState()
	w.Bodies.init()
	w.Bodies.setBody(bodyPlayerSlot, &w.Player.X, &w.Player.Y, &w.Player.VX, &w.Player.VY, playerRadius, playerMass, FixedFromFloat(worldRestitution))
	// Empty enemy array, empty packs per spec.md §4.2 — the first room's
	// encounter spawns lazily on the first Explore->Fight transition.
}

// Reset re-initializes the world with a new seed, preserving the
// current weapon (spec §4.2: "identical to init" for this core).
func (w *World) Reset(newSeed uint64) {
	w.Init(newSeed, w.Player.Weapon)
}

// SetPlayerInput buffers the next tick's control inputs (spec §6.1).
// Axes are clamped to [-1,1] before storage.
func (w *World) SetPlayerInput(axisX, axisY float32, rolling, jumping, light, heavy, blocking, special int32) {
	w.Player.nextInput = inputState{
		AxisX:       FClamp(FixedFromFloat(float64(axisX)), -FixedOne, FixedOne),
		AxisY:       FClamp(FixedFromFloat(float64(axisY)), -FixedOne, FixedOne),
		Rolling:     boolToI32(rolling != 0),
		Jumping:     boolToI32(jumping != 0),
		LightAttack: boolToI32(light != 0),
		HeavyAttack: boolToI32(heavy != 0),
		Blocking:    boolToI32(blocking != 0),
		Special:     boolToI32(special != 0),
	}
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Advance steps the fixed-dt accumulator, per spec.md §4.2. dt is
// clamped to 0.1s; any leftover sub-step time carries to the next call.
func (w *World) Advance(dt float32) {
	d := FixedFromFloat(float64(dt))
	d = FClamp(d, 0, maxAccumulator)
	w.accumulator += d
	for w.accumulator >= fixedStep {
		w.tick()
		w.accumulator -= fixedStep
	}
}

// tick runs the exact nine-step order spec.md §4.2 mandates.
func (w *World) tick() {
	w.Player.input = w.Player.nextInput

	w.phasePreStep()
	w.physicsStep()
	w.combatStep()
	w.abilitiesStep()
	w.enemyAIStep()
	w.packStep()
	w.phasePostStep()

	w.TickCount++
	w.TimeSeconds += fixedStep
}
