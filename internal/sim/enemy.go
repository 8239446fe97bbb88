package sim

// Enemy AI: a twelve-state priority-cascade FSM with an emotion/memory
// layer, per spec.md §3/§4.5. Grounded on the teacher's internal/game
// bot-control fields (per-entity tick-counted timers, distance-gated
// target acquisition) generalized from the teacher's single "attack if
// in range" bot loop to the spec's full perception -> emotion ->
// priority-cascade -> action pipeline, with the exact attribute set and
// cascade order spec.md §3/§4.5 name.

// EnemyState is one of the twelve behavior states spec.md §3 names.
type EnemyState int32

const (
	EnemyIdle EnemyState = iota
	EnemyPatrol
	EnemyInvestigate
	EnemyAlert
	EnemyApproach
	EnemyStrafe
	EnemyAttack
	EnemyRetreat
	EnemyRecover
	EnemyFlee
	EnemyAmbush
	EnemyFlank
	enemyStateCount
)

// EnemyRole is the pack-assigned combat role (spec §4.6).
type EnemyRole int32

const (
	RoleNone EnemyRole = iota
	RoleLeader
	RoleBruiser
	RoleSkirmisher
	RoleSupport
	RoleScout
)

// Emotion biases state-selection thresholds and combat scalars, per
// spec.md §4.5's six-value emotion enum and its documented modifiers.
type Emotion int32

const (
	EmotionCalm Emotion = iota
	EmotionAggressive
	EmotionFearful
	EmotionDesperate
	EmotionConfident
	EmotionFrustrated
)

// attackSubPhase tracks which of Attack's three sub-windows (spec
// §4.5: anticipation/execute/recovery) has already fired its one-shot
// action this Attack state lifetime, so Execute's hit resolution and
// Recovery's cooldown/transition each run exactly once.
type attackSubPhase int32

const (
	attackSubNone attackSubPhase = iota
	attackSubExecute
	attackSubRecovery
)

// Enemy is one wolf-pack member. Arena-slotted, no pointers, POD for
// snapshotting (spec §3, §6.4).
type Enemy struct {
	ID    uint32
	Type  EnemyType
	Alive bool

	X, Y   Fixed
	VX, VY Fixed
	FX, FY Fixed

	HP      Fixed
	Stamina Fixed

	State          EnemyState
	StateTimer     Fixed
	AttackCooldown Fixed
	attackSubPhase attackSubPhase

	Role    EnemyRole
	Emotion Emotion

	// Attributes, drawn once at spawn within the ranges spec.md §3
	// names: aggression ∈ [0.3,0.7], intelligence ∈ [0.4,0.8],
	// coordination ∈ [0.5,0.8], morale ∈ [0,1], awareness ∈ [0,1].
	Aggression   Fixed
	Intelligence Fixed
	Coordination Fixed
	Morale       Fixed
	Awareness    Fixed

	// Memory, updated every tick per spec §4.5.
	PlayerSpeedEstimate Fixed
	LastBlockTime       Fixed
	LastRollTime        Fixed
	SuccessfulAttacks   int32
	FailedAttacks       int32

	PackID    int32 // -1 if unassigned
	PackIndex int32 // -1 if unassigned
	Fatigue   Fixed // 0..1

	// Perception memory of the player's last known position.
	HasLastSeen     bool
	LastSeenPlayerX Fixed
	LastSeenPlayerY Fixed
	MemoryTimer     Fixed // counts down; forgets last-seen position at 0
}

const (
	memoryDurationSeconds  = 6.0
	fleeHealthFrac         = 0.3 // cascade condition 1 health threshold, spec §4.5
	fleeMoraleFrac         = 0.4 // cascade condition 1 morale threshold, spec §4.5
	staminaFloorForAttack  = 0.3
	approachBandFrac       = 0.7 // detection_range * 0.7, cascade condition 4
	confidentSuccessRate   = 0.7
	confidentMoraleFloor   = 0.7
	frustratedFailedCount  = 5
	frustratedSuccessCeil  = 0.3
	desperateHealthFrac    = 0.2
	desperateAlliesFloor   = 2
	aggressiveAggression   = 0.6
	lastBlockRecentSeconds = 1.0
	lastBlockCooldownBonus = 0.5
)

var memoryDurationFixed = FixedFromFloat(memoryDurationSeconds)

// randFixedRange draws a Q16.16 value uniformly in [lo,hi] from the
// given substream, for spec §3's attribute ranges.
func randFixedRange(r *rngState, lo, hi float64) Fixed {
	return FixedFromFloat(lo) + FMul(r.nextFixed01(), FixedFromFloat(hi-lo))
}

// SpawnEnemy allocates the first free enemy slot, per spec.md §3's
// fixed-capacity arena, and rolls its emotion-independent attributes
// from the SPAWN substream (spawning is a single deterministic event,
// so its attribute draws live alongside type/position). Returns the
// slot index or BodyPoolExhausted.
func (w *World) SpawnEnemy(etype EnemyType, x, y float32) int32 {
	for i := 0; i < maxEnemies; i++ {
		if !w.EnemyAlive[i] {
			stats := statsFor(etype)
			r := w.rng.stream(StreamSpawn)
			w.nextEnemyID++
			w.Enemies[i] = Enemy{
				ID:      w.nextEnemyID,
				Type:    etype,
				X:       FixedFromFloat(float64(x)),
				Y:       FixedFromFloat(float64(y)),
				FX:      FixedOne,
				HP:      stats.MaxHealth,
				Stamina: stats.MaxStamina,
				State:   EnemyIdle,
				Role:    RoleNone,
				Emotion: EmotionCalm,

				Aggression:   randFixedRange(r, 0.3, 0.7),
				Intelligence: randFixedRange(r, 0.4, 0.8),
				Coordination: randFixedRange(r, 0.5, 0.8),
				Morale:       FixedOne,
				Awareness:    0,

				PackID:    -1,
				PackIndex: -1,
				Alive:     true,
			}
			w.EnemyAlive[i] = true
			return int32(i)
		}
	}
	return StatusBodyPoolExhausted
}

// RemoveEnemy frees an enemy slot (spec §3 lifecycle).
func (w *World) RemoveEnemy(i int32) int32 {
	if i < 0 || int(i) >= maxEnemies || !w.EnemyAlive[i] {
		return StatusInvalidBodyIndex
	}
	w.EnemyAlive[i] = false
	w.Enemies[i].Alive = false
	return StatusOK
}

// applyPlayerDamageToEnemy is the single entry point for player-sourced
// damage against an enemy (spec §4.4/§4.5 cross-wiring).
func (w *World) applyPlayerDamageToEnemy(i int, damage Fixed, guaranteed bool) {
	e := &w.Enemies[i]
	mult := w.Player.berserkerDamageMultiplier()
	e.HP = FMax(0, e.HP-FMul(damage, mult))
	if guaranteed {
		e.StateTimer = 0 // forces a re-evaluation next tick
	}
	if e.HP <= 0 {
		w.RemoveEnemy(int32(i))
		w.Player.Essence += 1
		return
	}
}

// enemyAIStep runs perception, emotion, memory, state selection, and
// state behavior for every living enemy, in increasing slot order
// (spec §5 determinism requirement).
func (w *World) enemyAIStep() {
	for i := 0; i < maxEnemies; i++ {
		if !w.EnemyAlive[i] {
			continue
		}
		w.updateEnemyPerception(i)
		w.updateEnemyEmotionAndMemory(i)
		if w.Enemies[i].AttackCooldown > 0 {
			w.Enemies[i].AttackCooldown -= fixedStep
		}
		if w.Enemies[i].StateTimer <= 0 {
			w.selectEnemyState(i)
		}
		w.runEnemyState(i)
		w.updateEnemyFatigue(i)
	}
}

// updateEnemyFatigue accrues fatigue during exertion states and drains
// it during rest states, both per second (spec §3/§6.2 expose the
// field via get_enemy_fatigue; no other documented consumer exists
// yet, so accrual stays a local, self-consistent read-only signal).
func (w *World) updateEnemyFatigue(i int) {
	const fatigueAccrualRate = 0.08
	const fatigueRecoveryRate = 0.15
	e := &w.Enemies[i]
	switch e.State {
	case EnemyAttack, EnemyStrafe, EnemyApproach, EnemyFlank, EnemyAmbush:
		e.Fatigue = FMin(FixedOne, e.Fatigue+FMul(FixedFromFloat(fatigueAccrualRate), fixedStep))
	case EnemyIdle, EnemyPatrol, EnemyRecover:
		e.Fatigue = FMax(0, e.Fatigue-FMul(FixedFromFloat(fatigueRecoveryRate), fixedStep))
	}
}

func (w *World) distanceToPlayer(e *Enemy) Fixed {
	dx := w.Player.X - e.X
	dy := w.Player.Y - e.Y
	return FSqrt(FMul(dx, dx) + FMul(dy, dy))
}

func (w *World) updateEnemyPerception(i int) {
	e := &w.Enemies[i]
	stats := statsFor(e.Type)
	p := &w.Player

	dist := w.distanceToPlayer(e)
	effDetection := FMul(stats.DetectionRange, emotionDetectionMult(e.Emotion))

	if dist <= effDetection {
		e.LastSeenPlayerX = p.X
		e.LastSeenPlayerY = p.Y
		e.HasLastSeen = true
		e.MemoryTimer = memoryDurationFixed
	} else if e.MemoryTimer > 0 {
		e.MemoryTimer -= fixedStep
		if e.MemoryTimer <= 0 {
			e.HasLastSeen = false
		}
	}
}

// updateEnemyEmotionAndMemory evaluates the emotion classifier and
// advances the memory fields every tick, per spec.md §4.5.
func (w *World) updateEnemyEmotionAndMemory(i int) {
	e := &w.Enemies[i]
	stats := statsFor(e.Type)
	p := &w.Player

	healthFrac := FDiv(e.HP, stats.MaxHealth)
	totalAttacks := e.SuccessfulAttacks + e.FailedAttacks
	successRate := FixedOne
	if totalAttacks > 0 {
		successRate = FDiv(FixedFromInt(int(e.SuccessfulAttacks)), FixedFromInt(int(totalAttacks)))
	}
	dist := w.distanceToPlayer(e)
	inRange := dist <= FMul(stats.AttackRange, emotionAttackRangeMult(e.Emotion))
	alliesAlive := w.packAllyCount(e.PackID, i)

	switch {
	case healthFrac < FixedFromFloat(fleeHealthFrac):
		e.Emotion = EmotionFearful
	case successRate > FixedFromFloat(confidentSuccessRate) && e.Morale > FixedFromFloat(confidentMoraleFloor):
		e.Emotion = EmotionConfident
	case e.FailedAttacks > frustratedFailedCount && successRate < FixedFromFloat(frustratedSuccessCeil):
		e.Emotion = EmotionFrustrated
	case healthFrac < FixedFromFloat(desperateHealthFrac) && alliesAlive < desperateAlliesFloor:
		e.Emotion = EmotionDesperate
	case e.Aggression > FixedFromFloat(aggressiveAggression) && inRange:
		e.Emotion = EmotionAggressive
	default:
		e.Emotion = EmotionCalm
	}

	if e.Emotion == EmotionFrustrated {
		e.Aggression = FMin(FixedOne, e.Aggression+FMul(FixedFromFloat(0.2), fixedStep))
	}

	playerSpeed := FSqrt(FMul(p.VX, p.VX) + FMul(p.VY, p.VY))
	e.PlayerSpeedEstimate = FMul(e.PlayerSpeedEstimate, FixedFromFloat(0.9)) + FMul(playerSpeed, FixedFromFloat(0.1))

	if p.BlockActive {
		e.LastBlockTime = 0
	} else {
		e.LastBlockTime += fixedStep
	}
	if p.Rolling {
		e.LastRollTime = 0
	} else {
		e.LastRollTime += fixedStep
	}
}

// packAllyCount counts living pack-mates other than slot i (for the
// Desperate emotion's "allies_alive < 2" condition, spec §4.5).
func (w *World) packAllyCount(packID int32, excludeSlot int) int32 {
	if packID < 0 {
		return 0
	}
	var count int32
	w.forEachPackMember(int(packID), func(slot int) {
		if slot != excludeSlot {
			count++
		}
	})
	return count
}

// Emotion modifiers, per spec.md §4.5: Confident -> attack_cooldown
// x0.8, damage x1.1; Fearful -> detection_range x1.3, attack_range
// x0.7; Frustrated -> coordination x0.7 (aggression's += is applied
// directly in updateEnemyEmotionAndMemory, since it is a persistent
// accumulation, not a read-time multiplier); Desperate -> damage x1.3,
// morale x0.5.

func emotionCooldownMult(em Emotion) Fixed {
	if em == EmotionConfident {
		return FixedFromFloat(0.8)
	}
	return FixedOne
}

func emotionDamageMult(em Emotion) Fixed {
	switch em {
	case EmotionConfident:
		return FixedFromFloat(1.1)
	case EmotionDesperate:
		return FixedFromFloat(1.3)
	default:
		return FixedOne
	}
}

func emotionDetectionMult(em Emotion) Fixed {
	if em == EmotionFearful {
		return FixedFromFloat(1.3)
	}
	return FixedOne
}

func emotionAttackRangeMult(em Emotion) Fixed {
	if em == EmotionFearful {
		return FixedFromFloat(0.7)
	}
	return FixedOne
}

func emotionCoordinationMult(em Emotion) Fixed {
	if em == EmotionFrustrated {
		return FixedFromFloat(0.7)
	}
	return FixedOne
}

func emotionMoraleMult(em Emotion) Fixed {
	if em == EmotionDesperate {
		return FixedFromFloat(0.5)
	}
	return FixedOne
}

// effectiveCoordination and effectiveMorale are the pack coordinator's
// read path onto an enemy's emotion-modified attributes (spec §4.5/§4.6).
func (e *Enemy) effectiveCoordination() Fixed {
	return FMul(e.Coordination, emotionCoordinationMult(e.Emotion))
}

func (e *Enemy) effectiveMorale() Fixed {
	return FMul(e.Morale, emotionMoraleMult(e.Emotion))
}

// selectEnemyState runs the priority cascade exactly as spec.md §4.5
// orders it; only called when state_timer <= 0, and the timer is reset
// unconditionally even if the evaluator returns the current state
// again (a required correctness property per §4.5).
func (w *World) selectEnemyState(i int) {
	e := &w.Enemies[i]
	stats := statsFor(e.Type)

	healthFrac := FDiv(e.HP, stats.MaxHealth)
	dist := w.distanceToPlayer(e)
	effAttackRange := FMul(stats.AttackRange, emotionAttackRangeMult(e.Emotion))
	effDetectionRange := FMul(stats.DetectionRange, emotionDetectionMult(e.Emotion))
	effMorale := e.effectiveMorale()

	var next EnemyState
	switch {
	case healthFrac < FixedFromFloat(fleeHealthFrac) && effMorale < FixedFromFloat(fleeMoraleFrac):
		next = EnemyRetreat
	case dist < effAttackRange && e.AttackCooldown <= 0 && e.Stamina > FixedFromFloat(staminaFloorForAttack):
		next = EnemyAttack
	case dist < effAttackRange:
		next = EnemyStrafe
	case dist < FMul(effDetectionRange, FixedFromFloat(approachBandFrac)):
		next = EnemyApproach
	case dist < effDetectionRange:
		next = EnemyAlert
	default:
		if e.State == EnemyPatrol {
			next = EnemyPatrol
		} else {
			next = EnemyIdle
		}
	}

	e.State = next
	e.StateTimer = enemyStateDuration[next]
	e.attackSubPhase = attackSubNone
}

// runEnemyState executes the active state's movement/action for this
// tick (spec §4.5).
func (w *World) runEnemyState(i int) {
	e := &w.Enemies[i]
	stats := statsFor(e.Type)
	p := &w.Player

	if e.StateTimer > 0 {
		e.StateTimer -= fixedStep
	}

	switch e.State {
	case EnemyIdle:
		e.VX, e.VY = 0, 0
	case EnemyPatrol:
		w.moveTowardAngle(e, FMul(w.rng.stream(StreamAI).nextFixed01(), fullTurn), FMul(stats.Speed, FixedFromFloat(0.3)))
	case EnemyInvestigate:
		if e.HasLastSeen {
			w.moveToward(e, e.LastSeenPlayerX, e.LastSeenPlayerY, FMul(stats.Speed, FixedFromFloat(0.5)))
		}
	case EnemyAlert:
		e.VX, e.VY = 0, 0
		dx := p.X - e.X
		dy := p.Y - e.Y
		if dist := FSqrt(FMul(dx, dx) + FMul(dy, dy)); dist > 0 {
			e.FX, e.FY = FDiv(dx, dist), FDiv(dy, dist)
		}
		e.Awareness = FMin(FixedOne, e.Awareness+FMul(FixedFromFloat(0.5), fixedStep))
	case EnemyApproach:
		w.moveToward(e, p.X, p.Y, stats.Speed)
	case EnemyStrafe:
		dir := FixedOne
		if e.ID&1 == 0 {
			dir = -FixedOne
		}
		w.strafeAroundPlayer(e, FMul(stats.Speed, dir))
	case EnemyAttack:
		w.runEnemyAttack(i)
	case EnemyRetreat, EnemyFlee:
		dx := e.X - p.X
		dy := e.Y - p.Y
		dist := FSqrt(FMul(dx, dx) + FMul(dy, dy))
		if dist > 0 {
			e.VX = FMul(FDiv(dx, dist), stats.Speed)
			e.VY = FMul(FDiv(dy, dist), stats.Speed)
		}
	case EnemyRecover:
		e.VX, e.VY = 0, 0
	case EnemyAmbush:
		e.VX, e.VY = 0, 0
	case EnemyFlank:
		w.flankPlayer(e, stats.Speed)
	}
}

func (w *World) moveToward(e *Enemy, tx, ty Fixed, speed Fixed) {
	dx := tx - e.X
	dy := ty - e.Y
	dist := FSqrt(FMul(dx, dx) + FMul(dy, dy))
	if dist == 0 {
		e.VX, e.VY = 0, 0
		return
	}
	e.VX = FMul(FDiv(dx, dist), speed)
	e.VY = FMul(FDiv(dy, dist), speed)
	e.FX, e.FY = FDiv(dx, dist), FDiv(dy, dist)
}

func (w *World) moveTowardAngle(e *Enemy, angle, speed Fixed) {
	e.VX = FMul(FCos(angle), speed)
	e.VY = FMul(FSin(angle), speed)
}

// strafeAroundPlayer moves tangentially to the player; speed's sign
// picks direction, per spec §4.5's "(enemy.id & 1) ? cw : ccw".
func (w *World) strafeAroundPlayer(e *Enemy, speed Fixed) {
	p := &w.Player
	dx := e.X - p.X
	dy := e.Y - p.Y
	dist := FSqrt(FMul(dx, dx) + FMul(dy, dy))
	if dist == 0 {
		return
	}
	tx := -dy
	ty := dx
	e.VX = FMul(FDiv(tx, dist), speed)
	e.VY = FMul(FDiv(ty, dist), speed)
}

func (w *World) flankPlayer(e *Enemy, speed Fixed) {
	p := &w.Player
	dx := p.X - e.X
	dy := p.Y - e.Y
	angle := FAtan2(dy, dx) + fixedHalfPi/2
	targetX := p.X - FMul(FCos(angle), FixedFromFloat(0.1))
	targetY := p.Y - FMul(FSin(angle), FixedFromFloat(0.1))
	w.moveToward(e, targetX, targetY, speed)
}

// runEnemyAttack drives the Attack state's three sub-phases, per
// spec.md §4.5: Anticipation (crouch, no movement), Execute (resolve
// one hit against the player), Recovery (hold still for
// attackRecovery, then set attack_cooldown and transition to Strafe).
// Each sub-phase's one-shot action fires
// exactly once via attackSubPhase, since runEnemyState calls this
// every tick the Attack state is active.
func (w *World) runEnemyAttack(i int) {
	e := &w.Enemies[i]
	stats := statsFor(e.Type)
	e.VX, e.VY = 0, 0

	total := enemyStateDuration[EnemyAttack]
	elapsed := total - e.StateTimer
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < attackAnticipation:
		// crouch, no movement; body_stretch is a render-only concern
		// outside the core's query surface (spec §4.12).
	case elapsed < attackAnticipation+attackExecute:
		if e.attackSubPhase != attackSubExecute {
			e.attackSubPhase = attackSubExecute
			w.resolveEnemyAttackExecute(i, stats)
		}
	case elapsed < attackAnticipation+attackExecute+attackRecovery:
		// recovery window: no movement until it ends.
	default:
		if e.attackSubPhase != attackSubRecovery {
			e.attackSubPhase = attackSubRecovery
			w.enterAttackRecovery(i)
		}
	}
}

func (w *World) resolveEnemyAttackExecute(i int, stats EnemyStats) {
	e := &w.Enemies[i]
	damage := FMul(stats.Damage, emotionDamageMult(e.Emotion))
	damage = FMul(damage, w.escalateDamageMultiplier())
	result := w.HandleIncomingAttack(damage, e.X, e.Y)
	switch result {
	case HitConnected:
		e.SuccessfulAttacks++
		e.Morale = FMin(FixedOne, e.Morale+FixedFromFloat(0.1))
	case HitBlocked:
		e.FailedAttacks++
		e.LastBlockTime = 0
	case HitPerfectParry:
		e.FailedAttacks++
		e.State = EnemyRecover
		e.StateTimer = FixedFromFloat(1.5)
		e.attackSubPhase = attackSubNone
	}
}

// enterAttackRecovery sets attack_cooldown = 1.5/(1+aggression), adds
// the recent-block penalty, and transitions to Strafe, per spec §4.5.
func (w *World) enterAttackRecovery(i int) {
	e := &w.Enemies[i]
	cooldown := FMul(FDiv(FixedFromFloat(1.5), FixedOne+e.Aggression), emotionCooldownMult(e.Emotion))
	if e.LastBlockTime < FixedFromFloat(lastBlockRecentSeconds) {
		cooldown += FixedFromFloat(lastBlockCooldownBonus)
	}
	e.AttackCooldown = cooldown
	e.State = EnemyStrafe
	e.StateTimer = enemyStateDuration[EnemyStrafe]
	e.attackSubPhase = attackSubNone
}
