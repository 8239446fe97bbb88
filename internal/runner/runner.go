// Package runner owns the simulation loop and the lock around it.
//
// sim.World itself is a pure, single-threaded value: no mutex, no clock
// reads. Runner is the thin concurrent shell around it, grounded on the
// teacher's internal/game.Engine (ticker goroutine + sync.RWMutex +
// lock-free snapshot for readers) but carrying a fixed-step sim.World
// instead of the teacher's free-running float simulation.
package runner

import (
	"log"
	"sync"
	"time"

	"roguekeep/internal/sim"
)

// StateView is an immutable, allocation-free-to-copy snapshot of every
// field the debug API needs to render or broadcast a tick. It exists so
// readers never hold the World lock while marshaling JSON or encoding
// PNGs.
type StateView struct {
	TickCount   uint64
	TimeSeconds float32

	PlayerX, PlayerY   float32
	PlayerVX, PlayerVY float32
	PlayerFX, PlayerFY float32
	PlayerHP, PlayerStamina float32
	PlayerGold, PlayerEssence int32
	PlayerRolling, PlayerInvulnerable, PlayerBlocking, PlayerHyperarmor bool
	PlayerAttackState, PlayerAttackKind, PlayerComboCount int32
	PlayerWeapon, PlayerClass int32

	Phase       int32
	ChoiceCount int32
	RoomCount   int32
	BiomeID     int32

	Enemies []EnemyView
}

// EnemyView is one live enemy's render-relevant fields.
type EnemyView struct {
	Slot  int32
	Type  int32
	State int32
	Role  int32
	X, Y  float32
	HP    float32
}

// Runner drives a sim.World at a fixed tick rate on its own goroutine
// and serializes every access to it, mirroring the teacher's
// Start/Stop/tick split so construction never starts a goroutine.
type Runner struct {
	mu       sync.RWMutex
	world    *sim.World
	tickRate int
	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool
	onTick   func(dur time.Duration, enemyCount, phase int32)
}

// OnTick registers a callback invoked after every Advance() call with
// the wall-clock duration it took and a couple of cheap gauges read
// under the same lock, so a metrics layer never has to take its own
// lock on the hot path. Passing nil disables the hook.
func (r *Runner) OnTick(fn func(dur time.Duration, enemyCount, phase int32)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onTick = fn
}

// New constructs a Runner around a freshly initialized World. Background
// work does not start until Start is called.
func New(seed uint64, startWeapon sim.WeaponID, tickRate int) *Runner {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Runner{
		world:    sim.NewWorld(seed, startWeapon),
		tickRate: tickRate,
		stopChan: make(chan struct{}),
	}
}

// Start begins the fixed-step driver loop.
func (r *Runner) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.ticker = time.NewTicker(time.Second / time.Duration(r.tickRate))
	dt := float32(1) / float32(r.tickRate)

	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.mu.Lock()
				if !r.running { // a tick already queued when Stop ran
					r.mu.Unlock()
					return
				}
				start := time.Now()
				r.world.Advance(dt)
				dur := time.Since(start)
				hook := r.onTick
				enemies := r.world.EnemyCount()
				phase := r.world.CurrentPhase()
				r.mu.Unlock()
				if hook != nil {
					hook(dur, enemies, phase)
				}
			case <-r.stopChan:
				return
			}
		}
	}()

	log.Printf("🗡️ simulation runner started at %d TPS", r.tickRate)
}

// Stop halts the driver loop. Safe to call once.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	r.ticker.Stop()
	close(r.stopChan)
	log.Println("🛑 simulation runner stopped")
}

// SetInput forwards buffered control input to the next tick.
func (r *Runner) SetInput(axisX, axisY float32, rolling, jumping, light, heavy, blocking, special int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.SetPlayerInput(axisX, axisY, rolling, jumping, light, heavy, blocking, special)
}

// RollChoices forces a fresh choice offer (debug/admin action).
func (r *Runner) RollChoices() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.RollChoices()
}

// CommitChoice commits the offered choice at slotIndex.
func (r *Runner) CommitChoice(slotIndex int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.CommitChoice(slotIndex)
}

// Purchase buys an upgrade node during PhasePowerUp.
func (r *Runner) Purchase(nodeID int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.Purchase(nodeID)
}

// ResolveRisk resolves the active double-or-nothing wager.
func (r *Runner) ResolveRisk(callDouble bool) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.ResolveRisk(callDouble)
}

// ResolveEscalate accepts or declines the active difficulty escalation.
func (r *Runner) ResolveEscalate(accept bool) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.ResolveEscalate(accept)
}

// Reset re-initializes the run with a new seed under the driver lock.
func (r *Runner) Reset(newSeed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.Reset(newSeed)
}

// SaveState returns a byte-identical snapshot of the current World.
func (r *Runner) SaveState() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.world.SaveState()
}

// LoadState restores the World from a snapshot produced by SaveState.
func (r *Runner) LoadState(buf []byte) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.LoadState(buf)
}

// View copies out a StateView under a read lock. It allocates only the
// enemy slice, sized to the live count, so idle rooms stay cheap.
func (r *Runner) View() StateView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w := r.world
	v := StateView{
		TickCount:   w.TickCountTotal(),
		TimeSeconds: w.TimeSecondsElapsed(),

		PlayerX: w.PlayerX(), PlayerY: w.PlayerY(),
		PlayerVX: w.PlayerVX(), PlayerVY: w.PlayerVY(),
		PlayerFX: w.PlayerFacingX(), PlayerFY: w.PlayerFacingY(),
		PlayerHP: w.PlayerHP(), PlayerStamina: w.PlayerStamina(),
		PlayerGold: w.PlayerGold(), PlayerEssence: w.PlayerEssence(),
		PlayerRolling:      w.PlayerIsRolling() != 0,
		PlayerInvulnerable: w.PlayerIsInvulnerable() != 0,
		PlayerBlocking:     w.PlayerIsBlocking() != 0,
		PlayerHyperarmor:   w.PlayerHasHyperarmor() != 0,
		PlayerAttackState:  w.PlayerAttackState(),
		PlayerAttackKind:   w.PlayerAttackKind(),
		PlayerComboCount:   w.PlayerComboCount(),
		PlayerWeapon:       w.PlayerWeapon(),
		PlayerClass:        w.PlayerClass(),

		Phase:       w.CurrentPhase(),
		ChoiceCount: w.ChoiceCount(),
		RoomCount:   w.RoomCount(),
		BiomeID:     w.BiomeID(),
	}

	count := w.EnemyCount()
	if count > 0 {
		v.Enemies = make([]EnemyView, 0, count)
		for slot := int32(0); slot < sim.MaxEnemies; slot++ {
			if w.EnemyIsAlive(slot) == 0 {
				continue
			}
			v.Enemies = append(v.Enemies, EnemyView{
				Slot:  slot,
				Type:  w.EnemyTypeOf(slot),
				State: w.EnemyStateOf(slot),
				Role:  w.EnemyRoleOf(slot),
				X:     w.EnemyX(slot),
				Y:     w.EnemyY(slot),
				HP:    w.EnemyHP(slot),
			})
		}
	}

	return v
}
