package sim

// Combat state machine: attack windup/active/recovery, block, parry,
// roll i-frames, hyperarmor, counter window (spec.md §4.4). Tick-
// counted timers and the combo-scaling shape are grounded directly on
// internal/game/combat.go's CombatState (ComboWindow/DodgeTimer fields,
// RegisterHit's damage-scale-by-index lookup); the circular-sector hit
// geometry is grounded on internal/game/hitbox.go's CheckHit, narrowed
// from the teacher's four hitbox shapes to the spec's single 30-degree
// half-angle sector.

const (
	comboWindowSeconds  = 0.8
	parryWindowSeconds  = 0.18
	counterWindowSeconds = 0.5
	rollDurationSeconds = 0.4
	rollCooldownSeconds = 0.8
	rollStaminaCost     = 0.25
	blockStaminaDrain   = 0.15 // per second
	baseBlockReduction  = 0.5
	sectorHalfAngleDeg  = 30.0
)

var (
	comboWindowFixed   = FixedFromFloat(comboWindowSeconds)
	parryWindowFixed   = FixedFromFloat(parryWindowSeconds)
	counterWindowFixed = FixedFromFloat(counterWindowSeconds)
	rollDurationFixed  = FixedFromFloat(rollDurationSeconds)
	rollCooldownFixed  = FixedFromFloat(rollCooldownSeconds)
	sectorHalfAngle    = FixedFromFloat(sectorHalfAngleDeg * 3.14159265 / 180.0)
)

// HitResult is the only observable outcome of an incoming attack, per
// spec.md §4.4/§6.2.
const (
	HitIgnored      int32 = -1
	HitConnected    int32 = 0
	HitBlocked      int32 = 1
	HitPerfectParry int32 = 2
)

// combatStep advances the player's attack/block/roll/parry timers and
// resolves the Active-window hitbox against enemies, per spec.md §4.4
// (tick step 4).
func (w *World) combatStep() {
	p := &w.Player

	// Stamina regen happens ambiently; drained explicitly by block/roll.
	if !p.BlockActive && !p.Rolling {
		p.Stamina = FMin(FixedOne, p.Stamina+FMul(FixedFromFloat(0.2), fixedStep))
	}

	p.updateRollState()
	p.updateBlockState(w.TimeSeconds)
	p.updateAttackState()
	p.updateComboWindow()
	p.updateCounterWindow()

	w.handleCombatInput()

	// The hitbox resolves once, on the tick the Active window opens
	// (updateAttackState has just set AttackTimer to the full window).
	if p.AttackState == AttackActive && p.AttackTimer == timing(p.Weapon, p.AttackKind).Active {
		w.resolveActiveHitbox()
	}
}

func (p *Player) updateRollState() {
	if p.Rolling {
		p.RollTimer -= fixedStep
		speed := FixedFromFloat(2.0) // roll_speed = 2x walk speed, applied by movement
		dirX, dirY := p.rollDirection()
		walkSpeed := FixedFromFloat(0.3)
		p.VX = FMul(FMul(dirX, speed), walkSpeed)
		p.VY = FMul(FMul(dirY, speed), walkSpeed)
		if p.RollTimer <= 0 {
			p.Rolling = false
			p.Invulnerable = false
		}
	}
	if p.RollCooldown > 0 {
		p.RollCooldown -= fixedStep
	}
}

func (p *Player) rollDirection() (Fixed, Fixed) {
	if p.input.AxisX != 0 || p.input.AxisY != 0 {
		mag := FSqrt(FMul(p.input.AxisX, p.input.AxisX) + FMul(p.input.AxisY, p.input.AxisY))
		if mag > 0 {
			return FDiv(p.input.AxisX, mag), FDiv(p.input.AxisY, mag)
		}
	}
	return p.FX, p.FY
}

func (p *Player) updateBlockState(now Fixed) {
	wantBlock := p.input.Blocking != 0 && p.AttackState == AttackIdle && !p.Rolling
	if wantBlock && !p.BlockActive {
		p.BlockActive = true
		p.BlockStart = now
		p.BlockFacing = FAtan2(p.FY, p.FX)
	} else if !wantBlock {
		p.BlockActive = false
	}
	if p.BlockActive {
		p.Stamina = FMax(0, p.Stamina-FMul(FixedFromFloat(blockStaminaDrain), fixedStep))
		if p.Stamina <= 0 {
			p.BlockActive = false
		}
	}
}

func (p *Player) updateComboWindow() {
	if p.ComboWindow > 0 {
		p.ComboWindow -= fixedStep
		if p.ComboWindow <= 0 {
			p.ComboWindow = 0
			p.ComboCount = 0
		}
	}
}

func (p *Player) updateCounterWindow() {
	if p.CounterWindow > 0 {
		p.CounterWindow -= fixedStep
		if p.CounterWindow < 0 {
			p.CounterWindow = 0
		}
	}
	if p.ParryWindow > 0 {
		p.ParryWindow -= fixedStep
		if p.ParryWindow < 0 {
			p.ParryWindow = 0
		}
	}
}

// updateAttackState advances Windup -> Active -> Recovery -> Idle.
func (p *Player) updateAttackState() {
	if p.AttackState == AttackIdle {
		return
	}
	p.AttackTimer -= fixedStep
	if p.AttackTimer > 0 {
		return
	}
	t := timing(p.Weapon, p.AttackKind)
	switch p.AttackState {
	case AttackWindup:
		p.AttackState = AttackActive
		p.AttackTimer = t.Active
	case AttackActive:
		p.AttackState = AttackRecovery
		p.AttackTimer = t.Recovery
	case AttackRecovery:
		p.AttackState = AttackIdle
		p.AttackTimer = 0
	}
}

// handleCombatInput starts new attacks, rolls, and resolves feints.
func (w *World) handleCombatInput() {
	p := &w.Player
	tag := tagFor(p.Weapon)

	// Feint: a roll or inverse-attack input during Windup cancels to
	// Idle and refunds 50% stamina, per spec.md §4.4.
	if p.AttackState == AttackWindup {
		canFeintHeavy := p.AttackKind == AttackHeavy
		feintInput := p.input.Rolling != 0 || (canFeintHeavy && p.input.LightAttack != 0)
		if feintInput && canFeintHeavy {
			// Half of tryStartAttack's 0.1 stamina cost comes back.
			refund := FMul(FixedFromFloat(0.1), FixedFromFloat(0.5))
			p.Stamina = FMin(FixedOne, p.Stamina+refund)
			p.AttackState = AttackIdle
			p.AttackTimer = 0
		}
	}

	if p.AttackState == AttackIdle && !p.Rolling {
		switch {
		case p.input.Rolling != 0:
			w.tryRoll()
		case p.input.LightAttack != 0:
			w.tryStartAttack(AttackLight)
		case p.input.HeavyAttack != 0:
			w.tryStartAttack(AttackHeavy)
		case p.input.Special != 0:
			w.tryStartAttack(AttackSpecial)
		}
	}
	_ = tag
}

func (w *World) tryRoll() int32 {
	p := &w.Player
	if p.Rolling || p.RollCooldown > 0 || p.Stamina < FixedFromFloat(rollStaminaCost) {
		return StatusFail
	}
	p.Stamina -= FixedFromFloat(rollStaminaCost)
	p.Rolling = true
	p.Invulnerable = true
	p.RollTimer = rollDurationFixed
	p.RollCooldown = rollCooldownFixed
	return StatusOK
}

func (w *World) tryStartAttack(kind AttackKind) int32 {
	p := &w.Player
	t := timing(p.Weapon, kind)
	staminaCost := FixedFromFloat(0.1)
	if p.Stamina < staminaCost {
		return StatusFail
	}
	p.Stamina -= staminaCost
	p.AttackState = AttackWindup
	p.AttackKind = kind
	p.AttackTimer = t.Windup
	return StatusOK
}

// hyperarmorActive reports whether the player currently ignores
// stagger/interrupt, per spec.md §4.4.
func (p *Player) hyperarmorActive() bool {
	tag := tagFor(p.Weapon)
	if !tag.Hyperarmor || p.AttackKind != AttackHeavy {
		return false
	}
	return p.AttackState == AttackWindup || p.AttackState == AttackActive
}

// resolveActiveHitbox applies damage to every enemy inside the attack
// sector exactly once per Active window (spec.md §4.4).
func (w *World) resolveActiveHitbox() {
	p := &w.Player
	if p.lastAttackerStunned {
		return
	}
	t := timing(p.Weapon, p.AttackKind)
	tag := tagFor(p.Weapon)
	reach := FMul(t.Range, tag.ReachMult)
	facingAngle := FAtan2(p.FY, p.FX)

	base := t.MinDamage + FMul(w.rng.stream(StreamAI).nextFixed01(), t.MaxDamage-t.MinDamage)
	damage := FMul(base, w.Upgrades.effectScalar(EffectDamage))
	comboBonus := FixedOne + FMul(FixedFromFloat(0.1), FixedFromInt(minInt(int(p.ComboCount), 5)))
	damage = FMul(damage, comboBonus)

	if p.CounterWindow > 0 && p.AttackKind == AttackLight {
		damage = FMul(damage, FixedFromInt(2))
	}

	hitAny := false
	for i := 0; i < maxEnemies; i++ {
		if !w.EnemyAlive[i] {
			continue
		}
		e := &w.Enemies[i]
		dx := e.X - p.X
		dy := e.Y - p.Y
		dist := FSqrt(FMul(dx, dx) + FMul(dy, dy))
		if dist > reach || dist == 0 {
			continue
		}
		angleToEnemy := FAtan2(dy, dx)
		diff := FAbs(normalizeFixedAngle(angleToEnemy - facingAngle))
		if diff > sectorHalfAngle {
			continue
		}
		hitAny = true
		w.applyPlayerDamageToEnemy(i, damage, p.CounterWindow > 0)
	}
	if hitAny {
		w.Player.ComboCount = minInt32(p.ComboCount+1, 6)
		w.Player.ComboWindow = comboWindowFixed
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func normalizeFixedAngle(a Fixed) Fixed {
	for a > fixedPi {
		a -= fullTurn
	}
	for a < -fixedPi {
		a += fullTurn
	}
	return a
}

// TryParry evaluates a parry against an incoming attack's origin angle,
// per spec.md §4.4: succeeds iff blocking and within parryWindowSeconds
// of block start.
func (w *World) TryParry(attackOriginAngle float32) int32 {
	p := &w.Player
	if !p.BlockActive {
		return HitBlocked
	}
	elapsed := w.TimeSeconds - p.BlockStart
	if elapsed >= 0 && elapsed <= parryWindowFixed {
		p.CounterWindow = counterWindowFixed
		return HitPerfectParry
	}
	return HitBlocked
}

// HandleIncomingAttack applies an enemy's attack to the player and
// returns the spec.md §4.4/§6.2 result tag: -1 ignore, 0 hit, 1
// blocked, 2 perfect parry.
func (w *World) HandleIncomingAttack(damage Fixed, originX, originY Fixed) int32 {
	p := &w.Player
	if p.Invulnerable || p.Rolling {
		return HitIgnored
	}

	dx := p.X - originX
	dy := p.Y - originY
	angle := FAtan2(dy, dx)
	facingAngle := FAtan2(p.FY, p.FX)
	facingDiff := FAbs(normalizeFixedAngle(angle - facingAngle))
	blockableAngle := facingDiff <= fixedHalfPi

	if p.BlockActive && blockableAngle {
		elapsed := w.TimeSeconds - p.BlockStart
		if elapsed >= 0 && elapsed <= parryWindowFixed {
			p.CounterWindow = counterWindowFixed
			return HitPerfectParry
		}
		reduction := FixedFromFloat(baseBlockReduction) + FMul(p.ArmorValue, FixedFromFloat(0.1))
		reduction = FClamp(reduction, 0, FixedFromFloat(0.95))
		applied := FMul(damage, FixedOne-reduction)
		w.damagePlayer(applied)
		return HitBlocked
	}

	w.damagePlayer(damage)
	return HitConnected
}

func (w *World) damagePlayer(amount Fixed) {
	p := &w.Player
	p.HP = FMax(0, p.HP-amount)
}
