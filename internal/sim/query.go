package sim

// Query façade: zero-allocation flat scalar getters over cached World
// fields, per spec.md §4.12/§6.2. Every getter here is side-effect-free.
// Most read one stored field; PlayerSpeed, EnemyCount and
// PlayerHasHyperarmor derive their result from stored fields per call.
// Grounded on the teacher's internal/game/game_snapshot.go accessor
// style (plain field reads exposed as methods for the network layer to
// poll), generalized from "snapshot for one broadcast" to "every field
// addressable individually for rollback-netcode callers."

// --- player: position/velocity/facing ---

func (w *World) PlayerX() float32  { return w.Player.X.ToFloat32() }
func (w *World) PlayerY() float32  { return w.Player.Y.ToFloat32() }
func (w *World) PlayerVX() float32 { return w.Player.VX.ToFloat32() }
func (w *World) PlayerVY() float32 { return w.Player.VY.ToFloat32() }
func (w *World) PlayerFacingX() float32 { return w.Player.FX.ToFloat32() }
func (w *World) PlayerFacingY() float32 { return w.Player.FY.ToFloat32() }

// --- player: resources ---

func (w *World) PlayerHP() float32      { return w.Player.HP.ToFloat32() }
func (w *World) PlayerStamina() float32 { return w.Player.Stamina.ToFloat32() }
func (w *World) PlayerGold() int32      { return w.Player.Gold }
func (w *World) PlayerEssence() int32   { return w.Player.Essence }

// --- player: state flags ---

func (w *World) PlayerIsRolling() int32      { return boolToI32(w.Player.Rolling) }
func (w *World) PlayerIsInvulnerable() int32 { return boolToI32(w.Player.Invulnerable) }
func (w *World) PlayerIsBlocking() int32     { return boolToI32(w.Player.BlockActive) }
func (w *World) PlayerHasHyperarmor() int32  { return boolToI32(w.Player.hyperarmorActive()) }

// --- player: combat ---

func (w *World) PlayerAttackState() int32 { return int32(w.Player.AttackState) }
func (w *World) PlayerAttackKind() int32  { return int32(w.Player.AttackKind) }
func (w *World) PlayerComboCount() int32  { return w.Player.ComboCount }
func (w *World) PlayerWeapon() int32      { return int32(w.Player.Weapon) }
func (w *World) PlayerClass() int32       { return int32(w.Player.Class) }

// PlayerSpeed is the player's current ground speed, per spec §6.2's
// get_speed (magnitude of the velocity vector).
func (w *World) PlayerSpeed() float32 {
	p := &w.Player
	return FSqrt(FMul(p.VX, p.VX) + FMul(p.VY, p.VY)).ToFloat32()
}

func (w *World) PlayerIsGrounded() int32     { return boolToI32(w.Player.Grounded) }
func (w *World) PlayerJumpCount() int32      { return w.Player.JumpCount }
func (w *World) PlayerIsWallSliding() int32  { return boolToI32(w.Player.WallSliding) }
func (w *World) PlayerComboWindowRemaining() float32 { return w.Player.ComboWindow.ToFloat32() }
func (w *World) PlayerParryWindow() float32          { return w.Player.ParryWindow.ToFloat32() }
func (w *World) PlayerCounterWindowRemaining() float32 { return w.Player.CounterWindow.ToFloat32() }
func (w *World) PlayerArmorValue() float32 { return w.Player.ArmorValue.ToFloat32() }

// PlayerCanCounter mirrors combat.go's counter-bonus gate: a live
// counter window against a light attack (spec §6.2 get_can_counter).
func (w *World) PlayerCanCounter() int32 {
	p := &w.Player
	return boolToI32(p.CounterWindow > 0 && p.AttackKind == AttackLight)
}

// PlayerCanFeintHeavy mirrors combat.go's feint gate: only a heavy
// attack still in its windup can be feinted (spec §6.2 can_feint_heavy).
func (w *World) PlayerCanFeintHeavy() int32 {
	p := &w.Player
	return boolToI32(p.AttackState == AttackWindup && p.AttackKind == AttackHeavy)
}

// --- player: ability ---

func (w *World) PlayerBashCharge() float32       { return w.Player.Ability.BashCharge.ToFloat32() }
func (w *World) PlayerBashActive() int32         { return boolToI32(w.Player.Ability.BashActive) }
func (w *World) PlayerBerserkerActive() int32    { return boolToI32(w.Player.Ability.BerserkerActive) }
func (w *World) PlayerBerserkerTimer() float32   { return w.Player.Ability.BerserkerTimer.ToFloat32() }
func (w *World) PlayerFlowDashActive() int32     { return boolToI32(w.Player.Ability.FlowDashActive) }
func (w *World) PlayerFlowDashCombo() int32      { return w.Player.Ability.FlowDashCombo }

// --- enemies ---

func (w *World) EnemyCount() int32 {
	count := int32(0)
	for i := 0; i < maxEnemies; i++ {
		if w.EnemyAlive[i] {
			count++
		}
	}
	return count
}

func (w *World) EnemyIsAlive(slot int32) int32 {
	if slot < 0 || int(slot) >= maxEnemies {
		return 0
	}
	return boolToI32(w.EnemyAlive[slot])
}

func (w *World) EnemyX(slot int32) float32 { return w.enemyOrZero(slot).X.ToFloat32() }
func (w *World) EnemyY(slot int32) float32 { return w.enemyOrZero(slot).Y.ToFloat32() }
func (w *World) EnemyHP(slot int32) float32 { return w.enemyOrZero(slot).HP.ToFloat32() }
func (w *World) EnemyTypeOf(slot int32) int32  { return int32(w.enemyOrZero(slot).Type) }
func (w *World) EnemyStateOf(slot int32) int32 { return int32(w.enemyOrZero(slot).State) }
func (w *World) EnemyRoleOf(slot int32) int32  { return int32(w.enemyOrZero(slot).Role) }
func (w *World) EnemyPackID(slot int32) int32 { return w.enemyOrZero(slot).PackID }
func (w *World) EnemyVX(slot int32) float32 { return w.enemyOrZero(slot).VX.ToFloat32() }
func (w *World) EnemyVY(slot int32) float32 { return w.enemyOrZero(slot).VY.ToFloat32() }

// EnemyFatigue reads the fatigue accumulator (spec §3, §6.2
// get_enemy_fatigue); see DESIGN.md for how fatigue accrues.
func (w *World) EnemyFatigue(slot int32) float32 { return w.enemyOrZero(slot).Fatigue.ToFloat32() }

var zeroEnemy Enemy

func (w *World) enemyOrZero(slot int32) *Enemy {
	if slot < 0 || int(slot) >= maxEnemies {
		return &zeroEnemy
	}
	return &w.Enemies[slot]
}

// --- phase ---

func (w *World) CurrentPhase() int32  { return int32(w.PhaseState.Current) }
func (w *World) ChoiceCount() int32   { return w.PhaseState.ChoiceCount }
func (w *World) RoomCount() int32     { return w.PhaseState.RoomCount }
func (w *World) BiomeID() int32       { return w.PhaseState.BiomeID }

// --- choices ---

func (w *World) OfferedChoiceCount() int32 { return w.Choices.OfferedCount }
func (w *World) OfferedChoicePoolID(slot int32) int32 {
	if slot < 0 || slot >= w.Choices.OfferedCount {
		return -1
	}
	return w.Choices.Offered[slot]
}
func (w *World) RoundsSinceRare() int32 { return w.Choices.RoundsSinceRare }
func (w *World) TotalChoicesMade() int32 { return w.Choices.TotalChoices }

// --- risk / escalate / cashout ---

func (w *World) RiskActive() int32   { return boolToI32(w.Risk.Active) }
func (w *World) RiskWon() int32      { return boolToI32(w.Risk.Won) }
func (w *World) EscalateTier() int32 { return w.Escalate.Tier }
func (w *World) CashOutFinalScore() int32 { return w.CashOut.Score }

// --- upgrades ---

func (w *World) UpgradeIsPurchased(nodeID int32) int32 {
	if nodeID < 0 || int(nodeID) >= maxUpgradeNodes {
		return 0
	}
	return boolToI32(w.Upgrades.Purchased[nodeID])
}

func (w *World) UpgradeEffectScalar(effect int32) float32 {
	if effect < 0 || effect >= int32(effectCount) {
		return FixedOne.ToFloat32()
	}
	return w.Upgrades.EffectScalars[effect].ToFloat32()
}

// --- barrels ---

func (w *World) BarrelIsActive(slot int32) int32 {
	if slot < 0 || int(slot) >= maxBarrels {
		return 0
	}
	return boolToI32(w.Bodies.barrels[slot].Active)
}

func (w *World) BarrelX(slot int32) float32 {
	if slot < 0 || int(slot) >= maxBarrels {
		return 0
	}
	return w.Bodies.barrels[slot].X.ToFloat32()
}

func (w *World) BarrelY(slot int32) float32 {
	if slot < 0 || int(slot) >= maxBarrels {
		return 0
	}
	return w.Bodies.barrels[slot].Y.ToFloat32()
}

// --- clock ---

func (w *World) TimeSecondsElapsed() float32 { return w.TimeSeconds.ToFloat32() }
func (w *World) TickCountTotal() uint64      { return w.TickCount }

// --- capacity constants, exported for callers outside the package that
// need to size their own buffers (the debug API's enemy/barrel views) ---

const (
	MaxEnemies        = maxEnemies
	MaxBarrels        = maxBarrels
	MaxUpgradeNodes   = maxUpgradeNodes
	MaxOfferedChoices = maxOfferedChoices
)
