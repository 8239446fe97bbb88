package sim

import "testing"

func TestTryStartAttackConsumesStamina(t *testing.T) {
	w := NewWorld(1, WeaponSword)
	before := w.Player.Stamina
	if status := w.tryStartAttack(AttackLight); status != StatusOK {
		t.Fatalf("tryStartAttack = %d, want StatusOK", status)
	}
	if w.Player.Stamina >= before {
		t.Fatalf("attack did not consume stamina: before=%v after=%v", before, w.Player.Stamina)
	}
	if w.Player.AttackState != AttackWindup {
		t.Fatalf("AttackState = %v, want AttackWindup", w.Player.AttackState)
	}
}

func TestAttackStateMachineProgression(t *testing.T) {
	w := NewWorld(1, WeaponFists) // fastest windup/active/recovery for a short test
	w.tryStartAttack(AttackLight)

	t0 := timing(WeaponFists, AttackLight)
	ticksFor := func(d Fixed) int {
		return int(d/fixedStep) + 1
	}

	for i := 0; i < ticksFor(t0.Windup); i++ {
		w.Player.updateAttackState()
	}
	if w.Player.AttackState != AttackActive {
		t.Fatalf("after windup, AttackState = %v, want AttackActive", w.Player.AttackState)
	}

	for i := 0; i < ticksFor(t0.Active); i++ {
		w.Player.updateAttackState()
	}
	if w.Player.AttackState != AttackRecovery {
		t.Fatalf("after active, AttackState = %v, want AttackRecovery", w.Player.AttackState)
	}

	for i := 0; i < ticksFor(t0.Recovery); i++ {
		w.Player.updateAttackState()
	}
	if w.Player.AttackState != AttackIdle {
		t.Fatalf("after recovery, AttackState = %v, want AttackIdle", w.Player.AttackState)
	}
}

func TestRollGrantsInvulnerabilityAndCooldown(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	if status := w.tryRoll(); status != StatusOK {
		t.Fatalf("tryRoll = %d, want StatusOK", status)
	}
	if !w.Player.Invulnerable {
		t.Fatalf("rolling player is not invulnerable")
	}
	if status := w.tryRoll(); status != StatusFail {
		t.Fatalf("tryRoll while already rolling = %d, want StatusFail", status)
	}
}

func TestPerfectParryOpensCounterWindow(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	w.Player.BlockActive = true
	w.Player.BlockStart = w.TimeSeconds

	result := w.HandleIncomingAttack(FixedFromInt(10), w.Player.X-FixedFromFloat(0.01), w.Player.Y)
	if result != HitPerfectParry {
		t.Fatalf("HandleIncomingAttack during parry window = %d, want HitPerfectParry", result)
	}
	if w.Player.CounterWindow <= 0 {
		t.Fatalf("perfect parry did not open a counter window")
	}
	if w.Player.HP != FixedOne {
		t.Fatalf("a perfectly parried attack damaged the player: HP=%v", w.Player.HP)
	}
}

func TestBlockedAttackReducesDamage(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	w.Player.BlockActive = true
	w.Player.BlockStart = w.TimeSeconds - FixedFromFloat(1.0) // well past the parry window

	before := w.Player.HP
	result := w.HandleIncomingAttack(FixedFromFloat(0.5), w.Player.X-FixedFromFloat(0.01), w.Player.Y)
	if result != HitBlocked {
		t.Fatalf("HandleIncomingAttack while blocking (late) = %d, want HitBlocked", result)
	}
	dealt := before - w.Player.HP
	if dealt <= 0 || dealt >= FixedFromFloat(0.5) {
		t.Fatalf("blocked damage %v not reduced relative to raw 0.5", dealt)
	}
}

func TestInvulnerableDuringRollIgnoresAttacks(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	w.Player.Rolling = true
	w.Player.Invulnerable = true
	before := w.Player.HP
	result := w.HandleIncomingAttack(FixedFromInt(50), w.Player.X, w.Player.Y-FixedFromFloat(0.01))
	if result != HitIgnored {
		t.Fatalf("HandleIncomingAttack while rolling = %d, want HitIgnored", result)
	}
	if w.Player.HP != before {
		t.Fatalf("rolling player took damage: before=%v after=%v", before, w.Player.HP)
	}
}
