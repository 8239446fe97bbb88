package sim

import "testing"

func TestSpawnEnemyAllocatesFreeSlot(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	slot := w.SpawnEnemy(EnemyNormal, 0.2, 0.2)
	if slot < 0 {
		t.Fatalf("SpawnEnemy failed: %d", slot)
	}
	if !w.EnemyAlive[slot] {
		t.Fatalf("spawned enemy not marked alive")
	}
	if w.Enemies[slot].HP != statsFor(EnemyNormal).MaxHealth {
		t.Fatalf("spawned enemy HP = %v, want max health", w.Enemies[slot].HP)
	}
}

func TestSpawnEnemyExhaustsPool(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	for i := 0; i < maxEnemies; i++ {
		if slot := w.SpawnEnemy(EnemyNormal, 0.1, 0.1); slot < 0 {
			t.Fatalf("unexpected exhaustion at spawn %d", i)
		}
	}
	if slot := w.SpawnEnemy(EnemyNormal, 0.1, 0.1); slot != StatusBodyPoolExhausted {
		t.Fatalf("33rd spawn = %d, want StatusBodyPoolExhausted", slot)
	}
}

func TestApplyPlayerDamageToEnemyKillsAndRemoves(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	slot := w.SpawnEnemy(EnemyNormal, 0.2, 0.2)
	essenceBefore := w.Player.Essence

	w.applyPlayerDamageToEnemy(int(slot), statsFor(EnemyNormal).MaxHealth*2, true)

	if w.EnemyAlive[slot] {
		t.Fatalf("enemy with lethal damage still marked alive")
	}
	if w.Player.Essence != essenceBefore+1 {
		t.Fatalf("killing an enemy did not grant essence")
	}
}

func TestEnemyRetreatsAtLowHealthAndLowMorale(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	slot := w.SpawnEnemy(EnemyNormal, 0.2, 0.2)
	e := &w.Enemies[slot]
	e.HP = FMul(statsFor(EnemyNormal).MaxHealth, FixedFromFloat(0.1))
	e.Morale = FixedFromFloat(0.1)
	w.Player.X = FixedFromFloat(0.9)
	w.Player.Y = FixedFromFloat(0.9)

	w.selectEnemyState(int(slot))

	if w.Enemies[slot].State != EnemyRetreat {
		t.Fatalf("low-health, low-morale enemy State = %v, want EnemyRetreat", w.Enemies[slot].State)
	}
}

func TestEnemyAttacksInRangeWithCooldownReady(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	slot := w.SpawnEnemy(EnemyNormal, 0.5, 0.5)
	e := &w.Enemies[slot]
	w.Player.X = e.X
	w.Player.Y = e.Y

	w.selectEnemyState(int(slot))

	if w.Enemies[slot].State != EnemyAttack {
		t.Fatalf("adjacent enemy with cooldown ready State = %v, want EnemyAttack", w.Enemies[slot].State)
	}
}

func TestRemoveEnemyInvalidIndex(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	if status := w.RemoveEnemy(-1); status != StatusInvalidBodyIndex {
		t.Fatalf("RemoveEnemy(-1) = %d, want StatusInvalidBodyIndex", status)
	}
	if status := w.RemoveEnemy(maxEnemies); status != StatusInvalidBodyIndex {
		t.Fatalf("RemoveEnemy(maxEnemies) = %d, want StatusInvalidBodyIndex", status)
	}
}
