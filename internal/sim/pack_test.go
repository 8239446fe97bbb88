package sim

import "testing"

func TestFormPackAssignsLeaderToHighestIntelligenceMorale(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	a := w.SpawnEnemy(EnemyNormal, 0.2, 0.2)
	b := w.SpawnEnemy(EnemyNormal, 0.3, 0.3)
	w.Enemies[a].Intelligence = FixedFromFloat(0.4)
	w.Enemies[a].Morale = FixedFromFloat(0.5)
	w.Enemies[b].Intelligence = FixedFromFloat(0.8)
	w.Enemies[b].Morale = FixedFromFloat(0.9)

	packIdx := w.FormPack([]int32{a, b})
	if packIdx < 0 {
		t.Fatalf("FormPack failed: %d", packIdx)
	}
	if w.Enemies[b].Role != RoleLeader {
		t.Fatalf("pack leader role assigned to slot %d, want slot %d (higher intelligence*morale)", a, b)
	}
}

func TestDissolvePackClearsMembership(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	a := w.SpawnEnemy(EnemyNormal, 0.2, 0.2)
	b := w.SpawnEnemy(EnemyNormal, 0.3, 0.3)
	packIdx := w.FormPack([]int32{a, b})

	if status := w.DissolvePack(packIdx); status != StatusOK {
		t.Fatalf("DissolvePack = %d, want StatusOK", status)
	}
	if w.Enemies[a].PackID != -1 || w.Enemies[b].PackID != -1 {
		t.Fatalf("members retained a PackID after dissolution")
	}
	if w.Packs[packIdx].Active {
		t.Fatalf("pack still marked active after dissolution")
	}
}

func TestSelectPackPlanRetreatsWithDyingLeader(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	a := w.SpawnEnemy(EnemyNormal, 0.2, 0.2)
	b := w.SpawnEnemy(EnemyNormal, 0.8, 0.8)
	packIdx := w.FormPack([]int32{a, b})
	w.Player.X, w.Player.Y = FixedFromFloat(0.5), FixedFromFloat(0.5)

	var leader int32 = a
	if w.Enemies[b].Role == RoleLeader {
		leader = b
	}
	w.Enemies[leader].HP = FMul(statsFor(EnemyNormal).MaxHealth, FixedFromFloat(0.1))

	if plan := w.selectPackPlan(int(packIdx)); plan != PlanRetreat {
		t.Fatalf("selectPackPlan with dying leader = %v, want PlanRetreat", plan)
	}
}

func TestSelectPackPlanPincersIsolatedPlayer(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	a := w.SpawnEnemy(EnemyNormal, 0.2, 0.2)
	b := w.SpawnEnemy(EnemyNormal, 0.3, 0.3)
	c := w.SpawnEnemy(EnemyNormal, 0.4, 0.4)
	packIdx := w.FormPack([]int32{a, b, c})
	w.Player.X, w.Player.Y = FixedFromFloat(0.02), FixedFromFloat(0.02) // cornered

	if plan := w.selectPackPlan(int(packIdx)); plan != PlanPincer {
		t.Fatalf("selectPackPlan with 3 members and an isolated player = %v, want PlanPincer", plan)
	}
}
