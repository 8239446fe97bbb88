package sim

import "testing"

func TestSeparateResolvesOverlap(t *testing.T) {
	var x1, y1, vx1, vy1 Fixed
	var x2, y2, vx2, vy2 Fixed
	x1, y1 = 0, 0
	x2, y2 = FixedFromFloat(0.01), 0 // well inside combined radius

	a := physicsBody{active: true, x: &x1, y: &y1, vx: &vx1, vy: &vy1, radius: playerRadius, mass: playerMass, restitution: FixedFromFloat(0.6)}
	b := physicsBody{active: true, x: &x2, y: &y2, vx: &vx2, vy: &vy2, radius: playerRadius, mass: playerMass, restitution: FixedFromFloat(0.6)}

	separate(&a, &b)

	dx := x2 - x1
	dy := y2 - y1
	distSq := FMul(dx, dx) + FMul(dy, dy)
	minDist := a.radius + b.radius
	if distSq < FMul(minDist, minDist)-Fixed(200) {
		t.Fatalf("bodies still overlapping after separate(): distSq=%v want >= %v", distSq, FMul(minDist, minDist))
	}
}

func TestSpawnBarrelExhaustsPool(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	for i := 0; i < maxBarrels; i++ {
		if slot := w.SpawnBarrel(0.1, 0.1, 0, 0); slot < 0 {
			t.Fatalf("unexpected barrel exhaustion at %d", i)
		}
	}
	if slot := w.SpawnBarrel(0.1, 0.1, 0, 0); slot != -1 {
		t.Fatalf("17th barrel spawn = %d, want -1", slot)
	}
}

func TestClampToBoundsReflectsVelocity(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	w.Player.X = FixedOne + FixedFromFloat(0.1)
	w.Player.VX = FixedFromFloat(1.0)
	w.clampToBounds()
	if w.Player.X != FixedOne {
		t.Fatalf("player X after clamp = %v, want FixedOne", w.Player.X)
	}
	if w.Player.VX >= 0 {
		t.Fatalf("player VX after boundary bounce = %v, want negative", w.Player.VX)
	}
}

func TestApplyKnockbackInvalidSlot(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	if status := w.applyKnockback(-1, FixedOne, 0); status != StatusInvalidBodyIndex {
		t.Fatalf("applyKnockback(-1,...) = %d, want StatusInvalidBodyIndex", status)
	}
	if status := w.applyKnockback(maxBodies, FixedOne, 0); status != StatusInvalidBodyIndex {
		t.Fatalf("applyKnockback(maxBodies,...) = %d, want StatusInvalidBodyIndex", status)
	}
}
