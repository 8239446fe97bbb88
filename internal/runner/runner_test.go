package runner

import (
	"testing"
	"time"

	"roguekeep/internal/sim"
)

func TestNewDoesNotStartGoroutines(t *testing.T) {
	r := New(1, sim.WeaponSword, 60)
	before := r.View()
	time.Sleep(20 * time.Millisecond)
	after := r.View()
	if before.TickCount != after.TickCount {
		t.Fatalf("tick count advanced without Start(): %d -> %d", before.TickCount, after.TickCount)
	}
}

func TestStartAdvancesTicksThenStopHalts(t *testing.T) {
	r := New(1, sim.WeaponSword, 240)
	r.Start()
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	midway := r.View().TickCount
	if midway == 0 {
		t.Fatalf("TickCount = 0 after Start(), want > 0")
	}

	time.Sleep(30 * time.Millisecond)
	after := r.View().TickCount
	if after != midway {
		t.Fatalf("TickCount advanced after Stop(): %d -> %d", midway, after)
	}
}

func TestOnTickHookFires(t *testing.T) {
	r := New(1, sim.WeaponSword, 240)
	fired := make(chan struct{}, 1)
	r.OnTick(func(dur time.Duration, enemies, phase int32) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	r.Start()
	defer r.Stop()

	select {
	case <-fired:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("OnTick hook never fired")
	}
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	r := New(7, sim.WeaponHammer, 60)
	r.SetInput(0.5, 0, 0, 0, 1, 0, 0, 0)

	buf := r.SaveState()

	r2 := New(7, sim.WeaponHammer, 60)
	if status := r2.LoadState(buf); status != sim.StatusOK {
		t.Fatalf("LoadState = %d, want StatusOK", status)
	}

	a, b := r.View(), r2.View()
	if a.PlayerX != b.PlayerX || a.PlayerHP != b.PlayerHP {
		t.Fatalf("LoadState did not restore player state: %+v vs %+v", a, b)
	}
}

func TestResetPreservesWeapon(t *testing.T) {
	r := New(1, sim.WeaponKatana, 60)
	r.Reset(2)
	if r.View().PlayerWeapon != int32(sim.WeaponKatana) {
		t.Fatalf("Reset changed weapon, want WeaponKatana")
	}
}
