package sim

import (
	"math"
	"testing"
)

func TestFMulFDivRoundTrip(t *testing.T) {
	tests := []struct {
		a, b float64
	}{
		{2.0, 3.0},
		{0.5, 0.5},
		{-1.5, 2.0},
		{0, 5.0},
	}
	for _, tt := range tests {
		a := FixedFromFloat(tt.a)
		b := FixedFromFloat(tt.b)
		got := FMul(a, b).ToFloat32()
		want := float32(tt.a * tt.b)
		if math.Abs(float64(got-want)) > 0.01 {
			t.Errorf("FMul(%v,%v) = %v, want ~%v", tt.a, tt.b, got, want)
		}
	}
}

func TestFDivByZero(t *testing.T) {
	if got := FDiv(FixedOne, 0); got != 0 {
		t.Errorf("FDiv by zero = %v, want 0", got)
	}
}

func TestFSqrt(t *testing.T) {
	tests := []float64{0, 1, 4, 2, 0.25}
	for _, v := range tests {
		got := FSqrt(FixedFromFloat(v)).ToFloat32()
		want := float32(math.Sqrt(v))
		if math.Abs(float64(got-want)) > 0.01 {
			t.Errorf("FSqrt(%v) = %v, want ~%v", v, got, want)
		}
	}
}

func TestFSinFCos(t *testing.T) {
	tests := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	for _, a := range tests {
		sin := FSin(FixedFromFloat(a)).ToFloat32()
		cos := FCos(FixedFromFloat(a)).ToFloat32()
		wantSin := float32(math.Sin(a))
		wantCos := float32(math.Cos(a))
		if math.Abs(float64(sin-wantSin)) > 0.02 {
			t.Errorf("FSin(%v) = %v, want ~%v", a, sin, wantSin)
		}
		if math.Abs(float64(cos-wantCos)) > 0.02 {
			t.Errorf("FCos(%v) = %v, want ~%v", a, cos, wantCos)
		}
	}
}

func TestFAtan2Quadrants(t *testing.T) {
	tests := []struct {
		y, x float64
	}{
		{1, 1}, {1, -1}, {-1, -1}, {-1, 1}, {0, 1}, {1, 0},
	}
	for _, tt := range tests {
		got := FAtan2(FixedFromFloat(tt.y), FixedFromFloat(tt.x)).ToFloat32()
		want := float32(math.Atan2(tt.y, tt.x))
		if math.Abs(float64(got-want)) > 0.05 {
			t.Errorf("FAtan2(%v,%v) = %v, want ~%v", tt.y, tt.x, got, want)
		}
	}
}

func TestFClamp(t *testing.T) {
	lo, hi := FixedFromInt(0), FixedFromInt(10)
	if got := FClamp(FixedFromInt(-5), lo, hi); got != lo {
		t.Errorf("FClamp below range = %v, want %v", got, lo)
	}
	if got := FClamp(FixedFromInt(15), lo, hi); got != hi {
		t.Errorf("FClamp above range = %v, want %v", got, hi)
	}
	mid := FixedFromInt(5)
	if got := FClamp(mid, lo, hi); got != mid {
		t.Errorf("FClamp in range = %v, want %v", got, mid)
	}
}

func TestFMulSaturatesOnOverflow(t *testing.T) {
	big := Fixed(math.MaxInt32)
	got := FMul(big, FixedFromInt(2))
	if got != Fixed(math.MaxInt32) {
		t.Errorf("FMul overflow did not saturate: got %v", got)
	}
}
