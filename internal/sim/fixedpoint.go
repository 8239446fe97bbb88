package sim

// Fixed is a Q16.16 signed fixed-point number: the low 16 bits are the
// fractional part. All gameplay arithmetic (positions, velocities,
// damage, timers) goes through this type so that results are
// bit-identical across platforms and across replays, per the core's
// determinism contract. Floats appear only at the edges: float
// arguments and balance literals come in through FixedFromFloat, and
// query results go out through ToFloat32.
type Fixed int32

const (
	fixedShift = 16
	// FixedOne is 1.0 in Q16.16.
	FixedOne  Fixed = 1 << fixedShift
	FixedHalf Fixed = FixedOne / 2
	FixedZero Fixed = 0
)

// FixedFromInt converts a whole number to Q16.16.
func FixedFromInt(n int) Fixed {
	return Fixed(n << fixedShift)
}

// FixedFromFloat converts a float64 to Q16.16, truncating toward zero.
// It builds the balance tables and also runs at runtime on caller
// floats (Advance's dt, SetPlayerInput's axes, SpawnEnemy's position)
// and on balance constants inside the step functions.
func FixedFromFloat(f float64) Fixed {
	return Fixed(f * float64(FixedOne))
}

// ToFloat32 performs the single i32 -> f32 conversion the façade
// contract (spec §6.3) requires at the query boundary.
func (f Fixed) ToFloat32() float32 {
	return float32(f) / 65536.0
}

// ToInt truncates toward zero.
func (f Fixed) ToInt() int {
	return int(f >> fixedShift)
}

// FMul multiplies two Q16.16 values with a 64-bit intermediate,
// saturating on overflow in release builds (spec §4.1, §7 FixedOverflow).
func FMul(a, b Fixed) Fixed {
	r := (int64(a) * int64(b)) >> fixedShift
	return saturate(r)
}

// FDiv divides two Q16.16 values, saturating on overflow or returning
// zero for division by zero (no trapped exception across the façade).
func FDiv(a, b Fixed) Fixed {
	if b == 0 {
		return 0
	}
	r := (int64(a) << fixedShift) / int64(b)
	return saturate(r)
}

func saturate(r int64) Fixed {
	const maxV = int64(1<<31 - 1)
	const minV = -int64(1 << 31)
	if r > maxV {
		return Fixed(maxV)
	}
	if r < minV {
		return Fixed(minV)
	}
	return Fixed(r)
}

// FAbs returns the absolute value.
func FAbs(a Fixed) Fixed {
	if a < 0 {
		return -a
	}
	return a
}

// FMin returns the smaller of a, b.
func FMin(a, b Fixed) Fixed {
	if a < b {
		return a
	}
	return b
}

// FMax returns the larger of a, b.
func FMax(a, b Fixed) Fixed {
	if a > b {
		return a
	}
	return b
}

// FClamp clamps a to [lo, hi].
func FClamp(a, lo, hi Fixed) Fixed {
	return FMax(lo, FMin(hi, a))
}

// FSqrt computes an 8-step Newton-Raphson square root in Q16.16, per
// spec §4.1's fixed iteration cap (no data-dependent loop count, so
// the op cost is constant across platforms).
func FSqrt(a Fixed) Fixed {
	if a <= 0 {
		return 0
	}
	// Initial guess: max(a, 1.0). Eight steps converge for inputs up to
	// about 1000, which covers the unit-arena distances and speeds the
	// sim passes in; much larger inputs come back overestimated.
	x := a
	if x < FixedOne {
		x = FixedOne
	}
	for i := 0; i < 8; i++ {
		// x = (x + a/x) / 2
		x = (x + FDiv(a, x)) / 2
	}
	return x
}

// sinLUT holds round(sin(i*2*pi/256) * 65536) for i in [0, 256),
// generated once and committed so trig results are bit-identical
// across every conformant implementation (spec §4.1).
var sinLUT = [256]int32{
	0, 1608, 3216, 4821, 6424, 8022, 9616, 11204,
	12785, 14359, 15924, 17479, 19024, 20557, 22078, 23586,
	25080, 26558, 28020, 29466, 30893, 32303, 33692, 35062,
	36410, 37736, 39040, 40320, 41576, 42806, 44011, 45190,
	46341, 47464, 48559, 49624, 50660, 51665, 52639, 53581,
	54491, 55368, 56212, 57022, 57798, 58538, 59244, 59914,
	60547, 61145, 61705, 62228, 62714, 63162, 63572, 63944,
	64277, 64571, 64827, 65043, 65220, 65358, 65457, 65516,
	65536, 65516, 65457, 65358, 65220, 65043, 64827, 64571,
	64277, 63944, 63572, 63162, 62714, 62228, 61705, 61145,
	60547, 59914, 59244, 58538, 57798, 57022, 56212, 55368,
	54491, 53581, 52639, 51665, 50660, 49624, 48559, 47464,
	46341, 45190, 44011, 42806, 41576, 40320, 39040, 37736,
	36410, 35062, 33692, 32303, 30893, 29466, 28020, 26558,
	25080, 23586, 22078, 20557, 19024, 17479, 15924, 14359,
	12785, 11204, 9616, 8022, 6424, 4821, 3216, 1608,
	0, -1608, -3216, -4821, -6424, -8022, -9616, -11204,
	-12785, -14359, -15924, -17479, -19024, -20557, -22078, -23586,
	-25080, -26558, -28020, -29466, -30893, -32303, -33692, -35062,
	-36410, -37736, -39040, -40320, -41576, -42806, -44011, -45190,
	-46341, -47464, -48559, -49624, -50660, -51665, -52639, -53581,
	-54491, -55368, -56212, -57022, -57798, -58538, -59244, -59914,
	-60547, -61145, -61705, -62228, -62714, -63162, -63572, -63944,
	-64277, -64571, -64827, -65043, -65220, -65358, -65457, -65516,
	-65536, -65516, -65457, -65358, -65220, -65043, -64827, -64571,
	-64277, -63944, -63572, -63162, -62714, -62228, -61705, -61145,
	-60547, -59914, -59244, -58538, -57798, -57022, -56212, -55368,
	-54491, -53581, -52639, -51665, -50660, -49624, -48559, -47464,
	-46341, -45190, -44011, -42806, -41576, -40320, -39040, -37736,
	-36410, -35062, -33692, -32303, -30893, -29466, -28020, -26558,
	-25080, -23586, -22078, -20557, -19024, -17479, -15924, -14359,
	-12785, -11204, -9616, -8022, -6424, -4821, -3216, -1608,
}

const lutSize = 256
const lutMask = lutSize - 1

// fullTurn is 2*pi in Q16.16 radians (used to reduce an arbitrary
// angle into the LUT's domain).
const fullTurn Fixed = 411775 // round(2*pi*65536)

// FSin returns sin(angleRadians) with linear interpolation between
// adjacent LUT entries, per spec §4.1.
func FSin(angle Fixed) Fixed {
	// Reduce to [0, fullTurn).
	angle = angle % fullTurn
	if angle < 0 {
		angle += fullTurn
	}
	// Map [0, fullTurn) -> [0, 256) in Q16.16, then split index/frac.
	scaled := int64(angle) * lutSize / int64(fullTurn)
	idx := int(scaled) & lutMask
	nextIdx := (idx + 1) & lutMask

	// Fractional position between idx and nextIdx, in Q16.16.
	step := fullTurn / lutSize
	lo := Fixed(idx) * step
	frac := FDiv(angle-lo, step)
	frac = FClamp(frac, 0, FixedOne)

	a := Fixed(sinLUT[idx])
	b := Fixed(sinLUT[nextIdx])
	return a + FMul(b-a, frac)
}

// FCos returns cos(angleRadians) via the quarter-turn sine identity.
func FCos(angle Fixed) Fixed {
	return FSin(angle + fullTurn/4)
}

// FAtan2 returns atan2(y, x) in Q16.16 radians using a quadrant-reduced
// polynomial approximation (spec §4.1). Accurate to within ~0.005 rad,
// sufficient for AI facing and hitbox angle checks.
func FAtan2(y, x Fixed) Fixed {
	if x == 0 && y == 0 {
		return 0
	}

	absY := FAbs(y)
	absX := FAbs(x)

	var angle Fixed
	if absX >= absY {
		r := FDiv(absY, absX)
		angle = atanPoly(r)
	} else {
		r := FDiv(absX, absY)
		angle = fixedHalfPi - atanPoly(r)
	}

	switch {
	case x >= 0 && y >= 0:
		// first quadrant, angle already correct
	case x < 0 && y >= 0:
		angle = fixedPi - angle
	case x < 0 && y < 0:
		angle = angle - fixedPi
	default: // x >= 0 && y < 0
		angle = -angle
	}
	return angle
}

const fixedPi Fixed = 205887     // round(pi*65536)
const fixedHalfPi Fixed = 102944 // round(pi/2*65536)

// atanPoly approximates atan(r) for r in [0,1] using a minimax cubic,
// all in Q16.16 integer arithmetic (no floats reach the core).
func atanPoly(r Fixed) Fixed {
	// atan(r) ~= r*(pi/4) - r*(r-1)*(0.2447 + 0.0663*r)   [Q16.16 consts below]
	const c1 Fixed = 16036 // 0.2447 * 65536
	const c2 Fixed = 4346  // 0.0663 * 65536
	rr := FMul(r, r-FixedOne)
	inner := c1 + FMul(c2, r)
	return FMul(r, fixedQuarterPi) - FMul(rr, inner)
}

const fixedQuarterPi Fixed = 51472 // round(pi/4*65536)
