package sim

// This file is the compile-time balance data source spec.md §9's
// Open Questions requires: every per-weapon timing/damage table and
// per-enemy-type stat row lives here as Go map literals, converted to
// Q16.16 once at package init, in the shape of the teacher's
// internal/game/weapons.go Weapons map and internal/game/animation.go
// DefaultWeaponAnimations map (package-level table + GetX accessor
// with a "fists"-style fallback).

// AttackKind distinguishes the weapon-agnostic attack inputs spec.md
// §4.4 drives the combat state machine with.
type AttackKind int

const (
	AttackLight AttackKind = iota
	AttackHeavy
	AttackSpecial
)

// WeaponID indexes the eleven starting-weapon slots spec.md §4.2 allows
// init_run to select from (0..10).
type WeaponID int

const (
	WeaponFists WeaponID = iota
	WeaponKnife
	WeaponSword
	WeaponSpear
	WeaponAxe
	WeaponKatana
	WeaponHammer
	WeaponScythe
	WeaponGreatsword
	WeaponDualBlades
	WeaponWarhammer
	weaponCount
)

// WeaponTag carries the reach/hyperarmor/flow/bash-synergy flags
// spec.md §4.2 says start_weapon selects.
type WeaponTag struct {
	ReachMult     Fixed
	Hyperarmor    bool
	FlowSynergy   bool
	BashSynergy   bool
	ComboMaxHits  int
	ComboWindow   Fixed // seconds
	ComboScale    [6]Fixed
}

// AttackTiming holds windup/active/recovery durations (seconds, Q16.16)
// for one (weapon, attack kind) pair, per spec.md §4.4 and §9.
type AttackTiming struct {
	Windup    Fixed
	Active    Fixed
	Recovery  Fixed
	Range     Fixed // base attack_range before reach multiplier
	MinDamage Fixed
	MaxDamage Fixed
}

var weaponTags = [weaponCount]WeaponTag{
	WeaponFists:      {ReachMult: FixedOne, ComboMaxHits: 4, ComboWindow: FixedFromFloat(0.8), ComboScale: scaleTable(1.0, 1.1, 1.2, 1.3, 1.4, 1.5)},
	WeaponKnife:      {ReachMult: FixedFromFloat(1.05), ComboMaxHits: 3, ComboWindow: FixedFromFloat(0.7), ComboScale: scaleTable(1.0, 1.2, 1.4, 1.4, 1.4, 1.4)},
	WeaponSword:      {ReachMult: FixedOne, Hyperarmor: false, ComboMaxHits: 3, ComboWindow: FixedFromFloat(0.8), ComboScale: scaleTable(1.0, 1.3, 1.6, 1.6, 1.6, 1.6)},
	WeaponSpear:      {ReachMult: FixedFromFloat(1.4), ComboMaxHits: 2, ComboWindow: FixedFromFloat(0.8), ComboScale: scaleTable(1.0, 1.5, 1.5, 1.5, 1.5, 1.5)},
	WeaponAxe:        {ReachMult: FixedFromFloat(1.1), Hyperarmor: true, ComboMaxHits: 2, ComboWindow: FixedFromFloat(0.9), ComboScale: scaleTable(1.0, 1.8, 1.8, 1.8, 1.8, 1.8)},
	WeaponKatana:     {ReachMult: FixedFromFloat(1.2), FlowSynergy: true, ComboMaxHits: 4, ComboWindow: FixedFromFloat(0.8), ComboScale: scaleTable(1.0, 1.15, 1.3, 2.0, 2.0, 2.0)},
	WeaponHammer:     {ReachMult: FixedFromFloat(1.0), Hyperarmor: true, ComboMaxHits: 2, ComboWindow: FixedFromFloat(1.0), ComboScale: scaleTable(1.0, 2.0, 2.0, 2.0, 2.0, 2.0)},
	WeaponScythe:     {ReachMult: FixedFromFloat(1.3), ComboMaxHits: 3, ComboWindow: FixedFromFloat(0.9), ComboScale: scaleTable(1.0, 1.4, 1.8, 1.8, 1.8, 1.8)},
	WeaponGreatsword: {ReachMult: FixedFromFloat(1.35), Hyperarmor: true, BashSynergy: true, ComboMaxHits: 2, ComboWindow: FixedFromFloat(1.0), ComboScale: scaleTable(1.0, 1.9, 1.9, 1.9, 1.9, 1.9)},
	WeaponDualBlades: {ReachMult: FixedFromFloat(0.95), FlowSynergy: true, ComboMaxHits: 6, ComboWindow: FixedFromFloat(0.8), ComboScale: scaleTable(1.0, 1.1, 1.2, 1.3, 1.4, 1.6)},
	WeaponWarhammer:  {ReachMult: FixedFromFloat(1.15), Hyperarmor: true, BashSynergy: true, ComboMaxHits: 2, ComboWindow: FixedFromFloat(1.1), ComboScale: scaleTable(1.0, 2.2, 2.2, 2.2, 2.2, 2.2)},
}

func scaleTable(vals ...float64) [6]Fixed {
	var out [6]Fixed
	for i, v := range vals {
		if i >= 6 {
			break
		}
		out[i] = FixedFromFloat(v)
	}
	return out
}

// attackTimings[weapon][kind] — windup/active/recovery/range/damage per
// spec.md §4.4's `windup[weapon,attack_kind]` family of tables.
var attackTimings = [weaponCount][3]AttackTiming{
	WeaponFists: {
		AttackLight:   {Windup: FixedFromFloat(0.05), Active: FixedFromFloat(0.10), Recovery: FixedFromFloat(0.15), Range: FixedFromFloat(0.09), MinDamage: FixedFromInt(8), MaxDamage: FixedFromInt(15)},
		AttackHeavy:   {Windup: FixedFromFloat(0.22), Active: FixedFromFloat(0.12), Recovery: FixedFromFloat(0.30), Range: FixedFromFloat(0.10), MinDamage: FixedFromInt(14), MaxDamage: FixedFromInt(24)},
		AttackSpecial: {Windup: FixedFromFloat(0.10), Active: FixedFromFloat(0.10), Recovery: FixedFromFloat(0.20), Range: FixedFromFloat(0.09), MinDamage: FixedFromInt(10), MaxDamage: FixedFromInt(18)},
	},
	WeaponKnife: {
		AttackLight:   {Windup: FixedFromFloat(0.05), Active: FixedFromFloat(0.10), Recovery: FixedFromFloat(0.15), Range: FixedFromFloat(0.10), MinDamage: FixedFromInt(12), MaxDamage: FixedFromInt(22)},
		AttackHeavy:   {Windup: FixedFromFloat(0.20), Active: FixedFromFloat(0.12), Recovery: FixedFromFloat(0.28), Range: FixedFromFloat(0.11), MinDamage: FixedFromInt(20), MaxDamage: FixedFromInt(32)},
		AttackSpecial: {Windup: FixedFromFloat(0.12), Active: FixedFromFloat(0.10), Recovery: FixedFromFloat(0.20), Range: FixedFromFloat(0.10), MinDamage: FixedFromInt(16), MaxDamage: FixedFromInt(26)},
	},
	WeaponSword: {
		AttackLight:   {Windup: FixedFromFloat(0.15), Active: FixedFromFloat(0.15), Recovery: FixedFromFloat(0.20), Range: FixedFromFloat(0.11), MinDamage: FixedFromInt(18), MaxDamage: FixedFromInt(35)},
		AttackHeavy:   {Windup: FixedFromFloat(0.35), Active: FixedFromFloat(0.18), Recovery: FixedFromFloat(0.40), Range: FixedFromFloat(0.12), MinDamage: FixedFromInt(30), MaxDamage: FixedFromInt(50)},
		AttackSpecial: {Windup: FixedFromFloat(0.20), Active: FixedFromFloat(0.15), Recovery: FixedFromFloat(0.25), Range: FixedFromFloat(0.11), MinDamage: FixedFromInt(22), MaxDamage: FixedFromInt(38)},
	},
	WeaponSpear: {
		AttackLight:   {Windup: FixedFromFloat(0.18), Active: FixedFromFloat(0.12), Recovery: FixedFromFloat(0.25), Range: FixedFromFloat(0.16), MinDamage: FixedFromInt(15), MaxDamage: FixedFromInt(30)},
		AttackHeavy:   {Windup: FixedFromFloat(0.40), Active: FixedFromFloat(0.15), Recovery: FixedFromFloat(0.45), Range: FixedFromFloat(0.18), MinDamage: FixedFromInt(26), MaxDamage: FixedFromInt(46)},
		AttackSpecial: {Windup: FixedFromFloat(0.25), Active: FixedFromFloat(0.12), Recovery: FixedFromFloat(0.30), Range: FixedFromFloat(0.16), MinDamage: FixedFromInt(18), MaxDamage: FixedFromInt(34)},
	},
	WeaponAxe: {
		AttackLight:   {Windup: FixedFromFloat(0.25), Active: FixedFromFloat(0.18), Recovery: FixedFromFloat(0.35), Range: FixedFromFloat(0.10), MinDamage: FixedFromInt(30), MaxDamage: FixedFromInt(50)},
		AttackHeavy:   {Windup: FixedFromFloat(0.45), Active: FixedFromFloat(0.22), Recovery: FixedFromFloat(0.55), Range: FixedFromFloat(0.11), MinDamage: FixedFromInt(45), MaxDamage: FixedFromInt(70)},
		AttackSpecial: {Windup: FixedFromFloat(0.30), Active: FixedFromFloat(0.18), Recovery: FixedFromFloat(0.40), Range: FixedFromFloat(0.10), MinDamage: FixedFromInt(34), MaxDamage: FixedFromInt(55)},
	},
	WeaponKatana: {
		AttackLight:   {Windup: FixedFromFloat(0.10), Active: FixedFromFloat(0.12), Recovery: FixedFromFloat(0.18), Range: FixedFromFloat(0.13), MinDamage: FixedFromInt(25), MaxDamage: FixedFromInt(40)},
		AttackHeavy:   {Windup: FixedFromFloat(0.28), Active: FixedFromFloat(0.15), Recovery: FixedFromFloat(0.35), Range: FixedFromFloat(0.14), MinDamage: FixedFromInt(36), MaxDamage: FixedFromInt(58)},
		AttackSpecial: {Windup: FixedFromFloat(0.15), Active: FixedFromFloat(0.12), Recovery: FixedFromFloat(0.22), Range: FixedFromFloat(0.13), MinDamage: FixedFromInt(28), MaxDamage: FixedFromInt(44)},
	},
	WeaponHammer: {
		AttackLight:   {Windup: FixedFromFloat(0.35), Active: FixedFromFloat(0.20), Recovery: FixedFromFloat(0.45), Range: FixedFromFloat(0.10), MinDamage: FixedFromInt(45), MaxDamage: FixedFromInt(75)},
		AttackHeavy:   {Windup: FixedFromFloat(0.60), Active: FixedFromFloat(0.25), Recovery: FixedFromFloat(0.70), Range: FixedFromFloat(0.11), MinDamage: FixedFromInt(65), MaxDamage: FixedFromInt(100)},
		AttackSpecial: {Windup: FixedFromFloat(0.40), Active: FixedFromFloat(0.20), Recovery: FixedFromFloat(0.50), Range: FixedFromFloat(0.10), MinDamage: FixedFromInt(50), MaxDamage: FixedFromInt(80)},
	},
	WeaponScythe: {
		AttackLight:   {Windup: FixedFromFloat(0.20), Active: FixedFromFloat(0.18), Recovery: FixedFromFloat(0.30), Range: FixedFromFloat(0.15), MinDamage: FixedFromInt(40), MaxDamage: FixedFromInt(65)},
		AttackHeavy:   {Windup: FixedFromFloat(0.40), Active: FixedFromFloat(0.22), Recovery: FixedFromFloat(0.50), Range: FixedFromFloat(0.16), MinDamage: FixedFromInt(55), MaxDamage: FixedFromInt(85)},
		AttackSpecial: {Windup: FixedFromFloat(0.25), Active: FixedFromFloat(0.18), Recovery: FixedFromFloat(0.35), Range: FixedFromFloat(0.15), MinDamage: FixedFromInt(44), MaxDamage: FixedFromInt(70)},
	},
	WeaponGreatsword: {
		AttackLight:   {Windup: FixedFromFloat(0.30), Active: FixedFromFloat(0.20), Recovery: FixedFromFloat(0.40), Range: FixedFromFloat(0.12), MinDamage: FixedFromInt(35), MaxDamage: FixedFromInt(55)},
		AttackHeavy:   {Windup: FixedFromFloat(0.55), Active: FixedFromFloat(0.25), Recovery: FixedFromFloat(0.60), Range: FixedFromFloat(0.13), MinDamage: FixedFromInt(55), MaxDamage: FixedFromInt(90)},
		AttackSpecial: {Windup: FixedFromFloat(0.35), Active: FixedFromFloat(0.20), Recovery: FixedFromFloat(0.45), Range: FixedFromFloat(0.12), MinDamage: FixedFromInt(40), MaxDamage: FixedFromInt(65)},
	},
	WeaponDualBlades: {
		AttackLight:   {Windup: FixedFromFloat(0.04), Active: FixedFromFloat(0.08), Recovery: FixedFromFloat(0.10), Range: FixedFromFloat(0.085), MinDamage: FixedFromInt(10), MaxDamage: FixedFromInt(18)},
		AttackHeavy:   {Windup: FixedFromFloat(0.18), Active: FixedFromFloat(0.12), Recovery: FixedFromFloat(0.22), Range: FixedFromFloat(0.095), MinDamage: FixedFromInt(18), MaxDamage: FixedFromInt(28)},
		AttackSpecial: {Windup: FixedFromFloat(0.10), Active: FixedFromFloat(0.08), Recovery: FixedFromFloat(0.15), Range: FixedFromFloat(0.085), MinDamage: FixedFromInt(12), MaxDamage: FixedFromInt(20)},
	},
	WeaponWarhammer: {
		AttackLight:   {Windup: FixedFromFloat(0.40), Active: FixedFromFloat(0.22), Recovery: FixedFromFloat(0.50), Range: FixedFromFloat(0.11), MinDamage: FixedFromInt(50), MaxDamage: FixedFromInt(80)},
		AttackHeavy:   {Windup: FixedFromFloat(0.65), Active: FixedFromFloat(0.28), Recovery: FixedFromFloat(0.75), Range: FixedFromFloat(0.12), MinDamage: FixedFromInt(70), MaxDamage: FixedFromInt(110)},
		AttackSpecial: {Windup: FixedFromFloat(0.45), Active: FixedFromFloat(0.22), Recovery: FixedFromFloat(0.55), Range: FixedFromFloat(0.11), MinDamage: FixedFromInt(55), MaxDamage: FixedFromInt(88)},
	},
}

func timing(w WeaponID, kind AttackKind) AttackTiming {
	if w < 0 || int(w) >= int(weaponCount) {
		w = WeaponFists
	}
	return attackTimings[w][kind]
}

func tagFor(w WeaponID) WeaponTag {
	if w < 0 || int(w) >= int(weaponCount) {
		w = WeaponFists
	}
	return weaponTags[w]
}

// EnemyType enumerates the wolf-pack archetypes from spec.md §3.
type EnemyType int

const (
	EnemyNormal EnemyType = iota
	EnemyAlpha
	EnemyScout
	EnemyHunter
	EnemyOmega
	enemyTypeCount
)

// EnemyStats is the per-type stat row spec.md §3's Enemy model
// parameterizes health/damage/speed/detection/attack-range by.
type EnemyStats struct {
	MaxHealth      Fixed
	Damage         Fixed
	Speed          Fixed // units/sec, world-normalized
	DetectionRange Fixed
	AttackRange    Fixed
	MaxStamina     Fixed
}

var enemyStats = [enemyTypeCount]EnemyStats{
	EnemyNormal: {MaxHealth: FixedFromInt(40), Damage: FixedFromInt(8), Speed: FixedFromFloat(0.22), DetectionRange: FixedFromFloat(0.35), AttackRange: FixedFromFloat(0.05), MaxStamina: FixedOne},
	EnemyAlpha:  {MaxHealth: FixedFromInt(90), Damage: FixedFromInt(16), Speed: FixedFromFloat(0.26), DetectionRange: FixedFromFloat(0.40), AttackRange: FixedFromFloat(0.06), MaxStamina: FixedOne},
	EnemyScout:  {MaxHealth: FixedFromInt(28), Damage: FixedFromInt(6), Speed: FixedFromFloat(0.34), DetectionRange: FixedFromFloat(0.50), AttackRange: FixedFromFloat(0.045), MaxStamina: FixedOne},
	EnemyHunter: {MaxHealth: FixedFromInt(55), Damage: FixedFromInt(12), Speed: FixedFromFloat(0.28), DetectionRange: FixedFromFloat(0.42), AttackRange: FixedFromFloat(0.055), MaxStamina: FixedOne},
	EnemyOmega:  {MaxHealth: FixedFromInt(200), Damage: FixedFromInt(22), Speed: FixedFromFloat(0.20), DetectionRange: FixedFromFloat(0.45), AttackRange: FixedFromFloat(0.07), MaxStamina: FixedOne},
}

func statsFor(t EnemyType) EnemyStats {
	if t < 0 || int(t) >= int(enemyTypeCount) {
		t = EnemyNormal
	}
	return enemyStats[t]
}

// Per-state base durations (seconds), spec.md §4.5. Keyed by the
// EnemyState constants declared in enemy.go.
var enemyStateDuration = [enemyStateCount]Fixed{
	EnemyIdle:        FixedFromFloat(2.0),
	EnemyPatrol:      FixedFromFloat(4.0),
	EnemyInvestigate: FixedFromFloat(2.5),
	EnemyAlert:       FixedFromFloat(1.5),
	EnemyApproach:    FixedFromFloat(3.0),
	EnemyStrafe:      FixedFromFloat(1.5),
	EnemyAttack:      FixedFromFloat(0.9),
	EnemyRetreat:     FixedFromFloat(2.0),
	EnemyRecover:     FixedFromFloat(1.5),
	EnemyFlee:        FixedFromFloat(2.0),
	EnemyAmbush:      FixedFromFloat(999.0), // held until player is near
	EnemyFlank:       FixedFromFloat(3.0),
}

// Attack sub-phase durations within the Attack state (spec.md §4.5).
var (
	attackAnticipation = Fixed(FixedFromFloat(0.4))
	attackExecute      = Fixed(FixedFromFloat(0.2))
	attackRecovery     = Fixed(FixedFromFloat(0.3))
)
