package sim

// Upgrade system: per-class node graphs with purchasable tiers and a
// flat-effect-scalar accumulator, per spec.md §4.10. Grounded on the
// teacher's internal/config/config.go SSOT pattern (Default*() builder
// + a flat struct of tunables), generalized from "one global config"
// to "one config tree per class, purchasable at runtime."

// EffectID names a scalar the rest of the sim reads multiplicatively
// or additively, per spec.md §4.10's effect-scalar table.
type EffectID int32

const (
	EffectDamage EffectID = iota
	EffectMaxHealth
	EffectStaminaRegen
	EffectMoveSpeed
	EffectArmor
	EffectCooldownReduction
	EffectGoldGain
	EffectEssenceGain
	effectCount
)

// UpgradeNode is one purchasable node in a class's tree.
type UpgradeNode struct {
	ID        int32
	Class     ClassID
	Effect    EffectID
	Scale     Fixed
	Cost      int32
	Requires  int32 // node ID that must be purchased first, -1 if root
}

const maxUpgradeNodes = 9 // 3 classes x 3 tiers, per spec.md §4.10

var upgradeNodes = [maxUpgradeNodes]UpgradeNode{
	{ID: 0, Class: ClassWarden, Effect: EffectArmor, Scale: FixedFromFloat(0.1), Cost: 50, Requires: -1},
	{ID: 1, Class: ClassWarden, Effect: EffectMaxHealth, Scale: FixedFromFloat(0.2), Cost: 120, Requires: 0},
	{ID: 2, Class: ClassWarden, Effect: EffectDamage, Scale: FixedFromFloat(0.15), Cost: 220, Requires: 1},

	{ID: 3, Class: ClassRaider, Effect: EffectMoveSpeed, Scale: FixedFromFloat(0.1), Cost: 50, Requires: -1},
	{ID: 4, Class: ClassRaider, Effect: EffectDamage, Scale: FixedFromFloat(0.2), Cost: 120, Requires: 3},
	{ID: 5, Class: ClassRaider, Effect: EffectCooldownReduction, Scale: FixedFromFloat(0.2), Cost: 220, Requires: 4},

	{ID: 6, Class: ClassKensei, Effect: EffectStaminaRegen, Scale: FixedFromFloat(0.15), Cost: 50, Requires: -1},
	{ID: 7, Class: ClassKensei, Effect: EffectCooldownReduction, Scale: FixedFromFloat(0.15), Cost: 120, Requires: 6},
	{ID: 8, Class: ClassKensei, Effect: EffectDamage, Scale: FixedFromFloat(0.25), Cost: 220, Requires: 7},
}

// upgradeState tracks purchases and the resulting flat effect scalars,
// per spec.md §4.10. EffectScalars starts at FixedOne (multiplicative
// identity) for multiplicative effects; additive effects (gold/essence
// gain) start at zero and are interpreted as a bonus fraction.
type upgradeState struct {
	Purchased           [maxUpgradeNodes]bool
	EffectScalars        [effectCount]Fixed
	PendingPurchaseDone  bool
}

func newUpgradeState() upgradeState {
	var us upgradeState
	for i := range us.EffectScalars {
		us.EffectScalars[i] = FixedOne
	}
	us.EffectScalars[EffectGoldGain] = 0
	us.EffectScalars[EffectEssenceGain] = 0
	return us
}

// CanPurchase reports whether node id's prerequisite is satisfied and
// it isn't already owned, per spec.md §4.10.
func (w *World) CanPurchase(nodeID int32) bool {
	if nodeID < 0 || int(nodeID) >= maxUpgradeNodes {
		return false
	}
	n := upgradeNodes[nodeID]
	if w.Upgrades.Purchased[nodeID] {
		return false
	}
	if n.Class != w.Player.Class {
		return false
	}
	if n.Requires >= 0 && !w.Upgrades.Purchased[n.Requires] {
		return false
	}
	return w.Player.Gold >= n.Cost
}

// Purchase buys node id, deducting gold and folding its effect into
// EffectScalars, per spec.md §4.10. Returns StatusFail if CanPurchase
// would be false, else StatusOK.
func (w *World) Purchase(nodeID int32) int32 {
	if !w.CanPurchase(nodeID) {
		return StatusFail
	}
	n := upgradeNodes[nodeID]
	w.Player.Gold -= n.Cost
	w.Upgrades.Purchased[nodeID] = true
	w.Upgrades.applyFlatEffect(n.Effect, n.Scale)
	w.Upgrades.PendingPurchaseDone = true
	return StatusOK
}

// applyFlatEffect folds a scale delta into an effect's running scalar.
// Multiplicative effects accumulate as (1+scale) products; the two
// additive gain effects accumulate as a running sum instead, per
// spec.md §4.10's distinction between "damage-like" and "gain-like"
// effects.
func (us *upgradeState) applyFlatEffect(effect EffectID, scale Fixed) {
	switch effect {
	case EffectGoldGain, EffectEssenceGain:
		us.EffectScalars[effect] += scale
	default:
		us.EffectScalars[effect] = FMul(us.EffectScalars[effect], FixedOne+scale)
	}
}

// effectScalar is the read side of the façade, per spec.md §4.12/§6.2.
func (us *upgradeState) effectScalar(effect EffectID) Fixed {
	if effect < 0 || effect >= effectCount {
		return FixedOne
	}
	return us.EffectScalars[effect]
}

// ResetClass clears every purchase for the player's current class and
// resets its effect scalars to identity, per spec.md §4.10's respec op.
func (w *World) ResetClass() int32 {
	us := &w.Upgrades
	for i := range upgradeNodes {
		n := upgradeNodes[i]
		if n.Class == w.Player.Class && us.Purchased[i] {
			us.Purchased[i] = false
		}
	}
	// Recompute scalars for this class's effects from scratch rather
	// than trying to invert applyFlatEffect's accumulation.
	touched := map[EffectID]bool{}
	for i := range upgradeNodes {
		if upgradeNodes[i].Class == w.Player.Class {
			touched[upgradeNodes[i].Effect] = true
		}
	}
	for effect := range touched {
		switch effect {
		case EffectGoldGain, EffectEssenceGain:
			us.EffectScalars[effect] = 0
		default:
			us.EffectScalars[effect] = FixedOne
		}
	}
	return StatusOK
}
