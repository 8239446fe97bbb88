package sim

// Choice system: a rarity-weighted pool of upgrade/curse/shop picks
// with a pity timer and a coarser super-pity, per spec.md §4.8.
// Grounded on the teacher's internal/game/weapons.go map-literal +
// fallback-accessor pattern (GetWeapon), reused here for the choice
// pool table, and on internal/game/event_log.go's append-only event
// buffer for choiceState.Offered.

// ChoiceRarity orders the pity-timer ladder, per spec.md §4.8.
type ChoiceRarity int32

const (
	RarityCommon ChoiceRarity = iota
	RarityUncommon
	RarityRare
	RarityLegendary
)

// ChoiceKind tags what a choice option does (spec §3 tagged variant).
type ChoiceKind int32

const (
	ChoiceUpgrade ChoiceKind = iota
	ChoiceCurse
	ChoiceShopItem
)

// ChoiceOption is one static pool entry.
type ChoiceOption struct {
	ID     int32
	Kind   ChoiceKind
	Rarity ChoiceRarity
	Effect EffectID
	Scale  Fixed
}

const choicePoolSize = 18

// choicePool is the fixed 18-entry pool spec.md §4.8 calls for: six
// common, five uncommon, four rare and three legendary entries,
// common-heavy since legendary pity already compensates for its
// scarcity.
var choicePool = [choicePoolSize]ChoiceOption{
	{ID: 0, Kind: ChoiceUpgrade, Rarity: RarityCommon, Effect: EffectDamage, Scale: FixedFromFloat(0.05)},
	{ID: 1, Kind: ChoiceUpgrade, Rarity: RarityCommon, Effect: EffectMaxHealth, Scale: FixedFromFloat(0.08)},
	{ID: 2, Kind: ChoiceUpgrade, Rarity: RarityCommon, Effect: EffectStaminaRegen, Scale: FixedFromFloat(0.1)},
	{ID: 3, Kind: ChoiceUpgrade, Rarity: RarityCommon, Effect: EffectMoveSpeed, Scale: FixedFromFloat(0.05)},
	{ID: 4, Kind: ChoiceUpgrade, Rarity: RarityCommon, Effect: EffectArmor, Scale: FixedFromFloat(0.05)},
	{ID: 5, Kind: ChoiceCurse, Rarity: RarityCommon, Effect: EffectDamage, Scale: FixedFromFloat(-0.1)},
	{ID: 6, Kind: ChoiceUpgrade, Rarity: RarityUncommon, Effect: EffectDamage, Scale: FixedFromFloat(0.12)},
	{ID: 7, Kind: ChoiceUpgrade, Rarity: RarityUncommon, Effect: EffectMaxHealth, Scale: FixedFromFloat(0.18)},
	{ID: 8, Kind: ChoiceUpgrade, Rarity: RarityUncommon, Effect: EffectCooldownReduction, Scale: FixedFromFloat(0.15)},
	{ID: 9, Kind: ChoiceShopItem, Rarity: RarityUncommon, Effect: EffectGoldGain, Scale: FixedFromFloat(0.2)},
	{ID: 10, Kind: ChoiceCurse, Rarity: RarityUncommon, Effect: EffectMaxHealth, Scale: FixedFromFloat(-0.15)},
	{ID: 11, Kind: ChoiceUpgrade, Rarity: RarityRare, Effect: EffectDamage, Scale: FixedFromFloat(0.25)},
	{ID: 12, Kind: ChoiceUpgrade, Rarity: RarityRare, Effect: EffectCooldownReduction, Scale: FixedFromFloat(0.3)},
	{ID: 13, Kind: ChoiceUpgrade, Rarity: RarityRare, Effect: EffectEssenceGain, Scale: FixedFromFloat(0.3)},
	{ID: 14, Kind: ChoiceCurse, Rarity: RarityRare, Effect: EffectMoveSpeed, Scale: FixedFromFloat(-0.2)},
	{ID: 15, Kind: ChoiceUpgrade, Rarity: RarityLegendary, Effect: EffectDamage, Scale: FixedFromFloat(0.5)},
	{ID: 16, Kind: ChoiceUpgrade, Rarity: RarityLegendary, Effect: EffectMaxHealth, Scale: FixedFromFloat(0.4)},
	{ID: 17, Kind: ChoiceUpgrade, Rarity: RarityLegendary, Effect: EffectCooldownReduction, Scale: FixedFromFloat(0.45)},
}

const (
	maxOfferedChoices   = 3
	pityRareThreshold   = 8  // rounds_since_rare forces a Rare+ offer
	superPityInterval   = 30 // total_choices mod 30 forces a Legendary offer
)

// choiceState holds the pity counters and the currently offered set,
// per spec.md §4.8.
type choiceState struct {
	Offered         [maxOfferedChoices]int32 // indices into choicePool, -1 if unused
	OfferedCount    int32
	RoundsSinceRare int32
	TotalChoices    int32
	Committed       bool
	LastCommittedID int32
}

// RollChoices draws maxOfferedChoices distinct pool entries on the
// CHOICE substream, applying the pity and super-pity floors, per
// spec.md §4.8. Returns StatusOK, or StatusFail if called outside
// PhaseChoose.
func (w *World) RollChoices() int32 {
	if w.PhaseState.Current != PhaseChoose {
		return StatusFail
	}
	cs := &w.Choices
	cs.Committed = false
	cs.OfferedCount = 0
	for i := range cs.Offered {
		cs.Offered[i] = -1
	}

	r := w.rng.stream(StreamChoice)
	forceLegendary := cs.TotalChoices > 0 && cs.TotalChoices%superPityInterval == 0
	forceRare := cs.RoundsSinceRare >= pityRareThreshold

	used := map[int32]bool{}
	slot := 0

	if forceLegendary {
		if id, ok := pickByRarity(r, RarityLegendary, used); ok {
			cs.Offered[slot] = id
			used[id] = true
			slot++
		}
	} else if forceRare {
		if id, ok := pickAtLeastRarity(r, RarityRare, used); ok {
			cs.Offered[slot] = id
			used[id] = true
			slot++
		}
	}

	for slot < maxOfferedChoices {
		id := int32(r.nextRange(0, choicePoolSize-1))
		if used[id] {
			continue
		}
		cs.Offered[slot] = id
		used[id] = true
		slot++
	}
	cs.OfferedCount = int32(slot)
	return StatusOK
}

func pickByRarity(r *rngState, rarity ChoiceRarity, used map[int32]bool) (int32, bool) {
	var candidates []int32
	for _, opt := range choicePool {
		if opt.Rarity == rarity && !used[opt.ID] {
			candidates = append(candidates, opt.ID)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[r.nextRange(0, len(candidates)-1)], true
}

func pickAtLeastRarity(r *rngState, minRarity ChoiceRarity, used map[int32]bool) (int32, bool) {
	var candidates []int32
	for _, opt := range choicePool {
		if opt.Rarity >= minRarity && !used[opt.ID] {
			candidates = append(candidates, opt.ID)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[r.nextRange(0, len(candidates)-1)], true
}

// CommitChoice applies the selected offered slot's effect and updates
// pity counters, per spec.md §4.8. slotIndex indexes into Offered, not
// the pool directly.
func (w *World) CommitChoice(slotIndex int32) int32 {
	cs := &w.Choices
	if w.PhaseState.Current != PhaseChoose || cs.Committed {
		return StatusFail
	}
	if slotIndex < 0 || slotIndex >= cs.OfferedCount {
		return StatusInvalidBodyIndex
	}
	poolID := cs.Offered[slotIndex]
	opt := choicePool[poolID]

	switch opt.Kind {
	case ChoiceUpgrade, ChoiceCurse:
		w.Upgrades.applyFlatEffect(opt.Effect, opt.Scale)
	case ChoiceShopItem:
		w.Player.Gold += int32(opt.Scale.ToInt() + 1)
	}

	if opt.Rarity >= RarityRare {
		cs.RoundsSinceRare = 0
	} else {
		cs.RoundsSinceRare++
	}
	cs.TotalChoices++
	cs.LastCommittedID = poolID
	cs.Committed = true
	return StatusOK
}
