package sim

import "testing"

func enterChooseWithPendingRoll(w *World) {
	w.PhaseState.Current = PhaseChoose
}

func TestRollChoicesOutsideChoosePhaseFails(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	w.PhaseState.Current = PhaseExplore
	if status := w.RollChoices(); status != StatusFail {
		t.Fatalf("RollChoices outside PhaseChoose = %d, want StatusFail", status)
	}
}

func TestRollChoicesOffersDistinctOptions(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	enterChooseWithPendingRoll(w)
	if status := w.RollChoices(); status != StatusOK {
		t.Fatalf("RollChoices = %d, want StatusOK", status)
	}
	seen := map[int32]bool{}
	for i := int32(0); i < w.Choices.OfferedCount; i++ {
		id := w.Choices.Offered[i]
		if seen[id] {
			t.Fatalf("duplicate choice offered: pool id %d", id)
		}
		seen[id] = true
	}
	if w.Choices.OfferedCount != maxOfferedChoices {
		t.Fatalf("OfferedCount = %d, want %d", w.Choices.OfferedCount, maxOfferedChoices)
	}
}

func TestSuperPityForcesLegendary(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	w.Choices.TotalChoices = superPityInterval
	enterChooseWithPendingRoll(w)
	w.RollChoices()

	gotLegendary := false
	for i := int32(0); i < w.Choices.OfferedCount; i++ {
		if choicePool[w.Choices.Offered[i]].Rarity == RarityLegendary {
			gotLegendary = true
		}
	}
	if !gotLegendary {
		t.Fatalf("super-pity threshold did not force a legendary offer")
	}
}

func TestCommitChoiceAppliesUpgradeAndResetsPity(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	enterChooseWithPendingRoll(w)
	w.RollChoices()

	// Force offer slot 0 to a known rare upgrade for a deterministic assertion.
	w.Choices.Offered[0] = 11 // RarityRare damage upgrade
	w.Choices.OfferedCount = 3

	scalarBefore := w.Upgrades.effectScalar(EffectDamage)
	if status := w.CommitChoice(0); status != StatusOK {
		t.Fatalf("CommitChoice = %d, want StatusOK", status)
	}
	if w.Upgrades.effectScalar(EffectDamage) <= scalarBefore {
		t.Fatalf("committing a damage upgrade did not raise the damage scalar")
	}
	if w.Choices.RoundsSinceRare != 0 {
		t.Fatalf("committing a Rare choice did not reset RoundsSinceRare")
	}
	if !w.Choices.Committed {
		t.Fatalf("Committed flag not set after CommitChoice")
	}
}

func TestCommitChoiceRejectsOutOfRangeSlot(t *testing.T) {
	w := NewWorld(1, WeaponFists)
	enterChooseWithPendingRoll(w)
	w.RollChoices()
	if status := w.CommitChoice(99); status != StatusInvalidBodyIndex {
		t.Fatalf("CommitChoice(99) = %d, want StatusInvalidBodyIndex", status)
	}
}
