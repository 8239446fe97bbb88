package sim

// Risk/Escalate/CashOut: the high-stakes back half of the run loop,
// per spec.md §4.9. Grounded on the teacher's internal/game/
// leaderboard.go round-tally pattern (accumulate a score across a
// bounded window, then commit it), generalized from "submit a high
// score" to three chained gambles over the run's gold/essence.

// riskState is a single double-or-nothing gamble, entered on each exit
// from PowerUp while choice_count is at least choicesPerRiskGate and
// below choicesPerEscalateGate, per spec.md §4.9.
type riskState struct {
	Active    bool
	Resolved  bool
	Wagered   int32
	Won       bool
	Timer     Fixed
}

const riskWindowSeconds = 3.0

var riskWindowFixed = FixedFromFloat(riskWindowSeconds)

// newRiskState opens a fresh risk window, per spec.md §4.9's "all-in"
// risk shape; ResolveRisk wagers the player's entire gold balance as it
// stands when the call is made.
func newRiskState() riskState {
	return riskState{Active: true, Timer: riskWindowFixed}
}

// ResolveRisk commits the player's call (double or safe) within the
// open risk window, per spec.md §4.9. Returns StatusFail if the
// window already closed or risk isn't active.
func (w *World) ResolveRisk(callDouble bool) int32 {
	rs := &w.Risk
	if !rs.Active || rs.Resolved {
		return StatusFail
	}
	rs.Wagered = w.Player.Gold
	if callDouble {
		r := w.rng.stream(StreamLoot)
		won := r.nextRange(0, 1) == 0
		rs.Won = won
		if won {
			w.Player.Gold *= 2
		} else {
			w.Player.Gold = 0
		}
	} else {
		rs.Won = true // declining the gamble always "wins" (keeps the stake)
	}
	rs.Resolved = true
	rs.Active = false
	return StatusOK
}

// riskTimeoutStep auto-declines an un-resolved risk window once its
// timer elapses, so the phase machine never stalls (spec §4.9 edge
// case: "no input during Risk resolves as decline").
func (w *World) riskTimeoutStep() {
	rs := &w.Risk
	if !rs.Active || rs.Resolved {
		return
	}
	rs.Timer -= fixedStep
	if rs.Timer <= 0 {
		w.ResolveRisk(false)
	}
}

// escalateState ramps enemy difficulty for the remainder of the run in
// exchange for an essence bonus, per spec.md §4.9.
type escalateState struct {
	Active    bool
	Resolved  bool
	Accepted  bool
	Tier      int32
	Timer     Fixed
}

const escalateWindowSeconds = 3.0

var escalateWindowFixed = FixedFromFloat(escalateWindowSeconds)

// ResolveEscalate commits the player's accept/decline call, per spec §4.9.
func (w *World) ResolveEscalate(accept bool) int32 {
	es := &w.Escalate
	if es.Resolved {
		return StatusFail
	}
	es.Accepted = accept
	if accept {
		es.Tier++
		w.Player.Essence += 2 * es.Tier
	}
	es.Resolved = true
	return StatusOK
}

func (w *World) escalateStep() {
	es := &w.Escalate
	if !es.Active {
		es.Active = true
		es.Timer = escalateWindowFixed
		return
	}
	if es.Resolved {
		return
	}
	es.Timer -= fixedStep
	if es.Timer <= 0 {
		w.ResolveEscalate(false)
	}
}

// escalateDamageMultiplier scales enemy attack damage by the accepted
// tier (+15% per tier), per spec.md §4.9. resolveEnemyAttackExecute
// applies it as each attack lands, so a tier increase affects enemies
// already in the room as well as later spawns.
func (w *World) escalateDamageMultiplier() Fixed {
	return FixedOne + FMul(FixedFromFloat(0.15), FixedFromInt(int(w.Escalate.Tier)))
}

// cashOutState tallies the run's gold/essence into a final score once
// per CashOut phase, per spec.md §4.9.
type cashOutState struct {
	Active   bool
	Resolved bool
	Score    int32
}

func (w *World) cashOutStep() {
	cs := &w.CashOut
	if !cs.Active {
		cs.Active = true
		cs.Score = w.Player.Gold*1 + w.Player.Essence*5
		cs.Resolved = true
	}
}

// CashOutScore returns the tallied score for the query façade (spec §6.2).
func (w *World) CashOutScore() int32 {
	return w.CashOut.Score
}
