package sim

// Run-loop phase machine: Explore/Fight/Choose/PowerUp/Risk/Escalate/
// CashOut/Reset, per spec.md §4.7. Grounded on the teacher's
// internal/game/engine.go round-lifecycle driver (RoundActive/
// RoundEnded gate checks run once per tick before gameplay systems),
// generalized from "two-state round" to the spec's eight-phase graph.

// phaseState is the run loop's coarse progression tracker (spec §3).
type phaseState struct {
	Current     Phase
	ChoiceCount int32
	RoomCount   int32
	BiomeID     int32

	CombatTimer Fixed // seconds spent in Fight since it was entered, spec §4.7
	RoomSpawned bool  // true once the current Explore room's encounter has been spawned
}

const (
	choicesPerRiskGate     = 9  // choice_count threshold unlocking Risk, spec §4.7
	choicesPerEscalateGate = 15 // choice_count threshold unlocking Escalate, spec §4.7
	roomsPerBiome          = 5
)

var combatTimeToChoose = FixedFromFloat(5.0) // Fight -> Choose requires combat_time > 5s, spec §4.7

// phasePreStep evaluates entry conditions before physics/combat/AI run,
// per spec.md §4.2 tick step 2 — phase transitions driven by the
// previous tick's terminal state happen here so the rest of the tick
// observes a stable phase.
func (w *World) phasePreStep() {
	ps := &w.PhaseState
	switch ps.Current {
	case PhaseExplore:
		if !ps.RoomSpawned {
			ps.RoomCount++
			if ps.RoomCount%roomsPerBiome == 0 {
				ps.BiomeID++
			}
			w.spawnRoomEncounter()
			ps.RoomSpawned = true
		}
		if w.anyEnemyAlive() {
			ps.Current = PhaseFight
			ps.CombatTimer = 0
		} else if w.anyEnemiesEverSpawnedThisRoom() {
			ps.Current = PhaseChoose
		}
	case PhaseFight:
		ps.CombatTimer += fixedStep
		if w.allEnemiesCleared() && ps.CombatTimer > combatTimeToChoose {
			ps.Current = PhaseChoose
		}
	case PhaseChoose:
		// Choose has exactly one outbound edge: PowerUp, on commit_choice.
		if w.Choices.Committed {
			w.Choices.Committed = false
			ps.ChoiceCount++
			ps.Current = PhasePowerUp
		}
	case PhasePowerUp:
		if w.Upgrades.PendingPurchaseDone {
			w.Upgrades.PendingPurchaseDone = false
			ps.Current = w.nextPhaseAfterPowerUp()
		}
	case PhaseRisk:
		if w.Risk.Resolved {
			w.Escalate = escalateState{Tier: w.Escalate.Tier}
			ps.Current = PhaseEscalate
		}
	case PhaseEscalate:
		if w.Escalate.Resolved {
			w.CashOut = cashOutState{}
			ps.Current = PhaseCashOut
		}
	case PhaseCashOut:
		if w.CashOut.Resolved {
			ps.Current = PhaseReset
		}
	case PhaseReset:
		w.enterExplore()
	}
}

// nextPhaseAfterPowerUp routes out of PowerUp using the cumulative
// choice_count gates spec.md §4.7 defines: Escalate unlocks after
// choice_count >= 15, Risk after choice_count >= 9, otherwise straight
// back to Explore.
func (w *World) nextPhaseAfterPowerUp() Phase {
	cc := w.PhaseState.ChoiceCount
	switch {
	case cc >= choicesPerEscalateGate:
		w.Escalate = escalateState{Tier: w.Escalate.Tier}
		return PhaseEscalate
	case cc >= choicesPerRiskGate:
		w.Risk = newRiskState()
		return PhaseRisk
	default:
		w.enterExplore()
		return PhaseExplore
	}
}

// enterExplore resets the lazy room-spawn flag so the next Explore
// tick spawns a fresh encounter and bumps the room counter, per
// spec.md §4.7 ("Room counter increments on every Explore->Fight
// transition").
func (w *World) enterExplore() {
	w.PhaseState.Current = PhaseExplore
	w.PhaseState.RoomSpawned = false
}

func (w *World) allEnemiesCleared() bool {
	for i := 0; i < maxEnemies; i++ {
		if w.EnemyAlive[i] {
			return false
		}
	}
	return true
}

func (w *World) anyEnemyAlive() bool {
	return !w.allEnemiesCleared()
}

// anyEnemiesEverSpawnedThisRoom reports whether nextEnemyID has ever
// advanced. nextEnemyID is not reset between rooms, so after the run's
// first spawn this is true in every room, including one whose own
// encounter spawned nothing.
func (w *World) anyEnemiesEverSpawnedThisRoom() bool {
	return w.nextEnemyID > 0
}

// roomEnemyCount is the deterministic per-room spawn schedule spec.md
// §4.7 mandates: rooms 1-3 spawn {2,3,3} enemies; later rooms spawn
// base_count * (1 + escalation_level), using the same escalation_level
// formula as §4.9's Escalate sub-phase. Enemy count must never be
// RNG-driven — only type and position draw from the SPAWN stream — so
// that snapshots stay byte-identical across conformant implementations
// for the same seed (spec §8, testable property 4).
func roomEnemyCount(roomCount int32) int {
	switch roomCount {
	case 1:
		return 2
	case 2, 3:
		return 3
	default:
		const baseCount = 3
		level := escalationLevelForRoom(roomCount)
		scaled := FMul(FixedFromInt(baseCount), FixedOne+level)
		return int(scaled.ToFloat32() + 0.5)
	}
}

// escalationLevelForRoom mirrors spec.md §4.9's escalation_level formula
// so the room spawn schedule and the Escalate sub-phase agree on what
// "escalation_level" means for a given room_count.
func escalationLevelForRoom(roomCount int32) Fixed {
	return FClamp(FDiv(FixedFromInt(int(roomCount-15)), FixedFromInt(20)), 0, FixedOne)
}

// spawnRoomEncounter seeds the current room's enemies from the SPAWN
// substream: count follows the deterministic schedule above, while
// type and position remain per-enemy RNG draws, per spec §4.7.
func (w *World) spawnRoomEncounter() {
	r := w.rng.stream(StreamSpawn)
	count := roomEnemyCount(w.PhaseState.RoomCount)
	margin := FixedFromFloat(0.1)
	span := FixedFromFloat(0.8)
	var slots []int32
	for n := 0; n < count; n++ {
		etype := EnemyType(r.nextRange(0, int(enemyTypeCount)-1))
		x := margin + FMul(r.nextFixed01(), span)
		y := margin + FMul(r.nextFixed01(), span)
		slot := w.SpawnEnemy(etype, x.ToFloat32(), y.ToFloat32())
		if slot >= 0 {
			slots = append(slots, slot)
		}
	}
	if len(slots) >= 2 {
		w.FormPack(slots)
	}
}

// phasePostStep runs after every other system this tick, per spec.md
// §4.2 tick step 8: resolves phases whose exit condition depends on
// this tick's gameplay outcome (e.g. CashOut's gold tally).
func (w *World) phasePostStep() {
	switch w.PhaseState.Current {
	case PhaseRisk:
		w.riskTimeoutStep()
	case PhaseCashOut:
		w.cashOutStep()
	case PhaseEscalate:
		w.escalateStep()
	}
}
