package sim

// Pack coordination: role assignment and plan selection across a
// group of enemies sharing a PackID, per spec.md §4.6. Grounded on
// the teacher's internal/game/team.go Team (a named group of entities
// whose members share round-scoped state), generalized from "scoring
// team" to "tactical pack" and given its own plan-selection state
// machine absent from the teacher.

const maxPacks = 8

// PackPlan is the coordinated tactic a pack commits to, per spec §4.6.
type PackPlan int32

const (
	PlanNone PackPlan = iota
	PlanAmbush
	PlanPincer
	PlanCommit
	PlanFlank
	PlanDistract
	PlanRetreat
	PlanRegroup
)

// Pack is a named group of enemy slot indices with a shared plan.
// Fixed-capacity, arena-slotted like Enemy (spec §3).
type Pack struct {
	Active     bool
	Plan       PackPlan
	PlanTimer  Fixed
	MemberMask uint32 // bit i set iff enemy slot i belongs to this pack
}

const (
	planReplanSeconds = 2.0 // plan selector re-runs every pack_timer period, spec §4.6
	pincerAngle       = 1.0471975512 // pi/3 radians
	pincerRadius      = 0.15
	pincerArriveDist  = 0.05
	scoutFacingCos    = 0.866 // cos(30deg), "player facing scout" tolerance
	playerCornerBand  = 0.15  // distance-to-wall under which the player counts as isolated
	skirmisherSpeedMult = 1.3 // base-speed multiplier for Skirmisher eligibility, see DESIGN.md
)

var (
	planReplanFixed = FixedFromFloat(planReplanSeconds)
	pincerAngleFixed = FixedFromFloat(pincerAngle)
	pincerRadiusFixed = FixedFromFloat(pincerRadius)
)

// FormPack allocates a pack from the given enemy slots and returns its
// index, or BodyPoolExhausted if no pack slot is free (spec §4.6).
func (w *World) FormPack(memberSlots []int32) int32 {
	for i := 0; i < maxPacks; i++ {
		if !w.Packs[i].Active {
			var mask uint32
			for _, slot := range memberSlots {
				if slot >= 0 && int(slot) < maxEnemies {
					mask |= 1 << uint(slot)
					w.Enemies[slot].PackID = int32(i)
				}
			}
			w.Packs[i] = Pack{Active: true, Plan: PlanNone, MemberMask: mask}
			w.assignPackRoles(i)
			return int32(i)
		}
	}
	return StatusBodyPoolExhausted
}

// DissolvePack frees a pack slot and clears its members' role/pack-id
// (spec §4.6 lifecycle).
func (w *World) DissolvePack(i int32) int32 {
	if i < 0 || int(i) >= maxPacks || !w.Packs[i].Active {
		return StatusInvalidBodyIndex
	}
	w.forEachPackMember(int(i), func(slot int) {
		w.Enemies[slot].PackID = -1
		w.Enemies[slot].PackIndex = -1
		w.Enemies[slot].Role = RoleNone
	})
	w.Packs[i] = Pack{}
	return StatusOK
}

func (w *World) forEachPackMember(packIdx int, fn func(slot int)) {
	mask := w.Packs[packIdx].MemberMask
	for slot := 0; slot < maxEnemies; slot++ {
		if mask&(1<<uint(slot)) != 0 && w.EnemyAlive[slot] {
			fn(slot)
		}
	}
}

// assignPackRoles assigns roles per spec.md §4.6: Leader maximizes
// intelligence * morale; remaining members follow the decision tree
// aggression > 0.6 -> Bruiser, else speed > skirmisherSpeedMult*base ->
// Skirmisher, else intelligence > 0.7 -> Support, else Scout.
func (w *World) assignPackRoles(packIdx int) {
	var members []int
	w.forEachPackMember(packIdx, func(slot int) { members = append(members, slot) })
	if len(members) == 0 {
		return
	}

	leader := members[0]
	leaderScore := FMul(w.Enemies[leader].Intelligence, w.Enemies[leader].effectiveMorale())
	for _, s := range members[1:] {
		score := FMul(w.Enemies[s].Intelligence, w.Enemies[s].effectiveMorale())
		if score > leaderScore {
			leader, leaderScore = s, score
		}
	}
	w.Enemies[leader].Role = RoleLeader

	skirmisherFloor := FMul(statsFor(EnemyNormal).Speed, FixedFromFloat(skirmisherSpeedMult))
	for idx, s := range members {
		w.Enemies[s].PackIndex = int32(idx)
		if s == leader {
			continue
		}
		e := &w.Enemies[s]
		switch {
		case e.Aggression > FixedFromFloat(0.6):
			e.Role = RoleBruiser
		case statsFor(e.Type).Speed > skirmisherFloor:
			e.Role = RoleSkirmisher
		case e.Intelligence > FixedFromFloat(0.7):
			e.Role = RoleSupport
		default:
			e.Role = RoleScout
		}
	}
}

// packStep advances every active pack's plan timer and selects a new
// plan on expiry or when plan = None, per spec.md §4.6 (tick step 7,
// after individual enemy AI so plans can override individually
// selected states the same tick they change).
func (w *World) packStep() {
	for i := 0; i < maxPacks; i++ {
		if !w.Packs[i].Active {
			continue
		}
		w.stepPackPlan(i)
	}
}

func (w *World) stepPackPlan(packIdx int) {
	pack := &w.Packs[packIdx]
	aliveCount := 0
	w.forEachPackMember(packIdx, func(slot int) { aliveCount++ })
	if aliveCount == 0 {
		w.DissolvePack(int32(packIdx))
		return
	}

	if pack.Plan != PlanNone && pack.PlanTimer > 0 {
		pack.PlanTimer -= fixedStep
		w.executePackPlan(packIdx)
		return
	}

	pack.Plan = w.selectPackPlan(packIdx)
	pack.PlanTimer = planReplanFixed
	w.executePackPlan(packIdx)
}

// selectPackPlan runs the decision list spec.md §4.6 names, in order:
// Commit on numbers, Retreat on a dying leader, Pincer when the pack
// can flank an isolated player, Distract when a scout has the
// player's attention, otherwise None (individual AI via Approach).
func (w *World) selectPackPlan(packIdx int) PackPlan {
	var members []int
	w.forEachPackMember(packIdx, func(slot int) { members = append(members, slot) })
	n := len(members)
	if n == 0 {
		return PlanNone
	}

	inRange := 0
	leaderSlot := -1
	scoutSlot := -1
	for _, s := range members {
		e := &w.Enemies[s]
		stats := statsFor(e.Type)
		dist := w.distanceToPlayer(e)
		if dist <= FMul(stats.AttackRange, emotionAttackRangeMult(e.Emotion)) {
			inRange++
		}
		switch e.Role {
		case RoleLeader:
			leaderSlot = s
		case RoleScout:
			scoutSlot = s
		}
	}

	needed := (n + 1) / 2 // ceil(n/2)
	if inRange >= needed {
		return PlanCommit
	}
	if leaderSlot >= 0 {
		leader := &w.Enemies[leaderSlot]
		if FDiv(leader.HP, statsFor(leader.Type).MaxHealth) < FixedFromFloat(0.4) {
			return PlanRetreat
		}
	}
	if n >= 3 && w.playerIsolated() {
		return PlanPincer
	}
	if scoutSlot >= 0 && w.playerFacingSlot(scoutSlot) {
		return PlanDistract
	}
	return PlanNone
}

// playerIsolated treats the player as isolated when cornered against
// a world boundary, where a pincer has no open side to fail against.
// spec.md §4.6 names the predicate without defining it geometrically;
// see DESIGN.md for this choice.
func (w *World) playerIsolated() bool {
	p := &w.Player
	band := FixedFromFloat(playerCornerBand)
	return p.X < band || p.X > FixedOne-band || p.Y < band || p.Y > FixedOne-band
}

// playerFacingSlot reports whether the player's facing vector points
// at the given enemy within a 30-degree cone, spec §4.6's
// "player_facing_scout" predicate.
func (w *World) playerFacingSlot(slot int) bool {
	p := &w.Player
	e := &w.Enemies[slot]
	dx := e.X - p.X
	dy := e.Y - p.Y
	dist := FSqrt(FMul(dx, dx) + FMul(dy, dy))
	if dist == 0 {
		return true
	}
	dot := FMul(p.FX, FDiv(dx, dist)) + FMul(p.FY, FDiv(dy, dist))
	return dot > FixedFromFloat(scoutFacingCos)
}

// executePackPlan carries out the committed plan's per-member
// behavior, per spec.md §4.6's "Plan execution" list.
func (w *World) executePackPlan(packIdx int) {
	pack := &w.Packs[packIdx]
	switch pack.Plan {
	case PlanRetreat:
		w.forEachPackMember(packIdx, func(slot int) {
			e := &w.Enemies[slot]
			if e.State != EnemyRetreat {
				e.State = EnemyRetreat
				e.StateTimer = enemyStateDuration[EnemyRetreat]
			}
		})
	case PlanPincer:
		w.executePincerPlan(packIdx)
	case PlanCommit:
		w.executeCommitPlan(packIdx)
	case PlanDistract:
		w.forEachPackMember(packIdx, func(slot int) {
			e := &w.Enemies[slot]
			if e.State == EnemyAttack {
				return
			}
			if e.Role == RoleScout {
				e.State = EnemyAlert
				e.StateTimer = enemyStateDuration[EnemyAlert]
			} else {
				e.State = EnemyFlank
				e.StateTimer = enemyStateDuration[EnemyFlank]
			}
		})
	case PlanAmbush:
		w.forEachPackMember(packIdx, func(slot int) {
			e := &w.Enemies[slot]
			if e.Role != RoleLeader && e.State != EnemyAttack {
				e.State = EnemyAmbush
				e.StateTimer = enemyStateDuration[EnemyAmbush]
			}
		})
	case PlanFlank, PlanRegroup, PlanNone:
		// None leaves per-enemy state selection to the individual
		// cascade (spec §4.6: "Approach via individual AI"); Flank and
		// Regroup are not reached by the plan selector above.
	}
}

// executePincerPlan splits the pack at the midpoint and sends each
// half to a flanking polar offset from the player, promoting everyone
// to Attack once both halves have closed in, per spec §4.6.
func (w *World) executePincerPlan(packIdx int) {
	var members []int
	w.forEachPackMember(packIdx, func(slot int) { members = append(members, slot) })
	n := len(members)
	if n == 0 {
		return
	}
	mid := n / 2
	p := &w.Player

	allArrived := true
	for idx, slot := range members {
		e := &w.Enemies[slot]
		if e.State == EnemyAttack {
			continue
		}
		angle := pincerAngleFixed
		if idx >= mid {
			angle = -pincerAngleFixed
		}
		tx := p.X + FMul(FCos(angle), pincerRadiusFixed)
		ty := p.Y + FMul(FSin(angle), pincerRadiusFixed)
		w.moveToward(e, tx, ty, statsFor(e.Type).Speed)
		e.State = EnemyApproach
		if e.StateTimer <= 0 {
			e.StateTimer = enemyStateDuration[EnemyApproach]
		}
		dx := tx - e.X
		dy := ty - e.Y
		if FSqrt(FMul(dx, dx)+FMul(dy, dy)) >= FixedFromFloat(pincerArriveDist) {
			allArrived = false
		}
	}
	if allArrived {
		for _, slot := range members {
			e := &w.Enemies[slot]
			e.State = EnemyAttack
			e.StateTimer = enemyStateDuration[EnemyAttack]
			e.attackSubPhase = attackSubNone
		}
	}
}

// executeCommitPlan fires every member's Attack on a synchronized cue:
// the leader on the frame the plan is selected, every follower one
// frame later, per spec §4.6.
func (w *World) executeCommitPlan(packIdx int) {
	elapsed := planReplanFixed - w.Packs[packIdx].PlanTimer
	w.forEachPackMember(packIdx, func(slot int) {
		e := &w.Enemies[slot]
		if e.State == EnemyAttack || e.State == EnemyRecover {
			return
		}
		if e.Role == RoleLeader || elapsed >= fixedStep {
			e.State = EnemyAttack
			e.StateTimer = enemyStateDuration[EnemyAttack]
			e.attackSubPhase = attackSubNone
		}
	})
}
