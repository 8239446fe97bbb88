package sim

import "encoding/binary"

// Snapshot save/load: an opaque, little-endian, fixed-layout byte blob
// for rollback netcode, per spec.md §6.4. Grounded on the teacher's
// internal/game/game_snapshot.go (a flat struct copied wholesale into
// a buffer for broadcast), generalized from "JSON for a websocket" to
// "versioned binary for byte-identical rollback."

const (
	snapshotMagic   uint32 = 0x52474B31 // "RGK1"
	snapshotVersion uint32 = 1
)

// snapshotSize is the fixed byte length of SaveState's output. Kept as
// a constant so callers can preallocate; LoadState rejects any buffer
// of a different length before even checking the version field.
const snapshotSize = 4 + 4 + 8 + 8 + 8 + 4 + 8*int(substreamCount) + playerSnapshotSize + maxEnemies*enemySnapshotSize + maxPacks*packSnapshotSize + maxBarrels*barrelSnapshotSize + phaseSnapshotSize + choiceSnapshotSize + riskSnapshotSize + escalateSnapshotSize + cashOutSnapshotSize + upgradeSnapshotSize

const playerSnapshotSize = 4*14 + 1*9 + 4*8 // positions/resources + bools + combat/ability fields, see writePlayer
const enemySnapshotSize = 4*32 + 2          // 32 four-byte fields + alive/HasLastSeen bools, see writeEnemy
const packSnapshotSize = 1 + 4 + 4 + 4
const barrelSnapshotSize = 4*4 + 1
const phaseSnapshotSize = 4*5 + 1 // Current/ChoiceCount/RoomCount/BiomeID/CombatTimer + RoomSpawned bool
const choiceSnapshotSize = 4*maxOfferedChoices + 4*3 + 1 + 4
const riskSnapshotSize = 1*3 + 4 + 4
const escalateSnapshotSize = 1*3 + 4 + 4
const cashOutSnapshotSize = 1*2 + 4
const upgradeSnapshotSize = maxUpgradeNodes + 4*int(effectCount) + 1

// SaveState serializes the entire World to a deterministic byte slice,
// per spec.md §6.4. Two Worlds with identical tick history produce
// byte-identical snapshots.
func (w *World) SaveState() []byte {
	buf := make([]byte, 0, snapshotSize)
	buf = appendU32(buf, snapshotMagic)
	buf = appendU32(buf, snapshotVersion)
	buf = appendU64(buf, w.Seed)
	buf = appendU64(buf, uint64(w.accumulator))
	buf = appendU64(buf, w.TickCount)
	buf = appendFixed(buf, w.TimeSeconds)
	for i := range w.rng.streams {
		buf = appendU64(buf, w.rng.streams[i].state)
	}

	buf = writePlayer(buf, &w.Player)
	for i := range w.Enemies {
		buf = writeEnemy(buf, &w.Enemies[i], w.EnemyAlive[i])
	}
	for i := range w.Packs {
		buf = writePack(buf, &w.Packs[i])
	}
	for i := range w.Bodies.barrels {
		buf = writeBarrel(buf, &w.Bodies.barrels[i])
	}
	buf = writePhase(buf, &w.PhaseState)
	buf = writeChoices(buf, &w.Choices)
	buf = writeRisk(buf, &w.Risk)
	buf = writeEscalate(buf, &w.Escalate)
	buf = writeCashOut(buf, &w.CashOut)
	buf = writeUpgrades(buf, &w.Upgrades)
	return buf
}

// LoadState restores a World from a buffer produced by SaveState,
// returning StatusSnapshotVersionMismatch if the magic/version fields
// don't match this build, per spec.md §6.4/§7.
func (w *World) LoadState(buf []byte) int32 {
	if len(buf) != snapshotSize {
		return StatusSnapshotVersionMismatch
	}
	r := &reader{buf: buf}
	if r.u32() != snapshotMagic || r.u32() != snapshotVersion {
		return StatusSnapshotVersionMismatch
	}

	nw := w
	*nw = World{}
	nw.Seed = r.u64()
	nw.accumulator = Fixed(r.u64())
	nw.TickCount = r.u64()
	nw.TimeSeconds = r.fixed()
	for i := range nw.rng.streams {
		nw.rng.streams[i].state = r.u64()
	}

	readPlayer(r, &nw.Player)
	for i := range nw.Enemies {
		alive := readEnemy(r, &nw.Enemies[i])
		nw.EnemyAlive[i] = alive
		if alive && nw.Enemies[i].ID >= nw.nextEnemyID {
			nw.nextEnemyID = nw.Enemies[i].ID
		}
	}
	for i := range nw.Packs {
		readPack(r, &nw.Packs[i])
	}
	nw.Bodies.init()
	for i := range nw.Bodies.barrels {
		readBarrel(r, &nw.Bodies.barrels[i])
	}
	readPhase(r, &nw.PhaseState)
	readChoices(r, &nw.Choices)
	readRisk(r, &nw.Risk)
	readEscalate(r, &nw.Escalate)
	readCashOut(r, &nw.CashOut)
	readUpgrades(r, &nw.Upgrades)

	if r.err {
		return StatusSnapshotVersionMismatch
	}

	nw.Bodies.setBody(bodyPlayerSlot, &nw.Player.X, &nw.Player.Y, &nw.Player.VX, &nw.Player.VY, playerRadius, playerMass, FixedFromFloat(worldRestitution))
	nw.syncEnemyBodies()
	for i := range nw.Bodies.barrels {
		if nw.Bodies.barrels[i].Active {
			b := &nw.Bodies.barrels[i]
			nw.Bodies.bodies[barrelBodySlot(i)] = physicsBody{
				kind: bodyKindBarrel, active: true,
				x: &b.X, y: &b.Y, vx: &b.VX, vy: &b.VY,
				radius: barrelRadius, mass: barrelMass,
				restitution: FixedFromFloat(worldRestitution),
				friction:    FixedFromFloat(frictionBarrel),
			}
		}
	}

	return StatusOK
}

// --- little-endian primitive helpers ---

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendFixed(buf []byte, f Fixed) []byte {
	return appendU32(buf, uint32(f))
}

func appendI32(buf []byte, v int32) []byte {
	return appendU32(buf, uint32(v))
}

func appendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 1)
	}
	return append(buf, 0)
}

type reader struct {
	buf []byte
	pos int
	err bool
}

func (r *reader) need(n int) []byte {
	if r.pos+n > len(r.buf) {
		r.err = true
		return make([]byte, n)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *reader) u32() uint32 { return binary.LittleEndian.Uint32(r.need(4)) }
func (r *reader) u64() uint64 { return binary.LittleEndian.Uint64(r.need(8)) }
func (r *reader) fixed() Fixed { return Fixed(r.u32()) }
func (r *reader) i32() int32   { return int32(r.u32()) }
func (r *reader) boolean() bool {
	b := r.need(1)
	return b[0] != 0
}

// --- per-type field (de)serialization ---

func writePlayer(buf []byte, p *Player) []byte {
	buf = appendFixed(buf, p.X)
	buf = appendFixed(buf, p.Y)
	buf = appendFixed(buf, p.VX)
	buf = appendFixed(buf, p.VY)
	buf = appendFixed(buf, p.FX)
	buf = appendFixed(buf, p.FY)
	buf = appendFixed(buf, p.HP)
	buf = appendFixed(buf, p.Stamina)
	buf = appendI32(buf, p.Gold)
	buf = appendI32(buf, p.Essence)
	buf = appendFixed(buf, p.RollTimer)
	buf = appendFixed(buf, p.RollCooldown)
	buf = appendFixed(buf, p.AttackTimer)
	buf = appendFixed(buf, p.ComboWindow)

	buf = appendBool(buf, p.Grounded)
	buf = appendBool(buf, p.Rolling)
	buf = appendBool(buf, p.Invulnerable)
	buf = appendBool(buf, p.Hyperarmor)
	buf = appendBool(buf, p.BlockActive)
	buf = appendBool(buf, p.WallSliding)
	buf = appendBool(buf, p.lastAttackerStunned)
	buf = appendBool(buf, p.Ability.BashCharging)
	buf = appendBool(buf, p.Ability.BashActive)

	buf = appendI32(buf, int32(p.JumpCount))
	buf = appendI32(buf, int32(p.AttackState))
	buf = appendI32(buf, int32(p.AttackKind))
	buf = appendI32(buf, p.ComboCount)
	buf = appendI32(buf, int32(p.Weapon))
	buf = appendI32(buf, int32(p.Class))
	buf = appendFixed(buf, p.ParryWindow)
	buf = appendFixed(buf, p.CounterWindow)
	return buf
}

func readPlayer(r *reader, p *Player) {
	p.X = r.fixed()
	p.Y = r.fixed()
	p.VX = r.fixed()
	p.VY = r.fixed()
	p.FX = r.fixed()
	p.FY = r.fixed()
	p.HP = r.fixed()
	p.Stamina = r.fixed()
	p.Gold = r.i32()
	p.Essence = r.i32()
	p.RollTimer = r.fixed()
	p.RollCooldown = r.fixed()
	p.AttackTimer = r.fixed()
	p.ComboWindow = r.fixed()

	p.Grounded = r.boolean()
	p.Rolling = r.boolean()
	p.Invulnerable = r.boolean()
	p.Hyperarmor = r.boolean()
	p.BlockActive = r.boolean()
	p.WallSliding = r.boolean()
	p.lastAttackerStunned = r.boolean()
	p.Ability.BashCharging = r.boolean()
	p.Ability.BashActive = r.boolean()

	p.JumpCount = r.i32()
	p.AttackState = AttackState(r.i32())
	p.AttackKind = AttackKind(r.i32())
	p.ComboCount = r.i32()
	p.Weapon = WeaponID(r.i32())
	p.Class = ClassID(r.i32())
	p.ParryWindow = r.fixed()
	p.CounterWindow = r.fixed()
}

func writeEnemy(buf []byte, e *Enemy, alive bool) []byte {
	buf = appendBool(buf, alive)
	buf = appendI32(buf, int32(e.ID))
	buf = appendI32(buf, int32(e.Type))
	buf = appendFixed(buf, e.X)
	buf = appendFixed(buf, e.Y)
	buf = appendFixed(buf, e.VX)
	buf = appendFixed(buf, e.VY)
	buf = appendFixed(buf, e.FX)
	buf = appendFixed(buf, e.FY)
	buf = appendFixed(buf, e.HP)
	buf = appendFixed(buf, e.Stamina)
	buf = appendI32(buf, int32(e.State))
	buf = appendFixed(buf, e.StateTimer)
	buf = appendFixed(buf, e.AttackCooldown)
	buf = appendI32(buf, int32(e.attackSubPhase))
	buf = appendI32(buf, int32(e.Role))
	buf = appendI32(buf, int32(e.Emotion))
	buf = appendFixed(buf, e.Aggression)
	buf = appendFixed(buf, e.Intelligence)
	buf = appendFixed(buf, e.Coordination)
	buf = appendFixed(buf, e.Morale)
	buf = appendFixed(buf, e.Awareness)
	buf = appendFixed(buf, e.PlayerSpeedEstimate)
	buf = appendFixed(buf, e.LastBlockTime)
	buf = appendFixed(buf, e.LastRollTime)
	buf = appendI32(buf, e.SuccessfulAttacks)
	buf = appendI32(buf, e.FailedAttacks)
	buf = appendI32(buf, e.PackID)
	buf = appendI32(buf, e.PackIndex)
	buf = appendFixed(buf, e.Fatigue)
	buf = appendBool(buf, e.HasLastSeen)
	buf = appendFixed(buf, e.LastSeenPlayerX)
	buf = appendFixed(buf, e.LastSeenPlayerY)
	buf = appendFixed(buf, e.MemoryTimer)
	return buf
}

func readEnemy(r *reader, e *Enemy) bool {
	alive := r.boolean()
	e.ID = uint32(r.i32())
	e.Type = EnemyType(r.i32())
	e.X = r.fixed()
	e.Y = r.fixed()
	e.VX = r.fixed()
	e.VY = r.fixed()
	e.FX = r.fixed()
	e.FY = r.fixed()
	e.HP = r.fixed()
	e.Stamina = r.fixed()
	e.State = EnemyState(r.i32())
	e.StateTimer = r.fixed()
	e.AttackCooldown = r.fixed()
	e.attackSubPhase = attackSubPhase(r.i32())
	e.Role = EnemyRole(r.i32())
	e.Emotion = Emotion(r.i32())
	e.Aggression = r.fixed()
	e.Intelligence = r.fixed()
	e.Coordination = r.fixed()
	e.Morale = r.fixed()
	e.Awareness = r.fixed()
	e.PlayerSpeedEstimate = r.fixed()
	e.LastBlockTime = r.fixed()
	e.LastRollTime = r.fixed()
	e.SuccessfulAttacks = r.i32()
	e.FailedAttacks = r.i32()
	e.PackID = r.i32()
	e.PackIndex = r.i32()
	e.Fatigue = r.fixed()
	e.HasLastSeen = r.boolean()
	e.LastSeenPlayerX = r.fixed()
	e.LastSeenPlayerY = r.fixed()
	e.MemoryTimer = r.fixed()
	e.Alive = alive
	return alive
}

func writePack(buf []byte, p *Pack) []byte {
	buf = appendBool(buf, p.Active)
	buf = appendI32(buf, int32(p.Plan))
	buf = appendFixed(buf, p.PlanTimer)
	buf = appendI32(buf, int32(p.MemberMask))
	return buf
}

func readPack(r *reader, p *Pack) {
	p.Active = r.boolean()
	p.Plan = PackPlan(r.i32())
	p.PlanTimer = r.fixed()
	p.MemberMask = uint32(r.i32())
}

func writeBarrel(buf []byte, b *Barrel) []byte {
	buf = appendFixed(buf, b.X)
	buf = appendFixed(buf, b.Y)
	buf = appendFixed(buf, b.VX)
	buf = appendFixed(buf, b.VY)
	buf = appendBool(buf, b.Active)
	return buf
}

func readBarrel(r *reader, b *Barrel) {
	b.X = r.fixed()
	b.Y = r.fixed()
	b.VX = r.fixed()
	b.VY = r.fixed()
	b.Active = r.boolean()
}

func writePhase(buf []byte, ps *phaseState) []byte {
	buf = appendI32(buf, int32(ps.Current))
	buf = appendI32(buf, ps.ChoiceCount)
	buf = appendI32(buf, ps.RoomCount)
	buf = appendI32(buf, ps.BiomeID)
	buf = appendFixed(buf, ps.CombatTimer)
	buf = appendBool(buf, ps.RoomSpawned)
	return buf
}

func readPhase(r *reader, ps *phaseState) {
	ps.Current = Phase(r.i32())
	ps.ChoiceCount = r.i32()
	ps.RoomCount = r.i32()
	ps.BiomeID = r.i32()
	ps.CombatTimer = r.fixed()
	ps.RoomSpawned = r.boolean()
}

func writeChoices(buf []byte, cs *choiceState) []byte {
	for _, v := range cs.Offered {
		buf = appendI32(buf, v)
	}
	buf = appendI32(buf, cs.OfferedCount)
	buf = appendI32(buf, cs.RoundsSinceRare)
	buf = appendI32(buf, cs.TotalChoices)
	buf = appendBool(buf, cs.Committed)
	buf = appendI32(buf, cs.LastCommittedID)
	return buf
}

func readChoices(r *reader, cs *choiceState) {
	for i := range cs.Offered {
		cs.Offered[i] = r.i32()
	}
	cs.OfferedCount = r.i32()
	cs.RoundsSinceRare = r.i32()
	cs.TotalChoices = r.i32()
	cs.Committed = r.boolean()
	cs.LastCommittedID = r.i32()
}

func writeRisk(buf []byte, rs *riskState) []byte {
	buf = appendBool(buf, rs.Active)
	buf = appendBool(buf, rs.Resolved)
	buf = appendBool(buf, rs.Won)
	buf = appendI32(buf, rs.Wagered)
	buf = appendFixed(buf, rs.Timer)
	return buf
}

func readRisk(r *reader, rs *riskState) {
	rs.Active = r.boolean()
	rs.Resolved = r.boolean()
	rs.Won = r.boolean()
	rs.Wagered = r.i32()
	rs.Timer = r.fixed()
}

func writeEscalate(buf []byte, es *escalateState) []byte {
	buf = appendBool(buf, es.Active)
	buf = appendBool(buf, es.Resolved)
	buf = appendBool(buf, es.Accepted)
	buf = appendI32(buf, es.Tier)
	buf = appendFixed(buf, es.Timer)
	return buf
}

func readEscalate(r *reader, es *escalateState) {
	es.Active = r.boolean()
	es.Resolved = r.boolean()
	es.Accepted = r.boolean()
	es.Tier = r.i32()
	es.Timer = r.fixed()
}

func writeCashOut(buf []byte, cs *cashOutState) []byte {
	buf = appendBool(buf, cs.Active)
	buf = appendBool(buf, cs.Resolved)
	buf = appendI32(buf, cs.Score)
	return buf
}

func readCashOut(r *reader, cs *cashOutState) {
	cs.Active = r.boolean()
	cs.Resolved = r.boolean()
	cs.Score = r.i32()
}

func writeUpgrades(buf []byte, us *upgradeState) []byte {
	for _, v := range us.Purchased {
		buf = appendBool(buf, v)
	}
	for _, v := range us.EffectScalars {
		buf = appendFixed(buf, v)
	}
	buf = appendBool(buf, us.PendingPurchaseDone)
	return buf
}

func readUpgrades(r *reader, us *upgradeState) {
	for i := range us.Purchased {
		us.Purchased[i] = r.boolean()
	}
	for i := range us.EffectScalars {
		us.EffectScalars[i] = r.fixed()
	}
	us.PendingPurchaseDone = r.boolean()
}
