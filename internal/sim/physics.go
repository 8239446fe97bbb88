package sim

// Physics layer: a fixed-capacity body pool (player + enemies + barrels)
// integrated with symplectic Euler and resolved with circle-circle
// separation plus wall-clamp restitution, per spec.md §4.3.
//
// Grounded on internal/game/player.go's ResolveCollisions (push-apart-
// by-overlap, weighted impulse) generalized from "all players" to a
// three-kind body pool. The teacher's spatial.SpatialGrid broad phase
// is intentionally not ported: at this core's bounded scale (<=1+32+16
// = 49 bodies) an O(n^2) scan is both simpler and avoids the grid's
// cell-iteration-order dependency, which would be one more thing two
// conformant implementations would have to agree on bit-for-bit.

const (
	maxEnemies = 32
	maxBarrels = 16
	maxBodies  = 1 + maxEnemies + maxBarrels

	bodyPlayerSlot = 0
	bodyEnemyBase  = 1
	bodyBarrelBase = 1 + maxEnemies

	playerRadius = Fixed(1966) // ~0.03 in Q16.16
	playerMass   = FixedOne
	enemyRadius  = Fixed(1966)
	enemyMass    = FixedOne
	barrelRadius = Fixed(2621) // ~0.04
	barrelMass   = Fixed(98304) // 1.5

	worldRestitution = 0.6 // spec §9 open question: fixed unless overridden

	frictionPlayer = 0.85
	frictionEnemy  = 0.85
	frictionBarrel = 0.92

	knockbackScale = 0.3 // spec §4.3 apply_knockback scale constant
)

// bodyKind tags what a physics body belongs to, per spec.md §3's
// PhysicsBody owner-kind sum type.
type bodyKind int32

const (
	bodyKindPlayer bodyKind = iota
	bodyKindEnemy
	bodyKindBarrel
	bodyKindFree
)

// physicsBody is one slot in the fixed-capacity body pool. Position and
// velocity are *pointers* into the owning entity (Player/Enemy/Barrel)
// so the physics pass and the owning entity always agree — this
// mirrors the teacher's pattern of operating on the same struct fields
// from multiple subsystems rather than copying state back and forth.
type physicsBody struct {
	kind   bodyKind
	active bool

	x, y   *Fixed
	vx, vy *Fixed

	radius      Fixed
	mass        Fixed
	restitution Fixed
	friction    Fixed
}

// Barrel is a thrown, physics-only entity (spec.md §4.3, §9).
type Barrel struct {
	X, Y   Fixed
	VX, VY Fixed
	Active bool
}

type physicsWorld struct {
	bodies  [maxBodies]physicsBody
	barrels [maxBarrels]Barrel
}

func (pw *physicsWorld) init() {
	for i := range pw.bodies {
		pw.bodies[i] = physicsBody{kind: bodyKindFree}
	}
}

func (pw *physicsWorld) setBody(slot int, x, y, vx, vy *Fixed, radius, mass, restitution Fixed) {
	pw.bodies[slot] = physicsBody{
		kind: bodyKindPlayer, active: true,
		x: x, y: y, vx: vx, vy: vy,
		radius: radius, mass: mass, restitution: restitution,
		friction: FixedFromFloat(frictionPlayer),
	}
}

// enemyBodySlot/barrelBodySlot map entity indices to pool slots.
func enemyBodySlot(i int) int  { return bodyEnemyBase + i }
func barrelBodySlot(i int) int { return bodyBarrelBase + i }

// InvalidBodyIndex / BodyPoolExhausted are returned by actions touching
// the body pool out of range or with no free slot, per spec.md §4.3/§7.
const (
	StatusOK                int32 = 1
	StatusFail              int32 = 0
	StatusInvalidBodyIndex  int32 = -1
	StatusBodyPoolExhausted int32 = 0
)

// SpawnBarrel allocates a barrel in the first free slot and returns its
// index, or -1 (sentinel) if the pool is exhausted (spec §4.3 §7).
func (w *World) SpawnBarrel(x, y, vx, vy float32) int32 {
	for i := 0; i < maxBarrels; i++ {
		if !w.Bodies.barrels[i].Active {
			w.Bodies.barrels[i] = Barrel{
				X: FixedFromFloat(float64(x)), Y: FixedFromFloat(float64(y)),
				VX: FixedFromFloat(float64(vx)), VY: FixedFromFloat(float64(vy)),
				Active: true,
			}
			b := &w.Bodies.barrels[i]
			w.Bodies.bodies[barrelBodySlot(i)] = physicsBody{
				kind: bodyKindBarrel, active: true,
				x: &b.X, y: &b.Y, vx: &b.VX, vy: &b.VY,
				radius: barrelRadius, mass: barrelMass,
				restitution: FixedFromFloat(worldRestitution),
				friction:    FixedFromFloat(frictionBarrel),
			}
			return int32(i)
		}
	}
	return -1
}

// ClearAllBarrels frees every barrel slot (spec §3 lifecycle).
func (w *World) ClearAllBarrels() {
	for i := 0; i < maxBarrels; i++ {
		w.Bodies.barrels[i].Active = false
		w.Bodies.bodies[barrelBodySlot(i)].active = false
	}
}

// applyKnockback nudges a body's velocity per spec.md §4.3's
// apply_knockback API. slot indexes the physics body pool directly.
func (w *World) applyKnockback(slot int, fx, fy Fixed) int32 {
	if slot < 0 || slot >= maxBodies {
		return StatusInvalidBodyIndex
	}
	b := &w.Bodies.bodies[slot]
	if !b.active {
		return StatusInvalidBodyIndex
	}
	*b.vx += FMul(fx, FixedFromFloat(knockbackScale))
	*b.vy += FMul(fy, FixedFromFloat(knockbackScale))
	return StatusOK
}

// physicsStep integrates every active body, resolves separations, and
// clamps to world bounds with restitution, per spec.md §4.3. Bodies are
// integrated in pool-slot order (player, then enemies, then barrels),
// then a separation pass runs, then the wall clamp.
func (w *World) physicsStep() {
	w.syncEnemyBodies()

	// Integration: symplectic Euler, no gravity (top-down).
	for i := range w.Bodies.bodies {
		b := &w.Bodies.bodies[i]
		if !b.active {
			continue
		}
		*b.x += FMul(*b.vx, fixedStep)
		*b.y += FMul(*b.vy, fixedStep)
		*b.vx = FMul(*b.vx, b.friction)
		*b.vy = FMul(*b.vy, b.friction)
	}

	w.resolveSeparations()
	w.clampToBounds()
}

// syncEnemyBodies wires pool slots for enemies that became alive/dead
// this tick (enemy slots are reused, spec §3 invariant).
func (w *World) syncEnemyBodies() {
	for i := 0; i < maxEnemies; i++ {
		slot := enemyBodySlot(i)
		if w.EnemyAlive[i] {
			e := &w.Enemies[i]
			w.Bodies.bodies[slot] = physicsBody{
				kind: bodyKindEnemy, active: true,
				x: &e.X, y: &e.Y, vx: &e.VX, vy: &e.VY,
				radius: enemyRadius, mass: enemyMass,
				restitution: FixedFromFloat(worldRestitution),
				friction:    FixedFromFloat(frictionEnemy),
			}
		} else {
			w.Bodies.bodies[slot].active = false
		}
	}
}

// resolveSeparations runs circle-circle separation + elastic impulse
// for every collidable pair, in increasing slot-index order so the
// result is independent of map/iteration nondeterminism (spec §5).
func (w *World) resolveSeparations() {
	for i := 0; i < maxBodies; i++ {
		a := &w.Bodies.bodies[i]
		if !a.active {
			continue
		}
		for j := i + 1; j < maxBodies; j++ {
			b := &w.Bodies.bodies[j]
			if !b.active {
				continue
			}
			// Barrel-barrel and enemy-enemy collide too (spec: "player-
			// enemy, enemy-enemy, barrel-player, barrel-enemy"); only
			// skip nothing, since all active bodies are collidable.
			separate(a, b)
		}
	}
}

func separate(a, b *physicsBody) {
	dx := *b.x - *a.x
	dy := *b.y - *a.y
	distSq := FMul(dx, dx) + FMul(dy, dy)
	minDist := a.radius + b.radius
	minDistSq := FMul(minDist, minDist)
	if distSq >= minDistSq || distSq < 0 {
		return
	}
	dist := FSqrt(distSq)
	if dist == 0 {
		dist = 1
		dx = 1
	}
	nx := FDiv(dx, dist)
	ny := FDiv(dy, dist)
	overlap := minDist - dist

	invMassA := FDiv(FixedOne, a.mass)
	invMassB := FDiv(FixedOne, b.mass)
	totalInv := invMassA + invMassB
	if totalInv == 0 {
		return
	}
	shareA := FDiv(invMassA, totalInv)
	shareB := FDiv(invMassB, totalInv)

	*a.x -= FMul(nx, FMul(overlap, shareA))
	*a.y -= FMul(ny, FMul(overlap, shareA))
	*b.x += FMul(nx, FMul(overlap, shareB))
	*b.y += FMul(ny, FMul(overlap, shareB))

	// Relative velocity along normal -> elastic impulse.
	rvx := *b.vx - *a.vx
	rvy := *b.vy - *a.vy
	velAlongNormal := FMul(rvx, nx) + FMul(rvy, ny)
	if velAlongNormal > 0 {
		return // separating already
	}
	restitution := FMin(a.restitution, b.restitution)
	j := -FMul(FixedOne+restitution, velAlongNormal)
	j = FDiv(j, totalInv)

	impX := FMul(j, nx)
	impY := FMul(j, ny)
	*a.vx -= FMul(impX, invMassA)
	*a.vy -= FMul(impY, invMassA)
	*b.vx += FMul(impX, invMassB)
	*b.vy += FMul(impY, invMassB)
}

// clampToBounds clamps every active body to [0,1]^2 and reflects the
// velocity component that crossed the boundary, per spec.md §4.3.
func (w *World) clampToBounds() {
	for i := range w.Bodies.bodies {
		b := &w.Bodies.bodies[i]
		if !b.active {
			continue
		}
		if *b.x < 0 {
			*b.x = 0
			*b.vx = -FMul(*b.vx, b.restitution)
		} else if *b.x > FixedOne {
			*b.x = FixedOne
			*b.vx = -FMul(*b.vx, b.restitution)
		}
		if *b.y < 0 {
			*b.y = 0
			*b.vy = -FMul(*b.vy, b.restitution)
		} else if *b.y > FixedOne {
			*b.y = FixedOne
			*b.vy = -FMul(*b.vy, b.restitution)
		}
	}
}
