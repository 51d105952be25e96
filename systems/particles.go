package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/snowscape/components"
)

// Spawn and motion constants for snow flakes.
const (
	DefaultParticleCount = 1000
	DefaultParticleScale = 0.007

	spawnMinY     = 1
	spawnMaxY     = 3
	fallSpeed     = -0.6
	driftStrength = 0.05
	spinWalk      = 0.25 // omega random-walk step scale
	spinWalkLimit = 3
	maxLifetime   = 5
)

// Particle is a read-only copy of one flake's state.
type Particle struct {
	Position     mgl32.Vec3
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3
	Axis         mgl32.Vec3
	Theta        float32
	Phi          float32
	Omega        float32
	Lifetime     float32
	Grounded     bool
}

// ParticleSystem owns a fixed-size pool of snow flakes stored as ECS
// entities. Grounded flakes are recycled in place on the next update, so
// the pool size only changes through UpdateNum.
type ParticleSystem struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Kinematics, components.Spin, components.Life]

	entities  []ecs.Entity // spawn order, stable between UpdateNum calls
	snapshots []Particle
	scale     float32

	pool     *WorkerPool
	ownsPool bool
	rngs     []*rand.Rand // one per worker
}

// NewParticleSystem creates a pool of count flakes. pool may be nil, in
// which case the system starts its own and stops it on Close.
func NewParticleSystem(count int, seed int64, pool *WorkerPool) *ParticleSystem {
	ps := &ParticleSystem{
		scale: DefaultParticleScale,
		pool:  pool,
	}
	if ps.pool == nil {
		ps.pool = NewWorkerPool(0)
		ps.ownsPool = true
	}

	ps.rngs = make([]*rand.Rand, ps.pool.Workers())
	for i := range ps.rngs {
		ps.rngs[i] = rand.New(rand.NewSource(seed + int64(i)))
	}

	ps.rebuild(count)
	return ps
}

// SetScale overrides the model-matrix scale of a flake.
func (ps *ParticleSystem) SetScale(s float32) {
	ps.scale = s
}

// Len returns the pool size.
func (ps *ParticleSystem) Len() int {
	return len(ps.entities)
}

// UpdateNum re-initializes the whole pool when n differs from its size.
func (ps *ParticleSystem) UpdateNum(n int) {
	if n == len(ps.entities) {
		return
	}
	ps.rebuild(n)
}

// rebuild discards the ECS world and spawns n fresh flakes.
func (ps *ParticleSystem) rebuild(n int) {
	if n < 0 {
		n = 0
	}
	ps.world = ecs.NewWorld()
	ps.mapper = ecs.NewMap3[components.Kinematics, components.Spin, components.Life](ps.world)
	ps.entities = make([]ecs.Entity, 0, n)

	rng := ps.rngs[0]
	for i := 0; i < n; i++ {
		p := spawn(rng)
		kin, spin, life := p.components()
		ps.entities = append(ps.entities, ps.mapper.NewEntity(&kin, &spin, &life))
	}
	ps.snapshots = make([]Particle, 0, n)
}

// Update advances every flake by dt. Flakes are snapshotted, stepped in
// parallel with per-worker RNGs, then written back in spawn order.
func (ps *ParticleSystem) Update(dt float32) {
	// Phase A: snapshot (single-threaded)
	ps.snapshots = ps.snapshots[:0]
	for _, e := range ps.entities {
		kin, spin, life := ps.mapper.Get(e)
		ps.snapshots = append(ps.snapshots, fromComponents(kin, spin, life))
	}

	// Phase B: compute, barrier on return
	ps.pool.ParallelFor(len(ps.snapshots), func(worker, start, end int) {
		rng := ps.rngs[worker]
		for i := start; i < end; i++ {
			step(&ps.snapshots[i], dt, rng)
		}
	})

	// Phase C: apply
	for i, e := range ps.entities {
		kin, spin, life := ps.mapper.Get(e)
		*kin, *spin, *life = ps.snapshots[i].components()
	}
}

// step advances a falling flake, or replaces a grounded one with a fresh spawn.
func step(p *Particle, dt float32, rng *rand.Rand) {
	if p.Grounded || p.Lifetime < 0 {
		*p = spawn(rng)
		return
	}

	angle := rng.Float32() * 2 * math.Pi
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	p.Velocity = p.Velocity.Add(p.Acceleration.Mul(dt))
	p.Acceleration = drift(angle)
	p.Theta += p.Omega * dt
	p.Omega += mgl32.Clamp((rng.Float32()-0.5)*spinWalk, -spinWalkLimit, spinWalkLimit)
}

// spawn draws a fresh flake in the [0,1)² column at height [1,3).
func spawn(rng *rand.Rand) Particle {
	x := rng.Float32()
	z := rng.Float32()
	y := spawnMinY + rng.Float32()*(spawnMaxY-spawnMinY)
	angle := rng.Float32() * 2 * math.Pi

	theta := rng.Float32() * 2 * math.Pi
	phi := rng.Float32() * 2 * math.Pi / 12
	omega := rng.Float32() - 0.5

	sinPhi, cosPhi := sincos(phi)
	sinTheta, cosTheta := sincos(theta)

	return Particle{
		Position:     mgl32.Vec3{x, y, z},
		Velocity:     mgl32.Vec3{0, fallSpeed, 0},
		Acceleration: drift(angle),
		Axis:         mgl32.Vec3{sinPhi * sinTheta, cosPhi, sinPhi * cosTheta},
		Theta:        theta,
		Phi:          phi,
		Omega:        omega,
		Lifetime:     min(3*y, maxLifetime),
	}
}

// drift returns a horizontal acceleration of fixed magnitude at angle.
func drift(angle float32) mgl32.Vec3 {
	s, c := sincos(angle)
	return mgl32.Vec3{driftStrength * c, 0, driftStrength * s}
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

func fromComponents(kin *components.Kinematics, spin *components.Spin, life *components.Life) Particle {
	return Particle{
		Position:     kin.Position,
		Velocity:     kin.Velocity,
		Acceleration: kin.Acceleration,
		Axis:         spin.Axis,
		Theta:        spin.Theta,
		Phi:          spin.Phi,
		Omega:        spin.Omega,
		Lifetime:     life.Lifetime,
		Grounded:     life.Grounded,
	}
}

func (p Particle) components() (components.Kinematics, components.Spin, components.Life) {
	return components.Kinematics{
			Position:     p.Position,
			Velocity:     p.Velocity,
			Acceleration: p.Acceleration,
		}, components.Spin{
			Axis:  p.Axis,
			Theta: p.Theta,
			Phi:   p.Phi,
			Omega: p.Omega,
		}, components.Life{
			Lifetime: p.Lifetime,
			Grounded: p.Grounded,
		}
}

// Particles returns a snapshot of every flake in spawn order.
func (ps *ParticleSystem) Particles() []Particle {
	out := make([]Particle, len(ps.entities))
	for i, e := range ps.entities {
		out[i] = fromComponents(ps.mapper.Get(e))
	}
	return out
}

// Positions returns flake positions as a flat xyz buffer.
func (ps *ParticleSystem) Positions() []float32 {
	out := make([]float32, 0, 3*len(ps.entities))
	for _, e := range ps.entities {
		kin, _, _ := ps.mapper.Get(e)
		out = append(out, kin.Position[0], kin.Position[1], kin.Position[2])
	}
	return out
}

// ModelMatrix returns translate(pos)·scale(s)·rotate(theta, axis).
func (ps *ParticleSystem) ModelMatrix(p Particle) mgl32.Mat4 {
	return ModelMatrix(p, ps.scale)
}

// ModelMatrix returns translate(pos)·scale(s)·rotate(theta, axis).
func ModelMatrix(p Particle, scale float32) mgl32.Mat4 {
	t := mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2])
	s := mgl32.Scale3D(scale, scale, scale)
	r := mgl32.HomogRotate3D(p.Theta, p.Axis)
	return t.Mul4(s).Mul4(r)
}

// ModelMatrices returns one model matrix per flake in spawn order.
func (ps *ParticleSystem) ModelMatrices() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(ps.entities))
	for i, e := range ps.entities {
		out[i] = ps.ModelMatrix(fromComponents(ps.mapper.Get(e)))
	}
	return out
}

// Close stops the worker pool if the system owns it.
func (ps *ParticleSystem) Close() {
	if ps.ownsPool {
		ps.pool.Close()
	}
}
