package systems

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func checkSpawn(t *testing.T, i int, p Particle) {
	t.Helper()
	x, y, z := p.Position[0], p.Position[1], p.Position[2]
	if x < 0 || x >= 1 || z < 0 || z >= 1 {
		t.Errorf("particle %d: xz (%v, %v) outside [0,1)", i, x, z)
	}
	if y < spawnMinY || y >= spawnMaxY {
		t.Errorf("particle %d: y %v outside [1,3)", i, y)
	}
	if p.Velocity != (mgl32.Vec3{0, fallSpeed, 0}) {
		t.Errorf("particle %d: velocity %v", i, p.Velocity)
	}
	if p.Lifetime != min(3*y, maxLifetime) {
		t.Errorf("particle %d: lifetime %v for height %v", i, p.Lifetime, y)
	}
	if p.Grounded {
		t.Errorf("particle %d: spawned grounded", i)
	}
}

func TestParticleSpawnRanges(t *testing.T) {
	ps := NewParticleSystem(500, 3, nil)
	defer ps.Close()

	for i, p := range ps.Particles() {
		checkSpawn(t, i, p)
	}
}

func TestParticlePoolSize(t *testing.T) {
	ps := NewParticleSystem(DefaultParticleCount, 1, NewWorkerPool(2))
	defer ps.pool.Close()

	if ps.Len() != DefaultParticleCount {
		t.Fatalf("expected %d particles, got %d", DefaultParticleCount, ps.Len())
	}

	for i := 0; i < 50; i++ {
		ps.Update(0.1)
	}
	if ps.Len() != DefaultParticleCount {
		t.Errorf("expected updates to keep %d particles, got %d", DefaultParticleCount, ps.Len())
	}

	ps.UpdateNum(120)
	if ps.Len() != 120 || len(ps.Particles()) != 120 {
		t.Errorf("expected 120 particles after UpdateNum, got %d", ps.Len())
	}
	if len(ps.ModelMatrices()) != 120 || len(ps.Positions()) != 360 {
		t.Error("expected per-flake outputs to follow the pool size")
	}
}

func TestParticleFalls(t *testing.T) {
	ps := NewParticleSystem(10, 5, nil)
	defer ps.Close()

	before := ps.Particles()
	ps.Update(0.1)
	after := ps.Particles()

	for i := range before {
		dy := after[i].Position[1] - before[i].Position[1]
		if dy > -0.059 || dy < -0.061 {
			t.Errorf("particle %d: expected to fall 0.06, moved %v", i, dy)
		}
		if after[i].Acceleration[1] != 0 {
			t.Errorf("particle %d: drift must stay horizontal, got %v", i, after[i].Acceleration)
		}
	}
}

func TestStepRecyclesGrounded(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	p := Particle{Position: mgl32.Vec3{0.5, 0.2, 0.5}, Grounded: true}
	step(&p, 0.1, rng)
	checkSpawn(t, 0, p)

	expired := Particle{Position: mgl32.Vec3{0.5, 0.2, 0.5}, Lifetime: -1}
	step(&expired, 0.1, rng)
	checkSpawn(t, 1, expired)
}

func TestStepSpinWalkBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := spawn(rng)
	for i := 0; i < 100; i++ {
		prev := p.Omega
		step(&p, 0.01, rng)
		if d := p.Omega - prev; d < -spinWalk/2 || d > spinWalk/2 {
			t.Fatalf("omega step %v exceeds the walk range", d)
		}
	}
}

func TestModelMatrixTranslation(t *testing.T) {
	p := Particle{
		Position: mgl32.Vec3{0.2, 1.5, 0.7},
		Axis:     mgl32.Vec3{0, 1, 0},
		Theta:    1.2,
	}
	m := ModelMatrix(p, DefaultParticleScale)

	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !origin.ApproxEqualThreshold(p.Position, 1e-6) {
		t.Errorf("expected origin at %v, got %v", p.Position, origin)
	}
	edge := m.Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3()
	if d := edge.Sub(origin).Len(); d < DefaultParticleScale-1e-6 || d > DefaultParticleScale+1e-6 {
		t.Errorf("expected scaled unit length %v, got %v", DefaultParticleScale, d)
	}
}
