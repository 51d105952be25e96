package systems

import "github.com/go-gl/mathgl/mgl32"

// SettleOptions controls the collision and accumulation pass.
type SettleOptions struct {
	Bump           int
	Accumulate     bool    // emit a static snow instance for each landing
	Increase       bool    // raise the surface by the accumulated snow
	AccumulateRate float32 // height per settled flake
	Ceil           float32 // flakes at or above this height are not tested
	KillFloor      float32 // flakes below this height are grounded
	Offset         float32 // lift of static snow above the surface
}

// DefaultSettleOptions returns the stock thresholds.
func DefaultSettleOptions(bump int) SettleOptions {
	return SettleOptions{
		Bump:           bump,
		AccumulateRate: 0.001,
		Ceil:           2.5,
		KillFloor:      -1,
		Offset:         0.001,
	}
}

// SettleResult summarizes one collision pass.
type SettleResult struct {
	Landed   int          // flakes that hit the terrain
	Fallen   int          // flakes that dropped below the kill floor
	Static   []mgl32.Mat4 // model matrices of new static snow instances
	Checked  int          // flakes below the ceiling
	MaxDepth uint32       // largest cell count touched this pass
}

// Settle tests every flake against the terrain and the accumulation grid.
// It runs sequentially after the kinematic update: each landing is written
// to the grid immediately, so later flakes in the same pass see it.
func Settle(ps *ParticleSystem, terrain HeightField, grid *AccumulationGrid, opts SettleOptions) SettleResult {
	var res SettleResult

	for _, e := range ps.entities {
		kin, spin, life := ps.mapper.Get(e)
		x, y, z := kin.Position[0], kin.Position[1], kin.Position[2]

		if y >= opts.Ceil {
			continue
		}
		res.Checked++

		if InBounds(x, z) {
			h := terrain.WorldHeight(x, z, opts.Bump)
			var bonus float32
			if opts.Increase {
				bonus = grid.HeightBonus(x, z, opts.AccumulateRate)
				h += bonus
			}

			if y <= h {
				if opts.Accumulate {
					kin.Position[1] = h + opts.Offset
					if opts.Increase {
						kin.Position[1] += bonus
					}
					p := fromComponents(kin, spin, life)
					res.Static = append(res.Static, ps.ModelMatrix(p))
				}

				life.Grounded = true
				grid.Increment(x, z)
				res.Landed++
				if c := grid.Count(x, z); c > res.MaxDepth {
					res.MaxDepth = c
				}
			}
		}

		if y < opts.KillFloor {
			life.Grounded = true
			res.Fallen++
		}
	}

	return res
}
