package geodesic

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
)

/*
computeIntegrableGradients runs the ADMM splitting iteration that projects
the per-edge field X onto the integrable set. Each iteration performs, in
barrier-separated phases over the shared worker pool:

 1. Y-update: per face, orthogonal projection of SX_prev - D onto the
    sum-zero-along-Q hyperplane.
 2. X-update: per edge, closed-form minimizer over its referencing rows.
 3. Gather: SX_cur = X through S.
 4. On check iterations, the primal and dual squared residual reductions run
    concurrently with the dual update; the three touch pairwise disjoint
    writable memory and only share read-only inputs. Residuals are taken
    against the correct SX generation, before the parity flip.
 5. Dual update: D += Y - SX_cur.

Termination: both residual squares at or below their thresholds on a check
iteration, or the iteration cap. The cap is a soft outcome; the current X is
still usable.
*/
func (s *Solver) computeIntegrableGradients() {
	var (
		rho        = s.param.Penalty
		checkFreq  = checkFrequency(s.param.GradSolverConvergenceCheckFrequency)
		outputFreq = checkFrequency(s.param.GradSolverOutputFrequency)
	)
	s.iterNum = 0
	s.converged = false

	for {
		prev := s.sx[1-s.cur]
		cur := s.sx[s.cur]

		s.pmFaces.ParallelFor(func(lo, hi int) {
			for f := lo; f < hi; f++ {
				base := 3 * f
				y0 := prev[base] - s.D[base]
				y1 := prev[base+1] - s.D[base+1]
				y2 := prev[base+2] - s.D[base+2]
				q0, q1, q2 := s.Qsign[base], s.Qsign[base+1], s.Qsign[base+2]
				c := (q0*y0 + q1*y1 + q2*y2) / 3
				s.Y[base] = y0 - c*q0
				s.Y[base+1] = y1 - c*q1
				s.Y[base+2] = y2 - c*q2
			}
		})

		s.pmEdges.ParallelFor(func(lo, hi int) {
			for e := lo; e < hi; e++ {
				n := 0
				r := 0.0
				for j := 0; j < 2; j++ {
					if row := s.edgeRows[e][j]; row >= 0 {
						r += rho*(s.Y[row]+s.D[row]) + s.Z[row]
						n++
					}
				}
				s.X[e] = r / ((rho + 1) * float64(n))
			}
		})

		s.pmFaces.ParallelFor(func(lo, hi int) {
			for f := lo; f < hi; f++ {
				base := 3 * f
				cur[base] = s.X[s.S[base]]
				cur[base+1] = s.X[s.S[base+1]]
				cur[base+2] = s.X[s.S[base+2]]
			}
		})

		needCheck := (s.iterNum+1)%checkFreq == 0
		if needCheck {
			// Both reductions only read Y/SX generations; the dual update
			// writes only D. Disjointness is what makes the overlap legal.
			wg := sync.WaitGroup{}
			wg.Add(2)
			go func() {
				defer wg.Done()
				d := floats.Distance(s.Y, cur, 2)
				s.primalResidualSqr = d * d
			}()
			go func() {
				defer wg.Done()
				d := floats.Distance(cur, prev, 2)
				s.dualResidualSqr = d * d * rho * rho
			}()
			s.updateDualVariables(cur)
			wg.Wait()
		} else {
			s.updateDualVariables(cur)
		}

		if needCheck && s.traceResiduals {
			s.residualTrace = append(s.residualTrace,
				[2]float64{s.primalResidualSqr, s.dualResidualSqr})
		}

		s.iterNum++
		s.converged = needCheck &&
			s.primalResidualSqr <= s.primalThresholdSqr &&
			s.dualResidualSqr <= s.dualThresholdSqr
		end := s.converged || s.iterNum >= s.param.GradSolverMaxIter

		if s.converged {
			fmt.Printf("Solver converged.\n")
		} else if end {
			fmt.Printf("Maximum number of iterations reached.\n")
		}
		if (needCheck && s.iterNum%outputFreq == 0) || end {
			fmt.Printf("Iteration %d:\n", s.iterNum)
			fmt.Printf("Primal residual squared norm: %v,  threshold: %v\n",
				s.primalResidualSqr, s.primalThresholdSqr)
			fmt.Printf("Dual residual squared norm: %v,  threshold: %v\n",
				s.dualResidualSqr, s.dualThresholdSqr)
		}

		// Flip the generations so sx[cur] is again the write target.
		s.cur = 1 - s.cur
		if end {
			return
		}
	}
}

func (s *Solver) updateDualVariables(cur []float64) {
	s.pmFaces.ParallelFor(func(lo, hi int) {
		for i := 3 * lo; i < 3*hi; i++ {
			s.D[i] += s.Y[i] - cur[i]
		}
	})
}
