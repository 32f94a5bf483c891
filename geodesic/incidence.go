package geodesic

import (
	"gonum.org/v1/gonum/spatial/r3"
)

/*
prepareIntegration sets up the face-edge incidence tables and the initial
state of the gradient integration solve. Every face contributes three corner
rows; row 3f+k records the touched edge id (S), the orientation sign
relating the face traversal to the edge's canonical direction (Qsign) and
the signed projection of the face gradient onto the corner's edge vector
(Z). Each edge back-references the one or two rows that touch it.

X starts as the per-edge mean of its referencing Z rows, which reconstructs
Z exactly on boundary edges. The predecessor halfedges from the BFS stage
are folded into signed transition codes so the reconstruction phase needs
no mesh access: a nonnegative code stores the edge id directly, the
canonical direction is encoded as -e-1.
*/
func (s *Solver) prepareIntegration() {
	m := s.mesh

	s.transitionFromVtx = make([]int, s.nVertices)
	s.transitionEdge = make([]int, s.nVertices)
	for i := range s.transitionFromVtx {
		s.transitionFromVtx[i] = -1
		s.transitionEdge[i] = -1
	}

	s.S = make([]int, 3*s.nFaces)
	s.Qsign = make([]float64, 3*s.nFaces)
	s.Z = make([]float64, 3*s.nFaces)
	s.edgeRows = make([][2]int, s.nEdges)
	for e := range s.edgeRows {
		s.edgeRows[e] = [2]int{-1, -1}
	}

	// Row registration order per edge is data dependent, so this pass stays
	// single threaded.
	numRows := make([]int, s.nEdges)
	for f := 0; f < s.nFaces; f++ {
		k := 0
		m.FaceHalfedges(f, func(h int) {
			e := m.Edge(h)
			row := 3*f + k
			evec := r3.Sub(m.Position(m.FromVertex(h)), m.Position(m.ToVertex(h)))
			if m.Halfedge(e, 0) == h {
				s.Qsign[row] = 1
				s.Z[row] = r3.Dot(s.initGrad[f], evec)
			} else {
				s.Qsign[row] = -1
				s.Z[row] = r3.Dot(s.initGrad[f], r3.Scale(-1, evec))
			}
			s.S[row] = e
			s.edgeRows[e][numRows[e]] = row
			numRows[e]++
			k++
		})
	}

	s.parallelInterval(0, s.nOrdered, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			h := s.transitionHalfedge[i]
			if h < 0 {
				continue
			}
			e := m.Edge(h)
			s.transitionFromVtx[i] = m.FromVertex(h)
			if m.Halfedge(e, 0) == h {
				s.transitionEdge[i] = -e - 1
			} else {
				s.transitionEdge[i] = e
			}
		}
	})

	s.initGrad = nil
	s.transitionHalfedge = nil

	s.D = make([]float64, 3*s.nFaces)
	s.Y = make([]float64, 3*s.nFaces)
	s.X = make([]float64, s.nEdges)
	s.sx[0] = make([]float64, 3*s.nFaces)
	s.sx[1] = make([]float64, 3*s.nFaces)
	s.cur = 0

	eps := s.param.GradSolverEps
	// The same squared threshold is applied to both residuals, including the
	// rho^2 factor carried by the dual one.
	s.primalThresholdSqr = eps * eps
	s.dualThresholdSqr = eps * eps

	s.pmEdges.ParallelFor(func(lo, hi int) {
		for e := lo; e < hi; e++ {
			n := 0
			r := 0.0
			for j := 0; j < 2; j++ {
				if row := s.edgeRows[e][j]; row >= 0 {
					r += s.Z[row]
					n++
				}
			}
			s.X[e] = r / float64(n)
		}
	})

	// Seed the previous generation of the gathered field.
	prev := s.sx[1-s.cur]
	s.pmFaces.ParallelFor(func(lo, hi int) {
		for f := lo; f < hi; f++ {
			base := 3 * f
			prev[base] = s.X[s.S[base]]
			prev[base+1] = s.X[s.S[base+1]]
			prev[base+2] = s.X[s.S[base+2]]
		}
	})
}
