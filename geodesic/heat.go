package geodesic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
gaussSeidelInitGradients approximates the solution of

	(Area + h^2 L) u = Area * delta_sources

by blocked Gauss-Seidel relaxation over the BFS layers, then derives the
initial per-face unit gradient of the heat field. One sweep updates every
layer in ascending order; within a layer all vertices read only finalized
values from earlier layers plus the pre-update values of their own layer,
so the update is deterministic for any worker count.
*/
func (s *Solver) gaussSeidelInitGradients() {
	edgeVector, faceArea, vertexArea := s.assembleOperators()

	// Impulse magnitude chosen so the initial residual norm is roughly
	// independent of mesh resolution and source count.
	totalArea := 0.0
	for _, a := range faceArea {
		totalArea += a
	}
	sourceArea := 0.0
	for _, v := range s.sources {
		sourceArea += vertexArea[v]
	}
	nSources := len(s.sources)
	s.initSourceVal = HeatScalar(math.Sqrt(math.Min(
		float64(s.nVertices)/float64(nSources), totalArea/sourceArea)))
	vertexArea = nil

	s.heat = make([]HeatScalar, s.nVertices)
	for _, v := range s.sources {
		s.heat[v] = s.initSourceVal
	}

	maxSegment := 0
	nSegments := len(s.bfsSegmentAddr) - 1
	for k := 0; k < nSegments; k++ {
		if n := s.bfsSegmentAddr[k+1] - s.bfsSegmentAddr[k]; n > maxSegment {
			maxSegment = n
		}
	}
	temp := make([]HeatScalar, maxSegment)
	residuals := make([]HeatScalar, s.nOrdered)

	s.computeHeatflowResidual(residuals)
	initResidualNorm := floats.Norm(residuals, 2)
	s.heatEps = HeatScalar(math.Max(1e-16, initResidualNorm*s.param.HeatSolverEps))
	fmt.Printf("Initial residual: %v, threshold: %v\n", initResidualNorm, s.heatEps)

	checkFreq := checkFrequency(s.param.HeatSolverConvergenceCheckFrequency)
	gsIter := 0
	for endLoop := false; !endLoop; {
		for seg := 0; seg < nSegments; seg++ {
			begin, end := s.bfsSegmentAddr[seg], s.bfsSegmentAddr[seg+1]
			s.parallelInterval(begin, end, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					start, stop := s.lapCoefAddr[i], s.lapCoefAddr[i+1]
					var val HeatScalar
					if seg == 0 { // the first segment is the source set
						val = s.initSourceVal
					}
					for j := start; j < stop-1; j++ {
						c := &s.lapCoef[j]
						val += s.heat[c.vertex] * c.weight
					}
					temp[i-begin] = val / s.lapCoef[stop-1].weight
				}
			})
			s.parallelInterval(begin, end, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					s.heat[s.bfsVertexList[i]] = temp[i-begin]
				}
			})
		}
		gsIter++
		endLoop = gsIter >= s.param.HeatSolverMaxIter
		if endLoop || gsIter%checkFreq == 0 {
			s.computeHeatflowResidual(residuals)
			s.heatResidualNorm = floats.Norm(residuals, 2)
			fmt.Printf("Gauss-Seidel iteration %d, current residual: %v, threshold: %v\n",
				gsIter, s.heatResidualNorm, s.heatEps)
			if s.heatResidualNorm <= s.heatEps {
				endLoop = true
			}
		}
	}
	s.gsIterations = gsIter
	if s.heatResidualNorm > s.heatEps {
		fmt.Printf("Maximum number of Gauss-Seidel iterations reached.\n")
	}

	s.computeInitialGradients(edgeVector)

	// The incidence builder only needs the gradients and the spanning order;
	// drop the diffusion operators here to cap the memory peak.
	s.lapCoef = nil
	s.lapCoefAddr = nil
}

// computeHeatflowResidual evaluates (Area + h^2 L) u - rhs per spanning
// position, vertex-parallel.
func (s *Solver) computeHeatflowResidual(residuals []HeatScalar) {
	nSources := len(s.sources)
	s.parallelInterval(0, s.nOrdered, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			start, stop := s.lapCoefAddr[i], s.lapCoefAddr[i+1]
			var res HeatScalar
			if i < nSources {
				res = s.initSourceVal
			}
			for j := start; j < stop-1; j++ {
				c := &s.lapCoef[j]
				res += s.heat[c.vertex] * c.weight
			}
			d := &s.lapCoef[stop-1]
			res -= s.heat[d.vertex] * d.weight
			residuals[i] = res
		}
	})
}

/*
computeInitialGradients evaluates, per face, the closed-form gradient of the
piecewise-linear heat field: each traversal-oriented edge vector weighted by
the heat value at the vertex it does not touch, crossed with the face
normal. The heat triple and the edge-vector block are normalized first to
keep the cross products well conditioned; both scalings drop out of the
final unit vector.
*/
func (s *Solver) computeInitialGradients(edgeVector []r3.Vec) {
	m := s.mesh
	s.initGrad = make([]r3.Vec, s.nFaces)
	s.pmFaces.ParallelFor(func(lo, hi int) {
		for f := lo; f < hi; f++ {
			var ev [3]r3.Vec
			var hv [3]float64
			k := 0
			m.FaceHalfedges(f, func(h int) {
				e := m.Edge(h)
				cur := edgeVector[e]
				if m.Halfedge(e, 0) != h {
					cur = r3.Scale(-1, cur)
				}
				ev[k] = cur
				hv[k] = float64(s.heat[m.ToVertex(h)])
				k++
			})

			if hn := math.Sqrt(hv[0]*hv[0] + hv[1]*hv[1] + hv[2]*hv[2]); hn > 0 {
				hv[0] /= hn
				hv[1] /= hn
				hv[2] /= hn
			}
			if fn := math.Sqrt(r3.Norm2(ev[0]) + r3.Norm2(ev[1]) + r3.Norm2(ev[2])); fn > 0 {
				inv := 1 / fn
				ev[0] = r3.Scale(inv, ev[0])
				ev[1] = r3.Scale(inv, ev[1])
				ev[2] = r3.Scale(inv, ev[2])
			}

			N := r3.Unit(r3.Cross(ev[0], ev[1]))
			V := r3.Add(r3.Add(
				r3.Scale(hv[1], ev[0]),
				r3.Scale(hv[2], ev[1])),
				r3.Scale(hv[0], ev[2]))
			s.initGrad[f] = r3.Unit(r3.Cross(V, N))
		}
	})
}
