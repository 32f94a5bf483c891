package geodesic

import "math"

/*
integrateDistances propagates the per-edge field along the spanning order:
sources are zero, every later vertex adds the signed X value of its
predecessor edge to its predecessor's distance. Segments are strictly
ordered; within a segment every vertex depends only on earlier segments, so
the updates run vertex-parallel. The final pass undoes the model
normalization so distances come back in the input mesh's units.

Vertices unreachable from the source set never enter a segment and keep the
sentinel distance +Inf.
*/
func (s *Solver) integrateDistances() {
	s.dist = make([]float64, s.nVertices)
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
	}
	for i := 0; i < len(s.sources); i++ {
		s.dist[s.bfsVertexList[i]] = 0
	}

	nSegments := len(s.bfsSegmentAddr) - 1
	for seg := 1; seg < nSegments; seg++ {
		begin, end := s.bfsSegmentAddr[seg], s.bfsSegmentAddr[seg+1]
		s.parallelInterval(begin, end, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				fromD := s.dist[s.transitionFromVtx[i]]
				code := s.transitionEdge[i]
				if code >= 0 {
					s.dist[s.bfsVertexList[i]] = fromD + s.X[code]
				} else {
					s.dist[s.bfsVertexList[i]] = fromD - s.X[-(code + 1)]
				}
			}
		})
	}

	// Recover geodesic distance in the original scale.
	for i := range s.dist {
		s.dist[i] *= s.scalingFactor
	}
}
