package geodesic

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

/*
assembleOperators builds the discrete operators of the implicit heat step:
per-edge vectors, per-face areas, per-halfedge half-cotangent weights and,
for every vertex in spanning order, the Laplacian coefficient list. The list
for a vertex holds one (neighbor, weight) pair per adjacent vertex followed
by a trailing diagonal entry whose weight is the neighbor-weight sum plus
the mixed Voronoi vertex area; neighbor weights and the sum are pre-scaled
by the squared mean edge length, so the table is exactly the matrix of the
backward-Euler step (Area + h^2 L).

The returned buffers are only needed until the heat stage finishes; the
caller drops them afterwards.
*/
func (s *Solver) assembleOperators() (edgeVector []r3.Vec, faceArea, vertexArea []float64) {
	m := s.mesh

	edgeVector = make([]r3.Vec, s.nEdges)
	edgeSqrLength := make([]float64, s.nEdges)
	s.pmEdges.ParallelFor(func(lo, hi int) {
		for e := lo; e < hi; e++ {
			ev := m.EdgeVector(e)
			edgeVector[e] = ev
			edgeSqrLength[e] = r3.Norm2(ev)
		}
	})

	// Heat flow step size: square of the mean edge length.
	h := 0.0
	for _, l2 := range edgeSqrLength {
		h += math.Sqrt(l2)
	}
	h /= float64(s.nEdges)
	stepLength := h * h

	faceArea = make([]float64, s.nFaces)
	halfedgeHalfcot := make([]float64, m.NumHalfedges())
	s.pmFaces.ParallelFor(func(lo, hi int) {
		for f := lo; f < hi; f++ {
			var fh, fe [3]int
			var l2 [3]float64
			k := 0
			m.FaceHalfedges(f, func(h int) {
				fh[k] = h
				fe[k] = m.Edge(h)
				l2[k] = edgeSqrLength[fe[k]]
				k++
			})
			area := r3.Norm(r3.Cross(edgeVector[fe[0]], edgeVector[fe[1]])) * 0.5
			for j := 0; j < 3; j++ {
				halfedgeHalfcot[fh[j]] = 0.125 * (l2[(j+1)%3] + l2[(j+2)%3] - l2[j]) / area
			}
			faceArea[f] = area
		}
	})
	edgeSqrLength = nil

	s.lapCoef = make([]lapCoefEntry, s.lapCoefAddr[s.nOrdered])
	vertexArea = make([]float64, s.nVertices)
	s.parallelInterval(0, s.nOrdered, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			start := s.lapCoefAddr[i]
			v := s.bfsVertexList[i]

			k := start
			sum := 0.0
			m.VertexHalfedges(v, func(h int) {
				w := halfedgeHalfcot[h] + halfedgeHalfcot[m.Opposite(h)]
				s.lapCoef[k] = lapCoefEntry{vertex: m.ToVertex(h), weight: w * stepLength}
				sum += w
				k++
			})

			A := 0.0
			m.VertexFaces(v, func(f int) {
				A += faceArea[f]
			})
			vertexArea[v] = A / 3.0
			// Trailing diagonal: neighbor-weight sum plus the vertex area.
			s.lapCoef[k] = lapCoefEntry{vertex: v, weight: sum*stepLength + A/3.0}
		}
	})
	return edgeVector, faceArea, vertexArea
}
