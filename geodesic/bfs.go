package geodesic

/*
initBFSPaths computes the multi-source breadth-first spanning order. Segment
0 is the source list in input order; each later segment is discovered by
scanning the previous segment's vertices in order and their neighbors in the
mesh's circulator order, which fixes the tie-break for the recorded
predecessor halfedge. The prefix-sum offsets for the Laplacian coefficient
lists are accumulated alongside, so the heat stage can address its weights
by spanning position instead of vertex id.

Vertices unreachable from every source are never appended; nOrdered marks
the end of the populated prefix of bfsVertexList.
*/
func (s *Solver) initBFSPaths() {
	s.bfsVertexList = make([]int, s.nVertices)
	s.transitionHalfedge = make([]int, s.nVertices)
	for i := range s.bfsVertexList {
		s.bfsVertexList[i] = -1
		s.transitionHalfedge[i] = -1
	}
	s.lapCoefAddr = make([]int, s.nVertices+1)

	visited := make([]bool, s.nVertices)
	front := append([]int(nil), s.sources...)
	next := make([]int, 0, len(front))

	s.bfsSegmentAddr = []int{0, len(s.sources)}

	id := 0
	for _, v := range s.sources {
		visited[v] = true
		s.bfsVertexList[id] = v
		s.lapCoefAddr[id+1] = s.lapCoefAddr[id] + s.mesh.Valence(v) + 1
		id++
	}

	for len(front) > 0 {
		next = next[:0]
		for _, v := range front {
			s.mesh.VertexHalfedges(v, func(h int) {
				w := s.mesh.ToVertex(h)
				if !visited[w] {
					visited[w] = true
					next = append(next, w)
					s.bfsVertexList[id] = w
					s.lapCoefAddr[id+1] = s.lapCoefAddr[id] + s.mesh.Valence(w) + 1
					s.transitionHalfedge[id] = h
					id++
				}
			})
		}
		if len(next) == 0 {
			break
		}
		s.bfsSegmentAddr = append(s.bfsSegmentAddr, s.bfsSegmentAddr[len(s.bfsSegmentAddr)-1]+len(next))
		front, next = next, front
	}
	s.nOrdered = id
}
