package halfedge

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNonManifold is returned when the face list cannot be stitched into a
// manifold halfedge structure.
var ErrNonManifold = errors.New("halfedge: non-manifold mesh")

/*
Mesh is a triangle mesh stored as flat index slices. The two halfedges of edge
e occupy slots 2e and 2e+1, so the opposite of halfedge h is h^1, its edge is
h>>1, and halfedge 2e is the canonical orientation of edge e (the direction in
which it was first traversed during construction). Boundary halfedges carry
face index -1 and are linked into boundary loops, so rotating around any
vertex always visits its full one-ring.
*/
type Mesh struct {
	pos   []r3.Vec
	hVert []int // halfedge -> destination vertex
	hNext []int // halfedge -> next halfedge in its face or boundary loop
	hFace []int // halfedge -> incident face, -1 on boundary loops
	vOut  []int // vertex -> one outgoing halfedge, -1 when isolated
	fHalf []int // face -> the halfedge of its first corner
}

// NewMesh stitches a vertex position list and a triangle list into a halfedge
// mesh. Face corner order fixes the traversal direction of each face loop.
func NewMesh(pos []r3.Vec, faces [][3]int) (*Mesh, error) {
	m := &Mesh{
		pos:   pos,
		vOut:  make([]int, len(pos)),
		fHalf: make([]int, len(faces)),
	}
	for i := range m.vOut {
		m.vOut[i] = -1
	}

	type vtxPair struct{ lo, hi int }
	edgeOf := make(map[vtxPair]int, 3*len(faces)/2)
	// halfedgeFromTo returns the halfedge running u->v, allocating the edge
	// slot pair on first contact
	halfedgeFromTo := func(u, v int) int {
		key := vtxPair{u, v}
		if u > v {
			key = vtxPair{v, u}
		}
		e, ok := edgeOf[key]
		if !ok {
			e = len(m.hVert) / 2
			edgeOf[key] = e
			m.hVert = append(m.hVert, v, u) // canonical halfedge 2e runs u->v
			m.hNext = append(m.hNext, -1, -1)
			m.hFace = append(m.hFace, -1, -1)
		}
		if m.hVert[2*e] == v {
			return 2 * e
		}
		return 2*e + 1
	}

	for f, fv := range faces {
		var hs [3]int
		for k := 0; k < 3; k++ {
			u, v := fv[k], fv[(k+1)%3]
			if u < 0 || u >= len(pos) || v < 0 || v >= len(pos) {
				return nil, fmt.Errorf("halfedge: face %d references vertex out of range [0,%d)", f, len(pos))
			}
			if u == v {
				return nil, fmt.Errorf("halfedge: face %d is degenerate", f)
			}
			h := halfedgeFromTo(u, v)
			if m.hFace[h] >= 0 {
				return nil, fmt.Errorf("%w: edge %d-%d traversed twice in the same direction", ErrNonManifold, u, v)
			}
			m.hFace[h] = f
			hs[k] = h
			if m.vOut[u] < 0 {
				m.vOut[u] = h
			}
		}
		for k := 0; k < 3; k++ {
			m.hNext[hs[k]] = hs[(k+1)%3]
		}
		m.fHalf[f] = hs[0]
	}

	// Link boundary halfedges into loops. A manifold boundary vertex has
	// exactly one outgoing boundary halfedge.
	boundaryOut := make(map[int]int)
	for h, f := range m.hFace {
		if f >= 0 {
			continue
		}
		origin := m.hVert[h^1]
		if _, dup := boundaryOut[origin]; dup {
			return nil, fmt.Errorf("%w: vertex %d joins multiple boundary fans", ErrNonManifold, origin)
		}
		boundaryOut[origin] = h
	}
	for h, f := range m.hFace {
		if f >= 0 {
			continue
		}
		next, ok := boundaryOut[m.hVert[h]]
		if !ok {
			return nil, fmt.Errorf("%w: open boundary loop at vertex %d", ErrNonManifold, m.hVert[h])
		}
		m.hNext[h] = next
	}
	return m, nil
}

func (m *Mesh) NumVertices() int  { return len(m.pos) }
func (m *Mesh) NumFaces() int     { return len(m.fHalf) }
func (m *Mesh) NumEdges() int     { return len(m.hVert) / 2 }
func (m *Mesh) NumHalfedges() int { return len(m.hVert) }

func (m *Mesh) Position(v int) r3.Vec { return m.pos[v] }

// ToVertex is the destination vertex of halfedge h, FromVertex its origin.
func (m *Mesh) ToVertex(h int) int   { return m.hVert[h] }
func (m *Mesh) FromVertex(h int) int { return m.hVert[h^1] }

func (m *Mesh) Opposite(h int) int { return h ^ 1 }
func (m *Mesh) Next(h int) int     { return m.hNext[h] }
func (m *Mesh) Face(h int) int     { return m.hFace[h] }
func (m *Mesh) Edge(h int) int     { return h >> 1 }

// Halfedge returns halfedge 0 or 1 of edge e; halfedge 0 is the canonical
// orientation.
func (m *Mesh) Halfedge(e, which int) int { return 2*e + which }

func (m *Mesh) FaceHalfedge(f int) int   { return m.fHalf[f] }
func (m *Mesh) VertexHalfedge(v int) int { return m.vOut[v] }

func (m *Mesh) IsBoundaryEdge(e int) bool {
	return m.hFace[2*e] < 0 || m.hFace[2*e+1] < 0
}

// EdgeVector is the position difference along the canonical halfedge of e.
func (m *Mesh) EdgeVector(e int) r3.Vec {
	return r3.Sub(m.pos[m.hVert[2*e]], m.pos[m.hVert[2*e+1]])
}

// VertexHalfedges calls fn for every outgoing halfedge of v in rotation
// order, starting from the stored anchor halfedge.
func (m *Mesh) VertexHalfedges(v int, fn func(h int)) {
	start := m.vOut[v]
	if start < 0 {
		return
	}
	h := start
	for {
		fn(h)
		h = m.hNext[h^1]
		if h == start {
			return
		}
	}
}

// VertexFaces calls fn for every face incident to v, in the same rotation
// order as VertexHalfedges. Boundary loops are skipped.
func (m *Mesh) VertexFaces(v int, fn func(f int)) {
	m.VertexHalfedges(v, func(h int) {
		if f := m.hFace[h]; f >= 0 {
			fn(f)
		}
	})
}

// FaceHalfedges calls fn for the three halfedges of face f in traversal
// order.
func (m *Mesh) FaceHalfedges(f int, fn func(h int)) {
	h := m.fHalf[f]
	for k := 0; k < 3; k++ {
		fn(h)
		h = m.hNext[h]
	}
}

// Valence is the number of vertices adjacent to v.
func (m *Mesh) Valence(v int) int {
	n := 0
	m.VertexHalfedges(v, func(int) { n++ })
	return n
}

// Normalize translates the mesh so its bounding box is centered at the
// origin and scales it by the bounding-box diagonal length. The returned
// factor recovers the original units: originalDistance = distance * factor.
func (m *Mesh) Normalize() float64 {
	if len(m.pos) == 0 {
		return 1
	}
	minC, maxC := m.pos[0], m.pos[0]
	for _, p := range m.pos[1:] {
		if p.X < minC.X {
			minC.X = p.X
		}
		if p.Y < minC.Y {
			minC.Y = p.Y
		}
		if p.Z < minC.Z {
			minC.Z = p.Z
		}
		if p.X > maxC.X {
			maxC.X = p.X
		}
		if p.Y > maxC.Y {
			maxC.Y = p.Y
		}
		if p.Z > maxC.Z {
			maxC.Z = p.Z
		}
	}
	factor := r3.Norm(r3.Sub(maxC, minC))
	if factor == 0 {
		return 1
	}
	center := r3.Scale(0.5, r3.Add(minC, maxC))
	inv := 1 / factor
	for i, p := range m.pos {
		m.pos[i] = r3.Scale(inv, r3.Sub(p, center))
	}
	return factor
}
