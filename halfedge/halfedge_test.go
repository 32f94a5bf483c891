package halfedge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func unitSquare() (*Mesh, error) {
	pos := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	return NewMesh(pos, [][3]int{{0, 1, 2}, {0, 2, 3}})
}

func TestMeshCounts(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 2, m.NumFaces())
	assert.Equal(t, 5, m.NumEdges())
	assert.Equal(t, 10, m.NumHalfedges())
}

func TestHalfedgeIdentities(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	for h := 0; h < m.NumHalfedges(); h++ {
		assert.Equal(t, h, m.Opposite(m.Opposite(h)))
		assert.Equal(t, m.Edge(h), m.Edge(m.Opposite(h)))
		assert.Equal(t, m.ToVertex(h), m.FromVertex(m.Opposite(h)))
	}
	for e := 0; e < m.NumEdges(); e++ {
		assert.Equal(t, e, m.Edge(m.Halfedge(e, 0)))
		assert.Equal(t, e, m.Edge(m.Halfedge(e, 1)))
	}
}

func TestFaceCirculator(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	for f := 0; f < m.NumFaces(); f++ {
		var verts []int
		m.FaceHalfedges(f, func(h int) {
			assert.Equal(t, f, m.Face(h))
			verts = append(verts, m.ToVertex(h))
		})
		require.Len(t, verts, 3)
		// each face loop closes on itself
		assert.Equal(t, m.FromVertex(m.FaceHalfedge(f)), verts[2])
	}
}

func TestVertexCirculatorCoversOneRing(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	// vertex 0 has neighbors 1, 2, 3; vertex 1 has neighbors 0, 2
	neighbors := func(v int) map[int]bool {
		set := make(map[int]bool)
		m.VertexHalfedges(v, func(h int) {
			assert.Equal(t, v, m.FromVertex(h))
			set[m.ToVertex(h)] = true
		})
		return set
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, neighbors(0))
	assert.Equal(t, map[int]bool{0: true, 2: true}, neighbors(1))
	assert.Equal(t, 3, m.Valence(0))
	assert.Equal(t, 2, m.Valence(1))
	assert.Equal(t, 3, m.Valence(2))
	assert.Equal(t, 2, m.Valence(3))
}

func TestVertexFacesSkipsBoundaryLoop(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	count := 0
	m.VertexFaces(0, func(f int) {
		assert.True(t, f == 0 || f == 1)
		count++
	})
	assert.Equal(t, 2, count)
}

func TestBoundaryEdges(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	nBoundary := 0
	for e := 0; e < m.NumEdges(); e++ {
		if m.IsBoundaryEdge(e) {
			nBoundary++
		}
	}
	assert.Equal(t, 4, nBoundary) // the diagonal is the only interior edge
}

func TestEdgeVector(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	for e := 0; e < m.NumEdges(); e++ {
		h := m.Halfedge(e, 0)
		want := r3.Sub(m.Position(m.ToVertex(h)), m.Position(m.FromVertex(h)))
		assert.Equal(t, want, m.EdgeVector(e))
	}
}

func TestNormalize(t *testing.T) {
	m, err := unitSquare()
	require.NoError(t, err)
	factor := m.Normalize()
	assert.InDelta(t, math.Sqrt(2), factor, 1e-14)
	// bounding box is centered at the origin after normalization
	var maxAbs float64
	for v := 0; v < m.NumVertices(); v++ {
		p := m.Position(v)
		maxAbs = math.Max(maxAbs, math.Abs(p.X))
		maxAbs = math.Max(maxAbs, math.Abs(p.Y))
	}
	assert.InDelta(t, 0.5/math.Sqrt(2), maxAbs, 1e-14)
}

func TestNonManifoldRejected(t *testing.T) {
	pos := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 0},
	}
	// second face traverses edge 0-1 in the same direction as the first
	_, err := NewMesh(pos, [][3]int{{0, 1, 2}, {0, 1, 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonManifold)
}

func TestFaceVertexOutOfRange(t *testing.T) {
	pos := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}
	_, err := NewMesh(pos, [][3]int{{0, 1, 5}})
	require.Error(t, err)
}
