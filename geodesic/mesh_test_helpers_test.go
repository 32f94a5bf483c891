package geodesic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cgeom/paraheat/InputParameters"
	"github.com/cgeom/paraheat/halfedge"
)

// unitSquareMesh is the two-triangle unit square with the diagonal 0-2.
func unitSquareMesh(t *testing.T) *halfedge.Mesh {
	t.Helper()
	pos := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	m, err := halfedge.NewMesh(pos, [][3]int{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)
	return m
}

// gridMesh triangulates the unit square with n x n vertices; each quad is
// split along its lower-left to upper-right diagonal. Vertex (i,j) has index
// j*n + i, so vertex 0 sits at the origin.
func gridMesh(t *testing.T, n int) *halfedge.Mesh {
	t.Helper()
	pos := make([]r3.Vec, 0, n*n)
	h := 1.0 / float64(n-1)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			pos = append(pos, r3.Vec{X: float64(i) * h, Y: float64(j) * h})
		}
	}
	var faces [][3]int
	for j := 0; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			v00 := j*n + i
			v10 := v00 + 1
			v01 := v00 + n
			v11 := v01 + 1
			faces = append(faces, [3]int{v00, v10, v11}, [3]int{v00, v11, v01})
		}
	}
	m, err := halfedge.NewMesh(pos, faces)
	require.NoError(t, err)
	return m
}

// tetrahedronMesh is a closed regular tetrahedron with edge length 2*sqrt(2).
func tetrahedronMesh(t *testing.T) *halfedge.Mesh {
	t.Helper()
	pos := []r3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	m, err := halfedge.NewMesh(pos, [][3]int{
		{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2},
	})
	require.NoError(t, err)
	return m
}

// twoComponentMesh holds two triangles with no shared vertices; only the
// first one is reachable from vertex 0.
func twoComponentMesh(t *testing.T) *halfedge.Mesh {
	t.Helper()
	pos := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 5, Y: 0, Z: 0},
		{X: 6, Y: 0, Z: 0},
		{X: 5, Y: 1, Z: 0},
	}
	m, err := halfedge.NewMesh(pos, [][3]int{{0, 1, 2}, {3, 4, 5}})
	require.NoError(t, err)
	return m
}

func testParameters(sources ...int) *InputParameters.GeodesicParameters {
	gp := InputParameters.NewGeodesicParameters()
	gp.SourceVertices = sources
	gp.HeatSolverEps = 1.e-6
	gp.HeatSolverMaxIter = 2000
	gp.HeatSolverConvergenceCheckFrequency = 10
	gp.GradSolverEps = 1.e-5
	gp.GradSolverMaxIter = 30000
	gp.GradSolverConvergenceCheckFrequency = 10
	gp.GradSolverOutputFrequency = 1000000 // keep test logs quiet
	gp.Penalty = 10
	return gp
}
