package geodesic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidenceTables(t *testing.T) {
	m := gridMesh(t, 5)
	s, err := NewSolver(m, testParameters(0))
	require.NoError(t, err)
	s.initBFSPaths()
	s.gaussSeidelInitGradients()
	s.prepareIntegration()

	require.Len(t, s.S, 3*m.NumFaces())
	rowsPerEdge := make([]int, m.NumEdges())
	for row, e := range s.S {
		require.GreaterOrEqual(t, e, 0)
		require.Less(t, e, m.NumEdges())
		assert.Contains(t, s.edgeRows[e], row, "edge %d must back-reference row %d", e, row)
		assert.Contains(t, []float64{1, -1}, s.Qsign[row])
		rowsPerEdge[e]++
	}
	for e := 0; e < m.NumEdges(); e++ {
		want := 2
		if m.IsBoundaryEdge(e) {
			want = 1
		}
		assert.Equal(t, want, rowsPerEdge[e], "edge %d", e)
		if want == 1 {
			assert.Equal(t, -1, s.edgeRows[e][1])
			// a single-row edge starts at its own target difference
			assert.Equal(t, s.Z[s.edgeRows[e][0]], s.X[e])
		}
	}
}

func TestADMMConvergesOnTetrahedron(t *testing.T) {
	m := tetrahedronMesh(t)
	s, err := NewSolver(m, testParameters(0))
	require.NoError(t, err)
	s.traceResiduals = true
	dist := s.Solve()

	assert.True(t, s.converged)
	assert.LessOrEqual(t, s.primalResidualSqr, s.primalThresholdSqr)
	assert.LessOrEqual(t, s.dualResidualSqr, s.dualThresholdSqr)

	// every non-source vertex lies one edge away; edge length is 2*sqrt(2)
	assert.Zero(t, dist[0])
	for v := 1; v < 4; v++ {
		assert.InDelta(t, 2*math.Sqrt2, dist[v], 0.8, "vertex %d", v)
	}
	// symmetry of the regular tetrahedron about the source
	assert.InDelta(t, dist[1], dist[2], 1e-9)
	assert.InDelta(t, dist[1], dist[3], 1e-9)
}

func TestADMMConvergesOnUnitSquare(t *testing.T) {
	m := unitSquareMesh(t)
	s, err := NewSolver(m, testParameters(0))
	require.NoError(t, err)
	s.Solve()
	assert.True(t, s.converged)
}

func TestADMMResidualTrend(t *testing.T) {
	m := gridMesh(t, 9)
	s, err := NewSolver(m, testParameters(0))
	require.NoError(t, err)
	s.traceResiduals = true
	s.Solve()

	trace := s.residualTrace
	require.NotEmpty(t, trace)
	// the splitting iteration is not strictly monotone; allow bounded
	// excursions between consecutive samples but require an overall descent
	for i := 1; i < len(trace); i++ {
		assert.LessOrEqual(t, trace[i][0], 1.5*trace[i-1][0]+1e-12,
			"primal residual sample %d", i)
		assert.LessOrEqual(t, trace[i][1], 1.5*trace[i-1][1]+1e-12,
			"dual residual sample %d", i)
	}
	if len(trace) > 1 {
		first, last := trace[0], trace[len(trace)-1]
		assert.Less(t, last[0], first[0])
		assert.Less(t, last[1], first[1])
	}
}
