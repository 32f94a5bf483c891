package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := []byte(`
source_vertices: [0, 15, 3]
heat_solver_eps: 1.0e-8
heat_solver_max_iter: 500
heat_solver_convergence_check_frequency: 5
grad_solver_eps: 1.0e-7
grad_solver_max_iter: 3000
grad_solver_convergence_check_frequency: 20
grad_solver_output_frequency: 200
penalty: 50
`)
	gp := NewGeodesicParameters()
	require.NoError(t, gp.Parse(src))
	assert.Equal(t, []int{0, 15, 3}, gp.SourceVertices)
	assert.Equal(t, 1.e-8, gp.HeatSolverEps)
	assert.Equal(t, 500, gp.HeatSolverMaxIter)
	assert.Equal(t, 5, gp.HeatSolverConvergenceCheckFrequency)
	assert.Equal(t, 1.e-7, gp.GradSolverEps)
	assert.Equal(t, 3000, gp.GradSolverMaxIter)
	assert.Equal(t, 20, gp.GradSolverConvergenceCheckFrequency)
	assert.Equal(t, 200, gp.GradSolverOutputFrequency)
	assert.Equal(t, 50.0, gp.Penalty)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	gp := NewGeodesicParameters()
	require.NoError(t, gp.Parse([]byte("penalty: 7\n")))
	assert.Equal(t, 7.0, gp.Penalty)
	assert.Equal(t, []int{0}, gp.SourceVertices)
	assert.Equal(t, 2000, gp.HeatSolverMaxIter)
}

func TestParseGarbage(t *testing.T) {
	gp := NewGeodesicParameters()
	assert.Error(t, gp.Parse([]byte("source_vertices: {not a list}")))
}
