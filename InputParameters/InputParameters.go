package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// GeodesicParameters are obtained from the YAML input file. ghodss/yaml
// routes through encoding/json, hence the json field tags.
type GeodesicParameters struct {
	SourceVertices                      []int   `json:"source_vertices"`
	HeatSolverEps                       float64 `json:"heat_solver_eps"`
	HeatSolverMaxIter                   int     `json:"heat_solver_max_iter"`
	HeatSolverConvergenceCheckFrequency int     `json:"heat_solver_convergence_check_frequency"`
	GradSolverEps                       float64 `json:"grad_solver_eps"`
	GradSolverMaxIter                   int     `json:"grad_solver_max_iter"`
	GradSolverConvergenceCheckFrequency int     `json:"grad_solver_convergence_check_frequency"`
	GradSolverOutputFrequency           int     `json:"grad_solver_output_frequency"`
	Penalty                             float64 `json:"penalty"`
}

// NewGeodesicParameters returns the default solver configuration with a
// single source at vertex 0.
func NewGeodesicParameters() *GeodesicParameters {
	return &GeodesicParameters{
		SourceVertices:                      []int{0},
		HeatSolverEps:                       1.e-6,
		HeatSolverMaxIter:                   2000,
		HeatSolverConvergenceCheckFrequency: 10,
		GradSolverEps:                       1.e-6,
		GradSolverMaxIter:                   20000,
		GradSolverConvergenceCheckFrequency: 10,
		GradSolverOutputFrequency:           100,
		Penalty:                             10,
	}
}

func (gp *GeodesicParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, gp)
}

func (gp *GeodesicParameters) Print() {
	fmt.Printf("%v\t\t= Source Vertices\n", gp.SourceVertices)
	fmt.Printf("%8.3g\t\t= Heat Solver Eps\n", gp.HeatSolverEps)
	fmt.Printf("[%d]\t\t\t= Heat Solver Max Iterations\n", gp.HeatSolverMaxIter)
	fmt.Printf("[%d]\t\t\t= Heat Solver Convergence Check Frequency\n", gp.HeatSolverConvergenceCheckFrequency)
	fmt.Printf("%8.3g\t\t= Grad Solver Eps\n", gp.GradSolverEps)
	fmt.Printf("[%d]\t\t\t= Grad Solver Max Iterations\n", gp.GradSolverMaxIter)
	fmt.Printf("[%d]\t\t\t= Grad Solver Convergence Check Frequency\n", gp.GradSolverConvergenceCheckFrequency)
	fmt.Printf("[%d]\t\t\t= Grad Solver Output Frequency\n", gp.GradSolverOutputFrequency)
	fmt.Printf("%8.3g\t\t= Penalty\n", gp.Penalty)
}
