package geodesic

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cgeom/paraheat/InputParameters"
	"github.com/cgeom/paraheat/halfedge"
	"github.com/cgeom/paraheat/utils"
)

// HeatScalar is the arithmetic type of the heat diffusion stage. Geometry
// stays float64; substituting a different width here switches the whole
// stage at once.
type HeatScalar = float64

var (
	ErrInvalidMesh         = errors.New("geodesic: zero mesh element count")
	ErrInvalidSourceVertex = errors.New("geodesic: invalid source vertex index")
)

type lapCoefEntry struct {
	vertex int
	weight float64
}

/*
Solver holds the state of one geodesic distance computation. All buffers
belong to a single Solve invocation; concurrent solves on separate Solver
values do not share anything. The phases run in a fixed order:

	initBFSPaths -> gaussSeidelInitGradients -> prepareIntegration ->
	computeIntegrableGradients -> integrateDistances

Buffers needed only by the heat stage (coefficient lists, gradients) are
dropped as soon as the following stage has consumed them, keeping the memory
peak close to the size of the edge-indexed fields.
*/
type Solver struct {
	mesh  *halfedge.Mesh
	param *InputParameters.GeodesicParameters

	nVertices, nFaces, nEdges int
	sources                   []int // validated, deduplicated, input order
	scalingFactor             float64

	// worker pool sharding
	NP               int
	pmFaces, pmEdges *utils.PartitionMap

	// breadth-first spanning order
	bfsVertexList      []int // all ordered vertices, segment by segment
	bfsSegmentAddr     []int // segment k spans positions [addr[k], addr[k+1])
	nOrdered           int   // vertices reachable from the source set
	lapCoefAddr        []int // prefix offsets into lapCoef, by spanning position
	transitionHalfedge []int // discovering halfedge, by spanning position

	// heat diffusion stage
	lapCoef          []lapCoefEntry
	heat             []HeatScalar
	initSourceVal    HeatScalar
	heatEps          HeatScalar
	heatResidualNorm HeatScalar
	gsIterations     int
	initGrad         []r3.Vec // unit in-plane gradient per face

	// gradient integration stage
	S                 []int     // edge id per face corner row
	Qsign             []float64 // +-1 orientation per face corner row
	Z                 []float64 // target edge difference per face corner row
	edgeRows          [][2]int  // corner rows touching each edge, -1 when absent
	X                 []float64 // per-edge unknown
	Y, D              []float64 // auxiliary and scaled dual, per corner row
	sx                [2][]float64
	cur               int // parity: sx[cur] receives the next gather
	transitionFromVtx []int
	transitionEdge    []int // signed code: e, or -e-1 for the canonical direction

	iterNum                              int
	primalResidualSqr, dualResidualSqr   float64
	primalThresholdSqr, dualThresholdSqr float64
	converged                            bool
	traceResiduals                       bool
	residualTrace                        [][2]float64 // sampled at check iterations

	dist []float64
}

// NewSolver validates the mesh and configuration. All failure modes are
// detected here; once Solve starts there are no recoverable errors.
func NewSolver(mesh *halfedge.Mesh, param *InputParameters.GeodesicParameters) (*Solver, error) {
	s := &Solver{
		mesh:      mesh,
		param:     param,
		nVertices: mesh.NumVertices(),
		nFaces:    mesh.NumFaces(),
		nEdges:    mesh.NumEdges(),
	}
	if s.nVertices == 0 || s.nFaces == 0 || s.nEdges == 0 {
		return nil, fmt.Errorf("%w: %d vertices, %d faces, %d edges",
			ErrInvalidMesh, s.nVertices, s.nFaces, s.nEdges)
	}
	if len(param.SourceVertices) == 0 {
		return nil, fmt.Errorf("%w: no source vertices given", ErrInvalidSourceVertex)
	}
	// Duplicate sources would skew the impulse normalization; keep the first
	// occurrence of each index, in input order.
	seen := make(map[int]bool, len(param.SourceVertices))
	for _, v := range param.SourceVertices {
		if v < 0 || v >= s.nVertices {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidSourceVertex, v, s.nVertices)
		}
		if !seen[v] {
			seen[v] = true
			s.sources = append(s.sources, v)
		}
	}
	s.SetParallelDegree(0)
	return s, nil
}

// SetParallelDegree caps the worker count; 0 selects the hardware
// parallelism.
func (s *Solver) SetParallelDegree(procLimit int) {
	if procLimit != 0 {
		s.NP = procLimit
	} else {
		s.NP = runtime.NumCPU()
	}
	if s.NP < 1 {
		s.NP = 1
	}
	s.pmFaces = utils.NewPartitionMap(s.NP, s.nFaces)
	s.pmEdges = utils.NewPartitionMap(s.NP, s.nEdges)
}

// Solve runs the full pipeline and returns one distance per vertex in input
// vertex order. Vertices unreachable from the source set are reported as
// +Inf. The mesh is centered and rescaled in place; the returned distances
// are in the original units.
func (s *Solver) Solve() []float64 {
	s.scalingFactor = s.mesh.Normalize()

	fmt.Printf("Initialize BFS path......\n")
	start := time.Now()
	s.initBFSPaths()

	fmt.Printf("Gauss-Seidel initialization of gradients......\n")
	beforeGS := time.Now()
	s.gaussSeidelInitGradients()

	beforeADMM := time.Now()
	fmt.Printf("ADMM solver for integrable gradients......\n")
	s.prepareIntegration()
	s.computeIntegrableGradients()

	afterADMM := time.Now()
	fmt.Printf("Recovery of geodesic distance......\n")
	s.integrateDistances()
	end := time.Now()

	fmt.Printf("\n====== Timing ======\n")
	fmt.Printf("Pre-computation of BFS paths: %v\n", beforeGS.Sub(start))
	fmt.Printf("Gauss-Seidel initialization of gradients: %v\n", beforeADMM.Sub(beforeGS))
	fmt.Printf("ADMM solver for integrable gradients: %v\n", afterADMM.Sub(beforeADMM))
	fmt.Printf("Integration of gradients: %v\n", end.Sub(afterADMM))
	fmt.Printf("Total time: %v\n", end.Sub(start))

	return s.dist
}

// SolveDistance is the package entry point: validate, solve, return
// per-vertex distances.
func SolveDistance(mesh *halfedge.Mesh, param *InputParameters.GeodesicParameters) ([]float64, error) {
	s, err := NewSolver(mesh, param)
	if err != nil {
		return nil, err
	}
	return s.Solve(), nil
}

// checkFrequency clamps a configured check/output interval to at least one.
func checkFrequency(freq int) int {
	if freq < 1 {
		return 1
	}
	return freq
}
