/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cgeom/paraheat/InputParameters"
	"github.com/cgeom/paraheat/geodesic"
	"github.com/cgeom/paraheat/readfiles"
)

type SolveModel struct {
	MeshFile   string
	ParamFile  string
	OutputFile string
	NProc      int
	Profile    bool
}

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute geodesic distances from the configured source vertices",
	Long: `
Reads a triangle mesh (.off or .obj), computes the geodesic distance from the
source vertices given in the input parameters file to every mesh vertex, and
writes one distance per line to the output file.

paraheat solve -F mesh.off -I params.yaml -o mesh.dist`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		sm := &SolveModel{}
		if sm.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			panic(err)
		}
		if sm.ParamFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		sm.OutputFile, _ = cmd.Flags().GetString("outputFile")
		sm.NProc, _ = cmd.Flags().GetInt("nproc")
		sm.Profile, _ = cmd.Flags().GetBool("profile")
		gp := processSolveInput(sm)
		RunSolve(sm, gp)
	},
}

func processSolveInput(sm *SolveModel) (gp *InputParameters.GeodesicParameters) {
	var (
		err      error
		willExit bool
	)
	if len(sm.MeshFile) == 0 {
		err := fmt.Errorf("must supply a mesh file (-F, --meshFile) in .off or .obj format")
		fmt.Printf("error: %s\n", err.Error())
		willExit = true
	}
	if len(sm.ParamFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
source_vertices: [0]
heat_solver_eps: 1.e-6
heat_solver_max_iter: 2000
grad_solver_eps: 1.e-6
grad_solver_max_iter: 20000
penalty: 10
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		willExit = true
	}
	if willExit {
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(sm.ParamFile); err != nil {
		panic(err)
	}
	gp = InputParameters.NewGeodesicParameters()
	if err = gp.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("meshFile", "F", "", "Triangle mesh to read in OFF (.off) or Wavefront (.obj) format")
	solveCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- source_vertices\n\t- penalty")
	solveCmd.Flags().StringP("outputFile", "o", "", "write one distance per vertex per line; stdout summary only when empty")
	solveCmd.Flags().IntP("nproc", "p", 0, "number of worker goroutines, 0 uses all CPUs")
	solveCmd.Flags().Bool("profile", false, "write a CPU profile of the solve to the current directory")
}

func RunSolve(sm *SolveModel, gp *InputParameters.GeodesicParameters) {
	if sm.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	gp.Print()
	mesh, err := readfiles.ReadMesh(sm.MeshFile)
	if err != nil {
		fmt.Printf("error reading mesh: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("Read mesh: %d vertices, %d faces, %d edges\n",
		mesh.NumVertices(), mesh.NumFaces(), mesh.NumEdges())

	s, err := geodesic.NewSolver(mesh, gp)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	s.SetParallelDegree(sm.NProc)
	dist := s.Solve()

	if len(sm.OutputFile) != 0 {
		if err = readfiles.WriteDistances(sm.OutputFile, dist); err != nil {
			fmt.Printf("error writing distances: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("Wrote %d distances to %s\n", len(dist), sm.OutputFile)
	}
}
