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
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/cgeom/paraheat/readfiles"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two distance files and report error statistics",
	Long: `
Reads two distance files produced by the solve command and prints the maximum
and mean absolute and relative differences, for checking a solve against a
reference solution.

paraheat compare -a mesh.dist -b reference.dist`,
	Run: func(cmd *cobra.Command, args []string) {
		fileA, _ := cmd.Flags().GetString("fileA")
		fileB, _ := cmd.Flags().GetString("fileB")
		if len(fileA) == 0 || len(fileB) == 0 {
			fmt.Printf("error: must supply two distance files (-a, -b)\n")
			os.Exit(1)
		}
		RunCompare(fileA, fileB)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("fileA", "a", "", "distance file to check")
	compareCmd.Flags().StringP("fileB", "b", "", "reference distance file")
}

func RunCompare(fileA, fileB string) {
	distA, err := readfiles.ReadDistances(fileA)
	if err != nil {
		fmt.Printf("error reading %s: %s\n", fileA, err.Error())
		os.Exit(1)
	}
	distB, err := readfiles.ReadDistances(fileB)
	if err != nil {
		fmt.Printf("error reading %s: %s\n", fileB, err.Error())
		os.Exit(1)
	}
	if len(distA) != len(distB) {
		fmt.Printf("error: vertex counts differ: %d vs %d\n", len(distA), len(distB))
		os.Exit(1)
	}

	var (
		maxAbs, sumAbs, maxRel, sumRel float64
		n                              int
	)
	for i := range distA {
		if math.IsInf(distA[i], 1) && math.IsInf(distB[i], 1) {
			continue
		}
		abs := math.Abs(distA[i] - distB[i])
		sumAbs += abs
		if abs > maxAbs {
			maxAbs = abs
		}
		if distB[i] != 0 {
			rel := abs / math.Abs(distB[i])
			sumRel += rel
			if rel > maxRel {
				maxRel = rel
			}
		}
		n++
	}
	if n == 0 {
		fmt.Printf("No finite distances to compare\n")
		return
	}
	fmt.Printf("Compared %d of %d vertices\n", n, len(distA))
	fmt.Printf("Max absolute error:  %v\n", maxAbs)
	fmt.Printf("Mean absolute error: %v\n", sumAbs/float64(n))
	fmt.Printf("Max relative error:  %v\n", maxRel)
	fmt.Printf("Mean relative error: %v\n", sumRel/float64(n))
}
