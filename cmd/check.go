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
	"os"

	"github.com/spf13/cobra"

	"github.com/hydromesh/godtmw/mesh"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks channel mesh element quality and writes a report",
	Long: `
Scans the mesh elements for interior angles outside the configured
bounds and for elements much smaller or larger than their neighbors,
and writes the findings into a text report. Violations never fail the
run.

godtmw check -W river.db --elements mesh_elements`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("check called")
		elements, _ := cmd.Flags().GetString("elements")
		reportDir, _ := cmd.Flags().GetString("reportDir")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		p := mesh.CheckParams{}
		p.CheckAngles, _ = cmd.Flags().GetBool("angles")
		p.CheckAreas, _ = cmd.Flags().GetBool("areas")
		p.MinimumAngle, _ = cmd.Flags().GetFloat64("minimumAngle")
		p.MaximumAngle, _ = cmd.Flags().GetFloat64("maximumAngle")
		p.AreaFactor, _ = cmd.Flags().GetFloat64("areaFactor")
		if err := RunCheck(elements, reportDir, overwrite, p); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().String("elements", "mesh_elements", "polygon feature class with the channel mesh elements")
	CheckCmd.Flags().String("reportDir", ".", "directory the report folder is created in")
	CheckCmd.Flags().Bool("overwrite", false, "overwrite an existing report instead of renaming")
	CheckCmd.Flags().Bool("angles", true, "check interior angles")
	CheckCmd.Flags().Bool("areas", true, "check areas against neighbor elements")
	CheckCmd.Flags().Float64("minimumAngle", 45, "lower interior angle bound in degrees")
	CheckCmd.Flags().Float64("maximumAngle", 135, "upper interior angle bound in degrees")
	CheckCmd.Flags().Float64("areaFactor", 2, "allowed area ratio against neighbor elements")
}

func RunCheck(elementsName, reportDir string, overwrite bool, p mesh.CheckParams) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	elements, err := db.LoadClass(elementsName)
	if err != nil {
		return err
	}
	res := mesh.CheckChannelMeshElements(elements, p)
	file, err := mesh.WriteReport(reportDir, elementsName, overwrite, res)
	if err != nil {
		return err
	}
	fmt.Printf("report written to %s\n", file)
	return nil
}
