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

	"github.com/spf13/cobra"

	"github.com/hydromesh/godtmw/InputParameters"
	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/mesh"
	"github.com/hydromesh/godtmw/store"
	"github.com/hydromesh/godtmw/surface"
)

type ModelMesh struct {
	ICFile       string
	Sections     string
	WLB          string
	HeightRaster string
	HeightPoints string
	CrossLines   string
	Vertices     string
	Elements     string
}

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Generates the channel mesh between the surveyed cross sections",
	Long: `
Walks every pair of neighboring cross sections, fills the span with
intermediate cross lines, places vertices on every line and stitches
the vertex rows into quadrilateral and triangle mesh elements.

godtmw mesh -W river.db -I parameters.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mesh called")
		mm := &ModelMesh{}
		mm.ICFile, _ = cmd.Flags().GetString("parametersFile")
		mm.Sections, _ = cmd.Flags().GetString("sections")
		mm.WLB, _ = cmd.Flags().GetString("wlb")
		mm.HeightRaster, _ = cmd.Flags().GetString("heightRaster")
		mm.HeightPoints, _ = cmd.Flags().GetString("heightPoints")
		mm.CrossLines, _ = cmd.Flags().GetString("crossLines")
		mm.Vertices, _ = cmd.Flags().GetString("vertices")
		mm.Elements, _ = cmd.Flags().GetString("elements")
		mp := processMeshInput(mm.ICFile)
		if err := RunMesh(mm, mp); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processMeshInput(icFile string) (mp *InputParameters.MeshParameters) {
	mp = InputParameters.Defaults()
	if len(icFile) == 0 {
		err := fmt.Errorf("must supply a parameters file (-I, --parametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Test Reach"
ElementCountMethod: FIX # Can be "VARIABLE" or "NONE"
RemainPercentage: 50
CheckAngles: true
CheckAreas: true
MinimumAngle: 45
MaximumAngle: 135
AreaFactor: 2
LongitudinalCount: 5
HeightAssignment: NEAR_INSIDE_WLB # Can be "NEAR_ALL"
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	data, err := ioutil.ReadFile(icFile)
	if err != nil {
		panic(err)
	}
	if err = mp.Parse(data); err != nil {
		panic(err)
	}
	if err = mp.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	mp.Print()
	return
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("parametersFile", "I", "", "YAML file for input parameters like:\n\t- ElementCountMethod\n\t- RemainPercentage")
	MeshCmd.Flags().String("sections", "cross_sections", "polyline feature class with the surveyed cross sections")
	MeshCmd.Flags().String("wlb", "wlb_sides", "polyline feature class with the water land border sides per span")
	MeshCmd.Flags().String("heightRaster", "", "terrain raster in ESRI ASCII grid format for vertex heights")
	MeshCmd.Flags().String("heightPoints", "", "point feature class triangulated for vertex heights")
	MeshCmd.Flags().String("crossLines", "cross_lines", "output polyline feature class for the cross lines")
	MeshCmd.Flags().String("vertices", "mesh_vertices", "output point feature class for the mesh vertices")
	MeshCmd.Flags().String("elements", "mesh_elements", "output polygon feature class for the mesh elements")
}

func RunMesh(mm *ModelMesh, mp *InputParameters.MeshParameters) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	ws := store.NewWorkspace(mp.Title)
	classes, err := loadInto(ws, db, mm.Sections, mm.WLB)
	if err != nil {
		return err
	}
	sections, wlb := classes[0], classes[1]

	surf, err := meshSurface(db, mm)
	if err != nil {
		return err
	}

	crossLines, err := mesh.CreateCrossLines(ws, sections, wlb, mesh.CrossLineParams{
		Method:           mesh.CountMethod(mp.ElementCountMethod),
		Distance:         mp.Distance,
		RemainPercentage: mp.RemainPercentage,
	}, mm.CrossLines)
	if err != nil {
		return err
	}
	vertices, err := mesh.CreateVertices(ws, crossLines, sections,
		surf, mesh.CountMethod(mp.ElementCountMethod), mm.Vertices)
	if err != nil {
		return err
	}
	elements, err := mesh.CreateChannelMeshElements(ws, vertices, mm.Elements)
	if err != nil {
		return err
	}

	for _, fc := range []*store.FeatureClass{crossLines, vertices, elements} {
		if err = db.SaveClass(fc); err != nil {
			return err
		}
	}
	return nil
}

// meshSurface builds the vertex height source, nil when none is
// configured.
func meshSurface(db *store.DB, mm *ModelMesh) (mesh.Surface, error) {
	if len(mm.HeightRaster) != 0 {
		f, err := os.Open(mm.HeightRaster)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		g, err := surface.ReadEsriASCII(f)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	if len(mm.HeightPoints) != 0 {
		fc, err := db.LoadClass(mm.HeightPoints)
		if err != nil {
			return nil, err
		}
		pts := make([]geometry.Point, 0, fc.Count())
		for _, f := range fc.Features() {
			pts = append(pts, f.Shape.(geometry.Point))
		}
		return surface.NewTIN(pts), nil
	}
	return nil, nil
}
