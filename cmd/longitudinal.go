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

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/longitudinal"
	"github.com/hydromesh/godtmw/store"
)

type ModelLongitudinal struct {
	CrossLines   string
	SurveyPoints string
	Border       string
	Count        int
	Assignment   string
	Points       string
	Lines        string
	Out          string
	KeepNames    bool
}

// LongitudinalCmd represents the longitudinal command
var LongitudinalCmd = &cobra.Command{
	Use:   "longitudinal",
	Short: "Creates longitudinal sections and interpolates their heights",
	Long: `
Places points at equal percentage spacing on every cross line, connects
them into longitudinal profile lines, assigns surveyed heights at the
cross sections and interpolates the heights in between.

godtmw longitudinal -W river.db --surveyPoints survey_points`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("longitudinal called")
		ml := &ModelLongitudinal{}
		ml.CrossLines, _ = cmd.Flags().GetString("crossLines")
		ml.SurveyPoints, _ = cmd.Flags().GetString("surveyPoints")
		ml.Border, _ = cmd.Flags().GetString("border")
		ml.Count, _ = cmd.Flags().GetInt("count")
		ml.Assignment, _ = cmd.Flags().GetString("heightAssignment")
		ml.Points, _ = cmd.Flags().GetString("points")
		ml.Lines, _ = cmd.Flags().GetString("lines")
		ml.Out, _ = cmd.Flags().GetString("out")
		ml.KeepNames, _ = cmd.Flags().GetBool("keepNames")
		if err := RunLongitudinal(ml); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(LongitudinalCmd)
	LongitudinalCmd.Flags().String("crossLines", "cross_lines", "polyline feature class with the cross lines")
	LongitudinalCmd.Flags().String("surveyPoints", "survey_points", "point feature class with the surveyed cross section heights")
	LongitudinalCmd.Flags().String("border", "", "polygon feature class with the water land border, required for NEAR_INSIDE_WLB")
	LongitudinalCmd.Flags().IntP("count", "c", 5, "number of longitudinal sections, endpoints included")
	LongitudinalCmd.Flags().String("heightAssignment", "NEAR_INSIDE_WLB", "cross section height pick: NEAR_INSIDE_WLB or NEAR_ALL")
	LongitudinalCmd.Flags().String("points", "ls_points", "output point feature class for the longitudinal section points")
	LongitudinalCmd.Flags().String("lines", "ls_lines", "output polyline feature class for the longitudinal section lines")
	LongitudinalCmd.Flags().String("out", "ls_points_interpolated", "output point feature class with interpolated heights")
	LongitudinalCmd.Flags().Bool("keepNames", false, "interpolate the point class in place instead of copying")
}

func RunLongitudinal(ml *ModelLongitudinal) error {
	method := longitudinal.HeightAssignment(ml.Assignment)
	if method != longitudinal.NearInsideWLB && method != longitudinal.NearAll {
		return fmt.Errorf("unknown height assignment %q", ml.Assignment)
	}
	if method == longitudinal.NearInsideWLB && len(ml.Border) == 0 {
		return fmt.Errorf("height assignment %s requires a border feature class (--border)", method)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	ws := store.NewWorkspace("")
	classes, err := loadInto(ws, db, ml.CrossLines, ml.SurveyPoints)
	if err != nil {
		return err
	}
	crossLines, surveyPoints := classes[0], classes[1]

	var border geometry.Polygon
	if len(ml.Border) != 0 {
		fc, err := db.LoadClass(ml.Border)
		if err != nil {
			return err
		}
		border = fc.Features()[0].Shape.(geometry.Polygon)
	}

	points, lines, err := longitudinal.CreateSections(ws, crossLines, ml.Count, ml.Points, ml.Lines)
	if err != nil {
		return err
	}
	interpolated, err := longitudinal.Interpolate(ws, points, lines, surveyPoints,
		border, method, maxSectionID(crossLines), ml.Out, ml.KeepNames)
	if err != nil {
		return err
	}

	for _, fc := range []*store.FeatureClass{points, lines, interpolated} {
		if err = db.SaveClass(fc); err != nil {
			return err
		}
	}
	return nil
}

func maxSectionID(fc *store.FeatureClass) (max int) {
	for _, f := range fc.Features() {
		if id := f.Attr(store.FieldSectionID); id > max {
			max = id
		}
	}
	return
}
