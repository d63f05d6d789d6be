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

	"github.com/hydromesh/godtmw/dtmw"
	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// DTMWCmd represents the dtmw command
var DTMWCmd = &cobra.Command{
	Use:   "dtmw",
	Short: "Merges channel and foreshore points into the watercourse terrain model",
	Long: `
Removes foreshore terrain points covered by the stream polygon,
optionally thins the foreshore to a buffer around the stream, and
merges the channel mesh points with the remaining foreshore points
into the digital terrain model of the watercourse.

godtmw dtmw -W river.db --channel ls_points_interpolated`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dtmw called")
		channel, _ := cmd.Flags().GetString("channel")
		foreshore, _ := cmd.Flags().GetString("foreshore")
		stream, _ := cmd.Flags().GetString("stream")
		out, _ := cmd.Flags().GetString("out")
		reduce, _ := cmd.Flags().GetBool("reducePointSet")
		buffer, _ := cmd.Flags().GetFloat64("bufferDistance")
		if err := RunDTMW(channel, foreshore, stream, out, reduce, buffer); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(DTMWCmd)
	DTMWCmd.Flags().String("channel", "ls_points_interpolated", "point feature class with the channel mesh terrain points")
	DTMWCmd.Flags().String("foreshore", "foreshore_points", "point feature class with the foreshore terrain points")
	DTMWCmd.Flags().String("stream", "stream_polygon", "polygon feature class with the stream outline")
	DTMWCmd.Flags().String("out", "dtm_w", "output point feature class for the merged terrain model")
	DTMWCmd.Flags().Bool("reducePointSet", false, "drop foreshore points outside the stream buffer")
	DTMWCmd.Flags().Float64("bufferDistance", 50, "buffer distance around the stream polygon")
}

func RunDTMW(channelName, foreshoreName, streamName, outName string, reduce bool, buffer float64) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	ws := store.NewWorkspace("")
	classes, err := loadInto(ws, db, channelName, foreshoreName, streamName)
	if err != nil {
		return err
	}
	channel, foreshore, streamFC := classes[0], classes[1], classes[2]
	stream := streamFC.Features()[0].Shape.(geometry.Polygon)

	out, err := dtmw.Create(ws, channel, foreshore, stream, outName, reduce, buffer)
	if err != nil {
		return err
	}
	return db.SaveClass(out)
}
