// Package dtmw merges the channel mesh point set with the foreshore
// terrain points into the digital terrain model of the watercourse.
package dtmw

import (
	"github.com/rs/zerolog/log"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// Create removes foreshore points covered by the stream polygon (the
// channel mesh supersedes them there), optionally thins the foreshore
// down to a buffer around the stream, and merges channel and foreshore
// points into the output feature class.
func Create(
	ws *store.Workspace, dtmChannel, dtmForeshore *store.FeatureClass,
	streamPolygon geometry.Polygon, outName string,
	reducePointSet bool, bufferDistance float64,
) (*store.FeatureClass, error) {
	removed := dtmForeshore.DeleteWhere(func(f *store.Feature) bool {
		return streamPolygon.Contains(f.Shape.(geometry.Point))
	})
	log.Info().Int("count", removed).Msg("foreshore points inside the stream polygon deleted")

	if reducePointSet {
		reduced := dtmForeshore.DeleteWhere(func(f *store.Feature) bool {
			return streamPolygon.DistanceTo(f.Shape.(geometry.Point)) > bufferDistance
		})
		log.Info().
			Int("count", reduced).
			Float64("buffer", bufferDistance).
			Msg("foreshore point set reduced to stream buffer")
	}

	out, err := ws.CreateUnique(outName, store.GeometryPoint)
	if err != nil {
		return nil, err
	}
	for _, f := range dtmChannel.Features() {
		out.Insert(f.Shape, f.Attrs)
	}
	for _, f := range dtmForeshore.Features() {
		out.Insert(f.Shape, f.Attrs)
	}
	log.Info().Str("name", out.Name).Int("count", out.Count()).Msg("digital terrain model of the watercourse created")
	return out, nil
}
