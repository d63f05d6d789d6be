package dtmw

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

func terrainClasses(t *testing.T) (*store.Workspace, *store.FeatureClass, *store.FeatureClass, geometry.Polygon) {
	ws := store.NewWorkspace("test")
	channel, err := ws.Create("channel_points", store.GeometryPoint)
	assert.NoError(t, err)
	channel.Insert(geometry.Point{X: 5, Y: 5, Z: 1}, nil)
	channel.Insert(geometry.Point{X: 6, Y: 5, Z: 2}, nil)

	foreshore, err := ws.Create("foreshore_points", store.GeometryPoint)
	assert.NoError(t, err)
	foreshore.Insert(geometry.Point{X: 5, Y: 5, Z: 9}, nil)   // inside the stream
	foreshore.Insert(geometry.Point{X: 15, Y: 5, Z: 8}, nil)  // near the stream
	foreshore.Insert(geometry.Point{X: 500, Y: 5, Z: 7}, nil) // far off

	stream := geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
		geometry.Point{X: 10, Y: 10}, geometry.Point{X: 0, Y: 10})
	return ws, channel, foreshore, stream
}

func TestCreate(t *testing.T) {
	// Foreshore points inside the stream polygon are dropped
	{
		ws, channel, foreshore, stream := terrainClasses(t)
		out, err := Create(ws, channel, foreshore, stream, "dtm_w", false, 0)
		assert.NoError(t, err)
		assert.Equal(t, 4, out.Count())
		for _, f := range out.Features() {
			assert.NotEqual(t, 9.0, f.Shape.(geometry.Point).Z)
		}
	}
	// Reduction additionally drops points outside the stream buffer
	{
		ws, channel, foreshore, stream := terrainClasses(t)
		out, err := Create(ws, channel, foreshore, stream, "dtm_w", true, 50)
		assert.NoError(t, err)
		assert.Equal(t, 3, out.Count())
		zs := make(map[float64]bool)
		for _, f := range out.Features() {
			zs[f.Shape.(geometry.Point).Z] = true
		}
		assert.True(t, zs[1] && zs[2] && zs[8])
		assert.False(t, zs[7])
	}
}
