package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

type planeSurface struct{ limit float64 }

func (s planeSurface) Sample(x, y float64) (float64, bool) {
	if x > s.limit {
		return 0, false
	}
	return x + y, true
}

func TestCreateVertices(t *testing.T) {
	ws := store.NewWorkspace("test")
	crossLines, _ := ws.Create("cross_lines", store.GeometryPolyline)
	crossLines.Insert(geometry.NewPolyline(
		geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}),
		map[string]int{store.FieldSectionID: 1, store.FieldIntermediateID: 0})

	// Length 10 gives 5 elements, so 6 vertices at spacing 2
	{
		out, err := CreateVertices(ws, crossLines, nil, nil, CountFixed, "vertices")
		assert.NoError(t, err)
		feats := out.Features()
		assert.Equal(t, 6, out.Count())
		for i, f := range feats {
			assert.Equal(t, i+1, f.Attr(store.FieldVertexID))
			assert.Equal(t, 1, f.Attr(store.FieldSectionID))
			pt := f.Shape.(geometry.Point)
			assert.InDelta(t, float64(2*i), pt.X, 1e-9)
			assert.Equal(t, 0.0, pt.Z)
		}
	}
	// Surface heights, positions without coverage keep zero
	{
		out, err := CreateVertices(ws, crossLines, nil, planeSurface{limit: 5}, CountFixed, "vertices_z")
		assert.NoError(t, err)
		for _, f := range out.Features() {
			pt := f.Shape.(geometry.Point)
			if pt.X <= 5 {
				assert.InDelta(t, pt.X, pt.Z, 1e-9)
			} else {
				assert.Equal(t, 0.0, pt.Z)
			}
		}
	}
}
