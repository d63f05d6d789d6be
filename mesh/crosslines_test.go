package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// straightChannel builds two parallel cross sections of length 30 at
// x=0 and x=100 with straight border sides of length 100.
func straightChannel(t *testing.T) (*store.Workspace, *store.FeatureClass, *store.FeatureClass) {
	ws := store.NewWorkspace("test")
	sections, err := ws.Create("cross_sections", store.GeometryPolyline)
	assert.NoError(t, err)
	sections.Insert(geometry.NewPolyline(
		geometry.Point{X: 0, Y: 0}, geometry.Point{X: 0, Y: 30}),
		map[string]int{store.FieldSectionID: 1})
	sections.Insert(geometry.NewPolyline(
		geometry.Point{X: 100, Y: 0}, geometry.Point{X: 100, Y: 30}),
		map[string]int{store.FieldSectionID: 2})

	wlb, err := ws.Create("wlb_sides", store.GeometryPolyline)
	assert.NoError(t, err)
	wlb.Insert(geometry.NewPolyline(
		geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}),
		map[string]int{store.FieldSectionID: 1, store.FieldWLBID: 1})
	wlb.Insert(geometry.NewPolyline(
		geometry.Point{X: 0, Y: 30}, geometry.Point{X: 100, Y: 30}),
		map[string]int{store.FieldSectionID: 1, store.FieldWLBID: 2})
	return ws, sections, wlb
}

func TestCreateCrossLines(t *testing.T) {
	// Fixed counts on a straight channel
	{
		ws, sections, wlb := straightChannel(t)
		out, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{
			Method: CountFixed, RemainPercentage: 50,
		}, "cross_lines")
		assert.NoError(t, err)

		// Section length 30 yields 8 elements, so the step is
		// 30/8*3 = 11.25 and the span of 100 fills with 8
		// intermediate lines, the last snapped into the remainder.
		feats := out.Features()
		assert.Equal(t, 10, out.Count())
		assert.Equal(t, 0, feats[0].Attr(store.FieldIntermediateID))
		assert.Equal(t, 1, feats[0].Attr(store.FieldSectionID))
		last := feats[len(feats)-1]
		assert.Equal(t, 0, last.Attr(store.FieldIntermediateID))
		assert.Equal(t, 2, last.Attr(store.FieldSectionID))

		first := feats[1].Shape.(geometry.Polyline)
		assert.Equal(t, 1, feats[1].Attr(store.FieldIntermediateID))
		assert.InDelta(t, 11.25, first.Points[0].X, 1e-9)
		assert.InDelta(t, 11.25, first.Points[1].X, 1e-9)

		snapped := feats[len(feats)-2].Shape.(geometry.Polyline)
		assert.Equal(t, 8, feats[len(feats)-2].Attr(store.FieldIntermediateID))
		assert.InDelta(t, 89.375, snapped.Points[0].X, 1e-9)

		// Every intermediate line stays strictly inside the span.
		for _, f := range feats[1 : len(feats)-1] {
			pl := f.Shape.(geometry.Polyline)
			assert.Greater(t, pl.Points[0].X, 0.0)
			assert.Less(t, pl.Points[0].X, 100.0)
		}
	}
	// Unequal border sides walk at the length ratio
	{
		ws, sections, wlb := straightChannel(t)
		wlb.Update(attrEquals(store.FieldWLBID, 2), func(f *store.Feature) {
			f.Shape = geometry.NewPolyline(
				geometry.Point{X: 0, Y: 30}, geometry.Point{X: 50, Y: 30})
		})
		out, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{
			Method: CountFixed, RemainPercentage: 50,
		}, "cross_lines")
		assert.NoError(t, err)

		first := out.Features()[1].Shape.(geometry.Polyline)
		assert.InDelta(t, 11.25, first.Points[0].X, 1e-9)
		assert.InDelta(t, 5.625, first.Points[1].X, 1e-9)
	}
	// Constant distance spacing
	{
		ws, sections, wlb := straightChannel(t)
		out, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{
			Method: CountNone, Distance: 25,
		}, "cross_lines")
		assert.NoError(t, err)
		// Lines at 25, 50, 75 plus the two sections.
		assert.Equal(t, 5, out.Count())
		second := out.Features()[2].Shape.(geometry.Polyline)
		assert.InDelta(t, 50, second.Points[0].X, 1e-9)
	}
	// Deterministic
	{
		ws1, s1, w1 := straightChannel(t)
		ws2, s2, w2 := straightChannel(t)
		p := CrossLineParams{Method: CountFixed, RemainPercentage: 50}
		out1, err := CreateCrossLines(ws1, s1, w1, p, "cross_lines")
		assert.NoError(t, err)
		out2, err := CreateCrossLines(ws2, s2, w2, p, "cross_lines")
		assert.NoError(t, err)
		assert.Equal(t, out1.Count(), out2.Count())
		for i, f := range out1.Features() {
			assert.Equal(t, f.Shape, out2.Features()[i].Shape)
		}
	}
}

func TestCreateCrossLinesErrors(t *testing.T) {
	// A single cross section is fatal
	{
		ws := store.NewWorkspace("test")
		sections, _ := ws.Create("cross_sections", store.GeometryPolyline)
		sections.Insert(geometry.NewPolyline(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 0, Y: 30}),
			map[string]int{store.FieldSectionID: 1})
		wlb, _ := ws.Create("wlb_sides", store.GeometryPolyline)
		_, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{Method: CountFixed}, "out")
		assert.ErrorIs(t, err, ErrTooFewSections)
	}
	// A span with a missing border side is fatal
	{
		ws, sections, wlb := straightChannel(t)
		wlb.DeleteWhere(attrEquals(store.FieldWLBID, 2))
		_, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{Method: CountFixed}, "out")
		assert.ErrorIs(t, err, ErrBorderCardinality)
	}
	// A gap in the section id sequence is fatal, not an endless walk
	{
		ws, sections, wlb := straightChannel(t)
		sections.Insert(geometry.NewPolyline(
			geometry.Point{X: 200, Y: 0}, geometry.Point{X: 200, Y: 30}),
			map[string]int{store.FieldSectionID: 4})
		wlb.Insert(geometry.NewPolyline(
			geometry.Point{X: 100, Y: 0}, geometry.Point{X: 200, Y: 0}),
			map[string]int{store.FieldSectionID: 2, store.FieldWLBID: 1})
		wlb.Insert(geometry.NewPolyline(
			geometry.Point{X: 100, Y: 30}, geometry.Point{X: 200, Y: 30}),
			map[string]int{store.FieldSectionID: 2, store.FieldWLBID: 2})
		_, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{Method: CountFixed}, "out")
		assert.ErrorIs(t, err, ErrSectionGap)
	}
	// A missing terminal section id is fatal instead of silently dropped
	{
		ws, sections, wlb := straightChannel(t)
		sections.Update(attrEquals(store.FieldSectionID, 2), func(f *store.Feature) {
			f.Attrs[store.FieldSectionID] = 3
		})
		_, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{Method: CountFixed}, "out")
		assert.ErrorIs(t, err, ErrSectionGap)
	}
	// A non-positive constant distance is fatal, not an endless walk
	{
		ws, sections, wlb := straightChannel(t)
		_, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{Method: CountNone, Distance: 0}, "out")
		assert.ErrorIs(t, err, ErrNonPositiveStep)
	}
	// A zero-length section line is fatal
	{
		ws, sections, wlb := straightChannel(t)
		sections.Update(attrEquals(store.FieldSectionID, 1), func(f *store.Feature) {
			f.Shape = geometry.NewPolyline(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 0, Y: 0})
		})
		_, err := CreateCrossLines(ws, sections, wlb, CrossLineParams{Method: CountFixed}, "out")
		assert.ErrorIs(t, err, ErrNonPositiveStep)
	}
}
