package mesh

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

func elementClass(t *testing.T, polys ...geometry.Polygon) *store.FeatureClass {
	ws := store.NewWorkspace("test")
	fc, err := ws.Create("elements", store.GeometryPolygon)
	assert.NoError(t, err)
	for i, poly := range polys {
		fc.Insert(poly, map[string]int{
			store.FieldSectionID:      1,
			store.FieldIntermediateID: 0,
			store.FieldElementID:      i + 1,
		})
	}
	return fc
}

func TestCheckChannelMeshElements(t *testing.T) {
	params := CheckParams{
		CheckAngles: true, CheckAreas: true,
		MinimumAngle: 45, MaximumAngle: 135, AreaFactor: 2,
	}
	// A clean rectangle passes both checks
	{
		fc := elementClass(t, geometry.NewPolygon(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
			geometry.Point{X: 10, Y: 1}, geometry.Point{X: 0, Y: 1}))
		res := CheckChannelMeshElements(fc, params)
		assert.Empty(t, res.RectangleAngleMessages)
		assert.Empty(t, res.TriangleAngleMessages)
		assert.Empty(t, res.AreaMessages)
		assert.Equal(t, 1, res.ElementCount)
		assert.Equal(t, "elements", res.Source)
	}
	// Angles exactly on the bounds pass
	{
		fc := elementClass(t, geometry.NewPolygon(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 0},
			geometry.Point{X: 0, Y: 1}))
		res := CheckChannelMeshElements(fc, params)
		assert.Empty(t, res.TriangleAngleMessages)
	}
	// A skewed parallelogram violates on every corner
	{
		fc := elementClass(t, geometry.NewPolygon(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
			geometry.Point{X: 15, Y: 1}, geometry.Point{X: 5, Y: 1}))
		res := CheckChannelMeshElements(fc, params)
		assert.Len(t, res.RectangleAngleMessages, 4)
		assert.Contains(t, res.RectangleAngleMessages[0], "Rectangle with OBJECTID 1")
		assert.Contains(t, res.RectangleAngleMessages[0], "lower than the minimum angle of 45 degrees.")
	}
	// A sliver triangle violates on every corner
	{
		fc := elementClass(t, geometry.NewPolygon(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
			geometry.Point{X: 5, Y: 0.1}))
		res := CheckChannelMeshElements(fc, params)
		assert.Len(t, res.TriangleAngleMessages, 3)
		assert.Contains(t, res.TriangleAngleMessages[2], "larger than the maximum angle of 135 degrees.")
	}
	// Coincident corners report an undefined angle
	{
		fc := elementClass(t, geometry.NewPolygon(
			geometry.Point{X: 0, Y: 0}, geometry.Point{X: 0, Y: 0},
			geometry.Point{X: 1, Y: 0}, geometry.Point{X: 1, Y: 1}))
		res := CheckChannelMeshElements(fc, params)
		assert.NotEmpty(t, res.RectangleAngleMessages)
		assert.Contains(t, res.RectangleAngleMessages[0],
			"has an undefined angle from coincident vertices.")
	}
	// Area mismatch between touching neighbors reports both directions
	{
		fc := elementClass(t,
			geometry.NewPolygon(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 0},
				geometry.Point{X: 1, Y: 1}, geometry.Point{X: 0, Y: 1}),
			geometry.NewPolygon(
				geometry.Point{X: 1, Y: 0}, geometry.Point{X: 4, Y: 0},
				geometry.Point{X: 4, Y: 3}, geometry.Point{X: 1, Y: 3}))
		res := CheckChannelMeshElements(fc, CheckParams{
			CheckAreas: true, AreaFactor: 2,
		})
		assert.Len(t, res.AreaMessages, 2)
		assert.Contains(t, res.AreaMessages[0], "undersized")
		assert.Contains(t, res.AreaMessages[1], "oversized")
	}
	// Triangle areas double before the comparison
	{
		fc := elementClass(t,
			geometry.NewPolygon(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 3, Y: 0},
				geometry.Point{X: 3, Y: 1}, geometry.Point{X: 0, Y: 1}),
			geometry.NewPolygon(
				geometry.Point{X: 3, Y: 0}, geometry.Point{X: 5, Y: 0},
				geometry.Point{X: 3, Y: 1}))
		res := CheckChannelMeshElements(fc, CheckParams{
			CheckAreas: true, AreaFactor: 2,
		})
		assert.Empty(t, res.AreaMessages)
	}
	// Elements apart from each other never compare
	{
		fc := elementClass(t,
			geometry.NewPolygon(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 0},
				geometry.Point{X: 1, Y: 1}, geometry.Point{X: 0, Y: 1}),
			geometry.NewPolygon(
				geometry.Point{X: 50, Y: 50}, geometry.Point{X: 53, Y: 50},
				geometry.Point{X: 53, Y: 53}, geometry.Point{X: 50, Y: 53}))
		res := CheckChannelMeshElements(fc, CheckParams{
			CheckAreas: true, AreaFactor: 2,
		})
		assert.Empty(t, res.AreaMessages)
	}
}

func TestCheckResultWrite(t *testing.T) {
	res := &CheckResult{
		Source:       "elements",
		ElementCount: 3,
		Params: CheckParams{
			CheckAngles: true, CheckAreas: true,
			MinimumAngle: 45, MaximumAngle: 135, AreaFactor: 2,
		},
		RectangleAngleMessages: []string{"rect warning"},
		TriangleAngleMessages:  []string{"tri warning"},
		AreaMessages:           []string{"area warning"},
	}
	var buf bytes.Buffer
	assert.NoError(t, res.Write(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Checked feature class: elements\nElement count: 3\n"))
	// One running number across all categories.
	assert.Contains(t, out, "1: rect warning")
	assert.Contains(t, out, "2: tri warning")
	assert.Contains(t, out, "3: area warning")
	assert.Contains(t, out, "Warnings for angles (minimum angle: 45 degrees, maximum angle: 135 degrees):")
	assert.Contains(t, out, "Warnings for areas (area_factor: 2):")
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	res := &CheckResult{Source: "elements", ElementCount: 0}
	// First write lands at dir/name/name.txt
	file1, err := WriteReport(dir, "elements", false, res)
	assert.NoError(t, err)
	assert.FileExists(t, file1)
	// A second write without overwrite gets a renamed folder and file
	file2, err := WriteReport(dir, "elements", false, res)
	assert.NoError(t, err)
	assert.NotEqual(t, file1, file2)
	assert.FileExists(t, file2)
	// Overwrite reuses the original path
	file3, err := WriteReport(dir, "elements", true, res)
	assert.NoError(t, err)
	assert.Equal(t, file1, file3)
	_ = os.RemoveAll(dir)
}
