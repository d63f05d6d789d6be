// Package longitudinal builds profile lines running along the channel
// through matching vertex positions on every cross line, and
// interpolates their heights between the surveyed cross sections.
package longitudinal

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// HeightAssignment selects how heights at the surveyed cross sections
// are picked from the cross section point set.
type HeightAssignment string

const (
	// NearInsideWLB restricts candidates to survey points enclosed by
	// the water land border polygon.
	NearInsideWLB HeightAssignment = "NEAR_INSIDE_WLB"
	// NearAll considers every survey point.
	NearAll HeightAssignment = "NEAR_ALL"
)

// duplicateTolerance drops generated points that coincide within one
// centimeter, the rounding artifact of percentage placement at line
// ends.
const duplicateTolerance = 0.01

// CreateSections places count points at equal percentage spacing
// (endpoints included) on every cross line, numbers them POINTID 1..N,
// and connects equal POINTIDs across the sorted cross line sequence
// into longitudinal lines.
func CreateSections(
	ws *store.Workspace, crossLines *store.FeatureClass, count int,
	outPointsName, outLinesName string,
) (points, lines *store.FeatureClass, err error) {
	if count < 2 {
		return nil, nil, fmt.Errorf("count of longitudinal sections must be at least 2, got %d", count)
	}
	points, err = ws.CreateUnique(outPointsName, store.GeometryPoint)
	if err != nil {
		return nil, nil, err
	}
	fraction := 1.0 / float64(count-1)

	for _, f := range crossLines.Features() {
		line := f.Shape.(geometry.Polyline)
		length := line.Length()
		var prev geometry.Point
		for j := 0; j < count; j++ {
			pt := line.PositionAlong(length * fraction * float64(j))
			if j > 0 && geometry.Distance2D(prev, pt) <= duplicateTolerance {
				continue
			}
			points.Insert(pt, map[string]int{
				store.FieldSectionID:      f.Attr(store.FieldSectionID),
				store.FieldIntermediateID: f.Attr(store.FieldIntermediateID),
				store.FieldPointID:        j + 1,
			})
			prev = pt
		}
	}
	points.SortBy(store.FieldSectionID, store.FieldIntermediateID, store.FieldPointID)
	log.Info().Int("count", points.Count()).Msg("longitudinal section points created")

	lines, err = ws.CreateUnique(outLinesName, store.GeometryPolyline)
	if err != nil {
		return nil, nil, err
	}
	for j := 1; j <= count; j++ {
		var pts []geometry.Point
		for _, f := range points.Search(func(f *store.Feature) bool {
			return f.Attr(store.FieldPointID) == j
		}) {
			pts = append(pts, f.Shape.(geometry.Point))
		}
		if len(pts) < 2 {
			continue
		}
		lines.Insert(geometry.NewPolyline(pts...), map[string]int{
			store.FieldPointID: j,
		})
	}
	log.Info().Int("count", lines.Count()).Msg("longitudinal section lines connected")

	return points, lines, nil
}

// AssignSectionHeights copies heights onto the longitudinal points that
// sit on a surveyed cross section (INTERMEDIATEID 0), each from its
// nearest cross section survey point. With NearInsideWLB only survey
// points inside the border polygon are candidates.
func AssignSectionHeights(
	lsPoints, csPoints *store.FeatureClass,
	border geometry.Polygon, method HeightAssignment,
) error {
	var candidates []geometry.Point
	for _, f := range csPoints.Features() {
		pt := f.Shape.(geometry.Point)
		if method == NearInsideWLB && !border.Contains(pt) {
			continue
		}
		candidates = append(candidates, pt)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no cross section points available for height assignment (%s)", method)
	}

	lsPoints.Update(func(f *store.Feature) bool {
		return f.Attr(store.FieldIntermediateID) == 0
	}, func(f *store.Feature) {
		pt := f.Shape.(geometry.Point)
		best := candidates[0]
		bestDist := geometry.Distance2D(pt, best)
		for _, c := range candidates[1:] {
			if d := geometry.Distance2D(pt, c); d < bestDist {
				best, bestDist = c, d
			}
		}
		pt.Z = best.Z
		f.Shape = pt
	})
	log.Info().Int("candidates", len(candidates)).Msg("cross section heights assigned")
	return nil
}

// InterpolateHeights fills the heights of the longitudinal points
// between successive cross sections. Per section pair and longitudinal
// line, planar distances between consecutive points accumulate to the
// part length; heights grow iteratively by the distance-weighted share
// of the section height difference, each step rounded to two decimals.
func InterpolateHeights(lsPoints *store.FeatureClass, sectionCount, lineCount int) {
	for i := 1; i < sectionCount; i++ {
		for j := 1; j <= lineCount; j++ {
			interpolatePart(lsPoints, i, j)
		}
	}
	log.Info().Msg("height values interpolated")
}

func interpolatePart(lsPoints *store.FeatureClass, section, pointID int) {
	part := lsPoints.Search(func(f *store.Feature) bool {
		if f.Attr(store.FieldPointID) != pointID {
			return false
		}
		if f.Attr(store.FieldSectionID) == section {
			return true
		}
		return f.Attr(store.FieldSectionID) == section+1 && f.Attr(store.FieldIntermediateID) == 0
	})
	if len(part) < 2 {
		return
	}

	var zStart, zEnd float64
	for _, f := range part {
		pt := f.Shape.(geometry.Point)
		if f.Attr(store.FieldIntermediateID) == 0 {
			if f.Attr(store.FieldSectionID) == section {
				zStart = pt.Z
			} else {
				zEnd = pt.Z
			}
		}
	}

	distances := make([]float64, 0, len(part)-1)
	length := 0.0
	for k := 0; k < len(part)-1; k++ {
		d := geometry.Distance2D(part[k].Shape.(geometry.Point), part[k+1].Shape.(geometry.Point))
		length += d
		distances = append(distances, d)
	}
	if length == 0 {
		return
	}

	heights := make([]float64, 0, len(distances))
	zPrev := zStart
	for m := 0; m < len(distances)-1; m++ {
		z := zPrev + (zEnd-zStart)*distances[m]/length
		zPrev = z
		heights = append(heights, geometry.Round2(z))
	}

	n := 0
	for _, f := range part {
		if f.Attr(store.FieldIntermediateID) == 0 {
			continue
		}
		if n >= len(heights) {
			break
		}
		pt := f.Shape.(geometry.Point)
		pt.Z = heights[n]
		f.Shape = pt
		n++
	}
}

// Interpolate runs height assignment and interpolation over a copy of
// the longitudinal section points, returned as a new feature class.
// With keepNames the input class is updated in place instead.
func Interpolate(
	ws *store.Workspace, lsPoints, lsLines, csPoints *store.FeatureClass,
	border geometry.Polygon, method HeightAssignment,
	sectionCount int, outName string, keepNames bool,
) (*store.FeatureClass, error) {
	target := lsPoints
	if !keepNames {
		out, err := ws.CreateUnique(outName, store.GeometryPoint)
		if err != nil {
			return nil, err
		}
		for _, f := range lsPoints.Features() {
			out.Insert(f.Shape, f.Attrs)
		}
		target = out
	}
	if err := AssignSectionHeights(target, csPoints, border, method); err != nil {
		return nil, err
	}
	InterpolateHeights(target, sectionCount, lsLines.Count())
	return target, nil
}
