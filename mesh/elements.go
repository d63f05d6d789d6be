package mesh

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// rowRelation tags how the vertex counts of two adjacent rows relate.
// Each relation has its own index mapping from row positions to
// elements.
type rowRelation int

const (
	rowsEqual rowRelation = iota
	frontExcess1
	backExcess1
	frontExcess2
	backExcess2
	rowsUnsupported
)

func relationOf(front, back int) rowRelation {
	switch front - back {
	case 0:
		return rowsEqual
	case 1:
		return frontExcess1
	case -1:
		return backExcess1
	case 2:
		return frontExcess2
	case -2:
		return backExcess2
	}
	return rowsUnsupported
}

// vertexRow is one cross line's ordered vertex set.
type vertexRow struct {
	section      int
	intermediate int
	points       []geometry.Point
}

// CreateChannelMeshElements stitches every pair of adjacent vertex rows
// into quadrilateral and triangle polygons. Equal rows produce count-1
// quadrilaterals; a difference of one tapers through a central
// triangle; a difference of two tapers through a triangle as the second
// element from each end. Larger differences are a fatal input error.
//
// Elements carry the front row's SECTIONID and INTERMEDIATEID and a
// 1-based ELEMENTID contiguous across the row pair. Polygons are closed
// by repeating the first vertex.
func CreateChannelMeshElements(
	ws *store.Workspace, vertices *store.FeatureClass, outName string,
) (*store.FeatureClass, error) {
	out, err := ws.CreateUnique(outName, store.GeometryPolygon)
	if err != nil {
		return nil, err
	}
	log.Info().Str("name", out.Name).Msg("channel mesh element feature class created")

	vertices.SortBy(store.FieldSectionID, store.FieldIntermediateID, store.FieldVertexID)
	rows := groupRows(vertices)
	if len(rows) < 2 {
		return nil, fmt.Errorf("%d vertex rows: %w", len(rows), ErrTooFewSections)
	}

	for i := 0; i < len(rows)-1; i++ {
		front, back := rows[i], rows[i+1]
		emit := func(poly geometry.Polygon, elementID int) {
			out.Insert(poly, map[string]int{
				store.FieldSectionID:      front.section,
				store.FieldIntermediateID: front.intermediate,
				store.FieldElementID:      elementID,
			})
		}
		f, b := front.points, back.points
		switch relationOf(len(f), len(b)) {
		case rowsEqual:
			stitchEqual(f, b, emit)
		case frontExcess1:
			stitchFrontExcess1(f, b, emit)
		case backExcess1:
			stitchBackExcess1(f, b, emit)
		case frontExcess2:
			stitchFrontExcess2(f, b, emit)
		case backExcess2:
			stitchBackExcess2(f, b, emit)
		default:
			return nil, fmt.Errorf(
				"rows (%d,%d) and (%d,%d) have %d and %d vertices: %w",
				front.section, front.intermediate, back.section, back.intermediate,
				len(f), len(b), ErrRowImbalance,
			)
		}
		log.Debug().
			Int("section", front.section).
			Int("intermediate", front.intermediate).
			Msg("row pair stitched")
	}

	log.Info().Int("count", out.Count()).Msg("channel mesh elements inserted")
	return out, nil
}

// groupRows splits the sorted vertex class into per-cross-line rows,
// ordered by (SECTIONID, INTERMEDIATEID).
func groupRows(vertices *store.FeatureClass) []vertexRow {
	var rows []vertexRow
	for _, f := range vertices.Features() {
		sec := f.Attr(store.FieldSectionID)
		inter := f.Attr(store.FieldIntermediateID)
		if len(rows) == 0 || rows[len(rows)-1].section != sec || rows[len(rows)-1].intermediate != inter {
			rows = append(rows, vertexRow{section: sec, intermediate: inter})
		}
		last := &rows[len(rows)-1]
		last.points = append(last.points, f.Shape.(geometry.Point))
	}
	return rows
}

func quad(v1, v2, v3, v4 geometry.Point) geometry.Polygon {
	return geometry.NewPolygon(v1, v2, v3, v4)
}

func tri(v1, v2, v3 geometry.Point) geometry.Polygon {
	return geometry.NewPolygon(v1, v2, v3)
}

// stitchEqual emits count-1 quadrilaterals between rows of equal size.
func stitchEqual(f, b []geometry.Point, emit func(geometry.Polygon, int)) {
	for k := 0; k < len(f)-1; k++ {
		emit(quad(f[k], f[k+1], b[k+1], b[k]), k+1)
	}
}

// stitchFrontExcess1 handles a front row one vertex wider than the
// back: quadrilaterals realign past the midpoint and a central triangle
// absorbs the extra vertex.
func stitchFrontExcess1(f, b []geometry.Point, emit func(geometry.Polygon, int)) {
	n := len(f)
	mid := n/2 - 1
	for k := 0; k < n-2; k++ {
		if k < mid {
			emit(quad(f[k], f[k+1], b[k+1], b[k]), k+1)
		} else {
			emit(quad(f[k+1], f[k+2], b[k+1], b[k]), k+2)
		}
		if k == mid {
			emit(tri(f[k], f[k+1], b[k]), k+1)
		}
	}
}

// stitchBackExcess1 mirrors stitchFrontExcess1 with the wider row
// behind.
func stitchBackExcess1(f, b []geometry.Point, emit func(geometry.Polygon, int)) {
	mid := len(f) / 2
	for k := 0; k < len(b)-2; k++ {
		if k < mid {
			emit(quad(f[k], f[k+1], b[k+1], b[k]), k+1)
		} else {
			emit(quad(f[k], f[k+1], b[k+2], b[k+1]), k+2)
		}
		if k == mid {
			emit(tri(f[k], b[k+1], b[k]), k+1)
		}
	}
}

// stitchFrontExcess2 handles a front row two vertices wider than the
// back: a triangle as the second element from each end tapers the
// excess symmetrically.
func stitchFrontExcess2(f, b []geometry.Point, emit func(geometry.Polygon, int)) {
	n := len(f)
	for k := 0; k < n-1; k++ {
		if k == 0 {
			emit(quad(f[k], f[k+1], b[k+1], b[k]), k+1)
		} else if k > 1 && k < n-3 {
			emit(quad(f[k], f[k+1], b[k], b[k-1]), k+1)
		} else if k == n-2 {
			emit(quad(f[k], f[k+1], b[k-1], b[k-2]), k+1)
		}
		if k == 1 {
			emit(tri(f[k], f[k+1], b[k]), k+1)
		} else if k == n-3 {
			emit(tri(f[k], f[k+1], b[k-1]), k+1)
		}
	}
}

// stitchBackExcess2 mirrors stitchFrontExcess2 with the wider row
// behind.
func stitchBackExcess2(f, b []geometry.Point, emit func(geometry.Polygon, int)) {
	n := len(f)
	for k := 0; k < n+2; k++ {
		if k == 0 {
			emit(quad(f[k], f[k+1], b[k+1], b[k]), k+1)
		} else if k > 0 && k < n-2 {
			emit(quad(f[k], f[k+1], b[k+2], b[k+1]), k+2)
		} else if k == n-2 {
			emit(quad(f[k], f[k+1], b[k+3], b[k+2]), k+3)
		}
		if k == 1 {
			emit(tri(f[k], b[k+1], b[k]), k+1)
		} else if k == n-2 {
			emit(tri(f[k], b[k+2], b[k+1]), k+2)
		}
	}
}
