package mesh

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// Fatal input-shape errors. No partial mesh is produced past any of
// these.
var (
	ErrTooFewSections    = errors.New("need at least two cross sections")
	ErrBorderCardinality = errors.New("span must have exactly two water land border parts")
	ErrRowImbalance      = errors.New("vertex row counts differ by more than two")
	ErrSectionGap        = errors.New("cross section ids must run contiguously from 1")
	ErrNonPositiveStep   = errors.New("cross line step must be positive")
)

// CrossLineParams controls intermediate cross line placement.
type CrossLineParams struct {
	// Method selects the element count policy. With CountNone the
	// Distance below is used as a constant step.
	Method CountMethod

	// Distance is the constant step between successive cross lines,
	// CountNone only.
	Distance float64

	// RemainPercentage decides, at the end of a span, whether a last
	// cross line is still placed halfway into the remaining gap. When
	// step*RemainPercentage/100 exceeds the remaining distance the gap
	// is considered too short and the span ends without it.
	RemainPercentage float64
}

// CreateCrossLines derives the cross lines for every span between
// successive cross sections and materializes them as a polyline feature
// class in ws. Each section itself is emitted with INTERMEDIATEID 0;
// generated lines count up from 1 with distance from the span start.
//
// The two water land border parts of a span are walked at rates scaled
// by their length ratio so both sides reach the next section together.
// The step between lines is re-derived after each generated line from
// that line's element count, with the owning section's length as the
// spacing base.
func CreateCrossLines(
	ws *store.Workspace, sections, wlb *store.FeatureClass,
	p CrossLineParams, outName string,
) (*store.FeatureClass, error) {
	out, err := ws.CreateUnique(outName, store.GeometryPolyline)
	if err != nil {
		return nil, err
	}
	log.Info().Str("name", out.Name).Msg("cross line feature class created")

	wlb.SortBy(store.FieldSectionID, store.FieldWLBID)

	countSections := sections.Count()
	if countSections < 2 {
		return nil, fmt.Errorf("%d cross sections: %w", countSections, ErrTooFewSections)
	}
	// Span walking and the terminal lookup both key on SECTIONID, so a
	// gap in the id sequence would leave a span without its section row.
	for id := 1; id <= countSections; id++ {
		if sections.CountWhere(attrEquals(store.FieldSectionID, id)) == 0 {
			return nil, fmt.Errorf("no cross section with SECTIONID %d of %d: %w",
				id, countSections, ErrSectionGap)
		}
	}

	var ranges Ranges
	if p.Method == CountVariable {
		ranges = RangesFromSections(sections)
		log.Debug().
			Float64("lower", ranges.Lower).
			Float64("upper", ranges.Upper).
			Float64("bucket", ranges.Bucket).
			Msg("variable element count ranges")
	}

	for section := 1; section < countSections; section++ {
		side1, side2, err := borderSides(wlb, section)
		if err != nil {
			return nil, err
		}
		len1, len2 := side1.Length(), side2.Length()
		ratio := len1 / len2
		longer := len1
		if len2 > len1 {
			longer = len2
		}

		// The span starts with the section itself.
		var sectionLine geometry.Polyline
		for _, f := range sections.Search(attrEquals(store.FieldSectionID, section)) {
			sectionLine = f.Shape.(geometry.Polyline)
			out.Insert(sectionLine, map[string]int{
				store.FieldSectionID:      section,
				store.FieldIntermediateID: 0,
			})
		}
		sectionLength := sectionLine.Length()

		step := p.Distance
		if p.Method == CountFixed || p.Method == CountVariable {
			count := ElementCount(sectionLength, p.Method, ranges)
			step = sectionLength / float64(count) * 3
		}
		// The walk below advances by step; anything non-positive would
		// never terminate. Recomputed steps keep the section length as
		// numerator, so checking once per span covers them too.
		if step <= 0 {
			return nil, fmt.Errorf("span %d has step %g: %w", section, step, ErrNonPositiveStep)
		}

		covered := step
		intermediateID := 1
		for covered < longer {
			if p.Method == CountFixed || p.Method == CountVariable {
				remain := longer - covered
				weighted := step * p.RemainPercentage / 100.0
				if step >= remain && weighted > remain {
					// Remaining gap too short for another line.
					break
				} else if step >= remain && weighted <= remain {
					// Place the last line halfway into the remainder.
					covered = covered - step + (step+remain)/2.0
				}
			}

			d1, d2 := covered, covered
			if ratio < 1 {
				d1 = covered * ratio
			}
			if ratio > 1 {
				d2 = covered / ratio
			}
			line := geometry.NewPolyline(side1.PositionAlong(d1), side2.PositionAlong(d2))
			out.Insert(line, map[string]int{
				store.FieldSectionID:      section,
				store.FieldIntermediateID: intermediateID,
			})

			if p.Method == CountFixed || p.Method == CountVariable {
				count := ElementCount(line.Length(), p.Method, ranges)
				step = sectionLength / float64(count) * 3
			}
			covered += step
			intermediateID++
		}
		log.Debug().Int("section", section).Int("crossLines", intermediateID).Msg("span completed")
	}

	// The last cross section terminates the sequence.
	for _, f := range sections.Search(attrEquals(store.FieldSectionID, countSections)) {
		out.Insert(f.Shape, map[string]int{
			store.FieldSectionID:      countSections,
			store.FieldIntermediateID: 0,
		})
	}

	log.Info().Int("count", out.Count()).Msg("cross lines inserted")
	return out, nil
}

// borderSides returns the two water land border polylines bounding the
// span starting at section, by WLBID.
func borderSides(wlb *store.FeatureClass, section int) (side1, side2 geometry.Polyline, err error) {
	var have1, have2 bool
	rows := wlb.Search(attrEquals(store.FieldSectionID, section))
	for _, f := range rows {
		switch f.Attr(store.FieldWLBID) {
		case 1:
			side1 = f.Shape.(geometry.Polyline)
			have1 = true
		case 2:
			side2 = f.Shape.(geometry.Polyline)
			have2 = true
		}
	}
	if len(rows) != 2 || !have1 || !have2 {
		err = fmt.Errorf("section %d has %d border parts: %w", section, len(rows), ErrBorderCardinality)
	}
	return side1, side2, err
}

func attrEquals(name string, value int) func(*store.Feature) bool {
	return func(f *store.Feature) bool {
		return f.Attr(name) == value
	}
}

func shapeLength(f *store.Feature) float64 {
	if pl, ok := f.Shape.(geometry.Polyline); ok {
		return pl.Length()
	}
	return 0
}
