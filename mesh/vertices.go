package mesh

import (
	"github.com/rs/zerolog/log"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// Surface samples a terrain height at a planar position. ok is false
// when the position lies outside the surface.
type Surface interface {
	Sample(x, y float64) (z float64, ok bool)
}

// CreateVertices places element_count+1 vertices at equal parametric
// spacing along every cross line and materializes them as a point
// feature class. Vertex IDs are 1-based along the line. When surf is
// non-nil, heights are assigned in a second pass over the inserted
// points; positions without surface coverage keep zero height.
func CreateVertices(
	ws *store.Workspace, crossLines, sections *store.FeatureClass,
	surf Surface, method CountMethod, outName string,
) (*store.FeatureClass, error) {
	out, err := ws.CreateUnique(outName, store.GeometryPoint)
	if err != nil {
		return nil, err
	}
	log.Info().Str("name", out.Name).Msg("vertex feature class created")

	var ranges Ranges
	if method == CountVariable {
		ranges = RangesFromSections(sections)
	}

	for _, f := range crossLines.Features() {
		line := f.Shape.(geometry.Polyline)
		length := line.Length()
		count := ElementCount(length, method, ranges)
		part := length / float64(count)
		covered := 0.0
		for i := 0; i <= count; i++ {
			out.Insert(line.PositionAlong(covered), map[string]int{
				store.FieldSectionID:      f.Attr(store.FieldSectionID),
				store.FieldIntermediateID: f.Attr(store.FieldIntermediateID),
				store.FieldVertexID:       i + 1,
			})
			covered += part
		}
	}
	log.Info().Int("count", out.Count()).Msg("vertices inserted")

	if surf != nil {
		missed := 0
		out.Update(nil, func(f *store.Feature) {
			pt := f.Shape.(geometry.Point)
			z, ok := surf.Sample(pt.X, pt.Y)
			if !ok {
				missed++
				return
			}
			pt.Z = z
			f.Shape = pt
		})
		if missed > 0 {
			log.Warn().Int("count", missed).Msg("vertices outside surface kept zero height")
		}
		log.Info().Msg("height values assigned")
	}

	return out, nil
}
