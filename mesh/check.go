package mesh

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hydromesh/godtmw/geometry"
	"github.com/hydromesh/godtmw/store"
)

// touchEps is the tolerance for the element neighborhood predicate:
// adjacent elements share ring vertices exactly, the epsilon only
// absorbs float noise from geometry round trips.
const touchEps = 1e-9

// CheckParams controls the mesh quality scan.
type CheckParams struct {
	CheckAngles  bool
	CheckAreas   bool
	MinimumAngle float64
	MaximumAngle float64
	AreaFactor   float64
}

// CheckResult collects the quality diagnostics of one scan. Violations
// never fail the mesh; they only appear in the written report.
type CheckResult struct {
	Source       string
	ElementCount int
	Params       CheckParams

	RectangleAngleMessages []string
	TriangleAngleMessages  []string
	AreaMessages           []string
}

// CheckChannelMeshElements scans every element for interior angle and
// relative area violations.
//
// Interior angles are measured on 3D vectors; the last angle of each
// element is derived by closure (360 minus the measured three for a
// quadrilateral, 180 minus the measured two for a triangle) rather than
// measured, so non-planar quadrilaterals pass undetected.
//
// Area comparison runs against all touching neighbor elements, with
// triangle areas doubled to make them comparable to quadrilaterals.
func CheckChannelMeshElements(elements *store.FeatureClass, p CheckParams) *CheckResult {
	res := &CheckResult{
		Source:       elements.Name,
		ElementCount: elements.Count(),
		Params:       p,
	}

	for _, f := range elements.Features() {
		poly := f.Shape.(geometry.Polygon)
		if p.CheckAngles {
			checkAngles(res, f, poly, p)
		}
		if p.CheckAreas {
			checkAreas(res, elements, f, poly, p)
		}
	}
	return res
}

func checkAngles(res *CheckResult, f *store.Feature, poly geometry.Polygon, p CheckParams) {
	corners := poly.Corners()
	n := len(corners)

	angles := make([]float64, 0, 4)
	angles = append(angles, geometry.Angle(corners[0], corners[1], corners[n-1]))
	angles = append(angles, geometry.Angle(corners[1], corners[2], corners[0]))
	if n == 4 {
		angles = append(angles, geometry.Angle(corners[2], corners[1], corners[3]))
		angles = append(angles, geometry.Round2(360-(angles[0]+angles[1]+angles[2])))
	} else {
		angles = append(angles, geometry.Round2(180-(angles[0]+angles[1])))
	}

	element := "Rectangle"
	if n != 4 {
		element = "Triangle"
	}

	for _, angle := range angles {
		var msg string
		switch {
		// Coincident corners make the angle NaN, which no bound
		// comparison would catch.
		case math.IsNaN(angle):
			msg = fmt.Sprintf(
				"%s with OBJECTID %d (SECTIONID %d, INTERMEDIATEID %d, ELEMENTID %d) "+
					"has an undefined angle from coincident vertices.",
				element, f.OID, f.Attr(store.FieldSectionID),
				f.Attr(store.FieldIntermediateID), f.Attr(store.FieldElementID),
			)
		case angle < p.MinimumAngle:
			msg = fmt.Sprintf(
				"%s with OBJECTID %d (SECTIONID %d, INTERMEDIATEID %d, ELEMENTID %d) " +
					"has an angle of %g degrees which is lower than the minimum angle of %g degrees.",
				element, f.OID, f.Attr(store.FieldSectionID),
				f.Attr(store.FieldIntermediateID), f.Attr(store.FieldElementID),
				angle, p.MinimumAngle,
			)
		case angle > p.MaximumAngle:
			msg = fmt.Sprintf(
				"%s with OBJECTID %d (SECTIONID %d, INTERMEDIATEID %d, ELEMENTID %d) " +
					"has an angle of %g degrees which is larger than the maximum angle of %g degrees.",
				element, f.OID, f.Attr(store.FieldSectionID),
				f.Attr(store.FieldIntermediateID), f.Attr(store.FieldElementID),
				angle, p.MaximumAngle,
			)
		default:
			continue
		}
		if element == "Rectangle" {
			res.RectangleAngleMessages = append(res.RectangleAngleMessages, msg)
		} else {
			res.TriangleAngleMessages = append(res.TriangleAngleMessages, msg)
		}
		log.Warn().Msg(msg)
	}
}

func checkAreas(res *CheckResult, elements *store.FeatureClass, check *store.Feature, poly geometry.Polygon, p CheckParams) {
	checkArea := poly.Area()
	// Ring point count 4 means a triangle (closing point included);
	// its area is doubled before comparison.
	if poly.VertexCount() == 4 {
		checkArea *= 2
	}

	neighbors := elements.Search(func(ref *store.Feature) bool {
		return poly.SharesVertex(ref.Shape.(geometry.Polygon), touchEps)
	})
	for _, ref := range neighbors {
		refPoly := ref.Shape.(geometry.Polygon)
		refArea := refPoly.Area()
		if refPoly.VertexCount() == 4 {
			refArea *= 2
		}

		var msg string
		switch {
		case checkArea < refArea/p.AreaFactor:
			msg = fmt.Sprintf(
				"Element with OBJECTID %d (SECTIONID %d, INTERMEDIATEID %d, ELEMENTID %d) " +
					"has an area of %g square meters. The minimum area of the element should be " +
					"%g square meters. The element is undersized compared with the element with " +
					"OBJECTID %d (SECTIONID %d, INTERMEDIATEID %d, ELEMENTID %d) with an area of " +
					"%g square meters.",
				check.OID, check.Attr(store.FieldSectionID),
				check.Attr(store.FieldIntermediateID), check.Attr(store.FieldElementID),
				checkArea, refArea/p.AreaFactor,
				ref.OID, ref.Attr(store.FieldSectionID),
				ref.Attr(store.FieldIntermediateID), ref.Attr(store.FieldElementID),
				refArea,
			)
		case checkArea > p.AreaFactor*refArea:
			msg = fmt.Sprintf(
				"Element with OBJECTID %d (SECTIONID %d, INTERMEDIATEID %d, ELEMENTID %d) " +
					"has an area of %g square meters. The maximum area of the element should be " +
					"%g square meters. The element is oversized compared with the element with " +
					"OBJECTID %d (SECTIONID %d, INTERMEDIATEID %d, ELEMENTID %d) with an area of " +
					"%g square meters.",
				check.OID, check.Attr(store.FieldSectionID),
				check.Attr(store.FieldIntermediateID), check.Attr(store.FieldElementID),
				checkArea, p.AreaFactor*refArea,
				ref.OID, ref.Attr(store.FieldSectionID),
				ref.Attr(store.FieldIntermediateID), ref.Attr(store.FieldElementID),
				refArea,
			)
		default:
			continue
		}
		res.AreaMessages = append(res.AreaMessages, msg)
		log.Warn().Msg(msg)
	}
}

// Write renders the report: header, numbered rectangle angle warnings,
// triangle angle warnings, then area warnings, with one running number
// across all categories.
func (r *CheckResult) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Checked feature class: %s\nElement count: %d\n", r.Source, r.ElementCount); err != nil {
		return err
	}
	i := 1
	if r.Params.CheckAngles {
		fmt.Fprintf(w, "Warnings for angles (minimum angle: %g degrees, maximum angle: %g degrees):\n",
			r.Params.MinimumAngle, r.Params.MaximumAngle)
		for _, msg := range r.RectangleAngleMessages {
			fmt.Fprintf(w, "%d: %s\n", i, msg)
			i++
		}
		fmt.Fprintln(w)
		for _, msg := range r.TriangleAngleMessages {
			fmt.Fprintf(w, "%d: %s\n", i, msg)
			i++
		}
	}
	if r.Params.CheckAreas {
		fmt.Fprintf(w, "\nWarnings for areas (area_factor: %g):\n", r.Params.AreaFactor)
		for _, msg := range r.AreaMessages {
			fmt.Fprintf(w, "%d: %s\n", i, msg)
			i++
		}
	}
	return nil
}

// WriteReport writes the report into dir/name/name.txt. With overwrite
// off and the file already present, folder and file names get a
// timestamp suffix instead.
func WriteReport(dir, name string, overwrite bool, r *CheckResult) (string, error) {
	folder := name
	file := filepath.Join(dir, folder, name+".txt")
	if _, err := os.Stat(file); err == nil && !overwrite {
		stamp := time.Now().Format("020106_150405")
		log.Warn().Str("file", file).Msg("report already exists, changing output name")
		folder = name + stamp
		file = filepath.Join(dir, folder, name+stamp+".txt")
	}
	if err := os.MkdirAll(filepath.Join(dir, folder), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(file)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := r.Write(f); err != nil {
		return "", err
	}
	log.Info().Str("file", file).Msg("quality report written")
	return file, nil
}
