// Package surface provides terrain height sources for vertex height
// assignment: a triangulated irregular network built from survey
// points, and an ESRI ASCII grid reader.
package surface

import (
	"math"

	"github.com/hydromesh/godtmw/geometry"
)

// TIN is a Delaunay triangulation over survey points, sampled by plane
// interpolation inside the containing triangle.
type TIN struct {
	points    []geometry.Point
	triangles []tinTriangle
}

// tinTriangle indexes into the point slice; negative indices belong to
// the construction-time super triangle and never survive.
type tinTriangle struct {
	a, b, c int
}

// NewTIN triangulates the survey points with incremental insertion
// (Bowyer-Watson). Needs at least three points.
func NewTIN(points []geometry.Point) *TIN {
	t := &TIN{points: points}
	if len(points) < 3 {
		return t
	}

	// Super triangle generously covering all points.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	delta := math.Max(maxX-minX, maxY-minY)
	if delta == 0 {
		delta = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	super := []geometry.Point{
		{X: midX - 20*delta, Y: midY - delta},
		{X: midX, Y: midY + 20*delta},
		{X: midX + 20*delta, Y: midY - delta},
	}
	vertex := func(i int) geometry.Point {
		if i < 0 {
			return super[-i-1]
		}
		return t.points[i]
	}

	triangles := []tinTriangle{{-1, -2, -3}}
	for pi := range points {
		p := points[pi]

		var bad []tinTriangle
		var kept []tinTriangle
		for _, tr := range triangles {
			if inCircumcircle(p, vertex(tr.a), vertex(tr.b), vertex(tr.c)) {
				bad = append(bad, tr)
			} else {
				kept = append(kept, tr)
			}
		}

		// Boundary of the cavity: edges not shared between bad triangles.
		type edge struct{ p, q int }
		edgeCount := make(map[edge]int)
		norm := func(a, b int) edge {
			if a > b {
				a, b = b, a
			}
			return edge{a, b}
		}
		for _, tr := range bad {
			edgeCount[norm(tr.a, tr.b)]++
			edgeCount[norm(tr.b, tr.c)]++
			edgeCount[norm(tr.c, tr.a)]++
		}
		triangles = kept
		for e, n := range edgeCount {
			if n == 1 {
				triangles = append(triangles, tinTriangle{e.p, e.q, pi})
			}
		}
	}

	for _, tr := range triangles {
		if tr.a >= 0 && tr.b >= 0 && tr.c >= 0 {
			t.triangles = append(t.triangles, tr)
		}
	}
	return t
}

func inCircumcircle(p, a, b, c geometry.Point) bool {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return false
	}
	ux := ((a.X*a.X+a.Y*a.Y)*(b.Y-c.Y) + (b.X*b.X+b.Y*b.Y)*(c.Y-a.Y) + (c.X*c.X+c.Y*c.Y)*(a.Y-b.Y)) / d
	uy := ((a.X*a.X+a.Y*a.Y)*(c.X-b.X) + (b.X*b.X+b.Y*b.Y)*(a.X-c.X) + (c.X*c.X+c.Y*c.Y)*(b.X-a.X)) / d
	r := math.Hypot(ux-a.X, uy-a.Y)
	return math.Hypot(p.X-ux, p.Y-uy) < r
}

// Sample interpolates the height at (x, y) on the plane of the
// containing triangle. ok is false outside the triangulated hull.
func (t *TIN) Sample(x, y float64) (float64, bool) {
	for _, tr := range t.triangles {
		a, b, c := t.points[tr.a], t.points[tr.b], t.points[tr.c]
		w1, w2, w3, inside := barycentric(x, y, a, b, c)
		if inside {
			return w1*a.Z + w2*b.Z + w3*c.Z, true
		}
	}
	return 0, false
}

// SampleNearest returns the height of the nearest survey point.
func (t *TIN) SampleNearest(x, y float64) (float64, bool) {
	if len(t.points) == 0 {
		return 0, false
	}
	best := t.points[0]
	bestDist := math.Hypot(best.X-x, best.Y-y)
	for _, p := range t.points[1:] {
		if d := math.Hypot(p.X-x, p.Y-y); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best.Z, true
}

func barycentric(x, y float64, a, b, c geometry.Point) (w1, w2, w3 float64, inside bool) {
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(det) < 1e-12 {
		return 0, 0, 0, false
	}
	w1 = ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / det
	w2 = ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / det
	w3 = 1 - w1 - w2
	const eps = -1e-9
	inside = w1 >= eps && w2 >= eps && w3 >= eps
	return w1, w2, w3, inside
}

// Nearest is a Surface adapter that samples by nearest survey point
// instead of plane interpolation.
type Nearest struct {
	TIN *TIN
}

func (n Nearest) Sample(x, y float64) (float64, bool) {
	return n.TIN.SampleNearest(x, y)
}
