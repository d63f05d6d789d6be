package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a surveyed or generated 3D position. All measures (length,
// area, distance) are planar, computed on the XY projection; Z rides
// along and is interpolated where geometry is subdivided.
type Point struct {
	X, Y, Z float64
}

func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

func (p Point) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Distance2D is the planar distance between two points.
func Distance2D(a, b Point) float64 {
	return planar.Distance(a.Orb(), b.Orb())
}

// Polyline is an ordered point chain, at least two points.
type Polyline struct {
	Points []Point
}

func NewPolyline(pts ...Point) Polyline {
	return Polyline{Points: pts}
}

func (pl Polyline) LineString() orb.LineString {
	ls := make(orb.LineString, len(pl.Points))
	for i, p := range pl.Points {
		ls[i] = p.Orb()
	}
	return ls
}

// Length is the planar length of the polyline.
func (pl Polyline) Length() float64 {
	return planar.Length(pl.LineString())
}

// PositionAlong returns the point at planar distance d from the start of
// the polyline. Z is interpolated linearly within the containing segment.
// Distances below zero clamp to the first point, distances beyond the
// polyline length clamp to the last.
func (pl Polyline) PositionAlong(d float64) Point {
	if len(pl.Points) == 0 {
		return Point{}
	}
	if d <= 0 {
		return pl.Points[0]
	}
	covered := 0.0
	for i := 0; i < len(pl.Points)-1; i++ {
		a, b := pl.Points[i], pl.Points[i+1]
		seg := Distance2D(a, b)
		if covered+seg >= d && seg > 0 {
			t := (d - covered) / seg
			return Point{
				X: a.X + t*(b.X-a.X),
				Y: a.Y + t*(b.Y-a.Y),
				Z: a.Z + t*(b.Z-a.Z),
			}
		}
		covered += seg
	}
	return pl.Points[len(pl.Points)-1]
}

// Polygon is a closed ring: the last point repeats the first.
type Polygon struct {
	Points []Point
}

// NewPolygon closes the ring by appending the first vertex again.
func NewPolygon(pts ...Point) Polygon {
	closed := make([]Point, 0, len(pts)+1)
	closed = append(closed, pts...)
	if len(pts) > 0 {
		closed = append(closed, pts[0])
	}
	return Polygon{Points: closed}
}

func (pg Polygon) Ring() orb.Ring {
	r := make(orb.Ring, len(pg.Points))
	for i, p := range pg.Points {
		r[i] = p.Orb()
	}
	return r
}

// Area is the planar (XY projected) area of the polygon.
func (pg Polygon) Area() float64 {
	return math.Abs(planar.Area(pg.Ring()))
}

// VertexCount counts ring points including the closing point, matching
// the stored geometry: 4 for a triangle, 5 for a quadrilateral.
func (pg Polygon) VertexCount() int {
	return len(pg.Points)
}

// Corners returns the ring without the closing point.
func (pg Polygon) Corners() []Point {
	if len(pg.Points) == 0 {
		return nil
	}
	return pg.Points[:len(pg.Points)-1]
}

// Contains reports whether the point lies inside the polygon ring.
func (pg Polygon) Contains(p Point) bool {
	return planar.RingContains(pg.Ring(), p.Orb())
}

// DistanceTo returns the planar distance from the polygon boundary to p.
func (pg Polygon) DistanceTo(p Point) float64 {
	return planar.DistanceFrom(orb.LineString(pg.Ring()), p.Orb())
}

// SharesVertex reports whether two polygons have a ring vertex in common
// within eps. Adjacent mesh elements always share at least one corner, so
// this serves as the touch predicate between elements.
func (pg Polygon) SharesVertex(other Polygon, eps float64) bool {
	for _, a := range pg.Corners() {
		for _, b := range other.Corners() {
			if math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps {
				return true
			}
		}
	}
	return false
}

// Angle computes the interior angle at vertex a between rays a->b and
// a->c in degrees, rounded to two decimals. Vectors are taken in 3D.
func Angle(a, b, c Point) float64 {
	vb := r3.Sub(b.Vec(), a.Vec())
	vc := r3.Sub(c.Vec(), a.Vec())
	cos := r3.Dot(vb, vc) / (r3.Norm(vb) * r3.Norm(vc))
	// Guard acos domain against floating point drift.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return Round2(math.Acos(cos) * 180 / math.Pi)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Shape is the closed set of geometry kinds a feature class can hold.
type Shape interface {
	shape()
}

func (Point) shape()    {}
func (Polyline) shape() {}
func (Polygon) shape()  {}
