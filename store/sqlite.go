package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hydromesh/godtmw/geometry"
)

// DB persists workspaces to a sqlite file. Geometry is stored as 2D
// WKT plus a separate Z list per feature, since the pipeline's planar
// measures never involve Z.
type DB struct {
	g *gorm.DB
}

type featureRow struct {
	ID             uint   `gorm:"primaryKey"`
	Class          string `gorm:"index"`
	GeometryType   int
	OID            int    `gorm:"column:oid"`
	WKT            string `gorm:"column:wkt"`
	Zs             string
	SectionID      int
	IntermediateID int
	VertexID       int
	ElementID      int
	WLBID          int
	PointID        int
}

func (featureRow) TableName() string { return "features" }

// Open opens (creating if needed) a sqlite workspace file.
func Open(path string) (*DB, error) {
	g, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", path, err)
	}
	if err := g.AutoMigrate(&featureRow{}); err != nil {
		return nil, fmt.Errorf("migrate workspace %s: %w", path, err)
	}
	return &DB{g: g}, nil
}

// SaveClass writes a feature class, replacing any stored rows under the
// same class name.
func (db *DB) SaveClass(fc *FeatureClass) error {
	if err := db.g.Where("class = ?", fc.Name).Delete(&featureRow{}).Error; err != nil {
		return fmt.Errorf("clear class %s: %w", fc.Name, err)
	}
	rows := make([]featureRow, 0, fc.Count())
	for _, f := range fc.Features() {
		text, zs, err := encodeShape(f.Shape)
		if err != nil {
			return fmt.Errorf("class %s oid %d: %w", fc.Name, f.OID, err)
		}
		rows = append(rows, featureRow{
			Class:          fc.Name,
			GeometryType:   int(fc.GeometryType),
			OID:            f.OID,
			WKT:            text,
			Zs:             zs,
			SectionID:      f.Attr(FieldSectionID),
			IntermediateID: f.Attr(FieldIntermediateID),
			VertexID:       f.Attr(FieldVertexID),
			ElementID:      f.Attr(FieldElementID),
			WLBID:          f.Attr(FieldWLBID),
			PointID:        f.Attr(FieldPointID),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.g.CreateInBatches(rows, 200).Error
}

// LoadClass reads a stored feature class into memory, ordered by OID.
func (db *DB) LoadClass(name string) (*FeatureClass, error) {
	var rows []featureRow
	if err := db.g.Where("class = ?", name).Order("oid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load class %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("load class %s: no rows", name)
	}
	fc := &FeatureClass{
		Name:         name,
		GeometryType: GeometryType(rows[0].GeometryType),
	}
	for _, r := range rows {
		shape, err := decodeShape(GeometryType(r.GeometryType), r.WKT, r.Zs)
		if err != nil {
			return nil, fmt.Errorf("class %s oid %d: %w", name, r.OID, err)
		}
		fc.Insert(shape, map[string]int{
			FieldSectionID:      r.SectionID,
			FieldIntermediateID: r.IntermediateID,
			FieldVertexID:       r.VertexID,
			FieldElementID:      r.ElementID,
			FieldWLBID:          r.WLBID,
			FieldPointID:        r.PointID,
		})
	}
	return fc, nil
}

// ClassNames lists the distinct class names in the file.
func (db *DB) ClassNames() ([]string, error) {
	var names []string
	err := db.g.Model(&featureRow{}).Distinct("class").Order("class").Pluck("class", &names).Error
	return names, err
}

func encodeShape(s geometry.Shape) (text, zs string, err error) {
	switch g := s.(type) {
	case geometry.Point:
		return wkt.MarshalString(g.Orb()), formatZs([]geometry.Point{g}), nil
	case geometry.Polyline:
		return wkt.MarshalString(g.LineString()), formatZs(g.Points), nil
	case geometry.Polygon:
		return wkt.MarshalString(orb.Polygon{g.Ring()}), formatZs(g.Points), nil
	}
	return "", "", fmt.Errorf("unsupported shape %T", s)
}

func decodeShape(gt GeometryType, text, zs string) (geometry.Shape, error) {
	heights, err := parseZs(zs)
	if err != nil {
		return nil, err
	}
	switch gt {
	case GeometryPoint:
		pt, err := wkt.UnmarshalPoint(text)
		if err != nil {
			return nil, err
		}
		p := geometry.Point{X: pt[0], Y: pt[1]}
		if len(heights) > 0 {
			p.Z = heights[0]
		}
		return p, nil
	case GeometryPolyline:
		ls, err := wkt.UnmarshalLineString(text)
		if err != nil {
			return nil, err
		}
		return geometry.Polyline{Points: withHeights(ls, heights)}, nil
	case GeometryPolygon:
		pg, err := wkt.UnmarshalPolygon(text)
		if err != nil {
			return nil, err
		}
		if len(pg) == 0 {
			return nil, fmt.Errorf("polygon without ring")
		}
		return geometry.Polygon{Points: withHeights(orb.LineString(pg[0]), heights)}, nil
	}
	return nil, fmt.Errorf("unsupported geometry type %d", gt)
}

func withHeights(ls orb.LineString, heights []float64) []geometry.Point {
	pts := make([]geometry.Point, len(ls))
	for i, p := range ls {
		pts[i] = geometry.Point{X: p[0], Y: p[1]}
		if i < len(heights) {
			pts[i].Z = heights[i]
		}
	}
	return pts
}

func formatZs(pts []geometry.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = strconv.FormatFloat(p.Z, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func parseZs(zs string) ([]float64, error) {
	if zs == "" {
		return nil, nil
	}
	parts := strings.Fields(zs)
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parse z %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
