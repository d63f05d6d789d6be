// Package store provides the tabular geometry workspace the mesh
// pipeline writes into: named feature classes holding shapes with
// integer attributes, with search/update/sort access and collision-safe
// output naming. A workspace handle is passed explicitly to every
// pipeline stage; nothing here is safe for concurrent writers.
package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hydromesh/godtmw/geometry"
)

// Attribute field names shared across the pipeline's feature classes.
const (
	FieldSectionID      = "SECTIONID"
	FieldIntermediateID = "INTERMEDIATEID"
	FieldVertexID       = "VERTEXID"
	FieldElementID      = "ELEMENTID"
	FieldWLBID          = "WLBID"
	FieldPointID        = "POINTID"
)

type GeometryType int

const (
	GeometryPoint GeometryType = iota
	GeometryPolyline
	GeometryPolygon
)

func (gt GeometryType) String() string {
	switch gt {
	case GeometryPoint:
		return "POINT"
	case GeometryPolyline:
		return "POLYLINE"
	case GeometryPolygon:
		return "POLYGON"
	}
	return "UNKNOWN"
}

var ErrNameTaken = errors.New("feature class name already taken")

// Feature is one record: a shape plus integer attributes. OID is
// assigned on insert, 1-based in insertion order.
type Feature struct {
	OID   int
	Shape geometry.Shape
	Attrs map[string]int
}

// Attr returns the named attribute, zero when unset.
func (f *Feature) Attr(name string) int {
	return f.Attrs[name]
}

// FeatureClass is a typed geometry table.
type FeatureClass struct {
	Name         string
	GeometryType GeometryType

	features []*Feature
	nextOID  int
}

// Insert appends a feature and assigns the next OID. Attrs are copied.
func (fc *FeatureClass) Insert(shape geometry.Shape, attrs map[string]int) *Feature {
	fc.nextOID++
	f := &Feature{
		OID:   fc.nextOID,
		Shape: shape,
		Attrs: make(map[string]int, len(attrs)),
	}
	for k, v := range attrs {
		f.Attrs[k] = v
	}
	fc.features = append(fc.features, f)
	return f
}

// Count returns the number of features in the class.
func (fc *FeatureClass) Count() int {
	return len(fc.features)
}

// CountWhere counts features matching the predicate.
func (fc *FeatureClass) CountWhere(pred func(*Feature) bool) int {
	n := 0
	for _, f := range fc.features {
		if pred(f) {
			n++
		}
	}
	return n
}

// Search materializes the features matching pred in table order. A nil
// predicate selects everything. The result is an indexed snapshot so
// callers can make multiple passes, which the element builder requires.
func (fc *FeatureClass) Search(pred func(*Feature) bool) []*Feature {
	var out []*Feature
	for _, f := range fc.features {
		if pred == nil || pred(f) {
			out = append(out, f)
		}
	}
	return out
}

// Update applies fn to every feature matching pred, in table order.
func (fc *FeatureClass) Update(pred func(*Feature) bool, fn func(*Feature)) {
	for _, f := range fc.features {
		if pred == nil || pred(f) {
			fn(f)
		}
	}
}

// DeleteWhere removes features matching pred. OIDs of survivors keep
// their values.
func (fc *FeatureClass) DeleteWhere(pred func(*Feature) bool) int {
	kept := fc.features[:0]
	removed := 0
	for _, f := range fc.features {
		if pred(f) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	fc.features = kept
	return removed
}

// SortBy reorders the class ascending by the listed attribute fields,
// stable within equal keys.
func (fc *FeatureClass) SortBy(fields ...string) {
	sort.SliceStable(fc.features, func(i, j int) bool {
		a, b := fc.features[i], fc.features[j]
		for _, name := range fields {
			av, bv := a.Attr(name), b.Attr(name)
			if av != bv {
				return av < bv
			}
		}
		return false
	})
}

// Features returns the backing slice in current table order.
func (fc *FeatureClass) Features() []*Feature {
	return fc.features
}

// Workspace is an in-memory results workspace, the analogue of a file
// geodatabase the stages write their outputs into.
type Workspace struct {
	Name    string
	classes map[string]*FeatureClass
}

// NewWorkspace creates a workspace. An empty name gets a run-unique one.
func NewWorkspace(name string) *Workspace {
	if name == "" {
		name = "workspace_" + uuid.NewString()[:8]
	}
	return &Workspace{
		Name:    name,
		classes: make(map[string]*FeatureClass),
	}
}

// Create makes a new feature class, failing when the name is taken.
func (ws *Workspace) Create(name string, gt GeometryType) (*FeatureClass, error) {
	if _, exists := ws.classes[name]; exists {
		return nil, fmt.Errorf("%s/%s: %w", ws.Name, name, ErrNameTaken)
	}
	fc := &FeatureClass{Name: name, GeometryType: gt}
	ws.classes[name] = fc
	return fc, nil
}

// CreateUnique makes a new feature class. On a name collision the name
// gets a timestamp suffix and creation is retried once; a second
// collision is returned as an error.
func (ws *Workspace) CreateUnique(name string, gt GeometryType) (*FeatureClass, error) {
	fc, err := ws.Create(name, gt)
	if err == nil {
		return fc, nil
	}
	suffixed := name + time.Now().Format("020106_150405")
	log.Warn().
		Str("workspace", ws.Name).
		Str("name", name).
		Str("renamed", suffixed).
		Msg("output feature class already exists, changing output name")
	return ws.Create(suffixed, gt)
}

// Adopt registers an existing feature class, typically one loaded from
// persistent storage. The name must be free.
func (ws *Workspace) Adopt(fc *FeatureClass) error {
	if _, exists := ws.classes[fc.Name]; exists {
		return fmt.Errorf("%s/%s: %w", ws.Name, fc.Name, ErrNameTaken)
	}
	ws.classes[fc.Name] = fc
	return nil
}

// Class looks up a feature class by name.
func (ws *Workspace) Class(name string) (*FeatureClass, bool) {
	fc, ok := ws.classes[name]
	return fc, ok
}

// Delete removes a feature class from the workspace.
func (ws *Workspace) Delete(name string) {
	delete(ws.classes, name)
}

// ClassNames lists the classes in the workspace, sorted.
func (ws *Workspace) ClassNames() []string {
	names := make([]string, 0, len(ws.classes))
	for name := range ws.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
