package lisa

import (
	"fmt"
	"sort"

	"github.com/twpayne/go-geom"
)

// FeatureCollection is an ordered set of spatial features: one geometry per
// feature plus named numeric attribute columns of matching length. Feature
// identity is positional; index i refers to the same feature in the
// geometry sequence and in every column.
//
// The analysis pipeline treats a FeatureCollection as read-only input and
// never mutates it; enrichment produces a new collection.
type FeatureCollection struct {
	geoms   []geom.T
	columns map[string][]float64
}

// NewFeatureCollection creates a collection over the given geometries.
// The slice is retained; callers must not mutate it during analysis.
func NewFeatureCollection(geoms []geom.T) *FeatureCollection {
	return &FeatureCollection{
		geoms:   geoms,
		columns: map[string][]float64{},
	}
}

// Len returns the number of features.
func (fc *FeatureCollection) Len() int { return len(fc.geoms) }

// Geometries returns the geometry sequence. Callers must not modify it.
func (fc *FeatureCollection) Geometries() []geom.T { return fc.geoms }

// AddColumn attaches a numeric attribute column. The values are copied.
// Returns an error if the length does not match the feature count or the
// name is empty.
func (fc *FeatureCollection) AddColumn(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("%w: empty column name", ErrValidation)
	}
	if len(values) != len(fc.geoms) {
		return fmt.Errorf("%w: column %q has %d values for %d features",
			ErrValidation, name, len(values), len(fc.geoms))
	}
	v := make([]float64, len(values))
	copy(v, values)
	fc.columns[name] = v
	return nil
}

// Column resolves a column by name. The returned slice is the stored
// column; callers must not modify it.
func (fc *FeatureCollection) Column(name string) ([]float64, error) {
	v, ok := fc.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: column %q not found", ErrValidation, name)
	}
	return v, nil
}

// Columns returns the attached column names in sorted order.
func (fc *FeatureCollection) Columns() []string {
	names := make([]string, 0, len(fc.columns))
	for name := range fc.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// withDerived returns a copy of the collection carrying the original
// columns plus the derived per-feature statistics. Geometry values are
// shared; all column storage is fresh.
func (fc *FeatureCollection) withDerived(local []LocalStat) *FeatureCollection {
	out := NewFeatureCollection(fc.geoms)
	for name, values := range fc.columns {
		v := make([]float64, len(values))
		copy(v, values)
		out.columns[name] = v
	}

	n := len(local)
	iVals := make([]float64, n)
	zVals := make([]float64, n)
	pVals := make([]float64, n)
	hot := make([]float64, n)
	for i, s := range local {
		iVals[i] = s.I
		zVals[i] = s.Z
		pVals[i] = s.P
		if s.Hotspot {
			hot[i] = 1
		}
	}
	out.columns["local_moran_I"] = iVals
	out.columns["local_moran_z"] = zVals
	out.columns["local_moran_p"] = pVals
	out.columns["hotspot"] = hot
	return out
}
