package lisa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// twoClusterCollection builds 10 point features split into two spatially
// separated groups with intensities 1 and 50.
func twoClusterCollection(t *testing.T) *FeatureCollection {
	t.Helper()
	var geoms []geom.T
	for i := 0; i < 5; i++ {
		geoms = append(geoms, pt(float64(i), 0))
	}
	for i := 0; i < 5; i++ {
		geoms = append(geoms, pt(float64(100+i), 0))
	}
	fc := NewFeatureCollection(geoms)
	require.NoError(t, fc.AddColumn("evictions",
		[]float64{1, 1, 1, 1, 1, 50, 50, 50, 50, 50}))
	return fc
}

func TestAnalyze_TwoClusterScenario(t *testing.T) {
	fc := twoClusterCollection(t)
	cfg := DefaultConfig()
	cfg.Column = "evictions"

	res, err := Analyze(fc, cfg)
	require.NoError(t, err)

	// Strong positive global autocorrelation.
	assert.InDelta(t, 1.0, res.Global.I, 1e-9)
	assert.Greater(t, res.Global.Z, 0.0)
	assert.Less(t, res.Global.P, 0.05)
	assert.Equal(t, moranMethod, res.Global.Method)

	// Default k=4 is capped at 10/3 = 3 with a warning.
	assert.Equal(t, 3, res.K)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 4, res.Warnings[0].RequestedK)
	assert.Equal(t, 3, res.Warnings[0].AdjustedK)
	assert.Equal(t, 10, res.Warnings[0].N)

	// Every high-cluster feature is a significant high-high hotspot.
	require.Len(t, res.Local, 10)
	for i := 5; i < 10; i++ {
		assert.True(t, res.Local[i].Hotspot, "high-cluster feature %d", i)
		assert.Equal(t, QuadrantHighHigh, res.Local[i].Quadrant)
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, QuadrantLowLow, res.Local[i].Quadrant)
	}

	// Flag law holds for every feature.
	for i, s := range res.Local {
		want := !math.IsNaN(s.P) && s.P <= 0.05 && s.I > 0
		assert.Equal(t, want, s.Hotspot, "feature %d", i)
	}
}

func TestAnalyze_EnrichedCollection(t *testing.T) {
	fc := twoClusterCollection(t)
	cfg := DefaultConfig()
	cfg.Column = "evictions"

	res, err := Analyze(fc, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Features)

	// Input collection is untouched.
	assert.Equal(t, []string{"evictions"}, fc.Columns())

	// Enriched copy carries the original column plus the derived four.
	assert.Equal(t,
		[]string{"evictions", "hotspot", "local_moran_I", "local_moran_p", "local_moran_z"},
		res.Features.Columns())

	iCol, err := res.Features.Column("local_moran_I")
	require.NoError(t, err)
	pCol, err := res.Features.Column("local_moran_p")
	require.NoError(t, err)
	zCol, err := res.Features.Column("local_moran_z")
	require.NoError(t, err)
	hotCol, err := res.Features.Column("hotspot")
	require.NoError(t, err)

	for i, s := range res.Local {
		assert.Equal(t, s.I, iCol[i])
		assert.Equal(t, s.P, pCol[i])
		assert.Equal(t, s.Z, zCol[i])
		wantHot := 0.0
		if s.Hotspot {
			wantHot = 1.0
		}
		assert.Equal(t, wantHot, hotCol[i])
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	fc := twoClusterCollection(t)
	cfg := DefaultConfig()
	cfg.Column = "evictions"

	first, err := Analyze(fc, cfg)
	require.NoError(t, err)
	second, err := Analyze(fc, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Global, second.Global)
	assert.Equal(t, first.Local, second.Local)
	assert.Equal(t, first.K, second.K)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestAnalyze_BoundaryThreeFeatures(t *testing.T) {
	fc := NewFeatureCollection([]geom.T{pt(0, 0), pt(1, 0), pt(5, 0)})
	require.NoError(t, fc.AddColumn("v", []float64{1, 2, 3}))

	cfg := Config{Column: "v", K: 4}
	res, err := Analyze(fc, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, res.K)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 4, res.Warnings[0].RequestedK)
	assert.Equal(t, 1, res.Warnings[0].AdjustedK)
	assert.Equal(t, 3, res.Warnings[0].N)
	assert.Len(t, res.Local, 3)
}

func TestAnalyze_ConstantColumn(t *testing.T) {
	var geoms []geom.T
	for i := 0; i < 6; i++ {
		geoms = append(geoms, pt(float64(i*i), float64(i)))
	}
	fc := NewFeatureCollection(geoms)
	require.NoError(t, fc.AddColumn("v", []float64{10, 10, 10, 10, 10, 10}))

	res, err := Analyze(fc, Config{Column: "v", K: 2})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(res.Global.I))
	assert.True(t, math.IsNaN(res.Global.P))
	for i, s := range res.Local {
		assert.False(t, s.Hotspot, "feature %d", i)
		assert.True(t, math.IsNaN(s.P), "feature %d", i)
	}
}

func TestAnalyze_ValidationErrors(t *testing.T) {
	fc := twoClusterCollection(t)

	tests := []struct {
		name string
		fc   *FeatureCollection
		cfg  Config
		want error
	}{
		{"nil collection", nil, Config{Column: "evictions", K: 4}, ErrValidation},
		{"empty column name", fc, Config{K: 4}, ErrValidation},
		{"missing column", fc, Config{Column: "rents", K: 4}, ErrValidation},
		{"negative k", fc, Config{Column: "evictions", K: -1}, ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(tt.fc, tt.cfg)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res, "no partial output on error")
		})
	}
}

func TestAnalyze_NonNumericColumnFailsBeforeComputation(t *testing.T) {
	fc := NewFeatureCollection([]geom.T{pt(0, 0), pt(1, 0), pt(2, 0)})
	require.NoError(t, fc.AddColumn("v", []float64{1, math.NaN(), 3}))

	res, err := Analyze(fc, Config{Column: "v", K: 1})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, res)

	// The input collection carries no derived columns from a failed call.
	assert.Equal(t, []string{"v"}, fc.Columns())
}

func TestAnalyze_InsufficientData(t *testing.T) {
	fc := NewFeatureCollection([]geom.T{pt(0, 0), pt(1, 0)})
	require.NoError(t, fc.AddColumn("v", []float64{1, 2}))

	res, err := Analyze(fc, Config{Column: "v", K: 1})
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Nil(t, res)
}

func TestAnalyze_InvalidGeometry(t *testing.T) {
	fc := NewFeatureCollection([]geom.T{pt(0, 0), nil, pt(2, 0)})
	require.NoError(t, fc.AddColumn("v", []float64{1, 2, 3}))

	res, err := Analyze(fc, Config{Column: "v", K: 1})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Nil(t, res)
}

func TestAnalyzeCoordinates(t *testing.T) {
	coords := []float64{0, 0, 1, 0, 2, 0, 3, 0, 4, 0, 100, 0, 101, 0, 102, 0, 103, 0, 104, 0}
	x := []float64{1, 1, 1, 1, 1, 50, 50, 50, 50, 50}

	res, err := AnalyzeCoordinates(coords, x, DefaultConfig())
	require.NoError(t, err)

	assert.Nil(t, res.Features)
	assert.Equal(t, 3, res.K)
	assert.InDelta(t, 1.0, res.Global.I, 1e-9)
	assert.Less(t, res.Global.P, 0.05)

	// Matches the geometry-driven pipeline over the same points.
	fc := twoClusterCollection(t)
	cfg := DefaultConfig()
	cfg.Column = "evictions"
	full, err := Analyze(fc, cfg)
	require.NoError(t, err)
	assert.Equal(t, full.Global, res.Global)
	assert.Equal(t, full.Local, res.Local)
}

func TestAnalyzeCoordinates_Errors(t *testing.T) {
	_, err := AnalyzeCoordinates([]float64{0, 0, 1, 0}, []float64{1}, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = AnalyzeCoordinates([]float64{0, 0, 1, 0, 2, 0}, []float64{1, math.NaN(), 3}, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddColumn_Validation(t *testing.T) {
	fc := NewFeatureCollection([]geom.T{pt(0, 0), pt(1, 0)})

	assert.ErrorIs(t, fc.AddColumn("", []float64{1, 2}), ErrValidation)
	assert.ErrorIs(t, fc.AddColumn("v", []float64{1, 2, 3}), ErrValidation)
	require.NoError(t, fc.AddColumn("v", []float64{1, 2}))

	// AddColumn copies: later caller mutation does not leak in.
	src := []float64{5, 6}
	require.NoError(t, fc.AddColumn("w", src))
	src[0] = 99
	col, err := fc.Column("w")
	require.NoError(t, err)
	assert.Equal(t, 5.0, col[0])
}
