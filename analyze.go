package lisa

import (
	"fmt"
	"math"
)

// Config controls hotspot analysis. Start with [DefaultConfig] and set the
// fields you need.
type Config struct {
	// Column names the numeric attribute column holding the intensity
	// variable. Required.
	Column string

	// K is the requested neighbor count. 0 means the default of 4; the
	// effective value is clamped to n-1 and capped at max(1, n/3) with a
	// Warning. Negative values are rejected.
	K int
}

// DefaultConfig returns a Config with the default neighbor count.
func DefaultConfig() Config {
	return Config{K: 4}
}

// Result contains the output of a hotspot analysis.
type Result struct {
	// Global is the Global Moran's I test result.
	Global GlobalStat

	// Local holds one LISA record per feature, in input order.
	Local []LocalStat

	// Features is the enriched copy of the input collection, carrying the
	// original columns plus local_moran_I, local_moran_z, local_moran_p
	// and hotspot (1 or 0). Nil for [AnalyzeCoordinates], which has no
	// feature collection to enrich.
	Features *FeatureCollection

	// K is the effective neighbor count actually used.
	K int

	// Warnings lists non-fatal advisories, such as a neighbor-count
	// reduction for small samples. Empty on a fully clean run.
	Warnings []Warning
}

func applyDefaults(cfg *Config) {
	if cfg.K == 0 {
		cfg.K = 4
	}
}

// validateInput resolves the intensity column and checks it is usable
// before any computation begins.
func validateInput(fc *FeatureCollection, cfg Config) ([]float64, error) {
	if fc == nil {
		return nil, fmt.Errorf("%w: nil feature collection", ErrValidation)
	}
	if cfg.Column == "" {
		return nil, fmt.Errorf("%w: no attribute column named", ErrValidation)
	}
	x, err := fc.Column(cfg.Column)
	if err != nil {
		return nil, err
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: column %q has non-numeric value %v at index %d",
				ErrValidation, cfg.Column, v, i)
		}
	}
	return x, nil
}

// Analyze runs the full hotspot pipeline on a feature collection:
// coordinate extraction, k-nearest-neighbor graph construction,
// row-standardized weights, Global and Local Moran's I, and hotspot
// classification.
//
// The input collection is never mutated; the returned Result carries an
// enriched copy. On error, no partial output is returned.
func Analyze(fc *FeatureCollection, cfg Config) (*Result, error) {
	applyDefaults(&cfg)

	x, err := validateInput(fc, cfg)
	if err != nil {
		return nil, err
	}

	coords, err := ExtractCoordinates(fc.Geometries())
	if err != nil {
		return nil, err
	}

	res, err := analyzeCoords(coords, x, cfg.K)
	if err != nil {
		return nil, err
	}
	res.Features = fc.withDerived(res.Local)
	return res, nil
}

// AnalyzeCoordinates runs the pipeline on precomputed flat row-major
// planar coordinates [x0, y0, x1, y1, ...] and intensity vector x,
// skipping geometry handling. Result.Features is nil for this entry
// point. Config.Column is ignored.
func AnalyzeCoordinates(coords, x []float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)

	if len(x)*2 != len(coords) {
		return nil, fmt.Errorf("%w: %d values for %d coordinates", ErrInvalidInput, len(x), len(coords)/2)
	}
	if err := validateVector(x, len(x)); err != nil {
		return nil, err
	}
	return analyzeCoords(coords, x, cfg.K)
}

// analyzeCoords runs the pipeline from coordinates onward.
func analyzeCoords(coords, x []float64, k int) (*Result, error) {
	graph, warnings, err := BuildNeighborGraph(coords, k)
	if err != nil {
		return nil, err
	}
	weights := RowStandardize(graph)

	global, err := GlobalMoran(weights, x)
	if err != nil {
		return nil, err
	}
	local, err := LocalMoran(weights, x)
	if err != nil {
		return nil, err
	}

	return &Result{
		Global:   global,
		Local:    local,
		K:        graph.K,
		Warnings: warnings,
	}, nil
}
