// Package lisa identifies statistically significant spatial clusters
// ("hotspots") of a numeric intensity variable measured at discrete
// locations, using Global Moran's I and Local Indicators of Spatial
// Association (LISA, Local Moran's I).
//
// The pipeline reduces each feature geometry to a representative planar
// coordinate, connects each location to its k nearest neighbors, converts
// the neighbor graph to row-standardized spatial weights, and computes
// global and per-location Moran statistics. A location is flagged as a
// hotspot when its local statistic is positive and its two-tailed p-value
// under the standard normal reference distribution is at most 0.05.
//
// Basic usage:
//
//	fc := lisa.NewFeatureCollection(geometries)
//	_ = fc.AddColumn("evictions", counts)
//
//	cfg := lisa.DefaultConfig()
//	cfg.Column = "evictions"
//	result, err := lisa.Analyze(fc, cfg)
//	// result.Global.I is Global Moran's I, result.Global.P its p-value
//	// result.Local[i].Hotspot reports whether feature i is a hotspot
//	// result.Features carries the enriched copy with the derived columns
//	//   local_moran_I, local_moran_z, local_moran_p, hotspot
//
// For precomputed planar coordinates (skipping geometry handling):
//
//	result, err := lisa.AnalyzeCoordinates(coords, values, cfg)
//
// # Small-sample stability
//
// The requested neighbor count k is clamped to n-1 and additionally capped
// at max(1, n/3) to keep small samples from producing over-connected,
// degenerate neighbor graphs. When the cap reduces k, computation proceeds
// with the adjusted value and a structured Warning is appended to the
// Result so callers can inspect the adjustment programmatically.
package lisa
