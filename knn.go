package lisa

import "fmt"

// NeighborGraph is a k-nearest-neighbor adjacency structure: for each
// feature, the indices of its K nearest other features by planar Euclidean
// distance, sorted by (distance, index) ascending. Among equidistant
// candidates the lowest index wins, so the graph is deterministic for a
// given coordinate set.
type NeighborGraph struct {
	// Neighbors[i] lists the neighbor indices of feature i. Self-edges
	// never occur.
	Neighbors [][]int

	// K is the effective neighbor count actually used, after the clamping
	// and stability adjustments.
	K int
}

// Warning is a non-fatal advisory produced during analysis. Computation
// proceeds; warnings are carried alongside the successful result rather
// than printed or logged.
type Warning struct {
	Message string

	// RequestedK and AdjustedK identify a neighbor-count reduction; N is
	// the sample size that forced it.
	RequestedK, AdjustedK, N int
}

// effectiveK applies the neighbor-count adjustment policy: clamp k to n-1,
// then cap it at the small-sample stability ceiling max(1, n/3). The
// returned warning is non-nil only when the ceiling reduced k below
// min(k, n-1).
func effectiveK(k, n int) (int, *Warning) {
	requested := k
	if k > n-1 {
		k = n - 1
	}
	kmax := n / 3
	if kmax < 1 {
		kmax = 1
	}
	if k <= kmax {
		return k, nil
	}
	return kmax, &Warning{
		Message: fmt.Sprintf(
			"neighbor count reduced from %d to %d for sample size %d to keep the neighbor graph stable",
			requested, kmax, n),
		RequestedK: requested,
		AdjustedK:  kmax,
		N:          n,
	}
}

// BuildNeighborGraph constructs the exact k-nearest-neighbor graph over
// flat row-major planar coordinates [x0, y0, x1, y1, ...].
//
// n = len(coords)/2 must be at least 3 (ErrInsufficientData) and k at
// least 1 (ErrInvalidParameter). k is clamped to n-1 and capped at
// max(1, n/3); the cap emits a Warning identifying the original and
// adjusted values.
func BuildNeighborGraph(coords []float64, k int) (*NeighborGraph, []Warning, error) {
	if len(coords)%2 != 0 {
		return nil, nil, fmt.Errorf("%w: odd coordinate slice length %d", ErrInvalidParameter, len(coords))
	}
	n := len(coords) / 2
	if n < 3 {
		return nil, nil, fmt.Errorf("%w: need at least 3 features, got %d", ErrInsufficientData, n)
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("%w: neighbor count must be >= 1, got %d", ErrInvalidParameter, k)
	}

	var warnings []Warning
	k, warn := effectiveK(k, n)
	if warn != nil {
		warnings = append(warnings, *warn)
	}

	tree := newKDTree(coords, defaultLeafSize)
	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		idx, _ := tree.query(i, k)
		neighbors[i] = idx
	}

	return &NeighborGraph{Neighbors: neighbors, K: k}, warnings, nil
}
