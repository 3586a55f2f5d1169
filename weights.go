package lisa

import "gonum.org/v1/gonum/floats"

// Weights is a sparse row-standardized spatial weight matrix. Row i holds
// weight Values[i][m] for neighbor Indices[i][m]; all other entries,
// including the diagonal, are zero. Each nonzero entry in row i equals
// 1/len(Indices[i]), so every row with at least one neighbor sums to 1.
// Rows with no neighbors are all-zero and pass through downstream
// computation without error.
type Weights struct {
	N       int
	Indices [][]int
	Values  [][]float64
}

// RowStandardize converts a neighbor graph into row-standardized ("W"
// style) spatial weights: each listed edge gets weight 1/out-degree.
func RowStandardize(g *NeighborGraph) *Weights {
	n := len(g.Neighbors)
	w := &Weights{
		N:       n,
		Indices: make([][]int, n),
		Values:  make([][]float64, n),
	}
	for i, nbrs := range g.Neighbors {
		idx := make([]int, len(nbrs))
		copy(idx, nbrs)
		w.Indices[i] = idx

		vals := make([]float64, len(nbrs))
		if len(nbrs) > 0 {
			wij := 1.0 / float64(len(nbrs))
			for m := range vals {
				vals[m] = wij
			}
		}
		w.Values[i] = vals
	}
	return w
}

// RowSums returns the per-row weight sums (1 for every row with at least
// one neighbor, 0 for empty rows).
func (w *Weights) RowSums() []float64 {
	sums := make([]float64, w.N)
	for i, vals := range w.Values {
		sums[i] = floats.Sum(vals)
	}
	return sums
}

// Lag computes the spatial lag of z: out[i] = sum_j w_ij * z[j].
func (w *Weights) Lag(z []float64) []float64 {
	out := make([]float64, w.N)
	for i, idx := range w.Indices {
		var sum float64
		for m, j := range idx {
			sum += w.Values[i][m] * z[j]
		}
		out[i] = sum
	}
	return out
}

// at returns w_ij, zero when j is not a neighbor of i. Rows are short
// (k entries), so a linear scan suffices.
func (w *Weights) at(i, j int) float64 {
	for m, idx := range w.Indices[i] {
		if idx == j {
			return w.Values[i][m]
		}
	}
	return 0
}

// Moments returns the weight-matrix moments used by the randomization
// variance of Global Moran's I:
//
//	S0 = sum_ij w_ij
//	S1 = 1/2 * sum_ij (w_ij + w_ji)^2
//	S2 = sum_i (sum_j w_ij + sum_j w_ji)^2
//
// The formulation does not assume symmetry; k-nearest-neighbor weights
// are generally asymmetric.
func (w *Weights) Moments() (s0, s1, s2 float64) {
	rowSums := w.RowSums()
	colSums := make([]float64, w.N)
	for i, idx := range w.Indices {
		for m, j := range idx {
			colSums[j] += w.Values[i][m]
		}
	}

	s0 = floats.Sum(rowSums)

	for i, idx := range w.Indices {
		for m, j := range idx {
			wij := w.Values[i][m]
			wji := w.at(j, i)
			if wji > 0 && j < i {
				continue // symmetric pair already counted from the lower index
			}
			t := wij + wji
			s1 += t * t
		}
	}

	for i := 0; i < w.N; i++ {
		t := rowSums[i] + colSums[i]
		s2 += t * t
	}
	return s0, s1, s2
}
