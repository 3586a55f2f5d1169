package lisa

import "math"

// hotspotAlpha is the fixed significance threshold for hotspot
// classification.
const hotspotAlpha = 0.05

// Quadrant places a feature in the Moran scatterplot: its own deviation
// from the mean against the spatial lag of its neighbors' deviations.
type Quadrant string

const (
	// QuadrantHighHigh marks a high value surrounded by high values.
	QuadrantHighHigh Quadrant = "high-high"
	// QuadrantLowLow marks a low value surrounded by low values.
	QuadrantLowLow Quadrant = "low-low"
	// QuadrantHighLow marks a high value surrounded by low values.
	QuadrantHighLow Quadrant = "high-low"
	// QuadrantLowHigh marks a low value surrounded by high values.
	QuadrantLowHigh Quadrant = "low-high"
	// QuadrantNone is reported when the statistic is degenerate
	// (constant intensity).
	QuadrantNone Quadrant = "none"
)

// LocalStat is the Local Moran's I (LISA) record for a single feature.
type LocalStat struct {
	// I is the Local Moran's I statistic.
	I float64

	// Z is the standard deviate of I against its analytic moments under
	// conditional randomization.
	Z float64

	// P is the two-tailed p-value of Z against the standard normal
	// distribution.
	P float64

	// Quadrant locates the feature in the Moran scatterplot.
	Quadrant Quadrant

	// Hotspot reports p <= 0.05 with a positive local statistic. The
	// threshold and sign condition are fixed policy.
	Hotspot bool
}

// LocalMoran computes the Local Moran's I record for every feature:
//
//	Ii = (z_i / m2) * sum_j w_ij z_j, m2 = sum(z^2)/n
//
// with analytic moments E[Ii] = -w_i/(n-1) and the conditional-
// randomization variance, a z-score, and a two-tailed p-value.
//
// A constant x yields NaN statistics for every feature (never a panic)
// and no hotspots. Returns ErrInvalidInput if x has the wrong length or
// contains non-finite values.
func LocalMoran(w *Weights, x []float64) ([]LocalStat, error) {
	if err := validateVector(x, w.N); err != nil {
		return nil, err
	}

	stats := make([]LocalStat, w.N)
	z, m2 := deviations(x)
	if m2 == 0 {
		for i := range stats {
			stats[i] = LocalStat{
				I:        math.NaN(),
				Z:        math.NaN(),
				P:        math.NaN(),
				Quadrant: QuadrantNone,
			}
		}
		return stats, nil
	}

	n := float64(w.N)
	lag := w.Lag(z)

	// b2 is the sample kurtosis term shared by every feature's variance.
	var m4 float64
	for _, zi := range z {
		m4 += zi * zi * zi * zi
	}
	m4 /= n
	b2 := m4 / (m2 * m2)

	for i := range stats {
		// w_i and sum of squared row weights for the analytic moments.
		var wi, wi2 float64
		for _, v := range w.Values[i] {
			wi += v
			wi2 += v * v
		}

		ii := z[i] / m2 * lag[i]
		expected := -wi / (n - 1)
		variance := wi2*(n-b2)/(n-1) +
			(wi*wi-wi2)*(2*b2-n)/((n-1)*(n-2)) -
			expected*expected

		zScore := math.NaN()
		if variance > 0 {
			zScore = (ii - expected) / math.Sqrt(variance)
		}
		p := twoTailedP(zScore)

		stats[i] = LocalStat{
			I:        ii,
			Z:        zScore,
			P:        p,
			Quadrant: classifyQuadrant(z[i], lag[i]),
			Hotspot:  !math.IsNaN(p) && p <= hotspotAlpha && ii > 0,
		}
	}
	return stats, nil
}

func classifyQuadrant(zi, lag float64) Quadrant {
	switch {
	case zi >= 0 && lag >= 0:
		return QuadrantHighHigh
	case zi < 0 && lag < 0:
		return QuadrantLowLow
	case zi >= 0:
		return QuadrantHighLow
	default:
		return QuadrantLowHigh
	}
}
