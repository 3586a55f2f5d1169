package lisa

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GlobalStat is the Global Moran's I test result under the randomization
// assumption.
type GlobalStat struct {
	// I is the Global Moran's I statistic.
	I float64

	// Expected is E[I] = -1/(n-1), the value of I under spatial randomness.
	Expected float64

	// Variance is the variance of I under the randomization assumption.
	Variance float64

	// Z is the standard deviate (I - Expected) / sqrt(Variance).
	Z float64

	// P is the two-tailed p-value of Z against the standard normal
	// distribution.
	P float64

	// Method labels the test variant.
	Method string
}

const moranMethod = "Moran's I under randomization"

// validateVector checks that x matches the weight-matrix dimension and
// contains only finite values.
func validateVector(x []float64, n int) error {
	if len(x) != n {
		return fmt.Errorf("%w: vector length %d does not match weight matrix dimension %d",
			ErrInvalidInput, len(x), n)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value %v at index %d", ErrInvalidInput, v, i)
		}
	}
	return nil
}

// twoTailedP returns 2 * Phi(-|z|), the two-tailed p-value of a standard
// normal deviate. NaN propagates.
func twoTailedP(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	return 2 * distuv.UnitNormal.CDF(-math.Abs(z))
}

// deviations returns x - mean(x) along with the population second moment
// m2 = sum(z^2)/n.
func deviations(x []float64) (z []float64, m2 float64) {
	mean := stat.Mean(x, nil)
	z = make([]float64, len(x))
	for i, v := range x {
		z[i] = v - mean
	}
	return z, stat.Moment(2, x, nil)
}

// GlobalMoran computes Global Moran's I for intensity vector x over
// row-standardized weights w, with expectation, variance, standard deviate
// and two-tailed p-value under the randomization assumption.
//
// When x is constant the statistic is degenerate: I, Variance, Z and P are
// reported as NaN rather than failing. Returns ErrInvalidInput if x has
// the wrong length or contains non-finite values.
func GlobalMoran(w *Weights, x []float64) (GlobalStat, error) {
	if err := validateVector(x, w.N); err != nil {
		return GlobalStat{}, err
	}

	n := float64(w.N)
	g := GlobalStat{
		Expected: -1 / (n - 1),
		Method:   moranMethod,
	}

	z, m2 := deviations(x)
	sumSq := m2 * n
	if sumSq == 0 {
		// Constant intensity: no spatial structure to measure.
		g.I = math.NaN()
		g.Variance = math.NaN()
		g.Z = math.NaN()
		g.P = math.NaN()
		return g, nil
	}

	lag := w.Lag(z)
	var num float64
	for i, zi := range z {
		num += zi * lag[i]
	}

	s0, s1, s2 := w.Moments()
	g.I = (n / s0) * (num / sumSq)

	// Randomization variance (Cliff & Ord), valid for asymmetric W.
	b2 := stat.Moment(4, x, nil) / (m2 * m2)
	varNum := n*((n*n-3*n+3)*s1-n*s2+3*s0*s0) -
		b2*((n*n-n)*s1-2*n*s2+6*s0*s0)
	varDen := (n - 1) * (n - 2) * (n - 3) * s0 * s0
	g.Variance = varNum/varDen - g.Expected*g.Expected

	g.Z = (g.I - g.Expected) / math.Sqrt(g.Variance)
	g.P = twoTailedP(g.Z)
	return g, nil
}
