// Package stats provides the descriptive statistics used by table summaries:
// sum, extrema, mean, sample standard deviation, median and interpolated
// percentiles over float64 samples.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scitable/pkg/errors"
)

// Sum returns the sum of x. The sum of an empty sample is zero.
func Sum(x []float64) float64 {
	return floats.Sum(x)
}

// Min returns the smallest value of x.
func Min(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, errors.ErrEmptyData
	}
	return floats.Min(x), nil
}

// Max returns the largest value of x.
func Max(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, errors.ErrEmptyData
	}
	return floats.Max(x), nil
}

// Mean returns the arithmetic mean of x.
func Mean(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, errors.ErrEmptyData
	}
	return stat.Mean(x, nil), nil
}

// StdDev returns the sample standard deviation of x (n-1 denominator).
// A single observation yields NaN.
func StdDev(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, errors.ErrEmptyData
	}
	if len(x) == 1 {
		return math.NaN(), nil
	}
	return stat.StdDev(x, nil), nil
}

// Median returns the middle value of x, averaging the two middle values when the
// sample size is even. x is not modified.
func Median(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, errors.ErrEmptyData
	}
	sorted := sortedCopy(x)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, nil
	}
	return sorted[mid], nil
}

// Percentile returns the p-th percentile of x for p in [0, 1].
//
// The rank is p*(n-1)+1 over the sorted sample (1-based) and values between two
// ranks are linearly interpolated, so Percentile(x, 0) is the minimum and
// Percentile(x, 1) is the maximum. x is not modified.
func Percentile(x []float64, p float64) (float64, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, errors.NewValidationError("percentile", "must be between 0 and 1", p)
	}
	if len(x) == 0 {
		return 0, errors.ErrEmptyData
	}
	if p == 0.5 {
		return Median(x)
	}

	sorted := sortedCopy(x)
	rank := p*float64(len(sorted)-1) + 1
	whole, frac := math.Modf(rank)
	i := int(whole) - 1
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	return sorted[i] + frac*(sorted[i+1]-sorted[i]), nil
}

// Summary holds the descriptive statistics of one sample.
type Summary struct {
	Count  int
	Sum    float64
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P10    float64
	P25    float64
	Median float64
	P75    float64
	P90    float64
}

// Summarize computes every Summary field for x.
func Summarize(x []float64) (Summary, error) {
	if len(x) == 0 {
		return Summary{}, errors.ErrEmptyData
	}
	s := Summary{Count: len(x), Sum: Sum(x)}
	s.Min, _ = Min(x)
	s.Max, _ = Max(x)
	s.Mean, _ = Mean(x)
	s.StdDev, _ = StdDev(x)
	s.Median, _ = Median(x)

	for _, q := range []struct {
		p   float64
		dst *float64
	}{
		{0.10, &s.P10},
		{0.25, &s.P25},
		{0.75, &s.P75},
		{0.90, &s.P90},
	} {
		v, err := Percentile(x, q.p)
		if err != nil {
			return Summary{}, err
		}
		*q.dst = v
	}
	return s, nil
}

func sortedCopy(x []float64) []float64 {
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	return sorted
}
