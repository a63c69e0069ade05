package engine

import (
	"github.com/montanaflynn/stats"
)

// Thin wrappers over montanaflynn/stats. Callers guarantee non-empty
// input, so error returns are dropped the same way the rest of the
// codebase does. The Sample* variants use the n-1 denominator; plain
// StandardDeviation/Variance would be the population forms and must not
// be used here.

// sampleMean returns the arithmetic mean
func sampleMean(data []float64) float64 {
	mean, _ := stats.Mean(data)
	return mean
}

// sampleMedian returns the order-statistic median, averaging the two
// middle values for even counts
func sampleMedian(data []float64) float64 {
	median, _ := stats.Median(data)
	return median
}

// sampleStdDev returns the sample (n-1) standard deviation.
// One observation yields NaN: the estimator is undefined, not zero.
func sampleStdDev(data []float64) float64 {
	sd, _ := stats.StandardDeviationSample(data)
	return sd
}

// sampleVariance returns the sample (n-1) variance
func sampleVariance(data []float64) float64 {
	v, _ := stats.SampleVariance(data)
	return v
}
