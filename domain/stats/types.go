package stats

import (
	"math"

	"toothlab/domain/dataset"
)

// GroupSummary is the read-only descriptive summary of one subgroup.
// INVARIANTS:
// - Count always >= 1
// - StdDev is NaN (undefined) when Count == 1, never zero by convention
type GroupSummary struct {
	Key    dataset.GroupKey `json:"key"`
	Count  int              `json:"count"`
	Mean   float64          `json:"mean"`
	Median float64          `json:"median"`
	StdDev float64          `json:"std_dev"` // sample (n-1) standard deviation
}

// HasStdDev reports whether the standard deviation is defined for this group
func (s GroupSummary) HasStdDev() bool {
	return !math.IsNaN(s.StdDev)
}

// TTestResult is the read-only outcome of one two-sample t-test.
// Produced once per invocation, never mutated. One-sided tests carry an
// unbounded CI side as -Inf or +Inf.
type TTestResult struct {
	Estimate        float64     `json:"estimate"` // mean(A) - mean(B)
	CILower         float64     `json:"ci_lower"`
	CIUpper         float64     `json:"ci_upper"`
	DegreesFreedom  float64     `json:"degrees_freedom"` // non-integer under Welch
	TStatistic      float64     `json:"t_statistic"`
	PValue          float64     `json:"p_value"`
	ConfidenceLevel float64     `json:"confidence_level"`
	Alternative     Alternative `json:"alternative"`
	EqualVariance   bool        `json:"equal_variance"`
	MeanA           float64     `json:"mean_a"`
	MeanB           float64     `json:"mean_b"`
	NA              int         `json:"n_a"`
	NB              int         `json:"n_b"`
}

// Method names the test variant the way R reports it
func (r TTestResult) Method() string {
	if r.EqualVariance {
		return "Two Sample t-test"
	}
	return "Welch Two Sample t-test"
}

// RejectsNull reports whether the p-value falls below the significance
// level implied by the confidence level (alpha = 1 - confidence)
func (r TTestResult) RejectsNull() bool {
	return r.PValue < 1.0-r.ConfidenceLevel
}

// ContainsZero reports whether the confidence interval spans zero
func (r TTestResult) ContainsZero() bool {
	return r.CILower <= 0 && r.CIUpper >= 0
}
