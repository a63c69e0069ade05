package engine

import (
	"fmt"
	"math"

	"toothlab/domain/core"
	"toothlab/domain/stats"
)

// TwoSampleTTest runs an independent two-sample t-test of mean(A) vs
// mean(B). The default path is Welch's unequal-variance formulation;
// opts.EqualVariance switches to the pooled-variance form. Samples are
// always treated as unpaired.
func (e *StatsEngine) TwoSampleTTest(groupA, groupB []float64, opts stats.TTestOptions) (stats.TTestResult, error) {
	var zero stats.TTestResult

	if err := opts.Validate(); err != nil {
		return zero, err
	}
	if err := checkFinite("group A", groupA); err != nil {
		return zero, err
	}
	if err := checkFinite("group B", groupB); err != nil {
		return zero, err
	}
	if len(groupA) < 2 {
		return zero, core.NewInsufficientDataError("A", len(groupA))
	}
	if len(groupB) < 2 {
		return zero, core.NewInsufficientDataError("B", len(groupB))
	}

	nA := float64(len(groupA))
	nB := float64(len(groupB))
	meanA := sampleMean(groupA)
	meanB := sampleMean(groupB)
	varA := sampleVariance(groupA)
	varB := sampleVariance(groupB)

	var se, df float64
	if opts.EqualVariance {
		// Pooled variance: v_p = ((nA-1)vA + (nB-1)vB) / (nA+nB-2),
		// df is exactly nA+nB-2.
		pooledVar := ((nA-1)*varA + (nB-1)*varB) / (nA + nB - 2)
		se = math.Sqrt(pooledVar * (1/nA + 1/nB))
		df = nA + nB - 2
	} else {
		se = math.Sqrt(varA/nA + varB/nB)
		df = welchSatterthwaite(varA, nA, varB, nB)
	}
	if se == 0 {
		return zero, core.NewDegenerateVarianceError()
	}

	estimate := meanA - meanB
	tStat := estimate / se
	pValue, lower, upper := tails(tStat, df, se, estimate, opts)

	return stats.TTestResult{
		Estimate:        estimate,
		CILower:         lower,
		CIUpper:         upper,
		DegreesFreedom:  df,
		TStatistic:      tStat,
		PValue:          pValue,
		ConfidenceLevel: opts.ConfidenceLevel,
		Alternative:     opts.Alternative,
		EqualVariance:   opts.EqualVariance,
		MeanA:           meanA,
		MeanB:           meanB,
		NA:              len(groupA),
		NB:              len(groupB),
	}, nil
}

// welchSatterthwaite approximates the degrees of freedom when the two
// groups' variances are not assumed equal. The result is generally
// non-integer.
func welchSatterthwaite(varA, nA, varB, nB float64) float64 {
	sA := varA / nA
	sB := varB / nB
	return math.Pow(sA+sB, 2) / (math.Pow(sA, 2)/(nA-1) + math.Pow(sB, 2)/(nB-1))
}

// tails derives the p-value and confidence interval for the chosen
// alternative. One-sided intervals leave the untested side unbounded.
func tails(tStat, df, se, estimate float64, opts stats.TTestOptions) (pValue, lower, upper float64) {
	switch opts.Alternative {
	case stats.AlternativeLess:
		pValue = tCDF(df, tStat)
		tCrit := tQuantile(df, opts.ConfidenceLevel)
		return pValue, math.Inf(-1), estimate + tCrit*se

	case stats.AlternativeGreater:
		pValue = 1 - tCDF(df, tStat)
		tCrit := tQuantile(df, opts.ConfidenceLevel)
		return pValue, estimate - tCrit*se, math.Inf(1)

	default: // two-sided
		pValue = 2 * (1 - tCDF(df, math.Abs(tStat)))
		alpha := 1.0 - opts.ConfidenceLevel
		tCrit := tQuantile(df, 1.0-alpha/2.0)
		return pValue, estimate - tCrit*se, estimate + tCrit*se
	}
}

// checkFinite rejects NaN and infinite response values
func checkFinite(label string, data []float64) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidInputError(
				fmt.Sprintf("%s contains non-finite value at index %d", label, i))
		}
	}
	return nil
}
