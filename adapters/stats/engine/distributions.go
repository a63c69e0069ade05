package engine

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Student's t-distribution access for p-values and critical values.
// gonum evaluates CDF/Quantile through the regularized incomplete beta
// function, so the fractional degrees of freedom produced by
// Welch-Satterthwaite are handled exactly, not by rounding.

// studentT builds the standard t-distribution with df degrees of freedom
func studentT(df float64) distuv.StudentsT {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
}

// tCDF computes P(T_df <= x)
func tCDF(df, x float64) float64 {
	return studentT(df).CDF(x)
}

// tQuantile computes the inverse CDF of T_df at probability p
func tQuantile(df, p float64) float64 {
	return studentT(df).Quantile(p)
}
