package stats

import (
	"fmt"

	"toothlab/domain/core"
)

// Alternative selects the direction of the hypothesis test
type Alternative string

const (
	// AlternativeTwoSided tests mean(A) != mean(B)
	AlternativeTwoSided Alternative = "two-sided"
	// AlternativeLess tests mean(A) < mean(B)
	AlternativeLess Alternative = "less"
	// AlternativeGreater tests mean(A) > mean(B)
	AlternativeGreater Alternative = "greater"
)

// Valid checks the alternative is one of the three recognized values
func (a Alternative) Valid() bool {
	switch a {
	case AlternativeTwoSided, AlternativeLess, AlternativeGreater:
		return true
	}
	return false
}

// String returns the string representation
func (a Alternative) String() string { return string(a) }

// ParseAlternative parses a string into an Alternative
func ParseAlternative(s string) (Alternative, error) {
	a := Alternative(s)
	if !a.Valid() {
		return "", core.NewInvalidInputError(
			fmt.Sprintf("alternative %q not one of two-sided, less, greater", s))
	}
	return a, nil
}

// TTestOptions configures one two-sample t-test invocation
type TTestOptions struct {
	Alternative     Alternative `json:"alternative"`
	EqualVariance   bool        `json:"equal_variance"`   // false = Welch (default)
	ConfidenceLevel float64     `json:"confidence_level"` // strictly inside (0,1)
}

// DefaultTTestOptions returns the conventional defaults: two-sided,
// unequal variances (Welch), 95% confidence
func DefaultTTestOptions() TTestOptions {
	return TTestOptions{
		Alternative:     AlternativeTwoSided,
		EqualVariance:   false,
		ConfidenceLevel: 0.95,
	}
}

// Validate checks the options are usable
func (o TTestOptions) Validate() error {
	if !o.Alternative.Valid() {
		return core.NewInvalidInputError(
			fmt.Sprintf("alternative %q not one of two-sided, less, greater", o.Alternative))
	}
	// Written so NaN fails too: both NaN > 0 and NaN < 1 are false.
	if !(o.ConfidenceLevel > 0 && o.ConfidenceLevel < 1) {
		return core.NewInvalidInputError(
			fmt.Sprintf("confidence level %v must be strictly between 0 and 1", o.ConfidenceLevel))
	}
	return nil
}
