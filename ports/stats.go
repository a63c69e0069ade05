package ports

import (
	"toothlab/domain/dataset"
	"toothlab/domain/stats"
)

// StatsPort exposes the statistical computations the report consumes.
// Implementations are pure: no I/O, no internal state, safe for
// concurrent use, so no context is threaded through.
type StatsPort interface {
	// Summarize partitions the dataset by the given factor fields and
	// returns one descriptive summary per group, sorted by group key.
	// Zero fields summarizes the whole dataset as one group.
	Summarize(data *dataset.Dataset, groupBy []dataset.FieldName) ([]stats.GroupSummary, error)

	// TwoSampleTTest compares two independent samples of response values
	TwoSampleTTest(groupA, groupB []float64, opts stats.TTestOptions) (stats.TTestResult, error)
}
