package engine

import (
	"toothlab/domain/core"
	"toothlab/domain/dataset"
	"toothlab/domain/stats"
	"toothlab/ports"
)

// StatsEngine provides the statistical computations behind the report:
// grouped descriptive summaries and two-sample t-tests. It holds no
// state; every call allocates and returns fresh results, so one engine
// is safe to share across goroutines.
type StatsEngine struct{}

var _ ports.StatsPort = (*StatsEngine)(nil)

// NewStatsEngine creates a new statistical engine
func NewStatsEngine() *StatsEngine {
	return &StatsEngine{}
}

// Summarize partitions the dataset by the given factor fields and
// computes {count, mean, median, sample sd} per group. Zero fields
// summarizes the whole dataset as one group. Groups come back sorted by
// key so output is reproducible.
func (e *StatsEngine) Summarize(data *dataset.Dataset, groupBy []dataset.FieldName) ([]stats.GroupSummary, error) {
	if data == nil || data.IsEmpty() {
		return nil, core.NewInvalidInputError("dataset is empty")
	}

	groups, err := data.GroupBy(groupBy...)
	if err != nil {
		return nil, err
	}

	summaries := make([]stats.GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, summarizeGroup(g))
	}
	return summaries, nil
}

// summarizeGroup computes the descriptive summary of one partition.
// A single-observation group gets StdDev = NaN, not zero.
func summarizeGroup(g dataset.Group) stats.GroupSummary {
	return stats.GroupSummary{
		Key:    g.Key,
		Count:  len(g.Responses),
		Mean:   sampleMean(g.Responses),
		Median: sampleMedian(g.Responses),
		StdDev: sampleStdDev(g.Responses),
	}
}
