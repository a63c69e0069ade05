package ports

import (
	"context"

	"toothlab/domain/dataset"
)

// DatasetLoaderPort supplies the observations a report runs over
type DatasetLoaderPort interface {
	// Load returns a dataset validated against the schema invariants
	Load(ctx context.Context) (*dataset.Dataset, error)

	// Source describes where the data came from, for report provenance
	Source() string
}
