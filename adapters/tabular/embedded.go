package tabular

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"log"

	"toothlab/domain/dataset"
	"toothlab/ports"
)

// The classic guinea pig odontoblast measurements (Bliss, 1952):
// 60 observations, two supplements (OJ, VC) at three doses.
//
//go:embed toothgrowth.csv
var toothGrowthCSV []byte

// EmbeddedLoader serves the built-in tooth growth dataset. It needs no
// files on disk, which keeps report runs reproducible by default.
type EmbeddedLoader struct {
	schema Schema
}

var _ ports.DatasetLoaderPort = (*EmbeddedLoader)(nil)

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{schema: DefaultSchema()}
}

func (l *EmbeddedLoader) Source() string {
	return "embedded:toothgrowth"
}

func (l *EmbeddedLoader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := csv.NewReader(bytes.NewReader(toothGrowthCSV)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("embedded dataset is corrupt: %w", err)
	}

	d, err := buildDataset(rows, l.schema)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset failed validation: %w", err)
	}
	log.Printf("[EmbeddedLoader] Loaded %d observations from %s", d.Len(), l.Source())
	return d, nil
}
