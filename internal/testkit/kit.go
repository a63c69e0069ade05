package testkit

import (
	"context"

	"toothlab/adapters/tabular"
	"toothlab/domain/dataset"
	"toothlab/ports"
)

// FakeLoader serves a fixed dataset (or a fixed error) and counts loads.
type FakeLoader struct {
	Dataset *dataset.Dataset
	Err     error
	Name    string
	Loads   int
}

var _ ports.DatasetLoaderPort = (*FakeLoader)(nil)

func NewFakeLoader(d *dataset.Dataset) *FakeLoader {
	return &FakeLoader{Dataset: d, Name: "testkit:fake"}
}

func (l *FakeLoader) Load(ctx context.Context) (*dataset.Dataset, error) {
	l.Loads++
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Dataset, nil
}

func (l *FakeLoader) Source() string {
	return l.Name
}

// FakeRenderer records the last render request without touching disk.
type FakeRenderer struct {
	Err         error
	LastRequest *ports.RenderRequest
	Renders     int
}

var _ ports.ReportRendererPort = (*FakeRenderer)(nil)

func (r *FakeRenderer) Render(ctx context.Context, req ports.RenderRequest) (*ports.RenderResult, error) {
	r.Renders++
	r.LastRequest = &req
	if r.Err != nil {
		return nil, r.Err
	}
	return &ports.RenderResult{
		DocumentPath: "testkit/report.md",
		FigurePath:   "testkit/figure.png",
	}, nil
}

// CanonicalDataset loads the embedded tooth growth observations.
func CanonicalDataset(ctx context.Context) (*dataset.Dataset, error) {
	return tabular.NewEmbeddedLoader().Load(ctx)
}
