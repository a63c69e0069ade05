package ports

import (
	"context"

	"toothlab/domain/dataset"
	"toothlab/domain/run"
	"toothlab/domain/stats"
)

// ReportRendererPort formats computed results into report artifacts.
// The engine supplies raw numbers; all rounding and prose live behind
// this port.
type ReportRendererPort interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)
}

// RenderRequest is the numeric content of one report, ready to format
type RenderRequest struct {
	Manifest *run.ReportManifest
	Source   string           // dataset provenance line
	Data     *dataset.Dataset // raw observations, for the figure
	Sections []SummarySection // grouped summary tables in display order
	Tests    []TestRender     // test results in plan order
}

// SummarySection is one grouped-summary table with its display title
type SummarySection struct {
	Title     string
	Summaries []stats.GroupSummary
}

// TestRender pairs a planned comparison with its computed result
type TestRender struct {
	Spec   run.TestSpec
	Result stats.TTestResult
}

// RenderResult reports which artifacts were written
type RenderResult struct {
	DocumentPath string
	HTMLPath     string // empty unless HTML output was requested
	FigurePath   string
}
