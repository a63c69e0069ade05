package app

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"toothlab/domain/core"
	"toothlab/domain/dataset"
	"toothlab/domain/run"
	"toothlab/domain/stats"
	"toothlab/internal"
	apperrors "toothlab/internal/errors"
	"toothlab/ports"
)

// ReportService runs one full analysis: load the dataset, summarize it,
// execute the planned hypothesis tests, and render the report artifacts.
type ReportService struct {
	loader      ports.DatasetLoaderPort
	engine      ports.StatsPort
	renderer    ports.ReportRendererPort
	codeVersion string
	logger      *internal.Logger
}

// ReportRequest defines the inputs for a report run
type ReportRequest struct {
	Plan  *run.Plan  // optional, defaults to the tooth growth plan
	RunID core.RunID // optional, generated if empty
}

// ReportBundle is the complete output of a report run
type ReportBundle struct {
	Manifest     *run.ReportManifest    `json:"manifest"`
	DocumentPath string                 `json:"document_path"`
	HTMLPath     string                 `json:"html_path,omitempty"`
	FigurePath   string                 `json:"figure_path,omitempty"`
	Sections     []ports.SummarySection `json:"sections"`
	Tests        []ports.TestRender     `json:"tests"`
	RuntimeMs    int64                  `json:"runtime_ms"`
}

// NewReportService creates a report service
func NewReportService(
	loader ports.DatasetLoaderPort,
	engine ports.StatsPort,
	renderer ports.ReportRendererPort,
	codeVersion string,
) *ReportService {
	return &ReportService{
		loader:      loader,
		engine:      engine,
		renderer:    renderer,
		codeVersion: codeVersion,
		logger:      internal.NewDefaultLogger(),
	}
}

// Run executes one report run end to end
func (s *ReportService) Run(ctx context.Context, req ReportRequest) (*ReportBundle, error) {
	startTime := time.Now()

	runID := req.RunID
	if core.ID(runID).IsEmpty() {
		runID = core.NewRunID()
	}

	plan := req.Plan
	if plan == nil {
		plan = DefaultReportPlan()
	}
	if err := plan.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "test plan rejected")
	}
	s.logger.Info("Starting report run %s (%d planned tests)", runID, len(plan.Tests))

	data, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("Report run %s failed: %v", runID, err)
		return nil, apperrors.LoadFailed(s.loader.Source(), err)
	}
	s.logger.Debug("Loaded %d observations from %s", data.Len(), s.loader.Source())

	sections, err := s.summarize(data)
	if err != nil {
		s.logger.Error("Report run %s failed: %v", runID, err)
		return nil, apperrors.Wrap(err, "summary computation failed")
	}

	tests, err := s.runPlan(ctx, data, plan)
	if err != nil {
		s.logger.Error("Report run %s failed: %v", runID, err)
		return nil, err
	}
	if s.logger.GetLevel() >= internal.LogLevelDebug {
		rejected := 0
		for _, tr := range tests {
			if tr.Result.RejectsNull() {
				rejected++
			}
		}
		s.logger.Debug("Hypothesis outcomes: %d reject, %d fail to reject", rejected, len(tests)-rejected)
	}

	manifest := run.NewReportManifest(runID, data.Hash(), data.Len(), plan, s.codeVersion)

	rendered, err := s.renderer.Render(ctx, ports.RenderRequest{
		Manifest: manifest,
		Source:   s.loader.Source(),
		Data:     data,
		Sections: sections,
		Tests:    tests,
	})
	if err != nil {
		s.logger.Error("Report run %s failed: %v", runID, err)
		return nil, apperrors.RenderFailed(err)
	}

	s.logger.Info("Report run %s completed: %d tests in %.2fs",
		runID, len(tests), time.Since(startTime).Seconds())

	return &ReportBundle{
		Manifest:     manifest,
		DocumentPath: rendered.DocumentPath,
		HTMLPath:     rendered.HTMLPath,
		FigurePath:   rendered.FigurePath,
		Sections:     sections,
		Tests:        tests,
		RuntimeMs:    time.Since(startTime).Milliseconds(),
	}, nil
}

// summarize produces the three grouped-summary sections: the whole dataset,
// the first factor alone, and the full factor cross.
func (s *ReportService) summarize(data *dataset.Dataset) ([]ports.SummarySection, error) {
	groupings := [][]dataset.FieldName{nil}
	if len(data.FactorFields) > 0 {
		groupings = append(groupings, data.FactorFields[:1])
	}
	if len(data.FactorFields) > 1 {
		groupings = append(groupings, data.FactorFields)
	}

	sections := make([]ports.SummarySection, 0, len(groupings))
	for _, grouping := range groupings {
		summaries, err := s.engine.Summarize(data, grouping)
		if err != nil {
			return nil, err
		}
		sections = append(sections, ports.SummarySection{
			Title:     sectionTitle(grouping),
			Summaries: summaries,
		})
	}
	return sections, nil
}

// runPlan executes every planned test concurrently. Results land in a slice
// indexed by plan position, so report order never depends on scheduling.
func (s *ReportService) runPlan(ctx context.Context, data *dataset.Dataset, plan *run.Plan) ([]ports.TestRender, error) {
	tests := make([]ports.TestRender, len(plan.Tests))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range plan.Tests {
		i, spec := i, spec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			base := data
			if spec.HasFilter() {
				base = data.Where(spec.FilterField, spec.FilterValue)
			}
			groupA := base.Where(spec.GroupField, spec.GroupA).Responses()
			groupB := base.Where(spec.GroupField, spec.GroupB).Responses()

			result, err := s.engine.TwoSampleTTest(groupA, groupB, spec.Options)
			if err != nil {
				return apperrors.Wrapf(err, "test %s failed", spec.Name)
			}
			s.logger.Debug("Test %s: t=%.4f, df=%.2f, p=%.4g", spec.Name, result.TStatistic, result.DegreesFreedom, result.PValue)
			tests[i] = ports.TestRender{Spec: spec, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tests, nil
}

func sectionTitle(fields []dataset.FieldName) string {
	if len(fields) == 0 {
		return "Overall"
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return "By " + strings.Join(parts, " and ")
}

// DefaultReportPlan is the tooth growth narrative: one supplement contrast,
// three ordered dose contrasts, and the supplement contrast at the top dose.
func DefaultReportPlan() *run.Plan {
	oneSidedLess := stats.TTestOptions{
		Alternative:     stats.AlternativeLess,
		EqualVariance:   false,
		ConfidenceLevel: 0.95,
	}

	return run.NewPlan(
		run.TestSpec{
			Name:        "supplement-effect",
			Description: "Orange juice against ascorbic acid, pooled over doses.",
			GroupField:  "supplement",
			GroupA:      "OJ",
			GroupB:      "VC",
			Options:     stats.DefaultTTestOptions(),
		},
		run.TestSpec{
			Name:        "dose-0.5-vs-1",
			Description: "Low dose against mid dose, pooled over supplements.",
			GroupField:  "dose",
			GroupA:      "0.5",
			GroupB:      "1",
			Options:     oneSidedLess,
		},
		run.TestSpec{
			Name:        "dose-0.5-vs-2",
			Description: "Low dose against high dose, pooled over supplements.",
			GroupField:  "dose",
			GroupA:      "0.5",
			GroupB:      "2",
			Options:     oneSidedLess,
		},
		run.TestSpec{
			Name:        "dose-1-vs-2",
			Description: "Mid dose against high dose, pooled over supplements.",
			GroupField:  "dose",
			GroupA:      "1",
			GroupB:      "2",
			Options:     oneSidedLess,
		},
		run.TestSpec{
			Name:        "supplement-effect-at-dose-2",
			Description: "Orange juice against ascorbic acid at the highest dose only.",
			GroupField:  "supplement",
			GroupA:      "OJ",
			GroupB:      "VC",
			FilterField: "dose",
			FilterValue: "2",
			Options:     stats.DefaultTTestOptions(),
		},
	)
}
