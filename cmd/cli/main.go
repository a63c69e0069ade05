package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"toothlab/adapters/report"
	"toothlab/adapters/stats/engine"
	"toothlab/adapters/tabular"
	"toothlab/app"
	"toothlab/domain/core"
	"toothlab/domain/dataset"
	"toothlab/domain/stats"
	"toothlab/internal/config"
	apperrors "toothlab/internal/errors"
	"toothlab/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "toothlab-cli",
		Short: "Tooth growth statistics toolkit",
		Long: `toothlab-cli runs descriptive summaries and two-sample t-tests over
the guinea pig tooth growth dataset, or over any CSV/Excel file with
a numeric response column and categorical factor columns.`,
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newSummarizeCmd(),
		newTTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if apperrors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", apperrors.GetCode(err), err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newReportCmd() *cobra.Command {
	var out string
	var datasetPath string
	var html bool
	var decimals int
	var runID string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full analysis and write the report artifacts",
		Long: `Report loads the dataset, computes grouped summaries, runs the planned
hypothesis tests, and writes a Markdown report plus a scatter figure
(and optionally an HTML rendering) to the output directory.

Defaults come from the environment (TOOTHLAB_* variables); flags
override them. Without --dataset the embedded tooth growth data is
analyzed.

Example: toothlab-cli report --out ./out --html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("out") {
				cfg.Report.OutputDir = out
			}
			if cmd.Flags().Changed("dataset") {
				cfg.Data.DatasetPath = datasetPath
			}
			if cmd.Flags().Changed("html") {
				cfg.Report.EmitHTML = html
			}
			if cmd.Flags().Changed("decimals") {
				cfg.Report.DecimalPlaces = decimals
			}
			id, err := resolveRunID(runID)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), cfg, id)
		},
	}

	cmd.Flags().StringVar(&out, "out", "./out", "Directory for report artifacts")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "CSV or Excel dataset file (empty for embedded data)")
	cmd.Flags().BoolVar(&html, "html", false, "Also emit an HTML rendering of the report")
	cmd.Flags().IntVar(&decimals, "decimals", 4, "Decimal places for report numbers")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run identifier stamped on the report (generated when empty)")

	return cmd
}

// resolveRunID turns the --run-id flag into a run identifier, keeping
// generation for the empty default.
func resolveRunID(s string) (core.RunID, error) {
	if s == "" {
		return "", nil
	}
	return core.ParseRunID(s)
}

func runReport(ctx context.Context, cfg *config.Config, runID core.RunID) error {
	var loader ports.DatasetLoaderPort
	if cfg.Data.DatasetPath != "" {
		loader = tabular.NewDatasetReader(cfg.Data.DatasetPath)
	} else {
		loader = tabular.NewEmbeddedLoader()
	}

	renderer := report.NewRenderer(report.Options{
		OutputDir:     cfg.Report.OutputDir,
		DecimalPlaces: cfg.Report.DecimalPlaces,
		EmitHTML:      cfg.Report.EmitHTML,
	})

	service := app.NewReportService(loader, engine.NewStatsEngine(), renderer, cfg.CodeVersion)
	bundle, err := service.Run(ctx, app.ReportRequest{RunID: runID})
	if err != nil {
		return err
	}

	fmt.Printf("\n=== REPORT RUN ===\n")
	fmt.Printf("Run ID:      %s\n", bundle.Manifest.RunID)
	fmt.Printf("Dataset:     %s (%d observations)\n", loader.Source(), bundle.Manifest.DatasetRows)
	fmt.Printf("Fingerprint: %s\n", bundle.Manifest.Fingerprint.Fingerprint)
	fmt.Printf("Runtime:     %dms\n", bundle.RuntimeMs)

	fmt.Printf("\n=== HYPOTHESIS TESTS ===\n")
	for _, tr := range bundle.Tests {
		verdict := "fail to reject"
		if tr.Result.RejectsNull() {
			verdict = "reject"
		}
		fmt.Printf("%-30s p=%-12s %s\n", tr.Spec.Name, fmtPValue(tr.Result.PValue), verdict)
	}

	fmt.Printf("\n=== ARTIFACTS ===\n")
	fmt.Printf("Markdown: %s\n", bundle.DocumentPath)
	if bundle.HTMLPath != "" {
		fmt.Printf("HTML:     %s\n", bundle.HTMLPath)
	}
	if bundle.FigurePath != "" {
		fmt.Printf("Figure:   %s\n", bundle.FigurePath)
	}

	return nil
}

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [dataset] [field...]",
		Short: "Print grouped descriptive statistics",
		Long: `Summarize computes count, mean, median, and sample standard deviation
for every group formed by the given factor fields.

The first argument names a CSV or Excel file; "-" (or no arguments)
selects the embedded tooth growth data. Remaining arguments are factor
fields to group by; with none, the whole dataset is one group.

Example: toothlab-cli summarize - supplement dose`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			var fields []string
			if len(args) > 0 {
				path = args[0]
				fields = args[1:]
			}
			return runSummarize(cmd.Context(), path, fields)
		},
	}

	return cmd
}

func runSummarize(ctx context.Context, path string, fields []string) error {
	data, err := loadDataset(ctx, path)
	if err != nil {
		return err
	}

	groupBy := make([]dataset.FieldName, len(fields))
	for i, f := range fields {
		groupBy[i] = dataset.FieldName(f)
	}

	summaries, err := engine.NewStatsEngine().Summarize(data, groupBy)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== GROUP SUMMARIES ===\n")
	fmt.Printf("Dataset: %d observations, %d group(s)\n\n", data.Len(), len(summaries))
	fmt.Printf("%-30s %5s %10s %10s %10s\n", "GROUP", "N", "MEAN", "MEDIAN", "SD")
	for _, s := range summaries {
		fmt.Printf("%-30s %5d %10.4f %10.4f %10s\n",
			s.Key.String(), s.Count, s.Mean, s.Median, fmtStdDev(s))
	}

	return nil
}

type ttestArgs struct {
	path          string
	field         string
	groupA        string
	groupB        string
	by            string
	alternative   string
	equalVariance bool
	conf          float64
}

func newTTestCmd() *cobra.Command {
	var in ttestArgs

	cmd := &cobra.Command{
		Use:   "ttest [dataset]",
		Short: "Compare two factor levels with a two-sample t-test",
		Long: `Ttest splits the dataset on a factor field, takes the responses of two
of its levels, and runs a two-sample t-test (Welch by default).

The optional dataset argument names a CSV or Excel file; "-" (or no
argument) selects the embedded tooth growth data. --by restricts the
comparison to a subset first, written as field=value.

Examples:
  toothlab-cli ttest --field supplement --group-a OJ --group-b VC
  toothlab-cli ttest --field dose --group-a 0.5 --group-b 2 --alternative less
  toothlab-cli ttest --field supplement --group-a OJ --group-b VC --by dose=2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				in.path = args[0]
			}
			return runTTest(cmd.Context(), in)
		},
	}

	cmd.Flags().StringVar(&in.field, "field", "supplement", "Factor field that splits the two groups")
	cmd.Flags().StringVar(&in.groupA, "group-a", "OJ", "Factor level forming group A")
	cmd.Flags().StringVar(&in.groupB, "group-b", "VC", "Factor level forming group B")
	cmd.Flags().StringVar(&in.by, "by", "", "Restrict to a subset first, as field=value (e.g. dose=2)")
	cmd.Flags().StringVar(&in.alternative, "alternative", "two-sided", "Alternative hypothesis: two-sided, less, or greater")
	cmd.Flags().BoolVar(&in.equalVariance, "equal-variance", false, "Pool variances instead of using the Welch approximation")
	cmd.Flags().Float64Var(&in.conf, "conf", 0.95, "Confidence level, strictly between 0 and 1")

	return cmd
}

func runTTest(ctx context.Context, in ttestArgs) error {
	alternative, err := stats.ParseAlternative(in.alternative)
	if err != nil {
		return err
	}

	data, err := loadDataset(ctx, in.path)
	if err != nil {
		return err
	}

	if in.by != "" {
		field, value, err := parseRestriction(in.by)
		if err != nil {
			return err
		}
		if !data.HasField(field) {
			return apperrors.InvalidInput(fmt.Sprintf("restriction field %q not present in dataset", field))
		}
		data = data.Where(field, value)
	}

	field := dataset.FieldName(in.field)
	if !data.HasField(field) {
		return apperrors.InvalidInput(fmt.Sprintf("field %q not present in dataset", in.field))
	}

	groupA := data.Where(field, dataset.FactorValue(in.groupA)).Responses()
	groupB := data.Where(field, dataset.FactorValue(in.groupB)).Responses()

	result, err := engine.NewStatsEngine().TwoSampleTTest(groupA, groupB, stats.TTestOptions{
		Alternative:     alternative,
		EqualVariance:   in.equalVariance,
		ConfidenceLevel: in.conf,
	})
	if err != nil {
		return err
	}

	printTTestResult(in.groupA, in.groupB, result)
	return nil
}

// parseRestriction splits a "field=value" pair
func parseRestriction(s string) (dataset.FieldName, dataset.FactorValue, error) {
	field, value, found := strings.Cut(s, "=")
	if !found || field == "" || value == "" {
		return "", "", apperrors.InvalidInput(fmt.Sprintf("restriction %q must have the form field=value", s))
	}
	return dataset.FieldName(field), dataset.FactorValue(value), nil
}

func printTTestResult(labelA, labelB string, r stats.TTestResult) {
	level := strconv.FormatFloat(r.ConfidenceLevel*100, 'g', -1, 64)

	fmt.Printf("\n=== %s ===\n", strings.ToUpper(r.Method()))
	fmt.Printf("Groups:       %s (n=%d) vs %s (n=%d)\n", labelA, r.NA, labelB, r.NB)
	fmt.Printf("Sample means: %.4f vs %.4f\n", r.MeanA, r.MeanB)
	fmt.Printf("Estimate:     %.4f (mean %s - mean %s)\n", r.Estimate, labelA, labelB)
	fmt.Printf("t = %.4f, df = %.4f, p-value = %s\n", r.TStatistic, r.DegreesFreedom, fmtPValue(r.PValue))
	fmt.Printf("Alternative:  %s\n", r.Alternative)
	fmt.Printf("%s%% confidence interval: [%s, %s]\n", level, fmtBound(r.CILower), fmtBound(r.CIUpper))

	verdict := "fail to reject the null hypothesis"
	if r.RejectsNull() {
		verdict = "reject the null hypothesis"
	}
	fmt.Printf("Conclusion:   %s at the %s%% level\n", verdict, level)
}

// loadDataset resolves the dataset argument: empty or "-" means the
// embedded tooth growth data, anything else is a file path.
func loadDataset(ctx context.Context, path string) (*dataset.Dataset, error) {
	if path == "" || path == "-" {
		return tabular.NewEmbeddedLoader().Load(ctx)
	}
	return tabular.NewDatasetReader(path).Load(ctx)
}

func fmtStdDev(s stats.GroupSummary) string {
	if !s.HasStdDev() {
		return "NA"
	}
	return strconv.FormatFloat(s.StdDev, 'f', 4, 64)
}

func fmtPValue(p float64) string {
	if p > 0 && p < 1e-4 {
		return strconv.FormatFloat(p, 'e', 2, 64)
	}
	return strconv.FormatFloat(p, 'f', 4, 64)
}

func fmtBound(v float64) string {
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	if math.IsInf(v, 1) {
		return "Inf"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
