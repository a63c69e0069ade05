package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"toothlab/domain/stats"
	"toothlab/ports"
)

// buildDocument assembles the full markdown report. The engine hands over
// raw float64s; all rounding happens here.
func (r *Renderer) buildDocument(req ports.RenderRequest, figureRef string) string {
	var b strings.Builder

	b.WriteString("# Tooth Growth Report\n\n")
	r.writeProvenance(&b, req)

	if len(req.Sections) > 0 {
		b.WriteString("## Group summaries\n\n")
		for _, section := range req.Sections {
			r.writeSummarySection(&b, section)
		}
	}

	if len(req.Tests) > 0 {
		b.WriteString("## Hypothesis tests\n\n")
		for _, test := range req.Tests {
			r.writeTestSection(&b, test)
		}
	}

	if figureRef != "" {
		b.WriteString("## Figure\n\n")
		fmt.Fprintf(&b, "![Response by dose, colored by supplement](%s)\n", figureRef)
	}

	return b.String()
}

func (r *Renderer) writeProvenance(b *strings.Builder, req ports.RenderRequest) {
	m := req.Manifest
	if m == nil {
		return
	}
	fmt.Fprintf(b, "- Run: `%s` (code %s)\n", m.RunID, m.CodeVersion)
	fmt.Fprintf(b, "- Created: %s\n", m.CreatedAt)
	if req.Source != "" {
		fmt.Fprintf(b, "- Source: %s (%d observations)\n", req.Source, m.DatasetRows)
	}
	fmt.Fprintf(b, "- Dataset sha256: `%s`\n", shortHash(m.DatasetHash.String()))
	fmt.Fprintf(b, "- Plan: %d tests, sha256 `%s`\n", m.TestCount, shortHash(m.PlanHash.String()))
	fmt.Fprintf(b, "- Run fingerprint: `%s`\n\n", shortHash(m.Fingerprint.Fingerprint.String()))
}

func (r *Renderer) writeSummarySection(b *strings.Builder, section ports.SummarySection) {
	fmt.Fprintf(b, "### %s\n\n", section.Title)
	b.WriteString("| group | n | mean | median | sd |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, s := range section.Summaries {
		fmt.Fprintf(b, "| %s | %d | %s | %s | %s |\n",
			s.Key.String(), s.Count, r.fmtNum(s.Mean), r.fmtNum(s.Median), r.fmtNum(s.StdDev))
	}
	b.WriteString("\n")
}

func (r *Renderer) writeTestSection(b *strings.Builder, test ports.TestRender) {
	spec := test.Spec
	res := test.Result

	fmt.Fprintf(b, "### %s\n\n", spec.Name)
	if spec.Description != "" {
		fmt.Fprintf(b, "%s\n\n", spec.Description)
	}

	groups := fmt.Sprintf("`%s` = %s (n=%d) vs %s (n=%d)",
		spec.GroupField, spec.GroupA, res.NA, spec.GroupB, res.NB)
	if spec.HasFilter() {
		groups += fmt.Sprintf(", restricted to `%s` = %s", spec.FilterField, spec.FilterValue)
	}
	fmt.Fprintf(b, "- Groups: %s\n", groups)
	fmt.Fprintf(b, "- Method: %s, alternative: %s\n", res.Method(), alternativePhrase(res.Alternative))
	fmt.Fprintf(b, "- t = %s, df = %s, p = %s\n",
		r.fmtNum(res.TStatistic), r.fmtNum(res.DegreesFreedom), r.fmtP(res.PValue))
	fmt.Fprintf(b, "- Estimate: %s (mean %s - mean %s)\n", r.fmtNum(res.Estimate), spec.GroupA, spec.GroupB)
	fmt.Fprintf(b, "- %s%% CI: (%s, %s)\n",
		fmtPercent(res.ConfidenceLevel), r.fmtNum(res.CILower), r.fmtNum(res.CIUpper))
	fmt.Fprintf(b, "- Conclusion: %s\n\n", conclusion(res))
}

func conclusion(res stats.TTestResult) string {
	level := fmtPercent(res.ConfidenceLevel)
	verdict := "Fail to reject the null hypothesis"
	if res.RejectsNull() {
		verdict = "Reject the null hypothesis"
	}
	s := fmt.Sprintf("%s at the %s%% level", verdict, level)
	if res.Alternative == stats.AlternativeTwoSided {
		if res.ContainsZero() {
			s += "; the interval contains zero"
		} else {
			s += "; the interval excludes zero"
		}
	}
	return s + "."
}

func alternativePhrase(a stats.Alternative) string {
	switch a {
	case stats.AlternativeLess:
		return "true difference in means is less than 0"
	case stats.AlternativeGreater:
		return "true difference in means is greater than 0"
	default:
		return "true difference in means is not equal to 0"
	}
}

func (r *Renderer) fmtNum(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NA"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'f', r.decimalPlaces, 64)
}

// fmtP keeps very small p-values readable instead of rounding them to zero.
func (r *Renderer) fmtP(p float64) string {
	if p > 0 && p < math.Pow(10, -float64(r.decimalPlaces)) {
		return strconv.FormatFloat(p, 'e', 2, 64)
	}
	return r.fmtNum(p)
}

func fmtPercent(confidence float64) string {
	return strconv.FormatFloat(confidence*100, 'g', -1, 64)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
