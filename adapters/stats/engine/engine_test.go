package engine

import (
	"math"
	"testing"

	"toothlab/domain/core"
	"toothlab/domain/dataset"
)

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	d := dataset.New("supplement", "dose")
	cells := []struct {
		supplement dataset.FactorValue
		dose       dataset.FactorValue
		responses  []float64
	}{
		{"VC", "0.5", vc05},
		{"VC", "1", vc1},
		{"VC", "2", vc2},
		{"OJ", "0.5", oj05},
		{"OJ", "1", oj1},
		{"OJ", "2", oj2},
	}
	for _, cell := range cells {
		for _, r := range cell.responses {
			if err := d.Append(r, map[dataset.FieldName]dataset.FactorValue{
				"supplement": cell.supplement,
				"dose":       cell.dose,
			}); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}
	}
	return d
}

func TestSummarize_PartitionCountsSumToTotal(t *testing.T) {
	e := NewStatsEngine()
	d := sampleDataset(t)

	for _, groupBy := range [][]dataset.FieldName{
		nil,
		{"supplement"},
		{"dose"},
		{"supplement", "dose"},
	} {
		summaries, err := e.Summarize(d, groupBy)
		if err != nil {
			t.Fatalf("Summarize(%v) failed: %v", groupBy, err)
		}

		total := 0
		for _, s := range summaries {
			if s.Count < 1 {
				t.Errorf("Group %s has count %d, want >= 1", s.Key, s.Count)
			}
			total += s.Count
		}
		if total != d.Len() {
			t.Errorf("Summarize(%v): counts sum to %d, want %d", groupBy, total, d.Len())
		}
	}
}

func TestSummarize_GoldStandardAgainstR(t *testing.T) {
	e := NewStatsEngine()
	d := sampleDataset(t)

	// Whole-dataset summary; reference values from R's summary() and sd()
	overall, err := e.Summarize(d, nil)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(overall) != 1 {
		t.Fatalf("Expected 1 overall group, got %d", len(overall))
	}
	assertClose(t, "overall mean", overall[0].Mean, 18.813333, 1e-4)
	assertClose(t, "overall median", overall[0].Median, 19.25, 1e-9)
	assertClose(t, "overall sd", overall[0].StdDev, 7.649315, 1e-4)
	if overall[0].Count != 60 {
		t.Errorf("Expected 60 observations, got %d", overall[0].Count)
	}

	// By supplement
	bySupp, err := e.Summarize(d, []dataset.FieldName{"supplement"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(bySupp) != 2 {
		t.Fatalf("Expected 2 supplement groups, got %d", len(bySupp))
	}
	// Sorted by key value: OJ before VC
	assertClose(t, "OJ mean", bySupp[0].Mean, 20.663333, 1e-4)
	assertClose(t, "OJ sd", bySupp[0].StdDev, 6.605561, 1e-4)
	assertClose(t, "VC mean", bySupp[1].Mean, 16.963333, 1e-4)
	assertClose(t, "VC sd", bySupp[1].StdDev, 8.266029, 1e-4)

	// By supplement x dose: six cells of ten
	cells, err := e.Summarize(d, []dataset.FieldName{"supplement", "dose"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(cells) != 6 {
		t.Fatalf("Expected 6 cells, got %d", len(cells))
	}
	for _, c := range cells {
		if c.Count != 10 {
			t.Errorf("Cell %s has %d observations, want 10", c.Key, c.Count)
		}
	}
	// First cell sorts as OJ/0.5
	assertClose(t, "OJ 0.5 mean", cells[0].Mean, 13.23, 1e-9)
	assertClose(t, "OJ 0.5 median", cells[0].Median, 12.25, 1e-9)
	assertClose(t, "OJ 0.5 sd", cells[0].StdDev, 4.459709, 1e-4)
	// Last cell sorts as VC/2
	assertClose(t, "VC 2 mean", cells[5].Mean, 26.14, 1e-9)
	assertClose(t, "VC 2 median", cells[5].Median, 25.95, 1e-9)
	assertClose(t, "VC 2 sd", cells[5].StdDev, 4.797731, 1e-4)
}

func TestSummarize_MedianAveragesMiddlePair(t *testing.T) {
	e := NewStatsEngine()

	d := dataset.New("g")
	for _, v := range []float64{4, 1, 3, 2} {
		if err := d.Append(v, map[dataset.FieldName]dataset.FactorValue{"g": "a"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	summaries, err := e.Summarize(d, nil)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	assertClose(t, "even median", summaries[0].Median, 2.5, 1e-9)
}

func TestSummarize_SingletonGroupHasNaNStdDev(t *testing.T) {
	e := NewStatsEngine()

	d := dataset.New("g")
	if err := d.Append(42.0, map[dataset.FieldName]dataset.FactorValue{"g": "only"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	summaries, err := e.Summarize(d, []dataset.FieldName{"g"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(summaries))
	}

	s := summaries[0]
	if s.Count != 1 {
		t.Errorf("Expected count 1, got %d", s.Count)
	}
	if !math.IsNaN(s.StdDev) {
		t.Errorf("Expected NaN sd for singleton group, got %v", s.StdDev)
	}
	if s.HasStdDev() {
		t.Error("HasStdDev should be false for singleton group")
	}
	assertClose(t, "singleton mean", s.Mean, 42.0, 1e-9)
	assertClose(t, "singleton median", s.Median, 42.0, 1e-9)
}

func TestSummarize_IdenticalValuesHaveZeroStdDev(t *testing.T) {
	e := NewStatsEngine()

	d := dataset.New("g")
	for i := 0; i < 5; i++ {
		if err := d.Append(7.5, map[dataset.FieldName]dataset.FactorValue{"g": "same"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	summaries, err := e.Summarize(d, []dataset.FieldName{"g"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summaries[0].StdDev != 0 {
		t.Errorf("Expected sd 0 for identical values, got %v", summaries[0].StdDev)
	}
}

func TestSummarize_EmptyDatasetFailsWithInvalidInput(t *testing.T) {
	e := NewStatsEngine()

	_, err := e.Summarize(dataset.New("g"), []dataset.FieldName{"g"})
	if !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for empty dataset, got %v", err)
	}

	_, err = e.Summarize(nil, nil)
	if !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for nil dataset, got %v", err)
	}
}

func TestSummarize_UnknownFieldFailsWithInvalidInput(t *testing.T) {
	e := NewStatsEngine()
	d := sampleDataset(t)

	_, err := e.Summarize(d, []dataset.FieldName{"flavor"})
	if !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for unknown field, got %v", err)
	}
}

// assertClose fails the test when got is not within tol of want
func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tolerance %v)", name, got, want, tol)
	}
}
