package dataset

import (
	"math"
	"testing"

	"toothlab/domain/core"
)

func buildDataset(t *testing.T) *Dataset {
	t.Helper()
	d := New("supplement", "dose")
	rows := []struct {
		response   float64
		supplement FactorValue
		dose       FactorValue
	}{
		{4.2, "VC", "0.5"},
		{11.5, "VC", "0.5"},
		{16.5, "VC", "1"},
		{22.5, "VC", "1"},
		{15.2, "OJ", "0.5"},
		{21.5, "OJ", "0.5"},
		{19.7, "OJ", "1"},
		{23.3, "OJ", "1"},
	}
	for _, r := range rows {
		if err := d.Append(r.response, map[FieldName]FactorValue{
			"supplement": r.supplement,
			"dose":       r.dose,
		}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return d
}

func TestAppendRejectsNonFiniteResponse(t *testing.T) {
	d := New("supplement")
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := d.Append(bad, map[FieldName]FactorValue{"supplement": "VC"})
		if err == nil {
			t.Errorf("Expected error for response %v", bad)
		}
		if !core.IsInvalidInput(err) {
			t.Errorf("Expected InvalidInput for response %v, got %v", bad, err)
		}
	}
	if d.Len() != 0 {
		t.Errorf("Rejected appends should not grow the dataset, len=%d", d.Len())
	}
}

func TestAppendRejectsMissingFactor(t *testing.T) {
	d := New("supplement", "dose")
	err := d.Append(10.0, map[FieldName]FactorValue{"supplement": "VC"})
	if !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for missing factor, got %v", err)
	}

	err = d.Append(10.0, map[FieldName]FactorValue{"supplement": "VC", "flavor": "citrus"})
	if !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for wrong factor name, got %v", err)
	}
}

func TestGroupByPartitionsEveryObservationExactlyOnce(t *testing.T) {
	d := buildDataset(t)

	for _, fields := range [][]FieldName{
		{"supplement"},
		{"dose"},
		{"supplement", "dose"},
	} {
		groups, err := d.GroupBy(fields...)
		if err != nil {
			t.Fatalf("GroupBy(%v) failed: %v", fields, err)
		}

		total := 0
		for _, g := range groups {
			total += len(g.Responses)
		}
		if total != d.Len() {
			t.Errorf("GroupBy(%v): group sizes sum to %d, want %d", fields, total, d.Len())
		}
	}
}

func TestGroupByZeroFieldsIsOneOverallGroup(t *testing.T) {
	d := buildDataset(t)

	groups, err := d.GroupBy()
	if err != nil {
		t.Fatalf("GroupBy() failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Expected a single overall group, got %d", len(groups))
	}
	if !groups[0].Key.IsOverall() {
		t.Errorf("Expected overall key, got %s", groups[0].Key)
	}
	if len(groups[0].Responses) != d.Len() {
		t.Errorf("Overall group has %d responses, want %d", len(groups[0].Responses), d.Len())
	}
}

func TestGroupByOutputIsSortedAndDeterministic(t *testing.T) {
	d := buildDataset(t)

	first, err := d.GroupBy("supplement", "dose")
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}
	second, err := d.GroupBy("supplement", "dose")
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}

	if len(first) != 4 {
		t.Fatalf("Expected 4 supplement-dose cells, got %d", len(first))
	}
	for i := range first {
		if !first[i].Key.Equal(second[i].Key) {
			t.Errorf("Group %d key differs between calls: %s vs %s", i, first[i].Key, second[i].Key)
		}
	}
	for i := 1; i < len(first); i++ {
		if !lessValues(first[i-1].Key.Values, first[i].Key.Values) {
			t.Errorf("Groups not sorted at %d: %s before %s", i, first[i-1].Key, first[i].Key)
		}
	}
}

func TestGroupBySeparatorTextInValuesFormsDistinctGroups(t *testing.T) {
	d := New("a", "b")
	// Both rows display as "a=x, b=y, b=z", but the value tuples differ
	// and must partition separately.
	if err := d.Append(1.0, map[FieldName]FactorValue{"a": "x, b=y", "b": "z"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := d.Append(2.0, map[FieldName]FactorValue{"a": "x", "b": "y, b=z"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	groups, err := d.GroupBy("a", "b")
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g.Responses) != 1 {
			t.Errorf("Group %s has %d responses, want 1", g.Key, len(g.Responses))
		}
	}
}

func TestGroupByEmptyDatasetFails(t *testing.T) {
	d := New("supplement")
	_, err := d.GroupBy("supplement")
	if !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for empty dataset, got %v", err)
	}
}

func TestGroupByUnknownFieldFails(t *testing.T) {
	d := buildDataset(t)
	_, err := d.GroupBy("flavor")
	if !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for unknown field, got %v", err)
	}
}

func TestWhereFiltersBySingleFactor(t *testing.T) {
	d := buildDataset(t)

	vc := d.Where("supplement", "VC")
	if vc.Len() != 4 {
		t.Errorf("Expected 4 VC observations, got %d", vc.Len())
	}
	for i, obs := range vc.Observations {
		if obs.Factors["supplement"] != "VC" {
			t.Errorf("Observation %d leaked into VC filter: %v", i, obs.Factors)
		}
	}

	vcHigh := vc.Where("dose", "1")
	if vcHigh.Len() != 2 {
		t.Errorf("Expected 2 VC dose-1 observations, got %d", vcHigh.Len())
	}
}

func TestLevelsPreservesFirstSeenOrder(t *testing.T) {
	d := buildDataset(t)

	levels := d.Levels("dose")
	if len(levels) != 2 {
		t.Fatalf("Expected 2 dose levels, got %d", len(levels))
	}
	if levels[0] != "0.5" || levels[1] != "1" {
		t.Errorf("Unexpected level order: %v", levels)
	}
}

func TestGroupKeyString(t *testing.T) {
	key := NewGroupKey(
		[]FieldName{"supplement", "dose"},
		[]FactorValue{"OJ", "2"},
	)
	if key.String() != "supplement=OJ, dose=2" {
		t.Errorf("Unexpected key rendering: %s", key)
	}

	overall := GroupKey{}
	if overall.String() != "(all)" {
		t.Errorf("Unexpected overall rendering: %s", overall)
	}
}

func TestValidateCatchesSchemaDrift(t *testing.T) {
	d := buildDataset(t)
	if err := d.Validate(); err != nil {
		t.Fatalf("Valid dataset failed validation: %v", err)
	}

	// Corrupt one observation behind the schema's back
	d.Observations[3].Factors = map[FieldName]FactorValue{"supplement": "VC"}
	if err := d.Validate(); !core.IsInvalidInput(err) {
		t.Errorf("Expected InvalidInput for schema drift, got %v", err)
	}
}
