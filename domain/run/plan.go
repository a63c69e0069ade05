package run

import (
	"encoding/json"

	"toothlab/domain/core"
	"toothlab/domain/dataset"
	"toothlab/domain/stats"
)

// TestSpec defines one two-sample comparison in a report plan: which
// factor splits the groups, which two levels are compared, and an
// optional filter applied before splitting (e.g. compare supplements at
// a single dose).
type TestSpec struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	GroupField  dataset.FieldName   `json:"group_field"`
	GroupA      dataset.FactorValue `json:"group_a"`
	GroupB      dataset.FactorValue `json:"group_b"`
	FilterField dataset.FieldName   `json:"filter_field,omitempty"`
	FilterValue dataset.FactorValue `json:"filter_value,omitempty"`
	Options     stats.TTestOptions  `json:"options"`
}

// HasFilter reports whether the test narrows the dataset before grouping
func (s TestSpec) HasFilter() bool {
	return s.FilterField != ""
}

// Validate checks the test is complete
func (s TestSpec) Validate() error {
	if s.Name == "" {
		return core.NewFieldError("test", "name cannot be empty")
	}
	if s.GroupField == "" {
		return core.NewFieldError("test", "group_field cannot be empty")
	}
	if s.GroupA == s.GroupB {
		return core.NewFieldError("test", "group_a and group_b must differ")
	}
	if s.FilterField == "" && s.FilterValue != "" {
		return core.NewFieldError("test", "filter_value set without filter_field")
	}
	return s.Options.Validate()
}

// Plan is an ordered list of comparisons. Order is part of the plan's
// identity: the report presents tests in plan position.
type Plan struct {
	Tests []TestSpec `json:"tests"`
}

// NewPlan creates a plan from test specs
func NewPlan(tests ...TestSpec) *Plan {
	return &Plan{Tests: tests}
}

// Hash computes a deterministic hash of the plan
func (p *Plan) Hash() core.PlanHash {
	data, _ := json.Marshal(p.Tests)
	return core.NewPlanHash(data)
}

// Validate checks if the plan is valid
func (p *Plan) Validate() error {
	if len(p.Tests) == 0 {
		return core.NewFieldError("plan", "must contain at least one test")
	}

	seenNames := make(map[string]bool)
	for _, test := range p.Tests {
		if err := test.Validate(); err != nil {
			return err
		}
		if seenNames[test.Name] {
			return core.NewFieldError("test", "duplicate test name: "+test.Name)
		}
		seenNames[test.Name] = true
	}

	return nil
}
