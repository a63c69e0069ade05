package dataset

import (
	"fmt"
	"math"

	"toothlab/domain/core"
)

// FieldName names a factor column in a dataset
type FieldName string

// FactorValue is one level of a categorical factor
type FactorValue string

// String returns the string representation
func (f FieldName) String() string   { return string(f) }
func (v FactorValue) String() string { return string(v) }

// Observation is one record: a numeric response plus the categorical
// factor values it was observed under. Immutable once loaded.
type Observation struct {
	Response float64                   `json:"response"`
	Factors  map[FieldName]FactorValue `json:"factors"`
}

// Dataset is an ordered sequence of observations sharing one factor schema.
// Every observation carries exactly the fields in FactorFields and a finite
// response value.
type Dataset struct {
	FactorFields []FieldName   `json:"factor_fields"`
	Observations []Observation `json:"observations"`
}

// New creates an empty dataset with the given factor schema
func New(factorFields ...FieldName) *Dataset {
	return &Dataset{
		FactorFields: factorFields,
	}
}

// Append adds one observation, checking it against the schema
func (d *Dataset) Append(response float64, factors map[FieldName]FactorValue) error {
	if math.IsNaN(response) || math.IsInf(response, 0) {
		return core.NewInvalidInputError(fmt.Sprintf("response must be finite, got %v", response))
	}
	if len(factors) != len(d.FactorFields) {
		return core.NewInvalidInputError(
			fmt.Sprintf("observation has %d factor(s), schema has %d", len(factors), len(d.FactorFields)))
	}
	for _, field := range d.FactorFields {
		if _, ok := factors[field]; !ok {
			return core.NewFieldError(string(field), "missing from observation")
		}
	}

	copied := make(map[FieldName]FactorValue, len(factors))
	for k, v := range factors {
		copied[k] = v
	}
	d.Observations = append(d.Observations, Observation{Response: response, Factors: copied})
	return nil
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	return len(d.Observations)
}

// IsEmpty checks if the dataset has no observations
func (d *Dataset) IsEmpty() bool {
	return len(d.Observations) == 0
}

// HasField checks if a factor field is part of the schema
func (d *Dataset) HasField(field FieldName) bool {
	for _, f := range d.FactorFields {
		if f == field {
			return true
		}
	}
	return false
}

// Validate ensures the dataset is internally consistent
func (d *Dataset) Validate() error {
	if d.IsEmpty() {
		return core.NewInvalidInputError("dataset is empty")
	}
	for i, obs := range d.Observations {
		if math.IsNaN(obs.Response) || math.IsInf(obs.Response, 0) {
			return core.NewInvalidInputError(fmt.Sprintf("observation %d has non-finite response", i))
		}
		if len(obs.Factors) != len(d.FactorFields) {
			return core.NewInvalidInputError(
				fmt.Sprintf("observation %d has %d factor(s), schema has %d", i, len(obs.Factors), len(d.FactorFields)))
		}
		for _, field := range d.FactorFields {
			if _, ok := obs.Factors[field]; !ok {
				return core.NewFieldError(string(field), fmt.Sprintf("missing from observation %d", i))
			}
		}
	}
	return nil
}

// Responses returns all response values in observation order
func (d *Dataset) Responses() []float64 {
	values := make([]float64, len(d.Observations))
	for i, obs := range d.Observations {
		values[i] = obs.Response
	}
	return values
}

// Where returns the subset of observations whose factor matches the value.
// The result shares the schema but owns its observation slice.
func (d *Dataset) Where(field FieldName, value FactorValue) *Dataset {
	filtered := New(d.FactorFields...)
	for _, obs := range d.Observations {
		if obs.Factors[field] == value {
			filtered.Observations = append(filtered.Observations, obs)
		}
	}
	return filtered
}

// Levels returns the distinct values of a factor in first-seen order
func (d *Dataset) Levels(field FieldName) []FactorValue {
	seen := make(map[FactorValue]bool)
	var levels []FactorValue
	for _, obs := range d.Observations {
		v, ok := obs.Factors[field]
		if !ok {
			continue
		}
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	return levels
}
