package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"toothlab/domain/core"
)

// GroupKey identifies a subgroup by the tuple of factor values it was
// partitioned on. An empty key means the whole dataset. Used only as a
// grouping lookup key, never mutated.
type GroupKey struct {
	Fields []FieldName   `json:"fields"`
	Values []FactorValue `json:"values"`
}

// NewGroupKey creates a group key, copying both slices
func NewGroupKey(fields []FieldName, values []FactorValue) GroupKey {
	k := GroupKey{
		Fields: make([]FieldName, len(fields)),
		Values: make([]FactorValue, len(values)),
	}
	copy(k.Fields, fields)
	copy(k.Values, values)
	return k
}

// IsOverall reports whether the key covers the whole dataset
func (k GroupKey) IsOverall() bool {
	return len(k.Fields) == 0
}

// String renders the key as "field=value, field=value", or "(all)" for
// the overall group
func (k GroupKey) String() string {
	if k.IsOverall() {
		return "(all)"
	}
	parts := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		parts[i] = fmt.Sprintf("%s=%s", f, k.Values[i])
	}
	return strings.Join(parts, ", ")
}

// mapKey is the injective index form of the key: quoting keeps a value
// that itself contains "=" or ", " from colliding with the separators.
// String stays unescaped for display.
func (k GroupKey) mapKey() string {
	parts := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		parts[i] = strconv.Quote(string(f)) + "=" + strconv.Quote(string(k.Values[i]))
	}
	return strings.Join(parts, ",")
}

// Equal checks if two keys identify the same subgroup
func (k GroupKey) Equal(other GroupKey) bool {
	if len(k.Fields) != len(other.Fields) {
		return false
	}
	for i := range k.Fields {
		if k.Fields[i] != other.Fields[i] || k.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}

// Group is one partition of a dataset: its key and the response values
// that fell into it, in observation order.
type Group struct {
	Key       GroupKey  `json:"key"`
	Responses []float64 `json:"responses"`
}

// GroupBy partitions the dataset by the tuple of values of the given
// fields (equality-based). Zero fields yields a single overall group.
// Output is sorted lexicographically by key values in field request
// order, so repeated calls produce identical results.
func (d *Dataset) GroupBy(fields ...FieldName) ([]Group, error) {
	if d.IsEmpty() {
		return nil, core.NewInvalidInputError("cannot group an empty dataset")
	}
	for _, f := range fields {
		if !d.HasField(f) {
			return nil, core.NewFieldError(string(f), "not present in dataset")
		}
	}

	if len(fields) == 0 {
		return []Group{{Key: GroupKey{}, Responses: d.Responses()}}, nil
	}

	index := make(map[string]int)
	var groups []Group
	for _, obs := range d.Observations {
		values := make([]FactorValue, len(fields))
		for i, f := range fields {
			values[i] = obs.Factors[f]
		}
		key := NewGroupKey(fields, values)
		canonical := key.mapKey()
		pos, ok := index[canonical]
		if !ok {
			pos = len(groups)
			index[canonical] = pos
			groups = append(groups, Group{Key: key})
		}
		groups[pos].Responses = append(groups[pos].Responses, obs.Response)
	}

	sort.Slice(groups, func(i, j int) bool {
		return lessValues(groups[i].Key.Values, groups[j].Key.Values)
	})
	return groups, nil
}

func lessValues(a, b []FactorValue) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
