package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"toothlab/domain/core"
	"toothlab/domain/dataset"
)

// Schema maps tabular columns onto the dataset: one numeric response
// column plus one or more categorical factor columns. Header matching
// is case-insensitive.
type Schema struct {
	Response string
	Factors  []dataset.FieldName
}

// DefaultSchema matches the guinea pig tooth growth layout.
func DefaultSchema() Schema {
	return Schema{
		Response: "response",
		Factors:  []dataset.FieldName{"supplement", "dose"},
	}
}

func (s Schema) Validate() error {
	if strings.TrimSpace(s.Response) == "" {
		return core.NewFieldError("response", "column name is empty")
	}
	if len(s.Factors) == 0 {
		return core.NewInvalidInputError("schema needs at least one factor column")
	}
	seen := map[string]bool{strings.ToLower(s.Response): true}
	for _, f := range s.Factors {
		name := strings.ToLower(strings.TrimSpace(string(f)))
		if name == "" {
			return core.NewFieldError("factors", "column name is empty")
		}
		if seen[name] {
			return core.NewFieldError(string(f), "column listed twice")
		}
		seen[name] = true
	}
	return nil
}

// buildDataset converts raw string rows (header first) into a typed dataset.
func buildDataset(rows [][]string, schema Schema) (*dataset.Dataset, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, core.NewInvalidInputError("need a header row and at least one data row")
	}

	header := rows[0]
	responseCol := -1
	factorCols := make([]int, len(schema.Factors))
	for i := range factorCols {
		factorCols[i] = -1
	}

	for j, cell := range header {
		name := strings.TrimSpace(cell)
		if strings.EqualFold(name, schema.Response) {
			responseCol = j
			continue
		}
		for i, f := range schema.Factors {
			if strings.EqualFold(name, string(f)) {
				factorCols[i] = j
			}
		}
	}

	if responseCol < 0 {
		return nil, core.NewFieldError(schema.Response, "column not found in header")
	}
	for i, col := range factorCols {
		if col < 0 {
			return nil, core.NewFieldError(string(schema.Factors[i]), "column not found in header")
		}
	}

	d := dataset.New(schema.Factors...)
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}

		raw := cellAt(row, responseCol)
		if raw == "" {
			return nil, core.NewInvalidInputError(fmt.Sprintf("row %d: empty %s value", rowIdx+1, schema.Response))
		}
		response, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, core.NewInvalidInputError(fmt.Sprintf("row %d: %s %q is not numeric", rowIdx+1, schema.Response, raw))
		}

		factors := make(map[dataset.FieldName]dataset.FactorValue, len(schema.Factors))
		for i, f := range schema.Factors {
			value := cellAt(row, factorCols[i])
			if value == "" {
				return nil, core.NewInvalidInputError(fmt.Sprintf("row %d: empty %s value", rowIdx+1, f))
			}
			factors[f] = normalizeFactorValue(value)
		}

		if err := d.Append(response, factors); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx+1, err)
		}
	}

	if d.IsEmpty() {
		return nil, core.NewInvalidInputError("no data rows after parsing")
	}
	return d, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// normalizeFactorValue collapses numeric spellings of the same level,
// so dose "1.0" and "1" land in one group. Non-numeric labels pass through.
func normalizeFactorValue(value string) dataset.FactorValue {
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return dataset.FactorValue(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return dataset.FactorValue(value)
}
