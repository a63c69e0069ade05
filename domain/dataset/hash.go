package dataset

import (
	"strconv"
	"strings"

	"toothlab/domain/core"
)

// Hash computes a deterministic fingerprint of the dataset contents.
// Observation order is part of the identity.
func (d *Dataset) Hash() core.DatasetHash {
	var b strings.Builder

	for _, field := range d.FactorFields {
		b.WriteString(string(field))
		b.WriteString("|")
	}
	b.WriteString("\n")

	for _, obs := range d.Observations {
		b.WriteString(strconv.FormatFloat(obs.Response, 'g', -1, 64))
		for _, field := range d.FactorFields {
			b.WriteString(":")
			b.WriteString(string(obs.Factors[field]))
		}
		b.WriteString("\n")
	}

	return core.NewDatasetHash([]byte(b.String()))
}
