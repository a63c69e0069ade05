package run

import (
	"crypto/sha256"
	"fmt"

	"toothlab/domain/core"
)

// RunFingerprint ensures a report run is reproducible: the same dataset,
// test plan, and code version always produce the same fingerprint. Run ID
// and wall-clock time are deliberately excluded.
type RunFingerprint struct {
	DatasetHash core.DatasetHash `json:"dataset_hash"`
	PlanHash    core.PlanHash    `json:"plan_hash"`
	CodeVersion string           `json:"code_version"`
	Fingerprint core.Hash        `json:"fingerprint"` // Hash of all above
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(datasetHash core.DatasetHash, planHash core.PlanHash, codeVersion string) RunFingerprint {
	fingerprint := computeRunFingerprint(datasetHash, planHash, codeVersion)

	return RunFingerprint{
		DatasetHash: datasetHash,
		PlanHash:    planHash,
		CodeVersion: codeVersion,
		Fingerprint: fingerprint,
	}
}

// computeRunFingerprint generates a deterministic hash from all determinism parameters
func computeRunFingerprint(datasetHash core.DatasetHash, planHash core.PlanHash, codeVersion string) core.Hash {
	// Create deterministic string representation
	data := fmt.Sprintf("dataset:%s|plan:%s|code:%s", datasetHash, planHash, codeVersion)

	// Use SHA256 for deterministic hashing
	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
