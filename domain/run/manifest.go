package run

import (
	"toothlab/domain/core"
)

// ReportManifest is the provenance record for one report run.
// This is the "truth source" for replay - the same dataset, plan, and
// code version must reproduce the same report numbers.
type ReportManifest struct {
	RunID       core.RunID       `json:"run_id"`
	DatasetHash core.DatasetHash `json:"dataset_hash"`
	DatasetRows int              `json:"dataset_rows"`
	PlanHash    core.PlanHash    `json:"plan_hash"`
	TestCount   int              `json:"test_count"`
	CodeVersion string           `json:"code_version"`
	Fingerprint RunFingerprint   `json:"fingerprint"` // Determinism fingerprint
	CreatedAt   core.Timestamp   `json:"created_at"`
}

// NewReportManifest creates a manifest for a report run
func NewReportManifest(
	runID core.RunID,
	datasetHash core.DatasetHash,
	datasetRows int,
	plan *Plan,
	codeVersion string,
) *ReportManifest {
	planHash := plan.Hash()
	fingerprint := NewRunFingerprint(datasetHash, planHash, codeVersion)

	return &ReportManifest{
		RunID:       runID,
		DatasetHash: datasetHash,
		DatasetRows: datasetRows,
		PlanHash:    planHash,
		TestCount:   len(plan.Tests),
		CodeVersion: codeVersion,
		Fingerprint: fingerprint,
		CreatedAt:   core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m *ReportManifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewFieldError("report_manifest", "run_id cannot be empty")
	}
	if core.Hash(m.DatasetHash).IsEmpty() {
		return core.NewFieldError("report_manifest", "dataset_hash cannot be empty")
	}
	if core.Hash(m.PlanHash).IsEmpty() {
		return core.NewFieldError("report_manifest", "plan_hash cannot be empty")
	}
	if m.CodeVersion == "" {
		return core.NewFieldError("report_manifest", "code_version cannot be empty")
	}
	if m.DatasetRows <= 0 {
		return core.NewFieldError("report_manifest", "dataset_rows must be positive")
	}
	if m.CreatedAt.IsZero() {
		return core.NewFieldError("report_manifest", "created_at cannot be zero")
	}
	return nil
}
