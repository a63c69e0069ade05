package run

import (
	"encoding/json"
	"testing"
	"time"

	"toothlab/domain/core"
	"toothlab/domain/stats"
)

func testPlan() *Plan {
	return NewPlan(
		TestSpec{
			Name:        "supplement-any-dose",
			Description: "OJ vs VC over all doses",
			GroupField:  "supplement",
			GroupA:      "OJ",
			GroupB:      "VC",
			Options:     stats.DefaultTTestOptions(),
		},
		TestSpec{
			Name:        "dose-low-vs-mid",
			Description: "dose 0.5 vs 1",
			GroupField:  "dose",
			GroupA:      "0.5",
			GroupB:      "1",
			Options: stats.TTestOptions{
				Alternative:     stats.AlternativeLess,
				ConfidenceLevel: 0.95,
			},
		},
	)
}

func TestRunFingerprint_Deterministic(t *testing.T) {
	// Golden test - same inputs produce identical fingerprints
	datasetHash := core.DatasetHash("test-dataset")
	planHash := core.PlanHash("test-plan")
	codeVersion := "1.0.0"

	// Generate fingerprint twice with identical inputs
	fp1 := NewRunFingerprint(datasetHash, planHash, codeVersion)
	fp2 := NewRunFingerprint(datasetHash, planHash, codeVersion)

	// Should be identical
	if fp1.Fingerprint != fp2.Fingerprint {
		t.Errorf("Fingerprints not identical: %s vs %s", fp1.Fingerprint, fp2.Fingerprint)
	}

	// Should contain all determinism parameters
	if fp1.DatasetHash != datasetHash {
		t.Errorf("DatasetHash mismatch: %s vs %s", fp1.DatasetHash, datasetHash)
	}
	if fp1.PlanHash != planHash {
		t.Errorf("PlanHash mismatch: %s vs %s", fp1.PlanHash, planHash)
	}
	if fp1.CodeVersion != codeVersion {
		t.Errorf("CodeVersion mismatch: %s vs %s", fp1.CodeVersion, codeVersion)
	}
}

func TestRunFingerprint_Unique(t *testing.T) {
	// Different inputs should produce different fingerprints
	base := NewRunFingerprint(core.DatasetHash("test-dataset"), core.PlanHash("test-plan"), "1.0.0")

	// Change each parameter and verify fingerprint changes
	testCases := []struct {
		name string
		fp   RunFingerprint
	}{
		{"different dataset", NewRunFingerprint(core.DatasetHash("other-dataset"), core.PlanHash("test-plan"), "1.0.0")},
		{"different plan", NewRunFingerprint(core.DatasetHash("test-dataset"), core.PlanHash("other-plan"), "1.0.0")},
		{"different code version", NewRunFingerprint(core.DatasetHash("test-dataset"), core.PlanHash("test-plan"), "1.0.1")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fp.Fingerprint == base.Fingerprint {
				t.Errorf("Fingerprint should be different for %s", tc.name)
			}
		})
	}
}

func TestReportManifest_Complete(t *testing.T) {
	runID := core.NewRunID()
	datasetHash := core.DatasetHash("test-dataset")
	plan := testPlan()
	codeVersion := "1.0.0"

	manifest := NewReportManifest(runID, datasetHash, 60, plan, codeVersion)

	// Verify all determinism fields are present
	if manifest.RunID != runID {
		t.Errorf("RunID not set correctly")
	}
	if manifest.DatasetHash != datasetHash {
		t.Errorf("DatasetHash not set correctly")
	}
	if manifest.PlanHash != plan.Hash() {
		t.Errorf("PlanHash not set correctly")
	}
	if manifest.TestCount != len(plan.Tests) {
		t.Errorf("TestCount not set correctly")
	}
	if manifest.CodeVersion != codeVersion {
		t.Errorf("CodeVersion not set correctly")
	}

	// Verify fingerprint is computed
	if manifest.Fingerprint.Fingerprint == "" {
		t.Errorf("Fingerprint not computed")
	}

	// Verify validation passes
	if err := manifest.Validate(); err != nil {
		t.Errorf("Manifest validation failed: %v", err)
	}
}

func TestReportManifest_ValidationFailures(t *testing.T) {
	valid := NewReportManifest(core.NewRunID(), core.DatasetHash("d"), 60, testPlan(), "1.0.0")

	tests := []struct {
		name   string
		mutate func(*ReportManifest)
	}{
		{"empty run id", func(m *ReportManifest) { m.RunID = "" }},
		{"empty dataset hash", func(m *ReportManifest) { m.DatasetHash = "" }},
		{"empty plan hash", func(m *ReportManifest) { m.PlanHash = "" }},
		{"empty code version", func(m *ReportManifest) { m.CodeVersion = "" }},
		{"zero rows", func(m *ReportManifest) { m.DatasetRows = 0 }},
		{"zero created at", func(m *ReportManifest) { m.CreatedAt = core.Timestamp{} }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := *valid
			test.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Errorf("Expected validation failure for %s", test.name)
			}
		})
	}
}

func TestReportManifest_JSONRoundTrip(t *testing.T) {
	manifest := NewReportManifest(core.NewRunID(), core.DatasetHash("d"), 60, testPlan(), "1.0.0")

	raw, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ReportManifest
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.RunID != manifest.RunID {
		t.Errorf("RunID drifted: %s vs %s", decoded.RunID, manifest.RunID)
	}
	if decoded.Fingerprint.Fingerprint != manifest.Fingerprint.Fingerprint {
		t.Errorf("Fingerprint drifted: %s vs %s",
			decoded.Fingerprint.Fingerprint, manifest.Fingerprint.Fingerprint)
	}
	if !time.Time(decoded.CreatedAt).Equal(time.Time(manifest.CreatedAt)) {
		t.Errorf("CreatedAt drifted: %s vs %s", decoded.CreatedAt, manifest.CreatedAt)
	}
	if err := decoded.Validate(); err != nil {
		t.Errorf("Decoded manifest failed validation: %v", err)
	}
}

func TestPlanHash_OrderMatters(t *testing.T) {
	plan := testPlan()
	reversed := NewPlan(plan.Tests[1], plan.Tests[0])

	if plan.Hash() == reversed.Hash() {
		t.Error("Reordered plan should hash differently")
	}
}

func TestPlanValidate(t *testing.T) {
	if err := testPlan().Validate(); err != nil {
		t.Fatalf("Valid plan failed validation: %v", err)
	}

	empty := NewPlan()
	if err := empty.Validate(); err == nil {
		t.Error("Expected validation failure for empty plan")
	}

	dup := testPlan()
	dup.Tests = append(dup.Tests, dup.Tests[0])
	if err := dup.Validate(); err == nil {
		t.Error("Expected validation failure for duplicate test name")
	}

	sameGroups := NewPlan(TestSpec{
		Name:       "degenerate",
		GroupField: "supplement",
		GroupA:     "OJ",
		GroupB:     "OJ",
		Options:    stats.DefaultTTestOptions(),
	})
	if err := sameGroups.Validate(); err == nil {
		t.Error("Expected validation failure when both groups are the same level")
	}
}
