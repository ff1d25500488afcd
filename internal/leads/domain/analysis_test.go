package domain

import (
	"encoding/json"
	"testing"
)

func TestNormalizeClampsIllegalEnums(t *testing.T) {
	report := &Report{
		Condition:  "Terrible",
		Urgency:    "ASAP",
		Complexity: "",
	}
	report.Normalize()

	if report.Condition != ConditionUnknown {
		t.Fatalf("expected condition %q, got %q", ConditionUnknown, report.Condition)
	}
	if report.Urgency != UrgencyNormal {
		t.Fatalf("expected urgency %q, got %q", UrgencyNormal, report.Urgency)
	}
	if report.Complexity != ComplexityModerate {
		t.Fatalf("expected complexity %q, got %q", ComplexityModerate, report.Complexity)
	}
}

func TestNormalizeKeepsLegalEnums(t *testing.T) {
	report := &Report{
		Condition:  ConditionCritical,
		Urgency:    UrgencyHighPriority,
		Complexity: ComplexityComplex,
	}
	report.Normalize()

	if report.Condition != ConditionCritical {
		t.Fatalf("condition changed: %q", report.Condition)
	}
	if report.Urgency != UrgencyHighPriority {
		t.Fatalf("urgency changed: %q", report.Urgency)
	}
	if report.Complexity != ComplexityComplex {
		t.Fatalf("complexity changed: %q", report.Complexity)
	}
}

func TestNormalizeBackfillsNilSlices(t *testing.T) {
	report := &Report{}
	report.Normalize()

	if report.Observations == nil || report.SafetyConsiderations == nil {
		t.Fatalf("expected non-nil slices after normalize")
	}
	if report.Recommendations.RedFlags == nil {
		t.Fatalf("expected non-nil red flags after normalize")
	}
}

func TestReportAnalysisSerializesFlat(t *testing.T) {
	report := &Report{Summary: "roof leak", Urgency: UrgencyEmergency, TotalImages: 5}
	report.Normalize()

	raw, err := json.Marshal(ReportAnalysis(report))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["kind"] != string(AnalysisReport) {
		t.Fatalf("expected kind %q, got %v", AnalysisReport, decoded["kind"])
	}
	if decoded["urgency"] != UrgencyEmergency {
		t.Fatalf("expected top-level urgency, got %v", decoded["urgency"])
	}
	if decoded["totalImages"] != float64(5) {
		t.Fatalf("expected top-level totalImages 5, got %v", decoded["totalImages"])
	}
}

func TestFailedAnalysisCarriesDetails(t *testing.T) {
	analysis := FailedAnalysis(errSentinel("connection refused"))
	if analysis.Kind != AnalysisFailed {
		t.Fatalf("expected failed kind, got %q", analysis.Kind)
	}
	if analysis.Error == "" || analysis.Details != "connection refused" {
		t.Fatalf("expected error and details populated, got %+v", analysis)
	}
}

func TestContractorAssignable(t *testing.T) {
	if StatusProcessing.ContractorAssignable() {
		t.Fatalf("processing must not be contractor assignable")
	}
	if !StatusQuoted.ContractorAssignable() {
		t.Fatalf("quoted should be contractor assignable")
	}
	if Status("archived").ContractorAssignable() {
		t.Fatalf("unknown status should not be assignable")
	}
}

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
