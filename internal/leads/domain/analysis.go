package domain

// Legal enum values for the analysis report. The vision model is instructed
// to answer with these exact strings; anything else is normalized to the
// safe default before the report is stored.
const (
	ConditionExcellent = "Excellent"
	ConditionGood      = "Good"
	ConditionFair      = "Fair"
	ConditionPoor      = "Poor"
	ConditionCritical  = "Critical"
	ConditionUnknown   = "Unknown"

	UrgencyEmergency    = "Emergency"
	UrgencyHighPriority = "High Priority"
	UrgencyNormal       = "Normal"
	UrgencyLowPriority  = "Low Priority"

	ComplexitySimple   = "Simple"
	ComplexityModerate = "Moderate"
	ComplexityComplex  = "Complex"
)

// AnalysisKind discriminates the analysis union so consumers can match on it
// instead of probing for field presence.
type AnalysisKind string

const (
	// AnalysisPending is the placeholder written at intake, before the
	// pipeline has run.
	AnalysisPending AnalysisKind = "pending"
	// AnalysisReport carries a full model-generated assessment.
	AnalysisReport AnalysisKind = "report"
	// AnalysisUnreviewed marks a lead submitted without any images; the
	// contractor reviews it manually.
	AnalysisUnreviewed AnalysisKind = "unreviewed"
	// AnalysisFailed marks a lead whose analysis call failed. The lead is
	// still actionable; the failure lives here, never in the lead status.
	AnalysisFailed AnalysisKind = "failed"
)

// Analysis is the assessment attached to every lead. Exactly one variant is
// populated, selected by Kind. Report fields are flattened into the top level
// of the serialized object so dashboard consumers read `urgency`,
// `totalImages` etc. directly.
type Analysis struct {
	Kind    AnalysisKind `json:"kind"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details string       `json:"details,omitempty"`
	*Report
}

// Report is the structured assessment produced by the vision model.
type Report struct {
	Summary              string          `json:"summary"`
	WhatYouSee           string          `json:"whatYouSee"`
	Condition            string          `json:"condition"`
	Urgency              string          `json:"urgency"`
	Complexity           string          `json:"complexity"`
	TotalImages          int             `json:"totalImages"`
	Scope                Scope           `json:"scope"`
	Materials            Materials       `json:"materials"`
	LaborAndTime         LaborAndTime    `json:"laborAndTime"`
	CostBreakdown        CostBreakdown   `json:"costBreakdown"`
	SkillLevelRequired   string          `json:"skillLevelRequired,omitempty"`
	SafetyConsiderations []string        `json:"safetyConsiderations"`
	Recommendations      Recommendations `json:"recommendations"`
	Observations         []string        `json:"observations"`
	RelatedSystems       []string        `json:"relatedSystems,omitempty"`
	CodeCompliance       string          `json:"codeCompliance,omitempty"`
	SeasonalTiming       string          `json:"seasonalTiming,omitempty"`
}

// Scope describes the estimated extent of the work.
type Scope struct {
	Description        string `json:"description"`
	SquareFootage      string `json:"squareFootage"`
	Quantity           string `json:"quantity"`
	AccessibilityNotes string `json:"accessibilityNotes"`
}

// Materials lists what the job needs. Quantities are free text.
type Materials struct {
	Required     []string `json:"required"`
	Specialty    []string `json:"specialty"`
	Alternatives string   `json:"alternatives"`
}

// LaborAndTime estimates effort. All fields are display strings.
type LaborAndTime struct {
	EstimatedHours string `json:"estimatedHours"`
	Workers        string `json:"workers"`
	Timeline       string `json:"timeline"`
	Permits        string `json:"permits"`
}

// CostBreakdown holds free-text dollar ranges ("$200 - $400"). No arithmetic
// is ever performed on these; they are opaque display strings.
type CostBreakdown struct {
	Materials string `json:"materials"`
	Labor     string `json:"labor"`
	Equipment string `json:"equipment"`
	Permits   string `json:"permits"`
	TotalLow  string `json:"totalLow"`
	TotalMid  string `json:"totalMid"`
	TotalHigh string `json:"totalHigh"`
}

// Recommendations is the contractor-facing advice section.
type Recommendations struct {
	PrimaryApproach    string   `json:"primaryApproach"`
	Alternatives       []string `json:"alternatives"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
	RedFlags           []string `json:"redFlags"`
}

// PendingAnalysis is the placeholder written when a lead row is created.
func PendingAnalysis() Analysis {
	return Analysis{
		Kind:    AnalysisPending,
		Message: "Analyzing uploaded photos...",
	}
}

// UnreviewedAnalysis marks a lead with no images to analyze.
func UnreviewedAnalysis() Analysis {
	return Analysis{
		Kind:    AnalysisUnreviewed,
		Message: "No images to analyze. Manual review required.",
	}
}

// FailedAnalysis records a pipeline failure without losing the lead.
func FailedAnalysis(cause error) Analysis {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return Analysis{
		Kind:    AnalysisFailed,
		Error:   "AI analysis failed. Manual review required.",
		Details: details,
	}
}

// ReportAnalysis wraps a normalized report.
func ReportAnalysis(report *Report) Analysis {
	return Analysis{Kind: AnalysisReport, Report: report}
}

// Normalize clamps the report's enum fields to legal values. Downstream
// consumers may assume these fields always hold a legal value, never empty.
func (r *Report) Normalize() {
	r.Condition = normalizeEnum(r.Condition, ConditionUnknown,
		ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor, ConditionCritical, ConditionUnknown)
	r.Urgency = normalizeEnum(r.Urgency, UrgencyNormal,
		UrgencyEmergency, UrgencyHighPriority, UrgencyNormal, UrgencyLowPriority)
	r.Complexity = normalizeEnum(r.Complexity, ComplexityModerate,
		ComplexitySimple, ComplexityModerate, ComplexityComplex)

	if r.SafetyConsiderations == nil {
		r.SafetyConsiderations = []string{}
	}
	if r.Observations == nil {
		r.Observations = []string{}
	}
	if r.Materials.Required == nil {
		r.Materials.Required = []string{}
	}
	if r.Materials.Specialty == nil {
		r.Materials.Specialty = []string{}
	}
	if r.Recommendations.Alternatives == nil {
		r.Recommendations.Alternatives = []string{}
	}
	if r.Recommendations.PreventiveMeasures == nil {
		r.Recommendations.PreventiveMeasures = []string{}
	}
	if r.Recommendations.RedFlags == nil {
		r.Recommendations.RedFlags = []string{}
	}
}

func normalizeEnum(value, fallback string, legal ...string) string {
	for _, candidate := range legal {
		if value == candidate {
			return value
		}
	}
	return fallback
}
