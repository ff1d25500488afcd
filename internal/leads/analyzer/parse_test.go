package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"leadpilot_backend/internal/leads/domain"
)

func TestExtractReportFromCodeFence(t *testing.T) {
	reply := "Here is my assessment:\n```json\n{\"summary\":\"roof leak near chimney\",\"condition\":\"Poor\",\"urgency\":\"High Priority\",\"complexity\":\"Moderate\"}\n```\nLet me know if you need more detail."

	report := ExtractReport(reply, 3)

	if report.Summary != "roof leak near chimney" {
		t.Fatalf("unexpected summary: %q", report.Summary)
	}
	if report.Condition != domain.ConditionPoor {
		t.Fatalf("unexpected condition: %q", report.Condition)
	}
	if report.TotalImages != 3 {
		t.Fatalf("expected totalImages stamped to 3, got %d", report.TotalImages)
	}
}

func TestExtractReportBracketMatchThroughProse(t *testing.T) {
	reply := `The photos show water damage. {"summary":"water stain","condition":"Fair","urgency":"Normal","complexity":"Simple"} Hope that helps.`

	report := ExtractReport(reply, 1)

	if report.Summary != "water stain" {
		t.Fatalf("expected JSON extracted from prose, got summary %q", report.Summary)
	}
	if report.Urgency != domain.UrgencyNormal {
		t.Fatalf("unexpected urgency: %q", report.Urgency)
	}
}

func TestExtractReportNoJSONDegrades(t *testing.T) {
	reply := "I cannot produce a structured assessment for these photos."

	report := ExtractReport(reply, 2)

	if report.Condition != domain.ConditionUnknown {
		t.Fatalf("expected condition Unknown, got %q", report.Condition)
	}
	if report.Urgency != domain.UrgencyNormal {
		t.Fatalf("expected urgency Normal, got %q", report.Urgency)
	}
	if report.Complexity != domain.ComplexityModerate {
		t.Fatalf("expected complexity Moderate, got %q", report.Complexity)
	}
	if !strings.Contains(report.Summary, "structured assessment") {
		t.Fatalf("expected raw text carried into summary, got %q", report.Summary)
	}
	if report.TotalImages != 2 {
		t.Fatalf("expected totalImages 2, got %d", report.TotalImages)
	}
}

func TestExtractReportTruncatesLongRawText(t *testing.T) {
	reply := strings.Repeat("x", 2000)

	report := ExtractReport(reply, 1)

	if len(report.Summary) != rawTextLimit {
		t.Fatalf("expected summary truncated to %d chars, got %d", rawTextLimit, len(report.Summary))
	}
}

func TestExtractReportTruncatesOnRuneBoundary(t *testing.T) {
	// A multi-byte rune straddles the truncation point.
	reply := strings.Repeat("x", rawTextLimit-1) + "é" + strings.Repeat("x", 1000)

	report := ExtractReport(reply, 1)

	if !utf8.ValidString(report.Summary) {
		t.Fatalf("truncated summary is not valid UTF-8: %q", report.Summary[len(report.Summary)-4:])
	}
	if len(report.Summary) != rawTextLimit-1 {
		t.Fatalf("expected cut backed off to %d bytes, got %d", rawTextLimit-1, len(report.Summary))
	}
}

func TestExtractReportMalformedJSONDegrades(t *testing.T) {
	reply := `{"summary": "unterminated`

	report := ExtractReport(reply, 1)

	if report.Condition != domain.ConditionUnknown {
		t.Fatalf("expected degraded defaults for malformed JSON, got condition %q", report.Condition)
	}
}

func TestExtractReportIllegalEnumsClamped(t *testing.T) {
	reply := `{"summary":"ok","condition":"Awful","urgency":"Right Now","complexity":"Insane"}`

	report := ExtractReport(reply, 1)

	if report.Condition != domain.ConditionUnknown || report.Urgency != domain.UrgencyNormal || report.Complexity != domain.ComplexityModerate {
		t.Fatalf("expected illegal enums clamped, got %q/%q/%q", report.Condition, report.Urgency, report.Complexity)
	}
}
