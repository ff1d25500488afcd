package analyzer

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"leadpilot_backend/internal/leads/domain"
)

// rawTextLimit caps how much of an unparseable reply is carried into the
// degraded report's summary.
const rawTextLimit = 500

// ExtractReport parses a model reply into a Report. The reply is expected to
// contain JSON but may wrap it in prose or code fences, so extraction is
// deliberately lenient: strip fence markers, then take the first '{' through
// the last '}' and parse that substring.
//
// ExtractReport never fails. If no JSON can be recovered, it returns a
// degraded report carrying the truncated raw text with safe enum defaults.
// Either way the result is normalized and stamped with totalImages.
func ExtractReport(reply string, totalImages int) *domain.Report {
	report, ok := tryParse(reply)
	if !ok {
		report = degradedReport(reply)
	}

	report.TotalImages = totalImages
	report.Normalize()
	return report
}

func tryParse(reply string) (*domain.Report, bool) {
	cleaned := stripCodeFences(reply)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &report); err != nil {
		return nil, false
	}
	return &report, true
}

func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func degradedReport(reply string) *domain.Report {
	raw := strings.TrimSpace(reply)
	if len(raw) > rawTextLimit {
		// Back off to a rune boundary so the summary stays valid UTF-8.
		cut := rawTextLimit
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}

	return &domain.Report{
		Summary:    raw,
		WhatYouSee: raw,
		Condition:  domain.ConditionUnknown,
		Urgency:    domain.UrgencyNormal,
		Complexity: domain.ComplexityModerate,
	}
}
