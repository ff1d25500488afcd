package repository

import (
	"testing"

	"leadpilot_backend/internal/leads/domain"
)

func TestDecodeJSONColumnNativeObject(t *testing.T) {
	var analysis domain.Analysis
	raw := []byte(`{"kind":"report","summary":"ok","urgency":"Normal","totalImages":2}`)

	if err := decodeJSONColumn(raw, &analysis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Kind != domain.AnalysisReport {
		t.Fatalf("expected report kind, got %q", analysis.Kind)
	}
	if analysis.Report == nil || analysis.TotalImages != 2 {
		t.Fatalf("expected report fields decoded, got %+v", analysis)
	}
}

func TestDecodeJSONColumnDoubleEncodedString(t *testing.T) {
	var analysis domain.Analysis
	// Older writers stored the JSON object as a quoted string.
	raw := []byte(`"{\"kind\":\"failed\",\"error\":\"AI analysis failed. Manual review required.\"}"`)

	if err := decodeJSONColumn(raw, &analysis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Kind != domain.AnalysisFailed || analysis.Error == "" {
		t.Fatalf("expected failed analysis decoded, got %+v", analysis)
	}
}

func TestDecodeJSONColumnEmpty(t *testing.T) {
	var notes []domain.Note
	if err := decodeJSONColumn(nil, &notes); err != nil {
		t.Fatalf("unexpected error for empty column: %v", err)
	}
	if notes != nil {
		t.Fatalf("expected target untouched for empty column")
	}
}

func TestDecodeJSONColumnFileRefs(t *testing.T) {
	var files []domain.FileRef
	raw := []byte(`[{"url":"https://cdn/x.jpg","name":"x.jpg","mimeType":"image/jpeg","sizeBytes":1024}]`)

	if err := decodeJSONColumn(raw, &files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].MIMEType != "image/jpeg" {
		t.Fatalf("unexpected files: %+v", files)
	}
}
