package media

import (
	"testing"

	"leadpilot_backend/internal/leads/domain"
)

func TestClassifyHEICByMIME(t *testing.T) {
	result := Classify([]domain.FileRef{
		{Name: "photo.HEIC", MIMEType: "image/heic"},
	})
	if len(result.Images) != 1 {
		t.Fatalf("expected HEIC photo classified as image, got %+v", result)
	}
}

func TestClassifyVideoByExtensionFallback(t *testing.T) {
	result := Classify([]domain.FileRef{
		{Name: "clip.mov", MIMEType: ""},
	})
	if len(result.Videos) != 1 {
		t.Fatalf("expected .mov with empty MIME classified as video, got %+v", result)
	}
}

func TestClassifyPDFIsOther(t *testing.T) {
	result := Classify([]domain.FileRef{
		{Name: "doc.pdf", MIMEType: "application/pdf"},
	})
	if len(result.Other) != 1 || len(result.Images) != 0 || len(result.Videos) != 0 {
		t.Fatalf("expected pdf in other bucket, got %+v", result)
	}
}

func TestClassifyPreservesOrder(t *testing.T) {
	result := Classify([]domain.FileRef{
		{Name: "b.png", MIMEType: "image/png"},
		{Name: "a.jpg", MIMEType: ""},
		{Name: "c.webp", MIMEType: "image/webp"},
	})
	if len(result.Images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(result.Images))
	}
	if result.Images[0].Name != "b.png" || result.Images[1].Name != "a.jpg" {
		t.Fatalf("image order not preserved: %+v", result.Images)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	result := Classify(nil)
	if result.Images == nil || result.Videos == nil || result.Other == nil {
		t.Fatalf("expected empty, non-nil buckets")
	}
	if len(result.Images)+len(result.Videos)+len(result.Other) != 0 {
		t.Fatalf("expected all buckets empty")
	}
}

func TestClassifyCaseInsensitiveExtension(t *testing.T) {
	result := Classify([]domain.FileRef{
		{Name: "IMG_0001.JPG", MIMEType: ""},
	})
	if len(result.Images) != 1 {
		t.Fatalf("expected uppercase .JPG classified as image, got %+v", result)
	}
}
