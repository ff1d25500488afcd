package service

import (
	"context"
	"testing"

	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/logger"
)

func TestCreateRejectsBadSlug(t *testing.T) {
	svc := New(nil, nil, logger.New("test"))

	for _, slug := range []string{"", "Apex Plumbing", "apex_plumbing", "-apex", "apex-", "apéx"} {
		_, err := svc.Create(context.Background(), CreateInput{
			Name:            "Apex Plumbing",
			Slug:            slug,
			Email:           "info@apex.example",
			ContractorName:  "Sam",
			ContractorEmail: "sam@apex.example",
			Password:        "longenough",
		})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("slug %q: got %v, want validation error", slug, err)
		}
	}
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc := New(nil, nil, logger.New("test"))

	_, err := svc.Create(context.Background(), CreateInput{
		Name:            "Apex Plumbing",
		Slug:            "apex-plumbing",
		Email:           "info@apex.example",
		ContractorName:  "Sam",
		ContractorEmail: "sam@apex.example",
		Password:        "short",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}
