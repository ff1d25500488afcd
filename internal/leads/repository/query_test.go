package repository

import (
	"strings"
	"testing"
	"time"

	"leadpilot_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestBuildListQueryCompanyScoping(t *testing.T) {
	companyID := uuid.New()
	query, args := buildListQuery(ListFilter{CompanyID: &companyID, Limit: 20})

	if !strings.Contains(query, "company_id = $1") {
		t.Fatalf("expected company scope in query, got %q", query)
	}
	if len(args) != 2 || args[0] != companyID {
		t.Fatalf("expected [companyID, limit], got %v", args)
	}
	if args[1] != 20 {
		t.Fatalf("expected limit 20, got %v", args[1])
	}
}

func TestBuildListQueryAdminUnscoped(t *testing.T) {
	query, args := buildListQuery(ListFilter{Limit: 20})

	if strings.Contains(query, "company_id") {
		t.Fatalf("nil company must not scope the query, got %q", query)
	}
	if len(args) != 1 {
		t.Fatalf("expected only the limit arg, got %v", args)
	}
}

func TestBuildListQueryAllFilters(t *testing.T) {
	companyID := uuid.New()
	status := domain.StatusNew
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(0, 0, 7)

	query, args := buildListQuery(ListFilter{
		CompanyID: &companyID,
		Status:    &status,
		Category:  "roofing",
		Search:    "leak",
		Since:     &since,
		Until:     &until,
		Limit:     10,
	})

	for _, clause := range []string{
		"company_id = $1",
		"status = $2",
		"category = $3",
		"name ILIKE $4 OR email ILIKE $4 OR phone ILIKE $4 OR description ILIKE $4",
		"created_at >= $5",
		"created_at <= $6",
		"ORDER BY created_at DESC LIMIT $7",
	} {
		if !strings.Contains(query, clause) {
			t.Fatalf("missing clause %q in %q", clause, query)
		}
	}
	if len(args) != 7 {
		t.Fatalf("expected 7 args, got %d", len(args))
	}
	if args[3] != "%leak%" {
		t.Fatalf("expected wildcarded search term, got %v", args[3])
	}
}

func TestBuildListQueryClampsLimit(t *testing.T) {
	for _, limit := range []int{0, -5, 1000} {
		_, args := buildListQuery(ListFilter{Limit: limit})
		if args[len(args)-1] != 50 {
			t.Fatalf("limit %d should clamp to 50, got %v", limit, args[len(args)-1])
		}
	}
}
