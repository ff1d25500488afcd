package pipeline

import (
	"context"
	"errors"
	"testing"

	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/platform/logger"
)

type fakeStore struct {
	leads  map[int64]*domain.Lead
	writes int
}

func newFakeStore(leads ...*domain.Lead) *fakeStore {
	store := &fakeStore{leads: make(map[int64]*domain.Lead)}
	for _, lead := range leads {
		store.leads[lead.ID] = lead
	}
	return store
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.Lead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *lead
	return &copied, nil
}

func (s *fakeStore) CompleteProcessing(_ context.Context, id int64, status domain.Status, analysis domain.Analysis) (bool, error) {
	lead, ok := s.leads[id]
	if !ok || lead.Status != domain.StatusProcessing {
		return false, nil
	}
	lead.Status = status
	lead.Analysis = analysis
	s.writes++
	return true, nil
}

type fakeAnalyzer struct {
	calls     int
	gotImages int
	gotTotal  int
	report    *domain.Report
	err       error
}

func (a *fakeAnalyzer) Analyze(_ context.Context, images []domain.FileRef, _, _ string, total int) (*domain.Report, error) {
	a.calls++
	a.gotImages = len(images)
	a.gotTotal = total
	if a.err != nil {
		return nil, a.err
	}
	report := *a.report
	report.TotalImages = total
	report.Normalize()
	return &report, nil
}

func processingLead(id int64, files ...domain.FileRef) *domain.Lead {
	return &domain.Lead{
		ID:          id,
		Status:      domain.StatusProcessing,
		Category:    "roofing",
		Description: "leak",
		Files:       files,
		Analysis:    domain.PendingAnalysis(),
	}
}

func imageFile(name string) domain.FileRef {
	return domain.FileRef{URL: "https://cdn/" + name, Name: name, MIMEType: "image/jpeg"}
}

func newPipeline(store *fakeStore, vision *fakeAnalyzer) *Pipeline {
	return New(store, vision, nil, logger.New("development"))
}

func TestAdvanceIdempotent(t *testing.T) {
	store := newFakeStore(processingLead(1, imageFile("a.jpg")))
	vision := &fakeAnalyzer{report: &domain.Report{Summary: "ok"}}
	p := newPipeline(store, vision)

	if err := p.Advance(context.Background(), 1); err != nil {
		t.Fatalf("first advance: %v", err)
	}
	if err := p.Advance(context.Background(), 1); err != nil {
		t.Fatalf("second advance: %v", err)
	}

	if store.writes != 1 {
		t.Fatalf("expected exactly one write, got %d", store.writes)
	}
	if vision.calls != 1 {
		t.Fatalf("expected one analyzer call, got %d", vision.calls)
	}
	if store.leads[1].Status != domain.StatusNew {
		t.Fatalf("expected status new, got %q", store.leads[1].Status)
	}
}

func TestAdvanceImageCapDiscipline(t *testing.T) {
	store := newFakeStore(processingLead(2,
		imageFile("1.jpg"), imageFile("2.jpg"), imageFile("3.jpg"), imageFile("4.jpg"), imageFile("5.jpg")))
	vision := &fakeAnalyzer{report: &domain.Report{Summary: "ok"}}
	p := newPipeline(store, vision)

	if err := p.Advance(context.Background(), 2); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if vision.gotImages != 1 {
		t.Fatalf("expected analyzer called with exactly 1 image, got %d", vision.gotImages)
	}
	if vision.gotTotal != 5 {
		t.Fatalf("expected totalImageCount 5, got %d", vision.gotTotal)
	}

	stored := store.leads[2].Analysis
	if stored.Kind != domain.AnalysisReport {
		t.Fatalf("expected report analysis, got %q", stored.Kind)
	}
	if stored.TotalImages != 5 {
		t.Fatalf("expected stored totalImages 5, got %d", stored.TotalImages)
	}
}

func TestAdvanceNoImagesTerminal(t *testing.T) {
	store := newFakeStore(processingLead(3,
		domain.FileRef{URL: "https://cdn/walkthrough.mp4", Name: "walkthrough.mp4", MIMEType: "video/mp4"}))
	vision := &fakeAnalyzer{report: &domain.Report{}}
	p := newPipeline(store, vision)

	if err := p.Advance(context.Background(), 3); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if vision.calls != 0 {
		t.Fatalf("expected no analyzer call for image-less lead")
	}
	lead := store.leads[3]
	if lead.Status != domain.StatusNew {
		t.Fatalf("expected status new, got %q", lead.Status)
	}
	if lead.Analysis.Kind != domain.AnalysisUnreviewed {
		t.Fatalf("expected unreviewed analysis, got %q", lead.Analysis.Kind)
	}
}

func TestAdvanceAnalyzerFailureNeverStrandsLead(t *testing.T) {
	store := newFakeStore(processingLead(4, imageFile("a.jpg")))
	vision := &fakeAnalyzer{err: errors.New("connection refused")}
	p := newPipeline(store, vision)

	if err := p.Advance(context.Background(), 4); err != nil {
		t.Fatalf("analyzer failure must not fail advance: %v", err)
	}

	lead := store.leads[4]
	if lead.Status != domain.StatusNew {
		t.Fatalf("expected status new after failure, got %q", lead.Status)
	}
	if lead.Analysis.Kind != domain.AnalysisFailed || lead.Analysis.Error == "" {
		t.Fatalf("expected failed analysis with error set, got %+v", lead.Analysis)
	}
	if lead.Analysis.Details != "connection refused" {
		t.Fatalf("expected failure details preserved, got %q", lead.Analysis.Details)
	}
}

func TestAdvanceMixedMediaPicksFirstImage(t *testing.T) {
	store := newFakeStore(processingLead(5,
		domain.FileRef{URL: "https://cdn/tour.mov", Name: "tour.mov", MIMEType: "video/quicktime"},
		imageFile("first.jpg"),
		imageFile("second.jpg")))
	vision := &fakeAnalyzer{report: &domain.Report{Summary: "ok"}}
	p := newPipeline(store, vision)

	if err := p.Advance(context.Background(), 5); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if vision.gotImages != 1 || vision.gotTotal != 2 {
		t.Fatalf("expected 1 image of 2 total, got %d of %d", vision.gotImages, vision.gotTotal)
	}
}
