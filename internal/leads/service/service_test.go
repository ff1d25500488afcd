package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"leadpilot_backend/internal/adapters/storage"
	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/internal/leads/pipeline"
	"leadpilot_backend/internal/leads/repository"
	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeBlobs struct {
	failOn string
}

func (f *fakeBlobs) UploadFile(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (*storage.UploadResult, error) {
	if fileName == f.failOn {
		return nil, fmt.Errorf("upload rejected")
	}
	return &storage.UploadResult{
		FileKey:   folder + "/" + fileName,
		PublicURL: "https://media.example/" + folder + "/" + fileName,
		SizeBytes: size,
	}, nil
}

func (f *fakeBlobs) GenerateDownloadURL(ctx context.Context, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{
		URL:       "https://signed.example/" + fileKey,
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *fakeBlobs) EnsureBucketExists(ctx context.Context) error { return nil }

func (f *fakeBlobs) ValidateContentType(contentType string) error {
	if contentType == "application/x-msdownload" {
		return fmt.Errorf("content type not allowed")
	}
	return nil
}

func (f *fakeBlobs) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes > f.MaxFileSize() {
		return fmt.Errorf("file too large")
	}
	return nil
}

func (f *fakeBlobs) MaxFileSize() int64 { return 1 << 20 }

// memStore implements Store and the pipeline's LeadStore so a submission can
// be driven through analysis entirely in memory.
type memStore struct {
	leads      map[int64]*domain.Lead
	nextID     int64
	lastFilter repository.ListFilter
}

func newMemStore() *memStore {
	return &memStore{leads: make(map[int64]*domain.Lead)}
}

func (m *memStore) Create(_ context.Context, lead *domain.Lead) (int64, error) {
	m.nextID++
	copied := *lead
	copied.ID = m.nextID
	copied.Status = domain.StatusProcessing
	copied.Analysis = domain.PendingAnalysis()
	copied.CreatedAt = time.Now().UTC()
	m.leads[copied.ID] = &copied
	return copied.ID, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*domain.Lead, error) {
	lead, ok := m.leads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *lead
	return &copied, nil
}

func (m *memStore) GetByIDForCompany(ctx context.Context, id int64, companyID uuid.UUID) (*domain.Lead, error) {
	lead, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.CompanyID == nil || *lead.CompanyID != companyID {
		return nil, repository.ErrNotFound
	}
	return lead, nil
}

func (m *memStore) List(_ context.Context, filter repository.ListFilter) ([]*domain.Lead, error) {
	m.lastFilter = filter
	return []*domain.Lead{}, nil
}

func (m *memStore) CountsByStatus(_ context.Context, _ *uuid.UUID) (*repository.StatusCounts, error) {
	return &repository.StatusCounts{ByStatus: make(map[string]int)}, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id int64, status domain.Status, _ *uuid.UUID) error {
	lead, ok := m.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.Status = status
	return nil
}

func (m *memStore) AppendNote(_ context.Context, id int64, _ *uuid.UUID, text string) error {
	lead, ok := m.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.Notes = append(lead.Notes, domain.Note{Text: text, Timestamp: time.Now().UTC()})
	return nil
}

func (m *memStore) CompleteProcessing(_ context.Context, id int64, status domain.Status, analysis domain.Analysis) (bool, error) {
	lead, ok := m.leads[id]
	if !ok || lead.Status != domain.StatusProcessing {
		return false, nil
	}
	lead.Status = status
	lead.Analysis = analysis
	return true, nil
}

type stubVision struct {
	report *domain.Report
}

func (a *stubVision) Analyze(_ context.Context, _ []domain.FileRef, _, _ string, total int) (*domain.Report, error) {
	report := *a.report
	report.TotalImages = total
	report.Normalize()
	return &report, nil
}

func newUpload(name, contentType, content string) Upload {
	return Upload{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func submitInput(files ...Upload) SubmitInput {
	return SubmitInput{
		Name:        "Jan Jansen",
		Email:       "jan@example.com",
		Phone:       "6315550123",
		Category:    "roofing",
		Description: "water coming in near the chimney",
		Files:       files,
	}
}

func TestSubmitThenAdvanceStoresFinalAnalysis(t *testing.T) {
	store := newMemStore()
	svc := New(store, &fakeBlobs{}, nil, nil, logger.New("test"))

	result, err := svc.Submit(context.Background(), submitInput(
		newUpload("roof1.jpg", "image/jpeg", "aaa"),
		newUpload("roof2.jpg", "image/jpeg", "bbb"),
	))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.FilesUploaded != 2 {
		t.Fatalf("expected 2 files uploaded, got %d", result.FilesUploaded)
	}

	stored := store.leads[result.LeadID]
	if stored.Status != domain.StatusProcessing || stored.Analysis.Kind != domain.AnalysisPending {
		t.Fatalf("fresh lead must be processing/pending, got %q/%q", stored.Status, stored.Analysis.Kind)
	}

	vision := &stubVision{report: &domain.Report{Summary: "worn shingles", Urgency: domain.UrgencyHighPriority}}
	pipe := pipeline.New(store, vision, nil, logger.New("test"))
	if err := pipe.Advance(context.Background(), result.LeadID); err != nil {
		t.Fatalf("advance: %v", err)
	}

	final := store.leads[result.LeadID]
	if final.Status != domain.StatusNew {
		t.Fatalf("expected status new, got %q", final.Status)
	}
	if final.Analysis.Kind != domain.AnalysisReport {
		t.Fatalf("expected report analysis, got %q", final.Analysis.Kind)
	}
	if final.Analysis.TotalImages != 2 {
		t.Fatalf("expected totalImages 2, got %d", final.Analysis.TotalImages)
	}
	switch final.Analysis.Urgency {
	case domain.UrgencyEmergency, domain.UrgencyHighPriority, domain.UrgencyNormal, domain.UrgencyLowPriority:
	default:
		t.Fatalf("illegal urgency %q", final.Analysis.Urgency)
	}
}

func TestSubmitRequiresPhotosOrConfirmation(t *testing.T) {
	store := newMemStore()
	svc := New(store, &fakeBlobs{}, nil, nil, logger.New("test"))

	_, err := svc.Submit(context.Background(), submitInput())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error without photos or confirmation, got %v", err)
	}

	input := submitInput()
	input.ConfirmNoPhotos = true
	result, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("confirmed photo-less submit: %v", err)
	}
	if store.leads[result.LeadID].Status != domain.StatusProcessing {
		t.Fatalf("confirmed lead must still enter processing")
	}
}

func TestListScopesAndForwardsFilters(t *testing.T) {
	store := newMemStore()
	svc := New(store, &fakeBlobs{}, nil, nil, logger.New("test"))
	companyID := uuid.New()
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), ListQuery{
		CompanyID: &companyID,
		Status:    "new",
		Category:  "roofing",
		Search:    "leak",
		Since:     &since,
		Limit:     20,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	filter := store.lastFilter
	if filter.CompanyID == nil || *filter.CompanyID != companyID {
		t.Fatalf("company scope not forwarded: %+v", filter)
	}
	if filter.Status == nil || *filter.Status != domain.StatusNew {
		t.Fatalf("status filter not forwarded: %+v", filter)
	}
	if filter.Category != "roofing" || filter.Search != "leak" || filter.Since == nil {
		t.Fatalf("filters not forwarded: %+v", filter)
	}

	if _, err := svc.List(context.Background(), ListQuery{Status: "bogus"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestFileDownloadURLUsesStoredKey(t *testing.T) {
	store := newMemStore()
	svc := New(store, &fakeBlobs{}, nil, nil, logger.New("test"))

	result, err := svc.Submit(context.Background(), submitInput(newUpload("roof.jpg", "image/jpeg", "aaa")))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	presigned, err := svc.FileDownloadURL(context.Background(), result.LeadID, 0, nil)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasSuffix(presigned.FileKey, "roof.jpg") {
		t.Fatalf("unexpected file key %q", presigned.FileKey)
	}
	if !strings.HasPrefix(presigned.URL, "https://signed.example/") {
		t.Fatalf("unexpected presigned URL %q", presigned.URL)
	}

	if _, err := svc.FileDownloadURL(context.Background(), result.LeadID, 5, nil); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for out-of-range index, got %v", err)
	}
}

func TestFileDownloadURLRejectsExternalReferences(t *testing.T) {
	store := newMemStore()
	svc := New(store, &fakeBlobs{}, nil, nil, logger.New("test"))

	input := submitInput()
	input.FileRefs = []domain.FileRef{{URL: "https://elsewhere.example/photo.jpg", Name: "photo.jpg"}}
	result, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.FileDownloadURL(context.Background(), result.LeadID, 0, nil); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for external reference, got %v", err)
	}
}

func TestUploadAllIsolatesFailures(t *testing.T) {
	svc := New(nil, &fakeBlobs{failOn: "broken.jpg"}, nil, nil, logger.New("test"))

	files := svc.uploadAll(context.Background(), []Upload{
		newUpload("roof1.jpg", "image/jpeg", "aaa"),
		newUpload("broken.jpg", "image/jpeg", "bbb"),
		newUpload("roof2.jpg", "image/jpeg", "ccc"),
	})

	if len(files) != 2 {
		t.Fatalf("got %d files, want 2 (failed upload dropped)", len(files))
	}
	if files[0].Name != "roof1.jpg" || files[1].Name != "roof2.jpg" {
		t.Fatalf("order not preserved: %q, %q", files[0].Name, files[1].Name)
	}
	if !strings.HasPrefix(files[0].URL, "https://media.example/") {
		t.Fatalf("unexpected URL %q", files[0].URL)
	}
}

func TestUploadAllRejectsDisallowedContentType(t *testing.T) {
	svc := New(nil, &fakeBlobs{}, nil, nil, logger.New("test"))

	files := svc.uploadAll(context.Background(), []Upload{
		newUpload("setup.exe", "application/x-msdownload", "MZ"),
		newUpload("roof.jpg", "image/jpeg", "aaa"),
	})

	if len(files) != 1 || files[0].Name != "roof.jpg" {
		t.Fatalf("got %v, want only roof.jpg", files)
	}
}

func TestCaptureTimeIgnoresNonPhotoTypes(t *testing.T) {
	if got := captureTime([]byte("not a real image"), "image/png"); got != nil {
		t.Fatalf("png should not be probed for EXIF, got %v", got)
	}
	if got := captureTime([]byte("garbage"), "image/jpeg"); got != nil {
		t.Fatalf("unreadable jpeg should yield nil, got %v", got)
	}
}
