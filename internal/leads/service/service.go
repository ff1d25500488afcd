// Package service implements lead intake and the contractor dashboard
// operations on top of the repository, blob store, and pipeline trigger.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"leadpilot_backend/internal/adapters/storage"
	"leadpilot_backend/internal/events"
	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/internal/leads/media"
	"leadpilot_backend/internal/leads/repository"
	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/logger"
	"leadpilot_backend/platform/phone"
	"leadpilot_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/sync/errgroup"
)

// uploadConcurrency bounds how many files upload to the blob store at once.
const uploadConcurrency = 4

// Enqueuer triggers background analysis after intake. Implemented by the
// asynq client in production and by an in-process runner in dev.
type Enqueuer interface {
	EnqueueLeadAnalyze(ctx context.Context, leadID int64) error
}

// Store is the slice of the lead repository the service uses.
type Store interface {
	Create(ctx context.Context, lead *domain.Lead) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	GetByIDForCompany(ctx context.Context, id int64, companyID uuid.UUID) (*domain.Lead, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*domain.Lead, error)
	CountsByStatus(ctx context.Context, companyID *uuid.UUID) (*repository.StatusCounts, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, companyID *uuid.UUID) error
	AppendNote(ctx context.Context, id int64, companyID *uuid.UUID, text string) error
}

// Upload is one raw file from the intake form.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// SubmitInput carries a validated-at-the-edge intake submission.
type SubmitInput struct {
	CompanyID       *uuid.UUID
	Name            string
	Email           string
	Phone           string
	Category        string
	Description     string
	ConfirmNoPhotos bool
	Files           []Upload
	// FileRefs carries pre-uploaded file references for JSON submissions.
	FileRefs []domain.FileRef
}

// SubmitResult is returned to the customer immediately after the lead row
// commits; analysis continues in the background.
type SubmitResult struct {
	LeadID        int64
	FilesUploaded int
}

type Service struct {
	repo    Store
	blobs   storage.BlobStore
	enqueue Enqueuer
	bus     events.Bus
	log     *logger.Logger
}

func New(repo Store, blobs storage.BlobStore, enqueue Enqueuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		blobs:   blobs,
		enqueue: enqueue,
		bus:     bus,
		log:     log,
	}
}

// Submit validates the submission, uploads files, creates the lead in
// processing, and triggers background analysis. The returned lead id means
// the row is committed; everything after that is the pipeline's problem,
// never the customer's.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	normalizedPhone, err := phone.NormalizeNational(input.Phone)
	if err != nil {
		return nil, apperr.Validation("phone number must contain exactly 10 digits")
	}

	if len(input.Files) == 0 && len(input.FileRefs) == 0 && !input.ConfirmNoPhotos {
		return nil, apperr.Validation("no photos attached; set confirmNoPhotos to submit without photos").
			WithDetails(map[string]string{"field": "confirmNoPhotos"})
	}

	files := append([]domain.FileRef{}, input.FileRefs...)
	uploaded := s.uploadAll(ctx, input.Files)
	files = append(files, uploaded...)

	lead := &domain.Lead{
		CompanyID:   input.CompanyID,
		Name:        strings.TrimSpace(sanitize.Text(input.Name)),
		Email:       strings.TrimSpace(input.Email),
		Phone:       normalizedPhone,
		Category:    strings.TrimSpace(input.Category),
		Description: sanitize.Text(input.Description),
		Files:       files,
	}

	leadID, err := s.repo.Create(ctx, lead)
	if err != nil {
		s.log.DatabaseError("leads.create", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not save your request", err)
	}

	s.publishSubmitted(ctx, leadID, input.CompanyID, lead, files)

	if s.enqueue != nil {
		if err := s.enqueue.EnqueueLeadAnalyze(ctx, leadID); err != nil {
			// The sweep will pick this lead up; the submission already succeeded.
			s.log.WithLead(leadID).Error("enqueue analyze failed", "error", err)
		}
	}

	return &SubmitResult{LeadID: leadID, FilesUploaded: len(uploaded)}, nil
}

// uploadAll pushes files to the blob store in parallel. Each upload fails
// independently: a broken file is logged and dropped, the rest of the
// submission continues. Result order follows input order.
func (s *Service) uploadAll(ctx context.Context, uploads []Upload) []domain.FileRef {
	if len(uploads) == 0 || s.blobs == nil {
		return nil
	}

	results := make([]*domain.FileRef, len(uploads))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)

	for i, upload := range uploads {
		i, upload := i, upload
		g.Go(func() error {
			ref, err := s.uploadOne(gctx, upload)
			if err != nil {
				s.log.Error("file upload failed", "file", upload.Name, "error", err)
				return nil
			}
			mu.Lock()
			results[i] = ref
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	files := make([]domain.FileRef, 0, len(uploads))
	for _, ref := range results {
		if ref != nil {
			files = append(files, *ref)
		}
	}
	return files
}

func (s *Service) uploadOne(ctx context.Context, upload Upload) (*domain.FileRef, error) {
	if err := s.blobs.ValidateContentType(upload.ContentType); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, s.blobs.MaxFileSize()+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := s.blobs.ValidateFileSize(int64(len(data))); err != nil {
		return nil, err
	}

	folder := time.Now().UTC().Format("2006/01")
	result, err := s.blobs.UploadFile(ctx, folder, upload.Name, upload.ContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	return &domain.FileRef{
		URL:        result.PublicURL,
		FileKey:    result.FileKey,
		Name:       upload.Name,
		MIMEType:   upload.ContentType,
		SizeBytes:  result.SizeBytes,
		CapturedAt: captureTime(data, upload.ContentType),
	}, nil
}

// captureTime extracts the EXIF capture timestamp from JPEG/TIFF photos.
// Missing or unreadable metadata is normal for screenshots and edited
// images, so any failure just yields nil.
func captureTime(data []byte, contentType string) *time.Time {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/tiff":
	default:
		return nil
	}

	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	taken, err := meta.DateTime()
	if err != nil {
		return nil
	}
	return &taken
}

func (s *Service) publishSubmitted(ctx context.Context, leadID int64, companyID *uuid.UUID, lead *domain.Lead, files []domain.FileRef) {
	if s.bus == nil {
		return
	}

	classified := media.Classify(files)
	event := events.LeadSubmitted{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        leadID,
		CustomerName:  lead.Name,
		CustomerPhone: lead.Phone,
		Category:      lead.Category,
		ImageCount:    len(classified.Images),
		VideoCount:    len(classified.Videos),
	}
	if companyID != nil {
		event.CompanyID = *companyID
	}

	s.bus.Publish(ctx, event)
}
