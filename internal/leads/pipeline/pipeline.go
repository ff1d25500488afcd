// Package pipeline owns the lead status lifecycle: one read, one decision,
// one guarded write. Every exit path lands the lead in status new so a
// contractor never loses a lead to a stuck or failed analysis.
package pipeline

import (
	"context"

	"leadpilot_backend/internal/events"
	"leadpilot_backend/internal/leads/analyzer"
	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/internal/leads/media"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadStore is the slice of the repository the pipeline needs.
type LeadStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	CompleteProcessing(ctx context.Context, id int64, status domain.Status, analysis domain.Analysis) (bool, error)
}

// Pipeline advances leads from processing to new.
type Pipeline struct {
	store    LeadStore
	analyzer analyzer.Analyzer
	bus      events.Bus
	log      *logger.Logger
}

func New(store LeadStore, vision analyzer.Analyzer, bus events.Bus, log *logger.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		analyzer: vision,
		bus:      bus,
		log:      log,
	}
}

// Advance drives one lead through analysis. It is idempotent: a lead whose
// status already left processing is a no-op, which makes redundant triggers
// from the enqueue path and the periodic sweep safe. The lead row is read
// once at the start and written at most once at the end.
func (p *Pipeline) Advance(ctx context.Context, leadID int64) error {
	lead, err := p.store.GetByID(ctx, leadID)
	if err != nil {
		return err
	}

	if lead.Status != domain.StatusProcessing {
		p.log.PipelineEvent("advance_noop", leadID, string(lead.Status))
		return nil
	}

	analysis := p.assess(ctx, lead)

	written, err := p.store.CompleteProcessing(ctx, leadID, domain.StatusNew, analysis)
	if err != nil {
		return err
	}
	if !written {
		// Another caller finished this lead between our read and write.
		p.log.PipelineEvent("advance_lost_race", leadID, string(domain.StatusNew))
		return nil
	}

	p.log.PipelineEvent("advance_"+string(analysis.Kind), leadID, string(domain.StatusNew))
	p.publishAnalyzed(ctx, lead, analysis)
	return nil
}

// assess decides the terminal analysis for a lead without touching storage.
// Zero images means manual review; otherwise only the first image goes to
// the model, with the true image count disclosed in the report.
func (p *Pipeline) assess(ctx context.Context, lead *domain.Lead) domain.Analysis {
	classified := media.Classify(lead.Files)

	if len(classified.Images) == 0 {
		return domain.UnreviewedAnalysis()
	}

	report, err := p.analyzer.Analyze(ctx, classified.Images[:1], lead.Category, lead.Description, len(classified.Images))
	if err != nil {
		p.log.WithLead(lead.ID).Error("vision analysis failed", "error", err)
		return domain.FailedAnalysis(err)
	}

	return domain.ReportAnalysis(report)
}

func (p *Pipeline) publishAnalyzed(ctx context.Context, lead *domain.Lead, analysis domain.Analysis) {
	if p.bus == nil {
		return
	}

	event := events.LeadAnalyzed{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		CustomerName: lead.Name,
		AnalysisKind: string(analysis.Kind),
	}
	if lead.CompanyID != nil {
		event.CompanyID = *lead.CompanyID
	} else {
		event.CompanyID = uuid.Nil
	}
	if analysis.Report != nil {
		event.Urgency = analysis.Urgency
		event.Summary = analysis.Summary
	}

	p.bus.Publish(ctx, event)
}
