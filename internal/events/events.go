// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadpilot_backend/platform/events"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadSubmitted is published when a homeowner submits the public intake form.
type LeadSubmitted struct {
	BaseEvent
	LeadID        int64     `json:"leadId"`
	CompanyID     uuid.UUID `json:"companyId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	Category      string    `json:"category"`
	ImageCount    int       `json:"imageCount"`
	VideoCount    int       `json:"videoCount"`
}

func (e LeadSubmitted) EventName() string { return "leads.lead.submitted" }

// LeadAnalyzed is published when the analysis pipeline finishes a lead,
// regardless of whether the run produced a report, a skip, or a failure.
type LeadAnalyzed struct {
	BaseEvent
	LeadID       int64     `json:"leadId"`
	CompanyID    uuid.UUID `json:"companyId"`
	CustomerName string    `json:"customerName"`
	AnalysisKind string    `json:"analysisKind"`
	Urgency      string    `json:"urgency,omitempty"`
	Summary      string    `json:"summary,omitempty"`
}

func (e LeadAnalyzed) EventName() string { return "leads.lead.analyzed" }

// =============================================================================
// Companies Domain Events
// =============================================================================

// CompanyCreated is published when an admin provisions a new contractor company.
type CompanyCreated struct {
	BaseEvent
	CompanyID    uuid.UUID `json:"companyId"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contactEmail"`
}

func (e CompanyCreated) EventName() string { return "companies.company.created" }
