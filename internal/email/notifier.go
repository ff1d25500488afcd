package email

import (
	"context"
	"fmt"

	"leadpilot_backend/internal/events"

	"github.com/google/uuid"
)

// ContactResolver looks up the notification address for a company.
// Implemented by the companies service.
type ContactResolver interface {
	Contact(ctx context.Context, companyID uuid.UUID) (name, email string, err error)
}

// Notifier turns lead domain events into contractor email. Leads without a
// company scope have nobody to notify and are skipped.
type Notifier struct {
	sender   Sender
	contacts ContactResolver
}

func NewNotifier(sender Sender, contacts ContactResolver) *Notifier {
	return &Notifier{sender: sender, contacts: contacts}
}

// Register subscribes the notifier to the lead lifecycle events.
func (n *Notifier) Register(bus events.Bus) {
	bus.Subscribe(events.LeadSubmitted{}.EventName(), events.HandlerFunc(n.onLeadSubmitted))
	bus.Subscribe(events.LeadAnalyzed{}.EventName(), events.HandlerFunc(n.onLeadAnalyzed))
}

func (n *Notifier) onLeadSubmitted(ctx context.Context, event events.Event) error {
	submitted, ok := event.(events.LeadSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if submitted.CompanyID == uuid.Nil {
		return nil
	}

	companyName, toEmail, err := n.contacts.Contact(ctx, submitted.CompanyID)
	if err != nil {
		return err
	}

	return n.sender.SendLeadReceivedEmail(ctx, toEmail, companyName, submitted.CustomerName, submitted.Category, submitted.LeadID)
}

func (n *Notifier) onLeadAnalyzed(ctx context.Context, event events.Event) error {
	analyzed, ok := event.(events.LeadAnalyzed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if analyzed.CompanyID == uuid.Nil {
		return nil
	}

	companyName, toEmail, err := n.contacts.Contact(ctx, analyzed.CompanyID)
	if err != nil {
		return err
	}

	return n.sender.SendAnalysisReadyEmail(ctx, toEmail, companyName, analyzed.CustomerName, analyzed.Urgency, analyzed.Summary, analyzed.LeadID)
}
