package email

import (
	"context"
	"testing"

	"leadpilot_backend/internal/events"

	"github.com/google/uuid"
)

type fakeSender struct {
	received []string
	analyzed []string
}

func (f *fakeSender) SendLeadReceivedEmail(ctx context.Context, toEmail, companyName, customerName, category string, leadID int64) error {
	f.received = append(f.received, toEmail)
	return nil
}

func (f *fakeSender) SendAnalysisReadyEmail(ctx context.Context, toEmail, companyName, customerName, urgency, summary string, leadID int64) error {
	f.analyzed = append(f.analyzed, toEmail)
	return nil
}

type fakeContacts struct{}

func (fakeContacts) Contact(ctx context.Context, companyID uuid.UUID) (string, string, error) {
	return "Apex Plumbing", "info@apex.example", nil
}

func TestNotifierEmailsCompanyContact(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, fakeContacts{})

	err := notifier.onLeadSubmitted(context.Background(), events.LeadSubmitted{
		LeadID:       7,
		CompanyID:    uuid.New(),
		CustomerName: "Dana",
		Category:     "Plumbing",
	})
	if err != nil {
		t.Fatalf("onLeadSubmitted: %v", err)
	}

	err = notifier.onLeadAnalyzed(context.Background(), events.LeadAnalyzed{
		LeadID:       7,
		CompanyID:    uuid.New(),
		CustomerName: "Dana",
		AnalysisKind: "report",
		Urgency:      "Normal",
	})
	if err != nil {
		t.Fatalf("onLeadAnalyzed: %v", err)
	}

	if len(sender.received) != 1 || sender.received[0] != "info@apex.example" {
		t.Fatalf("received = %v, want one mail to info@apex.example", sender.received)
	}
	if len(sender.analyzed) != 1 {
		t.Fatalf("analyzed = %v, want one mail", sender.analyzed)
	}
}

func TestNotifierSkipsUnscopedLeads(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, fakeContacts{})

	err := notifier.onLeadSubmitted(context.Background(), events.LeadSubmitted{
		LeadID:       8,
		CustomerName: "Dana",
	})
	if err != nil {
		t.Fatalf("onLeadSubmitted: %v", err)
	}
	if len(sender.received) != 0 {
		t.Fatalf("unscoped lead should not send mail, got %v", sender.received)
	}
}
