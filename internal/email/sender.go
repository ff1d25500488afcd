// Package email delivers contractor notification mail.
package email

import "context"

// Sender delivers the notification emails the lead pipeline produces.
type Sender interface {
	SendLeadReceivedEmail(ctx context.Context, toEmail, companyName, customerName, category string, leadID int64) error
	SendAnalysisReadyEmail(ctx context.Context, toEmail, companyName, customerName, urgency, summary string, leadID int64) error
}

// NoopSender satisfies Sender without delivering anything. Used when SMTP
// is not configured.
type NoopSender struct{}

func (NoopSender) SendLeadReceivedEmail(ctx context.Context, toEmail, companyName, customerName, category string, leadID int64) error {
	return nil
}

func (NoopSender) SendAnalysisReadyEmail(ctx context.Context, toEmail, companyName, customerName, urgency, summary string, leadID int64) error {
	return nil
}

var _ Sender = NoopSender{}
