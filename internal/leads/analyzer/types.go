// Package analyzer provides the HTTP client for the vision model that
// assesses lead photos, plus the lenient parser that turns the model's
// free-text reply into a structured report.
package analyzer

import (
	"context"

	"leadpilot_backend/internal/leads/domain"
)

// Analyzer assesses a bounded set of lead images. Implementations must
// return an error only for transport or auth failures; an unparseable model
// reply is downgraded to a best-effort report, never an error.
type Analyzer interface {
	Analyze(ctx context.Context, images []domain.FileRef, category, description string, totalImageCount int) (*domain.Report, error)
}

// maxImagesPerCall bounds how many images one model call may carry.
const maxImagesPerCall = 4

// Anthropic Messages API wire types.

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []wireMessage `json:"messages"`
}

type wireMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type messagesResponse struct {
	Content []responseBlock `json:"content"`
}

type responseBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
