package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/platform/config"
	"leadpilot_backend/platform/logger"
)

const (
	anthropicVersion = "2023-06-01"
	maxTokens        = 2048
)

// Client calls the Anthropic Messages API with lead images and the
// contractor assessment prompt.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	log        *logger.Logger
}

// New creates a vision analyzer client. The HTTP client timeout is the hard
// upper bound on one analysis call; a timeout surfaces as a transport error.
func New(cfg config.VisionConfig, log *logger.Logger) *Client {
	timeout := cfg.GetVisionTimeout()
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.GetVisionAPIBaseURL(), "/"),
		apiKey:     cfg.GetVisionAPIKey(),
		model:      cfg.GetVisionModel(),
		log:        log,
	}
}

// Analyze sends up to four image URLs plus the assessment prompt to the
// model and parses the reply into a report. Transport and auth failures are
// returned as errors; a malformed reply is not an error, it degrades into a
// best-effort report via ExtractReport.
func (c *Client) Analyze(ctx context.Context, images []domain.FileRef, category, description string, totalImageCount int) (*domain.Report, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images provided")
	}
	if len(images) > maxImagesPerCall {
		images = images[:maxImagesPerCall]
	}
	if totalImageCount < len(images) {
		totalImageCount = len(images)
	}

	content := make([]contentBlock, 0, len(images)+1)
	for _, img := range images {
		content = append(content, contentBlock{
			Type:   "image",
			Source: &imageSource{Type: "url", URL: img.URL},
		})
	}
	content = append(content, contentBlock{
		Type: "text",
		Text: buildPrompt(category, description, totalImageCount),
	})

	payload := messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []wireMessage{
			{Role: "user", Content: content},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("vision request failed", "error", err)
		return nil, fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error("vision upstream error", "status", resp.StatusCode, "body", string(snippet))
		return nil, fmt.Errorf("vision API failed: status %d", resp.StatusCode)
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	reply := firstTextBlock(decoded)
	if reply == "" {
		return nil, fmt.Errorf("vision response contained no text content")
	}

	return ExtractReport(reply, totalImageCount), nil
}

func firstTextBlock(resp messagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text
		}
	}
	return ""
}
