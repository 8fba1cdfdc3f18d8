package gemini

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	genai "google.golang.org/genai"

	"github.com/jalmitra/rainharvest/internal/domain/roofai"
	"github.com/jalmitra/rainharvest/internal/infra/config"
	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
	"github.com/jalmitra/rainharvest/pkg/metrics"
)

// fallbackInstruction is sent when the conversation does not end on a user
// turn but the model still has to answer something.
const fallbackInstruction = "Provide guidance based on context."

// Client is a thin wrapper around the official genai client. It performs one
// API call per invocation; failure policy lives with the callers.
//
// A Client built without an API key stays usable: every call reports
// ai_not_configured so the rest of the service keeps serving traffic.
type Client struct {
	cli    *genai.Client
	model  string
	logger *slog.Logger
}

// NewClient constructs the Gemini transport.
func NewClient(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*Client, error) {
	log := logger.With("component", "gemini.client")
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn("GOOGLE_API_KEY (or GEMINI_API_KEY) not set, AI endpoints will return 500 until configured")
		return &Client{model: cfg.Model, logger: log}, nil
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{cli: cli, model: cfg.Model, logger: log}, nil
}

// AnalyzeImage sends the image bytes and the analysis prompt as two parts of
// a single turn and returns the model's raw text output.
func (c *Client) AnalyzeImage(ctx context.Context, image roofai.DecodedImage, prompt string) (string, error) {
	if c.cli == nil {
		return "", errNotConfigured()
	}

	data, err := decodePayload(image.Payload)
	if err != nil {
		return "", apperrors.Wrap("invalid_input", "image payload is not valid base64", err)
	}

	parts := []*genai.Part{
		{Text: prompt},
		{InlineData: &genai.Blob{Data: data, MIMEType: image.MIMEType}},
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model, []*genai.Content{{Parts: parts}}, nil)
	if err != nil {
		return "", apperrors.Wrap("upstream_ai", "gemini analysis request failed", err)
	}
	return c.extractText(resp, "analyze")
}

// Chat replays the conversation up to the final user turn as history and
// sends that turn's content as the live message. Conversations that do not
// end with a user turn get the fixed fallback instruction instead.
func (c *Client) Chat(ctx context.Context, systemInstruction string, history []roofai.Turn) (string, error) {
	if c.cli == nil {
		return "", errNotConfigured()
	}

	prior := history
	live := fallbackInstruction
	if n := len(history); n > 0 && history[n-1].Role == roofai.RoleUser {
		live = history[n-1].Text
		prior = history[:n-1]
	}

	contents := make([]*genai.Content, 0, len(prior)+1)
	for _, turn := range prior {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  roofai.RoleUser,
		Parts: []*genai.Part{{Text: live}},
	})

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", apperrors.Wrap("upstream_ai", "gemini chat request failed", err)
	}
	return c.extractText(resp, "chat")
}

func (c *Client) extractText(resp *genai.GenerateContentResponse, op string) (string, error) {
	c.logUsage(resp, op)
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperrors.Wrap("upstream_ai", "gemini returned no candidates", nil)
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func (c *Client) logUsage(resp *genai.GenerateContentResponse, op string) {
	if resp.UsageMetadata == nil {
		return
	}
	usage := metrics.TokenUsage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
	if usage.IsZero() {
		return
	}
	c.logger.Info("gemini tokens", "op", op, "prompt", usage.PromptTokens, "completion", usage.CompletionTokens, "total", usage.TotalTokens)
}

func errNotConfigured() error {
	return apperrors.Wrap("ai_not_configured", "Server missing Google Gemini API key", nil)
}

// decodePayload accepts both padded and unpadded base64.
func decodePayload(payload string) ([]byte, error) {
	trimmed := strings.TrimSpace(payload)
	if data, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(trimmed, "="))
}

var _ roofai.InferenceClient = (*Client)(nil)
