package roofai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
)

// Service exposes the roof AI orchestration capabilities.
type Service interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (RoofAnalysisResult, error)
	Chat(ctx context.Context, req ChatRequest) (ChatReply, error)
}

// InferenceClient abstracts the generative model transport. Implementations
// perform exactly one upstream call per invocation, no retries.
type InferenceClient interface {
	AnalyzeImage(ctx context.Context, image DecodedImage, prompt string) (string, error)
	Chat(ctx context.Context, systemInstruction string, history []Turn) (string, error)
}

type service struct {
	cfg    Config
	client InferenceClient
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the roof AI domain.
func NewService(cfg Config, client InferenceClient, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "roofai.service"),
		now:    time.Now,
	}
}

func (s *service) Analyze(ctx context.Context, req AnalyzeRequest) (RoofAnalysisResult, error) {
	if strings.TrimSpace(req.Image) == "" {
		return RoofAnalysisResult{}, apperrors.Wrap("invalid_input", "image is required", nil)
	}

	decoded := DecodeImage(req.Image)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	raw, err := s.client.AnalyzeImage(callCtx, decoded, AnalysisPrompt())
	if err != nil {
		return RoofAnalysisResult{}, err
	}

	result := parseAnalysis(raw)
	s.logger.Info("roof analysis completed", "filename", req.Filename, "mime", decoded.MIMEType, "score", result.Score, "quality", result.Quality)
	return result, nil
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (ChatReply, error) {
	if len(req.Messages) == 0 {
		return ChatReply{}, apperrors.Wrap("invalid_input", "messages array required", nil)
	}

	started := s.now()

	// The analysis context rides as the first user turn ahead of the
	// caller-supplied history; the persona travels as system instruction.
	history := make([]Turn, 0, len(req.Messages)+1)
	history = append(history, Turn{Role: RoleUser, Text: buildAnalysisContext(req.Analysis)})
	history = append(history, normalizeHistory(req.Messages)...)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	reply, err := s.client.Chat(callCtx, systemPrompt, history)
	if err != nil {
		return ChatReply{}, err
	}
	if strings.TrimSpace(reply) == "" {
		reply = "(Empty response)"
	}

	latency := s.now().Sub(started).Milliseconds()
	s.logger.Info("roof chat completed", "turns", len(req.Messages), "latency_ms", latency)
	return ChatReply{
		Reply:     reply,
		Model:     s.cfg.Model,
		LatencyMs: latency,
	}, nil
}
