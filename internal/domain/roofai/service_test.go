package roofai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
)

func newTestService(client InferenceClient) *service {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	return &service{
		cfg:    Config{Model: "gemini-1.5-flash", Timeout: time.Second},
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time {
			calls++
			return base.Add(time.Duration(calls-1) * 150 * time.Millisecond)
		},
	}
}

func TestAnalyzeMissingImage(t *testing.T) {
	svc := newTestService(&stubInferenceClient{})
	_, err := svc.Analyze(context.Background(), AnalyzeRequest{})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestAnalyzeSuccess(t *testing.T) {
	stub := &stubInferenceClient{
		analyzeReply: `{"quality":"Good","score":78,"captureQuality":"High","runoffPotential":"High","areaEstimate":95,"notes":["flat surface"],"recommendations":["add first-flush diverter"],"summary":"Good candidate."}`,
	}
	svc := newTestService(stub)

	result, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: "data:image/png;base64,AAAA", Filename: "roof.png"})
	require.NoError(t, err)
	require.Equal(t, QualityGood, result.Quality)
	require.Equal(t, 78, result.Score)
	require.Equal(t, 1, stub.analyzeCalls)
	require.Equal(t, "AAAA", stub.lastImage.Payload)
	require.Equal(t, "image/png", stub.lastImage.MIMEType)
	require.Contains(t, stub.lastPrompt, "90-100")
	require.Contains(t, stub.lastPrompt, "no markdown fencing")
}

func TestAnalyzeMalformedReplyStillSucceeds(t *testing.T) {
	svc := newTestService(&stubInferenceClient{analyzeReply: "I could not produce JSON, sorry."})

	result, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: "AAAA"})
	require.NoError(t, err)
	require.Equal(t, fallbackAnalysis(), result)
}

func TestAnalyzeUpstreamErrorPropagates(t *testing.T) {
	upstream := apperrors.Wrap("upstream_ai", "gemini request failed", errors.New("quota exceeded"))
	svc := newTestService(&stubInferenceClient{err: upstream})

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: "AAAA"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "upstream_ai"))
}

func TestChatMissingMessages(t *testing.T) {
	svc := newTestService(&stubInferenceClient{})
	_, err := svc.Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestChatWithoutAnalysisUsesSentinel(t *testing.T) {
	stub := &stubInferenceClient{chatReply: "Upload an image first."}
	svc := newTestService(stub)

	reply, err := svc.Chat(context.Background(), ChatRequest{
		Messages: []ChatTurn{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)
	require.Equal(t, "Upload an image first.", reply.Reply)
	require.Equal(t, "gemini-1.5-flash", reply.Model)
	require.Equal(t, int64(150), reply.LatencyMs)

	require.Len(t, stub.lastHistory, 2)
	require.Equal(t, RoleUser, stub.lastHistory[0].Role)
	require.Equal(t, "No analysis context yet.", stub.lastHistory[0].Text)
	require.Equal(t, RoleUser, stub.lastHistory[1].Role)
	require.Equal(t, "hello", stub.lastHistory[1].Text)
}

func TestChatAnalysisContextRendered(t *testing.T) {
	area := 140
	stub := &stubInferenceClient{chatReply: "ok"}
	svc := newTestService(stub)

	_, err := svc.Chat(context.Background(), ChatRequest{
		Messages: []ChatTurn{{Role: "user", Content: "how good is my roof?"}},
		Analysis: &RoofAnalysisResult{
			Quality:         QualityGood,
			Score:           81,
			CaptureQuality:  CaptureHigh,
			RunoffPotential: RunoffHigh,
			AreaEstimate:    &area,
			Notes:           []string{"clean", "sloped"},
			Recommendations: []string{"add mesh"},
		},
	})
	require.NoError(t, err)

	block := stub.lastHistory[0].Text
	require.Contains(t, block, "Roof Analysis Context:")
	require.Contains(t, block, "Score: 81")
	require.Contains(t, block, "Quality: Good")
	require.Contains(t, block, "Area Estimate: 140 m^2")
	require.Contains(t, block, "Observations: clean; sloped")
	require.Contains(t, block, "Recommendations: add mesh")
}

func TestChatNilAreaRendersNA(t *testing.T) {
	stub := &stubInferenceClient{chatReply: "ok"}
	svc := newTestService(stub)

	_, err := svc.Chat(context.Background(), ChatRequest{
		Messages: []ChatTurn{{Role: "user", Content: "hi"}},
		Analysis: &RoofAnalysisResult{Quality: QualityModerate, Score: 60},
	})
	require.NoError(t, err)
	require.Contains(t, stub.lastHistory[0].Text, "Area Estimate: N/A m^2")
}

func TestChatRolesCollapsed(t *testing.T) {
	stub := &stubInferenceClient{chatReply: "ok"}
	svc := newTestService(stub)

	_, err := svc.Chat(context.Background(), ChatRequest{
		Messages: []ChatTurn{
			{Role: "system", Content: "sneaky"},
			{Role: "assistant", Content: "earlier answer"},
			{Role: "user", Content: "question"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, RoleUser, stub.lastHistory[1].Role)
	require.Equal(t, RoleModel, stub.lastHistory[2].Role)
	require.Equal(t, RoleUser, stub.lastHistory[3].Role)
	require.Equal(t, systemPrompt, stub.lastSystem)
}

func TestChatEmptyReplyPlaceholder(t *testing.T) {
	svc := newTestService(&stubInferenceClient{chatReply: "  "})

	reply, err := svc.Chat(context.Background(), ChatRequest{
		Messages: []ChatTurn{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Equal(t, "(Empty response)", reply.Reply)
}

type stubInferenceClient struct {
	analyzeReply string
	chatReply    string
	err          error

	analyzeCalls int
	lastImage    DecodedImage
	lastPrompt   string
	lastSystem   string
	lastHistory  []Turn
}

func (s *stubInferenceClient) AnalyzeImage(_ context.Context, image DecodedImage, prompt string) (string, error) {
	s.analyzeCalls++
	s.lastImage = image
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.analyzeReply, nil
}

func (s *stubInferenceClient) Chat(_ context.Context, systemInstruction string, history []Turn) (string, error) {
	s.lastSystem = systemInstruction
	s.lastHistory = history
	if s.err != nil {
		return "", s.err
	}
	return s.chatReply, nil
}
