package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jalmitra/rainharvest/internal/domain/assessment"
	"github.com/jalmitra/rainharvest/internal/infra/config"
	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
)

// Client calls the rainfall prediction microservice. One attempt per call,
// bounded by a cancellation deadline; failures carry enough detail for the
// transport layer to produce the degraded 502 contract.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds the gateway. An empty base URL is a configuration error:
// it is reported once here and again per request as prediction_not_configured
// instead of crashing the process.
func NewClient(cfg config.PredictionConfig, logger *slog.Logger) *Client {
	log := logger.With("component", "mlservice.client")
	endpoint := ""
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		endpoint = resolveEndpoint(base)
	} else {
		log.Error("ML_SERVICE_URL not set, assessment enrichment will return 502 until configured")
	}
	return &Client{
		endpoint:   endpoint,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		logger:     log,
	}
}

// resolveEndpoint strips trailing slashes and appends /calculate unless the
// URL already names a known prediction route.
func resolveEndpoint(base string) string {
	trimmed := strings.TrimRight(base, "/")
	lower := strings.ToLower(trimmed)
	if strings.HasSuffix(lower, "/calculate") || strings.HasSuffix(lower, "/predict") {
		return trimmed
	}
	return trimmed + "/calculate"
}

type queryWire struct {
	RoofArea       float64 `json:"roof_area"`
	RoofType       string  `json:"roof_type"`
	SoilType       string  `json:"soil_type"`
	AnnualRainfall float64 `json:"annual_rainfall"`
}

type resultWire struct {
	PotentialHarvest float64 `json:"potential_harvest"`
	TankVolume       float64 `json:"tank_volume"`
	Efficiency       float64 `json:"efficiency"`
	Inertia          float64 `json:"inertia"`
}

// Predict posts the query and maps the reply. Every failure mode returns the
// zero-valued PredictionResult alongside a coded error:
//   - prediction_not_configured: no base URL was configured
//   - prediction_timeout: the deadline fired before a reply arrived
//   - prediction_unreachable: any other transport failure
//   - prediction_bad_status: a non-success HTTP reply (status+body attached)
//   - prediction_malformed: a success reply that was not valid JSON
func (c *Client) Predict(ctx context.Context, query assessment.PredictionQuery) (assessment.PredictionResult, error) {
	if c.endpoint == "" {
		return assessment.PredictionResult{}, apperrors.Wrap("prediction_not_configured", "prediction service is not configured", nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(queryWire{
		RoofArea:       query.RoofArea,
		RoofType:       query.RoofType,
		SoilType:       query.SoilType,
		AnnualRainfall: query.AnnualRainfall,
	})
	if err != nil {
		return assessment.PredictionResult{}, fmt.Errorf("encode prediction query: %w", err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return assessment.PredictionResult{}, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			c.logger.Warn("prediction request timed out", "endpoint", c.endpoint, "timeout", c.timeout)
			return assessment.PredictionResult{}, apperrors.Wrap("prediction_timeout", "prediction service timed out", err)
		}
		c.logger.Warn("prediction request failed", "endpoint", c.endpoint, "error", err)
		return assessment.PredictionResult{}, apperrors.Wrap("prediction_unreachable", "prediction service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Warn("prediction service error", "status", resp.StatusCode, "body", string(body))
		return assessment.PredictionResult{}, apperrors.Wrap("prediction_bad_status", "prediction service returned an error", &assessment.PredictionStatusError{
			Status: resp.StatusCode,
			Body:   string(body),
		})
	}

	var wire resultWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return assessment.PredictionResult{}, apperrors.Wrap("prediction_malformed", "prediction service returned malformed JSON", err)
	}

	return assessment.PredictionResult{
		PotentialHarvest: wire.PotentialHarvest,
		TankVolume:       wire.TankVolume,
		Efficiency:       wire.Efficiency,
		Inertia:          wire.Inertia,
	}, nil
}

var _ assessment.PredictionGateway = (*Client)(nil)
