package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jalmitra/rainharvest/internal/domain/assessment"
	"github.com/jalmitra/rainharvest/internal/domain/auth"
	"github.com/jalmitra/rainharvest/internal/domain/roofai"
	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	roofSvc       roofai.Service
	assessmentSvc assessment.Service
	authSvc       auth.Service
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(roofSvc roofai.Service, assessmentSvc assessment.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		roofSvc:       roofSvc,
		assessmentSvc: assessmentSvc,
		authSvc:       authSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Signup registers a new account and returns tokens immediately.
func (h *Handler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Signup(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, authHTTPError(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login exchanges credentials for tokens.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, authHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, authHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, authHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// AnalyzeRoof runs the multimodal rooftop analysis. The response body shapes
// are part of the frontend contract and are written directly here rather than
// going through the generic error envelope.
func (h *Handler) AnalyzeRoof(c *gin.Context) {
	var req roofai.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.roofSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		h.writeInferenceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RoofChat answers a follow-up conversation grounded in a prior analysis.
func (h *Handler) RoofChat(c *gin.Context) {
	var req roofai.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.roofSvc.Chat(c.Request.Context(), req)
	if err != nil {
		h.writeInferenceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *Handler) writeInferenceError(c *gin.Context, err error) {
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		c.JSON(http.StatusBadRequest, gin.H{"error": appMessage(err)})
	case apperrors.IsCode(err, "ai_not_configured"):
		h.logger.Error("inference unavailable", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server missing Google Gemini API key"})
	case apperrors.IsCode(err, "upstream_ai"):
		h.logger.Error("upstream inference failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream AI error", "detail": upstreamDetail(err)})
	default:
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "inference_failed", errMessage(err), err))
	}
}

// SaveAssessment persists the submitted assessment form for the caller.
func (h *Handler) SaveAssessment(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	var req assessment.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	record, err := h.assessmentSvc.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "save_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusCreated, record)
}

// LatestAssessment returns the caller's newest assessment enriched with
// prediction numbers. Prediction failures degrade to a 502 that still carries
// zeroed numeric fields so the UI can render partial data.
func (h *Handler) LatestAssessment(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
		return
	}

	enriched, err := h.assessmentSvc.Latest(c.Request.Context(), claims.UserID)
	if err != nil {
		if apperrors.IsCode(err, "not_found") {
			c.JSON(http.StatusNotFound, gin.H{"message": "No assessment found"})
			return
		}
		if body, ok := degradedPredictionBody(err); ok {
			h.logger.Warn("prediction degraded", "user_id", claims.UserID, "error", err)
			c.JSON(http.StatusBadGateway, body)
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "assessment_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, enriched)
}

var predictionErrorCodes = []string{
	"prediction_not_configured",
	"prediction_timeout",
	"prediction_unreachable",
	"prediction_bad_status",
	"prediction_malformed",
}

// degradedPredictionBody maps a prediction failure onto the degraded 502
// contract: a message, optional upstream status and detail, and all four
// numeric fields zeroed.
func degradedPredictionBody(err error) (gin.H, bool) {
	matched := false
	for _, code := range predictionErrorCodes {
		if apperrors.IsCode(err, code) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, false
	}

	body := gin.H{
		"message":          "Prediction service unavailable",
		"details":          appMessage(err),
		"potentialHarvest": 0,
		"tankVolume":       0,
		"efficiency":       0,
		"inertia":          0,
	}
	var statusErr *assessment.PredictionStatusError
	if errors.As(err, &statusErr) {
		body["status"] = statusErr.Status
		body["details"] = statusErr.Body
	}
	return body, true
}

// appMessage returns the domain-level message without the wrapped cause.
func appMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return errMessage(err)
}

// upstreamDetail surfaces the vendor's own message when one was captured.
func upstreamDetail(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return errMessage(err)
}

func authHTTPError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "auth_failed"
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "email_exists"):
		status = http.StatusConflict
		code = "email_exists"
	case apperrors.IsCode(err, "invalid_credentials"):
		status = http.StatusUnauthorized
		code = "invalid_credentials"
	case apperrors.IsCode(err, "invalid_token"):
		status = http.StatusUnauthorized
		code = "invalid_token"
	case apperrors.IsCode(err, "user_not_found"):
		status = http.StatusNotFound
		code = "user_not_found"
	}
	return NewHTTPError(status, code, appMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
