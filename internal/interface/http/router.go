package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jalmitra/rainharvest/internal/domain/auth"
	"github.com/jalmitra/rainharvest/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
		errorHandlingMiddleware(logger),
	)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", handler.Signup)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/refresh", handler.Refresh)
			authGroup.GET("/me", authMiddleware(authSvc), handler.Me)
		}

		api.POST("/roof-ai-analyze", handler.AnalyzeRoof)
		api.POST("/roof-ai-chat", handler.RoofChat)

		assessments := api.Group("/assessments", authMiddleware(authSvc))
		{
			assessments.POST("", handler.SaveAssessment)
			assessments.GET("/latest", handler.LatestAssessment)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
