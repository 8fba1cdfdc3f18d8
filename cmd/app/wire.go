//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/jalmitra/rainharvest/internal/bootstrap"
	"github.com/jalmitra/rainharvest/internal/domain/assessment"
	"github.com/jalmitra/rainharvest/internal/domain/auth"
	"github.com/jalmitra/rainharvest/internal/domain/roofai"
	"github.com/jalmitra/rainharvest/internal/infra/config"
	"github.com/jalmitra/rainharvest/internal/infra/gemini"
	"github.com/jalmitra/rainharvest/internal/infra/mlservice"
	httpiface "github.com/jalmitra/rainharvest/internal/interface/http"
	"github.com/jalmitra/rainharvest/pkg/logger"
)

func initializeApp(ctx context.Context) (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRoofAIConfig,
		provideGeminiClient,
		providePredictionClient,
		provideAuthConfig,
		providePostgresPool,
		provideUserRepository,
		provideAssessmentRepository,
		roofai.NewService,
		assessment.NewService,
		auth.NewService,
		wire.Bind(new(roofai.InferenceClient), new(*gemini.Client)),
		wire.Bind(new(assessment.PredictionGateway), new(*mlservice.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
