package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jalmitra/rainharvest/internal/domain/assessment"
	"github.com/jalmitra/rainharvest/internal/domain/auth"
	"github.com/jalmitra/rainharvest/internal/domain/roofai"
	"github.com/jalmitra/rainharvest/internal/infra/assessmentrepo"
	"github.com/jalmitra/rainharvest/internal/infra/config"
	"github.com/jalmitra/rainharvest/internal/infra/gemini"
	"github.com/jalmitra/rainharvest/internal/infra/mlservice"
	"github.com/jalmitra/rainharvest/internal/infra/userrepo"
)

func provideRoofAIConfig(cfg *config.Config) roofai.Config {
	return roofai.Config{
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}
}

func provideGeminiClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gemini.Client, error) {
	return gemini.NewClient(ctx, cfg.Gemini, logger)
}

func providePredictionClient(cfg *config.Config, logger *slog.Logger) *mlservice.Client {
	return mlservice.NewClient(cfg.Prediction, logger)
}

func provideAuthConfig(cfg *config.Config, logger *slog.Logger) auth.Config {
	secret := strings.TrimSpace(cfg.Auth.Secret)
	if secret == "" {
		logger.Warn("JWT_SECRET not set, using an insecure development secret")
		secret = "dev-insecure-secret"
	}
	return auth.Config{
		Secret:          secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

// providePostgresPool returns a nil pool when no DSN is configured or the
// database is unreachable; the repository providers then fall back to memory.
func providePostgresPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideAssessmentRepository(pool *pgxpool.Pool) assessment.Repository {
	if pool == nil {
		return assessmentrepo.NewMemoryRepository()
	}
	return assessmentrepo.NewPostgresRepository(pool)
}
