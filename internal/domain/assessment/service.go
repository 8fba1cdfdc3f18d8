package assessment

import (
	"context"
	"log/slog"

	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
)

// Service exposes assessment workflows.
type Service interface {
	Save(ctx context.Context, userID int64, req SaveRequest) (Record, error)
	Latest(ctx context.Context, userID int64) (Enriched, error)
}

type service struct {
	repo    Repository
	gateway PredictionGateway
	logger  *slog.Logger
}

// NewService wires up the assessment domain.
func NewService(repo Repository, gateway PredictionGateway, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		gateway: gateway,
		logger:  logger.With("component", "assessment.service"),
	}
}

func (s *service) Save(ctx context.Context, userID int64, req SaveRequest) (Record, error) {
	record := Record{
		UserID:    userID,
		Name:      req.Name,
		Dwellers:  req.Dwellers,
		Phone:     req.Phone,
		Email:     req.Email,
		RoofArea:  req.RoofArea,
		OpenSpace: req.OpenSpace,
		RoofType:  req.RoofType,
		SoilType:  req.SoilType,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Rainfall:  req.Rainfall,
	}
	saved, err := s.repo.Create(ctx, record)
	if err != nil {
		return Record{}, apperrors.Wrap("storage_error", "failed to save assessment", err)
	}
	s.logger.Info("assessment saved", "user_id", userID, "assessment_id", saved.ID)
	return saved, nil
}

// Latest loads the caller's newest assessment and enriches it with numbers
// from the prediction service. Prediction failures propagate as coded errors
// so the transport can attach the degraded zeroed payload.
func (s *service) Latest(ctx context.Context, userID int64) (Enriched, error) {
	record, found, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return Enriched{}, apperrors.Wrap("storage_error", "failed to load assessment", err)
	}
	if !found {
		return Enriched{}, apperrors.Wrap("not_found", "no assessment found for this user", nil)
	}

	prediction, err := s.gateway.Predict(ctx, record.PredictionQuery())
	if err != nil {
		return Enriched{}, err
	}

	s.logger.Info("assessment enriched", "user_id", userID, "assessment_id", record.ID, "potential_harvest", prediction.PotentialHarvest)
	return Enrich(record, prediction), nil
}
