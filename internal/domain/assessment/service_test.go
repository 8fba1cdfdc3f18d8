package assessment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jalmitra/rainharvest/pkg/errors"
)

func newTestService(repo Repository, gateway PredictionGateway) Service {
	return NewService(repo, gateway, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSaveStoresRecord(t *testing.T) {
	repo := &stubRepository{}
	svc := newTestService(repo, &stubGateway{})

	saved, err := svc.Save(context.Background(), 7, SaveRequest{
		Name:     "Asha",
		RoofArea: "120",
		RoofType: "concrete",
		SoilType: "loamy",
		Rainfall: "850.5",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), saved.UserID)
	require.Equal(t, "120", saved.RoofArea)
	require.Equal(t, 1, repo.createCalls)
}

func TestLatestNotFound(t *testing.T) {
	svc := newTestService(&stubRepository{}, &stubGateway{})

	_, err := svc.Latest(context.Background(), 1)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestLatestEnriched(t *testing.T) {
	repo := &stubRepository{
		latest: Record{ID: 3, UserID: 1, RoofArea: "120", RoofType: "concrete", SoilType: "loamy", Rainfall: "850.5"},
		found:  true,
	}
	gateway := &stubGateway{
		result: PredictionResult{PotentialHarvest: 1200, TankVolume: 300, Efficiency: 0.8, Inertia: 0.1},
	}
	svc := newTestService(repo, gateway)

	enriched, err := svc.Latest(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(3), enriched.ID)
	require.Equal(t, 1200.0, enriched.PotentialHarvest)
	require.Equal(t, 300.0, enriched.TankVolume)

	require.Equal(t, 120.0, gateway.lastQuery.RoofArea)
	require.Equal(t, "concrete", gateway.lastQuery.RoofType)
	require.Equal(t, "loamy", gateway.lastQuery.SoilType)
	require.Equal(t, 850.5, gateway.lastQuery.AnnualRainfall)
}

func TestLatestPredictionErrorPropagates(t *testing.T) {
	repo := &stubRepository{latest: Record{ID: 3, UserID: 1}, found: true}
	gateway := &stubGateway{err: apperrors.Wrap("prediction_timeout", "prediction service timed out", nil)}
	svc := newTestService(repo, gateway)

	_, err := svc.Latest(context.Background(), 1)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "prediction_timeout"))
}

func TestPredictionQueryUnparseableNumbers(t *testing.T) {
	record := Record{RoofArea: "about 120", Rainfall: ""}
	query := record.PredictionQuery()
	require.Equal(t, 0.0, query.RoofArea)
	require.Equal(t, 0.0, query.AnnualRainfall)
}

func TestEnrichMergesAllFields(t *testing.T) {
	record := Record{ID: 9, Name: "Asha", Address: "Pune"}
	prediction := PredictionResult{PotentialHarvest: 5, TankVolume: 6, Efficiency: 7, Inertia: 8}

	enriched := Enrich(record, prediction)
	require.Equal(t, record, enriched.Record)
	require.Equal(t, prediction, enriched.PredictionResult)
}

type stubRepository struct {
	latest      Record
	found       bool
	err         error
	createCalls int
}

func (s *stubRepository) Create(_ context.Context, record Record) (Record, error) {
	s.createCalls++
	if s.err != nil {
		return Record{}, s.err
	}
	record.ID = int64(s.createCalls)
	return record, nil
}

func (s *stubRepository) LatestByUser(_ context.Context, _ int64) (Record, bool, error) {
	return s.latest, s.found, s.err
}

type stubGateway struct {
	result    PredictionResult
	err       error
	lastQuery PredictionQuery
}

func (s *stubGateway) Predict(_ context.Context, query PredictionQuery) (PredictionResult, error) {
	s.lastQuery = query
	if s.err != nil {
		return PredictionResult{}, s.err
	}
	return s.result, nil
}
