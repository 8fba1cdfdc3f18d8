package assessment

import "context"

// Repository abstracts assessment persistence.
type Repository interface {
	Create(ctx context.Context, record Record) (Record, error)
	LatestByUser(ctx context.Context, userID int64) (Record, bool, error)
}

// PredictionGateway invokes the external prediction service. One attempt per
// call; failures come back as coded errors, never fabricated numbers.
type PredictionGateway interface {
	Predict(ctx context.Context, query PredictionQuery) (PredictionResult, error)
}
