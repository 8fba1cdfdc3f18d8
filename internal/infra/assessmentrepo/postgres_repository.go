package assessmentrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jalmitra/rainharvest/internal/domain/assessment"
)

// PostgresRepository persists rooftop assessments in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const assessmentColumns = `
	id, user_id, name, dwellers, phone, email,
	roof_area, open_space, roof_type, soil_type,
	address, latitude, longitude, rainfall,
	created_at, updated_at
`

// Create inserts a new assessment row.
func (r *PostgresRepository) Create(ctx context.Context, record assessment.Record) (assessment.Record, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assessments (
			user_id, name, dwellers, phone, email,
			roof_area, open_space, roof_type, soil_type,
			address, latitude, longitude, rainfall
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+assessmentColumns,
		record.UserID, record.Name, record.Dwellers, record.Phone, record.Email,
		record.RoofArea, record.OpenSpace, record.RoofType, record.SoilType,
		record.Address, record.Latitude, record.Longitude, record.Rainfall)
	return scanRecord(row)
}

// LatestByUser returns the most recent assessment for the user.
func (r *PostgresRepository) LatestByUser(ctx context.Context, userID int64) (assessment.Record, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
	if err != nil {
		return assessment.Record{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return assessment.Record{}, false, rows.Err()
	}
	record, err := scanRecord(rows)
	if err != nil {
		return assessment.Record{}, false, err
	}
	return record, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (assessment.Record, error) {
	var record assessment.Record
	var created, updated time.Time
	if err := row.Scan(
		&record.ID, &record.UserID, &record.Name, &record.Dwellers, &record.Phone, &record.Email,
		&record.RoofArea, &record.OpenSpace, &record.RoofType, &record.SoilType,
		&record.Address, &record.Latitude, &record.Longitude, &record.Rainfall,
		&created, &updated,
	); err != nil {
		return assessment.Record{}, err
	}
	record.CreatedAt = created.UTC()
	record.UpdatedAt = updated.UTC()
	return record, nil
}

var _ assessment.Repository = (*PostgresRepository)(nil)
