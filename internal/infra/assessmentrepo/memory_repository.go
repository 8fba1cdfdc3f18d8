package assessmentrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jalmitra/rainharvest/internal/domain/assessment"
)

// MemoryRepository provides an in-memory assessment store for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []assessment.Record
	seq     int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create appends the record.
func (r *MemoryRepository) Create(_ context.Context, record assessment.Record) (assessment.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	record.ID = r.seq
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.records = append(r.records, record)
	return record, nil
}

// LatestByUser returns the most recently created record for the user.
func (r *MemoryRepository) LatestByUser(_ context.Context, userID int64) (assessment.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].UserID == userID {
			return r.records[i], true, nil
		}
	}
	return assessment.Record{}, false, nil
}

var _ assessment.Repository = (*MemoryRepository)(nil)
