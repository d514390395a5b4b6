package repository

import (
	"context"

	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

// RecordRepository stores the rows of every resource. Values handed to Insert
// and Replace are already normalised by the service: string, float64, int64,
// bool or nil per field kind. Rows come back with numbers as json.Number and
// password hashes included.
type RecordRepository interface {
	List(ctx context.Context, s domain.Schema) ([]domain.Record, error)
	Get(ctx context.Context, s domain.Schema, id string) (domain.Record, error)
	FindBy(ctx context.Context, s domain.Schema, field, value string) (domain.Record, error)
	Insert(ctx context.Context, s domain.Schema, rec domain.Record) (string, error)
	Replace(ctx context.Context, s domain.Schema, id string, rec domain.Record) error
	Delete(ctx context.Context, s domain.Schema, id string) error
}

type Repository struct {
	Records RecordRepository
}

func New(db *database.DB) *Repository {
	return &Repository{Records: NewSQLRepository(db)}
}

func NewInMemory() *Repository {
	return &Repository{Records: NewMemoryRepository()}
}
