package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

type usageRepo struct {
	db *sql.DB
}

func NewUsageRepo(db *sql.DB) ports.UsageRepo {
	return &usageRepo{db: db}
}

func (r *usageRepo) Create(ctx context.Context, endpoint, result string, cost int) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO api_logs (endpoint, result, cost, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, endpoint, result, cost, time.Now()).Scan(&id)
	return id, err
}
