package infra

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

type projectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) ports.ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`,
		id,
	).Scan(&exists)
	return exists, err
}
