package ports

import (
	"context"

	"github.com/google/uuid"
)

// Voice — local metadata row referencing a remote voice resource.
type Voice struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	VoiceID     string    `json:"voice_id"`
	Label       *string   `json:"label"`
	ProjectID   uuid.UUID `json:"project_id"`
}

// VoiceRepo — Postgres repository for voices.
type VoiceRepo interface {
	Create(ctx context.Context, v Voice) (Voice, error)
	GetByID(ctx context.Context, id uuid.UUID) (Voice, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Voice, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (Voice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepo interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
