package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrVoiceNotFound = errors.New("voice not found")
var ErrProjectNotFound = errors.New("project not found")

// VoiceSample — one uploaded audio sample for voice creation.
type VoiceSample struct {
	Filename    string
	ContentType string
	Data        []byte
}

type VoiceService interface {
	Create(ctx context.Context, projectID uuid.UUID, name string, description, label *string, samples []VoiceSample) (Voice, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Voice, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (Voice, error)

	// Delete удаляет локальную запись и best-effort чистит удалённый ресурс.
	// warning непустой, если удалённая очистка не удалась.
	Delete(ctx context.Context, id uuid.UUID) (warning string, err error)

	GetSettings(ctx context.Context, remoteVoiceID string) (map[string]any, error)
	UpdateSettings(ctx context.Context, remoteVoiceID string, settings map[string]any) (map[string]any, error)
}
