package voices

import (
	"context"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

// RemoteVoiceClient — операции с голосами на стороне удалённого API.
type RemoteVoiceClient interface {
	AddVoice(ctx context.Context, name string, samples []ports.VoiceSample) (voiceID string, err error)
	DeleteVoice(ctx context.Context, voiceID string) error
	GetVoiceSettings(ctx context.Context, voiceID string) (map[string]any, error)
	UpdateVoiceSettings(ctx context.Context, voiceID string, settings map[string]any) (map[string]any, error)
}
