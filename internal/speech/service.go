package speech

import (
	"context"
	"io"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

// === Единый сервис (и для стт и для ттс) ===

type Service struct {
	tts         Synthesizer
	transcriber *Transcriber
}

func NewService(tts Synthesizer, transcriber *Transcriber) *Service {
	return &Service{
		tts:         tts,
		transcriber: transcriber,
	}
}

func (s *Service) Synthesize(ctx context.Context, req SynthesisRequest) (io.ReadCloser, error) {
	return s.tts.Synthesize(ctx, req)
}

func (s *Service) Transcribe(ctx context.Context, in AudioInput, localModel, remoteModel string) (ports.TranscriptionResult, error) {
	return s.transcriber.Transcribe(ctx, in, localModel, remoteModel)
}

func (s *Service) TranscribeBatch(ctx context.Context, ins []AudioInput, localModel, remoteModel string) ([]ports.TranscriptionResult, error) {
	return s.transcriber.TranscribeBatch(ctx, ins, localModel, remoteModel)
}
