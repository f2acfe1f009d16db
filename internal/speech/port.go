package speech

import (
	"context"
	"io"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

// AudioInput — один аудиофайл на расшифровку.
type AudioInput struct {
	Filename string
	Data     []byte
}

// SynthesisRequest — параметры генерации речи.
type SynthesisRequest struct {
	Text         string
	VoiceID      string
	OutputFormat string
	ModelID      string
}

// LocalResult — сырой ответ локального движка (текст + сегменты).
type LocalResult struct {
	Text     string
	Language string
	Segments []ports.TranscriptionSegment
}

type LocalEngine interface {
	Transcribe(ctx context.Context, filePath string) (*LocalResult, error)
}

// EngineLoader — загрузка модели, дорогая операция.
type EngineLoader interface {
	Load(modelName string) (LocalEngine, error)
}

type RemoteSTT interface {
	TranscribeAudio(ctx context.Context, audio []byte, filename, modelID string) (ports.TranscriptionResult, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (io.ReadCloser, error) // текст → аудиопоток
}
