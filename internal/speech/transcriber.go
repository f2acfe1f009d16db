package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/storyteller-ai/audio_gateway/internal/alerts"
	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

const DefaultRemoteModel = "scribe_v1"

// Transcriber — оркестратор двух движков: сперва локальный whisper,
// при его падении — удалённый API. Хэндл движка живёт внутри
// оркестратора и грузится лениво под мьютексом.
type Transcriber struct {
	loader   EngineLoader
	remote   RemoteSTT
	notifier alerts.Notificator
	log      *logger.ZapLogger

	mu          sync.Mutex
	engine      LocalEngine
	engineModel string
}

func NewTranscriber(loader EngineLoader, remote RemoteSTT, notifier alerts.Notificator, log *logger.ZapLogger) *Transcriber {
	return &Transcriber{
		loader:   loader,
		remote:   remote,
		notifier: notifier,
		log:      log,
	}
}

// Transcribe обрабатывает один файл.
func (t *Transcriber) Transcribe(ctx context.Context, in AudioInput, localModel, remoteModel string) (ports.TranscriptionResult, error) {
	if localModel == "" {
		localModel = DefaultLocalModel
	}
	if remoteModel == "" {
		remoteModel = DefaultRemoteModel
	}

	result, localErr := t.transcribeLocal(ctx, in, localModel)
	if localErr == nil {
		return result, nil
	}

	t.log.Log(logger.LogEntry{
		Level:   "warn",
		Message: "local transcription failed, falling back to remote: " + in.Filename,
		Error:   localErr,
	})

	result, remoteErr := t.remote.TranscribeAudio(ctx, in.Data, in.Filename, remoteModel)
	if remoteErr == nil {
		result.Engine = "elevenlabs"
		result.Model = remoteModel
		return result, nil
	}

	err := fmt.Errorf(
		"transcription failed with both engines: whisper: %v; elevenlabs: %v",
		localErr, remoteErr,
	)
	if t.notifier != nil {
		_ = t.notifier.Notify(ctx, "transcribe", err, in.Filename)
	}
	return ports.TranscriptionResult{}, err
}

// TranscribeBatch обрабатывает файлы по порядку. Первый файл, упавший
// на обоих движках, роняет весь батч — частичных результатов нет.
func (t *Transcriber) TranscribeBatch(ctx context.Context, ins []AudioInput, localModel, remoteModel string) ([]ports.TranscriptionResult, error) {
	results := make([]ports.TranscriptionResult, 0, len(ins))
	for _, in := range ins {
		res, err := t.Transcribe(ctx, in, localModel, remoteModel)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (t *Transcriber) transcribeLocal(ctx context.Context, in AudioInput, modelName string) (ports.TranscriptionResult, error) {
	engine, engineModel, err := t.localEngine(modelName)
	if err != nil {
		return ports.TranscriptionResult{}, err
	}

	tmp, err := os.CreateTemp("", "stt-*"+filepath.Ext(in.Filename))
	if err != nil {
		return ports.TranscriptionResult{}, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(in.Data); err != nil {
		tmp.Close()
		return ports.TranscriptionResult{}, err
	}
	if err := tmp.Close(); err != nil {
		return ports.TranscriptionResult{}, err
	}

	raw, err := engine.Transcribe(ctx, tmp.Name())
	if err != nil {
		return ports.TranscriptionResult{}, err
	}

	return normalizeLocal(raw, engineModel), nil
}

// localEngine грузит модель один раз; первая загруженная модель
// закрепляется на всё время жизни процесса.
func (t *Transcriber) localEngine(modelName string) (LocalEngine, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.engine != nil {
		if t.engineModel != modelName {
			t.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: fmt.Sprintf("local model %q requested, reusing loaded %q", modelName, t.engineModel),
			})
		}
		return t.engine, t.engineModel, nil
	}

	engine, err := t.loader.Load(modelName)
	if err != nil {
		return nil, "", fmt.Errorf("load local engine: %w", err)
	}

	t.engine = engine
	t.engineModel = modelName
	return engine, modelName, nil
}

// normalizeLocal приводит ответ локального движка к общему виду:
// по одному "слову" на сегмент (приближение, не настоящие границы слов),
// спикер всегда "0", confidence = 1.0 — движок не отдаёт реальную оценку.
func normalizeLocal(raw *LocalResult, modelName string) ports.TranscriptionResult {
	result := ports.TranscriptionResult{
		LanguageCode:        raw.Language,
		LanguageProbability: 1.0,
		Text:                raw.Text,
		Segments:            raw.Segments,
		Engine:              "whisper",
		Model:               modelName,
		Confidence:          1.0,
	}

	for _, seg := range raw.Segments {
		result.Words = append(result.Words, ports.TranscriptionWord{
			Text:      seg.Text,
			Type:      "word",
			Start:     seg.Start,
			End:       seg.End,
			SpeakerID: "0",
		})
	}

	return result
}
