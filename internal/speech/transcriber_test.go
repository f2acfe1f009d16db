package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

func testLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

// движок смотрит в содержимое файла: "bad" валит расшифровку
type fakeEngine struct {
	segments []ports.TranscriptionSegment
	language string
}

func (e *fakeEngine) Transcribe(_ context.Context, filePath string) (*LocalResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if string(data) == "bad" {
		return nil, errors.New("decode failure")
	}

	text := ""
	for _, s := range e.segments {
		if text != "" {
			text += " "
		}
		text += s.Text
	}
	return &LocalResult{
		Text:     text,
		Language: e.language,
		Segments: e.segments,
	}, nil
}

type fakeLoader struct {
	engine LocalEngine
	err    error
	loads  int
}

func (l *fakeLoader) Load(string) (LocalEngine, error) {
	l.loads++
	if l.err != nil {
		return nil, l.err
	}
	return l.engine, nil
}

type fakeRemote struct {
	result ports.TranscriptionResult
	err    error
	calls  int
}

func (r *fakeRemote) TranscribeAudio(_ context.Context, _ []byte, _, _ string) (ports.TranscriptionResult, error) {
	r.calls++
	return r.result, r.err
}

func TestTranscribeLocalSuccess(t *testing.T) {
	segments := []ports.TranscriptionSegment{
		{Start: 0, End: 2.5, Text: "hello there"},
		{Start: 2.5, End: 4.1, Text: "general"},
	}
	loader := &fakeLoader{engine: &fakeEngine{segments: segments, language: "en"}}
	remote := &fakeRemote{}

	tr := NewTranscriber(loader, remote, nil, testLogger())

	result, err := tr.Transcribe(context.Background(), AudioInput{Filename: "a.mp3", Data: []byte("ok")}, "turbo", "scribe_v1")
	assert.NoError(t, err)
	assert.Equal(t, "whisper", result.Engine)
	assert.Equal(t, "turbo", result.Model)
	assert.Equal(t, "en", result.LanguageCode)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, 0, remote.calls)

	// по одному слову на сегмент, границы совпадают с сегментом
	assert.Len(t, result.Words, len(segments))
	for i, w := range result.Words {
		assert.Equal(t, segments[i].Start, w.Start)
		assert.Equal(t, segments[i].End, w.End)
		assert.Equal(t, segments[i].Text, w.Text)
		assert.Equal(t, "word", w.Type)
		assert.Equal(t, "0", w.SpeakerID)
	}
}

func TestTranscribeFallsBackToRemote(t *testing.T) {
	loader := &fakeLoader{err: errors.New("model load failure")}
	remote := &fakeRemote{result: ports.TranscriptionResult{
		Text:         "remote text",
		LanguageCode: "de",
		Words: []ports.TranscriptionWord{
			{Text: "remote", Type: "word", Start: 0, End: 1, SpeakerID: "speaker_1"},
		},
	}}

	tr := NewTranscriber(loader, remote, nil, testLogger())

	result, err := tr.Transcribe(context.Background(), AudioInput{Filename: "a.mp3", Data: []byte("ok")}, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "elevenlabs", result.Engine)
	assert.Equal(t, DefaultRemoteModel, result.Model)
	assert.Equal(t, "remote text", result.Text)
	assert.Equal(t, 1, remote.calls)

	// ошибка локального движка наружу не выходит
	assert.NotContains(t, result.Text, "model load failure")
}

func TestTranscribeBothEnginesFail(t *testing.T) {
	loader := &fakeLoader{err: errors.New("cuda init failed")}
	remote := &fakeRemote{err: errors.New("quota exceeded")}

	tr := NewTranscriber(loader, remote, nil, testLogger())

	_, err := tr.Transcribe(context.Background(), AudioInput{Filename: "a.mp3", Data: []byte("ok")}, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cuda init failed")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestTranscribeBatchAbortsOnFailedItem(t *testing.T) {
	loader := &fakeLoader{engine: &fakeEngine{
		segments: []ports.TranscriptionSegment{{Start: 0, End: 1, Text: "ok"}},
		language: "en",
	}}
	remote := &fakeRemote{err: errors.New("remote down")}

	tr := NewTranscriber(loader, remote, nil, testLogger())

	inputs := []AudioInput{
		{Filename: "one.mp3", Data: []byte("ok")},
		{Filename: "two.mp3", Data: []byte("bad")}, // падает на обоих движках
		{Filename: "three.mp3", Data: []byte("ok")},
	}

	results, err := tr.TranscribeBatch(context.Background(), inputs, "", "")
	assert.Error(t, err)
	assert.Nil(t, results) // частичных результатов нет
}

func TestTranscribeBatchOrderedResults(t *testing.T) {
	loader := &fakeLoader{engine: &fakeEngine{
		segments: []ports.TranscriptionSegment{{Start: 0, End: 1, Text: "ok"}},
		language: "en",
	}}
	tr := NewTranscriber(loader, &fakeRemote{}, nil, testLogger())

	var inputs []AudioInput
	for i := 0; i < 3; i++ {
		inputs = append(inputs, AudioInput{Filename: fmt.Sprintf("f%d.mp3", i), Data: []byte("ok")})
	}

	results, err := tr.TranscribeBatch(context.Background(), inputs, "", "")
	assert.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestLocalEngineLoadedOnce(t *testing.T) {
	loader := &fakeLoader{engine: &fakeEngine{
		segments: []ports.TranscriptionSegment{{Start: 0, End: 1, Text: "ok"}},
		language: "en",
	}}
	tr := NewTranscriber(loader, &fakeRemote{}, nil, testLogger())

	in := AudioInput{Filename: "a.mp3", Data: []byte("ok")}

	_, err := tr.Transcribe(context.Background(), in, "turbo", "")
	assert.NoError(t, err)

	// вторая модель не перегружает движок, остаётся первая
	result, err := tr.Transcribe(context.Background(), in, "large-v3", "")
	assert.NoError(t, err)
	assert.Equal(t, 1, loader.loads)
	assert.Equal(t, "turbo", result.Model)
}
