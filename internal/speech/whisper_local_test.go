package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWhisperOutput(t *testing.T) {
	raw := []byte(`{
		"result": {"language": "ru"},
		"transcription": [
			{"offsets": {"from": 0, "to": 2500}, "text": " привет мир"},
			{"offsets": {"from": 2500, "to": 4100}, "text": " как дела"},
			{"offsets": {"from": 4100, "to": 4200}, "text": "  "}
		]
	}`)

	res, err := parseWhisperOutput(raw)
	assert.NoError(t, err)
	assert.Equal(t, "ru", res.Language)
	assert.Equal(t, "привет мир как дела", res.Text)

	// пустые сегменты отбрасываются, оффсеты в секундах
	assert.Len(t, res.Segments, 2)
	assert.Equal(t, 0.0, res.Segments[0].Start)
	assert.Equal(t, 2.5, res.Segments[0].End)
	assert.Equal(t, 2.5, res.Segments[1].Start)
	assert.Equal(t, 4.1, res.Segments[1].End)
}

func TestParseWhisperOutputDefaultsLanguage(t *testing.T) {
	raw := []byte(`{
		"transcription": [{"offsets": {"from": 0, "to": 1000}, "text": "hi"}]
	}`)

	res, err := parseWhisperOutput(raw)
	assert.NoError(t, err)
	assert.Equal(t, "en", res.Language)
}

func TestParseWhisperOutputEmpty(t *testing.T) {
	_, err := parseWhisperOutput([]byte(`{"transcription": []}`))
	assert.Error(t, err)

	_, err = parseWhisperOutput([]byte(`not json`))
	assert.Error(t, err)
}
