package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	httpCli *http.Client
}

func NewElevenLabsClient() *ElevenLabsClient {
	key := os.Getenv("ELEVEN_API_KEY")
	if key == "" {
		panic("ELEVEN_API_KEY not set")
	}

	return &ElevenLabsClient{
		apiKey:  key,
		baseURL: defaultBaseURL,
		httpCli: http.DefaultClient,
	}
}

// TEXT → SPEECH
// Возвращает тело ответа как поток, закрывает его вызывающий.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, req SynthesisRequest) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", c.baseURL, req.VoiceID, req.OutputFormat)

	payload, err := json.Marshal(map[string]string{
		"text":     req.Text,
		"model_id": req.ModelID,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, fmt.Errorf("tts failed: %s", readErrorDetail(resp))
	}

	return resp.Body, nil
}

// SPEECH → TEXT
func (c *ElevenLabsClient) TranscribeAudio(ctx context.Context, audio []byte, filename, modelID string) (ports.TranscriptionResult, error) {
	var result ports.TranscriptionResult

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return result, err
	}
	if _, err := part.Write(audio); err != nil {
		return result, err
	}
	if err := mw.WriteField("model_id", modelID); err != nil {
		return result, err
	}
	if err := mw.Close(); err != nil {
		return result, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/speech-to-text", body)
	if err != nil {
		return result, err
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("stt request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return result, fmt.Errorf("stt failed: %s", readErrorDetail(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("decode stt response: %w", err)
	}
	return result, nil
}

// AddVoice создаёт голос из сэмплов и возвращает voice_id.
func (c *ElevenLabsClient) AddVoice(ctx context.Context, name string, samples []ports.VoiceSample) (string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	if err := mw.WriteField("name", name); err != nil {
		return "", err
	}
	for _, s := range samples {
		part, err := mw.CreateFormFile("files", s.Filename)
		if err != nil {
			return "", err
		}
		if _, err := part.Write(s.Data); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/voices/add", body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("add voice request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("add voice failed: %s", readErrorDetail(resp))
	}

	var parsed struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode add voice response: %w", err)
	}
	if parsed.VoiceID == "" {
		return "", fmt.Errorf("response did not contain a voice_id")
	}
	return parsed.VoiceID, nil
}

func (c *ElevenLabsClient) DeleteVoice(ctx context.Context, voiceID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+"/voices/"+voiceID, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete voice request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("delete voice failed: %s", readErrorDetail(resp))
	}
	return nil
}

func (c *ElevenLabsClient) GetVoiceSettings(ctx context.Context, voiceID string) (map[string]any, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/voices/"+voiceID+"/settings", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get settings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get settings failed: %s", readErrorDetail(resp))
	}

	var settings map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (c *ElevenLabsClient) UpdateVoiceSettings(ctx context.Context, voiceID string, settings map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/voices/"+voiceID+"/settings/edit", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("update settings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("update settings failed: %s", readErrorDetail(resp))
	}

	var updated map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return updated, nil
}

// readErrorDetail вытаскивает поле detail из тела ошибки, иначе сырое тело.
func readErrorDetail(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)

	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(b, &parsed); err == nil && len(parsed.Detail) > 0 {
		var s string
		if err := json.Unmarshal(parsed.Detail, &s); err == nil {
			return fmt.Sprintf("status %d: %s", resp.StatusCode, s)
		}
		return fmt.Sprintf("status %d: %s", resp.StatusCode, string(parsed.Detail))
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, string(b))
}
