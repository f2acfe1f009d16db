package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

const DefaultLocalModel = "turbo"

// WhisperLoader собирает движок поверх whisper.cpp CLI.
// Путь исполнения (GPU или CPU) выбирается один раз при создании
// и дальше не меняется.
type WhisperLoader struct {
	bin      string
	modelDir string
	useGPU   bool
}

func NewWhisperLoader() *WhisperLoader {
	bin := os.Getenv("WHISPER_BIN")
	if bin == "" {
		bin = "whisper-cli"
	}

	modelDir := os.Getenv("WHISPER_MODEL_DIR")
	if modelDir == "" {
		modelDir = "models"
	}

	gpu := hasGPU()
	log.Printf("[whisper] using %s path", map[bool]string{true: "gpu", false: "cpu"}[gpu])

	return &WhisperLoader{
		bin:      bin,
		modelDir: modelDir,
		useGPU:   gpu,
	}
}

func (l *WhisperLoader) Load(modelName string) (LocalEngine, error) {
	modelPath := filepath.Join(l.modelDir, "ggml-"+modelName+".bin")
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whisper model %q: %w", modelName, err)
	}

	return &whisperEngine{
		bin:       l.bin,
		modelPath: modelPath,
		useGPU:    l.useGPU,
	}, nil
}

func hasGPU() bool {
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

type whisperEngine struct {
	bin       string
	modelPath string
	useGPU    bool
}

// формат -oj у whisper.cpp: offsets в миллисекундах
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (e *whisperEngine) Transcribe(ctx context.Context, filePath string) (*LocalResult, error) {
	tmpDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	outBase := filepath.Join(tmpDir, "out")

	args := []string{
		"-m", e.modelPath,
		"-f", filePath,
		"-oj",
		"-of", outBase,
	}
	if !e.useGPU {
		args = append(args, "--no-gpu")
	}

	cmd := exec.CommandContext(ctx, e.bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper-cli: %w: %s", err, out)
	}

	raw, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("whisper output missing: %w", err)
	}

	return parseWhisperOutput(raw)
}

func parseWhisperOutput(raw []byte) (*LocalResult, error) {
	var parsed whisperOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	res := &LocalResult{Language: parsed.Result.Language}
	if res.Language == "" {
		res.Language = "en"
	}

	var sb strings.Builder
	for _, seg := range parsed.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		res.Segments = append(res.Segments, ports.TranscriptionSegment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  text,
		})
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	res.Text = sb.String()

	if len(res.Segments) == 0 {
		return nil, fmt.Errorf("empty transcription")
	}
	return res, nil
}
