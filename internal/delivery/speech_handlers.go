package delivery

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/storyteller-ai/audio_gateway/internal/speech"
)

type SpeechHandler struct {
	speechService *speech.Service
	log           *logger.ZapLogger
}

func NewSpeechHandler(speechService *speech.Service, log *logger.ZapLogger) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
		log:           log,
	}
}

func (h *SpeechHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text         string `json:"text"`
		VoiceID      string `json:"voice_id"`
		OutputFormat string `json:"output_format"`
		ModelID      string `json:"model_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}
	if req.VoiceID == "" {
		req.VoiceID = "JBFqnCBsd6RMkjVDRZzb"
	}
	if req.OutputFormat == "" {
		req.OutputFormat = "mp3_44100_128"
	}
	if req.ModelID == "" {
		req.ModelID = "eleven_multilingual_v2"
	}

	stream, err := h.speechService.Synthesize(r.Context(), speech.SynthesisRequest{
		Text:         req.Text,
		VoiceID:      req.VoiceID,
		OutputFormat: req.OutputFormat,
		ModelID:      req.ModelID,
	})
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "tts failed", Error: err})
		http.Error(w, "failed to generate speech: "+err.Error(), http.StatusBadGateway)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	if _, err := io.Copy(w, stream); err != nil {
		// заголовки уже ушли, осталось только залогировать
		h.log.Log(logger.LogEntry{Level: "warn", Message: "tts stream interrupted", Error: err})
	}
}

func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}

	remoteModel := r.FormValue("model_id")
	localModel := r.FormValue("local_model")

	var inputs []speech.AudioInput
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
		inputs = append(inputs, speech.AudioInput{
			Filename: header.Filename,
			Data:     data,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	// один файл — скалярный ответ, несколько — массив
	if len(inputs) == 1 {
		result, err := h.speechService.Transcribe(r.Context(), inputs[0], localModel, remoteModel)
		if err != nil {
			h.log.Log(logger.LogEntry{Level: "error", Message: "transcription failed", Error: err})
			http.Error(w, "failed to transcribe audio: "+err.Error(), http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(result)
		return
	}

	results, err := h.speechService.TranscribeBatch(r.Context(), inputs, localModel, remoteModel)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "transcription failed", Error: err})
		http.Error(w, "failed to transcribe audio: "+err.Error(), http.StatusBadGateway)
		return
	}
	_ = json.NewEncoder(w).Encode(results)
}
