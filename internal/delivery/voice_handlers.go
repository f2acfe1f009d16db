package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

type VoiceHandler struct {
	voiceService ports.VoiceService
	log          *logger.ZapLogger
}

func NewVoiceHandler(voiceService ports.VoiceService, log *logger.ZapLogger) *VoiceHandler {
	return &VoiceHandler{
		voiceService: voiceService,
		log:          log,
	}
}

func (h *VoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "project_id"))
	if err != nil {
		http.Error(w, "invalid project_id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	description := optionalField(r, "description")
	label := optionalField(r, "label")

	files := r.MultipartForm.File["samples"]
	if len(files) == 0 {
		http.Error(w, "missing samples", http.StatusBadRequest)
		return
	}

	var samples []ports.VoiceSample
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "failed to read sample: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "failed to read sample: "+err.Error(), http.StatusBadRequest)
			return
		}
		samples = append(samples, ports.VoiceSample{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	voice, err := h.voiceService.Create(r.Context(), projectID, name, description, label, samples)
	if err != nil {
		if errors.Is(err, ports.ErrProjectNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		h.log.Log(logger.LogEntry{Level: "error", Message: "voice create failed", Error: err})
		http.Error(w, "failed to create voice: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(voice)
}

func (h *VoiceHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "project_id"))
	if err != nil {
		http.Error(w, "invalid project_id", http.StatusBadRequest)
		return
	}

	voices, err := h.voiceService.ListByProject(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, ports.ErrProjectNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if voices == nil {
		voices = []ports.Voice{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(voices)
}

func (h *VoiceHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "voice_id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	voice, err := h.voiceService.Rename(r.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, ports.ErrVoiceNotFound) {
			http.Error(w, "voice not found", http.StatusNotFound)
			return
		}
		h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(voice)
}

func (h *VoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "voice_id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	warning, err := h.voiceService.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrVoiceNotFound) {
			http.Error(w, "voice not found", http.StatusNotFound)
			return
		}
		h.log.Log(logger.LogEntry{Level: "error", Message: "voice delete failed", Error: err})
		http.Error(w, "failed to delete voice: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]string{"detail": "voice deleted"}
	if warning != "" {
		resp["warning"] = warning
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *VoiceHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	voiceID := chi.URLParam(r, "voice_id")

	settings, err := h.voiceService.GetSettings(r.Context(), voiceID)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "get settings failed", Error: err})
		http.Error(w, "failed to get voice settings: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(settings)
}

func (h *VoiceHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	voiceID := chi.URLParam(r, "voice_id")

	var settings map[string]any
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.voiceService.UpdateSettings(r.Context(), voiceID, settings)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "update settings failed", Error: err})
		http.Error(w, "failed to update voice settings: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}

func optionalField(r *http.Request, name string) *string {
	v := r.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}
