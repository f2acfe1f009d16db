package voices

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"

	"github.com/storyteller-ai/audio_gateway/internal/alerts"
	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

// Прайс за обращения к удалённому API (в кредитах).
const CostVoiceCreate = 10

type service struct {
	repo     ports.VoiceRepo
	projects ports.ProjectRepo
	usage    ports.UsageRepo
	remote   RemoteVoiceClient
	archive  ports.S3Client
	notifier alerts.Notificator
	log      *logger.ZapLogger
}

func NewService(
	repo ports.VoiceRepo,
	projects ports.ProjectRepo,
	usage ports.UsageRepo,
	remote RemoteVoiceClient,
	archive ports.S3Client,
	notifier alerts.Notificator,
	log *logger.ZapLogger,
) ports.VoiceService {
	return &service{
		repo:     repo,
		projects: projects,
		usage:    usage,
		remote:   remote,
		archive:  archive,
		notifier: notifier,
		log:      log,
	}
}

// Create зовёт удалённый voices/add и только при валидном voice_id
// пишет локальную запись. Неудачная попытка тоже попадает в api_logs.
func (s *service) Create(ctx context.Context, projectID uuid.UUID, name string, description, label *string, samples []ports.VoiceSample) (ports.Voice, error) {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return ports.Voice{}, err
	}
	if !exists {
		return ports.Voice{}, ports.ErrProjectNotFound
	}

	remoteID, err := s.remote.AddVoice(ctx, name, samples)
	if err != nil {
		s.logUsage(ctx, "VoiceCreate", "error")
		return ports.Voice{}, fmt.Errorf("remote voice create: %w", err)
	}

	s.archiveSamples(ctx, projectID, samples)

	voice, err := s.repo.Create(ctx, ports.Voice{
		Name:        name,
		Description: description,
		VoiceID:     remoteID,
		Label:       label,
		ProjectID:   projectID,
	})
	if err != nil {
		s.logUsage(ctx, "VoiceCreate", "error")
		return ports.Voice{}, err
	}

	s.logUsage(ctx, "VoiceCreate", "ok")
	return voice, nil
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]ports.Voice, error) {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ports.ErrProjectNotFound
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (ports.Voice, error) {
	return s.repo.Rename(ctx, id, name)
}

// Delete: локальная запись удаляется первой; падение удалённой
// очистки не откатывает удаление, а возвращается warning'ом.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	voice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}

	if err := s.remote.DeleteVoice(ctx, voice.VoiceID); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "remote voice cleanup failed: " + voice.VoiceID,
			Error:   err,
		})
		if s.notifier != nil {
			_ = s.notifier.Notify(ctx, "voice-delete", err, voice.VoiceID)
		}
		return fmt.Sprintf("remote cleanup failed: %v", err), nil
	}

	return "", nil
}

func (s *service) GetSettings(ctx context.Context, remoteVoiceID string) (map[string]any, error) {
	return s.remote.GetVoiceSettings(ctx, remoteVoiceID)
}

func (s *service) UpdateSettings(ctx context.Context, remoteVoiceID string, settings map[string]any) (map[string]any, error) {
	// отфильтруем пустые поля, остальное уходит как есть
	filtered := make(map[string]any, len(settings))
	for k, v := range settings {
		if v == nil {
			continue
		}
		filtered[k] = v
	}
	return s.remote.UpdateVoiceSettings(ctx, remoteVoiceID, filtered)
}

func (s *service) logUsage(ctx context.Context, endpoint, result string) {
	if s.usage == nil {
		return
	}
	if _, err := s.usage.Create(ctx, endpoint, result, CostVoiceCreate); err != nil {
		s.log.Log(logger.LogEntry{Level: "error", Message: "usage log failed", Error: err})
	}
}

func (s *service) archiveSamples(ctx context.Context, projectID uuid.UUID, samples []ports.VoiceSample) {
	if s.archive == nil {
		return
	}
	for _, sample := range samples {
		key := fmt.Sprintf("voices/%s/%s", projectID, sample.Filename)
		if _, err := s.archive.PutObject(ctx, key, bytes.NewReader(sample.Data), int64(len(sample.Data)), sample.ContentType); err != nil {
			s.log.Log(logger.LogEntry{Level: "warn", Message: "sample archive failed: " + key, Error: err})
		}
	}
}
