package voices

import (
	"context"
	"errors"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

type fakeVoiceRepo struct {
	voices map[uuid.UUID]ports.Voice
}

func newFakeVoiceRepo() *fakeVoiceRepo {
	return &fakeVoiceRepo{voices: make(map[uuid.UUID]ports.Voice)}
}

func (r *fakeVoiceRepo) Create(_ context.Context, v ports.Voice) (ports.Voice, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.voices[v.ID] = v
	return v, nil
}

func (r *fakeVoiceRepo) GetByID(_ context.Context, id uuid.UUID) (ports.Voice, error) {
	v, ok := r.voices[id]
	if !ok {
		return ports.Voice{}, ports.ErrVoiceNotFound
	}
	return v, nil
}

func (r *fakeVoiceRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]ports.Voice, error) {
	var out []ports.Voice
	for _, v := range r.voices {
		if v.ProjectID == projectID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVoiceRepo) Rename(_ context.Context, id uuid.UUID, name string) (ports.Voice, error) {
	v, ok := r.voices[id]
	if !ok {
		return ports.Voice{}, ports.ErrVoiceNotFound
	}
	v.Name = name
	r.voices[id] = v
	return v, nil
}

func (r *fakeVoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.voices[id]; !ok {
		return ports.ErrVoiceNotFound
	}
	delete(r.voices, id)
	return nil
}

type fakeProjectRepo struct {
	known map[uuid.UUID]bool
}

func (r *fakeProjectRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.known[id], nil
}

type fakeUsageRepo struct {
	records []string // "endpoint/result"
}

func (r *fakeUsageRepo) Create(_ context.Context, endpoint, result string, _ int) (int64, error) {
	r.records = append(r.records, endpoint+"/"+result)
	return int64(len(r.records)), nil
}

type fakeRemoteClient struct {
	voiceID    string
	addErr     error
	deleteErr  error
	deleted    []string
	settings   map[string]any
	updateArgs map[string]any
}

func (c *fakeRemoteClient) AddVoice(_ context.Context, _ string, _ []ports.VoiceSample) (string, error) {
	if c.addErr != nil {
		return "", c.addErr
	}
	return c.voiceID, nil
}

func (c *fakeRemoteClient) DeleteVoice(_ context.Context, voiceID string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, voiceID)
	return nil
}

func (c *fakeRemoteClient) GetVoiceSettings(_ context.Context, _ string) (map[string]any, error) {
	return c.settings, nil
}

func (c *fakeRemoteClient) UpdateVoiceSettings(_ context.Context, _ string, settings map[string]any) (map[string]any, error) {
	c.updateArgs = settings
	return settings, nil
}

type env struct {
	repo    *fakeVoiceRepo
	remote  *fakeRemoteClient
	usage   *fakeUsageRepo
	svc     ports.VoiceService
	project uuid.UUID
}

func newEnv() *env {
	projectID := uuid.New()
	repo := newFakeVoiceRepo()
	remote := &fakeRemoteClient{voiceID: "remote-1"}
	usage := &fakeUsageRepo{}

	svc := NewService(
		repo,
		&fakeProjectRepo{known: map[uuid.UUID]bool{projectID: true}},
		usage,
		remote,
		nil, // без архива
		nil, // без алертов
		logger.NewZapLogger(zap.NewNop().Sugar()),
	)

	return &env{repo: repo, remote: remote, usage: usage, svc: svc, project: projectID}
}

func sample() []ports.VoiceSample {
	return []ports.VoiceSample{{Filename: "s.mp3", ContentType: "audio/mpeg", Data: []byte("x")}}
}

func TestCreatePersistsVoice(t *testing.T) {
	e := newEnv()

	desc := "deep narrator voice"
	v, err := e.svc.Create(context.Background(), e.project, "narrator", &desc, nil, sample())
	assert.NoError(t, err)
	assert.Equal(t, "remote-1", v.VoiceID)
	assert.Equal(t, "narrator", v.Name)
	assert.NotEqual(t, uuid.Nil, v.ID)

	assert.Equal(t, []string{"VoiceCreate/ok"}, e.usage.records)
}

func TestCreateRemoteFailureKeepsNothing(t *testing.T) {
	e := newEnv()
	e.remote.addErr = errors.New("response did not contain a voice_id")

	_, err := e.svc.Create(context.Background(), e.project, "narrator", nil, nil, sample())
	assert.Error(t, err)

	// локальной записи нет, но попытка ушла в api_logs
	assert.Empty(t, e.repo.voices)
	assert.Equal(t, []string{"VoiceCreate/error"}, e.usage.records)
}

func TestCreateUnknownProject(t *testing.T) {
	e := newEnv()

	_, err := e.svc.Create(context.Background(), uuid.New(), "narrator", nil, nil, sample())
	assert.ErrorIs(t, err, ports.ErrProjectNotFound)
	assert.Empty(t, e.usage.records)
}

func TestRenameThenGet(t *testing.T) {
	e := newEnv()

	v, err := e.svc.Create(context.Background(), e.project, "old name", nil, nil, sample())
	assert.NoError(t, err)

	renamed, err := e.svc.Rename(context.Background(), v.ID, "X")
	assert.NoError(t, err)
	assert.Equal(t, "X", renamed.Name)

	got, err := e.repo.GetByID(context.Background(), v.ID)
	assert.NoError(t, err)
	assert.Equal(t, "X", got.Name)

	// остальные поля не тронуты
	assert.Equal(t, v.VoiceID, got.VoiceID)
	assert.Equal(t, v.ProjectID, got.ProjectID)
}

func TestDeleteThenList(t *testing.T) {
	e := newEnv()

	v, err := e.svc.Create(context.Background(), e.project, "victim", nil, nil, sample())
	assert.NoError(t, err)

	warning, err := e.svc.Delete(context.Background(), v.ID)
	assert.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, []string{"remote-1"}, e.remote.deleted)

	voices, err := e.svc.ListByProject(context.Background(), e.project)
	assert.NoError(t, err)
	for _, got := range voices {
		assert.NotEqual(t, v.ID, got.ID)
	}
}

func TestDeleteSurvivesRemoteFailure(t *testing.T) {
	e := newEnv()

	v, err := e.svc.Create(context.Background(), e.project, "victim", nil, nil, sample())
	assert.NoError(t, err)

	e.remote.deleteErr = errors.New("remote is down")

	warning, err := e.svc.Delete(context.Background(), v.ID)
	assert.NoError(t, err)
	assert.Contains(t, warning, "remote is down")

	// локальная запись всё равно удалена
	_, err = e.repo.GetByID(context.Background(), v.ID)
	assert.ErrorIs(t, err, ports.ErrVoiceNotFound)
}

func TestDeleteMissingVoice(t *testing.T) {
	e := newEnv()

	_, err := e.svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrVoiceNotFound)
}

func TestUpdateSettingsFiltersNil(t *testing.T) {
	e := newEnv()

	_, err := e.svc.UpdateSettings(context.Background(), "remote-1", map[string]any{
		"stability":         0.7,
		"similarity_boost":  nil,
		"use_speaker_boost": true,
	})
	assert.NoError(t, err)

	assert.Equal(t, map[string]any{
		"stability":         0.7,
		"use_speaker_boost": true,
	}, e.remote.updateArgs)
}
