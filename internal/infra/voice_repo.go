package infra

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

type voiceRepo struct {
	db *sql.DB
}

func NewVoiceRepo(db *sql.DB) ports.VoiceRepo {
	return &voiceRepo{db: db}
}

func (r *voiceRepo) Create(ctx context.Context, v ports.Voice) (ports.Voice, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO voices (id, name, description, voice_id, label, project_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, v.ID, v.Name, v.Description, v.VoiceID, v.Label, v.ProjectID).Scan(&v.ID)
	return v, err
}

func (r *voiceRepo) GetByID(ctx context.Context, id uuid.UUID) (ports.Voice, error) {
	var v ports.Voice
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, voice_id, label, project_id
		FROM voices
		WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.Description, &v.VoiceID, &v.Label, &v.ProjectID)
	if err == sql.ErrNoRows {
		return v, ports.ErrVoiceNotFound
	}
	return v, err
}

func (r *voiceRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]ports.Voice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, voice_id, label, project_id
		FROM voices
		WHERE project_id = $1
		ORDER BY name ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var voices []ports.Voice
	for rows.Next() {
		var v ports.Voice
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.VoiceID, &v.Label, &v.ProjectID); err != nil {
			return nil, err
		}
		voices = append(voices, v)
	}
	return voices, rows.Err()
}

func (r *voiceRepo) Rename(ctx context.Context, id uuid.UUID, name string) (ports.Voice, error) {
	var v ports.Voice
	err := r.db.QueryRowContext(ctx, `
		UPDATE voices
		SET name = $2
		WHERE id = $1
		RETURNING id, name, description, voice_id, label, project_id
	`, id, name).Scan(&v.ID, &v.Name, &v.Description, &v.VoiceID, &v.Label, &v.ProjectID)
	if err == sql.ErrNoRows {
		return v, ports.ErrVoiceNotFound
	}
	return v, err
}

func (r *voiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM voices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrVoiceNotFound
	}
	return nil
}
