package contract

import (
	"context"

	"notecraft-be/internal/entity"

	"github.com/google/uuid"
)

type NoteJobRepository interface {
	Save(ctx context.Context, job *entity.NoteJob) error
	// FindById returns nil, nil when the job is unknown or expired.
	FindById(ctx context.Context, id uuid.UUID) (*entity.NoteJob, error)
}
