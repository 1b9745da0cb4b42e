package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notecraft-be/internal/entity"
	"notecraft-be/internal/repository/contract"
	"notecraft-be/pkg/cache"

	"github.com/google/uuid"
)

const noteJobKeyPrefix = "note_job:"

// NoteJobRepositoryImpl keeps jobs as JSON in the shared cache. Jobs expire
// after ttl; there is no durable history.
type NoteJobRepositoryImpl struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewNoteJobRepository(c cache.Cache, ttl time.Duration) contract.NoteJobRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &NoteJobRepositoryImpl{cache: c, ttl: ttl}
}

func (r *NoteJobRepositoryImpl) Save(ctx context.Context, job *entity.NoteJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return r.cache.Set(ctx, noteJobKeyPrefix+job.Id.String(), string(data), r.ttl)
}

func (r *NoteJobRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.NoteJob, error) {
	raw, found, err := r.cache.Get(ctx, noteJobKeyPrefix+id.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var job entity.NoteJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}
