package events

import "time"

const (
	TypeJobUpdated      = "NOTES_JOB_UPDATED"
	TypePassagesIndexed = "PASSAGES_INDEXED"
)

// NewJobUpdated carries the full job snapshot so subscribers need no lookup.
func NewJobUpdated(jobID string, job map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type: TypeJobUpdated,
		Data: map[string]interface{}{
			"job_id": jobID,
			"job":    job,
		},
		OccurredAt: time.Now(),
	}
}

func NewPassagesIndexed(namespace, source string, passages int) BaseEvent {
	return BaseEvent{
		Type: TypePassagesIndexed,
		Data: map[string]interface{}{
			"namespace": namespace,
			"source":    source,
			"passages":  passages,
		},
		OccurredAt: time.Now(),
	}
}
