package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether no further transition can happen.
func (s JobStatus) Terminal() bool {
	return s == JobSucceeded || s == JobFailed
}

// GeneratedNote is the outcome of one run of the note pipeline.
type GeneratedNote struct {
	Notes         string     `json:"notes"`
	Namespace     string     `json:"namespace"`
	Topics        []string   `json:"topics"`
	ContextSource string     `json:"context_source"`
	Images        []ImageRef `json:"images"`
}

type ImageRef struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

// NoteJob tracks an asynchronous generation request.
type NoteJob struct {
	Id        uuid.UUID      `json:"id"`
	Query     string         `json:"query"`
	Status    JobStatus      `json:"status"`
	Stage     string         `json:"stage,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Error     string         `json:"error,omitempty"`
	Result    *GeneratedNote `json:"result,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
