package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateNoteRequest struct {
	Query string `json:"query" validate:"required,min=2,max=2000"`
}

type GenerateNoteResponse struct {
	Notes         string         `json:"notes"`
	Namespace     string         `json:"namespace"`
	Topics        []string       `json:"topics"`
	ContextSource string         `json:"context_source"`
	Images        []ImageRefItem `json:"images"`
}

type ImageRefItem struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

type SubmitJobResponse struct {
	JobId uuid.UUID `json:"job_id"`
}

type JobResponse struct {
	Id        uuid.UUID             `json:"id"`
	Query     string                `json:"query"`
	Status    string                `json:"status"`
	Stage     string                `json:"stage,omitempty"`
	ErrorCode string                `json:"error_code,omitempty"`
	Error     string                `json:"error,omitempty"`
	Result    *GenerateNoteResponse `json:"result,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type ModifyTextRequest struct {
	Text        string `json:"text" validate:"required,max=20000"`
	Instruction string `json:"instruction" validate:"required,max=1000"`
}

type ModifyTextResponse struct {
	Text string `json:"text"`
}

type RegenerateImageRequest struct {
	Description string `json:"description" validate:"required,max=500"`
	PoolSize    int    `json:"pool_size" validate:"omitempty,min=1,max=10"`
}

type RegenerateImageResponse struct {
	URL string `json:"url"`
}

type ResolveContextRequest struct {
	Topic     string `json:"topic" validate:"required,max=2000"`
	Namespace string `json:"namespace" validate:"required"`
}

type ResolveContextResponse struct {
	Message   string   `json:"message"`
	Documents []string `json:"documents"`
	Source    string   `json:"source"`
}

// Background queue payloads

type IndexPassagesMessage struct {
	Namespace string         `json:"namespace"`
	Source    string         `json:"source"`
	Documents []DocumentItem `json:"documents"`
}

type DocumentItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
}

type GenerateNotesMessage struct {
	JobId uuid.UUID `json:"job_id"`
	Query string    `json:"query"`
}
