package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notecraft-be/internal/dto"
	"notecraft-be/internal/entity"
	"notecraft-be/internal/pkg/logger"
	"notecraft-be/internal/repository/contract"
	"notecraft-be/pkg/llm"
	"notecraft-be/pkg/rag"
	"notecraft-be/pkg/rag/namespace"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidNamespace = errors.New("invalid namespace")
)

// Error codes reported to API clients and stored on failed jobs.
const (
	CodeMalformedOutput = "MALFORMED_GENERATION_OUTPUT"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
	CodeInternal        = "INTERNAL_ERROR"
)

// Pipeline collaborators. Implemented by the pkg/rag and pkg/imagesearch packages.
type (
	TopicClassifier interface {
		Classify(ctx context.Context, query string) (*rag.TopicSet, error)
	}
	ContextResolver interface {
		Resolve(ctx context.Context, topic string, ns namespace.Namespace) rag.ContextBundle
	}
	NoteSynthesizer interface {
		Synthesize(ctx context.Context, topics *rag.TopicSet, bundle rag.ContextBundle) (*rag.NoteDocument, error)
		ModifyText(ctx context.Context, excerpt, instruction string) (string, error)
	}
	ImageVariantSearcher interface {
		SearchVariant(ctx context.Context, description string, poolSize int) string
	}
)

type INoteService interface {
	Generate(ctx context.Context, req *dto.GenerateNoteRequest) (*dto.GenerateNoteResponse, error)
	SubmitJob(ctx context.Context, req *dto.GenerateNoteRequest) (*dto.SubmitJobResponse, error)
	GetJob(ctx context.Context, id uuid.UUID) (*dto.JobResponse, error)
	RunJob(ctx context.Context, id uuid.UUID, query string) error
	ModifyText(ctx context.Context, req *dto.ModifyTextRequest) (*dto.ModifyTextResponse, error)
	RegenerateImage(ctx context.Context, req *dto.RegenerateImageRequest) (*dto.RegenerateImageResponse, error)
	ResolveContext(ctx context.Context, req *dto.ResolveContextRequest) (*dto.ResolveContextResponse, error)
}

type noteService struct {
	classifier  TopicClassifier
	resolver    ContextResolver
	synthesizer NoteSynthesizer
	images      ImageVariantSearcher
	jobRepo     contract.NoteJobRepository
	jobQueue    IPublisherService
	notifier    IJobNotifier
	logger      logger.ILogger
	tracer      trace.Tracer
}

func NewNoteService(
	classifier TopicClassifier,
	resolver ContextResolver,
	synthesizer NoteSynthesizer,
	images ImageVariantSearcher,
	jobRepo contract.NoteJobRepository,
	jobQueue IPublisherService,
	notifier IJobNotifier,
	log logger.ILogger,
) INoteService {
	return &noteService{
		classifier:  classifier,
		resolver:    resolver,
		synthesizer: synthesizer,
		images:      images,
		jobRepo:     jobRepo,
		jobQueue:    jobQueue,
		notifier:    notifier,
		logger:      log,
		tracer:      otel.Tracer("notecraft-be/note-service"),
	}
}

// Generate runs classify, resolve and synthesize in order. Stage failures
// come back as *rag.StageError; retrieval never fails.
func (s *noteService) Generate(ctx context.Context, req *dto.GenerateNoteRequest) (*dto.GenerateNoteResponse, error) {
	note, err := s.generate(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return toGenerateResponse(note), nil
}

func (s *noteService) generate(ctx context.Context, query string) (*entity.GeneratedNote, error) {
	ctx, span := s.tracer.Start(ctx, "notes.generate")
	defer span.End()

	topics, err := s.classify(ctx, query)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("notes.namespace", topics.Namespace.String()))

	bundle := s.resolve(ctx, query, topics.Namespace)

	doc, err := s.synthesize(ctx, topics, bundle)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	images := doc.Images()
	refs := make([]entity.ImageRef, len(images))
	for i, img := range images {
		refs[i] = entity.ImageRef{Description: img.Description, URL: img.URL}
	}

	s.logger.Info("NoteService", "Notes generated", map[string]interface{}{
		"namespace":      topics.Namespace,
		"topics":         len(topics.Topics),
		"context_source": bundle.Source,
		"images":         len(refs),
	})

	return &entity.GeneratedNote{
		Notes:         doc.Content(),
		Namespace:     topics.Namespace.String(),
		Topics:        topics.Topics,
		ContextSource: string(bundle.Source),
		Images:        refs,
	}, nil
}

func (s *noteService) classify(ctx context.Context, query string) (*rag.TopicSet, error) {
	ctx, span := s.tracer.Start(ctx, "notes.classify")
	defer span.End()

	topics, err := s.classifier.Classify(ctx, query)
	if err != nil {
		recordError(span, err)
		return nil, &rag.StageError{Stage: rag.StageClassification, Err: err}
	}
	span.SetAttributes(attribute.Int("notes.topics", len(topics.Topics)))
	return topics, nil
}

func (s *noteService) resolve(ctx context.Context, topic string, ns namespace.Namespace) rag.ContextBundle {
	ctx, span := s.tracer.Start(ctx, "notes.resolve_context")
	defer span.End()

	bundle := s.resolver.Resolve(ctx, topic, ns)
	span.SetAttributes(
		attribute.String("notes.context_source", string(bundle.Source)),
		attribute.Int("notes.documents", len(bundle.Documents)),
	)
	return bundle
}

func (s *noteService) synthesize(ctx context.Context, topics *rag.TopicSet, bundle rag.ContextBundle) (*rag.NoteDocument, error) {
	ctx, span := s.tracer.Start(ctx, "notes.synthesize")
	defer span.End()

	doc, err := s.synthesizer.Synthesize(ctx, topics, bundle)
	if err != nil {
		recordError(span, err)
		return nil, &rag.StageError{Stage: rag.StageSynthesis, Err: err}
	}
	return doc, nil
}

// SubmitJob stores a queued job and hands it to the generation workers.
func (s *noteService) SubmitJob(ctx context.Context, req *dto.GenerateNoteRequest) (*dto.SubmitJobResponse, error) {
	now := time.Now()
	job := &entity.NoteJob{
		Id:        uuid.New(),
		Query:     req.Query,
		Status:    entity.JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	// Announced before queueing so watchers never see running before queued.
	s.notifier.Notify(ctx, job)

	payload, err := json.Marshal(dto.GenerateNotesMessage{JobId: job.Id, Query: job.Query})
	if err != nil {
		return nil, err
	}
	if err := s.jobQueue.Publish(ctx, payload); err != nil {
		s.fail(ctx, job, err)
		return nil, err
	}

	return &dto.SubmitJobResponse{JobId: job.Id}, nil
}

func (s *noteService) GetJob(ctx context.Context, id uuid.UUID) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return ToJobResponse(job), nil
}

// RunJob executes a queued job. The returned error is informational: the
// outcome is already recorded on the job.
func (s *noteService) RunJob(ctx context.Context, id uuid.UUID, query string) error {
	job, err := s.jobRepo.FindById(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		// Expired before a worker got to it; recreate so the outcome is visible.
		job = &entity.NoteJob{Id: id, Query: query, CreatedAt: time.Now()}
	}
	if job.Status.Terminal() {
		return nil
	}

	job.Status = entity.JobRunning
	job.UpdatedAt = time.Now()
	s.save(ctx, job)

	note, err := s.generate(ctx, job.Query)
	if err != nil {
		s.fail(ctx, job, err)
		return err
	}

	job.Status = entity.JobSucceeded
	job.Result = note
	job.UpdatedAt = time.Now()
	s.save(ctx, job)
	return nil
}

func (s *noteService) fail(ctx context.Context, job *entity.NoteJob, err error) {
	job.Status = entity.JobFailed
	job.ErrorCode = ErrorCode(err)
	job.Error = err.Error()
	var stageErr *rag.StageError
	if errors.As(err, &stageErr) {
		job.Stage = string(stageErr.Stage)
	}
	job.UpdatedAt = time.Now()
	s.save(ctx, job)
}

func (s *noteService) save(ctx context.Context, job *entity.NoteJob) {
	if err := s.jobRepo.Save(ctx, job); err != nil {
		s.logger.Error("NoteService", "Failed to save job", map[string]interface{}{"job_id": job.Id, "error": err})
	}
	s.notifier.Notify(ctx, job)
}

func (s *noteService) ModifyText(ctx context.Context, req *dto.ModifyTextRequest) (*dto.ModifyTextResponse, error) {
	ctx, span := s.tracer.Start(ctx, "notes.modify_text")
	defer span.End()

	text, err := s.synthesizer.ModifyText(ctx, req.Text, req.Instruction)
	if err != nil {
		recordError(span, err)
		return nil, &rag.StageError{Stage: rag.StageModifyText, Err: err}
	}
	return &dto.ModifyTextResponse{Text: text}, nil
}

func (s *noteService) RegenerateImage(ctx context.Context, req *dto.RegenerateImageRequest) (*dto.RegenerateImageResponse, error) {
	url := s.images.SearchVariant(ctx, req.Description, req.PoolSize)
	return &dto.RegenerateImageResponse{URL: url}, nil
}

func (s *noteService) ResolveContext(ctx context.Context, req *dto.ResolveContextRequest) (*dto.ResolveContextResponse, error) {
	ns, err := namespace.Parse(req.Namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNamespace, err)
	}

	bundle := s.resolve(ctx, req.Topic, ns)
	return &dto.ResolveContextResponse{
		Message:   bundle.Message,
		Documents: bundle.Documents,
		Source:    string(bundle.Source),
	}, nil
}

// ErrorCode classifies a pipeline error for clients.
func ErrorCode(err error) string {
	switch {
	case rag.IsMalformed(err):
		return CodeMalformedOutput
	case llm.IsTransport(err), errors.Is(err, context.DeadlineExceeded):
		return CodeUpstreamFailure
	default:
		return CodeInternal
	}
}

func ToJobResponse(job *entity.NoteJob) *dto.JobResponse {
	res := &dto.JobResponse{
		Id:        job.Id,
		Query:     job.Query,
		Status:    string(job.Status),
		Stage:     job.Stage,
		ErrorCode: job.ErrorCode,
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
	if job.Result != nil {
		res.Result = toGenerateResponse(job.Result)
	}
	return res
}

func toGenerateResponse(note *entity.GeneratedNote) *dto.GenerateNoteResponse {
	images := make([]dto.ImageRefItem, len(note.Images))
	for i, img := range note.Images {
		images[i] = dto.ImageRefItem{Description: img.Description, URL: img.URL}
	}
	return &dto.GenerateNoteResponse{
		Notes:         note.Notes,
		Namespace:     note.Namespace,
		Topics:        note.Topics,
		ContextSource: note.ContextSource,
		Images:        images,
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
