package service

import (
	"context"
	"encoding/json"
	"sync"

	"notecraft-be/internal/dto"
	"notecraft-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// JobRunner is satisfied by INoteService.
type JobRunner interface {
	RunJob(ctx context.Context, id uuid.UUID, query string) error
}

// jobWorkerService drains the generation queue with a bounded pool. Messages
// are acked on receipt: job state, not redelivery, records the outcome.
type jobWorkerService struct {
	subscriber message.Subscriber
	topicName  string
	runner     JobRunner
	workers    int
	logger     logger.ILogger
	wg         sync.WaitGroup
}

func NewJobWorkerService(subscriber message.Subscriber, topicName string, runner JobRunner, workers int, log logger.ILogger) IConsumerService {
	if workers <= 0 {
		workers = 1
	}
	return &jobWorkerService{
		subscriber: subscriber,
		topicName:  topicName,
		runner:     runner,
		workers:    workers,
		logger:     log,
	}
}

func (w *jobWorkerService) Consume(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, w.topicName)
	if err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		var pool errgroup.Group
		pool.SetLimit(w.workers)
		for msg := range messages {
			msg.Ack()

			var payload dto.GenerateNotesMessage
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				w.logger.Error("JobWorker", "Failed to unmarshal message", map[string]interface{}{"error": err, "message_id": msg.UUID})
				continue
			}

			// Go blocks while all workers are busy.
			pool.Go(func() error {
				w.run(ctx, payload)
				return nil
			})
		}
		_ = pool.Wait()
	}()

	return nil
}

func (w *jobWorkerService) Wait() {
	w.wg.Wait()
}

func (w *jobWorkerService) run(ctx context.Context, payload dto.GenerateNotesMessage) {
	w.logger.Info("JobWorker", "Running note job", map[string]interface{}{"job_id": payload.JobId})
	if err := w.runner.RunJob(ctx, payload.JobId, payload.Query); err != nil {
		w.logger.Warn("JobWorker", "Note job failed", map[string]interface{}{
			"job_id":     payload.JobId,
			"error_code": ErrorCode(err),
			"error":      err.Error(),
		})
	}
}
