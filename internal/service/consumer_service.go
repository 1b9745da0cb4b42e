package service

import (
	"context"
	"encoding/json"
	"sync"

	"notecraft-be/internal/dto"
	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/events"
	"notecraft-be/pkg/rag/indexing"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// Wait blocks until the subscription is closed and the last message handled.
	Wait()
}

// PassageIndexer is satisfied by *indexing.Indexer.
type PassageIndexer interface {
	Index(ctx context.Context, job indexing.IndexJob) (int, error)
}

// consumerService runs index jobs off the request path. Failures are logged
// and acked: a failed upsert is not retried and never reaches a caller.
type consumerService struct {
	subscriber     message.Subscriber
	topicName      string
	indexer        PassageIndexer
	eventPublisher events.Publisher
	logger         logger.ILogger
	wg             sync.WaitGroup
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	indexer PassageIndexer,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:     subscriber,
		topicName:      topicName,
		indexer:        indexer,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) Wait() {
	cs.wg.Wait()
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.IndexPassagesMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("IndexConsumer", "Failed to unmarshal message", map[string]interface{}{"error": err, "message_id": msg.UUID})
		return
	}

	job := indexing.IndexJob{
		Namespace: payload.Namespace,
		Source:    corpus.Source(payload.Source),
		Documents: make([]corpus.Document, len(payload.Documents)),
	}
	for i, d := range payload.Documents {
		job.Documents[i] = corpus.Document{Title: d.Title, Text: d.Text, URL: d.URL}
	}

	written, err := cs.indexer.Index(ctx, job)
	if err != nil {
		cs.logger.Error("IndexConsumer", "Background indexing failed", map[string]interface{}{
			"namespace": job.Namespace,
			"source":    job.Source,
			"written":   written,
			"error":     err,
		})
		return
	}

	if cs.eventPublisher != nil && written > 0 {
		evt := events.NewPassagesIndexed(job.Namespace, string(job.Source), written)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("IndexConsumer", "Failed to publish PASSAGES_INDEXED event", map[string]interface{}{"error": err.Error()})
		}
	}
}
