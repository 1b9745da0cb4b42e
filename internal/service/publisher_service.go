package service

import (
	"context"
	"encoding/json"
	"fmt"

	"notecraft-be/internal/dto"
	"notecraft-be/pkg/rag/indexing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topicName, err)
	}
	return nil
}

// indexScheduler submits index jobs to the background queue. The caller only
// learns whether the submission was accepted.
type indexScheduler struct {
	publisher IPublisherService
}

func NewIndexScheduler(publisher IPublisherService) indexing.Scheduler {
	return &indexScheduler{publisher: publisher}
}

func (s *indexScheduler) Schedule(ctx context.Context, job indexing.IndexJob) error {
	msg := dto.IndexPassagesMessage{
		Namespace: job.Namespace,
		Source:    string(job.Source),
		Documents: make([]dto.DocumentItem, len(job.Documents)),
	}
	for i, d := range job.Documents {
		msg.Documents[i] = dto.DocumentItem{Title: d.Title, Text: d.Text, URL: d.URL}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, payload)
}
