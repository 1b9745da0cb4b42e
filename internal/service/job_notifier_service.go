package service

import (
	"context"
	"encoding/json"
	"fmt"

	"notecraft-be/internal/entity"
	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/events"
	pktNats "notecraft-be/pkg/nats"
)

// JobDelivery pushes job snapshots to live watchers. Implemented by the
// websocket Hub.
type JobDelivery interface {
	Send(job *entity.NoteJob)
}

// EventSubscriber is satisfied by *pktNats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error
}

type IJobNotifier interface {
	Start(ctx context.Context) error
	Notify(ctx context.Context, job *entity.NoteJob)
}

// JobNotifier routes job updates through the event bus so that every
// instance's watchers hear about them. Without a bus, updates are delivered
// in process.
type JobNotifier struct {
	publisher  events.Publisher
	subscriber EventSubscriber
	delivery   JobDelivery
	logger     logger.ILogger
}

func NewJobNotifier(pub events.Publisher, sub EventSubscriber, delivery JobDelivery, log logger.ILogger) *JobNotifier {
	return &JobNotifier{
		publisher:  pub,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (n *JobNotifier) Start(ctx context.Context) error {
	if n.subscriber == nil {
		return nil
	}
	if err := n.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", "job-notifier", n.handleEvent); err != nil {
		return err
	}
	n.logger.Info("JobNotifier", "Job notifier listening to events.>", nil)
	return nil
}

func (n *JobNotifier) Notify(ctx context.Context, job *entity.NoteJob) {
	if n.publisher == nil || n.subscriber == nil {
		n.deliver(job)
		return
	}

	snapshot, err := toPayload(job)
	if err == nil {
		err = n.publisher.Publish(ctx, events.NewJobUpdated(job.Id.String(), snapshot))
	}
	if err != nil {
		n.logger.Warn("JobNotifier", "Event bus unavailable, delivering locally", map[string]interface{}{
			"job_id": job.Id,
			"error":  err.Error(),
		})
		n.deliver(job)
	}
}

func (n *JobNotifier) handleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.TypeJobUpdated:
		job, err := fromPayload(event.Payload()["job"])
		if err != nil {
			// Redelivery cannot fix a bad payload.
			n.logger.Error("JobNotifier", "Invalid job payload", map[string]interface{}{"error": err})
			return nil
		}
		n.deliver(job)

	case events.TypePassagesIndexed:
		n.logger.Info("JobNotifier", "Passages indexed", event.Payload())

	default:
		n.logger.Debug("JobNotifier", fmt.Sprintf("Ignoring event %s", event.EventType()), nil)
	}
	return nil
}

func (n *JobNotifier) deliver(job *entity.NoteJob) {
	if n.delivery != nil {
		n.delivery.Send(job)
	}
}

func toPayload(job *entity.NoteJob) (map[string]interface{}, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromPayload(v interface{}) (*entity.NoteJob, error) {
	if v == nil {
		return nil, fmt.Errorf("missing job")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var job entity.NoteJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
