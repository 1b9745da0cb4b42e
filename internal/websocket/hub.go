package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"notecraft-be/internal/entity"
	"notecraft-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "notecraft_job_events"

// Hub fans job updates out to the websockets watching each job. With Redis
// configured every instance republishes so a client connected to another
// instance still receives the update.
type Hub struct {
	// JobID -> watching clients
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	// closed when Run returns
	done     chan struct{}
	doneOnce sync.Once

	mu sync.RWMutex

	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	JobID   string          `json:"job_id"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer h.doneOnce.Do(func() { close(h.done) })

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.JobID] = append(h.clients[client.JobID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"job_id": client.JobID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Register attaches client. Once Run has returned the client is refused and
// its Send channel closed.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister detaches client and closes its Send channel. It never blocks on
// a stopped hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.JobID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.JobID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.JobID]) == 0 {
		delete(h.clients, client.JobID)
	}
}

// Send delivers a job snapshot to local watchers and to the other instances.
func (h *Hub) Send(job *entity.NoteJob) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "job_update",
		"data": job,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode job update", map[string]interface{}{"error": err})
		return
	}

	h.deliverLocal(job.Id, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{Origin: h.instanceID, JobID: job.Id.String(), Message: data})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish job update to cluster", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Watchers returns how many local clients follow jobID.
func (h *Hub) Watchers(jobID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[jobID])
}

func (h *Hub) deliverLocal(jobID uuid.UUID, data []byte) {
	// Sends happen under the read lock so remove cannot close a channel mid-send.
	var slow []*Client
	h.mu.RLock()
	for _, client := range h.clients[jobID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"job_id": jobID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		jobID, err := uuid.Parse(payload.JobID)
		if err != nil {
			continue
		}
		h.deliverLocal(jobID, payload.Message)
	}
}
