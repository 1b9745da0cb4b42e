package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"notecraft-be/internal/entity"
	"notecraft-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToJobWatchers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	jobID := uuid.New()
	watcher := &Client{Hub: hub, JobID: jobID, Send: make(chan []byte, 4)}
	other := &Client{Hub: hub, JobID: uuid.New(), Send: make(chan []byte, 4)}
	hub.Register(watcher)
	hub.Register(other)

	require.Eventually(t, func() bool { return hub.Watchers(jobID) == 1 }, time.Second, 5*time.Millisecond)

	hub.Send(&entity.NoteJob{Id: jobID, Status: entity.JobRunning})

	select {
	case raw := <-watcher.Send:
		var msg struct {
			Type string         `json:"type"`
			Data entity.NoteJob `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "job_update", msg.Type)
		assert.Equal(t, entity.JobRunning, msg.Data.Status)
	case <-time.After(time.Second):
		t.Fatal("watcher got no update")
	}
	assert.Empty(t, other.Send)

	hub.Unregister(watcher)
	require.Eventually(t, func() bool { return hub.Watchers(jobID) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-watcher.Send
	assert.False(t, open)
}

func TestHubDropsSlowClientWithoutRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	jobID := uuid.New()
	slow := &Client{Hub: hub, JobID: jobID, Send: make(chan []byte, 1)}
	hub.Register(slow)
	require.Eventually(t, func() bool { return hub.Watchers(jobID) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	hub.Send(&entity.NoteJob{Id: jobID, Status: entity.JobRunning})
	hub.Send(&entity.NoteJob{Id: jobID, Status: entity.JobSucceeded})

	assert.Equal(t, 0, hub.Watchers(jobID))
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	jobID := uuid.New()
	watcher := &Client{Hub: hub, JobID: jobID, Send: make(chan []byte, 4)}
	hub.Register(watcher)
	require.Eventually(t, func() bool { return hub.Watchers(jobID) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	returned := make(chan struct{})
	go func() {
		hub.Unregister(watcher)
		hub.Register(&Client{Hub: hub, JobID: jobID, Send: make(chan []byte, 1)})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after Run returned")
	}
	assert.Equal(t, 0, hub.Watchers(jobID))
	_, open := <-watcher.Send
	assert.False(t, open)
}
