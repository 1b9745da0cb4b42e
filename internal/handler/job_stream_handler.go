package handler

import (
	"encoding/json"
	"errors"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/internal/pkg/serverutils"
	"notecraft-be/internal/service"
	internalWS "notecraft-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// JobStreamHandler streams job updates over a websocket.
type JobStreamHandler struct {
	service service.INoteService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewJobStreamHandler(svc service.INoteService, hub *internalWS.Hub, log logger.ILogger) *JobStreamHandler {
	return &JobStreamHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

func (h *JobStreamHandler) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	r.Get("/notes/v1/jobs/:id/ws", guard, h.ServeWs)
}

// ServeWs checks that the job exists, then upgrades. The current job state is
// the first message on the socket.
func (h *JobStreamHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return serverutils.BadRequest("Invalid job id")
	}

	job, err := h.service.GetJob(c.UserContext(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return serverutils.NotFound("Job not found")
		}
		return err
	}

	initial, _ := json.Marshal(map[string]interface{}{
		"type": "job_update",
		"data": job,
	})

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("JobStreamHandler", "Starting job stream", map[string]interface{}{"job_id": jobID})
		internalWS.ServeWs(h.hub, conn, jobID, initial)
		h.logger.Info("JobStreamHandler", "Job stream ended", map[string]interface{}{"job_id": jobID})
	})(c)
}
