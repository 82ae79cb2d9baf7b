package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vibework/backend/internal/middleware"
	"vibework/backend/internal/service"
)

const streamBuffer = 4

type SessionHandler struct {
	sessionService *service.SessionService
}

type startRequest struct {
	Tag string `json:"tag"`
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.sessionService.Presets()})
}

func (h *SessionHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.sessionService.State()})
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_tag", "message": "tag is required"},
		})
		return
	}

	state, apiErr := h.sessionService.Start(req.Tag)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	log.Info().Str("device", middleware.DeviceID(c)).Str("preset", state.Preset.Tag).Msg("session started")
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *SessionHandler) Pause(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.sessionService.PauseResume()})
}

func (h *SessionHandler) Stop(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.sessionService.Stop()})
}

// Stream pushes every snapshot as a server-sent "session" event. The first event is
// the current state.
func (h *SessionHandler) Stream(c *gin.Context) {
	updates, cancel := h.sessionService.Subscribe(streamBuffer)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	log.Debug().Str("device", middleware.DeviceID(c)).Msg("session stream opened")
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snapshot, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("session", snapshot)
			return true
		}
	})
	log.Debug().Str("device", middleware.DeviceID(c)).Msg("session stream closed")
}
