package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"stock-assistant/internal/conversation"
	"stock-assistant/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
)

const streamWriteTimeout = 10 * time.Second

type SessionResponse struct {
	ID string `json:"id"`
	conversation.Snapshot
}

type ChooseRequest struct {
	MessageID domain.MessageID `json:"message_id" binding:"required"`
	Option    *int             `json:"option" binding:"required"`
}

// CreateSession godoc
// @Summary      Start a conversation
// @Description  Creates a session seeded with the welcome message
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  SessionResponse
// @Failure      503  {object}  map[string]string
// @Router       /api/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sessions unavailable"})
		return
	}

	_, span := h.tracer.Start(c.Request.Context(), "handler.create-session")
	defer span.End()

	id, ctrl := h.sessions.Create()
	span.SetAttributes(attribute.String("session.id", id))
	c.JSON(http.StatusCreated, SessionResponse{ID: id, Snapshot: ctrl.Snapshot()})
}

// GetSession godoc
// @Summary      Get conversation state
// @Description  Returns the message log, the active message and whether the assistant is typing
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  SessionResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: id, Snapshot: ctrl.Snapshot()})
}

// ChooseOption godoc
// @Summary      Choose an option
// @Description  Selects an option of the active message. The reply arrives after the debounce and typing delays; poll the session or use the stream.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id       path  string         true  "Session ID"
// @Param        request  body  ChooseRequest  true  "Message id and option index"
// @Success      202  {object}  SessionResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/sessions/{id}/options [post]
func (h *Handler) ChooseOption(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}

	var req ChooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message_id and option are required"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.choose-option")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", id),
		attribute.Int64("message.id", int64(req.MessageID)),
		attribute.Int("option.index", *req.Option),
	)

	if err := ctrl.Choose(ctx, req.MessageID, *req.Option); err != nil {
		switch {
		case errors.Is(err, conversation.ErrBusy), errors.Is(err, conversation.ErrOptionDisabled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, conversation.ErrUnknownOption):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, conversation.ErrClosed):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusAccepted, SessionResponse{ID: id, Snapshot: ctrl.Snapshot()})
}

// DeleteSession godoc
// @Summary      End a conversation
// @Tags         sessions
// @Param        id  path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/sessions/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sessions unavailable"})
		return
	}
	if !h.sessions.Drop(strings.TrimSpace(c.Param("id"))) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// StreamSession godoc
// @Summary      Stream conversation state
// @Description  Upgrades to a WebSocket that receives a SessionResponse after every state change, starting with the current state
// @Tags         sessions
// @Param        id  path  string  true  "Session ID"
// @Success      101
// @Failure      404  {object}  map[string]string
// @Router       /api/sessions/{id}/stream [get]
func (h *Handler) StreamSession(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", id, "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The client never sends anything; reading detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	updates, _ := ctrl.Subscribe(ctx)
	for snap := range updates {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(SessionResponse{ID: id, Snapshot: snap}); err != nil {
			h.logger.Debug("stream closed", "session", id, "err", err)
			return
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
		time.Now().Add(time.Second))
}

func (h *Handler) lookup(c *gin.Context) (string, *conversation.Controller, bool) {
	if h.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sessions unavailable"})
		return "", nil, false
	}
	id := strings.TrimSpace(c.Param("id"))
	ctrl, ok := h.sessions.Lookup(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return "", nil, false
	}
	return id, ctrl, true
}
