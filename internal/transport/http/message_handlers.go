package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/proto"
	"github.com/parleychat/parley-server/internal/store"
)

// MessageHandlers provides HTTP handlers for message history. History is
// how offline recipients catch up: live push only reaches connections
// that were open at send time.
type MessageHandlers struct {
	store store.MessageStore
	limit int
	log   *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(st store.MessageStore, historyLimit int, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		store: st,
		limit: historyLimit,
		log:   logger,
	}
}

// ListRoomMessages returns a room's history, oldest first.
// GET /api/messages/:roomId
func (h *MessageHandlers) ListRoomMessages(c *gin.Context) {
	roomID := c.Param("roomId")

	messages, err := h.store.ListRoomMessages(c.Request.Context(), roomID, h.limit)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to load messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]proto.MessagePayload, 0, len(messages))
	for _, msg := range messages {
		response = append(response, messagePayload(msg))
	}

	c.JSON(http.StatusOK, response)
}
