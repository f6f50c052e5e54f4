package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
)

// UserHandlers provides HTTP handlers for user presence lookups.
type UserHandlers struct {
	store store.UserStore
	log   *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.UserStore, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store: st,
		log:   logger,
	}
}

// LastSeen returns a user's persisted presence snapshot.
// GET /api/users/:username/lastseen
func (h *UserHandlers) LastSeen(c *gin.Context) {
	username := c.Param("username")

	user, err := h.store.GetUserByName(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		Name:     user.Name,
		IsOnline: user.IsOnline,
		LastSeen: user.LastSeen.UnixMilli(),
	})
}
