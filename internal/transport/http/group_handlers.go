package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
)

// GroupHandlers provides HTTP handlers for group chat endpoints.
type GroupHandlers struct {
	store store.GroupStore
	log   *zerolog.Logger
}

// NewGroupHandlers creates a new group handlers instance.
func NewGroupHandlers(st store.GroupStore, logger *zerolog.Logger) *GroupHandlers {
	return &GroupHandlers{
		store: st,
		log:   logger,
	}
}

// CreateGroupRequest represents the create group request body.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	RoomID    string `json:"roomId"`
	CreatedAt string `json:"createdAt"`
}

func groupResponse(group *store.Group) GroupResponse {
	return GroupResponse{
		ID:        group.ID,
		Name:      group.Name,
		RoomID:    group.RoomID,
		CreatedAt: group.CreatedAt.Format(time.RFC3339),
	}
}

// CreateGroup handles group creation.
// POST /api/groups
func (h *GroupHandlers) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create group request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	roomID := fmt.Sprintf("group_%d", time.Now().UnixMilli())

	group, err := h.store.CreateGroup(c.Request.Context(), req.Name, roomID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "group already exists"})
			return
		}
		h.log.Error().Err(err).Str("group_name", req.Name).Msg("failed to create group")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("group_name", group.Name).Str("room_id", group.RoomID).Msg("group created")
	c.JSON(http.StatusCreated, groupResponse(group))
}

// ListGroups handles listing all groups, newest first.
// GET /api/groups
func (h *GroupHandlers) ListGroups(c *gin.Context) {
	groups, err := h.store.ListGroups(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list groups")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		response = append(response, groupResponse(group))
	}

	c.JSON(http.StatusOK, response)
}

// GetGroup handles fetching a single group by room id.
// GET /api/groups/:roomId
func (h *GroupHandlers) GetGroup(c *gin.Context) {
	group, err := h.store.GetGroupByRoomID(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		h.log.Error().Err(err).Str("room_id", c.Param("roomId")).Msg("failed to load group")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if group == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "group not found"})
		return
	}

	c.JSON(http.StatusOK, groupResponse(group))
}
