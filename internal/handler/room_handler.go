package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"playgrid/backend/internal/auth"
	"playgrid/backend/internal/models"
	"playgrid/backend/internal/room"
	"playgrid/backend/internal/store"
)

// Rooms serves the room HTTP endpoints. Everything beyond create/status
// happens over the live connection.
type Rooms struct {
	rooms *store.Rooms
}

// NewRooms wires the room handler.
func NewRooms(rooms *store.Rooms) *Rooms {
	return &Rooms{rooms: rooms}
}

// Create godoc
// @Summary      Create a room
// @Description  Creates a new waiting room with a fresh share code.
// @Tags         rooms
// @Produce      json
// @Success      201  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /room/create [post]
func (h *Rooms) Create(c *gin.Context) {
	user := auth.CurrentUser(c)

	rm, err := h.rooms.Create(c.Request.Context(), user.ID)
	if err != nil {
		var appErr *room.Error
		if errors.As(err, &appErr) && appErr.Kind == room.KindExhausted {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": appErr.Message}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Failed to create room"}})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": true, "data": gin.H{"code": rm.Code}})
}

// Status godoc
// @Summary      Get a room's joinability
// @Description  Reports whether a room can still be joined by its code.
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /room/{code}/status [get]
func (h *Rooms) Status(c *gin.Context) {
	code := room.Canonical(c.Param("code"))

	status, err := h.rooms.StatusByCode(c.Request.Context(), code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": false, "errors": gin.H{"message": "Room not found"}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Failed to get room status"}})
		return
	}

	switch status {
	case models.StatusPlaying:
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": gin.H{"message": "Cannot join, game already started"}})
	case models.StatusFinished:
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": gin.H{"message": "Cannot join, game already finished"}})
	default:
		c.JSON(http.StatusOK, gin.H{"status": true, "data": gin.H{"status": models.StatusWaiting}})
	}
}
