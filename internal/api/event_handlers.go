package api

import (
	"net/http"
	"strconv"
	"time"

	"babytrack/internal/event"
	"babytrack/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateEventRequest struct {
	Date    time.Time  `json:"date" binding:"required"`
	Type    string     `json:"type" binding:"required"`
	Nature  string     `json:"nature" binding:"required"`
	Volume  string     `json:"volume" binding:"required"`
	Context event.Tags `json:"context"`
	Comment *string    `json:"comment"`
	UserID  *int64     `json:"userId"`
}

// GET /events
func ListEventsHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := st.FindEvents(c.Request.Context(), store.EventFilter{})
		if err != nil {
			internalError(c, log, "list events", err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// GET /events/:id, where id is the owning user's id
func ListUserEventsByIDHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			abortWithMessage(c, http.StatusBadRequest, "userId must be an integer")
			return
		}
		events, err := st.FindEvents(c.Request.Context(), store.EventFilter{UserID: &userID})
		if err != nil {
			internalError(c, log, "list user events", err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// POST /events
func CreateEventHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithMessage(c, http.StatusBadRequest, "Invalid event: date, type, nature and volume are required")
			return
		}
		e := event.Event{
			Date:    req.Date,
			Type:    req.Type,
			Nature:  req.Nature,
			Volume:  req.Volume,
			Context: []string(req.Context),
			Comment: req.Comment,
			UserID:  req.UserID,
		}
		if e.Context == nil {
			e.Context = []string{}
		}
		if err := st.CreateEvent(c.Request.Context(), &e); err != nil {
			internalError(c, log, "create event", err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// DELETE /events/:id
func DeleteEventHandler(st store.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			abortWithMessage(c, http.StatusBadRequest, "id must be an integer")
			return
		}
		n, err := st.DeleteEvent(c.Request.Context(), id)
		if err != nil {
			internalError(c, log, "delete event", err)
			return
		}
		c.String(http.StatusOK, strconv.FormatInt(n, 10))
	}
}
