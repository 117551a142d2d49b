package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Xiaobonor/Migo-Backend/internal/service"
)

// NoteHandler exposes the quick-note endpoints.
type NoteHandler struct {
	Notes *service.NoteService
}

// NewNoteHandler creates the handler set.
func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{Notes: notes}
}

// Create records a new note.
func (h *NoteHandler) Create(c *gin.Context) {
	var req service.NoteCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid note payload."})
		return
	}

	note, err := h.Notes.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// List returns a user's notes, newest first.
func (h *NoteHandler) List(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "user_id is required."})
		return
	}

	skip := queryInt64(c, "skip", 0)
	limit := queryInt64(c, "limit", 20)

	notes, err := h.Notes.List(c.Request.Context(), userID, skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func queryInt64(c *gin.Context, key string, def int64) int64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}
