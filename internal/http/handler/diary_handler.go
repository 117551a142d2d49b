package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Xiaobonor/Migo-Backend/internal/service"
)

const dateLayout = "2006-01-02"

// DiaryHandler exposes the diary endpoints.
type DiaryHandler struct {
	Diaries *service.DiaryService
}

// NewDiaryHandler creates the handler set.
func NewDiaryHandler(diaries *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{Diaries: diaries}
}

// Create adds entries to the diary for a day, creating it if missing.
func (h *DiaryHandler) Create(c *gin.Context) {
	var req service.DiaryCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid diary payload."})
		return
	}

	diary, err := h.Diaries.CreateOrAppend(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, diary)
}

// List returns a user's diaries, optionally bounded by a date range.
func (h *DiaryHandler) List(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "user_id is required."})
		return
	}

	filter := service.DiaryListFilter{
		UserID: userID,
		Skip:   queryInt64(c, "skip", 0),
		Limit:  queryInt64(c, "limit", 20),
	}

	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "start_date must be YYYY-MM-DD."})
			return
		}
		filter.StartDate = &t
	}
	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "end_date must be YYYY-MM-DD."})
			return
		}
		filter.EndDate = &t
	}

	diaries, err := h.Diaries.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, diaries)
}

// Get returns one diary by id.
func (h *DiaryHandler) Get(c *gin.Context) {
	diary, err := h.Diaries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, diary)
}

// GetByDate returns the diary for a specific day.
func (h *DiaryHandler) GetByDate(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "user_id is required."})
		return
	}
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "date must be YYYY-MM-DD."})
		return
	}

	diary, err := h.Diaries.GetByDate(c.Request.Context(), userID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, diary)
}

// Delete removes an entire diary.
func (h *DiaryHandler) Delete(c *gin.Context) {
	if err := h.Diaries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteEntry removes a single entry from a diary.
func (h *DiaryHandler) DeleteEntry(c *gin.Context) {
	if err := h.Diaries.DeleteEntry(c.Request.Context(), c.Param("id"), c.Param("entry_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
