package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotsync/models"
	availabilityService "slotsync/services/availability"
	"slotsync/services/schedule"
)

// AvailabilityHandler serves a user's own weekly unavailability grid.
type AvailabilityHandler struct {
	Availability availabilityService.AvailabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityService.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: svc}
}

// parseAnchor reads the ?date= query parameter, defaulting to today. Any date
// inside a week selects that whole Monday-anchored week.
func parseAnchor(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	anchor, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return anchor, true
}

// GetWeekHandler returns the caller's marks for the selected week.
func (h *AvailabilityHandler) GetWeekHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.GetString("userID")
	anchor, ok := parseAnchor(c)
	if !ok {
		return
	}

	week := schedule.WeekOf(anchor)
	marks, err := h.Availability.WeekMarks(c.Request.Context(), userID, week)
	if err != nil {
		logger.Error("failed to load week", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": week, "marks": marks})
}

type saveWeekRequest struct {
	Date  string           `json:"date" binding:"required"`
	Marks []models.SlotKey `json:"marks"`
}

// SaveWeekHandler replaces the caller's marks for one week. Slots that are no
// longer bookable are dropped server-side; the response reports how many marks
// were actually persisted. On failure nothing is replaced and the client keeps
// its pending edits for a retry.
func (h *AvailabilityHandler) SaveWeekHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.GetString("userID")
	var req saveWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	anchor, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	week := schedule.WeekOf(anchor)
	pending := make(map[models.SlotKey]bool, len(req.Marks))
	for _, m := range req.Marks {
		pending[m] = true
	}

	saved, err := h.Availability.SaveWeek(c.Request.Context(), userID, week, pending)
	if err != nil {
		logger.Error("failed to save week", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"savedCount": saved})
}
