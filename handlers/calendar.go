package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotsync/services/heatmap"
)

// CalendarHandler serves the aggregated group heatmap.
type CalendarHandler struct {
	Heatmap heatmap.HeatmapService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(svc heatmap.HeatmapService) *CalendarHandler {
	return &CalendarHandler{Heatmap: svc}
}

// WeekViewHandler resolves the heatmap for ?scope= (a group id, or "all") and
// the week containing ?date=. Either a complete view comes back or an error;
// there is no partially merged result.
func (h *CalendarHandler) WeekViewHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.GetString("userID")
	scope := c.DefaultQuery("scope", heatmap.ScopeAll)
	anchor, ok := parseAnchor(c)
	if !ok {
		return
	}

	view, err := h.Heatmap.WeekView(c.Request.Context(), userID, scope, anchor)
	if err != nil {
		if errors.Is(err, heatmap.ErrNotInScope) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of that group"})
			return
		}
		logger.Error("failed to resolve heatmap",
			zap.String("userId", userID), zap.String("scope", scope), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve group calendar"})
		return
	}

	c.JSON(http.StatusOK, view)
}
