package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	subscriptionRepo "slotsync/database/repository/subscription"
	"slotsync/models"
)

// SubscriptionHandler registers and removes the caller's push target.
type SubscriptionHandler struct {
	Subs subscriptionRepo.SubscriptionRepository
}

// NewSubscriptionHandler constructs the handler.
func NewSubscriptionHandler(subs subscriptionRepo.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{Subs: subs}
}

type subscribeRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *SubscriptionHandler) SubscribeHandler(c *gin.Context) {
	logger := getLogger(c)

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	userID := c.GetString("userID")
	err := h.Subs.Upsert(c.Request.Context(), models.PushSubscription{
		UserID: userID,
		Token:  req.Token,
	})
	if err != nil {
		logger.Error("failed to register subscription", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable notifications"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscribed": true})
}

func (h *SubscriptionHandler) UnsubscribeHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.GetString("userID")
	if err := h.Subs.DeleteByUser(c.Request.Context(), userID); err != nil {
		logger.Error("failed to remove subscription", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": false})
}
