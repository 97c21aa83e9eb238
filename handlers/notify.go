package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotsync/cron"
	"slotsync/services/notification"
)

// NotifyHandler triggers push fanouts: ad-hoc group nudges are queued for the
// background worker, the weekly digest can be invoked synchronously by an
// external scheduler hitting the cron endpoint.
type NotifyHandler struct {
	Queue        *asynq.Client
	Notification notification.NotificationService
	CronSecret   string
}

// NewNotifyHandler constructs the handler.
func NewNotifyHandler(queue *asynq.Client, svc notification.NotificationService, cronSecret string) *NotifyHandler {
	return &NotifyHandler{Queue: queue, Notification: svc, CronSecret: cronSecret}
}

type notifyGroupRequest struct {
	GroupID string `json:"groupId" binding:"required"`
}

// NotifyGroupHandler enqueues a "please update your schedule" nudge for every
// subscribed member of the group.
func (h *NotifyHandler) NotifyGroupHandler(c *gin.Context) {
	logger := getLogger(c)

	var req notifyGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group ID is required"})
		return
	}

	payload, err := json.Marshal(cron.GroupNotifyPayload{GroupID: req.GroupID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue notification"})
		return
	}
	if _, err := h.Queue.EnqueueContext(c.Request.Context(), asynq.NewTask(cron.TypeGroupNotify, payload)); err != nil {
		logger.Error("failed to enqueue group notification",
			zap.String("groupId", req.GroupID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue notification"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

// DigestHandler runs the weekly digest on demand. A missing or wrong shared
// secret is a 401; an unexpected failure is a 500; otherwise the summary
// {success, sentCount, failedCount, cutoff} comes back.
func (h *NotifyHandler) DigestHandler(c *gin.Context) {
	logger := getLogger(c)

	secret := c.Query("secret")
	if h.CronSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.CronSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.Notification.RunDigest(c.Request.Context())
	if err != nil {
		logger.Error("digest run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
