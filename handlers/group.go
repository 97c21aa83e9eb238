package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	groupService "slotsync/services/group"
)

// GroupHandler is the administrative surface over groups, members and
// appointed sessions. Every route behind it is gated by the operator-email
// middleware, except the member-facing group listing.
type GroupHandler struct {
	Groups groupService.GroupService
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(svc groupService.GroupService) *GroupHandler {
	return &GroupHandler{Groups: svc}
}

// MyGroupsHandler lists the groups the caller belongs to.
func (h *GroupHandler) MyGroupsHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.GetString("userID")
	groups, err := h.Groups.GroupsForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to list groups", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type createGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *GroupHandler) CreateGroupHandler(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	g, err := h.Groups.CreateGroup(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GroupHandler) DeleteGroupHandler(c *gin.Context) {
	if err := h.Groups.DeleteGroup(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type missingCountRequest struct {
	MissingCount *int `json:"missingCount" binding:"required"`
}

func (h *GroupHandler) SetMissingCountHandler(c *gin.Context) {
	var req missingCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.Groups.SetMissingCount(c.Request.Context(), c.Param("id"), *req.MissingCount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

type memberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *GroupHandler) AddMemberHandler(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.Groups.AddMember(c.Request.Context(), c.Param("id"), req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

func (h *GroupHandler) RemoveMemberHandler(c *gin.Context) {
	if err := h.Groups.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("userId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// ToggleRoleHandler flips a member between regular member and decision-maker.
func (h *GroupHandler) ToggleRoleHandler(c *gin.Context) {
	role, err := h.Groups.ToggleRole(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

type sessionRequest struct {
	DayIndex int `json:"dayIndex" binding:"required"`
	Hour     int `json:"hour" binding:"required"`
}

func (h *GroupHandler) AddSessionHandler(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	s, err := h.Groups.AddSession(c.Request.Context(), c.Param("id"), req.DayIndex, req.Hour)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *GroupHandler) DeleteSessionHandler(c *gin.Context) {
	if err := h.Groups.DeleteSession(c.Request.Context(), c.Param("sessionId")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
