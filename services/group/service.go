// File: services/group/service.go
package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	groupRepo "slotsync/database/repository/group"
	"slotsync/models"
)

// GroupService is the administrative surface over groups, members and
// appointed sessions. Authorization (the single operator-email rule) is
// enforced by middleware before any of these run.
type GroupService interface {
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	SetMissingCount(ctx context.Context, groupID string, count int) error
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ToggleRole(ctx context.Context, groupID, userID string) (string, error)
	AddSession(ctx context.Context, groupID string, dayIndex, hour int) (*models.GroupSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GroupsForUser(ctx context.Context, userID string) ([]models.Group, error)
}

// DefaultGroupService is the production implementation.
type DefaultGroupService struct {
	Repo   groupRepo.GroupRepository
	Logger *zap.Logger
}

func (s *DefaultGroupService) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("group name must not be empty")
	}
	return s.Repo.CreateGroup(ctx, models.Group{Name: name})
}

func (s *DefaultGroupService) DeleteGroup(ctx context.Context, groupID string) error {
	return s.Repo.DeleteGroup(ctx, groupID)
}

func (s *DefaultGroupService) SetMissingCount(ctx context.Context, groupID string, count int) error {
	if count < 0 {
		return errors.New("missing count must not be negative")
	}
	return s.Repo.SetMissingCount(ctx, groupID, count)
}

func (s *DefaultGroupService) AddMember(ctx context.Context, groupID, userID string) error {
	if userID == "" {
		return errors.New("user id must not be empty")
	}
	return s.Repo.AddMember(ctx, models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    models.RoleMember,
	})
}

func (s *DefaultGroupService) RemoveMember(ctx context.Context, groupID, userID string) error {
	return s.Repo.RemoveMember(ctx, groupID, userID)
}

// ToggleRole flips a member between regular member and decision-maker and
// returns the new role.
func (s *DefaultGroupService) ToggleRole(ctx context.Context, groupID, userID string) (string, error) {
	members, err := s.Repo.GetMembers(ctx, []string{groupID})
	if err != nil {
		return "", fmt.Errorf("failed to look up membership: %w", err)
	}
	current := ""
	for _, m := range members {
		if m.UserID == userID {
			current = m.Role
			break
		}
	}
	if current == "" {
		return "", fmt.Errorf("user %s is not a member of group %s", userID, groupID)
	}

	next := models.RoleDecisionMaker
	if current == models.RoleDecisionMaker {
		next = models.RoleMember
	}
	if err := s.Repo.SetMemberRole(ctx, groupID, userID, next); err != nil {
		return "", err
	}
	return next, nil
}

// AddSession appoints a fixed meeting. The slot does not have to be active
// under the calendar rule; the engine honors appointed sessions regardless.
func (s *DefaultGroupService) AddSession(ctx context.Context, groupID string, dayIndex, hour int) (*models.GroupSession, error) {
	if dayIndex <= 0 {
		return nil, errors.New("day index must be positive")
	}
	return s.Repo.AddSession(ctx, models.GroupSession{
		GroupID:  groupID,
		DayIndex: dayIndex,
		Hour:     hour,
	})
}

func (s *DefaultGroupService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.Repo.DeleteSession(ctx, sessionID)
}

func (s *DefaultGroupService) GroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	return s.Repo.GetGroupsForUser(ctx, userID)
}
