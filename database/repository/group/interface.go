// File: database/repository/group/interface.go
package groupRepo

import (
	"context"

	"slotsync/models"
)

// GroupRepository is the membership/session directory: groups, their members
// (joined with profile fields at the boundary) and their appointed sessions.
type GroupRepository interface {
	CreateGroup(ctx context.Context, g models.Group) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroups(ctx context.Context, groupIDs []string) ([]models.Group, error)
	SetMissingCount(ctx context.Context, groupID string, count int) error

	AddMember(ctx context.Context, m models.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	SetMemberRole(ctx context.Context, groupID, userID, role string) error
	GetMembers(ctx context.Context, groupIDs []string) ([]models.MemberWithProfile, error)
	GetAllMembershipsFor(ctx context.Context, userIDs []string) ([]models.GroupMember, error)
	GetGroupsForUser(ctx context.Context, userID string) ([]models.Group, error)

	AddSession(ctx context.Context, s models.GroupSession) (*models.GroupSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetSessions(ctx context.Context, groupIDs []string, dayIndexes []int) ([]models.GroupSession, error)
	GetSessionsWithGroup(ctx context.Context, groupIDs []string, dayIndexes []int) ([]models.SessionWithGroup, error)
}
