// File: services/heatmap/service.go
package heatmap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	availabilityRepo "slotsync/database/repository/availability"
	groupRepo "slotsync/database/repository/group"
	"slotsync/models"
	"slotsync/services/schedule"
)

// ScopeAll selects the union of every group the viewer belongs to.
const ScopeAll = "all"

// ErrNotInScope is returned when the viewer asks for a group they do not
// belong to.
var ErrNotInScope = errors.New("viewer is not a member of the requested group")

// BusyMember is one unavailable member in a slot's tooltip.
type BusyMember struct {
	DisplayName   string `json:"displayName"`
	DecisionMaker bool   `json:"decisionMaker"`
}

// SlotCell is one graded cell of the weekly heatmap.
type SlotCell struct {
	DayIndex       int          `json:"dayIndex"`
	Hour           int          `json:"hour"`
	Severity       Severity     `json:"severity"`
	AvailableCount int          `json:"availableCount"`
	Busy           []BusyMember `json:"busy,omitempty"`
	IsSession      bool         `json:"isSession"`
	SessionNames   []string     `json:"sessionNames,omitempty"`
	Tooltip        string       `json:"tooltip"`
}

// WeekView is the fully resolved heatmap for one (scope, week).
type WeekView struct {
	Scope       string             `json:"scope"`
	Days        []schedule.DayInfo `json:"days"`
	MemberCount int                `json:"memberCount"`
	Tolerance   int                `json:"tolerance"`
	Cells       []SlotCell         `json:"cells"`
	FromCache   bool               `json:"fromCache"`
}

// HeatmapService resolves group availability heatmaps.
type HeatmapService interface {
	WeekView(ctx context.Context, viewerID, scope string, anchor time.Time) (*WeekView, error)
}

// DefaultHeatmapService is the production implementation.
type DefaultHeatmapService struct {
	Groups       groupRepo.GroupRepository
	Availability availabilityRepo.AvailabilityRepository
	Cache        ScopeCache
	Logger       *zap.Logger
}

// WeekView resolves the heatmap for the Monday-anchored week containing
// anchor. Either a complete view is returned or an error; a failed fetch never
// yields a partially merged heatmap.
func (s *DefaultHeatmapService) WeekView(ctx context.Context, viewerID, scope string, anchor time.Time) (*WeekView, error) {
	week := schedule.WeekOf(anchor)
	dayIndexes := schedule.WeekDayIndexes(week)

	viewerGroups, err := s.Groups.GetGroupsForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve viewer groups: %w", err)
	}

	var scopeGroups []models.Group
	if scope == ScopeAll {
		scopeGroups = viewerGroups
	} else {
		for _, g := range viewerGroups {
			if g.ID == scope {
				scopeGroups = []models.Group{g}
				break
			}
		}
		if len(scopeGroups) == 0 {
			return nil, ErrNotInScope
		}
	}

	scopeGroupIDs := make([]string, len(scopeGroups))
	for i, g := range scopeGroups {
		scopeGroupIDs[i] = g.ID
	}

	// Membership rows and roles are always fetched live, even on a cache hit.
	members, err := s.Groups.GetMembers(ctx, scopeGroupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	members = DedupeMembers(members)

	key := CacheKey(scopeGroupIDs, week[0].DayIndex)
	cached, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Warn("scope cache read failed, resolving fresh", zap.String("key", key), zap.Error(err))
		cached = nil
	}

	var payload CachedWeek
	fromCache := cached != nil
	if fromCache {
		payload = *cached
	} else {
		payload, err = s.resolve(ctx, members, scopeGroupIDs, dayIndexes)
		if err != nil {
			return nil, err
		}
		if err := s.Cache.Set(ctx, key, payload); err != nil {
			s.Logger.Warn("scope cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	view := s.grade(scope, week, members, scopeGroups, payload)
	view.FromCache = fromCache
	return view, nil
}

// resolve computes the effective busy set and session overlays for one week.
func (s *DefaultHeatmapService) resolve(ctx context.Context, members []models.MemberWithProfile, scopeGroupIDs []string, dayIndexes []int) (CachedWeek, error) {
	memberIDs := make([]string, len(members))
	memberIDSet := make(map[string]bool, len(members))
	for i, m := range members {
		memberIDs[i] = m.UserID
		memberIDSet[m.UserID] = true
	}

	direct, err := s.Availability.GetMarks(ctx, memberIDs, dayIndexes)
	if err != nil {
		return CachedWeek{}, fmt.Errorf("failed to fetch direct marks: %w", err)
	}

	// Every membership of every member, not limited to the viewing scope:
	// outside commitments make a person unavailable everywhere.
	memberships, err := s.Groups.GetAllMembershipsFor(ctx, memberIDs)
	if err != nil {
		return CachedWeek{}, fmt.Errorf("failed to fetch memberships: %w", err)
	}

	discovered := make([]string, 0, len(memberships))
	seenGroup := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		if !seenGroup[m.GroupID] {
			seenGroup[m.GroupID] = true
			discovered = append(discovered, m.GroupID)
		}
	}

	sessions, err := s.Groups.GetSessions(ctx, discovered, dayIndexes)
	if err != nil {
		return CachedWeek{}, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	overlays, err := s.Groups.GetSessionsWithGroup(ctx, scopeGroupIDs, dayIndexes)
	if err != nil {
		return CachedWeek{}, fmt.Errorf("failed to fetch session overlays: %w", err)
	}

	return CachedWeek{
		Busy:     MergeEffectiveBusy(direct, memberships, sessions, memberIDSet),
		Overlays: overlays,
	}, nil
}

// grade turns the resolved busy/overlay payload into graded cells.
func (s *DefaultHeatmapService) grade(scope string, week []schedule.DayInfo, members []models.MemberWithProfile, scopeGroups []models.Group, payload CachedWeek) *WeekView {
	tolerance := CombinedTolerance(scopeGroups)

	busyAt := make(map[models.SlotKey]map[string]bool)
	for _, m := range payload.Busy {
		k := m.Key()
		if busyAt[k] == nil {
			busyAt[k] = make(map[string]bool)
		}
		busyAt[k][m.UserID] = true
	}
	overlaysAt := make(map[models.SlotKey][]models.SessionWithGroup)
	for _, o := range payload.Overlays {
		k := models.SlotKey{DayIndex: o.DayIndex, Hour: o.Hour}
		overlaysAt[k] = append(overlaysAt[k], o)
	}

	view := &WeekView{
		Scope:       scope,
		Days:        week,
		MemberCount: len(members),
		Tolerance:   tolerance,
		Cells:       make([]SlotCell, 0, len(week)*len(schedule.AllSlotHours)),
	}

	for _, hour := range schedule.AllSlotHours {
		for _, day := range week {
			k := models.SlotKey{DayIndex: day.DayIndex, Hour: hour}
			busyUsers := busyAt[k]
			cell := SlotCell{
				DayIndex: day.DayIndex,
				Hour:     hour,
				Severity: Classify(day.Weekday, hour, busyUsers, members, tolerance),
			}

			if overlays := overlaysAt[k]; len(overlays) > 0 {
				cell.IsSession = true
				for _, o := range overlays {
					name := o.GroupName
					if name == "" {
						name = "Session"
					}
					cell.SessionNames = append(cell.SessionNames, name)
				}
				cell.Tooltip = "Planned Session"
				view.Cells = append(view.Cells, cell)
				continue
			}

			if cell.Severity == SeverityNotApplicable {
				cell.Tooltip = "Unavailable"
				view.Cells = append(view.Cells, cell)
				continue
			}

			for _, m := range members {
				if busyUsers[m.UserID] {
					cell.Busy = append(cell.Busy, BusyMember{
						DisplayName:   displayName(m),
						DecisionMaker: m.IsDecisionMaker(),
					})
				}
			}
			cell.AvailableCount = len(members) - len(cell.Busy)
			cell.Tooltip = tooltip(cell.Busy)
			view.Cells = append(view.Cells, cell)
		}
	}
	return view
}

func displayName(m models.MemberWithProfile) string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return "Anonymous"
}

func tooltip(busy []BusyMember) string {
	if len(busy) == 0 {
		return "Everyone is available! ✨"
	}
	lines := make([]string, 0, len(busy)+1)
	lines = append(lines, "Unavailable:")
	for _, b := range busy {
		line := "- " + b.DisplayName
		if b.DecisionMaker {
			line += " (DM)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
