// File: services/notification/service.go
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	groupRepo "slotsync/database/repository/group"
	subscriptionRepo "slotsync/database/repository/subscription"
	userRepo "slotsync/database/repository/user"
	"slotsync/models"
)

// FanoutResult summarizes one push batch. Per-recipient failures are counted,
// never fatal to the batch.
type FanoutResult struct {
	Success     bool   `json:"success"`
	SentCount   int    `json:"sentCount"`
	FailedCount int    `json:"failedCount"`
	Message     string `json:"message,omitempty"`
}

// DigestResult is the weekly digest outcome, including the inactivity cutoff
// that was applied.
type DigestResult struct {
	Success     bool      `json:"success"`
	SentCount   int       `json:"sentCount"`
	FailedCount int       `json:"failedCount"`
	Cutoff      time.Time `json:"cutoff"`
}

// NotificationService fans pushes out to group members and runs the weekly
// "update your schedule" digest.
type NotificationService interface {
	NotifyGroup(ctx context.Context, groupID string) (*FanoutResult, error)
	RunDigest(ctx context.Context) (*DigestResult, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Groups groupRepo.GroupRepository
	Users  userRepo.UserRepository
	Subs   subscriptionRepo.SubscriptionRepository
	Sender PushSender
	Logger *zap.Logger
	// Now is injectable so the digest cutoff is testable.
	Now func() time.Time
}

func (s *DefaultNotificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DigestCutoff returns the most recent Sunday 19:00 in now's location. When
// now is earlier in the week than that instant, the cutoff falls back to the
// previous week's Sunday.
func DigestCutoff(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	sunday := midnight.AddDate(0, 0, -int(now.Weekday()))
	cutoff := time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 19, 0, 0, 0, now.Location())
	if now.Before(cutoff) {
		cutoff = cutoff.AddDate(0, 0, -7)
	}
	return cutoff
}

// NotifyGroup pushes a "please update your schedule" nudge to every
// subscribed member of the group.
func (s *DefaultNotificationService) NotifyGroup(ctx context.Context, groupID string) (*FanoutResult, error) {
	if groupID == "" {
		return nil, errors.New("group id is required")
	}

	members, err := s.Groups.GetMembers(ctx, []string{groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group members: %w", err)
	}
	if len(members) == 0 {
		return &FanoutResult{Success: true, Message: "No members in group"}, nil
	}

	userIDs := make([]string, len(members))
	for i, m := range members {
		userIDs[i] = m.UserID
	}
	subs, err := s.Subs.GetByUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return &FanoutResult{Success: true, Message: "No active subscriptions in group"}, nil
	}

	sent, failed := s.fanout(ctx, subs,
		"Scheduler Update",
		"A group member requested you to update your schedule!",
		map[string]string{"type": "group_nudge", "groupId": groupID},
	)
	return &FanoutResult{Success: true, SentCount: sent, FailedCount: failed}, nil
}

// RunDigest nudges every subscribed user who has not saved availability since
// the weekly cutoff.
func (s *DefaultNotificationService) RunDigest(ctx context.Context) (*DigestResult, error) {
	cutoff := DigestCutoff(s.now())

	staleIDs, err := s.Users.GetStaleUserIDs(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to find inactive users: %w", err)
	}
	subs, err := s.Subs.GetByUsers(ctx, staleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	sent, failed := s.fanout(ctx, subs,
		"Schedule Reminder",
		"Don't forget to log in and update your availability for next week!",
		map[string]string{"type": "weekly_digest"},
	)
	return &DigestResult{Success: true, SentCount: sent, FailedCount: failed, Cutoff: cutoff}, nil
}

// fanout delivers one message to each subscription. A gone/expired token gets
// its subscription deleted and counts as failed; any other delivery error
// counts as failed without cleanup.
func (s *DefaultNotificationService) fanout(ctx context.Context, subs []models.PushSubscription, title, body string, data map[string]string) (sent, failed int) {
	for _, sub := range subs {
		err := s.Sender.Send(ctx, sub.Token, title, body, data)
		if err == nil {
			sent++
			continue
		}
		failed++
		s.Logger.Warn("push delivery failed",
			zap.String("userId", sub.UserID), zap.Error(err))
		if errors.Is(err, ErrTokenGone) {
			if delErr := s.Subs.DeleteByUser(ctx, sub.UserID); delErr != nil {
				s.Logger.Error("failed to clean up gone subscription",
					zap.String("userId", sub.UserID), zap.Error(delErr))
			}
		}
	}
	return sent, failed
}
