package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slotsync/models"
)

// fakeSender fails delivery for tokens listed in failWith.
type fakeSender struct {
	sentTokens []string
	failWith   map[string]error
}

func (f *fakeSender) Send(_ context.Context, token, _, _ string, _ map[string]string) error {
	if err, ok := f.failWith[token]; ok {
		return err
	}
	f.sentTokens = append(f.sentTokens, token)
	return nil
}

type fakeSubRepo struct {
	subs    []models.PushSubscription
	deleted []string
}

func (f *fakeSubRepo) Upsert(_ context.Context, sub models.PushSubscription) error {
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeSubRepo) DeleteByUser(_ context.Context, userID string) error {
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeSubRepo) GetByUsers(_ context.Context, userIDs []string) ([]models.PushSubscription, error) {
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var out []models.PushSubscription
	for _, s := range f.subs {
		if want[s.UserID] {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeMemberSource struct {
	members map[string][]models.MemberWithProfile
}

func (f *fakeMemberSource) GetMembers(_ context.Context, groupIDs []string) ([]models.MemberWithProfile, error) {
	var out []models.MemberWithProfile
	for _, id := range groupIDs {
		out = append(out, f.members[id]...)
	}
	return out, nil
}

func (f *fakeMemberSource) CreateGroup(_ context.Context, g models.Group) (*models.Group, error) {
	return &g, nil
}
func (f *fakeMemberSource) DeleteGroup(context.Context, string) error { return nil }
func (f *fakeMemberSource) GetGroup(context.Context, string) (*models.Group, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeMemberSource) GetGroups(context.Context, []string) ([]models.Group, error) {
	return nil, nil
}
func (f *fakeMemberSource) SetMissingCount(context.Context, string, int) error { return nil }
func (f *fakeMemberSource) AddMember(context.Context, models.GroupMember) error {
	return nil
}
func (f *fakeMemberSource) RemoveMember(context.Context, string, string) error { return nil }
func (f *fakeMemberSource) SetMemberRole(context.Context, string, string, string) error {
	return nil
}
func (f *fakeMemberSource) GetAllMembershipsFor(context.Context, []string) ([]models.GroupMember, error) {
	return nil, nil
}
func (f *fakeMemberSource) GetGroupsForUser(context.Context, string) ([]models.Group, error) {
	return nil, nil
}
func (f *fakeMemberSource) AddSession(_ context.Context, s models.GroupSession) (*models.GroupSession, error) {
	return &s, nil
}
func (f *fakeMemberSource) DeleteSession(context.Context, string) error { return nil }
func (f *fakeMemberSource) GetSessions(context.Context, []string, []int) ([]models.GroupSession, error) {
	return nil, nil
}
func (f *fakeMemberSource) GetSessionsWithGroup(context.Context, []string, []int) ([]models.SessionWithGroup, error) {
	return nil, nil
}

type fakeStaleUsers struct {
	staleIDs []string
}

func (f *fakeStaleUsers) Create(_ context.Context, u models.User) (*models.User, error) {
	return &u, nil
}
func (f *fakeStaleUsers) GetByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeStaleUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeStaleUsers) TouchLastSaved(context.Context, string, time.Time) error { return nil }
func (f *fakeStaleUsers) GetStaleUserIDs(context.Context, time.Time) ([]string, error) {
	return f.staleIDs, nil
}

func TestDigestCutoff(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "midweek maps to the previous sunday evening",
			now:  time.Date(2024, 6, 12, 12, 0, 0, 0, loc), // Wednesday
			want: time.Date(2024, 6, 9, 19, 0, 0, 0, loc),
		},
		{
			name: "sunday after seven pm maps to the same evening",
			now:  time.Date(2024, 6, 9, 20, 0, 0, 0, loc),
			want: time.Date(2024, 6, 9, 19, 0, 0, 0, loc),
		},
		{
			name: "exactly at seven pm maps to the same evening",
			now:  time.Date(2024, 6, 9, 19, 0, 0, 0, loc),
			want: time.Date(2024, 6, 9, 19, 0, 0, 0, loc),
		},
		{
			name: "sunday morning falls back a full week",
			now:  time.Date(2024, 6, 9, 8, 0, 0, 0, loc),
			want: time.Date(2024, 6, 2, 19, 0, 0, 0, loc),
		},
		{
			name: "monday just after the cutoff week starts",
			now:  time.Date(2024, 6, 10, 0, 30, 0, 0, loc),
			want: time.Date(2024, 6, 9, 19, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DigestCutoff(tt.now))
		})
	}

	t.Run("keeps the caller's location", func(t *testing.T) {
		nyc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		cutoff := DigestCutoff(time.Date(2024, 6, 12, 12, 0, 0, 0, nyc))
		assert.Equal(t, nyc, cutoff.Location())
		assert.Equal(t, 19, cutoff.Hour())
	})
}

func newNotifyService(groups *fakeMemberSource, users *fakeStaleUsers, subs *fakeSubRepo, sender *fakeSender) *DefaultNotificationService {
	return &DefaultNotificationService{
		Groups: groups,
		Users:  users,
		Subs:   subs,
		Sender: sender,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC) },
	}
}

func TestNotifyGroup(t *testing.T) {
	groups := &fakeMemberSource{members: map[string][]models.MemberWithProfile{
		"g1": {
			{GroupID: "g1", UserID: "alice", Role: models.RoleDecisionMaker},
			{GroupID: "g1", UserID: "bob", Role: models.RoleMember},
			{GroupID: "g1", UserID: "carol", Role: models.RoleMember},
		},
	}}
	subs := &fakeSubRepo{subs: []models.PushSubscription{
		{UserID: "alice", Token: "tok-alice"},
		{UserID: "bob", Token: "tok-bob"},
	}}

	t.Run("delivers to each subscribed member", func(t *testing.T) {
		sender := &fakeSender{}
		svc := newNotifyService(groups, &fakeStaleUsers{}, subs, sender)

		res, err := svc.NotifyGroup(context.Background(), "g1")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 2, res.SentCount)
		assert.Zero(t, res.FailedCount)
		assert.ElementsMatch(t, []string{"tok-alice", "tok-bob"}, sender.sentTokens)
	})

	t.Run("empty group short-circuits", func(t *testing.T) {
		sender := &fakeSender{}
		svc := newNotifyService(groups, &fakeStaleUsers{}, subs, sender)

		res, err := svc.NotifyGroup(context.Background(), "empty")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "No members in group", res.Message)
		assert.Empty(t, sender.sentTokens)
	})

	t.Run("group with no subscriptions short-circuits", func(t *testing.T) {
		sender := &fakeSender{}
		svc := newNotifyService(groups, &fakeStaleUsers{}, &fakeSubRepo{}, sender)

		res, err := svc.NotifyGroup(context.Background(), "g1")
		require.NoError(t, err)
		assert.Equal(t, "No active subscriptions in group", res.Message)
	})

	t.Run("missing group id is rejected", func(t *testing.T) {
		svc := newNotifyService(groups, &fakeStaleUsers{}, subs, &fakeSender{})
		_, err := svc.NotifyGroup(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestRunDigest(t *testing.T) {
	t.Run("nudges stale subscribed users", func(t *testing.T) {
		users := &fakeStaleUsers{staleIDs: []string{"alice", "bob"}}
		subs := &fakeSubRepo{subs: []models.PushSubscription{
			{UserID: "alice", Token: "tok-alice"},
			{UserID: "carol", Token: "tok-carol"}, // active user, not nudged
		}}
		sender := &fakeSender{}
		svc := newNotifyService(&fakeMemberSource{}, users, subs, sender)

		res, err := svc.RunDigest(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 1, res.SentCount)
		assert.Zero(t, res.FailedCount)
		assert.Equal(t, time.Date(2024, 6, 9, 19, 0, 0, 0, time.UTC), res.Cutoff)
		assert.Equal(t, []string{"tok-alice"}, sender.sentTokens)
	})

	t.Run("gone tokens are cleaned up and counted as failed", func(t *testing.T) {
		users := &fakeStaleUsers{staleIDs: []string{"alice", "bob", "carol"}}
		subs := &fakeSubRepo{subs: []models.PushSubscription{
			{UserID: "alice", Token: "tok-alice"},
			{UserID: "bob", Token: "tok-gone"},
			{UserID: "carol", Token: "tok-flaky"},
		}}
		sender := &fakeSender{failWith: map[string]error{
			"tok-gone":  fmt.Errorf("deliver: %w", ErrTokenGone),
			"tok-flaky": errors.New("transient network error"),
		}}
		svc := newNotifyService(&fakeMemberSource{}, users, subs, sender)

		res, err := svc.RunDigest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, res.SentCount)
		assert.Equal(t, 2, res.FailedCount)

		// Only the gone token's subscription is removed.
		assert.Equal(t, []string{"bob"}, subs.deleted)
	})
}
