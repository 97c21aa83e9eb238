package models

// Member roles. A "dm" (decision-maker) going missing forces a slot to Poor no
// matter how generous the group's tolerance is.
const (
	RoleMember        = "member"
	RoleDecisionMaker = "dm"
)

// Group is a circle of people trying to find overlapping free time.
// MissingCount is how many regular members may be absent from a slot while it
// still counts as acceptable.
type Group struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	MissingCount int    `bson:"missingCount" json:"missingCount"`
}

// GroupMember links a user to a group. Role is tracked per (group, user) pair;
// the same user may be a decision-maker in one group and a regular member in
// another.
type GroupMember struct {
	GroupID string `bson:"groupId" json:"groupId"`
	UserID  string `bson:"userId" json:"userId"`
	Role    string `bson:"role" json:"role"`
}

// GroupSession is an appointed, fixed meeting for a group at one slot. A
// session blocks that slot for every member of its group, including in views
// of other groups those members belong to.
type GroupSession struct {
	ID       string `bson:"id" json:"id"`
	GroupID  string `bson:"groupId" json:"groupId"`
	DayIndex int    `bson:"dayIndex" json:"dayIndex"`
	Hour     int    `bson:"hour" json:"hour"`
}

// MemberWithProfile is the typed projection of a membership row joined with
// the member's profile fields, built at the repository boundary.
type MemberWithProfile struct {
	GroupID     string `bson:"groupId" json:"groupId"`
	UserID      string `bson:"userId" json:"userId"`
	Role        string `bson:"role" json:"role"`
	DisplayName string `bson:"displayName" json:"displayName"`
	Email       string `bson:"email" json:"email"`
}

// IsDecisionMaker reports whether the member holds the dm role.
func (m MemberWithProfile) IsDecisionMaker() bool {
	return m.Role == RoleDecisionMaker
}

// SessionWithGroup is the typed projection of a session joined with its owning
// group's name, used for "appointed session" overlays.
type SessionWithGroup struct {
	ID        string `bson:"id" json:"id"`
	GroupID   string `bson:"groupId" json:"groupId"`
	GroupName string `bson:"groupName" json:"groupName"`
	DayIndex  int    `bson:"dayIndex" json:"dayIndex"`
	Hour      int    `bson:"hour" json:"hour"`
}
