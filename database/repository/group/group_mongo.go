// File: database/repository/group/group_mongo.go
package groupRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotsync/models"
)

// MongoGroupRepo implements GroupRepository using MongoDB across the groups,
// group_members and group_sessions collections.
type MongoGroupRepo struct {
	groups   *mongo.Collection
	members  *mongo.Collection
	sessions *mongo.Collection
}

// NewMongoGroupRepo creates the repository on the given database.
func NewMongoGroupRepo(db *mongo.Database) GroupRepository {
	repo := &MongoGroupRepo{
		groups:   db.Collection("groups"),
		members:  db.Collection("group_members"),
		sessions: db.Collection("group_sessions"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create group indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoGroupRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.groups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("groups index: %w", err)
	}
	if _, err := r.members.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "groupId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("group_members indexes: %w", err)
	}
	if _, err := r.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "dayIndex", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("group_sessions indexes: %w", err)
	}
	return nil
}

func (r *MongoGroupRepo) CreateGroup(ctx context.Context, g models.Group) (*models.Group, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if _, err := r.groups.InsertOne(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create group %q: %w", g.Name, err)
	}
	return &g, nil
}

// DeleteGroup removes the group together with its memberships and sessions.
func (r *MongoGroupRepo) DeleteGroup(ctx context.Context, groupID string) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	res, err := r.groups.DeleteOne(ctx, bson.M{"id": groupID})
	if err != nil {
		return fmt.Errorf("failed to delete group %s: %w", groupID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	if _, err := r.members.DeleteMany(ctx, bson.M{"groupId": groupID}); err != nil {
		return fmt.Errorf("failed to delete members of group %s: %w", groupID, err)
	}
	if _, err := r.sessions.DeleteMany(ctx, bson.M{"groupId": groupID}); err != nil {
		return fmt.Errorf("failed to delete sessions of group %s: %w", groupID, err)
	}
	return nil
}

func (r *MongoGroupRepo) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var g models.Group
	if err := r.groups.FindOne(ctx, bson.M{"id": groupID}).Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to fetch group %s: %w", groupID, err)
	}
	return &g, nil
}

func (r *MongoGroupRepo) GetGroups(ctx context.Context, groupIDs []string) ([]models.Group, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.groups.Find(ctx, bson.M{"id": bson.M{"$in": groupIDs}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %w", err)
	}
	return groups, nil
}

func (r *MongoGroupRepo) SetMissingCount(ctx context.Context, groupID string, count int) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.groups.UpdateOne(ctx, bson.M{"id": groupID},
		bson.M{"$set": bson.M{"missingCount": count}})
	if err != nil {
		return fmt.Errorf("failed to update missing count for group %s: %w", groupID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoGroupRepo) AddMember(ctx context.Context, m models.GroupMember) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if m.Role == "" {
		m.Role = models.RoleMember
	}
	if _, err := r.members.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to add member %s to group %s: %w", m.UserID, m.GroupID, err)
	}
	return nil
}

func (r *MongoGroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.members.DeleteOne(ctx, bson.M{"groupId": groupID, "userId": userID}); err != nil {
		return fmt.Errorf("failed to remove member %s from group %s: %w", userID, groupID, err)
	}
	return nil
}

func (r *MongoGroupRepo) SetMemberRole(ctx context.Context, groupID, userID, role string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.members.UpdateOne(ctx,
		bson.M{"groupId": groupID, "userId": userID},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("failed to set role for member %s in group %s: %w", userID, groupID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetMembers returns the membership rows of the given groups joined with the
// members' profile fields. The join happens here so the rest of the engine
// works with a typed projection instead of loose documents.
func (r *MongoGroupRepo) GetMembers(ctx context.Context, groupIDs []string) ([]models.MemberWithProfile, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"groupId": bson.M{"$in": groupIDs}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "id",
			"as":           "profile",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$profile", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"groupId":     1,
			"userId":      1,
			"role":        1,
			"displayName": "$profile.displayName",
			"email":       "$profile.email",
		}}},
	}

	cursor, err := r.members.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group members: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.MemberWithProfile
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode group members: %w", err)
	}
	return rows, nil
}

// GetAllMembershipsFor returns every membership row of the given users, across
// all groups, not limited to any viewing scope.
func (r *MongoGroupRepo) GetAllMembershipsFor(ctx context.Context, userIDs []string) ([]models.GroupMember, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.members.Find(ctx, bson.M{"userId": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.GroupMember
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode memberships: %w", err)
	}
	return rows, nil
}

// GetGroupsForUser returns the groups the user belongs to, sorted by name.
func (r *MongoGroupRepo) GetGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	memberships, err := r.GetAllMembershipsFor(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.GroupID)
	}
	return r.GetGroups(ctx, ids)
}

func (r *MongoGroupRepo) AddSession(ctx context.Context, s models.GroupSession) (*models.GroupSession, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if _, err := r.sessions.InsertOne(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to add session for group %s: %w", s.GroupID, err)
	}
	return &s, nil
}

func (r *MongoGroupRepo) DeleteSession(ctx context.Context, sessionID string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.sessions.DeleteOne(ctx, bson.M{"id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoGroupRepo) GetSessions(ctx context.Context, groupIDs []string, dayIndexes []int) ([]models.GroupSession, error) {
	if len(groupIDs) == 0 || len(dayIndexes) == 0 {
		return nil, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"groupId":  bson.M{"$in": groupIDs},
		"dayIndex": bson.M{"$in": dayIndexes},
	}
	cursor, err := r.sessions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.GroupSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// GetSessionsWithGroup returns the sessions of the given groups in the given
// week joined with the owning group's name, for overlay rendering.
func (r *MongoGroupRepo) GetSessionsWithGroup(ctx context.Context, groupIDs []string, dayIndexes []int) ([]models.SessionWithGroup, error) {
	if len(groupIDs) == 0 || len(dayIndexes) == 0 {
		return nil, nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"groupId":  bson.M{"$in": groupIDs},
			"dayIndex": bson.M{"$in": dayIndexes},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "groups",
			"localField":   "groupId",
			"foreignField": "id",
			"as":           "group",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$group", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"id":        1,
			"groupId":   1,
			"dayIndex":  1,
			"hour":      1,
			"groupName": "$group.name",
		}}},
	}

	cursor, err := r.sessions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session overlays: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.SessionWithGroup
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode session overlays: %w", err)
	}
	return rows, nil
}
