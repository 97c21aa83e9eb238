package models

import "time"

// PushSubscription is a user's registered push delivery target (an FCM
// registration token). One subscription per user; re-registering replaces it.
type PushSubscription struct {
	UserID    string    `bson:"userId" json:"userId"`
	Token     string    `bson:"token" json:"token"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
