package models

import "time"

// User represents a platform account.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Username     string    `bson:"username" json:"username"`
	DisplayName  string    `bson:"displayName" json:"displayName"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	// LastSavedAt is bumped every time the user saves a week of availability.
	// The weekly digest nudges users whose LastSavedAt predates the cutoff.
	LastSavedAt time.Time `bson:"lastSavedAt" json:"lastSavedAt"`
}
