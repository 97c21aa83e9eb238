// File: database/repository/user/interface.go
package userRepo

import (
	"context"
	"time"

	"slotsync/models"
)

// UserRepository stores platform accounts.
type UserRepository interface {
	Create(ctx context.Context, u models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastSaved(ctx context.Context, id string, at time.Time) error
	GetStaleUserIDs(ctx context.Context, cutoff time.Time) ([]string, error)
}
