// File: database/repository/subscription/interface.go
package subscriptionRepo

import (
	"context"

	"slotsync/models"
)

// SubscriptionRepository stores push delivery targets. Delivery failures that
// report a gone/expired token cause the owning subscription to be deleted.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub models.PushSubscription) error
	DeleteByUser(ctx context.Context, userID string) error
	GetByUsers(ctx context.Context, userIDs []string) ([]models.PushSubscription, error)
}
