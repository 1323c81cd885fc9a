package repositories

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
)

// ItemRepositoryFacade defines persistence operations for items.
type ItemRepositoryFacade interface {
	// FindItemByID retrieves a specific item scoped to an organization.
	FindItemByID(ctx context.Context, organizationID string, itemID string) (*domain.Item, error)

	// ListItems retrieves all items of an organization.
	ListItems(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Item, error)

	// SaveItem persists a new item.
	SaveItem(ctx context.Context, item domain.Item) error

	// UpdateItem updates an existing item's details.
	UpdateItem(ctx context.Context, item domain.Item) error

	// DeactivateItem marks an item as inactive.
	DeactivateItem(ctx context.Context, organizationID string, itemID string, updatedBy string, now time.Time) error
}
