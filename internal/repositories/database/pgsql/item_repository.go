package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
)

type PgxItemRepository struct {
	BaseRepository
}

// newPgxItemRepository creates a new repository for item data.
func newPgxItemRepository(pool *pgxpool.Pool) portsrepo.ItemRepositoryFacade {
	return &PgxItemRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

const itemColumns = `item_id, organization_id, name, sku, description, item_type, sell_price, cost_price, income_account_id, expense_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

// FindItemByID retrieves an item scoped to an organization.
func (r *PgxItemRepository) FindItemByID(ctx context.Context, organizationID string, itemID string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE organization_id = $1 AND item_id = $2;`
	var it domain.Item
	err := r.Pool.QueryRow(ctx, query, organizationID, itemID).Scan(
		&it.ItemID,
		&it.OrganizationID,
		&it.Name,
		&it.SKU,
		&it.Description,
		&it.ItemType,
		&it.SellPrice,
		&it.CostPrice,
		&it.IncomeAccountID,
		&it.ExpenseAccountID,
		&it.IsActive,
		&it.CreatedAt,
		&it.CreatedBy,
		&it.LastUpdatedAt,
		&it.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find item "+itemID, err)
	}
	return &it, nil
}

// ListItems retrieves all items of an organization.
func (r *PgxItemRepository) ListItems(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE organization_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for organization "+organizationID, err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(
			&it.ItemID,
			&it.OrganizationID,
			&it.Name,
			&it.SKU,
			&it.Description,
			&it.ItemType,
			&it.SellPrice,
			&it.CostPrice,
			&it.IncomeAccountID,
			&it.ExpenseAccountID,
			&it.IsActive,
			&it.CreatedAt,
			&it.CreatedBy,
			&it.LastUpdatedAt,
			&it.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows", err)
	}
	return items, nil
}

// SaveItem persists a new item.
func (r *PgxItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.ItemID,
		item.OrganizationID,
		item.Name,
		item.SKU,
		item.Description,
		item.ItemType,
		item.SellPrice,
		item.CostPrice,
		item.IncomeAccountID,
		item.ExpenseAccountID,
		item.IsActive,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: item %s already exists", apperrors.ErrDuplicate, item.ItemID)
		}
		return apperrors.NewAppError(500, "failed to insert item "+item.ItemID, err)
	}
	return nil
}

// UpdateItem updates an existing item's details.
func (r *PgxItemRepository) UpdateItem(ctx context.Context, item domain.Item) error {
	query := `
		UPDATE items
		SET name = $3,
		    sku = $4,
		    description = $5,
		    item_type = $6,
		    sell_price = $7,
		    cost_price = $8,
		    income_account_id = $9,
		    expense_account_id = $10,
		    last_updated_at = $11,
		    last_updated_by = $12
		WHERE organization_id = $1 AND item_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		item.OrganizationID,
		item.ItemID,
		item.Name,
		item.SKU,
		item.Description,
		item.ItemType,
		item.SellPrice,
		item.CostPrice,
		item.IncomeAccountID,
		item.ExpenseAccountID,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update item "+item.ItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("item " + item.ItemID + " not found for update")
	}
	return nil
}

// DeactivateItem marks an item as inactive.
func (r *PgxItemRepository) DeactivateItem(ctx context.Context, organizationID string, itemID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE items
		SET is_active = FALSE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE organization_id = $1 AND item_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, itemID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate item "+itemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("item " + itemID + " not found for deactivation")
	}
	return nil
}
