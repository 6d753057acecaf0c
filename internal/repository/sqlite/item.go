package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/boilerplate-api/internal/apperror"
	"github.com/sakif/boilerplate-api/internal/model"
	"github.com/sakif/boilerplate-api/internal/repository"
)

var _ repository.ItemRepository = (*ItemDB)(nil)

// ItemDB implements repository.ItemRepository. Obtain one via DB.Items().
type ItemDB struct {
	conn *sql.DB
}

// Items returns the item store backed by this database.
func (db *DB) Items() *ItemDB {
	return &ItemDB{conn: db.conn}
}

const itemColumns = `id, user_id, title, description, is_active, created_at, updated_at`

// ListForUser returns the user's items, newest first.
func (i *ItemDB) ListForUser(ctx context.Context, userID string) ([]model.Item, error) {
	rows, err := i.conn.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items for user %s: %w", userID, err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(
			&it.ID,
			&it.UserID,
			&it.Title,
			&it.Description,
			&it.IsActive,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}
	return items, nil
}

// GetByID retrieves an item by ID.
// Returns apperror.ErrNotFound if no item exists with that ID.
func (i *ItemDB) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	err := i.conn.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	).Scan(
		&it.ID,
		&it.UserID,
		&it.Title,
		&it.Description,
		&it.IsActive,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("item", id)
		}
		return nil, fmt.Errorf("sqlite: getting item %s: %w", id, err)
	}
	return &it, nil
}

// Create inserts a new item, assigning ID and timestamps in place.
func (i *ItemDB) Create(ctx context.Context, item *model.Item) error {
	now := time.Now().UTC()
	item.ID = xid.New().String()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := i.conn.ExecContext(ctx,
		`INSERT INTO items (id, user_id, title, description, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.UserID,
		item.Title,
		item.Description,
		item.IsActive,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting item: %w", err)
	}
	return nil
}

// Update persists the item's mutable fields and refreshes UpdatedAt.
func (i *ItemDB) Update(ctx context.Context, item *model.Item) error {
	item.UpdatedAt = time.Now().UTC()

	res, err := i.conn.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		item.Title,
		item.Description,
		item.IsActive,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating item %s: %w", item.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: %w", apperror.NotFound("item", item.ID))
	}
	return nil
}

// Delete removes an item.
// Returns apperror.ErrNotFound if the item doesn't exist.
func (i *ItemDB) Delete(ctx context.Context, id string) error {
	res, err := i.conn.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: %w", apperror.NotFound("item", id))
	}
	return nil
}
