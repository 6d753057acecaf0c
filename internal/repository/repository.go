// Package repository defines the persistence interfaces consumed by the
// service layer. Services program against these interfaces; the sqlite
// subpackage provides the concrete implementation, and tests substitute
// in-memory fakes.
//
// Every Create/Update commits durably before returning. Uniqueness
// violations (duplicate email, duplicate provider link) surface as
// apperror.ErrConflict — that constraint, not application-level locking,
// is what guards the check-then-write sequences in the services against
// concurrent duplicates.
package repository

import (
	"context"

	"github.com/sakif/boilerplate-api/internal/model"
)

// UserRepository persists User entities.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail matches the stored email exactly (case-sensitive).
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Create assigns ID and timestamps on the given user.
	Create(ctx context.Context, user *model.User) error
	// Update persists the user's current field values and refreshes UpdatedAt.
	Update(ctx context.Context, user *model.User) error
}

// OAuthAccountRepository persists provider identity links.
type OAuthAccountRepository interface {
	// GetByProviderAccountID looks up the (provider, provider account id) pair.
	GetByProviderAccountID(ctx context.Context, provider, providerAccountID string) (*model.OAuthAccount, error)
	// Create assigns ID and timestamps on the given account.
	Create(ctx context.Context, account *model.OAuthAccount) error
}

// ItemRepository persists the example item resource.
type ItemRepository interface {
	// ListForUser returns the user's items, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.Item, error)
	GetByID(ctx context.Context, id string) (*model.Item, error)
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
}
