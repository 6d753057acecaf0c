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

// compile-time checks that the sub-stores implement the repository interfaces
var (
	_ repository.UserRepository         = (*UserDB)(nil)
	_ repository.OAuthAccountRepository = (*OAuthAccountDB)(nil)
)

// UserDB implements repository.UserRepository. Obtain one via DB.Users().
type UserDB struct {
	conn *sql.DB
}

// Users returns the user store backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// OAuthAccountDB implements repository.OAuthAccountRepository.
// Obtain one via DB.OAuthAccounts().
type OAuthAccountDB struct {
	conn *sql.DB
}

// OAuthAccounts returns the OAuth account store backed by this database.
func (db *DB) OAuthAccounts() *OAuthAccountDB {
	return &OAuthAccountDB{conn: db.conn}
}

const userColumns = `id, email, name, password_hash, avatar_url, is_active, created_at, updated_at`

// scanUser reads one user row. password_hash is nullable in the schema;
// NULL becomes the empty string (the model's OAuth-only marker).
func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var passwordHash sql.NullString

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&passwordHash,
		&u.AvatarURL,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = passwordHash.String
	return &u, nil
}

// nullable maps the model's empty-string-means-absent convention back to
// SQL NULL for storage.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(u.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by exact email.
// Returns apperror.ErrNotFound when no user has that email.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(u.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return user, nil
}

// Create inserts a new user, assigning ID and timestamps in place.
//
// A duplicate email trips the UNIQUE constraint and surfaces as
// apperror.ErrConflict — this is the authoritative guard behind the
// service's check-then-create: two concurrent registrations can both pass
// the pre-check but only one insert wins.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, avatar_url, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		nullable(user.PasswordHash),
		user.AvatarURL,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlite: %w", apperror.Conflict("user", "email "+user.Email))
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}
	return nil
}

// Update persists the user's mutable fields and refreshes UpdatedAt.
// The email and password hash never change in scope, so they are not
// written here.
func (u *UserDB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := u.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, avatar_url = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		user.Name,
		user.AvatarURL,
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: %w", apperror.NotFound("user", user.ID))
	}
	return nil
}

// GetByProviderAccountID looks up an OAuth link by its composite key.
// Returns apperror.ErrNotFound when the pair has never been linked.
func (o *OAuthAccountDB) GetByProviderAccountID(ctx context.Context, provider, providerAccountID string) (*model.OAuthAccount, error) {
	var a model.OAuthAccount
	var refreshToken sql.NullString
	var expiresAt sql.NullTime

	err := o.conn.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_account_id, access_token, refresh_token, expires_at, created_at, updated_at
		 FROM oauth_accounts WHERE provider = ? AND provider_account_id = ?`,
		provider, providerAccountID,
	).Scan(
		&a.ID,
		&a.UserID,
		&a.Provider,
		&a.ProviderAccountID,
		&a.AccessToken,
		&refreshToken,
		&expiresAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("oauth account", provider+"/"+providerAccountID)
		}
		return nil, fmt.Errorf("sqlite: getting oauth account: %w", err)
	}
	a.RefreshToken = refreshToken.String
	if expiresAt.Valid {
		a.ExpiresAt = expiresAt.Time
	}
	return &a, nil
}

// Create inserts a new OAuth account link, assigning ID and timestamps in
// place. A duplicate (provider, provider_account_id) pair surfaces as
// apperror.ErrConflict via the composite UNIQUE constraint. Links are
// insert-only — nothing in the app updates a row after creation.
func (o *OAuthAccountDB) Create(ctx context.Context, account *model.OAuthAccount) error {
	now := time.Now().UTC()
	account.ID = xid.New().String()
	account.CreatedAt = now
	account.UpdatedAt = now

	var expiresAt sql.NullTime
	if !account.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: account.ExpiresAt, Valid: true}
	}

	_, err := o.conn.ExecContext(ctx,
		`INSERT INTO oauth_accounts (id, user_id, provider, provider_account_id, access_token, refresh_token, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.UserID,
		account.Provider,
		account.ProviderAccountID,
		account.AccessToken,
		account.RefreshToken,
		expiresAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlite: %w", apperror.Conflict("oauth account", account.Provider+"/"+account.ProviderAccountID))
		}
		return fmt.Errorf("sqlite: inserting oauth account: %w", err)
	}
	return nil
}
