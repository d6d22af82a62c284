package sqlite

import (
	"context"

	"github.com/example/appointment-hub/internal/docstore"
)

// InsertUser stores a new user document together with its credential hash.
func (b *Backend) InsertUser(ctx context.Context, user docstore.User, passwordHash string) error {
	const query = `
		INSERT INTO users (id, email, name, is_admin, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := b.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		boolToInt(user.IsAdmin),
		passwordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	return mapError(err)
}

// UpdateUser rewrites the document attributes of an existing user. The
// credential hash is left untouched.
func (b *Backend) UpdateUser(ctx context.Context, user docstore.User) error {
	const query = `
		UPDATE users SET email = ?, name = ?, is_admin = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := b.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		boolToInt(user.IsAdmin),
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// GetUser fetches a user document by id.
func (b *Backend) GetUser(ctx context.Context, id string) (docstore.User, error) {
	const query = `
		SELECT id, email, name, is_admin, created_at, updated_at
		FROM users WHERE id = ?
	`
	row := b.db.QueryRowContext(ctx, query, id)
	return scanUser(row)
}

// GetUserCredentialsByEmail fetches a user with their stored password hash.
func (b *Backend) GetUserCredentialsByEmail(ctx context.Context, email string) (docstore.UserCredentials, error) {
	const query = `
		SELECT id, email, name, is_admin, created_at, updated_at, password_hash
		FROM users WHERE email = ?
	`
	var (
		user                 docstore.User
		isAdmin              int
		createdAt, updatedAt string
		hash                 string
	)
	err := b.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Name, &isAdmin, &createdAt, &updatedAt, &hash,
	)
	if err != nil {
		return docstore.UserCredentials{}, mapError(err)
	}
	user.IsAdmin = isAdmin != 0
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return docstore.UserCredentials{}, mapError(err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return docstore.UserCredentials{}, mapError(err)
	}
	return docstore.UserCredentials{User: user, PasswordHash: hash}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (docstore.User, error) {
	var (
		user                 docstore.User
		isAdmin              int
		createdAt, updatedAt string
	)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &isAdmin, &createdAt, &updatedAt)
	if err != nil {
		return docstore.User{}, mapError(err)
	}
	user.IsAdmin = isAdmin != 0
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return docstore.User{}, mapError(err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return docstore.User{}, mapError(err)
	}
	return user, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
