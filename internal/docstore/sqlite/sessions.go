package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/appointment-hub/internal/docstore"
)

// InsertSession stores a freshly issued session.
func (b *Backend) InsertSession(ctx context.Context, session docstore.Session) error {
	const query = `
		INSERT INTO sessions (id, user_id, token, role, expires_at, created_at, updated_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := b.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		string(session.Role),
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
		nullTime(session.RevokedAt),
	)
	return mapError(err)
}

// UpdateSession rewrites an existing session record.
func (b *Backend) UpdateSession(ctx context.Context, session docstore.Session) error {
	const query = `
		UPDATE sessions SET token = ?, role = ?, expires_at = ?, updated_at = ?, revoked_at = ?
		WHERE id = ?
	`
	result, err := b.db.ExecContext(ctx, query,
		session.Token,
		string(session.Role),
		formatTime(session.ExpiresAt),
		formatTime(session.UpdatedAt),
		nullTime(session.RevokedAt),
		session.ID,
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

// GetSessionByToken fetches a session by its opaque token.
func (b *Backend) GetSessionByToken(ctx context.Context, token string) (docstore.Session, error) {
	const query = `
		SELECT id, user_id, token, role, expires_at, created_at, updated_at, revoked_at
		FROM sessions WHERE token = ?
	`
	var (
		session                         docstore.Session
		role                            string
		expiresAt, createdAt, updatedAt string
		revokedAt                       sql.NullString
	)
	err := b.db.QueryRowContext(ctx, query, token).Scan(
		&session.ID, &session.UserID, &session.Token, &role,
		&expiresAt, &createdAt, &updatedAt, &revokedAt,
	)
	if err != nil {
		return docstore.Session{}, mapError(err)
	}
	session.Role = docstore.SessionRole(role)
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return docstore.Session{}, mapError(err)
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return docstore.Session{}, mapError(err)
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return docstore.Session{}, mapError(err)
	}
	if revokedAt.Valid {
		var revoked time.Time
		if revoked, err = parseTime(revokedAt.String); err != nil {
			return docstore.Session{}, mapError(err)
		}
		session.RevokedAt = &revoked
	}
	return session, nil
}

// DeleteExpiredSessions prunes sessions that expired before the reference time.
func (b *Backend) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := b.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", formatTime(reference))
	return mapError(err)
}
