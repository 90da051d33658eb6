package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/folioworks/portfolio/internal/session"
)

// SessionRepository stores sessions in Postgres. Rows cascade with their user.
type SessionRepository struct {
	db  *DB
	now func() time.Time
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) Get(ctx context.Context, key string) (session.Data, error) {
	const query = `
		SELECT data
		FROM sessions
		WHERE token_hash = $1 AND expires_at > $2`
	var raw []byte
	if err := r.db.conn(ctx).QueryRowContext(ctx, query, key, r.now()).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Data{}, session.ErrNotFound
		}
		return session.Data{}, err
	}
	var data session.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return session.Data{}, err
	}
	return data, nil
}

func (r *SessionRepository) Set(ctx context.Context, key string, data session.Data, expiresAt time.Time) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO sessions (token_hash, user_id, data, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO UPDATE
		SET user_id = EXCLUDED.user_id,
			data = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at`
	_, err = r.db.conn(ctx).ExecContext(ctx, query, key, data.UserID, raw, expiresAt)
	return err
}

func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, key)
	return err
}

// DeleteExpired prunes sessions past their expiry and reports how many went.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
