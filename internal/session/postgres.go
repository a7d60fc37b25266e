package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL so that sessions
// survive portal restarts.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed session repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the sessions table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS sessions (
        id uuid PRIMARY KEY,
        token text NOT NULL DEFAULT '',
        identifier text NOT NULL DEFAULT '',
        mode text NOT NULL DEFAULT '',
        upstream_id text NOT NULL DEFAULT '',
        created_at timestamptz NOT NULL,
        expires_at timestamptz NOT NULL
    )`)
	return err
}

// Create inserts a new session.
func (r *PostgresRepository) Create(ctx context.Context, sess Session) error {
	id, err := uuid.Parse(sess.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO sessions (id, token, identifier, mode, upstream_id, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, sess.Token, sess.Identifier, sess.Mode, sess.UpstreamID, sess.CreatedAt.UTC(), sess.ExpiresAt.UTC())
	return err
}

// Find fetches a session by ID. Expired rows are reported as ErrNotFound and
// removed opportunistically.
func (r *PostgresRepository) Find(ctx context.Context, id string) (Session, error) {
	sessID, err := uuid.Parse(id)
	if err != nil {
		return Session{}, ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT id, token, identifier, mode, upstream_id, created_at, expires_at
        FROM sessions WHERE id = $1`, sessID)

	var (
		rowID     uuid.UUID
		sess      Session
		createdAt time.Time
		expiresAt time.Time
	)
	if err := row.Scan(&rowID, &sess.Token, &sess.Identifier, &sess.Mode, &sess.UpstreamID, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	sess.ID = rowID.String()
	sess.CreatedAt = createdAt.UTC()
	sess.ExpiresAt = expiresAt.UTC()

	if time.Now().After(sess.ExpiresAt) {
		_, _ = r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessID)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Update rewrites a session row.
func (r *PostgresRepository) Update(ctx context.Context, sess Session) error {
	sessID, err := uuid.Parse(sess.ID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE sessions SET token = $1, identifier = $2, mode = $3, upstream_id = $4, expires_at = $5
        WHERE id = $6`,
		sess.Token, sess.Identifier, sess.Mode, sess.UpstreamID, sess.ExpiresAt.UTC(), sessID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	sessID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	_, err = r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessID)
	return err
}
