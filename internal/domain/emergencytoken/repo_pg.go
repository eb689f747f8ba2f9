package emergencytoken

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carevault/carevault/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, user_id, token, digest, created_at, updated_at`

func scan(row pgx.Row) (*EmergencyToken, error) {
	var t EmergencyToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.Digest, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoPG) Upsert(ctx context.Context, t *EmergencyToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO emergency_token (id, user_id, token, digest)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, digest = EXCLUDED.digest, updated_at = NOW()`,
		t.ID, t.UserID, t.Token, t.Digest)
	return err
}

func (r *repoPG) GetByUser(ctx context.Context, userID uuid.UUID) (*EmergencyToken, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM emergency_token WHERE user_id = $1`, userID))
}

func (r *repoPG) GetByDigest(ctx context.Context, digest string) (*EmergencyToken, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM emergency_token WHERE digest = $1`, digest))
}

func (r *repoPG) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM emergency_token WHERE user_id = $1`, userID)
	return err
}
