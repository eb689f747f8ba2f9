package report

import (
	"context"
	"errors"
	"fmt"

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

const cols = `id, user_id, member_id, title, type, date, clinic, file_data_uri, analysis, created_at, updated_at`

func scan(row pgx.Row) (*Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.UserID, &rep.MemberID, &rep.Title, &rep.Type, &rep.Date,
		&rep.Clinic, &rep.FileDataURI, &rep.Analysis, &rep.CreatedAt, &rep.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repoPG) Create(ctx context.Context, rep *Report) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO report (id, user_id, member_id, title, type, date, clinic, file_data_uri, analysis)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rep.ID, rep.UserID, rep.MemberID, rep.Title, rep.Type, rep.Date, rep.Clinic, rep.FileDataURI, rep.Analysis)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM report WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, userID uuid.UUID, memberID *uuid.UUID, limit, offset int) ([]*Report, int, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if memberID != nil {
		where += fmt.Sprintf(` AND member_id = $%d`, len(args)+1)
		args = append(args, *memberID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM report `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM report %s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		cols, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		rep, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rep)
	}
	return items, total, nil
}

func (r *repoPG) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Report, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM report
		WHERE user_id = $1
		ORDER BY date DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		rep, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rep)
	}
	return items, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM report WHERE id = $1`, id)
	return err
}

func (r *repoPG) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM report WHERE user_id = $1`, userID)
	return err
}
