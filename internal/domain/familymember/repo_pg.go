package familymember

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

const cols = `id, user_id, name, relation, other_relation, avatar_url,
	blood_group, allergies, medications, chronic_conditions, birth_year, weight,
	emergency_contact, medical_notes, surgery_history, habits, physical_state,
	created_at, updated_at`

func scan(row pgx.Row) (*FamilyMember, error) {
	var m FamilyMember
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Relation, &m.OtherRelation, &m.AvatarURL,
		&m.BloodGroup, &m.Allergies, &m.Medications, &m.ChronicConditions, &m.BirthYear, &m.Weight,
		&m.EmergencyContact, &m.MedicalNotes, &m.SurgeryHistory, &m.Habits, &m.PhysicalState,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *FamilyMember) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO family_member (id, user_id, name, relation, other_relation, avatar_url,
			blood_group, allergies, medications, chronic_conditions, birth_year, weight,
			emergency_contact, medical_notes, surgery_history, habits, physical_state)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		m.ID, m.UserID, m.Name, m.Relation, m.OtherRelation, m.AvatarURL,
		m.BloodGroup, m.Allergies, m.Medications, m.ChronicConditions, m.BirthYear, m.Weight,
		m.EmergencyContact, m.MedicalNotes, m.SurgeryHistory, m.Habits, m.PhysicalState)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*FamilyMember, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM family_member WHERE id = $1`, id))
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*FamilyMember, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM family_member WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*FamilyMember
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

func (r *repoPG) Update(ctx context.Context, m *FamilyMember) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE family_member SET name=$2, relation=$3, other_relation=$4, avatar_url=$5,
			blood_group=$6, allergies=$7, medications=$8, chronic_conditions=$9,
			birth_year=$10, weight=$11, emergency_contact=$12, medical_notes=$13,
			surgery_history=$14, habits=$15, physical_state=$16, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Relation, m.OtherRelation, m.AvatarURL,
		m.BloodGroup, m.Allergies, m.Medications, m.ChronicConditions,
		m.BirthYear, m.Weight, m.EmergencyContact, m.MedicalNotes,
		m.SurgeryHistory, m.Habits, m.PhysicalState)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM family_member WHERE id = $1`, id)
	return err
}

func (r *repoPG) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM family_member WHERE user_id = $1`, userID)
	return err
}
