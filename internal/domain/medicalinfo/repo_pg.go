package medicalinfo

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

const cols = `id, user_id, full_name, birth_year, age, dob, weight, body_condition, bad_habits,
	has_past_surgery, surgery1_name, surgery1_date, surgery2_name, surgery2_date,
	surgery3_name, surgery3_date, blood_group, blood_group_other, allergies, allergies_other,
	medications, medications_other, emergency_contact, chronic_conditions, medical_notes,
	created_at, updated_at`

func scan(row pgx.Row) (*MedicalInfo, error) {
	var m MedicalInfo
	err := row.Scan(&m.ID, &m.UserID, &m.FullName, &m.BirthYear, &m.Age, &m.DOB, &m.Weight,
		&m.BodyCondition, &m.BadHabits,
		&m.HasPastSurgery, &m.Surgery1Name, &m.Surgery1Date, &m.Surgery2Name, &m.Surgery2Date,
		&m.Surgery3Name, &m.Surgery3Date, &m.BloodGroup, &m.BloodGroupOther, &m.Allergies, &m.AllergiesOther,
		&m.Medications, &m.MedicationsOther, &m.EmergencyContact, &m.ChronicConditions, &m.MedicalNotes,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Upsert(ctx context.Context, m *MedicalInfo) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_info (id, user_id, full_name, birth_year, age, dob, weight,
			body_condition, bad_habits, has_past_surgery,
			surgery1_name, surgery1_date, surgery2_name, surgery2_date, surgery3_name, surgery3_date,
			blood_group, blood_group_other, allergies, allergies_other,
			medications, medications_other, emergency_contact, chronic_conditions, medical_notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			birth_year = EXCLUDED.birth_year,
			age = EXCLUDED.age,
			dob = EXCLUDED.dob,
			weight = EXCLUDED.weight,
			body_condition = EXCLUDED.body_condition,
			bad_habits = EXCLUDED.bad_habits,
			has_past_surgery = EXCLUDED.has_past_surgery,
			surgery1_name = EXCLUDED.surgery1_name,
			surgery1_date = EXCLUDED.surgery1_date,
			surgery2_name = EXCLUDED.surgery2_name,
			surgery2_date = EXCLUDED.surgery2_date,
			surgery3_name = EXCLUDED.surgery3_name,
			surgery3_date = EXCLUDED.surgery3_date,
			blood_group = EXCLUDED.blood_group,
			blood_group_other = EXCLUDED.blood_group_other,
			allergies = EXCLUDED.allergies,
			allergies_other = EXCLUDED.allergies_other,
			medications = EXCLUDED.medications,
			medications_other = EXCLUDED.medications_other,
			emergency_contact = EXCLUDED.emergency_contact,
			chronic_conditions = EXCLUDED.chronic_conditions,
			medical_notes = EXCLUDED.medical_notes,
			updated_at = NOW()`,
		m.ID, m.UserID, m.FullName, m.BirthYear, m.Age, m.DOB, m.Weight,
		m.BodyCondition, m.BadHabits, m.HasPastSurgery,
		m.Surgery1Name, m.Surgery1Date, m.Surgery2Name, m.Surgery2Date, m.Surgery3Name, m.Surgery3Date,
		m.BloodGroup, m.BloodGroupOther, m.Allergies, m.AllergiesOther,
		m.Medications, m.MedicationsOther, m.EmergencyContact, m.ChronicConditions, m.MedicalNotes)
	return err
}

func (r *repoPG) GetByUser(ctx context.Context, userID uuid.UUID) (*MedicalInfo, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM medical_info WHERE user_id = $1`, userID))
}

func (r *repoPG) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_info WHERE user_id = $1`, userID)
	return err
}
