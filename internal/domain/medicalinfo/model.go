package medicalinfo

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("medical info not found")

// MedicalInfo maps to the medical_info table. One document per account,
// closed field set: unknown fields are rejected at the API boundary
// rather than stored dynamically.
type MedicalInfo struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"userId"`

	FullName      string `db:"full_name" json:"fullName"`
	BirthYear     string `db:"birth_year" json:"birthYear"`
	Age           string `db:"age" json:"age"`
	DOB           string `db:"dob" json:"dob"`
	Weight        string `db:"weight" json:"weight"`
	BodyCondition string `db:"body_condition" json:"bodyCondition"`
	BadHabits     string `db:"bad_habits" json:"badHabits"`

	HasPastSurgery bool   `db:"has_past_surgery" json:"hasPastSurgery"`
	Surgery1Name   string `db:"surgery1_name" json:"surgery1Name"`
	Surgery1Date   string `db:"surgery1_date" json:"surgery1Date"`
	Surgery2Name   string `db:"surgery2_name" json:"surgery2Name"`
	Surgery2Date   string `db:"surgery2_date" json:"surgery2Date"`
	Surgery3Name   string `db:"surgery3_name" json:"surgery3Name"`
	Surgery3Date   string `db:"surgery3_date" json:"surgery3Date"`

	BloodGroup        string `db:"blood_group" json:"bloodGroup"`
	BloodGroupOther   string `db:"blood_group_other" json:"bloodGroupOther"`
	Allergies         string `db:"allergies" json:"allergies"`
	AllergiesOther    string `db:"allergies_other" json:"allergiesOther"`
	Medications       string `db:"medications" json:"medications"`
	MedicationsOther  string `db:"medications_other" json:"medicationsOther"`
	EmergencyContact  string `db:"emergency_contact" json:"emergencyContact"`
	ChronicConditions string `db:"chronic_conditions" json:"chronicConditions"`
	MedicalNotes      string `db:"medical_notes" json:"medicalNotes"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// sensitiveFields lists the free-text fields encrypted at rest when an
// encryption key is configured.
func (m *MedicalInfo) sensitiveFields() []*string {
	return []*string{
		&m.Allergies,
		&m.AllergiesOther,
		&m.Medications,
		&m.MedicationsOther,
		&m.EmergencyContact,
		&m.ChronicConditions,
		&m.MedicalNotes,
	}
}
