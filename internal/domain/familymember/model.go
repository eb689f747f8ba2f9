package familymember

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("family member not found")

// FamilyMember maps to the family_member table. Members belong to an
// account and have no login of their own; their medical details are
// denormalized strings like the owner's medical document.
type FamilyMember struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"userId"`

	Name          string `db:"name" json:"name"`
	Relation      string `db:"relation" json:"relation"`
	OtherRelation string `db:"other_relation" json:"otherRelation,omitempty"`
	AvatarURL     string `db:"avatar_url" json:"avatarUrl,omitempty"`

	BloodGroup        string `db:"blood_group" json:"bloodGroup,omitempty"`
	Allergies         string `db:"allergies" json:"allergies,omitempty"`
	Medications       string `db:"medications" json:"medications,omitempty"`
	ChronicConditions string `db:"chronic_conditions" json:"chronicConditions,omitempty"`
	BirthYear         string `db:"birth_year" json:"birthYear,omitempty"`
	Weight            string `db:"weight" json:"weight,omitempty"`
	EmergencyContact  string `db:"emergency_contact" json:"emergencyContact,omitempty"`
	MedicalNotes      string `db:"medical_notes" json:"medicalNotes,omitempty"`
	SurgeryHistory    string `db:"surgery_history" json:"surgeryHistory,omitempty"`
	Habits            string `db:"habits" json:"habits,omitempty"`
	PhysicalState     string `db:"physical_state" json:"physicalState,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
