package disclosure

import (
	"github.com/google/uuid"

	"github.com/carevault/carevault/internal/domain/medicalinfo"
	"github.com/carevault/carevault/internal/domain/report"
)

// PublicProfile is the payload served to anyone holding a valid
// emergency token. It is a projection, not the stored documents:
// exactly these fields and nothing else ever leave the account.
type PublicProfile struct {
	Success bool           `json:"success"`
	Patient PublicPatient  `json:"patient"`
	Medical PublicMedical  `json:"medical"`
	Reports []PublicReport `json:"reports"`
}

type PublicPatient struct {
	Name string `json:"name"`
}

type PublicMedical struct {
	FullName          string `json:"fullName"`
	Age               string `json:"age"`
	Weight            string `json:"weight"`
	DOB               string `json:"dob"`
	BodyCondition     string `json:"bodyCondition"`
	BadHabits         string `json:"badHabits"`
	HasPastSurgery    bool   `json:"hasPastSurgery"`
	Surgery1Name      string `json:"surgery1Name"`
	Surgery1Date      string `json:"surgery1Date"`
	Surgery2Name      string `json:"surgery2Name"`
	Surgery2Date      string `json:"surgery2Date"`
	Surgery3Name      string `json:"surgery3Name"`
	Surgery3Date      string `json:"surgery3Date"`
	BloodGroup        string `json:"bloodGroup"`
	Allergies         string `json:"allergies"`
	ChronicConditions string `json:"chronicConditions"`
	MedicalNotes      string `json:"medicalNotes"`
	EmergencyContact  string `json:"emergencyContact"`
	Medications       string `json:"medications"`
}

type PublicReport struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	Clinic      string    `json:"clinic"`
	FileDataURI string    `json:"fileDataUri,omitempty"`
	Summary     string    `json:"summary"`
}

// projectMedical maps the stored record onto the public field set.
// A nil record yields the placeholder shown when no medical info has
// been filled in yet.
func projectMedical(m *medicalinfo.MedicalInfo) PublicMedical {
	if m == nil {
		return PublicMedical{BloodGroup: "Not specified"}
	}
	p := PublicMedical{
		FullName:          m.FullName,
		Age:               m.Age,
		Weight:            m.Weight,
		DOB:               m.DOB,
		BodyCondition:     m.BodyCondition,
		BadHabits:         m.BadHabits,
		HasPastSurgery:    m.HasPastSurgery,
		Surgery1Name:      m.Surgery1Name,
		Surgery1Date:      m.Surgery1Date,
		Surgery2Name:      m.Surgery2Name,
		Surgery2Date:      m.Surgery2Date,
		Surgery3Name:      m.Surgery3Name,
		Surgery3Date:      m.Surgery3Date,
		BloodGroup:        m.BloodGroup,
		Allergies:         m.Allergies,
		ChronicConditions: m.ChronicConditions,
		MedicalNotes:      m.MedicalNotes,
		EmergencyContact:  m.EmergencyContact,
		Medications:       m.Medications,
	}
	if p.BloodGroup == "" {
		p.BloodGroup = "Not specified"
	}
	return p
}

func projectReport(r *report.Report) PublicReport {
	return PublicReport{
		ID:          r.ID,
		Title:       r.Title,
		Type:        r.Type,
		Date:        r.Date.Format("2006-01-02"),
		Clinic:      r.Clinic,
		FileDataURI: r.FileDataURI,
		Summary:     r.ExecutiveSummary(),
	}
}
