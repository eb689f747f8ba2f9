package medicalinfo

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carevault/carevault/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medical-info", h.Get)
	api.PUT("/medical-info", h.Upsert)
}

// updateRequest is the closed set of writable fields. Decoding is
// strict: a request carrying any other key is rejected.
type updateRequest struct {
	FullName      string `json:"fullName"`
	BirthYear     string `json:"birthYear"`
	Age           string `json:"age"`
	DOB           string `json:"dob"`
	Weight        string `json:"weight"`
	BodyCondition string `json:"bodyCondition"`
	BadHabits     string `json:"badHabits"`

	HasPastSurgery bool   `json:"hasPastSurgery"`
	Surgery1Name   string `json:"surgery1Name"`
	Surgery1Date   string `json:"surgery1Date"`
	Surgery2Name   string `json:"surgery2Name"`
	Surgery2Date   string `json:"surgery2Date"`
	Surgery3Name   string `json:"surgery3Name"`
	Surgery3Date   string `json:"surgery3Date"`

	BloodGroup        string `json:"bloodGroup"`
	BloodGroupOther   string `json:"bloodGroupOther"`
	Allergies         string `json:"allergies"`
	AllergiesOther    string `json:"allergiesOther"`
	Medications       string `json:"medications"`
	MedicationsOther  string `json:"medicationsOther"`
	EmergencyContact  string `json:"emergencyContact"`
	ChronicConditions string `json:"chronicConditions"`
	MedicalNotes      string `json:"medicalNotes"`
}

func (h *Handler) Get(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	m, err := h.svc.GetByUser(c.Request().Context(), userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "medical info not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Upsert(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	var req updateRequest
	if err := dec.Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m := &MedicalInfo{
		UserID:            userID,
		FullName:          req.FullName,
		BirthYear:         req.BirthYear,
		Age:               req.Age,
		DOB:               req.DOB,
		Weight:            req.Weight,
		BodyCondition:     req.BodyCondition,
		BadHabits:         req.BadHabits,
		HasPastSurgery:    req.HasPastSurgery,
		Surgery1Name:      req.Surgery1Name,
		Surgery1Date:      req.Surgery1Date,
		Surgery2Name:      req.Surgery2Name,
		Surgery2Date:      req.Surgery2Date,
		Surgery3Name:      req.Surgery3Name,
		Surgery3Date:      req.Surgery3Date,
		BloodGroup:        req.BloodGroup,
		BloodGroupOther:   req.BloodGroupOther,
		Allergies:         req.Allergies,
		AllergiesOther:    req.AllergiesOther,
		Medications:       req.Medications,
		MedicationsOther:  req.MedicationsOther,
		EmergencyContact:  req.EmergencyContact,
		ChronicConditions: req.ChronicConditions,
		MedicalNotes:      req.MedicalNotes,
	}
	if err := h.svc.Upsert(c.Request().Context(), m); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func requestUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
