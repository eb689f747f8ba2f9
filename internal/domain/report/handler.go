package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carevault/carevault/internal/platform/auth"
	"github.com/carevault/carevault/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/reports", h.Create)
	api.GET("/reports", h.List)
	api.GET("/reports/:id", h.Get)
	api.DELETE("/reports/:id", h.Delete)
}

type createRequest struct {
	MemberID    *uuid.UUID      `json:"memberId,omitempty"`
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	Clinic      string          `json:"clinic"`
	FileDataURI string          `json:"fileDataUri"`
	Analysis    json.RawMessage `json:"analysis,omitempty"`
	Language    string          `json:"language,omitempty"`
}

func (h *Handler) Create(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	rep, err := h.svc.Create(c.Request().Context(), userID, CreateInput{
		MemberID:    req.MemberID,
		Title:       req.Title,
		Type:        req.Type,
		Date:        date,
		Clinic:      req.Clinic,
		FileDataURI: req.FileDataURI,
		Analysis:    req.Analysis,
		Language:    req.Language,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rep)
}

func (h *Handler) List(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	var memberID *uuid.UUID
	if raw := c.QueryParam("member_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid member_id")
		}
		memberID = &id
	}

	items, total, err := h.svc.List(c.Request().Context(), userID, memberID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rep, err := h.svc.Get(c.Request().Context(), userID, id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) Delete(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func requestUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
