package emergencytoken

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carevault/carevault/internal/platform/auth"
)

type Handler struct {
	svc     *Service
	baseURL string
}

func NewHandler(svc *Service, publicBaseURL string) *Handler {
	return &Handler{svc: svc, baseURL: publicBaseURL}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/emergency-token", h.Rotate)
	api.GET("/emergency-token", h.Current)
}

type tokenResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

func (h *Handler) response(t *EmergencyToken) tokenResponse {
	return tokenResponse{
		Token: t.Token,
		URL:   fmt.Sprintf("%s/qr/%s", h.baseURL, t.Token),
	}
}

func (h *Handler) Rotate(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.Rotate(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}
	return c.JSON(http.StatusCreated, h.response(t))
}

func (h *Handler) Current(c echo.Context) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.Current(c.Request().Context(), userID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "no emergency token generated yet")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.response(t))
}

func requestUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
