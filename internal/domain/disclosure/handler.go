package disclosure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/carevault/carevault/internal/domain/emergencytoken"
)

type Handler struct {
	svc           *Service
	publicBaseURL string
}

func NewHandler(svc *Service, publicBaseURL string) *Handler {
	return &Handler{svc: svc, publicBaseURL: publicBaseURL}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Get(c echo.Context) error {
	token := c.Param("token")

	profile, ownerID, err := h.svc.Resolve(c.Request().Context(), token)
	switch {
	case errors.Is(err, emergencytoken.ErrInvalidToken):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid QR code format"})
	case errors.Is(err, emergencytoken.ErrNotFound), errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "QR code not found or has been deactivated"})
	case err != nil:
		log.Error().Err(err).Msg("disclosure lookup failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to retrieve QR information"})
	}

	log.Info().
		Str("event", "emergency_disclosure").
		Str("digest", emergencytoken.Digest(token)[:8]).
		Str("owner_id", ownerID.String()).
		Str("remote_ip", c.RealIP()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("emergency profile served")

	secs := int(h.svc.TTL().Seconds())
	c.Response().Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, s-maxage=%d", secs, secs))
	return c.JSON(http.StatusOK, profile)
}

// Image renders the token's public URL as a QR code PNG. The token is
// only format-checked: the code must stay printable even while the
// backing data is briefly unavailable.
func (h *Handler) Image(c echo.Context) error {
	token := c.Param("token")
	if !emergencytoken.IsValidFormat(token) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid QR code format"})
	}

	url := fmt.Sprintf("%s/qr/%s", h.publicBaseURL, token)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		log.Error().Err(err).Msg("failed to render QR image")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to render QR code"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
