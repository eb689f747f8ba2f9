package assist

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/carevault/carevault/internal/platform/ai"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/chat", h.Chat)
}

type chatRequest struct {
	Message string           `json:"message"`
	History []ai.ChatMessage `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reply, err := h.svc.Reply(c.Request().Context(), req.Message, req.History)
	if err != nil {
		if errors.Is(err, ErrInvalidMessage) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		log.Error().Err(err).Msg("chat completion failed")
		return echo.NewHTTPError(http.StatusBadGateway, "assistant is unavailable")
	}

	return c.JSON(http.StatusOK, chatResponse{Reply: reply})
}
