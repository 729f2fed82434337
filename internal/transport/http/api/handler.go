// Package api provides the HTTP handlers of the chat API.
package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/observability"
	"github.com/xiaot623/gogo/sfh/internal/orchestrator"
	"github.com/xiaot623/gogo/sfh/internal/repository"
	"github.com/xiaot623/gogo/sfh/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   observability.OrNop(logger),
	}
}

// RegisterRoutes registers the API routes on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat", h.Chat)
	g.POST("/export-summary", h.ExportSummary)
	g.GET("/sessions/:session_id", h.GetSession)

	g.GET("/health", h.Health)
	g.GET("/providers", h.ListProviders)
	g.GET("/axioms", h.ListAxioms)
}

// bindAndValidate writes a 400 response and returns false when req is unusable.
func (h *Handler) bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, map[string]string{"error": validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "max":
			return fe.Field() + " is too long"
		default:
			return fe.Field() + " is invalid"
		}
	}
	return err.Error()
}

// errorResponse maps service errors onto HTTP status codes.
func (h *Handler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, orchestrator.ErrAllProvidersFailed):
		h.logger.Error("all providers failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error":   "service unavailable",
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrEmptySession):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "internal server error",
			"message": err.Error(),
		})
	}
}
