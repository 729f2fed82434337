package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/sfh/internal/service"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=8000"`
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	UserID    string `json:"user_id" validate:"omitempty,max=128"`
	Provider  string `json:"provider" validate:"omitempty,alphanum,max=32"`
}

// ExportSummaryRequest is the body of POST /api/export-summary.
type ExportSummaryRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
}

// Chat sends a client message through the orchestrator.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.service.Chat(c.Request().Context(), service.ChatInput{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Message:   req.Message,
		Provider:  req.Provider,
	})
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ExportSummary generates a summary and recommendations for a session.
// POST /api/export-summary
func (h *Handler) ExportSummary(c echo.Context) error {
	var req ExportSummaryRequest
	if ok, err := h.bindAndValidate(c, &req); !ok {
		return err
	}

	summary, err := h.service.ExportSummary(c.Request().Context(), req.SessionID)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetSession returns a stored session.
// GET /api/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, session)
}
