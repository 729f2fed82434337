// Package openai exposes the orchestrator behind an OpenAI-compatible
// chat-completions endpoint.
package openai

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/observability"
	"github.com/xiaot623/gogo/sfh/internal/orchestrator"
	"github.com/xiaot623/gogo/sfh/internal/service"
)

// AutoModel lets the orchestrator pick the provider.
const AutoModel = "sfh"

// Response headers carrying the validation outcome.
const (
	HeaderCoherence = "X-SFH-Coherence"
	HeaderPassed    = "X-SFH-Passed"
	HeaderAttempts  = "X-SFH-Attempts"
)

// Handler handles OpenAI-compatible requests.
type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: observability.OrNop(logger)}
}

// RegisterRoutes registers the OpenAI-compatible routes.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat/completions", h.ChatCompletions)
	g.GET("/models", h.ListModels)
}

// ChatCompletions answers the final user message of the conversation.
// POST /v1/chat/completions
func (h *Handler) ChatCompletions(c echo.Context) error {
	var req goopenai.ChatCompletionRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, "invalid request body", "")
	}
	if req.Stream {
		return invalidRequest(c, "streaming is not supported", "stream")
	}
	if len(req.Messages) == 0 {
		return invalidRequest(c, "messages is required", "messages")
	}
	last := req.Messages[len(req.Messages)-1]
	prompt := messageText(last)
	if last.Role != goopenai.ChatMessageRoleUser || prompt == "" {
		return invalidRequest(c, "last message must be a non-empty user message", "messages")
	}

	preferred := req.Model
	if preferred == AutoModel {
		preferred = ""
	}

	requestID := "chatcmpl-sfh-" + uuid.New().String()[:8]
	out, err := h.service.Complete(c.Request().Context(), service.CompletionInput{
		History:  history(req.Messages[:len(req.Messages)-1]),
		Prompt:   prompt,
		Provider: preferred,
	})
	if err != nil {
		return h.errorResponse(c, err)
	}

	h.logger.Debug("proxied completion",
		zap.String("request_id", requestID),
		zap.String("provider", out.Response.Provider),
		zap.Bool("passed", out.Passed),
		zap.Int("attempts", out.Attempts))

	header := c.Response().Header()
	header.Set(HeaderCoherence, strconv.FormatFloat(out.Validation.CoherenceScore, 'f', 4, 64))
	header.Set(HeaderPassed, strconv.FormatBool(out.Passed))
	header.Set(HeaderAttempts, strconv.Itoa(out.Attempts))

	return c.JSON(http.StatusOK, goopenai.ChatCompletionResponse{
		ID:      requestID,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   out.Response.Provider,
		Choices: []goopenai.ChatCompletionChoice{{
			Index: 0,
			Message: goopenai.ChatCompletionMessage{
				Role:    goopenai.ChatMessageRoleAssistant,
				Content: out.Response.RawResponse,
			},
			FinishReason: goopenai.FinishReasonStop,
		}},
		Usage: goopenai.Usage{TotalTokens: out.Response.TokenCount},
	})
}

// ListModels lists the configured providers as models.
// GET /v1/models
func (h *Handler) ListModels(c echo.Context) error {
	models := []goopenai.Model{{ID: AutoModel, Object: "model", OwnedBy: "sfh"}}
	for _, d := range h.service.Providers() {
		models = append(models, goopenai.Model{ID: d.ID, Object: "model", OwnedBy: d.Name, Root: d.Model})
	}
	return c.JSON(http.StatusOK, goopenai.ModelsList{Models: models})
}

// history maps chat turns onto session messages; system turns are dropped.
func history(messages []goopenai.ChatCompletionMessage) []domain.Message {
	out := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case goopenai.ChatMessageRoleUser:
			out = append(out, domain.Message{Role: domain.RoleClient, Content: messageText(m)})
		case goopenai.ChatMessageRoleAssistant:
			out = append(out, domain.Message{Role: domain.RoleTherapist, Content: messageText(m)})
		}
	}
	return out
}

// messageText returns the plain content, or the text parts joined when the
// content was sent as an array of parts. Non-text parts are ignored.
func messageText(m goopenai.ChatCompletionMessage) string {
	if m.Content != "" || len(m.MultiContent) == 0 {
		return m.Content
	}
	parts := make([]string, 0, len(m.MultiContent))
	for _, part := range m.MultiContent {
		if part.Type == goopenai.ChatMessagePartTypeText && part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func (h *Handler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, orchestrator.ErrAllProvidersFailed):
		h.logger.Error("LLM request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, goopenai.ErrorResponse{Error: &goopenai.APIError{
			Message: err.Error(),
			Type:    "upstream_error",
		}})
	case errors.Is(err, service.ErrInvalidInput):
		return invalidRequest(c, err.Error(), "messages")
	default:
		h.logger.Error("completion failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, goopenai.ErrorResponse{Error: &goopenai.APIError{
			Message: err.Error(),
			Type:    "internal_error",
		}})
	}
}

func invalidRequest(c echo.Context, message, param string) error {
	apiErr := &goopenai.APIError{Message: message, Type: "invalid_request_error"}
	if param != "" {
		apiErr.Param = &param
	}
	return c.JSON(http.StatusBadRequest, goopenai.ErrorResponse{Error: apiErr})
}
