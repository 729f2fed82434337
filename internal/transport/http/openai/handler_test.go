package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/sfh/internal/config"
	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/orchestrator"
	"github.com/xiaot623/gogo/sfh/internal/provider"
	"github.com/xiaot623/gogo/sfh/internal/service"
	"github.com/xiaot623/gogo/sfh/internal/testutil"
	"github.com/xiaot623/gogo/sfh/internal/triage"
)

const compliantReply = "I hear you, and what you describe makes sense. Let me explain this in terms of coherence: " +
	"your attachment system is looking for connection, and the awareness you bring to this experience " +
	"is already part of the therapeutic process. Think about one moment this week when you felt settled."

type recordingProvider struct {
	id    string
	reply string

	mu       sync.Mutex
	requests []domain.Request
	risks    []domain.RiskLevel
}

func (p *recordingProvider) ID() string { return p.id }
func (p *recordingProvider) Describe() provider.Description {
	return provider.Description{ID: p.id, Name: p.id + "-recording", Model: "test-model"}
}
func (p *recordingProvider) Query(_ context.Context, req domain.Request) domain.Response {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if req.Context != nil {
		p.risks = append(p.risks, req.Context.RiskLevel)
	}
	return domain.Response{Provider: p.id, RawResponse: p.reply, TokenCount: 11}
}

func newTestHandler(t *testing.T, providers ...provider.Provider) *Handler {
	t.Helper()
	db := testutil.NewTestSQLiteStore(t)
	orch, err := orchestrator.New(providers)
	require.NoError(t, err)
	engine, err := triage.NewEngine(context.Background(), "", nil)
	require.NoError(t, err)
	return NewHandler(service.New(db, orch, engine, config.Default(), nil), nil)
}

func post(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestChatCompletions(t *testing.T) {
	e := echo.New()
	p := &recordingProvider{id: "groq", reply: compliantReply}
	h := newTestHandler(t, p)

	c, rec := post(e, `{
		"model": "sfh",
		"messages": [
			{"role": "system", "content": "ignored"},
			{"role": "user", "content": "I keep feeling anxious"},
			{"role": "assistant", "content": "Tell me more."},
			{"role": "user", "content": "It happens with my partner"}
		]
	}`)
	require.NoError(t, h.ChatCompletions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp goopenai.ChatCompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, "groq", resp.Model)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, goopenai.ChatMessageRoleAssistant, resp.Choices[0].Message.Role)
	assert.Equal(t, compliantReply, resp.Choices[0].Message.Content)
	assert.Equal(t, goopenai.FinishReasonStop, resp.Choices[0].FinishReason)
	assert.Equal(t, 11, resp.Usage.TotalTokens)

	assert.Equal(t, "true", rec.Header().Get(HeaderPassed))
	assert.Equal(t, "1", rec.Header().Get(HeaderAttempts))
	assert.NotEmpty(t, rec.Header().Get(HeaderCoherence))

	require.Len(t, p.requests, 1)
	req := p.requests[0]
	assert.Equal(t, "It happens with my partner", req.Prompt)
	require.Len(t, req.Context.Messages, 2)
	assert.Equal(t, domain.RoleClient, req.Context.Messages[0].Role)
	assert.Equal(t, domain.RoleTherapist, req.Context.Messages[1].Role)
	assert.Equal(t, domain.RiskMedium, p.risks[0])
}

func TestChatCompletionsRiskFromHistory(t *testing.T) {
	e := echo.New()
	p := &recordingProvider{id: "groq", reply: compliantReply}
	h := newTestHandler(t, p)

	c, rec := post(e, `{"model":"groq","messages":[
		{"role":"user","content":"I sometimes feel like I want to die"},
		{"role":"user","content":"anyway, how are you"}
	]}`)
	require.NoError(t, h.ChatCompletions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// No crisis resources in the reply, so every attempt fails the referral check.
	assert.Equal(t, "false", rec.Header().Get(HeaderPassed))
	assert.Equal(t, "2", rec.Header().Get(HeaderAttempts))
	assert.Equal(t, domain.RiskEmergency, p.risks[0])
}

func TestChatCompletionsContentParts(t *testing.T) {
	e := echo.New()
	p := &recordingProvider{id: "groq", reply: compliantReply}
	h := newTestHandler(t, p)

	c, rec := post(e, `{"model":"sfh","messages":[
		{"role":"user","content":[{"type":"text","text":"I feel lonely"}]},
		{"role":"assistant","content":"Tell me more."},
		{"role":"user","content":[
			{"type":"text","text":"since I moved"},
			{"type":"image_url","image_url":{"url":"https://example.com/room.png"}},
			{"type":"text","text":"to a new city"}
		]}
	]}`)
	require.NoError(t, h.ChatCompletions(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, p.requests, 1)
	assert.Equal(t, "since I moved\nto a new city", p.requests[0].Prompt)
	require.Len(t, p.requests[0].Context.Messages, 2)
	assert.Equal(t, "I feel lonely", p.requests[0].Context.Messages[0].Content)

	c, rec = post(e, `{"model":"sfh","messages":[
		{"role":"user","content":[{"type":"image_url","image_url":{"url":"https://example.com/a.png"}}]}
	]}`)
	require.NoError(t, h.ChatCompletions(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatCompletionsInvalid(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &recordingProvider{id: "groq", reply: compliantReply})

	tests := []struct {
		name  string
		body  string
		param string
	}{
		{"bad json", `not json`, ""},
		{"stream", `{"model":"sfh","stream":true,"messages":[{"role":"user","content":"hi"}]}`, "stream"},
		{"no messages", `{"model":"sfh","messages":[]}`, "messages"},
		{"last not user", `{"model":"sfh","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`, "messages"},
		{"blank prompt", `{"model":"sfh","messages":[{"role":"user","content":"   "}]}`, "messages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := post(e, tt.body)
			require.NoError(t, h.ChatCompletions(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp goopenai.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, "invalid_request_error", resp.Error.Type)
			if tt.param != "" {
				require.NotNil(t, resp.Error.Param)
				assert.Equal(t, tt.param, *resp.Error.Param)
			}
		})
	}
}

func TestChatCompletionsUpstreamFailure(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &recordingProvider{id: "groq", reply: "Error: groq API error: status 500"})

	c, rec := post(e, `{"model":"sfh","messages":[{"role":"user","content":"hello"}]}`)
	require.NoError(t, h.ChatCompletions(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp goopenai.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "upstream_error", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "all providers failed")
}

func TestListModels(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t,
		&recordingProvider{id: "groq", reply: compliantReply},
		&recordingProvider{id: "grok", reply: compliantReply},
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListModels(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var list goopenai.ModelsList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{AutoModel, "groq", "grok"}, ids)
	assert.Equal(t, "groq-recording", list.Models[1].OwnedBy)
}
