package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/metrics"
	"github.com/xiaot623/gogo/sfh/internal/observability"
	"github.com/xiaot623/gogo/sfh/internal/ratelimit"
)

// DefaultHistoryLimit is how many prior session messages are sent as context.
const DefaultHistoryLimit = 5

// Client talks to one OpenAI-compatible chat-completion endpoint.
type Client struct {
	variant      Variant
	model        string
	baseURL      string
	timeout      time.Duration
	httpClient   *http.Client
	historyLimit int
	rpm          int
	limiter      *ratelimit.Limiter
	logger       *zap.Logger

	api *openai.Client
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the variant's default model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the variant's endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequestsPerMinute overrides the variant's rate limit.
func WithRequestsPerMinute(rpm int) Option {
	return func(c *Client) {
		if rpm > 0 {
			c.rpm = rpm
		}
	}
}

// WithLimiter replaces the rate limiter.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithHistoryLimit sets how many prior messages are included.
func WithHistoryLimit(n int) Option {
	return func(c *Client) { c.historyLimit = n }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = observability.OrNop(logger) }
}

// New creates a client for a variant registered in DefaultRegistry.
func New(tag, apiKey string, opts ...Option) (*Client, error) {
	v, err := DefaultRegistry.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return NewFromVariant(v, apiKey, opts...)
}

// NewFromVariant creates a client for v. It fails if apiKey is empty or a placeholder.
func NewFromVariant(v Variant, apiKey string, opts ...Option) (*Client, error) {
	if !validCredential(apiKey) {
		return nil, fmt.Errorf("%s: %w", v.Tag, ErrMissingCredential)
	}

	c := &Client{
		variant:      v,
		model:        v.Model,
		baseURL:      strings.TrimSuffix(v.BaseURL, "/"),
		timeout:      60 * time.Second,
		historyLimit: DefaultHistoryLimit,
		rpm:          v.RequestsPerMinute,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.limiter == nil {
		tag := v.Tag
		logger := c.logger
		c.limiter = ratelimit.New(c.rpm, ratelimit.WithWaitHook(func(d time.Duration) {
			metrics.RateLimitWaits.WithLabelValues(tag).Inc()
			logger.Info("rate limit reached, waiting", zap.String("provider", tag), zap.Duration("wait", d))
		}))
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.httpClient
	c.api = openai.NewClientWithConfig(cfg)

	return c, nil
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)

// ID returns the variant tag.
func (c *Client) ID() string {
	return c.variant.Tag
}

// Describe returns the provider's public configuration.
func (c *Client) Describe() Description {
	return Description{
		ID:                c.variant.Tag,
		Name:              c.variant.Name,
		Model:             c.model,
		Endpoint:          c.baseURL + "/chat/completions",
		RequestsPerMinute: c.rpm,
		TokensPerMinute:   c.variant.TokensPerMinute,
		Capabilities:      c.variant.Capabilities,
	}
}

// Query sends req to the endpoint. Failures are folded into an error-sentinel Response.
func (c *Client) Query(ctx context.Context, req domain.Request) domain.Response {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return c.errorResponse(start, fmt.Errorf("rate limiter: %w", err))
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return c.errorResponse(start, fmt.Errorf("%s API error: %w", c.variant.Tag, err))
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	latency := time.Since(start)
	metrics.ProviderRequests.WithLabelValues(c.variant.Tag, "ok").Inc()
	metrics.ProviderLatency.WithLabelValues(c.variant.Tag).Observe(latency.Seconds())

	return domain.Response{
		Provider:    c.variant.Tag,
		RawResponse: content,
		LatencyMs:   float64(latency.Microseconds()) / 1000,
		TokenCount:  resp.Usage.TotalTokens,
		Timestamp:   time.Now(),
	}
}

// buildMessages lays out system prompt, recent history and the new prompt.
func (c *Client) buildMessages(req domain.Request) []openai.ChatCompletionMessage {
	var history []domain.Message
	if req.Context != nil {
		history = req.Context.RecentMessages(c.historyLimit)
	}

	system := req.SystemPrompt
	if system == "" {
		system = c.variant.SystemPrompt + sessionContext(req.Context)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == domain.RoleTherapist {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
	return messages
}

func (c *Client) errorResponse(start time.Time, err error) domain.Response {
	latency := time.Since(start)
	metrics.ProviderRequests.WithLabelValues(c.variant.Tag, "error").Inc()
	metrics.ProviderLatency.WithLabelValues(c.variant.Tag).Observe(latency.Seconds())
	c.logger.Warn("provider query failed", zap.String("provider", c.variant.Tag), zap.Error(err))

	return domain.Response{
		Provider:    c.variant.Tag,
		RawResponse: domain.ErrorPrefix + " " + err.Error(),
		LatencyMs:   float64(latency.Microseconds()) / 1000,
		TokenCount:  0,
		Timestamp:   time.Now(),
	}
}
