// Package orchestrator routes prompts across providers with failover and
// validates what comes back.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/compliance"
	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/metrics"
	"github.com/xiaot623/gogo/sfh/internal/observability"
	"github.com/xiaot623/gogo/sfh/internal/provider"
)

var (
	// ErrNoProviders is returned when no provider could be configured.
	ErrNoProviders = errors.New("no LLM providers configured")
	// ErrAllProvidersFailed is returned when every attempted provider failed.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

const (
	DefaultMaxTokens      = 800
	DefaultTemperature    = 0.7
	DefaultRepairAttempts = 2
)

const repairFraming = "\n\nIMPORTANT: Previous response violated SFH axioms. Please correct:\n"

// Result is the outcome of one processed message.
type Result struct {
	Response   domain.Response         `json:"response"`
	Validation domain.ValidationResult `json:"validation"`
	Passed     bool                    `json:"passed"`
}

// RepairResult is the outcome of the auto-repair loop.
type RepairResult struct {
	Result
	Attempts int `json:"attempts"`
}

// Orchestrator holds the configured providers in failover order.
type Orchestrator struct {
	providers   map[string]provider.Provider
	order       []string
	defaultID   string
	validator   *compliance.Validator
	maxTokens   int
	temperature float32
	logger      *zap.Logger

	// used by NewFromCredentials only
	mode          string
	clientOptions func(tag string) []provider.Option
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDefaultProvider moves id to the front of the failover order.
func WithDefaultProvider(id string) Option {
	return func(o *Orchestrator) { o.defaultID = id }
}

// WithValidator replaces the compliance validator.
func WithValidator(v *compliance.Validator) Option {
	return func(o *Orchestrator) { o.validator = v }
}

// WithGeneration sets max output tokens and temperature for ProcessMessage.
func WithGeneration(maxTokens int, temperature float32) Option {
	return func(o *Orchestrator) {
		if maxTokens > 0 {
			o.maxTokens = maxTokens
		}
		o.temperature = temperature
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = observability.OrNop(logger) }
}

// WithMode selects provider.ModeMock for NewFromCredentials.
func WithMode(mode string) Option {
	return func(o *Orchestrator) { o.mode = mode }
}

// WithClientOptions supplies per-variant client options for NewFromCredentials.
func WithClientOptions(fn func(tag string) []provider.Option) Option {
	return func(o *Orchestrator) { o.clientOptions = fn }
}

// New creates an orchestrator over providers, in the given order.
func New(providers []provider.Provider, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		providers:   make(map[string]provider.Provider),
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.validator == nil {
		o.validator = compliance.NewValidator(compliance.WithLogger(o.logger))
	}

	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, dup := o.providers[p.ID()]; dup {
			continue
		}
		o.providers[p.ID()] = p
		o.order = append(o.order, p.ID())
	}
	if len(o.order) == 0 {
		return nil, ErrNoProviders
	}

	if o.defaultID != "" {
		if _, ok := o.providers[o.defaultID]; ok {
			o.order = prioritise(o.order, o.defaultID)
		} else {
			o.logger.Warn("default provider not configured", zap.String("provider", o.defaultID))
		}
	}
	return o, nil
}

// NewFromCredentials builds a provider for every registered variant that has a
// usable credential (or every variant in mock mode).
func NewFromCredentials(credentials map[string]string, opts ...Option) (*Orchestrator, error) {
	probe := &Orchestrator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(probe)
	}

	var providers []provider.Provider
	for _, tag := range provider.DefaultRegistry.Tags() {
		var clientOpts []provider.Option
		if probe.clientOptions != nil {
			clientOpts = probe.clientOptions(tag)
		}
		p, err := provider.Build(tag, credentials[tag], probe.mode, probe.logger, clientOpts...)
		if err != nil {
			if errors.Is(err, provider.ErrMissingCredential) {
				probe.logger.Info("provider not configured", zap.String("provider", tag))
			} else {
				probe.logger.Warn("failed to initialise provider", zap.String("provider", tag), zap.Error(err))
			}
			continue
		}
		probe.logger.Info("provider initialised", zap.String("provider", tag))
		providers = append(providers, p)
	}

	o, err := New(providers, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return o, nil
}

// AvailableProviders returns configured provider ids in failover order.
func (o *Orchestrator) AvailableProviders() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Describe returns the public description of each configured provider.
func (o *Orchestrator) Describe() []provider.Description {
	out := make([]provider.Description, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.providers[id].Describe())
	}
	return out
}

// Complete sends req through the failover chain without validating the answer.
// The first non-error response wins.
func (o *Orchestrator) Complete(ctx context.Context, req domain.Request, preferred string) (domain.Response, error) {
	attempts := o.attemptOrder(preferred)

	var lastErr string
	for i, id := range attempts {
		p, ok := o.providers[id]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return domain.Response{}, fmt.Errorf("orchestrator: %w", err)
		}

		o.logger.Debug("querying provider", zap.String("provider", id), zap.Int("attempt", i+1))
		resp := p.Query(ctx, req)
		if !resp.IsError() {
			return resp, nil
		}

		lastErr = resp.RawResponse
		if i < len(attempts)-1 {
			metrics.Failovers.Inc()
			o.logger.Warn("provider failed, trying next", zap.String("provider", id), zap.String("error", lastErr))
		}
	}

	o.logger.Error("all providers failed", zap.String("last_error", lastErr))
	return domain.Response{}, fmt.Errorf("%w. Last error: %s", ErrAllProvidersFailed, lastErr)
}

// ProcessMessage queries providers with failover and validates the first
// non-error response. A failed validation is a normal result, not an error.
func (o *Orchestrator) ProcessMessage(ctx context.Context, prompt string, session *domain.Session, preferred string) (Result, error) {
	req := domain.Request{
		Prompt:      prompt,
		Context:     session,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	}
	if session != nil {
		req.TopicTags = session.TopicTags
	}

	resp, err := o.Complete(ctx, req, preferred)
	if err != nil {
		return Result{}, err
	}

	validation := o.validator.Validate(&resp, session)
	return Result{
		Response:   resp,
		Validation: validation,
		Passed:     validation.Passed,
	}, nil
}

// ProcessWithAutoRepair retries ProcessMessage up to maxAttempts times,
// appending repair suggestions to the prompt after each failed validation.
// Exhausting the attempts returns the last result without error.
func (o *Orchestrator) ProcessWithAutoRepair(ctx context.Context, prompt string, session *domain.Session, preferred string, maxAttempts int) (RepairResult, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRepairAttempts
	}

	current := prompt
	var result Result
	attempts := 0
	for attempts < maxAttempts {
		attempts++
		var err error
		result, err = o.ProcessMessage(ctx, current, session, preferred)
		if err != nil {
			return RepairResult{}, err
		}
		if result.Passed {
			break
		}
		if attempts < maxAttempts {
			o.logger.Info("response failed validation, repairing",
				zap.Int("attempt", attempts),
				zap.Float64("coherence", result.Validation.CoherenceScore),
				zap.Int("violations", len(result.Validation.ViolatedAxioms)))
			current += repairFraming + strings.Join(result.Validation.RepairSuggestions, "\n")
		}
	}

	metrics.RepairAttempts.Observe(float64(attempts))
	return RepairResult{Result: result, Attempts: attempts}, nil
}

// attemptOrder puts preferred first, then the configured order, without duplicates.
func (o *Orchestrator) attemptOrder(preferred string) []string {
	if preferred == "" {
		return o.AvailableProviders()
	}
	return prioritise(o.order, preferred)
}

func prioritise(order []string, first string) []string {
	out := make([]string, 0, len(order)+1)
	out = append(out, first)
	for _, id := range order {
		if id != first {
			out = append(out, id)
		}
	}
	return out
}
