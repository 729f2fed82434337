package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

// Mock is an offline Provider that answers with canned, compliant text.
type Mock struct {
	variant Variant
}

// NewMock creates a mock for a registered variant tag. Unknown tags get a bare variant.
func NewMock(tag string) *Mock {
	v, err := DefaultRegistry.Lookup(tag)
	if err != nil {
		v = Variant{Tag: tag, Name: tag + "-mock", BaseURL: "mock://" + tag, Model: "mock"}
	}
	return &Mock{variant: v}
}

// Ensure Mock implements Provider.
var _ Provider = (*Mock)(nil)

// ID returns the variant tag.
func (m *Mock) ID() string {
	return m.variant.Tag
}

// Describe reports the mock's configuration.
func (m *Mock) Describe() Description {
	return Description{
		ID:                m.variant.Tag,
		Name:              m.variant.Name,
		Model:             "mock",
		Endpoint:          "mock://" + m.variant.Tag,
		RequestsPerMinute: 0,
		TokensPerMinute:   m.variant.TokensPerMinute,
		Capabilities:      m.variant.Capabilities,
	}
}

// Query returns a deterministic response shaped by the prompt and session risk.
func (m *Mock) Query(ctx context.Context, req domain.Request) domain.Response {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return domain.Response{
			Provider:    m.variant.Tag,
			RawResponse: fmt.Sprintf("%s %s mock: %v", domain.ErrorPrefix, m.variant.Tag, err),
			Timestamp:   time.Now(),
		}
	}

	content := m.generateMockResponse(req)
	return domain.Response{
		Provider:    m.variant.Tag,
		RawResponse: content,
		LatencyMs:   float64(time.Since(start).Microseconds()) / 1000,
		TokenCount:  estimateTokens(req.Prompt) + estimateTokens(content),
		Timestamp:   time.Now(),
	}
}

func (m *Mock) generateMockResponse(req domain.Request) string {
	var b strings.Builder
	b.WriteString("I hear you, and what you are describing makes sense. ")
	// The prompt is never quoted back: it may contain phrases the validator rejects.
	switch n := len(strings.Fields(req.Prompt)); {
	case n == 0:
	case n <= 12:
		b.WriteString("Even in a few words, I notice a pattern worth exploring together. ")
	default:
		b.WriteString("There is a lot in what you shared, and I notice a pattern worth exploring together. ")
	}
	b.WriteString("Let me explain it through the lens of coherence: your attachment system is trying to keep ")
	b.WriteString("a sense of connection while your awareness of the experience keeps shifting. ")
	b.WriteString("Think about one small moment this week where you felt even slightly more settled, ")
	b.WriteString("and what you can notice in your body when that happens.")
	if req.Context != nil && req.Context.RiskLevel.RequiresReferral() {
		b.WriteString(" Please also reach out to a licensed therapist or call the 988 crisis line so you have human support right now.")
	}
	return b.String()
}

func estimateTokens(s string) int {
	return utf8.RuneCountInString(s) / 4
}
