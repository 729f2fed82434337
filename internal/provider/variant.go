package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

// Variant is the static description of one OpenAI-compatible service.
type Variant struct {
	Tag               string
	Name              string
	BaseURL           string
	Model             string
	RequestsPerMinute int
	TokensPerMinute   int
	SystemPrompt      string
	Capabilities      []domain.Capability
}

// Registry stores provider variants keyed by tag.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]Variant
	order    []string
}

// DefaultRegistry holds the built-in variants.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty variant registry.
func NewRegistry() *Registry {
	return &Registry{variants: make(map[string]Variant)}
}

// Register adds a variant. Tags must be unique.
func (r *Registry) Register(v Variant) error {
	if v.Tag == "" {
		return fmt.Errorf("variant tag is required")
	}
	if v.BaseURL == "" {
		return fmt.Errorf("variant %s: base URL is required", v.Tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.variants[v.Tag]; exists {
		return fmt.Errorf("variant already registered for %s", v.Tag)
	}
	r.variants[v.Tag] = v
	r.order = append(r.order, v.Tag)
	return nil
}

// Lookup returns the variant for tag.
func (r *Registry) Lookup(tag string) (Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[tag]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, tag)
	}
	return v, nil
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SortedTags returns the registered tags alphabetically.
func (r *Registry) SortedTags() []string {
	tags := r.Tags()
	sort.Strings(tags)
	return tags
}

// MustRegister adds a variant to the default registry or panics.
func MustRegister(v Variant) {
	if err := DefaultRegistry.Register(v); err != nil {
		panic(err)
	}
}

func init() {
	MustRegister(Variant{
		Tag:               "grok",
		Name:              "grok-2",
		BaseURL:           "https://api.x.ai/v1",
		Model:             "grok-2-latest",
		RequestsPerMinute: 60,
		TokensPerMinute:   100000,
		SystemPrompt:      grokSystemPrompt,
		Capabilities: []domain.Capability{
			domain.CapabilityAttachment,
			domain.CapabilityPsychedelic,
			domain.CapabilitySocial,
			domain.CapabilityWorkshop,
		},
	})
	MustRegister(Variant{
		Tag:               "groq",
		Name:              "groq-llama",
		BaseURL:           "https://api.groq.com/openai/v1",
		Model:             "llama-3.3-70b-versatile",
		RequestsPerMinute: 30,
		TokensPerMinute:   20000,
		SystemPrompt:      groqSystemPrompt,
		Capabilities: []domain.Capability{
			domain.CapabilityAttachment,
			domain.CapabilityPsychedelic,
			domain.CapabilitySocial,
		},
	})
}
