package domain

import "time"

// Request is a single query to a provider. Built fresh per call.
type Request struct {
	Prompt      string     `json:"prompt"`
	Context     *Session   `json:"-"`
	MaxTokens   int        `json:"max_tokens"`
	Temperature float32    `json:"temperature"`
	TopicTags   []TopicTag `json:"topic_tags,omitempty"`

	// SystemPrompt replaces the provider's persona when set.
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// Response is a normalized provider reply. RawResponse starts with
// ErrorPrefix when the provider failed.
type Response struct {
	Provider    string    `json:"provider"`
	RawResponse string    `json:"raw_response"`
	LatencyMs   float64   `json:"latency_ms"`
	TokenCount  int       `json:"token_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// ErrorPrefix marks a Response whose provider call failed.
const ErrorPrefix = "Error:"

// IsError reports whether the response carries the provider error sentinel.
func (r *Response) IsError() bool {
	return r != nil && len(r.RawResponse) >= len(ErrorPrefix) && r.RawResponse[:len(ErrorPrefix)] == ErrorPrefix
}
