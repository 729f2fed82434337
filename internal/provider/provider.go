// Package provider wraps external chat-completion services behind one interface.
package provider

import (
	"context"
	"errors"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

var (
	// ErrMissingCredential is returned when a provider is constructed without a usable API key.
	ErrMissingCredential = errors.New("provider credential is required")
	// ErrUnknownVariant is returned for an unregistered provider tag.
	ErrUnknownVariant = errors.New("unknown provider variant")
)

// placeholderCredential is treated the same as an empty key.
const placeholderCredential = "PLACEHOLDER"

// Provider is one chat-completion backend.
type Provider interface {
	// ID returns the tag the provider was registered under (e.g. "groq").
	ID() string
	// Query never returns an error; failures come back as a Response whose
	// RawResponse starts with domain.ErrorPrefix.
	Query(ctx context.Context, req domain.Request) domain.Response
	// Describe reports the provider's capabilities without its credential.
	Describe() Description
}

// Description is the public view of a configured provider.
type Description struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Model             string              `json:"model"`
	Endpoint          string              `json:"endpoint"`
	RequestsPerMinute int                 `json:"requests_per_minute"`
	TokensPerMinute   int                 `json:"tokens_per_minute"`
	Capabilities      []domain.Capability `json:"capabilities"`
}

func validCredential(key string) bool {
	return key != "" && key != placeholderCredential
}
