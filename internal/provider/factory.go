package provider

import "go.uber.org/zap"

// ModeMock selects offline mock providers instead of network clients.
const ModeMock = "MOCK"

// Build constructs the provider for tag. In mock mode no credential is needed.
func Build(tag, apiKey, mode string, logger *zap.Logger, opts ...Option) (Provider, error) {
	if mode == ModeMock {
		if logger != nil {
			logger.Info("SFH_MODE=MOCK detected, using mock provider", zap.String("provider", tag))
		}
		if _, err := DefaultRegistry.Lookup(tag); err != nil {
			return nil, err
		}
		return NewMock(tag), nil
	}
	return New(tag, apiKey, append(opts, WithLogger(logger))...)
}
