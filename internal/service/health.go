package service

import (
	"time"

	"github.com/xiaot623/gogo/sfh/internal/provider"
)

// HealthStatus reports which providers are usable.
type HealthStatus struct {
	Status    string    `json:"status"`
	Providers []string  `json:"providers"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Service) Health() HealthStatus {
	providers := s.orch.AvailableProviders()
	status := "healthy"
	if len(providers) == 0 {
		status = "degraded"
	}
	return HealthStatus{
		Status:    status,
		Providers: providers,
		Timestamp: s.now().UTC(),
	}
}

// Providers describes the configured providers in failover order.
func (s *Service) Providers() []provider.Description {
	return s.orch.Describe()
}
