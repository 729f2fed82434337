// Package service implements the chat use cases on top of the orchestrator.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/config"
	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/observability"
	"github.com/xiaot623/gogo/sfh/internal/orchestrator"
	"github.com/xiaot623/gogo/sfh/internal/provider"
	"github.com/xiaot623/gogo/sfh/internal/triage"
)

var (
	// ErrInvalidInput is returned for requests missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptySession is returned when a summary is requested for a session with no messages.
	ErrEmptySession = errors.New("no messages to summarize")
)

// SessionStore persists sessions.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)
	SaveSession(ctx context.Context, session *domain.Session) error
	AppendMessage(ctx context.Context, sessionID string, msg *domain.Message) error
	DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// Orchestrator is the provider-facing core the service drives.
type Orchestrator interface {
	AvailableProviders() []string
	Describe() []provider.Description
	Complete(ctx context.Context, req domain.Request, preferred string) (domain.Response, error)
	ProcessWithAutoRepair(ctx context.Context, prompt string, session *domain.Session, preferred string, maxAttempts int) (orchestrator.RepairResult, error)
}

// RiskAssessor classifies a set of topic tags.
type RiskAssessor interface {
	Assess(ctx context.Context, tags []domain.TopicTag) triage.Assessment
}

type Service struct {
	store  SessionStore
	orch   Orchestrator
	risk   RiskAssessor
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func New(store SessionStore, orch Orchestrator, risk RiskAssessor, cfg *config.Config, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{
		store:  store,
		orch:   orch,
		risk:   risk,
		config: cfg,
		logger: observability.OrNop(logger),
		now:    time.Now,
	}
}
