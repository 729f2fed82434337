package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/orchestrator"
	"github.com/xiaot623/gogo/sfh/internal/triage"
)

// CompletionInput is a stateless conversation supplied by the caller.
type CompletionInput struct {
	History  []domain.Message
	Prompt   string
	Provider string
}

// CompletionOutput is the repaired reply plus the session state it was judged against.
type CompletionOutput struct {
	orchestrator.RepairResult
	RiskLevel domain.RiskLevel
	TopicTags []domain.TopicTag
}

// Complete runs a caller-held conversation through triage and auto-repair.
// Nothing is persisted.
func (s *Service) Complete(ctx context.Context, in CompletionInput) (*CompletionOutput, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}

	session := domain.NewSession("eph_"+uuid.New().String()[:8], anonymousUser)
	for _, msg := range in.History {
		if msg.Role == domain.RoleClient {
			session.AddTags(triage.DetectTopics(msg.Content)...)
		}
		session.AppendMessage(msg)
	}
	session.AddTags(triage.DetectTopics(prompt)...)
	session.RiskLevel = s.risk.Assess(ctx, session.TopicTags).Risk

	result, err := s.orch.ProcessWithAutoRepair(ctx, prompt, session, in.Provider, s.config.AutoRepairAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to process completion: %w", err)
	}
	return &CompletionOutput{
		RepairResult: result,
		RiskLevel:    session.RiskLevel,
		TopicTags:    session.TopicTags,
	}, nil
}
