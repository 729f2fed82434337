package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/triage"
)

const anonymousUser = "anonymous"

// ChatInput is one client message.
type ChatInput struct {
	SessionID string
	UserID    string
	Message   string
	Provider  string
}

// ChatMetadata describes how a reply was produced.
type ChatMetadata struct {
	SessionID  string            `json:"session_id"`
	Provider   string            `json:"provider"`
	LatencyMs  float64           `json:"latency_ms"`
	TokenCount int               `json:"token_count"`
	Attempts   int               `json:"attempts"`
	RiskLevel  domain.RiskLevel  `json:"risk_level"`
	TopicTags  []domain.TopicTag `json:"topic_tags"`
}

// ChatOutput is the therapist reply with its validation.
type ChatOutput struct {
	Response   string                  `json:"response"`
	Validation domain.ValidationResult `json:"validation"`
	Metadata   ChatMetadata            `json:"metadata"`
}

// Chat records the client message, runs it through the orchestrator with
// auto-repair and stores the reply.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = "sess_" + uuid.New().String()
	}
	userID := in.UserID
	if userID == "" {
		userID = anonymousUser
	}

	session, err := s.store.GetOrCreateSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create session: %w", err)
	}

	session.AddTags(triage.DetectTopics(message)...)
	assessment := s.risk.Assess(ctx, session.TopicTags)
	if assessment.Risk != session.RiskLevel {
		s.logger.Info("session risk changed",
			zap.String("session_id", sessionID),
			zap.String("from", string(session.RiskLevel)),
			zap.String("to", string(assessment.Risk)))
	}
	session.RiskLevel = assessment.Risk

	// The prompt is built before the client message is appended so history
	// carries only prior turns.
	result, err := s.orch.ProcessWithAutoRepair(ctx, message, session, in.Provider, s.config.AutoRepairAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to process message: %w", err)
	}

	now := s.now()
	score := result.Validation.CoherenceScore
	exchange := []domain.Message{
		{
			MessageID: newMessageID(),
			Role:      domain.RoleClient,
			Content:   message,
			Timestamp: now,
		},
		{
			MessageID:      newMessageID(),
			Role:           domain.RoleTherapist,
			Content:        result.Response.RawResponse,
			Timestamp:      now,
			CoherenceScore: &score,
			Providers:      []string{result.Response.Provider},
		},
	}
	for i := range exchange {
		if err := s.store.AppendMessage(ctx, sessionID, &exchange[i]); err != nil {
			return nil, fmt.Errorf("failed to store message: %w", err)
		}
		session.AppendMessage(exchange[i])
	}

	session.PushScore(score)
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("chat processed",
		zap.String("session_id", sessionID),
		zap.String("provider", result.Response.Provider),
		zap.Bool("passed", result.Passed),
		zap.Float64("coherence", score),
		zap.Int("attempts", result.Attempts),
		zap.String("risk", string(session.RiskLevel)))

	return &ChatOutput{
		Response:   result.Response.RawResponse,
		Validation: result.Validation,
		Metadata: ChatMetadata{
			SessionID:  sessionID,
			Provider:   result.Response.Provider,
			LatencyMs:  result.Response.LatencyMs,
			TokenCount: result.Response.TokenCount,
			Attempts:   result.Attempts,
			RiskLevel:  session.RiskLevel,
			TopicTags:  session.TopicTags,
		},
	}, nil
}

// GetSession returns a stored session.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}
	return s.store.GetSession(ctx, sessionID)
}

func newMessageID() string {
	return "msg_" + uuid.New().String()
}
