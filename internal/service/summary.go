package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

const (
	summaryMaxTokens         = 500
	recommendationsMaxTokens = 400
	summaryTemperature       = 0.7

	summarySystemPrompt         = "You are an expert psychologist writing session summaries."
	recommendationsSystemPrompt = "You are an expert psychologist providing therapeutic recommendations."
)

// Summary is the exported session report.
type Summary struct {
	SessionID        string  `json:"session_id"`
	Summary          string  `json:"summary"`
	Recommendations  string  `json:"recommendations"`
	AverageCoherence float64 `json:"average_coherence"`
	MessageCount     int     `json:"message_count"`
}

// ExportSummary asks the providers for a summary and recommendations in parallel.
// Responses are not validated.
func (s *Service) ExportSummary(ctx context.Context, sessionID string) (*Summary, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Messages) == 0 {
		return nil, ErrEmptySession
	}

	transcript := transcript(session.Messages)
	avg := session.AverageCoherence()

	out := &Summary{
		SessionID:        session.SessionID,
		AverageCoherence: avg,
		MessageCount:     len(session.Messages),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.orch.Complete(gctx, domain.Request{
			Prompt:       summaryPrompt(transcript, avg),
			SystemPrompt: summarySystemPrompt,
			MaxTokens:    summaryMaxTokens,
			Temperature:  summaryTemperature,
		}, "")
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		out.Summary = resp.RawResponse
		return nil
	})
	g.Go(func() error {
		resp, err := s.orch.Complete(gctx, domain.Request{
			Prompt:       recommendationsPrompt(transcript),
			SystemPrompt: recommendationsSystemPrompt,
			MaxTokens:    recommendationsMaxTokens,
			Temperature:  summaryTemperature,
		}, "")
		if err != nil {
			return fmt.Errorf("recommendations: %w", err)
		}
		out.Recommendations = resp.RawResponse
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}
	return out, nil
}

func transcript(messages []domain.Message) string {
	parts := make([]string, len(messages))
	for i, msg := range messages {
		speaker := "Therapist"
		if msg.Role == domain.RoleClient {
			speaker = "Client"
		}
		parts[i] = speaker + ": " + msg.Content
	}
	return strings.Join(parts, "\n\n")
}

func summaryPrompt(transcript string, avgCoherence float64) string {
	return fmt.Sprintf(`You are an expert psychologist. Summarize this therapeutic session in 3-4 paragraphs. Focus on:
1. Main themes and concerns discussed
2. Client's emotional state and attachment patterns (if relevant)
3. Progress and insights gained
4. Overall session quality (avg coherence: %.3f)

Session transcript:
%s

Provide a professional, compassionate summary.`, avgCoherence, transcript)
}

func recommendationsPrompt(transcript string) string {
	return fmt.Sprintf(`Based on this therapeutic session, provide 4-6 specific, actionable recommendations for the client's continued growth. Use SFH and attachment theory principles.

Session transcript:
%s

Format as a numbered list. Be specific and practical.`, transcript)
}
