package triage

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/observability"
)

// Assessment is the policy decision for a set of topic tags.
type Assessment struct {
	Risk             domain.RiskLevel `json:"risk"`
	RequiresReferral bool             `json:"requires_referral"`
}

// Engine evaluates the risk policy with OPA.
type Engine struct {
	query  rego.PreparedEvalQuery
	logger *zap.Logger
}

// NewEngine prepares the risk policy. An empty policy uses DefaultPolicy.
func NewEngine(ctx context.Context, policyContent string, logger *zap.Logger) (*Engine, error) {
	if policyContent == "" {
		policyContent = DefaultPolicy
	}
	r := rego.New(
		rego.Query("data.sfh.triage.decision"),
		rego.Module("triage.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query, logger: observability.OrNop(logger)}, nil
}

// Assess classifies tags. Policy errors fall back to ClassifyRisk.
func (e *Engine) Assess(ctx context.Context, tags []domain.TopicTag) Assessment {
	a, err := e.evaluate(ctx, tags)
	if err != nil {
		risk := ClassifyRisk(tags)
		e.logger.Warn("risk policy evaluation failed, using built-in table",
			zap.Error(err), zap.String("risk", string(risk)))
		return Assessment{Risk: risk, RequiresReferral: risk.RequiresReferral()}
	}
	return a
}

func (e *Engine) evaluate(ctx context.Context, tags []domain.TopicTag) (Assessment, error) {
	in := make([]string, len(tags))
	for i, t := range tags {
		in[i] = string(t)
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{"tags": in}))
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Assessment{}, fmt.Errorf("policy returned no decision")
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Assessment{}, fmt.Errorf("unexpected decision type %T", results[0].Expressions[0].Value)
	}
	risk, ok := obj["risk"].(string)
	if !ok {
		return Assessment{}, fmt.Errorf("decision is missing risk")
	}
	referral, _ := obj["requires_referral"].(bool)

	switch level := domain.RiskLevel(risk); level {
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskEmergency:
		return Assessment{Risk: level, RequiresReferral: referral}, nil
	default:
		return Assessment{}, fmt.Errorf("unknown risk level %q", risk)
	}
}

// DefaultPolicy is the built-in risk table.
const DefaultPolicy = `
package sfh.triage

default risk = "low"

medium_tags = {"attachment_anxiety", "psychedelic"}

risk = "emergency" {
	input.tags[_] == "suicidal"
} else = "high" {
	input.tags[_] == "dissociation"
} else = "medium" {
	medium_tags[input.tags[_]]
}

default requires_referral = false

requires_referral {
	risk == "high"
}

requires_referral {
	risk == "emergency"
}

decision = {"risk": risk, "requires_referral": requires_referral}
`
