package compliance

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/domain"
	"github.com/xiaot623/gogo/sfh/internal/metrics"
	"github.com/xiaot623/gogo/sfh/internal/observability"
)

// PassThreshold is the minimum coherence score for a response to pass.
const PassThreshold = 0.70

const (
	suggestionPrefixLen = 100
	referralAxiomID     = "A11"
)

var referralPhrases = []string{
	"professional", "therapist", "counselor", "988", "crisis", "hotline", "emergency",
}

// Scorer computes a coherence score for response text.
type Scorer func(text string) float64

// Validator checks responses against an axiom table.
type Validator struct {
	axioms    []domain.Axiom
	templates []domain.RepairTemplate
	scorer    Scorer
	logger    *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) { v.logger = observability.OrNop(logger) }
}

// WithScorer replaces the coherence heuristic.
func WithScorer(s Scorer) Option {
	return func(v *Validator) { v.scorer = s }
}

// WithAxioms replaces the axiom table.
func WithAxioms(axioms []domain.Axiom) Option {
	return func(v *Validator) { v.axioms = axioms }
}

// WithRepairTemplates replaces the repair template table.
func WithRepairTemplates(templates []domain.RepairTemplate) Option {
	return func(v *Validator) { v.templates = templates }
}

// NewValidator returns a validator over the built-in tables.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		axioms:    Axioms,
		templates: RepairTemplates,
		scorer:    CoherenceScore,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// ValidateResponse validates resp with the built-in tables.
func ValidateResponse(resp *domain.Response, session *domain.Session) domain.ValidationResult {
	return defaultValidator.Validate(resp, session)
}

// Validate scans resp for axiom violations, scores it and decides pass/fail.
// It never fails: internal faults produce a failing result with a synthetic violation.
func (v *Validator) Validate(resp *domain.Response, session *domain.Session) (result domain.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation fault", zap.Any("panic", r))
			result = errorResult(fmt.Errorf("%v", r))
		}
	}()

	if resp == nil {
		return errorResult(fmt.Errorf("nil response"))
	}

	violations := v.checkAxioms(resp.RawResponse)
	violations = v.checkReferral(resp.RawResponse, session, violations)
	score := v.scorer(resp.RawResponse)
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	passed := len(violations) == 0 && score >= PassThreshold
	result = domain.ValidationResult{
		Passed:            passed,
		CoherenceScore:    score,
		ViolatedAxioms:    violations,
		RepairSuggestions: []string{},
	}
	if !passed {
		result.RepairSuggestions = v.repairSuggestions(violations, score)
	}

	outcome := "fail"
	if passed {
		outcome = "pass"
	}
	metrics.Validations.WithLabelValues(outcome).Inc()
	metrics.CoherenceScore.Observe(score)
	v.logger.Debug("validated response",
		zap.String("provider", resp.Provider),
		zap.Bool("passed", passed),
		zap.Float64("score", score),
		zap.Int("violations", len(violations)))

	return result
}

// checkAxioms reports at most one violation per axiom: the first matching phrase.
func (v *Validator) checkAxioms(text string) []domain.ViolatedAxiom {
	violations := []domain.ViolatedAxiom{}
	lower := strings.ToLower(text)
	for _, axiom := range v.axioms {
		for _, pattern := range axiom.ViolationPatterns {
			if strings.Contains(lower, strings.ToLower(pattern)) {
				violations = append(violations, domain.ViolatedAxiom{
					AxiomID:          axiom.ID,
					Description:      axiom.Description,
					Severity:         axiom.Severity,
					ViolationDetails: fmt.Sprintf("Response contains prohibited phrase: %q", pattern),
				})
				break
			}
		}
	}
	return violations
}

// checkReferral adds the referral axiom when a high-risk session gets no referral language.
func (v *Validator) checkReferral(text string, session *domain.Session, violations []domain.ViolatedAxiom) []domain.ViolatedAxiom {
	if session == nil || !session.RiskLevel.RequiresReferral() {
		return violations
	}
	for _, vio := range violations {
		if vio.AxiomID == referralAxiomID {
			return violations
		}
	}
	lower := strings.ToLower(text)
	for _, phrase := range referralPhrases {
		if strings.Contains(lower, phrase) {
			return violations
		}
	}

	axiom, ok := v.axiom(referralAxiomID)
	if !ok {
		return violations
	}
	return append(violations, domain.ViolatedAxiom{
		AxiomID:          axiom.ID,
		Description:      axiom.Description,
		Severity:         axiom.Severity,
		ViolationDetails: fmt.Sprintf("%s-risk session without human referral", session.RiskLevel),
	})
}

func (v *Validator) axiom(id string) (domain.Axiom, bool) {
	for _, a := range v.axioms {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Axiom{}, false
}

func (v *Validator) template(axiomID string) (domain.RepairTemplate, bool) {
	for _, t := range v.templates {
		if t.ViolatedAxiom == axiomID {
			return t, true
		}
	}
	return domain.RepairTemplate{}, false
}

func (v *Validator) repairSuggestions(violations []domain.ViolatedAxiom, score float64) []string {
	suggestions := make([]string, 0, len(violations)+1)
	for _, vio := range violations {
		if t, ok := v.template(vio.AxiomID); ok {
			suggestions = append(suggestions, fmt.Sprintf("Axiom %s violated: Use SFH formalism - %s...",
				vio.AxiomID, truncateRunes(t.TemplatePrompt, suggestionPrefixLen)))
			continue
		}
		suggestions = append(suggestions, fmt.Sprintf("Axiom %s violated: %s", vio.AxiomID, vio.Description))
	}
	// Without this, a low score with no violations would leave the repair
	// prompt with nothing to correct.
	if score < PassThreshold {
		suggestions = append(suggestions, fmt.Sprintf(
			"Coherence %.2f is below %.2f: explain concepts in plain language and connect them to the client's situation",
			score, PassThreshold))
	}
	return suggestions
}

func errorResult(err error) domain.ValidationResult {
	metrics.Validations.WithLabelValues("error").Inc()
	return domain.ValidationResult{
		Passed:         false,
		CoherenceScore: 0,
		ViolatedAxioms: []domain.ViolatedAxiom{{
			AxiomID:          "ERROR",
			Description:      "Validation system error",
			Severity:         domain.SeverityCritical,
			ViolationDetails: err.Error(),
		}},
		RepairSuggestions: []string{"System error - please try again"},
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
