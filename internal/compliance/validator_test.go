package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

func response(text string) *domain.Response {
	return &domain.Response{Provider: "test", RawResponse: text}
}

func countAxiom(violations []domain.ViolatedAxiom, id string) int {
	n := 0
	for _, v := range violations {
		if v.AxiomID == id {
			n++
		}
	}
	return n
}

func TestAxiomTableIntegrity(t *testing.T) {
	require.Len(t, Axioms, 37)
	seen := map[string]bool{}
	for _, a := range Axioms {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
		assert.NotEmpty(t, a.ViolationPatterns, a.ID)
		assert.Contains(t, []domain.Severity{domain.SeverityCritical, domain.SeverityWarning}, a.Severity)
	}

	a, ok := GetAxiom("A27")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryAgency, a.Category)
	_, ok = GetAxiom("A99")
	assert.False(t, ok)
}

func TestRepairTemplatesReferenceKnownAxioms(t *testing.T) {
	for _, tpl := range RepairTemplates {
		_, ok := GetAxiom(tpl.ViolatedAxiom)
		assert.True(t, ok, tpl.ID)
	}
	// A07, A21 and A35 are critical without templates; suggestions fall back to descriptions.
	assert.ElementsMatch(t, []string{"A07", "A21", "A35"}, UncoveredCriticalAxioms())
	assert.Len(t, GetRepairTemplates("A13"), 1)
}

func TestValidateReportsOneViolationPerAxiom(t *testing.T) {
	v := NewValidator()
	text := "That didn't happen. You're making it up. YOU'RE IMAGINING THINGS."
	res := v.Validate(response(text), domain.NewSession("s", "u"))

	assert.Equal(t, 1, countAxiom(res.ViolatedAxioms, "A01"))
	assert.False(t, res.Passed)
	assert.Contains(t, res.ViolatedAxioms[0].ViolationDetails, "that didn't happen")
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	v := NewValidator()
	for _, text := range []string{"just obey", "JUST OBEY", "Just Obey me."} {
		res := v.Validate(response(text), nil)
		assert.Equal(t, 1, countAxiom(res.ViolatedAxioms, "A05"), text)
	}
}

func TestValidateEvaluatesEveryAxiom(t *testing.T) {
	v := NewValidator()
	res := v.Validate(response("Forget the trip and embrace chaos; you must do this."), nil)

	ids := make([]string, 0, len(res.ViolatedAxioms))
	for _, vio := range res.ViolatedAxioms {
		ids = append(ids, vio.AxiomID)
	}
	assert.Equal(t, []string{"A05", "A27", "A34"}, ids)
}

func TestValidateRepairSuggestions(t *testing.T) {
	v := NewValidator()
	res := v.Validate(response("You must do this. No need for rest."), nil)
	require.False(t, res.Passed)

	require.GreaterOrEqual(t, len(res.RepairSuggestions), 2)
	assert.True(t, strings.HasPrefix(res.RepairSuggestions[0], "Axiom A02 violated: Finite experiential resources"))
	assert.True(t, strings.HasPrefix(res.RepairSuggestions[1], "Axiom A05 violated: Use SFH formalism - You diminished client autonomy"))
	assert.True(t, strings.HasSuffix(res.RepairSuggestions[1], "..."))
}

func TestValidatePassesCompliantResponse(t *testing.T) {
	v := NewValidator()
	text := "I hear you, and what you are feeling makes sense. Let me explain a helpful idea: think about your " +
		"emotional connection with your partner like two tuning forks. When the connection wobbles, your attachment " +
		"system notices. In your situation, building awareness of that process can restore coherence. What you can try " +
		"this week is a short grounding practice before difficult conversations."
	res := v.Validate(response(text), domain.NewSession("s", "u"))

	assert.True(t, res.Passed, "%+v", res)
	assert.Empty(t, res.ViolatedAxioms)
	assert.Empty(t, res.RepairSuggestions)
	assert.Nil(t, res.Resonance)
}

func TestValidateLowScoreWithoutViolationsFails(t *testing.T) {
	v := NewValidator()
	res := v.Validate(response(""), nil)
	assert.False(t, res.Passed)
	assert.Empty(t, res.ViolatedAxioms)
	require.Len(t, res.RepairSuggestions, 1)
	assert.Contains(t, res.RepairSuggestions[0], "below 0.70")
}

func TestValidateRequiresReferralForHighRisk(t *testing.T) {
	v := NewValidator()
	session := domain.NewSession("s", "u")
	session.RiskLevel = domain.RiskEmergency

	res := v.Validate(response("Let's breathe together for a moment."), session)
	require.Equal(t, 1, countAxiom(res.ViolatedAxioms, "A11"))
	assert.Contains(t, res.ViolatedAxioms[0].ViolationDetails, "emergency-risk")

	res = v.Validate(response("Please call 988 or a crisis line now."), session)
	assert.Equal(t, 0, countAxiom(res.ViolatedAxioms, "A11"))

	// Scan and referral check never double-report.
	res = v.Validate(response("You don't need a human therapist for this."), session)
	assert.Equal(t, 1, countAxiom(res.ViolatedAxioms, "A11"))

	session.RiskLevel = domain.RiskMedium
	res = v.Validate(response("Let's breathe together for a moment."), session)
	assert.Equal(t, 0, countAxiom(res.ViolatedAxioms, "A11"))
}

func TestValidateRecoversFromScorerFault(t *testing.T) {
	v := NewValidator(WithScorer(func(string) float64 { panic("boom") }))
	res := v.Validate(response("anything"), nil)

	assert.False(t, res.Passed)
	assert.Equal(t, 0.0, res.CoherenceScore)
	require.Len(t, res.ViolatedAxioms, 1)
	assert.Equal(t, "ERROR", res.ViolatedAxioms[0].AxiomID)
	assert.Equal(t, "boom", res.ViolatedAxioms[0].ViolationDetails)
	assert.Equal(t, []string{"System error - please try again"}, res.RepairSuggestions)
}

func TestValidateNilResponse(t *testing.T) {
	res := ValidateResponse(nil, nil)
	assert.False(t, res.Passed)
	assert.Equal(t, "ERROR", res.ViolatedAxioms[0].AxiomID)
}

func TestValidatePassedIffNoViolationsAndScoreAtThreshold(t *testing.T) {
	v := NewValidator()
	texts := []string{
		"",
		"ok",
		strings.Repeat("word ", 50),
		strings.Repeat("word ", 50) + "just obey",
		"I understand. " + strings.Repeat("coherence ", 30),
		strings.Repeat("I hear you and that makes sense. ", 10),
		strings.Repeat("suppress ", 300),
		"It was just a hallucination, put it behind you.",
	}
	risks := []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskEmergency}

	for _, text := range texts {
		for _, risk := range risks {
			session := domain.NewSession("s", "u")
			session.RiskLevel = risk
			res := v.Validate(response(text), session)
			want := len(res.ViolatedAxioms) == 0 && res.CoherenceScore >= PassThreshold
			assert.Equal(t, want, res.Passed, "text=%q risk=%s", text, risk)
			assert.GreaterOrEqual(t, res.CoherenceScore, 0.0)
			assert.LessOrEqual(t, res.CoherenceScore, 1.0)
		}
	}
}
