package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

func TestDetectTopics(t *testing.T) {
	tests := []struct {
		text string
		want []domain.TopicTag
	}{
		{"I feel so ANXIOUS when my partner is away", []domain.TopicTag{domain.TopicAttachmentAnxiety}},
		{"I keep my distance from people", []domain.TopicTag{domain.TopicAttachmentAvoidance}},
		{"Integration after my mushroom trip", []domain.TopicTag{domain.TopicPsychedelic}},
		{"I'm lonely and my friends are gone", []domain.TopicTag{domain.TopicSocial}},
		{"sometimes I want to die", []domain.TopicTag{domain.TopicSuicidal}},
		{"everything feels unreal", []domain.TopicTag{domain.TopicDissociation}},
		{"can we do a breathing exercise", []domain.TopicTag{domain.TopicWorkshop}},
		{"the weather is nice", []domain.TopicTag{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTopics(tt.text))
		})
	}
}

func TestDetectTopicsMultiple(t *testing.T) {
	tags := DetectTopics("my relationship makes me feel isolated and detached")
	assert.Equal(t, []domain.TopicTag{
		domain.TopicAttachmentAnxiety,
		domain.TopicSocial,
		domain.TopicDissociation,
	}, tags)
}

var riskCases = []struct {
	name string
	tags []domain.TopicTag
	want domain.RiskLevel
}{
	{"none", nil, domain.RiskLow},
	{"social", []domain.TopicTag{domain.TopicSocial}, domain.RiskLow},
	{"anxiety", []domain.TopicTag{domain.TopicAttachmentAnxiety}, domain.RiskMedium},
	{"psychedelic", []domain.TopicTag{domain.TopicSocial, domain.TopicPsychedelic}, domain.RiskMedium},
	{"dissociation", []domain.TopicTag{domain.TopicPsychedelic, domain.TopicDissociation}, domain.RiskHigh},
	{"suicidal wins", []domain.TopicTag{domain.TopicDissociation, domain.TopicSuicidal}, domain.RiskEmergency},
}

func TestClassifyRisk(t *testing.T) {
	for _, tt := range riskCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRisk(tt.tags))
		})
	}
}

func TestEngineMatchesBuiltInTable(t *testing.T) {
	engine, err := NewEngine(context.Background(), "", nil)
	require.NoError(t, err)

	for _, tt := range riskCases {
		t.Run(tt.name, func(t *testing.T) {
			a := engine.Assess(context.Background(), tt.tags)
			assert.Equal(t, tt.want, a.Risk)
			assert.Equal(t, RequiresReferral(tt.want), a.RequiresReferral)
		})
	}
}

func TestEngineRejectsInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package broken\n\nthis is not rego", nil)
	assert.Error(t, err)
}

func TestEngineFallsBackOnBadDecision(t *testing.T) {
	policy := `
package sfh.triage

decision = {"risk": "catastrophic", "requires_referral": true}
`
	engine, err := NewEngine(context.Background(), policy, nil)
	require.NoError(t, err)

	a := engine.Assess(context.Background(), []domain.TopicTag{domain.TopicDissociation})
	assert.Equal(t, domain.RiskHigh, a.Risk)
	assert.True(t, a.RequiresReferral)
}

func TestRequiresReferral(t *testing.T) {
	assert.False(t, RequiresReferral(domain.RiskLow))
	assert.False(t, RequiresReferral(domain.RiskMedium))
	assert.True(t, RequiresReferral(domain.RiskHigh))
	assert.True(t, RequiresReferral(domain.RiskEmergency))
}
