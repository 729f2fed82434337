// Package triage tags client messages with topics and classifies session risk.
package triage

import (
	"regexp"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

type topicRule struct {
	tag     domain.TopicTag
	pattern *regexp.Regexp
}

var topicRules = []topicRule{
	{domain.TopicAttachmentAnxiety, regexp.MustCompile(`(?i)anxious|anxiety|attachment|partner|relationship|abandon`)},
	{domain.TopicAttachmentAvoidance, regexp.MustCompile(`(?i)distance|avoid|close|intimacy`)},
	{domain.TopicPsychedelic, regexp.MustCompile(`(?i)psychedelic|trip|mushroom|lsd|dmt|integration|journey`)},
	{domain.TopicSocial, regexp.MustCompile(`(?i)friends|social|lonely|isolated|disconnect`)},
	{domain.TopicSuicidal, regexp.MustCompile(`(?i)suicid|kill myself|end it all|want to die`)},
	{domain.TopicDissociation, regexp.MustCompile(`(?i)dissociat|unreal|detach|derealization`)},
	{domain.TopicWorkshop, regexp.MustCompile(`(?i)workshop|exercise|practice|meditat|breathing`)},
}

// DetectTopics returns the topic tags whose keywords appear in text, in a fixed order.
func DetectTopics(text string) []domain.TopicTag {
	tags := []domain.TopicTag{}
	for _, rule := range topicRules {
		if rule.pattern.MatchString(text) {
			tags = append(tags, rule.tag)
		}
	}
	return tags
}

// ClassifyRisk maps topic tags to a risk level; the most severe tag wins.
func ClassifyRisk(tags []domain.TopicTag) domain.RiskLevel {
	has := make(map[domain.TopicTag]bool, len(tags))
	for _, t := range tags {
		has[t] = true
	}
	switch {
	case has[domain.TopicSuicidal]:
		return domain.RiskEmergency
	case has[domain.TopicDissociation]:
		return domain.RiskHigh
	case has[domain.TopicAttachmentAnxiety], has[domain.TopicPsychedelic]:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// RequiresReferral reports whether risk calls for human crisis referral.
func RequiresReferral(risk domain.RiskLevel) bool {
	return risk.RequiresReferral()
}
