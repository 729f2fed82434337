package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoherenceScoreEmptyText(t *testing.T) {
	assert.InDelta(t, 0.3, CoherenceScore(""), 1e-9)
}

func TestCoherenceScoreShortEmpatheticText(t *testing.T) {
	text := "I understand how hard this must be. Let's imagine this as a gentle process of building connection and coherence between you both."
	// 140 chars: neither bonus nor penalty. coherence, connection, process: +0.15. understand, imagine: +0.08.
	assert.InDelta(t, 0.73, CoherenceScore(text), 1e-9)
}

func TestCoherenceScoreLongTextPenalised(t *testing.T) {
	assert.InDelta(t, 0.3, CoherenceScore(strings.Repeat("a", 2500)), 1e-9)
}

func TestCoherenceScoreIdealLengthBonus(t *testing.T) {
	text := strings.Repeat("word ", 50) // 250 chars
	assert.InDelta(t, 0.7, CoherenceScore(text), 1e-9)
}

func TestCoherenceScoreCapsAndClamps(t *testing.T) {
	rich := strings.Join(positiveTerms, " ") + " " + strings.Join(empathyMarkers, " ")
	for len(rich) < idealLengthMin {
		rich += " filler"
	}
	assert.Equal(t, 1.0, CoherenceScore(rich))

	anti := strings.Repeat(strings.Join(antiPatterns, " ")+" ", 40)
	assert.Equal(t, 0.0, CoherenceScore(anti))
}

func TestCoherenceScoreKeywordsCountOnce(t *testing.T) {
	once := CoherenceScore("coherence")
	many := CoherenceScore("coherence coherence coherence")
	assert.InDelta(t, once, many, 1e-9)
}

func TestCoherenceScoreAlwaysInRange(t *testing.T) {
	inputs := []string{
		"",
		"x",
		strings.Repeat("suppress ", 1000),
		strings.Repeat("get over it. ", 300),
		strings.Repeat("coherence field resonance ", 200),
		strings.Repeat("é", 5000),
		"I hear you. " + strings.Repeat("you're crazy ", 10),
	}
	for _, in := range inputs {
		score := CoherenceScore(in)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}
