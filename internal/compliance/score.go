package compliance

import (
	"math"
	"strings"
	"unicode/utf8"
)

var positiveTerms = []string{
	"coherence", "field", "resonance", "attachment", "qualic",
	"state-space", "integration", "connection", "secure base",
	"therapeutic", "process", "awareness", "experience",
}

var antiPatterns = []string{
	"just forget", "get over it", "stop thinking", "suppress",
	"it's all in your head", "you're crazy", "that's not real",
}

var empathyMarkers = []string{
	"understand", "hear you", "makes sense", "valid",
	"normal", "okay to feel", "i see", "acknowledge",
	"glad you", "tough", "help", "let me explain",
	"imagine", "think about", "in your situation", "what you can",
}

const (
	baseScore        = 0.5
	lengthBonus      = 0.2
	lengthPenalty    = 0.2
	positiveWeight   = 0.05
	positiveCap      = 0.3
	antiPatternCost  = 0.15
	empathyWeight    = 0.04
	empathyCap       = 0.20
	idealLengthMin   = 200
	idealLengthMax   = 1200
	shortLengthLimit = 100
	longLengthLimit  = 2000
)

// CoherenceScore computes the heuristic quality proxy for text, clamped to [0,1].
// Each keyword counts once no matter how often it appears.
func CoherenceScore(text string) float64 {
	score := baseScore
	lower := strings.ToLower(text)

	n := utf8.RuneCountInString(text)
	if n >= idealLengthMin && n <= idealLengthMax {
		score += lengthBonus
	} else if n < shortLengthLimit || n > longLengthLimit {
		score -= lengthPenalty
	}

	score += math.Min(float64(countContained(lower, positiveTerms))*positiveWeight, positiveCap)
	score -= float64(countContained(lower, antiPatterns)) * antiPatternCost
	score += math.Min(float64(countContained(lower, empathyMarkers))*empathyWeight, empathyCap)

	// Rounding keeps sums like 0.5+0.2 from landing a hair under the pass threshold.
	score = math.Round(score*1e6) / 1e6
	return math.Max(0, math.Min(1, score))
}

func countContained(lower string, needles []string) int {
	found := 0
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			found++
		}
	}
	return found
}
