package analyzer

import (
	"regexp"

	"github.com/benvon/smart-notes/internal/models"
)

// determinePriority scores the high/medium/low phrase lists plus contextual
// signals. High wins only when its score is strictly greatest and at least 2;
// low likewise; everything else, ties included, falls back to medium.
func (a *Analyzer) determinePriority(content string) models.Priority {
	highScore := 2 * countPhraseHits(a.high, content)
	mediumScore := countPhraseHits(a.medium, content)
	lowScore := countPhraseHits(a.low, content)

	if a.ctxHigh.MatchString(content) {
		highScore += 3
	}
	if a.ctxMedium.MatchString(content) {
		mediumScore += 2
	}
	if a.ctxLow.MatchString(content) {
		lowScore += 2
	}

	highScore += 2 * countMatches(a.exclaims, content)
	mediumScore += countMatches(a.questions, content)
	highScore += countMatches(a.capsWord, content)

	switch {
	case highScore > mediumScore && highScore > lowScore && highScore >= 2:
		return models.PriorityHigh
	case lowScore > highScore && lowScore > mediumScore && lowScore >= 2:
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

func countPhraseHits(phrases []*regexp.Regexp, content string) int {
	total := 0
	for _, re := range phrases {
		total += countMatches(re, content)
	}
	return total
}
