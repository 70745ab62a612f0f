package analyzer

import (
	"sort"
	"strings"

	"github.com/benvon/smart-notes/internal/models"
)

const (
	maxTags          = 8
	maxFrequencyTags = 5
)

// generateTags builds the tag list: lowercased category first, then the five
// most frequent non-stopword tokens, then contextual tags. Duplicates are
// collapsed and the list is capped at eight, preserving insertion order.
func (a *Analyzer) generateTags(content string, category models.Category) []string {
	tags := []string{strings.ToLower(string(category))}

	tags = append(tags, a.frequentWords(content)...)

	for _, tr := range a.tagRules {
		if tr.pattern.MatchString(content) {
			tags = append(tags, tr.tag)
		}
	}

	seen := make(map[string]struct{}, len(tags))
	unique := tags[:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}

	if len(unique) > maxTags {
		unique = unique[:maxTags]
	}
	return unique
}

// frequentWords returns the top five word tokens by frequency, ties broken
// by first-encountered order.
func (a *Analyzer) frequentWords(content string) []string {
	counts := make(map[string]int)
	var order []string

	for _, word := range a.wordToken.FindAllString(strings.ToLower(content), -1) {
		if _, stop := a.stopwords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxFrequencyTags {
		order = order[:maxFrequencyTags]
	}
	return order
}
