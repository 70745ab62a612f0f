package analyzer

import (
	"regexp"
	"strings"

	"github.com/benvon/smart-notes/internal/models"
)

var capitalizedWordRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// extractEntities runs every entity pattern over the raw content and collects
// matches per kind, deduplicated in first-occurrence order. Patterns with a
// capture group contribute group 1, which strips marker phrases like "todo:".
func (a *Analyzer) extractEntities(content string) models.Entities {
	entities := models.Entities{
		Dates:     []string{},
		Emails:    []string{},
		Phones:    []string{},
		People:    []string{},
		Tasks:     []string{},
		Locations: []string{},
	}

	for _, ce := range a.entities {
		seen := make(map[string]struct{})
		var values []string

		for _, re := range ce.patterns {
			for _, m := range re.FindAllStringSubmatch(content, -1) {
				value := m[0]
				if len(m) > 1 && m[1] != "" {
					value = m[1]
				}
				value = strings.TrimSpace(value)
				if value == "" {
					continue
				}
				if _, ok := seen[value]; ok {
					continue
				}
				seen[value] = struct{}{}
				values = append(values, value)
			}
		}

		if ce.kind == KindPeople {
			for _, name := range a.peopleFromRuns(content) {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				values = append(values, name)
			}
		}

		switch ce.kind {
		case KindDates:
			entities.Dates = append(entities.Dates, values...)
		case KindEmails:
			entities.Emails = append(entities.Emails, values...)
		case KindPhones:
			entities.Phones = append(entities.Phones, values...)
		case KindPeople:
			entities.People = append(entities.People, values...)
		case KindTasks:
			entities.Tasks = append(entities.Tasks, values...)
		case KindLocations:
			entities.Locations = append(entities.Locations, values...)
		}
	}

	return entities
}

// peopleFromRuns finds full names by scanning runs of adjacent capitalized
// words. A bare two-capitalized-words regex would swallow the sentence
// opener in text like "Call John Smith", so runs are trimmed from the left
// against the name stopword list before pairing.
func (a *Analyzer) peopleFromRuns(content string) []string {
	matches := capitalizedWordRe.FindAllStringIndex(content, -1)
	var names []string
	var run []string
	prevEnd := -2

	flush := func() {
		for len(run) > 0 {
			if _, stop := a.nameStops[run[0]]; stop {
				run = run[1:]
				continue
			}
			break
		}
		for len(run) >= 2 {
			names = append(names, run[0]+" "+run[1])
			run = run[2:]
		}
		run = nil
	}

	for _, loc := range matches {
		adjacent := loc[0] == prevEnd+1 && prevEnd >= 0 && content[prevEnd] == ' '
		if !adjacent {
			flush()
		}
		run = append(run, content[loc[0]:loc[1]])
		prevEnd = loc[1]
	}
	flush()

	return names
}
