package analyzer

import (
	"fmt"
	"strings"

	"github.com/benvon/smart-notes/internal/models"
)

const (
	longNoteWordCount   = 200
	maxSuggestedActions = 4
)

// buildInsights produces human-readable observations in a fixed order:
// priority first, then category-specific lines, then general ones.
func (a *Analyzer) buildInsights(content string, category models.Category, priority models.Priority, entities models.Entities) []string {
	insights := []string{}

	switch priority {
	case models.PriorityHigh:
		insights = append(insights, "High priority note - act on it soon")
	case models.PriorityLow:
		insights = append(insights, "Low urgency - can be scheduled for later")
	}

	switch category {
	case models.CategoryMeeting:
		if len(entities.People) > 0 {
			insights = append(insights, fmt.Sprintf("Meeting involves %d people: %s", len(entities.People), strings.Join(entities.People, ", ")))
		}
		if len(entities.Dates) > 0 {
			insights = append(insights, fmt.Sprintf("Scheduled around: %s", entities.Dates[0]))
		}
	case models.CategoryTask:
		if len(entities.Tasks) > 0 {
			insights = append(insights, fmt.Sprintf("Contains %d action items", len(entities.Tasks)))
		}
		if len(entities.Dates) > 0 {
			insights = append(insights, fmt.Sprintf("Deadline mentioned: %s", entities.Dates[0]))
		}
	case models.CategoryContact:
		if len(entities.People) > 0 {
			insights = append(insights, fmt.Sprintf("New contact: %s", entities.People[0]))
		}
		if len(entities.Emails) > 0 {
			insights = append(insights, fmt.Sprintf("Email on file: %s", entities.Emails[0]))
		}
		if len(entities.Phones) > 0 {
			insights = append(insights, fmt.Sprintf("Phone on file: %s", entities.Phones[0]))
		}
	case models.CategoryProject:
		if len(entities.People) > 0 {
			insights = append(insights, fmt.Sprintf("Team mentioned: %s", strings.Join(entities.People, ", ")))
		}
		if len(entities.Dates) > 0 {
			insights = append(insights, fmt.Sprintf("Timeline includes %d dates", len(entities.Dates)))
		}
	case models.CategoryIdea:
		if len(entities.Tasks) > 0 {
			insights = append(insights, fmt.Sprintf("Idea comes with %d concrete next steps", len(entities.Tasks)))
		}
	case models.CategoryFinance:
		if len(entities.Dates) > 0 {
			insights = append(insights, fmt.Sprintf("Payment dates to watch: %s", strings.Join(entities.Dates, ", ")))
		}
	}

	if len(strings.Fields(content)) > longNoteWordCount {
		insights = append(insights, "Long note - consider summarizing the key points")
	}
	if len(entities.Dates) > 2 {
		insights = append(insights, "Multiple dates mentioned - check for scheduling conflicts")
	}

	return insights
}

// suggestActions returns up to four display labels for the UI, driven by
// category and entity presence plus universal content patterns.
func (a *Analyzer) suggestActions(content string, category models.Category, entities models.Entities) []string {
	labels := []string{}

	switch category {
	case models.CategoryMeeting:
		if len(entities.Dates) > 0 {
			labels = append(labels, "Add to calendar")
		}
		if len(entities.People) > 0 {
			labels = append(labels, "Send meeting invite")
		}
		if len(entities.Tasks) > 0 {
			labels = append(labels, "Create follow-up tasks")
		}
	case models.CategoryTask:
		labels = append(labels, "Add to task list")
		if len(entities.Dates) > 0 {
			labels = append(labels, "Set deadline reminder")
		}
	case models.CategoryContact:
		labels = append(labels, "Save to contacts")
		if len(entities.Emails) > 0 {
			labels = append(labels, "Send an email")
		}
	case models.CategoryProject:
		labels = append(labels, "Create project")
		if len(entities.Dates) > 0 {
			labels = append(labels, "Build project timeline")
		}
	case models.CategoryIdea:
		labels = append(labels, "Develop into project")
	case models.CategoryFinance:
		labels = append(labels, "Log expense")
	}

	if a.followUp.MatchString(content) {
		labels = append(labels, "Schedule follow-up")
	}
	if a.research.MatchString(content) {
		labels = append(labels, "Start research")
	}

	if len(labels) > maxSuggestedActions {
		labels = labels[:maxSuggestedActions]
	}
	return labels
}
