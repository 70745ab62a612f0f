package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/benvon/smart-notes/internal/models"
)

func TestAnalyze_UrgentContactNote(t *testing.T) {
	t.Parallel()

	a := New()
	result := a.Analyze("URGENT!! Call John Smith at 555-123-4567 tomorrow about the budget")

	if result.Category != models.CategoryContact {
		t.Errorf("Expected category Contact, got %s", result.Category)
	}
	if result.Priority != models.PriorityHigh {
		t.Errorf("Expected high priority, got %s", result.Priority)
	}
	if !reflect.DeepEqual(result.Entities.Phones, []string{"555-123-4567"}) {
		t.Errorf("Expected phone 555-123-4567, got %v", result.Entities.Phones)
	}
	if !reflect.DeepEqual(result.Entities.People, []string{"John Smith"}) {
		t.Errorf("Expected person John Smith, got %v", result.Entities.People)
	}
	if !reflect.DeepEqual(result.Entities.Dates, []string{"tomorrow"}) {
		t.Errorf("Expected date tomorrow, got %v", result.Entities.Dates)
	}
	if result.Confidence <= 0.3 || result.Confidence > 1 {
		t.Errorf("Expected confidence in (0.3, 1], got %f", result.Confidence)
	}
}

func TestAnalyze_EmptyContent(t *testing.T) {
	t.Parallel()

	a := New()
	result := a.Analyze("")

	if result.Category != models.CategoryGeneral {
		t.Errorf("Expected category General, got %s", result.Category)
	}
	if result.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %f", result.Confidence)
	}
	if !reflect.DeepEqual(result.Tags, []string{"general"}) {
		t.Errorf("Expected tags [general], got %v", result.Tags)
	}
	if len(result.Insights) != 0 {
		t.Errorf("Expected no insights, got %v", result.Insights)
	}
	if len(result.SuggestedActions) != 0 {
		t.Errorf("Expected no suggested actions, got %v", result.SuggestedActions)
	}
	for kind, values := range map[string][]string{
		"dates":     result.Entities.Dates,
		"emails":    result.Entities.Emails,
		"phones":    result.Entities.Phones,
		"people":    result.Entities.People,
		"tasks":     result.Entities.Tasks,
		"locations": result.Entities.Locations,
	} {
		if len(values) != 0 {
			t.Errorf("Expected no %s, got %v", kind, values)
		}
	}
}

func TestAnalyze_MeetingNote(t *testing.T) {
	t.Parallel()

	a := New()
	result := a.Analyze("Meeting with Sarah at 3:00pm tomorrow in Room 204")

	if result.Category != models.CategoryMeeting {
		t.Errorf("Expected category Meeting, got %s", result.Category)
	}
	if !reflect.DeepEqual(result.Entities.Dates, []string{"tomorrow"}) {
		t.Errorf("Expected date tomorrow, got %v", result.Entities.Dates)
	}
	found := false
	for _, loc := range result.Entities.Locations {
		if strings.Contains(loc, "204") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a location containing 204, got %v", result.Entities.Locations)
	}
}

func TestAnalyze_Categories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		category models.Category
	}{
		{
			name:     "task note",
			content:  "TODO: submit the report. Need to finish the deadline review and complete the checklist.",
			category: models.CategoryTask,
		},
		{
			name:     "idea note",
			content:  "Idea: a brainstorm session about the new concept. What if we built a prototype?",
			category: models.CategoryIdea,
		},
		{
			name:     "contact note",
			content:  "Contact Jane Doe, email jane.doe@example.com or reach her at (415) 555-0100",
			category: models.CategoryContact,
		},
		{
			name:     "project note",
			content:  "Project plan for the website launch: sprint 3 milestone review and roadmap for the next release",
			category: models.CategoryProject,
		},
		{
			name:     "finance note",
			content:  "Budget review: the invoice for $1,200.00 plus a payment of $300 and travel expense costs",
			category: models.CategoryFinance,
		},
		{
			name:     "low signal note",
			content:  "random words about nothing in particular",
			category: models.CategoryGeneral,
		},
	}

	a := New()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := a.Analyze(tt.content)
			if result.Category != tt.category {
				t.Errorf("Expected category %s, got %s (confidence %f)", tt.category, result.Category, result.Confidence)
			}
			if result.Category == models.CategoryGeneral && result.Confidence != 0.5 {
				t.Errorf("General category must carry the 0.5 sentinel, got %f", result.Confidence)
			}
		})
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	content := "Meeting with Dr. Smith on Friday about the project budget of $5,000. TODO: prepare agenda!!"
	a := New()

	first := a.Analyze(content)
	second := a.Analyze(content)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyze_TagBoundAndUniqueness(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("urgent meeting agenda budget project sprint research weekly deadline review planning ", 5) +
		"follow up and check in daily, investigate the roadmap asap"
	a := New()
	result := a.Analyze(content)

	if len(result.Tags) > 8 {
		t.Errorf("Expected at most 8 tags, got %d: %v", len(result.Tags), result.Tags)
	}
	seen := make(map[string]bool)
	for _, tag := range result.Tags {
		if seen[tag] {
			t.Errorf("Duplicate tag %q in %v", tag, result.Tags)
		}
		seen[tag] = true
	}
}

func TestAnalyze_EntityDedup(t *testing.T) {
	t.Parallel()

	content := "Email bob@example.com and bob@example.com again; also alice@example.com. " +
		"Friday or Friday works, maybe Monday."
	a := New()
	result := a.Analyze(content)

	if !reflect.DeepEqual(result.Entities.Emails, []string{"bob@example.com", "alice@example.com"}) {
		t.Errorf("Expected deduplicated emails in first-occurrence order, got %v", result.Entities.Emails)
	}
	if !reflect.DeepEqual(result.Entities.Dates, []string{"Friday", "Monday"}) {
		t.Errorf("Expected deduplicated dates in first-occurrence order, got %v", result.Entities.Dates)
	}
}

func TestAnalyze_TaskEntitiesStripMarkers(t *testing.T) {
	t.Parallel()

	a := New()
	result := a.Analyze("todo: buy groceries\nWe must review the quarterly numbers. action: send minutes")

	want := []string{"buy groceries", "send minutes", "review the quarterly numbers"}
	if !reflect.DeepEqual(result.Entities.Tasks, want) {
		t.Errorf("Expected tasks %v, got %v", want, result.Entities.Tasks)
	}
}

func TestDeterminePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		priority models.Priority
	}{
		{
			name:     "urgent phrasing",
			content:  "This is urgent, handle it asap today",
			priority: models.PriorityHigh,
		},
		{
			name:     "shouting and exclamation",
			content:  "FIX THE BUILD!! it keeps failing",
			priority: models.PriorityHigh,
		},
		{
			name:     "leisure phrasing",
			content:  "someday read that book, no rush at all",
			priority: models.PriorityLow,
		},
		{
			name:     "neutral text",
			content:  "notes from the garden, tomatoes doing well",
			priority: models.PriorityMedium,
		},
		{
			name:     "tie falls back to medium",
			content:  "",
			priority: models.PriorityMedium,
		},
	}

	a := New()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := a.determinePriority(tt.content); got != tt.priority {
				t.Errorf("Expected priority %s, got %s", tt.priority, got)
			}
		})
	}
}

func TestAnalyze_InsightsOrder(t *testing.T) {
	t.Parallel()

	a := New()
	result := a.Analyze("URGENT meeting with John Smith and Jane Doe tomorrow at 9:00!! agenda attached")

	if result.Category != models.CategoryMeeting {
		t.Fatalf("Expected category Meeting, got %s", result.Category)
	}
	if result.Priority != models.PriorityHigh {
		t.Fatalf("Expected high priority, got %s", result.Priority)
	}
	if len(result.Insights) < 2 {
		t.Fatalf("Expected priority and meeting insights, got %v", result.Insights)
	}
	if !strings.Contains(result.Insights[0], "High priority") {
		t.Errorf("Expected the priority insight first, got %q", result.Insights[0])
	}
	if !strings.Contains(result.Insights[1], "Meeting involves 2 people") {
		t.Errorf("Expected the meeting insight second, got %q", result.Insights[1])
	}
}

func TestAnalyze_SuggestedActionBound(t *testing.T) {
	t.Parallel()

	a := New()
	result := a.Analyze("Meeting with John Smith tomorrow. todo: follow up with the team and research the vendor options")

	if len(result.SuggestedActions) > 4 {
		t.Errorf("Expected at most 4 suggested actions, got %v", result.SuggestedActions)
	}
}
