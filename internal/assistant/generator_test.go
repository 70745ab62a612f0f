package assistant

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/benvon/smart-notes/internal/analyzer"
	"github.com/benvon/smart-notes/internal/models"
)

// Wednesday, March 11, 2026
var testClock = func() time.Time {
	return time.Date(2026, time.March, 11, 12, 0, 0, 0, time.Local)
}

func TestGenerate_TaskAction(t *testing.T) {
	t.Parallel()

	content := "Need to finish the report by Friday"
	result := analyzer.New().Analyze(content)
	if result.Category != models.CategoryTask {
		t.Fatalf("Expected category Task, got %s", result.Category)
	}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-1")

	if len(actions) != 1 {
		t.Fatalf("Expected 1 action, got %d", len(actions))
	}
	action := actions[0]
	if action.Type != models.ActionTypeCreateTask {
		t.Errorf("Expected create-task, got %s", action.Type)
	}
	if action.SourceNoteID != "note-1" {
		t.Errorf("Expected sourceNoteId note-1, got %s", action.SourceNoteID)
	}
	if !strings.Contains(action.Title, "finish the report by Friday") {
		t.Errorf("Expected title derived from the clause, got %q", action.Title)
	}
	if action.Data.Task == nil {
		t.Fatal("Expected a task draft")
	}
	wantDue := time.Date(2026, time.March, 13, 0, 0, 0, 0, time.Local)
	if action.Data.Task.DueDate == nil || !action.Data.Task.DueDate.Equal(wantDue) {
		t.Errorf("Expected due date on the upcoming Friday (%v), got %v", wantDue, action.Data.Task.DueDate)
	}
}

func TestGenerate_EventAction(t *testing.T) {
	t.Parallel()

	content := "Meeting with Sarah at 3:00pm tomorrow in Room 204"
	result := analyzer.New().Analyze(content)
	if result.Category != models.CategoryMeeting {
		t.Fatalf("Expected category Meeting, got %s", result.Category)
	}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-2")

	var event *models.AssistantAction
	for _, a := range actions {
		if a.Type == models.ActionTypeCreateEvent {
			if event != nil {
				t.Fatal("Expected a single event action")
			}
			event = a
		}
	}
	if event == nil {
		t.Fatal("Expected an event action")
	}

	draft := event.Data.Event
	if draft == nil {
		t.Fatal("Expected an event draft")
	}
	if !strings.Contains(draft.Location, "204") {
		t.Errorf("Expected location containing 204, got %q", draft.Location)
	}
	found := false
	for _, a := range draft.Attendees {
		if strings.Contains(a, "Sarah") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected Sarah among attendees, got %v", draft.Attendees)
	}
	wantStart := time.Date(2026, time.March, 12, 15, 0, 0, 0, time.Local)
	if draft.StartDate == nil || !draft.StartDate.Equal(wantStart) {
		t.Errorf("Expected start at tomorrow 15:00 (%v), got %v", wantStart, draft.StartDate)
	}
}

func TestGenerate_ContactAction(t *testing.T) {
	t.Parallel()

	content := "Contact Jane Doe, email jane.doe@example.com or reach her at (415) 555-0100"
	result := analyzer.New().Analyze(content)
	if result.Category != models.CategoryContact {
		t.Fatalf("Expected category Contact, got %s", result.Category)
	}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-3")

	if len(actions) != 1 {
		t.Fatalf("Expected 1 action, got %d: %v", len(actions), actions)
	}
	draft := actions[0].Data.Contact
	if draft == nil {
		t.Fatal("Expected a contact draft")
	}
	if draft.Name != "Jane Doe" {
		t.Errorf("Expected name Jane Doe, got %q", draft.Name)
	}
	if draft.Email != "jane.doe@example.com" {
		t.Errorf("Expected email jane.doe@example.com, got %q", draft.Email)
	}
	if draft.Phone != "(415) 555-0100" {
		t.Errorf("Expected phone (415) 555-0100, got %q", draft.Phone)
	}
}

func TestGenerate_ProjectAction(t *testing.T) {
	t.Parallel()

	content := "Website redesign project plan: sprint milestones from 03/16/2026 to 04/10/2026, launch budget $12,500"
	result := analyzer.New().Analyze(content)
	if result.Category != models.CategoryProject {
		t.Fatalf("Expected category Project, got %s", result.Category)
	}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-4")

	var project *models.AssistantAction
	for _, a := range actions {
		if a.Type == models.ActionTypeCreateProject {
			project = a
		}
	}
	if project == nil {
		t.Fatalf("Expected a project action, got %v", actions)
	}

	draft := project.Data.Project
	if draft == nil {
		t.Fatal("Expected a project draft")
	}
	if !strings.Contains(strings.ToLower(draft.Name), "project") {
		t.Errorf("Expected a project name derived from the text, got %q", draft.Name)
	}
	if draft.StartDate == nil || draft.StartDate.Month() != time.March || draft.StartDate.Day() != 16 {
		t.Errorf("Expected start 03/16, got %v", draft.StartDate)
	}
	if draft.EndDate == nil || draft.EndDate.Month() != time.April || draft.EndDate.Day() != 10 {
		t.Errorf("Expected end 04/10, got %v", draft.EndDate)
	}
	if draft.Budget == nil || *draft.Budget != 12500 {
		t.Errorf("Expected budget 12500, got %v", draft.Budget)
	}
}

func TestGenerate_IdsDeterministicPerNote(t *testing.T) {
	t.Parallel()

	content := "todo: water the plants\ntodo: empty the dishwasher"
	result := analyzer.New().Analyze(content)

	g := NewGeneratorWithClock(testClock)
	first := g.Generate(result, content, "note-a")
	second := g.Generate(result, content, "note-b")

	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("Expected matching non-empty action lists, got %d and %d", len(first), len(second))
	}

	seen := make(map[string]bool)
	for i := range first {
		if first[i].ID == second[i].ID {
			t.Errorf("Expected distinct ids for distinct notes, both %q", first[i].ID)
		}
		if first[i].SourceNoteID != "note-a" || second[i].SourceNoteID != "note-b" {
			t.Errorf("Expected actions to trace back to their note, got %q and %q", first[i].SourceNoteID, second[i].SourceNoteID)
		}
		if first[i].Data.Task == nil || second[i].Data.Task == nil ||
			first[i].Data.Task.Title != second[i].Data.Task.Title {
			t.Errorf("Expected identical drafts for identical content at index %d", i)
		}
		if seen[first[i].ID] {
			t.Errorf("Duplicate action id %q within one generation", first[i].ID)
		}
		seen[first[i].ID] = true
	}
}

func TestGenerate_ClauseDedupAndBounds(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 250)
	content := "todo: pay rent\ntask: pay rent\ntodo: ab\ntodo: " + long
	result := &models.AnalysisResult{
		Category: models.CategoryTask,
		Entities: models.Entities{},
	}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-5")

	if len(actions) != 1 {
		t.Fatalf("Expected exactly 1 action (dedup, min and max clause length), got %d", len(actions))
	}
	if actions[0].Data.Task.Title != "pay rent" {
		t.Errorf("Expected clause 'pay rent', got %q", actions[0].Data.Task.Title)
	}
}

func TestGenerate_LongClauseTitleTruncated(t *testing.T) {
	t.Parallel()

	clause := strings.Repeat("a", 150)
	content := "todo: " + clause
	result := &models.AnalysisResult{Category: models.CategoryTask}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-6")

	if len(actions) != 1 {
		t.Fatalf("Expected 1 action, got %d", len(actions))
	}
	title := actions[0].Data.Task.Title
	if len(title) != 100 || !strings.HasSuffix(title, "...") {
		t.Errorf("Expected 100-char title ending in ellipsis, got %d chars", len(title))
	}
}

func TestGenerate_MultiByteTitleTruncatedOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// 110 runes but only 130 bytes; a byte-indexed cut would land inside
	// one of the two-byte characters.
	clause := strings.Repeat("a", 90) + strings.Repeat("é", 20)
	content := "todo: " + clause
	result := &models.AnalysisResult{Category: models.CategoryTask}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-9")

	if len(actions) != 1 {
		t.Fatalf("Expected 1 action, got %d", len(actions))
	}
	title := actions[0].Data.Task.Title
	if !utf8.ValidString(title) {
		t.Fatalf("Truncated title is not valid UTF-8: %q", title)
	}
	if utf8.RuneCountInString(title) != 100 || !strings.HasSuffix(title, "...") {
		t.Errorf("Expected 100-rune title ending in ellipsis, got %d runes: %q",
			utf8.RuneCountInString(title), title)
	}
}

func TestGenerate_OrderSurvivesOnlyByPosition(t *testing.T) {
	t.Parallel()

	// Eleven task clauses plus an event: discovery order runs task-0 through
	// task-10 and then event-0, but sorting the ids puts event-0 first and
	// task-10 before task-2. Anything persisting these must keep its own
	// ordering column rather than lean on the ids.
	var sb strings.Builder
	sb.WriteString("Team meeting with Sarah tomorrow\n")
	for i := 0; i < 11; i++ {
		fmt.Fprintf(&sb, "todo: prepare agenda item number %d\n", i)
	}
	content := sb.String()
	result := &models.AnalysisResult{
		Category: models.CategoryMeeting,
		Entities: models.Entities{Tasks: []string{"prepare agenda"}},
	}

	g := NewGeneratorWithClock(testClock)
	actions := g.Generate(result, content, "note-x")

	if len(actions) != 12 {
		t.Fatalf("Expected 11 task actions plus 1 event action, got %d", len(actions))
	}
	ids := make([]string, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}
	for i := 0; i < 11; i++ {
		want := fmt.Sprintf("note-x-task-%d", i)
		if ids[i] != want {
			t.Errorf("Expected id %q at index %d, got %q", want, i, ids[i])
		}
	}
	if ids[11] != "note-x-event-0" {
		t.Errorf("Expected the event action last, got %q", ids[11])
	}

	sorted := append([]string{}, ids...)
	sort.Strings(sorted)
	if sorted[0] != "note-x-event-0" {
		t.Errorf("Expected lexicographic order to misplace the event first, got %q", sorted[0])
	}
	if idx10, idx2 := indexOf(sorted, "note-x-task-10"), indexOf(sorted, "note-x-task-2"); idx10 > idx2 {
		t.Errorf("Expected task-10 to sort before task-2, got indexes %d and %d", idx10, idx2)
	}
}

func indexOf(values []string, v string) int {
	for i, existing := range values {
		if existing == v {
			return i
		}
	}
	return -1
}

func TestGenerate_NilAnalysis(t *testing.T) {
	t.Parallel()

	g := NewGeneratorWithClock(testClock)
	if actions := g.Generate(nil, "anything", "note-7"); len(actions) != 0 {
		t.Errorf("Expected no actions for nil analysis, got %d", len(actions))
	}
}

func TestGenerate_DatesAloneDoNotCreateEvents(t *testing.T) {
	t.Parallel()

	result := &models.AnalysisResult{
		Category: models.CategoryGeneral,
		Entities: models.Entities{Dates: []string{"Friday"}},
	}

	g := NewGeneratorWithClock(testClock)
	for _, a := range g.Generate(result, "seeing the dentist Friday", "note-8") {
		if a.Type == models.ActionTypeCreateEvent {
			t.Errorf("Expected no event action without the Meeting category, got %v", a)
		}
	}
}
