package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/smart-notes/internal/models"
)

const (
	minClauseLength = 4
	maxClauseLength = 199
	maxTitleLength  = 100
)

// Generator turns an analysis result plus the raw note text into proposed
// assistant actions. Like the analyzer it is pure: the same inputs always
// produce the same actions, wall clock aside.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator using the system clock
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a generator with a fixed clock, for tests
// and replayable pipelines.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate proposes structured actions for the note. Families are evaluated
// in a fixed order (task, event, contact, project) and more than one family
// can fire for a single note. Action ids are deterministic within one call:
// note id + action kind + ordinal.
func (g *Generator) Generate(analysis *models.AnalysisResult, content, noteID string) []*models.AssistantAction {
	actions := []*models.AssistantAction{}
	if analysis == nil {
		return actions
	}

	if analysis.Category == models.CategoryTask || len(analysis.Entities.Tasks) > 0 {
		actions = append(actions, g.taskActions(analysis, content, noteID)...)
	}

	// Event proposals only materialize for meeting notes. A bare date in the
	// text is not enough signal to put something on the calendar.
	if analysis.Category == models.CategoryMeeting {
		if action := g.eventAction(analysis, content, noteID); action != nil {
			actions = append(actions, action)
		}
	}

	if analysis.Category == models.CategoryContact {
		if action := g.contactAction(analysis, content, noteID); action != nil {
			actions = append(actions, action)
		}
	}

	if analysis.Category == models.CategoryProject {
		if action := g.projectAction(analysis, content, noteID); action != nil {
			actions = append(actions, action)
		}
	}

	return actions
}

func (g *Generator) newAction(noteID, kind string, ordinal int, actionType models.ActionType) *models.AssistantAction {
	return &models.AssistantAction{
		ID:           fmt.Sprintf("%s-%s-%d", noteID, kind, ordinal),
		Type:         actionType,
		SourceNoteID: noteID,
		Executed:     false,
		CreatedAt:    g.now().UTC(),
	}
}

// Task actions

var taskClausePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:todo|task|action):\s*([^\n]+)`),
	regexp.MustCompile(`(?i)\b(?:need to|have to|must|should)\s+([^.!?\n]+)`),
	regexp.MustCompile(`(?i)\b(?:remind me to|deadline:|due:)\s*([^.!?\n]+)`),
	regexp.MustCompile(`(?m)^\s*(?:[-*\x{2022}])\s+(.+)$`),
}

// taskActions re-scans the raw content for actionable clauses, independently
// of the analyzer's own task entities, and emits one action per distinct
// clause in discovery order.
func (g *Generator) taskActions(analysis *models.AnalysisResult, content, noteID string) []*models.AssistantAction {
	now := g.now()
	seen := make(map[string]struct{})
	var actions []*models.AssistantAction

	for _, re := range taskClausePatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			clause := strings.TrimSpace(m[1])
			if len(clause) < minClauseLength || len(clause) > maxClauseLength {
				continue
			}
			if _, ok := seen[clause]; ok {
				continue
			}
			seen[clause] = struct{}{}

			action := g.newAction(noteID, "task", len(actions), models.ActionTypeCreateTask)
			action.Title = truncate(clause, maxTitleLength)
			action.Description = "Create a task for: " + clause
			action.Data.Task = &models.TaskDraft{
				Title:    truncate(clause, maxTitleLength),
				DueDate:  g.taskDueDate(clause, analysis, now),
				Priority: analysis.Priority,
				Tags:     analysis.Tags,
			}
			actions = append(actions, action)
		}
	}

	return actions
}

// taskDueDate scans the clause for relative cues first, then falls back to
// the first analyzer-extracted date string that parses.
func (g *Generator) taskDueDate(clause string, analysis *models.AnalysisResult, now time.Time) *time.Time {
	if t, ok := resolveRelative(clause, now); ok {
		return &t
	}
	for _, d := range analysis.Entities.Dates {
		if t, ok := resolveDateString(d, now); ok {
			return &t
		}
	}
	return nil
}

// Event actions

var (
	eventTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\w+(?:\s+\w+)?\s+meeting\b`),
		regexp.MustCompile(`(?i)\bmeeting\s+with\s+\w+(?:\s+\w+)?`),
		regexp.MustCompile(`(?i)\b\w+\s+standup\b`),
		regexp.MustCompile(`(?i)^.+?\s+with\s+\w+(?:\s+\w+)?`),
	}
	timeOfDayRe     = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*([ap]m)?\b`)
	withAttendeeRe  = regexp.MustCompile(`\b[Ww]ith\s+([A-Z][a-z]+)\b`)
	locationLabelRe = regexp.MustCompile(`(?i)\blocation:\s*([^\n]+)`)
	roomRe          = regexp.MustCompile(`(?i)\b(?:conference\s+)?room\s+[A-Za-z0-9]+\b`)
	videoCallRe     = regexp.MustCompile(`(?i)\b(zoom|teams|meet)\b`)
)

func (g *Generator) eventAction(analysis *models.AnalysisResult, content, noteID string) *models.AssistantAction {
	now := g.now()
	firstLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}

	title := ""
	for _, re := range eventTitlePatterns {
		if m := re.FindString(firstLine); m != "" {
			title = strings.TrimSpace(m)
			break
		}
	}
	if title == "" {
		title = truncate(strings.TrimSpace(firstLine), 50)
	}
	if title == "" {
		title = "Meeting"
	}

	start := g.eventStart(analysis, content, now)
	end := start.Add(time.Hour)

	attendees := append([]string{}, analysis.Entities.People...)
	for _, m := range withAttendeeRe.FindAllStringSubmatch(content, -1) {
		if !containsFold(attendees, m[1]) {
			attendees = append(attendees, m[1])
		}
	}

	action := g.newAction(noteID, "event", 0, models.ActionTypeCreateEvent)
	action.Title = "Add event: " + title
	action.Description = fmt.Sprintf("Schedule %q for %s", title, start.Format("Jan 2 at 3:04pm"))
	action.Data.Event = &models.EventDraft{
		Title:     title,
		StartDate: &start,
		EndDate:   &end,
		Location:  resolveLocation(content),
		Attendees: attendees,
	}
	return action
}

// eventStart combines the first resolvable extracted date with any time of
// day found in the content, falling back to tomorrow at 10:00.
func (g *Generator) eventStart(analysis *models.AnalysisResult, content string, now time.Time) time.Time {
	day := startOfDay(now).AddDate(0, 0, 1)
	for _, d := range analysis.Entities.Dates {
		if t, ok := resolveDateString(d, now); ok {
			day = startOfDay(t)
			break
		}
	}

	hour, minute := 10, 0
	if m := timeOfDayRe.FindStringSubmatch(content); m != nil {
		hour = atoi(m[1])
		minute = atoi(m[2])
		switch strings.ToLower(m[3]) {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func resolveLocation(content string) string {
	if m := locationLabelRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := roomRe.FindString(content); m != "" {
		return m
	}
	if m := videoCallRe.FindStringSubmatch(content); m != nil {
		switch strings.ToLower(m[1]) {
		case "zoom":
			return "Zoom"
		case "teams":
			return "Microsoft Teams"
		case "meet":
			return "Google Meet"
		}
	}
	return ""
}

// Contact actions

var (
	nameLabelRe    = regexp.MustCompile(`(?i)\bname:\s*([^\n]+)`)
	companyLabelRe = regexp.MustCompile(`(?i)\b(?:company|organization):\s*([^\n]+)`)
	companyNameRe  = regexp.MustCompile(`\b[A-Z][A-Za-z&]*(?:\s+[A-Z][A-Za-z&]*)*\s+(?:Corp|Inc|LLC|Ltd)\b`)
)

func (g *Generator) contactAction(analysis *models.AnalysisResult, content, noteID string) *models.AssistantAction {
	name := ""
	if m := nameLabelRe.FindStringSubmatch(content); m != nil {
		name = strings.TrimSpace(m[1])
	} else if len(analysis.Entities.People) > 0 {
		name = analysis.Entities.People[0]
	}

	email := first(analysis.Entities.Emails)
	phone := first(analysis.Entities.Phones)
	if name == "" && email == "" && phone == "" {
		return nil
	}

	company := ""
	if m := companyLabelRe.FindStringSubmatch(content); m != nil {
		company = strings.TrimSpace(m[1])
	} else if m := companyNameRe.FindString(content); m != "" {
		company = m
	}

	display := name
	if display == "" {
		display = email
	}
	if display == "" {
		display = phone
	}

	action := g.newAction(noteID, "contact", 0, models.ActionTypeCreateContact)
	action.Title = "Add contact: " + display
	action.Description = "Save contact details captured from the note"
	action.Data.Contact = &models.ContactDraft{
		Name:    display,
		Email:   email,
		Phone:   phone,
		Company: company,
	}
	return action
}

// Project actions

var (
	projectNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\w+(?:\s+\w+)?\s+project\b`),
		regexp.MustCompile(`(?i)\bproject:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\b\w+(?:\s+\w+)?\s+timeline\b`),
	}
	budgetRe = regexp.MustCompile(`\$(\d[\d,]*)`)
)

func (g *Generator) projectAction(analysis *models.AnalysisResult, content, noteID string) *models.AssistantAction {
	now := g.now()

	name := ""
	for _, re := range projectNamePatterns {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		name = m[0]
		if len(m) > 1 && m[1] != "" {
			name = m[1]
		}
		name = strings.TrimSpace(name)
		break
	}
	if name == "" {
		firstLine := content
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			firstLine = content[:idx]
		}
		name = truncate(strings.TrimSpace(firstLine), 30)
	}
	if name == "" {
		return nil
	}

	var start, end *time.Time
	var resolved []time.Time
	for _, d := range analysis.Entities.Dates {
		if t, ok := resolveDateString(d, now); ok {
			resolved = append(resolved, t)
		}
	}
	if len(resolved) >= 2 {
		start = &resolved[0]
		end = &resolved[len(resolved)-1]
	} else if len(resolved) == 1 {
		start = &resolved[0]
	}

	var budget *int
	if m := budgetRe.FindStringSubmatch(content); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			budget = &n
		}
	}

	action := g.newAction(noteID, "project", 0, models.ActionTypeCreateProject)
	action.Title = "Create project: " + name
	action.Description = "Set up a project from this note"
	action.Data.Project = &models.ProjectDraft{
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Team:      append([]string{}, analysis.Entities.People...),
		Budget:    budget,
	}
	return action
}

// truncate limits s to max characters. Counting runes keeps the cut from
// landing inside a multi-byte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func containsFold(values []string, v string) bool {
	for _, existing := range values {
		if strings.EqualFold(existing, v) || strings.Contains(existing, v) {
			return true
		}
	}
	return false
}
