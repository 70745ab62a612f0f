package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/smart-notes/internal/models"
	"github.com/google/uuid"
)

// ErrUnknownActionType is returned when the executor is asked to run an
// action type it does not recognize. This is distinct from a successful
// no-op: silently ignoring it would make a broken action look executed.
var ErrUnknownActionType = errors.New("unknown action type")

// ErrMissingDraft is returned when an action carries no draft for its type
var ErrMissingDraft = errors.New("action data missing draft for its type")

// TaskStore is the task collection surface the executor needs
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	ExistsBySource(ctx context.Context, sourceNoteID, title string) (bool, error)
}

// EventStore is the calendar collection surface the executor needs
type EventStore interface {
	Create(ctx context.Context, event *models.CalendarEvent) error
	ExistsBySource(ctx context.Context, sourceNoteID, title string) (bool, error)
}

// ContactStore is the contact collection surface the executor needs
type ContactStore interface {
	Create(ctx context.Context, contact *models.Contact) error
	ExistsBySource(ctx context.Context, sourceNoteID, name string) (bool, error)
}

// ProjectStore is the project collection surface the executor needs
type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	ExistsBySource(ctx context.Context, sourceNoteID, name string) (bool, error)
}

// Executor materializes accepted assistant actions into domain records.
// Idempotency is derived from collection state: a record with the same
// source note and natural key (title or name) means the action already ran,
// regardless of what the Executed flag says.
type Executor struct {
	tasks    TaskStore
	events   EventStore
	contacts ContactStore
	projects ProjectStore
	now      func() time.Time
}

// NewExecutor creates an executor over the four target collections
func NewExecutor(tasks TaskStore, events EventStore, contacts ContactStore, projects ProjectStore) *Executor {
	return &Executor{
		tasks:    tasks,
		events:   events,
		contacts: contacts,
		projects: projects,
		now:      time.Now,
	}
}

// Execute materializes the action into its target collection, applying
// family defaults for fields the draft omitted. Returns created=false when
// a matching record already exists (safe no-op). The Executed flag on the
// action is updated either way.
func (e *Executor) Execute(ctx context.Context, action *models.AssistantAction) (created bool, err error) {
	if action.SourceNoteID == "" {
		return false, fmt.Errorf("action %s has no source note id", action.ID)
	}

	switch action.Type {
	case models.ActionTypeCreateTask, models.ActionTypeSetReminder:
		created, err = e.executeTask(ctx, action)
	case models.ActionTypeCreateEvent:
		created, err = e.executeEvent(ctx, action)
	case models.ActionTypeCreateContact:
		created, err = e.executeContact(ctx, action)
	case models.ActionTypeCreateProject:
		created, err = e.executeProject(ctx, action)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownActionType, action.Type)
	}

	if err != nil {
		return false, err
	}
	action.Executed = true
	return created, nil
}

func (e *Executor) executeTask(ctx context.Context, action *models.AssistantAction) (bool, error) {
	draft := action.Data.Task
	if draft == nil {
		return false, fmt.Errorf("%w: %s", ErrMissingDraft, action.ID)
	}

	exists, err := e.tasks.ExistsBySource(ctx, action.SourceNoteID, draft.Title)
	if err != nil {
		return false, fmt.Errorf("failed to check existing task: %w", err)
	}
	if exists {
		return false, nil
	}

	priority := draft.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := e.now()
	task := &models.Task{
		ID:           uuid.New(),
		Title:        draft.Title,
		Description:  draft.Description,
		DueDate:      draft.DueDate,
		Priority:     priority,
		Completed:    false,
		Tags:         orEmpty(draft.Tags),
		SourceNoteID: action.SourceNoteID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.tasks.Create(ctx, task); err != nil {
		return false, fmt.Errorf("failed to create task: %w", err)
	}
	return true, nil
}

func (e *Executor) executeEvent(ctx context.Context, action *models.AssistantAction) (bool, error) {
	draft := action.Data.Event
	if draft == nil {
		return false, fmt.Errorf("%w: %s", ErrMissingDraft, action.ID)
	}

	exists, err := e.events.ExistsBySource(ctx, action.SourceNoteID, draft.Title)
	if err != nil {
		return false, fmt.Errorf("failed to check existing event: %w", err)
	}
	if exists {
		return false, nil
	}

	now := e.now()
	event := &models.CalendarEvent{
		ID:           uuid.New(),
		Title:        draft.Title,
		StartDate:    draft.StartDate,
		EndDate:      draft.EndDate,
		Location:     draft.Location,
		Attendees:    orEmpty(draft.Attendees),
		AllDay:       false,
		SourceNoteID: action.SourceNoteID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.events.Create(ctx, event); err != nil {
		return false, fmt.Errorf("failed to create event: %w", err)
	}
	return true, nil
}

func (e *Executor) executeContact(ctx context.Context, action *models.AssistantAction) (bool, error) {
	draft := action.Data.Contact
	if draft == nil {
		return false, fmt.Errorf("%w: %s", ErrMissingDraft, action.ID)
	}

	exists, err := e.contacts.ExistsBySource(ctx, action.SourceNoteID, draft.Name)
	if err != nil {
		return false, fmt.Errorf("failed to check existing contact: %w", err)
	}
	if exists {
		return false, nil
	}

	now := e.now()
	contact := &models.Contact{
		ID:           uuid.New(),
		Name:         draft.Name,
		Email:        draft.Email,
		Phone:        draft.Phone,
		Company:      draft.Company,
		Notes:        draft.Notes,
		Tags:         []string{},
		SourceNoteID: action.SourceNoteID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.contacts.Create(ctx, contact); err != nil {
		return false, fmt.Errorf("failed to create contact: %w", err)
	}
	return true, nil
}

func (e *Executor) executeProject(ctx context.Context, action *models.AssistantAction) (bool, error) {
	draft := action.Data.Project
	if draft == nil {
		return false, fmt.Errorf("%w: %s", ErrMissingDraft, action.ID)
	}

	exists, err := e.projects.ExistsBySource(ctx, action.SourceNoteID, draft.Name)
	if err != nil {
		return false, fmt.Errorf("failed to check existing project: %w", err)
	}
	if exists {
		return false, nil
	}

	now := e.now()
	project := &models.Project{
		ID:           uuid.New(),
		Name:         draft.Name,
		Description:  draft.Description,
		Status:       models.ProjectStatusPlanning,
		Progress:     0,
		StartDate:    draft.StartDate,
		EndDate:      draft.EndDate,
		Team:         orEmpty(draft.Team),
		Tags:         []string{},
		Budget:       draft.Budget,
		SourceNoteID: action.SourceNoteID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.projects.Create(ctx, project); err != nil {
		return false, fmt.Errorf("failed to create project: %w", err)
	}
	return true, nil
}

// Reconcile recomputes each action's Executed flag from collection state.
// The flag is a cache that can drift after imports or merges; the natural
// key lookup is authoritative. Called whenever a note's actions are
// regenerated or its collections change.
func (e *Executor) Reconcile(ctx context.Context, actions []*models.AssistantAction) error {
	for _, action := range actions {
		exists, err := e.exists(ctx, action)
		if err != nil {
			if errors.Is(err, ErrUnknownActionType) || errors.Is(err, ErrMissingDraft) {
				continue
			}
			return err
		}
		action.Executed = exists
	}
	return nil
}

func (e *Executor) exists(ctx context.Context, action *models.AssistantAction) (bool, error) {
	switch action.Type {
	case models.ActionTypeCreateTask, models.ActionTypeSetReminder:
		if action.Data.Task == nil {
			return false, ErrMissingDraft
		}
		return e.tasks.ExistsBySource(ctx, action.SourceNoteID, action.Data.Task.Title)
	case models.ActionTypeCreateEvent:
		if action.Data.Event == nil {
			return false, ErrMissingDraft
		}
		return e.events.ExistsBySource(ctx, action.SourceNoteID, action.Data.Event.Title)
	case models.ActionTypeCreateContact:
		if action.Data.Contact == nil {
			return false, ErrMissingDraft
		}
		return e.contacts.ExistsBySource(ctx, action.SourceNoteID, action.Data.Contact.Name)
	case models.ActionTypeCreateProject:
		if action.Data.Project == nil {
			return false, ErrMissingDraft
		}
		return e.projects.ExistsBySource(ctx, action.SourceNoteID, action.Data.Project.Name)
	default:
		return false, ErrUnknownActionType
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
