package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benvon/smart-notes/internal/analyzer"
	"github.com/benvon/smart-notes/internal/assistant"
	"github.com/benvon/smart-notes/internal/database"
	"github.com/benvon/smart-notes/internal/models"
	"github.com/benvon/smart-notes/internal/queue"
)

// NoteAnalyzer processes note analysis jobs: it runs the rule-based analyzer
// over the note text, regenerates the assistant actions, and reconciles their
// executed flags against the target collections.
type NoteAnalyzer struct {
	analyzer   *analyzer.Analyzer
	generator  *assistant.Generator
	executor   *assistant.Executor
	noteRepo   database.NoteRepositoryInterface
	actionRepo database.ActionRepositoryInterface
	jobQueue   queue.JobQueue // For re-enqueueing jobs with delays
	logger     *zap.Logger
}

// NewNoteAnalyzer creates a new note analyzer worker
func NewNoteAnalyzer(
	a *analyzer.Analyzer,
	generator *assistant.Generator,
	executor *assistant.Executor,
	noteRepo database.NoteRepositoryInterface,
	actionRepo database.ActionRepositoryInterface,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *NoteAnalyzer {
	return &NoteAnalyzer{
		analyzer:   a,
		generator:  generator,
		executor:   executor,
		noteRepo:   noteRepo,
		actionRepo: actionRepo,
		jobQueue:   jobQueue,
		logger:     logger,
	}
}

// ProcessNoteAnalysisJob processes a note analysis job
func (w *NoteAnalyzer) ProcessNoteAnalysisJob(ctx context.Context, job *queue.Job) error {
	if job.NoteID == nil {
		return fmt.Errorf("note_id is required for note analysis job")
	}

	note, err := w.noteRepo.GetByID(ctx, *job.NoteID)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	// Mark the note processing before starting. Analysis continues even if
	// the status write fails; the status is informational.
	if note.Status == models.NoteStatusPending {
		if err := w.noteRepo.UpdateStatus(ctx, note.ID, models.NoteStatusProcessing); err != nil {
			w.logger.Warn("status_update_failed",
				zap.String("note_id", note.ID.String()),
				zap.Error(err),
			)
		}
	}

	analysis := w.analyzer.Analyze(note.Content)
	actions := w.generator.Generate(analysis, note.Content, note.ID.String())

	// Re-analysis regenerates actions from scratch, so executed flags are
	// recomputed from the collections before the actions are stored.
	if w.executor != nil {
		if err := w.executor.Reconcile(ctx, actions); err != nil {
			w.resetToPending(ctx, note.ID)
			return fmt.Errorf("failed to reconcile actions: %w", err)
		}
	}

	if err := w.noteRepo.SetAnalysis(ctx, note.ID, analysis); err != nil {
		w.resetToPending(ctx, note.ID)
		return fmt.Errorf("failed to store analysis: %w", err)
	}

	if err := w.actionRepo.ReplaceForNote(ctx, note.ID, actions); err != nil {
		return fmt.Errorf("failed to store actions: %w", err)
	}

	w.logger.Info("note_analyzed",
		zap.String("note_id", note.ID.String()),
		zap.String("category", string(analysis.Category)),
		zap.Float64("confidence", analysis.Confidence),
		zap.String("priority", string(analysis.Priority)),
		zap.Int("actions", len(actions)),
	)
	return nil
}

// ProcessReanalyzeAllJob fans a reanalyze-all job out into one analysis job
// per note. Used after the rule set changes.
func (w *NoteAnalyzer) ProcessReanalyzeAllJob(ctx context.Context, job *queue.Job) error {
	ids, err := w.noteRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	enqueued := 0
	for _, id := range ids {
		noteID := id
		if err := w.jobQueue.Enqueue(ctx, queue.NewJob(queue.JobTypeNoteAnalysis, &noteID)); err != nil {
			w.logger.Error("enqueue_failed",
				zap.String("note_id", noteID.String()),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	w.logger.Info("reanalyze_all_fanout",
		zap.String("job_id", job.ID.String()),
		zap.Int("notes", len(ids)),
		zap.Int("enqueued", enqueued),
	)
	return nil
}

// ProcessJob processes a job based on its type
func (w *NoteAnalyzer) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	// Check if job should be processed now (respect NotBefore)
	if !job.ShouldProcess() {
		if job.IsExpired() {
			// Past NotAfter: drop without retrying
			if nackErr := msg.Nack(false); nackErr != nil {
				w.logger.Warn("nack_failed", zap.Error(nackErr))
			}
			return nil
		}
		// Not ready yet, put it back
		if nackErr := msg.Nack(true); nackErr != nil {
			w.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeNoteAnalysis:
		if err := w.ProcessNoteAnalysisJob(ctx, job); err != nil {
			return w.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	case queue.JobTypeReanalyzeAll:
		if err := w.ProcessReanalyzeAllJob(ctx, job); err != nil {
			// Fan-out failures are not retried; a fresh reanalyze-all is cheap
			if nackErr := msg.Nack(false); nackErr != nil {
				w.logger.Warn("nack_failed", zap.Error(nackErr))
			}
			return fmt.Errorf("reanalyze all failed: %w", err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack reanalyze job: %w", ackErr)
		}
		return nil

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			w.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError retries transient failures with exponential backoff via the
// delayed exchange, and dead-letters the job once retries are exhausted.
func (w *NoteAnalyzer) handleJobError(ctx context.Context, msg *queue.Message, job *queue.Job, err error) error {
	if job.CanRetry() && w.jobQueue != nil {
		notBefore := time.Now().Add(retryDelay(job.RetryCount))
		delayedJob := &queue.Job{
			ID:         job.ID,
			Type:       job.Type,
			NoteID:     job.NoteID,
			NotBefore:  &notBefore,
			NotAfter:   job.NotAfter,
			Metadata:   job.Metadata,
			CreatedAt:  job.CreatedAt,
			RetryCount: job.RetryCount + 1,
			MaxRetries: job.MaxRetries,
		}

		if ackErr := msg.Ack(); ackErr != nil {
			w.logger.Warn("ack_failed", zap.Error(ackErr))
		}

		if enqueueErr := w.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
			return fmt.Errorf("failed to re-enqueue job %s: %w", job.ID, enqueueErr)
		}

		w.logger.Warn("job_retry_scheduled",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", delayedJob.RetryCount),
			zap.Time("not_before", notBefore),
			zap.Error(err),
		)
		return nil
	}

	// Retries exhausted, send to DLQ
	if nackErr := msg.Nack(false); nackErr != nil {
		w.logger.Warn("nack_failed", zap.Error(nackErr))
	}
	return fmt.Errorf("job %s failed after %d retries: %w", job.ID, job.RetryCount, err)
}

func (w *NoteAnalyzer) resetToPending(ctx context.Context, noteID uuid.UUID) {
	if err := w.noteRepo.UpdateStatus(ctx, noteID, models.NoteStatusPending); err != nil {
		w.logger.Warn("status_reset_failed",
			zap.String("note_id", noteID.String()),
			zap.Error(err),
		)
	}
}

func retryDelay(retryCount int) time.Duration {
	delay := 30 * time.Second
	for i := 0; i < retryCount; i++ {
		delay *= 2
	}
	if delay > 10*time.Minute {
		delay = 10 * time.Minute
	}
	return delay
}
