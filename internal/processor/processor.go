// Package processor runs the transcript-to-task pipeline: prompt context
// gathering, model extraction, reference resolution and transactional
// reconciliation against the task repository.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scribehq/scribe/internal/domain"
	"github.com/scribehq/scribe/internal/events"
	"github.com/scribehq/scribe/internal/extractor"
)

// openTaskLimit caps the task snapshot included in prompt context to the
// most recent entries.
const openTaskLimit = 20

// ErrAlreadyProcessed guards against re-running a transcript whose results
// were already committed; a second run would duplicate task creation.
var ErrAlreadyProcessed = errors.New("transcript already processed")

// Publisher is the event-bus surface the processor needs. May be nil when
// running without a bus.
type Publisher interface {
	Publish(subject string, data any) error
}

type Processor struct {
	repo   domain.Repository
	ext    *extractor.Extractor
	bus    Publisher
	logger *slog.Logger
}

func New(repo domain.Repository, ext *extractor.Extractor, bus Publisher, logger *slog.Logger) *Processor {
	return &Processor{repo: repo, ext: ext, bus: bus, logger: logger}
}

// ProcessTranscript runs the whole pipeline for one transcript as a single
// synchronous unit of work. The caller sees either a full success summary
// with counts or a single error message, never a partially-applied batch.
func (p *Processor) ProcessTranscript(ctx context.Context, transcriptID int64) Outcome {
	runID := uuid.New()
	logger := p.logger.With("run_id", runID.String(), "transcript_id", transcriptID)

	tr, err := p.repo.Transcript(ctx, transcriptID)
	if err != nil {
		logger.Error("failed to load transcript", "error", err)
		return failure(fmt.Errorf("load transcript: %w", err))
	}
	if tr.Processed {
		logger.Warn("transcript already processed, refusing to re-run")
		return failure(fmt.Errorf("transcript %d: %w", transcriptID, ErrAlreadyProcessed))
	}

	roster, err := p.repo.Users(ctx)
	if err != nil {
		logger.Error("failed to load roster", "error", err)
		return failure(fmt.Errorf("load roster: %w", err))
	}

	openTasks, err := p.repo.OpenTasks(ctx, domain.OpenStatuses(), openTaskLimit)
	if err != nil {
		logger.Error("failed to load open tasks", "error", err)
		return failure(fmt.Errorf("load open tasks: %w", err))
	}

	ex, err := p.ext.Extract(ctx, transcriptID, tr.Text, roster, openTasks)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		return failure(err)
	}

	// Task creation is attributed to the first roster entry; with no users
	// at all there is nobody to attribute it to.
	if len(ex.NewTasks) > 0 && len(roster) == 0 {
		logger.Error("extraction proposed tasks but no users exist")
		return failure(errors.New("no users available to attribute task creation"))
	}

	out := p.reconcile(ctx, logger, tr, roster, ex)
	if out.Success {
		p.publish(logger, runID, tr.ID, ex, out)
	}
	return out
}

func (p *Processor) publish(logger *slog.Logger, runID uuid.UUID, transcriptID int64, ex *extractor.Extraction, out Outcome) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(events.SubjectTranscriptProcessed, events.TranscriptProcessed{
		RunID:        runID.String(),
		TranscriptID: transcriptID,
		Summary:      out.Summary,
		TasksCreated: out.TasksCreated,
		TasksUpdated: out.TasksUpdated,
	}); err != nil {
		logger.Warn("failed to publish processed event", "error", err)
	}
	for i, taskID := range out.CreatedTaskIDs {
		evt := events.TaskCreated{
			RunID:        runID.String(),
			TranscriptID: transcriptID,
			TaskID:       taskID,
		}
		if i < len(ex.NewTasks) {
			evt.Title = ex.NewTasks[i].Title
		}
		if err := p.bus.Publish(events.SubjectTaskCreated, evt); err != nil {
			logger.Warn("failed to publish task created event", "task_id", taskID, "error", err)
		}
	}
}

// HandleProcessRequest is the NATS handler for scribe.transcript.process.
func (p *Processor) HandleProcessRequest(subject string, data []byte) {
	ctx := context.Background()

	var req events.ProcessRequest
	if err := json.Unmarshal(data, &req); err != nil {
		p.logger.Error("failed to parse process request", "error", err)
		return
	}
	if req.TranscriptID == 0 {
		p.logger.Error("process request missing transcript_id")
		return
	}

	outcome := p.ProcessTranscript(ctx, req.TranscriptID)
	if !outcome.Success {
		p.logger.Error("transcript processing failed",
			"transcript_id", req.TranscriptID,
			"error", outcome.Error,
		)
	}
}
