package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scribehq/scribe/internal/domain"
	"github.com/scribehq/scribe/internal/openai"
)

type Extractor struct {
	llm    *openai.Client
	logger *slog.Logger
}

func New(llm *openai.Client, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, logger: logger}
}

// Extract builds the prompt, calls the model and validates the response.
// Model-call failures are not retried: a retry after a partial commit
// elsewhere in the run could duplicate task creation, so errors propagate
// to the caller instead.
func (e *Extractor) Extract(ctx context.Context, transcriptID int64, transcript string, roster []domain.User, openTasks []domain.Task) (*Extraction, error) {
	prompt := BuildPrompt(transcript, roster, openTasks)

	e.logger.Info("extracting from transcript",
		"transcript_id", transcriptID,
		"transcript_len", len(transcript),
		"roster_size", len(roster),
		"open_tasks", len(openTasks),
	)

	raw, err := e.llm.Complete(ctx, systemPrompt, []openai.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("llm extraction: %w", err)
	}

	ex, err := Parse(raw)
	if err != nil {
		e.logger.Error("failed to parse extraction response",
			"error", err,
			"raw", raw,
		)
		return nil, err
	}

	e.logger.Info("extraction complete",
		"transcript_id", transcriptID,
		"new_tasks", len(ex.NewTasks),
		"task_updates", len(ex.TaskUpdates),
	)

	return ex, nil
}
