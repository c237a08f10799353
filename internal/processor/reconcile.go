package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scribehq/scribe/internal/domain"
	"github.com/scribehq/scribe/internal/extractor"
	"github.com/scribehq/scribe/internal/resolver"
)

type reconcileState string

const (
	stateStarted         reconcileState = "started"
	stateCreatingTasks   reconcileState = "creating-tasks"
	stateApplyingUpdates reconcileState = "applying-updates"
	stateSummarizing     reconcileState = "summarizing"
	stateCommitted       reconcileState = "committed"
	stateRolledBack      reconcileState = "rolled-back"
)

// reconcile applies a validated extraction inside one transaction: task
// creations, update applications, one audit action per mutation, and the
// transcript summary write commit together or not at all.
func (p *Processor) reconcile(ctx context.Context, logger *slog.Logger, tr *domain.Transcript, roster []domain.User, ex *extractor.Extraction) Outcome {
	out := Outcome{Summary: ex.Summary}

	state := stateStarted
	advance := func(next reconcileState) {
		state = next
		logger.Debug("reconcile state", "state", string(state))
	}

	err := p.repo.WithTx(ctx, func(tx domain.Tx) error {
		now := time.Now().UTC()

		advance(stateCreatingTasks)
		for _, nt := range ex.NewTasks {
			var assigneeID *int64
			if nt.AssigneeName != "" {
				if id, ok := resolver.Assignee(roster, nt.AssigneeName); ok {
					assigneeID = &id
				} else {
					out.UnmatchedAssignees++
					logger.Info("assignee name not in roster, leaving unassigned",
						"assignee_name", nt.AssigneeName,
						"title", nt.Title,
					)
				}
			}

			// No transcript-author identity exists; creation is attributed
			// to the first roster entry.
			task, err := tx.CreateTask(ctx, domain.NewTask{
				Title:       nt.Title,
				Description: nt.Description,
				Status:      domain.StatusNotStarted,
				Priority:    nt.Priority,
				AssigneeID:  assigneeID,
				CreatorID:   roster[0].ID,
			})
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}

			if err := tx.AppendAction(ctx, domain.TranscriptAction{
				TranscriptID: tr.ID,
				TaskID:       &task.ID,
				Kind:         domain.ActionCreated,
				Description:  "Created task: " + nt.Title,
			}); err != nil {
				return fmt.Errorf("append created action: %w", err)
			}

			out.CreatedTaskIDs = append(out.CreatedTaskIDs, task.ID)
		}

		advance(stateApplyingUpdates)
		for _, up := range ex.TaskUpdates {
			task, err := tx.TaskByID(ctx, up.TaskID)
			if errors.Is(err, domain.ErrNotFound) {
				out.UnmatchedTasks++
				logger.Info("task update references unknown task, skipping",
					"task_id", up.TaskID,
					"action", up.Action,
				)
				continue
			}
			if err != nil {
				return fmt.Errorf("look up task %d: %w", up.TaskID, err)
			}

			action := up.Action
			if action == "" {
				action = domain.ActionUpdated
			}

			var patch domain.TaskPatch
			switch action {
			case domain.ActionCompleted:
				status := domain.StatusDone
				completed := now
				patch.Status = &status
				patch.CompletedAt = &completed
			case domain.ActionBlocked:
				status := domain.StatusBlocked
				patch.Status = &status
			}
			// Any other action touches updated_at only; the store stamps it
			// even for an empty patch.

			if err := tx.UpdateTask(ctx, task.ID, patch); err != nil {
				return fmt.Errorf("update task %d: %w", task.ID, err)
			}

			note := up.Note
			if note == "" {
				note = "Task " + action
			}
			if err := tx.AppendAction(ctx, domain.TranscriptAction{
				TranscriptID: tr.ID,
				TaskID:       &task.ID,
				Kind:         action,
				Description:  note,
			}); err != nil {
				return fmt.Errorf("append update action: %w", err)
			}

			out.UpdatedTaskIDs = append(out.UpdatedTaskIDs, task.ID)
		}

		advance(stateSummarizing)
		if err := tx.MarkProcessed(ctx, tr.ID, ex.Summary, now); err != nil {
			return fmt.Errorf("mark transcript processed: %w", err)
		}

		return nil
	})
	if err != nil {
		advance(stateRolledBack)
		logger.Error("reconciliation rolled back", "error", err)
		return failure(err)
	}
	advance(stateCommitted)

	out.Success = true
	out.TasksCreated = len(out.CreatedTaskIDs)
	out.TasksUpdated = len(out.UpdatedTaskIDs)

	logger.Info("transcript processed",
		"tasks_created", out.TasksCreated,
		"tasks_updated", out.TasksUpdated,
		"unmatched_assignees", out.UnmatchedAssignees,
		"unmatched_tasks", out.UnmatchedTasks,
	)
	return out
}
