package extractor

import "github.com/scribehq/scribe/internal/domain"

// Extraction is the structured result of one model call, validated but not
// yet resolved against persisted state. It lives only for the duration of a
// single processing run.
type Extraction struct {
	Summary     string       `json:"summary"`
	NewTasks    []NewTask    `json:"new_tasks"`
	TaskUpdates []TaskUpdate `json:"task_updates"`
}

// NewTask is a model-proposed task creation. AssigneeName is the free-form
// name the model saw in the transcript, resolved to a user id later.
type NewTask struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	AssigneeName string              `json:"assignee_name"`
	Priority     domain.TaskPriority `json:"priority"`
	DueDate      *string             `json:"due_date"` // pass-through ISO date, never parsed
}

// TaskUpdate is a model-proposed change to an existing task. The action
// string is recorded in the audit trail verbatim even when it maps to no
// status change.
type TaskUpdate struct {
	TaskID int64  `json:"task_id"`
	Action string `json:"action"`
	Note   string `json:"note"`
}
