package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repository lookups when no row matches.
var ErrNotFound = errors.New("not found")

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

// OpenStatuses are the statuses considered active when snapshotting tasks
// for prompt context.
func OpenStatuses() []TaskStatus {
	return []TaskStatus{StatusNotStarted, StatusInProgress, StatusBlocked}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *int64       `json:"assignee_id,omitempty"`
	CreatorID   int64        `json:"creator_id"`
	ProjectID   *int64       `json:"project_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// NewTask carries the fields settable at task creation.
type NewTask struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  *int64
	CreatorID   int64
	ProjectID   *int64
}

// TaskPatch is a typed partial update. Only non-nil fields are written;
// the store stamps updated_at on every patch regardless.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	CompletedAt *time.Time
}

// IsEmpty reports whether the patch would change nothing beyond updated_at.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.CompletedAt == nil
}

type Transcript struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Text        string     `json:"transcript"`
	Summary     string     `json:"summary,omitempty"`
	Processed   bool       `json:"processed"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Action kinds recorded in the audit trail. The trail stores whatever kind
// string the extraction proposed, so these are the known values, not a
// closed set.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCompleted = "completed"
	ActionBlocked   = "blocked"
)

// TranscriptAction is one immutable audit record tying a task side effect
// to the transcript that caused it.
type TranscriptAction struct {
	ID           int64     `json:"id"`
	TranscriptID int64     `json:"transcript_id"`
	TaskID       *int64    `json:"task_id,omitempty"`
	Kind         string    `json:"action_type"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository is the read side of the persistence layer consumed by the
// pipeline. WithTx opens the single atomic scope all reconciliation writes
// go through.
type Repository interface {
	Transcript(ctx context.Context, id int64) (*Transcript, error)
	Users(ctx context.Context) ([]User, error)
	OpenTasks(ctx context.Context, statuses []TaskStatus, limit int) ([]Task, error)
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write side, valid only inside a WithTx callback. If the
// callback returns an error every write made through it is discarded.
type Tx interface {
	CreateTask(ctx context.Context, t NewTask) (*Task, error)
	TaskByID(ctx context.Context, id int64) (*Task, error)
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) error
	AppendAction(ctx context.Context, a TranscriptAction) error
	MarkProcessed(ctx context.Context, transcriptID int64, summary string, at time.Time) error
}
