package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/scribehq/scribe/internal/domain"
)

const taskColumns = `id, title, description, status, priority, assignee_id, creator_id, project_id,
	created_at, updated_at, due_date, completed_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority,
		&t.AssigneeID, &t.CreatorID, &t.ProjectID,
		&t.CreatedAt, &t.UpdatedAt, &t.DueDate, &t.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	return &t, nil
}

// OpenTasks returns the most recent tasks in the given statuses, capped to
// limit, for prompt context.
func (s *Store) OpenTasks(ctx context.Context, statuses []domain.TaskStatus, limit int) ([]domain.Task, error) {
	vals := make([]string, len(statuses))
	for i, st := range statuses {
		vals[i] = string(st)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE status = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2`,
		vals, limit)
	if err != nil {
		return nil, fmt.Errorf("query open tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (t *Tx) CreateTask(ctx context.Context, nt domain.NewTask) (*domain.Task, error) {
	task := domain.Task{
		Title:       nt.Title,
		Description: nt.Description,
		Status:      nt.Status,
		Priority:    nt.Priority,
		AssigneeID:  nt.AssigneeID,
		CreatorID:   nt.CreatorID,
		ProjectID:   nt.ProjectID,
	}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, assignee_id, creator_id, project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		nt.Title, nt.Description, string(nt.Status), string(nt.Priority),
		nt.AssigneeID, nt.CreatorID, nt.ProjectID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &task, nil
}

func (t *Tx) TaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	return scanTask(t.tx.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1`, id))
}

// UpdateTask applies a typed partial update. Only whitelisted fields can be
// written; updated_at is stamped on every patch, including an empty one.
func (t *Tx) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) error {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.CompletedAt != nil {
		add("completed_at", *patch.CompletedAt)
	}

	ct, err := t.tx.Exec(ctx, "UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = $1", args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
