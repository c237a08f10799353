package store

import (
	"context"
	"fmt"

	"github.com/scribehq/scribe/internal/domain"
)

// AppendAction writes one immutable audit record. Actions are never updated
// or deleted.
func (t *Tx) AppendAction(ctx context.Context, a domain.TranscriptAction) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO transcript_actions (transcript_id, task_id, action_type, description)
		VALUES ($1, $2, $3, $4)`,
		a.TranscriptID, a.TaskID, a.Kind, a.Description)
	if err != nil {
		return fmt.Errorf("insert transcript action: %w", err)
	}
	return nil
}

// ActionsForTranscript returns the audit trail for one transcript in
// creation order.
func (s *Store) ActionsForTranscript(ctx context.Context, transcriptID int64) ([]domain.TranscriptAction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, transcript_id, task_id, action_type, description, created_at
		FROM transcript_actions
		WHERE transcript_id = $1
		ORDER BY id`,
		transcriptID)
	if err != nil {
		return nil, fmt.Errorf("query transcript actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.TranscriptAction
	for rows.Next() {
		var a domain.TranscriptAction
		if err := rows.Scan(&a.ID, &a.TranscriptID, &a.TaskID, &a.Kind, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
