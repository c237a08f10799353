package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/scribehq/scribe/internal/domain"
)

const transcriptColumns = `id, title, transcript, summary, processed, created_at, processed_at`

func scanTranscript(row pgx.Row) (*domain.Transcript, error) {
	var tr domain.Transcript
	err := row.Scan(&tr.ID, &tr.Title, &tr.Text, &tr.Summary, &tr.Processed, &tr.CreatedAt, &tr.ProcessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return &tr, nil
}

func (s *Store) CreateTranscript(ctx context.Context, title, text string) (*domain.Transcript, error) {
	tr := domain.Transcript{Title: title, Text: text}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO meeting_transcripts (title, transcript)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		title, text,
	).Scan(&tr.ID, &tr.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert transcript: %w", err)
	}
	return &tr, nil
}

func (s *Store) Transcript(ctx context.Context, id int64) (*domain.Transcript, error) {
	return scanTranscript(s.pool.QueryRow(ctx, `
		SELECT `+transcriptColumns+`
		FROM meeting_transcripts
		WHERE id = $1`, id))
}

func (s *Store) Transcripts(ctx context.Context) ([]domain.Transcript, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+transcriptColumns+`
		FROM meeting_transcripts
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var transcripts []domain.Transcript
	for rows.Next() {
		tr, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, *tr)
	}
	return transcripts, rows.Err()
}

// MarkProcessed finalizes a transcript after reconciliation: summary,
// processed flag and processing time in one write.
func (t *Tx) MarkProcessed(ctx context.Context, transcriptID int64, summary string, at time.Time) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE meeting_transcripts
		SET summary = $2, processed = true, processed_at = $3
		WHERE id = $1`,
		transcriptID, summary, at)
	if err != nil {
		return fmt.Errorf("mark transcript processed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
