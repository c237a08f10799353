package extractor

import (
	"errors"
	"testing"

	"github.com/scribehq/scribe/internal/domain"
)

func TestParse_Valid(t *testing.T) {
	raw := `{
		"summary": "Alice to fix login bug",
		"new_tasks": [
			{"title": "Fix login bug", "description": "auth flow broken", "assignee_name": "alice", "priority": "high", "due_date": null}
		],
		"task_updates": [
			{"task_id": 12, "action": "completed", "note": "done in sprint 4"}
		]
	}`

	ex, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Summary != "Alice to fix login bug" {
		t.Errorf("unexpected summary %q", ex.Summary)
	}
	if len(ex.NewTasks) != 1 || ex.NewTasks[0].Priority != domain.PriorityHigh {
		t.Errorf("unexpected new tasks: %+v", ex.NewTasks)
	}
	if ex.NewTasks[0].DueDate != nil {
		t.Errorf("expected nil due date, got %v", *ex.NewTasks[0].DueDate)
	}
	if len(ex.TaskUpdates) != 1 || ex.TaskUpdates[0].TaskID != 12 {
		t.Errorf("unexpected task updates: %+v", ex.TaskUpdates)
	}
}

func TestParse_AbsentKeysDefaultEmpty(t *testing.T) {
	ex, err := Parse(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Summary != "" {
		t.Errorf("expected empty summary, got %q", ex.Summary)
	}
	if len(ex.NewTasks) != 0 || len(ex.TaskUpdates) != 0 {
		t.Errorf("expected empty batches, got %+v", ex)
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(`this is not json`)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParse_WrongShapedKeys(t *testing.T) {
	for name, raw := range map[string]string{
		"summary not string":    `{"summary": 42}`,
		"new_tasks not array":   `{"new_tasks": {"title": "x"}}`,
		"task_updates not list": `{"task_updates": "nope"}`,
		"top level array":       `[1, 2, 3]`,
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestParse_MissingTitleFailsBatch(t *testing.T) {
	raw := `{"new_tasks": [
		{"title": "valid one", "priority": "low"},
		{"title": "   ", "priority": "high"}
	]}`

	_, err := Parse(raw)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for blank title, got %v", err)
	}
}

func TestParse_PriorityNormalization(t *testing.T) {
	cases := map[string]domain.TaskPriority{
		"low":      domain.PriorityLow,
		"URGENT":   domain.PriorityUrgent,
		"High":     domain.PriorityHigh,
		" medium ": domain.PriorityMedium,
		"critical": domain.PriorityMedium, // unrecognized falls back
		"":         domain.PriorityMedium,
	}

	for in, want := range cases {
		ex, err := Parse(`{"new_tasks": [{"title": "t", "priority": "` + in + `"}]}`)
		if err != nil {
			t.Fatalf("priority %q: unexpected error: %v", in, err)
		}
		if got := ex.NewTasks[0].Priority; got != want {
			t.Errorf("priority %q: expected %s, got %s", in, want, got)
		}
	}
}
