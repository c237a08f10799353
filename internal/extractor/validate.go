package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/scribehq/scribe/internal/domain"
)

// ErrMalformed marks a model response that could not be parsed into the
// expected extraction shape.
var ErrMalformed = errors.New("malformed extraction")

// Parse validates raw model output. Absent keys default to empty; wrong-shaped
// keys fail the whole batch, as does any new-task entry without a title.
// Priorities are normalized case-insensitively, falling back to medium.
func Parse(raw string) (*Extraction, error) {
	var ex Extraction
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	for i := range ex.NewTasks {
		if strings.TrimSpace(ex.NewTasks[i].Title) == "" {
			return nil, fmt.Errorf("%w: new_tasks[%d] missing title", ErrMalformed, i)
		}
		ex.NewTasks[i].Priority = normalizePriority(string(ex.NewTasks[i].Priority))
	}

	return &ex, nil
}

func normalizePriority(s string) domain.TaskPriority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return domain.PriorityLow
	case "medium":
		return domain.PriorityMedium
	case "high":
		return domain.PriorityHigh
	case "urgent":
		return domain.PriorityUrgent
	default:
		return domain.PriorityMedium
	}
}
