package processor

// Outcome is the single result record returned to the caller for one
// processing invocation. The unmatched counters expose how much of the
// extraction was silently dropped during resolution, so callers can detect
// degraded extraction quality.
type Outcome struct {
	Success            bool    `json:"success"`
	Summary            string  `json:"summary,omitempty"`
	TasksCreated       int     `json:"tasks_created"`
	TasksUpdated       int     `json:"tasks_updated"`
	CreatedTaskIDs     []int64 `json:"created_task_ids,omitempty"`
	UpdatedTaskIDs     []int64 `json:"updated_task_ids,omitempty"`
	UnmatchedAssignees int     `json:"unmatched_assignees,omitempty"`
	UnmatchedTasks     int     `json:"unmatched_tasks,omitempty"`
	Error              string  `json:"error,omitempty"`
}

func failure(err error) Outcome {
	return Outcome{Error: err.Error()}
}
