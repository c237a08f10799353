package extractor

import (
	"fmt"
	"strings"

	"github.com/scribehq/scribe/internal/domain"
)

const systemPrompt = `You are a helpful assistant that extracts actionable items from meeting transcripts.`

const instructionBlock = `Please analyze this transcript and provide:

1. A concise meeting summary (2-3 sentences)
2. New action items/tasks that should be created
3. Any updates or completions to existing tasks mentioned

Return your response as a JSON object with this structure:
{
  "summary": "Brief meeting summary",
  "new_tasks": [
    {
      "title": "Task title",
      "description": "Task description",
      "assignee_name": "Name of person assigned (or null)",
      "priority": "low|medium|high|urgent",
      "due_date": "YYYY-MM-DD or null"
    }
  ],
  "task_updates": [
    {
      "task_id": 123,
      "action": "completed|updated|blocked",
      "note": "Description of what changed"
    }
  ]
}

Be specific and extract only clearly actionable items. If someone is assigned a task, use their exact name from the team members list.`

// BuildPrompt assembles the extraction prompt from the transcript, the user
// roster and a snapshot of currently open tasks. The transcript text is
// included verbatim, never truncated or re-encoded; the caller caps the task
// snapshot.
func BuildPrompt(transcript string, roster []domain.User, openTasks []domain.Task) string {
	names := make(map[int64]string, len(roster))
	for _, u := range roster {
		names[u.ID] = u.Name
	}

	var b strings.Builder

	b.WriteString("Available Team Members:\n")
	if len(roster) == 0 {
		b.WriteString("No team members\n")
	}
	for _, u := range roster {
		fmt.Fprintf(&b, "- %s (ID: %d)\n", u.Name, u.ID)
	}

	b.WriteString("\nCurrent Active Tasks:\n")
	if len(openTasks) == 0 {
		b.WriteString("No active tasks\n")
	}
	for _, t := range openTasks {
		assignee := "Unassigned"
		if t.AssigneeID != nil {
			if name, ok := names[*t.AssigneeID]; ok {
				assignee = name
			}
		}
		fmt.Fprintf(&b, "- Task #%d: %s (Status: %s, Assigned to: %s)\n", t.ID, t.Title, t.Status, assignee)
	}

	b.WriteString("\nMeeting Transcript:\n")
	b.WriteString(transcript)
	b.WriteString("\n\n")
	b.WriteString(instructionBlock)

	return b.String()
}
