// Package resolver maps extracted human-readable references onto known
// identifiers. Unmatched references are a quality signal, not an error.
package resolver

import (
	"strings"

	"github.com/scribehq/scribe/internal/domain"
)

// Assignee resolves a name against the roster case-insensitively. The first
// match in roster order wins. ok is false when nothing matches; the task is
// then left unassigned.
func Assignee(roster []domain.User, name string) (int64, bool) {
	if name == "" {
		return 0, false
	}
	for _, u := range roster {
		if strings.EqualFold(u.Name, name) {
			return u.ID, true
		}
	}
	return 0, false
}
