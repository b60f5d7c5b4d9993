package contextstore

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/context-store/internal/identity"
)

// GetSessionHistory lists the last limit global session summaries, oldest
// first. A non-positive limit means DefaultHistoryLimit.
func (s *Service) GetSessionHistory(limit int) string {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	g, _ := s.store.LoadGlobal()
	history := lastN(g.SessionHistory, limit)
	if len(history) == 0 {
		return "No session history"
	}

	lines := make([]string, 0, len(history))
	for _, h := range history {
		lines = append(lines, fmt.Sprintf("- %s: %s", h.EndTime, h.ProjectName))
	}
	return strings.Join(lines, "\n")
}

// GetProjectSessions lists the last sessions of projectID, or of the
// current project when projectID is empty.
func (s *Service) GetProjectSessions(projectID string) string {
	if projectID == "" {
		projectID = s.projectID
	}
	if !identity.Valid(projectID) {
		return "No sessions for this project"
	}
	p, _ := s.store.LoadProject(projectID)
	if len(p.Sessions) == 0 {
		return "No sessions for this project"
	}

	name := p.ProjectName
	if name == "" {
		name = "unknown"
	}
	lines := []string{"Project: " + name}
	for _, sess := range lastN(p.Sessions, ProjectSessionsShown) {
		lines = append(lines, "- "+sess.EndTime)
	}
	return strings.Join(lines, "\n")
}

// lastN returns the trailing n elements of s.
func lastN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
