// Package contextstore implements the context store operations: project,
// global, plan and priority tiers, session history, and session ingestion.
//
// Every operation is a fresh load, mutate, save cycle against a
// records.Store. No record state is kept between calls, so several
// processes may share one store directory (last writer wins).
package contextstore

import (
	"fmt"
	"sort"

	"github.com/HendryAvila/context-store/internal/identity"
	"github.com/HendryAvila/context-store/internal/records"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Display limits.
const (
	// ListValueChars is how much of each value a key listing shows.
	ListValueChars = 100
	// DefaultHistoryLimit is used when get_session_history gets no limit.
	DefaultHistoryLimit = 20
	// ProjectSessionsShown is how many sessions get_project_sessions lists.
	ProjectSessionsShown = 20
	// DefaultContextPriority is the priority of a project note when none is given.
	DefaultContextPriority = 5
	// PriorityLevel is stamped on every priority entry.
	PriorityLevel = 10
)

// Service runs store operations on behalf of one project directory.
type Service struct {
	store       records.Store
	logger      zerolog.Logger
	projectPath string
	projectID   string
	projectName string
}

// New binds a Service to the project at projectPath.
func New(store records.Store, projectPath string, logger zerolog.Logger) *Service {
	path := identity.Normalize(projectPath)
	return &Service{
		store:       store,
		logger:      logger,
		projectPath: path,
		projectID:   identity.Resolve(path),
		projectName: identity.Name(path),
	}
}

// ProjectID returns the current project's id.
func (s *Service) ProjectID() string { return s.projectID }

// ProjectName returns the current project's display name.
func (s *Service) ProjectName() string { return s.projectName }

// ProjectPath returns the current project's absolute path.
func (s *Service) ProjectPath() string { return s.projectPath }

// loadCurrentProject loads this project's record and stamps its identity
// fields when the record is new.
func (s *Service) loadCurrentProject() *records.ProjectRecord {
	p, _ := s.store.LoadProject(s.projectID)
	if p.ProjectPath == "" {
		p.ProjectPath = s.projectPath
	}
	if p.ProjectName == "" {
		p.ProjectName = s.projectName
	}
	return p
}

// Truncate shortens s to max characters, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// CharCount is the size annotation stored as size_chars.
func CharCount(s string) int {
	return len([]rune(s))
}

func formatChars(n int) string {
	return humanize.Comma(int64(n))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func saveErr(what string, err error) error {
	return fmt.Errorf("saving %s: %w", what, err)
}
