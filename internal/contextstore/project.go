package contextstore

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/context-store/internal/identity"
	"github.com/HendryAvila/context-store/internal/records"
)

// StoreProjectContext upserts key in the current project's context.
func (s *Service) StoreProjectContext(key, value string, priority int) (string, error) {
	p := s.loadCurrentProject()
	p.Context[key] = records.ContextEntry{
		Value:    value,
		Priority: priority,
		StoredAt: records.Now(),
	}
	if err := s.store.SaveProject(s.projectID, p); err != nil {
		return "", saveErr("project context", err)
	}

	s.logger.Debug().Str("project", s.projectID).Str("key", key).Msg("project context stored")
	return fmt.Sprintf("Stored '%s' in project %s (priority %d)", key, s.projectName, priority), nil
}

// GetProjectContext returns one value of the current project, or a listing
// of all keys when key is empty.
func (s *Service) GetProjectContext(key string) string {
	p, _ := s.store.LoadProject(s.projectID)
	if key != "" {
		if e, ok := p.Context[key]; ok {
			return e.Value
		}
		return "Not found: " + key
	}
	if len(p.Context) == 0 {
		return "No project context stored"
	}
	return listContext(p.Context)
}

// ListAllProjects renders the global project index.
func (s *Service) ListAllProjects() string {
	g, _ := s.store.LoadGlobal()
	if len(g.AllProjects) == 0 {
		return "No projects tracked yet"
	}

	lines := []string{"Known Projects:"}
	for _, id := range sortedKeys(g.AllProjects) {
		info := g.AllProjects[id]
		lines = append(lines, fmt.Sprintf("  [%s] %s - %s (%d sessions)", id, info.Name, info.Path, info.SessionCount))
	}
	return strings.Join(lines, "\n")
}

// GetOtherProjectContext reads context from any project by id.
func (s *Service) GetOtherProjectContext(projectID, key string) string {
	if !identity.Valid(projectID) {
		return fmt.Sprintf("Project %s not found", projectID)
	}
	p, state := s.store.LoadProject(projectID)
	if state != records.StateLoaded {
		return fmt.Sprintf("Project %s not found", projectID)
	}
	if key != "" {
		if e, ok := p.Context[key]; ok {
			return e.Value
		}
		return fmt.Sprintf("Key '%s' not found in project %s", key, projectID)
	}
	if len(p.Context) == 0 {
		return fmt.Sprintf("No context in project %s", projectID)
	}
	return listContext(p.Context)
}

func listContext(ctx map[string]records.ContextEntry) string {
	lines := make([]string, 0, len(ctx))
	for _, k := range sortedKeys(ctx) {
		lines = append(lines, fmt.Sprintf("[%s]: %s", k, Truncate(ctx[k].Value, ListValueChars)))
	}
	return strings.Join(lines, "\n")
}

// Project loads the current project's record. ok is false when no readable
// record exists yet.
func (s *Service) Project() (p *records.ProjectRecord, ok bool) {
	p, state := s.store.LoadProject(s.projectID)
	return p, state == records.StateLoaded
}
