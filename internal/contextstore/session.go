package contextstore

import (
	"github.com/HendryAvila/context-store/internal/records"
	"github.com/HendryAvila/context-store/internal/transcript"
)

// Features advertised in the session-start snapshot.
var Features = []string{
	"per_project_context",
	"multi_session_support",
	"cross_folder_access",
	"priority_caching",
}

// SessionSummary reports what EndSession recorded.
type SessionSummary struct {
	ProjectName  string
	FilesEdited  int
	CommandsRun  int
	SessionCount int
}

// StartSession refreshes the project's entry in the global index and writes
// the current-session snapshot. plans lists plan documents available to
// the agent.
func (s *Service) StartSession(plans []string) (*records.CurrentSession, error) {
	p := s.loadCurrentProject()
	g, _ := s.store.LoadGlobal()

	now := records.Now()
	g.AllProjects[s.projectID] = s.indexEntry(p, now)

	current := &records.CurrentSession{
		SessionStart:    now,
		Cwd:             s.projectPath,
		ProjectID:       s.projectID,
		ProjectSessions: len(p.Sessions),
		GlobalProjects:  len(g.AllProjects),
		ProjectContext:  p.Context,
		GlobalCache:     g.GlobalCache,
		AvailablePlans:  plans,
		Features:        append([]string(nil), Features...),
	}

	if err := s.store.SaveCurrentSession(current); err != nil {
		return nil, saveErr("current session", err)
	}
	if err := s.store.SaveGlobal(g); err != nil {
		return nil, saveErr("global context", err)
	}

	s.logger.Debug().
		Str("project", s.projectID).
		Int("sessions", current.ProjectSessions).
		Int("projects", current.GlobalProjects).
		Msg("session started")
	return current, nil
}

// EndSession merges one finished session into the project record and the
// global context. The project record is saved before the global one.
func (s *Service) EndSession(sessionID string, ex transcript.Extraction) (*SessionSummary, error) {
	p := s.loadCurrentProject()
	now := records.Now()

	filesRead := cloneStrings(ex.FilesRead)
	if len(filesRead) > records.MaxFilesReadPerSession {
		filesRead = filesRead[:records.MaxFilesReadPerSession]
	}
	p.Sessions = append(p.Sessions, records.SessionRecord{
		SessionID:     sessionID,
		EndTime:       now,
		FilesEdited:   cloneStrings(ex.FilesEdited),
		FilesRead:     filesRead,
		CommandsCount: len(ex.CommandsRun),
	})
	p.Sessions = lastN(p.Sessions, records.MaxSessions)
	p.LastSession = now

	p.AccumulatedFiles = lastN(appendDistinct(p.AccumulatedFiles, ex.FilesEdited), records.MaxAccumulatedFiles)
	p.AccumulatedCommands = lastN(appendDistinct(p.AccumulatedCommands, ex.CommandsRun), records.MaxAccumulatedCommands)

	if err := s.store.SaveProject(s.projectID, p); err != nil {
		return nil, saveErr("project record", err)
	}

	g, _ := s.store.LoadGlobal()
	g.AllProjects[s.projectID] = s.indexEntry(p, now)
	g.SessionHistory = append(g.SessionHistory, records.SessionSummary{
		ProjectID:   s.projectID,
		ProjectName: s.projectName,
		EndTime:     now,
		FilesEdited: len(ex.FilesEdited),
		CommandsRun: len(ex.CommandsRun),
	})
	g.SessionHistory = lastN(g.SessionHistory, records.MaxSessionHistory)

	if err := s.store.SaveGlobal(g); err != nil {
		return nil, saveErr("global context", err)
	}

	s.logger.Info().
		Str("project", s.projectID).
		Str("session_id", sessionID).
		Int("files_edited", len(ex.FilesEdited)).
		Int("commands", len(ex.CommandsRun)).
		Msg("session saved")

	return &SessionSummary{
		ProjectName:  s.projectName,
		FilesEdited:  len(ex.FilesEdited),
		CommandsRun:  len(ex.CommandsRun),
		SessionCount: len(p.Sessions),
	}, nil
}

func (s *Service) indexEntry(p *records.ProjectRecord, now string) records.ProjectIndexEntry {
	return records.ProjectIndexEntry{
		Path:              s.projectPath,
		Name:              s.projectName,
		LastAccessed:      now,
		SessionCount:      len(p.Sessions),
		TotalFilesTouched: len(p.AccumulatedFiles),
	}
}

// appendDistinct appends the values of add not already in dst, keeping
// order of first appearance. Empty strings are skipped.
func appendDistinct(dst, add []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(add))
	out := make([]string, 0, len(dst)+len(add))
	for _, v := range dst {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range add {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// cloneStrings returns a non-nil copy of s.
func cloneStrings(s []string) []string {
	return append([]string{}, s...)
}
