package records

import "encoding/json"

// Retention caps applied during session ingestion.
const (
	MaxSessions            = 50
	MaxAccumulatedFiles    = 100
	MaxAccumulatedCommands = 50
	MaxSessionHistory      = 100
	MaxFilesReadPerSession = 10
)

// ProjectRecord is everything remembered about one project directory.
// Its file name is the project id derived from ProjectPath.
type ProjectRecord struct {
	ProjectPath         string                  `json:"project_path"`
	ProjectName         string                  `json:"project_name"`
	Sessions            []SessionRecord         `json:"sessions"`
	Context             map[string]ContextEntry `json:"context"`
	AccumulatedFiles    []string                `json:"accumulated_files"`
	AccumulatedCommands []string                `json:"accumulated_commands"`
	LastSession         string                  `json:"last_session,omitempty"`

	// CachedContent is written by older session hooks. It is kept as-is.
	CachedContent map[string]json.RawMessage `json:"cached_content"`
}

// SessionRecord describes one completed agent session.
type SessionRecord struct {
	SessionID     string   `json:"session_id"`
	EndTime       string   `json:"end_time"`
	FilesEdited   []string `json:"files_edited"`
	FilesRead     []string `json:"files_read"`
	CommandsCount int      `json:"commands_count"`
}

// ContextEntry is a keyed note stored against a project.
type ContextEntry struct {
	Value    string `json:"value"`
	Priority int    `json:"priority"`
	StoredAt string `json:"stored_at"`
}

// GlobalContext is the singleton record shared by every project.
type GlobalContext struct {
	AllProjects    map[string]ProjectIndexEntry `json:"all_projects"`
	GlobalCache    map[string]GlobalCacheEntry  `json:"global_cache"`
	SessionHistory []SessionSummary             `json:"session_history"`
}

// ProjectIndexEntry is the global index view of a project, rewritten on
// every session start and end.
type ProjectIndexEntry struct {
	Path              string `json:"path"`
	Name              string `json:"name"`
	LastAccessed      string `json:"last_accessed"`
	SessionCount      int    `json:"session_count"`
	TotalFilesTouched int    `json:"total_files_touched"`
}

// GlobalCacheEntry is a value visible from every project.
type GlobalCacheEntry struct {
	Value    string `json:"value"`
	StoredAt string `json:"stored_at"`
}

// SessionSummary is the condensed form of a session kept in the global
// history.
type SessionSummary struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	EndTime     string `json:"end_time"`
	FilesEdited int    `json:"files_edited"`
	CommandsRun int    `json:"commands_run"`
}

// PriorityEntry is content that is never removed by the system.
type PriorityEntry struct {
	Content     string `json:"content"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	StoredAt    string `json:"stored_at"`
	SizeChars   int    `json:"size_chars"`
}

// PriorityContent maps content ids to priority entries.
type PriorityContent map[string]PriorityEntry

// PlanEntry is a cached plan document.
type PlanEntry struct {
	Content   string `json:"content"`
	CachedAt  string `json:"cached_at"`
	SizeChars int    `json:"size_chars"`
}

// PlanCache maps plan names to cached plans.
type PlanCache map[string]PlanEntry

// CurrentSession is the scratch snapshot written when a session starts.
type CurrentSession struct {
	SessionStart    string                      `json:"session_start"`
	Cwd             string                      `json:"cwd"`
	ProjectID       string                      `json:"project_id"`
	ProjectSessions int                         `json:"project_sessions"`
	GlobalProjects  int                         `json:"global_projects"`
	ProjectContext  map[string]ContextEntry     `json:"project_context"`
	GlobalCache     map[string]GlobalCacheEntry `json:"global_cache"`
	AvailablePlans  []string                    `json:"available_plans"`
	Features        []string                    `json:"features"`
}

// fillDefaults replaces absent or null collections with empty ones so
// that callers never nil-check and saved files keep a stable shape.
func (p *ProjectRecord) fillDefaults() {
	if p.Sessions == nil {
		p.Sessions = []SessionRecord{}
	}
	for i := range p.Sessions {
		if p.Sessions[i].FilesEdited == nil {
			p.Sessions[i].FilesEdited = []string{}
		}
		if p.Sessions[i].FilesRead == nil {
			p.Sessions[i].FilesRead = []string{}
		}
	}
	if p.Context == nil {
		p.Context = map[string]ContextEntry{}
	}
	if p.AccumulatedFiles == nil {
		p.AccumulatedFiles = []string{}
	}
	if p.AccumulatedCommands == nil {
		p.AccumulatedCommands = []string{}
	}
	if p.CachedContent == nil {
		p.CachedContent = map[string]json.RawMessage{}
	}
}

func (g *GlobalContext) fillDefaults() {
	if g.AllProjects == nil {
		g.AllProjects = map[string]ProjectIndexEntry{}
	}
	if g.GlobalCache == nil {
		g.GlobalCache = map[string]GlobalCacheEntry{}
	}
	if g.SessionHistory == nil {
		g.SessionHistory = []SessionSummary{}
	}
}

func (c *CurrentSession) fillDefaults() {
	if c.ProjectContext == nil {
		c.ProjectContext = map[string]ContextEntry{}
	}
	if c.GlobalCache == nil {
		c.GlobalCache = map[string]GlobalCacheEntry{}
	}
	if c.AvailablePlans == nil {
		c.AvailablePlans = []string{}
	}
	if c.Features == nil {
		c.Features = []string{}
	}
}
