// Package records persists the context store's tiers as one JSON file per
// record under a single root directory.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/HendryAvila/context-store/internal/identity"
	"github.com/rs/zerolog"
	"github.com/tidwall/jsonc"
)

const (
	// ProjectsDir holds one file per project, named by project id.
	ProjectsDir = "projects"
	// GlobalContextFile is the singleton cross-project record.
	GlobalContextFile = "global_context.json"
	// PriorityFile holds priority content.
	PriorityFile = "permanent_cache.json"
	// PlansFile holds cached plans.
	PlansFile = "cached_plans.json"
	// CurrentSessionFile is the scratch snapshot written at session start.
	CurrentSessionFile = "current_session.json"
)

// ErrInvalidProjectID is returned when a project id is not a resolver id.
var ErrInvalidProjectID = errors.New("invalid project id")

// LoadState reports what a load found on disk.
type LoadState int

const (
	// StateMissing means the record has never been stored.
	StateMissing LoadState = iota
	// StateLoaded means the record was read and decoded.
	StateLoaded
	// StateCorrupt means the file exists but could not be read or decoded.
	// The caller receives an empty record.
	StateCorrupt
)

func (s LoadState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateLoaded:
		return "loaded"
	case StateCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// Store defines the persistence interface for every tier.
// Loads never fail: absent or damaged records come back empty.
type Store interface {
	LoadProject(projectID string) (*ProjectRecord, LoadState)
	SaveProject(projectID string, p *ProjectRecord) error
	LoadGlobal() (*GlobalContext, LoadState)
	SaveGlobal(g *GlobalContext) error
	LoadPriority() (PriorityContent, LoadState)
	SavePriority(p PriorityContent) error
	LoadPlans() (PlanCache, LoadState)
	SavePlans(p PlanCache) error
	SaveCurrentSession(c *CurrentSession) error
	ListProjectIDs() ([]string, error)
	CorruptRecords() int
}

// FileStore implements Store on the local filesystem.
type FileStore struct {
	root   string
	logger zerolog.Logger

	mu      sync.Mutex
	corrupt map[string]struct{} // paths whose last read failed
}

// NewFileStore creates a store rooted at root. Directories are created
// lazily on the first save.
func NewFileStore(root string, logger zerolog.Logger) *FileStore {
	return &FileStore{root: root, logger: logger, corrupt: map[string]struct{}{}}
}

// Root returns the store's root directory.
func (fs *FileStore) Root() string {
	return fs.root
}

// ProjectPath returns the file backing a project record.
func (fs *FileStore) ProjectPath(projectID string) string {
	return filepath.Join(fs.root, ProjectsDir, projectID+".json")
}

// GlobalPath returns the file backing the global context.
func (fs *FileStore) GlobalPath() string {
	return filepath.Join(fs.root, GlobalContextFile)
}

// PriorityPath returns the file backing priority content.
func (fs *FileStore) PriorityPath() string {
	return filepath.Join(fs.root, PriorityFile)
}

// PlansPath returns the file backing the plan cache.
func (fs *FileStore) PlansPath() string {
	return filepath.Join(fs.root, PlansFile)
}

// CurrentSessionPath returns the scratch session file.
func (fs *FileStore) CurrentSessionPath() string {
	return filepath.Join(fs.root, CurrentSessionFile)
}

// LoadProject reads a project record. An id that is not a resolver id
// never touches the filesystem and loads as missing.
func (fs *FileStore) LoadProject(projectID string) (*ProjectRecord, LoadState) {
	var p ProjectRecord
	if !identity.Valid(projectID) {
		fs.logger.Debug().Str("project_id", projectID).Msg("rejecting invalid project id")
		p.fillDefaults()
		return &p, StateMissing
	}
	state := readRecord(fs, fs.ProjectPath(projectID), &p)
	p.fillDefaults()
	return &p, state
}

// SaveProject writes a project record.
func (fs *FileStore) SaveProject(projectID string, p *ProjectRecord) error {
	if !identity.Valid(projectID) {
		return fmt.Errorf("%w: %q", ErrInvalidProjectID, projectID)
	}
	p.fillDefaults()
	return fs.writeRecord(fs.ProjectPath(projectID), p)
}

// LoadGlobal reads the global context.
func (fs *FileStore) LoadGlobal() (*GlobalContext, LoadState) {
	var g GlobalContext
	state := readRecord(fs, fs.GlobalPath(), &g)
	g.fillDefaults()
	return &g, state
}

// SaveGlobal writes the global context.
func (fs *FileStore) SaveGlobal(g *GlobalContext) error {
	g.fillDefaults()
	return fs.writeRecord(fs.GlobalPath(), g)
}

// LoadPriority reads priority content.
func (fs *FileStore) LoadPriority() (PriorityContent, LoadState) {
	var p PriorityContent
	state := readRecord(fs, fs.PriorityPath(), &p)
	if p == nil {
		p = PriorityContent{}
	}
	return p, state
}

// SavePriority writes priority content.
func (fs *FileStore) SavePriority(p PriorityContent) error {
	if p == nil {
		p = PriorityContent{}
	}
	return fs.writeRecord(fs.PriorityPath(), p)
}

// LoadPlans reads the plan cache.
func (fs *FileStore) LoadPlans() (PlanCache, LoadState) {
	var p PlanCache
	state := readRecord(fs, fs.PlansPath(), &p)
	if p == nil {
		p = PlanCache{}
	}
	return p, state
}

// SavePlans writes the plan cache.
func (fs *FileStore) SavePlans(p PlanCache) error {
	if p == nil {
		p = PlanCache{}
	}
	return fs.writeRecord(fs.PlansPath(), p)
}

// SaveCurrentSession writes the session-start scratch file.
func (fs *FileStore) SaveCurrentSession(c *CurrentSession) error {
	c.fillDefaults()
	return fs.writeRecord(fs.CurrentSessionPath(), c)
}

// ListProjectIDs returns the ids of all project records on disk, sorted.
// Files not named by a resolver id are skipped. A missing projects
// directory is not an error.
func (fs *FileStore) ListProjectIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fs.root, ProjectsDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading projects directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := name[:len(name)-len(".json")]
		if !identity.Valid(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CorruptRecords returns how many distinct record files were found damaged
// and have not since been read cleanly or rewritten. Reading the same
// damaged file again does not change the count.
func (fs *FileStore) CorruptRecords() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.corrupt)
}

// readRecord decodes path into v. Comments and trailing commas are
// accepted. On any failure v is reset to its zero value.
func readRecord[T any](fs *FileStore, path string, v *T) LoadState {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fs.clearCorrupt(path)
			return StateMissing
		}
		fs.markCorrupt(path, fmt.Errorf("reading record: %w", err))
		return StateCorrupt
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		var zero T
		*v = zero
		fs.markCorrupt(path, fmt.Errorf("parsing record: %w", err))
		return StateCorrupt
	}
	fs.clearCorrupt(path)
	return StateLoaded
}

func (fs *FileStore) markCorrupt(path string, err error) {
	fs.mu.Lock()
	fs.corrupt[path] = struct{}{}
	n := len(fs.corrupt)
	fs.mu.Unlock()

	fs.logger.Warn().
		Err(err).
		Str("path", path).
		Int("corrupt_records", n).
		Msg("unreadable record, using empty defaults")
}

func (fs *FileStore) clearCorrupt(path string) {
	fs.mu.Lock()
	delete(fs.corrupt, path)
	fs.mu.Unlock()
}

// writeRecord encodes v and replaces path atomically via a temp file in
// the same directory.
func (fs *FileStore) writeRecord(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	fs.clearCorrupt(path)

	fs.logger.Debug().Str("path", path).Int("bytes", buf.Len()).Msg("record saved")
	return nil
}
