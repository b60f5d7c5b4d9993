// Package hooks implements the agent session hooks: session start, session
// end, and the context banner shown when a session opens. Each hook reads
// one JSON object from stdin and writes one JSON reply to stdout.
package hooks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HendryAvila/context-store/internal/contextstore"
	"github.com/HendryAvila/context-store/internal/identity"
	"github.com/HendryAvila/context-store/internal/records"
	"github.com/HendryAvila/context-store/internal/transcript"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event names a hook.
type Event string

const (
	EventSessionStart Event = "session-start"
	EventSessionEnd   Event = "session-end"
	EventShowContext  Event = "show-context"
)

// Display limits for the show-context banner and plan listing.
const (
	MaxPlansListed     = 10
	RecentFilesShown   = 10
	CommandsShown      = 5
	CommandChars       = 80
	PriorityPreview    = 200
	BannerNameChars    = 40
	NewBannerNameChars = 44
)

// Input is the JSON object a hook receives on stdin.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	Cwd            string `json:"cwd"`
	HookEventName  string `json:"hook_event_name,omitempty"`
}

// Output is the JSON object a hook writes to stdout.
type Output struct {
	Continue bool   `json:"continue"`
	Message  string `json:"message"`
}

// ReadInput decodes hook input. Empty or malformed input yields a zero
// Input so the hook still runs.
func ReadInput(r io.Reader, logger zerolog.Logger) Input {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil && err != io.EOF {
		logger.Warn().Err(err).Msg("ignoring malformed hook input")
		return Input{}
	}
	return in
}

// Write encodes o as a single JSON line.
func (o Output) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("writing hook output: %w", err)
	}
	return nil
}

// Runner executes hooks against a store.
type Runner struct {
	Store    records.Store
	PlansDir string
	Logger   zerolog.Logger
	// Getwd resolves the project directory when the input carries no cwd.
	// Defaults to os.Getwd.
	Getwd func() (string, error)
}

// Run reads input from r, runs the hook named by event, and writes the
// reply to w.
func (rn *Runner) Run(event Event, r io.Reader, w io.Writer) error {
	in := ReadInput(r, rn.Logger)

	var (
		out Output
		err error
	)
	switch event {
	case EventSessionStart:
		out, err = rn.SessionStart(in)
	case EventSessionEnd:
		out, err = rn.SessionEnd(in)
	case EventShowContext:
		out, err = rn.ShowContext(in)
	default:
		return fmt.Errorf("unknown hook %q", event)
	}
	if err != nil {
		return err
	}
	return out.Write(w)
}

// SessionStart registers the project in the global index and writes the
// current-session snapshot.
func (rn *Runner) SessionStart(in Input) (Output, error) {
	svc, err := rn.service(in)
	if err != nil {
		return Output{}, err
	}

	cur, err := svc.StartSession(rn.availablePlans())
	if err != nil {
		return Output{}, fmt.Errorf("starting session: %w", err)
	}
	return Output{
		Continue: true,
		Message: fmt.Sprintf("Project: %s | Sessions: %d | Projects: %d",
			svc.ProjectName(), cur.ProjectSessions, cur.GlobalProjects),
	}, nil
}

// SessionEnd extracts the transcript and merges the session into the store.
func (rn *Runner) SessionEnd(in Input) (Output, error) {
	svc, err := rn.service(in)
	if err != nil {
		return Output{}, err
	}

	ex := transcript.Extract(in.TranscriptPath)
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sum, err := svc.EndSession(sessionID, ex)
	if err != nil {
		return Output{}, fmt.Errorf("ending session: %w", err)
	}
	return Output{
		Continue: true,
		Message: fmt.Sprintf("Session saved: %d files edited, %d commands | Project: %s",
			sum.FilesEdited, sum.CommandsRun, sum.ProjectName),
	}, nil
}

// ShowContext renders accumulated project data and matching priority
// content inside a banner.
func (rn *Runner) ShowContext(in Input) (Output, error) {
	svc, err := rn.service(in)
	if err != nil {
		return Output{}, err
	}

	var sections []string
	if p, ok := svc.Project(); ok {
		sections = append(sections, fmt.Sprintf("Sessions: %d | Files touched: %d", len(p.Sessions), len(p.AccumulatedFiles)))
		if len(p.AccumulatedFiles) > 0 {
			sections = append(sections, "\nRecent files:")
			for _, f := range tail(p.AccumulatedFiles, RecentFilesShown) {
				sections = append(sections, "  - "+f)
			}
		}
		if len(p.AccumulatedCommands) > 0 {
			sections = append(sections, "\nCommon commands:")
			for _, c := range tail(p.AccumulatedCommands, CommandsShown) {
				sections = append(sections, "  $ "+cut(c, CommandChars))
			}
		}
	}

	ids, pc := svc.MatchPriority(svc.ProjectName(), identity.ParentName(svc.ProjectPath()))
	if len(ids) > 0 {
		var lines []string
		for _, id := range ids {
			e := pc[id]
			desc := e.Description
			if desc == "" {
				desc = "N/A"
			}
			lines = append(lines, "\n[PRIORITY] "+id, "  "+desc, "  "+contextstore.Truncate(e.Content, PriorityPreview))
		}
		sections = append(sections, "\n"+strings.Join(lines, "\n"))
	}

	return Output{Continue: true, Message: banner(svc.ProjectName(), sections)}, nil
}

func banner(name string, sections []string) string {
	rule := strings.Repeat("═", 60)
	if len(sections) == 0 {
		return fmt.Sprintf("\n╔%s╗\n║  NEW PROJECT: %-44s ║\n║  %-58s║\n╚%s╝\n",
			rule, cut(name, NewBannerNameChars), "Context will accumulate as you work.", rule)
	}
	return fmt.Sprintf("\n╔%s╗\n║  PROJECT CONTEXT: %-40s ║\n╚%s╝\n%s\n",
		rule, cut(name, BannerNameChars), rule, strings.Join(sections, "\n"))
}

func (rn *Runner) service(in Input) (*contextstore.Service, error) {
	cwd := in.Cwd
	if cwd == "" {
		getwd := rn.Getwd
		if getwd == nil {
			getwd = os.Getwd
		}
		var err error
		if cwd, err = getwd(); err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
	}
	return contextstore.New(rn.Store, cwd, rn.Logger), nil
}

// availablePlans lists up to MaxPlansListed of the most recently modified
// markdown plans, oldest first.
func (rn *Runner) availablePlans() []string {
	if rn.PlansDir == "" {
		return []string{}
	}
	matches, err := filepath.Glob(filepath.Join(rn.PlansDir, "*.md"))
	if err != nil {
		return []string{}
	}

	type plan struct {
		name    string
		modUnix int64
	}
	plans := make([]plan, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		plans = append(plans, plan{name: filepath.Base(m), modUnix: info.ModTime().UnixNano()})
	}
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].modUnix != plans[j].modUnix {
			return plans[i].modUnix < plans[j].modUnix
		}
		return plans[i].name < plans[j].name
	})

	names := make([]string, 0, MaxPlansListed)
	for _, p := range tail(plans, MaxPlansListed) {
		names = append(names, p.name)
	}
	return names
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// cut shortens s to max characters without a marker.
func cut(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
