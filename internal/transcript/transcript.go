// Package transcript extracts edited files, read files, shell commands and
// error notes from an agent session transcript (JSON lines).
package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Limits applied to an extraction.
const (
	MaxCommandChars = 100
	MaxCommands     = 20
	MaxSnippetChars = 200
	MaxSnippets     = 10
)

// Extraction is what a session transcript tells us about the session.
// Every list is distinct and in order of first appearance.
type Extraction struct {
	FilesEdited []string `json:"files_edited"`
	FilesRead   []string `json:"files_read"`
	CommandsRun []string `json:"commands_run"`
	ErrorsFixed []string `json:"errors_fixed"`
}

// entry is the subset of a transcript line we inspect. Tool activity
// appears either at the top level or nested in message.content.
type entry struct {
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Input   json.RawMessage `json:"input"`
	Content json.RawMessage `json:"content"`
	Message *struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type toolInput struct {
	FilePath     string `json:"file_path"`
	NotebookPath string `json:"notebook_path"`
	Command      string `json:"command"`
}

// Extract reads the transcript at path. A missing or unreadable file
// yields an empty extraction.
func Extract(path string) Extraction {
	if path == "" {
		return newExtraction()
	}
	f, err := os.Open(path)
	if err != nil {
		return newExtraction()
	}
	defer f.Close()

	ex, _ := Read(f)
	return ex
}

// Read extracts from r. Malformed lines are skipped. The error reports a
// failed read; whatever was extracted before it is still returned.
func Read(r io.Reader) (Extraction, error) {
	c := newCollector()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			c.line([]byte(trimmed))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return c.result(), fmt.Errorf("reading transcript: %w", err)
		}
	}
	return c.result(), nil
}

func newExtraction() Extraction {
	return Extraction{
		FilesEdited: []string{},
		FilesRead:   []string{},
		CommandsRun: []string{},
		ErrorsFixed: []string{},
	}
}

type collector struct {
	edited, read, commands, snippets orderedSet
}

func newCollector() *collector {
	return &collector{
		edited:   newOrderedSet(0),
		read:     newOrderedSet(0),
		commands: newOrderedSet(MaxCommands),
		snippets: newOrderedSet(MaxSnippets),
	}
}

func (c *collector) result() Extraction {
	ex := newExtraction()
	ex.FilesEdited = append(ex.FilesEdited, c.edited.items...)
	ex.FilesRead = append(ex.FilesRead, c.read.items...)
	ex.CommandsRun = append(ex.CommandsRun, c.commands.items...)
	ex.ErrorsFixed = append(ex.ErrorsFixed, c.snippets.items...)
	return ex
}

func (c *collector) line(data []byte) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return
	}
	c.entry(e)

	if e.Message == nil || len(e.Message.Content) == 0 {
		return
	}
	var nested []entry
	if err := json.Unmarshal(e.Message.Content, &nested); err != nil {
		return
	}
	for _, n := range nested {
		c.entry(n)
	}
}

func (c *collector) entry(e entry) {
	switch e.Type {
	case "tool_use":
		c.toolUse(e.Name, e.Input)
	case "tool_result":
		c.toolResult(e.Content)
	}
}

func (c *collector) toolUse(name string, raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var in toolInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return
	}

	switch name {
	case "Edit", "Write", "MultiEdit":
		c.edited.add(in.FilePath)
	case "NotebookEdit":
		path := in.NotebookPath
		if path == "" {
			path = in.FilePath
		}
		c.edited.add(path)
	case "Read":
		c.read.add(in.FilePath)
	case "Bash":
		c.commands.add(truncateRunes(in.Command, MaxCommandChars))
	}
}

func (c *collector) toolResult(raw json.RawMessage) {
	text := resultText(raw)
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "error") && !strings.Contains(lower, "fix") {
		return
	}
	c.snippets.add(truncateRunes(text, MaxSnippetChars))
}

// resultText flattens tool_result content, which is either a string or a
// list of content blocks.
func resultText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err == nil {
		parts := make([]string, 0, len(blocks))
		for _, b := range blocks {
			if b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
		return strings.Join(parts, "\n")
	}
	return string(raw)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// orderedSet keeps distinct non-empty strings in insertion order, up to
// an optional limit (0 means unlimited).
type orderedSet struct {
	items []string
	seen  map[string]struct{}
	limit int
}

func newOrderedSet(limit int) orderedSet {
	return orderedSet{seen: map[string]struct{}{}, limit: limit}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	if s.limit > 0 && len(s.items) >= s.limit {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
