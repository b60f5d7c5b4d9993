package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestExtract_MissingFile(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "nope.jsonl")} {
		ex := Extract(path)
		if ex.FilesEdited == nil || len(ex.FilesEdited) != 0 || len(ex.CommandsRun) != 0 {
			t.Errorf("Extract(%q) = %+v, want empty", path, ex)
		}
	}
}

func TestExtract_TopLevelToolUse(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"tool_use","name":"Edit","input":{"file_path":"/p/a.go"}}`,
		`{"type":"tool_use","name":"Write","input":{"file_path":"/p/b.go"}}`,
		`{"type":"tool_use","name":"Edit","input":{"file_path":"/p/a.go"}}`,
		`{"type":"tool_use","name":"Read","input":{"file_path":"/p/c.go"}}`,
		`{"type":"tool_use","name":"Bash","input":{"command":"go test ./..."}}`,
		`{"type":"tool_use","name":"Bash","input":{"command":"go test ./..."}}`,
		`{"type":"tool_use","name":"Grep","input":{"pattern":"x"}}`,
	)

	ex := Extract(path)
	if !equal(ex.FilesEdited, []string{"/p/a.go", "/p/b.go"}) {
		t.Errorf("FilesEdited = %v", ex.FilesEdited)
	}
	if !equal(ex.FilesRead, []string{"/p/c.go"}) {
		t.Errorf("FilesRead = %v", ex.FilesRead)
	}
	if !equal(ex.CommandsRun, []string{"go test ./..."}) {
		t.Errorf("CommandsRun = %v", ex.CommandsRun)
	}
}

func TestExtract_NestedMessageContent(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"hi"},{"type":"tool_use","name":"MultiEdit","input":{"file_path":"/p/m.go"}},{"type":"tool_use","name":"NotebookEdit","input":{"notebook_path":"/p/n.ipynb"}}]}}`,
		`{"type":"user","message":{"content":[{"type":"tool_result","content":[{"type":"text","text":"Error: build failed"}]}]}}`,
		`{"type":"user","message":{"content":"plain string content"}}`,
	)

	ex := Extract(path)
	if !equal(ex.FilesEdited, []string{"/p/m.go", "/p/n.ipynb"}) {
		t.Errorf("FilesEdited = %v", ex.FilesEdited)
	}
	if !equal(ex.ErrorsFixed, []string{"Error: build failed"}) {
		t.Errorf("ErrorsFixed = %v", ex.ErrorsFixed)
	}
}

func TestExtract_SkipsMalformedLines(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"tool_use","name":"Edit","input":{"file_path":"/p/a.go"}}`,
		`{not json`,
		``,
		`{"type":"tool_use","name":"Edit","input":"bad input"}`,
		`{"type":"tool_use","name":"Edit","input":{"file_path":"/p/b.go"}}`,
	)

	ex := Extract(path)
	if !equal(ex.FilesEdited, []string{"/p/a.go", "/p/b.go"}) {
		t.Errorf("FilesEdited = %v", ex.FilesEdited)
	}
}

func TestExtract_CommandLimits(t *testing.T) {
	long := strings.Repeat("é", MaxCommandChars+50)
	lines := []string{fmt.Sprintf(`{"type":"tool_use","name":"Bash","input":{"command":%q}}`, long)}
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf(`{"type":"tool_use","name":"Bash","input":{"command":"echo %d"}}`, i))
	}
	ex := Extract(writeTranscript(t, lines...))

	if len(ex.CommandsRun) != MaxCommands {
		t.Fatalf("len(CommandsRun) = %d, want %d", len(ex.CommandsRun), MaxCommands)
	}
	if got := len([]rune(ex.CommandsRun[0])); got != MaxCommandChars {
		t.Errorf("first command has %d runes, want %d", got, MaxCommandChars)
	}
	if ex.CommandsRun[1] != "echo 0" {
		t.Errorf("CommandsRun[1] = %q, want first-appearance order", ex.CommandsRun[1])
	}
}

func TestExtract_ErrorSnippets(t *testing.T) {
	var lines []string
	for i := 0; i < 15; i++ {
		lines = append(lines, fmt.Sprintf(`{"type":"tool_result","content":"fixed issue %d"}`, i))
	}
	lines = append(lines,
		`{"type":"tool_result","content":"all good"}`,
		fmt.Sprintf(`{"type":"tool_result","content":%q}`, "ERROR "+strings.Repeat("x", 300)),
	)
	ex := Extract(writeTranscript(t, lines...))

	if len(ex.ErrorsFixed) != MaxSnippets {
		t.Fatalf("len(ErrorsFixed) = %d, want %d", len(ex.ErrorsFixed), MaxSnippets)
	}
	for _, s := range ex.ErrorsFixed {
		if s == "all good" {
			t.Error("unrelated result should be ignored")
		}
	}
}

func TestRead_LongLine(t *testing.T) {
	big := strings.Repeat("a", 200_000)
	input := fmt.Sprintf(`{"type":"tool_use","name":"Write","input":{"file_path":"/p/big.go","content":%q}}`, big)

	ex, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if !equal(ex.FilesEdited, []string{"/p/big.go"}) {
		t.Errorf("FilesEdited = %v", ex.FilesEdited)
	}
}
