package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "", "version")
	assert.Equal(t, "context-store vdev\n", out)
}

func TestHookCommand_SessionStart(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CONTEXT_STORE_PLANS_DIR", filepath.Join(home, "plans"))
	store := filepath.Join(home, "store")
	project := filepath.Join(home, "work", "demo")
	require.NoError(t, os.MkdirAll(project, 0o755))

	in, err := json.Marshal(map[string]string{"cwd": project})
	require.NoError(t, err)

	out := execute(t, string(in), "--store-dir", store, "hook", "session-start")

	var reply struct {
		Continue bool   `json:"continue"`
		Message  string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.True(t, reply.Continue)
	assert.Contains(t, reply.Message, "demo")

	assert.FileExists(t, filepath.Join(store, "current_session.json"))
	assert.FileExists(t, filepath.Join(store, "global_context.json"))
}
