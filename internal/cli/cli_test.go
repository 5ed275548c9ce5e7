package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zenflow/internal/config"
)

// testConfig writes a config file into an isolated home and clears every
// environment override.
func testConfig(t *testing.T, body string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ZENFLOW_FORMAT", "")
	t.Setenv("ZENFLOW_CONFIG", "")
	path := filepath.Join(home, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	cmd := NewRootCmd()
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustEnvelope(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: zenflow %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected data key; got %v", env)
	}
	return env
}

func TestViews_KanbanJSON(t *testing.T) {
	cfg := testConfig(t, "")
	env := mustEnvelope(t, "--config", cfg, "views", "kanban")
	cols, _ := env["data"].(map[string]any)["columns"].([]any)
	if len(cols) != 4 {
		t.Fatalf("expected 4 columns; got %d", len(cols))
	}
	meta := env["meta"].(map[string]any)
	if meta["view"] != "kanban" {
		t.Fatalf("expected meta.view=kanban; got %v", meta["view"])
	}
}

func TestViews_ListFilter(t *testing.T) {
	cfg := testConfig(t, "")
	env := mustEnvelope(t, "--config", cfg, "views", "list", "--status", "todo")
	rows, _ := env["data"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 todo row; got %d", len(rows))
	}
	task := rows[0].(map[string]any)["task"].(map[string]any)
	if task["id"] != "t2" {
		t.Fatalf("expected t2; got %v", task["id"])
	}

	if _, _, err := runCLI(t, []string{"--config", cfg, "views", "list", "--status", "someday"}); err == nil {
		t.Fatalf("expected invalid status to fail")
	}
}

func TestViews_TextAndEDN(t *testing.T) {
	cfg := testConfig(t, "")

	stdout, _, err := runCLI(t, []string{"--config", cfg, "views", "kanban", "--format", "text"})
	if err != nil {
		t.Fatalf("views kanban text: %v", err)
	}
	for _, want := range []string{"in progress", "Setup AI Integration", "Design Project Architecture"} {
		if !strings.Contains(string(stdout), want) {
			t.Fatalf("expected %q in:\n%s", want, stdout)
		}
	}

	stdout, _, err = runCLI(t, []string{"--config", cfg, "views", "flowchart", "--format", "text"})
	if err != nil {
		t.Fatalf("views flowchart text: %v", err)
	}
	if !strings.Contains(string(stdout), "Worth doing? → Plan sprint") {
		t.Fatalf("expected labelled edge; got:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, []string{"--config", cfg, "views", "gantt", "--format", "edn"})
	if err != nil {
		t.Fatalf("views gantt edn: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "{:data") || !strings.Contains(string(stdout), ":total-days 13") {
		t.Fatalf("expected edn envelope; got:\n%s", stdout)
	}
}

func TestViews_UnknownView(t *testing.T) {
	cfg := testConfig(t, "")
	_, stderr, err := runCLI(t, []string{"--config", cfg, "views", "calendar"})
	if err == nil {
		t.Fatalf("expected unknown view to fail")
	}
	if !strings.Contains(string(stderr), "unknown view") {
		t.Fatalf("expected error on stderr; got %q", stderr)
	}
}

func TestAdd_FallbackUsesConfiguredSprint(t *testing.T) {
	cfg := testConfig(t, "defaults:\n  sprint: Sprint 7\n")
	env := mustEnvelope(t, "--config", cfg, "add", "Call", "the", "venue")
	data := env["data"].(map[string]any)
	task := data["task"].(map[string]any)
	if task["title"] != "Call the venue" {
		t.Fatalf("expected raw text as title; got %v", task["title"])
	}
	if task["sprint"] != "Sprint 7" {
		t.Fatalf("expected configured default sprint; got %v", task["sprint"])
	}
	if task["priority"] != "medium" {
		t.Fatalf("expected fallback priority; got %v", task["priority"])
	}
	if _, ok := data["node"]; ok {
		t.Fatalf("expected no node outside the mind map")
	}
}

func TestAdd_ParentNode(t *testing.T) {
	cfg := testConfig(t, "")
	env := mustEnvelope(t, "--config", cfg, "add", "Load test", "--parent", "n4")
	node, ok := env["data"].(map[string]any)["node"].(map[string]any)
	if !ok {
		t.Fatalf("expected a mind map node; got %v", env["data"])
	}
	bridge := node["data"].(map[string]any)["bridge"].(map[string]any)
	if bridge["taskId"] == "" {
		t.Fatalf("expected the node to be bridged")
	}

	_, _, err := runCLI(t, []string{"--config", cfg, "add", "x", "--parent", "nope"})
	if err == nil || !strings.Contains(err.Error(), "node not found: nope") {
		t.Fatalf("expected node not found; got %v", err)
	}
}

func TestConfig_RedactsKey(t *testing.T) {
	cfg := testConfig(t, "ai:\n  enabled: false\n  api_key: sk-ant-0123456789abcd\n")
	stdout, _, err := runCLI(t, []string{"--config", cfg, "config"})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.Contains(string(stdout), "0123456789") {
		t.Fatalf("expected key redacted; got:\n%s", stdout)
	}
	if !strings.Contains(string(stdout), "sk-a…abcd") {
		t.Fatalf("expected redacted key; got:\n%s", stdout)
	}
}

func TestConfig_InvalidFails(t *testing.T) {
	cfg := testConfig(t, "tui:\n  glyphs: emoji\n")
	if _, _, err := runCLI(t, []string{"--config", cfg, "config"}); err == nil {
		t.Fatalf("expected invalid config to fail")
	}
}

func TestDoctor_HealthySession(t *testing.T) {
	cfg := testConfig(t, "")
	stdout, _, err := runCLI(t, []string{"--config", cfg, "doctor", "--fail", "--format", "text"})
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !strings.Contains(string(stdout), "ok") {
		t.Fatalf("expected ok; got %q", stdout)
	}
}

func TestNewLogger(t *testing.T) {
	if _, _, err := newLogger(config.LogConfig{Level: "loud"}, nil); err == nil {
		t.Fatalf("expected invalid level to fail")
	}

	path := filepath.Join(t.TempDir(), "zenflow.log")
	log, closeLog, err := newLogger(config.LogConfig{Level: "debug", File: path}, nil)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Debug("hello", "k", "v")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "msg=hello") {
		t.Fatalf("expected log line; got %q", b)
	}
}

func TestLogFileFlag_OverridesConfig(t *testing.T) {
	cfg := testConfig(t, "log:\n  level: debug\n")
	path := filepath.Join(t.TempDir(), "flag.log")
	if _, stderr, err := runCLI(t, []string{"--config", cfg, "--log-file", path, "views", "list"}); err != nil {
		t.Fatalf("views: %v\nstderr:\n%s", err, stderr)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}
