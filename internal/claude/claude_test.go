package claude

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"zenflow/internal/model"
)

func TestStripJSONFences(t *testing.T) {
	cases := map[string]string{
		`{"title": "x"}`:                   `{"title": "x"}`,
		"```json\n[\"a\"]\n```":            `["a"]`,
		"```\n[\"a\"]\n```":                `["a"]`,
		"  \n```json\n{\"a\": 1}\n```\n  ": `{"a": 1}`,
	}
	for in, want := range cases {
		if got := stripJSONFences(in); got != want {
			t.Errorf("stripJSONFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseEntry(t *testing.T) {
	got, err := parseEntry(`{"title":"Call Bob","priority":"High","dueDate":"2024-06-20","tags":["#work","calls"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Call Bob" || got.Priority != model.PriorityHigh || got.DueDate != "2024-06-20" {
		t.Fatalf("unexpected parse: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}

	if _, err := parseEntry("Sure! Here is your task."); err == nil {
		t.Fatal("expected error for prose")
	}
	if _, err := parseEntry(`["a"]`); err == nil {
		t.Fatal("expected error for array")
	}
}

func TestParseLabels(t *testing.T) {
	got, err := parseLabels(`["Research", " ", "Design"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(got, ",") != "Research,Design" {
		t.Fatalf("labels = %v", got)
	}
	got, err = parseLabels(`{"labels":["A","B"]}`)
	if err != nil || len(got) != 2 {
		t.Fatalf("wrapped labels = %v, %v", got, err)
	}
	if _, err := parseLabels(`{"nope":1}`); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseSubtasks(t *testing.T) {
	got, err := parseSubtasks(`[{"title":"Schema","description":"Design tables."},{"title":""},"Deploy"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 subtasks, got %d", len(got))
	}
	if got[0].Title != "Schema" || got[0].Description != "Design tables." {
		t.Fatalf("unexpected first subtask: %+v", got[0])
	}
	if got[1].Title != "Deploy" {
		t.Fatalf("unexpected second subtask: %+v", got[1])
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient("  ", "", 0); err == nil {
		t.Fatal("expected error without api key")
	}
}

// fakeMessages answers the Messages API with text and records the prompt.
func fakeMessages(t *testing.T, text string, prompts chan<- string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err == nil && len(req.Messages) > 0 && len(req.Messages[0].Content) > 0 {
			select {
			case prompts <- req.Messages[0].Content[0].Text:
			default:
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         DefaultModel,
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": text}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 10},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ParseQuickEntry(t *testing.T) {
	prompts := make(chan string, 1)
	srv := fakeMessages(t, "```json\n{\"title\":\"Buy milk\",\"priority\":\"low\",\"dueDate\":\"2024-06-13\",\"tags\":[\"home\"]}\n```", prompts)
	c, err := NewClient("test-key", "", 256, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.ParseQuickEntry(context.Background(), "buy milk tomorrow #home", time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ParseQuickEntry: %v", err)
	}
	if got.Title != "Buy milk" || got.Priority != model.PriorityLow || got.DueDate != "2024-06-13" {
		t.Fatalf("unexpected parse: %+v", got)
	}
	prompt := <-prompts
	if !strings.Contains(prompt, "today is 2024-06-12") || !strings.Contains(prompt, "buy milk tomorrow") {
		t.Fatalf("prompt missing context: %q", prompt)
	}
}

func TestClient_SuggestChildLabels(t *testing.T) {
	prompts := make(chan string, 1)
	srv := fakeMessages(t, `["Hosting","Domain","Analytics","SEO"]`, prompts)
	c, err := NewClient("test-key", "claude-test", 256, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.SuggestChildLabels(context.Background(), "Launch")
	if err != nil {
		t.Fatalf("SuggestChildLabels: %v", err)
	}
	if len(got) != 4 || got[0] != "Hosting" {
		t.Fatalf("labels = %v", got)
	}
	if prompt := <-prompts; !strings.Contains(prompt, `"Launch"`) {
		t.Fatalf("prompt missing label: %q", prompt)
	}
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := fakeMessages(t, "I cannot help with that.", make(chan string, 1))
	c, err := NewClient("test-key", "", 256, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.DecomposeTask(context.Background(), "Launch"); err == nil {
		t.Fatal("expected error for prose answer")
	}
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c, err := NewClient("test-key", "", 256, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.SuggestChildLabels(context.Background(), "Launch"); err == nil {
		t.Fatal("expected error on 503")
	}
}
