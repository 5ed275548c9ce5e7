// Package claude is the text-understanding collaborator behind quick entry, node
// expansion and task decomposition.
package claude

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"zenflow/internal/model"
	"zenflow/internal/mutate"
	"zenflow/internal/quickentry"
)

const DefaultModel = "claude-sonnet-4-5"

// Client wraps the Anthropic SDK. It satisfies quickentry.Parser, quickentry.Suggester
// and quickentry.Decomposer.
type Client struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClient creates a client. An empty apiKey is an error; callers then run without
// a collaborator and every call takes its fallback.
func NewClient(apiKey, model string, maxTokens int64, opts ...option.RequestOption) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key not set")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	m := anthropic.Model(DefaultModel)
	if strings.TrimSpace(model) != "" {
		m = anthropic.Model(strings.TrimSpace(model))
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{inner: anthropic.NewClient(opts...), model: m, maxTokens: maxTokens}, nil
}

const parsePrompt = `Analyze this quick-entry line for a task manager and extract:
- "title": a short task title without dates, priority words or hashtags
- "priority": one of low, medium, high, urgent
- "dueDate": YYYY-MM-DD (today is %s); omit it if no date is implied
- "tags": an array of strings taken from hashtags or obvious context

Return ONLY a JSON object with those keys. No markdown fences, no commentary.

Input: %q`

const suggestPrompt = `Given the parent concept %q, suggest 4-6 specific sub-topics or sub-tasks that would logically branch off it.
Return ONLY a JSON array of strings. No markdown fences, no commentary.`

const decomposePrompt = `Decompose the high-level project goal %q into 5 actionable tasks.
For each task provide a short "title" and a one-sentence "description".
Return ONLY a JSON array of objects with those keys. No markdown fences, no commentary.`

func (c *Client) ParseQuickEntry(ctx context.Context, text string, today time.Time) (quickentry.Parsed, error) {
	raw, err := c.complete(ctx, fmt.Sprintf(parsePrompt, model.FormatDate(today), text))
	if err != nil {
		return quickentry.Parsed{}, err
	}
	return parseEntry(raw)
}

func (c *Client) SuggestChildLabels(ctx context.Context, parentLabel string) ([]string, error) {
	raw, err := c.complete(ctx, fmt.Sprintf(suggestPrompt, parentLabel))
	if err != nil {
		return nil, err
	}
	return parseLabels(raw)
}

func (c *Client) DecomposeTask(ctx context.Context, title string) ([]mutate.Subtask, error) {
	raw, err := c.complete(ctx, fmt.Sprintf(decomposePrompt, title))
	if err != nil {
		return nil, err
	}
	return parseSubtasks(raw)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude API call: %w", err)
	}
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return stripJSONFences(text), nil
}

func parseEntry(raw string) (quickentry.Parsed, error) {
	if !gjson.Valid(raw) {
		return quickentry.Parsed{}, fmt.Errorf("parse claude response: invalid json: %s", raw)
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return quickentry.Parsed{}, fmt.Errorf("parse claude response: expected object: %s", raw)
	}
	out := quickentry.Parsed{
		Title:    res.Get("title").String(),
		Priority: model.Priority(strings.ToLower(res.Get("priority").String())),
		DueDate:  res.Get("dueDate").String(),
	}
	res.Get("tags").ForEach(func(_, v gjson.Result) bool {
		out.Tags = append(out.Tags, strings.TrimPrefix(v.String(), "#"))
		return true
	})
	return out, nil
}

// parseLabels accepts a bare array or an object wrapping one.
func parseLabels(raw string) ([]string, error) {
	arr, err := findArray(raw, "labels", "suggestions", "subtopics")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, v := range arr {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func parseSubtasks(raw string) ([]mutate.Subtask, error) {
	arr, err := findArray(raw, "tasks", "subtasks")
	if err != nil {
		return nil, err
	}
	var out []mutate.Subtask
	for _, v := range arr {
		st := mutate.Subtask{Title: strings.TrimSpace(v.Get("title").String()), Description: strings.TrimSpace(v.Get("description").String())}
		if v.Type == gjson.String {
			st.Title = strings.TrimSpace(v.String())
		}
		if st.Title != "" {
			out = append(out, st)
		}
	}
	return out, nil
}

func findArray(raw string, keys ...string) ([]gjson.Result, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("parse claude response: invalid json: %s", raw)
	}
	res := gjson.Parse(raw)
	if res.IsArray() {
		return res.Array(), nil
	}
	for _, k := range keys {
		if v := res.Get(k); v.IsArray() {
			return v.Array(), nil
		}
	}
	return nil, fmt.Errorf("parse claude response: no array: %s", raw)
}

// stripJSONFences removes markdown code fences that Claude sometimes adds.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
