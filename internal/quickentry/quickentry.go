// Package quickentry turns free text and AI suggestions into task drafts. Every call to
// an external collaborator is bounded by a timeout and degrades to a deterministic
// fallback, so callers always get a usable result.
package quickentry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"zenflow/internal/model"
	"zenflow/internal/mutate"
	"zenflow/internal/statusutil"
	"zenflow/internal/store"
)

const (
	DefaultTimeout = 20 * time.Second
	// StartLeadDays is how far before the due date a parsed task starts.
	StartLeadDays = 7
)

// FallbackLabels is used when the suggester fails or returns nothing.
var FallbackLabels = []string{"Next Steps", "Research", "Design", "Implementation"}

// Parsed is the structured reading of a quick-entry line.
type Parsed struct {
	Title    string         `json:"title"`
	Priority model.Priority `json:"priority"`
	DueDate  string         `json:"dueDate"`
	Tags     []string       `json:"tags"`
}

type Parser interface {
	ParseQuickEntry(ctx context.Context, text string, today time.Time) (Parsed, error)
}

type Suggester interface {
	SuggestChildLabels(ctx context.Context, parentLabel string) ([]string, error)
}

type Decomposer interface {
	DecomposeTask(ctx context.Context, title string) ([]mutate.Subtask, error)
}

type Pipeline struct {
	parser     Parser
	suggester  Suggester
	decomposer Decomposer
	timeout    time.Duration
	maxLabels  int
	now        func() time.Time
	log        *slog.Logger

	loading atomic.Bool
}

type Option func(*Pipeline)

func WithParser(p Parser) Option         { return func(pl *Pipeline) { pl.parser = p } }
func WithSuggester(s Suggester) Option   { return func(pl *Pipeline) { pl.suggester = s } }
func WithDecomposer(d Decomposer) Option { return func(pl *Pipeline) { pl.decomposer = d } }

func WithTimeout(d time.Duration) Option {
	return func(pl *Pipeline) {
		if d > 0 {
			pl.timeout = d
		}
	}
}

// WithMaxSuggestions caps how many child labels one expansion adds. Zero or less keeps
// every suggestion.
func WithMaxSuggestions(n int) Option {
	return func(pl *Pipeline) { pl.maxLabels = n }
}

func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) {
		if now != nil {
			pl.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(pl *Pipeline) {
		if l != nil {
			pl.log = l
		}
	}
}

// New builds a pipeline. Missing collaborators are treated as always failing.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		timeout: DefaultTimeout,
		now:     time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Begin claims the single in-flight slot. It returns false while another call is loading.
func (p *Pipeline) Begin() bool { return p.loading.CompareAndSwap(false, true) }

func (p *Pipeline) End() { p.loading.Store(false) }

func (p *Pipeline) Loading() bool { return p.loading.Load() }

// FallbackParse is the deterministic reading used whenever the parser cannot answer.
func FallbackParse(text string, today time.Time) Parsed {
	return Parsed{
		Title:    strings.TrimSpace(text),
		Priority: model.PriorityMedium,
		DueDate:  model.FormatDate(today),
		Tags:     []string{},
	}
}

// Parse reads text with the parser. It never fails: errors, panics, timeouts and
// malformed answers all yield FallbackParse.
func (p *Pipeline) Parse(ctx context.Context, text string) Parsed {
	today := p.now()
	if p.parser == nil {
		return FallbackParse(text, today)
	}
	got, err := bounded(ctx, p.timeout, func(ctx context.Context) (Parsed, error) {
		return p.parser.ParseQuickEntry(ctx, text, today)
	})
	if err != nil {
		p.log.Warn("quick entry parse failed; using raw text", "err", err)
		return FallbackParse(text, today)
	}
	return sanitize(got, text)
}

func sanitize(got Parsed, raw string) Parsed {
	out := Parsed{
		Title:    strings.TrimSpace(got.Title),
		Priority: got.Priority,
		Tags:     []string{},
	}
	if out.Title == "" {
		out.Title = strings.TrimSpace(raw)
	}
	if pr, err := statusutil.ParsePriority(string(got.Priority)); err == nil {
		out.Priority = pr
	} else {
		out.Priority = model.PriorityMedium
	}
	if d, ok := model.ParseDate(got.DueDate); ok {
		out.DueDate = model.FormatDate(d)
	}
	for _, tag := range got.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

// Draft converts a parsed entry into a task draft. The task starts StartLeadDays before
// its due date; with no due date it starts and is due today. Sprint is left to the
// store's default policy.
func (p *Pipeline) Draft(parsed Parsed) store.TaskDraft {
	due := parsed.DueDate
	start := model.AddDays(due, -StartLeadDays)
	if _, ok := model.ParseDate(due); !ok {
		due = model.FormatDate(p.now())
		start = due
	}
	pr := parsed.Priority
	if !statusutil.ValidPriority(pr) {
		pr = model.PriorityMedium
	}
	return store.TaskDraft{
		Title:     strings.TrimSpace(parsed.Title),
		Status:    model.StatusTodo,
		Priority:  pr,
		Level:     model.LevelTask,
		StartDate: start,
		DueDate:   due,
		Tags:      append([]string(nil), parsed.Tags...),
	}
}

// Suggest returns child labels for a node label, or FallbackLabels.
func (p *Pipeline) Suggest(ctx context.Context, label string) []string {
	if p.suggester == nil {
		return append([]string(nil), FallbackLabels...)
	}
	got, err := bounded(ctx, p.timeout, func(ctx context.Context) ([]string, error) {
		return p.suggester.SuggestChildLabels(ctx, label)
	})
	var out []string
	for _, l := range got {
		if l = strings.TrimSpace(l); l != "" && (p.maxLabels <= 0 || len(out) < p.maxLabels) {
			out = append(out, l)
		}
	}
	if err != nil || len(out) == 0 {
		p.log.Warn("suggest failed; using fallback labels", "label", label, "err", err)
		return append([]string(nil), FallbackLabels...)
	}
	return out
}

// Decompose returns suggested subtasks for title. Failure yields no subtasks.
func (p *Pipeline) Decompose(ctx context.Context, title string) []mutate.Subtask {
	if p.decomposer == nil {
		return nil
	}
	got, err := bounded(ctx, p.timeout, func(ctx context.Context) ([]mutate.Subtask, error) {
		return p.decomposer.DecomposeTask(ctx, title)
	})
	if err != nil {
		p.log.Warn("decompose failed", "title", title, "err", err)
		return nil
	}
	return got
}

type result[T any] struct {
	v   T
	err error
}

// bounded runs fn with a deadline and returns as soon as either finishes. A collaborator
// that ignores its context is abandoned; its goroutine exits when it eventually returns.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				ch <- result[T]{v: zero, err: fmt.Errorf("collaborator panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result[T]{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
