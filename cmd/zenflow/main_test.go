package main

import (
	"reflect"
	"testing"
)

func TestRewriteViewShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"zenflow"},
			want: []string{"zenflow"},
		},
		{
			name: "view first token",
			in:   []string{"zenflow", "kanban"},
			want: []string{"zenflow", "views", "kanban"},
		},
		{
			name: "view alias",
			in:   []string{"zenflow", "board", "--status", "todo"},
			want: []string{"zenflow", "views", "board", "--status", "todo"},
		},
		{
			name: "view after value flag",
			in:   []string{"zenflow", "--format", "text", "gantt"},
			want: []string{"zenflow", "--format", "text", "views", "gantt"},
		},
		{
			name: "view after equals flag",
			in:   []string{"zenflow", "--format=edn", "list"},
			want: []string{"zenflow", "--format=edn", "views", "list"},
		},
		{
			name: "view after bool flag",
			in:   []string{"zenflow", "--pretty", "mindmap"},
			want: []string{"zenflow", "--pretty", "views", "mindmap"},
		},
		{
			name: "view after double dash",
			in:   []string{"zenflow", "--", "flowchart"},
			want: []string{"zenflow", "--", "views", "flowchart"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"zenflow", "views", "kanban"},
			want: []string{"zenflow", "views", "kanban"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"zenflow", "wat"},
			want: []string{"zenflow", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteViewShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteViewShortcutArgs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
