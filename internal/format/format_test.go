package format

import (
	"bytes"
	"strings"
	"testing"
)

type card struct {
	ID       string   `json:"id"`
	DueDate  string   `json:"dueDate"`
	Tags     []string `json:"tags"`
	Done     bool     `json:"done"`
	Offset   float64  `json:"offsetPx"`
	ParentID *string  `json:"parentId"`
}

func sample() card {
	return card{ID: "t1", DueDate: "2024-06-15", Tags: []string{"a", "b"}, Offset: 12.5}
}

func TestWriteEDN_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:done false :due-date "2024-06-15" :id "t1" :offset-px 12.5 :parent-id nil :tags ["a" "b"]}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q\nwant %q", buf.String(), want)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"columns": []any{}, "n": 3}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :columns []\n  :n 3\n}\n"
	if buf.String() != want {
		t.Fatalf("got %q\nwant %q", buf.String(), want)
	}
}

func TestWriteYAML_UsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"dueDate:", "2024-06-15", "id: t1", "tags:\n  - a\n  - b"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"title": "a<b"}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "{\"title\":\"a<b\"}\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "toml", false); err == nil {
		t.Fatal("expected error")
	}
}
