package format

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes v as EDN. Object keys become kebab-case keywords (dueDate -> :due-date).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	e := ednWriter{w: bw, pretty: pretty}
	e.value(x, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

type ednWriter struct {
	w      *bufio.Writer
	pretty bool
}

func (e ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.w.WriteString("nil")
	case bool:
		e.w.WriteString(strconv.FormatBool(t))
	case string:
		e.w.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.w.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.w.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), depth, func(i int) {
			e.w.WriteByte(':')
			e.w.WriteString(keyword(keys[i]))
			e.w.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	}
}

func (e ednWriter) seq(open, close byte, n, depth int, item func(i int)) {
	e.w.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.w.WriteByte('\n')
			e.w.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.w.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty && n > 0 {
		e.w.WriteByte('\n')
		e.w.WriteString(strings.Repeat("  ", depth))
	}
	e.w.WriteByte(close)
}

func keyword(s string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
