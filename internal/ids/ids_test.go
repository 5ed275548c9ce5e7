package ids

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew_PrefixAndVersion(t *testing.T) {
	id := New(PrefixTask)
	if !strings.HasPrefix(id, "t-") {
		t.Fatalf("expected t- prefix, got %q", id)
	}
	u, err := uuid.Parse(strings.TrimPrefix(id, "t-"))
	if err != nil {
		t.Fatalf("parse uuid: %v", err)
	}
	if u.Version() != 7 {
		t.Fatalf("expected uuid v7, got v%d", u.Version())
	}
}

func TestNew_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		id := New(PrefixNode)
		if seen[id] {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = true
	}
}

func TestNewRandomID_Unique(t *testing.T) {
	a := newRandomID("e")
	b := newRandomID("e")
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if !strings.HasPrefix(a, "e-") {
		t.Fatalf("expected e- prefix, got %q", a)
	}
}

func TestNewRandomID_SequenceSuffix(t *testing.T) {
	seqOf := func(id string) uint64 {
		t.Helper()
		// prefix "e-", then 8 base32 chars, then the decimal sequence.
		n, err := strconv.ParseUint(id[len("e-")+8:], 10, 64)
		if err != nil {
			t.Fatalf("expected a decimal sequence suffix in %q: %v", id, err)
		}
		return n
	}
	a := seqOf(newRandomID("e"))
	b := seqOf(newRandomID("e"))
	if b != a+1 {
		t.Fatalf("expected consecutive sequence numbers; got %d then %d", a, b)
	}
}
