package ids

import (
	"crypto/rand"
	"encoding/base32"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	PrefixTask = "t"
	PrefixNode = "n"
	PrefixEdge = "e"
)

var fallbackSeq atomic.Uint64

// New returns prefix-<uuidv7>. UUIDv7 is time ordered, so identifiers stay unique for
// the lifetime of a session even when many are minted within the same millisecond.
func New(prefix string) string {
	u, err := uuid.NewV7()
	if err != nil {
		return newRandomID(prefix)
	}
	return prefix + "-" + u.String()
}

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding)
// followed by a process-wide sequence number.
func newRandomID(prefix string) string {
	var b [5]byte
	seq := fallbackSeq.Add(1)
	if _, err := rand.Read(b[:]); err != nil {
		return prefix + "-seq" + strconv.FormatUint(seq, 10)
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix + strconv.FormatUint(seq, 10)
}
