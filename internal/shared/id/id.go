// Package id generates identifiers for shell events and bridge requests.
//
// An id is a ULID behind a short kind prefix (evt_, req_). ULIDs sort by
// creation time, so ids of frames pushed to the view can be ordered and
// dated from the id alone.
package id

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"
)

// EventID identifies one frame pushed to the embedded view
type EventID string

// RequestID identifies one bridge request or command invocation
type RequestID string

const (
	EventPrefix   = "evt"
	RequestPrefix = "req"
)

// Generator produces ULIDs. It is safe for concurrent use.
type Generator struct {
	clock clockwork.Clock

	mu      sync.Mutex
	entropy io.Reader
}

var shared = NewGenerator(clockwork.NewRealClock())

// NewGenerator uses monotonic entropy so ids minted within the same
// millisecond still sort in generation order.
func NewGenerator(clock clockwork.Clock) *Generator {
	return NewGeneratorWithEntropy(clock, ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy reads randomness from entropy instead.
func NewGeneratorWithEntropy(clock clockwork.Clock, entropy io.Reader) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{clock: clock, entropy: entropy}
}

// Generate returns a bare ULID
func (g *Generator) Generate() ulid.ULID {
	ms := ulid.Timestamp(g.clock.Now())

	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ms, g.entropy)
}

// GenerateWithPrefix returns "<prefix>_<ulid>"
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return prefix + "_" + g.Generate().String()
}

// NewEventID mints an evt_ id
func NewEventID() EventID {
	return EventID(shared.GenerateWithPrefix(EventPrefix))
}

// NewRequestID mints a req_ id
func NewRequestID() RequestID {
	return RequestID(shared.GenerateWithPrefix(RequestPrefix))
}

func (id EventID) String() string   { return string(id) }
func (id RequestID) String() string { return string(id) }

// Timestamp extracts the creation time from a prefixed or bare id
func Timestamp(id string) (time.Time, error) {
	_, raw, found := strings.Cut(id, "_")
	if !found {
		raw = id
	}
	parsed, err := ulid.Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
