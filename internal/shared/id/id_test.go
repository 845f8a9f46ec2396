package id

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator(nil)

	assert.NotEqual(t, gen.Generate().String(), gen.Generate().String())
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator(nil)

	for _, prefix := range []string{EventPrefix, RequestPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		require.True(t, strings.HasPrefix(id, prefix+"_"), id)
		_, err := ulid.Parse(strings.TrimPrefix(id, prefix+"_"))
		assert.NoError(t, err)
	}
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewEventID().String(), "evt_"))
	assert.True(t, strings.HasPrefix(NewRequestID().String(), "req_"))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewEventID().String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("evt_not-a-ulid")
	assert.Error(t, err)
}

func TestDeterministicEntropy(t *testing.T) {
	gen := NewGeneratorWithEntropy(nil, bytes.NewReader(make([]byte, 64)))
	id := gen.Generate()

	assert.Equal(t, make([]byte, 10), id.Entropy())
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator(nil)
	const n = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := gen.GenerateWithPrefix(EventPrefix)
			mu.Lock()
			seen[s] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestGeneratorUsesClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(clockwork.NewFakeClockAt(at))

	ts, err := Timestamp(gen.GenerateWithPrefix(RequestPrefix))
	require.NoError(t, err)
	assert.True(t, at.Equal(ts), ts)
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	gen := NewGenerator(clockwork.NewFakeClockAt(time.Unix(1700000000, 0)))

	prev := gen.Generate()
	for i := 0; i < 50; i++ {
		next := gen.Generate()
		require.Equal(t, 1, next.Compare(prev))
		prev = next
	}
}
