package securestore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Set("token", "abc"))

	v, ok, err := s.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestGetMissingIsNotAnError(t *testing.T) {
	s := New(nil)

	v, ok, err := s.Get("nothing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestLastWriteWins(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Set("k", "one"))
	require.NoError(t, s.Set("k", "two"))

	v, _, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEmptyValueIsStored(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Set("k", ""))

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestSetGetDelete(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Set("token", "abc"))
	v, ok, err := s.Get("token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", v)

	require.NoError(t, s.Delete("token"))
	_, ok, err = s.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	// idempotent
	assert.NoError(t, s.Delete("token"))
}

func TestDistinctKeysDoNotInterfere(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Delete("a"))

	v, ok, err := s.Get("b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestConcurrentDistinctKeys(t *testing.T) {
	s := New(nil)
	const workers = 64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			assert.NoError(t, s.Set(key, fmt.Sprintf("value-%d", i)))
			if i%2 == 0 {
				assert.NoError(t, s.Delete(key))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		v, ok, err := s.Get(fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		if i%2 == 0 {
			assert.False(t, ok)
			continue
		}
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("value-%d", i), v)
	}
}

func TestPoisonedStoreDegrades(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("token", "abc"))

	err := s.guard("explode", func(map[string]string) { panic("corrupted") })
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, ok, err := s.Get("token")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Set("token", "def"), ErrStoreUnavailable)
	assert.ErrorIs(t, s.Delete("token"), ErrStoreUnavailable)
}

func TestClose(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Set("token", "abc"))

	s.Close()

	_, _, err := s.Get("token")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Empty(t, s.values)
}

func TestMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics()
	s := New(nil).WithMetrics(metrics)

	_ = s.Set("a", "1")
	_, _, _ = s.Get("a")
	_ = s.Delete("a")
	s.Close()
	_ = s.Set("a", "1")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StoreOps.WithLabelValues("set", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StoreOps.WithLabelValues("set", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StoreOps.WithLabelValues("get", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StoreOps.WithLabelValues("delete", "ok")))
}
