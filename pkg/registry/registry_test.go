package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLastCallRegistrySeedsAllRoutes(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewLastCallRegistry(start)

	snapshot := reg.Snapshot()
	require.Len(t, snapshot, len(Routes))
	for _, route := range Routes {
		assert.Equal(t, start, snapshot[route], "route %s", route)
	}
}

func TestTouchReturnsElapsedAndUpdates(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewLastCallRegistry(start)

	elapsed, err := reg.Touch(Test1, start.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, elapsed)

	elapsed, err = reg.Touch(Test1, start.Add(2500*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, elapsed)

	last, err := reg.LastCall(Test1)
	require.NoError(t, err)
	assert.Equal(t, start.Add(2500*time.Millisecond), last)
}

func TestTouchLeavesOtherRoutesAlone(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewLastCallRegistry(start)

	_, err := reg.Touch(Test1, start.Add(time.Minute))
	require.NoError(t, err)

	for _, route := range []Route{Test2, Test3} {
		last, err := reg.LastCall(route)
		require.NoError(t, err)
		assert.Equal(t, start, last, "route %s", route)
	}

	elapsed, err := reg.Touch(Test2, start.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, elapsed)
}

func TestUnknownRoute(t *testing.T) {
	reg := NewLastCallRegistry(time.Now())

	_, err := reg.Touch("does_not_exist", time.Now())
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = reg.LastCall("does_not_exist")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestCustomRoutes(t *testing.T) {
	reg := NewLastCallRegistry(time.Now(), "alpha")

	_, err := reg.Touch("alpha", time.Now())
	assert.NoError(t, err)

	_, err = reg.Touch(Test1, time.Now())
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestTouchWithWallClock(t *testing.T) {
	reg := NewLastCallRegistry(time.Now())

	_, err := reg.Touch(Test1, time.Now())
	require.NoError(t, err)

	delta := 100 * time.Millisecond
	time.Sleep(delta)

	elapsed, err := reg.Touch(Test1, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, delta.Seconds(), elapsed.Seconds(), 0.05)
}

// Concurrent touches on one route must account for the whole span exactly once.
func TestConcurrentTouchSameRoute(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := NewLastCallRegistry(start)

	const calls = 100
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total time.Duration
	)

	var clockMu sync.Mutex
	tick := start
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			clockMu.Lock()
			tick = tick.Add(time.Second)
			now := tick
			elapsed, err := reg.Touch(Test3, now)
			clockMu.Unlock()

			assert.NoError(t, err)
			mu.Lock()
			total += elapsed
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, calls*time.Second, total)
	last, err := reg.LastCall(Test3)
	require.NoError(t, err)
	assert.Equal(t, start.Add(calls*time.Second), last)
}

func TestRoutePath(t *testing.T) {
	assert.Equal(t, "/test_1", Test1.Path())
	assert.Equal(t, "/test_3", Test3.Path())
}
