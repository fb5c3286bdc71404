package docsync

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(testDelay, func() { runs.Add(1) })
	defer d.Close()

	for i := 0; i < 10; i++ {
		d.Trigger()
	}

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Never(t, func() bool { return runs.Load() > 1 }, 3*testDelay, 10*time.Millisecond)
}

func TestDebouncerCloseWaitsForRunningCallback(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	d := NewDebouncer(time.Millisecond, func() {
		close(started)
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
	})

	d.Trigger()
	<-started
	d.Close()
	require.True(t, finished.Load())

	// closed debouncers ignore triggers
	d.Trigger()
	require.False(t, d.Pending())
}
