package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_TriggerCoalesces(t *testing.T) {
	var calls atomic.Int32
	w := NewWatcher(t.TempDir(), 50*time.Millisecond, func() { calls.Add(1) }, zerolog.Nop())

	for i := 0; i < 5; i++ {
		w.Trigger()
		time.Sleep(10 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_RecoversPanic(t *testing.T) {
	var calls atomic.Int32
	w := NewWatcher(t.TempDir(), 10*time.Millisecond, func() {
		calls.Add(1)
		panic("boom")
	}, zerolog.Nop())

	w.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	w.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWatcher_RunSettlesAfterRename(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "__staged")
	var calls atomic.Int32
	w := NewWatcher(dir, 100*time.Millisecond, func() { calls.Add(1) }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(dir)
		return err == nil
	}, time.Second, 5*time.Millisecond)
	// give the watch a moment to register
	time.Sleep(50 * time.Millisecond)

	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.Rename(a, filepath.Join(dir, "b.txt")))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_NoFireAfterStop(t *testing.T) {
	var calls atomic.Int32
	w := NewWatcher(t.TempDir(), 20*time.Millisecond, func() { calls.Add(1) }, zerolog.Nop())
	w.Trigger()
	w.stop()
	w.Trigger()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
