package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsModifiedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cue.wav")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	w := NewWatcher(10*time.Millisecond, nil)
	changed := make(chan string, 4)
	w.SetChangeCallback(func(p string) { changed <- p })
	w.Watch(path)
	w.Start()
	t.Cleanup(w.Stop)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case got := <-changed:
		assert.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatal("change not reported")
	}
}

func TestWatcher_Unwatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cue.wav")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	w := NewWatcher(time.Hour, nil)
	var calls int
	w.SetChangeCallback(func(string) { calls++ })
	w.Watch(path)
	w.Unwatch(path)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	w.poll()
	assert.Zero(t, calls)
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	w := NewWatcher(0, nil)
	assert.Equal(t, DefaultPollInterval, w.interval)

	w.Stop()
	w.Start()
	w.Start()
	w.Stop()
	w.Stop()
}
