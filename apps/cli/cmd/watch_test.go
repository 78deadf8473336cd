package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe to write from the watch goroutine while
// the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_DebouncesWrites(t *testing.T) {
	saved := outputFlag
	outputFlag = ""
	t.Cleanup(func() { outputFlag = saved })

	dir := t.TempDir()
	path := filepath.Join(dir, "call.api")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch(cmd, path, func() error {
			runs.Add(1)
			return errors.New("server said no")
		})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte(`{"LastApiUrl":"https://a.example.com"}`), 0644))
	require.NoError(t, os.WriteFile(path, []byte(`{"LastApiUrl":"https://b.example.com"}`), 0644))

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, 3*time.Second, 20*time.Millisecond)

	time.Sleep(2 * WatchDebounceDelay)
	assert.Equal(t, int32(1), runs.Load(), "two quick writes send the call once")
	assert.Contains(t, out.String(), "File changed: "+path)
	assert.Contains(t, out.String(), "server said no")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after the context was cancelled")
	}
}

func TestExec_WatchNeedsFile(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "exec", "--url", "https://example.com", "--watch")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeFor(err))
}
