// Package testutil provides the shared harness for app-level tests: a
// thread-safe log buffer and a runner that materializes input files in a
// temporary directory before driving a full App.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cardiograph/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements fmt.Stringer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Result holds the outcomes of one harnessed app run.
type Result struct {
	Output    string
	LogOutput string
	Err       error
}

// RunApp writes the given files into a fresh temp directory, rewrites the
// config through configure (which receives the directory), and runs the
// app to completion. File names in files may contain subdirectories.
func RunApp(t *testing.T, files map[string]string, configure func(dir string) app.Config) *Result {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(configure(dir))
	require.NoError(t, err)

	outBuf := &SafeBuffer{}
	logBuf := &SafeBuffer{}
	a := app.NewApp(outBuf, logBuf, cfg)
	runErr := a.Run(context.Background())

	return &Result{
		Output:    outBuf.String(),
		LogOutput: logBuf.String(),
		Err:       runErr,
	}
}
