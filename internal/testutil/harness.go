// Package testutil provides shared helpers for end-to-end net tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/dagnet/internal/app"
	"github.com/vk/dagnet/internal/registry"
	"github.com/vk/dagnet/internal/workspace"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an end-to-end net run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Workspace *workspace.Workspace
}

// RunNetTest writes the given net definition to a temporary file and
// executes it end to end with a fresh App. Extra modules, when given,
// replace the built-in operator set.
func RunNetTest(t *testing.T, netHCL string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	path := filepath.Join(t.TempDir(), "net.hcl")
	require.NoError(t, os.WriteFile(path, []byte(netHCL), 0o644))

	cfg, err := app.NewConfig(app.Config{
		NetPath:     path,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := app.NewApp(logBuffer, cfg, modules...)
	ws, runErr := testApp.Run(context.Background())

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		Workspace: ws,
	}
}
