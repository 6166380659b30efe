package netdef

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagnet/internal/ctxlog"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func writeNetFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	path := writeNetFile(t, t.TempDir(), "net.hcl", `
net {
  name        = "sleepnet"
  type        = "dag"
  num_workers = 2
}

op "sleep" "sleep1" {
  outputs = ["sleep1"]
  args {
    ms = 100
  }
}

op "sleep" "sleep2" {
  inputs         = ["sleep1"]
  outputs        = ["sleep2"]
  control_inputs = ["sleep1"]
}
`)

	net, err := Load(testContext(), path)
	require.NoError(t, err)

	assert.Equal(t, "sleepnet", net.Name)
	assert.Equal(t, NetTypeDag, net.Type)
	assert.Equal(t, 2, net.NumWorkers)
	require.Len(t, net.Ops, 2)

	first := net.Ops[0]
	assert.Equal(t, "sleep", first.Type)
	assert.Equal(t, "sleep1", first.Name)
	assert.Empty(t, first.Inputs)
	assert.Equal(t, []string{"sleep1"}, first.Outputs)
	require.NotNil(t, first.Args)

	second := net.Ops[1]
	assert.Equal(t, []string{"sleep1"}, second.Inputs)
	assert.Equal(t, []string{"sleep2"}, second.Outputs)
	assert.Equal(t, []string{"sleep1"}, second.ControlInputs)
	assert.Nil(t, second.Args)
}

func TestLoadDefaults(t *testing.T) {
	path := writeNetFile(t, t.TempDir(), "net.hcl", `
op "sleep" "only" {
  outputs = ["x"]
}
`)

	net, err := Load(testContext(), path)
	require.NoError(t, err)
	assert.Equal(t, NetTypeDag, net.Type)
	assert.Zero(t, net.NumWorkers)
	assert.Empty(t, net.Name)
}

func TestLoadDirectoryMergesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeNetFile(t, dir, "01-first.hcl", `
net {
  name = "split"
  type = "simple"
}

op "fill" "a" {
  outputs = ["a"]
  args {
    value = "A"
  }
}
`)
	writeNetFile(t, dir, "02-second.hcl", `
op "fill" "b" {
  outputs = ["b"]
  args {
    value = "B"
  }
}
`)

	net, err := Load(testContext(), dir)
	require.NoError(t, err)
	assert.Equal(t, "split", net.Name)
	assert.Equal(t, NetTypeSimple, net.Type)
	require.Len(t, net.Ops, 2)
	assert.Equal(t, "a", net.Ops[0].Name)
	assert.Equal(t, "b", net.Ops[1].Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Load(testContext(), filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Load(testContext(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .hcl files")
	})

	t.Run("invalid HCL", func(t *testing.T) {
		path := writeNetFile(t, t.TempDir(), "net.hcl", `op "sleep" {`)
		_, err := Load(testContext(), path)
		assert.Error(t, err)
	})

	t.Run("duplicate net block", func(t *testing.T) {
		dir := t.TempDir()
		writeNetFile(t, dir, "a.hcl", `
net {
  name = "one"
}
`)
		writeNetFile(t, dir, "b.hcl", `
net {
  name = "two"
}
`)
		_, err := Load(testContext(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate net block")
	})

	t.Run("unknown net type", func(t *testing.T) {
		path := writeNetFile(t, t.TempDir(), "net.hcl", `
net {
  type = "async"
}
`)
		_, err := Load(testContext(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown net type")
	})

	t.Run("negative workers", func(t *testing.T) {
		path := writeNetFile(t, t.TempDir(), "net.hcl", `
net {
  num_workers = -1
}
`)
		_, err := Load(testContext(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "num_workers")
	})
}

func TestDecodeArgs(t *testing.T) {
	type sleepArgs struct {
		Ms int `hcl:"ms,optional"`
	}

	t.Run("decodes into target", func(t *testing.T) {
		path := writeNetFile(t, t.TempDir(), "net.hcl", `
op "sleep" "s" {
  args {
    ms = 150
  }
}
`)
		net, err := Load(testContext(), path)
		require.NoError(t, err)

		var args sleepArgs
		require.NoError(t, net.Ops[0].DecodeArgs(&args))
		assert.Equal(t, 150, args.Ms)
	})

	t.Run("missing args block keeps zero values", func(t *testing.T) {
		op := &Op{Name: "s"}
		var args sleepArgs
		require.NoError(t, op.DecodeArgs(&args))
		assert.Zero(t, args.Ms)
	})

	t.Run("unknown attribute is an error", func(t *testing.T) {
		path := writeNetFile(t, t.TempDir(), "net.hcl", `
op "sleep" "s" {
  args {
    bogus = true
  }
}
`)
		net, err := Load(testContext(), path)
		require.NoError(t, err)

		var args sleepArgs
		assert.Error(t, net.Ops[0].DecodeArgs(&args))
	})
}
