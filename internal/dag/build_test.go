package dag

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagnet/internal/ctxlog"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func hasEdge(g *Graph, from, to int) bool {
	_, ok := g.Nodes[to].Deps[from]
	return ok
}

func TestBuildEmpty(t *testing.T) {
	g, err := Build(testContext(), nil)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
}

func TestBuildReadAfterWrite(t *testing.T) {
	g, err := Build(testContext(), []OpInfo{
		{Name: "producer", Outputs: []string{"a"}},
		{Name: "consumer", Inputs: []string{"a"}, Outputs: []string{"b"}},
	})
	require.NoError(t, err)

	assert.True(t, hasEdge(g, 0, 1))
	assert.Equal(t, 1, g.EdgeCount())
}

func TestBuildReadAfterReadHasNoEdge(t *testing.T) {
	// Two consumers of the same blob must stay independent so they can run
	// concurrently.
	g, err := Build(testContext(), []OpInfo{
		{Name: "producer", Outputs: []string{"a"}},
		{Name: "left", Inputs: []string{"a"}, Outputs: []string{"b"}},
		{Name: "right", Inputs: []string{"a"}, Outputs: []string{"c"}},
	})
	require.NoError(t, err)

	assert.True(t, hasEdge(g, 0, 1))
	assert.True(t, hasEdge(g, 0, 2))
	assert.False(t, hasEdge(g, 1, 2))
	assert.False(t, hasEdge(g, 2, 1))
}

func TestBuildWriteAfterWrite(t *testing.T) {
	g, err := Build(testContext(), []OpInfo{
		{Name: "first", Outputs: []string{"a"}},
		{Name: "second", Outputs: []string{"a"}},
	})
	require.NoError(t, err)

	assert.True(t, hasEdge(g, 0, 1))
}

func TestBuildWriteAfterRead(t *testing.T) {
	g, err := Build(testContext(), []OpInfo{
		{Name: "producer", Outputs: []string{"a"}},
		{Name: "reader", Inputs: []string{"a"}, Outputs: []string{"b"}},
		{Name: "rewriter", Outputs: []string{"a"}},
	})
	require.NoError(t, err)

	// rewriter must wait for the in-flight reader and the previous writer.
	assert.True(t, hasEdge(g, 1, 2))
	assert.True(t, hasEdge(g, 0, 2))
	assert.True(t, hasEdge(g, 0, 1))
}

func TestBuildControlInput(t *testing.T) {
	g, err := Build(testContext(), []OpInfo{
		{Name: "first", Outputs: []string{"a"}},
		{Name: "second", Outputs: []string{"b"}, ControlInputs: []string{"first"}},
	})
	require.NoError(t, err)

	// No blob relationship exists, yet the edge must be there.
	assert.True(t, hasEdge(g, 0, 1))
}

func TestBuildUnknownControlInput(t *testing.T) {
	t.Run("undeclared name", func(t *testing.T) {
		_, err := Build(testContext(), []OpInfo{
			{Name: "only", Outputs: []string{"a"}, ControlInputs: []string{"ghost"}},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})

	t.Run("forward reference", func(t *testing.T) {
		_, err := Build(testContext(), []OpInfo{
			{Name: "early", Outputs: []string{"a"}, ControlInputs: []string{"late"}},
			{Name: "late", Outputs: []string{"b"}},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})
}

func TestBuildDeduplicatesEdges(t *testing.T) {
	// Reading two blobs from the same producer, plus a control input on it,
	// must collapse into a single edge.
	g, err := Build(testContext(), []OpInfo{
		{Name: "producer", Outputs: []string{"a", "b"}},
		{Name: "consumer", Inputs: []string{"a", "b"}, Outputs: []string{"c"}, ControlInputs: []string{"producer"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, g.EdgeCount())
	assert.Len(t, g.Nodes[1].Deps, 1)
	assert.Len(t, g.Nodes[0].Dependents, 1)
}

func TestBuildInPlaceUpdate(t *testing.T) {
	// An operator reading and writing the same blob gets no self-edge; its
	// edges are computed against tracker state from before it ran, and it
	// becomes the blob's new last writer with an empty reader set.
	g, err := Build(testContext(), []OpInfo{
		{Name: "producer", Outputs: []string{"a"}},
		{Name: "inplace", Inputs: []string{"a"}, Outputs: []string{"a"}},
		{Name: "consumer", Inputs: []string{"a"}, Outputs: []string{"b"}},
	})
	require.NoError(t, err)

	require.Len(t, g.Nodes[1].Deps, 1)
	assert.True(t, hasEdge(g, 0, 1))
	assert.False(t, hasEdge(g, 1, 1))

	// The later reader depends on the in-place updater, not the original
	// producer.
	require.Len(t, g.Nodes[2].Deps, 1)
	assert.True(t, hasEdge(g, 1, 2))
}

func TestBuildDuplicateNames(t *testing.T) {
	// Duplicate names are legal for distinct operators; a control input
	// resolves to the most recent earlier declaration.
	g, err := Build(testContext(), []OpInfo{
		{Name: "twin", Outputs: []string{"a"}},
		{Name: "twin", Outputs: []string{"b"}},
		{Name: "after", Outputs: []string{"c"}, ControlInputs: []string{"twin"}},
	})
	require.NoError(t, err)

	assert.True(t, hasEdge(g, 1, 2))
	assert.False(t, hasEdge(g, 0, 2))
}

func TestBuildInitialCounters(t *testing.T) {
	g, err := Build(testContext(), []OpInfo{
		{Name: "rootA", Outputs: []string{"a"}},
		{Name: "rootB", Outputs: []string{"b"}},
		{Name: "join", Inputs: []string{"a", "b"}, Outputs: []string{"c"}},
	})
	require.NoError(t, err)

	assert.Equal(t, Ready, g.Nodes[0].State())
	assert.Equal(t, Ready, g.Nodes[1].State())
	assert.Equal(t, Pending, g.Nodes[2].State())
	assert.Equal(t, int32(0), g.Nodes[0].depCount.Load())
	assert.Equal(t, int32(2), g.Nodes[2].depCount.Load())
}

func TestDetectCycles(t *testing.T) {
	newGraph := func(n int) *Graph {
		g := &Graph{Nodes: make([]*Node, n)}
		for i := range g.Nodes {
			g.Nodes[i] = &Node{Index: i, Deps: make(map[int]*Node), Dependents: make(map[int]*Node)}
		}
		return g
	}

	t.Run("valid dag passes", func(t *testing.T) {
		g := newGraph(4)
		g.addEdge(0, 1)
		g.addEdge(1, 2)
		g.addEdge(0, 2) // transitive edge
		g.addEdge(2, 3)
		assert.NoError(t, g.detectCycles())
	})

	t.Run("direct cycle is detected", func(t *testing.T) {
		g := newGraph(2)
		g.addEdge(0, 1)
		g.addEdge(1, 0)
		err := g.detectCycles()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCyclicDependency)
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		g := newGraph(4)
		g.addEdge(0, 1)
		g.addEdge(1, 2)
		g.addEdge(2, 3)
		g.addEdge(3, 1)
		assert.ErrorIs(t, g.detectCycles(), ErrCyclicDependency)
	})
}
