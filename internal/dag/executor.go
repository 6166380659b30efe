package dag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/dagnet/internal/ctxlog"
)

// Executor runs a graph's operators concurrently across a fixed pool of
// workers. An Executor is single-use: node state mutates during the run, so
// executing the same net again requires rebuilding the graph.
type Executor struct {
	graph   *Graph
	ops     []Operator
	workers int
	wg      sync.WaitGroup
}

// NewExecutor pairs a built graph with the operators it describes, by
// declaration index. The worker count is clamped to a minimum of one.
func NewExecutor(graph *Graph, ops []Operator, workers int) (*Executor, error) {
	if len(ops) != len(graph.Nodes) {
		return nil, fmt.Errorf("operator count %d does not match graph node count %d", len(ops), len(graph.Nodes))
	}
	if workers < 1 {
		workers = 1
	}
	return &Executor{graph: graph, ops: ops, workers: workers}, nil
}

// Run executes the entire graph and returns an error if any operator fails.
// Failure is fail-fast at dispatch granularity: no new node starts once a
// failure is observed, but in-flight operators always run to completion
// before Run returns.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *Node, len(e.graph.Nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootCount := 0
	for _, node := range e.graph.Nodes {
		if node.depCount.Load() == 0 {
			readyChan <- node
			rootCount++
		}
	}
	logger.Debug("Seeded ready queue with root nodes.", "count", rootCount)

	e.wg.Add(len(e.graph.Nodes))

	logger.Debug("Starting worker pool.", "workers", e.workers)
	for i := 0; i < e.workers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	e.wg.Wait()
	close(readyChan)

	var failed []string
	var rootCause error
	for _, node := range e.graph.Nodes {
		if node.State() != Failed {
			continue
		}
		// Skipped and canceled nodes are symptoms; report the operator
		// failure that triggered the abort.
		if node.Err != nil && !errors.Is(node.Err, errSkipped) && !errors.Is(node.Err, context.Canceled) {
			failed = append(failed, fmt.Sprintf("%q (op %d)", node.Name, node.Index))
			if rootCause == nil {
				rootCause = node.Err
			}
		}
	}
	if rootCause != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause)
	}
	return nil
}

// worker is the processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *Node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)

	for node := range readyChan {
		workerLogger := logger.With("workerID", workerID, "operator", node.Name, "op", node.Index)

		if ctx.Err() != nil {
			node.skipOnce.Do(func() {
				workerLogger.Warn("Run aborting, operator not started.")
				node.setState(Failed)
				node.Err = ctx.Err()
				e.wg.Done()
				// Dependents of a node that never ran must be released too,
				// or the WaitGroup never drains.
				e.skipDependents(ctx, node)
			})
			continue
		}

		workerLogger.Debug("Operator starting.")
		node.setState(Running)
		err := e.ops[node.Index].Run(ctx)
		if err != nil {
			workerLogger.Error("Operator failed.", "error", err)
			node.setState(Failed)
			node.Err = err
			cancel()
			e.skipDependents(ctx, node)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Operator finished.")
		node.setState(Done)

		for _, dependent := range node.Dependents {
			// The decrement that reaches zero wins the right to enqueue;
			// racing predecessor completions ready a node exactly once.
			if dependent.depCount.Add(-1) == 0 {
				dependent.setState(Ready)
				readyChan <- dependent
			}
		}

		e.wg.Done()
	}
}

// skipDependents recursively marks all downstream nodes as failed without
// running them. skipOnce keeps racing upstream failures from double-counting
// a node in the WaitGroup.
func (e *Executor) skipDependents(ctx context.Context, node *Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range node.Dependents {
		dependent.skipOnce.Do(func() {
			logger.Warn("Skipping operator due to upstream failure.", "operator", dependent.Name, "upstream", node.Name)
			dependent.setState(Failed)
			dependent.Err = fmt.Errorf("%w of %q", errSkipped, node.Name)
			e.wg.Done()
			e.skipDependents(ctx, dependent)
		})
	}
}
