package dag

import (
	"context"
	"fmt"

	"github.com/vk/dagnet/internal/ctxlog"
)

// Build constructs a complete, validated execution graph from an ordered
// list of operator descriptors. No partial graph is returned on error.
func Build(ctx context.Context, infos []OpInfo) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "op_count", len(infos))

	graph := &Graph{Nodes: make([]*Node, len(infos))}
	for i, info := range infos {
		graph.Nodes[i] = &Node{
			Index:      i,
			Name:       info.Name,
			Deps:       make(map[int]*Node),
			Dependents: make(map[int]*Node),
		}
	}

	tracker := newAccessTracker()
	// byName resolves control inputs. On duplicate names it holds the most
	// recent earlier declaration, the only resolution consistent with
	// control inputs referencing already-declared operators.
	byName := make(map[string]int, len(infos))

	for k, info := range infos {
		// Blob edges are computed against tracker state as it stood before
		// this operator, so an operator that reads and writes the same blob
		// gets no self-edge. The tracker is updated only after all of this
		// operator's dependencies are collected.
		var deps []int
		for _, blob := range info.Inputs {
			deps = append(deps, tracker.readDeps(blob)...)
		}
		for _, blob := range info.Outputs {
			deps = append(deps, tracker.writeDeps(blob)...)
		}
		for _, name := range info.ControlInputs {
			p, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("operator %q (op %d): %w: control input %q does not name an earlier operator",
					info.Name, k, ErrUnknownOperator, name)
			}
			deps = append(deps, p)
		}

		for _, p := range deps {
			graph.addEdge(p, k)
		}

		for _, blob := range info.Inputs {
			tracker.recordRead(blob, k)
		}
		for _, blob := range info.Outputs {
			tracker.recordWrite(blob, k)
		}
		byName[info.Name] = k
	}
	logger.Debug("Build: edge construction complete.", "edge_count", graph.EdgeCount())

	for _, node := range graph.Nodes {
		node.setInitialCounters()
	}

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: graph construction successful.")

	return graph, nil
}

// detectCycles checks for circular dependencies in the graph using DFS.
// Unreachable given the construction rule (every edge points from a lower
// declaration index to a higher one), but a construction bug would otherwise
// surface as a scheduler deadlock, so it is validated here.
func (g *Graph) detectCycles() error {
	visiting := make([]bool, len(g.Nodes))
	visited := make([]bool, len(g.Nodes))

	var visit func(node *Node) error
	visit = func(node *Node) error {
		visiting[node.Index] = true
		for _, dep := range node.Deps {
			if visiting[dep.Index] {
				return fmt.Errorf("%w: cycle detected involving operator %q (op %d)", ErrCyclicDependency, dep.Name, dep.Index)
			}
			if !visited[dep.Index] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		visiting[node.Index] = false
		visited[node.Index] = true
		return nil
	}

	for _, node := range g.Nodes {
		if !visited[node.Index] {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}
