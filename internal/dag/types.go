package dag

import (
	"context"
	"sync"
	"sync/atomic"
)

// Operator is an opaque unit of computation. Run blocks for the duration of
// the work and reports failure through its error; operators have no
// cancellation hook once started.
type Operator interface {
	Name() string
	Run(ctx context.Context) error
}

// OpInfo describes one operator to the graph builder: its name, the blobs it
// reads and writes, and the names of operators it must run after regardless
// of data flow. Declaration order is semantic; duplicate names are legal and
// identify distinct operators.
type OpInfo struct {
	Name          string
	Inputs        []string
	Outputs       []string
	ControlInputs []string
}

// NodeState tracks a node through its execution lifecycle.
type NodeState int32

const (
	Pending NodeState = iota
	Ready
	Running
	Done
	Failed
)

// Node is one operator's record in the execution graph.
type Node struct {
	// Index is the operator's declaration position; it doubles as the node's
	// identity since names may repeat.
	Index int
	Name  string

	// Deps holds the nodes this node depends on (predecessors), keyed by
	// index. Dependents is the reverse mapping (successors).
	Deps       map[int]*Node
	Dependents map[int]*Node

	// depCount is the number of predecessors not yet Done. It is initialized
	// to len(Deps) before a run and decremented atomically as predecessors
	// complete; the decrement that reaches zero enqueues the node.
	depCount atomic.Int32

	state atomic.Int32

	// skipOnce guards the failure bookkeeping for this node so that racing
	// upstream failures mark it exactly once.
	skipOnce sync.Once

	// Err records why the node failed, when it did.
	Err error
}

// State returns the node's current lifecycle state.
func (n *Node) State() NodeState {
	return NodeState(n.state.Load())
}

func (n *Node) setState(s NodeState) {
	n.state.Store(int32(s))
}

// setInitialCounters primes the node for a run once all edges are in place.
func (n *Node) setInitialCounters() {
	n.depCount.Store(int32(len(n.Deps)))
	if len(n.Deps) == 0 {
		n.setState(Ready)
	} else {
		n.setState(Pending)
	}
}

// Graph is the execution graph: one node per operator, in declaration order.
// A graph is built once per run and is not reusable, since node state
// mutates during execution.
type Graph struct {
	Nodes []*Node
}

// addEdge records that node `to` depends on node `from`. Multi-edges between
// the same pair collapse into one.
func (g *Graph) addEdge(from, to int) {
	src, dst := g.Nodes[from], g.Nodes[to]
	if _, exists := dst.Deps[from]; exists {
		return
	}
	dst.Deps[from] = src
	src.Dependents[to] = dst
}

// EdgeCount returns the number of distinct dependency edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, node := range g.Nodes {
		count += len(node.Deps)
	}
	return count
}
