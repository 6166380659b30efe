// Package registry maps operator type names to the code that builds them.
//
// The registry is an explicit object passed into net instantiation, not
// process-wide state, so tests can assemble isolated registries with only
// the types they need.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/dagnet/internal/ctxlog"
	"github.com/vk/dagnet/internal/dag"
	"github.com/vk/dagnet/internal/netdef"
	"github.com/vk/dagnet/internal/workspace"
)

// Module is the interface packages implement to contribute operator types.
type Module interface {
	Register(r *Registry)
}

// Factory builds a ready-to-run operator from its definition, its decoded
// arguments, and the workspace it will execute against. The args value is
// the struct NewInput produced, nil for types without one.
type Factory func(op *netdef.Op, args any, ws *workspace.Workspace) (dag.Operator, error)

// Definition describes a single operator type.
type Definition struct {
	Type string
	// NewInput returns a pointer to a fresh args struct for HCL decoding,
	// nil when the type takes no arguments.
	NewInput func() any
	New      Factory
}

// Registry holds the operator type definitions for one application instance.
type Registry struct {
	defs map[string]*Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Add registers a definition. Registering the same type twice is a
// programmer error and panics.
func (r *Registry) Add(def *Definition) {
	if def.Type == "" || def.New == nil {
		panic("registry: definition must have a type and a factory")
	}
	if _, exists := r.defs[def.Type]; exists {
		panic(fmt.Sprintf("registry: operator type %q registered twice", def.Type))
	}
	r.defs[def.Type] = def
}

// Lookup returns the definition for an operator type.
func (r *Registry) Lookup(opType string) (*Definition, bool) {
	def, ok := r.defs[opType]
	return def, ok
}

// Types returns all registered type names, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.defs))
	for t := range r.defs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Instantiate builds the operator for a single net op: it resolves the
// type, decodes the op's args block into the type's input struct, and
// invokes the factory.
func (r *Registry) Instantiate(ctx context.Context, op *netdef.Op, ws *workspace.Workspace) (dag.Operator, error) {
	def, ok := r.defs[op.Type]
	if !ok {
		return nil, fmt.Errorf("op %q: unknown operator type %q", op.Name, op.Type)
	}

	var args any
	if def.NewInput != nil {
		args = def.NewInput()
		if err := op.DecodeArgs(args); err != nil {
			return nil, fmt.Errorf("decoding arguments: %w", err)
		}
	}

	operator, err := def.New(op, args, ws)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Operator instantiated.", "operator", op.Name, "type", op.Type)
	return operator, nil
}

// InstantiateAll builds every op of a net in declaration order.
func (r *Registry) InstantiateAll(ctx context.Context, net *netdef.Net, ws *workspace.Workspace) ([]dag.Operator, error) {
	ops := make([]dag.Operator, 0, len(net.Ops))
	for i, opDef := range net.Ops {
		op, err := r.Instantiate(ctx, opDef, ws)
		if err != nil {
			return nil, fmt.Errorf("instantiating op %q (op %d): %w", opDef.Name, i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}
