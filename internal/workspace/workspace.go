// Package workspace provides the shared blob container operators read and
// write during a net run.
//
// A Workspace outlives a single run; its blobs are created when operators
// are instantiated and mutated in place as they execute. Map membership is
// concurrency-safe via sync.Map. Blob payloads carry no lock of their own:
// the dependency graph serializes every conflicting access, so two
// concurrently running operators never touch the same blob.
package workspace

import (
	"sort"
	"sync"
)

// Blob is a named, opaque piece of shared data. The operator that last
// wrote a blob owns its payload.
type Blob struct {
	name  string
	value any
}

// Name returns the blob's workspace-unique name.
func (b *Blob) Name() string { return b.name }

// Set replaces the blob's payload.
func (b *Blob) Set(v any) { b.value = v }

// Get returns the blob's current payload, nil if never written.
func (b *Blob) Get() any { return b.value }

// Workspace is the mutable container of named blobs shared across a run.
type Workspace struct {
	blobs sync.Map // blob name -> *Blob
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{}
}

// CreateBlob returns the blob with the given name, creating it if needed.
// Creating an existing blob is a no-op returning the existing blob.
func (w *Workspace) CreateBlob(name string) *Blob {
	b, _ := w.blobs.LoadOrStore(name, &Blob{name: name})
	return b.(*Blob)
}

// Blob looks up a blob by name.
func (w *Workspace) Blob(name string) (*Blob, bool) {
	b, ok := w.blobs.Load(name)
	if !ok {
		return nil, false
	}
	return b.(*Blob), true
}

// Has reports whether a blob with the given name exists.
func (w *Workspace) Has(name string) bool {
	_, ok := w.blobs.Load(name)
	return ok
}

// Names returns the names of all blobs in the workspace, sorted.
func (w *Workspace) Names() []string {
	var names []string
	w.blobs.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Snapshot returns the current name-to-payload mapping. Payloads are not
// deep-copied; callers comparing runs should use value-typed payloads.
func (w *Workspace) Snapshot() map[string]any {
	snap := make(map[string]any)
	w.blobs.Range(func(key, value any) bool {
		snap[key.(string)] = value.(*Blob).Get()
		return true
	})
	return snap
}
