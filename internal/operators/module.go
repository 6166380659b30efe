// Package operators provides the built-in operator types: sleep, fill,
// copy, concat and fail. They register through the registry.Module
// interface; applications embedding the engine can register additional
// types alongside them.
package operators

import "github.com/vk/dagnet/internal/registry"

// Module registers every built-in operator type.
type Module struct{}

// Register implements registry.Module.
func (Module) Register(r *registry.Registry) {
	r.Add(&registry.Definition{
		Type:     "sleep",
		NewInput: func() any { return &SleepInput{} },
		New:      newSleep,
	})
	r.Add(&registry.Definition{
		Type:     "fill",
		NewInput: func() any { return &FillInput{} },
		New:      newFill,
	})
	r.Add(&registry.Definition{
		Type: "copy",
		New:  newCopy,
	})
	r.Add(&registry.Definition{
		Type:     "concat",
		NewInput: func() any { return &ConcatInput{} },
		New:      newConcat,
	})
	r.Add(&registry.Definition{
		Type:     "fail",
		NewInput: func() any { return &FailInput{} },
		New:      newFail,
	})
}
