// Package netdef loads net definitions from HCL files into an ordered,
// format-agnostic model the rest of the system consumes.
//
// A net definition is one `net` block plus any number of `op` blocks:
//
//	net {
//	  name        = "sleepnet"
//	  type        = "dag"
//	  num_workers = 2
//	}
//
//	op "sleep" "sleep2" {
//	  inputs  = ["sleep1"]
//	  outputs = ["sleep2"]
//	  args {
//	    ms = 100
//	  }
//	}
//
// Op declaration order is semantic: the graph builder infers dependencies by
// walking ops in the order they appear.
package netdef

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// Net types select the executor.
const (
	NetTypeDag    = "dag"
	NetTypeSimple = "simple"
)

// Net is a loaded net definition: settings plus the ordered operator list.
type Net struct {
	Name string
	// Type selects the executor, "dag" (default) or "simple".
	Type string
	// NumWorkers, when positive, overrides the configured worker count.
	NumWorkers int
	Ops        []*Op
}

// Op describes one operator: its registered type, its name, the blobs it
// reads and writes, its explicit ordering predecessors, and its raw
// arguments body, decoded later against the type's input struct.
type Op struct {
	Type          string
	Name          string
	Inputs        []string
	Outputs       []string
	ControlInputs []string

	// Args is the body of the op's args block, nil when the block is absent.
	Args hcl.Body
}

// DecodeArgs populates target (a pointer to the operator type's input
// struct) from the op's args block. A missing args block leaves the
// struct's zero values in place.
func (o *Op) DecodeArgs(target any) error {
	if o.Args == nil {
		return nil
	}
	if diags := gohcl.DecodeBody(o.Args, nil, target); diags.HasErrors() {
		return fmt.Errorf("op %q: %w", o.Name, diags)
	}
	return nil
}

// fileSchema is the HCL shape of a single definition file.
type fileSchema struct {
	Net *netBlock  `hcl:"net,block"`
	Ops []*opBlock `hcl:"op,block"`
}

type netBlock struct {
	Name       string `hcl:"name,optional"`
	Type       string `hcl:"type,optional"`
	NumWorkers int    `hcl:"num_workers,optional"`
}

type opBlock struct {
	Type          string     `hcl:"type,label"`
	Name          string     `hcl:"name,label"`
	Inputs        []string   `hcl:"inputs,optional"`
	Outputs       []string   `hcl:"outputs,optional"`
	ControlInputs []string   `hcl:"control_inputs,optional"`
	Args          *argsBlock `hcl:"args,block"`
}

type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
