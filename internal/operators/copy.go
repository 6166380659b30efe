package operators

import (
	"context"
	"fmt"

	"github.com/vk/dagnet/internal/dag"
	"github.com/vk/dagnet/internal/netdef"
	"github.com/vk/dagnet/internal/workspace"
)

// copyOp copies input blob payloads to output blobs pairwise. It takes no
// arguments; behavior is fully determined by the declared blob lists.
type copyOp struct {
	name string
	ins  []*workspace.Blob
	outs []*workspace.Blob
}

func newCopy(op *netdef.Op, _ any, ws *workspace.Workspace) (dag.Operator, error) {
	if len(op.Inputs) == 0 || len(op.Inputs) != len(op.Outputs) {
		return nil, fmt.Errorf("op %q: copy requires equal, non-empty input and output lists, got %d inputs and %d outputs",
			op.Name, len(op.Inputs), len(op.Outputs))
	}

	o := &copyOp{name: op.Name}
	for _, in := range op.Inputs {
		o.ins = append(o.ins, ws.CreateBlob(in))
	}
	for _, out := range op.Outputs {
		o.outs = append(o.outs, ws.CreateBlob(out))
	}
	return o, nil
}

func (o *copyOp) Name() string { return o.name }

func (o *copyOp) Run(ctx context.Context) error {
	for i, in := range o.ins {
		o.outs[i].Set(in.Get())
	}
	return nil
}
