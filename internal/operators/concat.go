package operators

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/dagnet/internal/dag"
	"github.com/vk/dagnet/internal/netdef"
	"github.com/vk/dagnet/internal/workspace"
)

// ConcatInput defines the arguments for the concat operator.
type ConcatInput struct {
	Sep string `hcl:"sep,optional"`
}

// concatOp joins the string payloads of its input blobs, in declared order,
// into its single output blob.
type concatOp struct {
	name string
	sep  string
	ins  []*workspace.Blob
	out  *workspace.Blob
}

func newConcat(op *netdef.Op, args any, ws *workspace.Workspace) (dag.Operator, error) {
	input := args.(*ConcatInput)
	if len(op.Inputs) == 0 {
		return nil, fmt.Errorf("op %q: concat requires at least one input", op.Name)
	}
	if len(op.Outputs) != 1 {
		return nil, fmt.Errorf("op %q: concat requires exactly one output, got %d", op.Name, len(op.Outputs))
	}

	o := &concatOp{name: op.Name, sep: input.Sep, out: ws.CreateBlob(op.Outputs[0])}
	for _, in := range op.Inputs {
		o.ins = append(o.ins, ws.CreateBlob(in))
	}
	return o, nil
}

func (o *concatOp) Name() string { return o.name }

func (o *concatOp) Run(ctx context.Context) error {
	parts := make([]string, len(o.ins))
	for i, in := range o.ins {
		s, ok := in.Get().(string)
		if !ok {
			return fmt.Errorf("op %q: input blob %q does not hold a string (got %T)", o.name, in.Name(), in.Get())
		}
		parts[i] = s
	}
	o.out.Set(strings.Join(parts, o.sep))
	return nil
}
