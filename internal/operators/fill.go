package operators

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/dagnet/internal/dag"
	"github.com/vk/dagnet/internal/netdef"
	"github.com/vk/dagnet/internal/workspace"
)

// FillInput defines the arguments for the fill operator. Value accepts any
// primitive HCL value; numbers and bools are converted to their string form.
type FillInput struct {
	Value cty.Value `hcl:"value"`
}

// fillOp writes a constant string value to every output blob.
type fillOp struct {
	name  string
	value string
	outs  []*workspace.Blob
}

func newFill(op *netdef.Op, args any, ws *workspace.Workspace) (dag.Operator, error) {
	input := args.(*FillInput)
	if len(op.Outputs) == 0 {
		return nil, fmt.Errorf("op %q: fill requires at least one output", op.Name)
	}
	if input.Value.IsNull() {
		return nil, fmt.Errorf("op %q: fill requires a value", op.Name)
	}
	val, err := convert.Convert(input.Value, cty.String)
	if err != nil {
		return nil, fmt.Errorf("op %q: value is not representable as a string: %w", op.Name, err)
	}

	o := &fillOp{name: op.Name, value: val.AsString()}
	for _, out := range op.Outputs {
		o.outs = append(o.outs, ws.CreateBlob(out))
	}
	return o, nil
}

func (o *fillOp) Name() string { return o.name }

func (o *fillOp) Run(ctx context.Context) error {
	for _, out := range o.outs {
		out.Set(o.value)
	}
	return nil
}
