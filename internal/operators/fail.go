package operators

import (
	"context"
	"errors"

	"github.com/vk/dagnet/internal/dag"
	"github.com/vk/dagnet/internal/netdef"
	"github.com/vk/dagnet/internal/workspace"
)

// FailInput defines the arguments for the fail operator.
type FailInput struct {
	Message string `hcl:"message,optional"`
}

// failOp always fails. It exists to exercise the executors' abort paths
// from net definitions.
type failOp struct {
	name    string
	message string
}

func newFail(op *netdef.Op, args any, ws *workspace.Workspace) (dag.Operator, error) {
	input := args.(*FailInput)
	msg := input.Message
	if msg == "" {
		msg = "fail operator triggered"
	}
	for _, in := range op.Inputs {
		ws.CreateBlob(in)
	}
	for _, out := range op.Outputs {
		ws.CreateBlob(out)
	}
	return &failOp{name: op.Name, message: msg}, nil
}

func (o *failOp) Name() string { return o.name }

func (o *failOp) Run(ctx context.Context) error {
	return errors.New(o.message)
}
