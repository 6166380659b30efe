package operators

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/dagnet/internal/dag"
	"github.com/vk/dagnet/internal/netdef"
	"github.com/vk/dagnet/internal/workspace"
)

// SleepInput defines the arguments for the sleep operator.
type SleepInput struct {
	Ms int `hcl:"ms,optional"`
}

// SleepWindow is the payload a sleep operator writes to its output blob:
// the wall-clock start and end of its run.
type SleepWindow struct {
	Start time.Time
	End   time.Time
}

// sleepOp blocks for a configured number of milliseconds. It accepts
// arbitrary inputs and at most one output; when an output is declared, the
// op records its execution window there. Useful for exercising net
// scaffolding and scheduling behavior.
type sleepOp struct {
	name string
	d    time.Duration
	out  *workspace.Blob // nil when no output is declared
}

func newSleep(op *netdef.Op, args any, ws *workspace.Workspace) (dag.Operator, error) {
	input := args.(*SleepInput)
	ms := input.Ms
	if ms == 0 {
		ms = 1000
	}
	if ms < 0 {
		return nil, fmt.Errorf("op %q: ms must be positive, got %d", op.Name, ms)
	}
	if len(op.Outputs) > 1 {
		return nil, fmt.Errorf("op %q: sleep declares at most one output, got %d", op.Name, len(op.Outputs))
	}

	o := &sleepOp{name: op.Name, d: time.Duration(ms) * time.Millisecond}
	for _, in := range op.Inputs {
		ws.CreateBlob(in)
	}
	if len(op.Outputs) == 1 {
		o.out = ws.CreateBlob(op.Outputs[0])
	}
	return o, nil
}

func (o *sleepOp) Name() string { return o.name }

func (o *sleepOp) Run(ctx context.Context) error {
	start := time.Now()
	time.Sleep(o.d)
	if o.out != nil {
		o.out.Set(SleepWindow{Start: start, End: time.Now()})
	}
	return nil
}
