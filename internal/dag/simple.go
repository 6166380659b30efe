package dag

import (
	"context"
	"fmt"

	"github.com/vk/dagnet/internal/ctxlog"
)

// SimpleExecutor runs operators strictly in declaration order, ignoring the
// graph, and stops at the first failure. It is the baseline the concurrent
// executor must be observationally equivalent to: same final blob contents,
// same set of operators run before an abort, different timing.
type SimpleExecutor struct {
	ops []Operator
}

// NewSimpleExecutor creates a sequential executor over the given operators.
func NewSimpleExecutor(ops []Operator) *SimpleExecutor {
	return &SimpleExecutor{ops: ops}
}

// Run executes every operator in order. It returns the first operator
// failure, or the context error if the run is canceled between operators.
func (e *SimpleExecutor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for i, op := range e.ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("Operator starting.", "operator", op.Name(), "op", i)
		if err := op.Run(ctx); err != nil {
			logger.Error("Operator failed.", "operator", op.Name(), "op", i, "error", err)
			return fmt.Errorf("operator %q (op %d) failed: %w", op.Name(), i, err)
		}
	}
	return nil
}
