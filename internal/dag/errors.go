package dag

import "errors"

var (
	// ErrUnknownOperator is returned by Build when a control input names an
	// operator that has not been declared earlier in the list.
	ErrUnknownOperator = errors.New("unknown operator reference")

	// ErrCyclicDependency is returned by Build when the defensive cycle
	// check finds a cycle. The construction rule only ever adds edges from
	// earlier to later declarations, so hitting this indicates an internal
	// invariant violation rather than bad input.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// errSkipped marks nodes that never ran because an upstream operator
	// failed. It is a symptom, not a root cause, and is filtered out of the
	// error a run reports.
	errSkipped = errors.New("skipped due to upstream failure")
)
