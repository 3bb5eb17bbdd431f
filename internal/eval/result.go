package eval

import (
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/values"
)

// StatusKind tags which of the five control-flow statuses a Result
// carries: ok/return/break/continue/error.
type StatusKind uint8

const (
	StatusOk StatusKind = iota
	StatusReturn
	StatusBreak
	StatusContinue
	StatusError
)

// Result is the evaluation-result sum threaded through every Eval call.
// Exactly one payload is meaningful per Kind: Value for Ok/Return, Label/
// HasLabel for Break/Continue, Err for Error. Ok/Return values are owned
// references handed to the caller — every Eval call that returns a value
// hands over a +1 reference; callers that discard a Result's value
// without propagating it further must Release it.
type Result struct {
	Kind     StatusKind
	Value    *values.Value
	Label    string
	HasLabel bool
	Err      *lmerr.Error
}

// Ok wraps an owned value as normal completion.
func Ok(v *values.Value) Result { return Result{Kind: StatusOk, Value: v} }

// Return wraps an owned value to propagate out of the enclosing call.
func Return(v *values.Value) Result { return Result{Kind: StatusReturn, Value: v} }

// Break produces a break status, optionally targeting a label.
func Break(label string, hasLabel bool) Result {
	return Result{Kind: StatusBreak, Label: label, HasLabel: hasLabel}
}

// Continue produces a continue status, optionally targeting a label.
func Continue(label string, hasLabel bool) Result {
	return Result{Kind: StatusContinue, Label: label, HasLabel: hasLabel}
}

// ErrorResult wraps a runtime error to unwind until a matching try/catch.
func ErrorResult(err *lmerr.Error) Result { return Result{Kind: StatusError, Err: err} }

// IsOk reports whether this result is a normal (non-unwinding) completion.
func (r Result) IsOk() bool { return r.Kind == StatusOk }

// Release drops the result's owned value, if any. Safe to call on any
// Result kind (a no-op when Value is nil).
func (r Result) Release() {
	if r.Value != nil {
		r.Value.Release()
	}
}
