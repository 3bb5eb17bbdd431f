package lmerr

import (
	"fmt"
	"strings"
)

// Kind classifies a runtime error without introducing a second type
// hierarchy: these are a taxonomy of *kinds*, not distinct Go types, so
// every kind is carried by the same Error struct.
type Kind string

const (
	KindUser      Kind = "user"      // raised by the `error` IR node, or a built-in/platform error
	KindTypeShape Kind = "type"      // a value didn't match the expected kind for an IR operation
	KindUndefined Kind = "undefined" // variable lookup failed in the environment chain
	KindOOM       Kind = "oom"       // allocation failure, reported as a user error
)

// Error is the runtime error threaded through the evaluator's error status.
// It is never panicked; it is returned as data so try/catch can observe it.
type Error struct {
	Kind    Kind
	Message string
	Stack   Stack
}

func (e *Error) Error() string {
	if len(e.Stack) == 0 {
		return e.Message
	}
	var b strings.Builder
	b.WriteString(e.Message)
	for _, loc := range e.Stack {
		b.WriteString("\n  at ")
		b.WriteString(loc.String())
	}
	return b.String()
}

// WithLocation returns a copy of e with loc pushed onto the front of the
// stack, matching the evaluator's call-boundary unwind rule.
func (e *Error) WithLocation(loc Location) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Stack:   e.Stack.Prepend(loc),
	}
}

// User constructs a user error (raised by `error` IR nodes or by built-ins).
func User(format string, args ...any) *Error {
	return &Error{Kind: KindUser, Message: fmt.Sprintf(format, args...)}
}

// TypeShape constructs a type/shape error, e.g. get_field on a non-struct.
func TypeShape(format string, args ...any) *Error {
	return &Error{Kind: KindTypeShape, Message: fmt.Sprintf(format, args...)}
}

// Undefined constructs an undefined-variable error.
func Undefined(name string) *Error {
	return &Error{Kind: KindUndefined, Message: fmt.Sprintf("undefined variable: %s", name)}
}

// OutOfMemory constructs the out-of-memory-as-user-error case: the
// runtime degrades gracefully rather than panicking on allocation
// failure.
func OutOfMemory(context string) *Error {
	return &Error{Kind: KindOOM, Message: fmt.Sprintf("out of memory: %s", context)}
}
