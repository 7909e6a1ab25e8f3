package polling

import "context"

// Kind tags an AttemptResult.
type Kind int

const (
	// KindContinue means the operation has not reached a terminal state yet.
	KindContinue Kind = iota
	// KindFinish means the operation completed and carries a value.
	KindFinish
	// KindBreak means the operation failed permanently.
	KindBreak
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindFinish:
		return "finish"
	case KindBreak:
		return "break"
	default:
		return "unknown"
	}
}

// AttemptResult is the verdict of a single probe invocation.
// The zero value is a Continue verdict.
type AttemptResult[T any] struct {
	kind  Kind
	value T
	err   error
}

// Continue returns a non-terminal verdict.
func Continue[T any]() AttemptResult[T] {
	return AttemptResult[T]{kind: KindContinue}
}

// Finish returns a terminal success verdict carrying v.
func Finish[T any](v T) AttemptResult[T] {
	return AttemptResult[T]{kind: KindFinish, value: v}
}

// Break returns a terminal failure verdict. A nil err is replaced by ErrAborted.
func Break[T any](err error) AttemptResult[T] {
	if err == nil {
		err = ErrAborted
	}
	return AttemptResult[T]{kind: KindBreak, err: err}
}

// Kind returns the verdict tag.
func (r AttemptResult[T]) Kind() Kind { return r.kind }

// Value returns the value of a Finish verdict and the zero value otherwise.
func (r AttemptResult[T]) Value() T { return r.value }

// Err returns the error of a Break verdict and nil otherwise.
func (r AttemptResult[T]) Err() error { return r.err }

// Terminal reports whether the verdict ends the polling loop.
func (r AttemptResult[T]) Terminal() bool {
	return r.kind == KindFinish || r.kind == KindBreak
}

// Probe performs one observation of a remote operation.
type Probe[T any] func(ctx context.Context) (AttemptResult[T], error)

// classify folds a probe's raw return into a single verdict.
func classify[T any](result AttemptResult[T], err error, stopOnProbeError bool) AttemptResult[T] {
	if err != nil {
		if stopOnProbeError {
			return Break[T](err)
		}
		return Continue[T]()
	}
	return result
}
