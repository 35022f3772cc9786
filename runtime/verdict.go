// Package runtime implements the Runtime Extension Stack: a generic,
// chainable interceptor for Cairo VM hints and syscalls. It knows nothing
// about Starknet semantics (cheat state, call entry points, ...) — that
// belongs to the cheatnet and forgeruntime packages which build concrete
// ExtensionLogic implementations on top of it. This separation mirrors the
// example corpus's EVMLogger decorators (cheatCodeTracer, testChainTracer,
// ExecutionTracer): each is a small concrete type wrapping the same
// underlying VM hook, composed rather than inherited.
package runtime

import "github.com/foundry-rs/snforge-runtime/felt"

// verdictKind distinguishes the three outcomes a layer may produce for a
// given hint, per spec.md §4.1's "State-machine per hint".
type verdictKind uint8

const (
	verdictForwarded verdictKind = iota
	verdictHandled
	verdictErrored
)

// Verdict is the result a single ExtensionLogic layer returns for a hint:
// exactly one of Handled(result), Forwarded, or Errored(err). There are no
// partial executions — a layer commits to one of the three before
// returning.
type Verdict struct {
	kind   verdictKind
	result []felt.Felt
	err    error
}

// Handled reports that this layer fully serviced the hint, with result as
// the (possibly empty) output felt sequence to hand back to the VM.
func Handled(result []felt.Felt) Verdict {
	return Verdict{kind: verdictHandled, result: result}
}

// Forwarded reports that this layer does not recognize the hint and the
// next layer down the stack (or the stock implementation) should handle it.
func Forwarded() Verdict {
	return Verdict{kind: verdictForwarded}
}

// Errored reports a non-recoverable layer error that aborts the current VM
// run, per spec.md §4.1 "Failure propagation".
func Errored(err error) Verdict {
	return Verdict{kind: verdictErrored, err: err}
}

// IsHandled reports whether this verdict is Handled.
func (v Verdict) IsHandled() bool { return v.kind == verdictHandled }

// IsForwarded reports whether this verdict is Forwarded.
func (v Verdict) IsForwarded() bool { return v.kind == verdictForwarded }

// IsErrored reports whether this verdict is Errored.
func (v Verdict) IsErrored() bool { return v.kind == verdictErrored }

// Result returns the handled result felts. Only meaningful when IsHandled.
func (v Verdict) Result() []felt.Felt { return v.result }

// Err returns the layer error. Only meaningful when IsErrored.
func (v Verdict) Err() error { return v.err }
