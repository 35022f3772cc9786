package cheatnet

import "github.com/pkg/errors"

// ResourceExhaustedError reports that the VM's step budget was reached
// before the entry point finished. Surfaced to the test runner as a
// failure ("out of resources"), per spec.md §7.
type ResourceExhaustedError struct {
	EntryPoint string
}

func (e *ResourceExhaustedError) Error() string {
	return "out of resources while executing " + e.EntryPoint
}

// PreExecutionErrorKind distinguishes the Call Executor's pre-execution
// checks from one another for diagnostics, without requiring callers to
// string-match error messages.
type PreExecutionErrorKind uint8

const (
	UninitializedStorageAddress PreExecutionErrorKind = iota
	UndeclaredClass
	FraudulentClass
	LegacyClassRejected
)

func (k PreExecutionErrorKind) String() string {
	switch k {
	case UninitializedStorageAddress:
		return "UninitializedStorageAddress"
	case UndeclaredClass:
		return "UndeclaredClass"
	case FraudulentClass:
		return "FraudulentClass"
	case LegacyClassRejected:
		return "LegacyClassRejected"
	default:
		return "PreExecutionError"
	}
}

// PreExecutionError is fatal to the entry point it was raised for; it
// bubbles to the nearest catch point (spec.md §4.3 "Failure semantics").
type PreExecutionError struct {
	Kind    PreExecutionErrorKind
	Address string
}

func (e *PreExecutionError) Error() string {
	return e.Kind.String() + ": " + e.Address
}

// NewPreExecutionError wraps a PreExecutionError with frame context via
// github.com/pkg/errors, matching the error-stack-per-frame requirement of
// spec.md §7.
func NewPreExecutionError(kind PreExecutionErrorKind, address string) error {
	return errors.WithStack(&PreExecutionError{Kind: kind, Address: address})
}

// VMError wraps an underlying VM failure (memory fault, unexpected hint,
// instruction decode failure) with an error-stack trace per frame, per
// spec.md §7's "VMError" row.
type VMError struct {
	cause error
}

func (e *VMError) Error() string { return "virtual machine execution error: " + e.cause.Error() }
func (e *VMError) Unwrap() error { return e.cause }

// WrapVMError annotates cause as a VMError at the current call-executor
// frame. Each nested call adds another errors.Wrap layer, building the
// hierarchical error-stack trace spec.md §7 calls for.
func WrapVMError(cause error, frame string) error {
	return errors.Wrapf(&VMError{cause: cause}, "frame %s", frame)
}

// CheatError reports a malformed cheatcode payload, an unknown selector,
// or a missing class artifact. Fatal to the current test, per spec.md §7.
type CheatError struct {
	Selector string
	Reason   string
}

func (e *CheatError) Error() string {
	return "cheatcode " + e.Selector + ": " + e.Reason
}

// NewCheatError constructs a CheatError for selector, annotated with
// reason.
func NewCheatError(selector, reason string) error {
	return errors.WithStack(&CheatError{Selector: selector, Reason: reason})
}

// SyscallForbiddenError reports a syscall this runtime refuses to service
// at all while testing (e.g. ReplaceClass), per spec.md §7's last row.
type SyscallForbiddenError struct {
	Syscall string
}

func (e *SyscallForbiddenError) Error() string {
	return e.Syscall + " can't be used in tests"
}
