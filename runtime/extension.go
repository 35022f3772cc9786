package runtime

import "github.com/foundry-rs/snforge-runtime/felt"

// Runtime is the contract an inner layer (another ExtendedRuntime, or the
// stock terminal handler) exposes to whatever wraps it. It is deliberately
// small: two entry points, one per hint family, matching spec.md §4.1's
// "Contract of a layer".
type Runtime interface {
	// HandleCheatcode services a Cheatcode hint, returning the output felt
	// sequence to write into the hint's output memory range.
	HandleCheatcode(req CheatcodeRequest) ([]felt.Felt, error)

	// HandleSyscall services a SystemCall hint the stack has chosen to
	// intercept (or forwards it to the real syscall implementation).
	HandleSyscall(ctx SyscallContext) error
}

// ExtensionLogic is what a single decorator layer implements: a decision
// procedure for cheatcode hints and syscalls, expressed as a Verdict rather
// than by mutating shared state directly. This is the `HintIntercept{handle
// (hint) -> Verdict}` dispatch trait called for in spec.md §9, kept
// non-generic and composed at stack-assembly time via ExtendedRuntime.
type ExtensionLogic interface {
	// HandleCheatcode decides whether this layer recognizes selector. It
	// must not perform the forwarding itself; ExtendedRuntime does that
	// based on the returned Verdict.
	HandleCheatcode(req CheatcodeRequest) Verdict

	// OverrideSyscall decides whether this layer wants to replace the
	// behavior of the given syscall.
	OverrideSyscall(ctx SyscallContext) Verdict
}

// ExtendedRuntime is the decorator that chains one ExtensionLogic in front
// of an inner Runtime. A full stack is assembled by nesting: each
// ExtendedRuntime is itself a Runtime, so
//
//	stock := &StockRuntime{...}
//	cheatable := runtime.New(cheatableLogic, stock)
//	forge := runtime.New(forgeLogic, cheatable)
//
// gives the exact "Forge -> Cheatable -> Stock -> VM" composition from
// spec.md §2, with forge as the outermost entry point for every hint.
type ExtendedRuntime struct {
	logic ExtensionLogic
	inner Runtime
}

// New assembles one layer of the stack: logic wrapping inner.
func New(logic ExtensionLogic, inner Runtime) *ExtendedRuntime {
	return &ExtendedRuntime{logic: logic, inner: inner}
}

// HandleCheatcode implements Runtime by asking this layer's logic to decide,
// then forwarding to inner on Forwarded, surfacing the result on Handled,
// and surfacing the error on Errored.
func (e *ExtendedRuntime) HandleCheatcode(req CheatcodeRequest) ([]felt.Felt, error) {
	v := e.logic.HandleCheatcode(req)
	switch {
	case v.IsHandled():
		return v.Result(), nil
	case v.IsErrored():
		return nil, v.Err()
	default:
		return e.inner.HandleCheatcode(req)
	}
}

// HandleSyscall implements Runtime analogously to HandleCheatcode.
func (e *ExtendedRuntime) HandleSyscall(ctx SyscallContext) error {
	v := e.logic.OverrideSyscall(ctx)
	switch {
	case v.IsHandled():
		return nil
	case v.IsErrored():
		return v.Err()
	default:
		return e.inner.HandleSyscall(ctx)
	}
}

// Inner exposes the wrapped Runtime, primarily so tests and cheatnet's call
// executor can walk the stack to find a specific layer (e.g. the cheatable
// syscall handler) without threading an extra reference through
// construction.
func (e *ExtendedRuntime) Inner() Runtime { return e.inner }
