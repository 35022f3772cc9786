package runtime

import "github.com/foundry-rs/snforge-runtime/felt"

// SyscallSelector enumerates the syscall kinds the stack is aware enough of
// to peek and potentially intercept. Selectors the stack does not recognize
// still flow through as SyscallOther so a layer can choose to forward them
// unconditionally.
type SyscallSelector uint8

const (
	SyscallOther SyscallSelector = iota
	SyscallGetExecutionInfo
	SyscallCallContract
	SyscallLibraryCall
	SyscallReplaceClass
)

// String names a SyscallSelector for diagnostics and trace output.
func (s SyscallSelector) String() string {
	switch s {
	case SyscallGetExecutionInfo:
		return "GetExecutionInfo"
	case SyscallCallContract:
		return "CallContract"
	case SyscallLibraryCall:
		return "LibraryCall"
	case SyscallReplaceClass:
		return "ReplaceClass"
	default:
		return "Other"
	}
}

// SyscallContext carries the selector-specific request payload down the
// stack and the means for a handling layer to produce a response, without
// the generic runtime package needing to know Starknet's syscall shapes.
// Concrete request/response types are defined by cheatnet (the only package
// that understands GetExecutionInfo/CallContract/LibraryCall framing).
type SyscallContext struct {
	// Selector identifies which syscall is being intercepted.
	Selector SyscallSelector

	// Request is the selector-specific decoded request (e.g.
	// *cheatnet.CallContractSyscall). Populated by whichever code peeked the
	// syscall pointer and decoded it before invoking the stack.
	Request any

	// GasRemaining is the gas counter at syscall entry, available to any
	// layer that wants to charge or refund on behalf of the VM.
	GasRemaining uint64
}

// CheatcodeRequest is the decoded form of a Cheatcode hint: a short-string
// selector plus its input felt sequence, per spec.md §6's hint ABI.
type CheatcodeRequest struct {
	Selector string
	Inputs   []felt.Felt
}
