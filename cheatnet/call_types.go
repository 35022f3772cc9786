package cheatnet

import "github.com/foundry-rs/snforge-runtime/felt"

// EntryPointType distinguishes the three ways a CallEntryPoint may be
// invoked, per spec.md §3 "CallEntryPoint".
type EntryPointType uint8

const (
	EntryPointExternal EntryPointType = iota
	EntryPointConstructor
	EntryPointL1Handler
)

// CallType distinguishes an ordinary call (callee's own storage/class)
// from a library/delegate call (caller's storage, callee's class code),
// per spec.md's glossary entry for "Library call".
type CallType uint8

const (
	CallTypeCall CallType = iota
	CallTypeDelegate
)

func (c CallType) String() string {
	if c == CallTypeDelegate {
		return "Delegate"
	}
	return "Call"
}

// CallEntryPoint is the value passed into the Call Executor to run one
// entry point, per spec.md §3. It is owned by the invoker and passed by
// value; the executor never mutates the caller's copy.
type CallEntryPoint struct {
	ClassHash        *felt.ClassHash
	CodeAddress      *felt.ContractAddress
	EntryPointType   EntryPointType
	EntryPointSelector felt.Selector
	Calldata         []felt.Felt
	StorageAddress   felt.ContractAddress
	CallerAddress    felt.ContractAddress
	CallType         CallType
	InitialGas       uint64
}

// ExecutionResult is the outcome of running an entry point's code: either
// the return data of a successful run, or the panic data of a failed one.
// Cairo panics are data, not host exceptions (spec.md §9), so Failed is a
// plain bool rather than a Go error.
type ExecutionResult struct {
	RetData []felt.Felt
	Failed  bool
	Events  []Event
	L2ToL1Messages []L2ToL1Message
}

// L2ToL1Message is an outgoing message recorded during execution, part of
// CallInfo.execution per spec.md §3.
type L2ToL1Message struct {
	ToAddress felt.Felt
	Payload   []felt.Felt
}

// ResourcesUsed is a coarse accounting of VM resources consumed by one
// call, attached to CallInfo for the trace and for gas bookkeeping in the
// Cheatable Syscall Handler (spec.md §4.2 step 5).
type ResourcesUsed struct {
	NSteps     uint64
	GasConsumed uint64
}

// CallInfo is the Call Executor's output for one CallEntryPoint: the
// entry point snapshot, its execution outcome, its ordered child calls,
// and the resources it consumed (spec.md §3 "CallInfo").
type CallInfo struct {
	Call          CallEntryPoint
	Execution     ExecutionResult
	InnerCalls    []*CallInfo
	Resources     ResourcesUsed
}
