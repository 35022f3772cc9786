package cheatnet

import (
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/runtime"
	"github.com/pkg/errors"
)

// FaultyClassHash is a well-known class hash rejected under transaction
// version 0 as a historical mitigation (spec.md §4.3 step 1). The literal
// value is the one `original_source`'s rpc.rs hard-codes.
var FaultyClassHash = felt.MustFromBytes([]byte{
	0x02, 0x79, 0xc4, 0x97, 0xa9, 0x34, 0x92, 0x3a, 0xb0, 0x71, 0x43, 0x3b, 0x4d, 0x41, 0x8f, 0x1e,
	0x2f, 0xdd, 0x8f, 0x1d, 0xf6, 0x09, 0x18, 0x9e, 0x30, 0xb5, 0x02, 0x6e, 0x9c, 0x03, 0x37, 0x26,
})

// ClassKind distinguishes a Cairo 1/Sierra class (the only kind this core
// executes) from a legacy Cairo 0 class, which is rejected outright
// (spec.md §4.3 step 1, Non-goals).
type ClassKind uint8

const (
	ClassCairo1 ClassKind = iota
	ClassCairo0
)

// Executable is what the Call Executor actually runs once pre-execution
// checks pass: a minimal interface over whatever stands in for the Cairo
// VM (spec.md treats the VM itself as an external collaborator; this
// core depends on one only through this seam). A Sierra/CASM interpreter
// implements this directly; `simvm` provides a test double.
type Executable interface {
	// Run executes entryPointSelector against compiled with calldata
	// available, using rt as the hint/syscall dispatcher for the whole
	// run (the assembled Forge -> Cheatable -> Stock stack). It returns
	// the execution outcome or a VM-level error.
	Run(compiled CompiledClass, entryPointSelector felt.Selector, calldata []felt.Felt, rt runtime.Runtime) (ExecutionResult, ResourcesUsed, error)
}

// CallExecutor is the Call Executor (C6): given a CallEntryPoint, it
// loads the compiled class, assembles the Runtime Extension stack, runs
// the entry point, and returns a CallInfo (spec.md §4.3).
//
// A CallExecutor instance is reentrant: CheatableSyscallHandler recurses
// back into the same instance for CallContract/LibraryCall, sharing the
// one CheatState for the whole test (spec.md §9 "Cheat state sharing").
type CallExecutor struct {
	state   *CheatState
	adapter *StarknetStateAdapter
	trace   *TraceRecorder
	vm      Executable
	block   BlockInfo
	tx      TxInfo

	// forgeLogic wraps the cheatable layer when non-nil, giving tests
	// that don't exercise cheatcodes a simpler two-layer stack.
	forgeLogic runtime.ExtensionLogic

	txVersionZero bool

	// callStack tracks the CallInfo currently being built for each open
	// frame, so a nested ExecuteCall (or a short-circuited mocked call)
	// can append itself to its parent's InnerCalls as it completes
	// (spec.md §4.2 step 5, §3 "CallInfo ... inner_calls").
	callStack []*CallInfo
}

// NewCallExecutor constructs a Call Executor sharing state, adapter, and
// trace across every nested call it drives. block/tx describe the
// chain-level context every frame sees absent cheats.
func NewCallExecutor(
	state *CheatState,
	adapter *StarknetStateAdapter,
	trace *TraceRecorder,
	vm Executable,
	block BlockInfo,
	tx TxInfo,
	forgeLogic runtime.ExtensionLogic,
) *CallExecutor {
	return &CallExecutor{
		state:   state,
		adapter: adapter,
		trace:   trace,
		vm:      vm,
		block:   block,
		tx:      tx,
		forgeLogic: forgeLogic,
		txVersionZero: tx.Version.IsZero(),
	}
}

// SetForgeLogic attaches the Forge Runtime Extension after construction,
// breaking the construction cycle between CallExecutor (which the Forge
// layer needs a runCall closure from) and the forge layer itself (which
// CallExecutor needs as its outermost ExtensionLogic). Must be called
// before the first ExecuteCall.
func (e *CallExecutor) SetForgeLogic(logic runtime.ExtensionLogic) {
	e.forgeLogic = logic
}

// ExecuteCall runs entry under the full stack and returns its CallInfo,
// per spec.md §4.3's six steps. It is also the `runCall` callback handed
// to CheatableSyscallHandler for nested CallContract/LibraryCall
// recursion.
func (e *CallExecutor) ExecuteCall(entry CallEntryPoint) (*CallInfo, error) {
	e.trace.Enter(entry)

	var parent *CallInfo
	if len(e.callStack) > 0 {
		parent = e.callStack[len(e.callStack)-1]
	}

	classHash, compiled, err := e.resolveClass(entry)
	if err != nil {
		e.trace.Exit(TraceResult{Kind: TraceError, Message: err.Error()})
		return nil, err
	}
	if err := e.checkFaultyClassHash(classHash); err != nil {
		e.trace.Exit(TraceResult{Kind: TraceError, Message: err.Error()})
		return nil, err
	}
	if compiled.Kind == ClassCairo0 {
		err := NewPreExecutionError(LegacyClassRejected, classHash.String())
		e.trace.Exit(TraceResult{Kind: TraceError, Message: err.Error()})
		return nil, err
	}

	stock := NewStockRuntime(e.block, e.tx, entry)
	cheatable := NewCheatableSyscallHandler(e.state, entry, stock, e.ExecuteCall, e.recordMockedCall)

	var rt runtime.Runtime = runtime.New(cheatable, stock)
	if e.forgeLogic != nil {
		rt = runtime.New(e.forgeLogic, rt)
	}

	info := &CallInfo{Call: entry}
	e.callStack = append(e.callStack, info)
	result, resources, err := e.vm.Run(compiled, entry.EntryPointSelector, entry.Calldata, rt)
	e.callStack = e.callStack[:len(e.callStack)-1]
	if err != nil {
		wrapped := WrapVMError(err, entry.EntryPointSelector.String())
		e.trace.Exit(TraceResult{Kind: TraceError, Message: wrapped.Error()})
		return nil, wrapped
	}

	info.Execution = result
	info.Resources = resources
	for _, ev := range result.Events {
		e.state.RecordEvent(entry.StorageAddress, ev)
	}

	if result.Failed {
		e.trace.Exit(TraceResult{Kind: TracePanic, PanicData: result.RetData})
	} else {
		e.trace.Exit(TraceResult{Kind: TraceSuccess, ReturnData: result.RetData})
	}

	if parent != nil {
		parent.InnerCalls = append(parent.InnerCalls, info)
	}

	return info, nil
}

// recordMockedCall inserts a Success trace node for a short-circuited
// mocked call without invoking the VM at all (spec.md §4.2 step 2), and
// appends it to the currently executing frame's InnerCalls the same way a
// real nested ExecuteCall would.
func (e *CallExecutor) recordMockedCall(entry CallEntryPoint, retdata []felt.Felt) *CallInfo {
	e.trace.Enter(entry)
	e.trace.Exit(TraceResult{Kind: TraceSuccess, ReturnData: retdata})
	info := &CallInfo{
		Call:      entry,
		Execution: ExecutionResult{RetData: retdata},
	}
	if len(e.callStack) > 0 {
		parent := e.callStack[len(e.callStack)-1]
		parent.InnerCalls = append(parent.InnerCalls, info)
	}
	return info
}

// resolveClass implements spec.md §4.3 step 1's class resolution: use
// entry.ClassHash if supplied, otherwise the class deployed at the
// storage address; fail if that address has nothing deployed.
func (e *CallExecutor) resolveClass(entry CallEntryPoint) (felt.ClassHash, CompiledClass, error) {
	classHash := felt.ClassHash{}
	if entry.ClassHash != nil {
		classHash = *entry.ClassHash
	} else {
		deployed, err := e.adapter.GetClassHashAt(entry.StorageAddress)
		if err != nil {
			return felt.ClassHash{}, CompiledClass{}, errors.Wrap(err, "resolve class hash")
		}
		if deployed.IsZero() {
			return felt.ClassHash{}, CompiledClass{}, NewPreExecutionError(UninitializedStorageAddress, entry.StorageAddress.String())
		}
		classHash = deployed
	}

	compiled, err := e.adapter.GetCompiledContractClass(classHash)
	if err != nil {
		return felt.ClassHash{}, CompiledClass{}, NewPreExecutionError(UndeclaredClass, classHash.String())
	}
	return classHash, compiled, nil
}

// checkFaultyClassHash implements spec.md §4.3 step 1's historical
// mitigation: a well-known class hash is rejected outright when the
// ambient transaction version is zero.
func (e *CallExecutor) checkFaultyClassHash(classHash felt.ClassHash) error {
	if e.txVersionZero && felt.Felt(classHash).Cmp(FaultyClassHash) == 0 {
		return NewPreExecutionError(FraudulentClass, classHash.String())
	}
	return nil
}
