package cheatnet

import (
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/runtime"
)

// CheatableSyscallHandler is the Runtime Extension (C4) that injects
// cheated values into GetExecutionInfo and recurses nested calls through
// the Call Executor so cheat state propagates down the call graph
// (spec.md §4.2). It never decodes cheatcode hints itself — that is the
// Forge Runtime Extension's job (C5) — so HandleCheatcode always
// forwards.
type CheatableSyscallHandler struct {
	state *CheatState
	entry CallEntryPoint
	stock *StockRuntime

	// runCall recurses into the Call Executor for a freshly-built nested
	// CallEntryPoint, sharing this handler's CheatState (spec.md §9
	// "Cheat state sharing": never clone CheatState per frame).
	runCall func(CallEntryPoint) (*CallInfo, error)

	// recordMockedCall records a short-circuited mocked call directly in
	// the trace without recursing into the Call Executor, per spec.md
	// §4.2 step 2.
	recordMockedCall func(entry CallEntryPoint, retdata []felt.Felt) *CallInfo
}

// NewCheatableSyscallHandler constructs the handler for one call frame.
func NewCheatableSyscallHandler(
	state *CheatState,
	entry CallEntryPoint,
	stock *StockRuntime,
	runCall func(CallEntryPoint) (*CallInfo, error),
	recordMockedCall func(entry CallEntryPoint, retdata []felt.Felt) *CallInfo,
) *CheatableSyscallHandler {
	return &CheatableSyscallHandler{
		state:            state,
		entry:            entry,
		stock:            stock,
		runCall:          runCall,
		recordMockedCall: recordMockedCall,
	}
}

// HandleCheatcode implements runtime.ExtensionLogic. This layer never
// claims a cheatcode.
func (h *CheatableSyscallHandler) HandleCheatcode(req runtime.CheatcodeRequest) runtime.Verdict {
	return runtime.Forwarded()
}

// OverrideSyscall implements runtime.ExtensionLogic for the three
// syscalls this core intercepts.
func (h *CheatableSyscallHandler) OverrideSyscall(ctx runtime.SyscallContext) runtime.Verdict {
	switch ctx.Selector {
	case runtime.SyscallGetExecutionInfo:
		return h.handleGetExecutionInfo(ctx)
	case runtime.SyscallCallContract:
		return h.handleCallContract(ctx)
	case runtime.SyscallLibraryCall:
		return h.handleLibraryCall(ctx)
	case runtime.SyscallReplaceClass:
		return runtime.Errored(&SyscallForbiddenError{Syscall: "ReplaceClass"})
	default:
		return runtime.Forwarded()
	}
}

// storageAddress is the callee address cheat lookups must always use
// (spec.md §4.2 "Invariants").
func (h *CheatableSyscallHandler) storageAddress() felt.ContractAddress {
	return h.entry.StorageAddress
}

func (h *CheatableSyscallHandler) handleGetExecutionInfo(ctx runtime.SyscallContext) runtime.Verdict {
	addr := h.storageAddress()

	rolled, hasRoll := h.state.RollFor(addr)
	warped, hasWarp := h.state.WarpFor(addr)
	elected, hasElect := h.state.ElectFor(addr)
	pranked, hasPrank := h.state.PrankFor(addr)
	spoofed, hasSpoof := h.state.SpoofFor(addr)

	if !hasRoll && !hasWarp && !hasElect && !hasPrank && !hasSpoof {
		return runtime.Forwarded()
	}

	req, ok := ctx.Request.(*GetExecutionInfoSyscall)
	if !ok {
		return runtime.Errored(NewCheatError("GetExecutionInfo", "missing request payload"))
	}

	// Baseline: ask the stock runtime to fill in the unmodified values,
	// then overwrite exactly the fields with an active cheat (spec.md
	// §4.2 steps 3-6). The replacement segment is ephemeral: rebuilt on
	// every call, never cached (spec.md §4.2 "Invariants").
	if err := h.stock.HandleSyscall(ctx); err != nil {
		return runtime.Errored(err)
	}

	if hasRoll || hasWarp || hasElect {
		block := req.Response.BlockInfo
		if hasRoll {
			block.BlockNumber = rolled
		}
		if hasWarp {
			block.BlockTimestamp = warped
		}
		if hasElect {
			block.SequencerAddress = elected
		}
		req.Response.BlockInfo = block
	}

	if hasPrank {
		req.Response.CallerAddress = pranked
	}

	if hasSpoof {
		req.Response.TxInfo = applySpoof(req.Response.TxInfo, spoofed)
	}

	req.GasConsumed = GasCostGetExecutionInfo
	return runtime.Handled(nil)
}

// applySpoof substitutes each present field of override into base,
// leaving absent fields untouched (spec.md §4.2 step 6).
func applySpoof(base TxInfo, override TxInfoOverride) TxInfo {
	if override.Version != nil {
		base.Version = *override.Version
	}
	if override.AccountContractAddress != nil {
		base.AccountContractAddress = *override.AccountContractAddress
	}
	if override.MaxFee != nil {
		base.MaxFee = *override.MaxFee
	}
	if override.Signature != nil {
		base.Signature = override.Signature
	}
	if override.TransactionHash != nil {
		base.TransactionHash = *override.TransactionHash
	}
	if override.ChainID != nil {
		base.ChainID = *override.ChainID
	}
	if override.Nonce != nil {
		base.Nonce = *override.Nonce
	}
	if override.ResourceBounds != nil {
		base.ResourceBounds = override.ResourceBounds
	}
	return base
}

func (h *CheatableSyscallHandler) handleCallContract(ctx runtime.SyscallContext) runtime.Verdict {
	req, ok := ctx.Request.(*CallContractSyscall)
	if !ok {
		return runtime.Errored(NewCheatError("CallContract", "missing request payload"))
	}

	if retdata, mocked := h.state.MockCallFor(req.ContractAddress, req.Selector); mocked {
		mockEntry := CallEntryPoint{
			EntryPointType:     EntryPointExternal,
			EntryPointSelector: req.Selector,
			Calldata:           req.Calldata,
			StorageAddress:     req.ContractAddress,
			CallerAddress:      h.storageAddress(),
			CallType:           CallTypeCall,
		}
		h.recordMockedCall(mockEntry, retdata)
		req.Response = CallContractResponse{Success: true, RetData: retdata}
		req.GasConsumed = GasCostMockedCallBase
		return runtime.Handled(nil)
	}

	nested := CallEntryPoint{
		EntryPointType:     EntryPointExternal,
		EntryPointSelector: req.Selector,
		Calldata:           req.Calldata,
		StorageAddress:     req.ContractAddress,
		CallerAddress:      h.storageAddress(),
		CallType:           CallTypeCall,
	}
	return h.recurse(req, nested)
}

func (h *CheatableSyscallHandler) handleLibraryCall(ctx runtime.SyscallContext) runtime.Verdict {
	req, ok := ctx.Request.(*LibraryCallSyscall)
	if !ok {
		return runtime.Errored(NewCheatError("LibraryCall", "missing request payload"))
	}

	classHash := req.ClassHash
	nested := CallEntryPoint{
		ClassHash:          &classHash,
		EntryPointType:     EntryPointExternal,
		EntryPointSelector: req.Selector,
		Calldata:           req.Calldata,
		StorageAddress:     h.entry.StorageAddress,
		CallerAddress:      h.entry.CallerAddress,
		CallType:           CallTypeDelegate,
	}

	callContractReq := &CallContractSyscall{}
	verdict := h.recurse(callContractReq, nested)
	req.Response = callContractReq.Response
	req.GasConsumed = callContractReq.GasConsumed
	return verdict
}

// recurse runs nested through the Call Executor and translates its
// outcome into the syscall response framing of spec.md §4.2 steps 5-7.
func (h *CheatableSyscallHandler) recurse(req *CallContractSyscall, nested CallEntryPoint) runtime.Verdict {
	child, err := h.runCall(nested)
	if err != nil {
		return runtime.Errored(err)
	}

	if child.Execution.Failed {
		req.Response = CallContractResponse{Success: false, PanicData: child.Execution.RetData}
	} else {
		req.Response = CallContractResponse{Success: true, RetData: child.Execution.RetData}
	}
	req.GasConsumed = GasCostCallContractBase + child.Resources.GasConsumed
	return runtime.Handled(nil)
}
