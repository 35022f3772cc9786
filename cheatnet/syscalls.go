package cheatnet

import "github.com/foundry-rs/snforge-runtime/felt"

// Fixed gas costs charged by the Cheatable Syscall Handler, per spec.md
// §4.2 steps 7 and §4.2 "CallContract/LibraryCall algorithm" step 2/5.
// Values are illustrative placeholders for the portion of Starknet's gas
// model this core is responsible for charging; the VM's own builtin/step
// costs are out of scope (spec.md §1).
const (
	GasCostGetExecutionInfo  uint64 = 10
	GasCostCallContractBase  uint64 = 100
	GasCostMockedCallBase    uint64 = 50
)

// BlockInfo is the block-level fields of ExecutionInfo that roll/warp/
// elect can override, per spec.md §4.2 step 4.
type BlockInfo struct {
	BlockNumber      felt.Felt
	BlockTimestamp   felt.Felt
	SequencerAddress felt.ContractAddress
}

// TxInfo is the transaction-level fields of ExecutionInfo that spoof can
// override, per spec.md §3 "spoofed_contracts" and §4.2 step 6.
type TxInfo struct {
	Version                felt.Felt
	AccountContractAddress felt.ContractAddress
	MaxFee                 felt.Felt
	Signature              []felt.Felt
	TransactionHash        felt.Felt
	ChainID                felt.Felt
	Nonce                  felt.Felt
	ResourceBounds         []FeeBound
}

// ExecutionInfo is the Cairo-visible response of GetExecutionInfo: a
// (block_info, tx_info, caller_address, contract_address,
// entry_point_selector) tuple (spec.md §6 "Syscall ABI").
type ExecutionInfo struct {
	BlockInfo          BlockInfo
	TxInfo             TxInfo
	CallerAddress      felt.ContractAddress
	ContractAddress    felt.ContractAddress
	EntryPointSelector felt.Selector
}

// GetExecutionInfoSyscall is the request/response pair carried through
// runtime.SyscallContext.Request for a GetExecutionInfo syscall. The
// innermost stock runtime fills Response with unmodified values; the
// Cheatable Syscall Handler overwrites individual fields when a cheat is
// active (spec.md §4.2).
type GetExecutionInfoSyscall struct {
	Response    ExecutionInfo
	GasConsumed uint64
}

// CallContractResponse is the shared response shape for CallContract and
// LibraryCall, mirroring the "returndata span or packed error" framing
// of spec.md §6.
type CallContractResponse struct {
	Success   bool
	RetData   []felt.Felt
	PanicData []felt.Felt
}

// CallContractSyscall carries a CallContract request/response pair.
type CallContractSyscall struct {
	ContractAddress felt.ContractAddress
	Selector        felt.Selector
	Calldata        []felt.Felt

	Response    CallContractResponse
	GasConsumed uint64
}

// LibraryCallSyscall carries a LibraryCall request/response pair.
type LibraryCallSyscall struct {
	ClassHash felt.ClassHash
	Selector  felt.Selector
	Calldata  []felt.Felt

	Response    CallContractResponse
	GasConsumed uint64
}
