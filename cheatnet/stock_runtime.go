package cheatnet

import (
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/runtime"
	"github.com/pkg/errors"
)

// StockRuntime is the terminal Runtime at the bottom of the extension
// stack: the "Default Starknet Syscall Handler" / "Cairo VM" external
// collaborators from spec.md §2's composition diagram, reduced to what
// this core actually needs to drive: answering GetExecutionInfo with
// unmodified values and rejecting cheatcodes and forbidden syscalls it
// has no knowledge of. CallContract and LibraryCall are never expected
// to reach here: the Cheatable Syscall Handler always intercepts them
// (spec.md §4.2 "the layer intercepts these ... unconditionally").
type StockRuntime struct {
	blockInfo BlockInfo
	txInfo    TxInfo
	entry     CallEntryPoint
}

// NewStockRuntime returns a stock terminal runtime reporting blockInfo
// and txInfo as the unmodified chain context for the call described by
// entry.
func NewStockRuntime(blockInfo BlockInfo, txInfo TxInfo, entry CallEntryPoint) *StockRuntime {
	return &StockRuntime{blockInfo: blockInfo, txInfo: txInfo, entry: entry}
}

// HandleCheatcode implements runtime.Runtime. The stock runtime
// recognizes no cheatcodes; reaching it means no layer above claimed the
// selector.
func (s *StockRuntime) HandleCheatcode(req runtime.CheatcodeRequest) ([]felt.Felt, error) {
	return nil, NewCheatError(req.Selector, "no layer handled this cheatcode")
}

// HandleSyscall implements runtime.Runtime for the syscalls this core
// understands.
func (s *StockRuntime) HandleSyscall(ctx runtime.SyscallContext) error {
	switch ctx.Selector {
	case runtime.SyscallGetExecutionInfo:
		req, ok := ctx.Request.(*GetExecutionInfoSyscall)
		if !ok {
			return errors.New("cheatnet: GetExecutionInfo syscall context missing request payload")
		}
		req.Response = ExecutionInfo{
			BlockInfo:          s.blockInfo,
			TxInfo:             s.txInfo,
			CallerAddress:      s.entry.CallerAddress,
			ContractAddress:    s.entry.StorageAddress,
			EntryPointSelector: s.entry.EntryPointSelector,
		}
		req.GasConsumed = GasCostGetExecutionInfo
		return nil
	case runtime.SyscallReplaceClass:
		return &SyscallForbiddenError{Syscall: "ReplaceClass"}
	case runtime.SyscallCallContract, runtime.SyscallLibraryCall:
		return errors.New("cheatnet: CallContract/LibraryCall reached the stock runtime without interception")
	default:
		return nil
	}
}
