// Package simvm is a minimal, deterministic stand-in for the Cairo VM
// (spec.md §1 treats the VM as an explicit external collaborator out of
// this core's scope). It implements cheatnet.Executable by interpreting a
// tiny CBOR-encoded instruction program instead of compiling and running
// real Sierra/CASM, so cmd/snforge-run and the package's own tests can
// drive the full Runtime Extension Stack against fixture contracts
// without a real VM dependency.
package simvm

import (
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/logging"
	"github.com/foundry-rs/snforge-runtime/runtime"
	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
)

var logger = logging.NewSubLogger("module", "simvm")

// Op enumerates the instructions a Program may contain. Each step reads
// from and writes to the interpreter's single felt accumulator, the
// stand-in for the VM's return-value register.
type Op uint8

const (
	// OpReturnCalldata copies the call's calldata verbatim into the
	// accumulator and halts.
	OpReturnCalldata Op = iota
	// OpReturnLiteral copies Instruction.Felts into the accumulator and
	// halts.
	OpReturnLiteral
	// OpReturnCallerAddress issues GetExecutionInfo and returns the
	// caller address as a single-felt accumulator.
	OpReturnCallerAddress
	// OpReturnBlockInfo issues GetExecutionInfo and returns
	// [block_number, block_timestamp].
	OpReturnBlockInfo
	// OpReturnTxInfo issues GetExecutionInfo and returns
	// [version, account_contract_address, max_fee, nonce].
	OpReturnTxInfo
	// OpCallContract interprets calldata as [target, selector,
	// ...forwarded], issues CallContract, and returns the callee's
	// response as this frame's own result (propagating failure too).
	OpCallContract
	// OpLibraryCall interprets calldata as [class_hash, selector,
	// ...forwarded] and issues LibraryCall analogously to OpCallContract.
	OpLibraryCall
	// OpEmitEvent appends an event built from Instruction.Keys/Data to
	// the call's execution result, then continues to the next
	// instruction.
	OpEmitEvent
	// OpPanic halts with Failed=true and Instruction.Felts as panic data.
	OpPanic
)

// Instruction is one step of a Program.
type Instruction struct {
	Op    Op         `cbor:"op"`
	Felts []felt.Felt `cbor:"felts,omitempty"`
	Keys  []felt.Felt `cbor:"keys,omitempty"`
	Data  []felt.Felt `cbor:"data,omitempty"`
}

// Program is the ordered instruction sequence run for one entry point
// selector.
type Program []Instruction

// ProgramSet is the CBOR-encoded form stored as a CompiledClass's Sierra
// bytes: one Program per entry point selector, keyed by the selector's
// hex string, plus an optional fallback run when the requested selector
// has no specific entry.
type ProgramSet struct {
	EntryPoints map[string]Program `cbor:"entry_points"`
	Fallback    Program             `cbor:"fallback,omitempty"`
}

// EncodeProgramSet serializes a ProgramSet into the bytes a CompiledClass
// expects in its Sierra field, the inverse of what VM.Run decodes.
func EncodeProgramSet(ps ProgramSet) ([]byte, error) {
	return cbor.Marshal(ps, cbor.EncOptions{})
}

// VM is the simulated executor. It carries no state of its own beyond the
// CompiledClass passed into each Run; every test or cmd/snforge-run
// invocation can share a single VM value.
type VM struct{}

// Run implements cheatnet.Executable by decoding compiled.Sierra as a
// ProgramSet, selecting the program for entryPointSelector (falling back
// to ProgramSet.Fallback), and interpreting it.
func (VM) Run(compiled cheatnet.CompiledClass, entryPointSelector felt.Selector, calldata []felt.Felt, rt runtime.Runtime) (cheatnet.ExecutionResult, cheatnet.ResourcesUsed, error) {
	var ps ProgramSet
	if err := cbor.Unmarshal(compiled.Sierra, &ps); err != nil {
		return cheatnet.ExecutionResult{}, cheatnet.ResourcesUsed{}, errors.Wrap(err, "simvm: decode program set")
	}
	program, ok := ps.EntryPoints[entryPointSelector.String()]
	if !ok {
		program = ps.Fallback
	}
	if program == nil {
		return cheatnet.ExecutionResult{}, cheatnet.ResourcesUsed{}, errors.Errorf("simvm: no program for selector %s", entryPointSelector)
	}

	interp := interpreter{rt: rt, calldata: calldata}
	result, err := interp.run(program)
	resources := cheatnet.ResourcesUsed{NSteps: uint64(len(program))}
	if err != nil {
		return cheatnet.ExecutionResult{}, resources, err
	}
	return result, resources, nil
}

type interpreter struct {
	rt       runtime.Runtime
	calldata []felt.Felt
	events   []cheatnet.Event
}

func (i *interpreter) run(program Program) (cheatnet.ExecutionResult, error) {
	for _, instr := range program {
		switch instr.Op {
		case OpReturnCalldata:
			return cheatnet.ExecutionResult{RetData: i.calldata, Events: i.events}, nil

		case OpReturnLiteral:
			return cheatnet.ExecutionResult{RetData: instr.Felts, Events: i.events}, nil

		case OpReturnCallerAddress:
			info, err := i.executionInfo()
			if err != nil {
				return cheatnet.ExecutionResult{}, err
			}
			return cheatnet.ExecutionResult{RetData: []felt.Felt{felt.Felt(info.CallerAddress)}, Events: i.events}, nil

		case OpReturnBlockInfo:
			info, err := i.executionInfo()
			if err != nil {
				return cheatnet.ExecutionResult{}, err
			}
			return cheatnet.ExecutionResult{
				RetData: []felt.Felt{info.BlockInfo.BlockNumber, info.BlockInfo.BlockTimestamp},
				Events:  i.events,
			}, nil

		case OpReturnTxInfo:
			info, err := i.executionInfo()
			if err != nil {
				return cheatnet.ExecutionResult{}, err
			}
			tx := info.TxInfo
			return cheatnet.ExecutionResult{
				RetData: []felt.Felt{tx.Version, felt.Felt(tx.AccountContractAddress), tx.MaxFee, tx.Nonce},
				Events:  i.events,
			}, nil

		case OpCallContract:
			if len(i.calldata) < 2 {
				return cheatnet.ExecutionResult{}, errors.New("simvm: OpCallContract needs target and selector in calldata")
			}
			req := &cheatnet.CallContractSyscall{
				ContractAddress: felt.ContractAddress(i.calldata[0]),
				Selector:        felt.Selector(i.calldata[1]),
				Calldata:        i.calldata[2:],
			}
			if err := i.rt.HandleSyscall(runtime.SyscallContext{Selector: runtime.SyscallCallContract, Request: req}); err != nil {
				return cheatnet.ExecutionResult{}, err
			}
			if !req.Response.Success {
				return cheatnet.ExecutionResult{RetData: req.Response.PanicData, Failed: true, Events: i.events}, nil
			}
			return cheatnet.ExecutionResult{RetData: req.Response.RetData, Events: i.events}, nil

		case OpLibraryCall:
			if len(i.calldata) < 2 {
				return cheatnet.ExecutionResult{}, errors.New("simvm: OpLibraryCall needs class_hash and selector in calldata")
			}
			req := &cheatnet.LibraryCallSyscall{
				ClassHash: felt.ClassHash(i.calldata[0]),
				Selector:  felt.Selector(i.calldata[1]),
				Calldata:  i.calldata[2:],
			}
			if err := i.rt.HandleSyscall(runtime.SyscallContext{Selector: runtime.SyscallLibraryCall, Request: req}); err != nil {
				return cheatnet.ExecutionResult{}, err
			}
			if !req.Response.Success {
				return cheatnet.ExecutionResult{RetData: req.Response.PanicData, Failed: true, Events: i.events}, nil
			}
			return cheatnet.ExecutionResult{RetData: req.Response.RetData, Events: i.events}, nil

		case OpEmitEvent:
			i.events = append(i.events, cheatnet.Event{Keys: instr.Keys, Data: instr.Data})

		case OpPanic:
			return cheatnet.ExecutionResult{RetData: instr.Felts, Failed: true, Events: i.events}, nil

		default:
			return cheatnet.ExecutionResult{}, errors.Errorf("simvm: unknown opcode %d", instr.Op)
		}
	}
	logger.Debug().Msg("program ran off the end without a terminal instruction")
	return cheatnet.ExecutionResult{Events: i.events}, nil
}

func (i *interpreter) executionInfo() (cheatnet.ExecutionInfo, error) {
	req := &cheatnet.GetExecutionInfoSyscall{}
	if err := i.rt.HandleSyscall(runtime.SyscallContext{Selector: runtime.SyscallGetExecutionInfo, Request: req}); err != nil {
		return cheatnet.ExecutionInfo{}, err
	}
	return req.Response, nil
}
