package simvm_test

import (
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/runtime"
	"github.com/foundry-rs/snforge-runtime/simvm"
	"github.com/stretchr/testify/require"
)

func addr(v uint64) felt.ContractAddress { return felt.ContractAddress(felt.FromUint64(v)) }

func declareProgram(t *testing.T, adapter *cheatnet.StarknetStateAdapter, address felt.ContractAddress, selector felt.Selector, program simvm.Program) felt.ClassHash {
	t.Helper()
	raw, err := simvm.EncodeProgramSet(simvm.ProgramSet{
		EntryPoints: map[string]simvm.Program{selector.String(): program},
	})
	require.NoError(t, err)
	classHash := felt.ClassHash(felt.FromUint64(uint64(len(raw)) + 1))
	require.NoError(t, adapter.DeclareClass(classHash, cheatnet.CompiledClass{Sierra: raw}))
	require.NoError(t, adapter.SetClassHashAt(address, classHash))
	return classHash
}

func newExecutor(state *cheatnet.CheatState, adapter *cheatnet.StarknetStateAdapter) *cheatnet.CallExecutor {
	trace := cheatnet.NewTraceRecorder()
	return cheatnet.NewCallExecutor(state, adapter, trace, simvm.VM{}, cheatnet.BlockInfo{}, cheatnet.TxInfo{Version: felt.One}, nil)
}

func TestReturnCalldataEchoesInput(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	callee := addr(1)
	declareProgram(t, adapter, callee, felt.Selector{}, simvm.Program{{Op: simvm.OpReturnCalldata}})

	executor := newExecutor(state, adapter)
	info, err := executor.ExecuteCall(cheatnet.CallEntryPoint{
		StorageAddress: callee,
		CallerAddress:  addr(2),
		Calldata:       []felt.Felt{felt.FromUint64(42)},
	})
	require.NoError(t, err)
	require.False(t, info.Execution.Failed)
	require.Equal(t, []felt.Felt{felt.FromUint64(42)}, info.Execution.RetData)
}

func TestPrankObservedThroughCallerAddress(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	callee := addr(1)
	declareProgram(t, adapter, callee, felt.Selector{}, simvm.Program{{Op: simvm.OpReturnCallerAddress}})

	pranked := addr(0xEE)
	state.StartPrank(cheatnet.One(callee), pranked)

	executor := newExecutor(state, adapter)
	info, err := executor.ExecuteCall(cheatnet.CallEntryPoint{
		StorageAddress: callee,
		CallerAddress:  addr(2),
	})
	require.NoError(t, err)
	require.Equal(t, []felt.Felt{felt.Felt(pranked)}, info.Execution.RetData)
}

func TestEmitEventIsRecordedBySpy(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	emitter := addr(1)
	keys := []felt.Felt{felt.FromUint64(7)}
	data := []felt.Felt{felt.FromUint64(8)}
	declareProgram(t, adapter, emitter, felt.Selector{}, simvm.Program{
		{Op: simvm.OpEmitEvent, Keys: keys, Data: data},
		{Op: simvm.OpReturnCalldata},
	})

	spyID := state.SpyEvents(cheatnet.All())

	executor := newExecutor(state, adapter)
	_, err := executor.ExecuteCall(cheatnet.CallEntryPoint{StorageAddress: emitter, CallerAddress: addr(2)})
	require.NoError(t, err)

	events, ok := state.FetchEvents(spyID)
	require.True(t, ok)
	require.Len(t, events, 1)
	require.Equal(t, keys, events[0].Keys)
	require.Equal(t, data, events[0].Data)
}

func TestCallContractForwardsToCallee(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()

	callee := addr(20)
	calleeSelector := felt.Selector(felt.FromUint64(99))
	declareProgram(t, adapter, callee, calleeSelector, simvm.Program{{Op: simvm.OpReturnLiteral, Felts: []felt.Felt{felt.FromUint64(123)}}})

	caller := addr(10)
	declareProgram(t, adapter, caller, felt.Selector{}, simvm.Program{{Op: simvm.OpCallContract}})

	executor := newExecutor(state, adapter)
	info, err := executor.ExecuteCall(cheatnet.CallEntryPoint{
		StorageAddress: caller,
		CallerAddress:  addr(1),
		Calldata:       []felt.Felt{felt.Felt(callee), felt.Felt(calleeSelector)},
	})
	require.NoError(t, err)
	require.False(t, info.Execution.Failed)
	require.Equal(t, []felt.Felt{felt.FromUint64(123)}, info.Execution.RetData)
	require.Len(t, info.InnerCalls, 1)
}

func TestPanicInstructionMarksCallFailed(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	callee := addr(1)
	panicData := []felt.Felt{felt.MustShortStringToFelt("boom")}
	declareProgram(t, adapter, callee, felt.Selector{}, simvm.Program{{Op: simvm.OpPanic, Felts: panicData}})

	executor := newExecutor(state, adapter)
	info, err := executor.ExecuteCall(cheatnet.CallEntryPoint{StorageAddress: callee, CallerAddress: addr(2)})
	require.NoError(t, err)
	require.True(t, info.Execution.Failed)
	require.Equal(t, panicData, info.Execution.RetData)
}
