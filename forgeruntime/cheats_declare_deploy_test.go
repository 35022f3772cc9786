package forgeruntime_test

import (
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/config"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/forgeruntime"
	"github.com/foundry-rs/snforge-runtime/runtime"
	"github.com/foundry-rs/snforge-runtime/simvm"
	"github.com/stretchr/testify/require"
)

// memArtifacts is an in-memory forgeruntime.ArtifactSource keyed by
// contract name, standing in for Scarb-style build output.
type memArtifacts map[string]cheatnet.CompiledClass

func (m memArtifacts) Load(name string) (cheatnet.CompiledClass, error) {
	c, ok := m[name]
	if !ok {
		return cheatnet.CompiledClass{}, cheatnet.NewCheatError("load", "not found: "+name)
	}
	return c, nil
}

func encodeProgram(t *testing.T, p simvm.Program) []byte {
	t.Helper()
	raw, err := simvm.EncodeProgramSet(simvm.ProgramSet{Fallback: p})
	require.NoError(t, err)
	return raw
}

func newDeclareFixture(t *testing.T) (*cheatnet.CheatState, *cheatnet.StarknetStateAdapter, *cheatnet.CallExecutor, *forgeruntime.ForgeRuntimeExtension) {
	t.Helper()
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	trace := cheatnet.NewTraceRecorder()

	constructorOK := encodeProgram(t, simvm.Program{{Op: simvm.OpReturnCalldata}})
	artifacts := memArtifacts{
		"OkConstructor": {Sierra: constructorOK, Kind: cheatnet.ClassCairo1},
	}

	executor := cheatnet.NewCallExecutor(state, adapter, trace, simvm.VM{}, cheatnet.BlockInfo{}, cheatnet.TxInfo{Version: felt.One}, nil)
	f := forgeruntime.New(state, adapter, executor.ExecuteCall, artifacts, config.CheatCodeConfig{DeployerAddress: addr(0xD0)})
	executor.SetForgeLogic(f)
	return state, adapter, executor, f
}

func declareContract(t *testing.T, f *forgeruntime.ForgeRuntimeExtension, name string) felt.ClassHash {
	t.Helper()
	nameFelt, err := felt.ShortStringToFelt(name)
	require.NoError(t, err)
	v := f.HandleCheatcode(runtime.CheatcodeRequest{
		Selector: "declare",
		Inputs:   []felt.Felt{felt.FromUint64(1), nameFelt},
	})
	require.True(t, v.IsHandled())
	require.Equal(t, felt.Zero, v.Result()[0])
	return felt.ClassHash(v.Result()[1])
}

func TestDeclareIsIdempotent(t *testing.T) {
	_, adapter, _, f := newDeclareFixture(t)

	h1 := declareContract(t, f, "OkConstructor")
	h2 := declareContract(t, f, "OkConstructor")
	require.Equal(t, h1, h2)

	declared, err := adapter.IsDeclared(h1)
	require.NoError(t, err)
	require.True(t, declared)
}

func TestDeployRunsConstructorAndReturnsAddress(t *testing.T) {
	_, _, _, f := newDeclareFixture(t)
	classHash := declareContract(t, f, "OkConstructor")

	calldata := []felt.Felt{felt.FromUint64(11), felt.FromUint64(22)}
	inputs := []felt.Felt{felt.Felt(classHash), felt.FromUint64(uint64(len(calldata)))}
	inputs = append(inputs, calldata...)

	v := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "deploy", Inputs: inputs})
	require.True(t, v.IsHandled())
	require.Len(t, v.Result(), 2)
	require.Equal(t, felt.Zero, v.Result()[0])
	require.False(t, v.Result()[1].IsZero())
}

func TestPrecalculateAddressMatchesDeploy(t *testing.T) {
	_, _, _, f := newDeclareFixture(t)
	classHash := declareContract(t, f, "OkConstructor")

	calldata := []felt.Felt{felt.FromUint64(1)}
	inputs := []felt.Felt{felt.Felt(classHash), felt.FromUint64(uint64(len(calldata)))}
	inputs = append(inputs, calldata...)

	predicted := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "precalculate_address", Inputs: inputs})
	require.True(t, predicted.IsHandled())

	deployed := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "deploy", Inputs: inputs})
	require.True(t, deployed.IsHandled())
	require.Equal(t, felt.Zero, deployed.Result()[0])
	require.Equal(t, predicted.Result()[0], deployed.Result()[1])
}

func TestDeployAtUsesCallerChosenAddress(t *testing.T) {
	_, adapter, _, f := newDeclareFixture(t)
	classHash := declareContract(t, f, "OkConstructor")

	target := addr(0x1234)
	inputs := []felt.Felt{felt.Felt(classHash), felt.Zero, felt.Felt(target)}

	v := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "deploy_at", Inputs: inputs})
	require.True(t, v.IsHandled())
	require.Equal(t, felt.Zero, v.Result()[0])
	require.Equal(t, felt.Felt(target), v.Result()[1])

	got, err := adapter.GetClassHashAt(target)
	require.NoError(t, err)
	require.Equal(t, classHash, got)
}

func TestGetClassHashReturnsDeployedClass(t *testing.T) {
	_, _, _, f := newDeclareFixture(t)
	classHash := declareContract(t, f, "OkConstructor")

	target := addr(0xABC)
	inputs := []felt.Felt{felt.Felt(classHash), felt.Zero, felt.Felt(target)}
	require.True(t, f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "deploy_at", Inputs: inputs}).IsHandled())

	v := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "get_class_hash", Inputs: []felt.Felt{felt.Felt(target)}})
	require.True(t, v.IsHandled())
	require.Equal(t, felt.Felt(classHash), v.Result()[0])
}

func TestL1HandlerExecuteForwardsFromAddressAndPayload(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	trace := cheatnet.NewTraceRecorder()

	l1Handler := encodeProgram(t, simvm.Program{{Op: simvm.OpReturnCalldata}})
	target := addr(42)
	classHash := felt.ClassHash(felt.FromUint64(77))
	require.NoError(t, adapter.DeclareClass(classHash, cheatnet.CompiledClass{Sierra: l1Handler}))
	require.NoError(t, adapter.SetClassHashAt(target, classHash))

	executor := cheatnet.NewCallExecutor(state, adapter, trace, simvm.VM{}, cheatnet.BlockInfo{}, cheatnet.TxInfo{Version: felt.One}, nil)
	f := forgeruntime.New(state, adapter, executor.ExecuteCall, memArtifacts{}, config.Default())
	executor.SetForgeLogic(f)

	fromAddress := felt.FromUint64(0xF1)
	payload := []felt.Felt{felt.FromUint64(1), felt.FromUint64(2)}
	nameFelt, err := felt.ShortStringToFelt("deposit")
	require.NoError(t, err)

	inputs := []felt.Felt{felt.Felt(target), felt.FromUint64(1), nameFelt, fromAddress, felt.FromUint64(uint64(len(payload)))}
	inputs = append(inputs, payload...)

	v := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "l1_handler_execute", Inputs: inputs})
	require.True(t, v.IsHandled())
	require.Equal(t, felt.Zero, v.Result()[0])
	require.Equal(t, felt.FromUint64(uint64(1+len(payload))), v.Result()[1])
	require.Equal(t, append([]felt.Felt{fromAddress}, payload...), v.Result()[2:])
}
