package cheatnet_test

import (
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/stretchr/testify/require"
)

func TestStateAdapterStorageRoundTrip(t *testing.T) {
	adapter := cheatnet.NewStarknetStateAdapter()
	a := addr(1)
	key := felt.FromUint64(7)

	v, err := adapter.GetStorage(a, key)
	require.NoError(t, err)
	require.True(t, v.IsZero(), "unset storage reads as zero")

	require.NoError(t, adapter.SetStorage(a, key, felt.FromUint64(123)))
	v, err = adapter.GetStorage(a, key)
	require.NoError(t, err)
	require.Equal(t, felt.FromUint64(123), v)
}

func TestStateAdapterClassHashRoundTrip(t *testing.T) {
	adapter := cheatnet.NewStarknetStateAdapter()
	a := addr(1)

	ch, err := adapter.GetClassHashAt(a)
	require.NoError(t, err)
	require.True(t, ch.IsZero())

	classHash := felt.ClassHash(felt.FromUint64(55))
	require.NoError(t, adapter.SetClassHashAt(a, classHash))

	ch, err = adapter.GetClassHashAt(a)
	require.NoError(t, err)
	require.Equal(t, classHash, ch)
}

func TestDeclareClassIsIdempotent(t *testing.T) {
	adapter := cheatnet.NewStarknetStateAdapter()
	classHash := felt.ClassHash(felt.FromUint64(1))
	compiled := cheatnet.CompiledClass{Sierra: []byte("a"), Casm: []byte("b")}

	require.NoError(t, adapter.DeclareClass(classHash, compiled))
	require.NoError(t, adapter.DeclareClass(classHash, compiled))

	got, err := adapter.GetCompiledContractClass(classHash)
	require.NoError(t, err)
	require.Equal(t, compiled, got)

	declared, err := adapter.IsDeclared(classHash)
	require.NoError(t, err)
	require.True(t, declared)
}

func TestGetCompiledContractClassNotDeclared(t *testing.T) {
	adapter := cheatnet.NewStarknetStateAdapter()
	_, err := adapter.GetCompiledContractClass(felt.ClassHash(felt.FromUint64(404)))
	require.ErrorIs(t, err, cheatnet.ErrClassNotDeclared)
}

func TestDeclareClassMintsStableDiagnosticID(t *testing.T) {
	adapter := cheatnet.NewStarknetStateAdapter()
	classHash := felt.ClassHash(felt.FromUint64(1))
	compiled := cheatnet.CompiledClass{Sierra: []byte("a")}

	_, ok := adapter.DiagnosticID(classHash)
	require.False(t, ok, "undeclared classes have no diagnostic id")

	require.NoError(t, adapter.DeclareClass(classHash, compiled))
	id1, ok := adapter.DiagnosticID(classHash)
	require.True(t, ok)

	require.NoError(t, adapter.DeclareClass(classHash, compiled))
	id2, ok := adapter.DiagnosticID(classHash)
	require.True(t, ok)
	require.Equal(t, id1, id2, "redeclaring the same class keeps its diagnostic id")
}
