package cheatnet_test

import (
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/stretchr/testify/require"
)

func addr(v uint64) felt.ContractAddress {
	return felt.ContractAddress(felt.FromUint64(v))
}

func TestDecodeCheatTargetAll(t *testing.T) {
	target, consumed, err := cheatnet.DecodeCheatTarget([]felt.Felt{felt.FromUint64(0)})
	require.NoError(t, err)
	require.Equal(t, 1, consumed)
	require.Equal(t, cheatnet.TargetAll, target.Kind())
}

func TestDecodeCheatTargetOne(t *testing.T) {
	inputs := []felt.Felt{felt.FromUint64(1), felt.FromUint64(42)}
	target, consumed, err := cheatnet.DecodeCheatTarget(inputs)
	require.NoError(t, err)
	require.Equal(t, 2, consumed)
	require.Equal(t, cheatnet.TargetOne, target.Kind())
	require.Equal(t, []felt.ContractAddress{addr(42)}, target.Addresses())
}

func TestDecodeCheatTargetMultiple(t *testing.T) {
	inputs := []felt.Felt{felt.FromUint64(2), felt.FromUint64(3), felt.FromUint64(1), felt.FromUint64(2), felt.FromUint64(3)}
	target, consumed, err := cheatnet.DecodeCheatTarget(inputs)
	require.NoError(t, err)
	require.Equal(t, 5, consumed)
	require.Equal(t, cheatnet.TargetMultiple, target.Kind())
	require.Equal(t, []felt.ContractAddress{addr(1), addr(2), addr(3)}, target.Addresses())
}

func TestDecodeCheatTargetTruncated(t *testing.T) {
	_, _, err := cheatnet.DecodeCheatTarget([]felt.Felt{felt.FromUint64(2), felt.FromUint64(5)})
	require.Error(t, err)
}

func TestDecodeCheatTargetUnknownVariant(t *testing.T) {
	_, _, err := cheatnet.DecodeCheatTarget([]felt.Felt{felt.FromUint64(9)})
	require.Error(t, err)
}
