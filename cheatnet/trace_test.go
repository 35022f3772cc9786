package cheatnet_test

import (
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/stretchr/testify/require"
)

// TestTraceFidelity covers spec.md §8 property 5: one node per call, at
// the right depth, with matching shape.
func TestTraceFidelity(t *testing.T) {
	rec := cheatnet.NewTraceRecorder()

	root := rec.Enter(cheatnet.CallEntryPoint{StorageAddress: addr(1)})
	require.Same(t, root, rec.Root())

	child := rec.Enter(cheatnet.CallEntryPoint{StorageAddress: addr(2), CallType: cheatnet.CallTypeDelegate})
	rec.Exit(cheatnet.TraceResult{Kind: cheatnet.TraceSuccess, ReturnData: []felt.Felt{felt.FromUint64(1)}})
	rec.Exit(cheatnet.TraceResult{Kind: cheatnet.TraceSuccess, ReturnData: []felt.Felt{felt.FromUint64(2)}})

	require.Len(t, root.NestedCalls, 1)
	require.Same(t, child, root.NestedCalls[0])
	require.Equal(t, cheatnet.TraceSuccess, child.Result.Kind)
	require.Equal(t, cheatnet.CallTypeDelegate, child.EntryPoint.CallType)
}

func TestExitWithoutEnterPanics(t *testing.T) {
	rec := cheatnet.NewTraceRecorder()
	require.Panics(t, func() {
		rec.Exit(cheatnet.TraceResult{})
	})
}

func TestSerializeEncodesDepthFirst(t *testing.T) {
	rec := cheatnet.NewTraceRecorder()
	rec.Enter(cheatnet.CallEntryPoint{EntryPointSelector: felt.Selector(felt.FromUint64(1))})
	rec.Enter(cheatnet.CallEntryPoint{EntryPointSelector: felt.Selector(felt.FromUint64(2))})
	rec.Exit(cheatnet.TraceResult{Kind: cheatnet.TraceSuccess, ReturnData: []felt.Felt{felt.FromUint64(9)}})
	rec.Exit(cheatnet.TraceResult{Kind: cheatnet.TraceSuccess})

	encoded := cheatnet.Serialize(rec.Root())
	require.NotEmpty(t, encoded)
	// selector, call_type, result_kind, payload_len, ...payload, child_count, ...
	require.Equal(t, felt.FromUint64(1), encoded[0])
}
