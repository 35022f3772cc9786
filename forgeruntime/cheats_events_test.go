package forgeruntime_test

import (
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/runtime"
	"github.com/stretchr/testify/require"
)

func TestSpyEventsThenFetchDrainsCapturedEvents(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	f := newExtension(state, adapter)

	v := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "spy_events", Inputs: []felt.Felt{felt.Zero}})
	require.True(t, v.IsHandled())
	require.Len(t, v.Result(), 1)
	spyID := v.Result()[0]

	emitter := addr(5)
	state.RecordEvent(emitter, cheatnet.Event{
		Keys: []felt.Felt{felt.FromUint64(1)},
		Data: []felt.Felt{felt.FromUint64(2), felt.FromUint64(3)},
	})

	v = f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "fetch_events", Inputs: []felt.Felt{spyID}})
	require.True(t, v.IsHandled())

	want := []felt.Felt{
		felt.FromUint64(1),          // event count
		felt.Felt(emitter),          // from_address
		felt.FromUint64(1),          // keys_len
		felt.FromUint64(1),          // keys[0]
		felt.FromUint64(2),          // data_len
		felt.FromUint64(2),          // data[0]
		felt.FromUint64(3),          // data[1]
	}
	require.Equal(t, want, v.Result())

	// A second fetch drains to empty since the spy was consumed.
	v = f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "fetch_events", Inputs: []felt.Felt{spyID}})
	require.True(t, v.IsHandled())
	require.Equal(t, []felt.Felt{felt.Zero}, v.Result())
}

func TestFetchEventsUnknownIDErrors(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	f := newExtension(state, adapter)

	v := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "fetch_events", Inputs: []felt.Felt{felt.FromUint64(404)}})
	require.True(t, v.IsErrored())
}

func TestEventNameHashIsDeterministic(t *testing.T) {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	f := newExtension(state, adapter)

	name := felt.MustShortStringToFelt("Transfer")
	v1 := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "event_name_hash", Inputs: []felt.Felt{name}})
	v2 := f.HandleCheatcode(runtime.CheatcodeRequest{Selector: "event_name_hash", Inputs: []felt.Felt{name}})
	require.True(t, v1.IsHandled())
	require.True(t, v2.IsHandled())
	require.Equal(t, v1.Result(), v2.Result())
	require.NotEqual(t, name, v1.Result()[0])
}
