package forgeruntime

import (
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
)

// spyEvents decodes a SpyTarget (the same wire shape as CheatTarget, per
// spec.md §4.4's `spy_events` row) and registers a new spy, returning its
// stable id.
func (f *ForgeRuntimeExtension) spyEvents(inputs []felt.Felt) ([]felt.Felt, error) {
	target, err := decodeCheatTargetOnly(inputs)
	if err != nil {
		return nil, err
	}
	id := f.state.SpyEvents(target)
	return []felt.Felt{felt.FromUint64(id)}, nil
}

// fetchEvents drains the spy named by id and serializes its captured
// events as `[count, ...events]`, per spec.md §4.4's `fetch_events` row
// and §9's resolution of the ExpectedEvent serialization ambiguity. Each
// event is encoded as `from_address, keys_len, ...keys, data_len,
// ...data`.
func (f *ForgeRuntimeExtension) fetchEvents(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 1 {
		return nil, newMissingArgError("id")
	}
	id := inputs[0].Uint64()
	events, ok := f.state.FetchEvents(id)
	if !ok {
		return nil, cheatnet.NewCheatError("fetch_events", "no spy registered with that id")
	}
	out := []felt.Felt{felt.FromUint64(uint64(len(events)))}
	for _, ev := range events {
		out = append(out, felt.Felt(ev.FromAddress))
		out = append(out, felt.FromUint64(uint64(len(ev.Keys))))
		out = append(out, ev.Keys...)
		out = append(out, felt.FromUint64(uint64(len(ev.Data))))
		out = append(out, ev.Data...)
	}
	return out, nil
}

// eventNameHash computes the Starknet-Keccak of an event's ASCII name,
// per spec.md §4.4's `event_name_hash` row.
func (f *ForgeRuntimeExtension) eventNameHash(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 1 {
		return nil, newMissingArgError("short_string")
	}
	name := felt.FeltToShortString(inputs[0])
	return []felt.Felt{starknetKeccak([]byte(name))}, nil
}
