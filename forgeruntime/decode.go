package forgeruntime

import (
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
)

// newMissingArgError reports a cheatcode input that ran out of felts before
// the decoder finished, per spec.md §7's CheatError row.
func newMissingArgError(field string) error {
	return cheatnet.NewCheatError("decode", "missing argument: "+field)
}

// decodeCheatTargetOnly decodes a bare CheatTarget with nothing else
// expected to follow, erroring if felts remain (the stop_X shape).
func decodeCheatTargetOnly(inputs []felt.Felt) (cheatnet.CheatTarget, error) {
	target, n, err := cheatnet.DecodeCheatTarget(inputs)
	if err != nil {
		return cheatnet.CheatTarget{}, err
	}
	if n != len(inputs) {
		return cheatnet.CheatTarget{}, cheatnet.NewCheatError("decode", "trailing input after CheatTarget")
	}
	return target, nil
}

// decodeTargetAndValue decodes a CheatTarget followed by one felt value,
// the shape shared by start_roll/start_warp/start_elect/start_prank
// (spec.md §4.4 table). Felts after the value are ignored.
func decodeTargetAndValue(inputs []felt.Felt) (cheatnet.CheatTarget, felt.Felt, error) {
	target, n, err := cheatnet.DecodeCheatTarget(inputs)
	if err != nil {
		return cheatnet.CheatTarget{}, felt.Felt{}, err
	}
	if len(inputs) < n+1 {
		return cheatnet.CheatTarget{}, felt.Felt{}, newMissingArgError("value")
	}
	return target, inputs[n], nil
}

// decodeLongString decodes a contract name or file path too long for a
// single short-string Felt: a chunk count followed by that many
// short-string-encoded Felts, concatenated in order. Returns the decoded
// string and the number of felts consumed.
func decodeLongString(inputs []felt.Felt) (string, int, error) {
	if len(inputs) < 1 {
		return "", 0, newMissingArgError("string.chunk_count")
	}
	n := int(inputs[0].Uint64())
	if len(inputs) < 1+n {
		return "", 0, newMissingArgError("string.chunks")
	}
	var sb []byte
	for i := 0; i < n; i++ {
		sb = append(sb, []byte(felt.FeltToShortString(inputs[1+i]))...)
	}
	return string(sb), 1 + n, nil
}

// decodeOptionalFelt decodes the `[is_some, value]` optional-felt encoding
// spec.md §4.4 specifies for start_spoof's scalar fields. Returns the
// consumed felt count alongside the decoded *felt.Felt (nil when absent).
func decodeOptionalFelt(inputs []felt.Felt) (*felt.Felt, int, error) {
	if len(inputs) < 1 {
		return nil, 0, newMissingArgError("is_some")
	}
	if inputs[0].IsZero() {
		return nil, 1, nil
	}
	if len(inputs) < 2 {
		return nil, 0, newMissingArgError("value")
	}
	v := inputs[1]
	return &v, 2, nil
}
