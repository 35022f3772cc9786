package cheatnet

import "github.com/foundry-rs/snforge-runtime/felt"

// CheatTargetKind is the variant tag of a CheatTarget as it appears at the
// head of a start_X/stop_X cheatcode's input felts, per spec.md §4.4
// "CheatTarget deserialization".
type CheatTargetKind uint8

const (
	TargetAll CheatTargetKind = iota
	TargetOne
	TargetMultiple
)

// CheatTarget names which contracts a start_X/stop_X cheatcode applies to.
// A cheat is active on address A iff a per-address or All entry exists;
// per-address entries override All (spec.md §3 "CheatTarget").
type CheatTarget struct {
	kind      CheatTargetKind
	one       felt.ContractAddress
	addresses []felt.ContractAddress
}

// All targets every contract with no per-address entry.
func All() CheatTarget { return CheatTarget{kind: TargetAll} }

// One targets a single contract address.
func One(address felt.ContractAddress) CheatTarget {
	return CheatTarget{kind: TargetOne, one: address}
}

// Multiple targets an explicit set of contract addresses.
func Multiple(addresses []felt.ContractAddress) CheatTarget {
	return CheatTarget{kind: TargetMultiple, addresses: addresses}
}

// Kind reports which variant this target is.
func (t CheatTarget) Kind() CheatTargetKind { return t.kind }

// Addresses enumerates the concrete addresses this target names. All
// returns an empty slice (it names no specific address; it is the
// catch-all fallback looked up separately by CheatState).
func (t CheatTarget) Addresses() []felt.ContractAddress {
	switch t.kind {
	case TargetOne:
		return []felt.ContractAddress{t.one}
	case TargetMultiple:
		return t.addresses
	default:
		return nil
	}
}

// DecodeCheatTarget parses a CheatTarget from the head of inputs per the
// wire encoding: first felt is the variant tag, 0=All (1 felt total),
// 1=One (+1 address felt), 2=Multiple (+1 length felt +N address felts).
// Returns the decoded target and how many felts were consumed.
func DecodeCheatTarget(inputs []felt.Felt) (CheatTarget, int, error) {
	if len(inputs) == 0 {
		return CheatTarget{}, 0, NewCheatError("CheatTarget", "missing variant tag")
	}
	switch inputs[0].Uint64() {
	case uint64(TargetAll):
		return All(), 1, nil
	case uint64(TargetOne):
		if len(inputs) < 2 {
			return CheatTarget{}, 0, NewCheatError("CheatTarget", "One: missing address")
		}
		return One(felt.ContractAddress(inputs[1])), 2, nil
	case uint64(TargetMultiple):
		if len(inputs) < 2 {
			return CheatTarget{}, 0, NewCheatError("CheatTarget", "Multiple: missing length")
		}
		n := int(inputs[1].Uint64())
		if len(inputs) < 2+n {
			return CheatTarget{}, 0, NewCheatError("CheatTarget", "Multiple: truncated address list")
		}
		addresses := make([]felt.ContractAddress, n)
		for i := 0; i < n; i++ {
			addresses[i] = felt.ContractAddress(inputs[2+i])
		}
		return Multiple(addresses), 2 + n, nil
	default:
		return CheatTarget{}, 0, NewCheatError("CheatTarget", "unknown variant tag")
	}
}
