package forgeruntime

import (
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
)

// startSpoof decodes CheatTarget followed by the seven optional TxInfo
// fields and the resource-bounds list, per spec.md §4.4's "Optional-felt
// encoding for start_spoof" and SPEC_FULL.md's resource_bounds supplement.
// Each scalar field is `[is_some, value]`; signature is `[is_some, ignored,
// len, ...felts]` when present (the doubly-encoded scheme spec.md §9
// resolves); resource_bounds is `[is_some, count, ...(max_amount,
// max_price_per_unit)]`.
func (f *ForgeRuntimeExtension) startSpoof(inputs []felt.Felt) ([]felt.Felt, error) {
	target, n, err := cheatnet.DecodeCheatTarget(inputs)
	if err != nil {
		return nil, err
	}
	rest := inputs[n:]

	var override cheatnet.TxInfoOverride

	rest, err = takeOptionalFeltInto(rest, &override.Version)
	if err != nil {
		return nil, err
	}
	var accountAddr *felt.Felt
	rest, err = takeOptionalFeltInto(rest, &accountAddr)
	if err != nil {
		return nil, err
	}
	if accountAddr != nil {
		a := felt.ContractAddress(*accountAddr)
		override.AccountContractAddress = &a
	}
	rest, err = takeOptionalFeltInto(rest, &override.MaxFee)
	if err != nil {
		return nil, err
	}
	rest, err = takeOptionalSignature(rest, &override.Signature)
	if err != nil {
		return nil, err
	}
	rest, err = takeOptionalFeltInto(rest, &override.TransactionHash)
	if err != nil {
		return nil, err
	}
	rest, err = takeOptionalFeltInto(rest, &override.ChainID)
	if err != nil {
		return nil, err
	}
	rest, err = takeOptionalFeltInto(rest, &override.Nonce)
	if err != nil {
		return nil, err
	}
	_, err = takeOptionalResourceBounds(rest, &override.ResourceBounds)
	if err != nil {
		return nil, err
	}

	f.state.StartSpoof(target, override)
	return nil, nil
}

func (f *ForgeRuntimeExtension) stopSpoof(inputs []felt.Felt) ([]felt.Felt, error) {
	target, err := decodeCheatTargetOnly(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StopSpoof(target)
	return nil, nil
}

// takeOptionalFeltInto decodes one `[is_some, value]` optional scalar off
// the front of inputs, writing the result into *dst, and returns the
// remaining felts.
func takeOptionalFeltInto(inputs []felt.Felt, dst **felt.Felt) ([]felt.Felt, error) {
	v, n, err := decodeOptionalFelt(inputs)
	if err != nil {
		return nil, err
	}
	*dst = v
	return inputs[n:], nil
}

// takeOptionalSignature decodes the doubly-encoded `[is_some, ignored, len,
// ...felts]` signature optional and returns the remaining felts.
func takeOptionalSignature(inputs []felt.Felt, dst *[]felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 1 {
		return nil, newMissingArgError("signature.is_some")
	}
	if inputs[0].IsZero() {
		return inputs[1:], nil
	}
	if len(inputs) < 3 {
		return nil, newMissingArgError("signature.len")
	}
	n := int(inputs[2].Uint64())
	if len(inputs) < 3+n {
		return nil, newMissingArgError("signature data")
	}
	sig := make([]felt.Felt, n)
	copy(sig, inputs[3:3+n])
	*dst = sig
	return inputs[3+n:], nil
}

// takeOptionalResourceBounds decodes `[is_some, count, ...(amount, price)]`.
func takeOptionalResourceBounds(inputs []felt.Felt, dst *[]cheatnet.FeeBound) ([]felt.Felt, error) {
	if len(inputs) < 1 {
		// Absent entirely (the field was dropped from the original
		// distillation's minimal callers); treat as "not present".
		return inputs, nil
	}
	if inputs[0].IsZero() {
		return inputs[1:], nil
	}
	if len(inputs) < 2 {
		return nil, newMissingArgError("resource_bounds.count")
	}
	count := int(inputs[1].Uint64())
	if len(inputs) < 2+2*count {
		return nil, newMissingArgError("resource_bounds data")
	}
	bounds := make([]cheatnet.FeeBound, count)
	for i := 0; i < count; i++ {
		bounds[i] = cheatnet.FeeBound{
			MaxAmount:       inputs[2+2*i],
			MaxPricePerUnit: inputs[2+2*i+1],
		}
	}
	*dst = bounds
	return inputs[2+2*count:], nil
}
