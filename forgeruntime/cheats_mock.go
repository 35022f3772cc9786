package forgeruntime

import (
	"github.com/foundry-rs/snforge-runtime/felt"
)

// startMockCall decodes `contract ‖ selector ‖ retdata_len ‖ retdata` and
// installs the canned response, per spec.md §4.4's start_mock_call row.
func (f *ForgeRuntimeExtension) startMockCall(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 3 {
		return nil, newMissingArgError("contract/selector/retdata_len")
	}
	contract := felt.ContractAddress(inputs[0])
	selector := felt.Selector(inputs[1])
	n := int(inputs[2].Uint64())
	if len(inputs) < 3+n {
		return nil, newMissingArgError("retdata")
	}
	retdata := make([]felt.Felt, n)
	copy(retdata, inputs[3:3+n])
	f.state.StartMockCall(contract, selector, retdata)
	return nil, nil
}

// stopMockCall decodes `contract ‖ selector` and removes any mock
// installed for that pair.
func (f *ForgeRuntimeExtension) stopMockCall(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 2 {
		return nil, newMissingArgError("contract/selector")
	}
	contract := felt.ContractAddress(inputs[0])
	selector := felt.Selector(inputs[1])
	f.state.StopMockCall(contract, selector)
	return nil, nil
}
