package forgeruntime

import "github.com/foundry-rs/snforge-runtime/felt"

func (f *ForgeRuntimeExtension) startRoll(inputs []felt.Felt) ([]felt.Felt, error) {
	target, blockNumber, err := decodeTargetAndValue(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StartRoll(target, blockNumber)
	return nil, nil
}

func (f *ForgeRuntimeExtension) stopRoll(inputs []felt.Felt) ([]felt.Felt, error) {
	target, err := decodeCheatTargetOnly(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StopRoll(target)
	return nil, nil
}

func (f *ForgeRuntimeExtension) startWarp(inputs []felt.Felt) ([]felt.Felt, error) {
	target, timestamp, err := decodeTargetAndValue(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StartWarp(target, timestamp)
	return nil, nil
}

func (f *ForgeRuntimeExtension) stopWarp(inputs []felt.Felt) ([]felt.Felt, error) {
	target, err := decodeCheatTargetOnly(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StopWarp(target)
	return nil, nil
}

func (f *ForgeRuntimeExtension) startElect(inputs []felt.Felt) ([]felt.Felt, error) {
	target, sequencer, err := decodeTargetAndValue(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StartElect(target, felt.ContractAddress(sequencer))
	return nil, nil
}

func (f *ForgeRuntimeExtension) stopElect(inputs []felt.Felt) ([]felt.Felt, error) {
	target, err := decodeCheatTargetOnly(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StopElect(target)
	return nil, nil
}

func (f *ForgeRuntimeExtension) startPrank(inputs []felt.Felt) ([]felt.Felt, error) {
	target, caller, err := decodeTargetAndValue(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StartPrank(target, felt.ContractAddress(caller))
	return nil, nil
}

func (f *ForgeRuntimeExtension) stopPrank(inputs []felt.Felt) ([]felt.Felt, error) {
	target, err := decodeCheatTargetOnly(inputs)
	if err != nil {
		return nil, err
	}
	f.state.StopPrank(target)
	return nil, nil
}
