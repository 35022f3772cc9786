package forgeruntime

import (
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
)

// constructorSelector is the entry-point selector every deploy cheatcode
// invokes, the Starknet-Keccak of the ASCII name "constructor" (the same
// derivation `l1_handler_execute` and `event_name_hash` use for their own
// name hashing, per spec.md §4.4).
var constructorSelector = felt.Selector(starknetKeccak([]byte("constructor")))

// declare loads contract_name's compiled artifact, derives its class
// hash, registers it in the state adapter's class cache (idempotent
// across repeated declares, per spec.md §4.4 "declare semantics"), and
// returns it framed as `[0, class_hash]`.
func (f *ForgeRuntimeExtension) declare(inputs []felt.Felt) ([]felt.Felt, error) {
	name, _, err := decodeLongString(inputs)
	if err != nil {
		return nil, err
	}
	compiled, err := f.artifacts.Load(name)
	if err != nil {
		return nil, cheatnet.NewCheatError("declare", "load artifact "+name+": "+err.Error())
	}
	classHash := classHashFor(compiled.Sierra)
	if err := f.adapter.DeclareClass(classHash, compiled); err != nil {
		return nil, cheatnet.NewCheatError("declare", "register class: "+err.Error())
	}
	if id, ok := f.adapter.DiagnosticID(classHash); ok {
		logger.Debug().Str("contract", name).Str("class_hash", classHash.String()).Str("diagnostic_id", id.String()).Msg("declared class")
	}
	return []felt.Felt{felt.Zero, felt.Felt(classHash)}, nil
}

// deploy decodes `class_hash ‖ calldata_len ‖ calldata`, computes the
// UDC-style deploy address, registers the class at that address, and runs
// the constructor, per spec.md §4.4 "deploy"/"deploy address computation".
func (f *ForgeRuntimeExtension) deploy(inputs []felt.Felt) ([]felt.Felt, error) {
	classHash, calldata, _, err := decodeClassHashAndCalldata(inputs)
	if err != nil {
		return nil, err
	}
	salt := f.state.NextDeploySalt()
	address := deployAddressFor(f.cfg.DeployerAddress, salt, classHash, calldata)
	return f.deployAt0(classHash, calldata, address)
}

// deployAt decodes `class_hash ‖ calldata ‖ target_address` and deploys
// at the caller-chosen address instead of a precalculated one.
func (f *ForgeRuntimeExtension) deployAt(inputs []felt.Felt) ([]felt.Felt, error) {
	classHash, calldata, n, err := decodeClassHashAndCalldata(inputs)
	if err != nil {
		return nil, err
	}
	if len(inputs) < n+1 {
		return nil, newMissingArgError("target_address")
	}
	address := felt.ContractAddress(inputs[n])
	return f.deployAt0(classHash, calldata, address)
}

func (f *ForgeRuntimeExtension) deployAt0(classHash felt.ClassHash, calldata []felt.Felt, address felt.ContractAddress) ([]felt.Felt, error) {
	if err := f.adapter.SetClassHashAt(address, classHash); err != nil {
		return nil, cheatnet.NewCheatError("deploy", "set class hash: "+err.Error())
	}

	child, err := f.runCall(cheatnet.CallEntryPoint{
		ClassHash:          &classHash,
		EntryPointType:     cheatnet.EntryPointConstructor,
		EntryPointSelector: constructorSelector,
		Calldata:           calldata,
		StorageAddress:     address,
		CallerAddress:      f.cfg.DeployerAddress,
		CallType:           cheatnet.CallTypeCall,
	})
	if err != nil {
		return nil, err
	}
	if child.Execution.Failed {
		out := []felt.Felt{felt.One, felt.FromUint64(uint64(len(child.Execution.RetData)))}
		return append(out, child.Execution.RetData...), nil
	}
	return []felt.Felt{felt.Zero, felt.Felt(address)}, nil
}

// precalculateAddress decodes `class_hash ‖ calldata` and returns the
// address a matching `deploy` call would land on, without consuming the
// deploy-salt counter (spec.md §4.4 "precalculate_address").
func (f *ForgeRuntimeExtension) precalculateAddress(inputs []felt.Felt) ([]felt.Felt, error) {
	classHash, calldata, _, err := decodeClassHashAndCalldata(inputs)
	if err != nil {
		return nil, err
	}
	salt := f.state.PeekDeploySalt()
	address := deployAddressFor(f.cfg.DeployerAddress, salt, classHash, calldata)
	return []felt.Felt{felt.Felt(address)}, nil
}

// getClassHash looks up the class hash currently deployed at address.
func (f *ForgeRuntimeExtension) getClassHash(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 1 {
		return nil, newMissingArgError("address")
	}
	address := felt.ContractAddress(inputs[0])
	classHash, err := f.adapter.GetClassHashAt(address)
	if err != nil {
		return nil, cheatnet.NewCheatError("get_class_hash", err.Error())
	}
	return []felt.Felt{felt.Felt(classHash)}, nil
}

// l1HandlerExecute decodes `contract ‖ function_name ‖ from_address ‖
// payload_len ‖ payload` and invokes the named L1 handler entry point,
// prepending from_address to calldata the way a real L1-to-L2 message
// does, per spec.md §4.4's row of the same name.
func (f *ForgeRuntimeExtension) l1HandlerExecute(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 1 {
		return nil, newMissingArgError("contract")
	}
	contract := felt.ContractAddress(inputs[0])
	name, n, err := decodeLongString(inputs[1:])
	if err != nil {
		return nil, err
	}
	rest := inputs[1+n:]
	if len(rest) < 2 {
		return nil, newMissingArgError("from_address/payload_len")
	}
	fromAddress := rest[0]
	payloadLen := int(rest[1].Uint64())
	if len(rest) < 2+payloadLen {
		return nil, newMissingArgError("payload")
	}
	payload := rest[2 : 2+payloadLen]

	calldata := make([]felt.Felt, 0, 1+len(payload))
	calldata = append(calldata, fromAddress)
	calldata = append(calldata, payload...)

	child, err := f.runCall(cheatnet.CallEntryPoint{
		EntryPointType:     cheatnet.EntryPointL1Handler,
		EntryPointSelector: felt.Selector(starknetKeccak([]byte(name))),
		Calldata:           calldata,
		StorageAddress:     contract,
		CallerAddress:      felt.ContractAddress{},
		CallType:           cheatnet.CallTypeCall,
	})
	if err != nil {
		return nil, err
	}
	if child.Execution.Failed {
		out := []felt.Felt{felt.One, felt.FromUint64(uint64(len(child.Execution.RetData)))}
		return append(out, child.Execution.RetData...), nil
	}
	out := []felt.Felt{felt.Zero, felt.FromUint64(uint64(len(child.Execution.RetData)))}
	return append(out, child.Execution.RetData...), nil
}

// decodeClassHashAndCalldata decodes `class_hash ‖ calldata_len ‖
// calldata`, the shape shared by deploy/deploy_at/precalculate_address.
func decodeClassHashAndCalldata(inputs []felt.Felt) (felt.ClassHash, []felt.Felt, int, error) {
	if len(inputs) < 2 {
		return felt.ClassHash{}, nil, 0, newMissingArgError("class_hash/calldata_len")
	}
	classHash := felt.ClassHash(inputs[0])
	n := int(inputs[1].Uint64())
	if len(inputs) < 2+n {
		return felt.ClassHash{}, nil, 0, newMissingArgError("calldata")
	}
	calldata := make([]felt.Felt, n)
	copy(calldata, inputs[2:2+n])
	return classHash, calldata, 2 + n, nil
}
