package cheatnet

import "github.com/fxamacker/cbor"

// compiledClassWire is the on-the-wire shape CompiledClass values are
// stored as in the state adapter's backing store.
type compiledClassWire struct {
	Sierra []byte `cbor:"sierra"`
	Casm   []byte `cbor:"casm"`
}

func encodeCompiledClass(c CompiledClass) ([]byte, error) {
	return cbor.Marshal(compiledClassWire{Sierra: c.Sierra, Casm: c.Casm}, cbor.EncOptions{})
}

func decodeCompiledClass(raw []byte) (CompiledClass, error) {
	var wire compiledClassWire
	if err := cbor.Unmarshal(raw, &wire); err != nil {
		return CompiledClass{}, err
	}
	return CompiledClass{Sierra: wire.Sierra, Casm: wire.Casm}, nil
}
