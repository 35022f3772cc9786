package cheatnet

import (
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CompiledClass is the pair of program blobs a declared class carries:
// the Sierra program and its compiled CASM, per spec.md §6 "Artifact
// input". The core does not compile; it only stores and retrieves these
// blobs as supplied by the external build step.
type CompiledClass struct {
	Sierra []byte
	Casm   []byte

	// Kind distinguishes a Cairo 1/Sierra class from a legacy Cairo 0
	// one. Cairo 0 execution is a Non-goal (spec.md §1); the Call
	// Executor rejects it at pre-execution (spec.md §4.3 step 1).
	Kind ClassKind
}

// ErrClassNotDeclared is returned by GetCompiledContractClass when no
// class has been declared under the requested hash.
var ErrClassNotDeclared = errors.New("class not declared")

const (
	keyPrefixClassHash     = "class-hash:"
	keyPrefixStorage       = "storage:"
	keyPrefixNonce         = "nonce:"
	keyPrefixCompiledClass = "compiled-class:"
)

// StarknetStateAdapter is a thin, synchronous, in-process facade over a
// mutable key-value store holding class hashes, storage slots, nonces,
// and compiled class bytes (spec.md §4.5, C2). It is backed by
// go-ethereum's ethdb.KeyValueStore purely for its Put/Get/Delete/Has
// contract — no Ethereum account or trie semantics are involved.
//
// Initial state is always empty; there is no persistence across
// instances, matching spec.md §4.5's "Initial state is always empty."
type StarknetStateAdapter struct {
	db ethdb.KeyValueStore

	// diagnosticIDs mints one opaque uuid per class hash the first time it
	// is declared, purely so test failure output and `declare`'s debug log
	// can refer to "class <short id>" instead of a 64-hex-digit class
	// hash. Not consensus-relevant and never written to the KV store.
	diagnosticIDs map[felt.ClassHash]uuid.UUID
}

// NewStarknetStateAdapter returns an adapter backed by a fresh in-memory
// store.
func NewStarknetStateAdapter() *StarknetStateAdapter {
	return &StarknetStateAdapter{db: memorydb.New(), diagnosticIDs: make(map[felt.ClassHash]uuid.UUID)}
}

func classHashKey(address felt.ContractAddress) []byte {
	b := address.BigInt().Bytes()
	return append([]byte(keyPrefixClassHash), b...)
}

func storageKey(address felt.ContractAddress, slot felt.Felt) []byte {
	key := append([]byte(keyPrefixStorage), address.BigInt().Bytes()...)
	key = append(key, ':')
	return append(key, slot.BigInt().Bytes()...)
}

func nonceKey(address felt.ContractAddress) []byte {
	return append([]byte(keyPrefixNonce), address.BigInt().Bytes()...)
}

func compiledClassKey(classHash felt.ClassHash) []byte {
	return append([]byte(keyPrefixCompiledClass), classHash.BigInt().Bytes()...)
}

// GetClassHashAt returns the class hash deployed at address, or the zero
// ClassHash if none has been set (spec.md §4.5).
func (a *StarknetStateAdapter) GetClassHashAt(address felt.ContractAddress) (felt.ClassHash, error) {
	key := classHashKey(address)
	has, err := a.db.Has(key)
	if err != nil {
		return felt.ClassHash{}, errors.Wrap(err, "get class hash at")
	}
	if !has {
		return felt.ClassHash{}, nil
	}
	raw, err := a.db.Get(key)
	if err != nil {
		return felt.ClassHash{}, errors.Wrap(err, "get class hash at")
	}
	f, err := felt.FromBytes(raw)
	if err != nil {
		return felt.ClassHash{}, errors.Wrap(err, "decode class hash")
	}
	return felt.ClassHash(f), nil
}

// SetClassHashAt records that classHash is deployed at address, used by
// the `deploy`/`deploy_at` cheatcodes.
func (a *StarknetStateAdapter) SetClassHashAt(address felt.ContractAddress, classHash felt.ClassHash) error {
	b := felt.Felt(classHash).Bytes()
	return a.db.Put(classHashKey(address), b[:])
}

// GetStorage returns the felt stored at (address, key), or zero if unset.
func (a *StarknetStateAdapter) GetStorage(address felt.ContractAddress, key felt.Felt) (felt.Felt, error) {
	storeKey := storageKey(address, key)
	has, err := a.db.Has(storeKey)
	if err != nil {
		return felt.Zero, errors.Wrap(err, "get storage")
	}
	if !has {
		return felt.Zero, nil
	}
	raw, err := a.db.Get(storeKey)
	if err != nil {
		return felt.Zero, errors.Wrap(err, "get storage")
	}
	return felt.FromBytes(raw)
}

// SetStorage writes value at (address, key).
func (a *StarknetStateAdapter) SetStorage(address felt.ContractAddress, key felt.Felt, value felt.Felt) error {
	b := value.Bytes()
	return a.db.Put(storageKey(address, key), b[:])
}

// GetNonce returns the nonce recorded for address, or zero if unset.
func (a *StarknetStateAdapter) GetNonce(address felt.ContractAddress) (felt.Felt, error) {
	key := nonceKey(address)
	has, err := a.db.Has(key)
	if err != nil {
		return felt.Zero, errors.Wrap(err, "get nonce")
	}
	if !has {
		return felt.Zero, nil
	}
	raw, err := a.db.Get(key)
	if err != nil {
		return felt.Zero, errors.Wrap(err, "get nonce")
	}
	return felt.FromBytes(raw)
}

// SetNonce records nonce for address.
func (a *StarknetStateAdapter) SetNonce(address felt.ContractAddress, nonce felt.Felt) error {
	b := nonce.Bytes()
	return a.db.Put(nonceKey(address), b[:])
}

// DeclareClass registers compiled under classHash. Declaring the same
// class hash twice is idempotent (spec.md §4.4 "declare semantics").
func (a *StarknetStateAdapter) DeclareClass(classHash felt.ClassHash, compiled CompiledClass) error {
	encoded, err := encodeCompiledClass(compiled)
	if err != nil {
		return errors.Wrap(err, "encode compiled class")
	}
	if err := a.db.Put(compiledClassKey(classHash), encoded); err != nil {
		return err
	}
	if _, ok := a.diagnosticIDs[classHash]; !ok {
		a.diagnosticIDs[classHash] = uuid.New()
	}
	return nil
}

// DiagnosticID returns the opaque id minted for classHash's first
// declaration, for use in human-facing diagnostics only.
func (a *StarknetStateAdapter) DiagnosticID(classHash felt.ClassHash) (uuid.UUID, bool) {
	id, ok := a.diagnosticIDs[classHash]
	return id, ok
}

// GetCompiledContractClass returns the compiled class registered under
// classHash, or ErrClassNotDeclared if none exists.
func (a *StarknetStateAdapter) GetCompiledContractClass(classHash felt.ClassHash) (CompiledClass, error) {
	key := compiledClassKey(classHash)
	has, err := a.db.Has(key)
	if err != nil {
		return CompiledClass{}, errors.Wrap(err, "get compiled class")
	}
	if !has {
		return CompiledClass{}, ErrClassNotDeclared
	}
	raw, err := a.db.Get(key)
	if err != nil {
		return CompiledClass{}, errors.Wrap(err, "get compiled class")
	}
	return decodeCompiledClass(raw)
}

// IsDeclared reports whether a class has been declared under classHash.
func (a *StarknetStateAdapter) IsDeclared(classHash felt.ClassHash) (bool, error) {
	return a.db.Has(compiledClassKey(classHash))
}
