// Package felt implements the universal value type used throughout the
// Cairo/Starknet test runtime: a 252-bit prime field element, along with the
// thin ContractAddress/ClassHash/Selector wrappers around it.
package felt

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Prime is the Starknet field modulus: 2^251 + 17*2^192 + 1.
var Prime = func() *uint256.Int {
	p, err := uint256.FromHex("0x800000000000011000000000000000000000000000000000000000000000001")
	if err != nil {
		panic(err)
	}
	return p
}()

// Felt is a single element of the Starknet prime field. It is the universal
// value type: contract addresses, class hashes, selectors, calldata, storage
// values, and every cheatcode input/output are all Felts underneath.
//
// Equality and hashing are structural (Felt is comparable via ==), matching
// the "Equality and hashing are structural" invariant in the data model.
type Felt struct {
	inner uint256.Int
}

// Zero is the additive identity.
var Zero = Felt{}

// One is the multiplicative identity.
var One = FromUint64(1)

// FromUint64 constructs a Felt from a uint64.
func FromUint64(v uint64) Felt {
	var f Felt
	f.inner.SetUint64(v)
	return f
}

// FromBigInt reduces a big.Int modulo the field prime and returns a Felt.
func FromBigInt(v *big.Int) Felt {
	var u uint256.Int
	u.SetFromBig(new(big.Int).Mod(v, Prime.ToBig()))
	return Felt{inner: u}
}

// FromBytes interprets b as a big-endian integer and reduces it into a Felt.
// Longer than 32 bytes is an error since a Felt cannot hold more than 32 bytes
// of magnitude.
func FromBytes(b []byte) (Felt, error) {
	if len(b) > 32 {
		return Felt{}, errTooLong(len(b))
	}
	var u uint256.Int
	u.SetBytes(b)
	u.Mod(&u, Prime)
	return Felt{inner: u}, nil
}

// MustFromBytes is FromBytes but panics on error. Intended for constants and
// tests, never for decoding untrusted hint/syscall input.
func MustFromBytes(b []byte) Felt {
	f, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return f
}

// Bytes returns the big-endian 32-byte representation of the Felt.
func (f Felt) Bytes() [32]byte {
	return f.inner.Bytes32()
}

// MarshalBinary encodes the Felt as its 32-byte big-endian form, so binary
// codecs (such as simvm's CBOR program encoding) carry its value; the
// struct's only field is unexported and would otherwise be dropped.
func (f Felt) MarshalBinary() ([]byte, error) {
	b := f.Bytes()
	return b[:], nil
}

// UnmarshalBinary decodes a big-endian byte string as written by
// MarshalBinary.
func (f *Felt) UnmarshalBinary(b []byte) error {
	v, err := FromBytes(b)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// BigInt returns the Felt as a big.Int.
func (f Felt) BigInt() *big.Int {
	return f.inner.ToBig()
}

// Uint64 returns the low 64 bits of the Felt, truncating silently. Callers
// that need overflow detection should check BigInt().BitLen() first.
func (f Felt) Uint64() uint64 {
	return f.inner.Uint64()
}

// IsZero reports whether the Felt is the additive identity.
func (f Felt) IsZero() bool {
	return f.inner.IsZero()
}

// Add returns f + g, reduced modulo the field prime.
func (f Felt) Add(g Felt) Felt {
	var r uint256.Int
	r.AddMod(&f.inner, &g.inner, Prime)
	return Felt{inner: r}
}

// Cmp compares f and g as unsigned integers; returns -1, 0, or 1.
func (f Felt) Cmp(g Felt) int {
	return f.inner.Cmp(&g.inner)
}

// String renders the Felt as a "0x"-prefixed hex string.
func (f Felt) String() string {
	return f.inner.Hex()
}

type errTooLong int

func (e errTooLong) Error() string {
	return "felt: input exceeds 32 bytes"
}

// ContractAddress identifies a deployed contract instance.
type ContractAddress Felt

// ClassHash identifies a compiled Cairo contract class.
type ClassHash Felt

// Selector identifies an entry point (function) within a class, or a
// cheatcode, by the Starknet-Keccak of its ASCII name.
type Selector Felt

// String, Bytes and BigInt are provided on the address/hash/selector
// newtypes by delegating to the underlying Felt, so callers rarely need to
// convert back and forth just to print or hash a value.
func (a ContractAddress) String() string   { return Felt(a).String() }
func (c ClassHash) String() string         { return Felt(c).String() }
func (s Selector) String() string          { return Felt(s).String() }
func (a ContractAddress) IsZero() bool     { return Felt(a).IsZero() }
func (c ClassHash) IsZero() bool           { return Felt(c).IsZero() }
func (a ContractAddress) BigInt() *big.Int { return Felt(a).BigInt() }
func (c ClassHash) BigInt() *big.Int       { return Felt(c).BigInt() }
func (s Selector) BigInt() *big.Int        { return Felt(s).BigInt() }
func (a ContractAddress) Bytes() [32]byte  { return Felt(a).Bytes() }
func (c ClassHash) Bytes() [32]byte        { return Felt(c).Bytes() }
func (s Selector) Bytes() [32]byte         { return Felt(s).Bytes() }
