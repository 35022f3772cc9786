package forgeruntime

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"math/big"

	starkcurve "github.com/NethermindEth/starknet.go/curve"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
)

// u256Bits is the width each half of a secp256k1/secp256r1 key or
// signature component is split into, since those curves' 256-bit values
// don't fit in a single (~252-bit) Felt the way a native Stark-curve
// value does.
const u256Bits = 128

// splitU256 decomposes v into low/high 128-bit Felt halves.
func splitU256(v *big.Int) (low, high felt.Felt) {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), u256Bits), big.NewInt(1))
	lowBig := new(big.Int).And(v, mask)
	highBig := new(big.Int).Rsh(v, u256Bits)
	return felt.FromBigInt(lowBig), felt.FromBigInt(highBig)
}

// joinU256 recomposes a big.Int from a (low, high) Felt pair produced by
// splitU256.
func joinU256(low, high felt.Felt) *big.Int {
	v := new(big.Int).Lsh(high.BigInt(), u256Bits)
	return v.Or(v, low.BigInt())
}

func to32Bytes(v *big.Int) []byte {
	buf := make([]byte, 32)
	v.FillBytes(buf)
	return buf
}

// decodeCurveName reads the optional curve-name short string
// `generate_ecdsa_keys` takes: absent or zero means the Stark curve
// default, per spec.md §4.4's row for that cheatcode.
func decodeCurveName(inputs []felt.Felt) string {
	if len(inputs) == 0 || inputs[0].IsZero() {
		return ""
	}
	return felt.FeltToShortString(inputs[0])
}

// generateECDSAKeys generates a fresh keypair on the requested curve,
// framed as `[priv…, pub…]` per spec.md §4.4. The Stark curve's native
// values are single Felts; secp256k1/secp256r1 values are split into
// 128-bit (low, high) Felt pairs since they don't fit a single Felt.
func (f *ForgeRuntimeExtension) generateECDSAKeys(inputs []felt.Felt) ([]felt.Felt, error) {
	switch decodeCurveName(inputs) {
	case "Secp256k1":
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, cheatnet.NewCheatError("generate_ecdsa_keys", err.Error())
		}
		privBig := new(big.Int).SetBytes(priv.Serialize())
		pubBytes := priv.PubKey().SerializeUncompressed()
		x := new(big.Int).SetBytes(pubBytes[1:33])
		y := new(big.Int).SetBytes(pubBytes[33:65])
		return encodeSplitKeyPair(privBig, x, y), nil

	case "Secp256r1":
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, cheatnet.NewCheatError("generate_ecdsa_keys", err.Error())
		}
		return encodeSplitKeyPair(priv.D, priv.PublicKey.X, priv.PublicKey.Y), nil

	default: // Stark
		priv, err := starkcurve.GetRandomPrivateKey()
		if err != nil {
			return nil, cheatnet.NewCheatError("generate_ecdsa_keys", err.Error())
		}
		x, _, err := starkcurve.PrivateKeyToPoint(priv)
		if err != nil {
			return nil, cheatnet.NewCheatError("generate_ecdsa_keys", err.Error())
		}
		return []felt.Felt{felt.FromBigInt(priv), felt.FromBigInt(x)}, nil
	}
}

func encodeSplitKeyPair(priv, x, y *big.Int) []felt.Felt {
	privLow, privHigh := splitU256(priv)
	xLow, xHigh := splitU256(x)
	yLow, yHigh := splitU256(y)
	return []felt.Felt{privLow, privHigh, xLow, xHigh, yLow, yHigh}
}

// getPublicKey derives the public key from a private key, dispatching on
// the input shape: one Felt is a native Stark-curve private key, two
// Felts are a split secp256k1 private key (spec.md §4.4's
// `get_public_key`/`get_ecdsa_public_key` rows share one handler — see
// DESIGN.md's Open Question resolution for why the shape, not a separate
// selector, distinguishes the curve).
func (f *ForgeRuntimeExtension) getPublicKey(inputs []felt.Felt) ([]felt.Felt, error) {
	switch len(inputs) {
	case 1:
		x, _, err := starkcurve.PrivateKeyToPoint(inputs[0].BigInt())
		if err != nil {
			return nil, cheatnet.NewCheatError("get_public_key", err.Error())
		}
		return []felt.Felt{felt.FromBigInt(x)}, nil
	case 2:
		priv := secp256k1.PrivKeyFromBytes(to32Bytes(joinU256(inputs[0], inputs[1])))
		pubBytes := priv.PubKey().SerializeUncompressed()
		x := new(big.Int).SetBytes(pubBytes[1:33])
		y := new(big.Int).SetBytes(pubBytes[33:65])
		xLow, xHigh := splitU256(x)
		yLow, yHigh := splitU256(y)
		return []felt.Felt{xLow, xHigh, yLow, yHigh}, nil
	default:
		return nil, cheatnet.NewCheatError("get_public_key", "unrecognized private key encoding")
	}
}

// starkSignMessage signs hash with a native Stark-curve private key,
// per spec.md §4.4's `ecdsa_sign_message`/`stark_sign_message` output
// framing: `[0, r, s]` on success, `[1, "message_hash out of range"]`
// when hash does not fit the field the curve operates over.
func (f *ForgeRuntimeExtension) starkSignMessage(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 2 {
		return nil, newMissingArgError("key/hash")
	}
	priv := inputs[0].BigInt()
	hash := inputs[1].BigInt()
	if hash.Cmp(felt.Prime.ToBig()) >= 0 {
		return []felt.Felt{felt.One, felt.MustShortStringToFelt("message_hash out of range")}, nil
	}
	r, s, err := starkcurve.Sign(hash, priv)
	if err != nil {
		return nil, cheatnet.NewCheatError("stark_sign_message", err.Error())
	}
	return []felt.Felt{felt.Zero, felt.FromBigInt(r), felt.FromBigInt(s)}, nil
}

// ecdsaSignMessage signs a 256-bit hash with a split secp256k1 private
// key, per spec.md §4.4's `ecdsa_sign_message` row. Inputs are
// `[priv_low, priv_high, hash_low, hash_high]`; output is `[0, r_low,
// r_high, s_low, s_high]`.
func (f *ForgeRuntimeExtension) ecdsaSignMessage(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 4 {
		return nil, newMissingArgError("key/hash")
	}
	priv := secp256k1.PrivKeyFromBytes(to32Bytes(joinU256(inputs[0], inputs[1])))
	hashBytes := to32Bytes(joinU256(inputs[2], inputs[3]))

	sig := dcrecdsa.Sign(priv, hashBytes)
	rBytes := sig.R().Bytes()
	sBytes := sig.S().Bytes()
	rLow, rHigh := splitU256(new(big.Int).SetBytes(rBytes[:]))
	sLow, sHigh := splitU256(new(big.Int).SetBytes(sBytes[:]))
	return []felt.Felt{felt.Zero, rLow, rHigh, sLow, sHigh}, nil
}
