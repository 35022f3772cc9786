package forgeruntime

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/foundry-rs/snforge-runtime/felt"
)

// starknetKeccak hashes data with Keccak-256 and masks the result down to
// Starknet's 250-bit "truncated keccak" convention (the top 6 bits cleared)
// before reducing into a Felt. No Pedersen-hash implementation exists
// anywhere in the retrieved example pack, so every hash this package needs
// — class hashing, event-name hashing, and deploy-address derivation — is
// built on this one Keccak-based primitive instead; see DESIGN.md.
func starknetKeccak(data ...[]byte) felt.Felt {
	sum := crypto.Keccak256(data...)
	sum[0] &= 0x03
	f, err := felt.FromBytes(sum)
	if err != nil {
		// Keccak256 always returns 32 bytes; FromBytes only rejects longer
		// input, so this is unreachable.
		panic(err)
	}
	return f
}

// classHashFor derives a class hash from a compiled class's Sierra program,
// standing in for the real Sierra-to-class-hash derivation (spec.md §4.4
// "declare semantics": "compute its Sierra-derived class hash").
func classHashFor(sierra []byte) felt.ClassHash {
	return felt.ClassHash(starknetKeccak(sierra))
}

// deployAddressFor derives a contract address from the UDC-style inputs
// spec.md §4.4 names: deployer, salt, class hash, and calldata, chained
// through starknetKeccak in place of Pedersen chaining.
func deployAddressFor(deployer felt.ContractAddress, salt felt.Felt, classHash felt.ClassHash, calldata []felt.Felt) felt.ContractAddress {
	deployerBytes := deployer.Bytes()
	saltBytes := salt.Bytes()
	classHashBytes := classHash.Bytes()
	acc := starknetKeccak(deployerBytes[:], saltBytes[:])
	accBytes := acc.Bytes()
	acc = starknetKeccak(accBytes[:], classHashBytes[:])
	for _, c := range calldata {
		accBytes = acc.Bytes()
		cBytes := c.Bytes()
		acc = starknetKeccak(accBytes[:], cBytes[:])
	}
	return felt.ContractAddress(acc)
}
