// Package config holds the flat, serializable configuration structs passed
// into the core at construction, mirroring the teacher corpus's
// config.ProjectConfig/TestChainConfig nesting: a plain struct built once
// (by the CLI or a test harness) and threaded down, never read from a
// global.
package config

import "github.com/foundry-rs/snforge-runtime/felt"

// CheatCodeConfig controls ambient behavior of the Forge Runtime Extension
// that isn't itself part of the Cheat State (spec.md §3 distinguishes
// per-test cheat overrides from chain-level configuration).
type CheatCodeConfig struct {
	// EnableFFI gates cheatcodes that would shell out to the host (none are
	// implemented in this core; reserved for parity with the teacher's
	// config surface and for a future `ffi` cheatcode).
	EnableFFI bool

	// InitialBalance seeds the deployer/account balance visible through
	// get_balance-style cheatcodes (not part of spec.md's table; carried
	// as ambient configuration for callers that build on this core).
	InitialBalance felt.Felt

	// ChainID is carried as chain-level configuration. Nothing in this core
	// reads it: the chain_id StockRuntime reports comes from the TxInfo
	// given to the CallExecutor, and start_spoof overrides that value.
	ChainID felt.Felt

	// DeployerAddress is the address `deploy`/`precalculate_address` use as
	// the UDC deployer parameter in address computation (spec.md §4.4
	// "deploy address computation"), and the caller address every deploy
	// cheatcode's constructor call sees.
	DeployerAddress felt.ContractAddress
}

// Default returns a CheatCodeConfig with FFI disabled and zero-valued
// chain parameters, suitable as a starting point for tests that only care
// about a handful of fields.
func Default() CheatCodeConfig {
	return CheatCodeConfig{}
}
