package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/config"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/simvm"
	"github.com/shopspring/decimal"
)

// scenarioFile is the on-disk JSON shape a scenario file is decoded from:
// the ambient block/tx/config context, a set of simulated contracts
// keyed by name, and the ordered top-level calls to run against them.
type scenarioFile struct {
	Config    scenarioConfig             `json:"config"`
	Block     scenarioBlock              `json:"block"`
	Tx        scenarioTx                 `json:"tx"`
	Contracts map[string]scenarioContract `json:"contracts"`
	Calls     []scenarioCall             `json:"calls"`
}

type scenarioConfig struct {
	ChainID         string `json:"chain_id"`
	DeployerAddress string `json:"deployer_address"`
}

type scenarioBlock struct {
	BlockNumber      string `json:"block_number"`
	BlockTimestamp   string `json:"block_timestamp"`
	SequencerAddress string `json:"sequencer_address"`
}

type scenarioTx struct {
	Version                 string `json:"version"`
	AccountContractAddress string `json:"account_contract_address"`
}

// scenarioContract names one simulated class deployed at a fixed
// address: its entry points (selector name -> instruction program) plus
// an optional fallback run for any selector not explicitly listed.
type scenarioContract struct {
	Address     string                       `json:"address"`
	EntryPoints map[string][]scenarioInstruction `json:"entry_points"`
	Fallback    []scenarioInstruction        `json:"fallback,omitempty"`
}

type scenarioInstruction struct {
	Op    string   `json:"op"`
	Felts []string `json:"felts,omitempty"`
	Keys  []string `json:"keys,omitempty"`
	Data  []string `json:"data,omitempty"`
}

type scenarioCall struct {
	Contract string   `json:"contract"`
	Selector string   `json:"selector"`
	Calldata []string `json:"calldata"`
	Caller   string   `json:"caller"`
}

var opNames = map[string]simvm.Op{
	"return_calldata":      simvm.OpReturnCalldata,
	"return_literal":       simvm.OpReturnLiteral,
	"return_caller_address": simvm.OpReturnCallerAddress,
	"return_block_info":    simvm.OpReturnBlockInfo,
	"return_tx_info":       simvm.OpReturnTxInfo,
	"call_contract":        simvm.OpCallContract,
	"library_call":         simvm.OpLibraryCall,
	"emit_event":           simvm.OpEmitEvent,
	"panic":                simvm.OpPanic,
}

func convertInstruction(in scenarioInstruction) (simvm.Instruction, error) {
	op, ok := opNames[in.Op]
	if !ok {
		return simvm.Instruction{}, fmt.Errorf("unknown instruction op %q", in.Op)
	}
	felts, err := parseFeltSlice(in.Felts)
	if err != nil {
		return simvm.Instruction{}, fmt.Errorf("op %q felts: %w", in.Op, err)
	}
	keys, err := parseFeltSlice(in.Keys)
	if err != nil {
		return simvm.Instruction{}, fmt.Errorf("op %q keys: %w", in.Op, err)
	}
	data, err := parseFeltSlice(in.Data)
	if err != nil {
		return simvm.Instruction{}, fmt.Errorf("op %q data: %w", in.Op, err)
	}
	return simvm.Instruction{Op: op, Felts: felts, Keys: keys, Data: data}, nil
}

func convertProgram(in []scenarioInstruction) (simvm.Program, error) {
	program := make(simvm.Program, 0, len(in))
	for _, instr := range in {
		converted, err := convertInstruction(instr)
		if err != nil {
			return nil, err
		}
		program = append(program, converted)
	}
	return program, nil
}

func parseFeltSlice(in []string) ([]felt.Felt, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]felt.Felt, len(in))
	for i, s := range in {
		v, err := parseFelt(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFelt accepts a 0x-prefixed hex literal, a plain decimal literal
// (parsed with shopspring/decimal for arbitrary precision, matching
// forgeruntime/fixtures.go's fixture parsing), or a single-quoted ASCII
// short string packed via felt.ShortStringToFelt.
func parseFelt(s string) (felt.Felt, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") && len(s) >= 2:
		return felt.ShortStringToFelt(s[1 : len(s)-1])
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		h := s[2:]
		if len(h)%2 == 1 {
			h = "0" + h
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return felt.Felt{}, err
		}
		return felt.FromBytes(b)
	default:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return felt.Felt{}, fmt.Errorf("parse felt %q: %w", s, err)
		}
		return felt.FromBigInt(d.BigInt()), nil
	}
}

func parseAddress(s string) (felt.ContractAddress, error) {
	if s == "" {
		return felt.ContractAddress{}, nil
	}
	v, err := parseFelt(s)
	return felt.ContractAddress(v), err
}

func buildCheatCodeConfig(c scenarioConfig) (config.CheatCodeConfig, error) {
	cfg := config.Default()
	if c.ChainID != "" {
		v, err := parseFelt(c.ChainID)
		if err != nil {
			return cfg, err
		}
		cfg.ChainID = v
	}
	deployer, err := parseAddress(c.DeployerAddress)
	if err != nil {
		return cfg, err
	}
	cfg.DeployerAddress = deployer
	return cfg, nil
}

func buildBlockInfo(b scenarioBlock) (cheatnet.BlockInfo, error) {
	var info cheatnet.BlockInfo
	var err error
	if b.BlockNumber != "" {
		if info.BlockNumber, err = parseFelt(b.BlockNumber); err != nil {
			return info, err
		}
	}
	if b.BlockTimestamp != "" {
		if info.BlockTimestamp, err = parseFelt(b.BlockTimestamp); err != nil {
			return info, err
		}
	}
	if info.SequencerAddress, err = parseAddress(b.SequencerAddress); err != nil {
		return info, err
	}
	return info, nil
}

func buildTxInfo(t scenarioTx) (cheatnet.TxInfo, error) {
	var info cheatnet.TxInfo
	var err error
	if t.Version != "" {
		if info.Version, err = parseFelt(t.Version); err != nil {
			return info, err
		}
	}
	if info.AccountContractAddress, err = parseAddress(t.AccountContractAddress); err != nil {
		return info, err
	}
	return info, nil
}
