package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/forgeruntime"
	"github.com/foundry-rs/snforge-runtime/logging"
	"github.com/foundry-rs/snforge-runtime/simvm"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var scenarioPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a JSON scenario file against the extended runtime core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, scenarioPath)
		},
	}
	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "path to a scenario JSON file")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

// scenarioArtifacts adapts a scenarioFile's named contracts into the
// forgeruntime.ArtifactSource the `declare` cheatcode calls, compiling
// each contract's instruction programs into a simvm CompiledClass on
// first use.
type scenarioArtifacts struct {
	contracts map[string]scenarioContract
	compiled  map[string]cheatnet.CompiledClass
}

func newScenarioArtifacts(contracts map[string]scenarioContract) *scenarioArtifacts {
	return &scenarioArtifacts{contracts: contracts, compiled: make(map[string]cheatnet.CompiledClass)}
}

func (a *scenarioArtifacts) Load(name string) (cheatnet.CompiledClass, error) {
	if c, ok := a.compiled[name]; ok {
		return c, nil
	}
	contract, ok := a.contracts[name]
	if !ok {
		return cheatnet.CompiledClass{}, fmt.Errorf("no contract named %q in scenario", name)
	}
	compiled, err := compileContract(contract)
	if err != nil {
		return cheatnet.CompiledClass{}, err
	}
	a.compiled[name] = compiled
	return compiled, nil
}

func compileContract(c scenarioContract) (cheatnet.CompiledClass, error) {
	entryPoints := make(map[string]simvm.Program, len(c.EntryPoints))
	for selector, instructions := range c.EntryPoints {
		program, err := convertProgram(instructions)
		if err != nil {
			return cheatnet.CompiledClass{}, fmt.Errorf("entry point %q: %w", selector, err)
		}
		resolved, err := resolveSelectorKey(selector)
		if err != nil {
			return cheatnet.CompiledClass{}, err
		}
		entryPoints[resolved] = program
	}
	fallback, err := convertProgram(c.Fallback)
	if err != nil {
		return cheatnet.CompiledClass{}, fmt.Errorf("fallback: %w", err)
	}
	raw, err := simvm.EncodeProgramSet(simvm.ProgramSet{EntryPoints: entryPoints, Fallback: fallback})
	if err != nil {
		return cheatnet.CompiledClass{}, err
	}
	return cheatnet.CompiledClass{Sierra: raw, Casm: raw, Kind: cheatnet.ClassCairo1}, nil
}

// resolveSelectorKey accepts either a raw felt literal or a bare
// function name, hashing the latter with Starknet-Keccak the same way a
// real entry point selector is derived, so scenario authors can write
// "transfer" instead of its hex selector.
func resolveSelectorKey(s string) (string, error) {
	if len(s) > 0 && (s[0] == '0' || (s[0] >= '0' && s[0] <= '9')) {
		v, err := parseFelt(s)
		if err != nil {
			return "", err
		}
		return felt.Selector(v).String(), nil
	}
	h := crypto.Keccak256([]byte(s))
	h[0] &= 0x03 // Starknet-Keccak keeps only the low 250 bits
	v, err := felt.FromBytes(h)
	if err != nil {
		return "", err
	}
	return felt.Selector(v).String(), nil
}

func classHashForContract(name string) felt.ClassHash {
	h := crypto.Keccak256([]byte("class:" + name))
	v := felt.MustFromBytes(h)
	return felt.ClassHash(v)
}

func runScenario(cmd *cobra.Command, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	var scenario scenarioFile
	if err := json.Unmarshal(raw, &scenario); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}

	cfg, err := buildCheatCodeConfig(scenario.Config)
	if err != nil {
		return err
	}
	block, err := buildBlockInfo(scenario.Block)
	if err != nil {
		return err
	}
	tx, err := buildTxInfo(scenario.Tx)
	if err != nil {
		return err
	}

	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	trace := cheatnet.NewTraceRecorder()

	artifacts := newScenarioArtifacts(scenario.Contracts)
	addressByName := make(map[string]felt.ContractAddress, len(scenario.Contracts))
	for name, contract := range scenario.Contracts {
		compiled, err := artifacts.Load(name)
		if err != nil {
			return err
		}
		classHash := classHashForContract(name)
		if err := adapter.DeclareClass(classHash, compiled); err != nil {
			return fmt.Errorf("declare %q: %w", name, err)
		}
		address, err := parseAddress(contract.Address)
		if err != nil {
			return fmt.Errorf("contract %q address: %w", name, err)
		}
		if err := adapter.SetClassHashAt(address, classHash); err != nil {
			return fmt.Errorf("deploy %q: %w", name, err)
		}
		addressByName[name] = address
	}

	executor := cheatnet.NewCallExecutor(state, adapter, trace, simvm.VM{}, block, tx, nil)
	forge := forgeruntime.New(state, adapter, executor.ExecuteCall, artifacts, cfg)
	executor.SetForgeLogic(forge)

	out := cmd.OutOrStdout()
	for i, call := range scenario.Calls {
		address, ok := addressByName[call.Contract]
		if !ok {
			address, err = parseAddress(call.Contract)
			if err != nil {
				return fmt.Errorf("call %d: unknown contract %q", i, call.Contract)
			}
		}
		selectorKey, err := resolveSelectorKey(call.Selector)
		if err != nil {
			return fmt.Errorf("call %d selector: %w", i, err)
		}
		selectorFelt, err := parseFeltFromSelectorKey(selectorKey)
		if err != nil {
			return fmt.Errorf("call %d selector: %w", i, err)
		}
		calldata, err := parseFeltSlice(call.Calldata)
		if err != nil {
			return fmt.Errorf("call %d calldata: %w", i, err)
		}
		caller, err := parseAddress(call.Caller)
		if err != nil {
			return fmt.Errorf("call %d caller: %w", i, err)
		}

		info, err := executor.ExecuteCall(cheatnet.CallEntryPoint{
			StorageAddress:     address,
			CallerAddress:      caller,
			EntryPointSelector: felt.Selector(selectorFelt),
			Calldata:           calldata,
		})
		if err != nil {
			fmt.Fprintf(out, "call %d (%s): error: %v\n", i, call.Contract, err)
			continue
		}
		logging.NewSubLogger("cmd", "run").Info().
			Int("call", i).
			Str("contract", call.Contract).
			Bool("failed", info.Execution.Failed).
			Msg("call finished")
		fmt.Fprintf(out, "call %d (%s): failed=%v retdata=%v inner_calls=%d\n",
			i, call.Contract, info.Execution.Failed, info.Execution.RetData, len(info.InnerCalls))
	}
	return nil
}

func parseFeltFromSelectorKey(hexString string) (felt.Felt, error) {
	return parseFelt(hexString)
}
