// Package forgeruntime implements the Forge Runtime Extension (C5): the
// outermost layer of the Runtime Extension Stack, which decodes cheatcode
// hints and mutates the Cheat State / Starknet State Adapter accordingly.
// It never overrides syscalls itself — that is the Cheatable Syscall
// Handler's job, one layer further in.
package forgeruntime

import (
	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/config"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/logging"
	"github.com/foundry-rs/snforge-runtime/runtime"
)

var logger = logging.NewSubLogger("module", "forgeruntime")

// ArtifactSource loads a compiled class by its user-visible contract name,
// standing in for Scarb-style artifact loading (spec.md §1 names artifact
// loading an explicit external collaborator, out of scope for this core).
type ArtifactSource interface {
	Load(name string) (cheatnet.CompiledClass, error)
}

// handlerFunc is the shape every cheatcode handler takes: the raw input
// felts (selector already stripped), and an output felt sequence or error.
type handlerFunc func(inputs []felt.Felt) ([]felt.Felt, error)

// ForgeRuntimeExtension implements runtime.ExtensionLogic for every
// cheatcode in spec.md §4.4's table (plus the SPEC_FULL.md supplements). It
// shares the one CheatState and StarknetStateAdapter the whole test uses,
// and recurses into the Call Executor through runCall for deploy's
// constructor invocation and l1_handler_execute.
type ForgeRuntimeExtension struct {
	state     *cheatnet.CheatState
	adapter   *cheatnet.StarknetStateAdapter
	runCall   func(cheatnet.CallEntryPoint) (*cheatnet.CallInfo, error)
	artifacts ArtifactSource
	cfg       config.CheatCodeConfig
	env       envReader
	fs        fileReader

	handlers map[string]handlerFunc
}

// New constructs a Forge Runtime Extension. runCall is almost always
// (*cheatnet.CallExecutor).ExecuteCall, bound after the executor itself is
// constructed via CallExecutor.SetForgeLogic (see that method's doc for why
// the two must be wired in two steps).
func New(
	state *cheatnet.CheatState,
	adapter *cheatnet.StarknetStateAdapter,
	runCall func(cheatnet.CallEntryPoint) (*cheatnet.CallInfo, error),
	artifacts ArtifactSource,
	cfg config.CheatCodeConfig,
) *ForgeRuntimeExtension {
	f := &ForgeRuntimeExtension{
		state:     state,
		adapter:   adapter,
		runCall:   runCall,
		artifacts: artifacts,
		cfg:       cfg,
		env:       osEnvReader{},
		fs:        osFileReader{},
	}
	f.handlers = f.buildDispatchTable()
	return f
}

// HandleCheatcode implements runtime.ExtensionLogic: look up the decoded
// selector in the dispatch table and run it, translating Go errors into an
// Errored verdict (spec.md §4.1 "Failure propagation").
func (f *ForgeRuntimeExtension) HandleCheatcode(req runtime.CheatcodeRequest) runtime.Verdict {
	handler, ok := f.handlers[req.Selector]
	if !ok {
		return runtime.Forwarded()
	}
	out, err := handler(req.Inputs)
	if err != nil {
		logger.Debug().Str("cheatcode", req.Selector).Err(err).Msg("cheatcode failed")
		return runtime.Errored(err)
	}
	return runtime.Handled(out)
}

// OverrideSyscall implements runtime.ExtensionLogic: the Forge layer never
// intercepts syscalls directly, only cheatcode hints (spec.md §4.1 "Layer
// responsibilities" reserves syscall interception for the Cheatable Syscall
// Handler).
func (f *ForgeRuntimeExtension) OverrideSyscall(ctx runtime.SyscallContext) runtime.Verdict {
	return runtime.Forwarded()
}

func (f *ForgeRuntimeExtension) buildDispatchTable() map[string]handlerFunc {
	table := map[string]handlerFunc{
		"start_roll":  f.startRoll,
		"stop_roll":   f.stopRoll,
		"start_warp":  f.startWarp,
		"stop_warp":   f.stopWarp,
		"start_elect": f.startElect,
		"stop_elect":  f.stopElect,
		"start_prank": f.startPrank,
		"stop_prank":  f.stopPrank,
		"start_spoof": f.startSpoof,
		"stop_spoof":  f.stopSpoof,

		"start_mock_call": f.startMockCall,
		"stop_mock_call":  f.stopMockCall,

		"declare":               f.declare,
		"deploy":                f.deploy,
		"deploy_at":             f.deployAt,
		"precalculate_address":  f.precalculateAddress,
		"get_class_hash":        f.getClassHash,
		"l1_handler_execute":    f.l1HandlerExecute,

		"read_txt":  f.readTxt,
		"read_json": f.readJSON,
		"var":       f.readVar,

		"spy_events":      f.spyEvents,
		"fetch_events":    f.fetchEvents,
		"event_name_hash": f.eventNameHash,

		"generate_ecdsa_keys": f.generateECDSAKeys,
		"get_public_key":      f.getPublicKey,
		"get_ecdsa_public_key": f.getPublicKey,
		"ecdsa_sign_message":  f.ecdsaSignMessage,
		"stark_sign_message":  f.starkSignMessage,
	}
	return table
}
