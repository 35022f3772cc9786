package runtime_test

import (
	"errors"
	"testing"

	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/foundry-rs/snforge-runtime/runtime"
	"github.com/stretchr/testify/require"
)

// stockRuntime is the terminal Runtime in tests: it knows no cheatcodes and
// executes syscalls by recording that it was reached.
type stockRuntime struct {
	syscallsSeen []runtime.SyscallSelector
}

func (s *stockRuntime) HandleCheatcode(req runtime.CheatcodeRequest) ([]felt.Felt, error) {
	return nil, errors.New("stock: unknown cheatcode " + req.Selector)
}

func (s *stockRuntime) HandleSyscall(ctx runtime.SyscallContext) error {
	s.syscallsSeen = append(s.syscallsSeen, ctx.Selector)
	return nil
}

// echoLogic handles a single selector by echoing its inputs back, and
// forwards everything else.
type echoLogic struct {
	selector string
}

func (l *echoLogic) HandleCheatcode(req runtime.CheatcodeRequest) runtime.Verdict {
	if req.Selector != l.selector {
		return runtime.Forwarded()
	}
	return runtime.Handled(req.Inputs)
}

func (l *echoLogic) OverrideSyscall(ctx runtime.SyscallContext) runtime.Verdict {
	return runtime.Forwarded()
}

// failLogic errors on a specific selector, forwards everything else.
type failLogic struct {
	selector string
	err      error
}

func (l *failLogic) HandleCheatcode(req runtime.CheatcodeRequest) runtime.Verdict {
	if req.Selector != l.selector {
		return runtime.Forwarded()
	}
	return runtime.Errored(l.err)
}

func (l *failLogic) OverrideSyscall(ctx runtime.SyscallContext) runtime.Verdict {
	if ctx.Selector == runtime.SyscallReplaceClass {
		return runtime.Errored(l.err)
	}
	return runtime.Forwarded()
}

func TestHandledLayerShortCircuits(t *testing.T) {
	stock := &stockRuntime{}
	stack := runtime.New(&echoLogic{selector: "warp"}, stock)

	result, err := stack.HandleCheatcode(runtime.CheatcodeRequest{
		Selector: "warp",
		Inputs:   []felt.Felt{felt.FromUint64(999)},
	})
	require.NoError(t, err)
	require.Equal(t, []felt.Felt{felt.FromUint64(999)}, result)
}

func TestForwardedLayerReachesStock(t *testing.T) {
	stock := &stockRuntime{}
	stack := runtime.New(&echoLogic{selector: "warp"}, stock)

	_, err := stack.HandleCheatcode(runtime.CheatcodeRequest{Selector: "roll"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown cheatcode roll")
}

func TestErroredLayerAbortsWithoutReachingStock(t *testing.T) {
	stock := &stockRuntime{}
	boom := errors.New("boom")
	stack := runtime.New(&failLogic{selector: "declare", err: boom}, stock)

	_, err := stack.HandleCheatcode(runtime.CheatcodeRequest{Selector: "declare"})
	require.ErrorIs(t, err, boom)
}

func TestLayeredStackOutermostWins(t *testing.T) {
	stock := &stockRuntime{}
	inner := runtime.New(&echoLogic{selector: "roll"}, stock)
	outer := runtime.New(&echoLogic{selector: "warp"}, inner)

	// "warp" is handled by the outer layer.
	res, err := outer.HandleCheatcode(runtime.CheatcodeRequest{Selector: "warp", Inputs: []felt.Felt{felt.One}})
	require.NoError(t, err)
	require.Equal(t, []felt.Felt{felt.One}, res)

	// "roll" is forwarded by the outer layer and handled by the inner one.
	res, err = outer.HandleCheatcode(runtime.CheatcodeRequest{Selector: "roll", Inputs: []felt.Felt{felt.FromUint64(7)}})
	require.NoError(t, err)
	require.Equal(t, []felt.Felt{felt.FromUint64(7)}, res)

	// Anything else reaches the stock terminal and errors.
	_, err = outer.HandleCheatcode(runtime.CheatcodeRequest{Selector: "prank"})
	require.Error(t, err)
}

func TestSyscallForwardingReachesStock(t *testing.T) {
	stock := &stockRuntime{}
	stack := runtime.New(&echoLogic{selector: "warp"}, stock)

	err := stack.HandleSyscall(runtime.SyscallContext{Selector: runtime.SyscallGetExecutionInfo})
	require.NoError(t, err)
	require.Equal(t, []runtime.SyscallSelector{runtime.SyscallGetExecutionInfo}, stock.syscallsSeen)
}

func TestSyscallErrorAbortsBeforeStock(t *testing.T) {
	stock := &stockRuntime{}
	boom := errors.New("replace class can't be used in tests")
	stack := runtime.New(&failLogic{selector: "n/a", err: boom}, stock)

	err := stack.HandleSyscall(runtime.SyscallContext{Selector: runtime.SyscallReplaceClass})
	require.ErrorIs(t, err, boom)
	require.Empty(t, stock.syscallsSeen)
}
