package cheatnet_test

import (
	"errors"
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/stretchr/testify/require"
)

func TestWrapVMErrorPreservesCause(t *testing.T) {
	cause := errors.New("memory fault")
	wrapped := cheatnet.WrapVMError(cause, "some_selector")

	require.Error(t, wrapped)
	require.Contains(t, wrapped.Error(), "memory fault")

	var vmErr *cheatnet.VMError
	require.ErrorAs(t, wrapped, &vmErr)
	require.ErrorIs(t, vmErr, cause)
}

func TestSyscallForbiddenErrorMessage(t *testing.T) {
	err := &cheatnet.SyscallForbiddenError{Syscall: "ReplaceClass"}
	require.Equal(t, "ReplaceClass can't be used in tests", err.Error())
}

func TestPreExecutionErrorKindString(t *testing.T) {
	err := &cheatnet.PreExecutionError{Kind: cheatnet.UndeclaredClass, Address: "0xdead"}
	require.Equal(t, "UndeclaredClass: 0xdead", err.Error())
}
