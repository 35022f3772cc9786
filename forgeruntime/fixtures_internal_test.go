package forgeruntime

import (
	"errors"
	"testing"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/config"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/stretchr/testify/require"
)

type fakeEnv map[string]string

func (e fakeEnv) LookupEnv(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

type fakeFS map[string][]byte

func (fs fakeFS) ReadFile(path string) ([]byte, error) {
	b, ok := fs[path]
	if !ok {
		return nil, errors.New("no such file: " + path)
	}
	return b, nil
}

type stubArtifacts struct{}

func (stubArtifacts) Load(name string) (cheatnet.CompiledClass, error) {
	return cheatnet.CompiledClass{}, errors.New("not used in this test")
}

func newFixtureExtension(env fakeEnv, fs fakeFS) *ForgeRuntimeExtension {
	state := cheatnet.NewCheatState()
	adapter := cheatnet.NewStarknetStateAdapter()
	f := &ForgeRuntimeExtension{
		state:     state,
		adapter:   adapter,
		runCall:   func(cheatnet.CallEntryPoint) (*cheatnet.CallInfo, error) { panic("not used") },
		artifacts: stubArtifacts{},
		cfg:       config.Default(),
		env:       env,
		fs:        fs,
	}
	f.handlers = f.buildDispatchTable()
	return f
}

func mustShortString(t *testing.T, s string) felt.Felt {
	t.Helper()
	v, err := felt.ShortStringToFelt(s)
	require.NoError(t, err)
	return v
}

func TestReadTxtParsesOneNumberPerLine(t *testing.T) {
	f := newFixtureExtension(nil, fakeFS{"values.txt": []byte("1\n0x2a\n\n3\n")})

	path := mustShortString(t, "values.txt")
	out, err := f.readTxt([]felt.Felt{felt.FromUint64(1), path})
	require.NoError(t, err)
	require.Equal(t, []felt.Felt{felt.FromUint64(1), felt.FromUint64(42), felt.FromUint64(3)}, out)
}

func TestReadTxtMissingFileErrors(t *testing.T) {
	f := newFixtureExtension(nil, fakeFS{})
	path := mustShortString(t, "missing.txt")
	_, err := f.readTxt([]felt.Felt{felt.FromUint64(1), path})
	require.Error(t, err)
}

func TestReadJSONFlattensNumericArray(t *testing.T) {
	f := newFixtureExtension(nil, fakeFS{"values.json": []byte(`[1, 2, 3]`)})
	path := mustShortString(t, "values.json")
	out, err := f.readJSON([]felt.Felt{felt.FromUint64(1), path})
	require.NoError(t, err)
	require.Equal(t, []felt.Felt{felt.FromUint64(1), felt.FromUint64(2), felt.FromUint64(3)}, out)
}

func TestReadVarParsesEnvironmentValue(t *testing.T) {
	f := newFixtureExtension(fakeEnv{"MY_VAR": "123"}, nil)
	name := mustShortString(t, "MY_VAR")
	out, err := f.readVar([]felt.Felt{name})
	require.NoError(t, err)
	require.Equal(t, []felt.Felt{felt.FromUint64(123)}, out)
}

func TestReadVarUnsetErrors(t *testing.T) {
	f := newFixtureExtension(fakeEnv{}, nil)
	name := mustShortString(t, "NOPE")
	_, err := f.readVar([]felt.Felt{name})
	require.Error(t, err)
}

func TestNumericStringToFeltHandlesHexAndDecimal(t *testing.T) {
	v, err := numericStringToFelt("0x2a")
	require.NoError(t, err)
	require.Equal(t, felt.FromUint64(42), v)

	v, err = numericStringToFelt("42")
	require.NoError(t, err)
	require.Equal(t, felt.FromUint64(42), v)
}
