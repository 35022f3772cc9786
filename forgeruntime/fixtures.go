package forgeruntime

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/foundry-rs/snforge-runtime/cheatnet"
	"github.com/foundry-rs/snforge-runtime/felt"
	"github.com/shopspring/decimal"
)

// envReader abstracts environment-variable lookup so `var` is testable
// without touching the real process environment.
type envReader interface {
	LookupEnv(key string) (string, bool)
}

// fileReader abstracts filesystem reads so `read_txt`/`read_json` are
// testable without touching the real filesystem.
type fileReader interface {
	ReadFile(path string) ([]byte, error)
}

type osEnvReader struct{}

func (osEnvReader) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// numericStringToFelt parses a decimal (or 0x-prefixed hex) numeric
// literal into a Felt using arbitrary-precision decimal parsing, avoiding
// the float-rounding a naive float64 conversion would introduce for
// large felt-valued fixture fields (SPEC_FULL.md DOMAIN STACK:
// shopspring/decimal).
func numericStringToFelt(s string) (felt.Felt, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		h := s[2:]
		if len(h)%2 == 1 {
			h = "0" + h
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return felt.Felt{}, err
		}
		return felt.FromBytes(b)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return felt.Felt{}, err
	}
	return felt.FromBigInt(d.BigInt()), nil
}

// readTxt decodes a path, reads the file, and parses each non-empty line
// as a numeric literal into a Felt, per spec.md §4.4's `read_txt` row.
func (f *ForgeRuntimeExtension) readTxt(inputs []felt.Felt) ([]felt.Felt, error) {
	path, _, err := decodeLongString(inputs)
	if err != nil {
		return nil, err
	}
	raw, err := f.fs.ReadFile(path)
	if err != nil {
		return nil, cheatnet.NewCheatError("read_txt", err.Error())
	}
	var out []felt.Felt
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := numericStringToFelt(line)
		if err != nil {
			return nil, cheatnet.NewCheatError("read_txt", "parse line: "+err.Error())
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, cheatnet.NewCheatError("read_txt", err.Error())
	}
	return out, nil
}

// readJSON decodes a path, reads the file, and converts a top-level JSON
// array of number literals (or strings holding a decimal number) into a
// Felt sequence, per spec.md §4.4's `read_json` row. Nested arrays,
// objects and non-numeric strings are rejected.
func (f *ForgeRuntimeExtension) readJSON(inputs []felt.Felt) ([]felt.Felt, error) {
	path, _, err := decodeLongString(inputs)
	if err != nil {
		return nil, err
	}
	raw, err := f.fs.ReadFile(path)
	if err != nil {
		return nil, cheatnet.NewCheatError("read_json", err.Error())
	}
	var values []json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, cheatnet.NewCheatError("read_json", "decode: "+err.Error())
	}
	out := make([]felt.Felt, 0, len(values))
	for _, n := range values {
		v, err := numericStringToFelt(n.String())
		if err != nil {
			return nil, cheatnet.NewCheatError("read_json", "parse element: "+err.Error())
		}
		out = append(out, v)
	}
	return out, nil
}

// readVar decodes a short-string environment variable name, looks it up,
// and parses the value into a single Felt, per spec.md §4.4's `var` row.
func (f *ForgeRuntimeExtension) readVar(inputs []felt.Felt) ([]felt.Felt, error) {
	if len(inputs) < 1 {
		return nil, newMissingArgError("name")
	}
	name := felt.FeltToShortString(inputs[0])
	value, ok := f.env.LookupEnv(name)
	if !ok {
		return nil, cheatnet.NewCheatError("var", "environment variable not set: "+name)
	}
	v, err := numericStringToFelt(value)
	if err != nil {
		return nil, cheatnet.NewCheatError("var", "parse value: "+err.Error())
	}
	return []felt.Felt{v}, nil
}
