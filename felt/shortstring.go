package felt

import "fmt"

// MaxShortStringBytes is the maximum number of ASCII bytes a short string can
// hold once packed into a single Felt (31 bytes is 248 bits, which always
// fits below the ~2^251 field prime).
const MaxShortStringBytes = 31

// ShortStringToFelt packs an ASCII string of at most 31 bytes into a Felt by
// treating its bytes as a big-endian integer. It is the reusable
// bidirectional converter called for in the design notes: every cheatcode
// that accepts or returns a "short string" selector or literal goes through
// this pair of functions.
func ShortStringToFelt(s string) (Felt, error) {
	if len(s) > MaxShortStringBytes {
		return Felt{}, fmt.Errorf("short string %q exceeds %d bytes", s, MaxShortStringBytes)
	}
	return MustFromBytes([]byte(s)), nil
}

// MustShortStringToFelt is ShortStringToFelt but panics on error. Intended
// for package-level selector constants, not for decoding hint input.
func MustShortStringToFelt(s string) Felt {
	f, err := ShortStringToFelt(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FeltToShortString unpacks a Felt back into an ASCII string, stripping
// leading zero bytes. It does not validate that the remaining bytes are
// printable ASCII; callers that need a best-effort decode for diagnostics
// should use FeltToShortStringLossy.
func FeltToShortString(f Felt) string {
	b := f.Bytes()
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return string(b[i:])
}

// FeltToShortStringLossy decodes f as a short string for diagnostic display,
// substituting '.' for any non-printable byte rather than failing. Used when
// best-effort decoding panic data into a readable message (§7: "interpreting
// short strings where the first bytes look ASCII-printable").
func FeltToShortStringLossy(f Felt) string {
	b := f.Bytes()
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	out := make([]byte, len(b)-i)
	for j, c := range b[i:] {
		if c >= 0x20 && c < 0x7f {
			out[j] = c
		} else {
			out[j] = '.'
		}
	}
	return string(out)
}

// LooksPrintable reports whether a Felt's non-zero-prefix bytes all fall in
// the printable-ASCII range, a heuristic used when best-effort decoding panic
// data for test failure reports.
func LooksPrintable(f Felt) bool {
	b := f.Bytes()
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	if i == len(b) {
		return false
	}
	for _, c := range b[i:] {
		if c < 0x20 || c >= 0x7f {
			return false
		}
	}
	return true
}
