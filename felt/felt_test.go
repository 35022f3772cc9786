package felt

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytesRoundTrip(t *testing.T) {
	in := []byte{0xde, 0xad, 0xbe, 0xef}
	f, err := FromBytes(in)
	require.NoError(t, err)

	var want [32]byte
	copy(want[32-len(in):], in)
	require.Equal(t, want, f.Bytes())
}

func TestFromBytesTooLong(t *testing.T) {
	_, err := FromBytes(make([]byte, 33))
	require.Error(t, err)
}

func TestFromBigIntReducesModPrime(t *testing.T) {
	over := new(big.Int).Add(Prime.ToBig(), big.NewInt(5))
	f := FromBigInt(over)
	require.Equal(t, FromUint64(5), f)
}

func TestAddWrapsModPrime(t *testing.T) {
	almostPrime := FromBigInt(new(big.Int).Sub(Prime.ToBig(), big.NewInt(1)))
	sum := almostPrime.Add(FromUint64(2))
	require.Equal(t, FromUint64(1), sum)
}

func TestZeroIsZero(t *testing.T) {
	require.True(t, Zero.IsZero())
	require.False(t, One.IsZero())
}

func TestContractAddressDelegatesToFelt(t *testing.T) {
	addr := ContractAddress(FromUint64(0xABCD))
	require.Equal(t, "0xabcd", addr.String())
	require.False(t, addr.IsZero())
}
