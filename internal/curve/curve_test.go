package curve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	s, err := NewScalar()
	require.NoError(t, err)
	require.False(t, s.IsZero())

	b := s.Bytes32()
	s2 := ScalarFromBytes(b[:])
	require.True(t, s.Equal(s2))
}

func TestScalarReduceIdempotent(t *testing.T) {
	x := new(big.Int).Add(Order(), big.NewInt(7))
	s1 := ScalarFromBigInt(x)
	s2 := ScalarFromBigInt(s1.BigInt())
	require.True(t, s1.Equal(s2))
}

func TestPointEncodeDecodeRoundTrip(t *testing.T) {
	s, err := NewScalar()
	require.NoError(t, err)
	p := MulG(s)

	for _, compressed := range []bool{true, false} {
		enc := p.Encode(compressed)
		dec, err := DecodePoint(enc)
		require.NoError(t, err)
		require.True(t, p.Equal(dec))
	}
}

func TestIdentityEncodeDecode(t *testing.T) {
	id := Identity()
	enc := id.Encode(true)
	dec, err := DecodePoint(enc)
	require.NoError(t, err)
	require.True(t, dec.IsIdentity())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodePoint([]byte{0x02, 0x01, 0x02, 0x03})
	require.Error(t, err)
}

func TestScalarAddMulZeroize(t *testing.T) {
	a, err := NewScalar()
	require.NoError(t, err)
	b, err := NewScalar()
	require.NoError(t, err)

	sum := a.Add(b)
	prod := a.Mul(b)
	require.False(t, sum.IsZero() && prod.IsZero())

	a.Zeroize()
	require.True(t, a.IsZero())
}

func TestScalarModPowMatchesBigIntExp(t *testing.T) {
	base := big.NewInt(5)
	got := ScalarModPow(base, 3)
	want := new(big.Int).Exp(base, big.NewInt(3), Order())
	require.Equal(t, 0, got.BigInt().Cmp(want))
}
