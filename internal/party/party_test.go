package party

import (
	"testing"

	"github.com/mukulkatewa/tss-signer/internal/curve"
	"github.com/stretchr/testify/require"
)

func newTestParty(t *testing.T, id int) *Party {
	t.Helper()
	share, err := curve.NewScalar()
	require.NoError(t, err)
	p, err := New(id, share)
	require.NoError(t, err)
	return p
}

func TestRound1CommitThenVerify(t *testing.T) {
	p := newTestParty(t, 1)
	_, ephemeral, err := p.Round1Commit([]byte("order-1"))
	require.NoError(t, err)
	require.True(t, p.VerifyCommitment(ephemeral.Encode(true)))
	require.True(t, p.HasEphemeralState())
}

func TestRound3RequiresRound1First(t *testing.T) {
	p := newTestParty(t, 1)
	_, _, err := p.Round3PartialSign([]byte("msg"), curve.MulG(mustScalar(t)))
	require.Error(t, err)
}

func TestWipeClearsEphemeralState(t *testing.T) {
	p := newTestParty(t, 1)
	_, ephemeral, err := p.Round1Commit([]byte("order-1"))
	require.NoError(t, err)

	_, _, err = p.Round3PartialSign([]byte("order-1"), ephemeral)
	require.NoError(t, err)

	p.Wipe()
	require.False(t, p.HasEphemeralState())
}

func TestNewRejectsZeroPartyID(t *testing.T) {
	share, err := curve.NewScalar()
	require.NoError(t, err)
	_, err = New(0, share)
	require.Error(t, err)
}

func mustScalar(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.NewScalar()
	require.NoError(t, err)
	return s
}
