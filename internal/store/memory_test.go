package store

import (
	"context"
	"testing"

	"github.com/mukulkatewa/tss-signer/internal/curve"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
	"github.com/stretchr/testify/require"
)

func TestMemStorePutGetShare(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	share, err := curve.NewScalar()
	require.NoError(t, err)

	require.NoError(t, s.PutShare(ctx, "w1", 1, share))

	got, err := s.GetShare(ctx, "w1", 1)
	require.NoError(t, err)
	require.True(t, share.Equal(got))
}

func TestMemStorePutShareConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	share, err := curve.NewScalar()
	require.NoError(t, err)
	require.NoError(t, s.PutShare(ctx, "w1", 1, share))

	other, err := curve.NewScalar()
	require.NoError(t, err)
	err = s.PutShare(ctx, "w1", 1, other)
	require.True(t, tsserr.Is(err, tsserr.KindConflict))
}

func TestMemStoreGetShareNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	_, err := s.GetShare(ctx, "missing", 1)
	require.True(t, tsserr.Is(err, tsserr.KindNotFound))
}

func TestMemStoreEd25519SecretRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	secret := make([]byte, 64)
	for i := range secret {
		secret[i] = byte(i)
	}

	require.NoError(t, s.PutEd25519Secret(ctx, "w1", secret))
	got, err := s.GetEd25519Secret(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, secret, got)

	err = s.PutEd25519Secret(ctx, "w1", secret)
	require.True(t, tsserr.Is(err, tsserr.KindConflict))
}
