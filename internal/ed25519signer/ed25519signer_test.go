package ed25519signer

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/mukulkatewa/tss-signer/internal/store"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
	"github.com/stretchr/testify/require"
)

func TestGenerateSignVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemStore())

	pub, err := s.Generate(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, pub, ed25519.PublicKeySize)

	sig, err := s.Sign(ctx, "w1", []byte("order-1"))
	require.NoError(t, err)
	require.True(t, ed25519.Verify(pub, []byte("order-1"), sig))

	gotPub, err := s.PublicKey(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, pub, gotPub)
}

func TestGenerateConflictsOnExistingWallet(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemStore())

	_, err := s.Generate(ctx, "w2")
	require.NoError(t, err)

	_, err = s.Generate(ctx, "w2")
	require.True(t, tsserr.Is(err, tsserr.KindConflict))
}

func TestSignUnknownWalletNotFound(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemStore())

	_, err := s.Sign(ctx, "missing", []byte("order"))
	require.True(t, tsserr.Is(err, tsserr.KindNotFound))
}

func TestSignPayloadCanonicalizesJSON(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewMemStore())
	pub, err := s.Generate(ctx, "w3")
	require.NoError(t, err)

	payload := map[string]interface{}{"b": 2, "a": 1}
	sig, err := s.SignPayload(ctx, "w3", payload)
	require.NoError(t, err)

	canonical, err := canonicalJSON(payload)
	require.NoError(t, err)
	require.True(t, ed25519.Verify(pub, canonical, sig))
}
