// Package store defines the Share Store adapter: an opaque, persistent
// key-value map from (wallet_id, party_id) to a secret scalar, plus a
// parallel namespace for single-key Ed25519 secrets. Encryption at rest and
// authentication are delegated to the backing store (spec.md §1); this
// package only defines the narrow interface the core depends on and two
// implementations of it.
package store

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/mukulkatewa/tss-signer/internal/curve"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
)

// Store is the interface TC, ED, and the Share Store adapter itself consume.
// Put is create-if-absent: a second Put for the same key must return a
// Conflict error so that DKG retries cannot silently rewrite a share
// (spec.md §4.3).
type Store interface {
	// PutShare stores the threshold-mode scalar share for (walletID, partyID).
	PutShare(ctx context.Context, walletID string, partyID int, share curve.Scalar) error
	// GetShare retrieves the threshold-mode scalar share for (walletID, partyID).
	GetShare(ctx context.Context, walletID string, partyID int) (curve.Scalar, error)

	// PutEd25519Secret stores the 64-byte single-mode Ed25519 secret.
	PutEd25519Secret(ctx context.Context, walletID string, secret []byte) error
	// GetEd25519Secret retrieves the single-mode Ed25519 secret.
	GetEd25519Secret(ctx context.Context, walletID string) ([]byte, error)
}

// shareKey formats the threshold share key exactly as spec.md §6 requires:
// "hyperliquid/tss-shares/{walletId}/share-{partyId}".
func shareKey(walletID string, partyID int) string {
	return fmt.Sprintf("hyperliquid/tss-shares/%s/share-%d", walletID, partyID)
}

// ed25519Key formats the single-mode secret key: "hyperliquid/mpc-wallets/{walletId}".
func ed25519Key(walletID string) string {
	return fmt.Sprintf("hyperliquid/mpc-wallets/%s", walletID)
}

// encodeShare serializes a scalar as 64 lowercase hex characters (32 bytes
// big-endian), the wire form spec.md §6 mandates.
func encodeShare(s curve.Scalar) string {
	b := s.Bytes32()
	return hex.EncodeToString(b[:])
}

func decodeShare(op, hexStr string) (curve.Scalar, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil || len(b) != 32 {
		return curve.Scalar{}, tsserr.Internal(op, fmt.Errorf("corrupt share encoding"))
	}
	return curve.ScalarFromBytes(b), nil
}

// encodeEd25519Secret serializes the 64-byte Ed25519 secret as base64, the
// wire form spec.md §6 mandates for the single-mode secret value.
func encodeEd25519Secret(secret []byte) string {
	return base64.StdEncoding.EncodeToString(secret)
}

func decodeEd25519Secret(op, b64 string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(b64)
	if err != nil || len(b) != 64 {
		return nil, tsserr.Internal(op, fmt.Errorf("corrupt ed25519 secret encoding"))
	}
	return b, nil
}
