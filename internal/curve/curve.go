// Package curve implements the Field/Curve Primitives component: scalar
// arithmetic mod the secp256k1 group order and point operations on the
// secp256k1 curve.
//
// The teacher library (smallyu/go-cggmp-tss) exposes scalars and points as
// bare *big.Int / duck-typed interfaces (internal/crypto/curves). Per the
// REDESIGN FLAGS in spec.md §9 ("replace with two distinct nominal types"),
// Scalar and Point are concrete types here, not interfaces, so a caller can
// never accidentally pass a raw big.Int where a reduced scalar is expected.
package curve

import (
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var curveImpl = secp256k1.S256()

// Order returns the secp256k1 group order n.
func Order() *big.Int {
	return new(big.Int).Set(curveImpl.Params().N)
}

// Scalar is an integer mod n. The zero value is not a valid secret or nonce;
// use NewScalar or ScalarFromBigInt to construct one.
type Scalar struct {
	v *big.Int
}

// NewScalar draws a uniform scalar in [1, n). It never returns the zero
// scalar: spec.md §3 treats zero as invalid for secrets and nonces.
func NewScalar() (Scalar, error) {
	n := curveImpl.Params().N
	for {
		k, err := rand.Int(rand.Reader, n)
		if err != nil {
			return Scalar{}, fmt.Errorf("curve: random scalar: %w", err)
		}
		if k.Sign() != 0 {
			return Scalar{v: k}, nil
		}
	}
}

// ScalarFromBigInt reduces x into [0, n) and wraps it.
func ScalarFromBigInt(x *big.Int) Scalar {
	return Scalar{v: new(big.Int).Mod(x, curveImpl.Params().N)}
}

// ScalarFromBytes parses a big-endian byte slice and reduces it mod n.
func ScalarFromBytes(b []byte) Scalar {
	return ScalarFromBigInt(new(big.Int).SetBytes(b))
}

// ScalarModPow computes base^exp mod n. Used by the polynomial engine's
// share-verification equation, where exp is a small party id power (0..t-1).
func ScalarModPow(base *big.Int, exp int) Scalar {
	e := big.NewInt(int64(exp))
	r := new(big.Int).Exp(base, e, curveImpl.Params().N)
	return Scalar{v: r}
}

// IsZero reports whether the scalar is the additive identity.
func (s Scalar) IsZero() bool {
	return s.v == nil || s.v.Sign() == 0
}

// BigInt returns the underlying value. Callers must not mutate it.
func (s Scalar) BigInt() *big.Int {
	if s.v == nil {
		return big.NewInt(0)
	}
	return s.v
}

// Bytes32 serializes the scalar as 32-byte big-endian, left-padded with
// zeros. This is the wire/storage form specified in spec.md §6.
func (s Scalar) Bytes32() [32]byte {
	var out [32]byte
	if s.v == nil {
		return out
	}
	b := s.v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// Add returns (s + o) mod n.
func (s Scalar) Add(o Scalar) Scalar {
	r := new(big.Int).Add(s.BigInt(), o.BigInt())
	r.Mod(r, curveImpl.Params().N)
	return Scalar{v: r}
}

// Mul returns (s * o) mod n.
func (s Scalar) Mul(o Scalar) Scalar {
	r := new(big.Int).Mul(s.BigInt(), o.BigInt())
	r.Mod(r, curveImpl.Params().N)
	return Scalar{v: r}
}

// Equal reports whether two scalars are congruent mod n.
func (s Scalar) Equal(o Scalar) bool {
	return s.BigInt().Cmp(o.BigInt()) == 0
}

// Zeroize overwrites the scalar's backing storage. Every Scalar carrying a
// secret (shares, ephemeral nonces) must be zeroized on every exit path,
// including error paths, per spec.md §9.
func (s *Scalar) Zeroize() {
	if s.v == nil {
		return
	}
	s.v.SetInt64(0)
	s.v = nil
}

// Point is a secp256k1 curve point, including the identity (point at
// infinity), represented by a nil pair of coordinates.
type Point struct {
	x, y *big.Int
}

// Identity returns the point at infinity, 𝒪.
func Identity() Point {
	return Point{}
}

// IsIdentity reports whether p is the point at infinity.
func (p Point) IsIdentity() bool {
	return p.x == nil || p.y == nil || (p.x.Sign() == 0 && p.y.Sign() == 0)
}

// MulG computes s*G, the base-point multiplication.
func MulG(s Scalar) Point {
	if s.IsZero() {
		return Identity()
	}
	x, y := curveImpl.ScalarBaseMult(s.BigInt().Bytes())
	return Point{x: x, y: y}
}

// Mul computes s*P.
func (p Point) Mul(s Scalar) Point {
	if p.IsIdentity() || s.IsZero() {
		return Identity()
	}
	x, y := curveImpl.ScalarMult(p.x, p.y, s.BigInt().Bytes())
	return Point{x: x, y: y}
}

// Add computes p+q.
func (p Point) Add(q Point) Point {
	if p.IsIdentity() {
		return q
	}
	if q.IsIdentity() {
		return p
	}
	x, y := curveImpl.Add(p.x, p.y, q.x, q.y)
	return Point{x: x, y: y}
}

// Equal reports whether two points have the same affine coordinates.
func (p Point) Equal(q Point) bool {
	if p.IsIdentity() || q.IsIdentity() {
		return p.IsIdentity() == q.IsIdentity()
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// XScalar reduces the point's x-coordinate into the scalar domain. Used by
// the signing protocol to turn the aggregated nonce point R into rX.
func (p Point) XScalar() Scalar {
	if p.IsIdentity() {
		return Scalar{v: big.NewInt(0)}
	}
	return ScalarFromBigInt(p.x)
}

// Encode serializes the point. Compressed form is 33 bytes (sign-prefixed
// x-coordinate); uncompressed is 65 bytes. The identity encodes to a single
// zero byte, mirroring the SEC1 convention for the point at infinity.
func (p Point) Encode(compressed bool) []byte {
	if p.IsIdentity() {
		return []byte{0x00}
	}
	if compressed {
		return elliptic.MarshalCompressed(curveImpl, p.x, p.y)
	}
	return elliptic.Marshal(curveImpl, p.x, p.y)
}

// DecodePoint parses a compressed or uncompressed point. It rejects bytes
// that don't correspond to an on-curve point, per spec.md §4.1 ("decoding
// rejects non-curve points and the point at infinity when a compressed
// non-identity is expected").
func DecodePoint(b []byte) (Point, error) {
	if len(b) == 1 && b[0] == 0x00 {
		return Identity(), nil
	}
	var x, y *big.Int
	switch len(b) {
	case 33:
		x, y = elliptic.UnmarshalCompressed(curveImpl, b)
	case 65:
		x, y = elliptic.Unmarshal(curveImpl, b)
	default:
		return Point{}, fmt.Errorf("curve: invalid point encoding length %d", len(b))
	}
	if x == nil || y == nil {
		return Point{}, fmt.Errorf("curve: point not on secp256k1")
	}
	return Point{x: x, y: y}, nil
}

// SHA256 hashes b, used throughout the protocol for commitments, the
// deterministic nonce derivation, and the ECDSA challenge e = H(message).
func SHA256(b []byte) [32]byte {
	return sha256.Sum256(b)
}
