// Package party implements PT, the stateful holder of one Feldman VSS share.
// A Party never exposes its share, and zeroizes its ephemeral per-session
// state (the nonce k and the commitment hash) on every exit path.
package party

import (
	"math/big"

	"github.com/mukulkatewa/tss-signer/internal/curve"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
)

var bigOne = big.NewInt(1)

// Party holds one Feldman VSS share and the ephemeral state of at most one
// in-flight signing session. Concurrent sessions for the same wallet must be
// serialized by the caller (spec.md §5) since the deterministic nonce
// derivation would otherwise reuse k across concurrent signs of the same
// message.
type Party struct {
	id    int
	share curve.Scalar // exclusively owned; never returned by any method

	// Ephemeral session state: created in Round 1, used in Round 3, wiped at
	// session end or abort. k == nil means no session is in flight.
	k           *curve.Scalar
	commitmentH *[32]byte
}

// New constructs a Party bound to a specific, non-zero party id and share.
// partyID must be >= 1: ids are the x-coordinates of the DKG polynomial and
// 0 is reserved (spec.md §3).
func New(partyID int, share curve.Scalar) (*Party, error) {
	const op = "party.New"
	if partyID <= 0 {
		return nil, tsserr.InvalidInput(op, nil)
	}
	if share.IsZero() {
		return nil, tsserr.CryptoFailure(op, nil)
	}
	return &Party{id: partyID, share: share}, nil
}

// ID returns the party's id (the x-coordinate of its share).
func (p *Party) ID() int { return p.id }

// Round1Commit derives the deterministic ephemeral nonce
// k = H(share || message) mod n (substituting 1 if the hash reduces to
// zero — spec.md §4.4's RFC-6979-style derivation), computes the public
// ephemeral R_i = k*G, and returns a commitment to R_i's encoding so the
// coordinator can cross-check in Round 2.
func (p *Party) Round1Commit(message []byte) (commitH [32]byte, publicEphemeral curve.Point, err error) {
	const op = "party.Round1Commit"
	shareBytes := p.share.Bytes32()

	h := curve.SHA256(append(append([]byte{}, shareBytes[:]...), message...))
	k := curve.ScalarFromBytes(h[:])
	if k.IsZero() {
		k = curve.ScalarFromBigInt(bigOne)
	}

	publicEphemeral = curve.MulG(k)
	commitH = curve.SHA256(publicEphemeral.Encode(true))

	p.k = &k
	p.commitmentH = &commitH
	return commitH, publicEphemeral, nil
}

// VerifyCommitment checks that the encoded public ephemeral hashes to the
// commitment recorded in Round 1. In a distributed deployment each party
// would verify its peers' commitments; with parties co-located in one
// process (spec.md Non-goals) this is a self-consistency check performed by
// the coordinator per spec.md §4.5 Round 2.
func (p *Party) VerifyCommitment(publicEphemeral []byte) bool {
	if p.commitmentH == nil {
		return false
	}
	h := curve.SHA256(publicEphemeral)
	return h == *p.commitmentH
}

// Round3PartialSign computes this party's contribution to the aggregated
// ECDSA-style signature: e = H(message) mod n, s_i = (k + e*share) mod n,
// and rX = the x-coordinate of the coordinator-aggregated R reduced into the
// scalar domain. It requires Round1Commit to have run first.
func (p *Party) Round3PartialSign(message []byte, aggregatedR curve.Point) (partialS, rX curve.Scalar, err error) {
	const op = "party.Round3PartialSign"
	if p.k == nil {
		return curve.Scalar{}, curve.Scalar{}, tsserr.Internal(op, nil)
	}
	if aggregatedR.IsIdentity() {
		return curve.Scalar{}, curve.Scalar{}, tsserr.CryptoFailure(op, nil)
	}

	e := curve.ScalarFromBytes(hashSum(message))
	partialS = p.k.Add(e.Mul(p.share))
	rX = aggregatedR.XScalar()
	return partialS, rX, nil
}

// Wipe zeroizes the party's ephemeral session state. It must be called on
// every session termination (success, error, or cancellation) — spec.md §3,
// §5. It is idempotent and safe to call even if no session was in flight.
func (p *Party) Wipe() {
	if p.k != nil {
		p.k.Zeroize()
		p.k = nil
	}
	if p.commitmentH != nil {
		for i := range p.commitmentH {
			p.commitmentH[i] = 0
		}
		p.commitmentH = nil
	}
}

// HasEphemeralState reports whether a session is mid-flight. Exposed only
// for tests verifying the zeroization invariant (spec.md §8); it never
// exposes k or commitmentH's contents.
func (p *Party) HasEphemeralState() bool {
	return p.k != nil || p.commitmentH != nil
}

func hashSum(message []byte) []byte {
	h := curve.SHA256(message)
	return h[:]
}
