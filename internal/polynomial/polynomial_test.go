package polynomial

import (
	"math/big"
	"testing"

	"github.com/mukulkatewa/tss-signer/internal/curve"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
	"github.com/stretchr/testify/require"
)

func TestGenerateSharesVerify(t *testing.T) {
	commitments, shares, err := GenerateShares(2, 3)
	require.NoError(t, err)
	require.Len(t, commitments, 2)
	require.Len(t, shares, 3)

	for p, s := range shares {
		require.True(t, VerifyShare(p, s, commitments), "share for party %d must verify", p)
	}

	pub := commitments.MasterPublicKey()
	require.False(t, pub.IsIdentity())
}

func TestVerifyShareRejectsTamperedShare(t *testing.T) {
	commitments, shares, err := GenerateShares(2, 3)
	require.NoError(t, err)

	tampered := shares[1].Add(curve.ScalarFromBigInt(big.NewInt(1)))
	require.False(t, VerifyShare(1, tampered, commitments))
}

func TestVerifyShareRejectsZeroPartyID(t *testing.T) {
	commitments, shares, err := GenerateShares(2, 3)
	require.NoError(t, err)
	require.False(t, VerifyShare(0, shares[1], commitments))
}

func TestGenerateSharesRejectsBadParams(t *testing.T) {
	_, _, err := GenerateShares(3, 2)
	require.Error(t, err)
	require.True(t, tsserr.Is(err, tsserr.KindInvalidInput))
}

// TestLagrangeReconstructionMatchesMasterPublicKey is a property test only:
// it reconstructs the master secret from an arbitrary t-subset of shares via
// Lagrange interpolation and confirms L*G == commitments.MasterPublicKey().
// Production code never performs this reconstruction (VerifyShare and
// PublicShareCommitment work from the commitment vector alone); this test
// exists solely to confirm the VSS commitments and shares are consistent
// with the master secret they claim to commit to.
func TestLagrangeReconstructionMatchesMasterPublicKey(t *testing.T) {
	const threshold = 3
	const parties = 5
	commitments, shares, err := GenerateShares(threshold, parties)
	require.NoError(t, err)

	// An arbitrary t-subset of {1..n}, not the first t ids, so the test
	// doesn't accidentally only exercise the trivial {1,2,3} case.
	subset := []int{2, 3, 5}
	require.Len(t, subset, threshold)

	reconstructed := lagrangeInterpolateAtZero(subset, shares)

	got := curve.MulG(reconstructed)
	want := commitments.MasterPublicKey()
	require.True(t, got.Equal(want), "Lagrange-reconstructed secret must commit to the master public key")
}

// lagrangeInterpolateAtZero reconstructs f(0) from the shares at the given
// subset of x-coordinates via the standard Lagrange interpolation formula:
//
//	f(0) = sum_i share_i * prod_{j != i} (0 - x_j) / (x_i - x_j)  (mod n)
//
// This exists only for the property test above; no production code path
// computes a Lagrange coefficient (spec.md §8 bars it from reconstructing
// the master secret at runtime).
func lagrangeInterpolateAtZero(subset []int, shares map[int]curve.Scalar) curve.Scalar {
	n := curve.Order()
	result := new(big.Int)

	for _, xi := range subset {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for _, xj := range subset {
			if xj == xi {
				continue
			}
			num.Mul(num, big.NewInt(int64(-xj)))
			num.Mod(num, n)

			diff := big.NewInt(int64(xi - xj))
			den.Mul(den, diff)
			den.Mod(den, n)
		}
		denInv := new(big.Int).ModInverse(den, n)
		lambda := new(big.Int).Mul(num, denInv)
		lambda.Mod(lambda, n)

		term := new(big.Int).Mul(lambda, shares[xi].BigInt())
		term.Mod(term, n)

		result.Add(result, term)
		result.Mod(result, n)
	}

	return curve.ScalarFromBigInt(result)
}
