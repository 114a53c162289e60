package distributor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_FullReferralChain(t *testing.T) {
	allocation, err := Allocate(1_000_000_000, true, true, DefaultFirstReferralCap, DefaultSecondReferralCap)
	require.NoError(t, err)

	assert.EqualValues(t, 500_000_000, allocation.Treasury)
	assert.EqualValues(t, 200_000_000, allocation.FirstReferral)
	assert.EqualValues(t, 50_000_000, allocation.SecondReferral)
	assert.EqualValues(t, 250_000_000, allocation.Team)
	assert.EqualValues(t, 1_000_000_000, allocation.Total())
}

func TestAllocate_CapsClampLargePayments(t *testing.T) {
	// Nominal shares would be 2 SOL and 0.5 SOL; both clamp to their caps
	// exactly and the overflow rolls into the team residual.
	allocation, err := Allocate(10_000_000_000, true, true, DefaultFirstReferralCap, DefaultSecondReferralCap)
	require.NoError(t, err)

	assert.EqualValues(t, 5_000_000_000, allocation.Treasury)
	assert.EqualValues(t, 200_000_000, allocation.FirstReferral)
	assert.EqualValues(t, 50_000_000, allocation.SecondReferral)
	assert.EqualValues(t, 4_750_000_000, allocation.Team)
	assert.EqualValues(t, 10_000_000_000, allocation.Total())
}

func TestAllocate_NoReferrers(t *testing.T) {
	allocation, err := Allocate(1_000_000_000, false, false, DefaultFirstReferralCap, DefaultSecondReferralCap)
	require.NoError(t, err)

	assert.EqualValues(t, 500_000_000, allocation.Treasury)
	assert.EqualValues(t, 500_000_000, allocation.Team)
	assert.EqualValues(t, 0, allocation.FirstReferral)
	assert.EqualValues(t, 0, allocation.SecondReferral)

	// Odd amounts floor the treasury share; the team picks up the
	// remainder lamport.
	allocation, err = Allocate(1_000_000_001, false, false, DefaultFirstReferralCap, DefaultSecondReferralCap)
	require.NoError(t, err)

	assert.EqualValues(t, 500_000_000, allocation.Treasury)
	assert.EqualValues(t, 500_000_001, allocation.Team)
}

func TestAllocate_FirstReferrerOnly(t *testing.T) {
	allocation, err := Allocate(500_000_000, true, false, DefaultFirstReferralCap, DefaultSecondReferralCap)
	require.NoError(t, err)

	assert.EqualValues(t, 250_000_000, allocation.Treasury)
	assert.EqualValues(t, 100_000_000, allocation.FirstReferral)
	assert.EqualValues(t, 0, allocation.SecondReferral)
	assert.EqualValues(t, 500_000_000-250_000_000-100_000_000, allocation.Team)
}

func TestAllocate_SecondReferrerOnly(t *testing.T) {
	// Flags are independent at this layer; the builder never produces
	// this combination, but the allocation must still conserve.
	allocation, err := Allocate(1_000_000_000, false, true, DefaultFirstReferralCap, DefaultSecondReferralCap)
	require.NoError(t, err)

	assert.EqualValues(t, 500_000_000, allocation.Treasury)
	assert.EqualValues(t, 0, allocation.FirstReferral)
	assert.EqualValues(t, 50_000_000, allocation.SecondReferral)
	assert.EqualValues(t, 1_000_000_000, allocation.Total())
}

func TestAllocate_ZeroAmount(t *testing.T) {
	for _, hasFirst := range []bool{false, true} {
		for _, hasSecond := range []bool{false, true} {
			allocation, err := Allocate(0, hasFirst, hasSecond, DefaultFirstReferralCap, DefaultSecondReferralCap)
			require.NoError(t, err)
			assert.Equal(t, Allocation{}, allocation)
		}
	}
}

func TestAllocate_Conservation(t *testing.T) {
	amounts := []uint64{
		0, 1, 2, 3, 7, 19, 99, 100, 101,
		999_999_999,
		1_000_000_000,
		1_000_000_001,
		123_456_789_123,
		math.MaxInt64 - 1,
		math.MaxInt64,
		math.MaxUint64 - 1,
		math.MaxUint64,
	}

	for _, amount := range amounts {
		for _, hasFirst := range []bool{false, true} {
			for _, hasSecond := range []bool{false, true} {
				allocation, err := Allocate(amount, hasFirst, hasSecond, DefaultFirstReferralCap, DefaultSecondReferralCap)
				require.NoError(t, err)

				assert.Equal(t, amount, allocation.Total(), "amount=%d first=%v second=%v", amount, hasFirst, hasSecond)
				assert.Equal(t, amount/2, allocation.Treasury)

				if hasFirst {
					assert.LessOrEqual(t, allocation.FirstReferral, uint64(DefaultFirstReferralCap))
				} else {
					assert.Zero(t, allocation.FirstReferral)
				}
				if hasSecond {
					assert.LessOrEqual(t, allocation.SecondReferral, uint64(DefaultSecondReferralCap))
				} else {
					assert.Zero(t, allocation.SecondReferral)
				}
			}
		}
	}
}

func TestAllocate_UncappedPercentages(t *testing.T) {
	// With caps out of reach the split is the nominal 50/25/20/5.
	allocation, err := Allocate(1_000_000_000, true, true, math.MaxUint64, math.MaxUint64)
	require.NoError(t, err)

	assert.EqualValues(t, 500_000_000, allocation.Treasury)
	assert.EqualValues(t, 250_000_000, allocation.Team)
	assert.EqualValues(t, 200_000_000, allocation.FirstReferral)
	assert.EqualValues(t, 50_000_000, allocation.SecondReferral)

	// The widened intermediate keeps the percentage exact even where a
	// 64-bit multiplication would have wrapped.
	allocation, err = Allocate(math.MaxUint64, true, true, math.MaxUint64, math.MaxUint64)
	require.NoError(t, err)

	assert.Equal(t, uint64(math.MaxUint64)/2, allocation.Treasury)
	assert.Equal(t, uint64(3689348814741910323), allocation.FirstReferral)
	assert.Equal(t, uint64(922337203685477580), allocation.SecondReferral)
	assert.Equal(t, uint64(math.MaxUint64), allocation.Total())
}
