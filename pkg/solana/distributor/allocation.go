package distributor

import (
	"math/bits"
)

const (
	TreasuryPercent       = 50
	FirstReferralPercent  = 20
	SecondReferralPercent = 5

	// Default absolute caps on referral payouts, in lamports.
	DefaultFirstReferralCap  = 200_000_000
	DefaultSecondReferralCap = 50_000_000
)

// Allocation is the exact lamport split of a gross payment amount.
//
// Treasury is always floor(amount/2). Team is the residual after treasury and
// both referral payouts, which is what keeps the split conservation-exact: it
// absorbs unclaimed referral shares, cap overflow on large payments, and any
// floor-rounding remainder without special cases.
type Allocation struct {
	Treasury       uint64
	Team           uint64
	FirstReferral  uint64
	SecondReferral uint64
}

func (a Allocation) Total() uint64 {
	return a.Treasury + a.Team + a.FirstReferral + a.SecondReferral
}

// Allocate computes the distribution of amount between the treasury, the team
// wallet and the two referral tiers. It is a pure function of its inputs and
// performs integer arithmetic only.
func Allocate(amount uint64, hasFirstReferrer, hasSecondReferrer bool, firstCap, secondCap uint64) (Allocation, error) {
	treasury := amount / 2

	var firstReferral, secondReferral uint64
	var err error

	if hasFirstReferrer {
		firstReferral, err = percentageOf(amount, FirstReferralPercent)
		if err != nil {
			return Allocation{}, err
		}
		if firstReferral > firstCap {
			firstReferral = firstCap
		}
	}

	if hasSecondReferrer {
		secondReferral, err = percentageOf(amount, SecondReferralPercent)
		if err != nil {
			return Allocation{}, err
		}
		if secondReferral > secondCap {
			secondReferral = secondCap
		}
	}

	return Allocation{
		Treasury:       treasury,
		Team:           amount - treasury - firstReferral - secondReferral,
		FirstReferral:  firstReferral,
		SecondReferral: secondReferral,
	}, nil
}

// percentageOf computes amount*percent/100 through a 128-bit intermediate,
// so the multiplication can never silently wrap for any uint64 amount.
func percentageOf(amount, percent uint64) (uint64, error) {
	hi, lo := bits.Mul64(amount, percent)
	if hi >= 100 {
		// bits.Div64 panics when the quotient overflows a uint64.
		// Unreachable for percent <= 100.
		return 0, ErrArithmeticOverflow
	}
	quotient, _ := bits.Div64(hi, lo, 100)
	return quotient, nil
}
