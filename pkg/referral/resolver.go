package referral

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/sirupsen/logrus"

	"github.com/darkbrewery/simo-server/pkg/metrics"
)

const (
	firstTierDegradedMetricName  = "referral/first_tier_degraded"
	secondTierDegradedMetricName = "referral/second_tier_degraded"
)

// Chain is the resolved referral chain for a single payment: zero, one or
// two wallet addresses. A nil entry means the tier is absent. A second tier
// can never be present without the first.
type Chain struct {
	First  *common.PublicKey
	Second *common.PublicKey
}

// Resolver walks the two-tier referral chain with per-tier fallback, so the
// instruction builder never branches on lookup failure modes itself.
type Resolver struct {
	log    *logrus.Entry
	client *Client
}

func NewResolver(client *Client) *Resolver {
	return &Resolver{
		log:    logrus.StandardLogger().WithField("service", "referral_resolver"),
		client: client,
	}
}

// Resolve performs at most two sequential lookups: the code itself, then the
// first referrer's own referrer. Every failure degrades the chain instead of
// propagating: a failed first lookup yields an empty chain and skips the
// second lookup entirely; a failed second lookup yields a one-entry chain.
// Lookups are never retried here.
func (r *Resolver) Resolve(ctx context.Context, code string) Chain {
	if len(code) == 0 {
		return Chain{}
	}

	log := r.log.WithField("referral_code", code)

	first, err := r.client.GetReferrer(ctx, code)
	if err != nil {
		log.WithError(err).Warn("first tier referral lookup failed, distributing without referrers")
		metrics.RecordCount(ctx, firstTierDegradedMetricName, 1)
		return Chain{}
	}

	chain := Chain{First: &first}

	second, err := r.client.GetReferrer(ctx, first.ToBase58())
	if err != nil {
		log.WithError(err).Warn("second tier referral lookup failed, distributing with a single referrer")
		metrics.RecordCount(ctx, secondTierDegradedMetricName, 1)
		return chain
	}

	chain.Second = &second
	return chain
}
