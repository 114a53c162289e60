// Package payment assembles distribute instructions on the client side:
// whole-unit amounts are floored into lamports, the referral chain is
// resolved with graceful degradation, and the fixed six-account list is
// produced with payer placeholders for absent referrers.
package payment

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/darkbrewery/simo-server/pkg/metrics"
	"github.com/darkbrewery/simo-server/pkg/referral"
	"github.com/darkbrewery/simo-server/pkg/sol"
	"github.com/darkbrewery/simo-server/pkg/solana/distributor"
)

const metricsStructName = "payment.builder"

// Distribution is a fully assembled distribute instruction, ready for
// transaction assembly and signing.
type Distribution struct {
	Args        distributor.DistributeInstructionArgs
	Referrers   referral.Chain
	Instruction distributor.Instruction
}

type Builder struct {
	log      *logrus.Entry
	conf     *Config
	resolver *referral.Resolver
}

func NewBuilder(conf *Config, resolver *referral.Resolver) (*Builder, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &Builder{
		log:      logrus.StandardLogger().WithField("service", "payment_builder"),
		conf:     conf,
		resolver: resolver,
	}, nil
}

// BuildDistribution produces the wire payload and account list for one
// payment attempt. Referral resolution can only ever degrade the referral
// tiers; it never fails the build.
func (b *Builder) BuildDistribution(ctx context.Context, payer common.PublicKey, amount decimal.Decimal, referralCode string) (*Distribution, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "BuildDistribution")
	defer tracer.End()

	lamports, err := sol.ToLamports(amount)
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "invalid payment amount")
	}

	chain := b.resolver.Resolve(ctx, referralCode)

	instruction := distributor.NewDistributeInstruction(&distributor.DistributeInstructionAccounts{
		Payer:          payer,
		Treasury:       b.conf.Treasury,
		Team:           b.conf.Team,
		FirstReferrer:  chain.First,
		SecondReferrer: chain.Second,
	}, lamports)

	b.log.WithFields(logrus.Fields{
		"payer":      payer.ToBase58(),
		"lamports":   lamports,
		"has_first":  chain.First != nil,
		"has_second": chain.Second != nil,
	}).Debug("assembled distribution")

	return &Distribution{
		Args: distributor.DistributeInstructionArgs{
			Amount:            lamports,
			HasFirstReferrer:  chain.First != nil,
			HasSecondReferrer: chain.Second != nil,
		},
		Referrers:   chain,
		Instruction: instruction,
	}, nil
}
