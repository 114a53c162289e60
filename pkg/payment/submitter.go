package payment

import (
	"context"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/darkbrewery/simo-server/pkg/metrics"
	"github.com/darkbrewery/simo-server/pkg/retry"
	"github.com/darkbrewery/simo-server/pkg/retry/backoff"
)

const (
	submitLatencyMetricName = "payment/submit_latency"
	submittedMetricName     = "payment/submitted"
	submittedEventName      = "DistributionSubmitted"
)

// Submitter broadcasts assembled distributions. Key custody stays with the
// caller; the payer keypair is provided per submission and only used for
// signing the assembled transaction.
type Submitter struct {
	log       *logrus.Entry
	builder   *Builder
	rpcClient *client.Client
}

func NewSubmitter(conf *Config, builder *Builder) *Submitter {
	return &Submitter{
		log:       logrus.StandardLogger().WithField("service", "payment_submitter"),
		builder:   builder,
		rpcClient: client.NewClient(conf.SolanaRpcEndpoint),
	}
}

// SubmitDistribution builds a distribution for the payer and broadcasts it as
// a single transaction. Broadcast is retried a bounded number of times with
// a fresh blockhash per attempt; referral lookups inside the build are never
// retried.
func (s *Submitter) SubmitDistribution(ctx context.Context, payer types.Account, amount decimal.Decimal, referralCode string) (string, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SubmitDistribution")
	defer tracer.End()

	distribution, err := s.builder.BuildDistribution(ctx, payer.PublicKey, amount, referralCode)
	if err != nil {
		tracer.OnError(err)
		return "", err
	}

	start := time.Now()

	var signature string
	_, err = retry.Retry(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			blockhash, err := s.rpcClient.GetLatestBlockhash(ctx)
			if err != nil {
				return errors.Wrap(err, "error getting latest blockhash")
			}

			transaction, err := types.NewTransaction(types.NewTransactionParam{
				Message: types.NewMessage(types.NewMessageParam{
					FeePayer:        payer.PublicKey,
					RecentBlockhash: blockhash.Blockhash,
					Instructions:    []types.Instruction{distribution.Instruction.ToSDKInstruction()},
				}),
				Signers: []types.Account{payer},
			})
			if err != nil {
				return errors.Wrap(err, "error assembling transaction")
			}

			signature, err = s.rpcClient.SendTransaction(ctx, transaction)
			if err != nil {
				return errors.Wrap(err, "error sending transaction")
			}
			return nil
		},
		retry.NonRetriableErrors(context.Canceled),
		retry.Limit(3),
		retry.Backoff(backoff.BinaryExponential(250*time.Millisecond), 2*time.Second),
	)
	if err != nil {
		tracer.OnError(err)
		return "", err
	}

	metrics.RecordDuration(ctx, submitLatencyMetricName, time.Since(start))
	metrics.RecordCount(ctx, submittedMetricName, 1)
	metrics.RecordEvent(ctx, submittedEventName, map[string]interface{}{
		"payer":     payer.PublicKey.ToBase58(),
		"signature": signature,
		"lamports":  distribution.Args.Amount,
	})

	s.log.WithFields(logrus.Fields{
		"payer":     payer.PublicKey.ToBase58(),
		"signature": signature,
	}).Info("distribution submitted")

	return signature, nil
}
