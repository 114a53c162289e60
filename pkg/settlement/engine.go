// Package settlement applies a distribute instruction to account balances the
// way the on-chain program does: decode, validate, allocate, then transfer,
// with every check performed before any balance is touched.
package settlement

import (
	"errors"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/sirupsen/logrus"

	"github.com/darkbrewery/simo-server/pkg/solana/distributor"
)

var (
	ErrInvalidAccountList      = errors.New("unexpected account list shape")
	ErrMissingSigner           = errors.New("payer is not a signer")
	ErrUnexpectedTreasury      = errors.New("treasury account mismatch")
	ErrUnexpectedTeam          = errors.New("team account mismatch")
	ErrUnexpectedSystemProgram = errors.New("incorrect system program account")
	ErrInsufficientBalance     = errors.New("payer balance cannot cover the settlement")

	ErrInvalidConfig = errors.New("invalid engine configuration")
)

// Account mirrors the host runtime's view of an account within a single
// invocation.
type Account struct {
	Key        common.PublicKey
	Lamports   uint64
	IsSigner   bool
	IsWritable bool
}

// Config is the engine's fixed deployment configuration. It is immutable for
// the lifetime of an Engine and validated exactly once, not per call.
type Config struct {
	Treasury common.PublicKey
	Team     common.PublicKey

	FirstReferralCap  uint64
	SecondReferralCap uint64
}

func (c Config) Validate() error {
	var zero common.PublicKey
	if c.Treasury == zero || c.Team == zero {
		return ErrInvalidConfig
	}
	if c.Treasury == c.Team {
		return ErrInvalidConfig
	}
	return nil
}

type Engine struct {
	log  *logrus.Entry
	conf Config
}

func NewEngine(conf Config) (*Engine, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		log:  logrus.StandardLogger().WithField("service", "settlement_engine"),
		conf: conf,
	}, nil
}

// Process executes one settlement invocation. Each failure path returns
// before any balance mutation, so a rejected invocation has no effect. The
// engine holds no state between calls and never retries.
func (e *Engine) Process(data []byte, accounts []*Account) error {
	if len(accounts) != distributor.DistributeInstructionAccountsCount {
		return ErrInvalidAccountList
	}

	payer := accounts[distributor.DistributeAccountPayer]
	treasury := accounts[distributor.DistributeAccountTreasury]
	team := accounts[distributor.DistributeAccountTeam]
	firstReferrerSlot := accounts[distributor.DistributeAccountFirstReferrerSlot]
	secondReferrerSlot := accounts[distributor.DistributeAccountSecondReferrerSlot]
	systemProgram := accounts[distributor.DistributeAccountSystemProgram]

	if !payer.IsSigner {
		return ErrMissingSigner
	}

	// A caller-supplied treasury or team account would redirect funds;
	// both must match the deployed configuration exactly. The referrer
	// slots are deliberately accepted as given: pairing them with the
	// presence flags is the builder's responsibility.
	if treasury.Key != e.conf.Treasury {
		return ErrUnexpectedTreasury
	}
	if team.Key != e.conf.Team {
		return ErrUnexpectedTeam
	}
	if systemProgram.Key != distributor.SYSTEM_PROGRAM_ID || systemProgram.IsWritable {
		return ErrUnexpectedSystemProgram
	}

	args, err := distributor.UnmarshalDistributeInstructionArgs(data)
	if err != nil {
		return err
	}

	allocation, err := distributor.Allocate(
		args.Amount,
		args.HasFirstReferrer,
		args.HasSecondReferrer,
		e.conf.FirstReferralCap,
		e.conf.SecondReferralCap,
	)
	if err != nil {
		return err
	}

	if payer.Lamports < args.Amount {
		return ErrInsufficientBalance
	}

	transfer(payer, treasury, allocation.Treasury)
	transfer(payer, team, allocation.Team)
	transfer(payer, firstReferrerSlot, allocation.FirstReferral)
	transfer(payer, secondReferrerSlot, allocation.SecondReferral)

	e.log.WithFields(logrus.Fields{
		"payer":  payer.Key.ToBase58(),
		"amount": args.Amount,
	}).Debug("settlement applied")

	return nil
}

// transfer moves lamports between two accounts of the same invocation. Zero
// amounts and payer-placeholder destinations are no-ops, never errors; the
// payer must never be double-debited through its own placeholder slot.
func transfer(from, to *Account, amount uint64) {
	if amount == 0 {
		return
	}
	if from.Key == to.Key {
		return
	}

	from.Lamports -= amount
	to.Lamports += amount
}
