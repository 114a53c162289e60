package sol

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	LamportsPerSol = 1_000_000_000
	Decimals       = 9
)

var (
	ErrNegativeAmount = errors.New("negative amount")
	ErrAmountTooLarge = errors.New("amount exceeds uint64 lamports")

	lamportsPerSol = decimal.NewFromInt(LamportsPerSol)
)

func FromLamports(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(lamportsPerSol)
}

// ToLamports converts a whole-unit SOL amount to lamports, flooring any
// fraction below one lamport.
func ToLamports(sol decimal.Decimal) (uint64, error) {
	if sol.IsNegative() {
		return 0, ErrNegativeAmount
	}

	lamports := sol.Mul(lamportsPerSol).Floor().BigInt()
	if !lamports.IsUint64() {
		return 0, ErrAmountTooLarge
	}
	return lamports.Uint64(), nil
}
