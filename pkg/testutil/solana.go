package testutil

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

func GenerateSolanaKeypair(t *testing.T) types.Account {
	return types.NewAccount()
}

func GenerateSolanaKeys(t *testing.T, n int) []common.PublicKey {
	keys := make([]common.PublicKey, n)
	for i := 0; i < n; i++ {
		keys[i] = types.NewAccount().PublicKey
	}
	return keys
}
