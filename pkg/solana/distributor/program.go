package distributor

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("7uzdFazbJCtoiRiRjbzbjRcJUDkKw4Q5mhaAz4SJcea1")
	PROGRAM_ID      = common.PublicKeyFromBytes(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID = common.SystemProgramID
)

// AccountMeta represents the account information required
// for building transactions.
type AccountMeta struct {
	PublicKey  common.PublicKey
	IsWritable bool
	IsSigner   bool
}

// Instruction represents a transaction instruction.
type Instruction struct {
	Program  common.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// ToSDKInstruction converts the instruction into the SDK representation used
// for transaction assembly and submission.
func (i Instruction) ToSDKInstruction() types.Instruction {
	sdkAccountMeta := make([]types.AccountMeta, len(i.Accounts))
	for j, accountMeta := range i.Accounts {
		sdkAccountMeta[j] = types.AccountMeta{
			PubKey:     accountMeta.PublicKey,
			IsSigner:   accountMeta.IsSigner,
			IsWritable: accountMeta.IsWritable,
		}
	}

	return types.Instruction{
		ProgramID: i.Program,
		Accounts:  sdkAccountMeta,
		Data:      i.Data,
	}
}
