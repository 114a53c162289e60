package distributor

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/pkg/errors"
)

const (
	DistributeInstructionArgsSize = (8 + // amount
		1 + // has_first_referrer
		1) // has_second_referrer

	DistributeInstructionAccountsCount = 6
)

// Fixed account ordering for the distribute instruction. The list always has
// exactly six entries, regardless of referral presence, so consumers never
// branch on its length.
const (
	DistributeAccountPayer = iota
	DistributeAccountTreasury
	DistributeAccountTeam
	DistributeAccountFirstReferrerSlot
	DistributeAccountSecondReferrerSlot
	DistributeAccountSystemProgram
)

type DistributeInstructionArgs struct {
	Amount            uint64
	HasFirstReferrer  bool
	HasSecondReferrer bool
}

// DistributeInstructionAccounts names the parties of a distribution. A nil
// referrer means the tier is absent; the payer-placeholder convention of the
// on-chain account list is applied at encode time and nowhere else.
type DistributeInstructionAccounts struct {
	Payer    common.PublicKey
	Treasury common.PublicKey
	Team     common.PublicKey

	FirstReferrer  *common.PublicKey
	SecondReferrer *common.PublicKey
}

func MarshalDistributeInstructionArgs(args *DistributeInstructionArgs) []byte {
	var offset int
	data := make([]byte, DistributeInstructionArgsSize)

	putUint64(data, args.Amount, &offset)
	putBool(data, args.HasFirstReferrer, &offset)
	putBool(data, args.HasSecondReferrer, &offset)

	return data
}

func UnmarshalDistributeInstructionArgs(data []byte) (*DistributeInstructionArgs, error) {
	if len(data) != DistributeInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	var offset int
	var args DistributeInstructionArgs

	getUint64(data, &args.Amount, &offset)
	getBool(data, &args.HasFirstReferrer, &offset)
	getBool(data, &args.HasSecondReferrer, &offset)

	return &args, nil
}

func NewDistributeInstruction(accounts *DistributeInstructionAccounts, amount uint64) Instruction {
	args := &DistributeInstructionArgs{
		Amount:            amount,
		HasFirstReferrer:  accounts.FirstReferrer != nil,
		HasSecondReferrer: accounts.SecondReferrer != nil,
	}

	firstReferrerSlot := accounts.Payer
	if accounts.FirstReferrer != nil {
		firstReferrerSlot = *accounts.FirstReferrer
	}

	secondReferrerSlot := accounts.Payer
	if accounts.SecondReferrer != nil {
		secondReferrerSlot = *accounts.SecondReferrer
	}

	return Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: MarshalDistributeInstructionArgs(args),

		// Instruction accounts. Both referrer slots are writable even
		// when they hold the payer placeholder, keeping the shape
		// identical across all four referral combinations.
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Treasury,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Team,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  firstReferrerSlot,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  secondReferrerSlot,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

type DecompiledDistribute struct {
	Args DistributeInstructionArgs

	Payer              common.PublicKey
	Treasury           common.PublicKey
	Team               common.PublicKey
	FirstReferrerSlot  common.PublicKey
	SecondReferrerSlot common.PublicKey
}

// Referrers resolves the payer-placeholder convention into explicit optional
// referrer addresses. A tier whose presence flag is unset is nil, whatever
// the slot holds.
func (d *DecompiledDistribute) Referrers() (first, second *common.PublicKey) {
	if d.Args.HasFirstReferrer {
		key := d.FirstReferrerSlot
		first = &key
	}
	if d.Args.HasSecondReferrer {
		key := d.SecondReferrerSlot
		second = &key
	}
	return first, second
}

// DistributeInstructionFromMessage decompiles a distribute instruction from a
// deserialized transaction message.
func DistributeInstructionFromMessage(m types.Message, index int) (*DecompiledDistribute, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	instruction := m.Instructions[index]

	if instruction.ProgramIDIndex >= len(m.Accounts) {
		return nil, ErrInvalidAccountList
	}
	if m.Accounts[instruction.ProgramIDIndex] != PROGRAM_ID {
		return nil, ErrInvalidProgram
	}

	if len(instruction.Accounts) != DistributeInstructionAccountsCount {
		return nil, errors.Errorf("invalid number of accounts: %d", len(instruction.Accounts))
	}

	args, err := UnmarshalDistributeInstructionArgs(instruction.Data)
	if err != nil {
		return nil, err
	}

	var keys [DistributeInstructionAccountsCount]common.PublicKey
	for i, accountIndex := range instruction.Accounts {
		if accountIndex >= len(m.Accounts) {
			return nil, ErrInvalidAccountList
		}
		keys[i] = m.Accounts[accountIndex]
	}

	if keys[DistributeAccountSystemProgram] != SYSTEM_PROGRAM_ID {
		return nil, ErrInvalidAccountList
	}

	return &DecompiledDistribute{
		Args:               *args,
		Payer:              keys[DistributeAccountPayer],
		Treasury:           keys[DistributeAccountTreasury],
		Team:               keys[DistributeAccountTeam],
		FirstReferrerSlot:  keys[DistributeAccountFirstReferrerSlot],
		SecondReferrerSlot: keys[DistributeAccountSecondReferrerSlot],
	}, nil
}
