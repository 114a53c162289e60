package distributor

import (
	"errors"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrInvalidAccountList     = errors.New("unexpected account list")
	ErrArithmeticOverflow     = errors.New("arithmetic overflow")
)
