package solana

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
)

// Instruction represents a transaction instruction.
//
// Data is opaque to the message compiler; only the program packages
// know its layout.
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// NewInstruction creates a new instruction.
func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// CompiledInstruction represents an instruction that has been compiled
// into a message, referencing accounts by their position in the finalized
// account list.
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}

// compile resolves the instruction's program and account references against
// the finalized key list.
//
// A missing key indicates a bug in table construction, since every key an
// instruction references is merged into the table before the list is
// finalized.
func (i Instruction) compile(keys []ed25519.PublicKey) (CompiledInstruction, error) {
	programIndex := indexOf(keys, i.Program)
	if programIndex < 0 {
		return CompiledInstruction{}, errors.Wrapf(ErrAccountNotFound, "program %s", base58.Encode(i.Program))
	}

	c := CompiledInstruction{
		ProgramIndex: byte(programIndex),
		Data:         i.Data,
	}

	for _, a := range i.Accounts {
		index := indexOf(keys, a.PublicKey)
		if index < 0 {
			return CompiledInstruction{}, errors.Wrapf(ErrAccountNotFound, "account %s", base58.Encode(a.PublicKey))
		}

		c.Accounts = append(c.Accounts, byte(index))
	}

	return c, nil
}
