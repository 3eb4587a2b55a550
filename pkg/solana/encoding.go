package solana

import (
	"bytes"
	"crypto/ed25519"
	"io"

	"github.com/pkg/errors"

	"github.com/cashrail/solana-sdk/pkg/solana/shortvec"
)

// Marshal serializes the message into the wire format, with no padding and
// no length prefix on the whole message:
//
//	[header: 3 bytes]
//	[shortvec(account count)][accounts: 32 bytes each]
//	[recent blockhash: 32 bytes]
//	[shortvec(instruction count)][instructions]
//
// where each instruction is
//
//	[program index: 1 byte]
//	[shortvec(account count)][account indices]
//	[shortvec(data len)][data]
func (m Message) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	// Header
	_ = b.WriteByte(m.Header.NumRequiredSignatures)
	_ = b.WriteByte(m.Header.NumReadonlySigned)
	_ = b.WriteByte(m.Header.NumReadonlyUnsigned)

	// Accounts
	_, _ = shortvec.EncodeLen(b, len(m.Accounts))
	for _, a := range m.Accounts {
		_, _ = b.Write(a)
	}

	// Recent Blockhash
	_, _ = b.Write(m.RecentBlockhash[:])

	// Instructions
	_, _ = shortvec.EncodeLen(b, len(m.Instructions))
	for _, i := range m.Instructions {
		_ = b.WriteByte(i.ProgramIndex)

		// Accounts
		_, _ = shortvec.EncodeLen(b, len(i.Accounts))
		_, _ = b.Write(i.Accounts)

		// Data
		_, _ = shortvec.EncodeLen(b, len(i.Data))
		_, _ = b.Write(i.Data)
	}

	return b.Bytes()
}

// Unmarshal deserializes a message from its wire format, validating that
// every compiled index references an account in the table.
func (m *Message) Unmarshal(b []byte) (err error) {
	buf := bytes.NewBuffer(b)

	// Header
	if m.Header.NumRequiredSignatures, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num required signatures")
	}
	if m.Header.NumReadonlySigned, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num readonly signed")
	}
	if m.Header.NumReadonlyUnsigned, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num readonly unsigned")
	}

	// Accounts
	accountLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read account len")
	}
	m.Accounts = make([]ed25519.PublicKey, accountLen)
	for i := 0; i < accountLen; i++ {
		m.Accounts[i] = make([]byte, ed25519.PublicKeySize)
		if _, err = io.ReadFull(buf, m.Accounts[i]); err != nil {
			return errors.Wrapf(err, "failed to read account at index %d", i)
		}
	}

	// Recent block hash
	if _, err = io.ReadFull(buf, m.RecentBlockhash[:]); err != nil {
		return errors.Wrap(err, "failed to read recent blockhash")
	}

	// Instructions
	instructionLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read instruction len")
	}
	m.Instructions = make([]CompiledInstruction, instructionLen)
	for i := 0; i < instructionLen; i++ {
		var c CompiledInstruction

		// Program Index
		if c.ProgramIndex, err = buf.ReadByte(); err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] program index", i)
		}
		if int(c.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("program index out of range: %d:%d", i, c.ProgramIndex)
		}

		// Account Indexes
		accountLen, err = shortvec.DecodeLen(buf)
		if err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] account len", i)
		}
		c.Accounts = make([]byte, accountLen)
		if _, err = io.ReadFull(buf, c.Accounts); err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] accounts", i)
		}

		for _, index := range c.Accounts {
			if int(index) >= len(m.Accounts) {
				return errors.Errorf("account index out of range: %d:%d", i, index)
			}
		}

		// Data
		dataLen, err := shortvec.DecodeLen(buf)
		if err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] data len", i)
		}
		c.Data = make([]byte, dataLen)
		if _, err = io.ReadFull(buf, c.Data); err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] data", i)
		}

		m.Instructions[i] = c
	}

	return nil
}

// NewMessageBuilderFromMessage reconstructs a builder from a previously
// deserialized message, supplying the message's account ordering as the
// builder's ordering override. Building it without further mutation
// reproduces the original bytes.
//
// Accounts not referenced by any instruction (other than the fee payer)
// are not carried over, since the builder only learns accounts through
// instructions.
func NewMessageBuilderFromMessage(m Message) (*MessageBuilder, error) {
	if len(m.Accounts) == 0 {
		return nil, errors.Wrap(ErrMissingFeePayer, "message has no accounts")
	}

	b := NewMessageBuilder().
		SetFeePayer(m.Accounts[0]).
		SetRecentBlockhash(m.RecentBlockhash.String()).
		SetAccountOrdering(m.Accounts)

	for i, c := range m.Instructions {
		if int(c.ProgramIndex) >= len(m.Accounts) {
			return nil, errors.Errorf("instruction[%d] program index out of range: %d", i, c.ProgramIndex)
		}

		accounts := make([]AccountMeta, len(c.Accounts))
		for j, index := range c.Accounts {
			if int(index) >= len(m.Accounts) {
				return nil, errors.Errorf("instruction[%d] account index out of range: %d", i, index)
			}

			accounts[j] = AccountMeta{
				PublicKey:  m.Accounts[index],
				IsSigner:   m.IsSigner(int(index)),
				IsWritable: m.IsWritable(int(index)),
			}
		}

		b.AddInstruction(NewInstruction(m.Accounts[c.ProgramIndex], c.Data, accounts...))
	}

	return b, nil
}
