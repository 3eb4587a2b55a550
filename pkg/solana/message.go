package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// MaxAccountKeys bounds the finalized account table. Compiled instructions
// address accounts with a single byte index, so the table can never exceed
// 256 entries.
const MaxAccountKeys = 256

type Blockhash [sha256.Size]byte

func (h Blockhash) String() string {
	return base58.Encode(h[:])
}

// ParseBlockhash decodes a base58 blockhash (or nonce value) into its raw
// 32 byte form.
func ParseBlockhash(val string) (bh Blockhash, err error) {
	raw, err := base58.Decode(val)
	if err != nil {
		return bh, errors.Wrap(ErrInvalidBlockhash, err.Error())
	}
	if len(raw) != sha256.Size {
		return bh, errors.Wrapf(ErrInvalidBlockhash, "decoded to %d bytes", len(raw))
	}

	copy(bh[:], raw)
	return bh, nil
}

// NonceInfo substitutes a durable nonce for a recent blockhash, enabling
// a message to be signed and submitted well after it was built.
type NonceInfo struct {
	// Nonce is the base58 encoded nonce value, used in place of a recent
	// blockhash.
	Nonce string

	// AdvanceInstruction rotates the nonce account. It is prepended to the
	// message's instructions so it executes before anything else.
	AdvanceInstruction Instruction
}

// Message is the compiled, signable form of a set of instructions.
// It is immutable once produced.
type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

// IsSigner reports whether the account at index must sign the transaction.
func (m Message) IsSigner(index int) bool {
	return index < int(m.Header.NumRequiredSignatures)
}

// IsWritable reports whether the account at index may be written to.
func (m Message) IsWritable(index int) bool {
	numRequired := int(m.Header.NumRequiredSignatures)

	if index < numRequired {
		return index < numRequired-int(m.Header.NumReadonlySigned)
	}

	return index < len(m.Accounts)-int(m.Header.NumReadonlyUnsigned)
}

// FeePayer returns the account responsible for transaction fees, which is
// always the first account.
func (m Message) FeePayer() ed25519.PublicKey {
	if len(m.Accounts) == 0 {
		return nil
	}

	return m.Accounts[0]
}

// MessageBuilder accumulates instructions and compiles them into a Message.
//
// The builder is a single owner value: it is not safe for concurrent
// mutation, and Build never mutates the accumulated state, so building
// twice without further changes yields identical messages.
type MessageBuilder struct {
	instructions    []Instruction
	table           AccountMetaTable
	feePayer        ed25519.PublicKey
	recentBlockhash string
	nonceInfo       *NonceInfo
	accountOrdering []ed25519.PublicKey
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// AddInstruction appends instructions to the pending list, merging each
// referenced account, and the program id itself, into the account table.
// No validation happens until Build.
func (b *MessageBuilder) AddInstruction(instructions ...Instruction) *MessageBuilder {
	for _, i := range instructions {
		mergeInstructionAccounts(&b.table, i)
		b.instructions = append(b.instructions, i)
	}

	return b
}

func (b *MessageBuilder) SetFeePayer(pub ed25519.PublicKey) *MessageBuilder {
	b.feePayer = pub
	return b
}

// SetRecentBlockhash sets the base58 encoded recent blockhash. It is
// decoded at Build time.
func (b *MessageBuilder) SetRecentBlockhash(val string) *MessageBuilder {
	b.recentBlockhash = val
	return b
}

// SetNonceInfo sets durable nonce info. A nonce supersedes any recent
// blockhash set on the builder.
func (b *MessageBuilder) SetNonceInfo(info NonceInfo) *MessageBuilder {
	b.nonceInfo = &info
	return b
}

// SetAccountOrdering supplies a prior account ordering, used when
// re-serializing a previously deserialized message. If every finalized key
// appears in the ordering, the finalized table is re-sorted to match it,
// guaranteeing byte-identical output for an unmodified message.
func (b *MessageBuilder) SetAccountOrdering(keys []ed25519.PublicKey) *MessageBuilder {
	b.accountOrdering = keys
	return b
}

func mergeInstructionAccounts(t *AccountMetaTable, i Instruction) {
	t.AddAll(i.Accounts)
	t.Add(NewReadonlyAccountMeta(i.Program, false))
}

// Build compiles the accumulated instructions into a Message.
func (b *MessageBuilder) Build() (Message, error) {
	var m Message

	if b.recentBlockhash == "" && b.nonceInfo == nil {
		return m, ErrMissingBlockhash
	}
	if len(b.instructions) == 0 {
		return m, ErrNoInstructions
	}
	if len(b.feePayer) == 0 {
		return m, ErrMissingFeePayer
	}

	blockhash := b.recentBlockhash
	instructions := b.instructions
	table := b.table

	if b.nonceInfo != nil {
		blockhash = b.nonceInfo.Nonce

		// The advance executes first, so its accounts merge ahead of
		// everything already accumulated.
		var merged AccountMetaTable
		mergeInstructionAccounts(&merged, b.nonceInfo.AdvanceInstruction)
		merged.AddAll(table.Snapshot())
		table = merged

		instructions = append([]Instruction{b.nonceInfo.AdvanceInstruction}, instructions...)
	}

	// The fee payer is always the first account and always a writable
	// signer, regardless of how its key was referenced elsewhere.
	metas := make([]AccountMeta, 0, table.Len()+1)
	metas = append(metas, AccountMeta{
		PublicKey:  b.feePayer,
		IsSigner:   true,
		IsWritable: true,
	})
	for _, meta := range table.Snapshot() {
		if !bytes.Equal(meta.PublicKey, b.feePayer) {
			metas = append(metas, meta)
		}
	}

	// On-chain validation derives each account's signer/writable status
	// from the header counts and its position, so the permission classes
	// must be contiguous: writable signers, readonly signers, writable
	// non-signers, readonly non-signers. First-reference order is kept
	// within each class, and the fee payer leads the writable signers.
	sort.SliceStable(metas, func(i, j int) bool {
		return permissionRank(metas[i]) < permissionRank(metas[j])
	})

	if len(b.accountOrdering) > 0 {
		metas = applyPriorOrdering(metas, b.accountOrdering)
	}

	if len(metas) > MaxAccountKeys {
		return m, errors.Wrapf(ErrTooManyAccounts, "%d accounts", len(metas))
	}

	m.Accounts = make([]ed25519.PublicKey, len(metas))
	for i, meta := range metas {
		m.Accounts[i] = meta.PublicKey
	}

	m.Instructions = make([]CompiledInstruction, len(instructions))
	for i, instruction := range instructions {
		compiled, err := instruction.compile(m.Accounts)
		if err != nil {
			return Message{}, err
		}

		m.Instructions[i] = compiled
	}

	header, err := computeHeader(metas)
	if err != nil {
		return Message{}, err
	}
	m.Header = header

	m.RecentBlockhash, err = ParseBlockhash(blockhash)
	if err != nil {
		return Message{}, err
	}

	return m, nil
}

func permissionRank(m AccountMeta) int {
	switch {
	case m.IsSigner && m.IsWritable:
		return 0
	case m.IsSigner:
		return 1
	case m.IsWritable:
		return 2
	default:
		return 3
	}
}

// applyPriorOrdering re-sorts metas to match the relative order of prior.
// If any key is missing from prior, the ordering cannot be honored and
// metas is returned unchanged.
func applyPriorOrdering(metas []AccountMeta, prior []ed25519.PublicKey) []AccountMeta {
	positions := make([]int, len(metas))
	for i, meta := range metas {
		pos := indexOf(prior, meta.PublicKey)
		if pos < 0 {
			return metas
		}

		positions[i] = pos
	}

	order := make([]int, len(metas))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return positions[order[i]] < positions[order[j]]
	})

	sorted := make([]AccountMeta, len(metas))
	for i, j := range order {
		sorted[i] = metas[j]
	}

	return sorted
}
