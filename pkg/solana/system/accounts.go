package system

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/cashrail/solana-sdk/pkg/solana"
	"github.com/cashrail/solana-sdk/pkg/solana/binary"
)

// Nonce account state layout:
//
//	(4)  u32:    version
//	(4)  u32:    state
//	(32) pubkey: authority
//	(32) pubkey: blockhash/value
//	(8)  u64:    lamports per signature
const nonceAccountSize = 4 + 4 + 32 + 32 + 8

// NonceAccount is the decoded state of an initialized nonce account.
type NonceAccount struct {
	Authority       ed25519.PublicKey
	Value           solana.Blockhash
	FeePerSignature uint64
}

// ParseNonceAccount decodes a nonce account's raw data.
func ParseNonceAccount(data []byte) (*NonceAccount, error) {
	if len(data) != nonceAccountSize {
		return nil, errors.Errorf("invalid nonce account size: %d", len(data))
	}

	var account NonceAccount
	offset := 4 + 4
	binary.GetKey32(data[offset:], &account.Authority, &offset)
	copy(account.Value[:], data[offset:offset+32])
	offset += 32
	binary.GetUint64(data[offset:], &account.FeePerSignature, &offset)

	return &account, nil
}

// NewNonceInfo assembles the builder input for a durable nonce message:
// the account's current value stands in for a recent blockhash, and the
// advance instruction is prepended at build time.
func NewNonceInfo(nonce, authority ed25519.PublicKey, value solana.Blockhash) solana.NonceInfo {
	return solana.NonceInfo{
		Nonce:              value.String(),
		AdvanceInstruction: AdvanceNonce(nonce, authority),
	}
}
