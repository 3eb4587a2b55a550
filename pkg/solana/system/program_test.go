package system

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashrail/solana-sdk/pkg/solana"
)

// 32 zero bytes in base58.
var testBlockhash = strings.Repeat("1", 32)

func compile(t *testing.T, payer ed25519.PublicKey, instructions ...solana.Instruction) solana.Message {
	m, err := solana.NewMessageBuilder().
		AddInstruction(instructions...).
		SetFeePayer(payer).
		SetRecentBlockhash(testBlockhash).
		Build()
	require.NoError(t, err)

	return m
}

func TestCreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	command := make([]byte, 4)
	lamports := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamports, 12345)
	size := make([]byte, 8)
	binary.LittleEndian.PutUint64(size, 67890)

	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, lamports, instruction.Data[4:12])
	assert.Equal(t, size, instruction.Data[12:20])
	assert.Equal(t, []byte(keys[2]), instruction.Data[20:52])

	decompiled, err := DecompileCreateAccount(compile(t, keys[0], instruction), 0)
	require.NoError(t, err)
	assert.Equal(t, decompiled.Funder, keys[0])
	assert.Equal(t, decompiled.Address, keys[1])
	assert.Equal(t, decompiled.Owner, keys[2])
	assert.EqualValues(t, decompiled.Lamports, 12345)
	assert.EqualValues(t, decompiled.Size, 67890)
}

func TestDecompileNonCreate(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	instruction.Accounts = instruction.Accounts[:1]
	_, err := DecompileCreateAccount(compile(t, keys[0], instruction), 0)
	assert.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid number of accounts"), err)

	binary.LittleEndian.PutUint32(instruction.Data, commandAdvanceNonceAccount)
	_, err = DecompileCreateAccount(compile(t, keys[0], instruction), 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = make([]byte, 3)
	_, err = DecompileCreateAccount(compile(t, keys[0], instruction), 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[3]
	_, err = DecompileCreateAccount(compile(t, keys[0], instruction), 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	_, err = DecompileCreateAccount(compile(t, keys[0], instruction), 1)
	assert.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "instruction doesn't exist"))
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction := Transfer(keys[0], keys[1], 123456789)

	command := make([]byte, 4)
	binary.LittleEndian.PutUint32(command, commandTransfer)
	lamports := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamports, 123456789)

	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, lamports, instruction.Data[4:12])

	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)

	decompiled, err := DecompileTransfer(compile(t, keys[0], instruction), 0)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Sender)
	assert.Equal(t, keys[1], decompiled.Recipient)
	assert.EqualValues(t, 123456789, decompiled.Lamports)
}

func TestAdvanceNonce(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := AdvanceNonce(keys[0], keys[1])

	command := make([]byte, 4)
	binary.LittleEndian.PutUint32(command, commandAdvanceNonceAccount)
	assert.EqualValues(t, command, instruction.Data)
	assert.EqualValues(t, ProgramKey, instruction.Program)

	require.Len(t, instruction.Accounts, 3)

	assert.EqualValues(t, keys[0], instruction.Accounts[0].PublicKey)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)

	assert.EqualValues(t, RecentBlockhashesSysVar, instruction.Accounts[1].PublicKey)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.False(t, instruction.Accounts[1].IsWritable)

	assert.EqualValues(t, keys[1], instruction.Accounts[2].PublicKey)
	assert.True(t, instruction.Accounts[2].IsSigner)

	decompiled, err := DecompileAdvanceNonce(compile(t, keys[2], instruction), 0)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Nonce)
	assert.EqualValues(t, keys[1], decompiled.Authority)

	instruction.Accounts[1].PublicKey = keys[2]
	_, err = DecompileAdvanceNonce(compile(t, keys[2], instruction), 0)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid RecentBlockhashes"))

	instruction.Accounts = instruction.Accounts[:1]
	_, err = DecompileAdvanceNonce(compile(t, keys[2], instruction), 0)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid number of accounts"))

	binary.LittleEndian.PutUint32(instruction.Data, commandCreateAccount)
	_, err = DecompileAdvanceNonce(compile(t, keys[2], instruction), 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = nil
	_, err = DecompileAdvanceNonce(compile(t, keys[2], instruction), 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[2]
	_, err = DecompileAdvanceNonce(compile(t, keys[2], instruction), 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestInitializeNonce(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction := InitializeNonce(keys[0], keys[1])

	command := make([]byte, 4)
	binary.LittleEndian.PutUint32(command, commandInitializeNonceAccount)
	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, []byte(keys[1]), instruction.Data[4:36])

	require.Len(t, instruction.Accounts, 3)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[0].IsSigner)
}

func TestParseNonceAccount(t *testing.T) {
	keys := generateKeys(t, 1)

	var value solana.Blockhash
	for i := range value {
		value[i] = byte(i)
	}

	data := make([]byte, nonceAccountSize)
	copy(data[8:], keys[0])
	copy(data[8+32:], value[:])
	binary.LittleEndian.PutUint64(data[8+32+32:], 5000)

	account, err := ParseNonceAccount(data)
	require.NoError(t, err)
	assert.Equal(t, keys[0], account.Authority)
	assert.Equal(t, value, account.Value)
	assert.EqualValues(t, 5000, account.FeePerSignature)

	_, err = ParseNonceAccount(data[:40])
	assert.Error(t, err)
}

func TestNewNonceInfo(t *testing.T) {
	keys := generateKeys(t, 4)
	nonce, authority, payer, program := keys[0], keys[1], keys[2], keys[3]

	var value solana.Blockhash
	for i := range value {
		value[i] = byte(0xff - i)
	}

	m, err := solana.NewMessageBuilder().
		AddInstruction(solana.NewInstruction(program, []byte{1, 2})).
		SetFeePayer(payer).
		SetNonceInfo(NewNonceInfo(nonce, authority, value)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, value, m.RecentBlockhash)

	decompiled, err := DecompileAdvanceNonce(m, 0)
	require.NoError(t, err)
	assert.EqualValues(t, nonce, decompiled.Nonce)
	assert.EqualValues(t, authority, decompiled.Authority)
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}
