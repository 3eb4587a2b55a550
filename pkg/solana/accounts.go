package solana

import (
	"bytes"
	"crypto/ed25519"
)

// AccountMeta represents the account information required
// for building transactions.
//
// Equality is by public key only; permission flags on duplicate
// references are merged when accumulated in an AccountMetaTable.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta creates a new AccountMeta representing a writable
// account.
func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

// NewReadonlyAccountMeta creates a new AccountMeta representing a readonly
// account.
func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: false,
	}
}

// AccountMetaTable accumulates the unique accounts referenced by a message,
// keyed by public key, in insertion order.
//
// Adding a key that is already present never appends a duplicate; instead
// the existing entry's permissions are promoted. Permissions are never
// downgraded. Two tables fed the same references in the same order always
// produce the same snapshot, which is what makes compiled account indices
// deterministic.
type AccountMetaTable struct {
	metas []AccountMeta
}

// Add inserts the meta at the end of the table, or merges its permission
// flags into the existing entry if the key was seen before.
func (t *AccountMetaTable) Add(meta AccountMeta) {
	for i := range t.metas {
		if bytes.Equal(t.metas[i].PublicKey, meta.PublicKey) {
			if meta.IsSigner {
				t.metas[i].IsSigner = true
			}
			if meta.IsWritable {
				t.metas[i].IsWritable = true
			}
			return
		}
	}

	t.metas = append(t.metas, meta)
}

// AddAll applies Add for each meta in order.
func (t *AccountMetaTable) AddAll(metas []AccountMeta) {
	for _, m := range metas {
		t.Add(m)
	}
}

// Remove deletes the entry for the given key, preserving the relative
// order of the remaining entries. It reports whether an entry was removed.
func (t *AccountMetaTable) Remove(pub ed25519.PublicKey) bool {
	for i := range t.metas {
		if bytes.Equal(t.metas[i].PublicKey, pub) {
			t.metas = append(t.metas[:i], t.metas[i+1:]...)
			return true
		}
	}

	return false
}

// Len returns the number of unique accounts in the table.
func (t *AccountMetaTable) Len() int {
	return len(t.metas)
}

// Snapshot returns a copy of the table contents in insertion order.
func (t *AccountMetaTable) Snapshot() []AccountMeta {
	out := make([]AccountMeta, len(t.metas))
	copy(out, t.metas)
	return out
}

func indexOf(slice []ed25519.PublicKey, item ed25519.PublicKey) int {
	for i, val := range slice {
		if bytes.Equal(val, item) {
			return i
		}
	}

	return -1
}
