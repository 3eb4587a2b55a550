package solana

import "github.com/pkg/errors"

// Build failures are fatal to the Build call that raised them; the builder
// state itself is never partially consumed, so a caller can correct the
// input and build again.
var (
	// ErrMissingBlockhash indicates neither a recent blockhash nor nonce
	// info was set on the builder.
	ErrMissingBlockhash = errors.New("no recent blockhash or nonce info set")

	// ErrNoInstructions indicates a message was built with no instructions.
	ErrNoInstructions = errors.New("no instructions provided")

	// ErrMissingFeePayer indicates no fee payer was set on the builder.
	ErrMissingFeePayer = errors.New("no fee payer set")

	// ErrInvalidBlockhash indicates a blockhash or nonce value that does
	// not decode to exactly 32 bytes.
	ErrInvalidBlockhash = errors.New("invalid blockhash")

	// ErrTooManyAccounts indicates the account table grew past what a one
	// byte account index can address.
	ErrTooManyAccounts = errors.New("account table exceeds max addressable entries")

	// ErrAccountNotFound indicates an instruction referenced a key absent
	// from the finalized account table. This is an internal invariant
	// violation, not a user input error.
	ErrAccountNotFound = errors.New("account not found in account table")
)
