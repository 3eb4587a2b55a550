package solana

import (
	"math"

	"github.com/pkg/errors"
)

// Header holds the signing and permission counts derived from a finalized
// account list. It is never set directly.
type Header struct {
	NumRequiredSignatures byte
	NumReadonlySigned     byte
	NumReadonlyUnsigned   byte
}

// computeHeader derives the header counts from a finalized account list.
//
// Each count is a single byte on the wire, so exceeding 255 is a fatal
// error rather than a silent wrap.
func computeHeader(metas []AccountMeta) (Header, error) {
	var signed, readonlySigned, readonlyUnsigned int

	for _, m := range metas {
		if m.IsSigner {
			signed++

			if !m.IsWritable {
				readonlySigned++
			}
		} else if !m.IsWritable {
			readonlyUnsigned++
		}
	}

	if signed > math.MaxUint8 || readonlyUnsigned > math.MaxUint8 {
		return Header{}, errors.Errorf("header count out of range: %d signers, %d readonly", signed, readonlyUnsigned)
	}

	return Header{
		NumRequiredSignatures: byte(signed),
		NumReadonlySigned:     byte(readonlySigned),
		NumReadonlyUnsigned:   byte(readonlyUnsigned),
	}, nil
}
