package quivr

import (
	"encoding/binary"
	"math/big"
)

func appendBytes(b, data []byte) []byte {
	b = binary.AppendUvarint(b, uint64(len(data)))
	return append(b, data...)
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

// appendBigInt writes a sign byte followed by the magnitude. Nil encodes as zero.
func appendBigInt(b []byte, x *big.Int) []byte {
	if x == nil || x.Sign() == 0 {
		return appendBytes(append(b, 0), nil)
	}
	sign := byte(0)
	if x.Sign() < 0 {
		sign = 1
	}
	return appendBytes(append(b, sign), x.Bytes())
}

func copyBigInt(x *big.Int) *big.Int {
	if x == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(x)
}
