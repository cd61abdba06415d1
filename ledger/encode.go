package ledger

import (
	"encoding/binary"
	"math/big"
)

func appendBytes(b, data []byte) []byte {
	b = binary.AppendUvarint(b, uint64(len(data)))
	return append(b, data...)
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

func appendUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

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
