package quivr

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Tag names a Proposition or Proof variant.
type Tag string

// Variant tags. A Proof is evaluated against a Proposition only when their tags are equal.
const (
	TagLocked           Tag = "locked"
	TagDigest           Tag = "digest"
	TagDigitalSignature Tag = "signature"
	TagHeightRange      Tag = "height_range"
	TagTickRange        Tag = "tick_range"
	TagExactMatch       Tag = "exact_match"
	TagLessThan         Tag = "less_than"
	TagGreaterThan      Tag = "greater_than"
	TagEqualTo          Tag = "equal_to"
	TagThreshold        Tag = "threshold"
	TagNot              Tag = "not"
	TagAnd              Tag = "and"
	TagOr               Tag = "or"

	// TagEmpty is carried only by EmptyProof, and matches no Proposition.
	TagEmpty Tag = "empty"
)

// TxBindSize is the size of a TxBind in bytes.
const TxBindSize = blake2b.Size256

// TxBind binds a proof node to one transaction.
type TxBind [TxBindSize]byte

// MakeTxBind returns Blake2b256(tag || signable).
func MakeTxBind(tag Tag, signable []byte) TxBind {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(tag))
	h.Write(signable)

	var b TxBind
	copy(b[:], h.Sum(nil))
	return b
}

// Equal reports whether two binds are equal in constant time.
func (b TxBind) Equal(other TxBind) bool {
	return subtle.ConstantTimeCompare(b[:], other[:]) == 1
}

// String returns the hex encoding of b.
func (b TxBind) String() string {
	return hex.EncodeToString(b[:])
}
