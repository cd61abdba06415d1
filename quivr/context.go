package quivr

import (
	"math/big"

	"github.com/sp301415/quivr/digest"
	"github.com/sp301415/quivr/signing"
)

// DynamicContext supplies the runtime facts a Verifier needs.
// It is read-only for the duration of one evaluation pass.
type DynamicContext interface {
	// SignableBytes returns the bytes proofs are bound to and signatures are made over.
	SignableBytes() []byte
	// CurrentTick returns the tick the transaction is evaluated at.
	CurrentTick() uint64
	// HeightOf returns the height of the named chain, if known.
	HeightOf(chain string) (uint64, bool)

	ExactMatch(location string, compareTo []byte) bool
	LessThan(location string, compareTo *big.Int) bool
	GreaterThan(location string, compareTo *big.Int) bool
	EqualTo(location string, compareTo *big.Int) bool

	// DigestVerify reports whether digest opens to preimage under routine.
	DigestVerify(routine string, digest []byte, preimage digest.Preimage) (bool, error)
	// SignatureVerify reports whether sig is a signature of msg under vk.
	SignatureVerify(routine string, vk signing.VerificationKey, sig, msg []byte) (bool, error)
}
