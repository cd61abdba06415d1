package quivr

import (
	"github.com/sp301415/quivr/digest"
)

// Proof is a witness for a Proposition of the same tag.
//
// Every variant except LockedProof and EmptyProof carries a TxBind.
// Proofs are immutable once constructed.
type Proof interface {
	// Tag returns the variant tag.
	Tag() Tag
	// TransactionBind returns the bind of the proof, if it carries one.
	TransactionBind() (TxBind, bool)

	isProof()
}

// EmptyProof stands in for a proof that could not be built.
// It satisfies no proposition.
type EmptyProof struct{}

// LockedProof is the only proof shape for Locked. It never verifies.
type LockedProof struct{}

// DigestProof opens a Digest proposition.
type DigestProof struct {
	Bind     TxBind
	Preimage digest.Preimage
}

// DigitalSignatureProof carries a signature of the signable bytes.
type DigitalSignatureProof struct {
	Bind    TxBind
	Witness []byte
}

// HeightRangeProof claims the chain height lies in a HeightRange.
type HeightRangeProof struct{ Bind TxBind }

// TickRangeProof claims the current tick lies in a TickRange.
type TickRangeProof struct{ Bind TxBind }

// ExactMatchProof claims the value at a location equals ExactMatch.CompareTo.
type ExactMatchProof struct{ Bind TxBind }

// LessThanProof claims the value at a location is below LessThan.CompareTo.
type LessThanProof struct{ Bind TxBind }

// GreaterThanProof claims the value at a location is above GreaterThan.CompareTo.
type GreaterThanProof struct{ Bind TxBind }

// EqualToProof claims the value at a location equals EqualTo.CompareTo.
type EqualToProof struct{ Bind TxBind }

// ThresholdProof pairs Responses with the challenges of a Threshold by position.
type ThresholdProof struct {
	Bind      TxBind
	Responses []Proof
}

// NotProof wraps the proof of the negated proposition.
type NotProof struct {
	Bind  TxBind
	Proof Proof
}

// AndProof holds the proofs of both sides of an And.
type AndProof struct {
	Bind  TxBind
	Left  Proof
	Right Proof
}

// OrProof holds the proofs of both sides of an Or. One of them may be empty.
type OrProof struct {
	Bind  TxBind
	Left  Proof
	Right Proof
}

func (EmptyProof) Tag() Tag            { return TagEmpty }
func (LockedProof) Tag() Tag           { return TagLocked }
func (DigestProof) Tag() Tag           { return TagDigest }
func (DigitalSignatureProof) Tag() Tag { return TagDigitalSignature }
func (HeightRangeProof) Tag() Tag      { return TagHeightRange }
func (TickRangeProof) Tag() Tag        { return TagTickRange }
func (ExactMatchProof) Tag() Tag       { return TagExactMatch }
func (LessThanProof) Tag() Tag         { return TagLessThan }
func (GreaterThanProof) Tag() Tag      { return TagGreaterThan }
func (EqualToProof) Tag() Tag          { return TagEqualTo }
func (ThresholdProof) Tag() Tag        { return TagThreshold }
func (NotProof) Tag() Tag              { return TagNot }
func (AndProof) Tag() Tag              { return TagAnd }
func (OrProof) Tag() Tag               { return TagOr }

func (EmptyProof) TransactionBind() (TxBind, bool)              { return TxBind{}, false }
func (LockedProof) TransactionBind() (TxBind, bool)             { return TxBind{}, false }
func (p DigestProof) TransactionBind() (TxBind, bool)           { return p.Bind, true }
func (p DigitalSignatureProof) TransactionBind() (TxBind, bool) { return p.Bind, true }
func (p HeightRangeProof) TransactionBind() (TxBind, bool)      { return p.Bind, true }
func (p TickRangeProof) TransactionBind() (TxBind, bool)        { return p.Bind, true }
func (p ExactMatchProof) TransactionBind() (TxBind, bool)       { return p.Bind, true }
func (p LessThanProof) TransactionBind() (TxBind, bool)         { return p.Bind, true }
func (p GreaterThanProof) TransactionBind() (TxBind, bool)      { return p.Bind, true }
func (p EqualToProof) TransactionBind() (TxBind, bool)          { return p.Bind, true }
func (p ThresholdProof) TransactionBind() (TxBind, bool)        { return p.Bind, true }
func (p NotProof) TransactionBind() (TxBind, bool)              { return p.Bind, true }
func (p AndProof) TransactionBind() (TxBind, bool)              { return p.Bind, true }
func (p OrProof) TransactionBind() (TxBind, bool)               { return p.Bind, true }

func (EmptyProof) isProof()            {}
func (LockedProof) isProof()           {}
func (DigestProof) isProof()           {}
func (DigitalSignatureProof) isProof() {}
func (HeightRangeProof) isProof()      {}
func (TickRangeProof) isProof()        {}
func (ExactMatchProof) isProof()       {}
func (LessThanProof) isProof()         {}
func (GreaterThanProof) isProof()      {}
func (EqualToProof) isProof()          {}
func (ThresholdProof) isProof()        {}
func (NotProof) isProof()              {}
func (AndProof) isProof()              {}
func (OrProof) isProof()               {}

// IsEmpty reports whether p is nil or an EmptyProof.
func IsEmpty(p Proof) bool {
	if p == nil {
		return true
	}
	_, ok := p.(EmptyProof)
	return ok
}
