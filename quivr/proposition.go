package quivr

import (
	"context"
	"math/big"

	"github.com/sp301415/quivr/signing"
)

// Proposition is a spending condition.
//
// The variant set is closed: Locked, Digest, DigitalSignature, HeightRange,
// TickRange, ExactMatch, LessThan, GreaterThan, EqualTo, Threshold, Not, And, Or.
// Propositions are immutable once constructed.
type Proposition interface {
	// Tag returns the variant tag.
	Tag() Tag
	// AppendBytes appends a deterministic encoding of the proposition to b.
	AppendBytes(b []byte) []byte

	verify(v *Verifier, proof Proof) error
	prove(ctx context.Context, pr *proving, existing Proof) Proof
}

// Locked can never be satisfied.
type Locked struct {
	// Data is an optional note explaining why the value is locked.
	Data []byte
}

// Digest is satisfied by a preimage of Digest under Routine.
type Digest struct {
	Routine string
	Digest  []byte
}

// DigitalSignature is satisfied by a signature of the signable bytes under VerificationKey.
type DigitalSignature struct {
	Routine         string
	VerificationKey signing.VerificationKey
}

// HeightRange is satisfied when Min <= height(Chain) <= Max.
type HeightRange struct {
	Chain string
	Min   uint64
	Max   uint64
}

// TickRange is satisfied when Min <= current tick <= Max.
type TickRange struct {
	Min uint64
	Max uint64
}

// ExactMatch is satisfied when the value at Location equals CompareTo.
type ExactMatch struct {
	Location  string
	CompareTo []byte
}

// LessThan is satisfied when the value at Location is less than CompareTo.
type LessThan struct {
	Location  string
	CompareTo *big.Int
}

// GreaterThan is satisfied when the value at Location is greater than CompareTo.
type GreaterThan struct {
	Location  string
	CompareTo *big.Int
}

// EqualTo is satisfied when the value at Location equals CompareTo.
type EqualTo struct {
	Location  string
	CompareTo *big.Int
}

// Threshold is satisfied when at least Threshold of Challenges are satisfied.
// Challenges are paired with responses by position.
type Threshold struct {
	Challenges []Proposition
	Threshold  uint32
}

// Not is satisfied when Proposition is not.
type Not struct {
	Proposition Proposition
}

// And is satisfied when both Left and Right are.
type And struct {
	Left  Proposition
	Right Proposition
}

// Or is satisfied when Left or Right is.
type Or struct {
	Left  Proposition
	Right Proposition
}

// NewDigest creates a Digest proposition.
func NewDigest(routine string, digest []byte) Digest {
	return Digest{Routine: routine, Digest: append([]byte(nil), digest...)}
}

// NewDigitalSignature creates a DigitalSignature proposition.
func NewDigitalSignature(routine string, vk signing.VerificationKey) DigitalSignature {
	return DigitalSignature{Routine: routine, VerificationKey: append(signing.VerificationKey(nil), vk...)}
}

// NewExactMatch creates an ExactMatch proposition.
func NewExactMatch(location string, compareTo []byte) ExactMatch {
	return ExactMatch{Location: location, CompareTo: append([]byte(nil), compareTo...)}
}

// NewLessThan creates a LessThan proposition.
func NewLessThan(location string, compareTo *big.Int) LessThan {
	return LessThan{Location: location, CompareTo: copyBigInt(compareTo)}
}

// NewGreaterThan creates a GreaterThan proposition.
func NewGreaterThan(location string, compareTo *big.Int) GreaterThan {
	return GreaterThan{Location: location, CompareTo: copyBigInt(compareTo)}
}

// NewEqualTo creates an EqualTo proposition.
func NewEqualTo(location string, compareTo *big.Int) EqualTo {
	return EqualTo{Location: location, CompareTo: copyBigInt(compareTo)}
}

// NewThreshold creates a k-of-n Threshold proposition.
func NewThreshold(challenges []Proposition, k uint32) Threshold {
	return Threshold{Challenges: append([]Proposition(nil), challenges...), Threshold: k}
}

func (Locked) Tag() Tag           { return TagLocked }
func (Digest) Tag() Tag           { return TagDigest }
func (DigitalSignature) Tag() Tag { return TagDigitalSignature }
func (HeightRange) Tag() Tag      { return TagHeightRange }
func (TickRange) Tag() Tag        { return TagTickRange }
func (ExactMatch) Tag() Tag       { return TagExactMatch }
func (LessThan) Tag() Tag         { return TagLessThan }
func (GreaterThan) Tag() Tag      { return TagGreaterThan }
func (EqualTo) Tag() Tag          { return TagEqualTo }
func (Threshold) Tag() Tag        { return TagThreshold }
func (Not) Tag() Tag              { return TagNot }
func (And) Tag() Tag              { return TagAnd }
func (Or) Tag() Tag               { return TagOr }

func (p Locked) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagLocked))
	return appendBytes(b, p.Data)
}

func (p Digest) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagDigest))
	b = appendString(b, p.Routine)
	return appendBytes(b, p.Digest)
}

func (p DigitalSignature) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagDigitalSignature))
	b = appendString(b, p.Routine)
	return appendBytes(b, p.VerificationKey)
}

func (p HeightRange) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagHeightRange))
	b = appendString(b, p.Chain)
	b = appendUint64(b, p.Min)
	return appendUint64(b, p.Max)
}

func (p TickRange) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagTickRange))
	b = appendUint64(b, p.Min)
	return appendUint64(b, p.Max)
}

func (p ExactMatch) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagExactMatch))
	b = appendString(b, p.Location)
	return appendBytes(b, p.CompareTo)
}

func (p LessThan) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagLessThan))
	b = appendString(b, p.Location)
	return appendBigInt(b, p.CompareTo)
}

func (p GreaterThan) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagGreaterThan))
	b = appendString(b, p.Location)
	return appendBigInt(b, p.CompareTo)
}

func (p EqualTo) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagEqualTo))
	b = appendString(b, p.Location)
	return appendBigInt(b, p.CompareTo)
}

func (p Threshold) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagThreshold))
	b = appendUint64(b, uint64(p.Threshold))
	b = appendUint64(b, uint64(len(p.Challenges)))
	for _, c := range p.Challenges {
		b = AppendProposition(b, c)
	}
	return b
}

func (p Not) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagNot))
	return AppendProposition(b, p.Proposition)
}

func (p And) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagAnd))
	b = AppendProposition(b, p.Left)
	return AppendProposition(b, p.Right)
}

func (p Or) AppendBytes(b []byte) []byte {
	b = appendString(b, string(TagOr))
	b = AppendProposition(b, p.Left)
	return AppendProposition(b, p.Right)
}

// AppendProposition appends the encoding of p to b.
// A nil proposition encodes as an empty tag.
func AppendProposition(b []byte, p Proposition) []byte {
	if p == nil {
		return appendString(b, "")
	}
	return p.AppendBytes(b)
}
