package ledger

import (
	"slices"

	"github.com/sp301415/quivr/quivr"
)

// Challenge is an entry of a Predicate lock.
// It is either a [Revealed] proposition or a [Previous] reference.
type Challenge interface {
	appendChallenge(b []byte) []byte
}

// Revealed is a challenge that carries its proposition.
type Revealed struct {
	Proposition quivr.Proposition
}

// Previous refers to a proposition revealed by another lock.
// It is never evaluated.
type Previous struct {
	Address LockAddress
	Index   uint32
}

func (c Revealed) appendChallenge(b []byte) []byte {
	return quivr.AppendProposition(append(b, 0), c.Proposition)
}

func (c Previous) appendChallenge(b []byte) []byte {
	b = append(b, 1)
	b = appendUint32(b, c.Address.Network)
	b = appendUint32(b, c.Address.Ledger)
	b = append(b, c.Address.ID[:]...)
	return appendUint32(b, c.Index)
}

// Lock is the spending condition of an output.
type Lock interface {
	appendLock(b []byte) []byte
}

// Predicate is a k-of-n lock over its challenges.
type Predicate struct {
	Challenges []Challenge
	Threshold  uint32
}

// Image is a k-of-n lock over the digests of its leaves.
type Image struct {
	Leaves    [][]byte
	Threshold uint32
}

// Commitment is a k-of-n lock over the Merkle root of its leaves.
type Commitment struct {
	Root      []byte
	Size      uint32
	Threshold uint32
}

// NewPredicate returns a Predicate lock revealing every proposition in props.
func NewPredicate(threshold uint32, props ...quivr.Proposition) Predicate {
	challenges := make([]Challenge, len(props))
	for i, p := range props {
		challenges[i] = Revealed{Proposition: p}
	}
	return Predicate{Challenges: challenges, Threshold: threshold}
}

// Revealed returns the revealed propositions of p in order.
// Previous challenges are skipped.
func (p Predicate) Revealed() []quivr.Proposition {
	out := make([]quivr.Proposition, 0, len(p.Challenges))
	for _, c := range p.Challenges {
		if r, ok := c.(Revealed); ok {
			out = append(out, r.Proposition)
		}
	}
	return out
}

func (p Predicate) appendLock(b []byte) []byte {
	b = append(b, 0)
	b = appendUint32(b, p.Threshold)
	b = appendUint64(b, uint64(len(p.Challenges)))
	for _, c := range p.Challenges {
		b = c.appendChallenge(b)
	}
	return b
}

func (p Image) appendLock(b []byte) []byte {
	b = append(b, 1)
	b = appendUint32(b, p.Threshold)
	b = appendUint64(b, uint64(len(p.Leaves)))
	for _, l := range p.Leaves {
		b = appendBytes(b, l)
	}
	return b
}

func (p Commitment) appendLock(b []byte) []byte {
	b = append(b, 2)
	b = appendUint32(b, p.Threshold)
	b = appendBytes(b, p.Root)
	return appendUint32(b, p.Size)
}

// AppendLock appends the encoding of l to b.
func AppendLock(b []byte, l Lock) []byte {
	if l == nil {
		return append(b, 0xff)
	}
	return l.appendLock(b)
}

// Attestation pairs a lock with the proofs that open it.
type Attestation interface {
	// Proofs returns the responses of the attestation.
	Proofs() []quivr.Proof
	appendAttestation(b []byte) []byte
}

// PredicateAttestation opens a Predicate lock.
// Responses pair positionally with the challenges of the lock.
type PredicateAttestation struct {
	Lock      Predicate
	Responses []quivr.Proof
}

// ImageAttestation opens an Image lock with its known propositions.
type ImageAttestation struct {
	Lock      Image
	Known     []quivr.Proposition
	Responses []quivr.Proof
}

// CommitmentAttestation opens a Commitment lock with its known propositions.
type CommitmentAttestation struct {
	Lock      Commitment
	Known     []quivr.Proposition
	Responses []quivr.Proof
}

// NewPredicateAttestation returns an unproven attestation of lock.
// Every response is an EmptyProof.
func NewPredicateAttestation(lock Predicate) PredicateAttestation {
	responses := make([]quivr.Proof, len(lock.Challenges))
	for i := range responses {
		responses[i] = quivr.EmptyProof{}
	}
	return PredicateAttestation{Lock: lock, Responses: responses}
}

func (a PredicateAttestation) Proofs() []quivr.Proof  { return a.Responses }
func (a ImageAttestation) Proofs() []quivr.Proof      { return a.Responses }
func (a CommitmentAttestation) Proofs() []quivr.Proof { return a.Responses }

// WithResponses returns a copy of a with its responses replaced.
func (a PredicateAttestation) WithResponses(responses []quivr.Proof) PredicateAttestation {
	return PredicateAttestation{Lock: a.Lock, Responses: slices.Clone(responses)}
}

func (a PredicateAttestation) appendAttestation(b []byte) []byte {
	return AppendLock(append(b, 0), a.Lock)
}

func (a ImageAttestation) appendAttestation(b []byte) []byte {
	b = AppendLock(append(b, 1), a.Lock)
	return appendKnown(b, a.Known)
}

func (a CommitmentAttestation) appendAttestation(b []byte) []byte {
	b = AppendLock(append(b, 2), a.Lock)
	return appendKnown(b, a.Known)
}

func appendKnown(b []byte, known []quivr.Proposition) []byte {
	b = appendUint64(b, uint64(len(known)))
	for _, p := range known {
		b = quivr.AppendProposition(b, p)
	}
	return b
}

func appendAttestation(b []byte, a Attestation) []byte {
	if a == nil {
		return append(b, 0xff)
	}
	return a.appendAttestation(b)
}
