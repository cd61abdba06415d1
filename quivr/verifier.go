package quivr

import (
	"github.com/bits-and-blooms/bitset"
)

// Verifier checks propositions against proofs under one DynamicContext.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	ctx      DynamicContext
	signable []byte
}

// NewVerifier creates a new Verifier.
// The signable bytes of ctx are read once.
func NewVerifier(ctx DynamicContext) *Verifier {
	return &Verifier{
		ctx:      ctx,
		signable: ctx.SignableBytes(),
	}
}

// Verify checks whether proof satisfies prop.
// It returns nil on success, or an [*AuthorizationError].
func (v *Verifier) Verify(prop Proposition, proof Proof) error {
	if prop == nil {
		return evaluationFailed(nil, proof, "missing proposition")
	}
	if proof == nil {
		return evaluationFailed(prop, nil, "missing proof")
	}
	if proof.Tag() != prop.Tag() {
		return evaluationFailed(prop, proof, "proof tag %q does not match proposition tag %q", proof.Tag(), prop.Tag())
	}
	return prop.verify(v, proof)
}

// VerifyThreshold checks that at least k of challenges are satisfied by
// the responses at the same positions.
//
// k == 0 always succeeds. k greater than the number of challenges, an empty
// response list, or a response list of a different length always fail
// without inspecting any pair.
// Otherwise pairs are checked in order until k of them succeed.
func (v *Verifier) VerifyThreshold(challenges []Proposition, responses []Proof, k uint32) error {
	return v.threshold(Threshold{Challenges: challenges, Threshold: k}, ThresholdProof{Responses: responses})
}

func (v *Verifier) threshold(prop Threshold, proof ThresholdProof) error {
	k := uint64(prop.Threshold)
	n := uint64(len(prop.Challenges))

	switch {
	case k == 0:
		return nil
	case k > n:
		return evaluationFailed(prop, proof, "threshold %d exceeds %d challenges", k, n)
	case len(proof.Responses) == 0:
		return evaluationFailed(prop, proof, "no responses")
	case uint64(len(proof.Responses)) != n:
		return evaluationFailed(prop, proof, "%d responses for %d challenges", len(proof.Responses), n)
	}

	satisfied := bitset.New(uint(n))
	count := uint64(0)
	for i := range prop.Challenges {
		if count >= k {
			break
		}
		if v.Verify(prop.Challenges[i], proof.Responses[i]) == nil {
			satisfied.Set(uint(i))
			count++
		}
	}

	if count < k {
		err := evaluationFailed(prop, proof, "%d of %d required challenges satisfied", count, k)
		err.Satisfied = satisfied
		return err
	}
	return nil
}

func proofAs[T Proof](prop Proposition, proof Proof) (T, error) {
	pf, ok := proof.(T)
	if !ok {
		var zero T
		return zero, evaluationFailed(prop, proof, "unexpected proof type %T", proof)
	}
	return pf, nil
}

// checkBind compares the bind of proof to the bind expected at its tag.
func (v *Verifier) checkBind(prop Proposition, proof Proof) error {
	bind, ok := proof.TransactionBind()
	if !ok || !bind.Equal(MakeTxBind(prop.Tag(), v.signable)) {
		return &AuthorizationError{
			Kind:        MessageBindMismatch,
			Proposition: prop,
			Proof:       proof,
		}
	}
	return nil
}

func (p Locked) verify(v *Verifier, proof Proof) error {
	return &AuthorizationError{
		Kind:        LockedPropositionUnsatisfiable,
		Proposition: p,
		Proof:       proof,
	}
}

func (p Digest) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[DigestProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	ok, err := v.ctx.DigestVerify(p.Routine, p.Digest, pf.Preimage)
	if err != nil {
		return &AuthorizationError{Kind: EvaluationFailed, Proposition: p, Proof: pf, Reason: "digest verification", Cause: err}
	}
	if !ok {
		return evaluationFailed(p, pf, "preimage does not open digest")
	}
	return nil
}

func (p DigitalSignature) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[DigitalSignatureProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	ok, err := v.ctx.SignatureVerify(p.Routine, p.VerificationKey, pf.Witness, v.signable)
	if err != nil {
		return &AuthorizationError{Kind: EvaluationFailed, Proposition: p, Proof: pf, Reason: "signature verification", Cause: err}
	}
	if !ok {
		return evaluationFailed(p, pf, "invalid signature")
	}
	return nil
}

func (p HeightRange) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[HeightRangeProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	h, ok := v.ctx.HeightOf(p.Chain)
	if !ok {
		return evaluationFailed(p, pf, "no height for chain %q", p.Chain)
	}
	if h < p.Min || h > p.Max {
		return evaluationFailed(p, pf, "height %d outside [%d, %d]", h, p.Min, p.Max)
	}
	return nil
}

func (p TickRange) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[TickRangeProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	tick := v.ctx.CurrentTick()
	if tick < p.Min || tick > p.Max {
		return evaluationFailed(p, pf, "tick %d outside [%d, %d]", tick, p.Min, p.Max)
	}
	return nil
}

func (p ExactMatch) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[ExactMatchProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	if !v.ctx.ExactMatch(p.Location, p.CompareTo) {
		return evaluationFailed(p, pf, "value at %q does not match", p.Location)
	}
	return nil
}

func (p LessThan) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[LessThanProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	if !v.ctx.LessThan(p.Location, p.CompareTo) {
		return evaluationFailed(p, pf, "value at %q is not less than %v", p.Location, p.CompareTo)
	}
	return nil
}

func (p GreaterThan) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[GreaterThanProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	if !v.ctx.GreaterThan(p.Location, p.CompareTo) {
		return evaluationFailed(p, pf, "value at %q is not greater than %v", p.Location, p.CompareTo)
	}
	return nil
}

func (p EqualTo) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[EqualToProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	if !v.ctx.EqualTo(p.Location, p.CompareTo) {
		return evaluationFailed(p, pf, "value at %q is not equal to %v", p.Location, p.CompareTo)
	}
	return nil
}

func (p Threshold) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[ThresholdProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}
	return v.threshold(p, pf)
}

// Not succeeds exactly when the inner pair fails to verify.
func (p Not) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[NotProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	if v.Verify(p.Proposition, pf.Proof) == nil {
		return evaluationFailed(p, pf, "inner proposition is satisfied")
	}
	return nil
}

func (p And) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[AndProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	if err := v.Verify(p.Left, pf.Left); err != nil {
		return err
	}
	return v.Verify(p.Right, pf.Right)
}

func (p Or) verify(v *Verifier, proof Proof) error {
	pf, err := proofAs[OrProof](p, proof)
	if err != nil {
		return err
	}
	if err := v.checkBind(p, pf); err != nil {
		return err
	}

	if v.Verify(p.Left, pf.Left) == nil {
		return nil
	}
	if v.Verify(p.Right, pf.Right) == nil {
		return nil
	}
	return evaluationFailed(p, pf, "neither side is satisfied")
}
