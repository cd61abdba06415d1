package quivr

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sp301415/quivr/digest"
	"github.com/sp301415/quivr/signing"
)

// Indices locate a child key below the main key.
type Indices struct {
	X uint32
	Y uint32
	Z uint32
}

// SecretStore supplies the secrets a Prover needs.
// Lookups report ok == false when the secret is unknown.
type SecretStore interface {
	// Preimage returns the preimage of a Digest proposition.
	Preimage(ctx context.Context, prop Digest) (p digest.Preimage, ok bool, err error)
	// Indices returns the indices of the key that signs for a DigitalSignature proposition.
	Indices(ctx context.Context, prop DigitalSignature) (idx Indices, ok bool, err error)
	// DeriveChildKeys derives the key pair at idx below main.
	DeriveChildKeys(ctx context.Context, main signing.KeyPair, idx Indices) (signing.KeyPair, error)
}

// Prover builds proof trees.
// Proving never fails: a leaf that cannot be proven becomes an EmptyProof.
type Prover struct {
	store   SecretStore
	mainKey signing.KeyPair
	signers *signing.Registry

	logger zerolog.Logger
}

// ProverOption configures a Prover.
type ProverOption func(*Prover)

// WithSigners sets the signature routines the Prover may sign with.
func WithSigners(signers *signing.Registry) ProverOption {
	return func(p *Prover) {
		p.signers = signers
	}
}

// WithLogger sets the logger of the Prover.
func WithLogger(logger zerolog.Logger) ProverOption {
	return func(p *Prover) {
		p.logger = logger.With().Str("component", "prover").Logger()
	}
}

// NewProver creates a new Prover.
// A nil store yields a Prover that can only build secret-free proofs.
func NewProver(store SecretStore, mainKey signing.KeyPair, opts ...ProverOption) *Prover {
	p := &Prover{
		store:   store,
		mainKey: mainKey,
		signers: signing.NewRegistry(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// proving is the state of one proving pass.
type proving struct {
	*Prover

	signable []byte
	parallel bool
}

// Prove builds a proof of prop bound to signable.
//
// Leaf proofs in existing with the matching tag are reused unchanged.
// Composite nodes are always rebuilt with fresh binds.
func (p *Prover) Prove(ctx context.Context, signable []byte, prop Proposition, existing Proof) Proof {
	pr := &proving{Prover: p, signable: signable}
	return pr.prove(ctx, prop, existing)
}

// ProveParallel is like Prove, but builds sibling sub-proofs concurrently.
func (p *Prover) ProveParallel(ctx context.Context, signable []byte, prop Proposition, existing Proof) Proof {
	pr := &proving{Prover: p, signable: signable, parallel: true}
	return pr.prove(ctx, prop, existing)
}

func (pr *proving) prove(ctx context.Context, prop Proposition, existing Proof) Proof {
	if prop == nil {
		return EmptyProof{}
	}
	return prop.prove(ctx, pr, existing)
}

// proveAll proves props against existing by position.
// Results are joined in order.
func (pr *proving) proveAll(ctx context.Context, props []Proposition, existing []Proof) []Proof {
	out := make([]Proof, len(props))
	existingAt := func(i int) Proof {
		if i < len(existing) && existing[i] != nil {
			return existing[i]
		}
		return EmptyProof{}
	}

	if !pr.parallel || len(props) < 2 {
		for i := range props {
			out[i] = pr.prove(ctx, props[i], existingAt(i))
		}
		return out
	}

	var wg sync.WaitGroup
	wg.Add(len(props))
	for i := range props {
		go func(i int) {
			defer wg.Done()
			out[i] = pr.prove(ctx, props[i], existingAt(i))
		}(i)
	}
	wg.Wait()
	return out
}

func (pr *proving) bind(tag Tag) TxBind {
	return MakeTxBind(tag, pr.signable)
}

func (pr *proving) empty(prop Proposition, reason string, err error) Proof {
	ev := pr.logger.Debug()
	if err != nil {
		ev = pr.logger.Warn().Err(err)
	}
	ev.Str("tag", string(prop.Tag())).Str("reason", reason).Msg("proof left empty")
	return EmptyProof{}
}

func reusable(prop Proposition, existing Proof) bool {
	return existing != nil && existing.Tag() == prop.Tag()
}

func (p Locked) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	return LockedProof{}
}

func (p Digest) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	if pr.store == nil {
		return pr.empty(p, "no secret store", nil)
	}

	preimage, ok, err := pr.store.Preimage(ctx, p)
	if err != nil {
		return pr.empty(p, "preimage lookup failed", err)
	}
	if !ok {
		return pr.empty(p, "preimage not found", nil)
	}
	return DigestProof{Bind: pr.bind(TagDigest), Preimage: preimage}
}

func (p DigitalSignature) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	if pr.store == nil {
		return pr.empty(p, "no secret store", nil)
	}

	routine, ok := pr.signers.Lookup(p.Routine)
	if !ok {
		return pr.empty(p, "unsupported routine "+p.Routine, nil)
	}

	idx, ok, err := pr.store.Indices(ctx, p)
	if err != nil {
		return pr.empty(p, "indices lookup failed", err)
	}
	if !ok {
		return pr.empty(p, "indices not found", nil)
	}

	child, err := pr.store.DeriveChildKeys(ctx, pr.mainKey, idx)
	if err != nil {
		return pr.empty(p, "key derivation failed", err)
	}

	sig, err := routine.Sign(child.SecretKey, pr.signable)
	if err != nil {
		return pr.empty(p, "signing failed", err)
	}
	return DigitalSignatureProof{Bind: pr.bind(TagDigitalSignature), Witness: sig}
}

func (p HeightRange) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	return HeightRangeProof{Bind: pr.bind(TagHeightRange)}
}

func (p TickRange) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	return TickRangeProof{Bind: pr.bind(TagTickRange)}
}

func (p ExactMatch) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	return ExactMatchProof{Bind: pr.bind(TagExactMatch)}
}

func (p LessThan) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	return LessThanProof{Bind: pr.bind(TagLessThan)}
}

func (p GreaterThan) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	return GreaterThanProof{Bind: pr.bind(TagGreaterThan)}
}

func (p EqualTo) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	if reusable(p, existing) {
		return existing
	}
	return EqualToProof{Bind: pr.bind(TagEqualTo)}
}

func (p Threshold) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	var responses []Proof
	if pf, ok := existing.(ThresholdProof); ok {
		responses = pf.Responses
	}
	return ThresholdProof{
		Bind:      pr.bind(TagThreshold),
		Responses: pr.proveAll(ctx, p.Challenges, responses),
	}
}

func (p Not) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	var inner Proof = EmptyProof{}
	if pf, ok := existing.(NotProof); ok && pf.Proof != nil {
		inner = pf.Proof
	}
	return NotProof{
		Bind:  pr.bind(TagNot),
		Proof: pr.prove(ctx, p.Proposition, inner),
	}
}

func (p And) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	var sub []Proof
	if pf, ok := existing.(AndProof); ok {
		sub = []Proof{pf.Left, pf.Right}
	}
	out := pr.proveAll(ctx, []Proposition{p.Left, p.Right}, sub)
	return AndProof{Bind: pr.bind(TagAnd), Left: out[0], Right: out[1]}
}

func (p Or) prove(ctx context.Context, pr *proving, existing Proof) Proof {
	var sub []Proof
	if pf, ok := existing.(OrProof); ok {
		sub = []Proof{pf.Left, pf.Right}
	}
	out := pr.proveAll(ctx, []Proposition{p.Left, p.Right}, sub)
	return OrProof{Bind: pr.bind(TagOr), Left: out[0], Right: out[1]}
}
