// Package authz checks the attestations of every input of a transaction.
package authz

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sp301415/quivr/ledger"
	"github.com/sp301415/quivr/quivr"
)

// Interpreter applies threshold verification to every input of a transaction.
type Interpreter struct {
	logger zerolog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger of the Interpreter.
func WithLogger(logger zerolog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger.With().Str("component", "authz").Logger()
	}
}

// NewInterpreter creates a new Interpreter.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Validate checks the attestation of every input of tx under ctx.
// It stops at the first failing input and returns an error wrapping the
// [*quivr.AuthorizationError] of that input.
// On success tx is returned unchanged.
func (in *Interpreter) Validate(ctx quivr.DynamicContext, tx *ledger.IoTransaction) (*ledger.IoTransaction, error) {
	v := quivr.NewVerifier(ctx)
	for i, input := range tx.Inputs {
		if err := in.validateInput(v, input.Attestation); err != nil {
			in.logger.Debug().Int("input", i).Err(err).Msg("attestation rejected")
			return nil, fmt.Errorf("authz: input %d: %w", i, err)
		}
	}
	return tx, nil
}

func (in *Interpreter) validateInput(v *quivr.Verifier, att ledger.Attestation) error {
	switch att := att.(type) {
	case ledger.PredicateAttestation:
		return validatePredicate(v, att)
	case ledger.ImageAttestation:
		return v.VerifyThreshold(att.Known, att.Responses, att.Lock.Threshold)
	case ledger.CommitmentAttestation:
		return v.VerifyThreshold(att.Known, att.Responses, att.Lock.Threshold)
	}
	return &quivr.AuthorizationError{
		Kind:   quivr.EvaluationFailed,
		Reason: fmt.Sprintf("unsupported attestation %T", att),
	}
}

// validatePredicate pairs responses with challenges by position and keeps
// the revealed pairs. Previous challenges are not evaluated.
func validatePredicate(v *quivr.Verifier, att ledger.PredicateAttestation) error {
	k := att.Lock.Threshold
	challenges := att.Lock.Challenges
	if k != 0 && len(att.Responses) != len(challenges) {
		return &quivr.AuthorizationError{
			Kind:   quivr.EvaluationFailed,
			Reason: fmt.Sprintf("%d responses for %d challenges", len(att.Responses), len(challenges)),
		}
	}

	props := make([]quivr.Proposition, 0, len(challenges))
	proofs := make([]quivr.Proof, 0, len(challenges))
	for i, c := range challenges {
		r, ok := c.(ledger.Revealed)
		if !ok {
			continue
		}
		props = append(props, r.Proposition)
		if i < len(att.Responses) {
			proofs = append(proofs, att.Responses[i])
		}
	}
	return v.VerifyThreshold(props, proofs, k)
}
