// Package credential proves and validates whole transactions.
package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sp301415/quivr/authz"
	"github.com/sp301415/quivr/ledger"
	"github.com/sp301415/quivr/quivr"
	"github.com/sp301415/quivr/syntax"
)

// ErrNotImplemented is returned when proving an attestation kind that has no prover yet.
var ErrNotImplemented = errors.New("credential: not implemented")

// SyntaxValidator checks the structure of a transaction.
type SyntaxValidator interface {
	Validate(tx *ledger.IoTransaction) []error
}

// Credentialler proves and validates transactions.
type Credentialler struct {
	Parameters Parameters

	prover      *quivr.Prover
	syntax      SyntaxValidator
	interpreter *authz.Interpreter

	logger zerolog.Logger
}

// Option configures a Credentialler.
type Option func(*Credentialler)

// WithSyntaxValidator replaces the default syntax validator.
func WithSyntaxValidator(v SyntaxValidator) Option {
	return func(c *Credentialler) {
		c.syntax = v
	}
}

// WithLogger sets the logger of the Credentialler and its interpreter.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Credentialler) {
		c.logger = logger.With().Str("component", "credentialler").Logger()
		c.interpreter = authz.NewInterpreter(authz.WithLogger(logger))
	}
}

// NewCredentialler creates a new Credentialler.
func NewCredentialler(params Parameters, prover *quivr.Prover, opts ...Option) *Credentialler {
	c := &Credentialler{
		Parameters: params,

		prover:      prover,
		syntax:      syntax.NewValidator(params.MaxDataLength()),
		interpreter: authz.NewInterpreter(),

		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prove returns a copy of tx whose predicate attestations carry fresh responses.
//
// Responses that already hold a leaf proof of the right tag are kept.
// Inputs keep their order. Image and Commitment attestations fail with ErrNotImplemented.
func (c *Credentialler) Prove(ctx context.Context, tx *ledger.IoTransaction) (*ledger.IoTransaction, error) {
	signable := ledger.SignableBytes(tx)
	inputs := make([]ledger.SpentTransactionOutput, len(tx.Inputs))

	if !c.Parameters.Parallel() {
		for i := range tx.Inputs {
			in, err := c.proveInput(ctx, signable, i, tx.Inputs[i])
			if err != nil {
				return nil, err
			}
			inputs[i] = in
		}
		return tx.WithInputs(inputs), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if c.Parameters.Workers() > 0 {
		g.SetLimit(c.Parameters.Workers())
	}
	for i := range tx.Inputs {
		g.Go(func() error {
			in, err := c.proveInput(gctx, signable, i, tx.Inputs[i])
			if err != nil {
				return err
			}
			inputs[i] = in
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tx.WithInputs(inputs), nil
}

func (c *Credentialler) proveInput(ctx context.Context, signable []byte, i int, in ledger.SpentTransactionOutput) (ledger.SpentTransactionOutput, error) {
	if err := ctx.Err(); err != nil {
		return in, fmt.Errorf("credential: input %d: %w", i, err)
	}

	switch att := in.Attestation.(type) {
	case ledger.PredicateAttestation:
		in.Attestation = att.WithResponses(c.provePredicate(ctx, signable, att))
		c.logger.Debug().Int("input", i).Int("responses", len(att.Lock.Challenges)).Msg("input proven")
		return in, nil
	case ledger.ImageAttestation, ledger.CommitmentAttestation:
		return in, fmt.Errorf("credential: input %d: prove %T: %w", i, att, ErrNotImplemented)
	}
	return in, fmt.Errorf("credential: input %d: unsupported attestation %T", i, in.Attestation)
}

// provePredicate proves every revealed challenge against the response at its position.
// Responses of previous challenges are carried over.
func (c *Credentialler) provePredicate(ctx context.Context, signable []byte, att ledger.PredicateAttestation) []quivr.Proof {
	prove := c.prover.Prove
	if c.Parameters.Parallel() {
		prove = c.prover.ProveParallel
	}

	responses := make([]quivr.Proof, len(att.Lock.Challenges))
	for j, challenge := range att.Lock.Challenges {
		var existing quivr.Proof = quivr.EmptyProof{}
		if j < len(att.Responses) && att.Responses[j] != nil {
			existing = att.Responses[j]
		}

		switch ch := challenge.(type) {
		case ledger.Revealed:
			responses[j] = prove(ctx, signable, ch.Proposition, existing)
		default:
			responses[j] = existing
		}
	}
	return responses
}

// Validate returns the syntax errors of tx followed by its authorization error, if any.
func (c *Credentialler) Validate(tx *ledger.IoTransaction, dctx quivr.DynamicContext) []error {
	errs := c.syntax.Validate(tx)
	if _, err := c.interpreter.Validate(dctx, tx); err != nil {
		errs = append(errs, err)
	}

	c.logger.Debug().Int("errors", len(errs)).Msg("transaction validated")
	return errs
}

// ProveAndValidate proves tx and validates the result.
// The proven transaction is returned only if it has no validation errors.
func (c *Credentialler) ProveAndValidate(ctx context.Context, tx *ledger.IoTransaction, dctx quivr.DynamicContext) (*ledger.IoTransaction, []error) {
	proven, err := c.Prove(ctx, tx)
	if err != nil {
		return nil, []error{err}
	}
	if errs := c.Validate(proven, dctx); len(errs) > 0 {
		return nil, errs
	}
	return proven, nil
}
