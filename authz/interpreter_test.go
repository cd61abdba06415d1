package authz_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp301415/quivr/authz"
	"github.com/sp301415/quivr/credential"
	"github.com/sp301415/quivr/ledger"
	"github.com/sp301415/quivr/quivr"
)

var tick = quivr.TickRange{Min: 0, Max: 100}

func transaction(attestations ...ledger.Attestation) *ledger.IoTransaction {
	tx := &ledger.IoTransaction{}
	for i, att := range attestations {
		tx.Inputs = append(tx.Inputs, ledger.SpentTransactionOutput{
			Address:     ledger.TransactionOutputAddress{Index: uint32(i)},
			Attestation: att,
		})
	}
	return tx
}

// tickProof binds a TickRange proof to tx. Attestations never enter the signable bytes.
func tickProof(tx *ledger.IoTransaction) quivr.Proof {
	return quivr.TickRangeProof{Bind: quivr.MakeTxBind(quivr.TagTickRange, ledger.SignableBytes(tx))}
}

func TestValidatePredicate(t *testing.T) {
	in := authz.NewInterpreter()

	t.Run("Satisfied", func(t *testing.T) {
		lock := ledger.NewPredicate(1, tick, quivr.Locked{})
		tx := transaction(ledger.NewPredicateAttestation(lock))
		att := ledger.NewPredicateAttestation(lock).WithResponses([]quivr.Proof{tickProof(tx), quivr.LockedProof{}})
		tx.Inputs[0].Attestation = att

		out, err := in.Validate(credential.NewContext(tx, 50, nil), tx)
		require.NoError(t, err)
		assert.Same(t, tx, out)
	})

	t.Run("Unsatisfied", func(t *testing.T) {
		lock := ledger.NewPredicate(2, tick, quivr.Locked{})
		tx := transaction(ledger.NewPredicateAttestation(lock))
		tx.Inputs[0].Attestation = ledger.NewPredicateAttestation(lock).WithResponses([]quivr.Proof{tickProof(tx), quivr.LockedProof{}})

		_, err := in.Validate(credential.NewContext(tx, 50, nil), tx)
		assert.ErrorIs(t, err, quivr.ErrEvaluationFailed)
	})

	t.Run("PreviousSkipped", func(t *testing.T) {
		lock := ledger.Predicate{
			Challenges: []ledger.Challenge{ledger.Previous{Index: 0}, ledger.Revealed{Proposition: tick}},
			Threshold:  1,
		}
		tx := transaction(ledger.NewPredicateAttestation(lock))
		proven := ledger.NewPredicateAttestation(lock).WithResponses([]quivr.Proof{quivr.EmptyProof{}, tickProof(tx)})
		tx.Inputs[0].Attestation = proven

		_, err := in.Validate(credential.NewContext(tx, 50, nil), tx)
		assert.NoError(t, err)

		lock.Threshold = 2
		tx.Inputs[0].Attestation = ledger.PredicateAttestation{Lock: lock, Responses: proven.Responses}
		_, err = in.Validate(credential.NewContext(tx, 50, nil), tx)
		assert.Error(t, err)
	})

	t.Run("ResponseCount", func(t *testing.T) {
		lock := ledger.NewPredicate(1, tick, tick)
		tx := transaction(ledger.PredicateAttestation{Lock: lock})
		tx.Inputs[0].Attestation = ledger.PredicateAttestation{Lock: lock, Responses: []quivr.Proof{tickProof(tx)}}

		_, err := in.Validate(credential.NewContext(tx, 50, nil), tx)
		assert.ErrorIs(t, err, quivr.ErrEvaluationFailed)

		lock.Threshold = 0
		tx.Inputs[0].Attestation = ledger.PredicateAttestation{Lock: lock}
		_, err = in.Validate(credential.NewContext(tx, 50, nil), tx)
		assert.NoError(t, err)
	})
}

func TestValidateKnown(t *testing.T) {
	in := authz.NewInterpreter()
	image := ledger.ImageAttestation{
		Lock:  ledger.Image{Leaves: [][]byte{{1}}, Threshold: 1},
		Known: []quivr.Proposition{tick},
	}
	commitment := ledger.CommitmentAttestation{
		Lock:  ledger.Commitment{Root: []byte{1}, Size: 1, Threshold: 1},
		Known: []quivr.Proposition{tick},
	}
	tx := transaction(image, commitment)

	image.Responses = []quivr.Proof{tickProof(tx)}
	commitment.Responses = []quivr.Proof{tickProof(tx)}
	tx.Inputs[0].Attestation = image
	tx.Inputs[1].Attestation = commitment

	_, err := in.Validate(credential.NewContext(tx, 50, nil), tx)
	assert.NoError(t, err)

	_, err = in.Validate(credential.NewContext(tx, 500, nil), tx)
	assert.ErrorIs(t, err, quivr.ErrEvaluationFailed)
}

func TestValidateStopsAtFirstFailure(t *testing.T) {
	var logs bytes.Buffer
	in := authz.NewInterpreter(authz.WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))

	tx := transaction(
		ledger.NewPredicateAttestation(ledger.NewPredicate(0)),
		nil,
		ledger.NewPredicateAttestation(ledger.NewPredicate(1, quivr.Locked{})),
	)

	_, err := in.Validate(credential.NewContext(tx, 0, nil), tx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input 1")

	var authErr *quivr.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, quivr.EvaluationFailed, authErr.Kind)

	assert.Contains(t, logs.String(), `"component":"authz"`)
	assert.Contains(t, logs.String(), `"input":1`)
}
