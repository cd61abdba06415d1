package ledger_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/quivr/ledger"
	"github.com/sp301415/quivr/quivr"
)

func sampleTx() *ledger.IoTransaction {
	lock := ledger.NewPredicate(1,
		quivr.HeightRange{Chain: "header", Min: 1, Max: 10},
		quivr.TickRange{Min: 0, Max: 100},
	)
	return &ledger.IoTransaction{
		Inputs: []ledger.SpentTransactionOutput{{
			Address:     ledger.TransactionOutputAddress{Network: 1, Index: 3},
			Attestation: ledger.NewPredicateAttestation(lock),
			Value:       ledger.NewLvl(100),
		}},
		Outputs: []ledger.UnspentTransactionOutput{{
			Address: ledger.NewLockAddress(1, 0, lock),
			Value:   ledger.NewLvl(90),
		}},
		Datum: ledger.Datum{
			Schedule: ledger.Schedule{Min: 0, Max: 1000, Timestamp: 50},
			Metadata: []byte("memo"),
		},
	}
}

func TestSignableBytes(t *testing.T) {
	tx := sampleTx()
	signable := ledger.SignableBytes(tx)

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, signable, ledger.SignableBytes(sampleTx()))
		assert.Equal(t, ledger.ID(tx), ledger.ID(sampleTx()))
	})

	t.Run("ExcludesResponses", func(t *testing.T) {
		att := tx.Inputs[0].Attestation.(ledger.PredicateAttestation)
		proven := att.WithResponses([]quivr.Proof{
			quivr.HeightRangeProof{Bind: quivr.MakeTxBind(quivr.TagHeightRange, signable)},
			quivr.EmptyProof{},
		})

		inputs := []ledger.SpentTransactionOutput{tx.Inputs[0]}
		inputs[0].Attestation = proven
		assert.Equal(t, signable, ledger.SignableBytes(tx.WithInputs(inputs)))
	})

	t.Run("CoversFields", func(t *testing.T) {
		mutations := map[string]func(tx *ledger.IoTransaction){
			"Metadata":  func(tx *ledger.IoTransaction) { tx.Datum.Metadata = []byte("memo!") },
			"Schedule":  func(tx *ledger.IoTransaction) { tx.Datum.Schedule.Max++ },
			"Timestamp": func(tx *ledger.IoTransaction) { tx.Datum.Schedule.Timestamp++ },
			"Output":    func(tx *ledger.IoTransaction) { tx.Outputs[0].Value.Quantity = big.NewInt(91) },
			"Input":     func(tx *ledger.IoTransaction) { tx.Inputs[0].Address.Index = 4 },
			"Lock": func(tx *ledger.IoTransaction) {
				tx.Inputs[0].Attestation = ledger.NewPredicateAttestation(ledger.NewPredicate(2))
			},
		}
		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				other := sampleTx()
				mutate(other)
				assert.NotEqual(t, signable, ledger.SignableBytes(other))
			})
		}
	})
}

func TestWithResponses(t *testing.T) {
	att := ledger.NewPredicateAttestation(ledger.NewPredicate(1, quivr.Locked{}))
	assert.Equal(t, []quivr.Proof{quivr.EmptyProof{}}, att.Proofs())

	responses := []quivr.Proof{quivr.LockedProof{}}
	proven := att.WithResponses(responses)
	responses[0] = quivr.EmptyProof{}

	assert.Equal(t, []quivr.Proof{quivr.EmptyProof{}}, att.Responses)
	assert.Equal(t, []quivr.Proof{quivr.LockedProof{}}, proven.Responses)
	assert.Equal(t, att.Lock, proven.Lock)
}

func TestPredicateRevealed(t *testing.T) {
	lock := ledger.Predicate{
		Challenges: []ledger.Challenge{
			ledger.Revealed{Proposition: quivr.Locked{}},
			ledger.Previous{Index: 2},
			ledger.Revealed{Proposition: quivr.TickRange{Max: 5}},
		},
		Threshold: 1,
	}
	assert.Equal(t, []quivr.Proposition{quivr.Locked{}, quivr.TickRange{Max: 5}}, lock.Revealed())
}

func TestLockAddress(t *testing.T) {
	a := ledger.NewPredicate(1, quivr.TickRange{Max: 5})
	b := ledger.NewPredicate(1, quivr.TickRange{Max: 6})

	assert.Equal(t, ledger.NewLockAddress(1, 0, a), ledger.NewLockAddress(1, 0, a))
	assert.NotEqual(t, ledger.NewLockAddress(1, 0, a).ID, ledger.NewLockAddress(1, 0, b).ID)
	assert.NotEqual(t, ledger.NewLockAddress(1, 0, a).ID,
		ledger.NewLockAddress(1, 0, ledger.Image{Threshold: 1}).ID)
	assert.Len(t, ledger.NewLockAddress(1, 0, a).String(), 64)
}

func TestValueKey(t *testing.T) {
	assert.Equal(t, "LVL", ledger.NewLvl(1).Key())
	asset := ledger.Value{Kind: ledger.Asset, GroupID: []byte{1}, SeriesID: []byte{2}}
	assert.Equal(t, "ASSET:01:02", asset.Key())
	assert.Equal(t, int64(0), asset.Amount().Int64())
}
