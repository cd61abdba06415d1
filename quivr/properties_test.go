package quivr_test

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sp301415/quivr/quivr"
)

func satisfiable(n int, signable []byte) ([]quivr.Proposition, []quivr.Proof) {
	challenges := make([]quivr.Proposition, n)
	responses := make([]quivr.Proof, n)
	for i := range n {
		challenges[i] = quivr.TickRange{Min: 0, Max: math.MaxUint64}
		responses[i] = quivr.TickRangeProof{Bind: bindOf(quivr.TagTickRange, signable)}
	}
	return challenges, responses
}

func TestBindProperties(t *testing.T) {
	f := newFixture(t)
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	flipped := func(signable []uint8, i int, mask uint8) []byte {
		out := append([]byte(nil), signable...)
		out[i] ^= mask
		return out
	}

	properties.Property("leaf proof fails after byte flip", prop.ForAll(
		func(signable []uint8, i int, mask uint8) bool {
			leaf := quivr.HeightRange{Chain: "header", Min: 0, Max: 10}
			proof := f.prover.Prove(f.ctx, signable, leaf, nil)

			v := quivr.NewVerifier(newTestContext(signable))
			if v.Verify(leaf, proof) != nil {
				return false
			}

			v = quivr.NewVerifier(newTestContext(flipped(signable, i, mask)))
			return errors.Is(v.Verify(leaf, proof), quivr.ErrBindMismatch)
		},
		gen.SliceOfN(32, gen.UInt8()),
		gen.IntRange(0, 31),
		gen.UInt8Range(1, 255),
	))

	properties.Property("composite proof fails at the root after byte flip", prop.ForAll(
		func(signable []uint8, i int, mask uint8) bool {
			root := quivr.And{
				Left:  quivr.TickRange{Min: 0, Max: 1000},
				Right: quivr.NewThreshold([]quivr.Proposition{quivr.HeightRange{Chain: "header", Min: 0, Max: 10}}, 1),
			}
			proof := f.prover.Prove(f.ctx, signable, root, nil)

			v := quivr.NewVerifier(newTestContext(flipped(signable, i, mask)))
			err := v.Verify(root, proof)

			var authErr *quivr.AuthorizationError
			return errors.As(err, &authErr) &&
				authErr.Kind == quivr.MessageBindMismatch &&
				authErr.Proposition.Tag() == quivr.TagAnd
		},
		gen.SliceOfN(32, gen.UInt8()),
		gen.IntRange(0, 31),
		gen.UInt8Range(1, 255),
	))

	properties.TestingRun(t)
}

func TestThresholdProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	v := quivr.NewVerifier(newTestContext(signable))

	properties.Property("zero threshold always succeeds", prop.ForAll(
		func(n, m int) bool {
			challenges, _ := satisfiable(n, signable)
			_, responses := satisfiable(m, []byte("unrelated"))
			return v.VerifyThreshold(challenges, responses, 0) == nil
		},
		gen.IntRange(0, 8),
		gen.IntRange(0, 8),
	))

	properties.Property("threshold above challenge count always fails", prop.ForAll(
		func(n int, extra uint32) bool {
			challenges, responses := satisfiable(n, signable)
			return v.VerifyThreshold(challenges, responses, uint32(n)+extra) != nil
		},
		gen.IntRange(0, 8),
		gen.UInt32Range(1, 16),
	))

	properties.Property("response count mismatch always fails", prop.ForAll(
		func(n, delta int, longer bool) bool {
			challenges, _ := satisfiable(n, signable)
			m := n + delta
			if !longer {
				m = n - delta
				if m < 0 {
					m = 0
				}
			}
			_, responses := satisfiable(m, signable)
			for k := uint32(1); k <= uint32(n); k++ {
				if v.VerifyThreshold(challenges, responses, k) == nil {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.IntRange(1, 8),
		gen.Bool(),
	))

	properties.Property("all satisfied responses meet every threshold", prop.ForAll(
		func(n int) bool {
			challenges, responses := satisfiable(n, signable)
			for k := uint32(0); k <= uint32(n); k++ {
				if v.VerifyThreshold(challenges, responses, k) != nil {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
