package quivr_test

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sp301415/quivr/csprng"
	"github.com/sp301415/quivr/digest"
	"github.com/sp301415/quivr/quivr"
	"github.com/sp301415/quivr/signing"
	"github.com/sp301415/quivr/vault"
)

// testContext is a DynamicContext backed by maps.
type testContext struct {
	signable []byte
	tick     uint64
	heights  map[string]uint64
	values   map[string][]byte

	digests *digest.Registry
	signers *signing.Registry
}

func newTestContext(signable []byte) *testContext {
	return &testContext{
		signable: signable,
		tick:     100,
		heights:  map[string]uint64{"header": 5},
		values:   map[string][]byte{"slot": {0x2a}},

		digests: digest.NewRegistry(),
		signers: signing.NewRegistry(),
	}
}

func (c *testContext) SignableBytes() []byte { return c.signable }
func (c *testContext) CurrentTick() uint64   { return c.tick }

func (c *testContext) HeightOf(chain string) (uint64, bool) {
	h, ok := c.heights[chain]
	return h, ok
}

func (c *testContext) ExactMatch(location string, compareTo []byte) bool {
	v, ok := c.values[location]
	return ok && bytes.Equal(v, compareTo)
}

func (c *testContext) compare(location string, compareTo *big.Int) (int, bool) {
	v, ok := c.values[location]
	if !ok {
		return 0, false
	}
	return new(big.Int).SetBytes(v).Cmp(compareTo), true
}

func (c *testContext) LessThan(location string, compareTo *big.Int) bool {
	cmp, ok := c.compare(location, compareTo)
	return ok && cmp < 0
}

func (c *testContext) GreaterThan(location string, compareTo *big.Int) bool {
	cmp, ok := c.compare(location, compareTo)
	return ok && cmp > 0
}

func (c *testContext) EqualTo(location string, compareTo *big.Int) bool {
	cmp, ok := c.compare(location, compareTo)
	return ok && cmp == 0
}

func (c *testContext) DigestVerify(routine string, d []byte, p digest.Preimage) (bool, error) {
	return c.digests.Verify(routine, d, p)
}

func (c *testContext) SignatureVerify(routine string, vk signing.VerificationKey, sig, msg []byte) (bool, error) {
	return c.signers.Verify(routine, vk, sig, msg)
}

// fixture bundles a seeded vault and a prover over it.
type fixture struct {
	ctx    context.Context
	vault  *vault.MemoryVault
	main   signing.KeyPair
	prover *quivr.Prover
}

func newFixture(t *testing.T) *fixture {
	sampler := csprng.NewUniformSamplerWithSeed([]byte(t.Name()))
	main, err := signing.GenerateKeyPair(sampler)
	require.NoError(t, err)

	v := vault.NewMemoryVaultWithSampler(sampler)
	return &fixture{
		ctx:    context.Background(),
		vault:  v,
		main:   main,
		prover: quivr.NewProver(v, main),
	}
}

func (f *fixture) signature(t *testing.T, z uint32) quivr.DigitalSignature {
	prop, err := f.vault.NewSignature(f.ctx, f.main, quivr.Indices{X: 0, Y: 0, Z: z})
	require.NoError(t, err)
	return prop
}

func (f *fixture) digest(t *testing.T, input string) quivr.Digest {
	prop, err := f.vault.NewDigest(digest.Blake2b256, []byte(input))
	require.NoError(t, err)
	return prop
}

// foreignSignature returns a signature proposition whose key the vault does not know.
func foreignSignature(t *testing.T) quivr.DigitalSignature {
	kp, err := signing.KeyPairFromSeed(bytes.Repeat([]byte{7}, signing.SeedSize))
	require.NoError(t, err)
	return quivr.NewDigitalSignature(signing.ExtendedEd25519, kp.VerificationKey)
}

func bindOf(tag quivr.Tag, signable []byte) quivr.TxBind {
	return quivr.MakeTxBind(tag, signable)
}
