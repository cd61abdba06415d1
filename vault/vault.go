// Package vault implements an in-memory secret store for the Prover.
package vault

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/sp301415/quivr/csprng"
	"github.com/sp301415/quivr/digest"
	"github.com/sp301415/quivr/quivr"
	"github.com/sp301415/quivr/signing"
)

// SaltSize is the size of salts drawn by NewDigest.
const SaltSize = 32

// MemoryVault is an in-memory implementation of [quivr.SecretStore].
// It is safe for concurrent use.
//
// Child keys are derived from a keyed Blake2b-256 hash of the indices
// under the main secret key. This is not BIP32-Ed25519.
type MemoryVault struct {
	mu        sync.RWMutex
	preimages map[string]digest.Preimage
	indices   map[string]quivr.Indices

	digests *digest.Registry
	sampler *csprng.UniformSampler
}

// NewMemoryVault creates a new, empty MemoryVault drawing salts from crypto/rand.
func NewMemoryVault() *MemoryVault {
	return NewMemoryVaultWithSampler(csprng.NewUniformSampler())
}

// NewMemoryVaultWithSampler creates a new, empty MemoryVault drawing salts from sampler.
func NewMemoryVaultWithSampler(sampler *csprng.UniformSampler) *MemoryVault {
	return &MemoryVault{
		preimages: make(map[string]digest.Preimage),
		indices:   make(map[string]quivr.Indices),

		digests: digest.NewRegistry(),
		sampler: sampler,
	}
}

func preimageKey(routine string, d []byte) string {
	return routine + "/" + hex.EncodeToString(d)
}

func copyPreimage(p digest.Preimage) digest.Preimage {
	return digest.Preimage{
		Input: bytes.Clone(p.Input),
		Salt:  bytes.Clone(p.Salt),
	}
}

// AddPreimage stores p and returns the Digest proposition it opens.
func (v *MemoryVault) AddPreimage(routine string, p digest.Preimage) (quivr.Digest, error) {
	d, err := v.digests.Compute(routine, p)
	if err != nil {
		return quivr.Digest{}, fmt.Errorf("vault: AddPreimage: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.preimages[preimageKey(routine, d)] = copyPreimage(p)
	return quivr.NewDigest(routine, d), nil
}

// NewDigest salts input with fresh randomness, stores the preimage,
// and returns the Digest proposition it opens.
func (v *MemoryVault) NewDigest(routine string, input []byte) (quivr.Digest, error) {
	return v.AddPreimage(routine, digest.Preimage{Input: input, Salt: v.sampler.SampleBytes(SaltSize)})
}

// AddIndices records that vk is the verification key at idx.
func (v *MemoryVault) AddIndices(vk signing.VerificationKey, idx quivr.Indices) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.indices[hex.EncodeToString(vk)] = idx
}

// NewSignature derives the child key at idx, records its indices,
// and returns the DigitalSignature proposition it signs for.
func (v *MemoryVault) NewSignature(ctx context.Context, main signing.KeyPair, idx quivr.Indices) (quivr.DigitalSignature, error) {
	child, err := v.DeriveChildKeys(ctx, main, idx)
	if err != nil {
		return quivr.DigitalSignature{}, err
	}
	v.AddIndices(child.VerificationKey, idx)
	return quivr.NewDigitalSignature(signing.ExtendedEd25519, child.VerificationKey), nil
}

// Preimage implements [quivr.SecretStore].
func (v *MemoryVault) Preimage(ctx context.Context, prop quivr.Digest) (digest.Preimage, bool, error) {
	if err := ctx.Err(); err != nil {
		return digest.Preimage{}, false, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	p, ok := v.preimages[preimageKey(prop.Routine, prop.Digest)]
	if !ok {
		return digest.Preimage{}, false, nil
	}
	return copyPreimage(p), true, nil
}

// Indices implements [quivr.SecretStore].
func (v *MemoryVault) Indices(ctx context.Context, prop quivr.DigitalSignature) (quivr.Indices, bool, error) {
	if err := ctx.Err(); err != nil {
		return quivr.Indices{}, false, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	idx, ok := v.indices[hex.EncodeToString(prop.VerificationKey)]
	return idx, ok, nil
}

// DeriveChildKeys implements [quivr.SecretStore].
func (v *MemoryVault) DeriveChildKeys(ctx context.Context, main signing.KeyPair, idx quivr.Indices) (signing.KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return signing.KeyPair{}, err
	}
	if len(main.SecretKey) != signing.SecretKeySize {
		return signing.KeyPair{}, fmt.Errorf("vault: main secret key must be %d bytes, got %d", signing.SecretKeySize, len(main.SecretKey))
	}

	h, err := blake2b.New256(main.SecretKey)
	if err != nil {
		return signing.KeyPair{}, fmt.Errorf("vault: derive: %w", err)
	}
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:], idx.X)
	binary.BigEndian.PutUint32(buf[4:], idx.Y)
	binary.BigEndian.PutUint32(buf[8:], idx.Z)
	h.Write(buf[:])

	return signing.KeyPairFromSeed(h.Sum(nil))
}

// Count returns the number of stored preimages and indices.
func (v *MemoryVault) Count() (preimages, indices int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.preimages), len(v.indices)
}
