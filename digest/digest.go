// Package digest implements the hash routines that Digest propositions may name.
//
// A routine hashes the concatenation input || salt of a [Preimage].
// Every routine outputs [Size] bytes.
package digest

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/blake2b"
)

// Routine names understood by the default registry.
const (
	Blake2b256 = "Blake2b256"
	Sha256     = "Sha256"
	MiMCBN254  = "MiMC-BN254"
)

// Size is the length of every digest in bytes.
const Size = 32

// ErrUnknownRoutine is returned when a routine is not registered.
var ErrUnknownRoutine = errors.New("digest: unknown routine")

// Preimage is the secret opening of a digest.
type Preimage struct {
	Input []byte
	Salt  []byte
}

// Bytes returns input || salt.
func (p Preimage) Bytes() []byte {
	b := make([]byte, 0, len(p.Input)+len(p.Salt))
	b = append(b, p.Input...)
	return append(b, p.Salt...)
}

// Func is a hash function with a [Size] byte output.
type Func func(data []byte) []byte

// Registry maps routine names to hash functions.
// Register must not be called concurrently with lookups.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates a Registry holding Blake2b256, Sha256 and MiMC-BN254.
func NewRegistry() *Registry {
	return &Registry{
		funcs: map[string]Func{
			Blake2b256: Blake2b256Sum,
			Sha256:     Sha256Sum,
			MiMCBN254:  MiMCBN254Sum,
		},
	}
}

// Register adds or replaces a routine.
func (r *Registry) Register(routine string, f Func) {
	r.funcs[routine] = f
}

// Routines returns the registered routine names in sorted order.
func (r *Registry) Routines() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hash hashes data with the named routine.
func (r *Registry) Hash(routine string, data []byte) ([]byte, error) {
	f, ok := r.funcs[routine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoutine, routine)
	}
	return f(data), nil
}

// Compute returns the digest of a preimage under the named routine.
func (r *Registry) Compute(routine string, p Preimage) ([]byte, error) {
	return r.Hash(routine, p.Bytes())
}

// Verify reports whether digest opens to p under the named routine.
// The comparison is constant time.
func (r *Registry) Verify(routine string, digest []byte, p Preimage) (bool, error) {
	d, err := r.Compute(routine, p)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(d, digest) == 1, nil
}

// Blake2b256Sum returns the Blake2b-256 hash of data.
func Blake2b256Sum(data []byte) []byte {
	h := blake2b.Sum256(data)
	return h[:]
}

// Sha256Sum returns the SHA-256 hash of data.
func Sha256Sum(data []byte) []byte {
	h := sha256simd.Sum256(data)
	return h[:]
}

// MiMCBN254Sum returns the MiMC hash of data over the BN254 scalar field.
//
// The length of data is absorbed first as its own block.
// Data is then split into 31 byte chunks, each left padded to a full block,
// so every block is a canonical field element.
func MiMCBN254Sum(data []byte) []byte {
	h := mimc.NewMiMC()
	block := make([]byte, mimc.BlockSize)

	binary.BigEndian.PutUint64(block[mimc.BlockSize-8:], uint64(len(data)))
	if _, err := h.Write(block); err != nil {
		panic(err)
	}

	for len(data) > 0 {
		n := min(len(data), mimc.BlockSize-1)
		clear(block)
		copy(block[mimc.BlockSize-n:], data[:n])
		if _, err := h.Write(block); err != nil {
			panic(err)
		}
		data = data[n:]
	}

	return h.Sum(nil)
}
