// Package csprng implements seedable uniform samplers.
//
// Samplers are used wherever the library needs fresh randomness:
// key seeds, preimage salts and test fixtures.
// A sampler created with a fixed seed always produces the same stream.
package csprng

import (
	"crypto/rand"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// bufSize is the default buffer size of UniformSampler.
const bufSize = 8192

// UniformSampler samples values from uniform distribution.
// This uses blake2b as a underlying prng.
// It is safe for concurrent use.
type UniformSampler struct {
	mu sync.Mutex

	seed []byte
	prng blake2b.XOF

	buf [bufSize]byte
	ptr int
}

// NewUniformSampler creates a new UniformSampler seeded from crypto/rand.
//
// Panics when read from crypto/rand or blake2b initialization fails.
func NewUniformSampler() *UniformSampler {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		panic(err)
	}
	return NewUniformSamplerWithSeed(seed)
}

// NewUniformSamplerWithSeed creates a new UniformSampler, with user supplied seed.
//
// Panics when blake2b initialization fails.
func NewUniformSamplerWithSeed(seed []byte) *UniformSampler {
	s := &UniformSampler{
		seed: append([]byte(nil), seed...),
	}
	s.reset()
	return s
}

func (s *UniformSampler) reset() {
	prng, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, nil)
	if err != nil {
		panic(err)
	}

	if _, err = prng.Write(s.seed); err != nil {
		panic(err)
	}

	s.prng = prng
	s.ptr = bufSize
}

// Reset rewinds the UniformSampler to the start of its stream.
func (s *UniformSampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
}

// fill refills the internal buffer. Caller must hold s.mu.
func (s *UniformSampler) fill() {
	if _, err := io.ReadFull(s.prng, s.buf[:]); err != nil {
		panic(err)
	}
	s.ptr = 0
}

// Read implements the [io.Reader] interface.
// It never returns an error.
func (s *UniformSampler) Read(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for n < len(p) {
		if s.ptr == bufSize {
			s.fill()
		}
		c := copy(p[n:], s.buf[s.ptr:])
		s.ptr += c
		n += c
	}
	return n, nil
}

// SampleBytes returns n uniformly random bytes.
func (s *UniformSampler) SampleBytes(n int) []byte {
	b := make([]byte, n)
	s.Read(b)
	return b
}
