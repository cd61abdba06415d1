package csprng_test

import (
	"testing"

	"github.com/sp301415/quivr/csprng"
	"github.com/stretchr/testify/assert"
)

func TestUniformSampler(t *testing.T) {
	t.Run("SeededStreamIsDeterministic", func(t *testing.T) {
		s0 := csprng.NewUniformSamplerWithSeed([]byte("seed"))
		s1 := csprng.NewUniformSamplerWithSeed([]byte("seed"))
		assert.Equal(t, s0.SampleBytes(100), s1.SampleBytes(100))
	})

	t.Run("DifferentSeeds", func(t *testing.T) {
		s0 := csprng.NewUniformSamplerWithSeed([]byte("seed-a"))
		s1 := csprng.NewUniformSamplerWithSeed([]byte("seed-b"))
		assert.NotEqual(t, s0.SampleBytes(32), s1.SampleBytes(32))
	})

	t.Run("Reset", func(t *testing.T) {
		s := csprng.NewUniformSamplerWithSeed([]byte("seed"))
		first := s.SampleBytes(10000)
		s.Reset()
		assert.Equal(t, first, s.SampleBytes(10000))
	})


	t.Run("Reader", func(t *testing.T) {
		s0 := csprng.NewUniformSamplerWithSeed([]byte("seed"))
		s1 := csprng.NewUniformSamplerWithSeed([]byte("seed"))

		b := make([]byte, 3*8192+5)
		n, err := s0.Read(b)
		assert.NoError(t, err)
		assert.Equal(t, len(b), n)
		assert.Equal(t, s1.SampleBytes(len(b)), b)
	})
}
