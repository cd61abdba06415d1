package credential

import (
	"runtime"

	"github.com/sp301415/quivr/syntax"
)

// ParametersLiteral is a structure for Credentialler parameters.
type ParametersLiteral struct {
	// Workers bounds the number of inputs proven at once.
	// Zero means no bound.
	Workers int
	// Parallel enables concurrent proving of inputs and sibling propositions.
	Parallel bool
	// MaxDataLength caps the metadata of a transaction, in bytes.
	MaxDataLength int
}

// DefaultParametersLiteral proves in parallel with one worker per CPU.
var DefaultParametersLiteral = ParametersLiteral{
	Workers:       runtime.NumCPU(),
	Parallel:      true,
	MaxDataLength: syntax.DefaultMaxDataLength,
}

// Compile transforms ParametersLiteral to read-only Parameters.
// If there is any invalid parameter in the literal, it panics.
func (p ParametersLiteral) Compile() Parameters {
	switch {
	case p.Workers < 0:
		panic("Workers must be non-negative")
	case p.MaxDataLength <= 0:
		panic("MaxDataLength must be positive")
	}

	return Parameters{
		workers:       p.Workers,
		parallel:      p.Parallel,
		maxDataLength: p.MaxDataLength,
	}
}

// Parameters are read-only Credentialler parameters.
type Parameters struct {
	workers       int
	parallel      bool
	maxDataLength int
}

// Workers returns the bound on inputs proven at once.
func (p Parameters) Workers() int {
	return p.workers
}

// Parallel reports whether proving is concurrent.
func (p Parameters) Parallel() bool {
	return p.parallel
}

// MaxDataLength returns the metadata cap in bytes.
func (p Parameters) MaxDataLength() int {
	return p.maxDataLength
}

// Literal returns the ParametersLiteral of p.
func (p Parameters) Literal() ParametersLiteral {
	return ParametersLiteral{
		Workers:       p.workers,
		Parallel:      p.parallel,
		MaxDataLength: p.maxDataLength,
	}
}
