package credential

import (
	"bytes"
	"math/big"
	"sync"

	"github.com/sp301415/quivr/digest"
	"github.com/sp301415/quivr/ledger"
	"github.com/sp301415/quivr/signing"
)

// LedgerState is the view of the ledger a Context evaluates against.
type LedgerState interface {
	// HeightOf returns the height of chain.
	HeightOf(chain string) (uint64, bool)
	// Lookup returns the value stored at location.
	Lookup(location string) ([]byte, bool)
}

// MemoryLedger is an in-memory LedgerState.
// It is safe for concurrent use.
type MemoryLedger struct {
	mu      sync.RWMutex
	heights map[string]uint64
	values  map[string][]byte
}

// NewMemoryLedger creates an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		heights: make(map[string]uint64),
		values:  make(map[string][]byte),
	}
}

// SetHeight sets the height of chain.
func (l *MemoryLedger) SetHeight(chain string, height uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.heights[chain] = height
}

// Set stores value at location.
func (l *MemoryLedger) Set(location string, value []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[location] = bytes.Clone(value)
}

// SetInt stores the big-endian magnitude of x at location.
func (l *MemoryLedger) SetInt(location string, x *big.Int) {
	l.Set(location, x.Bytes())
}

// HeightOf returns the height set for chain.
func (l *MemoryLedger) HeightOf(chain string) (uint64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.heights[chain]
	return h, ok
}

// Lookup returns the value stored at location.
func (l *MemoryLedger) Lookup(location string) ([]byte, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[location]
	return v, ok
}

// Context is the DynamicContext of one transaction.
type Context struct {
	signable []byte
	tick     uint64
	state    LedgerState

	digests *digest.Registry
	signers *signing.Registry
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithDigests sets the digest routines a Context verifies with.
func WithDigests(digests *digest.Registry) ContextOption {
	return func(c *Context) {
		c.digests = digests
	}
}

// WithSigningRoutines sets the signature routines a Context verifies with.
func WithSigningRoutines(signers *signing.Registry) ContextOption {
	return func(c *Context) {
		c.signers = signers
	}
}

// NewContext creates the Context of tx at tick.
// A nil state knows no heights and no locations.
func NewContext(tx *ledger.IoTransaction, tick uint64, state LedgerState, opts ...ContextOption) *Context {
	c := &Context{
		signable: ledger.SignableBytes(tx),
		tick:     tick,
		state:    state,
		digests:  digest.NewRegistry(),
		signers:  signing.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignableBytes returns the signable bytes of the transaction.
func (c *Context) SignableBytes() []byte { return c.signable }
// CurrentTick returns the tick the Context was created at.
func (c *Context) CurrentTick() uint64   { return c.tick }

// HeightOf returns the height of chain in the ledger state.
func (c *Context) HeightOf(chain string) (uint64, bool) {
	if c.state == nil {
		return 0, false
	}
	return c.state.HeightOf(chain)
}

func (c *Context) lookup(location string) ([]byte, bool) {
	if c.state == nil {
		return nil, false
	}
	return c.state.Lookup(location)
}

// ExactMatch reports whether the value at location equals compareTo.
func (c *Context) ExactMatch(location string, compareTo []byte) bool {
	v, ok := c.lookup(location)
	return ok && bytes.Equal(v, compareTo)
}

// compare reads the value at location as a big-endian unsigned integer.
func (c *Context) compare(location string, compareTo *big.Int) (int, bool) {
	v, ok := c.lookup(location)
	if !ok || compareTo == nil {
		return 0, false
	}
	return new(big.Int).SetBytes(v).Cmp(compareTo), true
}

// LessThan reports whether the value at location is less than compareTo.
func (c *Context) LessThan(location string, compareTo *big.Int) bool {
	cmp, ok := c.compare(location, compareTo)
	return ok && cmp < 0
}

// GreaterThan reports whether the value at location is greater than compareTo.
func (c *Context) GreaterThan(location string, compareTo *big.Int) bool {
	cmp, ok := c.compare(location, compareTo)
	return ok && cmp > 0
}

// EqualTo reports whether the value at location equals compareTo.
func (c *Context) EqualTo(location string, compareTo *big.Int) bool {
	cmp, ok := c.compare(location, compareTo)
	return ok && cmp == 0
}

// DigestVerify checks a preimage with the named digest routine.
func (c *Context) DigestVerify(routine string, d []byte, p digest.Preimage) (bool, error) {
	return c.digests.Verify(routine, d, p)
}

// SignatureVerify checks a signature with the named signing routine.
func (c *Context) SignatureVerify(routine string, vk signing.VerificationKey, sig, msg []byte) (bool, error) {
	return c.signers.Verify(routine, vk, sig, msg)
}
