// Package signing implements the signature routines that DigitalSignature
// propositions may name.
//
// ExtendedEd25519 is the only routine registered by default.
// Lookups of any other routine fail closed.
package signing

import (
	"errors"
	"fmt"
)

// ExtendedEd25519 is the routine name of expanded key Ed25519 signatures.
const ExtendedEd25519 = "ExtendedEd25519"

// ErrUnknownRoutine is returned when a routine is not registered.
var ErrUnknownRoutine = errors.New("signing: unknown routine")

// Routine signs and verifies messages.
type Routine interface {
	Sign(sk SecretKey, msg []byte) ([]byte, error)
	Verify(vk VerificationKey, sig, msg []byte) bool
}

type extendedEd25519 struct{}

func (extendedEd25519) Sign(sk SecretKey, msg []byte) ([]byte, error) {
	return Sign(sk, msg)
}

func (extendedEd25519) Verify(vk VerificationKey, sig, msg []byte) bool {
	return Verify(vk, sig, msg)
}

// Registry maps routine names to signature routines.
// Register must not be called concurrently with lookups.
type Registry struct {
	routines map[string]Routine
}

// NewRegistry creates a Registry holding ExtendedEd25519.
func NewRegistry() *Registry {
	return &Registry{
		routines: map[string]Routine{
			ExtendedEd25519: extendedEd25519{},
		},
	}
}

// Register adds or replaces a routine.
func (r *Registry) Register(name string, routine Routine) {
	r.routines[name] = routine
}

// Lookup returns the named routine.
func (r *Registry) Lookup(name string) (Routine, bool) {
	routine, ok := r.routines[name]
	return routine, ok
}

// Verify verifies sig with the named routine.
func (r *Registry) Verify(name string, vk VerificationKey, sig, msg []byte) (bool, error) {
	routine, ok := r.routines[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRoutine, name)
	}
	return routine.Verify(vk, sig, msg), nil
}
