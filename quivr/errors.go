package quivr

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// ErrorKind classifies an AuthorizationError.
type ErrorKind int

const (
	// LockedPropositionUnsatisfiable marks an intentionally unspendable condition.
	LockedPropositionUnsatisfiable ErrorKind = iota + 1
	// MessageBindMismatch marks a proof that was not made for this transaction.
	MessageBindMismatch
	// EvaluationFailed marks a proof whose domain check failed.
	EvaluationFailed
)

// String returns the name of k.
func (k ErrorKind) String() string {
	switch k {
	case LockedPropositionUnsatisfiable:
		return "locked proposition unsatisfiable"
	case MessageBindMismatch:
		return "message bind mismatch"
	case EvaluationFailed:
		return "evaluation failed"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels matching each ErrorKind with errors.Is.
var (
	ErrLocked           = errors.New("quivr: " + LockedPropositionUnsatisfiable.String())
	ErrBindMismatch     = errors.New("quivr: " + MessageBindMismatch.String())
	ErrEvaluationFailed = errors.New("quivr: " + EvaluationFailed.String())
)

// AuthorizationError is the failure value returned by the Verifier.
// It carries the offending proposition and proof.
type AuthorizationError struct {
	Kind        ErrorKind
	Proposition Proposition
	Proof       Proof
	Reason      string

	// Cause is set when a context oracle returned an error.
	Cause error

	// Satisfied marks the challenges that verified, when a threshold fails.
	Satisfied *bitset.BitSet
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	var tag Tag
	if e.Proposition != nil {
		tag = e.Proposition.Tag()
	}
	msg := fmt.Sprintf("quivr: %s on %s", e.Kind, tag)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the oracle error, if any.
func (e *AuthorizationError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of e.Kind.
func (e *AuthorizationError) Is(target error) bool {
	switch target {
	case ErrLocked:
		return e.Kind == LockedPropositionUnsatisfiable
	case ErrBindMismatch:
		return e.Kind == MessageBindMismatch
	case ErrEvaluationFailed:
		return e.Kind == EvaluationFailed
	}
	return false
}

func evaluationFailed(prop Proposition, proof Proof, format string, args ...any) *AuthorizationError {
	return &AuthorizationError{
		Kind:        EvaluationFailed,
		Proposition: prop,
		Proof:       proof,
		Reason:      fmt.Sprintf(format, args...),
	}
}
