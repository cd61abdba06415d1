// Package syntax checks the structure and arithmetic of a transaction.
// It does not evaluate any proof.
package syntax

import (
	"fmt"
	"math/big"

	"github.com/sp301415/quivr/ledger"
	"github.com/sp301415/quivr/quivr"
)

// DefaultMaxDataLength is the default cap on the metadata of a transaction, in bytes.
const DefaultMaxDataLength = 15360

// Code classifies a syntax Error.
type Code int

const (
	EmptyInputs Code = iota + 1
	DuplicateInput
	InvalidSchedule
	NonPositiveOutputQuantity
	InsufficientInputFunds
	InvalidDataLength
	InvalidProofType
	AttestationSizeMismatch
)

var codeNames = map[Code]string{
	EmptyInputs:               "empty inputs",
	DuplicateInput:            "duplicate input",
	InvalidSchedule:           "invalid schedule",
	NonPositiveOutputQuantity: "non-positive output quantity",
	InsufficientInputFunds:    "insufficient input funds",
	InvalidDataLength:         "invalid data length",
	InvalidProofType:          "invalid proof type",
	AttestationSizeMismatch:   "attestation size mismatch",
}

// String returns the name of c.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is a syntax failure.
type Error struct {
	Code   Code
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Reason == "" {
		return "syntax: " + e.Code.String()
	}
	return "syntax: " + e.Code.String() + ": " + e.Reason
}

// Is reports whether target is a syntax Error of the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Validator runs every syntax check on a transaction.
type Validator struct {
	maxDataLength int
}

// NewValidator creates a new Validator.
// A non-positive maxDataLength selects DefaultMaxDataLength.
func NewValidator(maxDataLength int) *Validator {
	if maxDataLength <= 0 {
		maxDataLength = DefaultMaxDataLength
	}
	return &Validator{maxDataLength: maxDataLength}
}

// Validate returns every syntax error of tx, in check order.
// A nil result means tx is well formed.
func (v *Validator) Validate(tx *ledger.IoTransaction) []error {
	var errs []error
	errs = append(errs, checkInputs(tx)...)
	errs = append(errs, checkSchedule(tx)...)
	errs = append(errs, checkOutputs(tx)...)
	errs = append(errs, checkFunds(tx)...)
	if n := len(tx.Datum.Metadata); n > v.maxDataLength {
		errs = append(errs, newError(InvalidDataLength, "%d bytes of metadata exceeds %d", n, v.maxDataLength))
	}
	errs = append(errs, checkAttestations(tx)...)
	return errs
}

func checkInputs(tx *ledger.IoTransaction) []error {
	if len(tx.Inputs) == 0 {
		return []error{newError(EmptyInputs, "")}
	}

	var errs []error
	seen := make(map[ledger.TransactionOutputAddress]int, len(tx.Inputs))
	for i, in := range tx.Inputs {
		if j, ok := seen[in.Address]; ok {
			errs = append(errs, newError(DuplicateInput, "input %d spends the output of input %d", i, j))
			continue
		}
		seen[in.Address] = i
	}
	return errs
}

func checkSchedule(tx *ledger.IoTransaction) []error {
	s := tx.Datum.Schedule
	if s.Min > s.Max {
		return []error{newError(InvalidSchedule, "min %d is greater than max %d", s.Min, s.Max)}
	}
	return nil
}

func checkOutputs(tx *ledger.IoTransaction) []error {
	var errs []error
	for i, out := range tx.Outputs {
		if out.Value.Amount().Sign() <= 0 {
			errs = append(errs, newError(NonPositiveOutputQuantity, "output %d has quantity %v", i, out.Value.Amount()))
		}
	}
	return errs
}

func checkFunds(tx *ledger.IoTransaction) []error {
	in := make(map[string]*big.Int)
	for _, i := range tx.Inputs {
		sum(in, i.Value)
	}
	out := make(map[string]*big.Int)
	var keys []string
	for _, o := range tx.Outputs {
		if _, ok := out[o.Value.Key()]; !ok {
			keys = append(keys, o.Value.Key())
		}
		sum(out, o.Value)
	}

	var errs []error
	for _, key := range keys {
		have, ok := in[key]
		if !ok {
			have = new(big.Int)
		}
		if out[key].Cmp(have) > 0 {
			errs = append(errs, newError(InsufficientInputFunds, "%s: outputs %v exceed inputs %v", key, out[key], have))
		}
	}
	return errs
}

func sum(m map[string]*big.Int, v ledger.Value) {
	acc, ok := m[v.Key()]
	if !ok {
		acc = new(big.Int)
		m[v.Key()] = acc
	}
	acc.Add(acc, v.Amount())
}

func checkAttestations(tx *ledger.IoTransaction) []error {
	var errs []error
	for i, in := range tx.Inputs {
		var props []quivr.Proposition
		switch att := in.Attestation.(type) {
		case ledger.PredicateAttestation:
			props = make([]quivr.Proposition, len(att.Lock.Challenges))
			for j, c := range att.Lock.Challenges {
				if r, ok := c.(ledger.Revealed); ok {
					props[j] = r.Proposition
				}
			}
		case ledger.ImageAttestation:
			props = att.Known
		case ledger.CommitmentAttestation:
			props = att.Known
		default:
			errs = append(errs, newError(InvalidProofType, "input %d has no attestation", i))
			continue
		}

		responses := in.Attestation.Proofs()
		if len(responses) != len(props) {
			errs = append(errs, newError(AttestationSizeMismatch, "input %d has %d responses for %d propositions", i, len(responses), len(props)))
			continue
		}
		for j, prop := range props {
			if prop == nil || responses[j] == nil || quivr.IsEmpty(responses[j]) {
				continue
			}
			if responses[j].Tag() != prop.Tag() {
				errs = append(errs, newError(InvalidProofType, "input %d response %d is %s for %s", i, j, responses[j].Tag(), prop.Tag()))
			}
		}
	}
	return errs
}
