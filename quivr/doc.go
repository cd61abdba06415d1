// Package quivr implements the Quivr authorization language.
//
// A [Proposition] is a spending condition placed on a locked output.
// A [Proof] is a witness claiming to satisfy one Proposition for one
// specific transaction. Propositions and Proofs form parallel trees:
// leaves check a single fact (a digest opening, a signature, a height or
// tick range, a named-location comparison) and composites combine
// sub-results with Not, And, Or and k-of-n Threshold.
//
// Every proof node except Locked and Empty carries a [TxBind], the
// Blake2b-256 hash of its tag and the transaction's signable bytes.
// A proof made for one transaction therefore never verifies against another.
//
// The [Verifier] checks a Proposition against a Proof under a
// [DynamicContext] supplied by the host. Failures are returned as
// [*AuthorizationError] values.
//
// The [Prover] builds a Proof tree from the secrets of a [SecretStore].
// It never fails: leaves it cannot prove are left as [EmptyProof], which
// the next verification pass rejects.
//
// Both types are closed: every variant implements the unexported dispatch
// methods of its interface, so no variant can reach evaluation unhandled.
package quivr
