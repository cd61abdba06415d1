// Package ledger defines the UTXO transaction model that attestations live in.
package ledger

import (
	"encoding/hex"
	"math/big"
	"slices"

	"github.com/sp301415/quivr/digest"
)

// TransactionID identifies a transaction by the digest of its signable bytes.
type TransactionID [32]byte

// String returns the hex encoding of id.
func (id TransactionID) String() string {
	return hex.EncodeToString(id[:])
}

// TransactionOutputAddress points at an output of a previous transaction.
type TransactionOutputAddress struct {
	Network uint32
	Ledger  uint32
	Index   uint32
	ID      TransactionID
}

// LockAddress is the address an output is locked to.
type LockAddress struct {
	Network uint32
	Ledger  uint32
	ID      [32]byte
}

// String returns the hex encoding of the lock id.
func (a LockAddress) String() string {
	return hex.EncodeToString(a.ID[:])
}

// NewLockAddress derives the address of lock on the given network and ledger.
func NewLockAddress(network, ledger uint32, lock Lock) LockAddress {
	addr := LockAddress{Network: network, Ledger: ledger}
	copy(addr.ID[:], digest.Blake2b256Sum(AppendLock(nil, lock)))
	return addr
}

// ValueKind is the kind of a Value.
type ValueKind uint8

const (
	// Lvl is the native currency.
	Lvl ValueKind = iota + 1
	// Topl is the staking token.
	Topl
	// Asset is a user defined token identified by its group and series.
	Asset
)

// String returns the name of k.
func (k ValueKind) String() string {
	switch k {
	case Lvl:
		return "LVL"
	case Topl:
		return "TOPL"
	case Asset:
		return "ASSET"
	}
	return "UNKNOWN"
}

// Value is a quantity of one kind of token.
type Value struct {
	Kind     ValueKind
	GroupID  []byte
	SeriesID []byte
	Quantity *big.Int
}

// NewLvl returns a Value of q LVLs.
func NewLvl(q int64) Value {
	return Value{Kind: Lvl, Quantity: big.NewInt(q)}
}

// Key identifies the asset of v, so that quantities of equal keys can be summed.
func (v Value) Key() string {
	if v.Kind != Asset {
		return v.Kind.String()
	}
	return v.Kind.String() + ":" + hex.EncodeToString(v.GroupID) + ":" + hex.EncodeToString(v.SeriesID)
}

// Amount returns the quantity of v. A nil quantity is zero.
func (v Value) Amount() *big.Int {
	if v.Quantity == nil {
		return new(big.Int)
	}
	return v.Quantity
}

func (v Value) appendBytes(b []byte) []byte {
	b = append(b, byte(v.Kind))
	b = appendBytes(b, v.GroupID)
	b = appendBytes(b, v.SeriesID)
	return appendBigInt(b, v.Quantity)
}

// Schedule bounds the ticks a transaction is valid in.
type Schedule struct {
	Min       uint64
	Max       uint64
	Timestamp uint64
}

// Datum carries the transaction-wide metadata.
type Datum struct {
	Schedule Schedule
	Metadata []byte
}

// SpentTransactionOutput is a transaction input.
type SpentTransactionOutput struct {
	Address     TransactionOutputAddress
	Attestation Attestation
	Value       Value
}

// UnspentTransactionOutput is a transaction output.
type UnspentTransactionOutput struct {
	Address LockAddress
	Value   Value
}

// IoTransaction moves value from spent outputs to new outputs.
type IoTransaction struct {
	Inputs  []SpentTransactionOutput
	Outputs []UnspentTransactionOutput
	Datum   Datum
}

// WithInputs returns a copy of tx with its inputs replaced.
func (tx *IoTransaction) WithInputs(inputs []SpentTransactionOutput) *IoTransaction {
	out := *tx
	out.Inputs = slices.Clone(inputs)
	out.Outputs = slices.Clone(tx.Outputs)
	return &out
}

// SignableBytes returns the bytes every proof in tx is bound to.
// The encoding covers every field except the attestation responses,
// so proving a transaction never changes its signable bytes.
func SignableBytes(tx *IoTransaction) []byte {
	var b []byte

	b = appendUint64(b, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		b = appendUint32(b, in.Address.Network)
		b = appendUint32(b, in.Address.Ledger)
		b = appendUint32(b, in.Address.Index)
		b = append(b, in.Address.ID[:]...)
		b = appendAttestation(b, in.Attestation)
		b = in.Value.appendBytes(b)
	}

	b = appendUint64(b, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		b = appendUint32(b, out.Address.Network)
		b = appendUint32(b, out.Address.Ledger)
		b = append(b, out.Address.ID[:]...)
		b = out.Value.appendBytes(b)
	}

	b = appendUint64(b, tx.Datum.Schedule.Min)
	b = appendUint64(b, tx.Datum.Schedule.Max)
	b = appendUint64(b, tx.Datum.Schedule.Timestamp)
	return appendBytes(b, tx.Datum.Metadata)
}

// ID returns the identifier of tx.
func ID(tx *IoTransaction) TransactionID {
	var id TransactionID
	copy(id[:], digest.Blake2b256Sum(SignableBytes(tx)))
	return id
}
