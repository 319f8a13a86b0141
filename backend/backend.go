// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package backend declares the interface to the cryptographic
// back-end: trusted setup, proof generation and verification,
// Merkle-tree commitments, and key-pair/account management. None of
// it is implemented here - per §1 the back-end is an external
// collaborator; this package only fixes the boundary the runtime and
// ledger packages code against, plus an in-memory fake good enough to
// drive the package's own tests end to end.
package backend

import "github.com/luxfi/zapper/serializer"

// CryptoParameters is the opaque output of trusted setup, threaded
// through every other back-end call.
type CryptoParameters interface{}

// KeyPair is a back-end-issued signing key plus its derived hex
// address.
type KeyPair struct {
	Address   string
	SecretKey string
	PublicKey string
}

// ExecutionResult is everything Runtime.Execute returns: the
// hex-encoded return value, the serials the execution consumed, the records it
// newly produced, the proof (nil if the back-end runs without proving
// enabled), the fresh per-execution seed, the Merkle root the
// execution was run against, and the ledger time it observed.
type ExecutionResult struct {
	ReturnValue     string
	ConsumedSerials []string
	NewRecords      []string
	Proof           []byte
	UniqueSeed      string
	MerkleTreeRoot  string
	CurrentTime     string
}

// ObjectState is a single object's on-chain state: its class id, its
// owner and object addresses, and its payload fields ordered by field
// location starting at 1 (owner occupies location 0 implicitly).
type ObjectState struct {
	ContractID string
	AddrObject string
	AddrOwner  string
	Payload    []string
}

// Runtime is the back-end's execution engine: it runs a serialized
// function against a hex argument vector and produces the artifacts a
// Transaction is built from.
type Runtime interface {
	NewUserAccount() (KeyPair, error)
	RegisterAccount(keys KeyPair) error
	GetAccountForAddress(addressHex string) (KeyPair, error)

	// Execute runs fn against arguments (hex-encoded [sender, args...])
	// at the given ledger time, returning the execution artifacts or
	// an error if the back-end refused or failed to execute.
	Execute(fn *serializer.SerializedFunction, arguments []string, currentTimeHex string) (ExecutionResult, error)

	GetState(objectIDHex string) (ObjectState, error)

	GetNofSyncedTx() (int, error)
	// SyncTx replays an already-accepted transaction's effects into
	// the back-end's local state, used both after a fresh execution
	// and when a runtime catches up on history it missed.
	SyncTx(index int, serials []string, records []string) error
}

// Verifier checks a back-end-produced proof against the public
// statement a transaction commits to.
type Verifier interface {
	Verify(
		seed string,
		root string,
		serials []string,
		records []string,
		classIDHex string,
		functionIDHex string,
		fn *serializer.SerializedFunction,
		timeHex string,
		proof []byte,
	) (bool, error)
}

// MerkleTree is the append-only commitment tree of record hashes; the
// ledger is the only caller that mutates it.
type MerkleTree interface {
	Insert(index int, recordHex string) error
	GetRoot() string
}
