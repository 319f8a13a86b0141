// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger validates and commits transactions against the
// published-serial set, seed set, and Merkle commitment tree (§4.6).
package ledger

// TxRejected is the single rejection error kind verify_and_execute
// raises: a human-readable reason and nothing else. Any failed check
// returns the ledger to its pre-call state; no partial mutation ever
// occurs.
type TxRejected struct {
	reason string
}

func newTxRejected(reason string) *TxRejected {
	return &TxRejected{reason: reason}
}

func (e *TxRejected) Error() string { return e.reason }

// Reason returns the human-readable rejection reason.
func (e *TxRejected) Reason() string { return e.reason }
