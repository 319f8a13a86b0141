// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime coordinates a local back-end with the ledger: it
// drives function calls end to end, keeps the back-end's local state
// in sync with the ledger's accepted-transaction history, and exposes
// the handle façade user code calls through (§6.5).
package runtime

import (
	"fmt"

	"github.com/luxfi/zapper/backend"
	"github.com/luxfi/zapper/ir"
)

// Account is a user's signing key pair and its derived address.
type Account struct {
	Keys    backend.KeyPair
	Address ir.Word
}

// NewAccount wraps a back-end key pair, decoding its hex address.
func NewAccount(keys backend.KeyPair) (Account, error) {
	addr, err := ir.WordFromHex(keys.Address)
	if err != nil {
		return Account{}, fmt.Errorf("runtime: decoding account address: %w", err)
	}
	return Account{Keys: keys, Address: addr}, nil
}

// Equal reports whether two accounts share the same key material.
func (a Account) Equal(other Account) bool {
	return a.Keys.Address == other.Keys.Address &&
		a.Keys.SecretKey == other.Keys.SecretKey &&
		a.Keys.PublicKey == other.Keys.PublicKey &&
		a.Address.Eq(other.Address)
}
