// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"testing"

	"github.com/luxfi/zapper/backend"
	"github.com/luxfi/zapper/ir"
)

func TestPrepareArgumentsPrependsSenderAddress(t *testing.T) {
	sender, err := NewAccount(backend.KeyPair{Address: "0a"})
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}

	args := []ir.Word{ir.NewWord(1), ir.NewWord(2), ir.NewWord(3)}
	got := PrepareArguments(sender, args)

	if len(got) != 4 {
		t.Fatalf("expected 4 hex strings, got %d", len(got))
	}
	if got[0] != sender.Address.ToHexStr() {
		t.Errorf("expected sender address first, got %s", got[0])
	}
	for i, a := range args {
		if got[i+1] != a.ToHexStr() {
			t.Errorf("argument %d: expected %s, got %s", i, a.ToHexStr(), got[i+1])
		}
	}
}

func TestPrepareArgumentsWithNoArguments(t *testing.T) {
	sender, err := NewAccount(backend.KeyPair{Address: "01"})
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	got := PrepareArguments(sender, nil)
	if len(got) != 1 || got[0] != sender.Address.ToHexStr() {
		t.Fatalf("expected a single-element slice with just the sender address, got %v", got)
	}
}

func TestNewAccountRejectsMalformedAddress(t *testing.T) {
	_, err := NewAccount(backend.KeyPair{Address: "not-hex"})
	if err == nil {
		t.Fatalf("expected an error decoding a malformed hex address")
	}
}

func TestAccountEqualComparesKeyMaterial(t *testing.T) {
	a, err := NewAccount(backend.KeyPair{Address: "0a", SecretKey: "sk", PublicKey: "pk"})
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	b, err := NewAccount(backend.KeyPair{Address: "0a", SecretKey: "sk", PublicKey: "pk"})
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("expected accounts built from identical key pairs to be equal")
	}

	c, err := NewAccount(backend.KeyPair{Address: "0b", SecretKey: "sk", PublicKey: "pk"})
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	if a.Equal(c) {
		t.Errorf("expected accounts with different addresses to differ")
	}
}
