// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/luxfi/zapper/backend"
	"github.com/luxfi/zapper/compiler"
	"github.com/luxfi/zapper/ir"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	desc := compiler.ContractDescriptor{
		Name:   "Widget",
		Fields: []compiler.FieldDecl{{Name: "owner", Type: ir.Address()}},
		Functions: []compiler.FunctionDecl{
			{
				Name:          "make",
				IsConstructor: true,
				Params:        []compiler.ParamDecl{{Name: "x", Type: ir.Uint()}},
				ReturnType:    ir.Uint(),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					e.SetOwner(self, e.Me())
					return args[0]
				},
			},
		},
	}
	class, err := compiler.CompileContract(desc)
	if err != nil {
		t.Fatalf("CompileContract: %v", err)
	}

	mem := backend.NewMemoryBackend()
	l := NewLedger(mem, mem, Config{InitialTime: 100, DisableProof: true, RegisterBudget: 10})
	if err := l.RegisterClasses([]*ir.Class{class}); err != nil {
		t.Fatalf("RegisterClasses: %v", err)
	}
	return l
}

func TestVerifyAndExecuteTransactionRejectsDuplicateSerialWithinTransaction(t *testing.T) {
	l := newTestLedger(t)

	tx := Transaction{
		ClassName:       "Widget",
		FunctionName:    "make",
		MerkleTreeRoot:  l.GetCurrentRoot(),
		ConsumedSerials: []string{"1", "1"},
		UniqueSeed:      "seed",
		CurrentTime:     l.CurrentTime(),
	}

	err := l.VerifyAndExecuteTransaction(tx)
	if err == nil {
		t.Fatalf("expected rejection for duplicate serials within one transaction")
	}
	var rejected *TxRejected
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *TxRejected, got %T: %v", err, err)
	}
}

func TestVerifyAndExecuteTransactionRejectsUnknownFunction(t *testing.T) {
	l := newTestLedger(t)

	tx := Transaction{
		ClassName:      "Widget",
		FunctionName:   "does_not_exist",
		MerkleTreeRoot: l.GetCurrentRoot(),
		UniqueSeed:     "seed",
		CurrentTime:    l.CurrentTime(),
	}

	err := l.VerifyAndExecuteTransaction(tx)
	if err == nil {
		t.Fatalf("expected rejection for an unregistered function")
	}
	var rejected *TxRejected
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *TxRejected, got %T: %v", err, err)
	}
}

func TestVerifyAndExecuteTransactionLeavesStateUnchangedOnRejection(t *testing.T) {
	l := newTestLedger(t)
	rootBefore := l.GetCurrentRoot()
	timeBefore := l.CurrentTime()

	tx := Transaction{
		ClassName:      "Widget",
		FunctionName:   "make",
		MerkleTreeRoot: "not-the-real-root",
		UniqueSeed:     "seed",
		CurrentTime:    timeBefore,
	}
	err := l.VerifyAndExecuteTransaction(tx)
	if err == nil {
		t.Fatalf("expected rejection for a stale root")
	}
	var rejected *TxRejected
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *TxRejected, got %T: %v", err, err)
	}

	if l.GetCurrentRoot() != rootBefore {
		t.Errorf("root changed after a rejected transaction")
	}
	if l.CurrentTime() != timeBefore {
		t.Errorf("clock changed after a rejected transaction")
	}
	if len(l.AcceptedTransactions()) != 0 {
		t.Errorf("expected no accepted transactions after a rejection")
	}
}

// TestLoadConfigRoundTripsDefaultConfig writes DefaultConfig back out as
// YAML and reads it back through LoadConfig, exercising the wired
// gopkg.in/yaml.v3 dependency end to end.
func TestLoadConfigRoundTripsDefaultConfig(t *testing.T) {
	want := DefaultConfig()

	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ledger.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

// TestLoadConfigAppliesDefaultsForOmittedFields checks that a config file
// naming only a subset of fields still gets DefaultConfig's values for
// the rest, matching LoadConfig seeding the decode target with defaults
// before unmarshalling.
func TestLoadConfigAppliesDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	if err := os.WriteFile(path, []byte("disable_proof: true\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	want.DisableProof = true
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

// TestLoadConfigRejectsMissingFile checks the wrapped os.ReadFile error
// path.
func TestLoadConfigRejectsMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatalf("expected an error loading a nonexistent config file")
	}
}
