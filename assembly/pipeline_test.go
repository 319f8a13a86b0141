// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly_test

import (
	"errors"
	"testing"

	"github.com/luxfi/zapper/assembly"
	"github.com/luxfi/zapper/compiler"
	"github.com/luxfi/zapper/ir"
)

// TestRecursiveCallGraphFailsWithRecursionError is scenario 6: two
// constructors that call each other across classes must be rejected
// at inlining time, since the call graph has no topological order.
func TestRecursiveCallGraphFailsWithRecursionError(t *testing.T) {
	a := compiler.ContractDescriptor{
		Name:   "A",
		Fields: []compiler.FieldDecl{{Name: "owner", Type: ir.Address()}},
		Functions: []compiler.FunctionDecl{
			{
				Name:          "make",
				IsConstructor: true,
				Params:        []compiler.ParamDecl{{Name: "x", Type: ir.Uint()}},
				ReturnType:    ir.Uint(),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					e.SetOwner(self, e.Me())
					return e.Call("B", "make", ir.Uint(), []compiler.Expr{args[0]}, false)
				},
			},
		},
	}
	b := compiler.ContractDescriptor{
		Name:   "B",
		Fields: []compiler.FieldDecl{{Name: "owner", Type: ir.Address()}},
		Functions: []compiler.FunctionDecl{
			{
				Name:          "make",
				IsConstructor: true,
				Params:        []compiler.ParamDecl{{Name: "x", Type: ir.Uint()}},
				ReturnType:    ir.Uint(),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					e.SetOwner(self, e.Me())
					return e.Call("A", "make", ir.Uint(), []compiler.Expr{args[0]}, false)
				},
			},
		},
	}

	classA, err := compiler.CompileContract(a)
	if err != nil {
		t.Fatalf("CompileContract(A): %v", err)
	}
	classB, err := compiler.CompileContract(b)
	if err != nil {
		t.Fatalf("CompileContract(B): %v", err)
	}

	storage := assembly.NewStorage()
	if err := storage.AddClass(classA); err != nil {
		t.Fatalf("AddClass(A): %v", err)
	}
	if err := storage.AddClass(classB); err != nil {
		t.Fatalf("AddClass(B): %v", err)
	}

	err = storage.Compile(assembly.DefaultLimits())
	if err == nil {
		t.Fatalf("expected Compile to fail on a recursive call graph")
	}
	var recursion *assembly.RecursionError
	if !errors.As(err, &recursion) {
		t.Fatalf("expected *assembly.RecursionError, got %T: %v", err, err)
	}
}

// TestRegisterAllocationAssignsMeAndArgumentsFirst is scenario 7: `me`
// always lands in slot 0, followed by the declared arguments in
// order, with every later temporary landing at slot 2 or above.
func TestRegisterAllocationAssignsMeAndArgumentsFirst(t *testing.T) {
	desc := compiler.ContractDescriptor{
		Name:   "Echo",
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

	storage := assembly.NewStorage()
	if err := storage.AddClass(class); err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	if err := storage.Compile(assembly.DefaultLimits()); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	fn, ok := class.GetFunction("make")
	if !ok {
		t.Fatalf("expected function make to exist")
	}

	if fn.MeRegister.Slot() != 0 {
		t.Errorf("expected me at slot 0, got %d", fn.MeRegister.Slot())
	}
	if len(fn.ArgumentRegisters) != 1 {
		t.Fatalf("expected a single argument register, got %d", len(fn.ArgumentRegisters))
	}
	if fn.ArgumentRegisters[0].Slot() != 1 {
		t.Errorf("expected x at slot 1, got %d", fn.ArgumentRegisters[0].Slot())
	}
	if fn.ReturnRegister.Slot() < 2 {
		t.Errorf("expected return register at slot >= 2, got %d", fn.ReturnRegister.Slot())
	}
}
