// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compiler

import (
	"testing"

	"github.com/luxfi/zapper/ir"
)

// TestWriteFieldLiftsConstantThroughMove is the literal scenario 8 of
// the testable properties: a field write of a constant must serialize
// as a MOV of the constant into a fresh register followed by a STORE
// of that register, never a STORE of a constant directly.
func TestWriteFieldLiftsConstantThroughMove(t *testing.T) {
	b := NewBuilder()
	e := NewEmitter(b)

	selfReg := b.NextRegister("self")
	selfReg.SetType(ir.ClassType("Foo"))
	self := Expr{Value: selfReg, Typ: ir.ClassType("Foo")}

	e.WriteField(self, "counter", ir.Uint(), e.ConstUint(1))

	if len(b.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(b.Instructions))
	}
	mov := b.Instructions[0]
	store := b.Instructions[1]

	if mov.Kind != ir.Mov {
		t.Fatalf("expected first instruction to be MOV, got %s", mov.Kind)
	}
	constant, ok := mov.Value1.(*ir.Constant)
	if !ok || constant.Value.Uint64() != 1 {
		t.Fatalf("expected MOV source to be constant 1, got %v", mov.Value1)
	}

	if store.Kind != ir.Store {
		t.Fatalf("expected second instruction to be STORE, got %s", store.Kind)
	}
	if store.Dst != mov.Dst {
		t.Fatalf("expected STORE to read the register MOV just wrote")
	}
}

// TestWriteFieldPassesRegistersThroughUnchanged confirms the common
// case - writing an existing register's value - never inserts an
// unnecessary MOV.
func TestWriteFieldPassesRegistersThroughUnchanged(t *testing.T) {
	b := NewBuilder()
	e := NewEmitter(b)

	selfReg := b.NextRegister("self")
	selfReg.SetType(ir.ClassType("Foo"))
	self := Expr{Value: selfReg, Typ: ir.ClassType("Foo")}

	arg := b.NextRegister("amount")
	arg.SetType(ir.Uint())

	e.WriteField(self, "counter", ir.Uint(), Expr{Value: arg, Typ: ir.Uint()})

	if len(b.Instructions) != 1 {
		t.Fatalf("expected a single STORE instruction, got %d", len(b.Instructions))
	}
	if b.Instructions[0].Kind != ir.Store {
		t.Fatalf("expected STORE, got %s", b.Instructions[0].Kind)
	}
	if b.Instructions[0].Dst != arg {
		t.Fatalf("expected STORE to read the caller's own register directly")
	}
}

// TestCompileContractOmitsUninitializedFieldStore exercises
// CompileContract end to end on a constructor that forgets to
// initialize a declared field, which Phase L5 must reject once the
// class reaches the assembly pipeline (checked indirectly here by
// confirming the constructor's instruction stream omits the store,
// since CompileContract itself only builds the class - the assembly
// package's checkConstructors is what actually enforces the rule).
func TestCompileContractOmitsUninitializedFieldStore(t *testing.T) {
	desc := ContractDescriptor{
		Name: "Incomplete",
		Fields: []FieldDecl{
			{Name: "owner", Type: ir.Address()},
			{Name: "extra", Type: ir.Uint()},
		},
		Functions: []FunctionDecl{
			{
				Name:          "make",
				IsConstructor: true,
				ReturnType:    ir.ClassType("Incomplete"),
				Body: func(e *Emitter, self Expr, args []Expr) Expr {
					e.SetOwner(self, e.Me())
					return self
				},
			},
		},
	}
	class, err := CompileContract(desc)
	if err != nil {
		t.Fatalf("CompileContract: %v", err)
	}
	fn, ok := class.GetFunction("make")
	if !ok {
		t.Fatalf("expected function make to exist")
	}
	for _, instr := range fn.Instructions {
		if instr.Kind == ir.Store {
			if field, ok := instr.Field().Field.(*ir.QualifiedReference); ok && field.Name == "extra" {
				t.Fatalf("did not expect a store to the uninitialized field")
			}
		}
	}
}
