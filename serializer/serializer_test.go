// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serializer

import (
	"testing"

	"github.com/luxfi/zapper/assembly"
	"github.com/luxfi/zapper/compiler"
	"github.com/luxfi/zapper/ir"
)

func compileEcho(t *testing.T) *ir.Class {
	t.Helper()
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
	return class
}

func TestSerializeFunctionHappyPath(t *testing.T) {
	class := compileEcho(t)
	fn, ok := class.GetFunction("make")
	if !ok {
		t.Fatalf("expected function make to exist")
	}

	sf, err := SerializeFunction(class.ClassID, 0, fn)
	if err != nil {
		t.Fatalf("SerializeFunction: %v", err)
	}

	if sf.ClassID != class.ClassID {
		t.Errorf("expected class id %d, got %d", class.ClassID, sf.ClassID)
	}
	if sf.ReturnRegister != fn.ReturnRegister.Slot() {
		t.Errorf("expected return register %d, got %d", fn.ReturnRegister.Slot(), sf.ReturnRegister)
	}
	if len(sf.Instructions) == 0 {
		t.Fatalf("expected at least one serialized instruction")
	}
	for _, si := range sf.Instructions {
		if si.Opcode < 0 {
			t.Errorf("unexpected negative opcode %d", si.Opcode)
		}
	}
}

func TestSerializeFunctionRejectsNonInlinedCall(t *testing.T) {
	me := ir.NewRegister("me")
	me.SetSlot(0)
	arg := ir.NewRegister("x")
	arg.SetType(ir.Uint())
	arg.SetSlot(1)
	ret := ir.NewRegister("return")
	ret.SetType(ir.Uint())
	ret.SetSlot(2)

	fn := ir.NewFunction("f", me, []*ir.Register{arg}, ret)
	fn.Instructions = []*ir.Instruction{
		ir.NewCall(ret, &ir.CallTarget{}, nil, false),
	}

	_, err := SerializeFunction(0, 0, fn)
	if err == nil {
		t.Fatalf("expected an error serializing a function with a non-inlined CALL")
	}
}

func TestSerializeFunctionRejectsUnassignedReturnRegister(t *testing.T) {
	me := ir.NewRegister("me")
	me.SetSlot(0)
	ret := ir.NewRegister("return")
	ret.SetType(ir.Uint())

	fn := ir.NewFunction("f", me, nil, ret)
	fn.Instructions = nil

	_, err := SerializeFunction(0, 0, fn)
	if err == nil {
		t.Fatalf("expected an error serializing a function with an unassigned return register")
	}
}
