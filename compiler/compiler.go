// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compiler

import "github.com/luxfi/zapper/ir"

// FieldDecl declares a single class field.
type FieldDecl struct {
	Name string
	Type ir.Type
}

// ParamDecl declares a single function parameter, excluding the
// implicit `self` parameter every non-constructor method receives.
type ParamDecl struct {
	Name string
	Type ir.Type
}

// FunctionBody builds a function's instruction stream. self is the
// receiving object: for a constructor it is the register the compiler
// allocates for the implicit NEW; for every other function it is the
// conventional first parameter, named "self" and typed Ref(OwnClass).
// args excludes self. The returned Expr becomes the function's return
// value.
type FunctionBody func(e *Emitter, self Expr, args []Expr) Expr

// FunctionDecl declares a single class function.
type FunctionDecl struct {
	Name         string
	Params       []ParamDecl
	ReturnType   ir.Type // zero value defaults to Uint, per §4.2
	IsConstructor bool
	IsPrivate     bool
	IsPrivateFor  string
	Body          FunctionBody
}

// ContractDescriptor is the compiler's input: a class's fields and
// functions, each function's body supplied as a Go closure over
// Emitter calls rather than a parsed high-level-language AST - the
// "any surface syntax" latitude §1 grants implementers.
type ContractDescriptor struct {
	Name       string
	HasAddress bool
	Fields     []FieldDecl
	Functions  []FunctionDecl
}

// CompileContract lowers desc into an unlinked, unprocessed ir.Class:
// fields and functions are populated, but linking, type-checking,
// access-checking, inlining, runtime-check insertion and allocation
// (the assembly package's L2-L8) have not yet run.
func CompileContract(desc ContractDescriptor) (*ir.Class, error) {
	class := ir.NewClass(desc.Name, desc.HasAddress)
	for _, fd := range desc.Fields {
		if err := class.AddField(ir.NewField(fd.Name, fd.Type)); err != nil {
			return nil, err
		}
	}

	selfType := ir.ClassType(desc.Name)

	for _, decl := range desc.Functions {
		b := NewBuilder()
		e := NewEmitter(b)

		var self Expr
		var argRegisters []*ir.Register
		var args []Expr

		if decl.IsConstructor {
			selfReg := b.NextRegister("self")
			b.Append(ir.NewNewObject(selfReg, ir.NewUnresolvedClassReference(desc.Name)))
			self = Expr{Value: selfReg, Typ: selfType}
		} else {
			selfReg := b.NextRegister("self")
			selfReg.SetType(selfType)
			argRegisters = append(argRegisters, selfReg)
			self = Expr{Value: selfReg, Typ: selfType}
		}

		for _, p := range decl.Params {
			reg := b.NextRegister(p.Name)
			reg.SetType(p.Type)
			argRegisters = append(argRegisters, reg)
			args = append(args, Expr{Value: reg, Typ: p.Type})
		}

		result := decl.Body(e, self, args)

		returnType := decl.ReturnType
		if returnType == (ir.Type{}) {
			returnType = ir.Uint()
		}
		returnReg := b.NextRegister("return")
		returnReg.SetType(returnType)
		b.Append(ir.NewMove(returnReg, result.Value))

		fn := ir.NewFunction(decl.Name, b.MeRegister, argRegisters, returnReg)
		fn.Instructions = b.Instructions
		fn.IsConstructor = decl.IsConstructor
		fn.IsPrivate = decl.IsPrivate
		fn.IsPrivateFor = decl.IsPrivateFor

		if err := class.AddFunction(fn); err != nil {
			return nil, err
		}
	}

	return class, nil
}
