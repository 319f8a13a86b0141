// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compiler

import "github.com/luxfi/zapper/ir"

// Expr is a compiled value: the IR value backing it (a register or a
// constant) plus the zapper-level type it carries. Function bodies
// are written as plain Go closures threading Exprs through Emitter
// calls, the Go-native replacement for the original's operator-
// overloading event observer.
type Expr struct {
	Value ir.Value
	Typ   ir.Type
}

// Emitter provides one named method per high-level contract operation
// (§4.2), each of which appends the corresponding instruction(s) to
// the underlying builder and returns the Expr for the result.
type Emitter struct {
	Builder *Builder
}

func NewEmitter(b *Builder) *Emitter { return &Emitter{Builder: b} }

// Me returns the caller's address, `msg.sender` in contract-language
// terms.
func (e *Emitter) Me() Expr {
	return Expr{Value: e.Builder.MeRegister, Typ: ir.Address()}
}

// ConstUint, ConstLong and ConstAddress wrap a literal as an Expr of
// the matching type.
func (e *Emitter) ConstUint(v uint64) Expr {
	return Expr{Value: ir.NewConstant(ir.NewWord(v), ir.Uint()), Typ: ir.Uint()}
}

func (e *Emitter) ConstLong(w ir.Word) Expr {
	return Expr{Value: ir.NewConstant(w, ir.Long()), Typ: ir.Long()}
}

func (e *Emitter) ConstAddress(w ir.Word) Expr {
	return Expr{Value: ir.NewConstant(w, ir.Address()), Typ: ir.Address()}
}

func (e *Emitter) fieldReference(receiver Expr, fieldName string, fieldType ir.Type) *ir.FieldReference {
	ref := ir.NewQualifiedReference(receiver.Typ.ClassName, fieldName, fieldType)
	return ir.NewFieldReference(ref)
}

// ReadField emits a LOAD of receiver.fieldName.
func (e *Emitter) ReadField(receiver Expr, fieldName string, fieldType ir.Type) Expr {
	reg := e.Builder.NextRegister("read")
	e.Builder.Append(ir.NewLoad(reg, receiver.Value, e.fieldReference(receiver, fieldName, fieldType)))
	return Expr{Value: reg, Typ: fieldType}
}

// WriteField emits a STORE of value into receiver.fieldName. A
// constant value is first MOVed into a fresh register, since STORE's
// source operand must be a register.
func (e *Emitter) WriteField(receiver Expr, fieldName string, fieldType ir.Type, value Expr) {
	ref := e.fieldReference(receiver, fieldName, fieldType)
	rhs, ok := value.Value.(*ir.Register)
	if !ok {
		rhs = e.Builder.NextRegister("constant")
		e.Builder.Append(ir.NewMove(rhs, value.Value))
	}
	e.Builder.Append(ir.NewStore(rhs, receiver.Value, ref))
}

// Owner and SetOwner are the conventional accessors for the
// always-present `owner` field.
func (e *Emitter) Owner(receiver Expr) Expr {
	return e.ReadField(receiver, "owner", ir.Address())
}

func (e *Emitter) SetOwner(receiver Expr, value Expr) {
	e.WriteField(receiver, "owner", ir.Address(), value)
}

// Address emits PK(receiver): the object's derived on-chain address.
// Only valid for classes flagged has_address.
func (e *Emitter) Address(receiver Expr) Expr {
	reg := e.Builder.NextRegister("address")
	e.Builder.Append(ir.NewPublicKey(reg, receiver.Value))
	return Expr{Value: reg, Typ: ir.Address()}
}

// Kill emits KILL(receiver), retiring the object and publishing its
// serial.
func (e *Emitter) Kill(receiver Expr) {
	e.Builder.Append(ir.NewKill(receiver.Value))
}

// Fresh emits FRESH: a value unique per instruction position per
// transaction.
func (e *Emitter) Fresh() Expr {
	reg := e.Builder.NextRegister("fresh")
	e.Builder.Append(ir.NewFresh(reg))
	return Expr{Value: reg, Typ: ir.Long()}
}

// Now emits NOW: the ledger-supplied transaction timestamp.
func (e *Emitter) Now() Expr {
	reg := e.Builder.NextRegister("now")
	e.Builder.Append(ir.NewNow(reg))
	return Expr{Value: reg, Typ: ir.Uint()}
}

// Require emits REQ(condition): abort the transaction if it is zero.
func (e *Emitter) Require(condition Expr) {
	e.Builder.Append(ir.NewRequire(condition.Value))
}

// RequireEquals is sugar for Require(Equals(a, b)).
func (e *Emitter) RequireEquals(a, b Expr) {
	e.Require(e.BinaryOp(ir.OpEquals, a, b))
}

// IfThenElse emits a MOV of the false branch into a fresh register
// followed by a CMOV of the true branch, guarded by condition -
// exactly the "CMOV-over-MOV" idiom named in §4.2.
func (e *Emitter) IfThenElse(condition, whenTrue, whenFalse Expr) Expr {
	res := e.Builder.NextRegister("res")
	e.Builder.Append(ir.NewMove(res, whenFalse.Value))
	e.Builder.Append(ir.NewConditionalMove(res, condition.Value, whenTrue.Value))
	return Expr{Value: res, Typ: whenTrue.Typ}
}

// BinaryOp emits one of PLUS/MINUS/MULTIPLY/EQUALS/LESS.
func (e *Emitter) BinaryOp(op ir.BinaryOperator, a, b Expr) Expr {
	reg := e.Builder.NextRegister(op.String())
	e.Builder.Append(ir.NewBinaryOp(op, reg, a.Value, b.Value))
	return Expr{Value: reg, Typ: ir.Uint()}
}

func (e *Emitter) Plus(a, b Expr) Expr     { return e.BinaryOp(ir.OpPlus, a, b) }
func (e *Emitter) Minus(a, b Expr) Expr    { return e.BinaryOp(ir.OpMinus, a, b) }
func (e *Emitter) Multiply(a, b Expr) Expr { return e.BinaryOp(ir.OpMultiply, a, b) }
func (e *Emitter) Equals(a, b Expr) Expr   { return e.BinaryOp(ir.OpEquals, a, b) }
func (e *Emitter) Less(a, b Expr) Expr     { return e.BinaryOp(ir.OpLess, a, b) }

// Not, And, Or, NotEquals, LessOrEqual and GreaterOrEqual are sugar
// defined purely in terms of the five primitive operators, mirroring
// the original's derived boolean operators.
func (e *Emitter) Not(a Expr) Expr { return e.Minus(e.ConstUint(1), a) }
func (e *Emitter) And(a, b Expr) Expr { return e.Multiply(a, b) }
func (e *Emitter) Or(a, b Expr) Expr  { return e.Minus(e.Plus(a, b), e.Multiply(a, b)) }
func (e *Emitter) NotEquals(a, b Expr) Expr { return e.Not(e.Equals(a, b)) }
func (e *Emitter) Greater(a, b Expr) Expr   { return e.Less(b, a) }
func (e *Emitter) LessOrEqual(a, b Expr) Expr {
	return e.Or(e.Less(a, b), e.Equals(a, b))
}
func (e *Emitter) GreaterOrEqual(a, b Expr) Expr {
	return e.Or(e.Greater(a, b), e.Equals(a, b))
}

// Call emits a CALL targeting the named function on the named class,
// resolved to a direct *ir.Function reference by the assembly
// package's link phase (L2).
func (e *Emitter) Call(qualifiedClassName, functionName string, returnType ir.Type, args []Expr, senderIsSelf bool) Expr {
	dst := e.Builder.NextRegister("return")
	values := make([]ir.Value, len(args))
	for i, a := range args {
		values[i] = a.Value
	}
	target := &ir.CallTarget{Qualified: &ir.QualifiedCall{QualifiedClassName: qualifiedClassName, Name: functionName}}
	e.Builder.Append(ir.NewCall(dst, target, values, senderIsSelf))
	return Expr{Value: dst, Typ: returnType}
}
