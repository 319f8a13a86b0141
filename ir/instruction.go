// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

import "strings"

// BinaryOperator enumerates the arithmetic and comparison operators
// folded into the PLUS..LESS opcode range.
type BinaryOperator int

const (
	OpPlus BinaryOperator = iota
	OpMinus
	OpMultiply
	OpEquals
	OpLess
)

func (b BinaryOperator) String() string {
	switch b {
	case OpPlus:
		return "PLUS"
	case OpMinus:
		return "MINUS"
	case OpMultiply:
		return "MULTIPLY"
	case OpEquals:
		return "EQUALS"
	case OpLess:
		return "LESS"
	default:
		return "BINOP?"
	}
}

// Kind is the instruction opcode. The numeric values of NoOp..Less are
// the wire opcodes understood by the back-end; OpCall is a pseudo-op
// that only exists before inlining (L6) and never reaches the wire.
type Kind int

const (
	NoOp Kind = iota
	Mov
	Cmov
	Req
	Load
	Store
	Kill
	Pk
	New
	Cid
	Fresh
	Now
	Plus
	Minus
	Multiply
	Equals
	Less

	// OpCall is resolved away by inlining; Instruction.Opcode panics if
	// asked for its wire opcode.
	OpCall Kind = -1
)

func (k Kind) String() string {
	switch k {
	case NoOp:
		return "NOOP"
	case Mov:
		return "MOV"
	case Cmov:
		return "CMOV"
	case Req:
		return "REQ"
	case Load:
		return "LOAD"
	case Store:
		return "STORE"
	case Kill:
		return "KILL"
	case Pk:
		return "PK"
	case New:
		return "NEW"
	case Cid:
		return "CID"
	case Fresh:
		return "FRESH"
	case Now:
		return "NOW"
	case Plus:
		return OpPlus.String()
	case Minus:
		return OpMinus.String()
	case Multiply:
		return OpMultiply.String()
	case Equals:
		return OpEquals.String()
	case Less:
		return OpLess.String()
	case OpCall:
		return "CALL"
	default:
		return "?"
	}
}

// BinaryKindFor maps an operator to its opcode, mirroring the
// back-end's "12 + operator index" numbering.
func BinaryKindFor(op BinaryOperator) Kind { return Plus + Kind(op) }

// CallTarget is the function an (as yet unlinked) CALL instruction
// invokes: either a name qualified against another class, or, once L2
// linking runs, the resolved Function itself.
type CallTarget struct {
	Qualified *QualifiedCall
	Function  *Function
}

// QualifiedCall names a function on another class by name, before
// linking resolves it to a *Function.
type QualifiedCall struct {
	QualifiedClassName string
	Name               string
}

func (c *CallTarget) Resolved() bool { return c.Function != nil }

func (c *CallTarget) String() string {
	if c.Function != nil {
		return c.Function.Class.QualifiedName() + "." + c.Function.Name
	}
	return c.Qualified.QualifiedClassName + "." + c.Qualified.Name
}

// Instruction is the single concrete representation for every opcode
// in the instruction set, plus the pseudo-instruction CALL that is
// eliminated during inlining. Which of Dst/Value1/Value2/extra fields
// are meaningful depends on Kind; see the New* constructors.
type Instruction struct {
	Kind Kind

	Dst    *Register
	Value1 Value
	Value2 Value

	BinOp BinaryOperator // meaningful iff Kind in {Plus,Minus,Multiply,Equals,Less}

	// CALL-only fields, cleared by inlining.
	Call          *CallTarget
	CallArguments []Value
	SenderIsSelf  bool
}

func NewNoOp() *Instruction { return &Instruction{Kind: NoOp} }

func NewMove(dst *Register, src Value) *Instruction {
	return &Instruction{Kind: Mov, Dst: dst, Value1: src}
}

func NewConditionalMove(dst *Register, condition, src Value) *Instruction {
	return &Instruction{Kind: Cmov, Dst: dst, Value1: condition, Value2: src}
}

func NewRequire(condition Value) *Instruction {
	return &Instruction{Kind: Req, Value1: condition}
}

func NewLoad(dst *Register, objectID Value, field *FieldReference) *Instruction {
	return &Instruction{Kind: Load, Dst: dst, Value1: objectID, Value2: field}
}

func NewStore(src *Register, targetObjectID Value, field *FieldReference) *Instruction {
	return &Instruction{Kind: Store, Dst: src, Value1: targetObjectID, Value2: field}
}

func NewKill(objectID Value) *Instruction {
	return &Instruction{Kind: Kill, Value1: objectID}
}

func NewPublicKey(dst *Register, objectID Value) *Instruction {
	return &Instruction{Kind: Pk, Dst: dst, Value1: objectID}
}

func NewNewObject(dst *Register, class *ClassReference) *Instruction {
	return &Instruction{Kind: New, Dst: dst, Value1: class}
}

func NewCid(dst *Register, objectID Value) *Instruction {
	return &Instruction{Kind: Cid, Dst: dst, Value1: objectID}
}

func NewFresh(dst *Register) *Instruction { return &Instruction{Kind: Fresh, Dst: dst} }

func NewNow(dst *Register) *Instruction { return &Instruction{Kind: Now, Dst: dst} }

func NewBinaryOp(op BinaryOperator, dst *Register, v1, v2 Value) *Instruction {
	return &Instruction{Kind: BinaryKindFor(op), Dst: dst, Value1: v1, Value2: v2, BinOp: op}
}

func NewCall(dst *Register, target *CallTarget, args []Value, senderIsSelf bool) *Instruction {
	return &Instruction{Kind: OpCall, Dst: dst, Call: target, CallArguments: args, SenderIsSelf: senderIsSelf}
}

// ClassRef returns the class reference operand of a NEW instruction.
func (i *Instruction) ClassRef() *ClassReference {
	cr, _ := i.Value1.(*ClassReference)
	return cr
}

// Field returns the field reference operand of a LOAD or STORE
// instruction.
func (i *Instruction) Field() *FieldReference {
	fr, _ := i.Value2.(*FieldReference)
	return fr
}

// Opcode returns the wire opcode for i. It panics for OpCall: callers
// must inline away every CALL before serialization.
func (i *Instruction) Opcode() int {
	if i.Kind == OpCall {
		panic("ir: CALL instruction has no wire opcode; must be inlined first")
	}
	return int(i.Kind)
}

// IsWrite reports whether the instruction writes to Dst (the "write
// instructions" family in the spec: every opcode except REQ, STORE,
// KILL and NOOP).
func (i *Instruction) IsWrite() bool {
	switch i.Kind {
	case Req, Store, Kill, NoOp:
		return false
	default:
		return true
	}
}

// Arguments returns the instruction's operand slots in display order:
// [register, value1, value2] for every kind except CALL, which
// displays [destination, call arguments...].
func (i *Instruction) Arguments() []Value {
	if i.Kind == OpCall {
		args := make([]Value, 0, 1+len(i.CallArguments))
		args = append(args, regOrNil(i.Dst))
		args = append(args, i.CallArguments...)
		return args
	}
	return []Value{regOrNil(i.Dst), i.Value1, i.Value2}
}

func regOrNil(r *Register) Value {
	if r == nil {
		return nil
	}
	return r
}

// Registers returns every Register operand of the instruction,
// including repeats, in operand order.
func (i *Instruction) Registers() []*Register {
	var out []*Register
	add := func(v Value) {
		if r, ok := v.(*Register); ok {
			out = append(out, r)
		}
	}
	if i.Dst != nil {
		out = append(out, i.Dst)
	}
	if i.Kind == OpCall {
		for _, a := range i.CallArguments {
			add(a)
		}
		return out
	}
	add(i.Value1)
	add(i.Value2)
	return out
}

func (i *Instruction) String() string {
	parts := make([]string, 0, 4)
	if i.Kind == OpCall {
		parts = append(parts, i.Kind.String(), i.Call.String())
	} else {
		parts = append(parts, i.Kind.String())
	}
	for _, a := range i.Arguments() {
		if a == nil {
			parts = append(parts, "_")
		} else {
			parts = append(parts, a.String())
		}
	}
	return strings.Join(parts, " ")
}

// GetInlinedEquivalent returns a copy of i with every register operand
// replaced per mapping, extending mapping with freshly cloned
// registers (label + "#" + postfix) the first time each is seen. This
// is the Go equivalent of the Python instruction's generic
// get_inlined_equivalent, applied explicitly per field since Go has no
// reflection-driven struct copy idiom here.
func (i *Instruction) GetInlinedEquivalent(mapping map[*Register]*Register, postfix string) *Instruction {
	clone := func(r *Register) *Register {
		if r == nil {
			return nil
		}
		if mapped, ok := mapping[r]; ok {
			return mapped
		}
		newReg := r.Clone(postfix)
		mapping[r] = newReg
		return newReg
	}
	cloneValue := func(v Value) Value {
		if r, ok := v.(*Register); ok {
			return clone(r)
		}
		return v
	}

	out := &Instruction{
		Kind:         i.Kind,
		BinOp:        i.BinOp,
		SenderIsSelf: i.SenderIsSelf,
		Call:         i.Call,
	}
	out.Dst = clone(i.Dst)
	if i.Kind == OpCall {
		out.CallArguments = make([]Value, len(i.CallArguments))
		for idx, a := range i.CallArguments {
			out.CallArguments[idx] = cloneValue(a)
		}
		return out
	}
	out.Value1 = cloneValue(i.Value1)
	out.Value2 = cloneValue(i.Value2)
	return out
}
