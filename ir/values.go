// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

const UnassignedSlot = -1

// Value is anything an instruction operand can hold: a register or one
// of the pseudo-constants (literal, field reference, class reference).
type Value interface {
	// Type reports the static type of the value, or the zero Type with
	// ok == false if it has not been resolved yet (e.g. a bare class
	// reference before linking).
	Type() (Type, bool)
	String() string
}

// Register names a storage slot within a function body. Before L8
// register allocation it carries only a label; Slot reports
// UnassignedSlot until allocation assigns it a concrete index.
type Register struct {
	Label    string
	slot     int
	typ      Type
	hasType  bool
}

// NewRegister creates a register with the given label and no assigned
// slot or type.
func NewRegister(label string) *Register {
	return &Register{Label: label, slot: UnassignedSlot}
}

func (r *Register) Type() (Type, bool) { return r.typ, r.hasType }

// SetType records the static type inferred for this register during
// type-checking (L3).
func (r *Register) SetType(t Type) { r.typ = t; r.hasType = true }

// Assigned reports whether register allocation (L8) has given this
// register a concrete storage slot.
func (r *Register) Assigned() bool { return r.slot != UnassignedSlot }

// Slot returns the assigned storage slot, or UnassignedSlot if none
// has been assigned yet.
func (r *Register) Slot() int { return r.slot }

// SetSlot assigns a concrete storage slot. Called exactly once per
// register, by the linear-scan allocator.
func (r *Register) SetSlot(slot int) { r.slot = slot }

func (r *Register) String() string { return r.Label }

// StringWithType renders "type label", or just "label" if the type has
// not been inferred yet.
func (r *Register) StringWithType() string {
	if r.hasType {
		return r.typ.String() + " " + r.Label
	}
	return r.Label
}

// Clone returns r unchanged if postfix is empty, otherwise a new
// register labelled "label#postfix" with a fresh, unassigned slot.
// Used by the inliner (L6) to rename a callee's locals per call site.
func (r *Register) Clone(postfix string) *Register {
	if postfix == "" {
		return r
	}
	return NewRegister(r.Label + "#" + postfix)
}

// pseudoConstant marks the three operand kinds that are never
// register-allocated: a literal, a field reference, or a class
// reference. They resolve to a constant operand at serialization time.
type pseudoConstant interface {
	Value
	isPseudoConstant()
}

// Constant is an immediate Uint, Long or Address literal.
type Constant struct {
	Value Word
	Typ   Type
}

// NewConstant builds a literal constant of the given type. The caller
// is responsible for ensuring v fits the declared width; width checks
// happen in the language front-end, not here.
func NewConstant(v Word, t Type) *Constant {
	return &Constant{Value: v, Typ: t}
}

func (c *Constant) Type() (Type, bool) { return c.Typ, true }
func (c *Constant) String() string     { return c.Value.ToHexStr() }
func (*Constant) isPseudoConstant()    {}

// FieldLike is implemented by both a class's own AssemblyField and a
// QualifiedReference into another class, the two things a
// FieldReference may point at.
type FieldLike interface {
	FieldName() string
	FieldType() Type
}

// FieldReference names a field by the field it resolves to, so it can
// be translated to a storage offset once the owning class is known.
type FieldReference struct {
	Field FieldLike
}

func NewFieldReference(f FieldLike) *FieldReference {
	return &FieldReference{Field: f}
}

func (f *FieldReference) Type() (Type, bool) { return f.Field.FieldType(), true }
func (f *FieldReference) String() string     { return f.Field.FieldName() }
func (*FieldReference) isPseudoConstant()    {}

// ClassReference names a class, either by name (before linking) or by
// a resolved *Class (after). A NEW instruction carries one of these
// as its class operand.
type ClassReference struct {
	Name  string
	Class *Class // nil until L2 linking resolves it
}

func NewUnresolvedClassReference(name string) *ClassReference {
	return &ClassReference{Name: name}
}

func NewClassReference(c *Class) *ClassReference {
	return &ClassReference{Name: c.QualifiedName(), Class: c}
}

func (c *ClassReference) Resolved() bool { return c.Class != nil }

// Type is unset for a class reference: its type is the operand's own
// business (the value it instantiates), not the reference's.
func (c *ClassReference) Type() (Type, bool) { return Type{}, false }

func (c *ClassReference) String() string {
	if c.Class != nil {
		return c.Class.QualifiedName()
	}
	return c.Name
}

func (*ClassReference) isPseudoConstant() {}

// QualifiedReference names a field on an explicitly-qualified class,
// used when a function calls across a linked sibling or superclass.
type QualifiedReference struct {
	QualifiedClassName string
	Name               string
	Typ                Type
}

func NewQualifiedReference(qualifiedClassName, name string, t Type) *QualifiedReference {
	return &QualifiedReference{QualifiedClassName: qualifiedClassName, Name: name, Typ: t}
}

func (q *QualifiedReference) FieldName() string { return q.Name }
func (q *QualifiedReference) FieldType() Type    { return q.Typ }
