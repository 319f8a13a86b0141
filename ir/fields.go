// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

// Field is a class-level storage slot: a typed name, owned by a class,
// whose storage location Class.AddField recomputes each time a field
// is added (owner first, then the rest in name order).
type Field struct {
	Name  string
	Typ   Type
	Class *Class
	slot  int
}

func NewField(name string, t Type) *Field {
	return &Field{Name: name, Typ: t, slot: UnassignedSlot}
}

func (f *Field) FieldName() string { return f.Name }
func (f *Field) FieldType() Type   { return f.Typ }

func (f *Field) Assigned() bool { return f.slot != UnassignedSlot }
func (f *Field) Slot() int      { return f.slot }
func (f *Field) SetSlot(s int)  { f.slot = s }

func (f *Field) String() string { return f.Typ.String() + " " + f.Name }
