// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Class is a compiled contract class: its fields, its functions, and
// (once the storage has added it in L1) its numeric class id. Phase logic (linking, checking, inlining, allocation) lives in
// the assembly package and operates on a Class by walking these maps;
// Class itself only holds the data and the handful of invariants that
// must hold the moment a field or function is added to it.
type Class struct {
	qualifiedName string
	HasAddress    bool
	Fields        map[string]*Field
	Functions     map[string]*Function
	ClassID       int
	classIDSet    bool
}

func NewClass(qualifiedName string, hasAddress bool) *Class {
	return &Class{
		qualifiedName: qualifiedName,
		HasAddress:    hasAddress,
		Fields:        map[string]*Field{},
		Functions:     map[string]*Function{},
	}
}

func (c *Class) QualifiedName() string { return c.qualifiedName }

func (c *Class) SetClassID(id int) { c.ClassID = id; c.classIDSet = true }
func (c *Class) HasClassID() bool  { return c.classIDSet }

// AddField registers a field with this class and recomputes field
// storage order. It rejects a field already owned by a different
// class, and a duplicate field name.
func (c *Class) AddField(f *Field) error {
	if f.Class != nil && f.Class != c {
		return fmt.Errorf("ir: tried adding field %s with incorrect class %s to %s", f.Name, f.Class.QualifiedName(), c.qualifiedName)
	}
	if _, exists := c.Fields[f.Name]; exists {
		return fmt.Errorf("ir: tried adding field %s to %s twice", f.Name, c.qualifiedName)
	}
	f.Class = c
	c.Fields[f.Name] = f
	c.setFieldLocations()
	return nil
}

func (c *Class) GetField(name string) (*Field, bool) {
	f, ok := c.Fields[name]
	return f, ok
}

// AddFunction registers a function with this class. It rejects a
// function already owned by a different class, and a duplicate
// function name.
func (c *Class) AddFunction(fn *Function) error {
	if fn.Class != nil && fn.Class != c {
		return fmt.Errorf("ir: tried adding function %s with incorrect class %s to %s", fn.Name, fn.Class.QualifiedName(), c.qualifiedName)
	}
	if _, exists := c.Functions[fn.Name]; exists {
		return fmt.Errorf("ir: tried adding function %s to %s twice", fn.Name, c.qualifiedName)
	}
	fn.Class = c
	c.Functions[fn.Name] = fn
	return nil
}

func (c *Class) GetFunction(name string) (*Function, bool) {
	fn, ok := c.Functions[name]
	return fn, ok
}

// SortedFieldNames and SortedFunctionNames give a deterministic
// iteration order over the class's maps, the Go equivalent of the
// original's order_dictionary_by_keys.
func (c *Class) SortedFieldNames() []string { return sortedKeys(c.Fields) }

func (c *Class) SortedFunctionNames() []string { return sortedKeys(c.Functions) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// setFieldLocations assigns each field a storage slot in sorted-name
// order, except that a field named "owner" is always forced to slot 0
// - mirroring the back-end convention that object ownership lives at a
// fixed offset.
func (c *Class) setFieldLocations() {
	names := c.SortedFieldNames()
	if i := indexOf(names, "owner"); i > 0 {
		names = append(append([]string{"owner"}, names[:i]...), names[i+1:]...)
	}
	for slot, name := range names {
		c.Fields[name].SetSlot(slot)
	}
}

func indexOf(names []string, target string) int {
	for i, n := range names {
		if n == target {
			return i
		}
	}
	return -1
}

// GetRegisters returns every register used across every function of
// the class.
func (c *Class) GetRegisters() []*Register {
	var out []*Register
	for _, name := range c.SortedFunctionNames() {
		out = append(out, c.Functions[name].GetRegisters()...)
	}
	return out
}

func (c *Class) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s:\n", c.qualifiedName)
	for _, name := range c.SortedFieldNames() {
		fmt.Fprintf(&b, "    %s\n", c.Fields[name])
	}
	b.WriteString("\n")
	funcNames := c.SortedFunctionNames()
	for idx, name := range funcNames {
		for _, line := range strings.Split(c.Functions[name].String(), "\n") {
			b.WriteString("    " + line + "\n")
		}
		if idx != len(funcNames)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
