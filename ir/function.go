// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

import (
	"fmt"
	"strings"
)

// Function is a compiled contract function: its parameter/return
// registers, its body, and the handful of flags (constructor,
// private, private-for) that the access-policy phase (L4) enforces.
// Like Class, Function only holds data; the compiler pipeline phases
// in the assembly package mutate it in place as they run.
type Function struct {
	Name  string
	Class *Class

	Instructions []*Instruction

	// RuntimeTypeChecks holds the argument checks L7 prepends ahead of
	// Instructions (a PLUS range check per Uint argument, a CID check
	// per contract-typed one); GetAllInstructions returns them
	// concatenated.
	RuntimeTypeChecks []*Instruction

	MeRegister        *Register
	ArgumentRegisters []*Register
	ReturnRegister    *Register

	IsConstructor bool
	IsPrivate     bool
	IsPrivateFor  string // "" means not scoped to a single caller class
}

func NewFunction(name string, me *Register, args []*Register, ret *Register) *Function {
	return &Function{
		Name:              name,
		MeRegister:        me,
		ArgumentRegisters: args,
		ReturnRegister:    ret,
	}
}

// GetAllInstructions returns the runtime type checks followed by the
// body, the order the back-end actually executes them in.
func (f *Function) GetAllInstructions() []*Instruction {
	all := make([]*Instruction, 0, len(f.RuntimeTypeChecks)+len(f.Instructions))
	all = append(all, f.RuntimeTypeChecks...)
	all = append(all, f.Instructions...)
	return all
}

// GetRegisters returns the set of distinct registers referenced
// anywhere in the function, always including MeRegister even if the
// body never mentions it explicitly.
func (f *Function) GetRegisters() []*Register {
	seen := map[*Register]bool{f.MeRegister: true}
	out := []*Register{f.MeRegister}
	for _, instr := range f.GetAllInstructions() {
		for _, r := range instr.Registers() {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// CloneForInlining produces a fresh copy of f with every register
// renamed "label#postfix" (or left alone if postfix is ""), the Go
// equivalent of the original's clone_for_inlining. registerMapping
// seeds (and is extended with) the register rename table, so a caller
// inlining nested calls can keep renaming consistent across siblings.
func (f *Function) CloneForInlining(postfix string, registerMapping map[*Register]*Register) *Function {
	if registerMapping == nil {
		registerMapping = map[*Register]*Register{}
	}

	newMe := f.MeRegister.Clone(postfix)
	newArgs := make([]*Register, len(f.ArgumentRegisters))
	for i, r := range f.ArgumentRegisters {
		newArgs[i] = r.Clone(postfix)
	}
	newReturn := f.ReturnRegister.Clone(postfix)

	for i, r := range f.ArgumentRegisters {
		registerMapping[r] = newArgs[i]
	}
	registerMapping[f.MeRegister] = newMe
	registerMapping[f.ReturnRegister] = newReturn

	newInstructions := make([]*Instruction, len(f.Instructions))
	for i, instr := range f.Instructions {
		newInstructions[i] = instr.GetInlinedEquivalent(registerMapping, postfix)
	}

	clone := NewFunction(f.Name, newMe, newArgs, newReturn)
	clone.Instructions = newInstructions
	clone.IsConstructor = f.IsConstructor
	clone.IsPrivate = f.IsPrivate
	clone.IsPrivateFor = f.IsPrivateFor
	clone.Class = f.Class
	return clone
}

func (f *Function) String() string {
	args := make([]string, len(f.ArgumentRegisters))
	for i, a := range f.ArgumentRegisters {
		args[i] = a.StringWithType()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "def %s(%s) -> %s:\n", f.Name, strings.Join(args, ", "), f.ReturnRegister.StringWithType())
	lines := make([]string, 0, len(f.GetAllInstructions()))
	for _, instr := range f.GetAllInstructions() {
		lines = append(lines, "    "+instr.String())
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
