// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compiler lowers a contract descriptor - fields, and
// functions built from emitter calls - into an ir.Class ready for the
// assembly storage pipeline.
package compiler

import (
	"fmt"

	"github.com/luxfi/zapper/ir"
)

// Builder hands out fresh, uniquely labelled registers and
// accumulates the instruction stream for a single function being
// compiled.
type Builder struct {
	MeRegister *ir.Register

	nextIndex    int
	Instructions []*ir.Instruction
}

// NewBuilder creates a builder with a fresh `me` register typed
// Address, per function.
func NewBuilder() *Builder {
	me := ir.NewRegister("me")
	me.SetType(ir.Address())
	return &Builder{MeRegister: me}
}

// NextRegister returns a fresh register labelled "prefix#n" for a
// monotonically increasing n, unique within this builder.
func (b *Builder) NextRegister(prefix string) *ir.Register {
	b.nextIndex++
	return ir.NewRegister(fmt.Sprintf("%s#%d", prefix, b.nextIndex))
}

// Append records instr as the next instruction emitted for the
// function under construction.
func (b *Builder) Append(instr *ir.Instruction) {
	b.Instructions = append(b.Instructions, instr)
}
