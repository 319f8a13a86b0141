// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import (
	"sort"

	"github.com/luxfi/zapper/ir"
)

// linearScanAllocator is the free-slot-pool allocator used by Phase
// L8(b). It differs from the source's set-based free pool only in
// being explicitly deterministic: Python's set.pop() has no ordering
// guarantee, while this always hands out the lowest-numbered free
// slot, matching the "lowest-numbered slot in the free pool" language
// of the register-allocation contract.
type linearScanAllocator struct {
	free       []int
	nRegisters int
}

func (a *linearScanAllocator) nextFreeRegister() int {
	if len(a.free) > 0 {
		sort.Ints(a.free)
		slot := a.free[0]
		a.free = a.free[1:]
		return slot
	}
	slot := a.nRegisters
	a.nRegisters++
	return slot
}

func (a *linearScanAllocator) release(slot int) {
	a.free = append(a.free, slot)
}

// allocateClass is Phase L8: assign every function's registers a
// storage slot via linear scan.
func allocateClass(c *ir.Class, limits Limits) error {
	for _, fname := range c.SortedFunctionNames() {
		if err := allocateFunction(c.Functions[fname], limits); err != nil {
			return err
		}
	}
	return nil
}

func allocateFunction(fn *ir.Function, limits Limits) error {
	a := &linearScanAllocator{}
	allInstructions := fn.GetAllInstructions()

	lastUsed := map[*ir.Register]*ir.Instruction{}
	for _, instr := range allInstructions {
		for _, r := range instr.Registers() {
			lastUsed[r] = instr
		}
	}

	fn.MeRegister.SetSlot(a.nextFreeRegister())
	for _, arg := range fn.ArgumentRegisters {
		arg.SetSlot(a.nextFreeRegister())
	}

	for _, instr := range allInstructions {
		for _, r := range instr.Registers() {
			if !r.Assigned() {
				r.SetSlot(a.nextFreeRegister())
			}
		}
		for _, r := range instr.Registers() {
			if lastUsed[r] == instr {
				a.release(r.Slot())
			}
		}
	}

	if limits.RegisterBudget > 0 && a.nRegisters > limits.RegisterBudget {
		return NewSecurityError(
			"function '%s' of '%s' needs %d registers, exceeding the budget of %d",
			fn.Name, fn.Class.QualifiedName(), a.nRegisters, limits.RegisterBudget)
	}
	return nil
}
