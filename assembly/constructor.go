// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import "github.com/luxfi/zapper/ir"

// checkConstructors is Phase L5: NEW may only appear as a function's
// first instruction; a function whose first instruction is NEW must
// store to every field of the allocated class somewhere in its body.
func checkConstructors(c *ir.Class) error {
	for _, fname := range c.SortedFunctionNames() {
		if err := checkConstructor(c.Functions[fname]); err != nil {
			return err
		}
	}
	return nil
}

func checkConstructor(fn *ir.Function) error {
	if len(fn.Instructions) == 0 {
		return nil
	}
	for i := 1; i < len(fn.Instructions); i++ {
		if fn.Instructions[i].Kind == ir.New {
			return NewSecurityError("NEW instruction must be first instruction in instruction list")
		}
	}

	first := fn.Instructions[0]
	if first.Kind != ir.New {
		return nil
	}

	selfRegister := first.Dst
	class := first.ClassRef().Class

	written := map[string]bool{}
	for _, instr := range fn.Instructions {
		if instr.Kind != ir.Store {
			continue
		}
		if instr.Value1 != ir.Value(selfRegister) {
			continue
		}
		if field, ok := instr.Field().Field.(*ir.Field); ok {
			written[field.Name] = true
		}
	}

	for _, name := range class.SortedFieldNames() {
		if !written[name] {
			return NewSecurityError(
				"field '%s' not initialized in constructor '%s' of class '%s'",
				name, fn.Name, class.QualifiedName())
		}
	}
	return nil
}
