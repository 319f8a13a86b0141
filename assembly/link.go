// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import (
	"github.com/luxfi/zapper/ir"
)

// linkClass is Phase L2: resolve every symbolic reference a class's
// functions carry - a LOAD/STORE field, a CALL target, a NEW class -
// into a direct pointer into storage, and reject unknown contract
// argument types.
func linkClass(s *Storage, c *ir.Class) error {
	for _, fname := range c.SortedFunctionNames() {
		fn := c.Functions[fname]

		for _, arg := range fn.ArgumentRegisters {
			t, ok := arg.Type()
			if !ok {
				continue
			}
			if t.Kind == ir.KindClass {
				if _, known := s.Get(t.ClassName); !known {
					return NewSecurityError(
						"unknown type '%s' of argument '%s' in function '%s' of '%s'",
						t.ClassName, arg.Label, fn.Name, c.QualifiedName())
				}
			}
		}

		for _, instr := range fn.Instructions {
			switch instr.Kind {
			case ir.Load, ir.Store:
				if err := linkFieldReference(s, instr.Field()); err != nil {
					return err
				}
			case ir.New:
				if err := linkClassReference(s, instr.ClassRef()); err != nil {
					return err
				}
			case ir.OpCall:
				if err := linkCallTarget(s, instr.Call); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func linkFieldReference(s *Storage, fr *ir.FieldReference) error {
	if fr == nil {
		return nil
	}
	q, unresolved := fr.Field.(*ir.QualifiedReference)
	if !unresolved {
		return nil
	}
	target, ok := s.Get(q.QualifiedClassName)
	if !ok {
		return NewSecurityError("unknown class '%s' referenced by field '%s'", q.QualifiedClassName, q.Name)
	}
	field, ok := target.GetField(q.Name)
	if !ok {
		return NewSecurityError("unknown field '%s' on class '%s'", q.Name, q.QualifiedClassName)
	}
	fr.Field = field
	return nil
}

func linkClassReference(s *Storage, cr *ir.ClassReference) error {
	if cr == nil || cr.Resolved() {
		return nil
	}
	target, ok := s.Get(cr.Name)
	if !ok {
		return NewSecurityError("unknown class '%s' referenced by NEW", cr.Name)
	}
	cr.Class = target
	return nil
}

func linkCallTarget(s *Storage, call *ir.CallTarget) error {
	if call == nil || call.Resolved() {
		return nil
	}
	target, ok := s.Get(call.Qualified.QualifiedClassName)
	if !ok {
		return NewSecurityError("unknown class '%s' referenced by call to '%s'", call.Qualified.QualifiedClassName, call.Qualified.Name)
	}
	fn, ok := target.GetFunction(call.Qualified.Name)
	if !ok {
		return NewSecurityError("unknown function '%s' on class '%s'", call.Qualified.Name, call.Qualified.QualifiedClassName)
	}
	call.Function = fn
	return nil
}
