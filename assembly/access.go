// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import "github.com/luxfi/zapper/ir"

// checkAccessPolicy is Phase L4: enforce the cross-class write/new/kill
// restrictions, private-function visibility, the ban on overwriting
// `me`, the owner-mutation restriction, and the has_address
// requirement for PK.
func checkAccessPolicy(s *Storage, c *ir.Class) error {
	thisClass := c.QualifiedName()

	for _, fname := range c.SortedFunctionNames() {
		fn := c.Functions[fname]

		for _, instr := range fn.Instructions {
			switch instr.Kind {
			case ir.Store:
				field, _ := instr.Field().Field.(*ir.Field)
				targetType := valueType(instr.Value1)
				if thisClass != targetType.ClassName {
					return NewSecurityError("trying to write to field of class %s from %s", targetType.ClassName, thisClass)
				}
				if field != nil && field.Name == "owner" {
					if !fn.IsConstructor && c.HasAddress {
						return NewSecurityError("trying to change the owner of a class with an address")
					}
				}

			case ir.OpCall:
				callee := instr.Call.Function
				if callee.IsPrivate {
					targetClass := callee.Class.QualifiedName()
					if callee.IsPrivateFor == "" && thisClass != targetClass {
						return NewSecurityError("trying to call private function %s in %s from %s", callee.Name, targetClass, thisClass)
					}
					if callee.IsPrivateFor != "" && thisClass != callee.IsPrivateFor {
						return NewSecurityError("trying to call private function %s in %s from %s, but this is private for %s", callee.Name, targetClass, thisClass, callee.IsPrivateFor)
					}
				}

			case ir.New:
				targetClass := instr.ClassRef().Class.QualifiedName()
				if thisClass != targetClass {
					return NewSecurityError("trying to create new %s object from %s", targetClass, thisClass)
				}

			case ir.Pk:
				targetType := valueType(instr.Value1)
				target, ok := s.Get(targetType.ClassName)
				if !ok {
					return NewSecurityError("trying to access the address of unknown class %s", targetType.ClassName)
				}
				if !target.HasAddress {
					return NewSecurityError("trying to access the address of class %s. Maybe annotate the class as has_address?", target.QualifiedName())
				}

			case ir.Kill:
				targetClass := valueType(instr.Value1).ClassName
				if thisClass != targetClass {
					return NewSecurityError("trying to kill object of class %s from %s", targetClass, thisClass)
				}
			}

			if instr.IsWrite() && instr.Dst == fn.MeRegister {
				return NewSecurityError("trying to overwrite \"me\"")
			}
		}
	}
	return nil
}
