// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import (
	"strings"

	"github.com/luxfi/zapper/ir"
)

// typeCheckClass is Phase L3: infer and check every instruction's
// operand and destination types, and freeze each function's declared
// return type.
func typeCheckClass(c *ir.Class) error {
	for _, fname := range c.SortedFunctionNames() {
		if err := typeCheckFunction(c.Functions[fname]); err != nil {
			return err
		}
	}
	return nil
}

func typeCheckFunction(fn *ir.Function) error {
	originalReturnType, hadReturnType := fn.ReturnRegister.Type()

	for _, instr := range fn.Instructions {
		if err := typeCheckInstruction(instr); err != nil {
			return err
		}
	}

	actualReturnType, hasReturnType := fn.ReturnRegister.Type()
	if hadReturnType != hasReturnType || (hadReturnType && !originalReturnType.Equal(actualReturnType)) {
		return ir.NewTypeError("return register has incorrect type annotation " +
			typeOrNone(originalReturnType, hadReturnType) + " instead of " + typeOrNone(actualReturnType, hasReturnType))
	}
	return nil
}

func typeOrNone(t ir.Type, ok bool) string {
	if !ok {
		return "<none>"
	}
	return t.String()
}

// checkSupertype is the Go equivalent of check_assembly_supertype:
// lhs = rhs must hold exactly (there is no subtyping in this system).
func checkSupertype(lhs, rhs ir.Type) error {
	if !lhs.Equal(rhs) {
		return ir.NewTypeError("mismatch between expected type (" + lhs.String() + ") and actual type (" + rhs.String() + ")")
	}
	return nil
}

func valueType(v ir.Value) ir.Type {
	t, _ := v.Type()
	return t
}

// assignWrittenType sets dst's type to written if dst has none yet,
// otherwise requires it to already equal written.
func assignWrittenType(dst *ir.Register, written ir.Type) error {
	if _, ok := dst.Type(); !ok {
		dst.SetType(written)
		return nil
	}
	current, _ := dst.Type()
	return checkSupertype(current, written)
}

func typeCheckInstruction(instr *ir.Instruction) error {
	switch instr.Kind {
	case ir.NoOp:
		return nil

	case ir.Mov:
		return assignWrittenType(instr.Dst, valueType(instr.Value1))

	case ir.Cmov:
		condType := valueType(instr.Value1)
		srcType := valueType(instr.Value2)
		dstType, hasDstType := instr.Dst.Type()
		if hasDstType && !dstType.Equal(srcType) {
			return ir.NewTypeError("types must match for CMOV")
		}
		if condType.Kind != ir.KindUint {
			return ir.NewTypeError("condition of CMOV must be a boolean value")
		}
		return assignWrittenType(instr.Dst, srcType)

	case ir.Req:
		return checkSupertype(ir.Uint(), valueType(instr.Value1))

	case ir.Load:
		return assignWrittenType(instr.Dst, valueType(instr.Field()))

	case ir.Store:
		srcType := valueType(instr.Dst)
		return checkSupertype(valueType(instr.Field()), srcType)

	case ir.Kill:
		return nil

	case ir.Pk:
		return assignWrittenType(instr.Dst, ir.Address())

	case ir.New:
		cr := instr.ClassRef()
		return assignWrittenType(instr.Dst, ir.ClassType(cr.String()))

	case ir.Cid:
		return assignWrittenType(instr.Dst, ir.Long())

	case ir.Fresh:
		return assignWrittenType(instr.Dst, ir.Long())

	case ir.Now:
		return assignWrittenType(instr.Dst, ir.Uint())

	case ir.Plus, ir.Minus, ir.Multiply, ir.Less:
		if valueType(instr.Value1).Kind != ir.KindUint || valueType(instr.Value2).Kind != ir.KindUint {
			return ir.NewTypeError("binary operations +-*>< only supported for uint")
		}
		return assignWrittenType(instr.Dst, ir.Uint())

	case ir.Equals:
		if !valueType(instr.Value1).Equal(valueType(instr.Value2)) {
			return ir.NewTypeError("types should match for ==")
		}
		return assignWrittenType(instr.Dst, ir.Uint())

	case ir.OpCall:
		return typeCheckCall(instr)

	default:
		return nil
	}
}

func typeCheckCall(instr *ir.Instruction) error {
	fn := instr.Call.Function
	if len(fn.ArgumentRegisters) != len(instr.CallArguments) {
		return ir.NewTypeError("incorrect number of arguments")
	}
	for i, expected := range fn.ArgumentRegisters {
		expectedType, _ := expected.Type()
		if err := checkSupertype(expectedType, valueType(instr.CallArguments[i])); err != nil {
			return err
		}
	}
	returnType, _ := fn.ReturnRegister.Type()
	return assignWrittenType(instr.Dst, returnType)
}

// checkRegisterLabels enforces that register labels contain no dots
// and are unique within each function (a linking bug otherwise).
func checkRegisterLabels(c *ir.Class) error {
	for _, fname := range c.SortedFunctionNames() {
		fn := c.Functions[fname]
		seen := map[string]bool{}
		var dotted, duplicates []string
		for _, r := range fn.GetRegisters() {
			if strings.Contains(r.Label, ".") {
				dotted = append(dotted, r.Label)
			}
			if seen[r.Label] {
				duplicates = append(duplicates, r.Label)
			}
			seen[r.Label] = true
		}
		if len(dotted) > 0 {
			return NewSecurityError("register labels with dots: %s", strings.Join(dotted, " "))
		}
		if len(duplicates) > 0 {
			return NewSecurityError("register labels are not unique: %s", strings.Join(duplicates, " "))
		}
	}
	return nil
}
