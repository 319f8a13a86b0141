// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package serializer converts a finalized ir.Function into the
// fixed-width per-instruction encoding the back-end processor
// consumes (§4.4, §6.1).
package serializer

import (
	"errors"
	"fmt"

	"github.com/luxfi/zapper/ir"
)

// SerializedInstruction is one instruction in wire form: an opcode, a
// destination slot, and two (value, is_const) operand pairs. Operand
// values travel as lowercase even-length hex strings, matching the
// back-end's own integer encoding.
type SerializedInstruction struct {
	Opcode      int
	Dst         int
	Src1        string
	Src1IsConst bool
	Src2        string
	Src2IsConst bool
}

// SerializedFunction bundles a function's class id, its per-class
// function id (assigned skipping private functions, see
// ledger.RegisterClasses), its return register's slot, and its
// serialized instruction list.
type SerializedFunction struct {
	ClassID        int
	FunctionID     int
	ReturnRegister int
	Instructions   []SerializedInstruction
}

// SerializeFunction serializes every instruction of fn (runtime type
// checks first, then body), refusing a function whose return register
// was never allocated a slot.
func SerializeFunction(classID, functionID int, fn *ir.Function) (*SerializedFunction, error) {
	if !fn.ReturnRegister.Assigned() {
		return nil, errors.New("serializer: return register has no assigned slot")
	}

	all := fn.GetAllInstructions()
	instructions := make([]SerializedInstruction, 0, len(all))
	for _, instr := range all {
		si, err := serializeInstruction(instr)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, si)
	}

	return &SerializedFunction{
		ClassID:        classID,
		FunctionID:     functionID,
		ReturnRegister: fn.ReturnRegister.Slot(),
		Instructions:   instructions,
	}, nil
}

func serializeInstruction(instr *ir.Instruction) (SerializedInstruction, error) {
	if instr.Kind == ir.OpCall {
		return SerializedInstruction{}, errors.New("serializer: tried to serialize a non-inlined CALL instruction")
	}

	dst := 0
	if instr.Dst != nil {
		if !instr.Dst.Assigned() {
			return SerializedInstruction{}, fmt.Errorf("serializer: register %s has no assigned slot", instr.Dst.Label)
		}
		dst = instr.Dst.Slot()
	}

	src1, src1Const, err := serializeValue(instr.Value1)
	if err != nil {
		return SerializedInstruction{}, err
	}
	src2, src2Const, err := serializeValue(instr.Value2)
	if err != nil {
		return SerializedInstruction{}, err
	}

	return SerializedInstruction{
		Opcode:      instr.Opcode(),
		Dst:         dst,
		Src1:        src1.ToHexStr(),
		Src1IsConst: src1Const,
		Src2:        src2.ToHexStr(),
		Src2IsConst: src2Const,
	}, nil
}

// serializeValue encodes a single operand as (value, is_const). A nil
// operand (an absent src1/src2) encodes as (0, false).
func serializeValue(v ir.Value) (ir.Word, bool, error) {
	switch val := v.(type) {
	case nil:
		return ir.NewWord(0), false, nil
	case *ir.Register:
		if !val.Assigned() {
			return ir.Word{}, false, fmt.Errorf("serializer: register %s has no assigned slot", val.Label)
		}
		return ir.NewWord(uint64(val.Slot())), false, nil
	case *ir.Constant:
		return val.Value, true, nil
	case *ir.ClassReference:
		if !val.Resolved() {
			return ir.Word{}, false, errors.New("serializer: tried to serialize a non-linked class reference")
		}
		if !val.Class.HasClassID() {
			return ir.Word{}, false, errors.New("serializer: class reference resolved to a class with no assigned id")
		}
		return ir.NewWord(uint64(val.Class.ClassID)), true, nil
	case *ir.FieldReference:
		field, ok := val.Field.(*ir.Field)
		if !ok {
			return ir.Word{}, false, errors.New("serializer: tried to serialize a non-linked field reference")
		}
		if !field.Assigned() {
			return ir.Word{}, false, fmt.Errorf("serializer: field %s has no assigned location", field.Name)
		}
		return ir.NewWord(uint64(field.Slot())), true, nil
	default:
		return ir.Word{}, false, fmt.Errorf("serializer: unsupported operand type %T", v)
	}
}
