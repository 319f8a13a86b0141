// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import (
	"fmt"

	"github.com/luxfi/zapper/ir"
)

// insertRuntimeChecks is Phase L7: prepend, per function, a runtime
// assertion for every argument register - a range check for Uint, a
// class-id check for contract types. Address and Long arguments need
// no runtime check.
func insertRuntimeChecks(c *ir.Class, classToID map[string]int) {
	for _, fname := range c.SortedFunctionNames() {
		fn := c.Functions[fname]
		fn.RuntimeTypeChecks = runtimeChecksFor(fn, classToID)
	}
}

func runtimeChecksFor(fn *ir.Function, classToID map[string]int) []*ir.Instruction {
	var checks []*ir.Instruction
	cidCheckIndex := 0

	for _, reg := range fn.ArgumentRegisters {
		t, _ := reg.Type()
		switch t.Kind {
		case ir.KindUint:
			checks = append(checks, ir.NewBinaryOp(ir.OpPlus, reg, reg, ir.NewConstant(ir.NewWord(0), ir.Uint())))
		case ir.KindAddress, ir.KindLong:
			// no runtime check needed
		default:
			expectedCid := classToID[t.ClassName]
			cidRegister := ir.NewRegister(fmt.Sprintf("cid-check-%d", cidCheckIndex))
			checks = append(checks, ir.NewCid(cidRegister, reg))
			checks = append(checks, ir.NewBinaryOp(ir.OpEquals, cidRegister, cidRegister, ir.NewConstant(ir.NewWord(uint64(expectedCid)), ir.Uint())))
			checks = append(checks, ir.NewRequire(cidRegister))
			cidCheckIndex++
		}
	}
	return checks
}
