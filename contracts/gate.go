// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contracts

import (
	"github.com/luxfi/zapper/compiler"
	"github.com/luxfi/zapper/ir"
)

// Gate holds a single uint and only lets check succeed when its
// stored value exceeds the caller-supplied threshold - a minimal
// fixture for exercising a failed require.
func Gate() compiler.ContractDescriptor {
	gateType := ir.ClassType("Gate")

	return compiler.ContractDescriptor{
		Name: "Gate",
		Fields: []compiler.FieldDecl{
			{Name: "owner", Type: ir.Address()},
			{Name: "val", Type: ir.Uint()},
		},
		Functions: []compiler.FunctionDecl{
			{
				Name:          "open",
				IsConstructor: true,
				Params:        []compiler.ParamDecl{{Name: "val", Type: ir.Uint()}},
				ReturnType:    gateType,
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					e.SetOwner(self, e.Me())
					e.WriteField(self, "val", ir.Uint(), args[0])
					return self
				},
			},
			{
				Name:       "check",
				Params:     []compiler.ParamDecl{{Name: "z", Type: ir.Uint()}},
				ReturnType: ir.Uint(),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					val := e.ReadField(self, "val", ir.Uint())
					e.Require(e.Greater(val, args[0]))
					return e.ConstUint(1)
				},
			},
		},
	}
}
