// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contracts

import (
	"github.com/luxfi/zapper/compiler"
	"github.com/luxfi/zapper/ir"
)

// Vault is a has_address fixture: its own on-chain address (via PK) and
// the ledger clock (via NOW) are both readable by anyone holding a
// handle to it.
func Vault() compiler.ContractDescriptor {
	return compiler.ContractDescriptor{
		Name:       "Vault",
		HasAddress: true,
		Fields: []compiler.FieldDecl{
			{Name: "owner", Type: ir.Address()},
			{Name: "opened_at", Type: ir.Uint()},
		},
		Functions: []compiler.FunctionDecl{
			{
				Name:          "open",
				IsConstructor: true,
				ReturnType:    ir.ClassType("Vault"),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					e.SetOwner(self, e.Me())
					e.WriteField(self, "opened_at", ir.Uint(), e.Now())
					return self
				},
			},
			{
				Name:       "address",
				ReturnType: ir.Address(),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					return e.Address(self)
				},
			},
		},
	}
}
