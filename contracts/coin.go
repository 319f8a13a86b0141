// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contracts holds a handful of fixture contracts, built
// through the compiler package's ContractDescriptor/Emitter API,
// exercised by this repository's own end-to-end tests in place of a
// parsed surface language.
package contracts

import (
	"github.com/luxfi/zapper/compiler"
	"github.com/luxfi/zapper/ir"
)

// Coin is a fungible asset: val units of a given asset_id, owned by
// an address. mint is the only publicly callable constructor;
// construct is a private helper constructor split uses to peel off a
// sub-amount into a fresh coin of the same asset. Merge folds one
// coin into another of the same asset and owner, killing the source.
// Transfer reassigns ownership.
func Coin() compiler.ContractDescriptor {
	coinType := ir.ClassType("Coin")

	return compiler.ContractDescriptor{
		Name: "Coin",
		Fields: []compiler.FieldDecl{
			{Name: "owner", Type: ir.Address()},
			{Name: "val", Type: ir.Uint()},
			{Name: "asset_id", Type: ir.Long()},
		},
		Functions: []compiler.FunctionDecl{
			{
				Name:          "mint",
				IsConstructor: true,
				Params:        []compiler.ParamDecl{{Name: "amount", Type: ir.Uint()}},
				ReturnType:    coinType,
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					amount := args[0]
					e.SetOwner(self, e.Me())
					e.WriteField(self, "val", ir.Uint(), amount)
					e.WriteField(self, "asset_id", ir.Long(), e.Fresh())
					return self
				},
			},
			{
				Name:          "construct",
				IsConstructor: true,
				IsPrivate:     true,
				Params: []compiler.ParamDecl{
					{Name: "owner", Type: ir.Address()},
					{Name: "val", Type: ir.Uint()},
					{Name: "asset_id", Type: ir.Long()},
				},
				ReturnType: coinType,
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					e.SetOwner(self, args[0])
					e.WriteField(self, "val", ir.Uint(), args[1])
					e.WriteField(self, "asset_id", ir.Long(), args[2])
					return self
				},
			},
			{
				Name:       "split",
				Params:     []compiler.ParamDecl{{Name: "amount", Type: ir.Uint()}},
				ReturnType: coinType,
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					amount := args[0]
					e.Require(e.Equals(e.Me(), e.Owner(self)))

					val := e.ReadField(self, "val", ir.Uint())
					e.Require(e.LessOrEqual(amount, val))
					assetID := e.ReadField(self, "asset_id", ir.Long())

					e.WriteField(self, "val", ir.Uint(), e.Minus(val, amount))

					return e.Call("Coin", "construct", coinType, []compiler.Expr{e.Owner(self), amount, assetID}, false)
				},
			},
			{
				Name: "merge",
				Params: []compiler.ParamDecl{
					{Name: "other", Type: coinType},
				},
				ReturnType: ir.Uint(),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					other := args[0]
					e.Require(e.NotEquals(self, other))
					e.Require(e.Equals(e.Me(), e.Owner(self)))
					e.Require(e.Equals(e.Owner(self), e.Owner(other)))
					e.Require(e.Equals(
						e.ReadField(self, "asset_id", ir.Long()),
						e.ReadField(other, "asset_id", ir.Long()),
					))

					newVal := e.Plus(
						e.ReadField(self, "val", ir.Uint()),
						e.ReadField(other, "val", ir.Uint()),
					)
					e.WriteField(other, "val", ir.Uint(), newVal)
					e.Kill(self)
					return newVal
				},
			},
			{
				Name: "transfer",
				Params: []compiler.ParamDecl{
					{Name: "new_owner", Type: ir.Address()},
				},
				ReturnType: ir.Uint(),
				Body: func(e *compiler.Emitter, self compiler.Expr, args []compiler.Expr) compiler.Expr {
					e.Require(e.Equals(e.Me(), e.Owner(self)))
					e.SetOwner(self, args[0])
					return e.ConstUint(1)
				},
			},
		},
	}
}
