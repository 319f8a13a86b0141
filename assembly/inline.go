// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import (
	"fmt"

	"github.com/luxfi/zapper/ir"
)

type callKey struct {
	class    string
	function string
}

// inlinePending is Phase L6: build the intra-batch call graph,
// repeatedly inline and retire any function whose remaining callees
// are all outside the batch being processed, and fail with
// RecursionError if a cycle prevents further progress.
func (s *Storage) inlinePending() error {
	pendingNames := map[string]bool{}
	for _, c := range s.pending {
		pendingNames[c.QualifiedName()] = true
	}

	remaining := map[callKey][]callKey{}
	for _, c := range s.pending {
		for _, fname := range c.SortedFunctionNames() {
			fn := c.Functions[fname]
			key := callKey{c.QualifiedName(), fname}
			remaining[key] = calledWithin(fn, pendingNames)
		}
	}

	for len(remaining) > 0 {
		found := false
		for key, callees := range remaining {
			if len(callees) != 0 {
				continue
			}
			if err := s.inlineFunction(key.class, key.function); err != nil {
				return err
			}
			delete(remaining, key)
			for other, callees := range remaining {
				remaining[other] = removeCallKey(callees, key)
			}
			found = true
			break
		}
		if !found {
			return NewRecursionError("detected cycle in call graph, cannot inline")
		}
	}
	return nil
}

func calledWithin(fn *ir.Function, pendingNames map[string]bool) []callKey {
	seen := map[callKey]bool{}
	var out []callKey
	for _, instr := range fn.Instructions {
		if instr.Kind != ir.OpCall {
			continue
		}
		callee := instr.Call.Function
		key := callKey{callee.Class.QualifiedName(), callee.Name}
		if !pendingNames[key.class] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func removeCallKey(keys []callKey, target callKey) []callKey {
	out := keys[:0]
	for _, k := range keys {
		if k != target {
			out = append(out, k)
		}
	}
	return out
}

func (s *Storage) inlineFunction(className, functionName string) error {
	class, ok := s.Get(className)
	if !ok {
		return NewSecurityError("inline: unknown class %s", className)
	}
	fn, ok := class.GetFunction(functionName)
	if !ok {
		return NewSecurityError("inline: unknown function %s on %s", functionName, className)
	}
	class.Functions[functionName] = s.inlineFunctionBody(fn)
	return nil
}

// inlineFunctionBody rewrites every CALL in fn into the callee's
// (already-inlined) body: a MOV or PK setting `me`, a MOV per
// parameter, the cloned callee body, and a MOV for the return value.
func (s *Storage) inlineFunctionBody(fn *ir.Function) *ir.Function {
	var allInlined []*ir.Instruction

	for i, instr := range fn.Instructions {
		if instr.Kind != ir.OpCall {
			allInlined = append(allInlined, instr)
			continue
		}

		callee := instr.Call.Function
		calleeClass, _ := s.Get(callee.Class.QualifiedName())
		latest, _ := calleeClass.GetFunction(callee.Name)

		postfix := fmt.Sprintf("inlined#%d", i)
		cloned := latest.CloneForInlining(postfix, nil)

		if instr.SenderIsSelf {
			allInlined = append(allInlined, ir.NewPublicKey(cloned.MeRegister, fn.ArgumentRegisters[0]))
		} else {
			allInlined = append(allInlined, ir.NewMove(cloned.MeRegister, fn.MeRegister))
		}

		for pi, param := range cloned.ArgumentRegisters {
			allInlined = append(allInlined, ir.NewMove(param, instr.CallArguments[pi]))
		}

		allInlined = append(allInlined, cloned.Instructions...)
		allInlined = append(allInlined, ir.NewMove(instr.Dst, cloned.ReturnRegister))
	}

	out := ir.NewFunction(fn.Name, fn.MeRegister, fn.ArgumentRegisters, fn.ReturnRegister)
	out.Instructions = allInlined
	out.IsConstructor = fn.IsConstructor
	out.IsPrivate = fn.IsPrivate
	out.IsPrivateFor = fn.IsPrivateFor
	out.Class = fn.Class
	return out
}
