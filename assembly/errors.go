// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package assembly runs the whole-program compiler pipeline over a
// storage of linked classes: add, link, type-check, access-check,
// constructor-check, inline, insert runtime checks, and allocate
// fields and registers, in that fixed order.
package assembly

import "fmt"

// SecurityError is raised by the access-policy phase (L4) and by the
// basic storage invariants L1 enforces: cross-class writes, illegal
// NEW/KILL targets, private-call violations, owner mutation outside a
// constructor, duplicate class/register names, and similar
// integrity violations.
type SecurityError struct {
	Msg string
}

func NewSecurityError(format string, args ...any) *SecurityError {
	return &SecurityError{Msg: fmt.Sprintf(format, args...)}
}

func (e *SecurityError) Error() string { return e.Msg }

// RecursionError is raised by the inliner (L6) when the intra-storage
// call graph contains a cycle.
type RecursionError struct {
	Msg string
}

func NewRecursionError(format string, args ...any) *RecursionError {
	return &RecursionError{Msg: fmt.Sprintf(format, args...)}
}

func (e *RecursionError) Error() string { return e.Msg }
