// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

import (
	"fmt"
	"runtime"
)

// CompileError reports a malformed program: an unknown type, a
// missing field, an illegal literal - anything that makes the IR
// itself impossible to make sense of, independent of any specific
// class or function.
type CompileError struct {
	Msg string
}

func NewCompileError(format string, args ...any) *CompileError {
	return &CompileError{Msg: fmt.Sprintf(format, args...)}
}

func (e *CompileError) Error() string { return e.Msg }

// TypeError reports an inferred-vs-declared type mismatch, an operand
// type mismatch, or an illegal target of a binary operator. It carries
// the call site of the check that failed, the Go analogue of the
// original's captured Python traceback, so a failing build still
// points at the compiler code that rejected the program.
type TypeError struct {
	Msg  string
	Site string
}

// NewTypeError captures the caller's location and wraps it with msg.
func NewTypeError(msg string) *TypeError {
	site := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		site = fmt.Sprintf("%s:%d", file, line)
	}
	return &TypeError{Msg: msg, Site: site}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s\n\norigin: %s", e.Msg, e.Site)
}
