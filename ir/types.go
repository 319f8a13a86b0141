// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ir defines the zapper register-machine instruction set: the
// fixed opcode list, operand/value representation, and the class and
// function graph the compiler pipeline operates over.
package ir

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// Kind enumerates the primitive and reference type families a Field or
// Register may carry.
type Kind int

const (
	KindUint Kind = iota
	KindLong
	KindAddress
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindLong:
		return "long"
	case KindAddress:
		return "address"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type describes the static type of a value: a primitive kind, or a
// reference to a named class (contract type).
type Type struct {
	Kind      Kind
	ClassName string // set iff Kind == KindClass
}

func Uint() Type    { return Type{Kind: KindUint} }
func Long() Type    { return Type{Kind: KindLong} }
func Address() Type { return Type{Kind: KindAddress} }

// ClassType builds the reference type for the named contract class.
func ClassType(name string) Type { return Type{Kind: KindClass, ClassName: name} }

func (t Type) IsClass() bool { return t.Kind == KindClass }

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == KindClass {
		return t.ClassName == o.ClassName
	}
	return true
}

func (t Type) String() string {
	if t.Kind == KindClass {
		return t.ClassName
	}
	return t.Kind.String()
}

// Word is a 256-bit unsigned integer, used to back Uint, Long and
// Address values. It mirrors the arbitrary-precision Python int used
// by the original implementation while staying within the field the
// back-end operates over.
type Word struct {
	v uint256.Int
}

// NewWord builds a Word from a uint64.
func NewWord(x uint64) Word {
	return Word{v: *uint256.NewInt(x)}
}

// WordFromBytes interprets b as a big-endian unsigned integer.
func WordFromBytes(b []byte) Word {
	var w Word
	w.v.SetBytes(b)
	return w
}

// WordFromHex parses a hex string (with or without "0x") into a Word.
func WordFromHex(s string) (Word, error) {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Word{}, fmt.Errorf("ir: invalid hex word %q: %w", s, err)
	}
	return WordFromBytes(b), nil
}

func (w Word) Bytes() []byte { return w.v.Bytes() }

func (w Word) Uint64() uint64 { return w.v.Uint64() }

func (w Word) Cmp(o Word) int { return w.v.Cmp(&o.v) }

func (w Word) IsZero() bool { return w.v.IsZero() }

func (w Word) Add(o Word) Word {
	var r Word
	r.v.Add(&w.v, &o.v)
	return r
}

func (w Word) Sub(o Word) Word {
	var r Word
	r.v.Sub(&w.v, &o.v)
	return r
}

func (w Word) Mul(o Word) Word {
	var r Word
	r.v.Mul(&w.v, &o.v)
	return r
}

func (w Word) Lt(o Word) bool { return w.v.Lt(&o.v) }

func (w Word) Eq(o Word) bool { return w.v.Eq(&o.v) }

// BitLen reports the minimal number of bits needed to represent w.
func (w Word) BitLen() int { return w.v.BitLen() }

// ToHexStr renders w the way the back-end's own to_hex_str helper
// does: lowercase, no "0x" prefix, even number of digits, and the
// single-byte "00" for zero (never the empty string).
func (w Word) ToHexStr() string {
	b := w.v.Bytes()
	if len(b) == 0 {
		return "00"
	}
	return hex.EncodeToString(b)
}

func (w Word) String() string { return w.ToHexStr() }
