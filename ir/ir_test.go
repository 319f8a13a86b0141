// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ir

import "testing"

func TestWordHexRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 255, 256, 1 << 40}
	for _, v := range cases {
		w := NewWord(v)
		got, err := WordFromHex(w.ToHexStr())
		if err != nil {
			t.Fatalf("WordFromHex(%s): %v", w.ToHexStr(), err)
		}
		if !got.Eq(w) {
			t.Errorf("round trip mismatch for %d: got %s", v, got.ToHexStr())
		}
	}
}

func TestWordFromHexAcceptsOddLengthAnd0xPrefix(t *testing.T) {
	got, err := WordFromHex("0xFF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Uint64() != 0xff {
		t.Errorf("expected 255, got %d", got.Uint64())
	}

	got, err = WordFromHex("f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Uint64() != 0xf {
		t.Errorf("expected 15, got %d", got.Uint64())
	}
}

func TestWordToHexStrNeverEmpty(t *testing.T) {
	if NewWord(0).ToHexStr() != "00" {
		t.Errorf("expected \"00\" for zero word, got %q", NewWord(0).ToHexStr())
	}
}

func TestWordArithmetic(t *testing.T) {
	a, b := NewWord(7), NewWord(3)
	if a.Add(b).Uint64() != 10 {
		t.Errorf("7+3 != 10")
	}
	if a.Sub(b).Uint64() != 4 {
		t.Errorf("7-3 != 4")
	}
	if a.Mul(b).Uint64() != 21 {
		t.Errorf("7*3 != 21")
	}
	if !b.Lt(a) || a.Lt(b) {
		t.Errorf("Lt comparison wrong")
	}
}

func TestClassOwnerFieldForcedToSlotZero(t *testing.T) {
	c := NewClass("Widget", false)
	if err := c.AddField(NewField("name", Address())); err != nil {
		t.Fatalf("AddField(name): %v", err)
	}
	if err := c.AddField(NewField("owner", Address())); err != nil {
		t.Fatalf("AddField(owner): %v", err)
	}
	owner, _ := c.GetField("owner")
	if owner.Slot() != 0 {
		t.Errorf("expected owner at slot 0, got %d", owner.Slot())
	}
	name, _ := c.GetField("name")
	if name.Slot() != 1 {
		t.Errorf("expected name at slot 1, got %d", name.Slot())
	}
}

func TestAddFieldRejectsDuplicateName(t *testing.T) {
	c := NewClass("Widget", false)
	if err := c.AddField(NewField("owner", Address())); err != nil {
		t.Fatalf("AddField(owner): %v", err)
	}
	if err := c.AddField(NewField("owner", Address())); err == nil {
		t.Errorf("expected error adding duplicate field")
	}
}

func TestRegisterUnassignedSlotSentinel(t *testing.T) {
	r := NewRegister("x")
	if r.Assigned() {
		t.Errorf("freshly created register must not be assigned")
	}
	if r.Slot() != UnassignedSlot {
		t.Errorf("expected UnassignedSlot, got %d", r.Slot())
	}
	r.SetSlot(3)
	if !r.Assigned() || r.Slot() != 3 {
		t.Errorf("SetSlot did not take effect")
	}
}

func TestInstructionOpcodePanicsForCall(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Opcode() to panic for a CALL instruction")
		}
	}()
	instr := NewCall(NewRegister("ret"), &CallTarget{Qualified: &QualifiedCall{QualifiedClassName: "A", Name: "f"}}, nil, false)
	_ = instr.Opcode()
}
