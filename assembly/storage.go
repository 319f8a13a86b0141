// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

import (
	"github.com/luxfi/zapper/ir"
)

// Storage holds every linked, finalized class the compiler has
// produced so far, plus the batch of classes added since the last
// Compile call ("classes to check" in the original pipeline). Classes
// already finalized are never reprocessed; Compile only walks the
// pending batch.
type Storage struct {
	classes      map[string]*ir.Class
	classToID    map[string]int
	pending      []*ir.Class
	nextClassID  int
}

func NewStorage() *Storage {
	return &Storage{
		classes:   map[string]*ir.Class{},
		classToID: map[string]int{},
	}
}

// Get returns the class with the given qualified name, if any.
func (s *Storage) Get(qualifiedName string) (*ir.Class, bool) {
	c, ok := s.classes[qualifiedName]
	return c, ok
}

func (s *Storage) ClassToID() map[string]int {
	out := make(map[string]int, len(s.classToID))
	for k, v := range s.classToID {
		out[k] = v
	}
	return out
}

// AddClass is Phase L1. It rejects a duplicate class name, a missing
// or mistyped `owner` field, or an `owner` field not at location 0,
// then assigns the class a fresh monotonic id and queues it for the
// remaining pipeline phases.
func (s *Storage) AddClass(c *ir.Class) error {
	if _, exists := s.classes[c.QualifiedName()]; exists {
		return NewSecurityError("tried adding class %s twice", c.QualifiedName())
	}

	owner, ok := c.GetField("owner")
	if !ok {
		return NewSecurityError("class %s does not define an \"owner\" field", c.QualifiedName())
	}
	if owner.Typ.Kind != ir.KindAddress {
		return NewSecurityError("field \"owner\" of class %s does not have address type", c.QualifiedName())
	}
	if owner.Slot() != 0 {
		return NewSecurityError("field \"owner\" of class %s is not at location 0", c.QualifiedName())
	}

	c.SetClassID(s.nextClassID)
	s.classToID[c.QualifiedName()] = s.nextClassID
	s.nextClassID++

	s.classes[c.QualifiedName()] = c
	s.pending = append(s.pending, c)
	return nil
}

// Compile runs phases L2 through L8 over every class added since the
// last Compile call, then clears the pending batch. It stops and
// returns the first error encountered; on error, classes already
// mutated by earlier phases remain mutated (callers should treat a
// failed Compile as fatal to the whole storage, matching the
// original's single-process, compile-once-at-startup usage).
func (s *Storage) Compile(limits Limits) error {
	for _, c := range s.pending {
		if err := linkClass(s, c); err != nil {
			return err
		}
	}
	for _, c := range s.pending {
		if err := typeCheckClass(c); err != nil {
			return err
		}
		if err := checkAccessPolicy(s, c); err != nil {
			return err
		}
		if err := checkRegisterLabels(c); err != nil {
			return err
		}
		if err := checkConstructors(c); err != nil {
			return err
		}
	}
	if err := s.checkReusedRegisters(); err != nil {
		return err
	}
	if err := s.inlinePending(); err != nil {
		return err
	}
	for _, c := range s.pending {
		insertRuntimeChecks(c, s.classToID)
	}
	for _, c := range s.pending {
		if err := allocateClass(c, limits); err != nil {
			return err
		}
	}

	s.pending = nil
	return nil
}

func (s *Storage) checkReusedRegisters() error {
	seen := map[*ir.Register]bool{}
	for _, c := range s.classes {
		for _, r := range c.GetRegisters() {
			if seen[r] {
				return NewSecurityError("register %s is reused across functions", r.Label)
			}
			seen[r] = true
		}
	}
	return nil
}
