// File: store.go
// Title: Macro Variable Register Store
// Description: Bounded mapping from register numbers to float64 values.
//              Registers outside the configured inclusive range are
//              rejected; registers inside it start unset and keep their
//              last written value.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial store implementation

package variables

import (
	"fmt"
	"strconv"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
)

// Register identifies a macro variable slot (#1, #2, ...)
type Register int

// MaxRegisters is the largest number of registers a store may cover
const MaxRegisters = 1 << 16

// OutOfRangeError reports access to a register outside the store bounds.
// Image holds the source digits when the number does not fit in a Register.
type OutOfRangeError struct {
	Register Register
	Image    string
	Min      Register
	Max      Register
}

func (e *OutOfRangeError) Error() string {
	name := strconv.Itoa(int(e.Register))
	if e.Image != "" {
		name = e.Image
	}
	return fmt.Sprintf("register #%s is outside the valid range #%d..#%d", name, e.Min, e.Max)
}

// Code returns the error code for out-of-range register access
func (e *OutOfRangeError) Code() mdwerror.Code {
	return mdwerror.CodeRegisterOutOfRange
}

type slot struct {
	value float64
	set   bool
}

// Store holds the values of registers min..max. It is not safe for
// concurrent use; callers serialize access.
type Store struct {
	min   Register
	max   Register
	slots []slot
}

// New creates an empty store covering min..max inclusive
func New(min, max Register) (*Store, error) {
	if min > max {
		return nil, mdwerror.New(fmt.Sprintf("invalid register range: min %d is greater than max %d", min, max)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("variables.New").
			WithDetail("min", int(min)).
			WithDetail("max", int(max))
	}

	if span := max - min; span < 0 || span >= MaxRegisters {
		return nil, mdwerror.New(fmt.Sprintf("invalid register range: #%d..#%d exceeds %d registers", min, max, MaxRegisters)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("variables.New").
			WithDetail("min", int(min)).
			WithDetail("max", int(max))
	}

	return &Store{
		min:   min,
		max:   max,
		slots: make([]slot, int(max-min)+1),
	}, nil
}

// Read returns the value of r and whether it has been written.
// An unset register reports (0, false, nil).
func (s *Store) Read(r Register) (float64, bool, error) {
	if err := s.check(r); err != nil {
		return 0, false, err
	}
	sl := s.slots[r-s.min]
	return sl.value, sl.set, nil
}

// Write stores v in r. A failed write leaves the store unchanged.
func (s *Store) Write(r Register, v float64) error {
	if err := s.check(r); err != nil {
		return err
	}
	s.slots[r-s.min] = slot{value: v, set: true}
	return nil
}

// Snapshot returns a copy of every set register. Later writes do not
// affect the returned map.
func (s *Store) Snapshot() map[Register]float64 {
	snapshot := make(map[Register]float64)
	for i, sl := range s.slots {
		if sl.set {
			snapshot[s.min+Register(i)] = sl.value
		}
	}
	return snapshot
}

// Load writes every entry of values. Entries are validated first so a
// failed load leaves the store unchanged.
func (s *Store) Load(values map[Register]float64) error {
	for r := range values {
		if err := s.check(r); err != nil {
			return err
		}
	}
	for r, v := range values {
		s.slots[r-s.min] = slot{value: v, set: true}
	}
	return nil
}

// Clear unsets every register
func (s *Store) Clear() {
	for i := range s.slots {
		s.slots[i] = slot{}
	}
}

// Bounds returns the inclusive register range
func (s *Store) Bounds() (Register, Register) {
	return s.min, s.max
}

// Contains reports whether r lies within the store bounds
func (s *Store) Contains(r Register) bool {
	return r >= s.min && r <= s.max
}

// Len returns the number of set registers
func (s *Store) Len() int {
	n := 0
	for _, sl := range s.slots {
		if sl.set {
			n++
		}
	}
	return n
}

func (s *Store) check(r Register) error {
	if !s.Contains(r) {
		return &OutOfRangeError{Register: r, Min: s.min, Max: s.max}
	}
	return nil
}
