// Package arch provides the architectural state of the 16-bit core: the
// register file, the register-status rename table, and flat memory.
package arch

import "github.com/archsim/tomasulo16/insts"

// WordMask masks a value to the core's 16-bit word width.
const WordMask = 0xFFFF

// RegisterFile holds the eight 16-bit architectural registers. Register
// 0 is writable here (spec.md §3) but by convention never targeted as a
// destination by the instructions this core executes.
type RegisterFile struct {
	R [insts.NumRegisters]uint16
}

// Read returns the current value of register r.
func (f *RegisterFile) Read(r int) uint16 {
	return f.R[r]
}

// Write stores a 16-bit value into register r, masking to the word
// width for safety against callers that compute wider intermediates.
func (f *RegisterFile) Write(r int, value uint16) {
	f.R[r] = value & WordMask
}

// Snapshot returns a value copy of the register contents, for read-only
// views exposed to front-ends.
func (f *RegisterFile) Snapshot() [insts.NumRegisters]uint16 {
	return f.R
}

// RegisterStatus is the rename map from architectural register to the
// id of the reservation station that will next produce its value. Zero
// means "value is in the register file" (no pending producer).
type RegisterStatus [insts.NumRegisters]uint32

// Clone returns a value copy of the status table, used to snapshot it
// onto the speculation stack.
func (s RegisterStatus) Clone() RegisterStatus {
	return s
}

// ClearProducer zeros every entry whose current producer is id. Used by
// writeback (normal commit) and by flush (misspeculation rollback).
func (s *RegisterStatus) ClearProducer(id uint32) {
	for i := range s {
		if s[i] == id {
			s[i] = 0
		}
	}
}
