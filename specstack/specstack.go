// Package specstack implements the speculation snapshot stack: the
// value-copied register-status snapshots pushed at BEQ/CALL/RET issue
// and used to undo or commit speculative renames (spec.md §3, §4.1).
package specstack

import "github.com/archsim/tomasulo16/arch"

// Snapshot is one speculation context: the issue cycle of the
// speculating instruction, and the register-status table as it existed
// at that moment (further speculative renames write into Status, not
// into the live table — see Stack.Push).
type Snapshot struct {
	IssueCycle uint64
	Status     arch.RegisterStatus
}

// Stack is an ordered sequence of snapshots, ordered by strictly
// increasing issue cycle (spec.md §3 invariant). The tail is the most
// recent (innermost) speculation; the head is the oldest (outermost).
type Stack struct {
	snapshots []Snapshot
}

// Empty reports whether any speculation is in flight.
func (s *Stack) Empty() bool {
	return len(s.snapshots) == 0
}

// Len returns the number of in-flight speculations.
func (s *Stack) Len() int {
	return len(s.snapshots)
}

// Push records a new speculation context at issueCycle. Its table copy
// is the live table if no speculation is in flight, or a copy of the
// current tail's table otherwise (spec.md §4.1 step 8) — renames made
// under an outer speculation are visible to a nested one.
func (s *Stack) Push(issueCycle uint64, live arch.RegisterStatus) {
	var table arch.RegisterStatus
	if s.Empty() {
		table = live.Clone()
	} else {
		table = s.Tail().Status.Clone()
	}
	s.snapshots = append(s.snapshots, Snapshot{IssueCycle: issueCycle, Status: table})
}

// Tail returns a pointer to the innermost (most recent) snapshot, for
// in-place writes of renames performed while speculation is active.
// Callers must check !Empty() first.
func (s *Stack) Tail() *Snapshot {
	return &s.snapshots[len(s.snapshots)-1]
}

// Head returns a pointer to the outermost (oldest) snapshot. Callers
// must check !Empty() first.
func (s *Stack) Head() *Snapshot {
	return &s.snapshots[0]
}

// PopHead removes and returns the oldest snapshot, used when a BEQ
// resolves not-taken and commits its speculation.
func (s *Stack) PopHead() Snapshot {
	head := s.snapshots[0]
	s.snapshots = s.snapshots[1:]
	return head
}

// DropAll discards every snapshot, used on misprediction or on
// CALL/RET writeback (spec.md §4.3: "Drop the entire speculation
// stack").
func (s *Stack) DropAll() {
	s.snapshots = nil
}
