// Package station provides the reservation-station data model: the
// mutable per-slot operand-readiness state, and the per-kind inventory
// that issue scans for a free slot.
package station

import "github.com/archsim/tomasulo16/insts"

// Kind identifies one of the eight reservation-station kinds. Kind
// values are also used as indices into an Inventory's per-kind slices,
// in the same order as the hardware-inventory file's eight lines.
type Kind uint8

// Station kinds, in hardware-inventory file order.
const (
	KindLoad Kind = iota
	KindStore
	KindBeq
	KindCall
	KindAdd
	KindSub
	KindNor
	KindMul
	numKinds
)

var kindNames = [numKinds]string{"load", "store", "beq", "call", "add", "sub", "nor", "mul"}

// String renders a Kind's hardware-inventory name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindForCategory maps an instruction category to the reservation-
// station kind that services it (spec.md §4.1).
func KindForCategory(c insts.Category) Kind {
	switch c {
	case insts.CategoryLoad:
		return KindLoad
	case insts.CategoryStore:
		return KindStore
	case insts.CategoryBeq:
		return KindBeq
	case insts.CategoryCallOrRet:
		return KindCall
	case insts.CategoryAdd:
		return KindAdd
	case insts.CategorySub:
		return KindSub
	case insts.CategoryNor:
		return KindNor
	case insts.CategoryMul:
		return KindMul
	default:
		return KindAdd
	}
}

// IsMemory reports whether k is the LOAD or STORE kind, i.e. whether its
// stations participate in the load/store queue and the two-phase
// address/memory execution discipline.
func (k Kind) IsMemory() bool {
	return k == KindLoad || k == KindStore
}

// Station is one reservation-station slot. Its zero value is an empty,
// non-busy slot ready to be bound by issue.
type Station struct {
	Name string
	ID   uint32
	Kind Kind

	Busy   bool
	Opcode insts.Opcode

	Vj, Vk uint16
	Qj, Qk uint32

	// Address accumulates the memory address (immediate, then resolved
	// base+offset) for LOAD/STORE, and carries the signed branch/call
	// offset for BEQ/CALL. It is plain int32 so the signed immediate and
	// the eventual unsigned mod-2^16 resolved address share one field,
	// exactly as spec.md §3 describes a single "address" field.
	Address int32

	CyclesPerExec int
	CyclesPerAddr int
	RemainingExec int
	RemainingAddr int

	OwningInstructionIndex int
	LastComputedResult     uint16
}

// Clear resets a station back to its empty, non-busy state. Used on
// ordinary writeback and on speculative flush.
func (s *Station) Clear() {
	name, id, kind := s.Name, s.ID, s.Kind
	cyclesExec, cyclesAddr := s.CyclesPerExec, s.CyclesPerAddr
	*s = Station{
		Name:          name,
		ID:            id,
		Kind:          kind,
		CyclesPerExec: cyclesExec,
		CyclesPerAddr: cyclesAddr,
	}
}

// ReadyToExecute reports whether both operands have arrived.
func (s *Station) ReadyToExecute() bool {
	return s.Qj == 0 && s.Qk == 0
}

// Wrap16 folds a signed address into the unsigned 16-bit address space,
// per spec.md's "(address + vj) mod 2^16" rule.
func Wrap16(addr int32) uint16 {
	const modulus = 1 << 16
	v := addr % modulus
	if v < 0 {
		v += modulus
	}
	return uint16(v)
}
