package engine

import (
	"fmt"

	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/station"
)

// issue implements spec.md §4.1. It is only called when e.pc is within
// the program.
func (e *Engine) issue() {
	inst := e.program[e.pc]

	// Open question #1 (spec.md §9): the source re-issues the same pc
	// while a CALL is in flight if more than one call station exists.
	// Stall issue outright while a CALL has not yet written back,
	// regardless of how many call-kind stations are configured.
	if inst.Opcode == insts.OpCall && e.callInFlight {
		return
	}

	kind := station.KindForCategory(inst.Category)
	s, ok := e.inv.FreeStation(kind)
	if !ok {
		return
	}

	s.Busy = true
	s.OwningInstructionIndex = e.pc
	inst.IssueCycle = e.cycle

	s.Opcode = inst.Opcode
	s.Address = int32(inst.Immediate)
	s.RemainingAddr = s.CyclesPerAddr
	s.RemainingExec = s.CyclesPerExec

	if producer := e.status[inst.SourceRegS]; producer != 0 {
		s.Qj = producer
		s.Vj = 0
	} else {
		s.Vj = e.regs.Read(inst.SourceRegS)
		s.Qj = 0
	}

	if inst.Category != insts.CategoryLoad && inst.Category != insts.CategoryCallOrRet {
		if producer := e.status[inst.SourceRegT]; producer != 0 {
			s.Qk = producer
			s.Vk = 0
		} else {
			s.Vk = e.regs.Read(inst.SourceRegT)
			s.Qk = 0
		}
	} else {
		s.Vk, s.Qk = 0, 0
	}

	// Register 0 is never claimed as a destination: writeback's update
	// loop skips index 0 by convention (spec.md §3), so an instruction
	// targeting r0 leaves both r0 and its status entry untouched.
	if inst.WritesDest() && inst.DestRegD != 0 {
		if e.spc.Empty() {
			e.status[inst.DestRegD] = s.ID
		} else {
			e.spc.Tail().Status[inst.DestRegD] = s.ID
		}
	}

	if inst.IsMemory() {
		e.lsq.PushBack(e.pc)
	}

	if inst.Category == insts.CategoryBeq || inst.Category == insts.CategoryCallOrRet {
		e.spc.Push(inst.IssueCycle, e.status)
	}

	if inst.Opcode == insts.OpCall {
		e.callInFlight = true
	} else {
		e.pc++
	}

	e.emit(fmt.Sprintf("issued %s (station %s)", inst.RawText, s.Name))
}
