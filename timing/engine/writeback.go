package engine

import (
	"fmt"
	"math"

	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/station"
)

// writeback implements spec.md §4.3: at most one store writeback and
// at most one non-store writeback per cycle, selected independently by
// smallest issue cycle among completed, eligible stations.
func (e *Engine) writeback() {
	var storeStation, otherStation *station.Station
	minStoreIssue, minOtherIssue := uint64(math.MaxUint64), uint64(math.MaxUint64)

	for _, s := range e.inv.All() {
		if !s.Busy || s.RemainingExec != 0 {
			continue
		}
		inst := e.program[s.OwningInstructionIndex]
		if inst.ExecEndCycle >= e.cycle {
			continue
		}

		if s.Kind == station.KindStore {
			if s.Qk != 0 {
				continue
			}
			if inst.IssueCycle < minStoreIssue {
				minStoreIssue = inst.IssueCycle
				storeStation = s
			}
			continue
		}

		if inst.IssueCycle < minOtherIssue {
			minOtherIssue = inst.IssueCycle
			otherStation = s
		}
	}

	if storeStation != nil {
		e.writebackStore(storeStation)
	}
	if otherStation != nil {
		e.writebackOther(otherStation)
	}
}

func (e *Engine) writebackStore(s *station.Station) {
	inst := e.program[s.OwningInstructionIndex]
	addr := uint16(s.Address)
	value := s.Vk & 0xFFFF

	e.mem.WriteWord(uint32(addr), value)
	inst.WritebackCycle = e.cycle
	e.completed++
	e.emit(fmt.Sprintf("writeback STORE %s", inst.RawText))
	s.Clear()
}

func (e *Engine) writebackOther(s *station.Station) {
	inst := e.program[s.OwningInstructionIndex]

	kind := s.Kind
	opcode := s.Opcode
	id := s.ID
	result := s.LastComputedResult
	owningIndex := s.OwningInstructionIndex
	offset := int(s.Address)

	inst.WritebackCycle = e.cycle
	e.completed++
	e.emit(fmt.Sprintf("writeback %s", inst.RawText))
	s.Clear()

	switch kind {
	case station.KindBeq:
		e.writebackBeq(result, owningIndex, offset, inst.IssueCycle)
	case station.KindCall:
		e.writebackCallOrRet(opcode, owningIndex, offset, inst.IssueCycle)
	default:
		e.updateAndBroadcast(id, result)
	}
}

func (e *Engine) writebackBeq(result uint16, owningIndex, offset int, issueCycle uint64) {
	e.branchesSeen++
	if result == 1 {
		e.mispredictions++
		e.pc = owningIndex + 1 + offset
		e.spc.DropAll()
		e.flushYounger(issueCycle)
		return
	}

	e.pc = owningIndex + 1
	if !e.spc.Empty() {
		head := e.spc.PopHead()
		e.status = head.Status
	}
}

func (e *Engine) writebackCallOrRet(opcode insts.Opcode, owningIndex, offset int, issueCycle uint64) {
	if opcode == insts.OpCall {
		e.regs.Write(1, uint16(owningIndex+1))
		e.pc = owningIndex + 1 + offset
		e.callInFlight = false
	} else {
		e.pc = int(e.regs.Read(1))
	}
	e.spc.DropAll()
	e.flushYounger(issueCycle)
}

// updateAndBroadcast performs the LOAD/ADD/SUB/NOR/MUL writeback's
// register update and common-data-bus broadcast (spec.md §4.3).
func (e *Engine) updateAndBroadcast(id uint32, result uint16) {
	for r := 1; r < insts.NumRegisters; r++ {
		if e.status[r] == id {
			e.regs.Write(r, result)
		}
	}
	e.status.ClearProducer(id)

	for _, other := range e.inv.All() {
		if !other.Busy {
			continue
		}
		woke := false
		if other.Qj == id {
			other.Vj = result & 0xFFFF
			other.Qj = 0
			woke = true
		}
		if other.Qk == id {
			other.Vk = result & 0xFFFF
			other.Qk = 0
			woke = true
		}
		if woke && other.ReadyToExecute() {
			other.RemainingExec = other.CyclesPerExec
			e.program[other.OwningInstructionIndex].ExecStartCycle = e.cycle
			e.armed[other.ID] = true
		}
	}
}

// flushYounger discards every busy station (and its register-status
// claims) whose owning instruction issued strictly after
// thresholdIssueCycle, and pops matching entries from the tail of the
// load/store queue (spec.md §4.3, the BEQ/CALL/RET flush rule).
func (e *Engine) flushYounger(thresholdIssueCycle uint64) {
	for _, s := range e.inv.All() {
		if !s.Busy {
			continue
		}
		inst := e.program[s.OwningInstructionIndex]
		if inst.IssueCycle <= thresholdIssueCycle {
			continue
		}

		e.status.ClearProducer(s.ID)
		if s.Opcode == insts.OpCall {
			e.callInFlight = false
		}
		s.Clear()
	}

	e.lsq.PopTailWhile(func(idx int) bool {
		return e.program[idx].IssueCycle > thresholdIssueCycle
	})
}
