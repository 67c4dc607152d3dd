package engine

import (
	"fmt"

	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/station"
)

// bytesPerWord is the byte stride memsys.Cache addresses are given,
// matching the word-addressable machine memory (spec.md §3).
const bytesPerWord = 2

// execute implements spec.md §4.2 for both non-memory and memory
// stations.
func (e *Engine) execute() {
	e.executeNonMemory()
	e.executeMemory()
}

func (e *Engine) executeNonMemory() {
	for kind := station.KindBeq; kind <= station.KindMul; kind++ {
		for _, s := range e.inv.Stations[kind] {
			if !s.Busy {
				continue
			}
			inst := e.program[s.OwningInstructionIndex]
			if inst.IssueCycle >= e.cycle {
				continue
			}
			if !e.spc.Empty() && inst.IssueCycle > e.spc.Head().IssueCycle {
				continue
			}
			if !s.ReadyToExecute() || s.RemainingExec <= 0 {
				continue
			}
			if e.armed[s.ID] {
				continue
			}

			if s.RemainingExec == s.CyclesPerExec {
				inst.ExecStartCycle = e.cycle
			}
			s.RemainingExec--
			if s.RemainingExec == 0 {
				s.LastComputedResult = e.computeResult(s, inst)
				inst.ExecEndCycle = e.cycle
				e.emit(fmt.Sprintf("execution complete for %s", inst.RawText))
			}
		}
	}
}

func (e *Engine) executeMemory() {
	popQueue := false

	for _, kind := range [2]station.Kind{station.KindLoad, station.KindStore} {
		for _, s := range e.inv.Stations[kind] {
			if !s.Busy {
				continue
			}
			inst := e.program[s.OwningInstructionIndex]
			if inst.IssueCycle >= e.cycle {
				continue
			}
			if !e.spc.Empty() && inst.IssueCycle > e.spc.Head().IssueCycle {
				continue
			}

			switch {
			case s.RemainingAddr > 0:
				e.progressAddressPhase(s, inst, &popQueue)
			case s.RemainingExec > 0:
				e.progressMemoryPhase(kind, s, inst)
			}
		}
	}

	if popQueue {
		e.lsq.PopFront()
	}
}

func (e *Engine) progressAddressPhase(s *station.Station, inst *insts.Instruction, popQueue *bool) {
	if s.Qj != 0 {
		return
	}
	front, ok := e.lsq.Front()
	if !ok || front != s.OwningInstructionIndex {
		return
	}

	if s.RemainingAddr == s.CyclesPerAddr {
		inst.ExecStartCycle = e.cycle
	}
	s.RemainingAddr--
	if s.RemainingAddr != 0 {
		return
	}

	resolved := station.Wrap16(s.Address + int32(s.Vj))
	s.Address = int32(resolved)
	*popQueue = true
	e.emit(fmt.Sprintf("address resolved for %s: %d", inst.RawText, resolved))

	if e.cache != nil {
		result := e.cache.WordLatency(uint64(resolved)*bytesPerWord, s.Kind == station.KindStore)
		latency := int(result.Latency)
		if latency <= 0 {
			latency = 1
		}
		s.RemainingExec = latency
	}
}

func (e *Engine) progressMemoryPhase(kind station.Kind, s *station.Station, inst *insts.Instruction) {
	if kind == station.KindStore {
		if e.blockedByOlderLoad(s, inst) {
			return
		}
		s.RemainingExec--
		if s.RemainingExec == 0 {
			inst.ExecEndCycle = e.cycle
		}
		return
	}

	// LOAD progresses unconditionally once its address is resolved.
	s.RemainingExec--
	if s.RemainingExec == 0 {
		inst.ExecEndCycle = e.cycle
		s.LastComputedResult = e.mem.ReadWord(uint32(uint16(s.Address))) & 0xFFFF
		e.emit(fmt.Sprintf("load complete for %s", inst.RawText))
	}
}

// blockedByOlderLoad implements the WAR/RAW memory guard: a STORE may
// not complete its memory phase while an older LOAD to the same
// resolved address is still mid memory-phase (spec.md §4.2).
func (e *Engine) blockedByOlderLoad(store *station.Station, storeInst *insts.Instruction) bool {
	for _, load := range e.inv.Stations[station.KindLoad] {
		if !load.Busy || load.RemainingAddr != 0 || load.RemainingExec <= 0 {
			continue
		}
		loadInst := e.program[load.OwningInstructionIndex]
		if loadInst.IssueCycle < storeInst.IssueCycle && uint16(load.Address) == uint16(store.Address) {
			return true
		}
	}
	return false
}

// computeResult implements the opcode table of spec.md §4.2.
func (e *Engine) computeResult(s *station.Station, inst *insts.Instruction) uint16 {
	switch inst.Category {
	case insts.CategoryAdd:
		return s.Vj + s.Vk
	case insts.CategorySub:
		return s.Vj - s.Vk
	case insts.CategoryNor:
		return ^(s.Vj | s.Vk)
	case insts.CategoryMul:
		return uint16((uint32(s.Vj) * uint32(s.Vk)) & 0xFFFF)
	case insts.CategoryBeq:
		if s.Vj == s.Vk {
			return 1
		}
		return 0
	case insts.CategoryCallOrRet:
		if inst.Opcode == insts.OpCall {
			return uint16(s.OwningInstructionIndex + 1)
		}
		return s.Vj
	default:
		return 0
	}
}
