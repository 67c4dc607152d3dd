// Package engine is the pipeline engine: the per-cycle issue/execute/
// writeback driver, composing the reservation-station inventory,
// register file, load/store queue, and speculation stack into a
// cycle-accurate Tomasulo scheduler (spec.md §2, §4).
package engine

import (
	"github.com/archsim/tomasulo16/arch"
	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/loadstore"
	"github.com/archsim/tomasulo16/memsys"
	"github.com/archsim/tomasulo16/specstack"
	"github.com/archsim/tomasulo16/station"
)

// TraceFunc receives a one-line narration of a pipeline event, keyed by
// the cycle it happened in. Engines run without a trace by default;
// attaching one is purely observational and never changes scheduling.
type TraceFunc func(cycle uint64, event string)

// defaultMaxCycles is the safety ceiling used when no simconfig is
// attached (spec.md §9 supplements the source's hardcoded ceiling with
// a configurable one; this is the package-level fallback).
const defaultMaxCycles = 100000

// Engine drives one simulated run of a decoded program over a fixed
// reservation-station inventory.
type Engine struct {
	program []*insts.Instruction
	pc      int
	cycle   uint64

	maxCycles uint64

	regs   arch.RegisterFile
	status arch.RegisterStatus
	mem    *arch.Memory

	inv *station.Inventory
	lsq loadstore.Queue
	spc specstack.Stack

	cache *memsys.Cache

	completed      uint64
	branchesSeen   uint64
	mispredictions uint64

	callInFlight bool

	// armed holds the ids of stations whose operands were just
	// resolved by this cycle's writeback broadcast. Such a station
	// waits one more cycle before its remaining_exec first decrements
	// (spec.md §4.3: "the rewakened station will begin counting down
	// next cycle"), even though its exec_start_cycle was already
	// stamped at broadcast time.
	armed map[uint32]bool

	trace TraceFunc
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithMaxCycles overrides the safety ceiling on cycle count.
func WithMaxCycles(n uint64) Option {
	return func(e *Engine) { e.maxCycles = n }
}

// WithTrace attaches a narration hook.
func WithTrace(fn TraceFunc) Option {
	return func(e *Engine) { e.trace = fn }
}

// WithCache attaches an optional cache-timing model for the LOAD/STORE
// memory phase. Without it, memory-phase duration is exactly each
// station's configured cycles_per_exec.
func WithCache(cache *memsys.Cache) Option {
	return func(e *Engine) { e.cache = cache }
}

// New builds an Engine over program, starting at initialPC, scheduled
// across the stations built from specs, operating on mem.
func New(program []*insts.Instruction, specs [8]station.Spec, mem *arch.Memory, initialPC int, opts ...Option) *Engine {
	e := &Engine{
		program:   program,
		pc:        initialPC,
		cycle:     1,
		maxCycles: defaultMaxCycles,
		mem:       mem,
		inv:       station.Build(specs),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) emit(event string) {
	if e.trace != nil {
		e.trace(e.cycle, event)
	}
}

// Cycle returns the cycle number about to run. Once Done(), that is one
// more than the number of cycles run.
func (e *Engine) Cycle() uint64 {
	return e.cycle
}

// Done reports the §4.4 termination condition: pc past the end of the
// program and no station busy.
func (e *Engine) Done() bool {
	return e.pc >= len(e.program) && !e.inv.AnyBusy()
}

// Tick runs exactly one cycle: issue, then writeback, then execute, in
// that fixed order (spec.md §4.4), then advances the cycle counter.
func (e *Engine) Tick() {
	e.armed = make(map[uint32]bool)
	if e.pc < len(e.program) {
		e.issue()
	}
	e.writeback()
	e.execute()
	e.cycle++
}

// Run ticks until Done() or the safety ceiling is exceeded, in which
// case it returns a *RuntimeBoundError.
func (e *Engine) Run() error {
	for !e.Done() {
		if e.cycle > e.maxCycles {
			return &RuntimeBoundError{
				Cycle:     e.cycle,
				MaxCycles: e.maxCycles,
				Stations:  e.Stations(),
				Registers: e.Registers(),
			}
		}
		e.Tick()
	}
	return nil
}

// Stats is the performance block described in spec.md §6.
type Stats struct {
	TotalCycles          uint64
	CompletedInstructions uint64
	IPC                  float64
	BranchesSeen         uint64
	Mispredictions       uint64
	MispredictionRate    float64
}

// Stats reports the performance block as of the current point in the
// run. TotalCycles is cycles actually run (cycle - 1, since the
// counter is pre-incremented for the next tick).
func (e *Engine) Stats() Stats {
	totalCycles := e.cycle - 1
	s := Stats{
		TotalCycles:           totalCycles,
		CompletedInstructions: e.completed,
		BranchesSeen:          e.branchesSeen,
		Mispredictions:        e.mispredictions,
	}
	if totalCycles > 0 {
		s.IPC = float64(e.completed) / float64(totalCycles)
	}
	if e.branchesSeen > 0 {
		s.MispredictionRate = float64(e.mispredictions) / float64(e.branchesSeen)
	}
	return s
}

// Registers returns a snapshot of the architectural register file.
func (e *Engine) Registers() [insts.NumRegisters]uint16 {
	return e.regs.Snapshot()
}

// RegisterStatus returns a snapshot of the register-status table.
func (e *Engine) RegisterStatus() arch.RegisterStatus {
	return e.status.Clone()
}

// SetRegister seeds register r with an initial architectural value
// before the run starts. Engine setup only — the running pipeline
// itself only ever writes registers via writeback.
func (e *Engine) SetRegister(r int, value uint16) {
	e.regs.Write(r, value)
}

// Stations returns a snapshot of every reservation station, in
// kind-then-index order.
func (e *Engine) Stations() []station.Station {
	all := e.inv.All()
	out := make([]station.Station, len(all))
	for i, s := range all {
		out[i] = *s
	}
	return out
}

// PC returns the current program counter.
func (e *Engine) PC() int {
	return e.pc
}

// MemoryWord reads one word of the simulated memory for inspection.
func (e *Engine) MemoryWord(addr uint32) uint16 {
	return e.mem.ReadWord(addr)
}
