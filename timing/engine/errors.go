package engine

import (
	"fmt"

	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/station"
)

// RuntimeBoundError is returned by Run when the cycle count exceeds the
// configured safety ceiling without the program terminating — a
// deadlocked or livelocked schedule (spec.md §7). It carries a
// post-mortem snapshot of every station and register so a caller can
// report what the pipeline looked like at the point of abort.
type RuntimeBoundError struct {
	Cycle     uint64
	MaxCycles uint64

	Stations  []station.Station
	Registers [insts.NumRegisters]uint16
}

func (e *RuntimeBoundError) Error() string {
	return fmt.Sprintf("runtime bound exceeded: ran %d cycles (max %d) without completing", e.Cycle-1, e.MaxCycles)
}
