package station

import "fmt"

// Spec describes one hardware-inventory line: how many stations of a
// kind exist, how many cycles each execution takes, and (for LOAD/STORE
// only) how many cycles address calculation takes.
type Spec struct {
	Units      int
	ExecCycles int
	AddrCycles int
}

// Inventory is the complete set of reservation stations, grouped by
// kind, plus the id→station lookup populated once at construction
// (spec.md §9: "Lookup is by id-to-(kind,index) map, populated once at
// inventory construction").
type Inventory struct {
	Stations [numKinds][]*Station
	byID     map[uint32]*Station
}

// Build constructs an Inventory from one Spec per kind, in Kind order
// (load, store, beq, call, add, sub, nor, mul). Station ids are assigned
// sequentially starting at 1 across all kinds, matching spec.md §3
// ("station ids are globally unique across kinds and strictly
// positive").
func Build(specs [numKinds]Spec) *Inventory {
	inv := &Inventory{byID: make(map[uint32]*Station)}

	var nextID uint32 = 1
	for k := Kind(0); k < numKinds; k++ {
		spec := specs[k]
		addrCycles := 0
		if k.IsMemory() {
			addrCycles = spec.AddrCycles
		}

		for j := 0; j < spec.Units; j++ {
			name := k.String()
			if spec.Units > 1 {
				name = fmt.Sprintf("%s%d", k.String(), j+1)
			}

			s := &Station{
				Name:          name,
				ID:            nextID,
				Kind:          k,
				CyclesPerExec: spec.ExecCycles,
				CyclesPerAddr: addrCycles,
			}
			inv.Stations[k] = append(inv.Stations[k], s)
			inv.byID[s.ID] = s
			nextID++
		}
	}

	return inv
}

// ByID looks up a station by its globally-unique id. ok is false for id
// 0 (meaning "no producer") or an unknown id.
func (inv *Inventory) ByID(id uint32) (*Station, bool) {
	if id == 0 {
		return nil, false
	}
	s, ok := inv.byID[id]
	return s, ok
}

// FreeStation scans kind's stations in index order and returns the
// first non-busy one, matching spec.md §4.1's in-order scan.
func (inv *Inventory) FreeStation(kind Kind) (*Station, bool) {
	for _, s := range inv.Stations[kind] {
		if !s.Busy {
			return s, true
		}
	}
	return nil, false
}

// All returns every station across every kind, in kind-then-index order
// (the order used by the broadcast scan and by snapshot views).
func (inv *Inventory) All() []*Station {
	var all []*Station
	for k := Kind(0); k < numKinds; k++ {
		all = append(all, inv.Stations[k]...)
	}
	return all
}

// AnyBusy reports whether any station across the whole inventory is
// still busy, the second half of the engine's termination condition
// (spec.md §4.4).
func (inv *Inventory) AnyBusy() bool {
	for _, s := range inv.All() {
		if s.Busy {
			return true
		}
	}
	return false
}
