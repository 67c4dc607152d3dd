// Package hwinventory loads the hardware-inventory file (spec.md §6):
// eight lines, one per reservation-station kind, each giving the unit
// count, the per-execution cycle count, and (load/store only) the
// address-calculation cycle count.
package hwinventory

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/station"
)

// Default returns the default inventory from spec.md §6: load 2/2/1,
// store 2/2/1, beq 1/1, call 1/1, add 3/2, sub 1/2, nor 1/1, mul 2/10.
func Default() [8]station.Spec {
	return [8]station.Spec{
		{Units: 2, ExecCycles: 2, AddrCycles: 1}, // load
		{Units: 2, ExecCycles: 2, AddrCycles: 1}, // store
		{Units: 1, ExecCycles: 1},                // beq
		{Units: 1, ExecCycles: 1},                // call
		{Units: 3, ExecCycles: 2},                // add
		{Units: 1, ExecCycles: 2},                // sub
		{Units: 1, ExecCycles: 1},                // nor
		{Units: 2, ExecCycles: 10},               // mul
	}
}

// Load reads a hardware-inventory file: 8 lines in order {load, store,
// beq, call, add, sub, nor, mul}, each "n_units exec_cycles
// [addr_cycles]". addr_cycles is only read for the first two (load,
// store) lines; elsewhere it is implicitly zero even if present.
func Load(path string) ([8]station.Spec, error) {
	var specs [8]station.Spec

	f, err := os.Open(path)
	if err != nil {
		return specs, fmt.Errorf("opening hardware-inventory file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for i := 0; i < 8; i++ {
		if !scanner.Scan() {
			return specs, fmt.Errorf("hardware-inventory file: expected 8 lines, found %d", i)
		}

		spec, err := parseLine(scanner.Text(), i)
		if err != nil {
			return specs, err
		}
		specs[i] = spec
	}

	if err := scanner.Err(); err != nil {
		return specs, fmt.Errorf("reading hardware-inventory file: %w", err)
	}

	return specs, nil
}

func parseLine(line string, lineIndex int) (station.Spec, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return station.Spec{}, fmt.Errorf("hardware-inventory line %d: %q: expected at least 2 fields, got %d",
			lineIndex, line, len(fields))
	}

	units, err := strconv.Atoi(fields[0])
	if err != nil {
		return station.Spec{}, fmt.Errorf("hardware-inventory line %d: invalid unit count %q: %w", lineIndex, fields[0], err)
	}

	execCycles, err := strconv.Atoi(fields[1])
	if err != nil {
		return station.Spec{}, fmt.Errorf("hardware-inventory line %d: invalid exec-cycle count %q: %w", lineIndex, fields[1], err)
	}

	spec := station.Spec{Units: units, ExecCycles: execCycles}

	// addr_cycles is used only for load (0) and store (1).
	if lineIndex < 2 && len(fields) > 2 {
		addrCycles, err := strconv.Atoi(fields[2])
		if err != nil {
			return station.Spec{}, fmt.Errorf("hardware-inventory line %d: invalid addr-cycle count %q: %w", lineIndex, fields[2], err)
		}
		spec.AddrCycles = addrCycles
	}

	return spec, nil
}

// Validate rejects an inventory that has zero units for any kind the
// program actually uses (spec.md §7: "zero units for a kind that the
// program uses" is a config error).
func Validate(specs [8]station.Spec, program []*insts.Instruction) error {
	for _, inst := range program {
		kind := station.KindForCategory(inst.Category)
		if specs[kind].Units <= 0 {
			return fmt.Errorf("program uses %s at index %d but the inventory has 0 %s stations",
				inst.Category, inst.ProgramIndex, kind)
		}
	}
	return nil
}
