// Package memimage loads the memory-initialization file (spec.md §6):
// lines of "address value", both decimal, applied to a flat memory.
package memimage

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/archsim/tomasulo16/arch"
)

// Load reads addr/value pairs from path and writes them into mem.
// Addresses must be in [0, 65535]; values are masked to 16 bits, the
// same way the reference implementation stores them.
func Load(path string, mem *arch.Memory) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening memory-image file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("memory-image line %d: %q: expected \"address value\", got %d fields",
				lineNo, line, len(fields))
		}

		addr, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("memory-image line %d: invalid address %q: %w", lineNo, fields[0], err)
		}
		if addr < 0 || addr >= arch.NumWords {
			return fmt.Errorf("memory-image line %d: address %d out of range [0, %d]", lineNo, addr, arch.NumWords-1)
		}

		value, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("memory-image line %d: invalid value %q: %w", lineNo, fields[1], err)
		}

		mem.WriteWord(uint32(addr), uint16(value))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading memory-image file: %w", err)
	}

	return nil
}
