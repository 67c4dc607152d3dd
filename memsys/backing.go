// Package memsys wraps arch.Memory with an optional Akita-backed cache
// timing model for the LOAD/STORE memory phase. Default engine
// behavior never touches this package — it is opt-in via simconfig.
package memsys

import "github.com/archsim/tomasulo16/arch"

// MemoryBacking adapts arch.Memory to the akita cache component's
// BackingStore interface, byte-addressing the word array the same way
// the teacher's MemoryBacking adapts emu.Memory.
type MemoryBacking struct {
	memory *arch.Memory
}

// NewMemoryBacking wraps mem as a BackingStore.
func NewMemoryBacking(mem *arch.Memory) *MemoryBacking {
	return &MemoryBacking{memory: mem}
}

// Read fetches size bytes starting at addr from the backing memory.
func (m *MemoryBacking) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = m.memory.Read8(addr + uint64(i))
	}
	return data
}

// Write stores data into the backing memory starting at addr.
func (m *MemoryBacking) Write(addr uint64, data []byte) {
	for i, b := range data {
		m.memory.Write8(addr+uint64(i), b)
	}
}
