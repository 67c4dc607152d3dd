package memsys

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// wordSize is the access granularity memsys uses against arch.Memory:
// every station word is 2 bytes.
const wordSize = 2

// Config holds cache geometry and latency, grounded on the teacher's
// cache.Config (timing/cache/cache.go).
type Config struct {
	// Size in bytes.
	Size int
	// Associativity (number of ways).
	Associativity int
	// BlockSize in bytes (cache line size).
	BlockSize int
	// HitLatency in cycles on a hit. It replaces a LOAD/STORE
	// station's cycles_per_exec as the length of its memory phase.
	HitLatency uint64
	// MissLatency in cycles on a miss.
	MissLatency uint64
}

// DefaultConfig returns a small L1-sized data cache profile sized for
// the 16-bit, 64Ki-word address space this machine addresses.
func DefaultConfig() Config {
	return Config{
		Size:          4096,
		Associativity: 4,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   8,
	}
}

// AccessResult reports the outcome of a cache access.
type AccessResult struct {
	Hit     bool
	Latency uint64
}

// BackingStore is the next level in the memory hierarchy a Cache
// fetches from on miss and writes back to on eviction.
type BackingStore interface {
	Read(addr uint64, size int) []byte
	Write(addr uint64, data []byte)
}

// Cache is an optional timing model for the LOAD/STORE memory phase,
// sitting in front of a BackingStore. It never stores the program's
// actual data independently of the backing store; it only introduces
// hit/miss latency and LRU eviction/writeback bookkeeping, following
// the teacher's akitacache.DirectoryImpl-based design.
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	dataStore [][]byte
	backing   BackingStore
	stats     Stats
}

// Stats accumulates cache access counters.
type Stats struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// New builds a Cache of the given geometry over backing.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache's geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns a copy of the current access counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Reset invalidates every line without writing back and clears stats.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Stats{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// WordLatency resolves the cache-timing cost of addressing one machine
// word at addr, updating LRU / fill state as a side effect. isWrite
// selects write-allocate bookkeeping instead of a plain fetch.
func (c *Cache) WordLatency(addr uint64, isWrite bool) AccessResult {
	if isWrite {
		return c.access(addr, true)
	}
	return c.access(addr, false)
}

func (c *Cache) access(addr uint64, isWrite bool) AccessResult {
	if isWrite {
		c.stats.Writes++
	} else {
		c.stats.Reads++
	}

	blockAddr := (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
	block := c.directory.Lookup(0, blockAddr)

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		if isWrite {
			block.IsDirty = true
		}
		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	return c.handleMiss(blockAddr, isWrite)
}

func (c *Cache) handleMiss(blockAddr uint64, isWrite bool) AccessResult {
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return AccessResult{Hit: false, Latency: c.config.MissLatency}
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.backing.Write(victim.Tag, victimData)
		}
	}

	if c.backing != nil {
		newData := c.backing.Read(blockAddr, c.config.BlockSize)
		copy(victimData, newData)
	} else {
		for i := range victimData {
			victimData[i] = 0
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite
	c.directory.Visit(victim)

	return AccessResult{Hit: false, Latency: c.config.MissLatency}
}
