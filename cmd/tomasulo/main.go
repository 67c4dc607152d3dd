// Command tomasulo runs the cycle-accurate Tomasulo simulator over a
// decoded instruction file, reporting the performance block and
// per-instruction pipeline timestamps described by spec.md §6.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/archsim/tomasulo16/arch"
	"github.com/archsim/tomasulo16/hwinventory"
	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/memimage"
	"github.com/archsim/tomasulo16/memsys"
	"github.com/archsim/tomasulo16/simconfig"
	"github.com/archsim/tomasulo16/timing/engine"
)

var (
	hardwarePath = flag.String("hardware", "", "Path to the hardware-inventory file (default: spec.md §6 defaults)")
	memPath      = flag.String("mem", "", "Path to the memory-initialization file")
	initialPC    = flag.Int("pc", 0, "Initial program counter")
	simConfigPath = flag.String("sim-config", "", "Path to a simulation-options JSON file")
	maxCycles    = flag.Uint64("max-cycles", 0, "Override the runaway-cycle safety ceiling (0 keeps the sim-config/default value)")
	cacheTiming  = flag.Bool("cache", false, "Enable the default cache-timing model for the LOAD/STORE memory phase")
	verbose      = flag.Bool("v", false, "Print per-instruction pipeline timestamps and a per-cycle trace")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tomasulo [options] <program.asm>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	os.Exit(run(flag.Arg(0)))
}

func run(programPath string) int {
	f, err := os.Open(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening program: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	program, err := insts.NewDecoder().DecodeProgram(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding program: %v\n", err)
		return 1
	}

	specs := hwinventory.Default()
	if *hardwarePath != "" {
		specs, err = hwinventory.Load(*hardwarePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading hardware inventory: %v\n", err)
			return 1
		}
	}
	if err := hwinventory.Validate(specs, program); err != nil {
		fmt.Fprintf(os.Stderr, "Error validating hardware inventory: %v\n", err)
		return 1
	}

	cfg := simconfig.Default()
	if *simConfigPath != "" {
		cfg, err = simconfig.Load(*simConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading sim config: %v\n", err)
			return 1
		}
	}
	if *maxCycles > 0 {
		cfg.MaxCycles = *maxCycles
	}
	if *cacheTiming {
		cfg.CacheTiming = true
	}

	mem := arch.NewMemory()
	if *memPath != "" {
		if err := memimage.Load(*memPath, mem); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading memory image: %v\n", err)
			return 1
		}
	}

	opts := []engine.Option{engine.WithMaxCycles(cfg.MaxCycles)}
	if cfg.CacheTiming {
		backing := memsys.NewMemoryBacking(mem)
		opts = append(opts, engine.WithCache(memsys.New(cfg.Cache, backing)))
	}
	if *verbose {
		opts = append(opts, engine.WithTrace(func(cycle uint64, event string) {
			fmt.Fprintf(os.Stderr, "cycle %d: %s\n", cycle, event)
		}))
	}

	sim := engine.New(program, specs, mem, *initialPC, opts...)

	if err := sim.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error during simulation: %v\n", err)
		var bound *engine.RuntimeBoundError
		if errors.As(err, &bound) {
			printPostMortem(bound)
		}
		return 1
	}

	if *verbose {
		printTimestamps(program)
	}
	printStats(sim.Stats())

	return 0
}

func printTimestamps(program []*insts.Instruction) {
	fmt.Println("index  text                      issue  exec_start  exec_end  writeback")
	for _, inst := range program {
		fmt.Printf("%-6d %-25s %-6d %-11d %-9d %-9d\n",
			inst.ProgramIndex, inst.RawText,
			inst.IssueCycle, inst.ExecStartCycle, inst.ExecEndCycle, inst.WritebackCycle)
	}
	fmt.Println()
}

// printPostMortem reports the station and register snapshot a
// RuntimeBoundError carries, per spec.md §7's post-mortem requirement.
func printPostMortem(bound *engine.RuntimeBoundError) {
	fmt.Fprintln(os.Stderr, "\n-- post-mortem snapshot --")
	fmt.Fprintln(os.Stderr, "stations:")
	for _, s := range bound.Stations {
		if !s.Busy {
			continue
		}
		fmt.Fprintf(os.Stderr, "  %-6s busy=%t qj=%d qk=%d remaining_addr=%d remaining_exec=%d\n",
			s.Name, s.Busy, s.Qj, s.Qk, s.RemainingAddr, s.RemainingExec)
	}
	fmt.Fprintln(os.Stderr, "registers:")
	for r, v := range bound.Registers {
		fmt.Fprintf(os.Stderr, "  r%d=%d\n", r, v)
	}
}

func printStats(stats engine.Stats) {
	fmt.Printf("total cycles:          %d\n", stats.TotalCycles)
	fmt.Printf("completed instructions: %d\n", stats.CompletedInstructions)
	fmt.Printf("IPC:                   %.4f\n", stats.IPC)
	fmt.Printf("branches seen:         %d\n", stats.BranchesSeen)
	fmt.Printf("mispredictions:        %d\n", stats.Mispredictions)
	fmt.Printf("misprediction rate:    %.4f\n", stats.MispredictionRate)
}
