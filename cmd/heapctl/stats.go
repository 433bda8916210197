package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
)

var (
	statsSeed       int64
	statsIterations int
	statsMaxSize    int
	statsCapacity   int
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().Int64Var(&statsSeed, "seed", 1, "PRNG seed for the workload")
	cmd.Flags().IntVar(&statsIterations, "iterations", 1000, "Number of alloc/free rounds")
	cmd.Flags().IntVar(&statsMaxSize, "max-size", 4096, "Maximum allocation size in bytes")
	cmd.Flags().IntVar(&statsCapacity, "capacity", 16*1024*1024, "Region capacity in bytes")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show engine counters after a workload",
		Long: `The stats command runs a seeded randomized workload against the
first-fit engine and reports its internal counters: fast/slow path splits,
grow calls, split and coalesce activity, byte totals.

Example:
  heapctl stats
  heapctl stats --iterations 100000 --max-size 256
  heapctl stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngineStats()
		},
	}
	return cmd
}

// engineReport is the JSON shape of the stats output.
type engineReport struct {
	Seed       int64       `json:"seed"`
	Iterations int         `json:"iterations"`
	Break      int32       `json:"break"`
	FreeBytes  int64       `json:"free_bytes"`
	Counters   alloc.Stats `json:"counters"`
}

func runEngineStats() error {
	r, err := heap.New(heap.WithCapacity(statsCapacity))
	if err != nil {
		return fmt.Errorf("failed to create region: %w", err)
	}
	defer r.Close()
	a := alloc.NewFirstFit(r)

	rng := rand.New(rand.NewSource(statsSeed))
	var live []alloc.Ref
	for i := 0; i < statsIterations; i++ {
		if len(live) == 0 || rng.Intn(2) == 0 {
			ref, _, err := a.Alloc(int32(1 + rng.Intn(statsMaxSize)))
			if err != nil {
				printVerbose("iter %d: alloc failed: %v\n", i, err)
				continue
			}
			live = append(live, ref)
		} else {
			victim := rng.Intn(len(live))
			if err := a.Free(live[victim]); err != nil {
				return fmt.Errorf("iter %d: free: %w", i, err)
			}
			live = append(live[:victim], live[victim+1:]...)
		}
	}

	rep := engineReport{
		Seed:       statsSeed,
		Iterations: statsIterations,
		Break:      r.Brk(),
		FreeBytes:  a.FreeBytes(),
		Counters:   a.Stats(),
	}
	if jsonOut {
		return printJSON(rep)
	}

	s := rep.Counters
	printInfo("workload: seed %d, %d iterations, %d live blocks at end\n",
		rep.Seed, rep.Iterations, len(live))
	printInfo("region:   break %d, %d bytes free\n", rep.Break, rep.FreeBytes)
	printInfo("allocs:   %d calls (%d fast path, %d slow path)\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath)
	printInfo("frees:    %d calls\n", s.FreeCalls)
	printInfo("grows:    %d calls, %d bytes\n", s.GrowCalls, s.GrowBytes)
	printInfo("splits:   %d, coalesces: %d\n", s.SplitCount, s.CoalesceCount)
	printInfo("bytes:    %d allocated, %d freed\n", s.BytesAllocated, s.BytesFreed)
	return nil
}
