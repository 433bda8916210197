package alloc

// Stats holds engine counters for testing and instrumentation.
type Stats struct {
	AllocCalls     int   // Total Alloc() calls
	AllocFastPath  int   // Allocations satisfied from the free list
	AllocSlowPath  int   // Allocations that required region growth
	FreeCalls      int   // Total Free() calls (excluding NilRef no-ops)
	GrowCalls      int   // Break cursor advances
	GrowBytes      int64 // Total bytes carved from the region
	SplitCount     int   // Block splits
	CoalesceCount  int   // Free block merges
	BytesAllocated int64 // Total payload bytes handed out
	BytesFreed     int64 // Total payload bytes released
}
