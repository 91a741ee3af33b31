package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/syncer"
)

// Run executes the cache command.
func (c *CacheCmd) Run(deps *Dependencies) error {
	// Populate the index so the numbers reflect the current target tree
	deps.Cache.Categories(deps.Ctx)

	stats := deps.Cache.Stats()
	perf := deps.Cache.PerformanceReport()
	counters := deps.Store.Counters()
	scanStats := deps.Scanner.Stats()

	storeStats, err := deps.Store.Stats()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", canon.ErrorMessage(err))
		return err
	}

	if c.JSON {
		payload := struct {
			Cache         canon.CacheStats    `json:"cache"`
			Scanner       canon.ScanStats     `json:"scanner"`
			Store         canon.StoreStats    `json:"store"`
			StoreCounters canon.StoreCounters `json:"storeCounters"`
			Performance   canon.PerfReport    `json:"performance"`
		}{
			Cache:         stats,
			Scanner:       scanStats,
			Store:         storeStats,
			StoreCounters: counters,
			Performance:   perf,
		}
		encoder := json.NewEncoder(deps.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	fmt.Fprintf(deps.Stdout, "Cache: %d documents in %d categories\n", stats.Documents, stats.Categories)
	fmt.Fprintf(deps.Stdout, "  memory      %s of %s\n",
		syncer.FormatBytes(int(stats.MemoryBytes)), syncer.FormatBytes(int(stats.MaxMemory)))
	fmt.Fprintf(deps.Stdout, "  scans       %d hits, %d misses\n", stats.ScanHits, stats.ScanMisses)
	fmt.Fprintf(deps.Stdout, "  evictions   %d\n", stats.Evictions)
	fmt.Fprintf(deps.Stdout, "  compressed  %d fields\n", stats.Compressed)

	fmt.Fprintf(deps.Stdout, "Scanner: %d files scanned, %d parse errors, %s processed\n",
		scanStats.FilesScanned, scanStats.ParseErrors, syncer.FormatBytes(int(scanStats.BytesProcessed)))

	fmt.Fprintf(deps.Stdout, "Store: %d blobs, %s (%.1f%% of %s)\n",
		storeStats.FileCount, syncer.FormatBytes(int(storeStats.TotalBytes)),
		storeStats.UtilizationPct, syncer.FormatBytes(int(storeStats.MaxBytes)))
	fmt.Fprintf(deps.Stdout, "  puts %d, hits %d (%d hot), misses %d, corrupt dropped %d\n",
		counters.Puts, counters.Hits, counters.HotHits, counters.Misses, counters.CorruptDropped)

	verdict := "all under target"
	if !perf.AllUnderTarget {
		verdict = "TARGET EXCEEDED"
	}
	fmt.Fprintf(deps.Stdout, "Performance (target %v): %s\n", perf.Target, verdict)
	for _, op := range slices.Sorted(maps.Keys(perf.Ops)) {
		opStats := perf.Ops[op]
		fmt.Fprintf(deps.Stdout, "  %-16s count=%d avg=%v max=%v\n", op, opStats.Count, opStats.Avg(), opStats.Max)
	}

	return nil
}
