package cache

import (
	"slices"
	"time"

	"github.com/canonbase/canon"
)

const (
	// telemetryWindow is how many recent samples are retained per
	// operation kind.
	telemetryWindow = 100

	// perfTarget is the latency every query kind should average under.
	perfTarget = time.Second
)

// Operation kinds used for telemetry.
const (
	opListCategories = "list-categories"
	opShowCategory   = "show-category"
	opSearch         = "search"
	opSuggest        = "suggest"
)

// telemetry records query latencies at microsecond resolution. Callers must
// hold the cache lock.
type telemetry struct {
	ops map[string]*opRecord
}

type opRecord struct {
	count  int
	min    time.Duration
	max    time.Duration
	total  time.Duration
	recent []time.Duration
}

func newTelemetry() *telemetry {
	return &telemetry{ops: make(map[string]*opRecord)}
}

func (t *telemetry) record(kind string, d time.Duration) {
	d = d.Truncate(time.Microsecond)

	rec := t.ops[kind]
	if rec == nil {
		rec = &opRecord{}
		t.ops[kind] = rec
	}

	rec.count++
	rec.total += d
	if rec.count == 1 || d < rec.min {
		rec.min = d
	}
	if d > rec.max {
		rec.max = d
	}
	rec.recent = append(rec.recent, d)
	if len(rec.recent) > telemetryWindow {
		rec.recent = rec.recent[1:]
	}
}

func (t *telemetry) report() canon.PerfReport {
	report := canon.PerfReport{
		Ops:            make(map[string]canon.OpStats, len(t.ops)),
		Target:         perfTarget,
		AllUnderTarget: true,
	}
	for kind, rec := range t.ops {
		stats := canon.OpStats{
			Count:  rec.count,
			Min:    rec.min,
			Max:    rec.max,
			Total:  rec.total,
			Recent: slices.Clone(rec.recent),
		}
		report.Ops[kind] = stats
		if stats.Avg() >= perfTarget {
			report.AllUnderTarget = false
		}
	}
	return report
}
