package bench

import (
	"fmt"
	"io"
)

// PrintTable writes the fixed-width results table for rows to w.
func PrintTable(w io.Writer, rows []Aggregate) {
	fmt.Fprintf(w, "%-10s%-13s%-16s%-8s%-12s%-12s%-16s%-16s\n",
		"queue", "mode", "scenario", "cap",
		"avg ms", "stdev ms", "avg ops/s", "stdev ops/s")

	for _, r := range rows {
		fmt.Fprintf(w, "%-10s%-13s%-16s%-8d%-12.2f%-12.2f%-16.2f%-16.2f\n",
			r.Queue, string(r.Mode), r.Scenario, r.Capacity,
			r.AvgMs, r.StdevMs, r.AvgOps, r.StdevOps)
	}
}
