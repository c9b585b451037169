package main

import (
	"fmt"
	"io"
	"time"

	"svreg/internal/observ"
	"svreg/internal/pipeline"
)

// printTimings writes the per-stage totals and the timer summary.
func printTimings(out io.Writer, timings pipeline.Timings, timer *observ.Timer) {
	for _, stage := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageRTL, pipeline.StageRAL, pipeline.StageWrite} {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-6s %8.2f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
