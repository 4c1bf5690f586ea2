// Package termout renders RPC call results to the terminal: a colored
// status line per call and a tabular summary across a batch, ported from
// the teacher's internal/output.RenderSnapshotTerminal — the same
// fatih/color + rodaine/table combination, now rendering JSON-RPC call
// outcomes (method, latency, result/error) instead of per-provider block
// height and latency percentiles.
package termout

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/jrpcgo/internal/fanout"
	"github.com/dmagro/jrpcgo/jsonvalue/serializer"
	rpcclient "github.com/dmagro/jrpcgo/rpc/client"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

// DisableColors turns off color output, for non-TTY or scripted use —
// matches the teacher's output.DisableColors.
func DisableColors() { color.NoColor = true }

// PrintResult renders a single call's outcome: the method name, how long
// it took, and either its compact JSON result or its RPC error.
func PrintResult(method string, elapsed time.Duration, res rpcclient.Result) {
	if res.Err != nil {
		fmt.Printf("%s %s (%s): %s\n", red("✗"), bold(method), formatDuration(elapsed), red(res.Err.Error()))
		return
	}
	fmt.Printf("%s %s (%s): %s\n", green("✓"), bold(method), formatDuration(elapsed), serializer.Compact(res.Value))
}

// PrintBatch renders a table summarizing a fanout.CallAll batch of RPC
// results, one row per call, in submission order.
func PrintBatch(results []fanout.Result[rpcclient.Result]) {
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Method", "Status", "Result / Error")
	tbl.WithHeaderFormatter(headerFmt)

	for _, r := range results {
		if r.Err != nil {
			tbl.AddRow(r.Label, red("ERR"), r.Err.Error())
			continue
		}
		if r.Value.Err != nil {
			tbl.AddRow(r.Label, red("RPC"), r.Value.Err.Error())
			continue
		}
		tbl.AddRow(r.Label, green("OK"), string(serializer.Compact(r.Value.Value)))
	}
	tbl.Print()
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// Banner prints a small framed header, matching the teacher's
// renderHeader framing style but generic to any title.
func Banner(title string) {
	fmt.Println()
	fmt.Println(cyan("── " + title + " "))
	fmt.Println()
}
