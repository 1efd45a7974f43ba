// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayMemoryStats], [DisplayProgress].
//
//   - Format* and Render* functions return a string without performing I/O.
//     Examples: [FormatQuietResult], [FormatChunkPlan], [RenderComparisonTable].

package cli

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/agbru/rangecalc/internal/format"
	"github.com/agbru/rangecalc/internal/metrics"
	"github.com/agbru/rangecalc/internal/orchestration"
	"github.com/agbru/rangecalc/internal/reducer"
	"github.com/agbru/rangecalc/internal/ui"
)

// opTitle returns the display name of a reduction kind.
func opTitle(op string) string {
	if op == reducer.OpProduct {
		return "Product"
	}
	return "Sum"
}

// FormatValue renders a value with thousands separators, shortened around
// the middle unless full is set.
func FormatValue(v *big.Int, full bool) string {
	s := v.String()
	if !full && len(s) > TruncationLimit {
		return format.TruncateDigits(s, TruncationLimit, DisplayEdges)
	}
	return format.FormatNumberString(s)
}

// DisplayResult prints the agreed value of one reduction and the variant
// that produced it fastest.
func DisplayResult(res orchestration.VariantResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\n%s%s of [1, %d]%s\n", ui.ColorBold(), opTitle(res.Op), opts.N, ui.ColorReset())
	host := res.Name
	if v, ok := reducer.LookupVariant(res.Name); ok {
		host = fmt.Sprintf("%s (%s)", v.Name, v.HostName)
	}
	fmt.Fprintf(out, "  Fastest variant: %s%s%s in %s%s%s\n",
		ui.ColorGreen(), host, ui.ColorReset(),
		ui.ColorYellow(), durationCell(res.Duration), ui.ColorReset())

	value := FormatValue(res.Value, opts.Verbose)
	fmt.Fprintf(out, "  Value: %s%s%s\n", ui.ColorCyan(), value, ui.ColorReset())
	if digits := len(res.Value.String()); digits > TruncationLimit {
		fmt.Fprintf(out, "  Digits: %d\n", digits)
		if !opts.Verbose {
			fmt.Fprintf(out, "  %sTip: use -verbose to print every digit.%s\n", ui.ColorGrey(), ui.ColorReset())
		}
	}
}

// FormatQuietResult formats one value for scripting: the bare value, or
// "op=value" when several reductions are reported.
func FormatQuietResult(op string, v *big.Int, labeled bool) string {
	if labeled {
		return op + "=" + v.String()
	}
	return v.String()
}

// FormatChunkPlan renders the chunks a parallel call dispatches.
func FormatChunkPlan(n int64, workers int, chunks []reducer.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chunk plan for [1, %d] with %d worker(s): %d chunk(s)\n", n, workers, len(chunks))
	for i, c := range chunks {
		fmt.Fprintf(&b, "  #%-3d %-24s %d integers\n", i, c.String(), c.Len())
	}
	return b.String()
}

// DisplayMemoryStats prints allocation and GC activity of the run.
func DisplayMemoryStats(delta metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(delta.HeapAlloc))
	fmt.Fprintf(out, "  Allocated:       %s\n", format.FormatBytes(delta.TotalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %s\n", time.Duration(delta.PauseTotalNs))
}
