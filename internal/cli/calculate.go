package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/rangecalc/internal/config"
	"github.com/agbru/rangecalc/internal/format"
	"github.com/agbru/rangecalc/internal/reducer"
	"github.com/agbru/rangecalc/internal/sysmon"
	"github.com/agbru/rangecalc/internal/ui"
)

// PrintExecutionConfig displays the range, the worker policy and the host.
func PrintExecutionConfig(cfg config.AppConfig, host sysmon.Host, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Reducing %s[1, %d]%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Workers: %s%d%s, minimum chunk size %s%d%s, %d run(s) per variant.\n",
		ui.ColorCyan(), cfg.Threads, ui.ColorReset(), ui.ColorCyan(), cfg.MinChunk, ui.ColorReset(), cfg.Repeat)

	cpu := host.CPUModel
	if cpu == "" {
		cpu = "unknown CPU"
	}
	fmt.Fprintf(out, "Environment: %s%s%s, %d logical / %d physical cores, %s RAM, %s.\n",
		ui.ColorCyan(), cpu, ui.ColorReset(), host.LogicalCores, host.PhysicalCores,
		format.FormatBytes(host.TotalMemory), host.GoVersion)
}

// PrintExecutionMode lists the variants about to run.
func PrintExecutionMode(variants []reducer.Variant, out io.Writer) {
	var modeDesc string
	switch len(variants) {
	case 0:
		modeDesc = "no variant selected"
	case 1:
		modeDesc = fmt.Sprintf("single variant %s%s%s", ui.ColorGreen(), variants[0].Name, ui.ColorReset())
	default:
		names := make([]string, len(variants))
		for i, v := range variants {
			names[i] = v.Name
		}
		modeDesc = fmt.Sprintf("comparison of %s", strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
