// Package config parses the command-line flags and environment overrides of
// rangecalc into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/logging"
	"github.com/agbru/rangecalc/internal/reducer"
)

// EnvPrefix prefixes every environment override, e.g. RANGECALC_N.
const EnvPrefix = "RANGECALC_"

// Defaults.
const (
	DefaultN            = 1000
	DefaultOp           = "all"
	DefaultRepeat       = 1
	DefaultTimeout      = time.Minute
	DefaultCalibrationN = 10_000_000
)

// AppConfig is the validated configuration of one rangecalc run.
type AppConfig struct {
	// N is the upper bound of the range [1, N]. It may be negative; the
	// reducer rejects it and the run reports the invalid argument.
	N int64
	// Op selects "sum", "multiply" or "all".
	Op string
	// Variant, when set, restricts the run to one named variant.
	Variant string
	// Threads is the worker count; 0 selects it from the hardware.
	Threads int
	// MinChunk is the smallest number of integers per chunk.
	MinChunk int
	// ClosedForm makes parallel sum workers use the O(1) chunk formula.
	ClosedForm bool
	// Wide adds the arbitrary-precision variants.
	Wide bool
	// Repeat is the number of timed runs per variant; the best is reported.
	Repeat int
	// Timeout bounds the whole run.
	Timeout time.Duration

	Quiet    bool
	Verbose  bool
	Metrics  bool
	LogLevel string
	NoColor  bool
	TUI      bool

	// Calibrate runs the worker-count sweep instead of a calculation.
	Calibrate    bool
	CalibrationN int64
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Flags win over RANGECALC_* environment variables, which win over defaults.
// Usage and parse errors go to errorOutput.
func ParseConfig(programName string, args []string, errorOutput io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorOutput)
	fs.Usage = func() {
		fmt.Fprintf(errorOutput, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintln(errorOutput, "Computes the sum and the product of the integers 1..n, sequentially and in parallel.")
		fmt.Fprintln(errorOutput, "Every flag can also be set with a RANGECALC_<NAME> environment variable.")
		fmt.Fprintln(errorOutput)
		fs.PrintDefaults()
	}

	config := AppConfig{}
	fs.Int64Var(&config.N, "n", DefaultN, "Upper bound of the range [1, n].")
	fs.StringVar(&config.Op, "op", DefaultOp, "Reduction to run: sum, multiply or all.")
	fs.StringVar(&config.Variant, "variant", "", fmt.Sprintf("Run a single variant (%s).", strings.Join(reducer.VariantNames(), ", ")))
	fs.IntVar(&config.Threads, "threads", 0, "Number of workers for the parallel variants (0 = number of CPUs).")
	fs.IntVar(&config.MinChunk, "min-chunk", reducer.DefaultMinChunkSize, "Minimum number of integers per chunk.")
	fs.BoolVar(&config.ClosedForm, "closed-form", false, "Let parallel sum workers use the closed form on their chunk.")
	fs.BoolVar(&config.Wide, "wide", false, "Also run the arbitrary-precision variants.")
	fs.IntVar(&config.Repeat, "repeat", DefaultRepeat, "Timed runs per variant; the fastest is reported.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the whole run.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print full values and the chunk plan.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print Prometheus metrics after the run.")
	fs.StringVar(&config.LogLevel, "log-level", "warn", "Log level: debug, info, warn or error.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the interactive dashboard.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Sweep worker counts and report the fastest.")
	fs.Int64Var(&config.CalibrationN, "calibration-n", DefaultCalibrationN, "Range size used by -calibrate.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	fail := func(err error) (AppConfig, error) {
		fmt.Fprintln(errorOutput, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return fail(apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " ")))
	}

	if err := applyEnvOverrides(&config, fs); err != nil {
		return fail(err)
	}
	config.Op = strings.ToLower(config.Op)
	config.LogLevel = strings.ToLower(config.LogLevel)

	if err := config.Validate(); err != nil {
		return fail(err)
	}
	return config, nil
}

// Validate reports the first inconsistent setting as a ConfigError. A
// negative N is accepted here: the reducer owns that rule.
func (c AppConfig) Validate() error {
	switch c.Op {
	case "sum", "multiply", "all":
	default:
		return apperrors.NewConfigError("invalid -op %q: expected sum, multiply or all", c.Op)
	}
	if c.Variant != "" {
		if _, ok := reducer.LookupVariant(c.Variant); !ok {
			return apperrors.NewConfigError("unknown -variant %q: expected one of %s",
				c.Variant, strings.Join(reducer.VariantNames(), ", "))
		}
	}
	if c.Threads < 0 {
		return apperrors.NewConfigError("-threads must be 0 or positive, got %d", c.Threads)
	}
	if c.MinChunk < 1 {
		return apperrors.NewConfigError("-min-chunk must be at least 1, got %d", c.MinChunk)
	}
	if c.Repeat < 1 {
		return apperrors.NewConfigError("-repeat must be at least 1, got %d", c.Repeat)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("-timeout must be positive, got %s", c.Timeout)
	}
	if c.CalibrationN < 1 {
		return apperrors.NewConfigError("-calibration-n must be at least 1, got %d", c.CalibrationN)
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("-quiet and -tui are mutually exclusive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid -log-level: %v", err)
	}
	return nil
}

// ToReducerOptions converts the configuration into reducer options.
// Threads must already be resolved (see ApplyAdaptiveWorkers).
func (c AppConfig) ToReducerOptions() []reducer.Option {
	opts := []reducer.Option{
		reducer.WithMinChunkSize(c.MinChunk),
		reducer.WithClosedFormChunks(c.ClosedForm),
	}
	if c.Threads > 0 {
		opts = append(opts, reducer.WithWorkers(c.Threads))
	}
	return opts
}
