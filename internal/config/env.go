// This file contains the environment variable overrides of the configuration.

package config

import (
	"flag"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	apperrors "github.com/agbru/rangecalc/internal/errors"
)

// envSpec lists the RANGECALC_* variables; field names split into words
// give the keys (MinChunk reads RANGECALC_MIN_CHUNK). A nil field was not
// set. No envconfig tag is used so unprefixed names are never consulted.
type envSpec struct {
	N            *int64         `split_words:"true"`
	Op           *string        `split_words:"true"`
	Variant      *string        `split_words:"true"`
	Threads      *int           `split_words:"true"`
	MinChunk     *int           `split_words:"true"`
	ClosedForm   *bool          `split_words:"true"`
	Wide         *bool          `split_words:"true"`
	Repeat       *int           `split_words:"true"`
	Timeout      *time.Duration `split_words:"true"`
	Quiet        *bool          `split_words:"true"`
	Verbose      *bool          `split_words:"true"`
	Metrics      *bool          `split_words:"true"`
	LogLevel     *string        `split_words:"true"`
	NoColor      *bool          `split_words:"true"`
	TUI          *bool          `split_words:"true"`
	Calibrate    *bool          `split_words:"true"`
	CalibrationN *int64         `split_words:"true"`
}

// isFlagSetAny reports whether any of the aliased flags was given on the
// command line.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// override copies *src into *dst unless src is nil or one of the flags was
// set on the command line.
func override[T any](fs *flag.FlagSet, dst *T, src *T, flags ...string) {
	if src != nil && !isFlagSetAny(fs, flags...) {
		*dst = *src
	}
}

// applyEnvOverrides applies RANGECALC_* values for every flag that was not
// set on the command line. An unparsable value is a ConfigError.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	var env envSpec
	if err := envconfig.Process(strings.TrimSuffix(EnvPrefix, "_"), &env); err != nil {
		return apperrors.NewConfigError("invalid environment: %v", err)
	}

	override(fs, &config.N, env.N, "n")
	override(fs, &config.Op, env.Op, "op")
	override(fs, &config.Variant, env.Variant, "variant")
	override(fs, &config.Threads, env.Threads, "threads")
	override(fs, &config.MinChunk, env.MinChunk, "min-chunk")
	override(fs, &config.ClosedForm, env.ClosedForm, "closed-form")
	override(fs, &config.Wide, env.Wide, "wide")
	override(fs, &config.Repeat, env.Repeat, "repeat")
	override(fs, &config.Timeout, env.Timeout, "timeout")
	override(fs, &config.Quiet, env.Quiet, "quiet", "q")
	override(fs, &config.Verbose, env.Verbose, "verbose", "v")
	override(fs, &config.Metrics, env.Metrics, "metrics")
	override(fs, &config.LogLevel, env.LogLevel, "log-level")
	override(fs, &config.NoColor, env.NoColor, "no-color")
	override(fs, &config.TUI, env.TUI, "tui")
	override(fs, &config.Calibrate, env.Calibrate, "calibrate")
	override(fs, &config.CalibrationN, env.CalibrationN, "calibration-n")
	return nil
}
