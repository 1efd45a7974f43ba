package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/reducer"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("rangecalc", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultN), cfg.N)
	assert.Equal(t, DefaultOp, cfg.Op)
	assert.Equal(t, 0, cfg.Threads)
	assert.Equal(t, reducer.DefaultMinChunkSize, cfg.MinChunk)
	assert.Equal(t, DefaultRepeat, cfg.Repeat)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Wide)
}

func TestParseConfigFlags(t *testing.T) {
	args := []string{
		"-n", "999999", "-op", "SUM", "-threads", "4", "-min-chunk", "1000",
		"-wide", "-repeat", "3", "-timeout", "5s", "-v", "-log-level", "debug",
	}
	cfg, err := ParseConfig("rangecalc", args, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, int64(999999), cfg.N)
	assert.Equal(t, "sum", cfg.Op)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 1000, cfg.MinChunk)
	assert.True(t, cfg.Wide)
	assert.Equal(t, 3, cfg.Repeat)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseConfigNegativeNIsAccepted(t *testing.T) {
	cfg, err := ParseConfig("rangecalc", []string{"-n", "-5"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), cfg.N)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad op", []string{"-op", "divide"}},
		{"unknown variant", []string{"-variant", "fib"}},
		{"negative threads", []string{"-threads", "-2"}},
		{"zero min chunk", []string{"-min-chunk", "0"}},
		{"zero repeat", []string{"-repeat", "0"}},
		{"zero timeout", []string{"-timeout", "0s"}},
		{"bad log level", []string{"-log-level", "loud"}},
		{"quiet and tui", []string{"-quiet", "-tui"}},
		{"positional argument", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := ParseConfig("rangecalc", tt.args, &out)
			require.Error(t, err)
			var cfgErr apperrors.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "want ConfigError, got %T: %v", err, err)
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseConfig("rangecalc", []string{"-h"}, &out)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "Usage: rangecalc")
	assert.Contains(t, out.String(), "-threads")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RANGECALC_N", "20")
	t.Setenv("RANGECALC_OP", "multiply")
	t.Setenv("RANGECALC_THREADS", "3")
	t.Setenv("RANGECALC_WIDE", "1")
	t.Setenv("RANGECALC_TIMEOUT", "2m")
	t.Setenv("RANGECALC_VARIANT", "multiply_to_n_threaded")

	cfg, err := ParseConfig("rangecalc", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, int64(20), cfg.N)
	assert.Equal(t, "multiply", cfg.Op)
	assert.Equal(t, 3, cfg.Threads)
	assert.True(t, cfg.Wide)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "multiply_to_n_threaded", cfg.Variant)
}

func TestEnvMultiWordKeys(t *testing.T) {
	t.Setenv("RANGECALC_MIN_CHUNK", "64")
	t.Setenv("RANGECALC_CALIBRATION_N", "5000")
	t.Setenv("RANGECALC_LOG_LEVEL", "debug")
	t.Setenv("N", "99")

	cfg, err := ParseConfig("rangecalc", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MinChunk)
	assert.Equal(t, int64(5000), cfg.CalibrationN)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(DefaultN), cfg.N, "unprefixed variables are ignored")
}

func TestFlagsWinOverEnv(t *testing.T) {
	t.Setenv("RANGECALC_N", "20")
	t.Setenv("RANGECALC_VERBOSE", "true")
	cfg, err := ParseConfig("rangecalc", []string{"-n", "7", "-v=false"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.N)
	assert.False(t, cfg.Verbose)
}

func TestInvalidEnvValue(t *testing.T) {
	t.Setenv("RANGECALC_THREADS", "many")
	_, err := ParseConfig("rangecalc", nil, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RANGECALC_THREADS")
	assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
}

func TestApplyAdaptiveWorkers(t *testing.T) {
	t.Parallel()
	cfg := ApplyAdaptiveWorkers(AppConfig{})
	assert.GreaterOrEqual(t, cfg.Threads, 1)

	cfg = ApplyAdaptiveWorkers(AppConfig{Threads: 3})
	assert.Equal(t, 3, cfg.Threads)
}

func TestToReducerOptions(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{Threads: 5, MinChunk: 10, ClosedForm: true}
	r, err := reducer.New(cfg.ToReducerOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Workers())
	assert.Equal(t, 10, r.MinChunkSize())
}
