package reducer

import (
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/logging"
)

const tracerName = "github.com/agbru/rangecalc/internal/reducer"

// DefaultMinChunkSize allows chunks of a single integer, so the parallel
// path uses min(workers, n) goroutines.
const DefaultMinChunkSize = 1

// Observer is notified each time a worker finishes its chunk. ChunkDone is
// called from worker goroutines and must be safe for concurrent use.
type Observer interface {
	ChunkDone(op string, done, total int)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(op string, done, total int)

// ChunkDone calls f.
func (f ObserverFunc) ChunkDone(op string, done, total int) { f(op, done, total) }

type nopObserver struct{}

func (nopObserver) ChunkDone(string, int, int) {}

type multiObserver []Observer

func (m multiObserver) ChunkDone(op string, done, total int) {
	for _, o := range m {
		o.ChunkDone(op, done, total)
	}
}

// MultiObserver fans chunk notifications out to every non-nil observer.
func MultiObserver(observers ...Observer) Observer {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 0 {
		return nopObserver{}
	}
	return m
}

// settings is the immutable configuration of a Reducer.
type settings struct {
	workers          int
	minChunk         int
	closedFormChunks bool
	logger           logging.Logger
	tracer           trace.Tracer
	observer         Observer
}

func defaultSettings() settings {
	return settings{
		workers:  runtime.NumCPU(),
		minChunk: DefaultMinChunkSize,
		logger:   logging.NewNopLogger(),
		tracer:   otel.Tracer(tracerName),
		observer: nopObserver{},
	}
}

func (s settings) validate() error {
	if s.workers < 1 {
		return apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if s.minChunk < 1 {
		return apperrors.ValidationError{Field: "min_chunk", Message: "must be at least 1"}
	}
	return nil
}

// Option configures a Reducer.
type Option func(*settings)

// WithWorkers sets the number of workers used by the parallel paths.
// The default is runtime.NumCPU() at construction time.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithMinChunkSize sets the smallest number of integers a chunk may hold.
// Fewer workers are used when n / workers would fall below it.
func WithMinChunkSize(n int) Option {
	return func(s *settings) { s.minChunk = n }
}

// WithClosedFormChunks makes parallel sum workers use the O(1) closed form
// instead of iterating over their chunk.
func WithClosedFormChunks(enabled bool) Option {
	return func(s *settings) { s.closedFormChunks = enabled }
}

// WithLogger sets the logger that receives per-call state transitions at
// debug level. A nil logger is ignored.
func WithLogger(l logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for per-call spans. A nil tracer is ignored.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithObserver sets the chunk completion observer. Nil removes it.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		if o == nil {
			o = nopObserver{}
		}
		s.observer = o
	}
}
