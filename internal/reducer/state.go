package reducer

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/rangecalc/internal/logging"
)

// State is a step in the life of one reduction call:
//
//	Validating → Partitioning → Dispatched → Joining → Combined → Returned
//
// Failed is terminal and is reached from Validating on bad input, or from
// Dispatched/Joining when a worker reports an error.
type State int

const (
	StateValidating State = iota
	StatePartitioning
	StateDispatched
	StateJoining
	StateCombined
	StateReturned
	StateFailed
)

var stateNames = [...]string{
	StateValidating:   "validating",
	StatePartitioning: "partitioning",
	StateDispatched:   "dispatched",
	StateJoining:      "joining",
	StateCombined:     "combined",
	StateReturned:     "returned",
	StateFailed:       "failed",
}

// String returns the lower-case state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateReturned || s == StateFailed
}

// call tracks the state of one reduction for logging and tracing.
// Only the calling goroutine touches it.
type call struct {
	name   string
	n      int64
	state  State
	err    error
	logger logging.Logger
	span   trace.Span
}

func (c *call) to(next State, fields ...logging.Field) {
	c.state = next
	c.span.AddEvent(next.String())
	c.logger.Debug("reduction state",
		append([]logging.Field{
			logging.String("op", c.name),
			logging.Int64("n", c.n),
			logging.String("state", next.String()),
		}, fields...)...)
}

func (c *call) fail(err error) error {
	c.err = err
	c.span.RecordError(err)
	c.to(StateFailed, logging.Err(err))
	return err
}
