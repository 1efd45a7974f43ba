package reducer

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	apperrors "github.com/agbru/rangecalc/internal/errors"
	"github.com/agbru/rangecalc/internal/logging"
)

// reduction describes one associative fold over [1, n]: how to reduce a
// chunk and how to merge two partial results.
type reduction[T any] struct {
	identity func() T
	kernel   func(Chunk) (T, error)
	combine  func(acc, part T) (T, error)
}

// slot holds one worker's partial result. The padding keeps neighbouring
// slots on separate cache lines while workers write them.
type slot[T any] struct {
	value T
	_     cpu.CacheLinePad
}

// reduceParallel partitions [1, n], runs red.kernel on every chunk in its
// own goroutine and folds the partial results in chunk order. The first
// worker error cancels the others and is returned once all have exited.
func reduceParallel[T any](ctx context.Context, r *Reducer, c *call, n uint64, red reduction[T]) (T, error) {
	var zero T

	c.to(StatePartitioning)
	chunks := Partition(int64(n), effectiveWorkers(n, r.cfg.workers, uint64(r.cfg.minChunk)))
	c.span.SetAttributes(attribute.Int("chunks", len(chunks)))

	slots := make([]slot[T], len(chunks))
	var done atomic.Int64
	total := len(chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(total)
	c.to(StateDispatched, logging.Int("chunks", total))
	for i, ch := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := red.kernel(ch)
			if err != nil {
				return apperrors.CalculationError{Cause: apperrors.WrapError(err, "chunk %s", ch)}
			}
			slots[i].value = v
			r.cfg.observer.ChunkDone(c.name, int(done.Add(1)), total)
			return nil
		})
	}

	c.to(StateJoining)
	if err := g.Wait(); err != nil {
		return zero, c.fail(err)
	}

	acc := red.identity()
	for i := range slots {
		var err error
		if acc, err = red.combine(acc, slots[i].value); err != nil {
			return zero, c.fail(err)
		}
	}
	c.to(StateCombined)
	c.to(StateReturned)
	return acc, nil
}
