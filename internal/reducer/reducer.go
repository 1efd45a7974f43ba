package reducer

import (
	"context"
	"fmt"
	"math/big"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/agbru/rangecalc/internal/errors"
)

// Reduction kinds, as reported in OverflowError.Operation.
const (
	OpSum     = "sum"
	OpProduct = "product"
)

// Reducer computes sums and products over [1, n]. Its configuration is fixed
// at construction; a Reducer holds no per-call state and is safe for
// concurrent use.
type Reducer struct {
	cfg settings
}

// New builds a Reducer. It fails with a ValidationError when an option
// carries an out-of-range value (workers < 1, min chunk size < 1).
func New(opts ...Option) (*Reducer, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Reducer{cfg: cfg}, nil
}

// With returns a new Reducer with opts applied on top of r's configuration.
// r itself is not modified.
func (r *Reducer) With(opts ...Option) (*Reducer, error) {
	cfg := r.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Reducer{cfg: cfg}, nil
}

// Workers returns the configured worker count.
func (r *Reducer) Workers() int { return r.cfg.workers }

// MinChunkSize returns the configured minimum chunk size.
func (r *Reducer) MinChunkSize() int { return r.cfg.minChunk }

// Plan returns the chunks a parallel call with this n would dispatch.
func (r *Reducer) Plan(n int64) ([]Chunk, error) {
	un, err := validate(n)
	if err != nil {
		return nil, err
	}
	return Partition(n, effectiveWorkers(un, r.cfg.workers, uint64(r.cfg.minChunk))), nil
}

func validate(n int64) (uint64, error) {
	if n < 0 {
		return 0, apperrors.NewNegativeArgumentError()
	}
	return uint64(n), nil
}

// begin opens the span of one call and returns its state tracker.
func (r *Reducer) begin(ctx context.Context, name string, n int64) (context.Context, *call) {
	ctx, span := r.cfg.tracer.Start(ctx, "reducer."+name)
	span.SetAttributes(
		attribute.Int64("n", n),
		attribute.Int("workers", r.cfg.workers),
	)
	c := &call{
		name:   name,
		n:      n,
		state:  StateValidating,
		logger: r.cfg.logger,
		span:   span,
	}
	return ctx, c
}

func (c *call) end() {
	if c.state == StateFailed {
		c.span.SetStatus(codes.Error, c.err.Error())
	} else {
		c.span.SetStatus(codes.Ok, "")
	}
	c.span.End()
}

// Sum returns Σ i for i in [1, n], computed in closed form. It returns 0 for
// n = 0 and fails with an OverflowError when n > MaxSumN.
func (r *Reducer) Sum(ctx context.Context, n int64) (uint64, error) {
	ctx, c := r.begin(ctx, "sum", n)
	defer c.end()

	un, err := validate(n)
	if err != nil {
		return 0, c.fail(err)
	}
	// No worker checks the context on this path, so it is checked once here
	// to fail a canceled call the same way the parallel path does.
	if err := ctx.Err(); err != nil {
		return 0, c.fail(err)
	}
	v, ok := triangular(un)
	if !ok {
		return 0, c.fail(apperrors.OverflowError{Operation: OpSum, N: un})
	}
	c.to(StateReturned)
	return v, nil
}

// Product returns n! for n >= 1 and 0 for n = 0. It fails with an
// OverflowError when n > MaxFactorialN.
func (r *Reducer) Product(ctx context.Context, n int64) (uint64, error) {
	ctx, c := r.begin(ctx, "product", n)
	defer c.end()

	un, err := validate(n)
	if err != nil {
		return 0, c.fail(err)
	}
	// Checked once, as in Sum.
	if err := ctx.Err(); err != nil {
		return 0, c.fail(err)
	}
	if un == 0 {
		c.to(StateReturned)
		return 0, nil
	}
	v, ok := productIterative(Chunk{Lo: 1, Hi: un + 1})
	if !ok {
		return 0, c.fail(apperrors.OverflowError{Operation: OpProduct, N: un})
	}
	c.to(StateReturned)
	return v, nil
}

// SumParallel returns the same value as Sum, computed by the parallel path.
// Workers iterate over their chunk unless closed-form chunks are enabled.
func (r *Reducer) SumParallel(ctx context.Context, n int64) (uint64, error) {
	ctx, c := r.begin(ctx, "sum-parallel", n)
	defer c.end()

	un, err := validate(n)
	if err != nil {
		return 0, c.fail(err)
	}
	if un == 0 {
		c.to(StateReturned)
		return 0, nil
	}
	overflow := apperrors.OverflowError{Operation: OpSum, N: un}
	// The total is known to exceed 64 bits from n alone.
	if un > MaxSumN {
		return 0, c.fail(overflow)
	}

	kernel := sumIterative
	if r.cfg.closedFormChunks {
		kernel = sumClosed
	}
	return reduceParallel(ctx, r, c, un, reduction[uint64]{
		identity: func() uint64 { return 0 },
		kernel: func(ch Chunk) (uint64, error) {
			v, ok := kernel(ch)
			if !ok {
				return 0, overflow
			}
			return v, nil
		},
		combine: func(acc, part uint64) (uint64, error) {
			v, ok := checkedAdd(acc, part)
			if !ok {
				return 0, overflow
			}
			return v, nil
		},
	})
}

// ProductParallel returns the same value as Product, computed by the
// parallel path. Overflow is detected by the workers or while combining.
func (r *Reducer) ProductParallel(ctx context.Context, n int64) (uint64, error) {
	ctx, c := r.begin(ctx, "product-parallel", n)
	defer c.end()

	un, err := validate(n)
	if err != nil {
		return 0, c.fail(err)
	}
	switch un {
	case 0:
		c.to(StateReturned)
		return 0, nil
	case 1:
		c.to(StateReturned)
		return 1, nil
	}

	overflow := apperrors.OverflowError{Operation: OpProduct, N: un}
	return reduceParallel(ctx, r, c, un, reduction[uint64]{
		identity: func() uint64 { return 1 },
		kernel: func(ch Chunk) (uint64, error) {
			v, ok := productIterative(ch)
			if !ok {
				return 0, overflow
			}
			return v, nil
		},
		combine: func(acc, part uint64) (uint64, error) {
			v, ok := checkedMul(acc, part)
			if !ok {
				return 0, overflow
			}
			return v, nil
		},
	})
}

// SumWide returns the exact sum of [1, n] as a big integer, computed by the
// parallel path. It never overflows.
func (r *Reducer) SumWide(ctx context.Context, n int64) (*big.Int, error) {
	ctx, c := r.begin(ctx, "sum-wide", n)
	defer c.end()

	un, err := validate(n)
	if err != nil {
		return nil, c.fail(err)
	}
	if un == 0 {
		c.to(StateReturned)
		return new(big.Int), nil
	}
	return reduceParallel(ctx, r, c, un, reduction[*big.Int]{
		identity: func() *big.Int { return new(big.Int) },
		kernel:   func(ch Chunk) (*big.Int, error) { return sumWide(ch), nil },
		combine: func(acc, part *big.Int) (*big.Int, error) {
			return acc.Add(acc, part), nil
		},
	})
}

// ProductWide returns n! as a big integer (0 for n = 0), computed by the
// parallel path. n is limited to MaxWideN.
func (r *Reducer) ProductWide(ctx context.Context, n int64) (*big.Int, error) {
	ctx, c := r.begin(ctx, "product-wide", n)
	defer c.end()

	un, err := validate(n)
	if err != nil {
		return nil, c.fail(err)
	}
	if un > MaxWideN {
		return nil, c.fail(apperrors.ValidationError{
			Field:   "n",
			Message: fmt.Sprintf("wide product supports n up to %d", MaxWideN),
		})
	}
	switch un {
	case 0:
		c.to(StateReturned)
		return new(big.Int), nil
	case 1:
		c.to(StateReturned)
		return big.NewInt(1), nil
	}
	return reduceParallel(ctx, r, c, un, reduction[*big.Int]{
		identity: func() *big.Int { return big.NewInt(1) },
		kernel:   func(ch Chunk) (*big.Int, error) { return productWide(ch), nil },
		combine: func(acc, part *big.Int) (*big.Int, error) {
			return acc.Mul(acc, part), nil
		},
	})
}

// SumToN is Sum without a context.
func (r *Reducer) SumToN(n int64) (uint64, error) {
	return r.Sum(context.Background(), n)
}

// SumToNThreaded is SumParallel without a context.
func (r *Reducer) SumToNThreaded(n int64) (uint64, error) {
	return r.SumParallel(context.Background(), n)
}

// MultiplyToN is Product without a context.
func (r *Reducer) MultiplyToN(n int64) (uint64, error) {
	return r.Product(context.Background(), n)
}

// MultiplyToNThreaded is ProductParallel without a context.
func (r *Reducer) MultiplyToNThreaded(n int64) (uint64, error) {
	return r.ProductParallel(context.Background(), n)
}
