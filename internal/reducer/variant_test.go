package reducer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/rangecalc/internal/errors"
)

func TestVariantNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{
		"multiply", "multiply-threaded", "multiply-wide",
		"sum", "sum-threaded", "sum-wide",
	}, VariantNames())
}

func TestLookupVariant(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"sum", "sum_to_n", "multiply_to_n_threaded", "multiply-wide"} {
		_, ok := LookupVariant(name)
		assert.True(t, ok, name)
	}
	_, ok := LookupVariant("fib")
	assert.False(t, ok)

	v, ok := LookupVariant("sum_to_n_threaded")
	require.True(t, ok)
	assert.Equal(t, "sum-threaded", v.Name)
	assert.True(t, v.Parallel)
	assert.False(t, v.Wide)
}

func TestSelectVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op   string
		wide bool
		want []string
	}{
		{"sum", false, []string{"sum", "sum-threaded"}},
		{"sum", true, []string{"sum", "sum-threaded", "sum-wide"}},
		{"multiply", false, []string{"multiply", "multiply-threaded"}},
		{"product", false, []string{"multiply", "multiply-threaded"}},
		{"all", false, []string{"multiply", "multiply-threaded", "sum", "sum-threaded"}},
	}
	for _, tt := range tests {
		vs, err := SelectVariants(tt.op, tt.wide)
		require.NoError(t, err)
		names := make([]string, len(vs))
		for i, v := range vs {
			names[i] = v.Name
		}
		assert.Equal(t, tt.want, names, "op=%s wide=%v", tt.op, tt.wide)
	}

	_, err := SelectVariants("divide", false)
	assert.Error(t, err)
}

func TestVariantRunAgreement(t *testing.T) {
	t.Parallel()
	r := newTestReducer(t, WithWorkers(3))
	ctx := context.Background()
	for _, op := range []string{"sum", "multiply"} {
		vs, err := SelectVariants(op, true)
		require.NoError(t, err)
		var first string
		for _, v := range vs {
			got, err := v.Run(ctx, r, 18)
			require.NoError(t, err, v.Name)
			if first == "" {
				first = got.String()
				continue
			}
			assert.Equal(t, first, got.String(), v.Name)
		}
	}
}

func TestVariantRunPropagatesErrors(t *testing.T) {
	t.Parallel()
	r := newTestReducer(t)
	v, _ := LookupVariant("multiply-threaded")
	_, err := v.Run(context.Background(), r, 21)
	assert.ErrorIs(t, err, apperrors.ErrArithmeticOverflow)

	wide, _ := LookupVariant("multiply-wide")
	got, err := wide.Run(context.Background(), r, 21)
	require.NoError(t, err)
	assert.Equal(t, "51090942171709440000", got.String())
}
