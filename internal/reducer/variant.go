package reducer

import (
	"context"
	"fmt"
	"math/big"
	"sort"
)

// Variant is one named way of reducing [1, n]. Results are widened to
// *big.Int so that the fixed-width and wide variants compare directly.
type Variant struct {
	// Name is the CLI identifier, e.g. "sum-threaded".
	Name string
	// HostName is the name exposed to host bindings, e.g. "sum_to_n_threaded".
	HostName string
	// Op is OpSum or OpProduct.
	Op string
	// Parallel reports whether the variant dispatches workers.
	Parallel bool
	// Wide reports whether the variant computes exact big-integer results.
	Wide bool

	run func(r *Reducer, ctx context.Context, n int64) (*big.Int, error)
}

// Run computes the variant on r.
func (v Variant) Run(ctx context.Context, r *Reducer, n int64) (*big.Int, error) {
	return v.run(r, ctx, n)
}

func widen(f func(r *Reducer, ctx context.Context, n int64) (uint64, error)) func(*Reducer, context.Context, int64) (*big.Int, error) {
	return func(r *Reducer, ctx context.Context, n int64) (*big.Int, error) {
		v, err := f(r, ctx, n)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(v), nil
	}
}

var registry = map[string]Variant{
	"sum": {
		Name: "sum", HostName: "sum_to_n", Op: OpSum,
		run: widen((*Reducer).Sum),
	},
	"sum-threaded": {
		Name: "sum-threaded", HostName: "sum_to_n_threaded", Op: OpSum, Parallel: true,
		run: widen((*Reducer).SumParallel),
	},
	"sum-wide": {
		Name: "sum-wide", HostName: "sum_to_n_wide", Op: OpSum, Parallel: true, Wide: true,
		run: (*Reducer).SumWide,
	},
	"multiply": {
		Name: "multiply", HostName: "multiply_to_n", Op: OpProduct,
		run: widen((*Reducer).Product),
	},
	"multiply-threaded": {
		Name: "multiply-threaded", HostName: "multiply_to_n_threaded", Op: OpProduct, Parallel: true,
		run: widen((*Reducer).ProductParallel),
	},
	"multiply-wide": {
		Name: "multiply-wide", HostName: "multiply_to_n_wide", Op: OpProduct, Parallel: true, Wide: true,
		run: (*Reducer).ProductWide,
	},
}

// Variants returns every registered variant sorted by name.
func Variants() []Variant {
	out := make([]Variant, 0, len(registry))
	for _, v := range registry {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// VariantNames returns the sorted variant names.
func VariantNames() []string {
	vs := Variants()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

// LookupVariant finds a variant by its CLI name or host name.
func LookupVariant(name string) (Variant, bool) {
	if v, ok := registry[name]; ok {
		return v, true
	}
	for _, v := range registry {
		if v.HostName == name {
			return v, true
		}
	}
	return Variant{}, false
}

// SelectVariants returns the variants for op ("sum", "multiply" or "all").
// Wide variants are included only when wide is set.
func SelectVariants(op string, wide bool) ([]Variant, error) {
	var want string
	switch op {
	case "sum":
		want = OpSum
	case "multiply", "product":
		want = OpProduct
	case "all", "":
	default:
		return nil, fmt.Errorf("unknown operation %q: expected sum, multiply or all", op)
	}
	var out []Variant
	for _, v := range Variants() {
		if want != "" && v.Op != want {
			continue
		}
		if v.Wide && !wide {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
