package reducer

import (
	"math/big"
	"math/bits"
)

const (
	// MaxFactorialN is the largest n whose factorial fits in a uint64.
	// 20! = 2432902008176640000.
	MaxFactorialN = 20

	// MaxSumN is the largest n whose triangular number n(n+1)/2 fits in a
	// uint64. Sum(MaxSumN) = 18446744070963499500.
	MaxSumN = 6_074_000_999

	// MaxWideN bounds the wide variants. 1000000! has about 5.5 million
	// decimal digits.
	MaxWideN = 1_000_000
)

func checkedAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

func checkedMul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// triangular returns n(n+1)/2 using a 128-bit intermediate product.
// n must be below math.MaxUint64.
func triangular(n uint64) (uint64, bool) {
	hi, lo := bits.Mul64(n, n+1)
	if hi>>1 != 0 {
		return 0, false
	}
	return hi<<63 | lo>>1, true
}

// sumClosed returns the sum of the chunk in O(1):
// (Lo + Hi - 1) * (Hi - Lo) / 2. Exactly one of the two factors is even.
func sumClosed(c Chunk) (uint64, bool) {
	if c.Len() == 0 {
		return 0, true
	}
	a := c.Lo + c.Hi - 1
	b := c.Hi - c.Lo
	if a%2 == 0 {
		a /= 2
	} else {
		b /= 2
	}
	return checkedMul(a, b)
}

// sumIterative adds the chunk one integer at a time.
func sumIterative(c Chunk) (uint64, bool) {
	var acc uint64
	ok := true
	for i := c.Lo; i < c.Hi; i++ {
		if acc, ok = checkedAdd(acc, i); !ok {
			return 0, false
		}
	}
	return acc, true
}

// productIterative multiplies the chunk one integer at a time, stopping at
// the first overflow.
func productIterative(c Chunk) (uint64, bool) {
	acc := uint64(1)
	ok := true
	for i := c.Lo; i < c.Hi; i++ {
		if acc, ok = checkedMul(acc, i); !ok {
			return 0, false
		}
	}
	return acc, true
}

// sumWide returns the exact sum of the chunk.
func sumWide(c Chunk) *big.Int {
	if c.Len() == 0 {
		return new(big.Int)
	}
	a := new(big.Int).SetUint64(c.Lo)
	a.Add(a, new(big.Int).SetUint64(c.Hi-1))
	a.Mul(a, new(big.Int).SetUint64(c.Len()))
	return a.Rsh(a, 1)
}

// productWide returns the exact product of the chunk. Bounds are below
// MaxWideN, so they fit in int64.
func productWide(c Chunk) *big.Int {
	if c.Len() == 0 {
		return big.NewInt(1)
	}
	return new(big.Int).MulRange(int64(c.Lo), int64(c.Hi-1))
}
