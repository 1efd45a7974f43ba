package reducer

import "fmt"

// Chunk is the half-open interval [Lo, Hi) of integers assigned to exactly
// one worker.
type Chunk struct {
	Lo uint64 // Inclusive
	Hi uint64 // Exclusive
}

// Len returns the number of integers in the chunk.
func (c Chunk) Len() uint64 {
	if c.Hi <= c.Lo {
		return 0
	}
	return c.Hi - c.Lo
}

// String formats the chunk as [Lo, Hi).
func (c Chunk) String() string {
	return fmt.Sprintf("[%d, %d)", c.Lo, c.Hi)
}

// Partition divides [1, n] into at most workers contiguous chunks.
//
// Every chunk holds floor(n/w) integers, w = min(workers, n), and the last
// chunk absorbs the remainder, so the union of the chunks is exactly [1, n]
// and no chunk is empty. It returns nil when n < 1 or workers < 1.
func Partition(n int64, workers int) []Chunk {
	if n < 1 || workers < 1 {
		return nil
	}
	un := uint64(n)
	w := uint64(workers)
	if w > un {
		w = un
	}
	size := un / w

	chunks := make([]Chunk, w)
	for i := uint64(0); i < w; i++ {
		lo := 1 + i*size
		hi := lo + size
		if i == w-1 {
			hi = un + 1
		}
		chunks[i] = Chunk{Lo: lo, Hi: hi}
	}
	return chunks
}

// effectiveWorkers caps the configured worker count so that no chunk is
// smaller than minChunk integers. It never returns less than 1 for n >= 1.
func effectiveWorkers(n uint64, workers int, minChunk uint64) int {
	if n == 0 {
		return 0
	}
	w := uint64(workers)
	if minChunk > 1 {
		limit := n / minChunk
		if limit < 1 {
			limit = 1
		}
		if w > limit {
			w = limit
		}
	}
	if w > n {
		w = n
	}
	return int(w)
}
