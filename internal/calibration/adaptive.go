package calibration

import "runtime"

// GenerateWorkerCounts returns the worker counts swept by calibration:
// powers of two from 1 up to maxWorkers, followed by maxWorkers itself when
// it is not a power of two. A non-positive maxWorkers uses runtime.NumCPU().
func GenerateWorkerCounts(maxWorkers int) []int {
	if maxWorkers < 1 {
		maxWorkers = runtime.NumCPU()
	}
	counts := []int{}
	w := 1
	for ; w <= maxWorkers; w *= 2 {
		counts = append(counts, w)
	}
	if w/2 != maxWorkers {
		counts = append(counts, maxWorkers)
	}
	return counts
}

// GenerateQuickWorkerCounts returns a reduced sweep: 1, half the cores and
// all the cores, without duplicates.
func GenerateQuickWorkerCounts(maxWorkers int) []int {
	if maxWorkers < 1 {
		maxWorkers = runtime.NumCPU()
	}
	counts := []int{1}
	if half := maxWorkers / 2; half > 1 {
		counts = append(counts, half)
	}
	if maxWorkers > 1 {
		counts = append(counts, maxWorkers)
	}
	return counts
}
