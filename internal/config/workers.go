package config

import "runtime"

// ApplyAdaptiveWorkers fills Threads from the hardware when it was left at
// zero. An explicit value is kept.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Threads == 0 {
		cfg.Threads = EstimateOptimalWorkers()
	}
	return cfg
}

// EstimateOptimalWorkers returns one worker per logical CPU. GOMAXPROCS
// wins when it was lowered below the CPU count.
func EstimateOptimalWorkers() int {
	n := runtime.NumCPU()
	if p := runtime.GOMAXPROCS(0); p < n {
		n = p
	}
	if n < 1 {
		n = 1
	}
	return n
}
