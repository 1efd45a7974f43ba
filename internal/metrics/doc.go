// Package metrics records reduction outcomes as Prometheus metrics and reads
// runtime memory statistics for the verbose report.
package metrics
