// Package orchestration runs the selected reduction variants for one n,
// times them and cross-checks their results. Presentation is reached only
// through the ProgressReporter and ResultPresenter interfaces.
package orchestration
