// Package logging provides the structured logging interface shared by the
// reducer, the orchestration layer and the CLI. The zerolog adapter is the
// production backend; the standard library adapter exists for callers that
// already own a *log.Logger.
package logging
