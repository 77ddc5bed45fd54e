// Package errors provides structured error types for the component
// adaptation layer.
//
// Every failure the layer itself produces carries a Phase (where in
// processing it occurred) and a Kind (what went wrong), so callers can
// match with errors.Is against Match(phase, kind) probes without string
// comparison. Errors raised by user code inside component bodies are never
// wrapped: the propagation policy of the layer is that user errors cross
// it unchanged.
package errors
