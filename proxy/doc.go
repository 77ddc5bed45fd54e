// Package proxy manages the lifetime of callables crossing the boundary to
// the host engine.
//
// A native callable must never be handed to the host bare; it crosses as a
// proxy handle issued by a per-instance Registry. The registry deduplicates
// by callable identity, so re-wrapping the same callable across renders
// returns the same live handle instead of leaking a new one.
//
// Two strategies exist, chosen once from the runtime capability profile:
// under manual lifetime management (full profile) handles are tracked in a
// table until released; under the passthrough strategy (compact profile)
// the callable itself crosses the boundary and release is a no-op.
package proxy
