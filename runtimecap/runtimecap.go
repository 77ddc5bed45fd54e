package runtimecap

import (
	"os"
	"strings"
	"sync"
)

// Profile describes what the active embedding runtime can do. Every other
// package in this layer branches on a Profile once at construction time
// rather than re-querying capabilities at each call site.
type Profile struct {
	// Name identifies the runtime variant, e.g. "full" or "compact".
	Name string

	// AsyncGenerators reports whether asynchronous generators and
	// coroutines are actually driven asynchronously. When false, async
	// generator components are classified and driven as synchronous
	// generators: suspension points that would await an external resource
	// either complete immediately or fail, they never actually suspend.
	AsyncGenerators bool

	// StaticIntrospection reports whether callable signatures can be
	// inspected without invoking them. When false, classification falls
	// back to trial dispatch on first render.
	StaticIntrospection bool

	// ManualProxyLifetime reports whether callables crossing the boundary
	// need explicit proxy lifetime management. When false the proxy
	// registry is a passthrough.
	ManualProxyLifetime bool
}

// Full returns the capable runtime profile.
func Full() Profile {
	return Profile{
		Name:                "full",
		AsyncGenerators:     true,
		StaticIntrospection: true,
		ManualProxyLifetime: true,
	}
}

// Compact returns the degraded runtime profile.
func Compact() Profile {
	return Profile{
		Name:                "compact",
		AsyncGenerators:     false,
		StaticIntrospection: true,
		ManualProxyLifetime: false,
	}
}

// EnvVar selects the process-wide profile. Recognized values: "full",
// "compact". Anything else falls back to full.
const EnvVar = "CRANK_RUNTIME_PROFILE"

var (
	detected   Profile
	detectOnce sync.Once
)

// Detect returns the process-wide profile. The flag is read once and then
// only queried, never mutated; pass an explicit Profile to constructors to
// override it in tests.
func Detect() Profile {
	detectOnce.Do(func() {
		switch strings.ToLower(os.Getenv(EnvVar)) {
		case "compact":
			detected = Compact()
		default:
			detected = Full()
		}
	})
	return detected
}
