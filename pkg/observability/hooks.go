// Package observability lets callers watch gridnet without the libraries
// depending on a metrics backend.
//
// There are three groups of hooks: [PartitionHooks] for the partition core,
// [RunHooks] for the scenario runner and [CacheHooks] for the artifact cache.
// Each group has a no-op default and a process-wide slot that a program can
// fill at startup. Components that want their own hooks (a manager built with
// grid.WithHooks, a runner built with scenario.WithRunHooks) bypass the slot.
//
// [PrometheusHooks] implements all three groups.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    reg := prometheus.NewRegistry()
//	    hooks := observability.NewPrometheusHooks(reg)
//	    observability.SetPartitionHooks(hooks)
//	    observability.SetRunHooks(hooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Partition().OnMerge(kind, from, into, moved)
//
// Partition hooks carry no context: the partition core is synchronous and
// runs every operation to completion.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Partition Hooks
// =============================================================================

// PartitionHooks receives events from the network-partition core.
// Network identifiers are the numeric registry handles of the emitting manager.
type PartitionHooks interface {
	// Node lifecycle
	OnNodeActivated(kind, node string)
	OnNodeDeactivated(kind, node string)

	// Membership: a node was added to or removed from a network. Merges and
	// rebuilds report every node they move, leaving before joining.
	OnNodeJoined(kind, node string, network uint64)
	OnNodeLeft(kind, node string, network uint64)

	// Network lifecycle
	OnNetworkCreated(kind string, network uint64)
	OnNetworkDiscarded(kind string, network uint64)

	// OnMerge records network from being drained into network into.
	OnMerge(kind string, from, into uint64, moved int)

	// OnRebuild records a full rebuild of a network that held members nodes
	// and was split into pieces networks.
	OnRebuild(kind string, network uint64, members, pieces int, duration time.Duration)
}

// =============================================================================
// Run Hooks
// =============================================================================

// RunHooks receives events from the scenario runner.
type RunHooks interface {
	OnRunStart(ctx context.Context, scenario string, steps int)
	OnStepComplete(ctx context.Context, scenario, op string, duration time.Duration, err error)
	OnRunComplete(ctx context.Context, scenario string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPartitionHooks is a no-op implementation of PartitionHooks.
type NoopPartitionHooks struct{}

func (NoopPartitionHooks) OnNodeActivated(string, string)                    {}
func (NoopPartitionHooks) OnNodeDeactivated(string, string)                  {}
func (NoopPartitionHooks) OnNodeJoined(string, string, uint64)               {}
func (NoopPartitionHooks) OnNodeLeft(string, string, uint64)                 {}
func (NoopPartitionHooks) OnNetworkCreated(string, uint64)                   {}
func (NoopPartitionHooks) OnNetworkDiscarded(string, uint64)                 {}
func (NoopPartitionHooks) OnMerge(string, uint64, uint64, int)               {}
func (NoopPartitionHooks) OnRebuild(string, uint64, int, int, time.Duration) {}

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnRunStart(context.Context, string, int)                              {}
func (NoopRunHooks) OnStepComplete(context.Context, string, string, time.Duration, error) {}
func (NoopRunHooks) OnRunComplete(context.Context, string, time.Duration, error)          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	partitionHooks PartitionHooks = NoopPartitionHooks{}
	runHooks       RunHooks       = NoopRunHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetPartitionHooks registers custom partition hooks.
// Managers created afterwards without an explicit hooks option use them.
func SetPartitionHooks(h PartitionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		partitionHooks = h
	}
}

// SetRunHooks registers custom scenario run hooks.
// This should be called once at application startup before any scenario runs.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Partition returns the registered partition hooks.
func Partition() PartitionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return partitionHooks
}

// Run returns the registered scenario run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	partitionHooks = NoopPartitionHooks{}
	runHooks = NoopRunHooks{}
	cacheHooks = NoopCacheHooks{}
}
