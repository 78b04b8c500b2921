package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Partition hooks
	p := NoopPartitionHooks{}
	p.OnNodeActivated("hv", "A")
	p.OnNodeDeactivated("hv", "A")
	p.OnNodeJoined("hv", "A", 1)
	p.OnNodeLeft("hv", "A", 1)
	p.OnNetworkCreated("hv", 1)
	p.OnNetworkDiscarded("hv", 1)
	p.OnMerge("hv", 2, 1, 3)
	p.OnRebuild("hv", 1, 4, 2, time.Millisecond)

	// Run hooks
	r := NoopRunHooks{}
	r.OnRunStart(ctx, "line", 4)
	r.OnStepComplete(ctx, "line", "activate", time.Millisecond, nil)
	r.OnRunComplete(ctx, "line", time.Second, errors.New("failed"))

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Partition().(NoopPartitionHooks); !ok {
		t.Error("Partition() should return NoopPartitionHooks by default")
	}
	if _, ok := Run().(NoopRunHooks); !ok {
		t.Error("Run() should return NoopRunHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customPartition := &testPartitionHooks{}
	SetPartitionHooks(customPartition)
	if Partition() != customPartition {
		t.Error("SetPartitionHooks should set custom hooks")
	}

	customRun := &testRunHooks{}
	SetRunHooks(customRun)
	if Run() != customRun {
		t.Error("SetRunHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Partition().(NoopPartitionHooks); !ok {
		t.Error("Reset() should restore NoopPartitionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPartitionHooks{}
	SetPartitionHooks(custom)

	// Setting nil should be ignored
	SetPartitionHooks(nil)

	if Partition() != custom {
		t.Error("SetPartitionHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPartitionHooks struct{ NoopPartitionHooks }
type testRunHooks struct{ NoopRunHooks }
type testCacheHooks struct{ NoopCacheHooks }
