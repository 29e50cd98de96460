package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Dispatch hooks
	d := NoopDispatchHooks{}
	d.OnDispatchStart(ctx, "shortest_path")
	d.OnBackendSkip(ctx, "shortest_path", "table", "self")
	d.OnDispatchComplete(ctx, "shortest_path", "gonum", time.Second, nil)

	// Convert hooks
	NoopConvertHooks{}.OnConvert(DirectionToCanonical, 10, 20, time.Millisecond, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Dispatch().(NoopDispatchHooks); !ok {
		t.Error("Dispatch() should return NoopDispatchHooks by default")
	}
	if _, ok := Convert().(NoopConvertHooks); !ok {
		t.Error("Convert() should return NoopConvertHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customDispatch := &testDispatchHooks{}
	SetDispatchHooks(customDispatch)
	if Dispatch() != customDispatch {
		t.Error("SetDispatchHooks should set custom hooks")
	}

	customConvert := &testConvertHooks{}
	SetConvertHooks(customConvert)
	if Convert() != customConvert {
		t.Error("SetConvertHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Dispatch().(NoopDispatchHooks); !ok {
		t.Error("Reset() should restore NoopDispatchHooks")
	}
	if _, ok := Convert().(NoopConvertHooks); !ok {
		t.Error("Reset() should restore NoopConvertHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDispatchHooks{}
	SetDispatchHooks(custom)

	// Setting nil should be ignored
	SetDispatchHooks(nil)
	SetConvertHooks(nil)
	SetCacheHooks(nil)

	if Dispatch() != custom {
		t.Error("SetDispatchHooks(nil) should be ignored")
	}
	if _, ok := Convert().(NoopConvertHooks); !ok {
		t.Error("SetConvertHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testDispatchHooks struct{ NoopDispatchHooks }
type testConvertHooks struct{ NoopConvertHooks }
type testCacheHooks struct{ NoopCacheHooks }
