package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "columns", 12)
	l.OnLayoutComplete(ctx, "columns", time.Second, nil)
	l.OnSplit(ctx, []int{3})

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "columns")
	c.OnCacheMiss(ctx, "arrange")
	c.OnCacheSet(ctx, "columns", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/columns")
	h.OnResponse(ctx, "POST", "/v1/columns", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnLayoutStart(ctx, "columns", 4)
	h.OnLayoutComplete(ctx, "columns", time.Millisecond, errors.New("boom"))
	h.OnSplit(ctx, []int{2, 5})
	h.OnCacheHit(ctx, "columns")
	h.OnResponse(ctx, "POST", "/v1/resolve", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"layout started", "layout failed", "boom", "split nodes", "cache hit", "/v1/resolve"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testLayoutHooks struct{ NoopLayoutHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
