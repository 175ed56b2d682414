package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "columns:a"); err != nil || hit {
		t.Fatalf("Get on empty cache = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "columns:a", []byte(`{"count":3}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "columns:a")
	if err != nil || !hit {
		t.Fatalf("Get after Set = %v, %v", hit, err)
	}
	if string(data) != `{"count":3}` {
		t.Errorf("Get = %s", data)
	}

	if err := c.Delete(ctx, "columns:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "columns:a"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "columns:a"); err != nil {
		t.Errorf("Delete of a missing key: %v", err)
	}
}

func TestFileCache_Expired(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want silent miss", hit, err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("entry survived Clear")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Backend: BackendNone})
	if err != nil {
		t.Fatalf("Open(none): %v", err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("Open(none) = %T, want *NullCache", c)
	}

	dir := t.TempDir()
	c, err = Open(ctx, Options{Backend: BackendFile, Dir: dir})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if fc, ok := c.(*FileCache); !ok || fc.Dir() != dir {
		t.Errorf("Open(file) = %T", c)
	}

	if _, err := Open(ctx, Options{Backend: BackendFile}); err == nil {
		t.Error("Open(file) without directory should fail")
	}
	if _, err := Open(ctx, Options{Backend: "memcached"}); err == nil {
		t.Error("Open with unknown backend should fail")
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	_, err := NewRedisCache(context.Background(), "127.0.0.1:1")
	if err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	c1 := k.ColumnsKey("hash123", ColumnsKeyOpts{})
	c2 := k.ColumnsKey("hash123", ColumnsKeyOpts{HardwareOnSides: true})
	if c1 == c2 {
		t.Error("Different ColumnsKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(c1, "columns:") {
		t.Errorf("ColumnsKey unexpected: %s", c1)
	}
	if c1 == k.ColumnsKey("hash456", ColumnsKeyOpts{}) {
		t.Error("Different graphs should produce different keys")
	}

	a1 := k.ArrangeKey("hash123", ArrangeKeyOpts{Mode: "follow"})
	a2 := k.ArrangeKey("hash123", ArrangeKeyOpts{Mode: "face"})
	if a1 == a2 {
		t.Error("Different arrangement modes should produce different keys")
	}

	r1 := k.RenderKey("hash123", RenderKeyOpts{Format: "svg"})
	r2 := k.RenderKey("hash123", RenderKeyOpts{Format: "dot"})
	if r1 == r2 {
		t.Error("Different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")
	inner := NewDefaultKeyer().ColumnsKey("h", ColumnsKeyOpts{})

	if got := scoped.ColumnsKey("h", ColumnsKeyOpts{}); got != "user:123:"+inner {
		t.Errorf("ScopedKeyer ColumnsKey unexpected: %s", got)
	}
	if got := NewScopedKeyer(nil, "p:").RenderKey("h", RenderKeyOpts{}); !strings.HasPrefix(got, "p:render:") {
		t.Errorf("ScopedKeyer with nil inner unexpected: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("Retryable should keep the wrapped error visible")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	plain := errors.New("bad request")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return plain
	})
	if err != plain || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
