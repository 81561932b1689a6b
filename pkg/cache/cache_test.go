package cache

import (
	"context"
	"errors"
	"fmt"
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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get = %q, %v; want miss", data, hit)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set(ctx, "svg", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "svg")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("Get data = %q", data)
	}

	if err := c.Delete(ctx, "svg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("expected miss after Delete")
	}
	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expected miss after expiry")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get = %v, %v; want clean miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("expected miss after Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := ArtifactKeyOpts{Format: "svg", Scale: 1}
	tests := []struct {
		name string
		hash string
		opts ArtifactKeyOpts
	}{
		{"format", "h1", ArtifactKeyOpts{Format: "png", Scale: 1}},
		{"scale", "h1", ArtifactKeyOpts{Format: "svg", Scale: 2}},
		{"interactive", "h1", ArtifactKeyOpts{Format: "svg", Scale: 1, Interactive: true}},
		{"state", "h2", base},
	}

	ref := k.ArtifactKey("h1", base)
	if !strings.HasPrefix(ref, "artifact:") {
		t.Errorf("ArtifactKey = %q, want artifact: prefix", ref)
	}
	if ref != k.ArtifactKey("h1", base) {
		t.Error("ArtifactKey should be deterministic")
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.ArtifactKey(tt.hash, tt.opts); got == ref {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := ArtifactKeyOpts{Format: "svg"}
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "cellblend:")

	want := "cellblend:" + inner.ArtifactKey("h", opts)
	if got := scoped.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}

	if got := NewScopedKeyer(nil, "p:").ArtifactKey("h", opts); got != "p:"+inner.ArtifactKey("h", opts) {
		t.Errorf("nil inner keyer: %q", got)
	}
}

func TestTransientError(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should return nil")
	}

	err := Transient(ErrBackend)
	if !IsTransient(err) {
		t.Error("IsTransient should report marked errors")
	}
	if !IsTransient(fmt.Errorf("get: %w", err)) {
		t.Error("IsTransient should look through wrapping")
	}
	if !errors.Is(err, ErrBackend) {
		t.Error("Transient should unwrap to the cause")
	}
	if err.Error() != ErrBackend.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsTransient(ErrBackend) {
		t.Error("bare errors are not transient")
	}
}

func TestWithRetry(t *testing.T) {
	old := backoff
	backoff = []time.Duration{time.Millisecond, time.Millisecond}
	t.Cleanup(func() { backoff = old })
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		transient bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"recovers", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
		{"permanent", 5, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.transient {
						return Transient(ErrBackend)
					}
					return ErrBackend
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWithRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error { return Transient(ErrBackend) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
