package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v, want hit", ok, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want %q", data, "payload")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get after Delete = hit, want miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestFileCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("expired entry still returned")
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache returned a hit")
	}
}

func TestScopedPrefixesKeys(t *testing.T) {
	ctx := context.Background()
	base, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer base.Close()

	a := NewScoped(base, "a:")
	b := NewScoped(base, "b:")

	if err := a.Set(ctx, "k", []byte("va"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Error("scoped caches share keys")
	}
	if data, ok, _ := a.Get(ctx, "k"); !ok || string(data) != "va" {
		t.Errorf("scoped Get = %q ok=%v", data, ok)
	}
}

func TestKeyStability(t *testing.T) {
	type opts struct {
		Gap  float64
		Font string
	}
	k1 := LayoutKey("abc", opts{Gap: 16, Font: "x"})
	k2 := LayoutKey("abc", opts{Gap: 16, Font: "x"})
	if k1 != k2 {
		t.Errorf("identical inputs produced different keys: %s vs %s", k1, k2)
	}
	if k1 == LayoutKey("abc", opts{Gap: 17, Font: "x"}) {
		t.Error("different options produced the same key")
	}
	if LayoutKey("abc", nil) == ArtifactKey("abc", nil, "svg") {
		t.Error("layout and artifact keys collide")
	}
}

func TestHashLength(t *testing.T) {
	if got := len(Hash([]byte("data"))); got != 64 {
		t.Errorf("hash length = %d, want 64", got)
	}
}
