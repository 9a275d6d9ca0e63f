package driver

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"premap/internal/codemap"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache("premap", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	content := []byte("#line 3 \"a.c\"\nx\n")
	cm, err := codemap.New(content)
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey(sha256.Sum256(content), codemap.DefaultMarker)

	var miss DiskPayload
	if ok, err := cache.Get(key, &miss); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion, Path: "a.i", Index: cm.Index()}); err != nil {
		t.Fatal(err)
	}
	var got DiskPayload
	ok, err := cache.Get(key, &got)
	if !ok || err != nil {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Path != "a.i" || !reflect.DeepEqual(got.Index, cm.Index()) {
		t.Errorf("payload changed through the cache: %+v", got)
	}

	entries, _ := os.ReadDir(filepath.Join(cache.Dir(), "idx"))
	if len(entries) != 1 {
		t.Errorf("expected exactly one entry (temp files removed), got %d", len(entries))
	}
}

func TestDiskCacheSchemaAndCorruption(t *testing.T) {
	cache, err := OpenDiskCache("premap", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey(sha256.Sum256([]byte("x")), "#line")

	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1}); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Errorf("other schema should be a miss, got ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(cache.pathFor(key), []byte{0xc1, 0xff, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get(key, &out); !errors.Is(err, codemap.ErrCorruptIndex) {
		t.Errorf("expected ErrCorruptIndex, got %v", err)
	}
}

func TestCacheKeyDependsOnMarker(t *testing.T) {
	h := sha256.Sum256([]byte("content"))
	if CacheKey(h, "#line") == CacheKey(h, "#") {
		t.Error("markers must produce different keys")
	}
	if CacheKey(h, "#line") != CacheKey(h, "#line") {
		t.Error("key must be deterministic")
	}
}

func TestDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cache, err := OpenDiskCache("premap", dir)
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey(sha256.Sum256(nil), "#line")
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if ok, _ := cache.Get(key, &out); ok {
		t.Error("entry survived DropAll")
	}
	var nilCache *DiskCache
	if err := nilCache.DropAll(); err != nil {
		t.Error(err)
	}
}
