package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager(Options{MaxConcurrent: 2, Timeout: time.Second, CacheEntries: 8})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.stl")
	if err := os.WriteFile(path, []byte("solid base"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestManager()
	for _, uri := range []string{path, "file://" + filepath.ToSlash(path)} {
		data, err := m.Load(context.Background(), uri)
		if err != nil {
			t.Fatalf("Load(%q): %v", uri, err)
		}
		if string(data) != "solid base" {
			t.Errorf("Load(%q) = %q", uri, data)
		}
	}
}

func TestLoadCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestManager()
	for i := 0; i < 2; i++ {
		if _, err := m.Load(context.Background(), path); err != nil {
			t.Fatal(err)
		}
	}

	hits, misses := m.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}

func TestLoadSeesFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0"), 0644); err != nil {
		t.Fatal(err)
	}
	m := newTestManager()
	uri := "file://" + filepath.ToSlash(path)
	if _, err := m.Load(context.Background(), uri); err != nil {
		t.Fatal(err)
	}

	// Edited on disk while cached.
	if err := os.WriteFile(path, []byte("v 1 1 1"), 0644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	data, err := m.Load(context.Background(), uri)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v 1 1 1" {
		t.Errorf("expected the edited contents, got %q", data)
	}

	// Removed files are not served from the cache.
	os.Remove(path)
	if _, err := m.Load(context.Background(), uri); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	m := newTestManager()
	_, err := m.Load(context.Background(), "/nonexistent/mesh.stl")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadUnsupportedScheme(t *testing.T) {
	m := newTestManager()
	_, err := m.Load(context.Background(), "ftp://host/mesh.stl")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.stl" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	m := newTestManager()
	data, err := m.Load(context.Background(), srv.URL+"/mesh.stl")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "remote" {
		t.Errorf("got %q", data)
	}

	if _, err := m.Load(context.Background(), srv.URL+"/missing.stl"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestLoadBoundedConcurrency(t *testing.T) {
	var active, peak int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&active, -1)
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	m := newTestManager()
	var wg sync.WaitGroup
	for _, name := range []string{"/a", "/b", "/c", "/d", "/e"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := m.Load(context.Background(), srv.URL+name); err != nil {
				t.Errorf("Load(%s): %v", name, err)
			}
		}(name)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("expected at most 2 concurrent fetches, saw %d", p)
	}
}

func TestLoadCanceled(t *testing.T) {
	m := NewManager(Options{MaxConcurrent: 1, Timeout: time.Second})
	// Hold the only slot
	if err := m.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	defer m.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Load(ctx, "/any/file.stl"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	c.Set("a", "", []byte("1"))
	c.Set("b", "", []byte("2"))
	c.Set("a", "", []byte("1'"))
	c.Set("c", "", []byte("3"))

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("a", ""); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if data, ok := c.Get("c", ""); !ok || string(data) != "3" {
		t.Error("expected newest entry to be present")
	}
}

func TestCacheVersions(t *testing.T) {
	c := NewCache(4)
	c.Set("mesh", "v1", []byte("old"))
	if _, ok := c.Get("mesh", "v2"); ok {
		t.Error("expected a miss for another version")
	}
	c.Set("mesh", "v2", []byte("new"))
	if data, ok := c.Get("mesh", "v2"); !ok || string(data) != "new" {
		t.Errorf("expected new version, got %q", data)
	}
	if c.Len() != 1 {
		t.Errorf("expected versions to share one entry, got %d", c.Len())
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(0)
	c.Set("a", "", []byte("1"))
	if c.Len() != 0 {
		t.Errorf("expected disabled cache to stay empty, got %d", c.Len())
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(4)
	c.Set("a", "", []byte("1"))
	c.Get("a", "")
	c.Get("b", "")
	c.Clear()

	hits, misses := c.Stats()
	if c.Len() != 0 || hits != 0 || misses != 0 {
		t.Errorf("expected empty cache and stats, got len=%d hits=%d misses=%d", c.Len(), hits, misses)
	}
}
