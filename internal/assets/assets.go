// Package assets fetches mesh and texture files referenced by a robot
// description and caches their contents.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/urdf-preview/internal/logger"
)

// ErrUnsupportedScheme is returned for URIs that are neither files nor http(s).
var ErrUnsupportedScheme = errors.New("unsupported asset uri scheme")

// Options configures a Manager.
type Options struct {
	MaxConcurrent int
	Timeout       time.Duration
	CacheEntries  int
}

// Manager resolves asset URIs to bytes. It is safe for concurrent use.
type Manager struct {
	cache  *Cache
	sem    *semaphore.Weighted
	group  singleflight.Group
	client *http.Client
	log    *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager(opts Options) *Manager {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	return &Manager{
		cache:  NewCache(opts.CacheEntries),
		sem:    semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		client: &http.Client{Timeout: opts.Timeout},
		log:    logger.Named("assets"),
	}
}

// Load returns the contents behind uri. Concurrent requests for the same
// uri share one read. Cached files are read again once their modification
// time or size changes.
func (m *Manager) Load(ctx context.Context, uri string) ([]byte, error) {
	version := fileVersion(uri)
	if data, ok := m.cache.Get(uri, version); ok {
		return data, nil
	}

	v, err, shared := m.group.Do(uri+"@"+version, func() (any, error) {
		if err := m.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer m.sem.Release(1)

		data, err := m.read(ctx, uri)
		if err != nil {
			return nil, err
		}
		m.cache.Set(uri, version, data)
		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", uri, err)
	}
	m.log.Debug("asset loaded", zap.String("uri", uri), zap.Bool("shared", shared))
	return v.([]byte), nil
}

// localPath returns the file behind uri. local is false for http(s).
func localPath(uri string) (path string, local bool, err error) {
	u, perr := url.Parse(uri)
	if perr != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return uri, true, nil
	}

	switch u.Scheme {
	case "file":
		return filepath.FromSlash(u.Path), true, nil
	case "http", "https":
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

// fileVersion stamps local files with their modification time and size.
// Remote and unreadable assets get no stamp.
func fileVersion(uri string) string {
	path, local, err := localPath(uri)
	if err != nil || !local {
		return ""
	}
	fi, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", fi.ModTime().UnixNano(), fi.Size())
}

func (m *Manager) read(ctx context.Context, uri string) ([]byte, error) {
	path, local, err := localPath(uri)
	if err != nil {
		return nil, err
	}
	if local {
		return os.ReadFile(path)
	}
	return m.get(ctx, uri)
}

func (m *Manager) get(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops all cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}
