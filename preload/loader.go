// Package preload warms slide images ahead of display. Sources are either
// http(s) URLs or file paths; fetched bytes are kept in an LRU cache and
// concurrent requests for the same source share one fetch.
package preload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Fetch after Close.
var ErrClosed = errors.New("preload: loader closed")

// Config holds loader settings.
type Config struct {
	// CacheEntries bounds the number of cached images.
	CacheEntries int

	// CacheBytes bounds the total cached payload. Zero means unbounded.
	CacheBytes int64

	// MaxImageBytes caps a single download or file read.
	MaxImageBytes int64

	// Timeout bounds one fetch.
	Timeout time.Duration

	// BaseDir resolves relative file paths before the working directory
	// and executable directory fallbacks.
	BaseDir string

	// Client is used for URL sources. Defaults to a shared client.
	Client *http.Client

	// OnResult, if set, is called once per completed fetch.
	OnResult func(src string, size int, err error)
}

// DefaultConfig returns sensible loader defaults.
func DefaultConfig() Config {
	return Config{
		CacheEntries:  64,
		CacheBytes:    64 << 20,
		MaxImageBytes: 16 << 20,
		Timeout:       30 * time.Second,
	}
}

// httpClient is a shared HTTP client for fetching images from URLs.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Stats counts loader activity.
type Stats struct {
	Requests uint64 // Preload calls
	Hits     uint64 // requests answered from cache
	Fetches  uint64 // fetches that actually ran
	Failures uint64
	Cached   int
	Bytes    int64
}

// Loader fetches images in the background. It implements
// slider.Preloader. Safe for concurrent use.
type Loader struct {
	cfg    Config
	log    *zap.Logger
	client *http.Client
	cache  *cache
	group  singleflight.Group

	// pending dedupes Preload goroutines; singleflight dedupes fetches.
	pending sync.Map

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders Close against Preload's wg.Add.
	mu     sync.Mutex
	closed atomic.Bool

	requests atomic.Uint64
	hits     atomic.Uint64
	fetches  atomic.Uint64
	failures atomic.Uint64
}

// New creates a Loader. logger may be nil.
func New(cfg Config, logger *zap.Logger) *Loader {
	def := DefaultConfig()
	if cfg.CacheEntries <= 0 {
		cfg.CacheEntries = def.CacheEntries
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = def.MaxImageBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	client := cfg.Client
	if client == nil {
		client = httpClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		cfg:    cfg,
		log:    logger.Named("preload"),
		client: client,
		cache:  newCache(cfg.CacheEntries, cfg.CacheBytes),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Preload starts fetching src in the background and returns immediately.
// Sources already cached or in flight are skipped.
func (l *Loader) Preload(src string) {
	if src == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed.Load() {
		return
	}
	l.requests.Add(1)

	if l.cache.contains(src) {
		l.hits.Add(1)
		return
	}
	if _, alreadyLoading := l.pending.LoadOrStore(src, true); alreadyLoading {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.pending.Delete(src)

		if _, err := l.load(l.ctx, src); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrClosed) {
			l.log.Warn("Image preload failed", zap.String("src", src), zap.Error(err))
		}
	}()
}

// Fetch returns the bytes for src, from cache when possible. Concurrent
// callers for the same source share one fetch.
func (l *Loader) Fetch(ctx context.Context, src string) ([]byte, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	if data, ok := l.cache.get(src); ok {
		return data, nil
	}
	return l.load(ctx, src)
}

func (l *Loader) load(ctx context.Context, src string) ([]byte, error) {
	v, err, _ := l.group.Do(src, func() (interface{}, error) {
		if data, ok := l.cache.get(src); ok {
			return data, nil
		}

		// Runs on the loader context: the flight is shared, so no single
		// caller may cancel it.
		fetchCtx, cancel := context.WithTimeout(l.ctx, l.cfg.Timeout)
		defer cancel()

		l.fetches.Add(1)
		start := time.Now()
		data, err := l.fetch(fetchCtx, src)
		if l.cfg.OnResult != nil {
			l.cfg.OnResult(src, len(data), err)
		}
		if err != nil {
			l.failures.Add(1)
			return nil, err
		}
		if l.closed.Load() {
			return nil, ErrClosed
		}

		l.cache.put(src, data)
		l.log.Debug("Image preloaded",
			zap.String("src", src),
			zap.Int("bytes", len(data)),
			zap.Duration("took", time.Since(start)))
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return v.([]byte), nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	if isURL(src) {
		return l.fetchURL(ctx, src)
	}
	return l.readImageFile(strings.TrimPrefix(src, "file://"))
}

// fetchURL fetches data from a URL.
func (l *Loader) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return readLimited(resp.Body, l.cfg.MaxImageBytes, url)
}

// readImageFile reads image data from a file path. Relative paths are
// tried against BaseDir, the working directory and the executable's
// directory, in that order.
func (l *Loader) readImageFile(path string) ([]byte, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		if l.cfg.BaseDir != "" {
			candidates = append([]string{filepath.Join(l.cfg.BaseDir, path)}, candidates...)
		}
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, path))
		}
		if exePath, err := os.Executable(); err == nil {
			candidates = append(candidates, filepath.Join(filepath.Dir(exePath), path))
		}
	}

	for _, candidate := range candidates {
		f, err := os.Open(candidate)
		if err != nil {
			continue
		}
		data, err := readLimited(f, l.cfg.MaxImageBytes, path)
		f.Close()
		return data, err
	}

	return nil, fmt.Errorf("image file not found: %s", path)
}

func readLimited(r io.Reader, max int64, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("image %s exceeds %d bytes", name, max)
	}
	return data, nil
}

// Cached reports whether src is in the cache.
func (l *Loader) Cached(src string) bool {
	return l.cache.contains(src)
}

// Wait blocks until every background preload has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Stats returns a snapshot of loader counters.
func (l *Loader) Stats() Stats {
	return Stats{
		Requests: l.requests.Load(),
		Hits:     l.hits.Load(),
		Fetches:  l.fetches.Load(),
		Failures: l.failures.Load(),
		Cached:   l.cache.len(),
		Bytes:    l.cache.bytes(),
	}
}

// Close cancels in-flight fetches, waits for them and drops the cache.
// Results that arrive after Close are discarded. Close is idempotent.
func (l *Loader) Close() {
	l.mu.Lock()
	wasClosed := l.closed.Swap(true)
	l.mu.Unlock()
	if wasClosed {
		return
	}
	l.cancel()
	l.wg.Wait()
	l.cache.clear()
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
