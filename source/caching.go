package source

import (
	"errors"
	"io"
	"log/slog"

	"github.com/hupe1980/bitgo/internal/cache"
	"golang.org/x/sync/errgroup"
)

const defaultBlockSize = 4096

// Caching wraps a Source with block-level caching. Reads are served
// from fixed-size blocks held in a shared LRU, and contiguous runs of
// missing blocks are fetched from the backend in single requests. This
// keeps ranged decodes over remote sources from issuing one request
// per field.
type Caching struct {
	inner     Source
	cache     *cache.BlockCache
	name      string
	blockSize int64
	fillLimit int
	logger    *slog.Logger
}

// CachingOption configures a Caching source.
type CachingOption func(*Caching)

// WithBlockSize sets the cache block size in bytes. Defaults to 4KB.
func WithBlockSize(n int64) CachingOption {
	return func(c *Caching) {
		if n > 0 {
			c.blockSize = n
		}
	}
}

// WithFillConcurrency caps the number of parallel backend fetches when
// filling the cache. Defaults to 16.
func WithFillConcurrency(n int) CachingOption {
	return func(c *Caching) {
		if n > 0 {
			c.fillLimit = n
		}
	}
}

// WithLogger sets the logger for cache fills.
func WithLogger(l *slog.Logger) CachingOption {
	return func(c *Caching) {
		c.logger = l
	}
}

// NewCaching wraps inner with block caching. The name scopes this
// source's entries within bc, which may be shared across sources.
func NewCaching(inner Source, bc *cache.BlockCache, name string, optFns ...CachingOption) *Caching {
	c := &Caching{
		inner:     inner,
		cache:     bc,
		name:      name,
		blockSize: defaultBlockSize,
		fillLimit: 16,
	}
	for _, fn := range optFns {
		fn(c)
	}
	return c
}

// ReadAt implements io.ReaderAt, serving from cached blocks.
func (c *Caching) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	size := c.inner.Size()
	if off < 0 || off >= size {
		return 0, io.EOF
	}

	startBlock := off / c.blockSize
	endBlock := (off + int64(len(p)) - 1) / c.blockSize

	if err := c.fill(startBlock, endBlock); err != nil {
		return 0, err
	}

	total := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		blkStart := blk * c.blockSize

		// Intersection of this block with the requested window.
		lo := max(blkStart, off)
		hi := min(blkStart+c.blockSize, off+int64(len(p)))
		if hi <= lo {
			continue
		}

		data, err := c.block(blk)
		if err != nil {
			return total, err
		}
		srcOff := lo - blkStart
		if srcOff >= int64(len(data)) {
			break
		}
		total += copy(p[lo-off:hi-off], data[srcOff:])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// Close closes the wrapped source. Cached blocks stay in the LRU until
// evicted; callers sharing a cache across sources should use distinct
// names.
func (c *Caching) Close() error {
	return c.inner.Close()
}

// Size returns the size of the wrapped source.
func (c *Caching) Size() int64 {
	return c.inner.Size()
}

// Prefetch loads the blocks covering [off, off+n) into the cache, so a
// following sequential decode does not stall once per block.
func (c *Caching) Prefetch(off, n int64) error {
	if n <= 0 || off < 0 || off >= c.inner.Size() {
		return nil
	}
	return c.fill(off/c.blockSize, (off+n-1)/c.blockSize)
}

// block returns a single block, reading through to the backend on miss.
func (c *Caching) block(idx int64) ([]byte, error) {
	key := cache.BlockKey{Name: c.name, Block: idx}
	if data, ok := c.cache.Get(key); ok {
		return data, nil
	}

	buf := make([]byte, c.blockSize)
	n, err := c.inner.ReadAt(buf, idx*c.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n > 0 {
		c.cache.Set(key, buf[:n])
	}
	return buf[:n], nil
}

// fill loads the missing blocks in [startBlock, endBlock] into the
// cache, coalescing contiguous misses into single backend reads.
func (c *Caching) fill(startBlock, endBlock int64) error {
	type run struct {
		start, count int64
	}
	var missing []run

	runStart, runCount := int64(-1), int64(0)
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := c.cache.Get(cache.BlockKey{Name: c.name, Block: blk}); ok {
			if runStart != -1 {
				missing = append(missing, run{runStart, runCount})
				runStart, runCount = -1, 0
			}
			continue
		}
		if runStart == -1 {
			runStart = blk
		}
		runCount++
	}
	if runStart != -1 {
		missing = append(missing, run{runStart, runCount})
	}
	if len(missing) == 0 {
		return nil
	}

	if c.logger != nil {
		c.logger.Debug("cache fill", "name", c.name, "runs", len(missing), "blocks", endBlock-startBlock+1)
	}

	var g errgroup.Group
	g.SetLimit(c.fillLimit)

	for _, r := range missing {
		g.Go(func() error {
			byteStart := r.start * c.blockSize
			byteSize := r.count * c.blockSize

			size := c.inner.Size()
			if byteStart >= size {
				return nil
			}
			if byteStart+byteSize > size {
				byteSize = size - byteStart
			}

			buf := make([]byte, byteSize)
			n, err := c.inner.ReadAt(buf, byteStart)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			got := buf[:n]

			for i := int64(0); i < r.count; i++ {
				lo := i * c.blockSize
				if lo >= int64(len(got)) {
					break
				}
				hi := min(lo+c.blockSize, int64(len(got)))

				// Copy so a cached block does not pin the whole run buffer.
				block := make([]byte, hi-lo)
				copy(block, got[lo:hi])
				c.cache.Set(cache.BlockKey{Name: c.name, Block: r.start + i}, block)
			}
			return nil
		})
	}
	return g.Wait()
}

var _ Source = (*Caching)(nil)
