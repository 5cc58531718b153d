package shm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/internal/image"
)

// Stats reports pool activity since creation.
type Stats struct {
	Allocations int // buffers created
	Reuses      int // acquires satisfied by an idle buffer
	Evictions   int // idle buffers destroyed by timeout
	Failures    int // acquires that failed
	Live        int // buffers currently owned by the pool
	Busy        int // buffers currently handed out
}

// Pool allocates, reuses and evicts ARGB8888 shared-memory buffers.
//
// Buffers are kept in release order: the least recently released idle buffer
// is found first, both for reuse and for eviction.
type Pool struct {
	alloc  Allocator
	export Exporter
	opts   poolOptions

	buffers []*Buffer
	stats   Stats
	closed  bool
}

// NewPool creates a pool drawing memory from alloc and exporting buffers
// through export.
func NewPool(alloc Allocator, export Exporter, opts ...Option) *Pool {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pool{alloc: alloc, export: export, opts: o}
}

func (p *Pool) logger() *slog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return halo.Logger()
}

// Timeout returns the idle eviction timeout.
func (p *Pool) Timeout() time.Duration { return p.opts.timeout }

// Acquire returns a busy buffer of the given size allocated for cookie.
//
// Expired idle buffers are evicted first. An idle buffer with the same
// width, height and cookie is reused if one exists; otherwise a new buffer is
// allocated and exported. On failure every partially acquired resource is
// released and the returned error wraps the cause.
func (p *Pool) Acquire(width, height int, cookie uint64) (*Buffer, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if width <= 0 || height <= 0 {
		p.stats.Failures++
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	p.EvictExpired(p.opts.now())

	for _, b := range p.buffers {
		if b.matches(width, height, cookie) {
			b.busy = true
			p.stats.Reuses++
			p.logger().Debug("shm: reusing buffer",
				"width", width, "height", height, "cookie", cookie)
			return b, nil
		}
	}

	b, err := p.create(width, height, cookie)
	if err != nil {
		p.stats.Failures++
		return nil, err
	}
	p.buffers = append(p.buffers, b)
	p.stats.Allocations++
	p.logger().Debug("shm: allocated buffer",
		"width", width, "height", height, "cookie", cookie, "live", len(p.buffers))
	return b, nil
}

func (p *Pool) create(width, height int, cookie uint64) (*Buffer, error) {
	format := image.FormatARGB8888
	stride := format.RowBytes(width)
	size := format.ImageBytes(width, height)

	mem, err := p.alloc.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("shm: allocate %d bytes: %w", size, err)
	}

	pixels, err := image.FromRaw(mem.Bytes(), width, height, format, stride)
	if err != nil {
		_ = mem.Close()
		return nil, fmt.Errorf("shm: wrap pixels: %w", err)
	}

	b := &Buffer{
		pool:   p,
		width:  width,
		height: height,
		stride: stride,
		cookie: cookie,
		busy:   true,
		mem:    mem,
		pixels: pixels,
	}

	handle, err := p.export.Export(mem, width, height, stride, format.WaylandCode(), b.Release)
	if err != nil {
		_ = mem.Close()
		return nil, fmt.Errorf("shm: export buffer: %w", err)
	}
	b.handle = handle

	// The server holds its own reference to the region now.
	if err := mem.CloseFd(); err != nil {
		p.logger().Warn("shm: closing exported fd failed", "err", err)
	}
	return b, nil
}

// Release marks b idle, stamps the release time and moves it to the back of
// the pool order. Releasing an idle or foreign buffer is a no-op.
func (p *Pool) Release(b *Buffer) {
	if b == nil || !b.busy || b.pool != p {
		return
	}
	i := p.index(b)
	if i < 0 {
		return
	}

	b.busy = false
	b.released = p.opts.now()
	p.buffers = append(append(p.buffers[:i:i], p.buffers[i+1:]...), b)
}

// EvictExpired destroys every idle buffer released at least the pool timeout
// before now and returns how many were destroyed.
func (p *Pool) EvictExpired(now time.Time) int {
	kept := p.buffers[:0]
	evicted := 0
	for _, b := range p.buffers {
		if !b.busy && now.Sub(b.released) >= p.opts.timeout {
			if err := b.destroy(); err != nil {
				p.logger().Warn("shm: destroying buffer failed", "err", err)
			}
			evicted++
			continue
		}
		kept = append(kept, b)
	}
	clear(p.buffers[len(kept):])
	p.buffers = kept

	if evicted > 0 {
		p.stats.Evictions += evicted
		p.logger().Debug("shm: evicted idle buffers", "count", evicted, "live", len(p.buffers))
	}
	return evicted
}

// Close destroys every buffer, busy or idle. Acquire fails afterwards.
func (p *Pool) Close() error {
	var errs []error
	for _, b := range p.buffers {
		if err := b.destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(p.buffers)
	p.buffers = nil
	p.closed = true
	return errors.Join(errs...)
}

// Len returns the number of buffers owned by the pool.
func (p *Pool) Len() int { return len(p.buffers) }

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	s := p.stats
	s.Live = len(p.buffers)
	for _, b := range p.buffers {
		if b.busy {
			s.Busy++
		}
	}
	return s
}

func (p *Pool) index(b *Buffer) int {
	for i, x := range p.buffers {
		if x == b {
			return i
		}
	}
	return -1
}
