package shm

import (
	"time"

	"github.com/gogpu/halo/internal/image"
)

// Buffer is one shared-memory pixel buffer owned by a Pool.
//
// A Buffer is either busy (handed out by Acquire and not yet released by the
// server) or idle in the pool awaiting reuse or eviction.
type Buffer struct {
	pool *Pool

	width  int
	height int
	stride int
	cookie uint64

	busy     bool
	released time.Time

	mem    Memory
	handle Handle
	pixels *image.ImageBuf
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int { return b.stride }

// Cookie returns the identifier of the surface the buffer was allocated for.
func (b *Buffer) Cookie() uint64 { return b.cookie }

// Busy reports whether the buffer is owned by an in-flight submission.
func (b *Buffer) Busy() bool { return b.busy }

// Handle returns the server-side buffer object.
func (b *Buffer) Handle() Handle { return b.handle }

// Pixels returns the pixel view of the mapped memory, or nil if the buffer
// is not busy. Idle buffers must not be drawn into.
func (b *Buffer) Pixels() *image.ImageBuf {
	if !b.busy {
		return nil
	}
	return b.pixels
}

// Release returns the buffer to its pool. See Pool.Release.
func (b *Buffer) Release() {
	if b.pool != nil {
		b.pool.Release(b)
	}
}

// matches reports whether the buffer can serve a request for the given key.
func (b *Buffer) matches(width, height int, cookie uint64) bool {
	return !b.busy && b.width == width && b.height == height && b.cookie == cookie
}

// destroy releases the server object and the backing memory.
func (b *Buffer) destroy() error {
	var err error
	if b.handle != nil {
		err = b.handle.Destroy()
		b.handle = nil
	}
	if b.mem != nil {
		if cerr := b.mem.Close(); err == nil {
			err = cerr
		}
		b.mem = nil
	}
	b.pixels = nil
	b.busy = false
	return err
}
