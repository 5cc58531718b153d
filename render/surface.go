package render

import (
	"github.com/gogpu/halo"
	"github.com/gogpu/halo/shm"
)

// Surface is the subset of a display server surface the renderer drives.
// Requests are double-buffered and take effect on Commit.
type Surface interface {
	// SetBufferScale sets the ratio of buffer pixels to surface units.
	SetBufferScale(scale int)

	// Attach sets buf as the pending content.
	Attach(buf *shm.Buffer)

	// DamageBuffer marks the region of the buffer that changed, in buffer
	// pixels.
	DamageBuffer(r halo.Rect)

	// Frame arms a one-shot callback fired when the server is ready for the
	// next frame.
	Frame(done func())

	// Commit applies the pending state.
	Commit()
}

// BufferSource hands out busy pixel buffers. *shm.Pool implements it.
type BufferSource interface {
	Acquire(width, height int, cookie uint64) (*shm.Buffer, error)
}

var _ BufferSource = (*shm.Pool)(nil)
