package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/shm"
)

type commit struct {
	scale  int
	buf    *shm.Buffer
	damage []halo.Rect
}

// fakeSurface records double-buffered surface state the way a compositor
// would apply it on commit.
type fakeSurface struct {
	pending commit
	commits []commit
	frames  []func()
}

func (s *fakeSurface) SetBufferScale(scale int) { s.pending.scale = scale }
func (s *fakeSurface) Attach(buf *shm.Buffer)   { s.pending.buf = buf }
func (s *fakeSurface) DamageBuffer(r halo.Rect) { s.pending.damage = append(s.pending.damage, r) }
func (s *fakeSurface) Frame(done func())        { s.frames = append(s.frames, done) }

func (s *fakeSurface) Commit() {
	s.commits = append(s.commits, s.pending)
	s.pending = commit{}
}

func (s *fakeSurface) last() commit {
	return s.commits[len(s.commits)-1]
}

// fireFrame delivers the oldest pending frame callback.
func (s *fakeSurface) fireFrame(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, s.frames, "no frame callback armed")
	done := s.frames[0]
	s.frames = s.frames[1:]
	done()
}

type nopHandle struct{}

func (nopHandle) Destroy() error { return nil }

type nopExporter struct{}

func (nopExporter) Export(shm.Memory, int, int, int, uint32, func()) (shm.Handle, error) {
	return nopHandle{}, nil
}

type flakySource struct {
	pool *shm.Pool
	fail bool
}

func (f *flakySource) Acquire(width, height int, cookie uint64) (*shm.Buffer, error) {
	if f.fail {
		return nil, errors.New("out of memory")
	}
	return f.pool.Acquire(width, height, cookie)
}

func newPool(t *testing.T) *shm.Pool {
	t.Helper()
	pool := shm.NewPool(shm.HeapAllocator{}, nopExporter{})
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func newArena(t *testing.T) (*Outputs, *shm.Pool) {
	t.Helper()
	pool := newPool(t)
	return NewOutputs(pool, nil, DefaultOptions()), pool
}

func pixelAt(t *testing.T, buf *shm.Buffer, x, y int) [4]uint8 {
	t.Helper()
	px := buf.Pixels()
	require.NotNil(t, px, "buffer is not busy")
	r, g, b, a := px.GetRGBA(x, y)
	return [4]uint8{r, g, b, a}
}

var (
	lit        = [4]uint8{63, 63, 63, 207}
	background = [4]uint8{0, 0, 0, 0xbf}
)
