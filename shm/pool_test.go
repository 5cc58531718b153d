package shm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeHandle struct {
	exp       *fakeExporter
	destroyed bool
}

func (h *fakeHandle) Destroy() error {
	h.destroyed = true
	h.exp.destroyed++
	return nil
}

type fakeExporter struct {
	exported  int
	destroyed int
	fail      error
	releases  []func()
	formats   []uint32
}

func (e *fakeExporter) Export(_ Memory, _, _, _ int, format uint32, onRelease func()) (Handle, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	e.exported++
	e.formats = append(e.formats, format)
	e.releases = append(e.releases, onRelease)
	return &fakeHandle{exp: e}, nil
}

type countingMemory struct {
	heapMemory
	alloc  *countingAllocator
	closed bool
}

func (m *countingMemory) Close() error {
	if !m.closed {
		m.closed = true
		m.alloc.closed++
	}
	return nil
}

type countingAllocator struct {
	allocated int
	closed    int
	fail      error
}

func (a *countingAllocator) Allocate(size int) (Memory, error) {
	if a.fail != nil {
		return nil, a.fail
	}
	a.allocated++
	return &countingMemory{heapMemory: heapMemory{data: make([]byte, size)}, alloc: a}, nil
}

func newTestPool(t *testing.T) (*Pool, *fakeClock, *countingAllocator, *fakeExporter) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	alloc := &countingAllocator{}
	exp := &fakeExporter{}
	return NewPool(alloc, exp, WithClock(clock.now)), clock, alloc, exp
}

func TestAcquireAllocates(t *testing.T) {
	pool, _, alloc, exp := newTestPool(t)

	b, err := pool.Acquire(100, 50, 7)
	require.NoError(t, err)

	assert.Equal(t, 100, b.Width())
	assert.Equal(t, 50, b.Height())
	assert.Equal(t, 400, b.Stride())
	assert.Equal(t, uint64(7), b.Cookie())
	assert.True(t, b.Busy())
	require.NotNil(t, b.Pixels())
	assert.Len(t, b.Pixels().Data(), 400*50)
	assert.Equal(t, 1, alloc.allocated)
	assert.Equal(t, 1, exp.exported)
	assert.Equal(t, []uint32{0}, exp.formats)
}

func TestAcquireInvalidSize(t *testing.T) {
	pool, _, alloc, _ := newTestPool(t)

	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 10}} {
		_, err := pool.Acquire(dims[0], dims[1], 1)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
	assert.Zero(t, alloc.allocated)
	assert.Equal(t, 3, pool.Stats().Failures)
}

func TestNoDoubleAcquire(t *testing.T) {
	pool, _, _, _ := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	b, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, pool.Len())
}

func TestReleaseAndReuse(t *testing.T) {
	pool, clock, alloc, exp := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)

	// The server signals release through the exported callback.
	exp.releases[0]()
	assert.False(t, a.Busy())
	assert.Nil(t, a.Pixels())

	clock.advance(2 * time.Second)
	b, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.True(t, b.Busy())
	assert.Equal(t, 1, alloc.allocated)
	assert.Equal(t, 1, pool.Stats().Reuses)
}

func TestReuseRequiresExactKey(t *testing.T) {
	pool, _, alloc, _ := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	pool.Release(a)

	for _, req := range []struct {
		w, h   int
		cookie uint64
	}{{20, 10, 1}, {10, 20, 1}, {10, 10, 2}} {
		b, err := pool.Acquire(req.w, req.h, req.cookie)
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	}
	assert.Equal(t, 4, alloc.allocated)
}

func TestReusePrefersFirstReleased(t *testing.T) {
	pool, clock, _, _ := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	b, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)

	pool.Release(b)
	clock.advance(time.Millisecond)
	pool.Release(a)

	got, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestDuplicateReleaseIsNoop(t *testing.T) {
	pool, clock, _, _ := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	pool.Release(a)
	stamp := a.released

	clock.advance(time.Second)
	pool.Release(a)
	a.Release()

	assert.Equal(t, stamp, a.released)
	assert.Equal(t, 1, pool.Len())
}

func TestEvictExpired(t *testing.T) {
	pool, clock, alloc, exp := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	busy, err := pool.Acquire(10, 10, 2)
	require.NoError(t, err)
	pool.Release(a)

	assert.Zero(t, pool.EvictExpired(clock.t.Add(DefaultTimeout-time.Nanosecond)))
	assert.Equal(t, 1, pool.EvictExpired(clock.t.Add(DefaultTimeout)))

	assert.Equal(t, 1, pool.Len())
	assert.True(t, busy.Busy())
	assert.Equal(t, 1, exp.destroyed)
	assert.Equal(t, 1, alloc.closed)
	assert.Equal(t, 1, pool.Stats().Evictions)
}

func TestAcquireEvictsBeforeReuse(t *testing.T) {
	pool, clock, alloc, exp := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	pool.Release(a)

	clock.advance(DefaultTimeout)
	b, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, alloc.allocated)
	assert.Equal(t, 1, exp.destroyed)
	assert.Equal(t, 1, pool.Len())
}

func TestWithTimeout(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pool := NewPool(HeapAllocator{}, &fakeExporter{}, WithClock(clock.now), WithTimeout(10*time.Second))
	assert.Equal(t, 10*time.Second, pool.Timeout())

	a, err := pool.Acquire(4, 4, 1)
	require.NoError(t, err)
	pool.Release(a)

	clock.advance(5 * time.Second)
	b, err := pool.Acquire(4, 4, 1)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestAllocatorFailure(t *testing.T) {
	pool, _, alloc, exp := newTestPool(t)
	cause := errors.New("out of memory")
	alloc.fail = cause

	_, err := pool.Acquire(10, 10, 1)
	require.ErrorIs(t, err, cause)

	assert.Zero(t, exp.exported)
	assert.Zero(t, pool.Len())
	assert.Equal(t, 1, pool.Stats().Failures)
}

func TestExporterFailureReleasesMemory(t *testing.T) {
	pool, _, alloc, exp := newTestPool(t)
	cause := errors.New("connection lost")
	exp.fail = cause

	_, err := pool.Acquire(10, 10, 1)
	require.ErrorIs(t, err, cause)

	assert.Equal(t, 1, alloc.allocated)
	assert.Equal(t, 1, alloc.closed)
	assert.Zero(t, pool.Len())
}

func TestClose(t *testing.T) {
	pool, _, alloc, exp := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	_, err = pool.Acquire(20, 20, 1)
	require.NoError(t, err)
	pool.Release(a)

	require.NoError(t, pool.Close())
	assert.Equal(t, 2, exp.destroyed)
	assert.Equal(t, 2, alloc.closed)
	assert.Zero(t, pool.Len())

	_, err = pool.Acquire(10, 10, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStats(t *testing.T) {
	pool, _, _, _ := newTestPool(t)

	a, err := pool.Acquire(10, 10, 1)
	require.NoError(t, err)
	_, err = pool.Acquire(10, 10, 2)
	require.NoError(t, err)
	pool.Release(a)
	_, err = pool.Acquire(10, 10, 1)
	require.NoError(t, err)

	assert.Equal(t, Stats{Allocations: 2, Reuses: 1, Live: 2, Busy: 2}, pool.Stats())
}

func TestHeapAllocator(t *testing.T) {
	mem, err := HeapAllocator{}.Allocate(64)
	require.NoError(t, err)
	assert.Len(t, mem.Bytes(), 64)
	assert.Equal(t, -1, mem.Fd())
	require.NoError(t, mem.CloseFd())
	require.NoError(t, mem.Close())

	_, err = HeapAllocator{}.Allocate(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
