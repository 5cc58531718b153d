package shm

// Memory is a mapped region of shared memory backing one buffer.
type Memory interface {
	// Bytes returns the mapped region. The slice stays valid until Close.
	Bytes() []byte

	// Fd returns the file descriptor backing the region, or -1 if the
	// region cannot be shared with another process.
	Fd() int

	// CloseFd closes the file descriptor once the server holds its own
	// reference. The mapping stays valid. Calling it twice is a no-op.
	CloseFd() error

	// Close unmaps the region and closes the descriptor if still open.
	Close() error
}

// Allocator reserves shared memory regions.
type Allocator interface {
	Allocate(size int) (Memory, error)
}

// Handle is the server-side object of an exported buffer.
type Handle interface {
	// Destroy tells the server the buffer is gone.
	Destroy() error
}

// Exporter publishes a memory region to the display server as a buffer of
// the given geometry and wire format code. onRelease is invoked every time
// the server stops reading from the buffer.
type Exporter interface {
	Export(mem Memory, width, height, stride int, format uint32, onRelease func()) (Handle, error)
}

// HeapAllocator allocates regions from the Go heap. The regions have no file
// descriptor; use it with exporters that do not cross a process boundary.
type HeapAllocator struct{}

// Allocate implements Allocator.
func (HeapAllocator) Allocate(size int) (Memory, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return &heapMemory{data: make([]byte, size)}, nil
}

type heapMemory struct {
	data []byte
}

func (m *heapMemory) Bytes() []byte  { return m.data }
func (m *heapMemory) Fd() int        { return -1 }
func (m *heapMemory) CloseFd() error { return nil }

func (m *heapMemory) Close() error {
	m.data = nil
	return nil
}
