//go:build linux

package shm

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/gogpu/halo"
)

// memfdName is the name shown for the region in /proc/<pid>/fd.
const memfdName = "halo-shm"

// MemfdAllocator allocates sealed anonymous memfd regions mapped shared
// read/write.
type MemfdAllocator struct{}

// Allocate implements Allocator.
func (MemfdAllocator) Allocate(size int) (Memory, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	fd, err := unix.MemfdCreate(memfdName, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING|unix.MFD_NOEXEC_SEAL)
	if errors.Is(err, unix.EINVAL) {
		// Kernels before 6.3 reject MFD_NOEXEC_SEAL.
		fd, err = unix.MemfdCreate(memfdName, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	}
	if err != nil {
		return nil, fmt.Errorf("shm: memfd_create: %w", err)
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("shm: ftruncate %d bytes: %w", size, err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("shm: mmap %d bytes: %w", size, err)
	}

	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_GROW|unix.F_SEAL_SHRINK|unix.F_SEAL_SEAL); err != nil {
		halo.Logger().Warn("shm: sealing memfd failed", "fd", fd, "err", err)
	}

	return &memfdMemory{fd: fd, data: data}, nil
}

type memfdMemory struct {
	fd   int
	data []byte
}

func (m *memfdMemory) Bytes() []byte { return m.data }
func (m *memfdMemory) Fd() int       { return m.fd }

func (m *memfdMemory) CloseFd() error {
	if m.fd < 0 {
		return nil
	}
	err := unix.Close(m.fd)
	m.fd = -1
	if err != nil {
		return fmt.Errorf("shm: close memfd: %w", err)
	}
	return nil
}

func (m *memfdMemory) Close() error {
	var errs []error
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			errs = append(errs, fmt.Errorf("shm: munmap: %w", err))
		}
		m.data = nil
	}
	if err := m.CloseFd(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
