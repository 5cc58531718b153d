//go:build !linux

package shm

import "errors"

// MemfdAllocator is only available on Linux.
type MemfdAllocator struct{}

// Allocate always fails on this platform.
func (MemfdAllocator) Allocate(int) (Memory, error) {
	return nil, errors.New("shm: memfd is not supported on this platform")
}
