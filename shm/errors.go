package shm

import "errors"

var (
	// ErrInvalidSize is returned when a buffer is requested with a zero or
	// negative dimension.
	ErrInvalidSize = errors.New("shm: invalid buffer size")

	// ErrClosed is returned by Acquire after Close.
	ErrClosed = errors.New("shm: pool closed")
)
