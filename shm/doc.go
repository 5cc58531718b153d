// Package shm manages the shared-memory pixel buffers handed to the display
// server.
//
// A [Pool] owns every [Buffer] it creates. Buffers are acquired busy by the
// renderer, submitted to the server, and become idle again when the server
// reports it no longer reads from them. Idle buffers with an identical
// (width, height, cookie) key are reused; idle buffers that were not reused
// within the pool timeout are destroyed at the start of the next Acquire.
//
// Backing memory comes from an [Allocator] (anonymous memfd on Linux, plain
// Go memory in tests) and is exported to the server through an [Exporter]
// supplied by the transport.
//
// The pool is not safe for concurrent use. It is driven from the single
// goroutine that dispatches display server events.
package shm
