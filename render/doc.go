// Package render drives the per-output redraw cycle of the overlay.
//
// Every output owns an [Output] state machine that paces redraws against the
// display server's frame callbacks: at most one frame is in flight per
// output, and any number of render requests that arrive meanwhile collapse
// into a single redraw once the frame completes.
//
// # States
//
//	Unconfigured ──Configure──▶ Idle ──render──▶ AwaitingFrame
//	                             ▲                  │      │
//	                             └────FrameDone─────┘  RequestRender
//	                                                       ▼
//	                                    AwaitingFramePendingRender
//
// FrameDone from AwaitingFramePendingRender renders again immediately.
//
// # Damage
//
// Each redraw reports to the server only the union of the square around the
// previously drawn indicator and the square around the new one, scaled to
// buffer pixels and clipped to the buffer. The first paint after a
// configure or scale change reports the whole buffer.
//
// # Identity
//
// Outputs live in an [Outputs] arena keyed by a stable identifier. Frame
// callbacks capture the identifier and a generation number, so a callback
// that arrives after its output was removed is dropped.
//
// All types in this package are driven from a single goroutine and are not
// safe for concurrent use.
package render
