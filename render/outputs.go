package render

import (
	"slices"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/compositor"
)

// Outputs is the arena of render states, keyed by stable identifiers.
// It shares one buffer source, one background and one set of options
// between all outputs and owns the process-wide Pointer.
type Outputs struct {
	pool       BufferSource
	background compositor.Background
	opts       Options

	outputs []*Output
	nextGen uint64
	pointer Pointer
}

// NewOutputs creates an empty arena. A nil background paints the default
// translucent black.
func NewOutputs(pool BufferSource, background compositor.Background, opts Options) *Outputs {
	a := &Outputs{
		pool:       pool,
		background: background,
		opts:       opts,
	}
	a.pointer.outputs = a
	return a
}

// Pointer returns the pointer tracker bound to this arena.
func (a *Outputs) Pointer() *Pointer { return &a.pointer }

// Options returns the indicator options shared by all outputs.
func (a *Outputs) Options() Options { return a.opts }

// Add registers a new output drawing to surface. An existing output with the
// same identifier is removed first.
func (a *Outputs) Add(id uint64, surface Surface) *Output {
	a.Remove(id)
	a.nextGen++
	o := &Output{
		arena:   a,
		id:      id,
		gen:     a.nextGen,
		surface: surface,
		scale:   1,
	}
	a.outputs = append(a.outputs, o)
	halo.Logger().Info("render: output added", "id", id)
	return o
}

// Remove destroys and forgets the output with the given identifier.
// Unknown identifiers are ignored.
func (a *Outputs) Remove(id uint64) {
	i := slices.IndexFunc(a.outputs, func(o *Output) bool { return o.id == id })
	if i < 0 {
		return
	}
	a.outputs[i].Destroy()
	a.outputs = slices.Delete(a.outputs, i, i+1)
	halo.Logger().Info("render: output removed", "id", id)
}

// Lookup returns the output with the given identifier, or nil.
func (a *Outputs) Lookup(id uint64) *Output {
	for _, o := range a.outputs {
		if o.id == id {
			return o
		}
	}
	return nil
}

// Each calls fn for every output in insertion order. fn may add or remove
// outputs; the iteration covers the outputs present when Each was called.
func (a *Outputs) Each(fn func(*Output)) {
	for _, o := range slices.Clone(a.outputs) {
		if !o.dead {
			fn(o)
		}
	}
}

// Len returns the number of live outputs.
func (a *Outputs) Len() int { return len(a.outputs) }

// frameCallback returns the frame handler for one incarnation of an output.
func (a *Outputs) frameCallback(id, gen uint64) func() {
	return func() {
		o := a.Lookup(id)
		if o == nil || o.gen != gen {
			halo.Logger().Debug("render: frame callback for removed output", "id", id)
			return
		}
		o.FrameDone()
	}
}
