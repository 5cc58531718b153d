package render

import (
	"github.com/gogpu/halo"
	"github.com/gogpu/halo/compositor"
	"github.com/gogpu/halo/shm"
)

// Output is the render state of one display output.
type Output struct {
	arena   *Outputs
	id      uint64
	gen     uint64
	surface Surface

	// Geometry reported by the server.
	scale        int
	modeWidth    int
	modeHeight   int
	manufacturer string
	model        string
	width        int
	height       int
	configured   bool
	needsFullDmg bool

	// Frame pacing.
	awaitingFrame bool
	pendingRender bool

	// What the last committed frame shows.
	lastX, lastY          int
	hasLast               bool
	drawnWithoutIndicator bool
	indicatorVisible      bool

	attached *shm.Buffer
	dead     bool
}

// ID returns the stable identifier of the output. It is also the cookie of
// every buffer allocated for it.
func (o *Output) ID() uint64 { return o.id }

// Scale returns the integer scale factor.
func (o *Output) Scale() int { return o.scale }

// Size returns the configured size in surface units.
func (o *Output) Size() (width, height int) { return o.width, o.height }

// Mode returns the physical size reported by the output.
func (o *Output) Mode() (width, height int) { return o.modeWidth, o.modeHeight }

// Description returns the manufacturer and model reported by the output.
func (o *Output) Description() (manufacturer, model string) { return o.manufacturer, o.model }

// State returns the frame-pacing state.
func (o *Output) State() State {
	switch {
	case !o.configured:
		return Unconfigured
	case o.awaitingFrame && o.pendingRender:
		return AwaitingFramePendingRender
	case o.awaitingFrame:
		return AwaitingFrame
	default:
		return Idle
	}
}

// IndicatorVisible reports whether the last committed frame contains the
// indicator. A frame is only replaced on a render, so an output the pointer
// left keeps showing the indicator until something else repaints it.
func (o *Output) IndicatorVisible() bool { return o.indicatorVisible }

// Configure applies the size negotiated with the server. A configure with
// the current size only commits; any other size triggers a full repaint.
func (o *Output) Configure(width, height int) {
	if o.dead {
		return
	}
	if o.configured && o.width == width && o.height == height {
		o.surface.Commit()
		return
	}
	o.width, o.height = width, height
	o.configured = true
	o.invalidate()
	o.RequestRender()
}

// SetScale records the output scale factor and repaints at the new scale.
func (o *Output) SetScale(scale int) {
	if o.dead || scale < 1 || scale == o.scale {
		return
	}
	o.scale = scale
	if o.configured {
		o.invalidate()
		o.RequestRender()
	}
}

// SetMode records the physical size of the current mode.
func (o *Output) SetMode(width, height int) {
	o.modeWidth, o.modeHeight = width, height
}

// SetDescription records the manufacturer and model of the output.
func (o *Output) SetDescription(manufacturer, model string) {
	o.manufacturer, o.model = manufacturer, model
}

// Done marks the end of an atomic batch of output properties.
func (o *Output) Done() {
	halo.Logger().Info("render: output",
		"id", o.id,
		"make", o.manufacturer,
		"model", o.model,
		"width", o.modeWidth,
		"height", o.modeHeight,
		"scale", o.scale)
}

// RequestRender asks for a redraw. Idle outputs render now, outputs with a
// frame in flight render once it completes, unconfigured outputs ignore the
// request.
func (o *Output) RequestRender() {
	if o.dead || !o.configured {
		return
	}
	if o.awaitingFrame {
		o.pendingRender = true
		return
	}
	o.render()
}

// FrameDone handles the server's frame callback.
func (o *Output) FrameDone() {
	if o.dead || !o.awaitingFrame {
		return
	}
	o.awaitingFrame = false
	if o.pendingRender {
		o.pendingRender = false
		o.render()
	}
}

// Destroy returns the attached buffer to the pool and stops the output from
// reacting to any further event.
func (o *Output) Destroy() {
	if o.dead {
		return
	}
	o.dead = true
	o.awaitingFrame = false
	o.pendingRender = false
	if o.attached != nil {
		o.attached.Release()
		o.attached = nil
	}
}

// invalidate forces the next frame to be drawn and damaged in full.
func (o *Output) invalidate() {
	o.needsFullDmg = true
	o.drawnWithoutIndicator = false
}

func (o *Output) render() {
	log := halo.Logger()
	active := o.arena.pointer.isActive(o)
	if !active && o.drawnWithoutIndicator {
		log.Debug("render: skipping output without indicator", "id", o.id)
		return
	}

	scale := max(o.scale, 1)
	bw, bh := o.width*scale, o.height*scale
	buf, err := o.arena.pool.Acquire(bw, bh, o.id)
	if err != nil {
		log.Debug("render: no buffer available", "id", o.id, "err", err)
		return
	}

	pixels := buf.Pixels()
	compositor.FillBackground(pixels, o.arena.background)

	opts := o.arena.opts
	var damage halo.Rect
	if o.hasLast {
		damage = halo.SquareAround(o.lastX, o.lastY, opts.extent())
	}

	if active {
		x, y := o.arena.pointer.Position()
		cx, cy := int(x), int(y)
		damage = damage.Union(halo.SquareAround(cx, cy, opts.extent()))
		compositor.DrawIndicator(pixels, int(x*float64(scale)), int(y*float64(scale)), opts.Radius*scale, opts.Indicator)
		o.lastX, o.lastY, o.hasLast = cx, cy, true
		o.drawnWithoutIndicator = false
		o.indicatorVisible = true
	} else {
		o.hasLast = false
		o.drawnWithoutIndicator = true
		o.indicatorVisible = false
	}

	bounds := halo.Rect{Width: bw, Height: bh}
	if o.needsFullDmg {
		damage = bounds
		o.needsFullDmg = false
	} else {
		damage = damage.Scale(scale).Intersect(bounds)
	}

	log.Debug("render: frame", "id", o.id, "active", active, "damage", damage)

	o.surface.SetBufferScale(scale)
	o.surface.Attach(buf)
	o.surface.DamageBuffer(damage)
	o.surface.Frame(o.arena.frameCallback(o.id, o.gen))
	o.surface.Commit()

	o.attached = buf
	o.awaitingFrame = true
}
