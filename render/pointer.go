package render

// Pointer tracks the cursor position and the output it is over.
//
// The active output is held as an identifier and resolved through the
// arena, so a removed output simply stops being found.
type Pointer struct {
	outputs *Outputs

	x, y      float64
	active    uint64
	hasActive bool
	quit      bool
}

// Position returns the cursor position in surface units.
func (p *Pointer) Position() (x, y float64) { return p.x, p.y }

// Active returns the output the pointer is over, or nil.
func (p *Pointer) Active() *Output {
	if !p.hasActive {
		return nil
	}
	return p.outputs.Lookup(p.active)
}

// Motion moves the cursor and asks every output to redraw.
func (p *Pointer) Motion(x, y float64) {
	p.x, p.y = x, y
	p.outputs.Each(func(o *Output) { o.RequestRender() })
}

// Enter makes the output with the given identifier active and asks it to
// redraw. An unknown identifier leaves no output active.
func (p *Pointer) Enter(id uint64, x, y float64) {
	p.x, p.y = x, y
	o := p.outputs.Lookup(id)
	if o == nil {
		p.hasActive = false
		return
	}
	p.active, p.hasActive = id, true
	o.RequestRender()
}

// Leave clears the active output. Nothing is redrawn until the next event.
func (p *Pointer) Leave() {
	p.hasActive = false
}

// Button records a button press as a request to quit.
func (p *Pointer) Button() { p.quit = true }

// Axis records a scroll as a request to quit.
func (p *Pointer) Axis() { p.quit = true }

// AxisDiscrete records a discrete scroll step as a request to quit.
func (p *Pointer) AxisDiscrete() { p.quit = true }

// QuitRequested reports whether a button or scroll event was seen.
func (p *Pointer) QuitRequested() bool { return p.quit }

func (p *Pointer) isActive(o *Output) bool {
	return p.hasActive && p.active == o.id
}
