package wayland

// proxy is the client side of one protocol object.
type proxy struct {
	c       *Client
	id      uint32
	version uint32
}

// ID returns the object identifier.
func (p *proxy) ID() uint32 { return p.id }

// Version returns the bound interface version.
func (p *proxy) Version() uint32 { return p.version }

func (p *proxy) request(opcode uint16) *request { return newRequest(p.id, opcode) }

func (p *proxy) destroy(opcode uint16) {
	if p.id == 0 {
		return
	}
	p.c.send(p.request(opcode))
	p.c.forget(p.id)
	p.id = 0
}

// dispatch ignores every event; proxies with events override it.
func (p *proxy) dispatch(uint16, *eventReader) {}

// Display is the wl_display singleton.
type Display struct {
	proxy
}

// Sync requests a callback that fires once all prior requests are handled.
func (d *Display) Sync(done func(data uint32)) *Callback {
	cb := &Callback{done: done}
	cb.proxy = d.c.newProxy(cb, 1)
	r := d.request(displaySync)
	r.putObject(cb.id)
	d.c.send(r)
	return cb
}

// GetRegistry creates the registry that announces globals.
func (d *Display) GetRegistry() *Registry {
	reg := &Registry{}
	reg.proxy = d.c.newProxy(reg, 1)
	r := d.request(displayGetRegistry)
	r.putObject(reg.id)
	d.c.send(r)
	return reg
}

func (d *Display) dispatch(opcode uint16, ev *eventReader) {
	switch opcode {
	case displayEventError:
		e := &ProtocolError{Object: ev.Object(), Code: ev.Uint(), Message: ev.String()}
		if ev.Err() == nil {
			d.c.fail(e)
		}
	case displayEventDeleteID:
		id := ev.Uint()
		if ev.Err() == nil {
			d.c.deleteID(id)
		}
	}
}

// Registry is a wl_registry.
type Registry struct {
	proxy

	OnGlobal       func(name uint32, iface string, version uint32)
	OnGlobalRemove func(name uint32)
}

func (reg *Registry) bind(name uint32, iface string, version uint32, h handler) proxy {
	p := reg.c.newProxy(h, version)
	r := reg.request(registryBind)
	r.putUint(name)
	r.putString(iface)
	r.putUint(version)
	r.putObject(p.id)
	reg.c.send(r)
	return p
}

// BindCompositor binds a wl_compositor global.
func (reg *Registry) BindCompositor(name, version uint32) *Compositor {
	o := &Compositor{}
	o.proxy = reg.bind(name, InterfaceCompositor, version, o)
	return o
}

// BindShm binds a wl_shm global.
func (reg *Registry) BindShm(name, version uint32) *Shm {
	o := &Shm{}
	o.proxy = reg.bind(name, InterfaceShm, version, o)
	return o
}

// BindOutput binds a wl_output global.
func (reg *Registry) BindOutput(name, version uint32) *Output {
	o := &Output{}
	o.proxy = reg.bind(name, InterfaceOutput, version, o)
	return o
}

// BindSeat binds a wl_seat global.
func (reg *Registry) BindSeat(name, version uint32) *Seat {
	o := &Seat{}
	o.proxy = reg.bind(name, InterfaceSeat, version, o)
	return o
}

// BindLayerShell binds a zwlr_layer_shell_v1 global.
func (reg *Registry) BindLayerShell(name, version uint32) *LayerShell {
	o := &LayerShell{}
	o.proxy = reg.bind(name, InterfaceLayerShell, version, o)
	return o
}

// Destroy forgets the registry locally; wl_registry has no destructor.
func (reg *Registry) Destroy() {
	reg.c.forget(reg.id)
	reg.id = 0
}

func (reg *Registry) dispatch(opcode uint16, ev *eventReader) {
	switch opcode {
	case registryEventGlobal:
		name, iface, version := ev.Uint(), ev.String(), ev.Uint()
		if ev.Err() == nil && reg.OnGlobal != nil {
			reg.OnGlobal(name, iface, version)
		}
	case registryEventGlobalRemove:
		name := ev.Uint()
		if ev.Err() == nil && reg.OnGlobalRemove != nil {
			reg.OnGlobalRemove(name)
		}
	}
}

// Callback is a one-shot wl_callback. The server destroys it after done.
type Callback struct {
	proxy
	done func(data uint32)
}

func (cb *Callback) dispatch(opcode uint16, ev *eventReader) {
	if opcode != callbackEventDone {
		return
	}
	data := ev.Uint()
	if ev.Err() != nil {
		return
	}
	cb.c.forget(cb.id)
	if cb.done != nil {
		cb.done(data)
	}
}

// Compositor is a wl_compositor.
type Compositor struct {
	proxy
}

// CreateSurface creates a new wl_surface.
func (comp *Compositor) CreateSurface() *Surface {
	s := &Surface{}
	s.proxy = comp.c.newProxy(s, comp.version)
	r := comp.request(compositorCreateSurface)
	r.putObject(s.id)
	comp.c.send(r)
	return s
}

// Release forgets the compositor locally; wl_compositor has no destructor.
func (comp *Compositor) Release() {
	comp.c.forget(comp.id)
	comp.id = 0
}

// Surface is a wl_surface.
type Surface struct {
	proxy
}

// Attach sets the pending buffer. A nil buffer unmaps the surface.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	r := s.request(surfaceAttach)
	if buf != nil {
		r.putObject(buf.id)
	} else {
		r.putObject(0)
	}
	r.putInt(x)
	r.putInt(y)
	s.c.send(r)
}

// Damage marks a region changed, in surface coordinates.
func (s *Surface) Damage(x, y, width, height int32) {
	s.rect(surfaceDamage, x, y, width, height)
}

// DamageBuffer marks a region changed, in buffer coordinates.
func (s *Surface) DamageBuffer(x, y, width, height int32) {
	s.rect(surfaceDamageBuffer, x, y, width, height)
}

func (s *Surface) rect(opcode uint16, x, y, width, height int32) {
	r := s.request(opcode)
	r.putInt(x)
	r.putInt(y)
	r.putInt(width)
	r.putInt(height)
	s.c.send(r)
}

// Frame requests a callback for the next frame.
func (s *Surface) Frame(done func(time uint32)) *Callback {
	cb := &Callback{done: done}
	cb.proxy = s.c.newProxy(cb, 1)
	r := s.request(surfaceFrame)
	r.putObject(cb.id)
	s.c.send(r)
	return cb
}

// SetBufferScale sets the buffer scale factor.
func (s *Surface) SetBufferScale(scale int32) {
	r := s.request(surfaceSetBufferScale)
	r.putInt(scale)
	s.c.send(r)
}

// Commit applies the pending state.
func (s *Surface) Commit() { s.c.send(s.request(surfaceCommit)) }

// Destroy deletes the surface.
func (s *Surface) Destroy() { s.destroy(surfaceDestroy) }

// Shm is a wl_shm.
type Shm struct {
	proxy

	OnFormat func(format uint32)
}

// CreatePool shares fd with the server as a pool of size bytes.
func (shm *Shm) CreatePool(fd int, size int32) *ShmPool {
	p := &ShmPool{}
	p.proxy = shm.c.newProxy(p, shm.version)
	r := shm.request(shmCreatePool)
	r.putObject(p.id)
	r.putFd(fd)
	r.putInt(size)
	shm.c.send(r)
	return p
}

// Release forgets the shm global locally; wl_shm v1 has no destructor.
func (shm *Shm) Release() {
	shm.c.forget(shm.id)
	shm.id = 0
}

func (shm *Shm) dispatch(opcode uint16, ev *eventReader) {
	if opcode != shmEventFormat {
		return
	}
	format := ev.Uint()
	if ev.Err() == nil && shm.OnFormat != nil {
		shm.OnFormat(format)
	}
}

// ShmPool is a wl_shm_pool.
type ShmPool struct {
	proxy
}

// CreateBuffer creates a buffer at offset within the pool.
func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) *Buffer {
	b := &Buffer{}
	b.proxy = p.c.newProxy(b, 1)
	r := p.request(shmPoolCreateBuffer)
	r.putObject(b.id)
	r.putInt(offset)
	r.putInt(width)
	r.putInt(height)
	r.putInt(stride)
	r.putUint(format)
	p.c.send(r)
	return b
}

// Destroy deletes the pool. Buffers created from it stay valid.
func (p *ShmPool) Destroy() { p.destroy(shmPoolDestroy) }

// Buffer is a wl_buffer.
type Buffer struct {
	proxy

	OnRelease func()
}

// Destroy deletes the buffer. It implements shm.Handle; write failures
// surface through Client.Err.
func (b *Buffer) Destroy() error {
	b.destroy(bufferDestroy)
	return nil
}

func (b *Buffer) dispatch(opcode uint16, _ *eventReader) {
	if opcode == bufferEventRelease && b.OnRelease != nil {
		b.OnRelease()
	}
}

// Output is a wl_output.
type Output struct {
	proxy

	OnGeometry func(manufacturer, model string, transform int32)
	OnMode     func(flags uint32, width, height, refresh int32)
	OnDone     func()
	OnScale    func(factor int32)
}

// Release deletes the output object.
func (o *Output) Release() { o.destroy(outputRelease) }

func (o *Output) dispatch(opcode uint16, ev *eventReader) {
	switch opcode {
	case outputEventGeometry:
		_, _ = ev.Int(), ev.Int() // x, y
		_, _ = ev.Int(), ev.Int() // physical size
		_ = ev.Int()              // subpixel
		manufacturer, model, transform := ev.String(), ev.String(), ev.Int()
		if ev.Err() == nil && o.OnGeometry != nil {
			o.OnGeometry(manufacturer, model, transform)
		}
	case outputEventMode:
		flags, w, h, refresh := ev.Uint(), ev.Int(), ev.Int(), ev.Int()
		if ev.Err() == nil && o.OnMode != nil {
			o.OnMode(flags, w, h, refresh)
		}
	case outputEventDone:
		if o.OnDone != nil {
			o.OnDone()
		}
	case outputEventScale:
		factor := ev.Int()
		if ev.Err() == nil && o.OnScale != nil {
			o.OnScale(factor)
		}
	}
}

// Seat is a wl_seat.
type Seat struct {
	proxy

	OnCapabilities func(caps uint32)
	OnName         func(name string)
}

// GetPointer creates the pointer of the seat.
func (s *Seat) GetPointer() *Pointer {
	p := &Pointer{}
	p.proxy = s.c.newProxy(p, s.version)
	r := s.request(seatGetPointer)
	r.putObject(p.id)
	s.c.send(r)
	return p
}

// Release deletes the seat object. Before version 5 the object is only
// dropped locally.
func (s *Seat) Release() {
	if s.version < 5 {
		s.c.forget(s.id)
		s.id = 0
		return
	}
	s.destroy(seatRelease)
}

func (s *Seat) dispatch(opcode uint16, ev *eventReader) {
	switch opcode {
	case seatEventCapabilities:
		caps := ev.Uint()
		if ev.Err() == nil && s.OnCapabilities != nil {
			s.OnCapabilities(caps)
		}
	case seatEventName:
		name := ev.String()
		if ev.Err() == nil && s.OnName != nil {
			s.OnName(name)
		}
	}
}

// Pointer is a wl_pointer. Coordinates are surface-local.
type Pointer struct {
	proxy

	OnEnter        func(serial, surface uint32, x, y Fixed)
	OnLeave        func(serial, surface uint32)
	OnMotion       func(time uint32, x, y Fixed)
	OnButton       func(serial, time, button, state uint32)
	OnAxis         func(time, axis uint32, value Fixed)
	OnAxisDiscrete func(axis uint32, discrete int32)
}

// Release deletes the pointer object. Before version 3 the object is only
// dropped locally.
func (p *Pointer) Release() {
	if p.version < 3 {
		p.c.forget(p.id)
		p.id = 0
		return
	}
	p.destroy(pointerRelease)
}

func (p *Pointer) dispatch(opcode uint16, ev *eventReader) {
	switch opcode {
	case pointerEventEnter:
		serial, surface, x, y := ev.Uint(), ev.Object(), ev.Fixed(), ev.Fixed()
		if ev.Err() == nil && p.OnEnter != nil {
			p.OnEnter(serial, surface, x, y)
		}
	case pointerEventLeave:
		serial, surface := ev.Uint(), ev.Object()
		if ev.Err() == nil && p.OnLeave != nil {
			p.OnLeave(serial, surface)
		}
	case pointerEventMotion:
		time, x, y := ev.Uint(), ev.Fixed(), ev.Fixed()
		if ev.Err() == nil && p.OnMotion != nil {
			p.OnMotion(time, x, y)
		}
	case pointerEventButton:
		serial, time, button, state := ev.Uint(), ev.Uint(), ev.Uint(), ev.Uint()
		if ev.Err() == nil && p.OnButton != nil {
			p.OnButton(serial, time, button, state)
		}
	case pointerEventAxis:
		time, axis, value := ev.Uint(), ev.Uint(), ev.Fixed()
		if ev.Err() == nil && p.OnAxis != nil {
			p.OnAxis(time, axis, value)
		}
	case pointerEventAxisDiscrete:
		axis, discrete := ev.Uint(), ev.Int()
		if ev.Err() == nil && p.OnAxisDiscrete != nil {
			p.OnAxisDiscrete(axis, discrete)
		}
	case pointerEventFrame, pointerEventAxisSource, pointerEventAxisStop:
		// Grouping events carry nothing the indicator needs.
	}
}

// LayerShell is a zwlr_layer_shell_v1.
type LayerShell struct {
	proxy
}

// GetLayerSurface assigns the layer surface role to surface on output.
// A nil output lets the compositor choose.
func (ls *LayerShell) GetLayerSurface(surface *Surface, output *Output, layer uint32, namespace string) *LayerSurface {
	l := &LayerSurface{}
	l.proxy = ls.c.newProxy(l, ls.version)
	r := ls.request(layerShellGetLayerSurface)
	r.putObject(l.id)
	r.putObject(surface.id)
	if output != nil {
		r.putObject(output.id)
	} else {
		r.putObject(0)
	}
	r.putUint(layer)
	r.putString(namespace)
	ls.c.send(r)
	return l
}

// Destroy deletes the layer shell object.
func (ls *LayerShell) Destroy() { ls.destroy(layerShellDestroy) }

// LayerSurface is a zwlr_layer_surface_v1.
type LayerSurface struct {
	proxy

	OnConfigure func(serial, width, height uint32)
	OnClosed    func()
}

// SetSize requests a size; zero means the compositor decides along anchored
// axes.
func (l *LayerSurface) SetSize(width, height uint32) {
	r := l.request(layerSurfaceSetSize)
	r.putUint(width)
	r.putUint(height)
	l.c.send(r)
}

// SetAnchor anchors the surface to the given edges.
func (l *LayerSurface) SetAnchor(anchor uint32) {
	r := l.request(layerSurfaceSetAnchor)
	r.putUint(anchor)
	l.c.send(r)
}

// SetExclusiveZone reserves space; -1 ignores other surfaces' zones.
func (l *LayerSurface) SetExclusiveZone(zone int32) {
	r := l.request(layerSurfaceSetExclusiveZone)
	r.putInt(zone)
	l.c.send(r)
}

// SetKeyboardInteractivity controls keyboard focus.
func (l *LayerSurface) SetKeyboardInteractivity(mode uint32) {
	r := l.request(layerSurfaceSetKeyboardInteractivity)
	r.putUint(mode)
	l.c.send(r)
}

// AckConfigure acknowledges the configure event with the given serial.
func (l *LayerSurface) AckConfigure(serial uint32) {
	r := l.request(layerSurfaceAckConfigure)
	r.putUint(serial)
	l.c.send(r)
}

// Destroy deletes the layer surface.
func (l *LayerSurface) Destroy() { l.destroy(layerSurfaceDestroy) }

func (l *LayerSurface) dispatch(opcode uint16, ev *eventReader) {
	switch opcode {
	case layerSurfaceEventConfigure:
		serial, w, h := ev.Uint(), ev.Uint(), ev.Uint()
		if ev.Err() == nil && l.OnConfigure != nil {
			l.OnConfigure(serial, w, h)
		}
	case layerSurfaceEventClosed:
		if l.OnClosed != nil {
			l.OnClosed()
		}
	}
}
