package wayland

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/compositor"
	"github.com/gogpu/halo/render"
	"github.com/gogpu/halo/shm"
)

var (
	// ErrMissingGlobal is returned by Setup when the compositor does not
	// offer a required interface at a usable version.
	ErrMissingGlobal = errors.New("wayland: required global missing")

	// ErrUnsupportedFormat is returned by Setup when wl_shm does not
	// advertise ARGB8888.
	ErrUnsupportedFormat = errors.New("wayland: ARGB8888 shm format not supported")

	errNoFd = errors.New("wayland: memory has no file descriptor")
)

// LayerNamespace is the namespace of every overlay layer surface.
const LayerNamespace = "mouse_halo"

// Options configures a Session.
type Options struct {
	// Render sets the indicator geometry and color.
	Render render.Options

	// Background paints the overlay. Nil means translucent black.
	Background compositor.Background

	// Allocator reserves buffer memory. Nil means shm.MemfdAllocator.
	Allocator shm.Allocator

	// Pool holds extra buffer pool options.
	Pool []shm.Option
}

// Session drives one overlay per output over a single connection.
type Session struct {
	c *Client

	registry   *Registry
	compositor *Compositor
	shm        *Shm
	layerShell *LayerShell
	argb8888   bool

	heads []*head
	seats []*seat

	// ready is set once the compositor and layer shell are known, so
	// outputs announced later get a surface immediately.
	ready  bool
	nextID uint64

	pool    *shm.Pool
	outputs *render.Outputs
}

// head is one wl_output and the overlay drawn on it. It implements
// render.Surface.
type head struct {
	name    uint32
	output  *Output
	surface *Surface
	layer   *LayerSurface
	state   *render.Output
}

type seat struct {
	name    uint32
	seat    *Seat
	pointer *Pointer
}

// NewSession prepares a session on conn. Nothing is sent until Setup.
func NewSession(conn *Conn, opts Options) *Session {
	alloc := opts.Allocator
	if alloc == nil {
		alloc = shm.MemfdAllocator{}
	}
	s := &Session{c: NewClient(conn)}
	s.pool = shm.NewPool(alloc, s, opts.Pool...)
	s.outputs = render.NewOutputs(s.pool, opts.Background, opts.Render)
	return s
}

// Outputs returns the render states of the known outputs.
func (s *Session) Outputs() *render.Outputs { return s.outputs }

// Pool returns the buffer pool shared by all outputs.
func (s *Session) Pool() *shm.Pool { return s.pool }

// Setup binds the globals, creates an overlay on every output and checks
// the pixel format. Missing globals and a missing format are fatal.
func (s *Session) Setup(ctx context.Context) error {
	s.registry = s.c.Display().GetRegistry()
	s.registry.OnGlobal = s.global
	s.registry.OnGlobalRemove = s.globalRemove

	if err := s.c.Roundtrip(ctx); err != nil {
		return fmt.Errorf("wayland: list globals: %w", err)
	}

	switch {
	case s.compositor == nil:
		return fmt.Errorf("%w: %s v%d", ErrMissingGlobal, InterfaceCompositor, compositorVersion)
	case s.shm == nil:
		return fmt.Errorf("%w: %s v%d", ErrMissingGlobal, InterfaceShm, shmVersion)
	case s.layerShell == nil:
		return fmt.Errorf("%w: %s v%d", ErrMissingGlobal, InterfaceLayerShell, layerShellVersion)
	}

	s.ready = true
	for _, h := range s.heads {
		s.createOverlay(h)
	}

	if err := s.c.Roundtrip(ctx); err != nil {
		return fmt.Errorf("wayland: create overlays: %w", err)
	}
	if !s.argb8888 {
		return ErrUnsupportedFormat
	}

	halo.Logger().Info("wayland: session ready", "outputs", len(s.heads), "seats", len(s.seats))
	return nil
}

// Run dispatches events until the context is done, the pointer asks to
// quit, the compositor hangs up or a protocol error arrives. The first two
// are a normal exit and return nil.
func (s *Session) Run(ctx context.Context) error {
	ptr := s.outputs.Pointer()
	for !ptr.QuitRequested() {
		if err := s.c.Next(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				halo.Logger().Info("wayland: stopping", "reason", err)
				return nil
			}
			return err
		}
	}
	halo.Logger().Info("wayland: quit requested by pointer")
	return nil
}

// Close tears down every object, frees the buffers and closes the
// connection.
func (s *Session) Close() error {
	for _, h := range slices.Clone(s.heads) {
		s.removeHead(h)
	}
	for _, st := range s.seats {
		if st.pointer != nil {
			st.pointer.Release()
		}
		st.seat.Release()
	}
	s.seats = nil

	poolErr := s.pool.Close()

	if s.layerShell != nil {
		s.layerShell.Destroy()
	}
	if s.shm != nil {
		s.shm.Release()
	}
	if s.compositor != nil {
		s.compositor.Release()
	}
	if s.registry != nil {
		s.registry.Destroy()
	}
	return errors.Join(poolErr, s.c.Close())
}

// Export implements shm.Exporter. The descriptor is sent before Export
// returns, so the caller may close it afterwards.
func (s *Session) Export(mem shm.Memory, width, height, stride int, format uint32, onRelease func()) (shm.Handle, error) {
	if s.shm == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingGlobal, InterfaceShm)
	}
	fd := mem.Fd()
	if fd < 0 {
		return nil, errNoFd
	}
	size := len(mem.Bytes())
	if size > math.MaxInt32 {
		return nil, fmt.Errorf("wayland: buffer of %d bytes too large", size)
	}

	pool := s.shm.CreatePool(fd, int32(size))
	buf := pool.CreateBuffer(0, int32(width), int32(height), int32(stride), format)
	pool.Destroy()

	if err := s.c.Err(); err != nil {
		_ = buf.Destroy()
		return nil, fmt.Errorf("wayland: export buffer: %w", err)
	}
	buf.OnRelease = onRelease
	return buf, nil
}

var _ shm.Exporter = (*Session)(nil)

func (s *Session) global(name uint32, iface string, version uint32) {
	log := halo.Logger()
	switch iface {
	case InterfaceCompositor:
		if s.compositor != nil || !s.versionOK(iface, version, compositorVersion) {
			return
		}
		s.compositor = s.registry.BindCompositor(name, compositorVersion)
	case InterfaceShm:
		if s.shm != nil || !s.versionOK(iface, version, shmVersion) {
			return
		}
		s.shm = s.registry.BindShm(name, shmVersion)
		s.shm.OnFormat = func(format uint32) {
			if format == FormatARGB8888 {
				s.argb8888 = true
			}
		}
	case InterfaceLayerShell:
		if s.layerShell != nil || !s.versionOK(iface, version, layerShellVersion) {
			return
		}
		s.layerShell = s.registry.BindLayerShell(name, layerShellVersion)
	case InterfaceOutput:
		if !s.versionOK(iface, version, outputVersion) {
			return
		}
		s.addHead(name)
	case InterfaceSeat:
		s.addSeat(name, min(version, seatVersion))
	default:
		return
	}
	log.Debug("wayland: bound global", "interface", iface, "name", name, "version", version)
}

func (s *Session) versionOK(iface string, have, want uint32) bool {
	if have >= want {
		return true
	}
	halo.Logger().Warn("wayland: global version too old",
		"interface", iface, "version", have, "required", want)
	return false
}

func (s *Session) globalRemove(name uint32) {
	for _, h := range s.heads {
		if h.name == name {
			halo.Logger().Info("wayland: output removed", "name", name)
			s.removeHead(h)
			return
		}
	}
	for i, st := range s.seats {
		if st.name == name {
			if st.pointer != nil {
				st.pointer.Release()
			}
			st.seat.Release()
			s.seats = slices.Delete(s.seats, i, i+1)
			return
		}
	}
}

func (s *Session) addHead(name uint32) {
	s.nextID++
	h := &head{name: name}
	h.output = s.registry.BindOutput(name, outputVersion)
	h.state = s.outputs.Add(s.nextID, h)

	h.output.OnGeometry = func(manufacturer, model string, _ int32) {
		h.state.SetDescription(manufacturer, model)
	}
	h.output.OnMode = func(flags uint32, width, height, _ int32) {
		if flags&OutputModeCurrent != 0 {
			h.state.SetMode(int(width), int(height))
		}
	}
	h.output.OnScale = func(factor int32) { h.state.SetScale(int(factor)) }
	h.output.OnDone = h.state.Done

	s.heads = append(s.heads, h)
	if s.ready {
		s.createOverlay(h)
	}
}

// createOverlay gives h a full-screen overlay layer surface.
func (s *Session) createOverlay(h *head) {
	if h.surface != nil {
		return
	}
	h.surface = s.compositor.CreateSurface()
	h.layer = s.layerShell.GetLayerSurface(h.surface, h.output, LayerOverlay, LayerNamespace)
	h.layer.SetExclusiveZone(-1)
	h.layer.SetKeyboardInteractivity(0)
	h.layer.SetAnchor(AnchorAll)

	h.layer.OnConfigure = func(serial, width, height uint32) {
		h.layer.AckConfigure(serial)
		h.state.Configure(int(width), int(height))
	}
	h.layer.OnClosed = func() {
		halo.Logger().Info("wayland: overlay closed by compositor", "output", h.state.ID())
		s.removeHead(h)
	}
	h.surface.Commit()
}

func (s *Session) removeHead(h *head) {
	i := slices.Index(s.heads, h)
	if i < 0 {
		return
	}
	s.heads = slices.Delete(s.heads, i, i+1)
	s.outputs.Remove(h.state.ID())
	if h.layer != nil {
		h.layer.Destroy()
	}
	if h.surface != nil {
		h.surface.Destroy()
	}
	h.output.Release()
}

func (s *Session) addSeat(name, version uint32) {
	st := &seat{name: name}
	st.seat = s.registry.BindSeat(name, version)
	st.seat.OnCapabilities = func(caps uint32) {
		hasPointer := caps&SeatCapabilityPointer != 0
		switch {
		case hasPointer && st.pointer == nil:
			st.pointer = st.seat.GetPointer()
			s.trackPointer(st.pointer)
		case !hasPointer && st.pointer != nil:
			st.pointer.Release()
			st.pointer = nil
		}
	}
	s.seats = append(s.seats, st)
}

func (s *Session) trackPointer(p *Pointer) {
	ptr := s.outputs.Pointer()
	p.OnEnter = func(_, surface uint32, x, y Fixed) {
		ptr.Enter(s.outputOf(surface), x.Float(), y.Float())
	}
	p.OnLeave = func(uint32, uint32) { ptr.Leave() }
	p.OnMotion = func(_ uint32, x, y Fixed) { ptr.Motion(x.Float(), y.Float()) }
	p.OnButton = func(uint32, uint32, uint32, uint32) { ptr.Button() }
	p.OnAxis = func(uint32, uint32, Fixed) { ptr.Axis() }
	p.OnAxisDiscrete = func(uint32, int32) { ptr.AxisDiscrete() }
}

// outputOf maps a surface to the identifier of its output, or 0.
func (s *Session) outputOf(surface uint32) uint64 {
	for _, h := range s.heads {
		if h.surface != nil && h.surface.ID() == surface {
			return h.state.ID()
		}
	}
	return 0
}

func (h *head) SetBufferScale(scale int) {
	if h.surface != nil {
		h.surface.SetBufferScale(int32(scale))
	}
}

func (h *head) Attach(buf *shm.Buffer) {
	if h.surface == nil {
		return
	}
	wb, _ := buf.Handle().(*Buffer)
	h.surface.Attach(wb, 0, 0)
}

func (h *head) DamageBuffer(r halo.Rect) {
	if h.surface != nil {
		h.surface.DamageBuffer(int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height))
	}
}

func (h *head) Frame(done func()) {
	if h.surface != nil {
		h.surface.Frame(func(uint32) { done() })
	}
}

func (h *head) Commit() {
	if h.surface != nil {
		h.surface.Commit()
	}
}

var _ render.Surface = (*head)(nil)
