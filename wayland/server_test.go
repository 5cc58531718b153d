//go:build linux

package wayland

import (
	"fmt"
	"net"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func socketPair(t *testing.T) (client, server *Conn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	return fileConn(t, fds[0], "client"), fileConn(t, fds[1], "server")
}

func fileConn(t *testing.T, fd int, name string) *Conn {
	t.Helper()
	f := os.NewFile(uintptr(fd), name)
	defer f.Close()
	c, err := net.FileConn(f)
	require.NoError(t, err)
	return newConn(c.(*net.UnixConn))
}

type fakeGlobal struct {
	name    uint32
	iface   string
	version uint32
}

type fakeBuffer struct {
	id                    uint32
	width, height, stride int32
	format                uint32
}

// fakeServer is a scripted compositor speaking just enough protocol for a
// session: it announces globals, answers binds with the usual burst of
// events and configures every layer surface on its first commit.
type fakeServer struct {
	conn *Conn

	globals []fakeGlobal
	formats []uint32
	scale   int32
	width   uint32
	height  uint32

	mu         sync.Mutex
	objects    map[uint32]string
	requests   []string
	registry   uint32
	outputs    map[uint32]uint32 // global name -> object
	layers     map[uint32]uint32 // surface -> layer surface
	configured map[uint32]bool
	namespaces []string
	layerKinds []uint32
	pointer    uint32
	buffers    []fakeBuffer
	attached   []uint32
	frames     []uint32
	acks       []uint32
	damage     [][4]int32
	scales     []int32
}

func defaultGlobals() []fakeGlobal {
	return []fakeGlobal{
		{1, InterfaceCompositor, 6},
		{2, InterfaceShm, 1},
		{3, InterfaceLayerShell, 4},
		{4, InterfaceOutput, 4},
		{5, InterfaceSeat, 9},
	}
}

func newFakeServer(conn *Conn) *fakeServer {
	return &fakeServer{
		conn:       conn,
		globals:    defaultGlobals(),
		formats:    []uint32{FormatXRGB8888, FormatARGB8888},
		scale:      1,
		width:      800,
		height:     600,
		objects:    map[uint32]string{displayID: "wl_display"},
		outputs:    make(map[uint32]uint32),
		layers:     make(map[uint32]uint32),
		configured: make(map[uint32]bool),
	}
}

func (f *fakeServer) withoutGlobal(iface string) *fakeServer {
	f.globals = slices.DeleteFunc(f.globals, func(g fakeGlobal) bool { return g.iface == iface })
	return f
}

func (f *fakeServer) serve() {
	for {
		m, err := f.conn.ReadMessage()
		if err != nil {
			return
		}
		f.handle(m)
	}
}

func (f *fakeServer) send(sender uint32, opcode uint16, args func(r *request)) {
	r := newRequest(sender, opcode)
	if args != nil {
		args(r)
	}
	data, err := r.marshal()
	if err != nil {
		panic(err)
	}
	_ = f.conn.WriteMessage(data, nil)
}

func (f *fakeServer) deleteID(id uint32) {
	f.send(displayID, displayEventDeleteID, func(r *request) { r.putUint(id) })
}

func (f *fakeServer) sawRequest(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.requests, name)
}

func (f *fakeServer) handle(m Message) {
	f.mu.Lock()
	defer f.mu.Unlock()

	iface := f.objects[m.Sender]
	f.requests = append(f.requests, fmt.Sprintf("%s#%d", iface, m.Opcode))
	ev := newEventReader(m, f.conn)

	switch iface {
	case "wl_display":
		switch m.Opcode {
		case displaySync:
			cb := ev.Uint()
			f.send(cb, callbackEventDone, func(r *request) { r.putUint(0) })
			f.deleteID(cb)
		case displayGetRegistry:
			f.registry = ev.Uint()
			f.objects[f.registry] = "wl_registry"
			for _, g := range f.globals {
				f.send(f.registry, registryEventGlobal, func(r *request) {
					r.putUint(g.name)
					r.putString(g.iface)
					r.putUint(g.version)
				})
			}
		}

	case "wl_registry":
		name, bound, _, id := ev.Uint(), ev.String(), ev.Uint(), ev.Uint()
		f.objects[id] = bound
		f.bind(name, bound, id)

	case InterfaceCompositor:
		f.objects[ev.Uint()] = "wl_surface"

	case InterfaceLayerShell:
		if m.Opcode == layerShellGetLayerSurface {
			id, surface, _ := ev.Uint(), ev.Object(), ev.Object()
			f.layerKinds = append(f.layerKinds, ev.Uint())
			f.namespaces = append(f.namespaces, ev.String())
			f.objects[id] = "zwlr_layer_surface_v1"
			f.layers[surface] = id
		}

	case "wl_surface":
		switch m.Opcode {
		case surfaceAttach:
			f.attached = append(f.attached, ev.Object())
		case surfaceFrame:
			cb := ev.Uint()
			f.objects[cb] = "wl_callback"
			f.frames = append(f.frames, cb)
		case surfaceDamageBuffer:
			f.damage = append(f.damage, [4]int32{ev.Int(), ev.Int(), ev.Int(), ev.Int()})
		case surfaceSetBufferScale:
			f.scales = append(f.scales, ev.Int())
		case surfaceCommit:
			layer, ok := f.layers[m.Sender]
			if ok && !f.configured[m.Sender] {
				f.configured[m.Sender] = true
				f.send(layer, layerSurfaceEventConfigure, func(r *request) {
					r.putUint(m.Sender)
					r.putUint(f.width)
					r.putUint(f.height)
				})
			}
		case surfaceDestroy:
			f.deleteID(m.Sender)
		}

	case InterfaceShm:
		id, fd, _ := ev.Uint(), ev.Fd(), ev.Int()
		if fd >= 0 {
			_ = unix.Close(fd)
		}
		f.objects[id] = "wl_shm_pool"

	case "wl_shm_pool":
		switch m.Opcode {
		case shmPoolCreateBuffer:
			b := fakeBuffer{id: ev.Uint()}
			_ = ev.Int()
			b.width, b.height, b.stride, b.format = ev.Int(), ev.Int(), ev.Int(), ev.Uint()
			f.objects[b.id] = "wl_buffer"
			f.buffers = append(f.buffers, b)
		case shmPoolDestroy:
			f.deleteID(m.Sender)
		}

	case "wl_buffer":
		f.deleteID(m.Sender)

	case InterfaceSeat:
		if m.Opcode == seatGetPointer {
			f.pointer = ev.Uint()
			f.objects[f.pointer] = "wl_pointer"
		}

	case "zwlr_layer_surface_v1":
		if m.Opcode == layerSurfaceAckConfigure {
			f.acks = append(f.acks, ev.Uint())
		}
	}
}

func (f *fakeServer) bind(name uint32, iface string, id uint32) {
	switch iface {
	case InterfaceShm:
		for _, format := range f.formats {
			f.send(id, shmEventFormat, func(r *request) { r.putUint(format) })
		}
	case InterfaceOutput:
		f.outputs[name] = id
		f.send(id, outputEventGeometry, func(r *request) {
			r.putInt(0)
			r.putInt(0)
			r.putInt(600)
			r.putInt(340)
			r.putInt(0)
			r.putString("ACME")
			r.putString("Halo 1")
			r.putInt(0)
		})
		f.send(id, outputEventMode, func(r *request) {
			r.putUint(OutputModeCurrent)
			r.putInt(1920)
			r.putInt(1080)
			r.putInt(60000)
		})
		f.send(id, outputEventScale, func(r *request) { r.putInt(f.scale) })
		f.send(id, outputEventDone, nil)
	case InterfaceSeat:
		f.send(id, seatEventCapabilities, func(r *request) { r.putUint(SeatCapabilityPointer) })
	}
}
