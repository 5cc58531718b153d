package wayland

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/gogpu/halo"
)

// ErrHangup is returned once the compositor closes the connection.
var ErrHangup = errors.New("wayland: connection closed by compositor")

// hangup maps the ways a closed socket surfaces to ErrHangup. A peer that
// closes with requests still unread resets the connection instead of
// delivering EOF.
func hangup(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, unix.ECONNRESET) || errors.Is(err, unix.EPIPE) {
		return ErrHangup
	}
	return err
}

// ProtocolError is a fatal wl_display.error event.
type ProtocolError struct {
	Object  uint32
	Code    uint32
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wayland: protocol error on object %d (code %d): %s", e.Object, e.Code, e.Message)
}

// handler receives the events of one object.
type handler interface {
	dispatch(opcode uint16, ev *eventReader)
}

// Client owns the object table of one connection. Every method except Close
// must be called from the goroutine that dispatches events.
type Client struct {
	conn    *Conn
	display *Display

	objects map[uint32]handler
	nextID  uint32
	free    []uint32

	// err is the first write, decode or protocol failure. Once set the
	// client sends nothing more.
	err error

	msgs chan Message
	errc chan error
	done chan struct{}

	closed bool
}

// NewClient wraps conn. The reader goroutine starts with the first
// Roundtrip or Next.
func NewClient(conn *Conn) *Client {
	c := &Client{
		conn:    conn,
		objects: make(map[uint32]handler),
		nextID:  displayID + 1,
	}
	c.display = &Display{proxy: proxy{c: c, id: displayID, version: 1}}
	c.objects[displayID] = c.display
	return c
}

// Display returns the wl_display singleton.
func (c *Client) Display() *Display { return c.display }

// Err returns the error that stopped the client, if any.
func (c *Client) Err() error { return c.err }

func (c *Client) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// register allocates an identifier for h. Identifiers released by the
// server are reused most recent first.
func (c *Client) register(h handler) uint32 {
	var id uint32
	if n := len(c.free); n > 0 {
		id = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		id = c.nextID
		c.nextID++
	}
	c.objects[id] = h
	return id
}

func (c *Client) newProxy(h handler, version uint32) proxy {
	return proxy{c: c, id: c.register(h), version: version}
}

// forget detaches the handler of a destroyed object. The identifier stays
// reserved until the server confirms with delete_id.
func (c *Client) forget(id uint32) {
	if _, ok := c.objects[id]; ok {
		c.objects[id] = nil
	}
}

func (c *Client) deleteID(id uint32) {
	if _, ok := c.objects[id]; !ok {
		return
	}
	delete(c.objects, id)
	c.free = append(c.free, id)
}

func (c *Client) send(r *request) {
	if c.err != nil {
		return
	}
	data, err := r.marshal()
	if err == nil {
		err = c.conn.WriteMessage(data, r.fds)
	}
	if err != nil {
		if h := hangup(err); h == ErrHangup {
			err = fmt.Errorf("wayland: write: %w", h)
		}
		c.fail(err)
	}
}

func (c *Client) start() {
	if c.msgs != nil {
		return
	}
	c.msgs = make(chan Message, 64)
	c.errc = make(chan error, 1)
	c.done = make(chan struct{})
	go c.read(c.msgs, c.errc, c.done)
}

// read runs on its own goroutine and never touches the object table.
func (c *Client) read(msgs chan<- Message, errc chan<- error, done <-chan struct{}) {
	for {
		m, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case errc <- err:
			case <-done:
			}
			return
		}
		select {
		case msgs <- m:
		case <-done:
			return
		}
	}
}

// Next waits for one message and dispatches it. It returns the client error
// or the context error.
func (c *Client) Next(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	c.start()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m := <-c.msgs:
		c.dispatch(m)
	case err := <-c.errc:
		c.fail(fmt.Errorf("wayland: read: %w", hangup(err)))
	}
	return c.err
}

// Roundtrip blocks until the server has processed every request sent so
// far, dispatching events in the meantime.
func (c *Client) Roundtrip(ctx context.Context) error {
	done := false
	c.display.Sync(func(uint32) { done = true })
	for !done {
		if err := c.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) dispatch(m Message) {
	h := c.objects[m.Sender]
	if h == nil {
		halo.Logger().Debug("wayland: event for unknown object",
			"object", m.Sender, "opcode", m.Opcode)
		return
	}
	ev := newEventReader(m, c.conn)
	h.dispatch(m.Opcode, ev)
	if err := ev.Err(); err != nil {
		c.fail(fmt.Errorf("wayland: object %d event %d: %w", m.Sender, m.Opcode, err))
	}
	// None of the bound interfaces receives descriptors.
	c.conn.DiscardFds()
}

// Close stops the reader and closes the connection.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.done != nil {
		close(c.done)
	}
	return c.conn.Close()
}
