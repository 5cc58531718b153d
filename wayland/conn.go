package wayland

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	defaultDisplay = "wayland-0"

	// maxFdsPerRead mirrors libwayland's per-message descriptor limit.
	maxFdsPerRead = 28
)

// ErrNoRuntimeDir is returned when a relative display name cannot be
// resolved because XDG_RUNTIME_DIR is unset.
var ErrNoRuntimeDir = errors.New("wayland: XDG_RUNTIME_DIR is not set")

// SocketPath resolves a display name the way libwayland does. An empty name
// falls back to $WAYLAND_DISPLAY and then to "wayland-0". Absolute names are
// used as-is; others are joined to $XDG_RUNTIME_DIR.
func SocketPath(name string) (string, error) {
	if name == "" {
		name = os.Getenv("WAYLAND_DISPLAY")
	}
	if name == "" {
		name = defaultDisplay
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return "", ErrNoRuntimeDir
	}
	return filepath.Join(dir, name), nil
}

// Conn is a Wayland socket. Writes may come from any goroutine; reads must
// come from a single goroutine.
type Conn struct {
	uc *net.UnixConn

	wmu sync.Mutex

	rbuf []byte
	oob  []byte

	// Received descriptors are queued apart from the byte stream; a
	// message's signature decides how many it takes.
	fdmu sync.Mutex
	fds  []int
}

// Connect dials the compositor socket named by name (see SocketPath).
func Connect(name string) (*Conn, error) {
	path, err := SocketPath(name)
	if err != nil {
		return nil, err
	}
	uc, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("wayland: connect %s: %w", path, err)
	}
	return newConn(uc), nil
}

func newConn(uc *net.UnixConn) *Conn {
	return &Conn{
		uc:  uc,
		oob: make([]byte, unix.CmsgSpace(maxFdsPerRead*4)),
	}
}

// WriteMessage sends one encoded message, passing fds as SCM_RIGHTS.
func (c *Conn) WriteMessage(data []byte, fds []int) error {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	n, oobn, err := c.uc.WriteMsgUnix(data, oob, nil)
	if err != nil {
		return fmt.Errorf("wayland: write: %w", err)
	}
	if n != len(data) || oobn != len(oob) {
		return fmt.Errorf("wayland: short write (%d/%d bytes, %d/%d oob)", n, len(data), oobn, len(oob))
	}
	return nil
}

// ReadMessage blocks until one complete message has arrived. Descriptors
// that arrive meanwhile are queued for TakeFd.
func (c *Conn) ReadMessage() (Message, error) {
	chunk := make([]byte, maxMessageSize)
	for {
		msg, n, err := splitMessage(c.rbuf)
		if err != nil {
			return Message{}, err
		}
		if n > 0 {
			c.rbuf = c.rbuf[n:]
			return msg, nil
		}

		rn, oobn, _, _, err := c.uc.ReadMsgUnix(chunk, c.oob)
		if oobn > 0 {
			fds := parseRights(c.oob[:oobn])
			c.fdmu.Lock()
			c.fds = append(c.fds, fds...)
			c.fdmu.Unlock()
		}
		if rn > 0 {
			c.rbuf = append(c.rbuf, chunk[:rn]...)
		}
		if err == nil && rn == 0 {
			err = io.EOF
		}
		if err != nil {
			return Message{}, err
		}
	}
}

// TakeFd removes the oldest received descriptor from the queue.
func (c *Conn) TakeFd() (int, bool) {
	c.fdmu.Lock()
	defer c.fdmu.Unlock()
	if len(c.fds) == 0 {
		return -1, false
	}
	fd := c.fds[0]
	c.fds = c.fds[1:]
	return fd, true
}

// DiscardFds closes every queued descriptor.
func (c *Conn) DiscardFds() {
	c.fdmu.Lock()
	fds := c.fds
	c.fds = nil
	c.fdmu.Unlock()
	closeFds(fds)
}

// Close closes the socket and the queued descriptors. A blocked
// ReadMessage returns an error.
func (c *Conn) Close() error {
	c.DiscardFds()
	return c.uc.Close()
}

func parseRights(oob []byte) []int {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil
	}
	var fds []int
	for i := range msgs {
		rights, err := unix.ParseUnixRights(&msgs[i])
		if err != nil {
			continue
		}
		fds = append(fds, rights...)
	}
	return fds
}

func closeFds(fds []int) {
	for _, fd := range fds {
		_ = unix.Close(fd)
	}
}
