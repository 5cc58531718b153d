package wayland

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	headerSize = 8

	// maxMessageSize is the largest message libwayland accepts.
	maxMessageSize = 4096
)

var (
	// ErrMalformed is returned when an event body is shorter than its
	// signature requires.
	ErrMalformed = errors.New("wayland: malformed message")

	// ErrMessageTooLarge is returned when a request does not fit one message.
	ErrMessageTooLarge = errors.New("wayland: message too large")
)

// Fixed is a signed 24.8 fixed-point number.
type Fixed int32

// FixedFrom converts v to fixed point, truncating toward zero.
func FixedFrom(v float64) Fixed { return Fixed(v * 256) }

// Float returns f as a float64.
func (f Fixed) Float() float64 { return float64(f) / 256 }

// Int returns the integer part of f, rounded toward negative infinity.
func (f Fixed) Int() int { return int(f >> 8) }

// Message is one decoded event or request.
type Message struct {
	Sender uint32
	Opcode uint16
	Body   []byte
}

// putHeader writes the 8-byte message header into b.
func putHeader(b []byte, sender uint32, opcode uint16, size int) {
	binary.LittleEndian.PutUint32(b[0:4], sender)
	binary.LittleEndian.PutUint32(b[4:8], uint32(size)<<16|uint32(opcode))
}

// splitMessage cuts the first complete message off buf. n is zero when buf
// does not yet hold a whole message.
func splitMessage(buf []byte) (msg Message, n int, err error) {
	if len(buf) < headerSize {
		return Message{}, 0, nil
	}
	sender := binary.LittleEndian.Uint32(buf[0:4])
	word := binary.LittleEndian.Uint32(buf[4:8])
	size := int(word >> 16)
	if size < headerSize || size%4 != 0 {
		return Message{}, 0, fmt.Errorf("%w: size %d", ErrMalformed, size)
	}
	if len(buf) < size {
		return Message{}, 0, nil
	}
	body := make([]byte, size-headerSize)
	copy(body, buf[headerSize:size])
	return Message{Sender: sender, Opcode: uint16(word), Body: body}, size, nil
}

func padded(n int) int { return (n + 3) &^ 3 }

// request builds one outgoing message.
type request struct {
	sender uint32
	opcode uint16
	body   []byte
	fds    []int
}

func newRequest(sender uint32, opcode uint16) *request {
	return &request{sender: sender, opcode: opcode}
}

func (r *request) putUint(v uint32) {
	r.body = binary.LittleEndian.AppendUint32(r.body, v)
}

func (r *request) putInt(v int32) { r.putUint(uint32(v)) }

func (r *request) putFixed(v Fixed) { r.putUint(uint32(v)) }

// putObject writes an object or new_id argument. Zero is the null object.
func (r *request) putObject(id uint32) { r.putUint(id) }

// putString writes a NUL-terminated string padded to 4 bytes.
func (r *request) putString(s string) {
	n := len(s) + 1
	r.putUint(uint32(n))
	r.body = append(r.body, s...)
	r.body = append(r.body, make([]byte, padded(n)-len(s))...)
}

// putFd queues fd for the ancillary data; it takes no room in the body.
func (r *request) putFd(fd int) { r.fds = append(r.fds, fd) }

// marshal returns the wire form of the request.
func (r *request) marshal() ([]byte, error) {
	size := headerSize + len(r.body)
	if size > maxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}
	out := make([]byte, size)
	putHeader(out, r.sender, r.opcode, size)
	copy(out[headerSize:], r.body)
	return out, nil
}

// fdSource supplies the descriptors received on a connection.
type fdSource interface {
	TakeFd() (int, bool)
}

// eventReader decodes arguments from a message body in order. The first
// failure sticks; later reads return zero values.
type eventReader struct {
	body []byte
	off  int
	fds  fdSource
	err  error
}

func newEventReader(m Message, fds fdSource) *eventReader {
	return &eventReader{body: m.Body, fds: fds}
}

func (e *eventReader) Err() error { return e.err }

func (e *eventReader) take(n int) []byte {
	if e.err != nil {
		return nil
	}
	if n < 0 || e.off+n > len(e.body) {
		e.err = ErrMalformed
		return nil
	}
	b := e.body[e.off : e.off+n]
	e.off += n
	return b
}

func (e *eventReader) Uint() uint32 {
	b := e.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (e *eventReader) Int() int32 { return int32(e.Uint()) }

func (e *eventReader) Fixed() Fixed { return Fixed(e.Uint()) }

func (e *eventReader) Object() uint32 { return e.Uint() }

// String reads a NUL-terminated string. A zero length is the null string.
func (e *eventReader) String() string {
	n := int(e.Uint())
	if n == 0 {
		return ""
	}
	if n > math.MaxInt32 {
		e.err = ErrMalformed
		return ""
	}
	b := e.take(padded(n))
	if b == nil {
		return ""
	}
	if b[n-1] != 0 {
		e.err = fmt.Errorf("%w: unterminated string", ErrMalformed)
		return ""
	}
	return string(b[:n-1])
}

// Fd takes the next received descriptor, or -1 if none is queued.
func (e *eventReader) Fd() int {
	if e.err != nil {
		return -1
	}
	if e.fds != nil {
		if fd, ok := e.fds.TakeFd(); ok {
			return fd
		}
	}
	e.err = fmt.Errorf("%w: missing fd", ErrMalformed)
	return -1
}
