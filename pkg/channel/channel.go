// Package channel implements the reliable, ordered, length-framed
// bidirectional byte stream every protocol session runs over, with typed
// helpers for blocks, scalars, group points, and string vectors. It is the
// one network primitive every package in this module is written against;
// cmd/psi and cmd/psu back it with a real net.Conn, tests back it with
// net.Pipe.
package channel

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// maxFrameLen bounds a single length-prefixed frame, guarding against a
// corrupted or adversarial length header turning into an unbounded
// allocation.
const maxFrameLen = 1 << 32

// Chan wraps a net.Conn with length-framed Send/Recv and typed helpers.
// Every protocol session owns exactly one Chan; it is not safe for
// concurrent use from more than one goroutine at a time.
type Chan struct {
	conn net.Conn
	id   uuid.UUID
	log  zerolog.Logger
}

// Dial connects to a listening peer at addr, the Receiver-side connection
// idiom cmd/psi and cmd/psu use when given a peer address.
func Dial(addr string) (*Chan, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("channel: Dial: %w", protoerr.ErrIO)
	}
	return newChan(conn), nil
}

// Listen binds addr and accepts exactly one connection, then stops
// listening — each protocol invocation is a single two-party session.
func Listen(addr string) (*Chan, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("channel: Listen: %w", protoerr.ErrIO)
	}
	defer ln.Close()

	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("channel: Accept: %w", protoerr.ErrIO)
	}
	return newChan(conn), nil
}

// Wrap adapts an already-established net.Conn (e.g. one half of a
// net.Pipe(), used by in-process test harnesses) into a Chan.
func Wrap(conn net.Conn) *Chan {
	return newChan(conn)
}

func newChan(conn net.Conn) *Chan {
	id := uuid.New()
	return &Chan{
		conn: conn,
		id:   id,
		log:  zerolog.New(zerolog.NewConsoleWriter()).With().Str("channel", id.String()).Logger(),
	}
}

// Log returns the session-correlated logger for this channel.
func (c *Chan) Log() *zerolog.Logger { return &c.log }

// Close closes the underlying connection.
func (c *Chan) Close() error { return c.conn.Close() }

// SendBytes writes data as one length-prefixed frame: a 4-byte big-endian
// length followed by the payload. The send is atomic from the application's
// view — either the whole frame reaches the peer or the session fails.
func (c *Chan) SendBytes(data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := c.conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("channel: SendBytes: %w", protoerr.ErrIO)
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("channel: SendBytes: %w", protoerr.ErrIO)
	}
	return nil
}

// RecvBytes reads one length-prefixed frame.
func (c *Chan) RecvBytes() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.conn, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("channel: RecvBytes: %w", protoerr.ErrProtocolAborted)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if uint64(n) > maxFrameLen {
		return nil, fmt.Errorf("channel: RecvBytes: frame too large (%d bytes): %w", n, protoerr.ErrDimension)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return nil, fmt.Errorf("channel: RecvBytes: %w", protoerr.ErrProtocolAborted)
	}
	return buf, nil
}

// SendBlocks sends a length-prefixed vector of blocks.
func (c *Chan) SendBlocks(blocks []block.Block) error {
	buf := make([]byte, 4+16*len(blocks))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(blocks)))
	for i, b := range blocks {
		copy(buf[4+16*i:4+16*(i+1)], b[:])
	}
	return c.SendBytes(buf)
}

// RecvBlocks receives a vector of blocks sent by SendBlocks.
func (c *Chan) RecvBlocks() ([]block.Block, error) {
	buf, err := c.RecvBytes()
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("channel: RecvBlocks: truncated header: %w", protoerr.ErrSerialization)
	}
	n := binary.BigEndian.Uint32(buf[:4])
	if len(buf) != 4+16*int(n) {
		return nil, fmt.Errorf("channel: RecvBlocks: length mismatch: %w", protoerr.ErrSerialization)
	}
	out := make([]block.Block, n)
	for i := range out {
		copy(out[i][:], buf[4+16*i:4+16*(i+1)])
	}
	return out, nil
}

// SendScalars sends a length-prefixed vector of curve scalars.
func (c *Chan) SendScalars(scalars []curve.Scalar) error {
	var buf []byte
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(scalars)))
	buf = append(buf, lenBuf[:]...)
	for _, s := range scalars {
		enc, err := s.MarshalBinary()
		if err != nil {
			return fmt.Errorf("channel: SendScalars: %w", err)
		}
		buf = append(buf, enc...)
	}
	return c.SendBytes(buf)
}

// RecvScalars receives a vector of scalars sent by SendScalars, over the
// given curve.
func (c *Chan) RecvScalars(curv curve.Curve) ([]curve.Scalar, error) {
	buf, err := c.RecvBytes()
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("channel: RecvScalars: truncated header: %w", protoerr.ErrSerialization)
	}
	n := int(binary.BigEndian.Uint32(buf[:4]))
	width := curv.ScalarByteLen()
	rest := buf[4:]
	if len(rest) != n*width {
		return nil, fmt.Errorf("channel: RecvScalars: length mismatch: %w", protoerr.ErrSerialization)
	}
	out := make([]curve.Scalar, n)
	for i := range out {
		s := curv.NewScalar()
		if err := s.UnmarshalBinary(rest[i*width : (i+1)*width]); err != nil {
			return nil, fmt.Errorf("channel: RecvScalars: %w", err)
		}
		out[i] = s
	}
	return out, nil
}

// SendPoints sends a length-prefixed vector of curve points.
func (c *Chan) SendPoints(points []curve.Point) error {
	var buf []byte
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(points)))
	buf = append(buf, lenBuf[:]...)
	for _, p := range points {
		enc, err := p.MarshalBinary()
		if err != nil {
			return fmt.Errorf("channel: SendPoints: %w", err)
		}
		buf = append(buf, enc...)
	}
	return c.SendBytes(buf)
}

// RecvPoints receives a vector of points sent by SendPoints, over the given
// curve.
func (c *Chan) RecvPoints(curv curve.Curve) ([]curve.Point, error) {
	buf, err := c.RecvBytes()
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("channel: RecvPoints: truncated header: %w", protoerr.ErrSerialization)
	}
	n := int(binary.BigEndian.Uint32(buf[:4]))
	width := curv.PointByteLen()
	rest := buf[4:]
	if len(rest) != n*width {
		return nil, fmt.Errorf("channel: RecvPoints: length mismatch: %w", protoerr.ErrSerialization)
	}
	out := make([]curve.Point, n)
	for i := range out {
		p := curv.NewPoint()
		if err := p.UnmarshalBinary(rest[i*width : (i+1)*width]); err != nil {
			return nil, fmt.Errorf("channel: RecvPoints: %w", err)
		}
		out[i] = p
	}
	return out, nil
}

// SendStrings sends a length-prefixed vector of length-prefixed strings.
func (c *Chan) SendStrings(values []string) error {
	var buf []byte
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(values)))
	buf = append(buf, lenBuf[:]...)
	for _, v := range values {
		var vLen [4]byte
		binary.BigEndian.PutUint32(vLen[:], uint32(len(v)))
		buf = append(buf, vLen[:]...)
		buf = append(buf, []byte(v)...)
	}
	return c.SendBytes(buf)
}

// RecvStrings receives a vector of strings sent by SendStrings.
func (c *Chan) RecvStrings() ([]string, error) {
	buf, err := c.RecvBytes()
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("channel: RecvStrings: truncated header: %w", protoerr.ErrSerialization)
	}
	n := int(binary.BigEndian.Uint32(buf[:4]))
	rest := buf[4:]
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if len(rest) < 4 {
			return nil, fmt.Errorf("channel: RecvStrings: truncated entry: %w", protoerr.ErrSerialization)
		}
		vLen := int(binary.BigEndian.Uint32(rest[:4]))
		rest = rest[4:]
		if len(rest) < vLen {
			return nil, fmt.Errorf("channel: RecvStrings: truncated entry: %w", protoerr.ErrSerialization)
		}
		out[i] = string(rest[:vLen])
		rest = rest[vLen:]
	}
	return out, nil
}

// BitMatrix-specific send/recv is intentionally omitted: matrices are
// session-internal to pkg/ot and are never sent as a unit — only their
// constituent blocks and correction vectors cross the wire, via
// SendBlocks/SendBytes.
