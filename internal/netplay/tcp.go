package netplay

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/hailam/simplechess/internal/movelog"
)

// frameHeaderSize is the big-endian length prefix in front of every record,
// the same layout an SFML packet uses on a TCP socket.
const frameHeaderSize = 4

// TCPListener waits for the guest of a TCP game.
type TCPListener struct {
	ln net.Listener
}

// ListenTCP starts listening on addr.
func ListenTCP(addr string) (*TCPListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %w", ErrTransport, addr, err)
	}
	return &TCPListener{ln: ln}, nil
}

// Addr returns the bound address.
func (l *TCPListener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept waits for one connection. Cancelling ctx closes the listener.
func (l *TCPListener) Accept(ctx context.Context) (*TCPConn, error) {
	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()

	c, err := l.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: accept: %w", ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: accept: %w", ErrTransport, err)
	}
	return newTCPConn(c), nil
}

// Close stops listening. An accepted connection stays open.
func (l *TCPListener) Close() error {
	return l.ln.Close()
}

// DialTCP connects to a hosting player.
func DialTCP(ctx context.Context, addr string) (*TCPConn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrTransport, addr, err)
	}
	return newTCPConn(c), nil
}

// TCPConn exchanges length-prefixed records over a TCP stream.
type TCPConn struct {
	conn net.Conn
	r    *bufio.Reader
}

func newTCPConn(c net.Conn) *TCPConn {
	return &TCPConn{conn: c, r: bufio.NewReader(c)}
}

// RemoteAddr returns the peer address.
func (c *TCPConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Send writes one record.
func (c *TCPConn) Send(ctx context.Context, e movelog.Entry) error {
	payload, err := e.MarshalBinary()
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() { c.conn.SetWriteDeadline(time.Unix(1, 0)) })
	defer stop()

	frame := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[frameHeaderSize:], payload)

	if _, err := c.conn.Write(frame); err != nil {
		return c.wrap(ctx, "send", err)
	}
	return nil
}

// Receive blocks until one record arrives. Cancelling ctx aborts the read.
func (c *TCPConn) Receive(ctx context.Context) (movelog.Entry, error) {
	c.conn.SetReadDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() { c.conn.SetReadDeadline(time.Unix(1, 0)) })
	defer stop()

	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		return movelog.Entry{}, c.wrap(ctx, "receive", err)
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n != movelog.RecordSize {
		return movelog.Entry{}, fmt.Errorf("%w: frame of %d bytes", movelog.ErrMalformed, n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return movelog.Entry{}, c.wrap(ctx, "receive", err)
	}

	var e movelog.Entry
	if err := e.UnmarshalBinary(payload); err != nil {
		return movelog.Entry{}, err
	}
	return e, nil
}

// Close closes the connection.
func (c *TCPConn) Close() error {
	return c.conn.Close()
}

func (c *TCPConn) wrap(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, op, ctxErr)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: peer disconnected: %w", ErrTransport, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
