package netplay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/hailam/simplechess/internal/movelog"
	"github.com/hailam/simplechess/internal/obslog"
)

// WSListener serves a single websocket endpoint and hands the first
// connection to Accept. Later connection attempts are refused.
type WSListener struct {
	ln    net.Listener
	srv   *http.Server
	conns chan *WSConn
	once  sync.Once
}

// ListenWebSocket starts an HTTP server on addr that upgrades requests to path.
func ListenWebSocket(addr, path string) (*WSListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %w", ErrTransport, addr, err)
	}
	if path == "" {
		path = "/"
	}

	l := &WSListener{
		ln:    ln,
		conns: make(chan *WSConn, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, l.handle)
	l.srv = &http.Server{Handler: mux}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Warn("netplay_ws_serve", zap.Error(err))
		}
	}()
	return l, nil
}

func (l *WSListener) handle(w http.ResponseWriter, r *http.Request) {
	taken := true
	l.once.Do(func() { taken = false })
	if taken {
		http.Error(w, "game already has two players", http.StatusConflict)
		return
	}

	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		obslog.L().Warn("netplay_ws_accept", zap.Error(err))
		return
	}
	c := newWSConn(ws, r.RemoteAddr)
	l.conns <- c

	// The connection is hijacked; hold the handler until the game ends.
	<-c.closed
}

// Addr returns the bound address.
func (l *WSListener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept waits for the guest.
func (l *WSListener) Accept(ctx context.Context) (*WSConn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: accept: %w", ErrTransport, ctx.Err())
	}
}

// Close stops the HTTP server. An accepted connection stays open.
func (l *WSListener) Close() error {
	return l.srv.Close()
}

// DialWebSocket connects to a hosting player at url.
func DialWebSocket(ctx context.Context, url string) (*WSConn, error) {
	ws, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrTransport, url, err)
	}
	return newWSConn(ws, url), nil
}

// WSConn exchanges one binary message per record.
type WSConn struct {
	ws     *websocket.Conn
	remote string

	closed    chan struct{}
	closeOnce sync.Once
}

func newWSConn(ws *websocket.Conn, remote string) *WSConn {
	return &WSConn{ws: ws, remote: remote, closed: make(chan struct{})}
}

// RemoteAddr returns the peer address or URL.
func (c *WSConn) RemoteAddr() string {
	return c.remote
}

// Send writes one record.
func (c *WSConn) Send(ctx context.Context, e movelog.Entry) error {
	payload, err := e.MarshalBinary()
	if err != nil {
		return err
	}
	if err := c.ws.Write(ctx, websocket.MessageBinary, payload); err != nil {
		return fmt.Errorf("%w: send: %w", ErrTransport, err)
	}
	return nil
}

// Receive blocks until one record arrives. Cancelling ctx closes the connection.
func (c *WSConn) Receive(ctx context.Context) (movelog.Entry, error) {
	typ, payload, err := c.ws.Read(ctx)
	if err != nil {
		return movelog.Entry{}, fmt.Errorf("%w: receive: %w", ErrTransport, err)
	}
	if typ != websocket.MessageBinary {
		return movelog.Entry{}, fmt.Errorf("%w: text message", movelog.ErrMalformed)
	}

	var e movelog.Entry
	if err := e.UnmarshalBinary(payload); err != nil {
		return movelog.Entry{}, err
	}
	return e, nil
}

// Close performs the closing handshake.
func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.ws.Close(websocket.StatusNormalClosure, "game over")
		close(c.closed)
	})
	return err
}
