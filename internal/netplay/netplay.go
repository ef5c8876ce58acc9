// Package netplay carries move records between the two hosts of a network
// game. The hosting side plays White and listens; the joining side plays
// Black and connects. Each record is one movelog.Entry in its seven byte
// wire form.
package netplay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/movelog"
	"github.com/hailam/simplechess/internal/obslog"
)

// ErrTransport wraps every listen, accept, dial, send and receive failure.
var ErrTransport = errors.New("netplay: transport error")

// Transport names.
const (
	TCP       = "tcp"
	WebSocket = "websocket"
)

// Conn is an established connection to the other host.
type Conn interface {
	Send(ctx context.Context, e movelog.Entry) error
	Receive(ctx context.Context) (movelog.Entry, error)
	Close() error
	RemoteAddr() string
}

// Options describe where to listen or connect.
type Options struct {
	Transport string
	Host      string
	Port      int
	Path      string // websocket only
}

// Addr returns host:port.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// URL returns the websocket URL a guest dials.
func (o Options) URL() string {
	path := o.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "ws://" + o.Addr() + path
}

// Host listens on opts and waits for a single guest.
func Host(ctx context.Context, opts Options) (Conn, error) {
	obslog.L().Info("netplay_listen",
		zap.String("transport", opts.Transport),
		zap.String("addr", opts.Addr()),
	)

	switch opts.Transport {
	case TCP, "":
		ln, err := ListenTCP(opts.Addr())
		if err != nil {
			return nil, err
		}
		defer ln.Close()
		c, err := ln.Accept(ctx)
		if err != nil {
			return nil, err
		}
		return connected(c), nil
	case WebSocket:
		ln, err := ListenWebSocket(opts.Addr(), opts.Path)
		if err != nil {
			return nil, err
		}
		defer ln.Close()
		c, err := ln.Accept(ctx)
		if err != nil {
			return nil, err
		}
		return connected(c), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrTransport, opts.Transport)
	}
}

// Join connects to a hosting player.
func Join(ctx context.Context, opts Options) (Conn, error) {
	obslog.L().Info("netplay_dial",
		zap.String("transport", opts.Transport),
		zap.String("addr", opts.Addr()),
	)

	switch opts.Transport {
	case TCP, "":
		c, err := DialTCP(ctx, opts.Addr())
		if err != nil {
			return nil, err
		}
		return connected(c), nil
	case WebSocket:
		c, err := DialWebSocket(ctx, opts.URL())
		if err != nil {
			return nil, err
		}
		return connected(c), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrTransport, opts.Transport)
	}
}

func connected(c Conn) Conn {
	obslog.L().Info("netplay_peer_connected", zap.String("remote", c.RemoteAddr()))
	return c
}
