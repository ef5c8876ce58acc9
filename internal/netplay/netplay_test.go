package netplay

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/game"
	"github.com/hailam/simplechess/internal/movelog"
)

var (
	knightOut = movelog.Entry{Piece: board.WhiteKnight, From: board.Sq(1, 7), To: board.Sq(2, 5)}
	pawnTake  = movelog.Entry{Piece: board.BlackPawn, From: board.Sq(3, 4), Kind: movelog.KindCapture, Captured: board.WhiteKnight, To: board.Sq(2, 5)}
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// exchange sends one entry each way and checks they arrive unchanged.
func exchange(t *testing.T, ctx context.Context, host, guest Conn) {
	t.Helper()

	if err := host.Send(ctx, knightOut); err != nil {
		t.Fatalf("host Send: %v", err)
	}
	got, err := guest.Receive(ctx)
	if err != nil {
		t.Fatalf("guest Receive: %v", err)
	}
	if got != knightOut {
		t.Errorf("guest got %+v, want %+v", got, knightOut)
	}

	if err := guest.Send(ctx, pawnTake); err != nil {
		t.Fatalf("guest Send: %v", err)
	}
	got, err = host.Receive(ctx)
	if err != nil {
		t.Fatalf("host Receive: %v", err)
	}
	if got != pawnTake {
		t.Errorf("host got %+v, want %+v", got, pawnTake)
	}
}

func tcpPair(t *testing.T, ctx context.Context) (*TCPConn, *TCPConn) {
	t.Helper()
	ln, err := ListenTCP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	defer ln.Close()

	type result struct {
		c   *TCPConn
		err error
	}
	accepted := make(chan result, 1)
	go func() {
		c, err := ln.Accept(ctx)
		accepted <- result{c, err}
	}()

	guest, err := DialTCP(ctx, ln.Addr().String())
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	r := <-accepted
	if r.err != nil {
		t.Fatalf("Accept: %v", r.err)
	}
	t.Cleanup(func() {
		r.c.Close()
		guest.Close()
	})
	return r.c, guest
}

func TestTCP(t *testing.T) {
	ctx := testContext(t)

	t.Run("Exchange", func(t *testing.T) {
		host, guest := tcpPair(t, ctx)
		exchange(t, ctx, host, guest)
	})

	t.Run("FrameLayout", func(t *testing.T) {
		ln, err := ListenTCP("127.0.0.1:0")
		if err != nil {
			t.Fatalf("ListenTCP: %v", err)
		}
		defer ln.Close()

		go func() {
			c, err := DialTCP(ctx, ln.Addr().String())
			if err != nil {
				return
			}
			defer c.Close()
			c.Send(ctx, knightOut)
		}()

		raw, err := ln.ln.Accept()
		if err != nil {
			t.Fatalf("Accept: %v", err)
		}
		defer raw.Close()
		raw.SetReadDeadline(time.Now().Add(2 * time.Second))

		buf := make([]byte, 11)
		if _, err := readFull(raw, buf); err != nil {
			t.Fatalf("read: %v", err)
		}
		if n := binary.BigEndian.Uint32(buf[:4]); n != 7 {
			t.Errorf("length prefix = %d, want 7", n)
		}
		want := []byte{3, 1, 7, 0, 0, 2, 5}
		for i, b := range want {
			if buf[4+i] != b {
				t.Fatalf("payload = %v, want %v", buf[4:], want)
			}
		}
	})

	t.Run("BadFrameLength", func(t *testing.T) {
		host, guest := tcpPair(t, ctx)
		var frame [frameHeaderSize + 3]byte
		binary.BigEndian.PutUint32(frame[:], 3)
		if _, err := guest.conn.Write(frame[:]); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if _, err := host.Receive(ctx); !errors.Is(err, movelog.ErrMalformed) {
			t.Errorf("got %v, want ErrMalformed", err)
		}
	})

	t.Run("PeerClosed", func(t *testing.T) {
		host, guest := tcpPair(t, ctx)
		guest.Close()
		if _, err := host.Receive(ctx); !errors.Is(err, ErrTransport) {
			t.Errorf("got %v, want ErrTransport", err)
		}
	})

	t.Run("ReceiveCancelled", func(t *testing.T) {
		host, _ := tcpPair(t, ctx)
		cctx, cancel := context.WithCancel(ctx)
		time.AfterFunc(50*time.Millisecond, cancel)
		_, err := host.Receive(cctx)
		if !errors.Is(err, ErrTransport) || !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want ErrTransport wrapping context.Canceled", err)
		}
	})

	t.Run("AcceptCancelled", func(t *testing.T) {
		ln, err := ListenTCP("127.0.0.1:0")
		if err != nil {
			t.Fatalf("ListenTCP: %v", err)
		}
		defer ln.Close()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := ln.Accept(cctx); !errors.Is(err, ErrTransport) {
			t.Errorf("got %v, want ErrTransport", err)
		}
	})

	t.Run("DialRefused", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
		addr := ln.Addr().String()
		ln.Close()
		if _, err := DialTCP(ctx, addr); !errors.Is(err, ErrTransport) {
			t.Errorf("got %v, want ErrTransport", err)
		}
	})
}

// closeBoth closes two ends at once so a closing handshake can complete.
func closeBoth(a, b interface{ Close() error }) {
	done := make(chan struct{})
	go func() {
		a.Close()
		close(done)
	}()
	b.Close()
	<-done
}

func readFull(c net.Conn, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := c.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func TestWebSocket(t *testing.T) {
	ctx := testContext(t)

	ln, err := ListenWebSocket("127.0.0.1:0", "/play")
	if err != nil {
		t.Fatalf("ListenWebSocket: %v", err)
	}
	defer ln.Close()

	url := "ws://" + ln.Addr().String() + "/play"
	guest, err := DialWebSocket(ctx, url)
	if err != nil {
		t.Fatalf("DialWebSocket: %v", err)
	}

	host, err := ln.Accept(ctx)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	defer closeBoth(host, guest)

	exchange(t, ctx, host, guest)

	t.Run("SecondGuestRefused", func(t *testing.T) {
		if c, err := DialWebSocket(ctx, url); err == nil {
			c.Close()
			t.Error("second guest was accepted")
		}
	})

	t.Run("PeerClosed", func(t *testing.T) {
		go guest.Close()
		if _, err := host.Receive(ctx); !errors.Is(err, ErrTransport) {
			t.Errorf("got %v, want ErrTransport", err)
		}
	})
}

// TestHostJoin plays a short networked game through game.NetSession over
// each transport.
func TestHostJoin(t *testing.T) {
	for _, transport := range []string{TCP, WebSocket} {
		t.Run(transport, func(t *testing.T) {
			ctx := testContext(t)

			// Reserve a free port for the host.
			probe, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatalf("Listen: %v", err)
			}
			_, portStr, _ := net.SplitHostPort(probe.Addr().String())
			probe.Close()
			port, _ := strconv.Atoi(portStr)

			opts := Options{Transport: transport, Host: "127.0.0.1", Port: port, Path: "/simplechess"}

			hosted := make(chan Conn, 1)
			hostErr := make(chan error, 1)
			go func() {
				c, err := Host(ctx, opts)
				hostErr <- err
				hosted <- c
			}()

			var guestConn Conn
			deadline := time.Now().Add(3 * time.Second)
			for {
				guestConn, err = Join(ctx, opts)
				if err == nil {
					break
				}
				if time.Now().After(deadline) {
					t.Fatalf("Join: %v", err)
				}
				time.Sleep(20 * time.Millisecond)
			}
			if err := <-hostErr; err != nil {
				t.Fatalf("Host: %v", err)
			}
			hostConn := <-hosted

			host := game.NewNetSession(hostConn, game.Options{Mode: game.ModeHost})
			guest := game.NewNetSession(guestConn, game.Options{Mode: game.ModeGuest})
			defer closeBoth(host, guest)

			host.Click(ctx, board.Sq(4, 6))
			if _, err := host.Click(ctx, board.Sq(4, 4)); err != nil {
				t.Fatalf("host move: %v", err)
			}
			if err := guest.AwaitRemote(ctx); err != nil {
				t.Fatalf("guest AwaitRemote: %v", err)
			}
			guest.Click(ctx, board.Sq(3, 1))
			if _, err := guest.Click(ctx, board.Sq(3, 3)); err != nil {
				t.Fatalf("guest move: %v", err)
			}
			if err := host.AwaitRemote(ctx); err != nil {
				t.Fatalf("host AwaitRemote: %v", err)
			}

			if host.Board() != guest.Board() {
				t.Errorf("boards diverged:\n%s\n%s", host.Board().String(), guest.Board().String())
			}
			if host.Turn() != game.PlayerOne {
				t.Errorf("Turn() = %v", host.Turn())
			}
		})
	}
}
