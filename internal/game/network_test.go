package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
)

// pipeTransport is one end of an in-memory connection.
type pipeTransport struct {
	out    chan<- movelog.Entry
	in     <-chan movelog.Entry
	closed chan struct{}
}

func newPipe() (*pipeTransport, *pipeTransport) {
	ab := make(chan movelog.Entry, 4)
	ba := make(chan movelog.Entry, 4)
	return &pipeTransport{out: ab, in: ba, closed: make(chan struct{})},
		&pipeTransport{out: ba, in: ab, closed: make(chan struct{})}
}

var errClosed = errors.New("pipe closed")

func (p *pipeTransport) Send(ctx context.Context, e movelog.Entry) error {
	select {
	case <-p.closed:
		return errClosed
	default:
	}
	select {
	case <-p.closed:
		return errClosed
	case p.out <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeTransport) Receive(ctx context.Context) (movelog.Entry, error) {
	select {
	case <-p.closed:
		return movelog.Entry{}, errClosed
	case e := <-p.in:
		return e, nil
	case <-ctx.Done():
		return movelog.Entry{}, ctx.Err()
	}
}

func (p *pipeTransport) Close() error {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	return nil
}

func TestNetSessionExchange(t *testing.T) {
	a, b := newPipe()
	host := NewNetSession(a, Options{Mode: ModeHost})
	guest := NewNetSession(b, Options{Mode: ModeGuest})
	ctx := context.Background()

	if _, err := host.Click(ctx, board.Sq(1, 7)); err != nil {
		t.Fatalf("host select: %v", err)
	}
	out, err := host.Click(ctx, board.Sq(2, 5))
	if err != nil || out != Committed {
		t.Fatalf("host commit: %v, %v", out, err)
	}
	if host.LocalTurn() {
		t.Error("host should wait after its move")
	}

	if err := guest.AwaitRemote(ctx); err != nil {
		t.Fatalf("AwaitRemote: %v", err)
	}
	if guest.Board() != host.Board() {
		t.Errorf("boards diverged:\nhost\n%s\nguest\n%s", host.Board().String(), guest.Board().String())
	}
	if guest.LastMoveText() != host.LastMoveText() {
		t.Errorf("texts diverged: %q vs %q", guest.LastMoveText(), host.LastMoveText())
	}

	// Guest answers; the host picks it up through the polling path.
	host.StartWaiting()
	if !host.Waiting() {
		t.Fatal("host is not waiting")
	}
	if _, err := guest.Click(ctx, board.Sq(6, 0)); err != nil {
		t.Fatalf("guest select: %v", err)
	}
	if _, err := guest.Click(ctx, board.Sq(5, 2)); err != nil {
		t.Fatalf("guest commit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		applied, err := host.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if applied {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("remote move never arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if host.Board() != guest.Board() {
		t.Error("boards diverged after the guest move")
	}
	if !host.LocalTurn() || host.Turn() != PlayerOne {
		t.Error("turn did not return to the host")
	}
}

func TestNetSessionErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("PeerGone", func(t *testing.T) {
		a, b := newPipe()
		guest := NewNetSession(b, Options{Mode: ModeGuest})
		a.Close()
		b.Close()

		err := guest.AwaitRemote(ctx)
		if !errors.Is(err, errClosed) {
			t.Fatalf("got %v, want errClosed", err)
		}
		if guest.Result() != ResultError {
			t.Errorf("Result() = %v, want ResultError", guest.Result())
		}
	})

	t.Run("SendFails", func(t *testing.T) {
		a, _ := newPipe()
		host := NewNetSession(a, Options{Mode: ModeHost})
		a.Close()

		host.Click(ctx, board.Sq(1, 7))
		out, err := host.Click(ctx, board.Sq(2, 5))
		if out != Committed || !errors.Is(err, errClosed) {
			t.Fatalf("Click = %v, %v", out, err)
		}
		if host.Result() != ResultError {
			t.Errorf("Result() = %v, want ResultError", host.Result())
		}
	})

	t.Run("MalformedRemote", func(t *testing.T) {
		a, b := newPipe()
		guest := NewNetSession(b, Options{Mode: ModeGuest})
		a.Send(ctx, movelog.Entry{Piece: board.WhiteKing, From: board.Sq(4, 7), To: board.Sq(4, 6)})

		err := guest.AwaitRemote(ctx)
		if !errors.Is(err, ErrMalformedEntry) {
			t.Fatalf("got %v, want ErrMalformedEntry", err)
		}
		if guest.Result() != ResultError {
			t.Errorf("Result() = %v", guest.Result())
		}
	})

	t.Run("OutOfTurn", func(t *testing.T) {
		a, _ := newPipe()
		host := NewNetSession(a, Options{Mode: ModeHost})
		if err := host.AwaitRemote(ctx); !errors.Is(err, ErrNotRemoteTurn) {
			t.Errorf("got %v, want ErrNotRemoteTurn", err)
		}
		host.StartWaiting()
		if host.Waiting() {
			t.Error("host started waiting on its own turn")
		}
	})
}
