package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/movelog"
)

// Transport carries move entries between two hosts.
type Transport interface {
	Send(ctx context.Context, e movelog.Entry) error
	Receive(ctx context.Context) (movelog.Entry, error)
	Close() error
}

// remoteMove is what the receive goroutine hands back to the frame loop.
type remoteMove struct {
	entry movelog.Entry
	err   error
}

// NetSession couples a Controller with the connection to the other host.
// Local commits are sent as they happen; the remote player's moves are
// received either synchronously through AwaitRemote or in the background
// through StartWaiting and Poll.
type NetSession struct {
	*Controller

	conn     Transport
	incoming chan remoteMove
	waiting  bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewNetSession starts a networked session. opts.Mode is ModeHost or
// ModeGuest; ModeLocal is treated as ModeHost.
func NewNetSession(conn Transport, opts Options) *NetSession {
	if opts.Mode == ModeLocal {
		opts.Mode = ModeHost
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &NetSession{
		Controller: NewController(opts),
		conn:       conn,
		incoming:   make(chan remoteMove, 1),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Click handles a local click and sends the move if one was committed.
func (s *NetSession) Click(ctx context.Context, sq board.Square) (Outcome, error) {
	out, err := s.Controller.Click(sq)
	if out != Committed || err != nil {
		if err != nil {
			s.teardown()
		}
		return out, err
	}

	entries := s.Controller.entries
	e := entries[len(entries)-1]
	if err := s.conn.Send(ctx, e); err != nil {
		s.Fail(err)
		s.teardown()
		return out, fmt.Errorf("send move: %w", err)
	}
	if s.Done() {
		s.teardown()
	}
	return out, nil
}

// AwaitRemote blocks until the remote move arrives and applies it.
func (s *NetSession) AwaitRemote(ctx context.Context) error {
	if s.Done() {
		return ErrSessionOver
	}
	if s.LocalTurn() {
		return ErrNotRemoteTurn
	}
	e, err := s.conn.Receive(ctx)
	return s.apply(e, err)
}

// StartWaiting launches a background receive if the remote player is to
// move and none is running yet. Poll collects the result. The receive
// lives until it completes or the session is closed.
func (s *NetSession) StartWaiting() {
	if s.waiting || s.Done() || s.LocalTurn() {
		return
	}
	s.waiting = true

	go func() {
		e, err := s.conn.Receive(s.ctx)
		s.incoming <- remoteMove{entry: e, err: err}
	}()
}

// Waiting reports whether a background receive is outstanding.
func (s *NetSession) Waiting() bool {
	return s.waiting
}

// Poll applies a received move if one is ready. It never blocks.
func (s *NetSession) Poll() (bool, error) {
	if !s.waiting {
		return false, nil
	}

	select {
	case m := <-s.incoming:
		s.waiting = false
		return true, s.apply(m.entry, m.err)
	default:
		return false, nil
	}
}

func (s *NetSession) apply(e movelog.Entry, recvErr error) error {
	if recvErr != nil {
		s.Fail(recvErr)
		s.teardown()
		return fmt.Errorf("receive move: %w", recvErr)
	}
	if err := s.ApplyRemote(e); err != nil {
		s.teardown()
		return err
	}
	s.log.Debug("remote_move_applied", zap.String("entry", e.String()))
	if s.Done() {
		s.teardown()
	}
	return nil
}

// Close ends the session and releases the connection.
func (s *NetSession) Close() error {
	s.cancel()
	return s.conn.Close()
}

func (s *NetSession) teardown() {
	if err := s.Close(); err != nil {
		s.log.Debug("close_transport", zap.Error(err))
	}
}
