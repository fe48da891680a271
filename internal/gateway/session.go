// Package gateway implements the client-facing front-end: one
// ClientSession per accepted TCP connection, the account_id -> session
// map, and the single outbound S2S link to Game (spec §4.3). Gateway is a
// stateless pass-through for domain logic — it never computes AOI itself
// and never mutates simulation state.
package gateway

import (
	"log/slog"
	"net"
	"sync"

	"github.com/l2core/backend/internal/protocol"
)

// ClientSession is one accepted client connection. Writes are serialised
// through a single writer goroutine draining a buffered channel, so
// concurrent handler invocations (client read loop, Game broadcast
// fan-out) never interleave frames on the wire — spec §5: "each session
// MUST serialise writes to its socket", grounded on la2go's per-client
// single-owner send path.
type ClientSession struct {
	conn net.Conn

	// AccountID is set once ConnectReq succeeds; empty until then.
	AccountID string

	writes chan frameToWrite
	closed sync.Once
	done   chan struct{}
}

type frameToWrite struct {
	id      uint16
	payload []byte
}

func newClientSession(conn net.Conn) *ClientSession {
	s := &ClientSession{
		conn:   conn,
		writes: make(chan frameToWrite, 64),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *ClientSession) writeLoop() {
	defer close(s.done)
	for f := range s.writes {
		if err := protocol.WriteFrame(s.conn, f.id, f.payload); err != nil {
			slog.Warn("client write failed", "account", s.AccountID, "err", err)
			return
		}
	}
}

// Send enqueues a frame for this client; it never blocks the caller on a
// slow client beyond the queue's buffer.
func (s *ClientSession) Send(id uint16, payload []byte) {
	select {
	case s.writes <- frameToWrite{id: id, payload: payload}:
	case <-s.done:
	}
}

// Close tears down the write loop and the underlying socket. Safe to call
// more than once.
func (s *ClientSession) Close() {
	s.closed.Do(func() {
		close(s.writes)
		s.conn.Close()
	})
}
