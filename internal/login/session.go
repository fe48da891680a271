package login

import (
	"log/slog"
	"net"
	"sync"

	"github.com/l2core/backend/internal/protocol"
)

// clientSession is one accepted client connection, write-serialised the
// same way Gateway's ClientSession is (spec §5).
type clientSession struct {
	conn      net.Conn
	AccountID string

	writes chan frameToWrite
	closed sync.Once
	done   chan struct{}
}

func newClientSession(conn net.Conn) *clientSession {
	s := &clientSession{
		conn:   conn,
		writes: make(chan frameToWrite, 8),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *clientSession) writeLoop() {
	defer close(s.done)
	for f := range s.writes {
		if err := protocol.WriteFrame(s.conn, f.id, f.payload); err != nil {
			slog.Warn("login client write failed", "account", s.AccountID, "err", err)
			return
		}
	}
}

func (s *clientSession) Send(id uint16, payload []byte) {
	select {
	case s.writes <- frameToWrite{id: id, payload: payload}:
	case <-s.done:
	}
}

func (s *clientSession) Close() {
	s.closed.Do(func() {
		close(s.writes)
		s.conn.Close()
	})
}
