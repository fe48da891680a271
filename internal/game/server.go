package game

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/l2core/backend/internal/constants"
	"github.com/l2core/backend/internal/protocol"
	"github.com/l2core/backend/internal/wire"
)

// Server accepts Gateway's single S2S connection (spec §4.4: "Game has no
// concept of client socket", §4.3: "Gateway maintains exactly one
// persistent S2S connection to Game"). At most one session is ever live;
// a second incoming connection replaces the first, matching the spec's
// single-Gateway-per-Game-instance scope.
type Server struct {
	listener   net.Listener
	sim        *Simulation
	exec       *Executor
	dispatcher *protocol.Dispatcher[*session]

	mu      sync.Mutex
	current *session
}

// NewServer builds the S2S dispatcher and binds it to sim's handlers,
// each wrapped in Executor.Post so every mutation happens on the game
// executor (spec §5).
func NewServer(sim *Simulation, exec *Executor) *Server {
	d := protocol.NewDispatcher[*session]()

	must := func(id uint16, fn protocol.HandlerFunc[*session]) {
		if err := d.Register(id, fn); err != nil {
			panic(err) // programmer error: out-of-range id
		}
	}

	must(constants.GatewayGameMoveReq, func(sess *session, payload []byte, size uint16) {
		req, err := wire.DecodeGatewayGameMoveReq(payload)
		if err != nil {
			slog.Warn("decode GatewayGameMoveReq failed", "err", err)
			return
		}
		exec.Post(func() { sim.HandleMoveReq(req) })
	})

	must(constants.GatewayGameLeaveReq, func(sess *session, payload []byte, size uint16) {
		req, err := wire.DecodeGatewayGameLeaveReq(payload)
		if err != nil {
			slog.Warn("decode GatewayGameLeaveReq failed", "err", err)
			return
		}
		exec.Post(func() { sim.HandleLeaveReq(req) })
	})

	must(constants.GatewayGameAttackReq, func(sess *session, payload []byte, size uint16) {
		req, err := wire.DecodeGatewayGameAttackReq(payload)
		if err != nil {
			slog.Warn("decode GatewayGameAttackReq failed", "err", err)
			return
		}
		exec.Post(func() { sim.HandleAttackReq(req) })
	})

	return &Server{sim: sim, exec: exec, dispatcher: d}
}

// Serve listens on addr and accepts Gateway connections until err != nil
// (normally on listener close during shutdown).
func (srv *Server) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv.listener = ln

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		srv.adopt(conn)
	}
}

func (srv *Server) adopt(conn net.Conn) {
	sess := newSession(conn)

	srv.mu.Lock()
	if srv.current != nil {
		srv.current.Close()
	}
	srv.current = sess
	srv.mu.Unlock()

	// sim.gw is only ever read on the game executor (spec §3 invariant 6);
	// route the swap through it too instead of writing it from the accept
	// goroutine.
	srv.exec.Post(func() { srv.sim.gw = sess })

	slog.Info("gateway connected", "remote", conn.RemoteAddr())
	go srv.readLoop(sess)
}

func (srv *Server) readLoop(sess *session) {
	buf := make([]byte, constants.MaxFrameSize)
	for {
		frame, err := protocol.ReadFrame(sess.conn, buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Warn("gateway S2S link broken", "err", err)
			}
			sess.Close()
			return
		}
		srv.dispatcher.Dispatch(sess, frame.ID, frame.Payload, uint16(len(frame.Payload))+constants.HeaderSize)
	}
}

// Close stops accepting new Gateway connections and tears down the
// current session, if any.
func (srv *Server) Close() error {
	if srv.listener != nil {
		srv.listener.Close()
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.current != nil {
		srv.current.Close()
	}
	return nil
}

// session is the S2S socket handle for Gateway's one connection, with a
// serialised write queue so concurrent SendMoveRes/SendAttackRes calls
// from the game executor never interleave frames on the wire (spec §5:
// "each session MUST serialise writes to its socket").
type session struct {
	conn   net.Conn
	writes chan frameToWrite
	closed sync.Once
	done   chan struct{}
}

type frameToWrite struct {
	id      uint16
	payload []byte
}

func newSession(conn net.Conn) *session {
	s := &session{
		conn:   conn,
		writes: make(chan frameToWrite, 256),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *session) writeLoop() {
	defer close(s.done)
	for f := range s.writes {
		if err := protocol.WriteFrame(s.conn, f.id, f.payload); err != nil {
			slog.Warn("gateway S2S write failed", "err", err)
			return
		}
	}
}

func (s *session) SendMoveRes(res wire.GameGatewayMoveRes) {
	s.enqueue(constants.GameGatewayMoveRes, res.Encode())
}

func (s *session) SendAttackRes(res wire.GameGatewayAttackRes) {
	s.enqueue(constants.GameGatewayAttackRes, res.Encode())
}

func (s *session) enqueue(id uint16, payload []byte) {
	select {
	case s.writes <- frameToWrite{id: id, payload: payload}:
	case <-s.done:
	}
}

func (s *session) Close() {
	s.closed.Do(func() {
		close(s.writes)
		s.conn.Close()
	})
}
