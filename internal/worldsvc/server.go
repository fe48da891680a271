package worldsvc

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

// Server is the World process's S2S listener. It accepts connections from
// one or more Login instances and answers LOGIN_WORLD_SELECT_REQ (spec
// §2: "World: mint session tokens; return gateway endpoint for (account,
// world_id)").
type Server struct {
	registry   *Registry
	dispatcher *protocol.Dispatcher[*session]
	listener   net.Listener
}

func NewServer(registry *Registry) *Server {
	srv := &Server{registry: registry}
	srv.dispatcher = srv.buildDispatcher()
	return srv
}

func (srv *Server) buildDispatcher() *protocol.Dispatcher[*session] {
	d := protocol.NewDispatcher[*session]()
	if err := d.Register(constants.LoginWorldSelectReq, srv.handleWorldSelectReq); err != nil {
		panic(err)
	}
	return d
}

func (srv *Server) handleWorldSelectReq(sess *session, payload []byte, size uint16) {
	req, err := wire.DecodeLoginWorldSelectReq(payload)
	if err != nil {
		slog.Warn("decode LoginWorldSelectReq failed", "err", err)
		return
	}

	endpoint, token, ok := srv.registry.SelectWorld(req.AccountID, req.WorldID)
	sess.Send(constants.WorldLoginSelectRes, wire.WorldLoginSelectRes{
		AccountID:    req.AccountID,
		Success:      ok,
		GatewayIP:    endpoint.IP,
		GatewayPort:  endpoint.Port,
		SessionToken: token,
	}.Encode())
}

// Serve listens on addr and services connections until it fails (normally
// on listener close during shutdown).
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
		go srv.serve(conn)
	}
}

func (srv *Server) Close() error {
	if srv.listener != nil {
		return srv.listener.Close()
	}
	return nil
}

func (srv *Server) serve(conn net.Conn) {
	sess := newSession(conn)
	defer sess.Close()

	buf := make([]byte, constants.MaxFrameSize)
	for {
		frame, err := protocol.ReadFrame(conn, buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("world login connection closed", "err", err)
			}
			return
		}
		srv.dispatcher.Dispatch(sess, frame.ID, frame.Payload, uint16(len(frame.Payload))+constants.HeaderSize)
	}
}

// session is one accepted Login connection, write-serialised like every
// other socket owner in this repo (spec §5).
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
		writes: make(chan frameToWrite, 32),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *session) writeLoop() {
	defer close(s.done)
	for f := range s.writes {
		if err := protocol.WriteFrame(s.conn, f.id, f.payload); err != nil {
			slog.Warn("world write failed", "err", err)
			return
		}
	}
}

func (s *session) Send(id uint16, payload []byte) {
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
