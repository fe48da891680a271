package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/l2core/backend/internal/constants"
	"github.com/l2core/backend/internal/protocol"
	"github.com/l2core/backend/internal/wire"
)

// Server is the Gateway process: a client-facing listener plus the single
// outbound S2S link to Game (spec §4.3). It is a stateless pass-through
// for domain logic — it never computes AOI and never mutates simulation
// state.
type Server struct {
	clientAddr string
	gameAddr   string

	sessions   *sessionMap
	dispatcher *protocol.Dispatcher[*ClientSession]
	link       *gameLink

	clientListener net.Listener
}

// NewServer dials Game once (spec §4.3: "if that connection is unavailable
// at startup, the process aborts fast with a diagnostic") and builds the
// client-facing dispatcher. Returns an error immediately if the dial
// fails — there is no point accepting clients without a simulation.
func NewServer(clientAddr, gameAddr string) (*Server, error) {
	sessions := newSessionMap()

	link, err := dialGame(gameAddr, sessions)
	if err != nil {
		return nil, fmt.Errorf("dialing game at %s: %w", gameAddr, err)
	}

	srv := &Server{
		clientAddr: clientAddr,
		gameAddr:   gameAddr,
		sessions:   sessions,
		link:       link,
	}
	srv.dispatcher = srv.buildClientDispatcher()
	return srv, nil
}

// Run accepts clients and reads the Game S2S link in parallel until ctx
// is cancelled or either goroutine returns an error (spec §7: a broken
// S2S link in steady state terminates Gateway; spec §5's "each process
// uses a multi-threaded I/O reactor" scheduling model, wired with
// errgroup the way cmd/gameserver/main.go wires its own parallel
// managers).
func (srv *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.clientAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", srv.clientAddr, err)
	}
	srv.clientListener = ln

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		ln.Close()
		srv.link.Close()
		return nil
	})

	g.Go(func() error {
		return srv.acceptLoop(ln)
	})

	g.Go(func() error {
		err := srv.link.readLoop()
		if err != nil && gctx.Err() == nil {
			slog.Error("game S2S link broken, terminating gateway", "err", err)
		}
		return err
	})

	return g.Wait()
}

func (srv *Server) acceptLoop(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go srv.serveClient(conn)
	}
}

func (srv *Server) serveClient(conn net.Conn) {
	sess := newClientSession(conn)
	defer srv.onDisconnect(sess)

	buf := make([]byte, constants.MaxFrameSize)
	for {
		frame, err := protocol.ReadFrame(conn, buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("client connection closed", "err", err)
			}
			return
		}
		srv.dispatcher.Dispatch(sess, frame.ID, frame.Payload, uint16(len(frame.Payload))+constants.HeaderSize)
	}
}

// onDisconnect tears down a client's session, frees its account id, and
// forwards LeaveReq to Game so the ghost entity is evicted from the Zone
// (spec §4.3).
func (srv *Server) onDisconnect(sess *ClientSession) {
	sess.Close()
	if sess.AccountID == "" {
		return
	}
	srv.sessions.Delete(sess.AccountID)
	srv.link.sendLeaveReq(wire.GatewayGameLeaveReq{AccountID: sess.AccountID})
}

func (srv *Server) buildClientDispatcher() *protocol.Dispatcher[*ClientSession] {
	d := protocol.NewDispatcher[*ClientSession]()

	must := func(id uint16, fn protocol.HandlerFunc[*ClientSession]) {
		if err := d.Register(id, fn); err != nil {
			panic(err)
		}
	}

	must(constants.ClientGatewayConnectReq, srv.handleConnectReq)
	must(constants.ClientGatewayChatReq, srv.handleChatReq)
	must(constants.ClientGatewayMoveReq, srv.handleMoveReq)
	must(constants.ClientGatewayAttackReq, srv.handleAttackReq)

	return d
}

// handleConnectReq records account_id on the session, inserts it into the
// session map, and replies success. An empty session token is refused
// with success=false; session-token verification beyond presence is out
// of scope (spec §4.3).
func (srv *Server) handleConnectReq(sess *ClientSession, payload []byte, size uint16) {
	req, err := wire.DecodeConnectReq(payload)
	if err != nil {
		slog.Warn("decode ConnectReq failed", "err", err)
		return
	}
	if req.SessionToken == "" {
		sess.Send(constants.GatewayClientConnectRes, wire.ConnectRes{Success: false}.Encode())
		return
	}
	sess.AccountID = req.AccountID
	srv.sessions.Store(req.AccountID, sess)
	sess.Send(constants.GatewayClientConnectRes, wire.ConnectRes{Success: true}.Encode())
}

// handleChatReq broadcasts to every session in the map; chat is
// world-wide by design, AOI does not apply (spec §4.3).
func (srv *Server) handleChatReq(sess *ClientSession, payload []byte, size uint16) {
	req, err := wire.DecodeChatReq(payload)
	if err != nil {
		slog.Warn("decode ChatReq failed", "err", err)
		return
	}
	res := wire.ChatRes{AccountID: sess.AccountID, Msg: req.Msg}.Encode()
	srv.sessions.Range(func(_ string, target *ClientSession) {
		target.Send(constants.GatewayClientChatRes, res)
	})
}

func (srv *Server) handleMoveReq(sess *ClientSession, payload []byte, size uint16) {
	req, err := wire.DecodeMoveReq(payload)
	if err != nil {
		slog.Warn("decode MoveReq failed", "err", err)
		return
	}
	srv.link.sendMoveReq(wire.GatewayGameMoveReq{
		AccountID: sess.AccountID,
		X:         req.X, Y: req.Y, Z: req.Z, Yaw: req.Yaw,
	})
}

func (srv *Server) handleAttackReq(sess *ClientSession, payload []byte, size uint16) {
	req, err := wire.DecodeAttackReq(payload)
	if err != nil {
		slog.Warn("decode AttackReq failed", "err", err)
		return
	}
	srv.link.sendAttackReq(wire.GatewayGameAttackReq{
		AccountID: sess.AccountID,
		TargetUID: req.TargetUID,
	})
}
