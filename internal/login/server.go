package login

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

// Server is the Login process: a client-facing listener, the account
// store and logged-in gate, and the S2S link to World (spec §4.8).
type Server struct {
	clientAddr string

	accounts *AccountStore
	loggedIn *LoggedInSet
	world    *worldLink

	dispatcher *protocol.Dispatcher[*clientSession]
	listener   net.Listener
}

// NewServer dials World once. A dial failure aborts Login's boot sequence
// (spec §7's "missing upstream" policy).
func NewServer(clientAddr, worldAddr string) (*Server, error) {
	world, err := dialWorld(worldAddr)
	if err != nil {
		return nil, fmt.Errorf("dialing world at %s: %w", worldAddr, err)
	}

	srv := &Server{
		clientAddr: clientAddr,
		accounts:   NewAccountStore(),
		loggedIn:   NewLoggedInSet(),
		world:      world,
	}
	srv.dispatcher = srv.buildDispatcher()
	return srv, nil
}

func (srv *Server) buildDispatcher() *protocol.Dispatcher[*clientSession] {
	d := protocol.NewDispatcher[*clientSession]()
	must := func(id uint16, fn protocol.HandlerFunc[*clientSession]) {
		if err := d.Register(id, fn); err != nil {
			panic(err)
		}
	}
	must(constants.ClientLoginLoginReq, srv.handleLoginReq)
	must(constants.ClientLoginWorldSelectReq, srv.handleWorldSelectReq)
	return d
}

// Run accepts clients and reads World's S2S link in parallel until ctx is
// cancelled or either goroutine errors.
func (srv *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.clientAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", srv.clientAddr, err)
	}
	srv.listener = ln

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		ln.Close()
		srv.world.Close()
		return nil
	})

	g.Go(func() error {
		return srv.acceptLoop(ln)
	})

	g.Go(func() error {
		err := srv.world.readLoop()
		if err != nil && gctx.Err() == nil {
			slog.Error("world S2S link broken, terminating login", "err", err)
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
				slog.Debug("login client connection closed", "err", err)
			}
			return
		}
		srv.dispatcher.Dispatch(sess, frame.ID, frame.Payload, uint16(len(frame.Payload))+constants.HeaderSize)
	}
}

func (srv *Server) onDisconnect(sess *clientSession) {
	sess.Close()
	if sess.AccountID != "" {
		srv.loggedIn.Logout(sess.AccountID)
	}
}

// handleLoginReq validates credentials, admits the account into the
// logged-in set, and replies with a success boolean (spec §4.8, §7:
// "duplicate login ... respond success=false, keep connection").
func (srv *Server) handleLoginReq(sess *clientSession, payload []byte, size uint16) {
	req, err := wire.DecodeLoginReq(payload)
	if err != nil {
		slog.Warn("decode LoginReq failed", "err", err)
		return
	}

	ok := srv.accounts.Authenticate(req.ID, req.Password) && srv.loggedIn.TryLogin(req.ID)
	if ok {
		sess.AccountID = req.ID
	}
	sess.Send(constants.LoginClientLoginRes, wire.LoginRes{Success: ok}.Encode())
}

// handleWorldSelectReq relays the world-select round trip to World over
// the S2S link and forwards the result to the client (spec §4.8).
func (srv *Server) handleWorldSelectReq(sess *clientSession, payload []byte, size uint16) {
	req, err := wire.DecodeWorldSelectReq(payload)
	if err != nil {
		slog.Warn("decode WorldSelectReq failed", "err", err)
		return
	}
	if sess.AccountID == "" {
		sess.Send(constants.LoginClientWorldSelectRes, wire.LoginClientWorldSelectRes{Success: false}.Encode())
		return
	}

	res, err := srv.world.requestWorldSelect(wire.LoginWorldSelectReq{
		AccountID: sess.AccountID,
		WorldID:   req.WorldID,
	})
	if err != nil {
		slog.Warn("world select failed", "account", sess.AccountID, "err", err)
		sess.Send(constants.LoginClientWorldSelectRes, wire.LoginClientWorldSelectRes{Success: false}.Encode())
		return
	}

	sess.Send(constants.LoginClientWorldSelectRes, wire.LoginClientWorldSelectRes{
		Success:      res.Success,
		GatewayIP:    res.GatewayIP,
		GatewayPort:  res.GatewayPort,
		SessionToken: res.SessionToken,
	}.Encode())
}
