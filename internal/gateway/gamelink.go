package gateway

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

// gameLink is Gateway's single outbound S2S connection to Game (spec §4.3:
// "Gateway maintains exactly one persistent S2S connection to Game").
// Writes are serialised the same way ClientSession's are.
type gameLink struct {
	conn net.Conn

	writes chan frameToWrite
	closed sync.Once
	done   chan struct{}

	dispatcher *protocol.Dispatcher[*gameLink]
}

// dialGame connects to addr once. A dial failure here is fatal to
// Gateway's boot sequence (spec §7: "missing upstream ... abort process
// with diagnostic") — the caller decides how to report it.
func dialGame(addr string, sessions *sessionMap) (*gameLink, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	link := &gameLink{
		conn:   conn,
		writes: make(chan frameToWrite, 256),
		done:   make(chan struct{}),
	}
	link.dispatcher = buildGameLinkDispatcher(sessions)
	go link.writeLoop()
	return link, nil
}

func buildGameLinkDispatcher(sessions *sessionMap) *protocol.Dispatcher[*gameLink] {
	d := protocol.NewDispatcher[*gameLink]()

	must := func(id uint16, fn protocol.HandlerFunc[*gameLink]) {
		if err := d.Register(id, fn); err != nil {
			panic(err)
		}
	}

	// Game->GW MoveRes: fan out to every target account id's client
	// session. The sender list is authoritative — Gateway does no AOI
	// math (spec §4.3).
	must(constants.GameGatewayMoveRes, func(_ *gameLink, payload []byte, size uint16) {
		res, err := wire.DecodeGameGatewayMoveRes(payload)
		if err != nil {
			slog.Warn("decode GameGatewayMoveRes failed", "err", err)
			return
		}
		frame := wire.MoveRes{AccountID: res.AccountID, X: res.X, Y: res.Y, Z: res.Z, Yaw: res.Yaw}.Encode()
		for _, targetID := range res.TargetAccountIDs {
			if sess, ok := sessions.Load(targetID); ok {
				sess.Send(constants.GatewayClientMoveRes, frame)
			}
		}
	})

	must(constants.GameGatewayAttackRes, func(_ *gameLink, payload []byte, size uint16) {
		res, err := wire.DecodeGameGatewayAttackRes(payload)
		if err != nil {
			slog.Warn("decode GameGatewayAttackRes failed", "err", err)
			return
		}
		frame := wire.AttackRes{
			AttackerUID:     res.AttackerUID,
			TargetAccountID: res.TargetAccountID,
			Damage:          res.Damage,
			TargetRemainHP:  res.TargetRemainHP,
		}.Encode()
		for _, targetID := range res.TargetAccountIDs {
			if sess, ok := sessions.Load(targetID); ok {
				sess.Send(constants.GatewayClientAttackRes, frame)
			}
		}
	})

	return d
}

// readLoop runs until the link breaks. A broken S2S link in steady state
// terminates Gateway (spec §7) — the caller (Server.Run) treats this
// goroutine's return as fatal.
func (l *gameLink) readLoop() error {
	buf := make([]byte, constants.MaxFrameSize)
	for {
		frame, err := protocol.ReadFrame(l.conn, buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("game S2S link closed")
			}
			return err
		}
		l.dispatcher.Dispatch(l, frame.ID, frame.Payload, uint16(len(frame.Payload))+constants.HeaderSize)
	}
}

func (l *gameLink) writeLoop() {
	defer close(l.done)
	for f := range l.writes {
		if err := protocol.WriteFrame(l.conn, f.id, f.payload); err != nil {
			slog.Warn("game S2S write failed", "err", err)
			return
		}
	}
}

func (l *gameLink) send(id uint16, payload []byte) {
	select {
	case l.writes <- frameToWrite{id: id, payload: payload}:
	case <-l.done:
	}
}

func (l *gameLink) sendMoveReq(req wire.GatewayGameMoveReq) {
	l.send(constants.GatewayGameMoveReq, req.Encode())
}

func (l *gameLink) sendLeaveReq(req wire.GatewayGameLeaveReq) {
	l.send(constants.GatewayGameLeaveReq, req.Encode())
}

func (l *gameLink) sendAttackReq(req wire.GatewayGameAttackReq) {
	l.send(constants.GatewayGameAttackReq, req.Encode())
}

func (l *gameLink) Close() {
	l.closed.Do(func() {
		close(l.writes)
		l.conn.Close()
	})
}
