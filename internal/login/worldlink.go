package login

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

// worldLink is Login's single S2S connection to World, multiplexing every
// client's world-select round trip over one socket (spec §4.8: "relays
// LOGIN_WORLD_SELECT_REQ to the World service"). Correlated by account id
// since only one WorldSelectReq is ever in flight per account at a time.
type worldLink struct {
	conn net.Conn

	writes chan frameToWrite
	closed sync.Once
	done   chan struct{}

	dispatcher *protocol.Dispatcher[*worldLink]

	mu      sync.Mutex
	pending map[string]chan wire.WorldLoginSelectRes
}

type frameToWrite struct {
	id      uint16
	payload []byte
}

// dialWorld connects to addr. A dial failure is fatal to Login's boot
// sequence, same as Gateway's dial-to-Game (spec §7).
func dialWorld(addr string) (*worldLink, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	l := &worldLink{
		conn:    conn,
		writes:  make(chan frameToWrite, 64),
		done:    make(chan struct{}),
		pending: make(map[string]chan wire.WorldLoginSelectRes),
	}
	l.dispatcher = l.buildDispatcher()
	go l.writeLoop()
	return l, nil
}

func (l *worldLink) buildDispatcher() *protocol.Dispatcher[*worldLink] {
	d := protocol.NewDispatcher[*worldLink]()
	if err := d.Register(constants.WorldLoginSelectRes, func(_ *worldLink, payload []byte, size uint16) {
		res, err := wire.DecodeWorldLoginSelectRes(payload)
		if err != nil {
			slog.Warn("decode WorldLoginSelectRes failed", "err", err)
			return
		}
		l.mu.Lock()
		ch, ok := l.pending[res.AccountID]
		if ok {
			delete(l.pending, res.AccountID)
		}
		l.mu.Unlock()
		if ok {
			ch <- res
		}
	}); err != nil {
		panic(err)
	}
	return d
}

// requestWorldSelect sends a LoginWorldSelectReq and blocks for the
// matching response. There is no per-request timeout (spec §5: "no
// per-request timeouts; correctness relies on TCP RST/FIN") — a request
// only unblocks via its response or the link's teardown on Close.
func (l *worldLink) requestWorldSelect(req wire.LoginWorldSelectReq) (wire.WorldLoginSelectRes, error) {
	ch := make(chan wire.WorldLoginSelectRes, 1)
	l.mu.Lock()
	l.pending[req.AccountID] = ch
	l.mu.Unlock()

	l.send(constants.LoginWorldSelectReq, req.Encode())

	select {
	case res := <-ch:
		return res, nil
	case <-l.done:
		l.mu.Lock()
		delete(l.pending, req.AccountID)
		l.mu.Unlock()
		return wire.WorldLoginSelectRes{}, errors.New("world S2S link closed")
	}
}

func (l *worldLink) readLoop() error {
	buf := make([]byte, constants.MaxFrameSize)
	for {
		frame, err := protocol.ReadFrame(l.conn, buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("world S2S link closed")
			}
			return err
		}
		l.dispatcher.Dispatch(l, frame.ID, frame.Payload, uint16(len(frame.Payload))+constants.HeaderSize)
	}
}

func (l *worldLink) writeLoop() {
	defer close(l.done)
	for f := range l.writes {
		if err := protocol.WriteFrame(l.conn, f.id, f.payload); err != nil {
			slog.Warn("world S2S write failed", "err", err)
			return
		}
	}
}

func (l *worldLink) send(id uint16, payload []byte) {
	select {
	case l.writes <- frameToWrite{id: id, payload: payload}:
	case <-l.done:
	}
}

func (l *worldLink) Close() {
	l.closed.Do(func() {
		close(l.writes)
		l.conn.Close()
	})
}
