package protocol

import (
	"fmt"
	"log/slog"

	"github.com/l2core/backend/internal/constants"
)

// HandlerFunc processes one decoded payload for a session of type S.
// size is the total frame length the payload was carried in (header
// included), handed through for handlers that want it for logging.
type HandlerFunc[S any] func(session S, payload []byte, size uint16)

// Dispatcher routes packets to handlers by id in O(1), using a fixed-size
// array instead of a switch or a map — grounded on
// original_source/Common/PacketDispatcher.h's std::array<HandlerFunc,
// MAX_PACKET_ID> table, translated from a C++ template parameter to a Go
// generic type parameter. Each process holds one Dispatcher per peer class
// (spec §4.2) — e.g. Gateway has a client dispatcher and a Game-link
// dispatcher, each instantiated with its own session type.
type Dispatcher[S any] struct {
	handlers [constants.MaxPacketID]HandlerFunc[S]
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher[S any]() *Dispatcher[S] {
	return &Dispatcher[S]{}
}

// Register assigns fn as the handler for id. Registering the same id
// twice overwrites the previous handler. The upper sentinel id
// (constants.MaxPacketID) is reserved and rejected.
func (d *Dispatcher[S]) Register(id uint16, fn HandlerFunc[S]) error {
	if id >= constants.MaxPacketID {
		return fmt.Errorf("packet id %d exceeds reserved range %d", id, constants.MaxPacketID)
	}
	d.handlers[id] = fn
	return nil
}

// Dispatch looks up the handler for id and invokes it. It reports whether
// a handler was found; an unhandled id is logged at warn and is not an
// error (spec §7: "unknown packet id: log at warn, continue").
func (d *Dispatcher[S]) Dispatch(session S, id uint16, payload []byte, size uint16) bool {
	if id >= constants.MaxPacketID || d.handlers[id] == nil {
		slog.Warn("unhandled packet id", "id", id)
		return false
	}
	d.handlers[id](session, payload, size)
	return true
}
