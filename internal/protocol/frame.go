// Package protocol implements the wire framing and O(1) packet dispatch
// shared by all four processes (spec §4.1, §4.2).
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/l2core/backend/internal/constants"
)

// Frame is one decoded wire message: the id that selects the handler and
// the payload bytes that follow the 4-byte header.
type Frame struct {
	ID      uint16
	Payload []byte
}

// ReadFrame reads one frame from r into buf and returns a Frame whose
// Payload aliases buf. buf must be at least constants.MaxFrameSize bytes.
//
// size is the TOTAL frame length including the 4-byte header (spec §4.1).
// A frame whose size falls outside [constants.MinFrameSize,
// constants.MaxFrameSize] is a protocol violation: the caller must close
// the connection without attempting to resynchronize.
func ReadFrame(r io.Reader, buf []byte) (Frame, error) {
	var header [constants.HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, fmt.Errorf("reading frame header: %w", err)
	}

	size := binary.LittleEndian.Uint16(header[0:2])
	id := binary.LittleEndian.Uint16(header[2:4])

	if size < constants.MinFrameSize || size > constants.MaxFrameSize {
		return Frame{}, fmt.Errorf("frame size %d out of bounds [%d,%d]", size, constants.MinFrameSize, constants.MaxFrameSize)
	}

	payloadLen := int(size) - constants.HeaderSize
	if payloadLen > len(buf) {
		return Frame{}, fmt.Errorf("frame payload %d exceeds buffer size %d", payloadLen, len(buf))
	}

	payload := buf[:payloadLen]
	if payloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, fmt.Errorf("reading frame payload: %w", err)
		}
	}

	return Frame{ID: id, Payload: payload}, nil
}

// WriteFrame writes id and payload to w as one frame, computing size as
// the total frame length (header included), per spec §4.1.
func WriteFrame(w io.Writer, id uint16, payload []byte) error {
	size := constants.HeaderSize + len(payload)
	if size > constants.MaxFrameSize {
		return fmt.Errorf("frame size %d exceeds max %d", size, constants.MaxFrameSize)
	}

	buf := make([]byte, size)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(size))
	binary.LittleEndian.PutUint16(buf[2:4], id)
	copy(buf[constants.HeaderSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
