package protocol_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l2core/backend/internal/constants"
	"github.com/l2core/backend/internal/protocol"
)

func TestWriteReadFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, protocol.WriteFrame(&buf, 42, []byte("hello")))

	readBuf := make([]byte, constants.MaxFrameSize)
	frame, err := protocol.ReadFrame(&buf, readBuf)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), frame.ID)
	assert.Equal(t, []byte("hello"), frame.Payload)
}

func TestReadFrame_TooSmall(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{2, 0, 0, 0}) // size=2 < MinFrameSize

	readBuf := make([]byte, constants.MaxFrameSize)
	_, err := protocol.ReadFrame(&buf, readBuf)
	assert.Error(t, err)
}

func TestReadFrame_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0, 0}) // size=65535 > MaxFrameSize

	readBuf := make([]byte, constants.MaxFrameSize)
	_, err := protocol.ReadFrame(&buf, readBuf)
	assert.Error(t, err)
}

func TestWriteFrame_ExceedsMax(t *testing.T) {
	var buf bytes.Buffer
	big := make([]byte, constants.MaxFrameSize)
	err := protocol.WriteFrame(&buf, 1, big)
	assert.Error(t, err)
}

func TestReadFrame_EmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, protocol.WriteFrame(&buf, 7, nil))

	readBuf := make([]byte, constants.MaxFrameSize)
	frame, err := protocol.ReadFrame(&buf, readBuf)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), frame.ID)
	assert.Empty(t, frame.Payload)
}
