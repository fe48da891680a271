package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l2core/backend/internal/constants"
	"github.com/l2core/backend/internal/protocol"
)

func TestDispatcher_RegisterAndDispatch(t *testing.T) {
	d := protocol.NewDispatcher[string]()

	var gotSession string
	var gotPayload []byte
	require.NoError(t, d.Register(5, func(session string, payload []byte, size uint16) {
		gotSession = session
		gotPayload = payload
	}))

	ok := d.Dispatch("sess-1", 5, []byte("payload"), 11)
	assert.True(t, ok)
	assert.Equal(t, "sess-1", gotSession)
	assert.Equal(t, []byte("payload"), gotPayload)
}

func TestDispatcher_UnregisteredID(t *testing.T) {
	d := protocol.NewDispatcher[string]()
	ok := d.Dispatch("sess-1", 5, nil, 4)
	assert.False(t, ok)
}

func TestDispatcher_RejectsReservedID(t *testing.T) {
	d := protocol.NewDispatcher[string]()
	err := d.Register(constants.MaxPacketID, func(string, []byte, uint16) {})
	assert.Error(t, err)
}
