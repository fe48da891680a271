package gateway

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l2core/backend/internal/constants"
	"github.com/l2core/backend/internal/protocol"
	"github.com/l2core/backend/internal/wire"
)

// newTestServer builds a Server wired to an in-memory Game link (net.Pipe)
// instead of dialing a real Game process, and returns the remote end so
// tests can observe what Gateway sends upstream.
func newTestServer(t *testing.T) (*Server, net.Conn) {
	t.Helper()
	gameSide, testSide := net.Pipe()

	sessions := newSessionMap()
	link := &gameLink{
		conn:       gameSide,
		writes:     make(chan frameToWrite, 64),
		done:       make(chan struct{}),
		dispatcher: buildGameLinkDispatcher(sessions),
	}
	go link.writeLoop()

	srv := &Server{sessions: sessions, link: link}
	srv.dispatcher = srv.buildClientDispatcher()

	t.Cleanup(func() { testSide.Close(); link.Close() })
	return srv, testSide
}

func readFrame(t *testing.T, conn net.Conn) protocol.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, constants.MaxFrameSize)
	frame, err := protocol.ReadFrame(conn, buf)
	require.NoError(t, err)
	return frame
}

func TestHandleConnectReq_RegistersSessionAndReplies(t *testing.T) {
	srv, _ := newTestServer(t)
	clientSide, testSide := net.Pipe()
	sess := newClientSession(clientSide)
	defer sess.Close()
	defer testSide.Close()

	req := wire.ConnectReq{AccountID: "AAA", SessionToken: "tok"}
	go srv.handleConnectReq(sess, req.Encode(), 0)

	frame := readFrame(t, testSide)
	assert.Equal(t, constants.GatewayClientConnectRes, frame.ID)
	res, err := wire.DecodeConnectRes(frame.Payload)
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, "AAA", sess.AccountID)
	got, ok := srv.sessions.Load("AAA")
	assert.True(t, ok)
	assert.Same(t, sess, got)
}

func TestHandleMoveReq_ForwardsToGameLink(t *testing.T) {
	srv, gameTestSide := newTestServer(t)
	sess := &ClientSession{AccountID: "AAA"}

	req := wire.MoveReq{X: 1, Y: 2, Z: 3, Yaw: 4}
	srv.handleMoveReq(sess, req.Encode(), 0)

	frame := readFrame(t, gameTestSide)
	assert.Equal(t, constants.GatewayGameMoveReq, frame.ID)
	got, err := wire.DecodeGatewayGameMoveReq(frame.Payload)
	require.NoError(t, err)
	assert.Equal(t, "AAA", got.AccountID)
	assert.Equal(t, int32(1), got.X)
}

func TestHandleChatReq_BroadcastsToAllSessions(t *testing.T) {
	srv, _ := newTestServer(t)

	aliceConn, aliceTest := net.Pipe()
	bobConn, bobTest := net.Pipe()
	defer aliceTest.Close()
	defer bobTest.Close()

	alice := newClientSession(aliceConn)
	bob := newClientSession(bobConn)
	defer alice.Close()
	defer bob.Close()
	alice.AccountID, bob.AccountID = "alice", "bob"
	srv.sessions.Store("alice", alice)
	srv.sessions.Store("bob", bob)

	go srv.handleChatReq(alice, wire.ChatReq{Msg: "hi"}.Encode(), 0)

	gotAlice := readFrame(t, aliceTest)
	gotBob := readFrame(t, bobTest)
	for _, f := range []protocol.Frame{gotAlice, gotBob} {
		assert.Equal(t, constants.GatewayClientChatRes, f.ID)
		res, err := wire.DecodeChatRes(f.Payload)
		require.NoError(t, err)
		assert.Equal(t, "alice", res.AccountID)
		assert.Equal(t, "hi", res.Msg)
	}
}

func TestOnDisconnect_FreesAccountAndSendsLeaveReq(t *testing.T) {
	srv, gameTestSide := newTestServer(t)
	clientConn, clientTest := net.Pipe()
	defer clientTest.Close()

	sess := newClientSession(clientConn)
	sess.AccountID = "AAA"
	srv.sessions.Store("AAA", sess)

	go srv.onDisconnect(sess)

	frame := readFrame(t, gameTestSide)
	assert.Equal(t, constants.GatewayGameLeaveReq, frame.ID)
	got, err := wire.DecodeGatewayGameLeaveReq(frame.Payload)
	require.NoError(t, err)
	assert.Equal(t, "AAA", got.AccountID)

	_, ok := srv.sessions.Load("AAA")
	assert.False(t, ok)
}

func TestOnDisconnect_NoAccountIsNoop(t *testing.T) {
	srv, _ := newTestServer(t)
	clientConn, clientTest := net.Pipe()
	defer clientTest.Close()
	sess := newClientSession(clientConn)

	assert.NotPanics(t, func() { srv.onDisconnect(sess) })
}

func TestGameLinkDispatcher_FansOutMoveResToTargets(t *testing.T) {
	srv, _ := newTestServer(t)

	clientConn, clientTest := net.Pipe()
	defer clientTest.Close()
	sess := newClientSession(clientConn)
	defer sess.Close()
	sess.AccountID = "AAA"
	srv.sessions.Store("AAA", sess)

	res := wire.GameGatewayMoveRes{
		AccountID: "AAA", X: 5, Y: 6, Z: 0, Yaw: 1,
		TargetAccountIDs: []string{"AAA"},
	}
	srv.link.dispatcher.Dispatch(srv.link, constants.GameGatewayMoveRes, res.Encode(), 0)

	frame := readFrame(t, clientTest)
	assert.Equal(t, constants.GatewayClientMoveRes, frame.ID)
	got, err := wire.DecodeMoveRes(frame.Payload)
	require.NoError(t, err)
	assert.Equal(t, "AAA", got.AccountID)
	assert.Equal(t, int32(5), got.X)
}

func TestGameLinkDispatcher_SkipsUnknownTarget(t *testing.T) {
	srv, _ := newTestServer(t)

	res := wire.GameGatewayMoveRes{
		AccountID: "AAA", TargetAccountIDs: []string{"ghost"},
	}
	assert.NotPanics(t, func() {
		srv.link.dispatcher.Dispatch(srv.link, constants.GameGatewayMoveRes, res.Encode(), 0)
	})
}

func TestSessionMap_StoreLoadDeleteCount(t *testing.T) {
	sm := newSessionMap()
	sess := &ClientSession{AccountID: "AAA"}
	sm.Store("AAA", sess)
	assert.Equal(t, 1, sm.Count())

	got, ok := sm.Load("AAA")
	assert.True(t, ok)
	assert.Same(t, sess, got)

	sm.Delete("AAA")
	assert.Equal(t, 0, sm.Count())
	_, ok = sm.Load("AAA")
	assert.False(t, ok)
}
