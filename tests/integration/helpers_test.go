// Package integration drives Login, World, Gateway, and Game as real
// loopback TCP processes and exercises spec §8's end-to-end scenarios
// against them, the way la2go's own tests/integration suite drives real
// login.Server/gameserver.Server instances with testutil clients.
package integration

import (
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/l2core/backend/internal/constants"
	"github.com/l2core/backend/internal/protocol"
	"github.com/l2core/backend/internal/wire"
)

var portCounter int32 = 29000

// nextPortBlock reserves four consecutive loopback ports for one test's
// Game/Gateway/World/Login quartet, so parallel SetupTest calls never
// collide.
func nextPortBlock() (gamePort, gatewayPort, worldPort, loginPort int) {
	base := int(atomic.AddInt32(&portCounter, 4))
	return base - 3, base - 2, base - 1, base
}

func requireTCPReady(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server at %s did not become ready in time", addr)
}

func dialClient(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn net.Conn, id uint16, payload []byte) {
	t.Helper()
	require.NoError(t, protocol.WriteFrame(conn, id, payload))
}

func recvWithTimeout(t *testing.T, conn net.Conn, timeout time.Duration) (uint16, []byte, error) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	buf := make([]byte, constants.MaxFrameSize)
	frame, err := protocol.ReadFrame(conn, buf)
	if err != nil {
		return 0, nil, err
	}
	payload := make([]byte, len(frame.Payload))
	copy(payload, frame.Payload)
	return frame.ID, payload, nil
}

func recv(t *testing.T, conn net.Conn, timeout time.Duration) (uint16, []byte) {
	t.Helper()
	id, payload, err := recvWithTimeout(t, conn, timeout)
	require.NoError(t, err)
	return id, payload
}

// requireNoFrame asserts that no frame arrives on conn within wait —
// used for AOI-cutoff negative assertions.
func requireNoFrame(t *testing.T, conn net.Conn, wait time.Duration) {
	t.Helper()
	_, _, err := recvWithTimeout(t, conn, wait)
	require.Error(t, err)
	var netErr net.Error
	require.True(t, errors.As(err, &netErr) && netErr.Timeout(), "expected a read timeout, got %v", err)
}

// loginAndSelectWorld drives the client<->Login handshake to completion
// and returns World's reply (Gateway endpoint + session token).
func loginAndSelectWorld(t *testing.T, loginAddr, accountID, password string, worldID int32) wire.LoginClientWorldSelectRes {
	t.Helper()
	conn := dialClient(t, loginAddr)

	send(t, conn, constants.ClientLoginLoginReq, wire.LoginReq{ID: accountID, Password: password}.Encode())
	id, payload := recv(t, conn, 2*time.Second)
	require.Equal(t, constants.LoginClientLoginRes, id)
	loginRes, err := wire.DecodeLoginRes(payload)
	require.NoError(t, err)
	require.True(t, loginRes.Success, "login should succeed for a fresh account id")

	send(t, conn, constants.ClientLoginWorldSelectReq, wire.WorldSelectReq{WorldID: worldID}.Encode())
	id, payload = recv(t, conn, 2*time.Second)
	require.Equal(t, constants.LoginClientWorldSelectRes, id)
	res, err := wire.DecodeLoginClientWorldSelectRes(payload)
	require.NoError(t, err)
	return res
}

// connectGateway drives ConnectReq to completion and returns the live
// client connection.
func connectGateway(t *testing.T, gatewayAddr, accountID, token string) net.Conn {
	t.Helper()
	conn := dialClient(t, gatewayAddr)
	send(t, conn, constants.ClientGatewayConnectReq, wire.ConnectReq{AccountID: accountID, SessionToken: token}.Encode())
	id, payload := recv(t, conn, 2*time.Second)
	require.Equal(t, constants.GatewayClientConnectRes, id)
	res, err := wire.DecodeConnectRes(payload)
	require.NoError(t, err)
	require.True(t, res.Success)
	return conn
}

func move(t *testing.T, conn net.Conn, x, y, z, yaw int32) {
	t.Helper()
	send(t, conn, constants.ClientGatewayMoveReq, wire.MoveReq{X: x, Y: y, Z: z, Yaw: yaw}.Encode())
}

func attackTarget(t *testing.T, conn net.Conn, targetUID uint32) {
	t.Helper()
	send(t, conn, constants.ClientGatewayAttackReq, wire.AttackReq{TargetUID: targetUID}.Encode())
}

func recvMoveRes(t *testing.T, conn net.Conn, timeout time.Duration) wire.MoveRes {
	t.Helper()
	id, payload := recv(t, conn, timeout)
	require.Equal(t, constants.GatewayClientMoveRes, id)
	res, err := wire.DecodeMoveRes(payload)
	require.NoError(t, err)
	return res
}

func recvAttackRes(t *testing.T, conn net.Conn, timeout time.Duration) wire.AttackRes {
	t.Helper()
	id, payload := recv(t, conn, timeout)
	require.Equal(t, constants.GatewayClientAttackRes, id)
	res, err := wire.DecodeAttackRes(payload)
	require.NoError(t, err)
	return res
}

// waitForMoveRes reads MoveRes frames off conn until one matches
// accountID, or deadline elapses — used for the monster's periodic
// network-sync broadcast, whose arrival time depends on the tick loop.
func waitForMoveRes(t *testing.T, conn net.Conn, accountID string, overall time.Duration) wire.MoveRes {
	t.Helper()
	deadline := time.Now().Add(overall)
	for time.Now().Before(deadline) {
		remaining := time.Until(deadline)
		id, payload, err := recvWithTimeout(t, conn, remaining)
		if err != nil {
			break
		}
		if id != constants.GatewayClientMoveRes {
			continue
		}
		res, decodeErr := wire.DecodeMoveRes(payload)
		require.NoError(t, decodeErr)
		if res.AccountID == accountID {
			return res
		}
	}
	t.Fatalf("never received a MoveRes for account %q within %s", accountID, overall)
	return wire.MoveRes{}
}
