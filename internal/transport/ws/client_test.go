package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringwalk/internal/app"
)

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialTestServer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendCommand(t *testing.T, conn *websocket.Conn, msgType MessageType, payload any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	require.NoError(t, conn.WriteJSON(msg))
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wireMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil skips broadcasts until a message of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) wireMessage {
	t.Helper()
	for i := 0; i < 10; i++ {
		msg := readMessage(t, conn)
		if msg.Type == want {
			return msg
		}
	}
	t.Fatalf("never received %q", want)
	return wireMessage{}
}

func newGateway(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	directory := app.NewDirectory(6, 2, time.Hour, logger)
	t.Cleanup(directory.Close)

	srv := httptest.NewServer(NewHandler(directory, logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestGatewayCreateAndJoin(t *testing.T) {
	srv := newGateway(t)

	host := dialTestServer(t, srv)
	sendCommand(t, host, MsgCreateRoom, nil)

	created := readUntil(t, host, string(MsgRoomCreated))
	var createdPayload RoomCreatedPayload
	require.NoError(t, json.Unmarshal(created.Payload, &createdPayload))
	assert.Len(t, createdPayload.RoomCode, 6)
	assert.Len(t, createdPayload.Identities, 10)

	player := dialTestServer(t, srv)
	sendCommand(t, player, MsgJoinRoom, JoinRoomPayload{
		RoomCode: createdPayload.RoomCode,
		Name:     "Alice",
		Identity: "white_woman",
	})

	joined := readUntil(t, player, "joined-room")
	var joinedPayload struct {
		RoomCode string `json:"roomCode"`
	}
	require.NoError(t, json.Unmarshal(joined.Payload, &joinedPayload))
	assert.Equal(t, createdPayload.RoomCode, joinedPayload.RoomCode)

	// the roster broadcast reaches the host too
	readUntil(t, host, "room-updated")
}

func TestGatewayJoinUnknownRoom(t *testing.T) {
	srv := newGateway(t)

	conn := dialTestServer(t, srv)
	sendCommand(t, conn, MsgJoinRoom, JoinRoomPayload{RoomCode: "NOSUCH", Name: "Alice", Identity: "neutral"})

	msg := readUntil(t, conn, string(MsgError))
	var errPayload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &errPayload))
	assert.Equal(t, ErrCodeRoomNotFound, errPayload.Code)
}

func TestGatewayRejectsMalformedCommands(t *testing.T) {
	srv := newGateway(t)
	conn := dialTestServer(t, srv)

	t.Run("unknown type", func(t *testing.T) {
		sendCommand(t, conn, "teleport", nil)
		msg := readUntil(t, conn, string(MsgError))
		var errPayload ErrorPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &errPayload))
		assert.Equal(t, ErrCodeInvalidMessage, errPayload.Code)
	})

	t.Run("command before joining a room", func(t *testing.T) {
		sendCommand(t, conn, MsgStartGame, StartGamePayload{Level: "basic"})
		msg := readUntil(t, conn, string(MsgError))
		var errPayload ErrorPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &errPayload))
		assert.Equal(t, ErrCodeNotInRoom, errPayload.Code)
	})

	t.Run("ping is always answered", func(t *testing.T) {
		sendCommand(t, conn, MsgPing, nil)
		readUntil(t, conn, string(MsgPong))
	})
}

func TestGatewayListIdentities(t *testing.T) {
	srv := newGateway(t)
	conn := dialTestServer(t, srv)

	sendCommand(t, conn, MsgListIdentities, nil)
	msg := readUntil(t, conn, string(MsgIdentities))

	var payload IdentitiesPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Len(t, payload.Identities, 10)
}
